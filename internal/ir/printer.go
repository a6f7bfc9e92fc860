package ir

import (
	"fmt"
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

// Printer renders a contract record as a stable textual dump, used by the
// CLI's --dump-ir flag and by tests comparing flattening results.
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// Print returns the dump of one contract record.
func Print(c *Contract) string {
	p := NewPrinter()
	p.printContract(c)
	return p.output.String()
}

func (p *Printer) line(format string, args ...any) {
	p.output.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.output, format, args...)
	p.output.WriteByte('\n')
}

func (p *Printer) printContract(c *Contract) {
	header := c.Kind + " " + c.Name
	if len(c.Parents) > 0 {
		header += " is " + strings.Join(c.Parents, ", ")
	}
	p.line("%s {", header)
	p.indent++

	for _, pragma := range c.Pragmas {
		p.line("pragma %s %s", pragma.Name, pragma.Value)
	}
	for _, v := range c.StateVars {
		extra := ""
		if v.Mutability != Mutable {
			extra = " [" + v.Mutability.String() + "]"
		}
		if v.Initial != nil {
			extra += " = <init>"
		}
		p.line("state %s: %s %s%s", v.Name, typeOrDescriptor(v), v.Visibility, extra)
	}
	if c.Constructor != nil {
		p.line("constructor(%s)", paramList(c.Constructor.Params))
	}
	for _, f := range c.Functions {
		p.printFunction(f)
	}
	for _, m := range c.Modifiers {
		p.line("modifier %s(%s)", m.Name, paramList(m.Params))
	}
	for _, e := range c.Events {
		var params []string
		for _, param := range e.Params {
			s := param.Name + ": " + TypeString(param.Type)
			if param.Indexed {
				s += " indexed"
			}
			params = append(params, s)
		}
		p.line("event %s(%s)", e.Name, strings.Join(params, ", "))
	}
	for _, e := range c.Errors {
		p.line("error %s(%s)", e.Name, paramList(e.Params))
	}
	for _, s := range c.Structs {
		p.line("struct %s { %s }", s.Name, paramList(s.Fields))
	}
	for _, e := range c.Enums {
		p.line("enum %s { %s }", e.Name, strings.Join(e.Members, ", "))
	}
	for _, u := range c.UsingFor {
		target := "*"
		if u.Type != nil {
			target = TypeString(u.Type)
		}
		p.line("using %s for %s", u.Library, target)
	}

	p.indent--
	p.line("}")
}

func (p *Printer) printFunction(f *Function) {
	attrs := []string{f.Visibility}
	if f.Mutability != "" {
		attrs = append(attrs, f.Mutability)
	}
	for _, m := range f.Modifiers {
		attrs = append(attrs, m.Name)
	}
	sig := fmt.Sprintf("fn %s(%s) %s", f.Name, paramList(f.Params), strings.Join(attrs, " "))
	if len(f.Returns) > 0 {
		sig += " -> (" + paramList(f.Returns) + ")"
	}
	if f.Body == nil {
		sig += " <unimplemented>"
	}
	p.line("%s", sig)
}

func paramList(params []*Param) string {
	var parts []string
	for _, param := range params {
		if param.Name != "" {
			parts = append(parts, param.Name+": "+TypeString(param.Type))
		} else {
			parts = append(parts, TypeString(param.Type))
		}
	}
	return strings.Join(parts, ", ")
}

func typeOrDescriptor(v *StateVar) string {
	if v.Type != nil {
		return TypeString(v.Type)
	}
	if v.TypeString != "" {
		return v.TypeString
	}
	return "<none>"
}

// TypeString renders a type annotation in source spelling. It backs dedup
// keys and diagnostics as well as the dump.
func TypeString(tn solast.TypeName) string {
	switch t := tn.(type) {
	case nil:
		return "<none>"
	case *solast.ElementaryTypeName:
		if t.StateMutability != "" {
			return t.Name + " " + t.StateMutability
		}
		return t.Name
	case *solast.UserDefinedTypeName:
		return t.NamePath
	case *solast.Mapping:
		return "mapping(" + TypeString(t.KeyType) + " => " + TypeString(t.ValueType) + ")"
	case *solast.ArrayTypeName:
		base := TypeString(t.BaseTypeName)
		if lit, ok := t.Length.(*solast.NumberLiteral); ok {
			return base + "[" + lit.Number + "]"
		}
		return base + "[]"
	case *solast.FunctionTypeName:
		return "function"
	}
	return "<unknown>"
}
