package typemap

import (
	"regexp"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

// Degraded inputs sometimes carry only a rendered type descriptor instead
// of a structured annotation. This grammar covers the descriptor surface
// the front end emits: elementary and user-defined names, `address
// payable`, mapping(...) nesting and array suffixes.

var typeLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Arrow", `=>`, nil},
		{"Ident", `[a-zA-Z_$][a-zA-Z0-9_$.]*`, nil},
		{"Integer", `[0-9]+`, nil},
		{"Punct", `[()\[\]]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

type typeExpr struct {
	Core     *typeCore      `@@`
	Suffixes []*arraySuffix `@@*`
}

type typeCore struct {
	Mapping *mappingType `  @@`
	Name    string       `| @Ident`
	Payable bool         `@"payable"?`
}

type mappingType struct {
	Key   *typeExpr `"mapping" "(" @@`
	Value *typeExpr `"=>" @@ ")"`
}

type arraySuffix struct {
	Length string `"[" @Integer? "]"`
}

var typeStringParser = participle.MustBuild[typeExpr](
	participle.Lexer(typeLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

var elementaryNameRe = regexp.MustCompile(`^(u?int[0-9]*|bytes[0-9]*|bool|address|string)$`)

// ParseTypeString parses a type descriptor into the same annotation nodes
// the structured decode produces, so one mapping path serves both inputs.
func ParseTypeString(s string) (solast.TypeName, error) {
	expr, err := typeStringParser.ParseString("", s)
	if err != nil {
		return nil, errors.Wrapf(err, "parse type descriptor %q", s)
	}
	return expr.toTypeName(), nil
}

func (t *typeExpr) toTypeName() solast.TypeName {
	base := t.Core.toTypeName()
	for _, suffix := range t.Suffixes {
		arr := &solast.ArrayTypeName{BaseTypeName: base}
		if suffix.Length != "" {
			arr.Length = &solast.NumberLiteral{Number: suffix.Length}
		}
		base = arr
	}
	return base
}

func (c *typeCore) toTypeName() solast.TypeName {
	if c.Mapping != nil {
		return &solast.Mapping{
			KeyType:   c.Mapping.Key.toTypeName(),
			ValueType: c.Mapping.Value.toTypeName(),
		}
	}
	if elementaryNameRe.MatchString(c.Name) {
		et := &solast.ElementaryTypeName{Name: c.Name}
		if c.Payable {
			et.StateMutability = "payable"
		}
		return et
	}
	return &solast.UserDefinedTypeName{NamePath: c.Name}
}
