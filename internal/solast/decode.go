package solast

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// DecodeSourceUnit turns the front-end parser's JSON tree into the typed
// node set. Malformed JSON and a wrong root node are the only hard failures;
// node kinds outside the supported subset decode into Unsupported* stand-ins
// so the later passes can report them with positions instead of losing them
// here.
func DecodeSourceUnit(data []byte) (*SourceUnit, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode source unit")
	}
	if tag := nodeTag(raw); tag != "SourceUnit" {
		return nil, errors.Errorf("decode source unit: root node is %q, want SourceUnit", tag)
	}
	unit := &SourceUnit{Pos: posOf(raw), EndPos: endPosOf(raw)}
	for _, child := range objList(raw, "children") {
		if item := decodeUnitItem(child); item != nil {
			unit.Children = append(unit.Children, item)
		}
	}
	return unit, nil
}

func nodeTag(m map[string]any) string {
	tag, _ := m["type"].(string)
	return tag
}

func strField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func obj(m map[string]any, key string) map[string]any {
	o, _ := m[key].(map[string]any)
	return o
}

func objList(m map[string]any, key string) []map[string]any {
	raw, _ := m[key].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, e := range raw {
		if o, ok := e.(map[string]any); ok {
			out = append(out, o)
		}
	}
	return out
}

func intField(m map[string]any, key string) int {
	f, _ := m[key].(float64)
	return int(f)
}

func posOf(m map[string]any) Position {
	p := Position{}
	if loc := obj(m, "loc"); loc != nil {
		if start := obj(loc, "start"); start != nil {
			p.Line = intField(start, "line")
			p.Column = intField(start, "column")
		}
	}
	if rng, ok := m["range"].([]any); ok && len(rng) == 2 {
		if f, ok := rng[0].(float64); ok {
			p.Offset = int(f)
		}
	}
	return p
}

func endPosOf(m map[string]any) Position {
	p := Position{}
	if loc := obj(m, "loc"); loc != nil {
		if end := obj(loc, "end"); end != nil {
			p.Line = intField(end, "line")
			p.Column = intField(end, "column")
		}
	}
	if rng, ok := m["range"].([]any); ok && len(rng) == 2 {
		if f, ok := rng[1].(float64); ok {
			p.Offset = int(f)
		}
	}
	return p
}

func decodeUnitItem(m map[string]any) UnitItem {
	switch nodeTag(m) {
	case "PragmaDirective":
		return &PragmaDirective{
			Pos: posOf(m), EndPos: endPosOf(m),
			Name:  strField(m, "name"),
			Value: strField(m, "value"),
		}
	case "ImportDirective":
		return &ImportDirective{Pos: posOf(m), EndPos: endPosOf(m), Path: strField(m, "path")}
	case "ContractDefinition":
		return decodeContract(m)
	case "StructDefinition":
		return decodeStruct(m)
	case "EnumDefinition":
		return decodeEnum(m)
	case "CustomErrorDefinition":
		return decodeCustomError(m)
	case "FileLevelConstant":
		return &FileLevelConstant{
			Pos: posOf(m), EndPos: endPosOf(m),
			TypeName:     decodeTypeName(obj(m, "typeName")),
			Name:         strField(m, "name"),
			InitialValue: decodeOptionalExpr(m, "initialValue"),
		}
	case "FunctionDefinition":
		return decodeFunction(m)
	case "UsingForDeclaration":
		return decodeUsingFor(m)
	}
	return nil
}

func decodeContract(m map[string]any) *ContractDefinition {
	c := &ContractDefinition{
		Pos: posOf(m), EndPos: endPosOf(m),
		Name: strField(m, "name"),
		Kind: strField(m, "kind"),
	}
	for _, base := range objList(m, "baseContracts") {
		spec := &InheritanceSpecifier{Pos: posOf(base), EndPos: endPosOf(base)}
		if bn := obj(base, "baseName"); bn != nil {
			spec.BaseName = &UserDefinedTypeName{
				Pos: posOf(bn), EndPos: endPosOf(bn),
				NamePath: strField(bn, "namePath"),
			}
		}
		for _, arg := range objList(base, "arguments") {
			spec.Arguments = append(spec.Arguments, decodeExpr(arg))
		}
		c.BaseContracts = append(c.BaseContracts, spec)
	}
	for _, sub := range objList(m, "subNodes") {
		if part := decodeContractPart(sub); part != nil {
			c.SubNodes = append(c.SubNodes, part)
		}
	}
	return c
}

func decodeContractPart(m map[string]any) ContractPart {
	switch nodeTag(m) {
	case "StateVariableDeclaration":
		d := &StateVariableDeclaration{
			Pos: posOf(m), EndPos: endPosOf(m),
			InitialValue: decodeOptionalExpr(m, "initialValue"),
		}
		for _, v := range objList(m, "variables") {
			d.Variables = append(d.Variables, decodeVariable(v))
		}
		return d
	case "FunctionDefinition":
		return decodeFunction(m)
	case "ModifierDefinition":
		return &ModifierDefinition{
			Pos: posOf(m), EndPos: endPosOf(m),
			Name:       strField(m, "name"),
			Parameters: decodeParams(m, "parameters"),
			Body:       decodeBlock(obj(m, "body")),
			IsVirtual:  boolField(m, "isVirtual"),
			Override:   m["override"] != nil,
		}
	case "EventDefinition":
		return &EventDefinition{
			Pos: posOf(m), EndPos: endPosOf(m),
			Name:        strField(m, "name"),
			Parameters:  decodeParams(m, "parameters"),
			IsAnonymous: boolField(m, "isAnonymous"),
		}
	case "CustomErrorDefinition":
		return decodeCustomError(m)
	case "StructDefinition":
		return decodeStruct(m)
	case "EnumDefinition":
		return decodeEnum(m)
	case "UsingForDeclaration":
		return decodeUsingFor(m)
	}
	return nil
}

func decodeStruct(m map[string]any) *StructDefinition {
	s := &StructDefinition{Pos: posOf(m), EndPos: endPosOf(m), Name: strField(m, "name")}
	for _, member := range objList(m, "members") {
		s.Members = append(s.Members, decodeVariable(member))
	}
	return s
}

func decodeEnum(m map[string]any) *EnumDefinition {
	e := &EnumDefinition{Pos: posOf(m), EndPos: endPosOf(m), Name: strField(m, "name")}
	for _, member := range objList(m, "members") {
		e.Members = append(e.Members, &EnumValue{
			Pos: posOf(member), EndPos: endPosOf(member),
			Name: strField(member, "name"),
		})
	}
	return e
}

func decodeCustomError(m map[string]any) *CustomErrorDefinition {
	return &CustomErrorDefinition{
		Pos: posOf(m), EndPos: endPosOf(m),
		Name:       strField(m, "name"),
		Parameters: decodeParams(m, "parameters"),
	}
}

func decodeUsingFor(m map[string]any) *UsingForDeclaration {
	return &UsingForDeclaration{
		Pos: posOf(m), EndPos: endPosOf(m),
		LibraryName: strField(m, "libraryName"),
		TypeName:    decodeTypeName(obj(m, "typeName")),
	}
}

func decodeFunction(m map[string]any) *FunctionDefinition {
	f := &FunctionDefinition{
		Pos: posOf(m), EndPos: endPosOf(m),
		Name:             strField(m, "name"),
		Parameters:       decodeParams(m, "parameters"),
		ReturnParameters: decodeParams(m, "returnParameters"),
		Body:             decodeBlock(obj(m, "body")),
		Visibility:       strField(m, "visibility"),
		StateMutability:  strField(m, "stateMutability"),
		IsConstructor:    boolField(m, "isConstructor"),
		IsReceiveEther:   boolField(m, "isReceiveEther"),
		IsFallback:       boolField(m, "isFallback"),
		IsVirtual:        boolField(m, "isVirtual"),
		Override:         m["override"] != nil,
	}
	for _, mod := range objList(m, "modifiers") {
		mi := &ModifierInvocation{
			Pos: posOf(mod), EndPos: endPosOf(mod),
			Name: strField(mod, "name"),
		}
		if _, present := mod["arguments"]; present && mod["arguments"] != nil {
			mi.Arguments = []Expression{}
			for _, arg := range objList(mod, "arguments") {
				mi.Arguments = append(mi.Arguments, decodeExpr(arg))
			}
		}
		f.Modifiers = append(f.Modifiers, mi)
	}
	return f
}

func decodeParams(m map[string]any, key string) []*VariableDeclaration {
	var out []*VariableDeclaration
	for _, p := range objList(m, key) {
		out = append(out, decodeVariable(p))
	}
	return out
}

func decodeVariable(m map[string]any) *VariableDeclaration {
	return &VariableDeclaration{
		Pos: posOf(m), EndPos: endPosOf(m),
		Name:            strField(m, "name"),
		TypeName:        decodeTypeName(obj(m, "typeName")),
		TypeString:      strField(m, "typeString"),
		Visibility:      strField(m, "visibility"),
		StorageLocation: strField(m, "storageLocation"),
		IsStateVar:      boolField(m, "isStateVar"),
		IsDeclaredConst: boolField(m, "isDeclaredConst"),
		IsImmutable:     boolField(m, "isImmutable"),
		IsIndexed:       boolField(m, "isIndexed"),
		Expression:      decodeOptionalExpr(m, "expression"),
	}
}

func decodeTypeName(m map[string]any) TypeName {
	if m == nil {
		return nil
	}
	switch nodeTag(m) {
	case "ElementaryTypeName":
		return &ElementaryTypeName{
			Pos: posOf(m), EndPos: endPosOf(m),
			Name:            strField(m, "name"),
			StateMutability: strField(m, "stateMutability"),
		}
	case "UserDefinedTypeName":
		return &UserDefinedTypeName{Pos: posOf(m), EndPos: endPosOf(m), NamePath: strField(m, "namePath")}
	case "Mapping":
		return &Mapping{
			Pos: posOf(m), EndPos: endPosOf(m),
			KeyType:   decodeTypeName(obj(m, "keyType")),
			ValueType: decodeTypeName(obj(m, "valueType")),
		}
	case "ArrayTypeName":
		return &ArrayTypeName{
			Pos: posOf(m), EndPos: endPosOf(m),
			BaseTypeName: decodeTypeName(obj(m, "baseTypeName")),
			Length:       decodeOptionalExpr(m, "length"),
		}
	case "FunctionTypeName":
		return &FunctionTypeName{Pos: posOf(m), EndPos: endPosOf(m)}
	}
	return nil
}

func decodeBlock(m map[string]any) *Block {
	if m == nil {
		return nil
	}
	b := &Block{Pos: posOf(m), EndPos: endPosOf(m)}
	for _, s := range objList(m, "statements") {
		b.Statements = append(b.Statements, decodeStmt(s))
	}
	return b
}

func decodeStmt(m map[string]any) Statement {
	switch nodeTag(m) {
	case "Block":
		return decodeBlock(m)
	case "ExpressionStatement":
		return &ExpressionStatement{
			Pos: posOf(m), EndPos: endPosOf(m),
			Expression: decodeOptionalExpr(m, "expression"),
		}
	case "VariableDeclarationStatement":
		d := &VariableDeclarationStatement{
			Pos: posOf(m), EndPos: endPosOf(m),
			InitialValue: decodeOptionalExpr(m, "initialValue"),
		}
		if raw, ok := m["variables"].([]any); ok {
			for _, e := range raw {
				// nil holes mark discarded tuple positions
				if o, ok := e.(map[string]any); ok {
					d.Variables = append(d.Variables, decodeVariable(o))
				} else {
					d.Variables = append(d.Variables, nil)
				}
			}
		}
		return d
	case "IfStatement":
		return &IfStatement{
			Pos: posOf(m), EndPos: endPosOf(m),
			Condition: decodeOptionalExpr(m, "condition"),
			TrueBody:  decodeOptionalStmt(m, "trueBody"),
			FalseBody: decodeOptionalStmt(m, "falseBody"),
		}
	case "WhileStatement":
		return &WhileStatement{
			Pos: posOf(m), EndPos: endPosOf(m),
			Condition: decodeOptionalExpr(m, "condition"),
			Body:      decodeOptionalStmt(m, "body"),
		}
	case "DoWhileStatement":
		return &DoWhileStatement{
			Pos: posOf(m), EndPos: endPosOf(m),
			Condition: decodeOptionalExpr(m, "condition"),
			Body:      decodeOptionalStmt(m, "body"),
		}
	case "ForStatement":
		return &ForStatement{
			Pos: posOf(m), EndPos: endPosOf(m),
			InitExpression:      decodeOptionalStmt(m, "initExpression"),
			ConditionExpression: decodeOptionalExpr(m, "conditionExpression"),
			LoopExpression:      decodeOptionalStmt(m, "loopExpression"),
			Body:                decodeOptionalStmt(m, "body"),
		}
	case "ReturnStatement":
		return &ReturnStatement{
			Pos: posOf(m), EndPos: endPosOf(m),
			Expression: decodeOptionalExpr(m, "expression"),
		}
	case "EmitStatement":
		s := &EmitStatement{Pos: posOf(m), EndPos: endPosOf(m)}
		if call, ok := decodeExpr(obj(m, "eventCall")).(*FunctionCall); ok {
			s.EventCall = call
		}
		return s
	case "RevertStatement":
		s := &RevertStatement{Pos: posOf(m), EndPos: endPosOf(m)}
		if call, ok := decodeExpr(obj(m, "revertCall")).(*FunctionCall); ok {
			s.RevertCall = call
		}
		return s
	case "BreakStatement":
		return &BreakStatement{Pos: posOf(m), EndPos: endPosOf(m)}
	case "ContinueStatement":
		return &ContinueStatement{Pos: posOf(m), EndPos: endPosOf(m)}
	case "ThrowStatement":
		return &ThrowStatement{Pos: posOf(m), EndPos: endPosOf(m)}
	case "PlaceholderStatement":
		return &PlaceholderStatement{Pos: posOf(m), EndPos: endPosOf(m)}
	case "UncheckedStatement":
		return &UncheckedStatement{
			Pos: posOf(m), EndPos: endPosOf(m),
			Block: decodeBlock(obj(m, "block")),
		}
	case "InLineAssemblyStatement", "InlineAssemblyStatement":
		return &InlineAssemblyStatement{
			Pos: posOf(m), EndPos: endPosOf(m),
			Language: strField(m, "language"),
			Body:     decodeAsmBlock(obj(m, "body")),
		}
	}
	return &UnsupportedStatement{Pos: posOf(m), EndPos: endPosOf(m), TypeTag: nodeTag(m)}
}

func decodeOptionalStmt(m map[string]any, key string) Statement {
	o := obj(m, key)
	if o == nil {
		return nil
	}
	return decodeStmt(o)
}

func decodeOptionalExpr(m map[string]any, key string) Expression {
	o := obj(m, key)
	if o == nil {
		return nil
	}
	return decodeExpr(o)
}

func decodeExpr(m map[string]any) Expression {
	if m == nil {
		return nil
	}
	switch nodeTag(m) {
	case "BinaryOperation":
		return &BinaryOperation{
			Pos: posOf(m), EndPos: endPosOf(m),
			Operator: strField(m, "operator"),
			Left:     decodeExpr(obj(m, "left")),
			Right:    decodeExpr(obj(m, "right")),
		}
	case "UnaryOperation":
		return &UnaryOperation{
			Pos: posOf(m), EndPos: endPosOf(m),
			Operator:      strField(m, "operator"),
			SubExpression: decodeExpr(obj(m, "subExpression")),
			IsPrefix:      boolField(m, "isPrefix"),
		}
	case "FunctionCall":
		c := &FunctionCall{
			Pos: posOf(m), EndPos: endPosOf(m),
			Expression: decodeExpr(obj(m, "expression")),
		}
		for _, arg := range objList(m, "arguments") {
			c.Arguments = append(c.Arguments, decodeExpr(arg))
		}
		if names, ok := m["names"].([]any); ok {
			for _, n := range names {
				if s, ok := n.(string); ok {
					c.Names = append(c.Names, s)
				}
			}
		}
		return c
	case "NameValueExpression":
		e := &NameValueExpression{
			Pos: posOf(m), EndPos: endPosOf(m),
			Expression: decodeExpr(obj(m, "expression")),
		}
		if args := obj(m, "arguments"); args != nil {
			if names, ok := args["names"].([]any); ok {
				for _, n := range names {
					if s, ok := n.(string); ok {
						e.Names = append(e.Names, s)
					}
				}
			}
			for _, v := range objList(args, "args") {
				e.Values = append(e.Values, decodeExpr(v))
			}
		}
		return e
	case "MemberAccess":
		return &MemberAccess{
			Pos: posOf(m), EndPos: endPosOf(m),
			Expression: decodeExpr(obj(m, "expression")),
			MemberName: strField(m, "memberName"),
		}
	case "IndexAccess":
		return &IndexAccess{
			Pos: posOf(m), EndPos: endPosOf(m),
			Base:  decodeExpr(obj(m, "base")),
			Index: decodeExpr(obj(m, "index")),
		}
	case "Identifier":
		return &Identifier{Pos: posOf(m), EndPos: endPosOf(m), Name: strField(m, "name")}
	case "NumberLiteral":
		return &NumberLiteral{
			Pos: posOf(m), EndPos: endPosOf(m),
			Number:          strField(m, "number"),
			Subdenomination: strField(m, "subdenomination"),
		}
	case "BooleanLiteral":
		return &BooleanLiteral{Pos: posOf(m), EndPos: endPosOf(m), Value: boolField(m, "value")}
	case "StringLiteral":
		return &StringLiteral{Pos: posOf(m), EndPos: endPosOf(m), Value: strField(m, "value")}
	case "HexLiteral":
		return &HexLiteral{Pos: posOf(m), EndPos: endPosOf(m), Value: strField(m, "value")}
	case "TupleExpression":
		t := &TupleExpression{
			Pos: posOf(m), EndPos: endPosOf(m),
			IsArray: boolField(m, "isArray"),
		}
		if raw, ok := m["components"].([]any); ok {
			for _, e := range raw {
				if o, ok := e.(map[string]any); ok {
					t.Components = append(t.Components, decodeExpr(o))
				} else {
					t.Components = append(t.Components, nil)
				}
			}
		}
		return t
	case "Conditional":
		return &Conditional{
			Pos: posOf(m), EndPos: endPosOf(m),
			Condition:       decodeExpr(obj(m, "condition")),
			TrueExpression:  decodeExpr(obj(m, "trueExpression")),
			FalseExpression: decodeExpr(obj(m, "falseExpression")),
		}
	case "NewExpression":
		return &NewExpression{
			Pos: posOf(m), EndPos: endPosOf(m),
			TypeName: decodeTypeName(obj(m, "typeName")),
		}
	case "ElementaryTypeNameExpression":
		e := &ElementaryTypeNameExpression{Pos: posOf(m), EndPos: endPosOf(m)}
		if tn, ok := decodeTypeName(obj(m, "typeName")).(*ElementaryTypeName); ok {
			e.TypeName = tn
		}
		return e
	}
	return &UnsupportedExpression{Pos: posOf(m), EndPos: endPosOf(m), TypeTag: nodeTag(m)}
}

func decodeAsmBlock(m map[string]any) *AssemblyBlock {
	if m == nil {
		return nil
	}
	b := &AssemblyBlock{Pos: posOf(m), EndPos: endPosOf(m)}
	for _, op := range objList(m, "operations") {
		b.Operations = append(b.Operations, decodeAsmNode(op))
	}
	return b
}

func decodeAsmNode(m map[string]any) AsmNode {
	switch tag := nodeTag(m); tag {
	case "AssemblyBlock":
		return decodeAsmBlock(m)
	case "AssemblyCall", "AssemblyExpression":
		c := &AssemblyCall{
			Pos: posOf(m), EndPos: endPosOf(m),
			FunctionName: strField(m, "functionName"),
		}
		for _, arg := range objList(m, "arguments") {
			c.Arguments = append(c.Arguments, decodeAsmNode(arg))
		}
		return c
	case "AssemblyLocalDefinition":
		d := &AssemblyLocalDefinition{Pos: posOf(m), EndPos: endPosOf(m)}
		for _, n := range objList(m, "names") {
			d.Names = append(d.Names, strField(n, "name"))
		}
		if e := obj(m, "expression"); e != nil {
			d.Expression = decodeAsmNode(e)
		}
		return d
	case "AssemblyAssignment":
		a := &AssemblyAssignment{Pos: posOf(m), EndPos: endPosOf(m)}
		for _, n := range objList(m, "names") {
			a.Names = append(a.Names, strField(n, "name"))
		}
		a.Expression = decodeAsmNodeNil(obj(m, "expression"))
		return a
	case "AssemblyIf":
		return &AssemblyIf{
			Pos: posOf(m), EndPos: endPosOf(m),
			Condition: decodeAsmNodeNil(obj(m, "condition")),
			Body:      decodeAsmBlock(obj(m, "body")),
		}
	case "AssemblyFor":
		return &AssemblyFor{
			Pos: posOf(m), EndPos: endPosOf(m),
			Pre:       decodeAsmBlock(obj(m, "pre")),
			Condition: decodeAsmNodeNil(obj(m, "condition")),
			Post:      decodeAsmBlock(obj(m, "post")),
			Body:      decodeAsmBlock(obj(m, "body")),
		}
	case "AssemblySwitch":
		s := &AssemblySwitch{
			Pos: posOf(m), EndPos: endPosOf(m),
			Expression: decodeAsmNodeNil(obj(m, "expression")),
		}
		for _, c := range objList(m, "cases") {
			arm := &AssemblyCase{Pos: posOf(c), EndPos: endPosOf(c), Block: decodeAsmBlock(obj(c, "block"))}
			if v := obj(c, "value"); v != nil && !boolField(c, "default") {
				if lit, ok := decodeAsmNode(v).(*AsmLiteral); ok {
					arm.Value = lit
				}
			}
			s.Cases = append(s.Cases, arm)
		}
		return s
	case "DecimalNumber", "HexNumber":
		return &AsmLiteral{Pos: posOf(m), EndPos: endPosOf(m), TypeTag: tag, Value: strField(m, "value")}
	case "StringLiteral":
		return &AsmLiteral{Pos: posOf(m), EndPos: endPosOf(m), TypeTag: tag, Value: strField(m, "value")}
	case "Identifier":
		// bare Yul name outside call position
		return &AssemblyCall{Pos: posOf(m), EndPos: endPosOf(m), FunctionName: strField(m, "name")}
	}
	return &UnsupportedAssembly{Pos: posOf(m), EndPos: endPosOf(m), TypeTag: nodeTag(m)}
}

func decodeAsmNodeNil(m map[string]any) AsmNode {
	if m == nil {
		return nil
	}
	return decodeAsmNode(m)
}
