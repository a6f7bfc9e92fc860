package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

func constVar(name, typ string, initial solast.Expression) *ir.StateVar {
	v := stateVar(name, typ)
	v.Mutability = ir.Constant
	v.Initial = initial
	return v
}

func bin(op string, left, right solast.Expression) *solast.BinaryOperation {
	return &solast.BinaryOperation{Operator: op, Left: left, Right: right}
}

func typeBound(typ, member string) solast.Expression {
	return &solast.MemberAccess{
		Expression: &solast.FunctionCall{
			Expression: ident("type"),
			Arguments:  []solast.Expression{&solast.ElementaryTypeNameExpression{TypeName: uintType(typ)}},
		},
		MemberName: member,
	}
}

func constValue(tb testing.TB, m *moveast.Module, name string) string {
	tb.Helper()
	decl := findConst(m, name)
	require.NotNil(tb, decl, "constant %s missing", name)
	lit, ok := decl.Value.(*moveast.IntLit)
	require.True(tb, ok, "constant %s is not an integer literal", name)
	return lit.Value
}

func TestConstantInitializersFold(t *testing.T) {
	c := contract("Math", []*ir.StateVar{
		constVar("base", "uint256", num("2")),
		constVar("derived", "uint256", bin("+", bin("*", ident("base"), num("3")), num("1"))),
	})
	res := transform(t, c)
	require.True(t, res.Success)
	assert.Empty(t, res.Warnings)

	assert.Equal(t, "2", constValue(t, res.Module, "BASE"))
	assert.Equal(t, "7", constValue(t, res.Module, "DERIVED"))
	assert.Equal(t, "u256", findConst(res.Module, "DERIVED").Type.TypeString())
	assert.Nil(t, findStruct(res.Module, "State"), "constants never claim storage")
}

func TestConstantMayReferenceLaterDeclaration(t *testing.T) {
	c := contract("Fwd", []*ir.StateVar{
		constVar("double", "uint256", bin("*", ident("unit"), num("2"))),
		constVar("unit", "uint256", num("21")),
	})
	res := transform(t, c)
	require.True(t, res.Success)
	assert.Equal(t, "42", constValue(t, res.Module, "DOUBLE"))
}

func TestTypeBoundsFold(t *testing.T) {
	c := contract("Bounds", []*ir.StateVar{
		constVar("top", "uint8", typeBound("uint8", "max")),
		constVar("floor", "uint8", typeBound("uint8", "min")),
		constVar("half", "uint8", typeBound("int8", "max")),
	})
	res := transform(t, c)
	require.True(t, res.Success)

	assert.Equal(t, "255", constValue(t, res.Module, "TOP"))
	assert.Equal(t, "0", constValue(t, res.Module, "FLOOR"))
	assert.Equal(t, "127", constValue(t, res.Module, "HALF"), "signed bounds halve the range")
}

func TestBooleanAndStringConstantsFold(t *testing.T) {
	c := contract("Mixed", []*ir.StateVar{
		constVar("live", "bool", bin("&&", bin("<", num("1"), num("2")), &solast.BooleanLiteral{Value: true})),
		constVar("tag", "string", &solast.StringLiteral{Value: "vault"}),
	})
	res := transform(t, c)
	require.True(t, res.Success)

	live := findConst(res.Module, "LIVE")
	require.NotNil(t, live)
	assert.True(t, live.Value.(*moveast.BoolLit).Value)

	tag := findConst(res.Module, "TAG")
	require.NotNil(t, tag)
	assert.Equal(t, "vector<u8>", tag.Type.TypeString(), "constant strings stay raw bytes")
	assert.Equal(t, "vault", tag.Value.(*moveast.ByteStringLit).Value)
}

func TestEnumMemberOrdinalFolds(t *testing.T) {
	c := contract("Staged", []*ir.StateVar{
		constVar("initial", "uint8", &solast.MemberAccess{Expression: ident("Phase"), MemberName: "Active"}),
	})
	c.Enums = []*ir.EnumDef{{Name: "Phase", Members: []string{"Idle", "Active", "Done"}}}

	res := transform(t, c)
	require.True(t, res.Success)
	assert.Equal(t, "1", constValue(t, res.Module, "INITIAL"))
}

func TestConstantCycleReportedOnce(t *testing.T) {
	c := contract("Loop", []*ir.StateVar{
		constVar("a", "uint256", ident("b")),
		constVar("b", "uint256", ident("a")),
	})
	res := transform(t, c)
	assert.False(t, res.Success)

	// the inner reference is the error; the outer constant only inherits it
	require.Len(t, res.Errors, 1)
	assert.Equal(t, errors.ErrorUnresolvedConstant, res.Errors[0].Code)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, errors.WarningUnfoldableConstant, res.Warnings[0].Code)

	// both slots keep placeholders so other references still resolve
	assert.Equal(t, "0", constValue(t, res.Module, "A"))
	assert.Equal(t, "0", constValue(t, res.Module, "B"))
}

func TestUnknownConstantReference(t *testing.T) {
	c := contract("Dangling", []*ir.StateVar{
		constVar("ref", "uint256", ident("ghost")),
	})
	res := transform(t, c)
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, errors.ErrorUnresolvedConstant, res.Errors[0].Code)
	assert.Contains(t, res.Errors[0].Message, "ghost")
}

func TestDivisionByZeroIsAlwaysAnError(t *testing.T) {
	c := contract("Broken", []*ir.StateVar{
		constVar("bad", "uint256", bin("/", num("1"), num("0"))),
	})
	res := transform(t, c)
	assert.False(t, res.Success, "fatal fold problems do not soften outside strict mode")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, errors.ErrorUnfoldableConstant, res.Errors[0].Code)
	assert.Contains(t, res.Errors[0].Message, "division by zero")
}

func TestHashInitializerKeepsPlaceholder(t *testing.T) {
	c := contract("Hashed", []*ir.StateVar{
		constVar("digest", "uint256", &solast.FunctionCall{
			Expression: ident("keccak256"),
			Arguments:  []solast.Expression{&solast.StringLiteral{Value: "seed"}},
		}),
	})
	res := transform(t, c)
	require.True(t, res.Success, "lenient mode degrades the fold to a warning")

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, errors.WarningUnfoldableConstant, res.Warnings[0].Code)
	assert.Contains(t, res.Warnings[0].Message, "keccak256")

	assert.Equal(t, "0", constValue(t, res.Module, "DIGEST"))
}

func TestStrictModeRejectsUnfoldableConstant(t *testing.T) {
	c := contract("Hashed", []*ir.StateVar{
		constVar("digest", "uint256", &solast.FunctionCall{
			Expression: ident("keccak256"),
			Arguments:  []solast.Expression{&solast.StringLiteral{Value: "seed"}},
		}),
	})
	opts := config.DefaultOptions()
	opts.Strict = true
	res := NewTransformer(opts).Transform(c, nil)

	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, errors.ErrorUnfoldableConstant, res.Errors[0].Code)
	assert.Empty(t, res.Warnings)
}

func TestNegativeConstantWrapsToTwosComplement(t *testing.T) {
	c := contract("Signed", []*ir.StateVar{
		constVar("offset", "int8", &solast.UnaryOperation{
			Operator: "-", SubExpression: num("1"), IsPrefix: true,
		}),
	})
	res := transform(t, c)
	require.True(t, res.Success)

	decl := findConst(res.Module, "OFFSET")
	require.NotNil(t, decl)
	assert.Equal(t, "u8", decl.Type.TypeString())
	assert.Equal(t, "255", decl.Value.(*moveast.IntLit).Value)

	// one warning for the signed mapping, one for the wrap
	assert.Equal(t, []string{errors.WarningSignedType, errors.WarningSignedType},
		diagCodes(res.Warnings))
}
