package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

func uintType(name string) *solast.ElementaryTypeName {
	return &solast.ElementaryTypeName{Name: name}
}

func TestBuildContractStateVars(t *testing.T) {
	def := &solast.ContractDefinition{
		Name: "Vault",
		Kind: solast.KindContract,
		SubNodes: []solast.ContractPart{
			&solast.StateVariableDeclaration{
				Variables: []*solast.VariableDeclaration{{
					Name:       "total",
					TypeName:   uintType("uint256"),
					Visibility: "public",
					IsStateVar: true,
				}},
				InitialValue: &solast.NumberLiteral{Number: "0"},
			},
			&solast.StateVariableDeclaration{
				Variables: []*solast.VariableDeclaration{{
					Name:            "FEE",
					TypeName:        uintType("uint16"),
					IsDeclaredConst: true,
					Expression:      &solast.NumberLiteral{Number: "30"},
				}},
			},
			&solast.StateVariableDeclaration{
				Variables: []*solast.VariableDeclaration{{
					Name:        "owner",
					TypeName:    uintType("address"),
					IsImmutable: true,
				}},
			},
		},
	}

	c := BuildContract(def)
	require.Len(t, c.StateVars, 3)

	total := c.StateVarByName("total")
	require.NotNil(t, total)
	assert.Equal(t, Mutable, total.Mutability)
	require.NotNil(t, total.Initial, "initial value from the declaration node must be attached")

	fee := c.StateVarByName("FEE")
	assert.Equal(t, Constant, fee.Mutability)
	require.NotNil(t, fee.Initial)

	owner := c.StateVarByName("owner")
	assert.Equal(t, Immutable, owner.Mutability)
}

func TestBuildContractConstructorForms(t *testing.T) {
	modern := BuildContract(&solast.ContractDefinition{
		Name: "Token",
		Kind: solast.KindContract,
		SubNodes: []solast.ContractPart{
			&solast.FunctionDefinition{
				IsConstructor: true,
				Parameters:    []*solast.VariableDeclaration{{Name: "supply", TypeName: uintType("uint256")}},
				Body:          &solast.Block{},
			},
		},
	})
	require.NotNil(t, modern.Constructor)
	assert.Equal(t, "constructor", modern.Constructor.Name)
	assert.Empty(t, modern.Functions)

	// pre-0.5 sources name the constructor after the contract
	legacy := BuildContract(&solast.ContractDefinition{
		Name: "Token",
		Kind: solast.KindContract,
		SubNodes: []solast.ContractPart{
			&solast.FunctionDefinition{Name: "Token", Visibility: "public", Body: &solast.Block{}},
		},
	})
	require.NotNil(t, legacy.Constructor)
	assert.True(t, legacy.Constructor.IsConstructor)
}

func TestBuildContractReceiveFallbackStubs(t *testing.T) {
	c := BuildContract(&solast.ContractDefinition{
		Name: "Wallet",
		Kind: solast.KindContract,
		SubNodes: []solast.ContractPart{
			&solast.FunctionDefinition{
				IsReceiveEther:  true,
				Visibility:      "external",
				StateMutability: "payable",
				Body:            &solast.Block{},
			},
			&solast.FunctionDefinition{
				IsFallback: true,
				Visibility: "external",
				Body:       &solast.Block{},
			},
		},
	})

	require.Len(t, c.Functions, 2)
	recv := c.Functions[0]
	assert.Equal(t, "receive_stub", recv.Name)
	assert.Equal(t, "receive", recv.SourceName)
	assert.Equal(t, solast.VisibilityPrivate, recv.Visibility)
	assert.Empty(t, recv.Mutability)
	require.Len(t, recv.Body.Statements, 1)
	stmt, ok := recv.Body.Statements[0].(*solast.ExpressionStatement)
	require.True(t, ok)
	_, ok = stmt.Expression.(*solast.StringLiteral)
	assert.True(t, ok, "stub body must be a single diagnostic literal")

	assert.Equal(t, "fallback_stub", c.Functions[1].Name)
}

func TestBuildContractMembers(t *testing.T) {
	c := BuildContract(&solast.ContractDefinition{
		Name: "Market",
		Kind: solast.KindContract,
		BaseContracts: []*solast.InheritanceSpecifier{
			{
				BaseName:  &solast.UserDefinedTypeName{NamePath: "ERC20"},
				Arguments: []solast.Expression{&solast.StringLiteral{Value: "Tok"}},
			},
			{BaseName: &solast.UserDefinedTypeName{NamePath: "Pausable"}},
		},
		SubNodes: []solast.ContractPart{
			&solast.ModifierDefinition{
				Name: "onlyOwner",
				Body: &solast.Block{Statements: []solast.Statement{&solast.PlaceholderStatement{}}},
			},
			&solast.EventDefinition{
				Name: "Filled",
				Parameters: []*solast.VariableDeclaration{
					{Name: "maker", TypeName: uintType("address"), IsIndexed: true},
					{TypeName: uintType("uint256")},
				},
			},
			&solast.CustomErrorDefinition{Name: "BadOrder"},
			&solast.StructDefinition{
				Name: "Order",
				Members: []*solast.VariableDeclaration{
					{Name: "amount", TypeName: uintType("uint256")},
				},
			},
			&solast.EnumDefinition{
				Name:    "Status",
				Members: []*solast.EnumValue{{Name: "Open"}, {Name: "Filled"}},
			},
			&solast.UsingForDeclaration{LibraryName: "SafeCast", TypeName: uintType("uint256")},
			&solast.FunctionDefinition{
				Name:       "fill",
				Visibility: "external",
				Parameters: []*solast.VariableDeclaration{{TypeName: uintType("uint256")}},
				Modifiers:  []*solast.ModifierInvocation{{Name: "onlyOwner"}},
				Body:       &solast.Block{},
			},
		},
	})

	assert.Equal(t, []string{"ERC20", "Pausable"}, c.Parents)
	require.Contains(t, c.ParentArgs, "ERC20")
	require.Len(t, c.ParentArgs["ERC20"], 1)

	require.NotNil(t, c.ModifierByName("onlyOwner"))
	require.Len(t, c.Events, 1)
	assert.True(t, c.Events[0].Params[0].Indexed)
	assert.Equal(t, "arg1", c.Events[0].Params[1].Name, "unnamed event params get positional names")
	require.Len(t, c.Errors, 1)
	require.Len(t, c.Structs, 1)
	assert.Equal(t, []string{"Open", "Filled"}, c.Enums[0].Members)
	require.Len(t, c.UsingFor, 1)

	fill := c.FunctionsByName("fill")
	require.Len(t, fill, 1)
	assert.Equal(t, "arg0", fill[0].Params[0].Name)
	require.Len(t, fill[0].Modifiers, 1)
}

func TestBuildUnitCollectsPragmas(t *testing.T) {
	unit := &solast.SourceUnit{
		Children: []solast.UnitItem{
			&solast.PragmaDirective{Name: "solidity", Value: "^0.8.20"},
			&solast.ContractDefinition{Name: "A", Kind: solast.KindContract},
			&solast.ContractDefinition{Name: "B", Kind: solast.KindLibrary},
		},
	}

	contracts, registry := BuildUnit(unit)
	require.Len(t, contracts, 2)
	assert.Equal(t, "A", contracts[0].Name)
	require.Len(t, contracts[0].Pragmas, 1)
	assert.Equal(t, "^0.8.20", contracts[0].Pragmas[0].Value)
	assert.True(t, registry["B"].IsLibrary())
}
