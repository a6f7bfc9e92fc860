package solast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSourceUnit(t *testing.T) {
	data := `{
		"type": "SourceUnit",
		"children": [
			{
				"type": "PragmaDirective",
				"name": "solidity",
				"value": "^0.8.20",
				"loc": {"start": {"line": 1, "column": 0}, "end": {"line": 1, "column": 23}}
			},
			{
				"type": "ContractDefinition",
				"name": "Counter",
				"kind": "contract",
				"baseContracts": [
					{
						"type": "InheritanceSpecifier",
						"baseName": {"type": "UserDefinedTypeName", "namePath": "Ownable"},
						"arguments": []
					}
				],
				"subNodes": [
					{
						"type": "StateVariableDeclaration",
						"variables": [
							{
								"type": "VariableDeclaration",
								"typeName": {"type": "ElementaryTypeName", "name": "uint256"},
								"name": "count",
								"visibility": "public",
								"isStateVar": true,
								"expression": {"type": "NumberLiteral", "number": "0"}
							}
						],
						"initialValue": {"type": "NumberLiteral", "number": "0"}
					},
					{
						"type": "StateVariableDeclaration",
						"variables": [
							{
								"type": "VariableDeclaration",
								"typeName": {
									"type": "Mapping",
									"keyType": {"type": "ElementaryTypeName", "name": "address"},
									"valueType": {"type": "ElementaryTypeName", "name": "uint256"}
								},
								"name": "balances",
								"visibility": "default",
								"isStateVar": true
							}
						]
					},
					{
						"type": "EventDefinition",
						"name": "Incremented",
						"parameters": [
							{
								"type": "VariableDeclaration",
								"typeName": {"type": "ElementaryTypeName", "name": "address"},
								"name": "who",
								"isIndexed": true
							}
						],
						"isAnonymous": false
					},
					{
						"type": "FunctionDefinition",
						"name": "increment",
						"parameters": [],
						"returnParameters": [],
						"visibility": "public",
						"modifiers": [{"type": "ModifierInvocation", "name": "nonReentrant"}],
						"body": {
							"type": "Block",
							"statements": [
								{
									"type": "ExpressionStatement",
									"expression": {
										"type": "BinaryOperation",
										"operator": "+=",
										"left": {"type": "Identifier", "name": "count"},
										"right": {"type": "NumberLiteral", "number": "1"}
									}
								},
								{
									"type": "EmitStatement",
									"eventCall": {
										"type": "FunctionCall",
										"expression": {"type": "Identifier", "name": "Incremented"},
										"arguments": [
											{
												"type": "MemberAccess",
												"expression": {"type": "Identifier", "name": "msg"},
												"memberName": "sender"
											}
										]
									}
								}
							]
						},
						"loc": {"start": {"line": 8, "column": 4}, "end": {"line": 12, "column": 4}}
					}
				]
			}
		]
	}`

	unit, err := DecodeSourceUnit([]byte(data))
	require.NoError(t, err)
	require.Len(t, unit.Children, 2)

	pragma, ok := unit.Children[0].(*PragmaDirective)
	require.True(t, ok)
	assert.Equal(t, "solidity", pragma.Name)
	assert.Equal(t, "^0.8.20", pragma.Value)
	assert.Equal(t, 1, pragma.Pos.Line)

	contracts := unit.Contracts()
	require.Len(t, contracts, 1)
	contract := contracts[0]
	assert.Equal(t, "Counter", contract.Name)
	assert.Equal(t, KindContract, contract.Kind)
	require.Len(t, contract.BaseContracts, 1)
	assert.Equal(t, "Ownable", contract.BaseContracts[0].BaseName.NamePath)
	require.Len(t, contract.SubNodes, 4)

	count, ok := contract.SubNodes[0].(*StateVariableDeclaration)
	require.True(t, ok)
	require.Len(t, count.Variables, 1)
	assert.Equal(t, "count", count.Variables[0].Name)
	assert.True(t, count.Variables[0].IsStateVar)
	require.NotNil(t, count.InitialValue)

	balances, ok := contract.SubNodes[1].(*StateVariableDeclaration)
	require.True(t, ok)
	mapping, ok := balances.Variables[0].TypeName.(*Mapping)
	require.True(t, ok)
	assert.Equal(t, "address", mapping.KeyType.(*ElementaryTypeName).Name)
	assert.Equal(t, "uint256", mapping.ValueType.(*ElementaryTypeName).Name)

	event, ok := contract.SubNodes[2].(*EventDefinition)
	require.True(t, ok)
	assert.Equal(t, "Incremented", event.Name)
	assert.True(t, event.Parameters[0].IsIndexed)

	fn, ok := contract.SubNodes[3].(*FunctionDefinition)
	require.True(t, ok)
	assert.Equal(t, "increment", fn.Name)
	assert.Equal(t, 8, fn.Pos.Line)
	require.Len(t, fn.Modifiers, 1)
	assert.Equal(t, "nonReentrant", fn.Modifiers[0].Name)
	assert.Nil(t, fn.Modifiers[0].Arguments)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Statements, 2)

	exprStmt, ok := fn.Body.Statements[0].(*ExpressionStatement)
	require.True(t, ok)
	assign, ok := exprStmt.Expression.(*BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, "+=", assign.Operator)
	assert.True(t, assign.IsAssignment())

	emit, ok := fn.Body.Statements[1].(*EmitStatement)
	require.True(t, ok)
	require.NotNil(t, emit.EventCall)
	sender, ok := emit.EventCall.Arguments[0].(*MemberAccess)
	require.True(t, ok)
	assert.Equal(t, "sender", sender.MemberName)
}

func TestDecodeRejectsNonSourceUnitRoot(t *testing.T) {
	_, err := DecodeSourceUnit([]byte(`{"type": "ContractDefinition", "name": "X"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SourceUnit")

	_, err = DecodeSourceUnit([]byte(`{not json`))
	require.Error(t, err)
}

func TestDecodeUnsupportedStatementKeepsTag(t *testing.T) {
	data := `{
		"type": "SourceUnit",
		"children": [{
			"type": "ContractDefinition",
			"name": "C",
			"kind": "contract",
			"subNodes": [{
				"type": "FunctionDefinition",
				"name": "f",
				"visibility": "public",
				"body": {
					"type": "Block",
					"statements": [{"type": "TryStatement", "loc": {"start": {"line": 4, "column": 8}, "end": {"line": 6, "column": 8}}}]
				}
			}]
		}]
	}`

	unit, err := DecodeSourceUnit([]byte(data))
	require.NoError(t, err)
	fn := unit.Contracts()[0].SubNodes[0].(*FunctionDefinition)
	stmt, ok := fn.Body.Statements[0].(*UnsupportedStatement)
	require.True(t, ok)
	assert.Equal(t, "TryStatement", stmt.NodeType())
	assert.Equal(t, 4, stmt.Pos.Line)
}

func TestDecodeInlineAssembly(t *testing.T) {
	data := `{
		"type": "SourceUnit",
		"children": [{
			"type": "ContractDefinition",
			"name": "C",
			"kind": "contract",
			"subNodes": [{
				"type": "FunctionDefinition",
				"name": "mix",
				"visibility": "internal",
				"body": {
					"type": "Block",
					"statements": [{
						"type": "InlineAssemblyStatement",
						"language": null,
						"body": {
							"type": "AssemblyBlock",
							"operations": [
								{
									"type": "AssemblyLocalDefinition",
									"names": [{"type": "Identifier", "name": "x"}],
									"expression": {
										"type": "AssemblyCall",
										"functionName": "add",
										"arguments": [
											{"type": "AssemblyCall", "functionName": "a", "arguments": []},
											{"type": "DecimalNumber", "value": "1"}
										]
									}
								},
								{
									"type": "AssemblyAssignment",
									"names": [{"type": "Identifier", "name": "x"}],
									"expression": {"type": "HexNumber", "value": "0xff"}
								}
							]
						}
					}]
				}
			}]
		}]
	}`

	unit, err := DecodeSourceUnit([]byte(data))
	require.NoError(t, err)
	fn := unit.Contracts()[0].SubNodes[0].(*FunctionDefinition)
	asm, ok := fn.Body.Statements[0].(*InlineAssemblyStatement)
	require.True(t, ok)
	require.NotNil(t, asm.Body)
	require.Len(t, asm.Body.Operations, 2)

	def, ok := asm.Body.Operations[0].(*AssemblyLocalDefinition)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, def.Names)
	call, ok := def.Expression.(*AssemblyCall)
	require.True(t, ok)
	assert.Equal(t, "add", call.FunctionName)
	require.Len(t, call.Arguments, 2)
	ref, ok := call.Arguments[0].(*AssemblyCall)
	require.True(t, ok)
	assert.True(t, ref.IsIdentifier())

	store, ok := asm.Body.Operations[1].(*AssemblyAssignment)
	require.True(t, ok)
	lit, ok := store.Expression.(*AsmLiteral)
	require.True(t, ok)
	assert.Equal(t, "HexNumber", lit.TypeTag)
	assert.Equal(t, "0xff", lit.Value)
}
