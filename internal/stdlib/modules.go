package stdlib

// ModuleDefinition describes an Aptos framework module the emitted code
// may import.
type ModuleDefinition struct {
	Name      string                        // Short module name used in call position (e.g., "table")
	Path      string                        // Full use path (e.g., "aptos_std::table")
	Types     map[string]TypeDefinition     // Types exported by this module
	Functions map[string]FunctionDefinition // Functions exported by this module
}

// TypeDefinition defines a type from a framework module
type TypeDefinition struct {
	Name      string // Type name (e.g., "Table", "String")
	IsGeneric bool   // Whether the type accepts generic parameters
}

// FunctionDefinition defines a function signature from a framework module
type FunctionDefinition struct {
	Name       string                // Function name (e.g., "borrow_mut", "now_seconds")
	Parameters []ParameterDefinition // Function parameters
	ReturnType *TypeRef              // Return type (nil if void)
	IsGeneric  bool                  // Whether the function has generic type parameters
}

// ParameterDefinition defines a function parameter
type ParameterDefinition struct {
	Name string   // Parameter name
	Type *TypeRef // Parameter type
}

// RefKind distinguishes by-value parameters from borrows.
type RefKind int

const (
	RefNone RefKind = iota
	RefImm
	RefMut
)

// TypeRef represents a type reference that can be generic or borrowed
type TypeRef struct {
	Name        string     // Base type name (e.g., "Table", "u64", "T")
	IsGeneric   bool       // Whether this is a generic type parameter (T, K, V)
	GenericArgs []*TypeRef // Generic type arguments for parameterized types
	Reference   RefKind    // Borrow kind when the parameter is a reference
}

// Helper functions for creating type references
func NewTypeRef(name string) *TypeRef {
	return &TypeRef{Name: name}
}

func AddressType() *TypeRef {
	return &TypeRef{Name: "address"}
}

func SignerType() *TypeRef {
	return &TypeRef{Name: "signer"}
}

func BoolType() *TypeRef {
	return &TypeRef{Name: "bool"}
}

func U8Type() *TypeRef {
	return &TypeRef{Name: "u8"}
}

func U64Type() *TypeRef {
	return &TypeRef{Name: "u64"}
}

func U128Type() *TypeRef {
	return &TypeRef{Name: "u128"}
}

func U256Type() *TypeRef {
	return &TypeRef{Name: "u256"}
}

func BytesType() *TypeRef {
	return NewGenericTypeRef("vector", U8Type())
}

func NewGenericTypeRef(name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Name: name, GenericArgs: args}
}

func NewGenericParam(name string) *TypeRef {
	return &TypeRef{Name: name, IsGeneric: true}
}

func RefTo(t *TypeRef) *TypeRef {
	ref := *t
	ref.Reference = RefImm
	return &ref
}

func MutRefTo(t *TypeRef) *TypeRef {
	ref := *t
	ref.Reference = RefMut
	return &ref
}

// Helper function for creating function definitions
func NewFunction(name string, returnType *TypeRef, params ...ParameterDefinition) FunctionDefinition {
	return FunctionDefinition{
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
	}
}

func NewGenericFunction(name string, returnType *TypeRef, params ...ParameterDefinition) FunctionDefinition {
	return FunctionDefinition{
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
		IsGeneric:  true,
	}
}

// Helper function for creating parameters
func NewParam(name string, typeRef *TypeRef) ParameterDefinition {
	return ParameterDefinition{Name: name, Type: typeRef}
}

func tableRef() *TypeRef {
	return NewGenericTypeRef("Table", NewGenericParam("K"), NewGenericParam("V"))
}

func orderedMapRef() *TypeRef {
	return NewGenericTypeRef("OrderedMap", NewGenericParam("K"), NewGenericParam("V"))
}

func vectorRef() *TypeRef {
	return NewGenericTypeRef("vector", NewGenericParam("T"))
}

func optionRef() *TypeRef {
	return NewGenericTypeRef("Option", NewGenericParam("T"))
}

func errorHelper(name string) FunctionDefinition {
	return NewFunction(name, U64Type(), NewParam("r", U64Type()))
}

// GetFrameworkModules returns every framework module the rewriter knows
// how to reach, keyed by short module name.
func GetFrameworkModules() map[string]*ModuleDefinition {
	return map[string]*ModuleDefinition{
		"signer": {
			Name:  "signer",
			Path:  "std::signer",
			Types: map[string]TypeDefinition{},
			Functions: map[string]FunctionDefinition{
				"address_of": NewFunction("address_of", AddressType(), NewParam("s", RefTo(SignerType()))),
			},
		},
		"error": {
			Name:  "error",
			Path:  "std::error",
			Types: map[string]TypeDefinition{},
			Functions: map[string]FunctionDefinition{
				"invalid_argument":   errorHelper("invalid_argument"),
				"out_of_range":       errorHelper("out_of_range"),
				"invalid_state":      errorHelper("invalid_state"),
				"unauthenticated":    errorHelper("unauthenticated"),
				"permission_denied":  errorHelper("permission_denied"),
				"not_found":          errorHelper("not_found"),
				"aborted":            errorHelper("aborted"),
				"already_exists":     errorHelper("already_exists"),
				"resource_exhausted": errorHelper("resource_exhausted"),
				"internal":           errorHelper("internal"),
				"not_implemented":    errorHelper("not_implemented"),
				"unavailable":        errorHelper("unavailable"),
			},
		},
		"string": {
			Name: "string",
			Path: "std::string",
			Types: map[string]TypeDefinition{
				"String": {Name: "String"},
			},
			Functions: map[string]FunctionDefinition{
				"utf8": NewFunction("utf8", NewTypeRef("String"), NewParam("bytes", BytesType())),
			},
		},
		"vector": {
			Name: "vector",
			Path: "std::vector",
			Types: map[string]TypeDefinition{
				"vector": {Name: "vector", IsGeneric: true},
			},
			Functions: map[string]FunctionDefinition{
				"empty": NewGenericFunction("empty", vectorRef()),
				"length": NewGenericFunction("length", U64Type(),
					NewParam("self", RefTo(vectorRef()))),
				"push_back": NewGenericFunction("push_back", nil,
					NewParam("self", MutRefTo(vectorRef())),
					NewParam("e", NewGenericParam("T"))),
				"pop_back": NewGenericFunction("pop_back", NewGenericParam("T"),
					NewParam("self", MutRefTo(vectorRef()))),
				"borrow": NewGenericFunction("borrow", RefTo(NewGenericParam("T")),
					NewParam("self", RefTo(vectorRef())),
					NewParam("i", U64Type())),
				"borrow_mut": NewGenericFunction("borrow_mut", MutRefTo(NewGenericParam("T")),
					NewParam("self", MutRefTo(vectorRef())),
					NewParam("i", U64Type())),
				"append": NewGenericFunction("append", nil,
					NewParam("self", MutRefTo(vectorRef())),
					NewParam("other", vectorRef())),
				"contains": NewGenericFunction("contains", BoolType(),
					NewParam("self", RefTo(vectorRef())),
					NewParam("e", RefTo(NewGenericParam("T")))),
			},
		},
		"option": {
			Name: "option",
			Path: "std::option",
			Types: map[string]TypeDefinition{
				"Option": {Name: "Option", IsGeneric: true},
			},
			Functions: map[string]FunctionDefinition{
				"some":    NewGenericFunction("some", optionRef(), NewParam("e", NewGenericParam("T"))),
				"none":    NewGenericFunction("none", optionRef()),
				"is_some": NewGenericFunction("is_some", BoolType(), NewParam("self", RefTo(optionRef()))),
				"is_none": NewGenericFunction("is_none", BoolType(), NewParam("self", RefTo(optionRef()))),
				"borrow": NewGenericFunction("borrow", RefTo(NewGenericParam("T")),
					NewParam("self", RefTo(optionRef()))),
				"extract": NewGenericFunction("extract", NewGenericParam("T"),
					NewParam("self", MutRefTo(optionRef()))),
			},
		},
		"bcs": {
			Name:  "bcs",
			Path:  "std::bcs",
			Types: map[string]TypeDefinition{},
			Functions: map[string]FunctionDefinition{
				"to_bytes": NewGenericFunction("to_bytes", BytesType(),
					NewParam("v", RefTo(NewGenericParam("T")))),
			},
		},
		"hash": {
			Name:  "hash",
			Path:  "std::hash",
			Types: map[string]TypeDefinition{},
			Functions: map[string]FunctionDefinition{
				"sha2_256": NewFunction("sha2_256", BytesType(), NewParam("data", BytesType())),
				"sha3_256": NewFunction("sha3_256", BytesType(), NewParam("data", BytesType())),
			},
		},
		"from_bcs": {
			Name:  "from_bcs",
			Path:  "aptos_std::from_bcs",
			Types: map[string]TypeDefinition{},
			Functions: map[string]FunctionDefinition{
				"to_bool":    NewFunction("to_bool", BoolType(), NewParam("v", BytesType())),
				"to_u64":     NewFunction("to_u64", U64Type(), NewParam("v", BytesType())),
				"to_u128":    NewFunction("to_u128", U128Type(), NewParam("v", BytesType())),
				"to_u256":    NewFunction("to_u256", U256Type(), NewParam("v", BytesType())),
				"to_address": NewFunction("to_address", AddressType(), NewParam("v", BytesType())),
			},
		},
		"table": {
			Name: "table",
			Path: "aptos_std::table",
			Types: map[string]TypeDefinition{
				"Table": {Name: "Table", IsGeneric: true},
			},
			Functions: map[string]FunctionDefinition{
				"new": NewGenericFunction("new", tableRef()),
				"add": NewGenericFunction("add", nil,
					NewParam("self", MutRefTo(tableRef())),
					NewParam("key", NewGenericParam("K")),
					NewParam("val", NewGenericParam("V"))),
				"borrow": NewGenericFunction("borrow", RefTo(NewGenericParam("V")),
					NewParam("self", RefTo(tableRef())),
					NewParam("key", NewGenericParam("K"))),
				"borrow_with_default": NewGenericFunction("borrow_with_default", RefTo(NewGenericParam("V")),
					NewParam("self", RefTo(tableRef())),
					NewParam("key", NewGenericParam("K")),
					NewParam("default", RefTo(NewGenericParam("V")))),
				"borrow_mut": NewGenericFunction("borrow_mut", MutRefTo(NewGenericParam("V")),
					NewParam("self", MutRefTo(tableRef())),
					NewParam("key", NewGenericParam("K"))),
				"borrow_mut_with_default": NewGenericFunction("borrow_mut_with_default", MutRefTo(NewGenericParam("V")),
					NewParam("self", MutRefTo(tableRef())),
					NewParam("key", NewGenericParam("K")),
					NewParam("default", NewGenericParam("V"))),
				"upsert": NewGenericFunction("upsert", nil,
					NewParam("self", MutRefTo(tableRef())),
					NewParam("key", NewGenericParam("K")),
					NewParam("value", NewGenericParam("V"))),
				"remove": NewGenericFunction("remove", NewGenericParam("V"),
					NewParam("self", MutRefTo(tableRef())),
					NewParam("key", NewGenericParam("K"))),
				"contains": NewGenericFunction("contains", BoolType(),
					NewParam("self", RefTo(tableRef())),
					NewParam("key", NewGenericParam("K"))),
			},
		},
		"ordered_map": {
			Name: "ordered_map",
			Path: "aptos_std::ordered_map",
			Types: map[string]TypeDefinition{
				"OrderedMap": {Name: "OrderedMap", IsGeneric: true},
			},
			Functions: map[string]FunctionDefinition{
				"new": NewGenericFunction("new", orderedMapRef()),
				"add": NewGenericFunction("add", nil,
					NewParam("self", MutRefTo(orderedMapRef())),
					NewParam("key", NewGenericParam("K")),
					NewParam("value", NewGenericParam("V"))),
				"borrow": NewGenericFunction("borrow", RefTo(NewGenericParam("V")),
					NewParam("self", RefTo(orderedMapRef())),
					NewParam("key", RefTo(NewGenericParam("K")))),
				"borrow_mut": NewGenericFunction("borrow_mut", MutRefTo(NewGenericParam("V")),
					NewParam("self", MutRefTo(orderedMapRef())),
					NewParam("key", RefTo(NewGenericParam("K")))),
				"upsert": NewGenericFunction("upsert", nil,
					NewParam("self", MutRefTo(orderedMapRef())),
					NewParam("key", NewGenericParam("K")),
					NewParam("value", NewGenericParam("V"))),
				"remove": NewGenericFunction("remove", NewGenericParam("V"),
					NewParam("self", MutRefTo(orderedMapRef())),
					NewParam("key", RefTo(NewGenericParam("K")))),
				"contains": NewGenericFunction("contains", BoolType(),
					NewParam("self", RefTo(orderedMapRef())),
					NewParam("key", RefTo(NewGenericParam("K")))),
			},
		},
		"aptos_hash": {
			Name:  "aptos_hash",
			Path:  "aptos_std::aptos_hash",
			Types: map[string]TypeDefinition{},
			Functions: map[string]FunctionDefinition{
				"keccak256": NewFunction("keccak256", BytesType(), NewParam("bytes", BytesType())),
				"ripemd160": NewFunction("ripemd160", BytesType(), NewParam("bytes", BytesType())),
			},
		},
		"math64": {
			Name:  "math64",
			Path:  "aptos_std::math64",
			Types: map[string]TypeDefinition{},
			Functions: map[string]FunctionDefinition{
				"pow": NewFunction("pow", U64Type(), NewParam("n", U64Type()), NewParam("e", U64Type())),
			},
		},
		"math128": {
			Name:  "math128",
			Path:  "aptos_std::math128",
			Types: map[string]TypeDefinition{},
			Functions: map[string]FunctionDefinition{
				"pow": NewFunction("pow", U128Type(), NewParam("n", U128Type()), NewParam("e", U128Type())),
			},
		},
		"event": {
			Name: "event",
			Path: "aptos_framework::event",
			Types: map[string]TypeDefinition{
				"EventHandle": {Name: "EventHandle", IsGeneric: true},
			},
			Functions: map[string]FunctionDefinition{
				"emit": NewGenericFunction("emit", nil, NewParam("msg", NewGenericParam("T"))),
				"emit_event": NewGenericFunction("emit_event", nil,
					NewParam("handle_ref", MutRefTo(NewGenericTypeRef("EventHandle", NewGenericParam("T")))),
					NewParam("msg", NewGenericParam("T"))),
			},
		},
		"account": {
			Name: "account",
			Path: "aptos_framework::account",
			Types: map[string]TypeDefinition{
				"SignerCapability": {Name: "SignerCapability"},
			},
			Functions: map[string]FunctionDefinition{
				// create_resource_account returns (signer, SignerCapability);
				// the deployment scaffold binds both sides of the tuple.
				"create_resource_account": NewFunction("create_resource_account", nil,
					NewParam("source", RefTo(SignerType())),
					NewParam("seed", BytesType())),
				"create_signer_with_capability": NewFunction("create_signer_with_capability", SignerType(),
					NewParam("capability", RefTo(NewTypeRef("SignerCapability")))),
				"new_event_handle": NewGenericFunction("new_event_handle",
					NewGenericTypeRef("EventHandle", NewGenericParam("T")),
					NewParam("account", RefTo(SignerType()))),
			},
		},
		"object": {
			Name: "object",
			Path: "aptos_framework::object",
			Types: map[string]TypeDefinition{
				"ConstructorRef": {Name: "ConstructorRef"},
				"ExtendRef":      {Name: "ExtendRef"},
			},
			Functions: map[string]FunctionDefinition{
				"create_named_object": NewFunction("create_named_object", NewTypeRef("ConstructorRef"),
					NewParam("creator", RefTo(SignerType())),
					NewParam("seed", BytesType())),
				"generate_extend_ref": NewFunction("generate_extend_ref", NewTypeRef("ExtendRef"),
					NewParam("ref", RefTo(NewTypeRef("ConstructorRef")))),
				"generate_signer_for_extending": NewFunction("generate_signer_for_extending", SignerType(),
					NewParam("ref", RefTo(NewTypeRef("ExtendRef")))),
				"generate_signer": NewFunction("generate_signer", SignerType(),
					NewParam("ref", RefTo(NewTypeRef("ConstructorRef")))),
				"create_object_address": NewFunction("create_object_address", AddressType(),
					NewParam("source", RefTo(AddressType())),
					NewParam("seed", BytesType())),
			},
		},
		"aggregator_v2": {
			Name: "aggregator_v2",
			Path: "aptos_framework::aggregator_v2",
			Types: map[string]TypeDefinition{
				"Aggregator": {Name: "Aggregator", IsGeneric: true},
			},
			Functions: map[string]FunctionDefinition{
				"create_unbounded_aggregator": NewGenericFunction("create_unbounded_aggregator",
					NewGenericTypeRef("Aggregator", NewGenericParam("T"))),
				"add": NewGenericFunction("add", nil,
					NewParam("self", MutRefTo(NewGenericTypeRef("Aggregator", NewGenericParam("T")))),
					NewParam("value", NewGenericParam("T"))),
				"sub": NewGenericFunction("sub", nil,
					NewParam("self", MutRefTo(NewGenericTypeRef("Aggregator", NewGenericParam("T")))),
					NewParam("value", NewGenericParam("T"))),
				"read": NewGenericFunction("read", NewGenericParam("T"),
					NewParam("self", RefTo(NewGenericTypeRef("Aggregator", NewGenericParam("T"))))),
			},
		},
		"timestamp": {
			Name:  "timestamp",
			Path:  "aptos_framework::timestamp",
			Types: map[string]TypeDefinition{},
			Functions: map[string]FunctionDefinition{
				"now_seconds":      NewFunction("now_seconds", U64Type()),
				"now_microseconds": NewFunction("now_microseconds", U64Type()),
			},
		},
		"block": {
			Name:  "block",
			Path:  "aptos_framework::block",
			Types: map[string]TypeDefinition{},
			Functions: map[string]FunctionDefinition{
				"get_current_block_height": NewFunction("get_current_block_height", U64Type()),
			},
		},
		"chain_id": {
			Name:  "chain_id",
			Path:  "aptos_framework::chain_id",
			Types: map[string]TypeDefinition{},
			Functions: map[string]FunctionDefinition{
				"get": NewFunction("get", U8Type()),
			},
		},
		"coin": {
			Name:  "coin",
			Path:  "aptos_framework::coin",
			Types: map[string]TypeDefinition{},
			Functions: map[string]FunctionDefinition{
				"balance": NewGenericFunction("balance", U64Type(), NewParam("owner", AddressType())),
			},
		},
		"aptos_coin": {
			Name: "aptos_coin",
			Path: "aptos_framework::aptos_coin",
			Types: map[string]TypeDefinition{
				"AptosCoin": {Name: "AptosCoin"},
			},
			Functions: map[string]FunctionDefinition{},
		},
	}
}

// IsKnownModule checks if a short name is a known framework module
func IsKnownModule(name string) bool {
	modules := GetFrameworkModules()
	_, exists := modules[name]
	return exists
}

// GetModuleDefinition returns the definition for a framework module
func GetModuleDefinition(name string) *ModuleDefinition {
	modules := GetFrameworkModules()
	return modules[name]
}

// UsePath returns the full import path for a short module name.
func UsePath(name string) (string, bool) {
	module := GetModuleDefinition(name)
	if module == nil {
		return "", false
	}
	return module.Path, true
}
