package moveast

// Type is the closed set of type expressions in the output tree.
type Type interface {
	isType()
	// TypeString renders a canonical spelling used for acquires lists,
	// dedup keys and diagnostics. It is not the printer.
	TypeString() string
}

func (*TypeName) isType()  {}
func (*RefType) isType()   {}
func (*TupleType) isType() {}

// TypeName is a (possibly module-qualified, possibly generic) named type.
// Example: u64, address, table::Table<address, u256>
type TypeName struct {
	Module string
	Name   string
	Args   []Type
}

func (t *TypeName) TypeString() string {
	s := t.Name
	if t.Module != "" {
		s = t.Module + "::" + s
	}
	if len(t.Args) > 0 {
		s += "<"
		for i, a := range t.Args {
			if i > 0 {
				s += ", "
			}
			s += a.TypeString()
		}
		s += ">"
	}
	return s
}

// RefType is a reference type.
// Example: &signer, &mut State
type RefType struct {
	Mut  bool
	Elem Type
}

func (t *RefType) TypeString() string {
	if t.Mut {
		return "&mut " + t.Elem.TypeString()
	}
	return "&" + t.Elem.TypeString()
}

// TupleType only appears in multi-value return positions.
type TupleType struct {
	Elems []Type
}

func (t *TupleType) TypeString() string {
	s := "("
	for i, e := range t.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.TypeString()
	}
	return s + ")"
}

// Simple builders for the primitive spellings the transpiler emits
// constantly.

func U8() *TypeName      { return &TypeName{Name: "u8"} }
func U16() *TypeName     { return &TypeName{Name: "u16"} }
func U32() *TypeName     { return &TypeName{Name: "u32"} }
func U64() *TypeName     { return &TypeName{Name: "u64"} }
func U128() *TypeName    { return &TypeName{Name: "u128"} }
func U256() *TypeName    { return &TypeName{Name: "u256"} }
func Bool() *TypeName    { return &TypeName{Name: "bool"} }
func Address() *TypeName { return &TypeName{Name: "address"} }
func Signer() *TypeName  { return &TypeName{Name: "signer"} }

// UnsignedInt returns the named width's type, defaulting to u256 for any
// width outside the standard ladder.
func UnsignedInt(bits int) *TypeName {
	switch bits {
	case 8:
		return U8()
	case 16:
		return U16()
	case 32:
		return U32()
	case 64:
		return U64()
	case 128:
		return U128()
	default:
		return U256()
	}
}

// Vector returns vector<elem>.
func Vector(elem Type) *TypeName {
	return &TypeName{Name: "vector", Args: []Type{elem}}
}

// Qualified returns module::Name<args...>.
func Qualified(module, name string, args ...Type) *TypeName {
	return &TypeName{Module: module, Name: name, Args: args}
}

// Ref and MutRef wrap a type in a reference.
func Ref(elem Type) *RefType    { return &RefType{Elem: elem} }
func MutRef(elem Type) *RefType { return &RefType{Mut: true, Elem: elem} }
