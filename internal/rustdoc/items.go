package rustdoc

import (
	"encoding/json"
	"fmt"
)

// ItemEnum is the kind-specific payload of an Item. The set of
// implementations is closed; see the variant types below.
type ItemEnum interface {
	itemEnum()
}

// Module is a `mod` item.
type Module struct {
	IsCrate    bool `json:"is_crate"`
	Items      []ID `json:"items"`
	IsStripped bool `json:"is_stripped"`
}

// ExternCrate is an `extern crate` item.
type ExternCrate struct {
	Name   string  `json:"name"`
	Rename *string `json:"rename"`
}

// Import is a `use` item. ID is nil when the target is not documented.
type Import struct {
	Source string `json:"source"`
	Name   string `json:"name"`
	ID     *ID    `json:"id"`
	Glob   bool   `json:"glob"`
}

// Union is a `union` item.
type Union struct {
	Generics       Generics `json:"generics"`
	FieldsStripped bool     `json:"fields_stripped"`
	Fields         []ID     `json:"fields"`
	Impls          []ID     `json:"impls"`
}

// Struct is a `struct` item. Its fields are separate StructField items.
type Struct struct {
	Kind     StructKind `json:"-"`
	Generics Generics   `json:"generics"`
	Impls    []ID       `json:"impls"`
}

func (s *Struct) UnmarshalJSON(data []byte) error {
	type plain Struct
	var raw struct {
		plain
		Kind json.RawMessage `json:"kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Struct(raw.plain)
	kind, err := decodeStructKind(raw.Kind)
	if err != nil {
		return err
	}
	s.Kind = kind
	return nil
}

// StructKind is the shape marker of a struct.
type StructKind interface {
	structKind()
}

// UnitStruct is `struct S;`.
type UnitStruct struct{}

// TupleStruct is `struct S(A, B);`. Stripped fields are nil.
type TupleStruct struct {
	Fields []*ID
}

// PlainStruct is `struct S { a: A }`.
type PlainStruct struct {
	Fields         []ID `json:"fields"`
	FieldsStripped bool `json:"fields_stripped"`
}

// StructField is a named or positional field; it carries the field type.
type StructField struct {
	Type Type
}

// Enum is an `enum` item. Variants are separate Variant items.
type Enum struct {
	Generics         Generics `json:"generics"`
	VariantsStripped bool     `json:"variants_stripped"`
	Variants         []ID     `json:"variants"`
	Impls            []ID     `json:"impls"`
}

// Variant is an enum variant. Its payload is kept undecoded: variant fields
// are indexed as their own StructField items.
type Variant struct {
	Raw json.RawMessage
}

// Function is a free function, method or trait method.
type Function struct {
	Decl     FnDecl          `json:"decl"`
	Generics Generics        `json:"generics"`
	Header   json.RawMessage `json:"header"`
	HasBody  bool            `json:"has_body"`
}

// FnDecl is a function signature.
type FnDecl struct {
	Inputs    []FnInput `json:"inputs"`
	Output    *Type     `json:"output"`
	CVariadic bool      `json:"c_variadic"`
}

// FnInput is one `(name, type)` parameter pair.
type FnInput struct {
	Name string
	Type Type
}

func (in *FnInput) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("function input: expected [name, type] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &in.Name); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &in.Type)
}

// Trait is a `trait` item. Its associated items are separate items.
type Trait struct {
	IsAuto          bool           `json:"is_auto"`
	IsUnsafe        bool           `json:"is_unsafe"`
	Items           []ID           `json:"items"`
	Generics        Generics       `json:"generics"`
	Bounds          []GenericBound `json:"bounds"`
	Implementations []ID           `json:"implementations"`
}

// TraitAlias is a `trait A = B;` item.
type TraitAlias struct {
	Generics Generics       `json:"generics"`
	Params   []GenericBound `json:"params"`
}

// Impl is an `impl` block. BlanketImpl is set for impls rustdoc synthesised
// from a blanket `impl<T: Bound> Trait for T`.
type Impl struct {
	IsUnsafe             bool     `json:"is_unsafe"`
	Generics             Generics `json:"generics"`
	ProvidedTraitMethods []string `json:"provided_trait_methods"`
	Trait                *Path    `json:"trait"`
	For                  Type     `json:"for"`
	Items                []ID     `json:"items"`
	Negative             bool     `json:"negative"`
	Synthetic            bool     `json:"synthetic"`
	BlanketImpl          *Type    `json:"blanket_impl"`
}

// Typedef is a `type A = B;` alias.
type Typedef struct {
	Type     Type     `json:"type"`
	Generics Generics `json:"generics"`
}

// OpaqueTy is an `impl Trait` type alias.
type OpaqueTy struct {
	Bounds   []GenericBound `json:"bounds"`
	Generics Generics       `json:"generics"`
}

// Constant is a `const` item, also used for const generic arguments.
type Constant struct {
	Type      Type    `json:"type"`
	Expr      string  `json:"expr"`
	Value     *string `json:"value"`
	IsLiteral bool    `json:"is_literal"`
}

// Static is a `static` item.
type Static struct {
	Type    Type   `json:"type"`
	Mutable bool   `json:"mutable"`
	Expr    string `json:"expr"`
}

// ForeignType is an `extern { type T; }` item.
type ForeignType struct{}

// Macro is a `macro_rules!` item; the payload is its source text.
type Macro struct {
	Raw json.RawMessage
}

// ProcMacro is a procedural macro item.
type ProcMacro struct {
	Raw json.RawMessage
}

// Primitive is a documented primitive type such as `u8`.
type Primitive struct {
	Raw json.RawMessage
}

// AssocConst is an associated constant in a trait or impl.
type AssocConst struct {
	Type    Type    `json:"type"`
	Default *string `json:"default"`
}

// AssocType is an associated type in a trait or impl.
type AssocType struct {
	Generics Generics       `json:"generics"`
	Bounds   []GenericBound `json:"bounds"`
	Default  *Type          `json:"default"`
}

func (*Module) itemEnum()      {}
func (*ExternCrate) itemEnum() {}
func (*Import) itemEnum()      {}
func (*Union) itemEnum()       {}
func (*Struct) itemEnum()      {}
func (*StructField) itemEnum() {}
func (*Enum) itemEnum()        {}
func (*Variant) itemEnum()     {}
func (*Function) itemEnum()    {}
func (*Trait) itemEnum()       {}
func (*TraitAlias) itemEnum()  {}
func (*Impl) itemEnum()        {}
func (*Typedef) itemEnum()     {}
func (*OpaqueTy) itemEnum()    {}
func (*Constant) itemEnum()    {}
func (*Static) itemEnum()      {}
func (*ForeignType) itemEnum() {}
func (*Macro) itemEnum()       {}
func (*ProcMacro) itemEnum()   {}
func (*Primitive) itemEnum()   {}
func (*AssocConst) itemEnum()  {}
func (*AssocType) itemEnum()   {}

func (*UnitStruct) structKind()  {}
func (*TupleStruct) structKind() {}
func (*PlainStruct) structKind() {}
