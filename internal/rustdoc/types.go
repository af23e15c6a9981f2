package rustdoc

// Type is a type expression occurring in a signature, field, bound or
// generic argument. Kind is nil only for a JSON null.
type Type struct {
	Kind TypeKind
}

// TypeKind is the closed set of type expression variants.
type TypeKind interface {
	typeKind()
}

// ResolvedPath names another item, e.g. `Vec<u8>`.
type ResolvedPath struct {
	Path Path
}

// DynTrait is `dyn A + B + 'a`.
type DynTrait struct {
	Traits   []PolyTrait `json:"traits"`
	Lifetime *string     `json:"lifetime"`
}

// PolyTrait is a trait bound with optional `for<'a>` parameters.
type PolyTrait struct {
	Trait         Path              `json:"trait"`
	GenericParams []GenericParamDef `json:"generic_params"`
}

// Generic is a type parameter such as `T`.
type Generic string

// PrimitiveType is a built-in type such as `u32` or `str`.
type PrimitiveType string

// FunctionPointer is `fn(A) -> B`.
type FunctionPointer struct {
	Decl          FnDecl            `json:"decl"`
	GenericParams []GenericParamDef `json:"generic_params"`
	Header        []byte            `json:"-"`
}

// Tuple is `(A, B)`; the empty tuple is unit.
type Tuple []Type

// Slice is `[T]`.
type Slice struct {
	Elem Type
}

// Array is `[T; N]`.
type Array struct {
	Type Type   `json:"type"`
	Len  string `json:"len"`
}

// ImplTrait is an argument- or return-position `impl Trait`.
type ImplTrait []GenericBound

// Infer is `_`.
type Infer struct{}

// RawPointer is `*const T` or `*mut T`.
type RawPointer struct {
	Mutable bool `json:"mutable"`
	Type    Type `json:"type"`
}

// BorrowedRef is `&'a T` or `&'a mut T`.
type BorrowedRef struct {
	Lifetime *string `json:"lifetime"`
	Mutable  bool    `json:"mutable"`
	Type     Type    `json:"type"`
}

// QualifiedPath is `<Self as Trait>::Name`.
type QualifiedPath struct {
	Name     string      `json:"name"`
	Args     GenericArgs `json:"args"`
	SelfType Type        `json:"self_type"`
	Trait    *Path       `json:"trait"`
}

func (*ResolvedPath) typeKind()    {}
func (*DynTrait) typeKind()        {}
func (Generic) typeKind()          {}
func (PrimitiveType) typeKind()    {}
func (*FunctionPointer) typeKind() {}
func (Tuple) typeKind()            {}
func (*Slice) typeKind()           {}
func (*Array) typeKind()           {}
func (ImplTrait) typeKind()        {}
func (*Infer) typeKind()           {}
func (*RawPointer) typeKind()      {}
func (*BorrowedRef) typeKind()     {}
func (*QualifiedPath) typeKind()   {}

// Path is a reference to another item by ID, with optional generic arguments.
type Path struct {
	Name string       `json:"name"`
	ID   ID           `json:"id"`
	Args *GenericArgs `json:"args"`
}

// GenericArgs is `<A, B, Item = C>` or `(A, B) -> C`.
type GenericArgs struct {
	Kind GenericArgsKind
}

// GenericArgsKind is the closed set of generic argument list shapes.
type GenericArgsKind interface {
	genericArgsKind()
}

// AngleBracketed is `<A, B, Item = C>`.
type AngleBracketed struct {
	Args     []GenericArg  `json:"args"`
	Bindings []TypeBinding `json:"bindings"`
}

// Parenthesized is `Fn(A, B) -> C`.
type Parenthesized struct {
	Inputs []Type `json:"inputs"`
	Output *Type  `json:"output"`
}

func (*AngleBracketed) genericArgsKind() {}
func (*Parenthesized) genericArgsKind()  {}

// GenericArg is one argument of an angle-bracketed list.
type GenericArg struct {
	Kind GenericArgKind
}

// GenericArgKind is the closed set of generic argument variants.
type GenericArgKind interface {
	genericArgKind()
}

// LifetimeArg is `'a`.
type LifetimeArg string

// TypeArg is a type argument.
type TypeArg struct {
	Type Type
}

// ConstArg is a const generic argument.
type ConstArg struct {
	Constant Constant
}

// InferArg is `_` in argument position.
type InferArg struct{}

func (LifetimeArg) genericArgKind() {}
func (*TypeArg) genericArgKind()    {}
func (*ConstArg) genericArgKind()   {}
func (*InferArg) genericArgKind()   {}

// TypeBinding is `Item = T` or `Item: Bound` inside generic arguments.
type TypeBinding struct {
	Name    string      `json:"name"`
	Args    GenericArgs `json:"args"`
	Binding Binding     `json:"binding"`
}

// Binding is the right-hand side of a TypeBinding.
type Binding struct {
	Kind BindingKind
}

// BindingKind is the closed set of binding variants.
type BindingKind interface {
	bindingKind()
}

// Equality is `Item = Term`.
type Equality struct {
	Term Term
}

// Constraint is `Item: A + B`.
type Constraint []GenericBound

func (*Equality) bindingKind() {}
func (Constraint) bindingKind() {}

// Term is a type or a constant.
type Term struct {
	Kind TermKind
}

// TermKind is the closed set of term variants.
type TermKind interface {
	termKind()
}

// TermType is a type term.
type TermType struct {
	Type Type
}

// TermConstant is a constant term.
type TermConstant struct {
	Constant Constant
}

func (*TermType) termKind()     {}
func (*TermConstant) termKind() {}

// GenericBound is a trait bound or a lifetime bound.
type GenericBound struct {
	Kind BoundKind
}

// BoundKind is the closed set of bound variants.
type BoundKind interface {
	boundKind()
}

// TraitBound is `?Sized`, `for<'a> Fn(&'a T)` and similar.
type TraitBound struct {
	Trait         Path              `json:"trait"`
	GenericParams []GenericParamDef `json:"generic_params"`
	Modifier      string            `json:"modifier"`
}

// Outlives is `'a`.
type Outlives string

func (*TraitBound) boundKind() {}
func (Outlives) boundKind()    {}

// Generics lists generic parameters and where-clauses.
type Generics struct {
	Params          []GenericParamDef `json:"params"`
	WherePredicates []WherePredicate  `json:"where_predicates"`
}

// GenericParamDef declares one generic parameter.
type GenericParamDef struct {
	Name string           `json:"name"`
	Kind GenericParamKind `json:"-"`
}

// GenericParamKind is the closed set of generic parameter variants.
type GenericParamKind interface {
	genericParamKind()
}

// LifetimeParam is `'a: 'b`.
type LifetimeParam struct {
	Outlives []string `json:"outlives"`
}

// TypeParam is `T: Bound = Default`.
type TypeParam struct {
	Bounds    []GenericBound `json:"bounds"`
	Default   *Type          `json:"default"`
	Synthetic bool           `json:"synthetic"`
}

// ConstParam is `const N: usize = 3`.
type ConstParam struct {
	Type    Type    `json:"type"`
	Default *string `json:"default"`
}

func (*LifetimeParam) genericParamKind() {}
func (*TypeParam) genericParamKind()     {}
func (*ConstParam) genericParamKind()    {}

// WherePredicate is one clause of a where-clause.
type WherePredicate struct {
	Kind PredicateKind
}

// PredicateKind is the closed set of where-clause variants.
type PredicateKind interface {
	predicateKind()
}

// BoundPredicate is `T: Bound`.
type BoundPredicate struct {
	Type          Type              `json:"type"`
	Bounds        []GenericBound    `json:"bounds"`
	GenericParams []GenericParamDef `json:"generic_params"`
}

// RegionPredicate is `'a: 'b`.
type RegionPredicate struct {
	Lifetime string         `json:"lifetime"`
	Bounds   []GenericBound `json:"bounds"`
}

// EqPredicate is `T::Item = U`.
type EqPredicate struct {
	LHS Type `json:"lhs"`
	RHS Term `json:"rhs"`
}

func (*BoundPredicate) predicateKind()  {}
func (*RegionPredicate) predicateKind() {}
func (*EqPredicate) predicateKind()     {}
