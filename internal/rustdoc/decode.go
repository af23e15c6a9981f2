package rustdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnknownVariantError reports a tag that is not part of a closed variant set.
type UnknownVariantError struct {
	Sum string
	Tag string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown %s variant %q", e.Sum, e.Tag)
}

var nullJSON = []byte("null")

func isNull(data []byte) bool {
	return len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), nullJSON)
}

// splitTagged splits an externally tagged enum value. Unit variants are bare
// strings; every other variant is an object with exactly one key.
func splitTagged(data []byte) (string, json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if isNull(data) {
		return "", nil, nil
	}
	if data[0] == '"' {
		var tag string
		if err := json.Unmarshal(data, &tag); err != nil {
			return "", nil, err
		}
		return tag, nil, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", nil, err
	}
	if len(obj) != 1 {
		return "", nil, fmt.Errorf("tagged value: expected one key, got %d", len(obj))
	}
	for tag, payload := range obj {
		return tag, payload, nil
	}
	return "", nil, nil
}

// into decodes payload into a fresh *T.
func into[T any](payload json.RawMessage) (*T, error) {
	v := new(T)
	if isNull(payload) {
		return v, nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeItemEnum(data json.RawMessage) (ItemEnum, error) {
	tag, payload, err := splitTagged(data)
	if err != nil {
		return nil, fmt.Errorf("inner: %w", err)
	}
	switch tag {
	case "module":
		return into[Module](payload)
	case "extern_crate":
		return into[ExternCrate](payload)
	case "import":
		return into[Import](payload)
	case "union":
		return into[Union](payload)
	case "struct":
		return into[Struct](payload)
	case "struct_field":
		t, err := into[Type](payload)
		if err != nil {
			return nil, err
		}
		return &StructField{Type: *t}, nil
	case "enum":
		return into[Enum](payload)
	case "variant":
		return &Variant{Raw: payload}, nil
	case "function", "method":
		return into[Function](payload)
	case "trait":
		return into[Trait](payload)
	case "trait_alias":
		return into[TraitAlias](payload)
	case "impl":
		return into[Impl](payload)
	case "typedef":
		return into[Typedef](payload)
	case "opaque_ty":
		return into[OpaqueTy](payload)
	case "constant":
		return into[Constant](payload)
	case "static":
		return into[Static](payload)
	case "foreign_type":
		return &ForeignType{}, nil
	case "macro":
		return &Macro{Raw: payload}, nil
	case "proc_macro":
		return &ProcMacro{Raw: payload}, nil
	case "primitive":
		return &Primitive{Raw: payload}, nil
	case "assoc_const":
		return into[AssocConst](payload)
	case "assoc_type":
		return into[AssocType](payload)
	}
	return nil, &UnknownVariantError{Sum: "item", Tag: tag}
}

func decodeStructKind(data json.RawMessage) (StructKind, error) {
	tag, payload, err := splitTagged(data)
	if err != nil {
		return nil, fmt.Errorf("struct kind: %w", err)
	}
	switch tag {
	case "unit":
		return &UnitStruct{}, nil
	case "tuple":
		var fields []*ID
		if !isNull(payload) {
			if err := json.Unmarshal(payload, &fields); err != nil {
				return nil, err
			}
		}
		return &TupleStruct{Fields: fields}, nil
	case "plain":
		return into[PlainStruct](payload)
	}
	return nil, &UnknownVariantError{Sum: "struct kind", Tag: tag}
}

func (t *Type) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTagged(data)
	if err != nil {
		return fmt.Errorf("type: %w", err)
	}
	if tag == "" {
		t.Kind = nil
		return nil
	}
	var kind TypeKind
	switch tag {
	case "resolved_path":
		p, err := into[Path](payload)
		if err != nil {
			return err
		}
		kind = &ResolvedPath{Path: *p}
	case "dyn_trait":
		kind, err = into[DynTrait](payload)
	case "generic":
		var name string
		err = json.Unmarshal(payload, &name)
		kind = Generic(name)
	case "primitive":
		var name string
		err = json.Unmarshal(payload, &name)
		kind = PrimitiveType(name)
	case "function_pointer":
		kind, err = into[FunctionPointer](payload)
	case "tuple":
		var elems []Type
		if !isNull(payload) {
			err = json.Unmarshal(payload, &elems)
		}
		kind = Tuple(elems)
	case "slice":
		elem, e := into[Type](payload)
		if e != nil {
			return e
		}
		kind = &Slice{Elem: *elem}
	case "array":
		kind, err = into[Array](payload)
	case "impl_trait":
		var bounds []GenericBound
		if !isNull(payload) {
			err = json.Unmarshal(payload, &bounds)
		}
		kind = ImplTrait(bounds)
	case "infer":
		kind = &Infer{}
	case "raw_pointer":
		kind, err = into[RawPointer](payload)
	case "borrowed_ref":
		kind, err = into[BorrowedRef](payload)
	case "qualified_path":
		kind, err = into[QualifiedPath](payload)
	default:
		return &UnknownVariantError{Sum: "type", Tag: tag}
	}
	if err != nil {
		return fmt.Errorf("type %s: %w", tag, err)
	}
	t.Kind = kind
	return nil
}

func (g *GenericArgs) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTagged(data)
	if err != nil {
		return fmt.Errorf("generic args: %w", err)
	}
	switch tag {
	case "":
		g.Kind = nil
	case "angle_bracketed":
		g.Kind, err = into[AngleBracketed](payload)
	case "parenthesized":
		g.Kind, err = into[Parenthesized](payload)
	default:
		return &UnknownVariantError{Sum: "generic args", Tag: tag}
	}
	return err
}

func (g *GenericArg) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTagged(data)
	if err != nil {
		return fmt.Errorf("generic arg: %w", err)
	}
	switch tag {
	case "lifetime":
		var name string
		err = json.Unmarshal(payload, &name)
		g.Kind = LifetimeArg(name)
	case "type":
		t, e := into[Type](payload)
		if e != nil {
			return e
		}
		g.Kind = &TypeArg{Type: *t}
	case "const":
		c, e := into[Constant](payload)
		if e != nil {
			return e
		}
		g.Kind = &ConstArg{Constant: *c}
	case "infer":
		g.Kind = &InferArg{}
	default:
		return &UnknownVariantError{Sum: "generic arg", Tag: tag}
	}
	return err
}

func (b *Binding) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTagged(data)
	if err != nil {
		return fmt.Errorf("binding: %w", err)
	}
	switch tag {
	case "equality":
		term, e := into[Term](payload)
		if e != nil {
			return e
		}
		b.Kind = &Equality{Term: *term}
	case "constraint":
		var bounds []GenericBound
		if !isNull(payload) {
			err = json.Unmarshal(payload, &bounds)
		}
		b.Kind = Constraint(bounds)
	default:
		return &UnknownVariantError{Sum: "binding", Tag: tag}
	}
	return err
}

func (t *Term) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTagged(data)
	if err != nil {
		return fmt.Errorf("term: %w", err)
	}
	switch tag {
	case "type":
		ty, e := into[Type](payload)
		if e != nil {
			return e
		}
		t.Kind = &TermType{Type: *ty}
	case "constant":
		c, e := into[Constant](payload)
		if e != nil {
			return e
		}
		t.Kind = &TermConstant{Constant: *c}
	default:
		return &UnknownVariantError{Sum: "term", Tag: tag}
	}
	return nil
}

func (b *GenericBound) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTagged(data)
	if err != nil {
		return fmt.Errorf("generic bound: %w", err)
	}
	switch tag {
	case "trait_bound":
		b.Kind, err = into[TraitBound](payload)
	case "outlives":
		var lifetime string
		err = json.Unmarshal(payload, &lifetime)
		b.Kind = Outlives(lifetime)
	default:
		return &UnknownVariantError{Sum: "generic bound", Tag: tag}
	}
	return err
}

func (p *GenericParamDef) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name string          `json:"name"`
		Kind json.RawMessage `json:"kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Name = raw.Name
	tag, payload, err := splitTagged(raw.Kind)
	if err != nil {
		return fmt.Errorf("generic param %s: %w", raw.Name, err)
	}
	switch tag {
	case "lifetime":
		p.Kind, err = into[LifetimeParam](payload)
	case "type":
		p.Kind, err = into[TypeParam](payload)
	case "const":
		p.Kind, err = into[ConstParam](payload)
	default:
		return &UnknownVariantError{Sum: "generic param", Tag: tag}
	}
	return err
}

func (w *WherePredicate) UnmarshalJSON(data []byte) error {
	tag, payload, err := splitTagged(data)
	if err != nil {
		return fmt.Errorf("where predicate: %w", err)
	}
	switch tag {
	case "bound_predicate":
		w.Kind, err = into[BoundPredicate](payload)
	case "region_predicate":
		w.Kind, err = into[RegionPredicate](payload)
	case "eq_predicate":
		w.Kind, err = into[EqPredicate](payload)
	default:
		return &UnknownVariantError{Sum: "where predicate", Tag: tag}
	}
	return err
}
