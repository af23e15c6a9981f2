package rustdoc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTagged(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantTag     string
		wantPayload string
		wantErr     bool
	}{
		{name: "unit variant", in: `"infer"`, wantTag: "infer"},
		{name: "object variant", in: `{"generic": "T"}`, wantTag: "generic", wantPayload: `"T"`},
		{name: "null", in: `null`},
		{name: "two keys", in: `{"a": 1, "b": 2}`, wantErr: true},
		{name: "array", in: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, payload, err := splitTagged([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTag, tag)
			assert.Equal(t, tt.wantPayload, string(payload))
		})
	}
}

func TestType_Decode(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		check func(t *testing.T, k TypeKind)
	}{
		{"resolved path", `{"resolved_path": {"name": "Vec", "id": "2:1", "args": {"angle_bracketed": {"args": [{"type": {"primitive": "u8"}}], "bindings": []}}}}`,
			func(t *testing.T, k TypeKind) {
				rp := k.(*ResolvedPath)
				assert.Equal(t, ID("2:1"), rp.Path.ID)
				require.NotNil(t, rp.Path.Args)
				ab := rp.Path.Args.Kind.(*AngleBracketed)
				require.Len(t, ab.Args, 1)
				assert.Equal(t, PrimitiveType("u8"), ab.Args[0].Kind.(*TypeArg).Type.Kind)
			}},
		{"generic", `{"generic": "T"}`, func(t *testing.T, k TypeKind) { assert.Equal(t, Generic("T"), k) }},
		{"infer", `"infer"`, func(t *testing.T, k TypeKind) { assert.IsType(t, &Infer{}, k) }},
		{"tuple", `{"tuple": [{"generic": "A"}, {"primitive": "bool"}]}`, func(t *testing.T, k TypeKind) {
			assert.Equal(t, Tuple{{Kind: Generic("A")}, {Kind: PrimitiveType("bool")}}, k)
		}},
		{"unit tuple", `{"tuple": []}`, func(t *testing.T, k TypeKind) { assert.Empty(t, k.(Tuple)) }},
		{"slice", `{"slice": {"generic": "T"}}`, func(t *testing.T, k TypeKind) {
			assert.Equal(t, Generic("T"), k.(*Slice).Elem.Kind)
		}},
		{"array", `{"array": {"type": {"primitive": "u8"}, "len": "32"}}`, func(t *testing.T, k TypeKind) {
			assert.Equal(t, "32", k.(*Array).Len)
		}},
		{"borrowed ref", `{"borrowed_ref": {"lifetime": "'a", "mutable": true, "type": {"primitive": "str"}}}`, func(t *testing.T, k TypeKind) {
			ref := k.(*BorrowedRef)
			assert.True(t, ref.Mutable)
			assert.Equal(t, "'a", *ref.Lifetime)
		}},
		{"qualified path", `{"qualified_path": {"name": "Item", "args": {"angle_bracketed": {"args": [], "bindings": []}}, "self_type": {"generic": "I"}, "trait": {"name": "Iterator", "id": "2:3", "args": null}}}`,
			func(t *testing.T, k TypeKind) {
				qp := k.(*QualifiedPath)
				assert.Equal(t, "Item", qp.Name)
				assert.Equal(t, ID("2:3"), qp.Trait.ID)
			}},
		{"impl trait", `{"impl_trait": [{"trait_bound": {"trait": {"name": "Fn", "id": "2:4", "args": {"parenthesized": {"inputs": [], "output": null}}}, "generic_params": [], "modifier": "none"}}, {"outlives": "'a"}]}`,
			func(t *testing.T, k TypeKind) {
				it := k.(ImplTrait)
				require.Len(t, it, 2)
				assert.IsType(t, &Parenthesized{}, it[0].Kind.(*TraitBound).Trait.Args.Kind)
				assert.Equal(t, Outlives("'a"), it[1].Kind)
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var typ Type
			require.NoError(t, json.Unmarshal([]byte(tt.in), &typ))
			tt.check(t, typ.Kind)
		})
	}
}

func TestDecode_UnknownVariant(t *testing.T) {
	var typ Type
	err := json.Unmarshal([]byte(`{"pattern": {}}`), &typ)

	var unknown *UnknownVariantError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "type", unknown.Sum)
	assert.Equal(t, "pattern", unknown.Tag)

	var item Item
	err = json.Unmarshal([]byte(`{"id": "0:1", "crate_id": 0, "inner": {"keyword": {}}}`), &item)
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "item", unknown.Sum)
	assert.Contains(t, err.Error(), "0:1")
}

func TestItem_Decode(t *testing.T) {
	data := `{
		"id": "0:4", "crate_id": 0, "name": "Point",
		"span": {"filename": "src/lib.rs", "begin": [3, 1], "end": [6, 2]},
		"visibility": {"restricted": {"parent": "0:0", "path": "crate::geo"}},
		"docs": null, "links": {}, "attrs": [], "deprecation": null,
		"inner": {"struct": {"kind": {"tuple": ["0:5", null]}, "generics": {"params": [{"name": "T", "kind": {"type": {"bounds": [], "default": {"primitive": "f64"}, "synthetic": false}}}], "where_predicates": []}, "impls": []}}
	}`

	var item Item
	require.NoError(t, json.Unmarshal([]byte(data), &item))

	assert.Equal(t, ID("0:4"), item.ID)
	assert.Equal(t, Visibility("restricted"), item.Visibility)
	require.NotNil(t, item.Span)
	assert.Equal(t, "src/lib.rs:3:1", item.Span.String())

	st, ok := item.Inner.(*Struct)
	require.True(t, ok, "inner is %T", item.Inner)
	tuple := st.Kind.(*TupleStruct)
	require.Len(t, tuple.Fields, 2)
	assert.Equal(t, ID("0:5"), *tuple.Fields[0])
	assert.Nil(t, tuple.Fields[1])

	require.Len(t, st.Generics.Params, 1)
	param := st.Generics.Params[0].Kind.(*TypeParam)
	assert.Equal(t, PrimitiveType("f64"), param.Default.Kind)
}

func TestItem_DecodeFunction(t *testing.T) {
	data := `{"function": {
		"decl": {"inputs": [["self", {"borrowed_ref": {"lifetime": null, "mutable": false, "type": {"generic": "Self"}}}]], "output": null, "c_variadic": false},
		"generics": {"params": [], "where_predicates": [{"eq_predicate": {"lhs": {"generic": "T"}, "rhs": {"constant": {"type": {"primitive": "usize"}, "expr": "3", "value": null, "is_literal": true}}}}]},
		"header": {"const": false, "unsafe": false, "async": false, "abi": "Rust"},
		"has_body": false
	}}`

	inner, err := decodeItemEnum(json.RawMessage(data))
	require.NoError(t, err)

	fn := inner.(*Function)
	require.Len(t, fn.Decl.Inputs, 1)
	assert.Equal(t, "self", fn.Decl.Inputs[0].Name)
	assert.Nil(t, fn.Decl.Output)
	eq := fn.Generics.WherePredicates[0].Kind.(*EqPredicate)
	assert.Equal(t, "3", eq.RHS.Kind.(*TermConstant).Constant.Expr)
}

func TestFnInput_BadPair(t *testing.T) {
	var in FnInput
	err := json.Unmarshal([]byte(`["only-name"]`), &in)
	assert.ErrorContains(t, err, "expected [name, type] pair")
}

func TestDecodeItemEnum_UnitAndOpaque(t *testing.T) {
	inner, err := decodeItemEnum(json.RawMessage(`"foreign_type"`))
	require.NoError(t, err)
	assert.IsType(t, &ForeignType{}, inner)

	inner, err = decodeItemEnum(json.RawMessage(`{"macro": "macro_rules! m { () => {} }"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `"macro_rules! m { () => {} }"`, string(inner.(*Macro).Raw))

	inner, err = decodeItemEnum(json.RawMessage(`{"assoc_const": {"type": {"primitive": "u32"}, "default": "4"}}`))
	require.NoError(t, err)
	assert.Equal(t, "4", *inner.(*AssocConst).Default)
}
