// Package visit walks rustdoc items and type expressions, reporting every
// path reference and import it reaches.
//
// The walk is exhaustive: every item kind, type kind and generic construct is
// handled by a type switch over the closed variant sets of package rustdoc.
// Blanket impls are skipped entirely.
package visit

import "pubcrates/internal/rustdoc"

// Visitor receives the hooks of a walk. Both hooks may be called any number
// of times per item.
type Visitor interface {
	VisitPath(path *rustdoc.Path)
	VisitImport(imp *rustdoc.Import)
}

// Nop implements Visitor with no-op hooks; embed it to override one hook.
type Nop struct{}

func (Nop) VisitPath(*rustdoc.Path)     {}
func (Nop) VisitImport(*rustdoc.Import) {}

// Funcs adapts plain functions to Visitor. Nil fields are no-ops.
type Funcs struct {
	Path   func(*rustdoc.Path)
	Import func(*rustdoc.Import)
}

func (f Funcs) VisitPath(p *rustdoc.Path) {
	if f.Path != nil {
		f.Path(p)
	}
}

func (f Funcs) VisitImport(imp *rustdoc.Import) {
	if f.Import != nil {
		f.Import(imp)
	}
}

// Item walks one declaration.
func Item(item *rustdoc.Item, v Visitor) {
	if item == nil {
		return
	}
	switch inner := item.Inner.(type) {
	case *rustdoc.Function:
		fnDecl(&inner.Decl, v)
		generics(&inner.Generics, v)
	case *rustdoc.Struct:
		// The kind only lists field IDs; fields are visited as their own items.
		generics(&inner.Generics, v)
	case *rustdoc.StructField:
		Type(&inner.Type, v)
	case *rustdoc.AssocType:
		generics(&inner.Generics, v)
		bounds(inner.Bounds, v)
		if inner.Default != nil {
			Type(inner.Default, v)
		}
	case *rustdoc.AssocConst:
		Type(&inner.Type, v)
	case *rustdoc.Impl:
		impl(inner, v)
	case *rustdoc.Typedef:
		Type(&inner.Type, v)
		generics(&inner.Generics, v)
	case *rustdoc.Union:
		generics(&inner.Generics, v)
	case *rustdoc.Enum:
		generics(&inner.Generics, v)
	case *rustdoc.Trait:
		generics(&inner.Generics, v)
		bounds(inner.Bounds, v)
	case *rustdoc.TraitAlias:
		generics(&inner.Generics, v)
		bounds(inner.Params, v)
	case *rustdoc.OpaqueTy:
		bounds(inner.Bounds, v)
		generics(&inner.Generics, v)
	case *rustdoc.Constant:
		constant(inner, v)
	case *rustdoc.Static:
		Type(&inner.Type, v)
	case *rustdoc.Import:
		v.VisitImport(inner)
	case *rustdoc.Module, *rustdoc.Variant, *rustdoc.ExternCrate, *rustdoc.ForeignType,
		*rustdoc.Primitive, *rustdoc.ProcMacro, *rustdoc.Macro:
	}
}

// Type walks a type expression.
func Type(t *rustdoc.Type, v Visitor) {
	if t == nil {
		return
	}
	switch k := t.Kind.(type) {
	case *rustdoc.ResolvedPath:
		path(&k.Path, v)
	case *rustdoc.DynTrait:
		for i := range k.Traits {
			polyTrait(&k.Traits[i], v)
		}
	case rustdoc.Generic, rustdoc.PrimitiveType, *rustdoc.Infer:
	case *rustdoc.FunctionPointer:
		fnDecl(&k.Decl, v)
		params(k.GenericParams, v)
	case rustdoc.Tuple:
		for i := range k {
			Type(&k[i], v)
		}
	case *rustdoc.Slice:
		Type(&k.Elem, v)
	case *rustdoc.Array:
		Type(&k.Type, v)
	case rustdoc.ImplTrait:
		bounds(k, v)
	case *rustdoc.RawPointer:
		Type(&k.Type, v)
	case *rustdoc.BorrowedRef:
		Type(&k.Type, v)
	case *rustdoc.QualifiedPath:
		genericArgs(&k.Args, v)
		Type(&k.SelfType, v)
		if k.Trait != nil {
			path(k.Trait, v)
		}
	}
}

func impl(i *rustdoc.Impl, v Visitor) {
	// A blanket impl from another crate that happens to cover a local type
	// is not part of the local API.
	if i.BlanketImpl != nil {
		return
	}
	generics(&i.Generics, v)
	if i.Trait != nil {
		path(i.Trait, v)
	}
	Type(&i.For, v)
}

func fnDecl(d *rustdoc.FnDecl, v Visitor) {
	for i := range d.Inputs {
		Type(&d.Inputs[i].Type, v)
	}
	if d.Output != nil {
		Type(d.Output, v)
	}
}

func constant(c *rustdoc.Constant, v Visitor) {
	Type(&c.Type, v)
}

func path(p *rustdoc.Path, v Visitor) {
	v.VisitPath(p)
	if p.Args != nil {
		genericArgs(p.Args, v)
	}
}

func polyTrait(pt *rustdoc.PolyTrait, v Visitor) {
	path(&pt.Trait, v)
	params(pt.GenericParams, v)
}

func generics(g *rustdoc.Generics, v Visitor) {
	params(g.Params, v)
	for i := range g.WherePredicates {
		wherePredicate(&g.WherePredicates[i], v)
	}
}

func params(ps []rustdoc.GenericParamDef, v Visitor) {
	for i := range ps {
		switch k := ps[i].Kind.(type) {
		case *rustdoc.LifetimeParam:
		case *rustdoc.TypeParam:
			bounds(k.Bounds, v)
			if k.Default != nil {
				Type(k.Default, v)
			}
		case *rustdoc.ConstParam:
			Type(&k.Type, v)
		}
	}
}

func wherePredicate(w *rustdoc.WherePredicate, v Visitor) {
	switch k := w.Kind.(type) {
	case *rustdoc.BoundPredicate:
		Type(&k.Type, v)
		bounds(k.Bounds, v)
		params(k.GenericParams, v)
	case *rustdoc.RegionPredicate:
		bounds(k.Bounds, v)
	case *rustdoc.EqPredicate:
		Type(&k.LHS, v)
		term(&k.RHS, v)
	}
}

func bounds(bs []rustdoc.GenericBound, v Visitor) {
	for i := range bs {
		switch k := bs[i].Kind.(type) {
		case *rustdoc.TraitBound:
			path(&k.Trait, v)
			params(k.GenericParams, v)
		case rustdoc.Outlives:
		}
	}
}

func term(t *rustdoc.Term, v Visitor) {
	switch k := t.Kind.(type) {
	case *rustdoc.TermType:
		Type(&k.Type, v)
	case *rustdoc.TermConstant:
		constant(&k.Constant, v)
	}
}

func genericArgs(a *rustdoc.GenericArgs, v Visitor) {
	switch k := a.Kind.(type) {
	case *rustdoc.AngleBracketed:
		for i := range k.Args {
			genericArg(&k.Args[i], v)
		}
		for i := range k.Bindings {
			binding(&k.Bindings[i], v)
		}
	case *rustdoc.Parenthesized:
		for i := range k.Inputs {
			Type(&k.Inputs[i], v)
		}
		if k.Output != nil {
			Type(k.Output, v)
		}
	}
}

func genericArg(a *rustdoc.GenericArg, v Visitor) {
	switch k := a.Kind.(type) {
	case rustdoc.LifetimeArg, *rustdoc.InferArg:
	case *rustdoc.TypeArg:
		Type(&k.Type, v)
	case *rustdoc.ConstArg:
		constant(&k.Constant, v)
	}
}

func binding(b *rustdoc.TypeBinding, v Visitor) {
	genericArgs(&b.Args, v)
	switch k := b.Binding.Kind.(type) {
	case *rustdoc.Equality:
		term(&k.Term, v)
	case rustdoc.Constraint:
		bounds(k, v)
	}
}
