package horn

// Match extends subst so that pattern equals the ground tuple values,
// reporting whether the match succeeded (spec.md §4.D). Variables unify
// with any value; repeated occurrences of the same variable within pattern
// must agree; constructors match structurally.
//
// Match never needs to unify two open terms against each other: the
// evaluator only ever calls it with a body atom's argument terms as the
// pattern and an already-ground fact's arguments as values, so there is no
// occurs-check and no deferred (both-sides-unbound) case to handle.
func Match(pattern []Term, values []Value, subst Substitution) (Substitution, bool) {
	if len(pattern) != len(values) {
		return subst, false
	}
	for i, t := range pattern {
		var ok bool
		subst, ok = matchOne(t, values[i], subst)
		if !ok {
			return subst, false
		}
	}
	return subst, true
}

func matchOne(t Term, v Value, subst Substitution) (Substitution, bool) {
	switch x := t.(type) {
	case Variable:
		if x.Name == "_" {
			return subst, true
		}
		if bound, ok := subst.Lookup(x.Name); ok {
			return subst, bound.Equal(v)
		}
		return subst.Extend(x.Name, v), true
	case Constant:
		return subst, x.Value.Equal(v)
	case Constructor:
		if v.Kind() != KindCtor || v.CtorName() != x.Name || len(v.Args()) != len(x.Args) {
			return subst, false
		}
		args := v.Args()
		for i, sub := range x.Args {
			var ok bool
			subst, ok = matchOne(sub, args[i], subst)
			if !ok {
				return subst, false
			}
		}
		return subst, true
	default:
		return subst, false
	}
}
