package typesystem

func (t TPrim) IsCompatibleWith(o Type) bool     { return Compatible(t, o) }
func (t TArray) IsCompatibleWith(o Type) bool    { return Compatible(t, o) }
func (t TNullable) IsCompatibleWith(o Type) bool { return Compatible(t, o) }
func (t TFunc) IsCompatibleWith(o Type) bool     { return Compatible(t, o) }
func (t TNamed) IsCompatibleWith(o Type) bool    { return Compatible(t, o) }
func (t TEnum) IsCompatibleWith(o Type) bool     { return Compatible(t, o) }
func (t TVar) IsCompatibleWith(o Type) bool      { return Compatible(t, o) }
func (t TUnknown) IsCompatibleWith(o Type) bool  { return Compatible(t, o) }
func (t TError) IsCompatibleWith(o Type) bool    { return Compatible(t, o) }

// Compatible reports whether a value of type a may be used where b is
// expected. The relation is not symmetric: T is compatible with T? but T?
// is not compatible with T.
func Compatible(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Equal(b) {
		return true
	}
	if IsWildcard(a) || IsWildcard(b) {
		return true
	}

	if ap, ok := a.(TPrim); ok {
		if bp, ok := b.(TPrim); ok {
			return (ap.Kind.IsInteger() && bp.Kind.IsInteger()) ||
				(ap.Kind.IsFloat() && bp.Kind.IsFloat())
		}
	}

	if bn, ok := b.(TNullable); ok {
		if an, ok := a.(TNullable); ok {
			return Compatible(an.Inner, bn.Inner)
		}
		return Compatible(a, bn.Inner)
	}

	switch at := a.(type) {
	case TArray:
		if bt, ok := b.(TArray); ok {
			return Compatible(at.Elem, bt.Elem)
		}
	case TFunc:
		bt, ok := b.(TFunc)
		if !ok || len(at.Params) != len(bt.Params) {
			return false
		}
		// Parameters are contravariant, the return is covariant.
		for i := range at.Params {
			if !Compatible(bt.Params[i], at.Params[i]) {
				return false
			}
		}
		return Compatible(at.Return, bt.Return)
	}
	return false
}

// IsWildcard reports whether t absorbs every compatibility check: the poison
// Error type, Unknown, and unbound inference variables.
func IsWildcard(t Type) bool {
	switch t.(type) {
	case TError, TUnknown, TVar:
		return true
	}
	return false
}

func IsError(t Type) bool {
	_, ok := t.(TError)
	return ok
}

func IsVar(t Type) bool {
	_, ok := t.(TVar)
	return ok
}

func IsInteger(t Type) bool {
	p, ok := t.(TPrim)
	return ok && p.Kind.IsInteger()
}

func IsFloat(t Type) bool {
	p, ok := t.(TPrim)
	return ok && p.Kind.IsFloat()
}

func IsNumeric(t Type) bool { return IsInteger(t) || IsFloat(t) }

func IsPrim(t Type, k PrimKind) bool {
	p, ok := t.(TPrim)
	return ok && p.Kind.Canonical() == k.Canonical()
}

// Wider returns the wider of two same-category primitives. On equal width the
// display synonym (int, float) is preferred.
func Wider(a, b TPrim) TPrim {
	switch {
	case a.Kind.Bits() > b.Kind.Bits():
		return a
	case b.Kind.Bits() > a.Kind.Bits():
		return b
	case b.Kind == Int || b.Kind == Float:
		return b
	default:
		return a
	}
}
