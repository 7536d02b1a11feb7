package closure

// DimensionFilter matches either any value of a scope dimension or exactly
// one id. It replaces the repeated "is null OR equals" checks that scope
// rows would otherwise need at every call site.
type DimensionFilter struct {
	id *string
}

// AnyValue returns a filter that matches every id of its dimension.
func AnyValue() DimensionFilter {
	return DimensionFilter{}
}

// Exactly returns a filter that matches only the given id.
func Exactly(id string) DimensionFilter {
	return DimensionFilter{id: &id}
}

// FilterFor builds a filter from a nullable column: nil means the whole
// dimension, anything else means exactly that id.
func FilterFor(id *string) DimensionFilter {
	if id == nil {
		return AnyValue()
	}
	return Exactly(*id)
}

// Matches reports whether the candidate id satisfies the filter.
func (f DimensionFilter) Matches(id string) bool {
	return f.id == nil || *f.id == id
}

// IsAny reports whether the filter is the wildcard.
func (f DimensionFilter) IsAny() bool {
	return f.id == nil
}

// listMatch applies exception-override semantics: a nil list exempts any
// value, a non-nil list exempts only its members.
func listMatch(ids []string, id string) bool {
	if ids == nil {
		return true
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
