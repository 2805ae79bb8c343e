package schema

import "strings"

// DefaultIrregularTypes are the tables whose names carry a trailing underscore
// (the bare names are reserved words). Their reference fields drop the
// separator: "user_" is referenced by "user_id", not "user__id".
var DefaultIrregularTypes = []string{"user_", "order_"}

// FieldResolver maps a target type to the field names that reference it.
type FieldResolver struct {
	irregular map[string]bool
}

// NewFieldResolver creates a resolver. A nil list uses DefaultIrregularTypes.
func NewFieldResolver(irregularTypes []string) *FieldResolver {
	if irregularTypes == nil {
		irregularTypes = DefaultIrregularTypes
	}
	r := &FieldResolver{irregular: make(map[string]bool, len(irregularTypes))}
	for _, t := range irregularTypes {
		r.irregular[t] = true
	}
	return r
}

// IsIrregular reports whether t drops the underscore before its id suffix.
func (r *FieldResolver) IsIrregular(t string) bool {
	return r.irregular[t]
}

// ScalarField returns the single-valued reference field for t.
func (r *FieldResolver) ScalarField(t string) string {
	return r.field(t, "id")
}

// CollectionField returns the collection-valued reference field for t.
func (r *FieldResolver) CollectionField(t string) string {
	return r.field(t, "ids")
}

func (r *FieldResolver) field(t, suffix string) string {
	var sb strings.Builder
	sb.Grow(len(t) + len(suffix) + 1)
	sb.WriteString(t)
	if !r.irregular[t] {
		sb.WriteByte('_')
	}
	sb.WriteString(suffix)
	return sb.String()
}
