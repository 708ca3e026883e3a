package engine

import "github.com/jotdb/jotdb/pkg/bval"

// match reports whether doc satisfies query. A nil or empty query
// matches every document; otherwise every query field must be present
// on doc with a deep-equal value. Nested documents compare whole, not
// field by field.
func match(doc, query *bval.Document) bool {
	if query.Len() == 0 {
		return true
	}
	for key, want := range query.Iter() {
		got, ok := doc.Get(key)
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}
