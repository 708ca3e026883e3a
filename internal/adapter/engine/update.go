package engine

import (
	"strings"

	"github.com/jotdb/jotdb/domain"
	"github.com/jotdb/jotdb/pkg/bval"
)

// applyUpdate mutates doc according to update. Updates come in two
// shapes: an operator document where every top-level key starts with
// "$", or a plain replacement document. Mixing the two is rejected, as
// is any attempt to touch "_id".
func applyUpdate(doc, update *bval.Document) error {
	ops := 0
	for _, key := range update.Keys() {
		if strings.HasPrefix(key, "$") {
			ops++
		}
	}
	switch {
	case ops == 0:
		return replaceFields(doc, update)
	case ops == update.Len():
		return applyOperators(doc, update)
	default:
		return domain.NewEngineError(domain.CodeUnknownUpdateOperation,
			"cannot mix update operators with plain fields")
	}
}

func applyOperators(doc, update *bval.Document) error {
	for op, arg := range update.Iter() {
		fields, err := arg.AsDocument()
		if err != nil {
			return domain.NewEngineError(domain.CodeUnknownUpdateOperation,
				"%s expects a document argument", op)
		}
		switch op {
		case "$set":
			if err := applySet(doc, fields); err != nil {
				return err
			}
		case "$inc":
			if err := applyInc(doc, fields); err != nil {
				return err
			}
		case "$unset":
			if err := applyUnset(doc, fields); err != nil {
				return err
			}
		default:
			return domain.NewEngineError(domain.CodeUnknownUpdateOperation,
				"unknown update operation: %s", op)
		}
	}
	return nil
}

func applySet(doc, fields *bval.Document) error {
	for key, val := range fields.Iter() {
		if key == "_id" {
			return errPrimaryKey()
		}
		doc.Set(key, val.Clone())
	}
	return nil
}

func applyInc(doc, fields *bval.Document) error {
	for key, delta := range fields.Iter() {
		if key == "_id" {
			return errPrimaryKey()
		}
		if !isNumeric(delta) {
			return domain.NewEngineError(domain.CodeIncrementNonNumericField,
				"$inc requires a numeric amount for field %s", key)
		}
		current, ok := doc.Get(key)
		if !ok {
			doc.Set(key, delta.Clone())
			continue
		}
		if !isNumeric(current) {
			return domain.NewEngineError(domain.CodeIncrementNonNumericField,
				"cannot increment non numeric field %s", key)
		}
		doc.Set(key, addNumeric(current, delta))
	}
	return nil
}

func applyUnset(doc, fields *bval.Document) error {
	for key := range fields.Iter() {
		if key == "_id" {
			return errPrimaryKey()
		}
		doc.Delete(key)
	}
	return nil
}

// replaceFields swaps the document body for the update's fields while
// keeping the stored "_id". An "_id" inside the update must equal the
// stored one.
func replaceFields(doc, update *bval.Document) error {
	if v, ok := update.Get("_id"); ok {
		if current, exists := doc.Get("_id"); !exists || !current.Equal(v) {
			return errPrimaryKey()
		}
	}
	for _, key := range doc.Keys() {
		if key != "_id" {
			doc.Delete(key)
		}
	}
	for key, val := range update.Iter() {
		if key == "_id" {
			continue
		}
		doc.Set(key, val.Clone())
	}
	return nil
}

func errPrimaryKey() error {
	return domain.NewEngineError(domain.CodeCannotUpdatePrimaryKey,
		"the primary key cannot be modified")
}

func isNumeric(v bval.Value) bool {
	return v.Type() == bval.TypeInt64 || v.Type() == bval.TypeDouble
}

// addNumeric sums two numeric values. Two integers stay an integer,
// anything else widens to double.
func addNumeric(a, b bval.Value) bval.Value {
	if a.Type() == bval.TypeInt64 && b.Type() == bval.TypeInt64 {
		x, _ := a.AsInt64()
		y, _ := b.AsInt64()
		return bval.Int64(x + y)
	}
	return bval.Double(asFloat(a) + asFloat(b))
}

func asFloat(v bval.Value) float64 {
	if v.Type() == bval.TypeInt64 {
		n, _ := v.AsInt64()
		return float64(n)
	}
	f, _ := v.AsDouble()
	return f
}
