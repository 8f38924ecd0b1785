package store

import (
	"fmt"

	"github.com/hashicorp/go-memdb"

	"ontoserver/internal/domain"
)

// table binds a memdb table to one flat entity type. Rows are never mutated
// after insertion: values are cloned on the way in and on the way out.
type table[T comparable] struct {
	name  string
	kind  domain.EntityKind
	key   func(T) string
	clone func(T) T
}

var (
	classes = table[*domain.Class]{
		name:  TableClasses,
		kind:  domain.KindClass,
		key:   func(c *domain.Class) string { return c.UniqueName },
		clone: (*domain.Class).Clone,
	}
	objectProperties = table[*domain.ObjectProperty]{
		name:  TableObjectProperties,
		kind:  domain.KindObjectProperty,
		key:   func(p *domain.ObjectProperty) string { return p.UniqueName },
		clone: (*domain.ObjectProperty).Clone,
	}
	dataProperties = table[*domain.DataProperty]{
		name:  TableDataProperties,
		kind:  domain.KindDataProperty,
		key:   func(p *domain.DataProperty) string { return p.UniqueName },
		clone: (*domain.DataProperty).Clone,
	}
	individuals = table[*domain.Individual]{
		name:  TableIndividuals,
		kind:  domain.KindIndividual,
		key:   func(i *domain.Individual) string { return i.UniqueName },
		clone: (*domain.Individual).Clone,
	}
)

// checkFunc runs extra validation inside the write transaction of add
type checkFunc[T comparable] func(txn *memdb.Txn, v T) error

func (t table[T]) add(db *memdb.MemDB, v T, check checkFunc[T]) error {
	var zero T
	if v == zero {
		return domain.NewValidationError(t.kind.String(), "", "entity is required")
	}
	name := t.key(v)
	if name == "" {
		return domain.NewValidationError(t.kind.String(), name, "unique name is required")
	}

	txn := db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(t.name, indexID, name)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", t.kind, err)
	}
	if existing != nil {
		return domain.NewValidationError(t.kind.String(), name, "already exists")
	}

	if check != nil {
		if err := check(txn, v); err != nil {
			return err
		}
	}

	if err := txn.Insert(t.name, t.clone(v)); err != nil {
		return fmt.Errorf("failed to insert %s: %w", t.kind, err)
	}
	txn.Commit()
	return nil
}

func (t table[T]) get(db *memdb.MemDB, name string) (T, error) {
	var zero T
	txn := db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(t.name, indexID, name)
	if err != nil {
		return zero, fmt.Errorf("failed to look up %s: %w", t.kind, err)
	}
	if raw == nil {
		return zero, domain.NewNotFoundError(t.kind.String(), name)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("cannot cast row of %s to %s", t.name, t.kind)
	}
	return t.clone(v), nil
}

func (t table[T]) remove(db *memdb.MemDB, name string) error {
	txn := db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(t.name, indexID, name)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", t.kind, err)
	}
	if raw == nil {
		return domain.NewNotFoundError(t.kind.String(), name)
	}
	if err := txn.Delete(t.name, raw); err != nil {
		return fmt.Errorf("failed to delete %s: %w", t.kind, err)
	}
	txn.Commit()
	return nil
}

func (t table[T]) list(txn *memdb.Txn) ([]T, error) {
	it, err := txn.Get(t.name, indexID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.kind, err)
	}
	out := make([]T, 0)
	for raw := it.Next(); raw != nil; raw = it.Next() {
		v, ok := raw.(T)
		if !ok {
			return nil, fmt.Errorf("cannot cast row of %s to %s", t.name, t.kind)
		}
		out = append(out, t.clone(v))
	}
	return out, nil
}

func (t table[T]) exists(txn *memdb.Txn, name string) (bool, error) {
	raw, err := txn.First(t.name, indexID, name)
	if err != nil {
		return false, fmt.Errorf("failed to look up %s: %w", t.kind, err)
	}
	return raw != nil, nil
}

// replace empties the table and inserts rows, inside the caller's transaction
func (t table[T]) replace(txn *memdb.Txn, rows []T) error {
	if _, err := txn.DeleteAll(t.name, indexID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", t.name, err)
	}
	var zero T
	for _, v := range rows {
		if v == zero {
			return domain.NewValidationError(t.kind.String(), "", "entity is required")
		}
		if t.key(v) == "" {
			return domain.NewValidationError(t.kind.String(), "", "unique name is required")
		}
		if err := txn.Insert(t.name, t.clone(v)); err != nil {
			return fmt.Errorf("failed to insert %s: %w", t.kind, err)
		}
	}
	return nil
}
