// Package store holds the flat entity model in memory.
//
// The Store keeps one memdb table per entity kind. Every mutation runs in a
// single memdb write transaction, so the check-then-insert of Add and the
// four-table swap of ReplaceAll are indivisible: readers see either the old or
// the new state, never a mix. Entities returned by Get and List are copies.
package store

import (
	"fmt"

	"github.com/hashicorp/go-memdb"

	"ontoserver/internal/domain"
)

// Store is the flat model store
type Store struct {
	db *memdb.MemDB
}

// Contents is a consistent view of all four collections
type Contents struct {
	Classes          []*domain.Class
	ObjectProperties []*domain.ObjectProperty
	DataProperties   []*domain.DataProperty
	Individuals      []*domain.Individual
}

// New creates an empty store
func New() (*Store, error) {
	db, err := memdb.NewMemDB(Schema())
	if err != nil {
		return nil, fmt.Errorf("failed to create flat model store: %w", err)
	}
	return &Store{db: db}, nil
}

// AddClass inserts a class. The name must be new and a non-empty parent must
// name an existing class.
func (s *Store) AddClass(c *domain.Class) error {
	return classes.add(s.db, c, func(txn *memdb.Txn, c *domain.Class) error {
		if c.ParentClass == "" {
			return nil
		}
		ok, err := classes.exists(txn, c.ParentClass)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewValidationError(domain.KindClass.String(), c.UniqueName,
				"parent class %q does not exist", c.ParentClass)
		}
		return nil
	})
}

// GetClass returns a copy of the named class
func (s *Store) GetClass(name string) (*domain.Class, error) {
	return classes.get(s.db, name)
}

// RemoveClass deletes the named class
func (s *Store) RemoveClass(name string) error {
	return classes.remove(s.db, name)
}

// ListClasses returns copies of all classes ordered by name
func (s *Store) ListClasses() ([]*domain.Class, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return classes.list(txn)
}

// AddObjectProperty inserts an object property with a new name
func (s *Store) AddObjectProperty(p *domain.ObjectProperty) error {
	return objectProperties.add(s.db, p, nil)
}

// GetObjectProperty returns a copy of the named object property
func (s *Store) GetObjectProperty(name string) (*domain.ObjectProperty, error) {
	return objectProperties.get(s.db, name)
}

// RemoveObjectProperty deletes the named object property
func (s *Store) RemoveObjectProperty(name string) error {
	return objectProperties.remove(s.db, name)
}

// ListObjectProperties returns copies of all object properties ordered by name
func (s *Store) ListObjectProperties() ([]*domain.ObjectProperty, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return objectProperties.list(txn)
}

// AddDataProperty inserts a data property with a new name
func (s *Store) AddDataProperty(p *domain.DataProperty) error {
	return dataProperties.add(s.db, p, nil)
}

// GetDataProperty returns a copy of the named data property
func (s *Store) GetDataProperty(name string) (*domain.DataProperty, error) {
	return dataProperties.get(s.db, name)
}

// RemoveDataProperty deletes the named data property
func (s *Store) RemoveDataProperty(name string) error {
	return dataProperties.remove(s.db, name)
}

// ListDataProperties returns copies of all data properties ordered by name
func (s *Store) ListDataProperties() ([]*domain.DataProperty, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return dataProperties.list(txn)
}

// AddIndividual inserts an individual with a new name
func (s *Store) AddIndividual(i *domain.Individual) error {
	return individuals.add(s.db, i, nil)
}

// GetIndividual returns a copy of the named individual
func (s *Store) GetIndividual(name string) (*domain.Individual, error) {
	return individuals.get(s.db, name)
}

// RemoveIndividual deletes the named individual
func (s *Store) RemoveIndividual(name string) error {
	return individuals.remove(s.db, name)
}

// ListIndividuals returns copies of all individuals ordered by name
func (s *Store) ListIndividuals() ([]*domain.Individual, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return individuals.list(txn)
}

// ReplaceAll clears all four collections and fills them with the given
// entities in one transaction. If any entity is rejected the store keeps its
// previous contents. Later entries win over earlier ones with the same name.
func (s *Store) ReplaceAll(
	newClasses []*domain.Class,
	newObjectProperties []*domain.ObjectProperty,
	newDataProperties []*domain.DataProperty,
	newIndividuals []*domain.Individual,
) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := classes.replace(txn, newClasses); err != nil {
		return err
	}
	if err := objectProperties.replace(txn, newObjectProperties); err != nil {
		return err
	}
	if err := dataProperties.replace(txn, newDataProperties); err != nil {
		return err
	}
	if err := individuals.replace(txn, newIndividuals); err != nil {
		return err
	}

	txn.Commit()
	return nil
}

// Snapshot returns copies of every entity, read in one transaction
func (s *Store) Snapshot() (*Contents, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	var (
		c   Contents
		err error
	)
	if c.Classes, err = classes.list(txn); err != nil {
		return nil, err
	}
	if c.ObjectProperties, err = objectProperties.list(txn); err != nil {
		return nil, err
	}
	if c.DataProperties, err = dataProperties.list(txn); err != nil {
		return nil, err
	}
	if c.Individuals, err = individuals.list(txn); err != nil {
		return nil, err
	}
	return &c, nil
}

// Counts returns the number of entities per kind
func (s *Store) Counts() (map[domain.EntityKind]int, error) {
	c, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return c.Counts(), nil
}

// Counts returns the number of entities per kind
func (c *Contents) Counts() map[domain.EntityKind]int {
	return map[domain.EntityKind]int{
		domain.KindClass:          len(c.Classes),
		domain.KindObjectProperty: len(c.ObjectProperties),
		domain.KindDataProperty:   len(c.DataProperties),
		domain.KindIndividual:     len(c.Individuals),
	}
}
