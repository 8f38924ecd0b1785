package store

import (
	"github.com/hashicorp/go-memdb"
)

// Table names, also used as memdb schema names
const (
	TableClasses          = "classes"
	TableObjectProperties = "object_properties"
	TableDataProperties   = "data_properties"
	TableIndividuals      = "individuals"

	indexID = "id"
)

// Schema returns the memdb schema of the flat model: one table per entity
// kind, each uniquely indexed by UniqueName
func Schema() *memdb.DBSchema {
	tables := make(map[string]*memdb.TableSchema)
	for _, name := range []string{TableClasses, TableObjectProperties, TableDataProperties, TableIndividuals} {
		tables[name] = &memdb.TableSchema{
			Name: name,
			Indexes: map[string]*memdb.IndexSchema{
				indexID: {
					Name:   indexID,
					Unique: true,
					Indexer: &memdb.StringFieldIndex{
						Field: "UniqueName",
					},
				},
			},
		}
	}
	return &memdb.DBSchema{Tables: tables}
}
