package store

import (
	memdb "github.com/hashicorp/go-memdb"

	"github.com/on-the-ground/autocache/autocache"
	"github.com/on-the-ground/autocache/shared/helper"
)

const (
	resultsTable = "results"
	idIndex      = "id"
)

type resultRow struct {
	Key   string
	Value any
}

func resultsSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			resultsTable: {
				Name: resultsTable,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {
						Name:    idIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}
}

// MemDB is an autocache.Store on a go-memdb table indexed by canonical key.
type MemDB struct {
	db *memdb.MemDB
}

func NewMemDB() (*MemDB, error) {
	db, err := memdb.NewMemDB(resultsSchema())
	if err != nil {
		return nil, err
	}
	return &MemDB{db: db}, nil
}

func (m *MemDB) Load(key autocache.CallKey) (any, bool) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	row, err := helper.GetTypedValueOf[*resultRow](func() (any, error) {
		return txn.First(resultsTable, idIndex, key.String())
	})
	if err != nil || row == nil {
		return nil, false
	}
	return row.Value, true
}

func (m *MemDB) Store(key autocache.CallKey, value any) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	if err := txn.Insert(resultsTable, &resultRow{Key: key.String(), Value: value}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (m *MemDB) Clear() error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(resultsTable, idIndex); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// Len returns the number of stored rows.
func (m *MemDB) Len() int {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(resultsTable, idIndex)
	if err != nil {
		return 0
	}
	n := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n
}

var _ autocache.Store = (*MemDB)(nil)
