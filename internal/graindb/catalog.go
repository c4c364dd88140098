package graindb

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type ColMeta struct {
	Name string
	Type ValueType
	Len  uint32
}

// IndexMeta describes one index. Column order is significant, it encodes
// the leading prefix rule used during index matching.
type IndexMeta struct {
	Name string
	Cols []ColMeta
}

func (m IndexMeta) ColumnNames() []string {
	names := make([]string, 0, len(m.Cols))
	for _, aColumn := range m.Cols {
		names = append(names, aColumn.Name)
	}
	return names
}

type TableMeta struct {
	Name    string
	Cols    []ColMeta
	Indexes []IndexMeta
}

func (m TableMeta) Column(name string) (ColMeta, bool) {
	for _, aColumn := range m.Cols {
		if aColumn.Name == name {
			return aColumn, true
		}
	}
	return ColMeta{}, false
}

// Catalog answers schema questions during binding and planning. The planner
// assumes a stable snapshot for the lifetime of a single Plan call; any
// locking needed to guarantee that is the caller's concern.
type Catalog interface {
	GetTable(name string) (TableMeta, bool)
}

// MemCatalog is an in-memory catalog. The engine applies DDL plans to it so
// a session can create schema and then plan queries against it.
type MemCatalog struct {
	tables map[string]TableMeta
	mu     sync.RWMutex
}

func NewMemCatalog() *MemCatalog {
	return &MemCatalog{
		tables: make(map[string]TableMeta),
	}
}

func (c *MemCatalog) GetTable(name string) (TableMeta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	aTable, ok := c.tables[name]
	return aTable, ok
}

func (c *MemCatalog) Tables() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *MemCatalog) CreateTable(name string, cols []ColMeta) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[name]; ok {
		return ErrTableAlreadyExists.New(name)
	}
	c.tables[name] = TableMeta{Name: name, Cols: cols}
	return nil
}

func (c *MemCatalog) DropTable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tables[name]; !ok {
		return ErrTableNotFound.New(name)
	}
	delete(c.tables, name)
	return nil
}

func (c *MemCatalog) CreateIndex(tableName string, colNames []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	aTable, ok := c.tables[tableName]
	if !ok {
		return ErrTableNotFound.New(tableName)
	}
	indexName := indexNameFor(tableName, colNames)
	for _, anIndex := range aTable.Indexes {
		if anIndex.Name == indexName {
			return ErrIndexAlreadyExists.New(tableName, strings.Join(colNames, ", "))
		}
	}
	indexCols := make([]ColMeta, 0, len(colNames))
	for _, colName := range colNames {
		aColumn, ok := aTable.Column(colName)
		if !ok {
			return ErrColumnNotFound.New(colName)
		}
		indexCols = append(indexCols, aColumn)
	}
	aTable.Indexes = append(aTable.Indexes, IndexMeta{Name: indexName, Cols: indexCols})
	c.tables[tableName] = aTable
	return nil
}

func (c *MemCatalog) DropIndex(tableName string, colNames []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	aTable, ok := c.tables[tableName]
	if !ok {
		return ErrTableNotFound.New(tableName)
	}
	indexName := indexNameFor(tableName, colNames)
	for i, anIndex := range aTable.Indexes {
		if anIndex.Name == indexName {
			aTable.Indexes = append(aTable.Indexes[:i], aTable.Indexes[i+1:]...)
			c.tables[tableName] = aTable
			return nil
		}
	}
	return ErrIndexNotFound.New(tableName, strings.Join(colNames, ", "))
}

func indexNameFor(tableName string, colNames []string) string {
	return fmt.Sprintf("idx__%s__%s", tableName, strings.Join(colNames, "_"))
}
