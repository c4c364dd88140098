package graindb

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Binder resolves a parsed statement against the catalog: every column ends
// up qualified with its owning table and every literal is typed against the
// column it is compared to. The planner only ever sees bound queries.
type Binder struct {
	logger  *zap.Logger
	catalog Catalog
}

func NewBinder(logger *zap.Logger, aCatalog Catalog) *Binder {
	return &Binder{
		logger:  logger,
		catalog: aCatalog,
	}
}

func (b *Binder) Bind(ctx context.Context, stmt Statement) (*Query, error) {
	switch x := stmt.(type) {
	case *CreateTableStmt:
		return b.bindCreateTable(x)
	case *DropTableStmt:
		if _, ok := b.catalog.GetTable(x.Table); !ok {
			return nil, ErrTableNotFound.New(x.Table)
		}
		return &Query{Stmt: x}, nil
	case *CreateIndexStmt:
		return b.bindIndexCols(x, x.Table, x.Cols)
	case *DropIndexStmt:
		return b.bindIndexCols(x, x.Table, x.Cols)
	case *InsertStmt:
		return b.bindInsert(x)
	case *DeleteStmt:
		return b.bindDelete(x)
	case *UpdateStmt:
		return b.bindUpdate(x)
	case *SelectStmt:
		return b.bindSelect(x)
	case *SetStmt:
		return &Query{Stmt: x}, nil
	default:
		return nil, ErrUnexpectedStatement.New(stmt)
	}
}

func (b *Binder) bindCreateTable(stmt *CreateTableStmt) (*Query, error) {
	if _, ok := b.catalog.GetTable(stmt.Table); ok {
		return nil, ErrTableAlreadyExists.New(stmt.Table)
	}
	seen := make(map[string]struct{}, len(stmt.Fields))
	for _, field := range stmt.Fields {
		aColDef, ok := field.(ColDef)
		if !ok {
			return nil, ErrUnexpectedFieldType.New()
		}
		if _, dup := seen[aColDef.Name]; dup {
			return nil, ErrDuplicateColumn.New(aColDef.Name)
		}
		seen[aColDef.Name] = struct{}{}
	}
	return &Query{Stmt: stmt}, nil
}

func (b *Binder) bindIndexCols(stmt Statement, tableName string, cols []string) (*Query, error) {
	tabMeta, ok := b.catalog.GetTable(tableName)
	if !ok {
		return nil, ErrTableNotFound.New(tableName)
	}
	var err error
	for _, colName := range cols {
		if _, ok := tabMeta.Column(colName); !ok {
			err = multierr.Append(err, ErrColumnNotFound.New(colName))
		}
	}
	if err != nil {
		return nil, err
	}
	return &Query{Stmt: stmt}, nil
}

func (b *Binder) bindInsert(stmt *InsertStmt) (*Query, error) {
	tabMeta, ok := b.catalog.GetTable(stmt.Table)
	if !ok {
		return nil, ErrTableNotFound.New(stmt.Table)
	}
	if len(stmt.Values) != len(tabMeta.Cols) {
		return nil, ErrValueCountMismatch.New(len(tabMeta.Cols), len(stmt.Values))
	}
	values := make([]Value, 0, len(stmt.Values))
	for i, raw := range stmt.Values {
		aValue, err := CoerceValue(raw, tabMeta.Cols[i])
		if err != nil {
			return nil, err
		}
		values = append(values, aValue)
	}
	return &Query{
		Stmt:   stmt,
		Tables: []string{stmt.Table},
		Values: values,
	}, nil
}

func (b *Binder) bindDelete(stmt *DeleteStmt) (*Query, error) {
	if _, ok := b.catalog.GetTable(stmt.Table); !ok {
		return nil, ErrTableNotFound.New(stmt.Table)
	}
	tables := []string{stmt.Table}
	conds, err := b.bindConds(tables, stmt.Where)
	if err != nil {
		return nil, err
	}
	return &Query{
		Stmt:   stmt,
		Tables: tables,
		Conds:  conds,
	}, nil
}

func (b *Binder) bindUpdate(stmt *UpdateStmt) (*Query, error) {
	tabMeta, ok := b.catalog.GetTable(stmt.Table)
	if !ok {
		return nil, ErrTableNotFound.New(stmt.Table)
	}
	setClauses := make([]SetClause, 0, len(stmt.Sets))
	for _, aSet := range stmt.Sets {
		aColumn, ok := tabMeta.Column(aSet.Column)
		if !ok {
			return nil, ErrColumnNotFound.New(aSet.Column)
		}
		aValue, err := CoerceValue(aSet.Val, aColumn)
		if err != nil {
			return nil, err
		}
		setClauses = append(setClauses, SetClause{
			Col: TabCol{Table: stmt.Table, Column: aSet.Column},
			Val: aValue,
		})
	}
	tables := []string{stmt.Table}
	conds, err := b.bindConds(tables, stmt.Where)
	if err != nil {
		return nil, err
	}
	return &Query{
		Stmt:       stmt,
		Tables:     tables,
		Conds:      conds,
		SetClauses: setClauses,
	}, nil
}

func (b *Binder) bindSelect(stmt *SelectStmt) (*Query, error) {
	var err error
	for _, tableName := range stmt.Tables {
		if _, ok := b.catalog.GetTable(tableName); !ok {
			err = multierr.Append(err, ErrTableNotFound.New(tableName))
		}
	}
	if err != nil {
		return nil, err
	}

	var cols []TabCol
	if stmt.Star {
		for _, tableName := range stmt.Tables {
			tabMeta, _ := b.catalog.GetTable(tableName)
			for _, aColumn := range tabMeta.Cols {
				cols = append(cols, TabCol{Table: tableName, Column: aColumn.Name})
			}
		}
	} else {
		cols, err = b.resolveCols(stmt.Tables, stmt.Cols)
		if err != nil {
			return nil, err
		}
	}

	aggs := make([]AggregateExpr, 0, len(stmt.Aggs))
	for _, rawAgg := range stmt.Aggs {
		anAgg := AggregateExpr{Func: rawAgg.Func, Star: rawAgg.Star, Alias: rawAgg.Alias}
		if !rawAgg.Star {
			aggCol, _, resolveErr := b.resolveCol(stmt.Tables, rawAgg.Col)
			if resolveErr != nil {
				return nil, resolveErr
			}
			anAgg.Col = aggCol
		}
		aggs = append(aggs, anAgg)
	}

	conds, err := b.bindConds(stmt.Tables, stmt.Where)
	if err != nil {
		return nil, err
	}

	groupByCols, err := b.resolveCols(stmt.Tables, stmt.GroupBy)
	if err != nil {
		return nil, err
	}
	having, err := b.bindConds(stmt.Tables, stmt.Having)
	if err != nil {
		return nil, err
	}

	orderByCols, err := b.resolveCols(stmt.Tables, stmt.OrderBy)
	if err != nil {
		return nil, err
	}

	return &Query{
		Stmt:    stmt,
		Tables:  stmt.Tables,
		Conds:   conds,
		Cols:    cols,
		Aggs:    aggs,
		GroupBy: GroupByExpr{Cols: groupByCols, Having: having},
		OrderBy: OrderByExpr{Cols: orderByCols, Dir: stmt.OrderDir},
	}, nil
}

// resolveCol qualifies a raw column reference against the tables in scope
// and returns the column's metadata for literal typing. An unqualified name
// present in more than one table is ambiguous.
func (b *Binder) resolveCol(tables []string, raw RawCol) (TabCol, ColMeta, error) {
	if raw.Table != "" {
		if !contains(tables, raw.Table) {
			return TabCol{}, ColMeta{}, ErrTableNotFound.New(raw.Table)
		}
		tabMeta, ok := b.catalog.GetTable(raw.Table)
		if !ok {
			return TabCol{}, ColMeta{}, ErrTableNotFound.New(raw.Table)
		}
		aColumn, ok := tabMeta.Column(raw.Column)
		if !ok {
			return TabCol{}, ColMeta{}, ErrColumnNotFound.New(raw.Column)
		}
		return TabCol{Table: raw.Table, Column: raw.Column}, aColumn, nil
	}

	var (
		found      bool
		owner      string
		ownerMeta  ColMeta
		secondSeen string
	)
	for _, tableName := range tables {
		tabMeta, ok := b.catalog.GetTable(tableName)
		if !ok {
			continue
		}
		aColumn, ok := tabMeta.Column(raw.Column)
		if !ok {
			continue
		}
		if found {
			secondSeen = tableName
			break
		}
		found = true
		owner = tableName
		ownerMeta = aColumn
	}
	if secondSeen != "" {
		return TabCol{}, ColMeta{}, ErrAmbiguousColumn.New(raw.Column, owner, secondSeen)
	}
	if !found {
		return TabCol{}, ColMeta{}, ErrColumnNotFound.New(raw.Column)
	}
	return TabCol{Table: owner, Column: raw.Column}, ownerMeta, nil
}

// resolveCols resolves a list of raw columns, reporting every failure at
// once rather than stopping at the first.
func (b *Binder) resolveCols(tables []string, raws []RawCol) ([]TabCol, error) {
	var (
		resolved = make([]TabCol, 0, len(raws))
		err      error
	)
	for _, raw := range raws {
		aCol, _, resolveErr := b.resolveCol(tables, raw)
		if resolveErr != nil {
			err = multierr.Append(err, resolveErr)
			continue
		}
		resolved = append(resolved, aCol)
	}
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func (b *Binder) bindConds(tables []string, raws []RawCond) ([]Condition, error) {
	conds := make([]Condition, 0, len(raws))
	for _, raw := range raws {
		lhs, lhsMeta, err := b.resolveCol(tables, raw.Lhs)
		if err != nil {
			return nil, err
		}
		aCondition := Condition{Lhs: lhs, Op: raw.Op}
		if raw.Rhs.IsCol {
			rhs, _, err := b.resolveCol(tables, raw.Rhs.Col)
			if err != nil {
				return nil, err
			}
			aCondition.RhsCol = rhs
		} else {
			aValue, err := CoerceValue(raw.Rhs.Val, lhsMeta)
			if err != nil {
				return nil, err
			}
			aCondition.RhsIsValue = true
			aCondition.RhsVal = aValue
		}
		conds = append(conds, aCondition)
	}
	return conds, nil
}
