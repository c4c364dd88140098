package parser

import (
	"gopkg.in/src-d/go-errors.v1"

	"github.com/graindb/graindb/internal/graindb"
)

var (
	ErrIncompleteStatement            = errors.NewKind("incomplete statement")
	ErrCreateTableNoColumns           = errors.NewKind("at CREATE TABLE: no columns specified")
	ErrCreateIndexNoColumns           = errors.NewKind("at CREATE INDEX: no columns specified")
	ErrNoValuesToInsert               = errors.NewKind("at INSERT INTO: no values specified")
	ErrNoFieldsToUpdate               = errors.NewKind("at UPDATE: expected at least one field to update")
	ErrEmptyWhereClause               = errors.NewKind("at WHERE: empty WHERE clause")
	ErrSelectWithoutFields            = errors.NewKind("at SELECT: expected field to SELECT")
	ErrSelectWithoutTables            = errors.NewKind("at SELECT: expected at least one table")
	ErrHavingWithoutGroupBy           = errors.NewKind("at HAVING: HAVING requires GROUP BY")
	ErrSetExpectedKnobName            = errors.NewKind("at SET: expected knob name")
	ErrSetExpectedBooleanValue        = errors.NewKind("at SET: expected TRUE or FALSE")
	ErrWhereExpectedField             = errors.NewKind("at WHERE: expected field")
	ErrWhereExpectedValueOrIdentifier = errors.NewKind("at WHERE: expected identifier or literal value")
	ErrWhereUnknownOperator           = errors.NewKind("at WHERE: unknown operator")
	ErrWhereExpectedAnd               = errors.NewKind("at WHERE: expected AND")
)

// endSteps are the states a statement may legally finish in when the input
// runs out without a trailing semicolon.
var endSteps = map[step]struct{}{
	stepStatementEnd:       {},
	stepWhere:              {},
	stepWhereAnd:           {},
	stepSelectFromComma:    {},
	stepUpdateCommaOrWhere: {},
	stepGroupByComma:       {},
	stepOrderByComma:       {},
}

// materialize turns the accumulated parser state into an AST node, checking
// that parsing stopped at a legal statement boundary.
func (p *parserItem) materialize() (graindb.Statement, error) {
	if _, ok := endSteps[p.step]; !ok {
		return nil, ErrIncompleteStatement.New()
	}

	switch p.kind {
	case kindCreateTable:
		if len(p.colDefs) == 0 {
			return nil, ErrCreateTableNoColumns.New()
		}
		return &graindb.CreateTableStmt{Table: p.tableName, Fields: p.colDefs}, nil
	case kindDropTable:
		return &graindb.DropTableStmt{Table: p.tableName}, nil
	case kindCreateIndex:
		if len(p.indexCols) == 0 {
			return nil, ErrCreateIndexNoColumns.New()
		}
		return &graindb.CreateIndexStmt{Table: p.tableName, Cols: p.indexCols}, nil
	case kindDropIndex:
		if len(p.indexCols) == 0 {
			return nil, ErrCreateIndexNoColumns.New()
		}
		return &graindb.DropIndexStmt{Table: p.tableName, Cols: p.indexCols}, nil
	case kindInsert:
		if len(p.insertValues) == 0 {
			return nil, ErrNoValuesToInsert.New()
		}
		return &graindb.InsertStmt{Table: p.tableName, Values: p.insertValues}, nil
	case kindDelete:
		return &graindb.DeleteStmt{Table: p.tableName, Where: p.where}, nil
	case kindUpdate:
		if len(p.sets) == 0 {
			return nil, ErrNoFieldsToUpdate.New()
		}
		return &graindb.UpdateStmt{Table: p.tableName, Sets: p.sets, Where: p.where}, nil
	case kindSelect:
		if !p.star && len(p.selCols) == 0 && len(p.selAggs) == 0 {
			return nil, ErrSelectWithoutFields.New()
		}
		if len(p.tables) == 0 {
			return nil, ErrSelectWithoutTables.New()
		}
		if len(p.having) > 0 && len(p.groupBy) == 0 {
			return nil, ErrHavingWithoutGroupBy.New()
		}
		return &graindb.SelectStmt{
			Cols:     p.selCols,
			Aggs:     p.selAggs,
			Star:     p.star,
			Tables:   p.tables,
			Where:    p.where,
			GroupBy:  p.groupBy,
			Having:   p.having,
			OrderBy:  p.orderBy,
			OrderDir: p.orderDir,
			HasSort:  p.hasSort,
		}, nil
	case kindSet:
		return &graindb.SetStmt{Knob: p.knobName, Value: p.knobValue}, nil
	default:
		return nil, ErrInvalidStatementKind.New()
	}
}
