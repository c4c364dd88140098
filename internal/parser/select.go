package parser

import (
	"strings"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/graindb/graindb/internal/graindb"
)

var (
	ErrSelectExpectedTableName = errors.NewKind("at SELECT: expected table name identifier")
	ErrCannotCombineAsterisk   = errors.NewKind(`at SELECT: cannot combine "*" with other fields`)
	ErrExpectedFrom            = errors.NewKind("at SELECT: expected FROM")
	ErrAggExpectedColumn       = errors.NewKind("at SELECT: expected column inside aggregate")
	ErrAggExpectedParens       = errors.NewKind("at SELECT: expected closing parens after aggregate column")
	ErrGroupByExpectedField    = errors.NewKind("at GROUP BY: expected column")
	ErrOrderByExpectedField    = errors.NewKind("at ORDER BY: expected column")
)

/*
SELECT select_list

	FROM table [, table ...]
	[ WHERE condition [AND condition ...] ]
	[ GROUP BY column [, column ...] [ HAVING condition [AND condition ...] ] ]
	[ ORDER BY column [, column ...] [ ASC | DESC ] ]

select_list is * or a mix of columns and aggregates (COUNT(*), COUNT(col),
SUM/AVG/MAX/MIN(col) [AS alias]).
*/
func (p *parserItem) doParseSelect() error {
	switch p.step {
	case stepSelectField:
		token := strings.ToUpper(p.peek())

		// Handle * for selecting all columns
		if token == "*" {
			if len(p.selCols) > 0 || len(p.selAggs) > 0 {
				return ErrCannotCombineAsterisk.New()
			}
			p.star = true
			p.pop()
			p.step = stepSelectFrom
			return nil
		}

		if aggFunc, ok := aggFuncFor(token); ok {
			return p.parseAggregate(token, aggFunc)
		}

		rawCol, ok := p.popRawCol()
		if !ok {
			return ErrSelectWithoutFields.New()
		}
		if p.star {
			return ErrCannotCombineAsterisk.New()
		}
		p.selCols = append(p.selCols, rawCol)
		p.step = stepSelectComma
	case stepSelectComma:
		switch strings.ToUpper(p.peek()) {
		case ",":
			p.pop()
			p.step = stepSelectField
		case "FROM":
			p.step = stepSelectFrom
		default:
			return ErrExpectedFrom.New()
		}
	case stepSelectFrom:
		if strings.ToUpper(p.peek()) != "FROM" {
			return ErrExpectedFrom.New()
		}
		p.pop()
		p.step = stepSelectFromTable
	case stepSelectFromTable:
		tableName := p.peek()
		if !isIdentifier(tableName) {
			return ErrSelectExpectedTableName.New()
		}
		p.tables = append(p.tables, tableName)
		p.pop()
		p.step = stepSelectFromComma
	case stepSelectFromComma:
		switch strings.ToUpper(p.peek()) {
		case ",":
			p.pop()
			p.step = stepSelectFromTable
		case "WHERE":
			p.condTarget = targetWhere
			p.step = stepWhere
		case "GROUP BY":
			p.pop()
			p.step = stepGroupByField
		case "ORDER BY":
			p.pop()
			p.hasSort = true
			p.step = stepOrderByField
		case ";", "":
			p.step = stepStatementEnd
		default:
			return ErrSelectExpectedTableName.New()
		}
	case stepGroupByField:
		rawCol, ok := p.popRawCol()
		if !ok {
			return ErrGroupByExpectedField.New()
		}
		p.groupBy = append(p.groupBy, rawCol)
		p.step = stepGroupByComma
	case stepGroupByComma:
		switch strings.ToUpper(p.peek()) {
		case ",":
			p.pop()
			p.step = stepGroupByField
		case "HAVING":
			p.pop()
			p.condTarget = targetHaving
			p.step = stepWhereConditionLhs
		case "ORDER BY":
			p.pop()
			p.hasSort = true
			p.step = stepOrderByField
		case ";", "":
			p.step = stepStatementEnd
		default:
			return ErrGroupByExpectedField.New()
		}
	case stepOrderByField:
		rawCol, ok := p.popRawCol()
		if !ok {
			return ErrOrderByExpectedField.New()
		}
		p.orderBy = append(p.orderBy, rawCol)
		// Default direction is ASC, a trailing keyword overrides it for the
		// whole ORDER BY list.
		p.orderDir = graindb.Asc
		p.step = stepOrderByComma
	case stepOrderByComma:
		switch strings.ToUpper(p.peek()) {
		case ",":
			p.pop()
			p.step = stepOrderByField
		case "ASC":
			p.pop()
			p.orderDir = graindb.Asc
			p.step = stepStatementEnd
		case "DESC":
			p.pop()
			p.orderDir = graindb.Desc
			p.step = stepStatementEnd
		case ";", "":
			p.step = stepStatementEnd
		default:
			return ErrOrderByExpectedField.New()
		}
	}
	return nil
}

// parseAggregate consumes one aggregate expression in the select list. The
// opening token includes the parenthesis, e.g. "SUM(".
func (p *parserItem) parseAggregate(token string, aggFunc graindb.AggFunc) error {
	anAgg := graindb.RawAgg{Func: aggFunc}
	p.pop()
	if token != "COUNT(*)" {
		rawCol, ok := p.popRawCol()
		if !ok {
			return ErrAggExpectedColumn.New()
		}
		anAgg.Col = rawCol
		if p.peek() != ")" {
			return ErrAggExpectedParens.New()
		}
		p.pop()
	} else {
		anAgg.Star = true
	}
	if strings.ToUpper(p.peek()) == "AS" {
		p.pop()
		alias := p.peek()
		if !isIdentifier(alias) {
			return ErrSelectWithoutFields.New()
		}
		anAgg.Alias = alias
		p.pop()
	}
	p.selAggs = append(p.selAggs, anAgg)
	p.step = stepSelectComma
	return nil
}

func aggFuncFor(token string) (graindb.AggFunc, bool) {
	switch token {
	case "COUNT(*)", "COUNT(":
		return graindb.AggCount, true
	case "SUM(":
		return graindb.AggSum, true
	case "AVG(":
		return graindb.AggAvg, true
	case "MAX(":
		return graindb.AggMax, true
	case "MIN(":
		return graindb.AggMin, true
	default:
		return 0, false
	}
}
