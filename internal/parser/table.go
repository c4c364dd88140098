package parser

import (
	"strings"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/graindb/graindb/internal/graindb"
)

var (
	ErrCreateTableExpectedName          = errors.NewKind("at CREATE TABLE: expected table name")
	ErrCreateTableExpectedOpeningParens = errors.NewKind("at CREATE TABLE: expected opening parens")
	ErrCreateTableExpectedColumnName    = errors.NewKind("at CREATE TABLE: expected column name")
	ErrCreateTableExpectedColumnType    = errors.NewKind("at CREATE TABLE: expected column type INT, FLOAT or CHAR(n)")
	ErrCreateTableExpectedCharLength    = errors.NewKind("at CREATE TABLE: expected CHAR length")
	ErrDropTableExpectedName            = errors.NewKind("at DROP TABLE: expected table name")
)

func (p *parserItem) doParseTable() error {
	switch p.step {
	case stepCreateTableName:
		tableName := p.peek()
		if !isIdentifier(tableName) {
			return ErrCreateTableExpectedName.New()
		}
		p.tableName = tableName
		p.pop()
		p.step = stepCreateTableOpeningParens
	case stepCreateTableOpeningParens:
		if p.peek() != "(" {
			return ErrCreateTableExpectedOpeningParens.New()
		}
		p.pop()
		p.step = stepCreateTableColumn
	case stepCreateTableColumn:
		columnName := p.peek()
		if !isIdentifier(columnName) {
			return ErrCreateTableExpectedColumnName.New()
		}
		p.nextColDef = graindb.ColDef{Name: columnName}
		p.pop()
		p.step = stepCreateTableColumnType
	case stepCreateTableColumnType:
		switch strings.ToUpper(p.peek()) {
		case "INT":
			p.nextColDef.Type = graindb.TypeInt
			p.nextColDef.Len = 4
			p.pop()
			p.colDefs = append(p.colDefs, p.nextColDef)
			p.step = stepCreateTableCommaOrClosingParens
		case "FLOAT":
			p.nextColDef.Type = graindb.TypeFloat
			p.nextColDef.Len = 8
			p.pop()
			p.colDefs = append(p.colDefs, p.nextColDef)
			p.step = stepCreateTableCommaOrClosingParens
		case "CHAR(":
			p.nextColDef.Type = graindb.TypeChar
			p.pop()
			p.step = stepCreateTableCharLength
		default:
			return ErrCreateTableExpectedColumnType.New()
		}
	case stepCreateTableCharLength:
		length, ln := p.peekIntWithLength()
		if ln == 0 || length <= 0 {
			return ErrCreateTableExpectedCharLength.New()
		}
		p.pop()
		if p.peek() != ")" {
			return ErrCreateTableExpectedCharLength.New()
		}
		p.pop()
		p.nextColDef.Len = uint32(length)
		p.colDefs = append(p.colDefs, p.nextColDef)
		p.step = stepCreateTableCommaOrClosingParens
	case stepCreateTableCommaOrClosingParens:
		commaOrClosingParens := p.peek()
		if commaOrClosingParens != "," && commaOrClosingParens != ")" {
			return ErrCreateTableExpectedColumnName.New()
		}
		p.pop()
		if commaOrClosingParens == "," {
			p.step = stepCreateTableColumn
			return nil
		}
		p.step = stepStatementEnd
	case stepDropTableName:
		tableName := p.peek()
		if !isIdentifier(tableName) {
			return ErrDropTableExpectedName.New()
		}
		p.tableName = tableName
		p.pop()
		p.step = stepStatementEnd
	}
	return nil
}
