package parser

import (
	"gopkg.in/src-d/go-errors.v1"
)

var (
	ErrIndexExpectedTableName     = errors.NewKind("at CREATE/DROP INDEX: expected table name")
	ErrIndexExpectedOpeningParens = errors.NewKind("at CREATE/DROP INDEX: expected opening parens")
	ErrIndexExpectedColumn        = errors.NewKind("at CREATE/DROP INDEX: expected column name")
	ErrIndexExpectedCommaOrParens = errors.NewKind("at CREATE/DROP INDEX: expected comma or closing parens")
)

// CREATE INDEX and DROP INDEX share a shape: the table name followed by a
// parenthesised column list, e.g. CREATE INDEX warehouse (w_id, w_name).
func (p *parserItem) doParseIndex() error {
	switch p.step {
	case stepIndexTableName:
		tableName := p.peek()
		if !isIdentifier(tableName) {
			return ErrIndexExpectedTableName.New()
		}
		p.tableName = tableName
		p.pop()
		p.step = stepIndexOpeningParens
	case stepIndexOpeningParens:
		if p.peek() != "(" {
			return ErrIndexExpectedOpeningParens.New()
		}
		p.pop()
		p.step = stepIndexColumn
	case stepIndexColumn:
		identifier := p.peek()
		if !isIdentifier(identifier) {
			return ErrIndexExpectedColumn.New()
		}
		p.indexCols = append(p.indexCols, identifier)
		p.pop()
		p.step = stepIndexCommaOrClosingParens
	case stepIndexCommaOrClosingParens:
		commaOrClosingParens := p.peek()
		if commaOrClosingParens != "," && commaOrClosingParens != ")" {
			return ErrIndexExpectedCommaOrParens.New()
		}
		p.pop()
		if commaOrClosingParens == "," {
			p.step = stepIndexColumn
			return nil
		}
		p.step = stepStatementEnd
	}
	return nil
}
