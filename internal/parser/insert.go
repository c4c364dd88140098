package parser

import (
	"strings"

	"gopkg.in/src-d/go-errors.v1"
)

var (
	ErrInsertExpectedTableName     = errors.NewKind("at INSERT INTO: expected table name")
	ErrInsertExpectedValues        = errors.NewKind("at INSERT INTO: expected VALUES")
	ErrInsertExpectedOpeningParens = errors.NewKind("at INSERT INTO: expected opening parens")
	ErrInsertExpectedValue         = errors.NewKind("at INSERT INTO: expected literal value")
	ErrInsertExpectedCommaOrParens = errors.NewKind("at INSERT INTO: expected comma or closing parens")
)

// INSERT INTO warehouse VALUES (1, 2.5, 'amsterdam'). Values are positional
// against the table's full column list; the binder types them.
func (p *parserItem) doParseInsert() error {
	switch p.step {
	case stepInsertTable:
		tableName := p.peek()
		if !isIdentifier(tableName) {
			return ErrInsertExpectedTableName.New()
		}
		p.tableName = tableName
		p.pop()
		p.step = stepInsertValuesRWord
	case stepInsertValuesRWord:
		if strings.ToUpper(p.peek()) != "VALUES" {
			return ErrInsertExpectedValues.New()
		}
		p.pop()
		p.step = stepInsertValuesOpeningParens
	case stepInsertValuesOpeningParens:
		if p.peek() != "(" {
			return ErrInsertExpectedOpeningParens.New()
		}
		p.pop()
		p.step = stepInsertValue
	case stepInsertValue:
		value, ln := p.peekValue()
		if ln == 0 {
			return ErrInsertExpectedValue.New()
		}
		p.insertValues = append(p.insertValues, value)
		p.pop()
		p.step = stepInsertCommaOrClosingParens
	case stepInsertCommaOrClosingParens:
		commaOrClosingParens := p.peek()
		if commaOrClosingParens != "," && commaOrClosingParens != ")" {
			return ErrInsertExpectedCommaOrParens.New()
		}
		p.pop()
		if commaOrClosingParens == "," {
			p.step = stepInsertValue
			return nil
		}
		p.step = stepStatementEnd
	}
	return nil
}
