package parser

import (
	"strings"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/graindb/graindb/internal/graindb"
)

var (
	ErrUpdateExpectedTableName = errors.NewKind("at UPDATE: expected table name")
	ErrUpdateExpectedSet       = errors.NewKind("at UPDATE: expected SET")
	ErrUpdateExpectedField     = errors.NewKind("at UPDATE: expected field to update")
	ErrUpdateExpectedEquals    = errors.NewKind("at UPDATE: expected '='")
	ErrUpdateExpectedValue     = errors.NewKind("at UPDATE: expected literal value")
)

func (p *parserItem) doParseUpdate() error {
	switch p.step {
	case stepUpdateTable:
		tableName := p.peek()
		if !isIdentifier(tableName) {
			return ErrUpdateExpectedTableName.New()
		}
		p.tableName = tableName
		p.pop()
		p.step = stepUpdateSet
	case stepUpdateSet:
		if strings.ToUpper(p.peek()) != "SET" {
			return ErrUpdateExpectedSet.New()
		}
		p.pop()
		p.step = stepUpdateField
	case stepUpdateField:
		identifier := p.peek()
		if !isIdentifier(identifier) {
			return ErrUpdateExpectedField.New()
		}
		p.nextSetColumn = identifier
		p.pop()
		p.step = stepUpdateEquals
	case stepUpdateEquals:
		if p.peek() != "=" {
			return ErrUpdateExpectedEquals.New()
		}
		p.pop()
		p.step = stepUpdateValue
	case stepUpdateValue:
		value, ln := p.peekValue()
		if ln == 0 {
			return ErrUpdateExpectedValue.New()
		}
		p.sets = append(p.sets, graindb.RawSetClause{Column: p.nextSetColumn, Val: value})
		p.nextSetColumn = ""
		p.pop()
		p.step = stepUpdateCommaOrWhere
	case stepUpdateCommaOrWhere:
		switch strings.ToUpper(p.peek()) {
		case ",":
			p.pop()
			p.step = stepUpdateField
		case "WHERE":
			p.condTarget = targetWhere
			p.step = stepWhere
		case ";", "":
			p.step = stepStatementEnd
		default:
			return ErrUpdateExpectedValue.New()
		}
	}
	return nil
}
