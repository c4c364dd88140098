package parser

import (
	"gopkg.in/src-d/go-errors.v1"
)

var ErrDeleteExpectedTableName = errors.NewKind("at DELETE FROM: expected table name")

func (p *parserItem) doParseDelete() error {
	switch p.step {
	case stepDeleteFromTable:
		tableName := p.peek()
		if !isIdentifier(tableName) {
			return ErrDeleteExpectedTableName.New()
		}
		p.tableName = tableName
		p.pop()
		p.condTarget = targetWhere
		p.step = stepWhere
	}
	return nil
}
