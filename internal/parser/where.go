package parser

import (
	"strings"

	"github.com/graindb/graindb/internal/graindb"
)

// doParseWhere consumes a conjunction of conditions (column op column-or-
// literal, joined by AND) into the list selected by condTarget, so the same
// steps serve both WHERE and HAVING.
func (p *parserItem) doParseWhere() error {
	switch p.step {
	case stepWhere:
		switch strings.ToUpper(p.peek()) {
		case ";", "":
			p.step = stepStatementEnd
		case "WHERE":
			p.pop()
			p.step = stepWhereConditionLhs
		case "GROUP BY":
			if p.kind != kindSelect {
				return ErrWhereExpectedField.New()
			}
			p.pop()
			p.step = stepGroupByField
		case "ORDER BY":
			if p.kind != kindSelect {
				return ErrWhereExpectedField.New()
			}
			p.pop()
			p.hasSort = true
			p.step = stepOrderByField
		default:
			return ErrWhereExpectedField.New()
		}
	case stepWhereConditionLhs:
		rawCol, ok := p.popRawCol()
		if !ok {
			return ErrWhereExpectedField.New()
		}
		p.appendCond(graindb.RawCond{Lhs: rawCol})
		p.step = stepWhereConditionOperator
	case stepWhereConditionOperator:
		currentCondition := p.lastCond()
		switch p.peek() {
		case "=":
			currentCondition.Op = graindb.OpEq
		case "<>", "!=":
			currentCondition.Op = graindb.OpNe
		case "<":
			currentCondition.Op = graindb.OpLt
		case ">":
			currentCondition.Op = graindb.OpGt
		case "<=":
			currentCondition.Op = graindb.OpLe
		case ">=":
			currentCondition.Op = graindb.OpGe
		default:
			return ErrWhereUnknownOperator.New()
		}
		p.updateLastCond(currentCondition)
		p.pop()
		p.step = stepWhereConditionRhs
	case stepWhereConditionRhs:
		currentCondition := p.lastCond()
		value, ln := p.peekValue()
		if ln == 0 {
			rawCol, ok := p.popRawCol()
			if !ok {
				return ErrWhereExpectedValueOrIdentifier.New()
			}
			currentCondition.Rhs = graindb.RawOperand{IsCol: true, Col: rawCol}
		} else {
			currentCondition.Rhs = graindb.RawOperand{Val: value}
			p.pop()
		}
		p.updateLastCond(currentCondition)
		p.step = stepWhereAnd
	case stepWhereAnd:
		switch strings.ToUpper(p.peek()) {
		case "AND":
			p.pop()
			p.step = stepWhereConditionLhs
		case "GROUP BY":
			if p.kind != kindSelect || p.condTarget != targetWhere {
				return ErrWhereExpectedAnd.New()
			}
			p.pop()
			p.step = stepGroupByField
		case "ORDER BY":
			if p.kind != kindSelect {
				return ErrWhereExpectedAnd.New()
			}
			p.pop()
			p.hasSort = true
			p.step = stepOrderByField
		case ";", "":
			p.step = stepStatementEnd
		default:
			return ErrWhereExpectedAnd.New()
		}
	}
	return nil
}

func (p *parserItem) appendCond(aCondition graindb.RawCond) {
	if p.condTarget == targetHaving {
		p.having = append(p.having, aCondition)
		return
	}
	p.where = append(p.where, aCondition)
}

func (p *parserItem) lastCond() graindb.RawCond {
	if p.condTarget == targetHaving {
		return p.having[len(p.having)-1]
	}
	return p.where[len(p.where)-1]
}

func (p *parserItem) updateLastCond(aCondition graindb.RawCond) {
	if p.condTarget == targetHaving {
		p.having[len(p.having)-1] = aCondition
		return
	}
	p.where[len(p.where)-1] = aCondition
}
