package graindb

import (
	"fmt"
)

type CompOp int

const (
	// OpEq -> "="
	OpEq CompOp = iota + 1
	// OpNe -> "<>"
	OpNe
	// OpLt -> "<"
	OpLt
	// OpGt -> ">"
	OpGt
	// OpLe -> "<="
	OpLe
	// OpGe -> ">="
	OpGe
)

func (o CompOp) String() string {
	switch o {
	case OpEq:
		return "="
	case OpNe:
		return "<>"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	default:
		return "unknown"
	}
}

// Mirror returns the operator that preserves the predicate's truth when the
// two sides are exchanged.
func (o CompOp) Mirror() CompOp {
	switch o {
	case OpEq:
		return OpEq
	case OpNe:
		return OpNe
	case OpLt:
		return OpGt
	case OpGt:
		return OpLt
	case OpLe:
		return OpGe
	case OpGe:
		return OpLe
	default:
		return o
	}
}

// TabCol is an unambiguous column reference.
type TabCol struct {
	Table  string
	Column string
}

func (c TabCol) String() string {
	return fmt.Sprintf("%s.%s", c.Table, c.Column)
}

// Condition is a single comparison predicate. The right hand side is either
// another column (inter-column predicate) or a literal value, discriminated
// by RhsIsValue.
type Condition struct {
	Lhs        TabCol
	Op         CompOp
	RhsIsValue bool
	RhsCol     TabCol
	RhsVal     Value
}

// Swapped exchanges the two sides and mirrors the operator, preserving the
// predicate's truth. Only meaningful for inter-column predicates.
func (c Condition) Swapped() Condition {
	c.Lhs, c.RhsCol = c.RhsCol, c.Lhs
	c.Op = c.Op.Mirror()
	return c
}

func (c Condition) String() string {
	if c.RhsIsValue {
		return fmt.Sprintf("%s %s %s", c.Lhs, c.Op, c.RhsVal)
	}
	return fmt.Sprintf("%s %s %s", c.Lhs, c.Op, c.RhsCol)
}

// popConds removes and returns every condition that a scan of the given
// table can evaluate on its own: single table predicates with a literal
// right hand side, and degenerate predicates whose both sides live on the
// same table. Relative order of the remaining pool is preserved.
func popConds(pool *[]Condition, tableName string) []Condition {
	var (
		solved    = make([]Condition, 0, len(*pool))
		remaining = (*pool)[:0]
	)
	for _, aCondition := range *pool {
		singleTable := aCondition.Lhs.Table == tableName && aCondition.RhsIsValue
		sameTable := !aCondition.RhsIsValue && aCondition.Lhs.Table == aCondition.RhsCol.Table
		if singleTable || sameTable {
			solved = append(solved, aCondition)
		} else {
			remaining = append(remaining, aCondition)
		}
	}
	*pool = remaining
	return solved
}

type pushOutcome int

const (
	pushNone     pushOutcome = 0
	pushLhsMatch pushOutcome = 1
	pushRhsMatch pushOutcome = 2
	pushPushed   pushOutcome = 3
)

// pushCond routes a residual inter-column predicate to the lowest join node
// whose subtree contains both referenced tables. At a scan it only reports
// which side of the predicate the scan's table matches; a join combines the
// reports of its children and, once both sides are covered, takes the
// predicate. When the left subtree matched the predicate's right hand side
// the predicate is mirror swapped first so its lhs always refers to the left
// subtree.
func pushCond(cond *Condition, plan Plan) pushOutcome {
	switch x := plan.(type) {
	case *ScanPlan:
		if x.Table == cond.Lhs.Table {
			return pushLhsMatch
		}
		if x.Table == cond.RhsCol.Table {
			return pushRhsMatch
		}
		return pushNone
	case *JoinPlan:
		leftRes := pushCond(cond, x.Left)
		if leftRes == pushPushed {
			return pushPushed
		}
		rightRes := pushCond(cond, x.Right)
		if rightRes == pushPushed {
			return pushPushed
		}
		if leftRes == pushNone || rightRes == pushNone {
			return leftRes + rightRes
		}
		if leftRes == pushRhsMatch {
			*cond = cond.Swapped()
		}
		x.Conds = append(x.Conds, *cond)
		return pushPushed
	case *SortPlan:
		return pushCond(cond, x.Child)
	}
	return pushNone
}
