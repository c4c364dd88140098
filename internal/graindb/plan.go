package graindb

import (
	"go.uber.org/multierr"
)

// Plan is a node of the physical plan tree. The execution engine walks the
// tree with type switches; every variant is a pointer so predicate routing
// can extend join nodes in place during construction.
type Plan interface {
	planNode()
}

type ScanType int

const (
	SeqScan ScanType = iota + 1
	IndexScan
)

func (t ScanType) String() string {
	switch t {
	case SeqScan:
		return "SeqScan"
	case IndexScan:
		return "IndexScan"
	default:
		return "unknown"
	}
}

// ScanPlan produces rows from a single table. For an index scan, IndexCols
// is the full column list of the chosen index; the scan operator restricts
// itself to the prefix actually constrained by Conds.
type ScanPlan struct {
	Type      ScanType
	Table     string
	Conds     []Condition
	IndexCols []string
}

type JoinType int

const (
	NestLoopJoin JoinType = iota + 1
	SortMergeJoin
)

func (t JoinType) String() string {
	switch t {
	case NestLoopJoin:
		return "NestedLoopJoin"
	case SortMergeJoin:
		return "SortMergeJoin"
	default:
		return "unknown"
	}
}

type JoinPlan struct {
	Type  JoinType
	Left  Plan
	Right Plan
	Conds []Condition
}

type SortPlan struct {
	Child Plan
	Cols  []TabCol
	Desc  bool
}

type GroupByPlan struct {
	Child  Plan
	Keys   []TabCol
	Having []Condition
	Aggs   []AggregateExpr
	Cols   []TabCol
}

// AggregatePlan computes aggregates without grouping. It is part of the
// executor contract; the dispatcher currently emits GroupByPlan for both the
// grouped and the ungrouped case.
type AggregatePlan struct {
	Child Plan
	Aggs  []AggregateExpr
}

type ProjectionPlan struct {
	Child Plan
	Cols  []TabCol
	Aggs  []AggregateExpr
}

type DDLKind int

const (
	CreateTable DDLKind = iota + 1
	DropTable
	CreateIndex
	DropIndex
)

func (k DDLKind) String() string {
	switch k {
	case CreateTable:
		return "CreateTable"
	case DropTable:
		return "DropTable"
	case CreateIndex:
		return "CreateIndex"
	case DropIndex:
		return "DropIndex"
	default:
		return "unknown"
	}
}

type DDLPlan struct {
	Kind     DDLKind
	Table    string
	ColNames []string
	ColDefs  []ColDef
}

type DMLKind int

const (
	Insert DMLKind = iota + 1
	Delete
	Update
	Select
)

func (k DMLKind) String() string {
	switch k {
	case Insert:
		return "Insert"
	case Delete:
		return "Delete"
	case Update:
		return "Update"
	case Select:
		return "Select"
	default:
		return "unknown"
	}
}

// DMLPlan is the root of every data statement plan. Select wraps the
// projection subtree; Delete and Update wrap their target scan; Insert has
// no child.
type DMLPlan struct {
	Kind       DMLKind
	Child      Plan
	Table      string
	Values     []Value
	Conds      []Condition
	SetClauses []SetClause
}

func (*ScanPlan) planNode()       {}
func (*JoinPlan) planNode()       {}
func (*SortPlan) planNode()       {}
func (*GroupByPlan) planNode()    {}
func (*AggregatePlan) planNode()  {}
func (*ProjectionPlan) planNode() {}
func (*DDLPlan) planNode()        {}
func (*DMLPlan) planNode()        {}

// planTables collects the set of tables scanned anywhere under the plan.
func planTables(plan Plan, into map[string]struct{}) {
	switch x := plan.(type) {
	case *ScanPlan:
		into[x.Table] = struct{}{}
	case *JoinPlan:
		planTables(x.Left, into)
		planTables(x.Right, into)
	case *SortPlan:
		planTables(x.Child, into)
	case *GroupByPlan:
		planTables(x.Child, into)
	case *AggregatePlan:
		planTables(x.Child, into)
	case *ProjectionPlan:
		planTables(x.Child, into)
	case *DMLPlan:
		if x.Child != nil {
			planTables(x.Child, into)
		}
	}
}

// CheckPlan verifies well-formedness of a constructed plan tree: join
// predicates only reference tables inside the join's subtree, index scans
// carry their index columns, and sort merge children are sorted streams.
// Violations indicate planner bugs; all found are reported together.
func CheckPlan(plan Plan) error {
	var err error
	switch x := plan.(type) {
	case *ScanPlan:
		if x.Type == IndexScan && len(x.IndexCols) == 0 {
			err = multierr.Append(err, ErrBadPlan.New("index scan without index columns"))
		}
	case *JoinPlan:
		subtree := make(map[string]struct{})
		planTables(x, subtree)
		for _, aCondition := range x.Conds {
			if _, ok := subtree[aCondition.Lhs.Table]; !ok {
				err = multierr.Append(err, ErrBadPlan.New("join predicate "+aCondition.String()+" references table outside subtree"))
			}
			if !aCondition.RhsIsValue {
				if _, ok := subtree[aCondition.RhsCol.Table]; !ok {
					err = multierr.Append(err, ErrBadPlan.New("join predicate "+aCondition.String()+" references table outside subtree"))
				}
			}
		}
		if x.Type == SortMergeJoin {
			for _, side := range []Plan{x.Left, x.Right} {
				switch s := side.(type) {
				case *SortPlan:
				case *ScanPlan:
					if s.Type != IndexScan {
						err = multierr.Append(err, ErrBadPlan.New("sort merge join side is not a sorted stream"))
					}
				default:
					err = multierr.Append(err, ErrBadPlan.New("sort merge join side is not a sorted stream"))
				}
			}
		}
		err = multierr.Append(err, CheckPlan(x.Left))
		err = multierr.Append(err, CheckPlan(x.Right))
	case *SortPlan:
		err = multierr.Append(err, CheckPlan(x.Child))
	case *GroupByPlan:
		err = multierr.Append(err, CheckPlan(x.Child))
	case *AggregatePlan:
		err = multierr.Append(err, CheckPlan(x.Child))
	case *ProjectionPlan:
		err = multierr.Append(err, CheckPlan(x.Child))
	case *DMLPlan:
		if x.Child != nil {
			err = multierr.Append(err, CheckPlan(x.Child))
		}
	}
	return err
}
