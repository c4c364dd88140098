package graindb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanner_Plan_DDL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	aPlanner := newTestPlanner(t, testCatalog(t))

	t.Run("create table", func(t *testing.T) {
		q := &Query{Stmt: &CreateTableStmt{
			Table: "warehouse",
			Fields: []TableField{
				ColDef{Name: "w_id", Type: TypeInt, Len: 4},
				ColDef{Name: "w_name", Type: TypeChar, Len: 16},
			},
		}}
		plan, err := aPlanner.Plan(ctx, q)
		require.NoError(t, err)

		ddl, ok := plan.(*DDLPlan)
		require.True(t, ok)
		assert.Equal(t, CreateTable, ddl.Kind)
		assert.Equal(t, "warehouse", ddl.Table)
		assert.Empty(t, ddl.ColNames)
		require.Len(t, ddl.ColDefs, 2)
		assert.Equal(t, ColDef{Name: "w_name", Type: TypeChar, Len: 16}, ddl.ColDefs[1])
	})

	t.Run("drop table", func(t *testing.T) {
		plan, err := aPlanner.Plan(ctx, &Query{Stmt: &DropTableStmt{Table: "t"}})
		require.NoError(t, err)

		ddl, ok := plan.(*DDLPlan)
		require.True(t, ok)
		assert.Equal(t, DropTable, ddl.Kind)
		assert.Empty(t, ddl.ColNames)
		assert.Empty(t, ddl.ColDefs)
	})

	t.Run("create index", func(t *testing.T) {
		plan, err := aPlanner.Plan(ctx, &Query{Stmt: &CreateIndexStmt{Table: "t", Cols: []string{"b"}}})
		require.NoError(t, err)

		ddl, ok := plan.(*DDLPlan)
		require.True(t, ok)
		assert.Equal(t, CreateIndex, ddl.Kind)
		assert.Equal(t, []string{"b"}, ddl.ColNames)
	})

	t.Run("drop index", func(t *testing.T) {
		plan, err := aPlanner.Plan(ctx, &Query{Stmt: &DropIndexStmt{Table: "u", Cols: []string{"c", "d"}}})
		require.NoError(t, err)

		ddl, ok := plan.(*DDLPlan)
		require.True(t, ok)
		assert.Equal(t, DropIndex, ddl.Kind)
		assert.Equal(t, []string{"c", "d"}, ddl.ColNames)
	})
}

func TestPlanner_Plan_DML(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	aPlanner := newTestPlanner(t, testCatalog(t))

	t.Run("insert has no scan child", func(t *testing.T) {
		q := &Query{
			Stmt:   &InsertStmt{Table: "t"},
			Tables: []string{"t"},
			Values: []Value{NewIntValue(1), NewIntValue(2)},
		}
		plan, err := aPlanner.Plan(ctx, q)
		require.NoError(t, err)

		dml, ok := plan.(*DMLPlan)
		require.True(t, ok)
		assert.Equal(t, Insert, dml.Kind)
		assert.Nil(t, dml.Child)
		assert.Equal(t, "t", dml.Table)
		require.Len(t, dml.Values, 2)
		assert.Empty(t, dml.Conds)
		assert.Empty(t, dml.SetClauses)
	})

	t.Run("delete scans via the index", func(t *testing.T) {
		// DELETE FROM t WHERE a = 1
		q := &Query{
			Stmt:   &DeleteStmt{Table: "t"},
			Tables: []string{"t"},
			Conds:  []Condition{intEq("t", "a", 1)},
		}
		plan, err := aPlanner.Plan(ctx, q)
		require.NoError(t, err)

		dml, ok := plan.(*DMLPlan)
		require.True(t, ok)
		assert.Equal(t, Delete, dml.Kind)
		assert.Equal(t, "t", dml.Table)
		require.Len(t, dml.Conds, 1)
		assert.Empty(t, dml.SetClauses)

		aScan, ok := dml.Child.(*ScanPlan)
		require.True(t, ok)
		assert.Equal(t, IndexScan, aScan.Type)
		assert.Equal(t, []string{"a"}, aScan.IndexCols)
		require.Len(t, aScan.Conds, 1)
		assert.Equal(t, intEq("t", "a", 1), aScan.Conds[0])
	})

	t.Run("delete without index falls back to sequential scan", func(t *testing.T) {
		q := &Query{
			Stmt:   &DeleteStmt{Table: "t"},
			Tables: []string{"t"},
			Conds:  []Condition{intEq("t", "b", 1)},
		}
		plan, err := aPlanner.Plan(ctx, q)
		require.NoError(t, err)

		dml := plan.(*DMLPlan)
		aScan, ok := dml.Child.(*ScanPlan)
		require.True(t, ok)
		assert.Equal(t, SeqScan, aScan.Type)
	})

	t.Run("update carries its set clauses", func(t *testing.T) {
		// UPDATE t SET b = 7 WHERE a = 1
		q := &Query{
			Stmt:   &UpdateStmt{Table: "t"},
			Tables: []string{"t"},
			Conds:  []Condition{intEq("t", "a", 1)},
			SetClauses: []SetClause{
				{Col: TabCol{Table: "t", Column: "b"}, Val: NewIntValue(7)},
			},
		}
		plan, err := aPlanner.Plan(ctx, q)
		require.NoError(t, err)

		dml, ok := plan.(*DMLPlan)
		require.True(t, ok)
		assert.Equal(t, Update, dml.Kind)
		require.Len(t, dml.SetClauses, 1)

		aScan, ok := dml.Child.(*ScanPlan)
		require.True(t, ok)
		assert.Equal(t, IndexScan, aScan.Type)
	})
}

func TestPlanner_Plan_Select(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	aPlanner := newTestPlanner(t, testCatalog(t))

	t.Run("projection always caps the select plan", func(t *testing.T) {
		// SELECT a FROM t WHERE a = 5
		q := &Query{
			Stmt:   &SelectStmt{Tables: []string{"t"}},
			Tables: []string{"t"},
			Conds:  []Condition{intEq("t", "a", 5)},
			Cols:   []TabCol{{Table: "t", Column: "a"}},
		}
		plan, err := aPlanner.Plan(ctx, q)
		require.NoError(t, err)

		dml, ok := plan.(*DMLPlan)
		require.True(t, ok)
		assert.Equal(t, Select, dml.Kind)
		assert.Equal(t, "", dml.Table)

		projection, ok := dml.Child.(*ProjectionPlan)
		require.True(t, ok)
		assert.Equal(t, q.Cols, projection.Cols)

		aScan, ok := projection.Child.(*ScanPlan)
		require.True(t, ok)
		assert.Equal(t, IndexScan, aScan.Type)
	})

	t.Run("order by adds a sort below the projection", func(t *testing.T) {
		// SELECT * FROM t WHERE b = 5 ORDER BY a DESC
		q := &Query{
			Stmt:   &SelectStmt{Tables: []string{"t"}, HasSort: true},
			Tables: []string{"t"},
			Conds:  []Condition{intEq("t", "b", 5)},
			Cols:   []TabCol{{Table: "t", Column: "a"}, {Table: "t", Column: "b"}},
			OrderBy: OrderByExpr{
				Cols: []TabCol{{Table: "t", Column: "a"}},
				Dir:  Desc,
			},
		}
		plan, err := aPlanner.Plan(ctx, q)
		require.NoError(t, err)

		projection := plan.(*DMLPlan).Child.(*ProjectionPlan)
		aSort, ok := projection.Child.(*SortPlan)
		require.True(t, ok)
		assert.True(t, aSort.Desc)
		assert.Equal(t, []TabCol{{Table: "t", Column: "a"}}, aSort.Cols)

		aScan, ok := aSort.Child.(*ScanPlan)
		require.True(t, ok)
		assert.Equal(t, SeqScan, aScan.Type)
	})

	t.Run("group by wraps the relational tree", func(t *testing.T) {
		// SELECT a, COUNT(*) FROM t GROUP BY a HAVING a > 0
		q := &Query{
			Stmt:   &SelectStmt{Tables: []string{"t"}},
			Tables: []string{"t"},
			Cols:   []TabCol{{Table: "t", Column: "a"}},
			Aggs:   []AggregateExpr{{Func: AggCount, Star: true}},
			GroupBy: GroupByExpr{
				Cols: []TabCol{{Table: "t", Column: "a"}},
				Having: []Condition{{
					Lhs:        TabCol{Table: "t", Column: "a"},
					Op:         OpGt,
					RhsIsValue: true,
					RhsVal:     NewIntValue(0),
				}},
			},
		}
		plan, err := aPlanner.Plan(ctx, q)
		require.NoError(t, err)

		projection := plan.(*DMLPlan).Child.(*ProjectionPlan)
		groupBy, ok := projection.Child.(*GroupByPlan)
		require.True(t, ok)
		assert.Equal(t, q.GroupBy.Cols, groupBy.Keys)
		assert.Equal(t, q.GroupBy.Having, groupBy.Having)
		assert.Equal(t, q.Aggs, groupBy.Aggs)
		assert.Equal(t, q.Cols, groupBy.Cols)
	})

	t.Run("aggregates without group by still group", func(t *testing.T) {
		// SELECT COUNT(*) FROM t
		q := &Query{
			Stmt:   &SelectStmt{Tables: []string{"t"}},
			Tables: []string{"t"},
			Aggs:   []AggregateExpr{{Func: AggCount, Star: true}},
		}
		plan, err := aPlanner.Plan(ctx, q)
		require.NoError(t, err)

		projection := plan.(*DMLPlan).Child.(*ProjectionPlan)
		_, ok := projection.Child.(*GroupByPlan)
		assert.True(t, ok)
	})

	t.Run("planning does not consume the caller's condition pool", func(t *testing.T) {
		q := &Query{
			Stmt:   &SelectStmt{Tables: []string{"t"}},
			Tables: []string{"t"},
			Conds:  []Condition{intEq("t", "a", 5)},
			Cols:   []TabCol{{Table: "t", Column: "a"}},
		}
		_, err := aPlanner.Plan(ctx, q)
		require.NoError(t, err)
		require.Len(t, q.Conds, 1)

		// A second plan of the same query yields the same shape
		plan, err := aPlanner.Plan(ctx, q)
		require.NoError(t, err)
		aScan := plan.(*DMLPlan).Child.(*ProjectionPlan).Child.(*ScanPlan)
		assert.Equal(t, IndexScan, aScan.Type)
		require.Len(t, aScan.Conds, 1)
	})

	t.Run("two table join under projection", func(t *testing.T) {
		// SELECT t.a, u.c FROM t, u WHERE t.a = u.c
		q := &Query{
			Stmt:   &SelectStmt{Tables: []string{"t", "u"}},
			Tables: []string{"t", "u"},
			Conds:  []Condition{colEq("t", "a", "u", "c")},
			Cols:   []TabCol{{Table: "t", Column: "a"}, {Table: "u", Column: "c"}},
		}
		plan, err := aPlanner.Plan(ctx, q)
		require.NoError(t, err)
		require.NoError(t, CheckPlan(plan))

		projection := plan.(*DMLPlan).Child.(*ProjectionPlan)
		aJoin, ok := projection.Child.(*JoinPlan)
		require.True(t, ok)
		assert.Equal(t, NestLoopJoin, aJoin.Type)
	})
}

func TestPlanner_Plan_UnexpectedStatement(t *testing.T) {
	t.Parallel()

	aPlanner := newTestPlanner(t, testCatalog(t))

	_, err := aPlanner.Plan(context.Background(), &Query{Stmt: &SetStmt{Knob: KnobEnableNestLoop}})
	require.Error(t, err)
	assert.True(t, ErrUnexpectedStatement.Is(err))
}

func TestPlanner_Plan_UnexpectedFieldType(t *testing.T) {
	t.Parallel()

	aPlanner := newTestPlanner(t, testCatalog(t))

	_, err := aPlanner.Plan(context.Background(), &Query{Stmt: &CreateTableStmt{
		Table:  "broken",
		Fields: []TableField{badField{}},
	}})
	require.Error(t, err)
	assert.True(t, ErrUnexpectedFieldType.Is(err))
}

type badField struct{}

func (badField) tableFieldNode() {}
