package graindb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBinder(t *testing.T) *Binder {
	t.Helper()
	return NewBinder(zap.NewNop(), testCatalog(t))
}

func TestBinder_BindSelect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	aBinder := newTestBinder(t)

	t.Run("qualifies bare columns by probing table schemas", func(t *testing.T) {
		// SELECT a, c FROM t, u
		q, err := aBinder.Bind(ctx, &SelectStmt{
			Cols:   []RawCol{{Column: "a"}, {Column: "c"}},
			Tables: []string{"t", "u"},
		})
		require.NoError(t, err)
		assert.Equal(t, []TabCol{
			{Table: "t", Column: "a"},
			{Table: "u", Column: "c"},
		}, q.Cols)
	})

	t.Run("star expands to every column of every table in order", func(t *testing.T) {
		q, err := aBinder.Bind(ctx, &SelectStmt{
			Star:   true,
			Tables: []string{"t", "u"},
		})
		require.NoError(t, err)
		assert.Equal(t, []TabCol{
			{Table: "t", Column: "a"},
			{Table: "t", Column: "b"},
			{Table: "u", Column: "c"},
			{Table: "u", Column: "d"},
		}, q.Cols)
	})

	t.Run("literals are typed against the lhs column", func(t *testing.T) {
		// SELECT a FROM t WHERE a = 5
		q, err := aBinder.Bind(ctx, &SelectStmt{
			Cols:   []RawCol{{Column: "a"}},
			Tables: []string{"t"},
			Where: []RawCond{{
				Lhs: RawCol{Column: "a"},
				Op:  OpEq,
				Rhs: RawOperand{Val: int64(5)},
			}},
		})
		require.NoError(t, err)
		require.Len(t, q.Conds, 1)
		assert.Equal(t, intEq("t", "a", 5), q.Conds[0])
	})

	t.Run("inter column predicates bind both sides", func(t *testing.T) {
		// SELECT t.a FROM t, u WHERE t.a = u.c
		q, err := aBinder.Bind(ctx, &SelectStmt{
			Cols:   []RawCol{{Table: "t", Column: "a"}},
			Tables: []string{"t", "u"},
			Where: []RawCond{{
				Lhs: RawCol{Table: "t", Column: "a"},
				Op:  OpEq,
				Rhs: RawOperand{IsCol: true, Col: RawCol{Table: "u", Column: "c"}},
			}},
		})
		require.NoError(t, err)
		require.Len(t, q.Conds, 1)
		assert.Equal(t, colEq("t", "a", "u", "c"), q.Conds[0])
	})

	t.Run("unknown table", func(t *testing.T) {
		_, err := aBinder.Bind(ctx, &SelectStmt{
			Star:   true,
			Tables: []string{"missing"},
		})
		require.Error(t, err)
		assert.True(t, ErrTableNotFound.Is(err))
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := aBinder.Bind(ctx, &SelectStmt{
			Cols:   []RawCol{{Column: "zz"}},
			Tables: []string{"t"},
		})
		require.Error(t, err)
	})

	t.Run("every unresolvable column is reported at once", func(t *testing.T) {
		_, err := aBinder.Bind(ctx, &SelectStmt{
			Cols:   []RawCol{{Column: "zz"}, {Column: "yy"}},
			Tables: []string{"t"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "zz")
		assert.Contains(t, err.Error(), "yy")
	})

	t.Run("ambiguous bare column across joined tables", func(t *testing.T) {
		aCatalog := testCatalog(t)
		require.NoError(t, aCatalog.CreateTable("t2", []ColMeta{
			{Name: "a", Type: TypeInt, Len: 4},
		}))
		ambBinder := NewBinder(zap.NewNop(), aCatalog)

		_, err := ambBinder.Bind(ctx, &SelectStmt{
			Cols:   []RawCol{{Column: "a"}},
			Tables: []string{"t", "t2"},
		})
		require.Error(t, err)
	})

	t.Run("group by, having and order by columns are bound", func(t *testing.T) {
		// SELECT a, COUNT(*) FROM t GROUP BY a HAVING a > 0 ORDER BY a DESC
		q, err := aBinder.Bind(ctx, &SelectStmt{
			Cols:    []RawCol{{Column: "a"}},
			Aggs:    []RawAgg{{Func: AggCount, Star: true}},
			Tables:  []string{"t"},
			GroupBy: []RawCol{{Column: "a"}},
			Having: []RawCond{{
				Lhs: RawCol{Column: "a"},
				Op:  OpGt,
				Rhs: RawOperand{Val: int64(0)},
			}},
			OrderBy:  []RawCol{{Column: "a"}},
			OrderDir: Desc,
			HasSort:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, []TabCol{{Table: "t", Column: "a"}}, q.GroupBy.Cols)
		require.Len(t, q.GroupBy.Having, 1)
		assert.Equal(t, OpGt, q.GroupBy.Having[0].Op)
		assert.Equal(t, []TabCol{{Table: "t", Column: "a"}}, q.OrderBy.Cols)
		assert.Equal(t, Desc, q.OrderBy.Dir)
		require.Len(t, q.Aggs, 1)
		assert.True(t, q.Aggs[0].Star)
	})

	t.Run("aggregate column is qualified", func(t *testing.T) {
		q, err := aBinder.Bind(ctx, &SelectStmt{
			Aggs:   []RawAgg{{Func: AggSum, Col: RawCol{Column: "b"}, Alias: "total"}},
			Tables: []string{"t"},
		})
		require.NoError(t, err)
		require.Len(t, q.Aggs, 1)
		assert.Equal(t, TabCol{Table: "t", Column: "b"}, q.Aggs[0].Col)
		assert.Equal(t, "total", q.Aggs[0].Alias)
	})
}

func TestBinder_BindInsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	aBinder := newTestBinder(t)

	t.Run("values typed positionally", func(t *testing.T) {
		q, err := aBinder.Bind(ctx, &InsertStmt{
			Table:  "t",
			Values: []any{int64(1), int64(2)},
		})
		require.NoError(t, err)
		assert.Equal(t, []Value{NewIntValue(1), NewIntValue(2)}, q.Values)
	})

	t.Run("value count mismatch", func(t *testing.T) {
		_, err := aBinder.Bind(ctx, &InsertStmt{
			Table:  "t",
			Values: []any{int64(1)},
		})
		require.Error(t, err)
		assert.True(t, ErrValueCountMismatch.Is(err))
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := aBinder.Bind(ctx, &InsertStmt{
			Table:  "t",
			Values: []any{1.5, int64(2)},
		})
		require.Error(t, err)
		assert.True(t, ErrInvalidLiteral.Is(err))
	})
}

func TestBinder_BindUpdateAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	aBinder := newTestBinder(t)

	t.Run("update set clauses are bound and typed", func(t *testing.T) {
		// UPDATE t SET b = 7 WHERE a = 1
		q, err := aBinder.Bind(ctx, &UpdateStmt{
			Table: "t",
			Sets:  []RawSetClause{{Column: "b", Val: int64(7)}},
			Where: []RawCond{{
				Lhs: RawCol{Column: "a"},
				Op:  OpEq,
				Rhs: RawOperand{Val: int64(1)},
			}},
		})
		require.NoError(t, err)
		require.Len(t, q.SetClauses, 1)
		assert.Equal(t, SetClause{
			Col: TabCol{Table: "t", Column: "b"},
			Val: NewIntValue(7),
		}, q.SetClauses[0])
		require.Len(t, q.Conds, 1)
	})

	t.Run("update of unknown column", func(t *testing.T) {
		_, err := aBinder.Bind(ctx, &UpdateStmt{
			Table: "t",
			Sets:  []RawSetClause{{Column: "zz", Val: int64(7)}},
		})
		require.Error(t, err)
		assert.True(t, ErrColumnNotFound.Is(err))
	})

	t.Run("delete binds its where clause", func(t *testing.T) {
		q, err := aBinder.Bind(ctx, &DeleteStmt{
			Table: "t",
			Where: []RawCond{{
				Lhs: RawCol{Column: "a"},
				Op:  OpEq,
				Rhs: RawOperand{Val: int64(1)},
			}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"t"}, q.Tables)
		require.Len(t, q.Conds, 1)
		assert.Equal(t, intEq("t", "a", 1), q.Conds[0])
	})
}

func TestBinder_BindDDL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	aBinder := newTestBinder(t)

	t.Run("create table rejects duplicate columns", func(t *testing.T) {
		_, err := aBinder.Bind(ctx, &CreateTableStmt{
			Table: "fresh",
			Fields: []TableField{
				ColDef{Name: "x", Type: TypeInt, Len: 4},
				ColDef{Name: "x", Type: TypeInt, Len: 4},
			},
		})
		require.Error(t, err)
		assert.True(t, ErrDuplicateColumn.Is(err))
	})

	t.Run("create table rejects existing table", func(t *testing.T) {
		_, err := aBinder.Bind(ctx, &CreateTableStmt{
			Table:  "t",
			Fields: []TableField{ColDef{Name: "x", Type: TypeInt, Len: 4}},
		})
		require.Error(t, err)
		assert.True(t, ErrTableAlreadyExists.Is(err))
	})

	t.Run("create index validates columns", func(t *testing.T) {
		_, err := aBinder.Bind(ctx, &CreateIndexStmt{Table: "t", Cols: []string{"zz"}})
		require.Error(t, err)
		assert.True(t, ErrColumnNotFound.Is(err))
	})

	t.Run("drop table validates the table", func(t *testing.T) {
		_, err := aBinder.Bind(ctx, &DropTableStmt{Table: "missing"})
		require.Error(t, err)
		assert.True(t, ErrTableNotFound.Is(err))
	})
}
