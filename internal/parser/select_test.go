package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graindb/graindb/internal/graindb"
)

func TestParse_Select(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		Name     string
		SQL      string
		Expected graindb.Statement
		Err      bool
	}{
		{
			"Select star from a single table",
			"SELECT * FROM warehouse;",
			&graindb.SelectStmt{
				Star:   true,
				Tables: []string{"warehouse"},
			},
			false,
		},
		{
			"Select columns from multiple tables",
			"SELECT t.a, u.c FROM t, u;",
			&graindb.SelectStmt{
				Cols: []graindb.RawCol{
					{Table: "t", Column: "a"},
					{Table: "u", Column: "c"},
				},
				Tables: []string{"t", "u"},
			},
			false,
		},
		{
			"Unqualified columns are left for the binder",
			"SELECT a, b FROM t;",
			&graindb.SelectStmt{
				Cols: []graindb.RawCol{
					{Column: "a"},
					{Column: "b"},
				},
				Tables: []string{"t"},
			},
			false,
		},
		{
			"Star cannot be combined with other fields",
			"SELECT *, a FROM t;",
			nil,
			true,
		},
		{
			"Missing FROM fails",
			"SELECT a;",
			nil,
			true,
		},
		{
			"Order by defaults to ascending",
			"SELECT a FROM t ORDER BY a;",
			&graindb.SelectStmt{
				Cols:     []graindb.RawCol{{Column: "a"}},
				Tables:   []string{"t"},
				OrderBy:  []graindb.RawCol{{Column: "a"}},
				OrderDir: graindb.Asc,
				HasSort:  true,
			},
			false,
		},
		{
			"Order by descending",
			"SELECT a FROM t ORDER BY a DESC;",
			&graindb.SelectStmt{
				Cols:     []graindb.RawCol{{Column: "a"}},
				Tables:   []string{"t"},
				OrderBy:  []graindb.RawCol{{Column: "a"}},
				OrderDir: graindb.Desc,
				HasSort:  true,
			},
			false,
		},
		{
			"Group by with having and aggregates",
			"SELECT a, COUNT(*) FROM t GROUP BY a HAVING a > 0;",
			&graindb.SelectStmt{
				Cols:    []graindb.RawCol{{Column: "a"}},
				Aggs:    []graindb.RawAgg{{Func: graindb.AggCount, Star: true}},
				Tables:  []string{"t"},
				GroupBy: []graindb.RawCol{{Column: "a"}},
				Having: []graindb.RawCond{{
					Lhs: graindb.RawCol{Column: "a"},
					Op:  graindb.OpGt,
					Rhs: graindb.RawOperand{Val: int64(0)},
				}},
			},
			false,
		},
		{
			"Having without group by fails",
			"SELECT a FROM t HAVING a > 0;",
			nil,
			true,
		},
		{
			"Aggregates with aliases",
			"SELECT SUM(t.a) AS total, MIN(b) FROM t;",
			&graindb.SelectStmt{
				Aggs: []graindb.RawAgg{
					{Func: graindb.AggSum, Col: graindb.RawCol{Table: "t", Column: "a"}, Alias: "total"},
					{Func: graindb.AggMin, Col: graindb.RawCol{Column: "b"}},
				},
				Tables: []string{"t"},
			},
			false,
		},
		{
			"Where, group by and order by together",
			"SELECT a, AVG(b) FROM t WHERE b > 1 GROUP BY a ORDER BY a DESC;",
			&graindb.SelectStmt{
				Cols:   []graindb.RawCol{{Column: "a"}},
				Aggs:   []graindb.RawAgg{{Func: graindb.AggAvg, Col: graindb.RawCol{Column: "b"}}},
				Tables: []string{"t"},
				Where: []graindb.RawCond{{
					Lhs: graindb.RawCol{Column: "b"},
					Op:  graindb.OpGt,
					Rhs: graindb.RawOperand{Val: int64(1)},
				}},
				GroupBy:  []graindb.RawCol{{Column: "a"}},
				OrderBy:  []graindb.RawCol{{Column: "a"}},
				OrderDir: graindb.Desc,
				HasSort:  true,
			},
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			statements, err := New().Parse(context.Background(), tc.SQL)
			if tc.Err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, statements, 1)
			assert.Equal(t, tc.Expected, statements[0])
		})
	}
}
