package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graindb/graindb/internal/graindb"
)

func TestParse_Set(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		Name     string
		SQL      string
		Expected graindb.Statement
		Err      bool
	}{
		{
			"Disable nested loop join",
			"SET enable_nestloop = false;",
			&graindb.SetStmt{Knob: "enable_nestloop", Value: false},
			false,
		},
		{
			"Enable sort merge join, keywords case insensitive",
			"set ENABLE_SORTMERGE = TRUE;",
			&graindb.SetStmt{Knob: "enable_sortmerge", Value: true},
			false,
		},
		{
			"Missing equals fails",
			"SET enable_nestloop false;",
			nil,
			true,
		},
		{
			"Non boolean value fails",
			"SET enable_nestloop = 42;",
			nil,
			true,
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
