package graindb

import (
	"go.uber.org/zap"
)

// bestIndexFor selects the index of the table that matches the longest
// leading prefix of columns constrained by single table literal predicates.
// The first index whose entire column list is constrained wins immediately;
// otherwise the longest partial prefix wins, earlier declared indexes
// breaking ties.
//
// On any match the FULL column list of the winning index is returned, not
// just the matched prefix. The scan operator identifies the index by its
// column list and restricts itself to the constrained prefix at runtime; do
// not trim the list here without revisiting that contract.
func (p *Planner) bestIndexFor(tableName string, conds []Condition) (bool, []string, error) {
	tabMeta, ok := p.catalog.GetTable(tableName)
	if !ok {
		return false, nil, ErrTableNotFound.New(tableName)
	}

	colToCond := make(map[string]Condition, len(conds))
	for _, aCondition := range conds {
		if aCondition.RhsIsValue && aCondition.Lhs.Table == tableName {
			colToCond[aCondition.Lhs.Column] = aCondition
		}
	}

	var (
		maxMatchCount = 0
		bestIdx       IndexMeta
	)
	for _, anIndex := range tabMeta.Indexes {
		matchCount := 0
		fullMatch := true
		for _, idxCol := range anIndex.Cols {
			if _, ok := colToCond[idxCol.Name]; ok {
				matchCount++
			} else {
				fullMatch = false
				break
			}
		}
		if matchCount > maxMatchCount {
			maxMatchCount = matchCount
			bestIdx = anIndex
			if fullMatch {
				p.logger.Debug("index full match",
					zap.String("table", tableName),
					zap.String("index", anIndex.Name))
				return true, bestIdx.ColumnNames(), nil
			}
		}
	}
	if maxMatchCount == 0 {
		return false, nil, nil
	}
	p.logger.Debug("index prefix match",
		zap.String("table", tableName),
		zap.String("index", bestIdx.Name),
		zap.Int("matched", maxMatchCount))
	return true, bestIdx.ColumnNames(), nil
}

// bestIndexForColumn checks whether a single join key column can drive an
// index scan. A column qualifies when it leads an index; the per table scan
// phase cannot have seen it because a join key is not a single table
// predicate.
func (p *Planner) bestIndexForColumn(tableName string, col TabCol) (bool, []string, error) {
	tabMeta, ok := p.catalog.GetTable(tableName)
	if !ok {
		return false, nil, ErrTableNotFound.New(tableName)
	}

	var (
		maxMatchCount = 0
		bestIdx       IndexMeta
	)
	for _, anIndex := range tabMeta.Indexes {
		matchCount := 0
		fullMatch := true
		for _, idxCol := range anIndex.Cols {
			if col.Column == idxCol.Name {
				matchCount++
			} else {
				fullMatch = false
				break
			}
		}
		if matchCount > maxMatchCount {
			maxMatchCount = matchCount
			bestIdx = anIndex
			if fullMatch {
				return true, bestIdx.ColumnNames(), nil
			}
		}
	}
	if maxMatchCount == 0 {
		return false, nil, nil
	}
	return true, bestIdx.ColumnNames(), nil
}
