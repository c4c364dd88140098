package graindb

import (
	"go.uber.org/zap"
)

// makeOneRel builds the relational subtree for the FROM/WHERE of a SELECT:
// one scan per table with its single table predicates pushed down, then a
// join tree assembled by consuming inter table predicates one by one, and
// finally a cross product over any table no predicate ever referenced.
func (p *Planner) makeOneRel(q *Query, pool []Condition) (Plan, error) {
	tables := q.Tables

	scans := make([]Plan, len(tables))
	for i, tableName := range tables {
		currConds := popConds(&pool, tableName)
		matched, indexCols, err := p.bestIndexFor(tableName, currConds)
		if err != nil {
			return nil, err
		}
		if matched {
			scans[i] = &ScanPlan{Type: IndexScan, Table: tableName, Conds: currConds, IndexCols: indexCols}
		} else {
			scans[i] = &ScanPlan{Type: SeqScan, Table: tableName, Conds: currConds}
		}
	}

	if len(tables) == 1 {
		return scans[0], nil
	}

	// The pool now holds inter table predicates only. scanUsed tracks which
	// scans have been consumed into the join tree.
	var (
		joinTree     Plan
		scanUsed     = make([]bool, len(tables))
		joinedTables = make([]string, 0, len(tables))
	)

	if len(pool) >= 1 {
		// First predicate seeds the join tree; the join algorithm knobs
		// apply to this join only.
		first := pool[0]
		pool = pool[1:]

		left, err := p.popScan(scanUsed, first.Lhs, &joinedTables, scans)
		if err != nil {
			return nil, err
		}
		right, err := p.popScan(scanUsed, first.RhsCol, &joinedTables, scans)
		if err != nil {
			return nil, err
		}

		joinConds := []Condition{first}
		var (
			nestLoop  = p.cfg.EnableNestedLoopJoin()
			sortMerge = p.cfg.EnableSortMergeJoin()
		)
		switch {
		case nestLoop:
			joinTree = &JoinPlan{Type: NestLoopJoin, Left: left, Right: right, Conds: joinConds}
		case sortMerge:
			sortedLeft, err := sortForMerge(left, first.Lhs)
			if err != nil {
				return nil, err
			}
			sortedRight, err := sortForMerge(right, first.RhsCol)
			if err != nil {
				return nil, err
			}
			joinTree = &JoinPlan{Type: SortMergeJoin, Left: sortedLeft, Right: sortedRight, Conds: joinConds}
		default:
			return nil, ErrNoJoinExecutor.New()
		}
		p.logger.Debug("first join",
			zap.Stringer("algorithm", joinTree.(*JoinPlan).Type),
			zap.Stringer("cond", first))

		// Remaining predicates extend the tree, always by nested loop.
		for len(pool) > 0 {
			aCondition := pool[0]
			pool = pool[1:]

			var (
				leftNew, rightNew Plan
				needReverse       bool
			)
			if !contains(joinedTables, aCondition.Lhs.Table) {
				leftNew, err = p.popScan(scanUsed, aCondition.Lhs, &joinedTables, scans)
				if err != nil {
					return nil, err
				}
			}
			if !contains(joinedTables, aCondition.RhsCol.Table) {
				rightNew, err = p.popScan(scanUsed, aCondition.RhsCol, &joinedTables, scans)
				if err != nil {
					return nil, err
				}
				needReverse = true
			}

			switch {
			case leftNew != nil && rightNew != nil:
				// Neither side is in the tree yet: join the two fresh scans
				// on the predicate, then cross product with the tree.
				fresh := &JoinPlan{Type: NestLoopJoin, Left: leftNew, Right: rightNew, Conds: []Condition{aCondition}}
				joinTree = &JoinPlan{Type: NestLoopJoin, Left: fresh, Right: joinTree}
			case leftNew != nil || rightNew != nil:
				if needReverse {
					aCondition = aCondition.Swapped()
					leftNew = rightNew
				}
				joinTree = &JoinPlan{Type: NestLoopJoin, Left: leftNew, Right: joinTree, Conds: []Condition{aCondition}}
			default:
				// Both tables already inside the tree: sink the predicate to
				// the lowest join covering them.
				pushCond(&aCondition, joinTree)
			}
		}
	} else {
		joinTree = scans[0]
		scanUsed[0] = true
	}

	// Tables never referenced by a predicate still have to appear in the
	// output; attach them as predicateless cross products.
	for i := range tables {
		if !scanUsed[i] {
			joinTree = &JoinPlan{Type: NestLoopJoin, Left: joinTree, Right: scans[i]}
		}
	}
	return joinTree, nil
}

// popScan resolves the scan for the table a join key column belongs to,
// marking it consumed. A seq scan gets one more chance to become an index
// scan here: the join key may lead an index even though no single table
// predicate constrained it.
func (p *Planner) popScan(scanUsed []bool, col TabCol, joinedTables *[]string, scans []Plan) (Plan, error) {
	for i, aPlan := range scans {
		aScan, ok := aPlan.(*ScanPlan)
		if !ok || aScan.Table != col.Table {
			continue
		}
		scanUsed[i] = true
		*joinedTables = append(*joinedTables, aScan.Table)

		if aScan.Type == IndexScan {
			return aScan, nil
		}
		matched, indexCols, err := p.bestIndexForColumn(aScan.Table, col)
		if err != nil {
			return nil, err
		}
		if !matched {
			return aScan, nil
		}
		return &ScanPlan{Type: IndexScan, Table: col.Table, Conds: aScan.Conds, IndexCols: indexCols}, nil
	}
	return nil, ErrBadPlan.New("no scan for table " + col.Table)
}

// sortForMerge prepares one side of a sort merge join: a seq scan is wrapped
// in an ascending sort on the join key, an index scan already delivers
// ordered rows and passes through.
func sortForMerge(side Plan, key TabCol) (Plan, error) {
	aScan, ok := side.(*ScanPlan)
	if !ok {
		return nil, ErrBadSortMergeChild.New()
	}
	switch aScan.Type {
	case SeqScan:
		return &SortPlan{Child: aScan, Cols: []TabCol{key}}, nil
	case IndexScan:
		return aScan, nil
	default:
		return nil, ErrBadSortMergeChild.New()
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
