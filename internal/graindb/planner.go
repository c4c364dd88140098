package graindb

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// Planner turns a bound Query into a physical plan tree. It is a pure
// function of the query, the catalog snapshot and the two join knobs; it
// performs no I/O and keeps no per statement state.
type Planner struct {
	logger  *zap.Logger
	catalog Catalog
	cfg     *PlanConfig
}

func NewPlanner(logger *zap.Logger, aCatalog Catalog, cfg *PlanConfig) *Planner {
	if cfg == nil {
		cfg = NewPlanConfig()
	}
	return &Planner{
		logger:  logger,
		catalog: aCatalog,
		cfg:     cfg,
	}
}

func (p *Planner) Config() *PlanConfig {
	return p.cfg
}

// Plan dispatches on the bound statement kind and emits the matching plan
// shape. The SELECT path drains a copy of the query's condition pool, so the
// caller's Query is left intact; DELETE and UPDATE plans reference the
// query's condition slice without copying it.
func (p *Planner) Plan(ctx context.Context, q *Query) (Plan, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "planner.Plan")
	defer span.Finish()

	switch x := q.Stmt.(type) {
	case *CreateTableStmt:
		colDefs := make([]ColDef, 0, len(x.Fields))
		for _, field := range x.Fields {
			aColDef, ok := field.(ColDef)
			if !ok {
				return nil, ErrUnexpectedFieldType.New()
			}
			colDefs = append(colDefs, aColDef)
		}
		return &DDLPlan{Kind: CreateTable, Table: x.Table, ColDefs: colDefs}, nil
	case *DropTableStmt:
		return &DDLPlan{Kind: DropTable, Table: x.Table}, nil
	case *CreateIndexStmt:
		return &DDLPlan{Kind: CreateIndex, Table: x.Table, ColNames: x.Cols}, nil
	case *DropIndexStmt:
		return &DDLPlan{Kind: DropIndex, Table: x.Table, ColNames: x.Cols}, nil
	case *InsertStmt:
		return &DMLPlan{Kind: Insert, Table: x.Table, Values: q.Values}, nil
	case *DeleteStmt:
		scan, err := p.targetScan(x.Table, q.Conds)
		if err != nil {
			return nil, err
		}
		return &DMLPlan{Kind: Delete, Child: scan, Table: x.Table, Conds: q.Conds}, nil
	case *UpdateStmt:
		scan, err := p.targetScan(x.Table, q.Conds)
		if err != nil {
			return nil, err
		}
		return &DMLPlan{Kind: Update, Child: scan, Table: x.Table, Conds: q.Conds, SetClauses: q.SetClauses}, nil
	case *SelectStmt:
		projection, err := p.generateSelectPlan(ctx, q)
		if err != nil {
			return nil, err
		}
		return &DMLPlan{Kind: Select, Child: projection}, nil
	default:
		return nil, ErrUnexpectedStatement.New(q.Stmt)
	}
}

// targetScan builds the single table scan under a DELETE or UPDATE. The
// statement targets one table, so the full condition set is handed to the
// index matcher directly.
func (p *Planner) targetScan(tableName string, conds []Condition) (Plan, error) {
	matched, indexCols, err := p.bestIndexFor(tableName, conds)
	if err != nil {
		return nil, err
	}
	if matched {
		return &ScanPlan{Type: IndexScan, Table: tableName, Conds: conds, IndexCols: indexCols}, nil
	}
	return &ScanPlan{Type: SeqScan, Table: tableName, Conds: conds}, nil
}

func (p *Planner) generateSelectPlan(ctx context.Context, q *Query) (Plan, error) {
	q = p.logicalOptimization(ctx, q)

	plan, err := p.physicalOptimization(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ProjectionPlan{Child: plan, Cols: q.Cols, Aggs: q.Aggs}, nil
}

// logicalOptimization is an identity hook today. Predicate normalization,
// constant folding and projection push down slot in here without touching
// the physical path.
func (p *Planner) logicalOptimization(_ context.Context, q *Query) *Query {
	return q
}

func (p *Planner) physicalOptimization(_ context.Context, q *Query) (Plan, error) {
	// The pool is drained during planning; work on a copy so the caller's
	// Query survives.
	pool := make([]Condition, len(q.Conds))
	copy(pool, q.Conds)

	plan, err := p.makeOneRel(q, pool)
	if err != nil {
		return nil, err
	}

	plan = p.generateGroupByPlan(q, plan)
	plan = p.generateSortPlan(q, plan)

	return plan, nil
}

func (p *Planner) generateGroupByPlan(q *Query, plan Plan) Plan {
	if len(q.GroupBy.Cols) == 0 && len(q.Aggs) == 0 {
		return plan
	}
	return &GroupByPlan{
		Child:  plan,
		Keys:   q.GroupBy.Cols,
		Having: q.GroupBy.Having,
		Aggs:   q.Aggs,
		Cols:   q.Cols,
	}
}

func (p *Planner) generateSortPlan(q *Query, plan Plan) Plan {
	x, ok := q.Stmt.(*SelectStmt)
	if !ok || !x.HasSort {
		return plan
	}
	return &SortPlan{
		Child: plan,
		Cols:  q.OrderBy.Cols,
		Desc:  q.OrderBy.Dir == Desc,
	}
}
