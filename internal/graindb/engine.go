package graindb

import (
	"context"

	"go.uber.org/zap"
)

// Parser turns SQL text into statements. The concrete implementation lives
// in its own package; the engine only needs the contract.
type Parser interface {
	Parse(context.Context, string) ([]Statement, error)
}

// Engine ties the parser, the binder and the planner together for one
// catalog. SET statements are applied to the plan config in place; DDL
// plans can optionally be applied to the catalog so a session can build
// schema and keep planning against it.
type Engine struct {
	logger    *zap.Logger
	parser    Parser
	binder    *Binder
	planner   *Planner
	catalog   *MemCatalog
	cfg       *PlanConfig
	stmtCache *statementCache
}

type EngineOption func(*Engine)

func WithPlanConfig(cfg *PlanConfig) EngineOption {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

func WithMaxCachedStatements(maxStatements int) EngineOption {
	return func(e *Engine) {
		if maxStatements > 0 {
			e.stmtCache = newStatementCache(maxStatements)
		}
	}
}

func NewEngine(logger *zap.Logger, aParser Parser, aCatalog *MemCatalog, opts ...EngineOption) *Engine {
	e := &Engine{
		logger:    logger,
		parser:    aParser,
		catalog:   aCatalog,
		cfg:       NewPlanConfig(),
		stmtCache: newStatementCache(DefaultMaxCachedStatements),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.binder = NewBinder(logger, aCatalog)
	e.planner = NewPlanner(logger, aCatalog, e.cfg)
	return e
}

func (e *Engine) Catalog() *MemCatalog {
	return e.catalog
}

func (e *Engine) Config() *PlanConfig {
	return e.cfg
}

// Plan parses, binds and plans every statement in the given SQL text. SET
// statements are applied immediately and produce no plan. DDL plans are
// returned but not applied; use Exec for that.
func (e *Engine) Plan(ctx context.Context, sql string) ([]Plan, error) {
	return e.run(ctx, sql, false)
}

// Exec behaves like Plan but additionally applies DDL plans to the catalog,
// so later statements in the same text (or session) see the new schema.
func (e *Engine) Exec(ctx context.Context, sql string) ([]Plan, error) {
	return e.run(ctx, sql, true)
}

func (e *Engine) run(ctx context.Context, sql string, applyDDL bool) ([]Plan, error) {
	stmts, err := e.parse(ctx, sql)
	if err != nil {
		return nil, err
	}

	plans := make([]Plan, 0, len(stmts))
	for _, stmt := range stmts {
		if setStmt, ok := stmt.(*SetStmt); ok {
			if err := e.cfg.SetKnob(setStmt.Knob, setStmt.Value); err != nil {
				return nil, err
			}
			e.logger.Debug("knob set",
				zap.String("knob", setStmt.Knob),
				zap.Bool("value", setStmt.Value))
			continue
		}

		q, err := e.binder.Bind(ctx, stmt)
		if err != nil {
			return nil, err
		}
		aPlan, err := e.planner.Plan(ctx, q)
		if err != nil {
			return nil, err
		}

		if e.logger.Core().Enabled(zap.DebugLevel) {
			if checkErr := CheckPlan(aPlan); checkErr != nil {
				e.logger.Error("planner emitted malformed plan", zap.Error(checkErr))
			}
		}

		if applyDDL {
			if ddl, ok := aPlan.(*DDLPlan); ok {
				if err := e.applyDDL(ddl); err != nil {
					return nil, err
				}
			}
		}
		plans = append(plans, aPlan)
	}
	return plans, nil
}

func (e *Engine) parse(ctx context.Context, sql string) ([]Statement, error) {
	if stmts, ok := e.stmtCache.get(sql); ok {
		return stmts, nil
	}
	stmts, err := e.parser.Parse(ctx, sql)
	if err != nil {
		return nil, err
	}
	e.stmtCache.put(sql, stmts)
	return stmts, nil
}

func (e *Engine) applyDDL(plan *DDLPlan) error {
	switch plan.Kind {
	case CreateTable:
		cols := make([]ColMeta, 0, len(plan.ColDefs))
		for _, aColDef := range plan.ColDefs {
			cols = append(cols, ColMeta{Name: aColDef.Name, Type: aColDef.Type, Len: aColDef.Len})
		}
		return e.catalog.CreateTable(plan.Table, cols)
	case DropTable:
		return e.catalog.DropTable(plan.Table)
	case CreateIndex:
		return e.catalog.CreateIndex(plan.Table, plan.ColNames)
	case DropIndex:
		return e.catalog.DropIndex(plan.Table, plan.ColNames)
	default:
		return ErrBadPlan.New("unknown DDL kind")
	}
}
