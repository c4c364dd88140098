// Package graindb exposes the query planner of a small relational database:
// SQL text goes in, a physical plan tree comes out. Execution, storage and
// transactions live elsewhere; this module owns parsing, binding and plan
// construction only.
package graindb

import (
	"go.uber.org/zap"

	engine "github.com/graindb/graindb/internal/graindb"
	"github.com/graindb/graindb/internal/parser"
)

// Re-exported engine types so callers never import internal packages.
type (
	Engine       = engine.Engine
	EngineOption = engine.EngineOption
	Plan         = engine.Plan
	PlanConfig   = engine.PlanConfig
	MemCatalog   = engine.MemCatalog
	ColMeta      = engine.ColMeta
	IndexMeta    = engine.IndexMeta
	TableMeta    = engine.TableMeta
	Catalog      = engine.Catalog
)

// Engine options, re-exported alongside the constructor.
var (
	WithPlanConfig          = engine.WithPlanConfig
	WithMaxCachedStatements = engine.WithMaxCachedStatements
)

// NewEngine wires the SQL parser, an in-memory catalog and the planner into
// a ready to use engine.
func NewEngine(logger *zap.Logger, opts ...engine.EngineOption) *Engine {
	return engine.NewEngine(logger, parser.New(), engine.NewMemCatalog(), opts...)
}

// NewEngineWithCatalog is NewEngine against a caller supplied catalog, so a
// schema can be prepared up front.
func NewEngineWithCatalog(logger *zap.Logger, aCatalog *MemCatalog, opts ...engine.EngineOption) *Engine {
	return engine.NewEngine(logger, parser.New(), aCatalog, opts...)
}

// Explain renders a plan as an indented operator tree.
func Explain(plan Plan) string {
	return engine.Explain(plan)
}

// NewPlanConfig returns a plan config with both join algorithms enabled.
func NewPlanConfig() *PlanConfig {
	return engine.NewPlanConfig()
}

// NewMemCatalog returns an empty in-memory catalog.
func NewMemCatalog() *MemCatalog {
	return engine.NewMemCatalog()
}
