package graindb

import (
	"sync/atomic"

	"github.com/spf13/viper"
)

// Planner knob names as they appear in SET statements and config files.
const (
	KnobEnableNestLoop  = "enable_nestloop"
	KnobEnableSortMerge = "enable_sortmerge"
)

// PlanConfig holds the join algorithm knobs. They are process wide in
// spirit but passed explicitly so tests and embedded engines can hold
// independent configurations. The planner reads them once per SELECT, when
// it builds the first join; a SET racing a concurrent plan is harmless.
type PlanConfig struct {
	nestLoop  atomic.Bool
	sortMerge atomic.Bool
}

// NewPlanConfig returns a config with both join algorithms enabled, which
// makes nested loop the default choice.
func NewPlanConfig() *PlanConfig {
	cfg := new(PlanConfig)
	cfg.nestLoop.Store(true)
	cfg.sortMerge.Store(true)
	return cfg
}

// NewPlanConfigFromViper reads knob defaults from an already initialised
// viper instance, falling back to both enabled.
func NewPlanConfigFromViper(v *viper.Viper) *PlanConfig {
	v.SetDefault(KnobEnableNestLoop, true)
	v.SetDefault(KnobEnableSortMerge, true)
	cfg := new(PlanConfig)
	cfg.nestLoop.Store(v.GetBool(KnobEnableNestLoop))
	cfg.sortMerge.Store(v.GetBool(KnobEnableSortMerge))
	return cfg
}

func (c *PlanConfig) SetEnableNestedLoopJoin(enabled bool) {
	c.nestLoop.Store(enabled)
}

func (c *PlanConfig) EnableNestedLoopJoin() bool {
	return c.nestLoop.Load()
}

func (c *PlanConfig) SetEnableSortMergeJoin(enabled bool) {
	c.sortMerge.Store(enabled)
}

func (c *PlanConfig) EnableSortMergeJoin() bool {
	return c.sortMerge.Load()
}

// SetKnob applies a SET statement to the config.
func (c *PlanConfig) SetKnob(name string, value bool) error {
	switch name {
	case KnobEnableNestLoop:
		c.SetEnableNestedLoopJoin(value)
	case KnobEnableSortMerge:
		c.SetEnableSortMergeJoin(value)
	default:
		return ErrUnknownKnob.New(name)
	}
	return nil
}
