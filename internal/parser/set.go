package parser

import (
	"strings"
)

// SET enable_nestloop = false. The knob name is validated by the plan
// config, not the parser.
func (p *parserItem) doParseSet() error {
	switch p.step {
	case stepSetKnobName:
		knobName := p.peek()
		if !isIdentifier(knobName) {
			return ErrSetExpectedKnobName.New()
		}
		p.knobName = strings.ToLower(knobName)
		p.pop()
		p.step = stepSetEquals
	case stepSetEquals:
		if p.peek() != "=" {
			return ErrSetExpectedBooleanValue.New()
		}
		p.pop()
		p.step = stepSetValue
	case stepSetValue:
		boolValue, ln := p.peekBooleanWithLength()
		if ln == 0 {
			return ErrSetExpectedBooleanValue.New()
		}
		p.knobValue = boolValue
		p.pop()
		p.step = stepStatementEnd
	}
	return nil
}
