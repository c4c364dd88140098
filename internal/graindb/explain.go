package graindb

import (
	"fmt"
	"strings"
)

// Explain renders a plan tree as an indented operator listing, one node per
// line, children indented below their parent.
func Explain(plan Plan) string {
	var sb strings.Builder
	explainNode(&sb, plan, 0)
	return sb.String()
}

func explainNode(sb *strings.Builder, plan Plan, depth int) {
	indent := strings.Repeat("  ", depth)
	switch x := plan.(type) {
	case *ScanPlan:
		sb.WriteString(indent)
		sb.WriteString(fmt.Sprintf("%s table=%s", x.Type, x.Table))
		if x.Type == IndexScan {
			sb.WriteString(fmt.Sprintf(" index=(%s)", strings.Join(x.IndexCols, ", ")))
		}
		writeConds(sb, x.Conds)
		sb.WriteString("\n")
	case *JoinPlan:
		sb.WriteString(indent)
		sb.WriteString(x.Type.String())
		writeConds(sb, x.Conds)
		sb.WriteString("\n")
		explainNode(sb, x.Left, depth+1)
		explainNode(sb, x.Right, depth+1)
	case *SortPlan:
		sb.WriteString(indent)
		sb.WriteString(fmt.Sprintf("Sort cols=%s", tabColList(x.Cols)))
		if x.Desc {
			sb.WriteString(" desc")
		}
		sb.WriteString("\n")
		explainNode(sb, x.Child, depth+1)
	case *GroupByPlan:
		sb.WriteString(indent)
		sb.WriteString(fmt.Sprintf("GroupBy keys=%s aggs=%s", tabColList(x.Keys), aggList(x.Aggs)))
		writeConds(sb, x.Having)
		sb.WriteString("\n")
		explainNode(sb, x.Child, depth+1)
	case *AggregatePlan:
		sb.WriteString(indent)
		sb.WriteString(fmt.Sprintf("Aggregate aggs=%s", aggList(x.Aggs)))
		sb.WriteString("\n")
		explainNode(sb, x.Child, depth+1)
	case *ProjectionPlan:
		sb.WriteString(indent)
		sb.WriteString(fmt.Sprintf("Projection cols=%s", tabColList(x.Cols)))
		if len(x.Aggs) > 0 {
			sb.WriteString(fmt.Sprintf(" aggs=%s", aggList(x.Aggs)))
		}
		sb.WriteString("\n")
		explainNode(sb, x.Child, depth+1)
	case *DDLPlan:
		sb.WriteString(indent)
		sb.WriteString(fmt.Sprintf("DDL %s table=%s", x.Kind, x.Table))
		if len(x.ColNames) > 0 {
			sb.WriteString(fmt.Sprintf(" cols=[%s]", strings.Join(x.ColNames, ", ")))
		}
		sb.WriteString("\n")
	case *DMLPlan:
		sb.WriteString(indent)
		sb.WriteString(fmt.Sprintf("DML %s", x.Kind))
		if x.Table != "" {
			sb.WriteString(fmt.Sprintf(" table=%s", x.Table))
		}
		writeConds(sb, x.Conds)
		sb.WriteString("\n")
		if x.Child != nil {
			explainNode(sb, x.Child, depth+1)
		}
	default:
		sb.WriteString(indent)
		sb.WriteString("unknown\n")
	}
}

func writeConds(sb *strings.Builder, conds []Condition) {
	if len(conds) == 0 {
		return
	}
	parts := make([]string, 0, len(conds))
	for _, aCondition := range conds {
		parts = append(parts, aCondition.String())
	}
	sb.WriteString(fmt.Sprintf(" conds=[%s]", strings.Join(parts, ", ")))
}

func tabColList(cols []TabCol) string {
	parts := make([]string, 0, len(cols))
	for _, aCol := range cols {
		parts = append(parts, aCol.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func aggList(aggs []AggregateExpr) string {
	parts := make([]string, 0, len(aggs))
	for _, anAgg := range aggs {
		parts = append(parts, anAgg.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
