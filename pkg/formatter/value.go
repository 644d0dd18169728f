package formatter

import (
	"strconv"
	"strings"

	"github.com/thomasrohde/walker/pkg/evaluator"
)

// FormatValue renders a runtime value for display: objects as
// { key: value }, nested strings quoted, callables by name. An object that
// contains itself prints as [Circular] at the repeat.
func FormatValue(v evaluator.Value) string {
	var sb strings.Builder
	writeValue(&sb, v, make(map[*evaluator.Object]bool))
	return sb.String()
}

func writeValue(sb *strings.Builder, v evaluator.Value, visiting map[*evaluator.Object]bool) {
	switch val := v.(type) {
	case nil, evaluator.Null:
		sb.WriteString("null")
	case evaluator.Number:
		sb.WriteString(evaluator.FormatNumber(val.Value))
	case evaluator.String:
		sb.WriteString(strconv.Quote(val.Value))
	case *evaluator.Object:
		if visiting[val] {
			sb.WriteString("[Circular]")
			return
		}
		if val.Len() == 0 {
			sb.WriteString("{}")
			return
		}
		visiting[val] = true
		defer delete(visiting, val)

		sb.WriteString("{ ")
		for i, kv := range val.Pairs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(formatKey(kv.Key))
			sb.WriteString(": ")
			writeValue(sb, kv.Value, visiting)
		}
		sb.WriteString(" }")
	default:
		sb.WriteString(evaluator.ToText(v))
	}
}
