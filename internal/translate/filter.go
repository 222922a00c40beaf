package translate

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterBuilder accumulates predicate fragments in the upstream's filter
// expression syntax. It is purely additive: fragments are never deduplicated
// or validated, and Build joins them with "," in append order. An empty
// builder builds an empty string, which callers must translate into omitting
// the filters parameter entirely.
type FilterBuilder struct {
	fragments []string
}

// Add appends one fragment. Empty fragments are ignored.
func (b *FilterBuilder) Add(fragment string) {
	if fragment == "" {
		return
	}
	b.fragments = append(b.fragments, fragment)
}

// Build joins the accumulated fragments with ",".
func (b *FilterBuilder) Build() string {
	return strings.Join(b.fragments, ",")
}

// Empty reports whether no fragments have been added.
func (b *FilterBuilder) Empty() bool {
	return len(b.fragments) == 0
}

// comparisonOps maps accepted comparison operators to the upstream's
// comparison prefix in "field:value" predicates.
var comparisonOps = map[string]string{
	"eq":  "",
	"=":   "",
	"gt":  ">",
	">":   ">",
	"gte": ">=",
	">=":  ">=",
	"lt":  "<",
	"<":   "<",
	"lte": "<=",
	"<=":  "<=",
}

// CQLToParams converts a structured filter to upstream query parameters.
//
// Two input shapes are accepted: a raw mapping of upstream parameter names
// to values, forwarded as-is, and comparison expressions whose output
// collects under the "filters" key in the upstream's "field:value" syntax.
// Comparisons may be written as {field, op, value} or as CQL2-JSON
// {op, args: [{property}, value]}. The operators "and" and "logical_and"
// merge the output of their operands.
func CQLToParams(filter any) (map[string]string, error) {
	params := make(map[string]string)
	if filter == nil {
		return params, nil
	}

	expr, ok := filter.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: filter must be a JSON object", ErrUnsupportedFilter)
	}

	if err := collectFilterParams(expr, params); err != nil {
		return nil, err
	}
	return params, nil
}

// collectFilterParams processes a single filter expression node.
func collectFilterParams(expr map[string]any, params map[string]string) error {
	opVal, ok := expr["op"]
	if !ok {
		// No operator: a raw mapping of parameter names to values.
		for key, value := range expr {
			addFilterParam(params, key, formatParamValue(value))
		}
		return nil
	}

	op, ok := opVal.(string)
	if !ok {
		return fmt.Errorf("%w: 'op' must be a string", ErrUnsupportedFilter)
	}

	switch strings.ToLower(op) {
	case "and", "logical_and":
		return collectConjunction(expr, params)
	default:
		prefix, ok := comparisonOps[strings.ToLower(op)]
		if !ok {
			return fmt.Errorf("%w: operator %q not supported", ErrUnsupportedFilter, op)
		}
		return collectComparison(expr, prefix, params)
	}
}

// collectConjunction merges the output of each operand of an "and".
func collectConjunction(expr map[string]any, params map[string]string) error {
	argsVal, ok := expr["args"]
	if !ok {
		return fmt.Errorf("%w: conjunction missing 'args'", ErrUnsupportedFilter)
	}
	args, ok := argsVal.([]any)
	if !ok || len(args) == 0 {
		return fmt.Errorf("%w: conjunction 'args' must be a non-empty array", ErrUnsupportedFilter)
	}

	for _, arg := range args {
		operand, ok := arg.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: conjunction operands must be filter expressions", ErrUnsupportedFilter)
		}
		if err := collectFilterParams(operand, params); err != nil {
			return err
		}
	}
	return nil
}

// collectComparison renders one comparison as a "filters" predicate.
func collectComparison(expr map[string]any, prefix string, params map[string]string) error {
	field, value, err := comparisonOperands(expr)
	if err != nil {
		return err
	}
	addFilterParam(params, "filters", field+":"+prefix+formatParamValue(value))
	return nil
}

// comparisonOperands extracts the field name and value from either the
// {field, op, value} shape or the CQL2-JSON {op, args} shape.
func comparisonOperands(expr map[string]any) (string, any, error) {
	if fieldVal, ok := expr["field"]; ok {
		field, ok := fieldVal.(string)
		if !ok || field == "" {
			return "", nil, fmt.Errorf("%w: 'field' must be a non-empty string", ErrUnsupportedFilter)
		}
		value, ok := expr["value"]
		if !ok {
			return "", nil, fmt.Errorf("%w: comparison missing 'value'", ErrUnsupportedFilter)
		}
		return field, value, nil
	}

	argsVal, ok := expr["args"]
	if !ok {
		return "", nil, fmt.Errorf("%w: comparison missing 'field' or 'args'", ErrUnsupportedFilter)
	}
	args, ok := argsVal.([]any)
	if !ok || len(args) != 2 {
		return "", nil, fmt.Errorf("%w: comparison 'args' must have exactly 2 entries", ErrUnsupportedFilter)
	}
	propMap, ok := args[0].(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("%w: first comparison argument must be a property reference", ErrUnsupportedFilter)
	}
	propVal, ok := propMap["property"]
	if !ok {
		return "", nil, fmt.Errorf("%w: property reference missing 'property'", ErrUnsupportedFilter)
	}
	field, ok := propVal.(string)
	if !ok || field == "" {
		return "", nil, fmt.Errorf("%w: 'property' must be a non-empty string", ErrUnsupportedFilter)
	}
	return field, args[1], nil
}

// addFilterParam sets a parameter, accumulating repeated "filters" values as
// comma-joined fragments instead of overwriting.
func addFilterParam(params map[string]string, key, value string) {
	if key == "filters" {
		if existing := params["filters"]; existing != "" {
			params["filters"] = existing + "," + value
			return
		}
	}
	params[key] = value
}

// formatParamValue renders a filter or extra-parameter value the way it
// appears in a query string.
func formatParamValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}
