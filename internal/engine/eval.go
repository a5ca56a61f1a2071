package engine

import (
	"math"
	"strconv"
	"strings"
)

// Value is the result of evaluating an AST node: a float64, string,
// bool, or []Value for ranges and array literals.
type Value any

// cellReader is the evaluator's view of the grid. Cell references
// dereference through it, so chained formulas see each other's
// computed display values.
type cellReader interface {
	cellContent(Coord) string
}

// evaluator evaluates one formula against a grid snapshot. It holds
// no state between calls.
type evaluator struct {
	reader cellReader
	funcs  *Registry
}

// Evaluate evaluates formula text against the reader. Text without a
// leading = is returned unchanged — it is not a formula. Every failure
// mode is resolved to an error display string; no error escapes.
func Evaluate(text string, reader cellReader, funcs *Registry) string {
	if !strings.HasPrefix(text, "=") {
		return text
	}

	node, err := parseFormula(text[1:])
	if err != nil {
		return asCellError(err).Display()
	}

	ev := &evaluator{reader: reader, funcs: funcs}
	value, err := node.eval(ev)
	if err != nil {
		return asCellError(err).Display()
	}

	display, err := formatValue(value)
	if err != nil {
		return asCellError(err).Display()
	}
	return display
}

func (n *numberNode) eval(ev *evaluator) (Value, error) {
	return n.value, nil
}

func (n *stringNode) eval(ev *evaluator) (Value, error) {
	return n.value, nil
}

// eval dereferences the cell. The referenced content is returned as a
// number when it parses as one, otherwise as its raw string; numeric
// contexts coerce the latter to 0 (permissive arithmetic mode).
func (n *cellNode) eval(ev *evaluator) (Value, error) {
	content := ev.reader.cellContent(n.coord)
	if num, ok := parseNumber(content); ok {
		return num, nil
	}
	return content, nil
}

func (n *rangeNode) eval(ev *evaluator) (Value, error) {
	coords := ExpandRange(n.start, n.end)
	values := make([]Value, 0, len(coords))
	for _, coord := range coords {
		content := ev.reader.cellContent(coord)
		if num, ok := parseNumber(content); ok {
			values = append(values, num)
		} else {
			values = append(values, content)
		}
	}
	return values, nil
}

func (n *binaryNode) eval(ev *evaluator) (Value, error) {
	leftVal, err := n.left.eval(ev)
	if err != nil {
		return nil, err
	}
	rightVal, err := n.right.eval(ev)
	if err != nil {
		return nil, err
	}

	// non-numeric operands contribute 0 rather than raising a type
	// error (permissive arithmetic mode)
	left := coerceNumber(leftVal)
	right := coerceNumber(rightVal)

	switch n.op {
	case '+':
		return left + right, nil
	case '-':
		return left - right, nil
	case '*':
		return left * right, nil
	case '/':
		if right == 0 {
			return nil, newEvalError("division by zero")
		}
		return left / right, nil
	}
	return nil, newEvalError("unknown operator %q", string(n.op))
}

func (n *unaryNode) eval(ev *evaluator) (Value, error) {
	val, err := n.operand.eval(ev)
	if err != nil {
		return nil, err
	}
	num := coerceNumber(val)
	if n.op == '-' {
		return -num, nil
	}
	return num, nil
}

func (n *callNode) eval(ev *evaluator) (Value, error) {
	fn, ok := ev.funcs.Lookup(n.name)
	if !ok {
		return nil, newNameError("unknown function %s", n.name)
	}

	args := make([]Value, len(n.args))
	for i, argNode := range n.args {
		val, err := argNode.eval(ev)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	return fn(args)
}

func (n *arrayNode) eval(ev *evaluator) (Value, error) {
	values := make([]Value, len(n.elems))
	for i, elem := range n.elems {
		val, err := elem.eval(ev)
		if err != nil {
			return nil, err
		}
		values[i] = val
	}
	return values, nil
}

// collectRefs walks the AST and reports every cell the formula reads,
// with ranges expanded. Used to build the dependency graph.
func collectRefs(node astNode, out map[Coord]struct{}) {
	switch n := node.(type) {
	case *cellNode:
		out[n.coord] = struct{}{}
	case *rangeNode:
		for _, coord := range ExpandRange(n.start, n.end) {
			out[coord] = struct{}{}
		}
	case *binaryNode:
		collectRefs(n.left, out)
		collectRefs(n.right, out)
	case *unaryNode:
		collectRefs(n.operand, out)
	case *callNode:
		for _, arg := range n.args {
			collectRefs(arg, out)
		}
	case *arrayNode:
		for _, elem := range n.elems {
			collectRefs(elem, out)
		}
	}
}

// parseNumber is a strict numeric parse of trimmed cell content.
func parseNumber(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	num, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(num, 0) || math.IsNaN(num) {
		return 0, false
	}
	return num, true
}

// coerceNumber applies the permissive arithmetic policy: anything that
// is not a number contributes 0.
func coerceNumber(v Value) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		if num, ok := parseNumber(val); ok {
			return num
		}
		return 0
	default:
		return 0
	}
}

// coerceString renders a value for string contexts.
func coerceString(v Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return formatNumber(val)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case []Value:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = coerceString(elem)
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// formatValue converts an evaluation result into a display string. A
// non-finite number is an evaluation error, not a displayable value.
func formatValue(v Value) (string, error) {
	if num, ok := v.(float64); ok {
		if math.IsInf(num, 0) || math.IsNaN(num) {
			return "", newEvalError("result is not a finite number")
		}
		return formatNumber(num), nil
	}
	return coerceString(v), nil
}

// formatNumber renders a float without trailing decimal noise.
func formatNumber(num float64) string {
	if num == math.Trunc(num) && math.Abs(num) < 1e15 {
		return strconv.FormatInt(int64(num), 10)
	}
	return strconv.FormatFloat(num, 'g', -1, 64)
}
