package engine

import (
	"math"
	"sort"
	"strings"
)

// Func is a formula function. It receives pre-resolved arguments
// (numbers, strings, or nested []Value for ranges and tables) and
// returns a value convertible to a display string.
type Func func(args []Value) (Value, error)

// Registry maps function names to callables. Names are case
// insensitive; lookups fold to upper case.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns a registry populated with the built-in library.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}

	r.Register("SUM", fnSum)
	r.Register("AVERAGE", fnAverage)
	r.Register("MAX", fnMax)
	r.Register("MIN", fnMin)
	r.Register("COUNT", fnCount)
	r.Register("MEDIAN", fnMedian)
	r.Register("STDEV", fnStdev)
	r.Register("ROUND", fnRound)
	r.Register("ABS", fnAbs)
	r.Register("CONCATENATE", fnConcatenate)
	r.Register("UPPER", fnUpper)
	r.Register("LOWER", fnLower)
	r.Register("LEN", fnLen)
	r.Register("IF", fnIf)
	r.Register("AND", fnAnd)
	r.Register("OR", fnOr)
	r.Register("VLOOKUP", fnVlookup)

	return r
}

// Register adds or replaces a function. This is the host extension
// point for custom functions.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[strings.ToUpper(name)] = fn
}

// Lookup resolves a function by name.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[strings.ToUpper(name)]
	return fn, ok
}

// Names returns all registered function names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// flattenNumbers walks the arguments, descending into nested slices,
// and collects every value that parses as a number. Non-numeric values
// are skipped.
func flattenNumbers(args []Value) []float64 {
	var nums []float64
	var walk func(v Value)
	walk = func(v Value) {
		switch val := v.(type) {
		case []Value:
			for _, elem := range val {
				walk(elem)
			}
		case float64:
			nums = append(nums, val)
		case string:
			if num, ok := parseNumber(val); ok {
				nums = append(nums, num)
			}
		case bool:
			if val {
				nums = append(nums, 1)
			} else {
				nums = append(nums, 0)
			}
		}
	}
	for _, arg := range args {
		walk(arg)
	}
	return nums
}

// flatten walks the arguments, descending into nested slices, and
// collects every scalar in order.
func flatten(args []Value) []Value {
	var out []Value
	var walk func(v Value)
	walk = func(v Value) {
		if slice, ok := v.([]Value); ok {
			for _, elem := range slice {
				walk(elem)
			}
			return
		}
		out = append(out, v)
	}
	for _, arg := range args {
		walk(arg)
	}
	return out
}

func isTruthy(v Value) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		if num, ok := parseNumber(val); ok {
			return num != 0
		}
		return strings.EqualFold(val, "TRUE")
	default:
		return false
	}
}

func fnSum(args []Value) (Value, error) {
	sum := 0.0
	for _, num := range flattenNumbers(args) {
		sum += num
	}
	return sum, nil
}

func fnAverage(args []Value) (Value, error) {
	nums := flattenNumbers(args)
	if len(nums) == 0 {
		return 0.0, nil
	}
	sum := 0.0
	for _, num := range nums {
		sum += num
	}
	return sum / float64(len(nums)), nil
}

func fnMax(args []Value) (Value, error) {
	nums := flattenNumbers(args)
	if len(nums) == 0 {
		return 0.0, nil
	}
	best := math.Inf(-1)
	for _, num := range nums {
		if num > best {
			best = num
		}
	}
	return best, nil
}

func fnMin(args []Value) (Value, error) {
	nums := flattenNumbers(args)
	if len(nums) == 0 {
		return 0.0, nil
	}
	best := math.Inf(1)
	for _, num := range nums {
		if num < best {
			best = num
		}
	}
	return best, nil
}

func fnCount(args []Value) (Value, error) {
	return float64(len(flattenNumbers(args))), nil
}

func fnMedian(args []Value) (Value, error) {
	nums := flattenNumbers(args)
	if len(nums) == 0 {
		return 0.0, nil
	}
	sort.Float64s(nums)
	mid := len(nums) / 2
	if len(nums)%2 == 1 {
		return nums[mid], nil
	}
	return (nums[mid-1] + nums[mid]) / 2, nil
}

// fnStdev is the sample standard deviation of the numeric subset.
func fnStdev(args []Value) (Value, error) {
	nums := flattenNumbers(args)
	if len(nums) < 2 {
		return 0.0, nil
	}
	mean := 0.0
	for _, num := range nums {
		mean += num
	}
	mean /= float64(len(nums))

	variance := 0.0
	for _, num := range nums {
		diff := num - mean
		variance += diff * diff
	}
	variance /= float64(len(nums) - 1)
	return math.Sqrt(variance), nil
}

func fnRound(args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, newEvalError("ROUND requires at least one argument")
	}
	num := coerceNumber(args[0])
	digits := 0.0
	if len(args) > 1 {
		digits = coerceNumber(args[1])
	}
	scale := math.Pow(10, digits)
	return math.Round(num*scale) / scale, nil
}

func fnAbs(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, newEvalError("ABS requires exactly one argument")
	}
	return math.Abs(coerceNumber(args[0])), nil
}

func fnConcatenate(args []Value) (Value, error) {
	var b strings.Builder
	for _, v := range flatten(args) {
		b.WriteString(coerceString(v))
	}
	return b.String(), nil
}

func fnUpper(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, newEvalError("UPPER requires exactly one argument")
	}
	return strings.ToUpper(coerceString(args[0])), nil
}

func fnLower(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, newEvalError("LOWER requires exactly one argument")
	}
	return strings.ToLower(coerceString(args[0])), nil
}

func fnLen(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, newEvalError("LEN requires exactly one argument")
	}
	return float64(len([]rune(coerceString(args[0])))), nil
}

func fnIf(args []Value) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, newEvalError("IF requires two or three arguments")
	}
	if isTruthy(args[0]) {
		return args[1], nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return false, nil
}

func fnAnd(args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, newEvalError("AND requires at least one argument")
	}
	for _, v := range flatten(args) {
		if !isTruthy(v) {
			return false, nil
		}
	}
	return true, nil
}

func fnOr(args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, newEvalError("OR requires at least one argument")
	}
	for _, v := range flatten(args) {
		if isTruthy(v) {
			return true, nil
		}
	}
	return false, nil
}

// fnVlookup scans a table (slice of rows) for the first row whose
// first cell equals the key, and returns the element at the 1-based
// column index. No match is #N/A.
func fnVlookup(args []Value) (Value, error) {
	if len(args) != 3 {
		return nil, newEvalError("VLOOKUP requires exactly three arguments")
	}

	key := args[0]
	table, ok := args[1].([]Value)
	if !ok {
		return nil, newEvalError("VLOOKUP table must be a range or array of rows")
	}
	col := int(coerceNumber(args[2]))
	if col < 1 {
		return nil, newEvalError("VLOOKUP column index must be 1 or greater")
	}

	for _, rowVal := range table {
		row, ok := rowVal.([]Value)
		if !ok {
			// a flat table is treated as a single-column table
			row = []Value{rowVal}
		}
		if len(row) == 0 {
			continue
		}
		if looseEqual(row[0], key) {
			if col > len(row) {
				return nil, newNAError("VLOOKUP column %d is outside the matched row", col)
			}
			return row[col-1], nil
		}
	}
	return nil, newNAError("VLOOKUP found no row matching %v", coerceString(key))
}

// looseEqual compares two values numerically when both parse as
// numbers, otherwise as case-sensitive strings.
func looseEqual(a, b Value) bool {
	aNum, aOk := toNumber(a)
	bNum, bOk := toNumber(b)
	if aOk && bOk {
		return aNum == bNum
	}
	return coerceString(a) == coerceString(b)
}

// toNumber converts a value to a float64 when it genuinely is one,
// without the permissive default-to-zero policy.
func toNumber(v Value) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		return parseNumber(val)
	default:
		return 0, false
	}
}
