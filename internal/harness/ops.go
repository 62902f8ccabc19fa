package harness

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/a003558/dyadic/internal/horizon"
	"github.com/a003558/dyadic/internal/octonion"
)

// value is the result of one operation. Exactly one field is set.
type value struct {
	Int    *int64
	Bool   *bool
	Number *float64
	Vector *octonion.Octonion
}

// ArgError reports a malformed step argument. It aborts the scenario, unlike
// errors raised by the operation itself, which are compared with the expect
// clause.
type ArgError struct {
	Name    string
	Message string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("arg %q: %s", e.Name, e.Message)
}

type operation func(args map[string]any) (value, error)

var operations = map[string]operation{
	"order": func(args map[string]any) (value, error) {
		base, err := intArg(args, "base")
		if err != nil {
			return value{}, err
		}
		modulus, err := intArg(args, "modulus")
		if err != nil {
			return value{}, err
		}
		return intValue(horizon.MultiplicativeOrder(base, modulus))
	},
	"staircase": func(args map[string]any) (value, error) {
		n, err := intArg(args, "n")
		if err != nil {
			return value{}, err
		}
		level, err := horizon.StaircaseLevel(n)
		return intValue(int64(level), err)
	},
	"bound": func(args map[string]any) (value, error) {
		n, err := intArg(args, "n")
		if err != nil {
			return value{}, err
		}
		l, err := intArg(args, "l")
		if err != nil {
			return value{}, err
		}
		ok, err := horizon.HorizonBound(n, l)
		if err != nil {
			return value{}, err
		}
		return value{Bool: &ok}, nil
	},
	"level": func(args map[string]any) (value, error) {
		n, err := intArg(args, "n")
		if err != nil {
			return value{}, err
		}
		lv, err := horizon.Compute(n)
		return intValue(lv.L, err)
	},
	"phi": func(args map[string]any) (value, error) {
		m, err := intArg(args, "m")
		if err != nil {
			return value{}, err
		}
		return intValue(horizon.Phi(m))
	},
	"mul": func(args map[string]any) (value, error) {
		xs, err := vectorArgs(args, "x", "y")
		if err != nil {
			return value{}, err
		}
		return vectorValue(octonion.Mul(xs[0], xs[1]))
	},
	"conj": func(args map[string]any) (value, error) {
		xs, err := vectorArgs(args, "x")
		if err != nil {
			return value{}, err
		}
		return vectorValue(octonion.Conj(xs[0]))
	},
	"commutator": func(args map[string]any) (value, error) {
		xs, err := vectorArgs(args, "x", "y")
		if err != nil {
			return value{}, err
		}
		return vectorValue(octonion.Commutator(xs[0], xs[1]))
	},
	"associator": func(args map[string]any) (value, error) {
		xs, err := vectorArgs(args, "x", "y", "z")
		if err != nil {
			return value{}, err
		}
		return vectorValue(octonion.Associator(xs[0], xs[1], xs[2]))
	},
	"squared_norm": func(args map[string]any) (value, error) {
		xs, err := vectorArgs(args, "x")
		if err != nil {
			return value{}, err
		}
		n := octonion.SquaredNorm(xs[0])
		return value{Number: &n}, nil
	},
	"random_unit": func(args map[string]any) (value, error) {
		seed, err := intArg(args, "seed")
		if err != nil {
			return value{}, err
		}
		if seed < 0 {
			return value{}, &ArgError{Name: "seed", Message: "must be non-negative"}
		}
		return vectorValue(octonion.SeededUnit(uint64(seed)))
	},
}

// Operations returns the names of the supported operations, sorted.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func intValue(v int64, err error) (value, error) {
	if err != nil {
		return value{}, err
	}
	return value{Int: &v}, nil
}

func vectorValue(x octonion.Octonion) (value, error) {
	return value{Vector: &x}, nil
}

// intArg reads an integer argument. YAML decodes integers as int and may
// hand integral values over as float64.
func intArg(args map[string]any, name string) (int64, error) {
	raw, ok := args[name]
	if !ok {
		return 0, &ArgError{Name: name, Message: "is required"}
	}
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, &ArgError{Name: name, Message: "overflows int64"}
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
			return 0, &ArgError{Name: name, Message: fmt.Sprintf("%v is not an integer", v)}
		}
		return int64(v), nil
	default:
		return 0, &ArgError{Name: name, Message: fmt.Sprintf("expected integer, got %T", raw)}
	}
}

// vectorArgs reads octonion arguments. A list of the wrong length yields the
// octonion package's dimension-mismatch error, which is an outcome of the
// step rather than a malformed scenario.
func vectorArgs(args map[string]any, names ...string) ([]octonion.Octonion, error) {
	xs := make([]octonion.Octonion, len(names))
	for i, name := range names {
		raw, ok := args[name]
		if !ok {
			return nil, &ArgError{Name: name, Message: "is required"}
		}
		switch v := raw.(type) {
		case string:
			x, err := octonion.Parse(v)
			if err != nil {
				return nil, err
			}
			xs[i] = x
		case []any:
			components := make([]float64, len(v))
			for j, c := range v {
				f, ok := toFloat(c)
				if !ok {
					return nil, &ArgError{Name: name, Message: fmt.Sprintf("component %d: expected number, got %T", j, c)}
				}
				if math.IsNaN(f) || math.IsInf(f, 0) {
					return nil, octonion.NewInvalidArgument(name, fmt.Sprintf("component %d: %v is not finite", j, f))
				}
				components[j] = f
			}
			x, err := octonion.FromSlice(components)
			if err != nil {
				return nil, err
			}
			xs[i] = x
		default:
			return nil, &ArgError{Name: name, Message: fmt.Sprintf("expected octonion, got %T", raw)}
		}
	}
	return xs, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// ErrorCode returns the code of a typed octonion or horizon error, or
// "ERROR" for anything else.
func ErrorCode(err error) string {
	var he *horizon.Error
	if errors.As(err, &he) {
		return string(he.Code)
	}
	var oe *octonion.Error
	if errors.As(err, &oe) {
		return string(oe.Code)
	}
	return "ERROR"
}

// render converts a value into its canonical-JSON-safe form.
func (v value) render() any {
	switch {
	case v.Int != nil:
		return *v.Int
	case v.Bool != nil:
		return *v.Bool
	case v.Number != nil:
		return formatFloat(*v.Number)
	case v.Vector != nil:
		return v.Vector.String()
	default:
		return nil
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// canonicalValue converts a YAML-decoded value into a canonical-JSON-safe
// one. Integral floats become integers and other floats become strings;
// nulls are rejected.
func canonicalValue(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null values are forbidden (canonical JSON does not support null)")
	case string, bool, int64:
		return val, nil
	case int:
		return int64(val), nil
	case float64:
		if val == math.Trunc(val) && math.Abs(val) <= 1<<53 {
			return int64(val), nil
		}
		return formatFloat(val), nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			c, err := canonicalValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		return canonicalArgs(val)
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

func canonicalArgs(args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for key, val := range args {
		c, err := canonicalValue(val)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		out[key] = c
	}
	return out, nil
}
