package recipe

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"bmpedit/bitmap"

	"github.com/Knetic/govaluate"
)

// Variables an expression may refer to.
var exprVars = []string{"width", "height"}

// exprFunctions are usable in step expressions next to the arithmetic
// operators.
var exprFunctions = map[string]govaluate.ExpressionFunction{
	"min": func(args ...interface{}) (interface{}, error) {
		return fold("min", math.Min, args)
	},
	"max": func(args ...interface{}) (interface{}, error) {
		return fold("max", math.Max, args)
	},
	"round": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("round expects 1 argument, got %d", len(args))
		}
		v, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("round expects a number, got %v", args[0])
		}
		return math.Round(v), nil
	},
}

func fold(name string, f func(a, b float64) float64, args []interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s expects at least 1 argument", name)
	}
	var acc float64
	for i, a := range args {
		v, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("arg %d of %s must be numeric, got %v", i+1, name, a)
		}
		if i == 0 {
			acc = v
			continue
		}
		acc = f(acc, v)
	}
	return acc, nil
}

// expr is an arithmetic expression over the size of the image a step is
// applied to, such as "width / 2" or "min(width, height)".
type expr struct {
	src  string
	eval *govaluate.EvaluableExpression
}

// compileExpr parses s. An empty s yields a nil expr, meaning "not set".
func compileExpr(s string) (*expr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	e, err := govaluate.NewEvaluableExpressionWithFunctions(s, exprFunctions)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", s, err)
	}
	for _, v := range e.Vars() {
		if !slices.Contains(exprVars, v) {
			return nil, fmt.Errorf("unknown variable %q in expression %q", v, s)
		}
	}
	return &expr{src: s, eval: e}, nil
}

// Float evaluates e against img.
func (e *expr) Float(img *bitmap.Image) (float64, error) {
	res, err := e.eval.Evaluate(map[string]interface{}{
		"width":  img.Width(),
		"height": img.Height(),
	})
	if err != nil {
		return 0, fmt.Errorf("could not evaluate %q: %w", e.src, err)
	}
	v, ok := res.(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("expression %q is not a number: %v", e.src, res)
	}
	return v, nil
}

// Int evaluates e and rounds to the nearest integer.
func (e *expr) Int(img *bitmap.Image) (int, error) {
	v, err := e.Float(img)
	if err != nil {
		return 0, err
	}
	if math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("expression %q out of range: %v", e.src, v)
	}
	return int(math.Round(v)), nil
}

// intOr evaluates e, or returns def when e is not set.
func (e *expr) intOr(img *bitmap.Image, def int) (int, error) {
	if e == nil {
		return def, nil
	}
	return e.Int(img)
}
