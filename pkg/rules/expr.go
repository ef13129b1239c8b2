package rules

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Expression compiles a boolean expr-lang expression into a predicate rule.
// The expression sees two variables: value (the raw field value, with JSON numbers
// converted to int or float) and datatype (the name being validated).
//
//	float(value) > 10
//	len(value) == 11 && datatype == "cuit"
//
// An expression failing at runtime (e.g. float("abc")) rejects the value.
func Expression(src string) (Rule, error) {
	program, err := expr.Compile(src,
		expr.Env(map[string]any{"value": nil, "datatype": ""}),
		expr.AsBool(),
	)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: expression %q: %v", domain.ErrInvalidRule, src, err)
	}

	return Func(evalProgram(program)).Described(src), nil
}

func evalProgram(program *vm.Program) Predicate {
	return func(value any, datatype string) bool {
		out, err := expr.Run(program, map[string]any{
			"value":    exprValue(value),
			"datatype": datatype,
		})
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}
}

// exprValue unwraps json.Number so arithmetic and comparisons work on documents
// decoded with UseNumber.
func exprValue(value any) any {
	n, ok := value.(json.Number)
	if !ok {
		return value
	}
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
