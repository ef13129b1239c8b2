// Package cli wires configuration into the registry, stores and catalog used
// by the jsonpattern commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/jsonpattern/internal/config"
	"github.com/aretw0/jsonpattern/pkg/rules"
)

// BuildRegistry returns the built-in registry extended with the configured rules.
// Later rules overwrite earlier ones, including built-ins.
func BuildRegistry(defs []config.RuleConfig) (*rules.Registry, error) {
	reg := rules.New()
	for _, def := range defs {
		rule, err := ruleFor(def)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", def.Name, err)
		}
		if err := reg.Register(def.Name, rule); err != nil {
			return nil, fmt.Errorf("rule %q: %w", def.Name, err)
		}
	}
	return reg, nil
}

func ruleFor(def config.RuleConfig) (rules.Rule, error) {
	switch {
	case def.Pattern != "":
		return rules.Pattern(def.Pattern)
	case def.Expression != "":
		return rules.Expression(def.Expression)
	}

	switch def.Builtin {
	case "cuit":
		return rules.Func(rules.ValidCUIT).Described("builtin:cuit"), nil
	case "cbu":
		return rules.Func(rules.ValidCBU).Described("builtin:cbu"), nil
	case "date":
		return rules.Func(rules.DateLayout(def.Layout)).Described("builtin:date " + def.Layout), nil
	case "greater_than":
		// greater_than_<n> names carry their own threshold.
		if strings.HasPrefix(def.Name, rules.GreaterThanPrefix) {
			return rules.Func(rules.GreaterThanFromName).Described("builtin:greater_than"), nil
		}
		return rules.Func(rules.GreaterThan(def.Threshold)).Described(fmt.Sprintf("builtin:greater_than %g", def.Threshold)), nil
	default:
		return rules.Rule{}, fmt.Errorf("unknown builtin %q", def.Builtin)
	}
}
