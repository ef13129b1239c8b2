package rules

// Built-in datatype names.
const (
	String  = "string"
	Email   = "email"
	Numeric = "number"
	Country = "ISO3166"
	Date    = "date"
	CUIT    = "cuit"
	CBU     = "cbu"
)

// builtinPatterns are kept byte-for-byte compatible with existing schemas.
// date, cuit and cbu only require a non-empty value until real rules are registered.
var builtinPatterns = map[string]string{
	String:  `(.)+`,
	Email:   `(^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$)`,
	Numeric: `[-+]?[0-9]+(\.[0-9]+)?$`,
	Country: `^([A-Z]{0,2})$`,
	Date:    `(.)+`,
	CUIT:    `(.)+`,
	CBU:     `(.)+`,
}

func builtins() map[string]Rule {
	out := make(map[string]Rule, len(builtinPatterns))
	for name, expr := range builtinPatterns {
		out[name] = MustPattern(expr)
	}
	return out
}
