/*
Package dsl builds schemas in Go code instead of JSON or YAML text.

Entries keep the order in which they are added, so the resulting schema
reports violations in that order:

	node, err := dsl.New().
		Required("amount", "number").
		Required("currency", "ISO3166").
		Object("payer", true, func(p *dsl.Builder) {
			p.Required("email", "email").
				Optional("name", "string")
		}).
		Build()
*/
package dsl
