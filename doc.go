/*
Package jsonpattern validates JSON-like documents against declarative schemas and reports
every violation it finds, instead of stopping at the first one.

# Concept

A schema is a tree of field names. Each field maps either to the name of a datatype rule
("number", "email", ...) or to a nested schema. A field name prefixed with "!" is required.

	{
	  "!amount": "number",
	  "currency": "ISO3166",
	  "!payer": {
	    "!email": "email"
	  }
	}

Datatype rules live in a Registry (package rules). A rule is either a regular expression,
searched anywhere in the textual form of the value, or a Go predicate. The registry is
seeded with the built-in rules and can be extended at any time; new rules apply from the
next evaluation on.

Matching walks the schema and the document in lockstep. A required field that is absent
or null yields "<path> not found". A present field rejected by its rule yields
"<path> is not well formatted". Paths are dotted from the document root
("payer.email"). Nested fields of a present branch are reported individually; the
branch itself adds no error. An absent optional branch is matched as an empty object,
so its required fields are reported unless WithSkipAbsentBranches is set.

A schema referencing a datatype that the registry does not know is a configuration
error: Evaluate returns domain.ErrUnknownDatatype and no violation is recorded.

# Usage

	m, err := jsonpattern.New(`{"!numeric": "number", "!text": "string"}`)
	if err != nil {
		log.Fatal(err)
	}

	if err := m.Evaluate(`{"text": "text"}`); err != nil {
		log.Fatal(err)
	}

	fmt.Println(m.OK())     // false
	fmt.Println(m.Errors()) // [numeric not found]

Custom rules are registered on the matcher's registry:

	m.Register("greater_than_10", rules.Func(rules.GreaterThan(10)))

For services that keep many named schemas, see package catalog and the adapters under
pkg/adapters.
*/
package jsonpattern
