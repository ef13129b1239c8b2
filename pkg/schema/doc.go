// Package schema parses pattern schemas into an explicit tree.
//
// A schema is an object mapping pattern keys to pattern values. A key prefixed with
// "!" is required; the marker is stripped to obtain the field name. A value is either
// a datatype name, resolved against a rules.Registry at evaluation time, or a nested
// object, matched recursively:
//
//	{
//	    "!version": "number",
//	    "!email": "email",
//	    "!data": {
//	        "!Id": "number",
//	        "title": "string"
//	    }
//	}
//
// Parsing happens once: every Entry carries its Required flag and its Kind (Leaf or
// Nested), so evaluation never re-inspects keys or value types.
//
// Schemas can be authored as JSON or YAML; both parsers keep the authoring order of
// keys, which is the order violations are reported in. Schemas built from Go maps,
// which carry no order, are sorted by key.
package schema
