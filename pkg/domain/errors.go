package domain

import "errors"

// ErrNoSchema is returned when a document is evaluated before any schema was set.
var ErrNoSchema = errors.New("no schema set")

// ErrSchemaFormat is returned when a schema cannot be parsed or is not object-shaped.
var ErrSchemaFormat = errors.New("invalid schema")

// ErrSchemaTooDeep is returned when a schema nests deeper than the configured limit.
var ErrSchemaTooDeep = errors.New("schema exceeds maximum depth")

// ErrDocumentFormat is returned when a document cannot be parsed or is not object-shaped.
var ErrDocumentFormat = errors.New("invalid document")

// ErrUnknownDatatype is returned when a schema references a datatype missing from the registry.
// It signals a configuration defect, never a property of the document.
var ErrUnknownDatatype = errors.New("unknown datatype")

// ErrInvalidRule is returned when a rule registration is rejected.
var ErrInvalidRule = errors.New("invalid rule")

// ErrSchemaNotFound is returned when a named schema cannot be found in a store.
var ErrSchemaNotFound = errors.New("schema not found")

// IsConfigurationError reports whether err is one of the hard failures that stop an
// evaluation before any violation is recorded.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoSchema) ||
		errors.Is(err, ErrSchemaFormat) ||
		errors.Is(err, ErrSchemaTooDeep) ||
		errors.Is(err, ErrUnknownDatatype)
}
