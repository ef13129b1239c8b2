// Package catalog provides named-schema storage and validation on top of a SchemaStore.
//
// The catalog is the application service shared by the HTTP, MCP and AMQP adapters.
package catalog
