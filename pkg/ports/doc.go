/*
Package ports defines the driven ports (interfaces) for jsonpattern services.

These interfaces decouple the matching core from storage and transport, so the same
catalog can be served over HTTP, MCP or AMQP and backed by memory, files or Redis.

# Key Interfaces

  - SchemaStore: persists named schemas.
  - Validator: evaluates documents against named or inline schemas.
  - RuleLister: lists the datatype rules available to a validator.
*/
package ports
