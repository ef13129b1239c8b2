/*
Package domain contains the core types shared by the jsonpattern matcher and its adapters.

It defines what an evaluation produces and how failures are classified. This package is
kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Violation: One soft failure found in a document (missing field or malformed value).
  - Report: The outcome of one evaluation (all violations, in schema order).
  - EvaluationHooks: Callbacks used by observability layers.
  - Sentinel errors: Hard configuration failures, distinct from violations.
*/
package domain
