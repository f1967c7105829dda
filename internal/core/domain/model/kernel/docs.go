// Package kernel provides the shared value objects of the domain model:
// UUID identifiers and calendar Dates. Both are immutable and their zero
// values fail validation.
package kernel
