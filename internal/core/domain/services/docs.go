// Package services provides domain services that span several aggregates.
//
// The package includes:
//   - OrderLifecycle: the role and ownership table deciding who may move an
//     order from one status to the next
//
// Domain services hold no state and perform no I/O.
package services
