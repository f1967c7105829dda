// Package order provides the Order aggregate root of the bakery distribution
// workflow and its lifecycle state machine.
//
// The package includes:
//   - Order: route, salesman, date, item lines and lifecycle status
//   - Item: one ordered product line with a positive quantity
//   - Status: forward-only state machine CREATED -> DISPATCHED -> ACKNOWLEDGED ->
//     VERIFIED | FLAGGED, and VERIFIED -> INVOICED
//
// Key business rules:
//   - Transitions never skip a status and never go backwards
//   - INVOICED and FLAGGED are terminal and lock the order
//   - Items can only be replaced while the order is CREATED and unlocked
//
// Who may trigger each transition is decided by services.OrderLifecycle, not here.
package order
