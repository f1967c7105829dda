// Package delivery models what the factory sends against an order and the
// one-per-delivery records that follow it: the salesman's Acknowledgement and
// the accountant's Verification.
//
// Delivery lines keep both ordered and delivered quantities. Their variance
// (delivered minus ordered) is information for the accountant, never a
// validation failure.
package delivery
