// Package staff models the people using the system: their closed set of
// roles and the profile linking an identity to a role and a route.
package staff
