// Package clock abstracts the system clock behind a tiny interface.
//
// Expiry checks in the reset flow must be deterministic under test, so
// anything comparing against "now" takes a Clocker instead of calling
// time.Now directly.
package clock
