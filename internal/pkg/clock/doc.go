// Package clock abstracts the wall clock.
//
// Token issue and verification read the current time through Clocker so the
// expiry window can be driven deterministically in tests.
package clock
