// Package mail sends plain-text email over SMTP.
//
// Callers depend on the Mail interface; SMTP is the only implementation.
package mail
