// Package otp implements stateless email one-time passcodes.
//
// A passcode is a 6-digit code drawn from crypto/rand. Instead of storing it,
// the server packs the email, the code and the issue time into a token signed
// with HMAC-SHA256 and hands the token to the client. On verification the
// token is decoded, its tag is checked in constant time, and only then are the
// embedded fields compared with what the user typed and checked against the
// time-to-live.
//
// Token wire format:
//
//	base64url( email "|" code "|" unix_seconds "." hmac_sha256(payload) )
//
// Nothing here keeps state between calls, so all types are safe for
// concurrent use.
package otp
