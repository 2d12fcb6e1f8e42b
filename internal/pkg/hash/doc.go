// Package hash provides keyed message authentication helpers.
//
// The HMAC-SHA256 signer is used to tag self-contained tokens so that a server
// can later prove it issued them without keeping any state. Keys are loaded
// once at startup and never change for the lifetime of a signer.
package hash
