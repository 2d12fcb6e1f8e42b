// Package validator validates request structs with go-playground/validator
// and reports failures as a field-to-message map keyed by JSON field name.
package validator
