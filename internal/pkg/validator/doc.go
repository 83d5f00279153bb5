// Package validator wraps struct validation behind a small interface so use
// cases can be tested with a real validator and inbound layers stay free of
// tag-handling code.
package validator
