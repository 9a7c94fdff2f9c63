// Package typeregistry implements the process-wide, swappable type
// registry nodes consult to validate a value before storing it. A type tag
// is a string name resolved to a Validator; nodes constructed with a type
// tag route validation failures to their error channel instead of storing
// the offending value (TypeMismatch, per the engine's error taxonomy).
package typeregistry
