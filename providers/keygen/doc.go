// Package keygen supplies the default node Key generator and a
// context-scoped override mechanism, so tests and embedding applications
// can substitute deterministic keys without touching node construction
// call sites.
package keygen
