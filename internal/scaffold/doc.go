// Package scaffold turns a freshly cloned boilerplate into a named project by
// replacing literal placeholder tokens across the tree. Each substitution is a
// full pass over the tree and the passes run strictly one after another, so a
// value inserted by one pass can be rewritten by a later one but never the
// other way round.
package scaffold
