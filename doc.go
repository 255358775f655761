// Package soup provides an engine for Soup, a small guarded-action
// specification language.
//
// A Soup declares variables with initial values and a collection of
// pieces, each a guard expression and an effect statement.  Together
// the pieces form a nondeterministic transition relation.  The core
// code is in package 'core', the syntax in 'syntax', and some
// command-line tools are in `cmd`.
package soup
