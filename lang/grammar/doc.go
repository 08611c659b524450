// Package grammar documents the source grammar in EBNF (spec §4.3-4.4),
// mirroring the teacher's self-checked grammar_test.go
// (github.com/mna/nenuphar lang/grammar): grammar.ebnf is parsed and
// verified at test time with golang.org/x/exp/ebnf so the documentation
// cannot silently drift from a well-formed grammar (undefined
// productions, unreachable rules). It is not consulted by the compiler,
// which is hand-written in package compiler.
package grammar
