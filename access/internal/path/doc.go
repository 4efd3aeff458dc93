// Package path lexes and parses access paths.
//
// Grammar:
//
//	Path       ::= Segment*
//	Segment    ::= '.' Identifier | '[' ']'
//	Identifier ::= maximal run of bytes other than '.' and '['
//
// ".name" becomes a Field element and "[]" an Index element. There is no escaping.
//
// This package is internal to access.
package path
