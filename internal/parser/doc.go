// Package parser turns query text into queryir statements.
//
// Lexing is a single pass over bytes producing Tokens with offsets.
// Parsing is recursive descent that feeds a queryir.Builder, so parsed
// and programmatically built statements go through identical validation.
//
// Function calls are resolved through a FunctionLookup while parsing.
// A call whose arguments are all literals is validated on the spot and
// a rejection aborts the parse with the function's violation messages.
//
// Keywords are case-insensitive. Table and column names are
// case-sensitive and every column reference must be table-qualified.
package parser
