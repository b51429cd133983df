// Package query compiles the search-box tag language into a storage
// predicate: an ordered sequence of set operations plus the tag
// literals they reference, in left-to-right encounter order.
//
// The language is infix: whitespace intersects, '|' unions, a leading
// '-' subtracts, and double quotes delimit a single literal tag that
// may contain otherwise-special characters. Compilation never guesses:
// input that matches no token is a ParseError carrying the offending
// offset.
package query
