package query

import (
	"fmt"
	"regexp"
)

// Op is a single step of a compiled predicate.
type Op int

const (
	// OpUniversal matches every stored file. Synthesized as the base
	// clause when a subtraction has nothing preceding it to subtract
	// from, so that "-tag" means "everything except tag".
	OpUniversal Op = iota
	// OpOr unions the next match clause into the current clause.
	OpOr
	// OpNot subtracts everything matched by the following clause.
	OpNot
	// OpAnd intersects with the following clause.
	OpAnd
	// OpMatchTag matches files carrying the next tag in Tags.
	OpMatchTag
)

func (op Op) String() string {
	switch op {
	case OpUniversal:
		return "UNIVERSAL"
	case OpOr:
		return "OR"
	case OpNot:
		return "EXCEPT"
	case OpAnd:
		return "INTERSECT"
	case OpMatchTag:
		return "MATCH"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// Compiled is the result of compiling a search string: the op sequence
// and the tag literals referenced by the OpMatchTag steps, in the order
// they were encountered. An empty Ops slice matches every file.
// Compiled values are immutable after compilation and never persisted.
type Compiled struct {
	Ops  []Op
	Tags []string
}

// MatchesAll reports whether the predicate places no constraint at all.
func (c *Compiled) MatchesAll() bool {
	return len(c.Ops) == 0
}

// ParseError reports input that matches no token of the language.
// It is user-correctable and safe to surface to clients verbatim.
type ParseError struct {
	Query  string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid search query: unexpected character at offset %d", e.Offset)
}

// Token patterns, tried in fixed priority order at each position; the
// first pattern matching at the current offset wins. Order matters:
// '-' and '|' are both inside the bare-tag character class, so the
// operator patterns must be tried first.
type tokenKind int

const (
	tokOr tokenKind = iota
	tokNot
	tokAnd
	tokBareTag
	tokQuotedTag
)

var patterns = []struct {
	kind tokenKind
	re   *regexp.Regexp
}{
	{tokOr, regexp.MustCompile(`^(?: +)?\|(?: +)?`)},
	{tokNot, regexp.MustCompile(`^(?: +)?-(?: +)?`)},
	{tokAnd, regexp.MustCompile(`^ +`)},
	{tokBareTag, regexp.MustCompile(`^[a-zA-Z_0-9:;&*()-]+`)},
	{tokQuotedTag, regexp.MustCompile(`^"[^"]*"`)},
}

// Compiler turns search strings into predicates. A non-empty Forced
// filter is space-prepended to every user query before compilation, so
// results are always implicitly narrowed by it.
type Compiler struct {
	Forced string
}

// Compile scans the search string left to right and folds it into a
// Compiled predicate. An empty effective query compiles to match-all
// with zero parameters.
func (c *Compiler) Compile(search string) (*Compiled, error) {
	if c.Forced != "" {
		if search == "" {
			search = c.Forced
		} else {
			search = c.Forced + " " + search
		}
	}

	compiled := &Compiled{}
	if search == "" {
		return compiled, nil
	}

	index := 0
	for index < len(search) {
		rest := search[index:]

		matched := false
		for _, p := range patterns {
			loc := p.re.FindStringIndex(rest)
			if loc == nil {
				continue
			}
			matched = true
			text := rest[:loc[1]]
			index += loc[1]

			switch p.kind {
			case tokOr:
				compiled.Ops = append(compiled.Ops, OpOr)
			case tokNot:
				if len(compiled.Tags) == 0 {
					compiled.Ops = append(compiled.Ops, OpUniversal)
				}
				compiled.Ops = append(compiled.Ops, OpNot)
			case tokAnd:
				compiled.Ops = append(compiled.Ops, OpAnd)
			case tokBareTag:
				compiled.Ops = append(compiled.Ops, OpMatchTag)
				compiled.Tags = append(compiled.Tags, text)
			case tokQuotedTag:
				compiled.Ops = append(compiled.Ops, OpMatchTag)
				compiled.Tags = append(compiled.Tags, text[1:len(text)-1])
			}
			break
		}

		if !matched {
			return nil, &ParseError{Query: search, Offset: index}
		}
	}

	return compiled, nil
}
