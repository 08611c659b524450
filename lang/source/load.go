// Package source implements the lexer and multi-file includer (spec §4.1):
// it resolves a root source file through a Reader, expands textual
// "#include" directives, detects cyclic includes, and tokenizes each line
// into a flat stream of token.Token carrying (file, line, column).
package source

import (
	"strings"

	"github.com/boolstack/boolstack/lang/diag"
	"github.com/boolstack/boolstack/lang/token"
)

const includeDirective = "#include"

// loader carries the state of one Load call: the active include chain (for
// cycle detection), the reader, and the accumulated token stream and
// diagnostics.
type loader struct {
	r      Reader
	chain  []string
	seen   map[string]bool
	tokens []token.Token
	errs   diag.ErrorList
}

// Load reads root through r, recursively expanding "#include" directives,
// and returns the flattened token stream. Included files are spliced in
// place of their directive line. If any IncludeBadName or IncludeCycle
// diagnostics are produced, the offending include is skipped (its line
// contributes no tokens) but loading continues, so that independent
// problems across a build are reported together (spec §4.1, §7).
func Load(root string, r Reader) ([]token.Token, error) {
	l := &loader{r: r, seen: map[string]bool{}}
	l.loadFile(root)
	return l.tokens, l.errs.Err()
}

func (l *loader) loadFile(name string) {
	if l.seen[name] {
		// Reported against the including line by the caller; a bare call from
		// Load itself (the root file) cannot be cyclic.
		return
	}
	l.seen[name] = true
	l.chain = append(l.chain, name)
	defer func() {
		l.chain = l.chain[:len(l.chain)-1]
		delete(l.seen, name)
	}()

	data, err := l.r.ReadSource(name)
	if err != nil {
		l.errs.Add(diag.KindUnexpectedEOF, diag.Position{File: name}, "", err.Error())
		return
	}

	lines := strings.Split(string(data), "\n")
	for i, raw := range lines {
		lineNo := i + 1
		raw = strings.TrimRight(raw, " \t\r")
		l.processLine(name, lineNo, raw)
	}
}

func (l *loader) processLine(file string, lineNo int, raw string) {
	if idx := strings.Index(raw, "//"); idx >= 0 {
		raw = raw[:idx]
	}

	trimmed := strings.TrimLeft(raw, " \t")
	if strings.HasPrefix(trimmed, includeDirective) {
		l.processInclude(file, lineNo, raw, trimmed)
		return
	}

	for _, tok := range tokenizeLine(file, lineNo, raw) {
		l.tokens = append(l.tokens, tok)
	}
}

func (l *loader) processInclude(file string, lineNo int, raw, trimmed string) {
	col := strings.Index(raw, includeDirective) + 1
	pos := diag.Position{File: file, Line: lineNo, Col: col}

	rest := strings.TrimSpace(trimmed[len(includeDirective):])
	if rest == "" || strings.ContainsAny(rest, "/\\") {
		l.errs.Add(diag.KindIncludeBadName, pos, rest, "include file name must be a bare name with no path separator")
		return
	}
	if l.seen[rest] {
		l.errs.Add(diag.KindIncludeCycle, pos, rest, "include cycle detected: "+strings.Join(append(append([]string{}, l.chain...), rest), " -> "))
		return
	}
	l.loadFile(rest)
}

// tokenizeLine splits a single already comment-stripped, trailing-whitespace
// trimmed line into tokens, inserting implicit whitespace around '.', '{'
// and '}' first (spec §4.1 step 3), then recovering each token's column
// against the original line text by searching left-to-right from a moving
// cursor, so that diagnostics point at true source columns even though
// tokenization rewrote the line.
func tokenizeLine(file string, lineNo int, raw string) []token.Token {
	var b strings.Builder
	b.Grow(len(raw) + 8)
	for _, r := range raw {
		switch r {
		case '.', '{', '}':
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}

	pieces := strings.Fields(b.String())
	if len(pieces) == 0 {
		return nil
	}

	toks := make([]token.Token, 0, len(pieces))
	cursor := 0
	for _, piece := range pieces {
		idx := strings.Index(raw[cursor:], piece)
		col := cursor + 1
		if idx >= 0 {
			col = cursor + idx + 1
			cursor = cursor + idx + len(piece)
		}
		toks = append(toks, token.Token{
			Pos:  token.Position{File: file, Line: lineNo, Col: col},
			Text: piece,
		})
	}
	return toks
}
