package grammar

import (
	"github.com/programmerjake/pegc/ast"
	"github.com/programmerjake/pegc/diag"
	"github.com/programmerjake/pegc/internal/ranges"
	"github.com/programmerjake/pegc/source"
	"github.com/programmerjake/pegc/token"
)

// characterClass decodes a CharacterClass token's raw text (the bytes
// between the `[` `]` delimiters, as captured by the lexer) into an
// *ast.CharacterClass, per spec §4.2's "Character-class decoding":
// an optional leading `^` inverts the class, then a sequence of single
// characters or `c1-c2` ranges follows; a trailing `-` with no upper bound
// decodes as itself. Empty or decreasing ranges, and overlapping ranges,
// are fatal.
//
// Decoding is done here, rather than by reusing decodeEscapes wholesale,
// because range syntax (`c1-c2`) needs to tell a literal, unescaped '-'
// apart from one reached via an escape — the two single-character decoders
// below (classItem) share decodeEscapes' escape table but walk one item at
// a time so the caller can look ahead for a literal '-'.
func (p *Parser) characterClass(loc source.Location, tok token.Token, bind string) ast.Expr {
	text := tok.Text
	inverted := false
	if len(text) > 0 && text[0] == '^' {
		inverted = true
		text = text[1:]
	}

	var set ranges.Set
	i := 0
	for i < len(text) {
		min, minConsumed := classItem(p.diag, tok.Loc, text, i)
		i += minConsumed

		if i < len(text) && text[i] == '-' && i+1 < len(text) {
			max, maxConsumed := classItem(p.diag, tok.Loc, text, i+1)
			i += 1 + maxConsumed
			if max < min {
				_ = p.diag.Report(diag.FatalError, tok.Loc, "decreasing character range in character class")
				return &ast.CharacterClass{Base: ast.NewBase(loc), Inverted: inverted, Bind: bind}
			}
			if _, overlap := set.Add(min, max); overlap {
				_ = p.diag.Report(diag.FatalError, tok.Loc, "overlapping character ranges in character class")
				return &ast.CharacterClass{Base: ast.NewBase(loc), Inverted: inverted, Bind: bind}
			}
			continue
		}

		if _, overlap := set.Add(min, min); overlap {
			_ = p.diag.Report(diag.FatalError, tok.Loc, "overlapping character ranges in character class")
			return &ast.CharacterClass{Base: ast.NewBase(loc), Inverted: inverted, Bind: bind}
		}
	}

	var astRanges []ast.Range
	for r := range set.Ranges() {
		astRanges = append(astRanges, ast.Range{Min: r.Min, Max: r.Max})
	}
	return &ast.CharacterClass{Base: ast.NewBase(loc), Ranges: astRanges, Inverted: inverted, Bind: bind}
}

// classItem decodes exactly one character-class item (a bare rune, or a
// `\...` escape, using the same escape table as decodeEscapes plus the
// class-only `\]`/`\-` escapes) starting at text[i], returning the decoded
// rune and the number of bytes consumed.
func classItem(h *diag.Handler, base source.Location, text string, i int) (rune, int) {
	runes := decodeEscapes(h, base.Add(i), nextItemSpan(text, i), true)
	consumed := len(nextItemSpan(text, i))
	if len(runes) == 0 {
		return 0xFFFD, consumed
	}
	return runes[0], consumed
}

// nextItemSpan returns the substring of text, starting at i, that
// constitutes exactly one escape or literal-rune item: either the two bytes
// of `\` plus its following byte-or-hex-digit-run, or one UTF-8-encoded
// rune.
func nextItemSpan(text string, i int) string {
	if i >= len(text) {
		return ""
	}
	if text[i] != '\\' {
		_, size := decodeUTF8At(text, i)
		return text[i : i+size]
	}
	j := i + 1
	if j >= len(text) {
		return text[i:j]
	}
	switch c := text[j]; {
	case c == 'x':
		j++
		for j < len(text) && isHexDigit(text[j]) {
			j++
		}
	case c == 'u':
		j++
		for k := 0; k < 4 && j < len(text) && isHexDigit(text[j]); k++ {
			j++
		}
	case c == 'U':
		j++
		for k := 0; k < 8 && j < len(text) && isHexDigit(text[j]); k++ {
			j++
		}
	case c >= '0' && c <= '9':
		j++
		for k := 0; k < 2 && j < len(text) && text[j] >= '0' && text[j] <= '9'; k++ {
			j++
		}
	default:
		j++
	}
	return text[i:j]
}
