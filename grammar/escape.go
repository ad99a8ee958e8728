package grammar

import (
	"strconv"
	"unicode/utf8"

	"github.com/programmerjake/pegc/diag"
	"github.com/programmerjake/pegc/source"
)

// decodeEscapes decodes the raw text of a String or CharacterClass token
// (the bytes between the delimiters, as captured by the lexer) into a
// sequence of runes, per spec §4.2's "String literal decoding" rules. inClass
// additionally permits the class-only escapes `\]` and `\-`.
//
// base is the source location of text[0], used to place diagnostics at the
// right column within the original grammar file.
func decodeEscapes(h *diag.Handler, base source.Location, text string, inClass bool) []rune {
	var out []rune
	i := 0
	for i < len(text) {
		c := text[i]
		if c != '\\' {
			if c < 0x20 && c != '\t' {
				_ = h.Report(diag.Error, base.Add(i), "bare control character in literal")
			}
			r, size := decodeUTF8At(text, i)
			out = append(out, r)
			i += size
			continue
		}

		start := i
		i++ // consume backslash
		if i >= len(text) {
			_ = h.Report(diag.Error, base.Add(start), "trailing backslash in literal")
			break
		}
		esc := text[i]
		switch {
		case esc == 'f':
			out = append(out, '\f')
			i++
		case esc == 'n':
			out = append(out, '\n')
			i++
		case esc == 'r':
			out = append(out, '\r')
			i++
		case esc == 't':
			out = append(out, '\t')
			i++
		case esc == '\\':
			out = append(out, '\\')
			i++
		case esc == '\'':
			out = append(out, '\'')
			i++
		case esc == '"':
			out = append(out, '"')
			i++
		case inClass && esc == ']':
			out = append(out, ']')
			i++
		case inClass && esc == '-':
			out = append(out, '-')
			i++
		case esc >= '0' && esc <= '9':
			j := i
			for j < len(text) && j < i+3 && text[j] >= '0' && text[j] <= '9' {
				j++
			}
			v, err := strconv.ParseInt(text[i:j], 8, 32)
			if err != nil || v > 0x10FFFF {
				_ = h.Report(diag.Error, base.Add(start), "octal escape out of range")
				v = 0xFFFD
			}
			out = append(out, rune(v))
			i = j
		case esc == 'x':
			i++
			j := i
			for j < len(text) && isHexDigit(text[j]) {
				j++
			}
			if j == i {
				_ = h.Report(diag.Error, base.Add(start), `'\x' escape with no hex digits`)
				break
			}
			v, err := strconv.ParseInt(text[i:j], 16, 64)
			if err != nil || v > 0x10FFFF {
				_ = h.Report(diag.Error, base.Add(start), `'\x' escape out of range`)
				v = 0xFFFD
			}
			out = append(out, rune(v))
			i = j
		case esc == 'u':
			i++
			out = append(out, decodeFixedHexEscape(h, base, text, start, &i, 4))
		case esc == 'U':
			i++
			out = append(out, decodeFixedHexEscape(h, base, text, start, &i, 8))
		default:
			_ = h.Report(diag.Error, base.Add(start), "unrecognized escape sequence '\\%c'", esc)
			out = append(out, rune(esc))
			i++
		}
	}
	return out
}

func decodeFixedHexEscape(h *diag.Handler, base source.Location, text string, start int, i *int, width int) rune {
	j := *i
	for j < len(text) && j < *i+width && isHexDigit(text[j]) {
		j++
	}
	if j-*i != width {
		_ = h.Report(diag.Error, base.Add(start), "escape requires exactly %d hex digits", width)
		*i = j
		return 0xFFFD
	}
	v, err := strconv.ParseInt(text[*i:j], 16, 64)
	*i = j
	if err != nil || v > 0x10FFFF {
		_ = h.Report(diag.Error, base.Add(start), "escape codepoint out of range")
		return 0xFFFD
	}
	return rune(v)
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// decodeUTF8At decodes one rune starting at text[i], returning the rune and
// its byte width. Grammar source files are UTF-8 (spec §6.2), so plain
// unicode/utf8 is the right tool here — unlike the emitted parser's own
// input decoder (emit/utf8.go), which must follow spec §6.3's specific
// overlong/surrogate rejection rules rather than the stdlib's.
func decodeUTF8At(text string, i int) (rune, int) {
	return utf8.DecodeRuneInString(text[i:])
}
