package emit

import (
	"fmt"
	"strings"

	"github.com/programmerjake/pegc/ast"
)

// namedClassifier is one of the common character classes the original
// classifier recognizes by its exact range set, so a CharacterClass failure
// can name the class ("decimal digit") instead of spelling out every
// character it rejected.
type namedClassifier struct {
	name   string
	ranges []ast.Range
}

// classifiers lists the common range sets recognized by
// getCharacterClassMatchFailMessage in order of priority — the first exact
// match wins, mirroring the original's if/else-if chain.
var classifiers = []namedClassifier{
	{"decimal digit", []ast.Range{{Min: '0', Max: '9'}}},
	{"octal digit", []ast.Range{{Min: '0', Max: '7'}}},
	{"hexadecimal digit", []ast.Range{{Min: '0', Max: '9'}, {Min: 'A', Max: 'F'}, {Min: 'a', Max: 'f'}}},
	{"lowercase hexadecimal digit", []ast.Range{{Min: '0', Max: '9'}, {Min: 'a', Max: 'f'}}},
	{"uppercase hexadecimal digit", []ast.Range{{Min: '0', Max: '9'}, {Min: 'A', Max: 'F'}}},
	{"letter", []ast.Range{{Min: 'A', Max: 'Z'}, {Min: 'a', Max: 'z'}}},
	{"lowercase letter", []ast.Range{{Min: 'a', Max: 'z'}}},
	{"uppercase letter", []ast.Range{{Min: 'A', Max: 'Z'}}},
	{"letter or digit", []ast.Range{{Min: '0', Max: '9'}, {Min: 'A', Max: 'Z'}, {Min: 'a', Max: 'z'}}},
	{"uppercase letter or _", []ast.Range{{Min: '_', Max: '_'}, {Min: 'A', Max: 'Z'}}},
	{"lowercase letter or _", []ast.Range{{Min: '_', Max: '_'}, {Min: 'a', Max: 'z'}}},
	{"letter or _", []ast.Range{{Min: '_', Max: '_'}, {Min: 'A', Max: 'Z'}, {Min: 'a', Max: 'z'}}},
	{"digit or _", []ast.Range{{Min: '0', Max: '9'}, {Min: '_', Max: '_'}}},
	{"letter, digit, or _", []ast.Range{{Min: '0', Max: '9'}, {Min: '_', Max: '_'}, {Min: 'A', Max: 'Z'}, {Min: 'a', Max: 'z'}}},
	{"uppercase letter, $, or _", []ast.Range{{Min: '$', Max: '$'}, {Min: '_', Max: '_'}, {Min: 'A', Max: 'Z'}}},
	{"lowercase letter, $, or _", []ast.Range{{Min: '$', Max: '$'}, {Min: '_', Max: '_'}, {Min: 'a', Max: 'z'}}},
	{"letter, $, or _", []ast.Range{{Min: '$', Max: '$'}, {Min: '_', Max: '_'}, {Min: 'A', Max: 'Z'}, {Min: 'a', Max: 'z'}}},
	{"letter, digit, $, or _", []ast.Range{{Min: '$', Max: '$'}, {Min: '0', Max: '9'}, {Min: '_', Max: '_'}, {Min: 'A', Max: 'Z'}, {Min: 'a', Max: 'z'}}},
	{"digit, $, or _", []ast.Range{{Min: '$', Max: '$'}, {Min: '0', Max: '9'}, {Min: '_', Max: '_'}}},
	{"space or tab", []ast.Range{{Min: '\t', Max: '\t'}, {Min: ' ', Max: ' '}}},
	{"space, tab, or line ending", []ast.Range{{Min: '\t', Max: '\n'}, {Min: '\r', Max: '\r'}, {Min: ' ', Max: ' '}}},
	{"line ending", []ast.Range{{Min: '\n', Max: '\n'}, {Min: '\r', Max: '\r'}}},
}

// characterClassFailMessage builds a class-specific failure message for n,
// grounded on getCharacterClassMatchFailMessage
// (_examples/original_source/src/code_generator.cpp): "missing " (unless
// inverted) followed by a recognized class name, or a character listing for
// small/ad hoc classes, followed by " not allowed here" when inverted.
func characterClassFailMessage(n *ast.CharacterClass) string {
	var b strings.Builder
	if !n.Inverted {
		b.WriteString("missing ")
	}

	if name, ok := matchClassifier(n.Ranges); ok {
		b.WriteString(name)
	} else {
		b.WriteString(describeRanges(n.Ranges))
	}

	if n.Inverted {
		b.WriteString(" not allowed here")
	}
	return b.String()
}

func matchClassifier(ranges []ast.Range) (string, bool) {
	for _, c := range classifiers {
		if rangesEqual(ranges, c.ranges) {
			return c.name, true
		}
	}
	return "", false
}

func rangesEqual(a, b []ast.Range) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// describeRanges falls back to spelling out ranges.Ranges directly when no
// named classifier matches: by name for up to five individual characters
// (matching getCharName's handling of control/non-printable characters), or
// a bracket-expression rendering otherwise.
func describeRanges(ranges []ast.Range) string {
	const maxNamed = 5
	var chars []rune
	for _, rg := range ranges {
		for r := rg.Min; r <= rg.Max; r++ {
			chars = append(chars, r)
			if len(chars) > maxNamed {
				break
			}
		}
		if len(chars) > maxNamed {
			break
		}
	}

	if len(chars) <= maxNamed {
		switch len(chars) {
		case 1:
			return charName(chars[0])
		case 2:
			return charName(chars[0]) + " or " + charName(chars[1])
		default:
			var parts []string
			for i, r := range chars {
				name := charName(r)
				if i == len(chars)-1 {
					name = "or " + name
				}
				parts = append(parts, name)
			}
			return strings.Join(parts, ", ")
		}
	}

	var b strings.Builder
	b.WriteByte('[')
	for _, rg := range ranges {
		b.WriteString(escapeForCharClass(rg.Min))
		if rg.Min != rg.Max {
			b.WriteByte('-')
			b.WriteString(escapeForCharClass(rg.Max))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// charName renders one rune the way a human would name it in a diagnostic,
// grounded on getCharName: a few control characters get a spelled-out name,
// other non-printable runes become "character with code N (0xHEX)", anything
// else is the character itself.
func charName(r rune) string {
	switch r {
	case '\n':
		return `end of line ('\n')`
	case '\r':
		return `end of line ('\r')`
	case '\t':
		return `tab (\t)`
	case ' ':
		return "space (' ')"
	default:
		if r <= 0x20 || r >= 0x7F {
			return fmt.Sprintf("character with code %d (0x%X)", r, r)
		}
		return string(r)
	}
}

// escapeForCharClass escapes a rune for display inside a bracket expression,
// grounded on escapeCharForCharacterClass.
func escapeForCharClass(r rune) string {
	switch r {
	case '-', '^', ']', '\\':
		return "\\" + string(r)
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	default:
		return string(r)
	}
}
