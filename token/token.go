package token

import "github.com/programmerjake/pegc/source"

// Token is a single lexed unit of the grammar file: a location, a kind, its
// raw text (decoding of string/character-class escapes happens later, during
// AST construction), and — for CodeSnippet tokens only — the ordered list of
// `$`-substitution markers found inside it.
type Token struct {
	Loc           source.Location
	Kind          Kind
	Text          string
	Substitutions []Substitution
}

// String satisfies fmt.Stringer for debug printing.
func (t Token) String() string {
	if t.Text != "" {
		return t.Text
	}
	return t.Kind.String()
}
