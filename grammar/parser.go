// Package grammar implements the grammar-file parser (spec §4.2): it
// consumes the token.Lexer's stream and builds an *ast.Grammar, decoding
// string/character-class escapes and binding suffixes along the way.
package grammar

import (
	"strings"

	"github.com/programmerjake/pegc/ast"
	"github.com/programmerjake/pegc/diag"
	"github.com/programmerjake/pegc/source"
	"github.com/programmerjake/pegc/token"
)

// reservedBindName is pre-seeded into every rule's binding-name set, per
// spec §4.2's "`$$` is reserved".
const reservedBindName = "$$"

// Parser builds an ast.Grammar from one grammar Source, per the EBNF in
// spec §4.2.
type Parser struct {
	lexer *token.Lexer
	diag  *diag.Handler
	src   *source.Source

	cur token.Token

	g *ast.Grammar

	// binds is the current rule's binding-name set, cleared at the start of
	// each rule (spec §4.2's "the bag is cleared between rules").
	binds map[string]bool
	// codeAllowed is false while parsing the subtree of a NotFollowedBy
	// predicate (spec §4.2's "negative-predicate sub-parsing").
	codeAllowed bool
}

// NewParser creates a Parser reading src's tokens, reporting diagnostics to h.
func NewParser(src *source.Source, h *diag.Handler) *Parser {
	return &Parser{
		lexer:       token.NewLexer(src, h),
		diag:        h,
		src:         src,
		codeAllowed: true,
	}
}

// Parse runs the whole top_level* grammar production and returns the
// resulting Grammar, partially or fully populated, even if errors were
// reported, so callers can decide (per spec §7) whether to proceed to
// semantic analysis. Fatal diagnostics do not make Parse return an error: a
// fatal lexical error ends the token stream, and a fatal character-class
// error is reported and parsing goes on. Both are recorded in the Handler,
// so h.AnyErrors() is the check for them.
func (p *Parser) Parse() (*ast.Grammar, error) {
	p.g = ast.NewGrammar(p.src)
	p.advance()

	for p.cur.Kind != token.EndOfFile {
		if err := p.topLevel(); err != nil {
			return nil, err
		}
	}
	return p.g, nil
}

func (p *Parser) advance() {
	p.cur = p.lexer.Next()
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur.Kind == k
}

// expect consumes the current token if it has kind k, else reports a
// syntactic error (spec §7's Syntactic kind) at the current location and
// returns the zero Token with ok == false. It does not unwind the parse and
// does not consume the offending token; parsing goes on from it.
func (p *Parser) expect(k token.Kind, what string) (token.Token, bool) {
	if p.cur.Kind == k {
		t := p.cur
		p.advance()
		return t, true
	}
	_ = p.diag.Report(diag.Error, p.cur.Loc, "expected %s, found %s", what, p.cur.Kind)
	return token.Token{}, false
}

func (p *Parser) topLevel() error {
	switch p.cur.Kind {
	case token.TypedefKeyword:
		return p.typedef()
	case token.CodeKeyword:
		return p.codeBlock()
	case token.Identifier:
		return p.rule()
	default:
		err := p.diag.Report(diag.Error, p.cur.Loc,
			"expected a rule, 'typedef', or 'code' block, found %s", p.cur.Kind)
		// Resync: skip the offending token so analysis of the rest of the
		// file can continue.
		p.advance()
		return err
	}
}

// typedef := 'typedef' qual_name Identifier ';' ;
// qual_name := '::'? Identifier ('::' Identifier)* ;
func (p *Parser) typedef() error {
	p.advance() // 'typedef'

	var qualName strings.Builder
	if p.at(token.ColonColon) {
		qualName.WriteString("::")
		p.advance()
	}
	first, ok := p.expect(token.Identifier, "a type name")
	if !ok {
		return nil
	}
	qualName.WriteString(first.Text)
	for p.at(token.ColonColon) {
		p.advance()
		qualName.WriteString("::")
		part, ok := p.expect(token.Identifier, "an identifier")
		if !ok {
			return nil
		}
		qualName.WriteString(part.Text)
	}

	nameTok, ok := p.expect(token.Identifier, "a type alias name")
	if !ok {
		return nil
	}

	if p.g.LookupType(nameTok.Text).Nil() {
		p.g.DeclareType(ast.Type{
			Loc:     nameTok.Loc,
			Name:    nameTok.Text,
			Emitted: qualName.String(),
		})
	} else {
		_ = p.diag.Report(diag.Error, nameTok.Loc, "type %q already defined", nameTok.Text)
	}

	_, _ = p.expect(token.Semicolon, "';'")
	return nil
}

// code_block := 'code' Identifier CodeSnippet ;  Identifier in {license, header, source}
func (p *Parser) codeBlock() error {
	p.advance() // 'code'
	kindTok, ok := p.expect(token.Identifier, "'license', 'header', or 'source'")
	if !ok {
		return nil
	}

	snippet, ok := p.expect(token.CodeSnippet, "a code block")
	if !ok {
		return nil
	}
	if len(snippet.Substitutions) != 0 {
		_ = p.diag.Report(diag.Error, snippet.Loc, "code substitutions are not allowed in top-level code")
	}

	switch kindTok.Text {
	case "license", "header", "source":
	default:
		_ = p.diag.Report(diag.Error, kindTok.Loc,
			"unknown code block kind %q, expected 'license', 'header', or 'source'", kindTok.Text)
	}

	p.g.TopLevelCode = append(p.g.TopLevelCode, ast.TopLevelCodeSnippet{
		Loc:  kindTok.Loc,
		Kind: kindTok.Text,
		Text: snippet.Text,
	})
	return nil
}

// rule := Identifier (':' Identifier)? '=' expression ';' ;
func (p *Parser) rule() error {
	nameTok := p.cur
	p.advance()

	nt := p.g.Nonterminal(nameTok.Text, nameTok.Loc)
	entry := nt.In(p.g.Nonterminals)
	if entry.Defined {
		_ = p.diag.Report(diag.Error, nameTok.Loc, "rule %q already defined", nameTok.Text)
	} else {
		entry.Loc = nameTok.Loc
	}

	var typeTok token.Token
	var hasType bool
	if p.at(token.Colon) {
		p.advance()
		t, ok := p.expect(token.Identifier, "a type name")
		if ok {
			typeTok, hasType = t, true
		}
	}

	_, _ = p.expect(token.Equal, "'='")

	p.binds = map[string]bool{reservedBindName: true}
	p.codeAllowed = true
	body, err := p.expression()
	if err != nil {
		return err
	}

	_, _ = p.expect(token.Semicolon, "';'")

	if !entry.Defined {
		entry.Defined = true
		entry.Body = body
		if hasType {
			entry.TypeExplicit = true
			if tp := p.g.LookupType(typeTok.Text); !tp.Nil() {
				entry.Type = tp
			} else {
				_ = p.diag.Report(diag.Error, typeTok.Loc, "undefined type %q", typeTok.Text)
				entry.Type = p.g.VoidType
			}
		}
	}
	return nil
}

// isSequenceTerminator reports whether the current token ends a sequence,
// per spec §4.2: "sequence ends at EOF|; : :: / = ) typedef code".
func (p *Parser) isSequenceTerminator() bool {
	switch p.cur.Kind {
	case token.EndOfFile, token.Semicolon, token.Colon, token.ColonColon,
		token.FSlash, token.Equal, token.RParen, token.TypedefKeyword, token.CodeKeyword:
		return true
	default:
		return false
	}
}

// expression := sequence ('/' sequence)* ;
func (p *Parser) expression() (ast.Expr, error) {
	loc := p.cur.Loc
	left, err := p.sequence()
	if err != nil {
		return nil, err
	}
	for p.at(token.FSlash) {
		p.advance()
		right, err := p.sequence()
		if err != nil {
			return nil, err
		}
		left = &ast.OrderedChoice{Base: ast.NewBase(loc), First: left, Second: right}
	}
	return left, nil
}

// sequence := repeat+ ;
func (p *Parser) sequence() (ast.Expr, error) {
	loc := p.cur.Loc
	if p.isSequenceTerminator() {
		_ = p.diag.Report(diag.Error, p.cur.Loc, "expected an expression, found %s", p.cur.Kind)
		return &ast.Empty{Base: ast.NewBase(loc)}, nil
	}

	left, err := p.repeat()
	if err != nil {
		return nil, err
	}
	for !p.isSequenceTerminator() {
		right, err := p.repeat()
		if err != nil {
			return nil, err
		}
		left = &ast.Sequence{Base: ast.NewBase(loc), Left: left, Right: right}
	}
	return left, nil
}

// repeat := primary ('?' | '*' | '+')* ;
func (p *Parser) repeat() (ast.Expr, error) {
	loc := p.cur.Loc
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case token.QMark:
			p.advance()
			e = &ast.Optional{Base: ast.NewBase(loc), Inner: e}
		case token.Star:
			p.advance()
			e = &ast.Repetition{Base: ast.NewBase(loc), Inner: e}
		case token.Plus:
			p.advance()
			e = &ast.PositiveRepetition{Base: ast.NewBase(loc), Inner: e}
		default:
			return e, nil
		}
	}
}

// primary := '(' expression? ')'
//
//	| Identifier (':' Identifier)?
//	| 'EOF'
//	| String
//	| CharacterClass (':' Identifier)?
//	| '&' primary
//	| '!' primary
//	| CodeSnippet ;
func (p *Parser) primary() (ast.Expr, error) {
	loc := p.cur.Loc
	switch p.cur.Kind {
	case token.LParen:
		p.advance()
		if p.at(token.RParen) {
			p.advance()
			return &ast.Empty{Base: ast.NewBase(loc)}, nil
		}
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		_, _ = p.expect(token.RParen, "')'")
		return e, nil

	case token.Identifier:
		nameTok := p.cur
		p.advance()
		bind := p.bindSuffix(true)
		target := p.g.Nonterminal(nameTok.Text, nameTok.Loc)
		return &ast.NonterminalExpression{Base: ast.NewBase(loc), Name: nameTok.Text, Target: target, Bind: bind}, nil

	case token.EOFKeyword:
		p.advance()
		return &ast.EOFTerminal{Base: ast.NewBase(loc)}, nil

	case token.String:
		strTok := p.cur
		p.advance()
		return p.stringExpression(loc, strTok), nil

	case token.CharacterClass:
		ccTok := p.cur
		p.advance()
		bind := p.bindSuffix(true)
		return p.characterClass(loc, ccTok, bind), nil

	case token.Amp:
		p.advance()
		inner, err := p.primary()
		if err != nil {
			return nil, err
		}
		return &ast.FollowedBy{Base: ast.NewBase(loc), Inner: inner}, nil

	case token.EMark:
		p.advance()
		saved := p.codeAllowed
		p.codeAllowed = false
		inner, err := p.primary()
		p.codeAllowed = saved
		if err != nil {
			return nil, err
		}
		return &ast.NotFollowedBy{Base: ast.NewBase(loc), Inner: inner}, nil

	case token.CodeSnippet:
		snipTok := p.cur
		p.advance()
		if !p.codeAllowed {
			_ = p.diag.Report(diag.Error, loc, "code snippets are not allowed inside '!(...)'")
		}
		return &ast.CodeSnippet{Base: ast.NewBase(loc), Text: snipTok.Text, Substitutions: snipTok.Substitutions}, nil

	default:
		_ = p.diag.Report(diag.Error, loc, "expected an expression, found %s", p.cur.Kind)
		p.advance()
		return &ast.Empty{Base: ast.NewBase(loc)}, nil
	}
}

// bindSuffix consumes an optional `:name` suffix, validating uniqueness and
// (when allowBind is true but codeAllowed is false, i.e. inside `!(...)`)
// reporting the "no bindings inside a negative predicate" error.
func (p *Parser) bindSuffix(allowBind bool) string {
	if !p.at(token.Colon) {
		return ""
	}
	colonLoc := p.cur.Loc
	p.advance()
	nameTok, ok := p.expect(token.Identifier, "a binding name")
	if !ok {
		return ""
	}
	if !allowBind {
		return ""
	}
	if !p.codeAllowed {
		_ = p.diag.Report(diag.Error, colonLoc, "bindings are not allowed inside '!(...)'")
		return ""
	}
	if p.binds[nameTok.Text] {
		_ = p.diag.Report(diag.Error, nameTok.Loc, "binding name %q already used in this rule", nameTok.Text)
		return ""
	}
	p.binds[nameTok.Text] = true
	return nameTok.Text
}

// stringExpression decodes a String token's raw text into a left-associative
// Sequence of Terminal nodes (spec §4.2's "String → expression"), or Empty
// for the empty string.
func (p *Parser) stringExpression(loc source.Location, tok token.Token) ast.Expr {
	runes := decodeEscapes(p.diag, tok.Loc, tok.Text, false)
	if len(runes) == 0 {
		return &ast.Empty{Base: ast.NewBase(loc)}
	}
	var e ast.Expr = &ast.Terminal{Base: ast.NewBase(loc), Char: runes[0]}
	for _, r := range runes[1:] {
		e = &ast.Sequence{Base: ast.NewBase(loc), Left: e, Right: &ast.Terminal{Base: ast.NewBase(loc), Char: r}}
	}
	return e
}
