package main

import (
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

var tokenLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Space", Pattern: `[\s\v]+`},
	{Name: "Word", Pattern: `[^\s\v]+`},
})

var spaceToken = tokenLexer.Symbols()["Space"]

// tokenizer splits input lines into whitespace delimited tokens, skipping
// parenthesized comments. Comment depth carries across lines, so a comment
// may span several of them; a ")" outside any comment is an ordinary token.
type tokenizer struct {
	tokens  []lexer.Token
	next    int
	depth   int
	maxSize int
}

// reset loads a new line, discarding anything left from the previous one.
func (tz *tokenizer) reset(name, line string) error {
	tz.tokens = tz.tokens[:0]
	tz.next = 0
	lex, err := tokenLexer.Lex(name, strings.NewReader(line))
	if err != nil {
		return err
	}
	for {
		tok, err := lex.Next()
		if err != nil {
			return err
		}
		if tok.EOF() {
			return nil
		}
		if tok.Type != spaceToken {
			tz.tokens = append(tz.tokens, tok)
		}
	}
}

// discard drops the rest of the current line.
func (tz *tokenizer) discard() { tz.next = len(tz.tokens) }

// scan returns the next token outside of any comment, or false once the
// line is exhausted. An overlong token is returned along with NameTooLong.
func (tz *tokenizer) scan() (lexer.Token, bool, error) {
	for tz.next < len(tz.tokens) {
		tok := tz.tokens[tz.next]
		tz.next++
		switch {
		case tok.Value == "(":
			tz.depth++
			continue
		case tok.Value == ")" && tz.depth > 0:
			tz.depth--
			continue
		case tz.depth > 0:
			continue
		}
		if tz.maxSize > 0 && utf8.RuneCountInString(tok.Value) > tz.maxSize {
			return tok, true, NameTooLong
		}
		return tok, true, nil
	}
	return lexer.Token{}, false, nil
}
