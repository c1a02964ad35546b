package compiler

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"return":   RETURN,
	"function": FUNCTION,
	"int":      INT,
	"var":      VAR,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"break":    BREAK,
	"continue": CONTINUE,
}

// twoCharTokens is consulted before singleCharTokens so that "==" is never
// split into two ASSIGN tokens.
var twoCharTokens = map[string]TokenType{
	"==": EQUALS,
	"!=": NOT_EQ,
	"<=": LESS_EQ,
	">=": GREATER_EQ,
	"&&": AND_LOGICAL,
	"||": OR_LOGICAL,
}

var singleCharTokens = map[rune]TokenType{
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	';': SEMICOLON,
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'=': ASSIGN,
	',': COMMA,
	'<': LESS,
	'>': GREATER,
	'!': NOT,
}

// LexErrorKind classifies a LexError.
type LexErrorKind int

const (
	LexGeneric        LexErrorKind = iota // catch-all, currently unused
	LexUnexpectedChar                     // malformed literal boundary or literal overflow
	LexUnknownToken                       // character that starts no token
	LexEndOfInput                         // no more input; terminates Lex normally
)

func (k LexErrorKind) String() string {
	switch k {
	case LexUnexpectedChar:
		return "unexpected character"
	case LexUnknownToken:
		return "unknown token"
	case LexEndOfInput:
		return "end of input"
	default:
		return "lexer error"
	}
}

// LexError reports where and why tokenisation stopped.
type LexError struct {
	Kind   LexErrorKind
	Char   rune
	Line   int
	Column int
}

func (e *LexError) Error() string {
	if e.Kind == LexEndOfInput || e.Kind == LexGeneric {
		return e.Kind.String()
	}
	return fmt.Sprintf("line %d, column %d: %s %q", e.Line, e.Column, e.Kind, e.Char)
}

var errEndOfInput = &LexError{Kind: LexEndOfInput}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src    []rune
	pos    int // index of the next rune to consume
	line   int // current 1-based source line
	column int // current 1-based source column
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, column: 1}
}

// peek returns the rune offset positions ahead without advancing, or 0 past the end.
func (l *Lexer) peek(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.atEnd() {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && unicode.IsSpace(l.peek(0)) {
		l.advance()
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// scanInt collects a decimal integer literal.
// The first digit must still be at l.peek(0).
func (l *Lexer) scanInt() (Token, error) {
	line, column := l.line, l.column
	start := l.pos
	for !l.atEnd() {
		r := l.peek(0)
		if isDigit(r) {
			l.advance()
			continue
		}
		// 123abc is neither a number nor an identifier.
		if unicode.IsLetter(r) {
			return Token{}, &LexError{Kind: LexUnexpectedChar, Char: r, Line: line, Column: column}
		}
		break
	}

	lexeme := string(l.src[start:l.pos])
	val, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		last := l.src[l.pos-1]
		return Token{}, &LexError{Kind: LexUnexpectedChar, Char: last, Line: line, Column: column}
	}
	return Token{Type: INTEGER, Lexeme: lexeme, Value: val, Line: line, Column: column}, nil
}

// scanIdent collects a full identifier or keyword token.
// The first character (letter or '_') must still be at l.peek(0).
func (l *Lexer) scanIdent() Token {
	line, column := l.line, l.column
	start := l.pos
	for !l.atEnd() {
		r := l.peek(0)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line, Column: column}
}

// scanOperator matches a two-character token first, then a single character.
func (l *Lexer) scanOperator() (Token, bool) {
	line, column := l.line, l.column

	if l.pos+1 < len(l.src) {
		lexeme := string(l.src[l.pos : l.pos+2])
		if tt, ok := twoCharTokens[lexeme]; ok {
			l.advance()
			l.advance()
			return Token{Type: tt, Lexeme: lexeme, Line: line, Column: column}, true
		}
	}

	ch := l.peek(0)
	if tt, ok := singleCharTokens[ch]; ok {
		l.advance()
		return Token{Type: tt, Lexeme: string(ch), Line: line, Column: column}, true
	}
	return Token{}, false
}

// nextToken skips whitespace and returns the next Token, or errEndOfInput.
func (l *Lexer) nextToken() (Token, error) {
	l.skipWhitespace()
	if l.atEnd() {
		return Token{}, errEndOfInput
	}

	ch := l.peek(0)
	if isDigit(ch) {
		return l.scanInt()
	}
	if unicode.IsLetter(ch) || ch == '_' {
		return l.scanIdent(), nil
	}
	if tok, ok := l.scanOperator(); ok {
		return tok, nil
	}
	return Token{}, &LexError{Kind: LexUnknownToken, Char: ch, Line: l.line, Column: l.column}
}

// Lex tokenises src. Unlike the parser's lookahead, the returned slice has no
// trailing EOF token. On the first error no tokens are returned.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if errors.Is(err, errEndOfInput) {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}
