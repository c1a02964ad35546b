package compiler

import (
	"errors"
	"fmt"
)

// ErrParse is wrapped by every error Parse returns.
var ErrParse = errors.New("parse error")

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar (lowest to highest precedence; binary levels are left-associative):
//
//	program        = topLevel*
//	topLevel       = "function" IDENTIFIER "(" ")" block | statement
//	statement      = returnStmt | varDecl | assignment | block | ifStmt | exprStmt
//	returnStmt     = "return" expression ";"
//	varDecl        = ("int" | "var") IDENTIFIER "=" expression ";"
//	assignment     = IDENTIFIER "=" expression ";"
//	block          = "{" statement* "}"
//	ifStmt         = "if" "(" expression ")" statement ("else" statement)?
//	exprStmt       = expression ";"
//	expression     = logical_or
//	logical_or     = logical_and ("||" logical_and)*
//	logical_and    = equality ("&&" equality)*
//	equality       = relational (("==" | "!=") relational)*
//	relational     = additive (("<" | "<=" | ">" | ">=") additive)*
//	additive       = multiplicative (("+" | "-") multiplicative)*
//	multiplicative = unary (("*" | "/") unary)*
//	unary          = ("-" | "!") unary | postfix
//	postfix        = primary ("(" args? ")")*
//	primary        = INTEGER | IDENTIFIER | "(" expression ")"
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse builds the program AST. Parsing stops at the first error.
func Parse(tokens []Token) ([]TopLevel, error) {
	return NewParser(tokens).ParseProgram()
}

// fmtError wraps ErrParse with the position of the offending token.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if tok.Type == EOF {
		return fmt.Errorf("%w: %s at end of input", ErrParse, msg)
	}
	return fmt.Errorf("%w: line %d, column %d: %s", ErrParse, tok.Line, tok.Column, msg)
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.peekAt(0)
}

// peekAt returns the token at the given offset from the current position.
func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.fmtError(tok, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return tok, nil
}

// ParseProgram parses top-level items until the tokens run out.
func (p *Parser) ParseProgram() ([]TopLevel, error) {
	var program []TopLevel
	for p.peek().Type != EOF {
		item, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		program = append(program, item)
	}
	return program, nil
}

func (p *Parser) parseTopLevel() (TopLevel, error) {
	if p.peek().Type == FUNCTION {
		return p.parseFunction()
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &TopLevelStmt{Stmt: stmt}, nil
}

// parseFunction parses  function name() { ... }
func (p *Parser) parseFunction() (TopLevel, error) {
	if _, err := p.expect(FUNCTION); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FunctionDecl{Name: nameTok.Lexeme, Body: body}, nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch tok.Type {
	case RETURN:
		p.advance()
		return p.parseReturn()

	case INT, VAR:
		return p.parseVarDecl()

	case LBRACE:
		p.advance()
		return p.parseBlock()

	case IF:
		p.advance()
		return p.parseIf()

	case IDENTIFIER:
		if p.peekAt(1).Type == ASSIGN {
			return p.parseAssignment()
		}

	case ELSE:
		return nil, p.fmtError(tok, "else without if")
	}

	return p.parseExprStmt()
}

// parseReturn parses  return expr ;
// The leading RETURN token has already been consumed by parseStatement.
func (p *Parser) parseReturn() (Stmt, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &ReturnStmt{Expr: expr}, nil
}

// parseVarDecl parses  int name = expr ;  and  var name = expr ;
func (p *Parser) parseVarDecl() (Stmt, error) {
	typ := TypeInt
	if p.advance().Type == VAR {
		typ = TypeVar
	}
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &VariableDecl{Type: typ, Name: nameTok.Lexeme, Init: init}, nil
}

// parseAssignment parses  name = expr ;
func (p *Parser) parseAssignment() (Stmt, error) {
	nameTok := p.advance()
	p.advance() // =
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &Assignment{Name: nameTok.Lexeme, Value: val}, nil
}

// parseBlock parses { stmt1; stmt2; ... }
// The leading LBRACE token has already been consumed.
func (p *Parser) parseBlock() (*BlockStmt, error) {
	var stmts []Stmt
	for p.peek().Type != RBRACE && p.peek().Type != EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return &BlockStmt{Stmts: stmts}, nil
}

// parseIf parses  if ( cond ) stmt [else stmt]
// The leading IF token has already been consumed.
func (p *Parser) parseIf() (Stmt, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{Cond: cond, Then: then}
	if p.peek().Type == ELSE {
		p.advance()
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Else = &ElseStmt{Body: body}
	}
	return stmt, nil
}

func (p *Parser) parseExprStmt() (Stmt, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

// binaryLevel describes one left-associative precedence level.
type binaryLevel struct {
	ops  map[TokenType]Operator
	next func(*Parser) (Expr, error)
}

var (
	logicalOrLevel      binaryLevel
	logicalAndLevel     binaryLevel
	equalityLevel       binaryLevel
	relationalLevel     binaryLevel
	additiveLevel       binaryLevel
	multiplicativeLevel binaryLevel
)

func init() {
	logicalOrLevel = binaryLevel{
		ops:  map[TokenType]Operator{OR_LOGICAL: Or},
		next: (*Parser).parseLogicalAnd,
	}
	logicalAndLevel = binaryLevel{
		ops:  map[TokenType]Operator{AND_LOGICAL: And},
		next: (*Parser).parseEquality,
	}
	equalityLevel = binaryLevel{
		ops:  map[TokenType]Operator{EQUALS: Equal, NOT_EQ: NotEqual},
		next: (*Parser).parseRelational,
	}
	relationalLevel = binaryLevel{
		ops: map[TokenType]Operator{
			LESS: Less, LESS_EQ: LessEqual, GREATER: Greater, GREATER_EQ: GreaterEqual,
		},
		next: (*Parser).parseAdditive,
	}
	additiveLevel = binaryLevel{
		ops:  map[TokenType]Operator{PLUS: Add, MINUS: Subtract},
		next: (*Parser).parseMultiplicative,
	}
	multiplicativeLevel = binaryLevel{
		ops:  map[TokenType]Operator{STAR: Multiply, SLASH: Divide},
		next: (*Parser).parseUnary,
	}
}

// parseBinary folds operands of one level into a left-leaning tree.
func (p *Parser) parseBinary(level binaryLevel) (Expr, error) {
	expr, err := level.next(p)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := level.ops[p.peek().Type]
		if !ok {
			return expr, nil
		}
		p.advance()
		right, err := level.next(p)
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Op: op, Right: right}
	}
}

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() (Expr, error)      { return p.parseBinary(logicalOrLevel) }
func (p *Parser) parseLogicalAnd() (Expr, error)     { return p.parseBinary(logicalAndLevel) }
func (p *Parser) parseEquality() (Expr, error)       { return p.parseBinary(equalityLevel) }
func (p *Parser) parseRelational() (Expr, error)     { return p.parseBinary(relationalLevel) }
func (p *Parser) parseAdditive() (Expr, error)       { return p.parseBinary(additiveLevel) }
func (p *Parser) parseMultiplicative() (Expr, error) { return p.parseBinary(multiplicativeLevel) }

// parseUnary handles prefix - and !
func (p *Parser) parseUnary() (Expr, error) {
	var op Operator
	switch p.peek().Type {
	case MINUS:
		op = Negate
	case NOT:
		op = Not
	default:
		return p.parsePostfix()
	}
	p.advance()
	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Op: op, Right: right}, nil
}

// parsePostfix handles call syntax  callee(args)
func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == LPAREN {
		p.advance() // (
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		expr = &FunctionCall{Callee: expr, Args: args}
	}
	return expr, nil
}

func (p *Parser) parseCallArgs() ([]Expr, error) {
	var args []Expr
	if p.peek().Type != RPAREN {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePrimary handles literals, variables, and parenthesised expressions.
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case INTEGER:
		p.advance()
		return &Literal{Value: tok.Value}, nil

	case IDENTIFIER:
		p.advance()
		return &VarRef{Name: tok.Lexeme}, nil

	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, p.fmtError(tok, "expected expression, got %s (%q)", tok.Type, tok.Lexeme)
	}
}
