package compiler

import (
	"fmt"
	"strings"
)

// Operator is the operation carried by a UnaryExpr or BinaryExpr.
type Operator int

const (
	Add Operator = iota
	Subtract
	Multiply
	Divide

	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual

	And
	Or

	// Unary only.
	Negate
	Not
)

var operatorSymbols = [...]string{
	Add:          "+",
	Subtract:     "-",
	Multiply:     "*",
	Divide:       "/",
	Equal:        "==",
	NotEqual:     "!=",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	And:          "&&",
	Or:           "||",
	Negate:       "-",
	Not:          "!",
}

func (op Operator) String() string {
	if int(op) >= 0 && int(op) < len(operatorSymbols) {
		return operatorSymbols[op]
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// Type is the declared type of a variable.
type Type int

const (
	TypeInt Type = iota // int x = ...;
	TypeVar             // var x = ...;  (inferred)
)

func (t Type) String() string {
	if t == TypeVar {
		return "var"
	}
	return "int"
}

//  Expression nodes

// Expr is implemented by every node that produces a value.
// genExpr always leaves the result in rax.
type Expr interface {
	exprNode()
	String() string
}

// Literal is a compile-time integer constant.
//
//	return 10;
//	       ^^  Literal{Value: 10}
type Literal struct {
	Value int64
}

func (*Literal) exprNode()        {}
func (l *Literal) String() string { return fmt.Sprintf("%d", l.Value) }

// VarRef is a read of a named variable.
type VarRef struct {
	Name string
}

func (*VarRef) exprNode()        {}
func (v *VarRef) String() string { return v.Name }

// UnaryExpr represents Op Right, e.g. -x or !x.
type UnaryExpr struct {
	Op    Operator
	Right Expr
}

func (*UnaryExpr) exprNode()        {}
func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.Right) }

// BinaryExpr represents a binary operation: Left Op Right.
//
//	x + 1
//	^ ^ ^
//	| | |
//	| | Right
//	| Op
//	Left
type BinaryExpr struct {
	Left  Expr
	Op    Operator
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// FunctionCall represents callee(args).
type FunctionCall struct {
	Callee Expr
	Args   []Expr
}

func (*FunctionCall) exprNode() {}
func (c *FunctionCall) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ", "))
}

//  Statement nodes

// Stmt is implemented by every node that does not produce a value.
type Stmt interface {
	stmtNode()
	String() string
}

// ReturnStmt represents  return expr;
type ReturnStmt struct {
	Expr Expr
}

func (*ReturnStmt) stmtNode()        {}
func (r *ReturnStmt) String() string { return fmt.Sprintf("Return(%s)", r.Expr) }

// VariableDecl represents  int name = expr;  or  var name = expr;
type VariableDecl struct {
	Type Type
	Name string
	Init Expr
}

func (*VariableDecl) stmtNode() {}
func (d *VariableDecl) String() string {
	return fmt.Sprintf("VariableDecl(%s %s = %s)", d.Type, d.Name, d.Init)
}

// Assignment represents  name = expr;
type Assignment struct {
	Name  string
	Value Expr
}

func (*Assignment) stmtNode() {}
func (a *Assignment) String() string {
	return fmt.Sprintf("Assignment(%s = %s)", a.Name, a.Value)
}

// BlockStmt represents { stmt1; stmt2; ... }
type BlockStmt struct {
	Stmts []Stmt
}

func (*BlockStmt) stmtNode() {}
func (b *BlockStmt) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	return fmt.Sprintf("Block[%s]", strings.Join(parts, "; "))
}

// ExprStmt is an expression evaluated for its side effects:  foo(1);
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode()        {}
func (e *ExprStmt) String() string { return fmt.Sprintf("ExprStmt(%s)", e.Expr) }

// IfStmt represents  if (Cond) Then [else ...]
// Else is nil or an *ElseStmt.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) stmtNode() {}
func (s *IfStmt) String() string {
	if s.Else != nil {
		return fmt.Sprintf("If(%s) %s %s", s.Cond, s.Then, s.Else)
	}
	return fmt.Sprintf("If(%s) %s", s.Cond, s.Then)
}

// ElseStmt is the else arm of an IfStmt.
type ElseStmt struct {
	Body Stmt
}

func (*ElseStmt) stmtNode()        {}
func (e *ElseStmt) String() string { return fmt.Sprintf("Else %s", e.Body) }

//  Top-level nodes

// TopLevel is a function definition or a bare statement at file scope.
type TopLevel interface {
	topLevelNode()
	String() string
}

// FunctionDecl represents  function name() { ... }
type FunctionDecl struct {
	Name string
	Body Stmt // always a *BlockStmt when produced by the parser
}

func (*FunctionDecl) topLevelNode() {}
func (f *FunctionDecl) String() string {
	return fmt.Sprintf("Function(%s) %s", f.Name, f.Body)
}

// TopLevelStmt is a statement outside any function.
type TopLevelStmt struct {
	Stmt Stmt
}

func (*TopLevelStmt) topLevelNode()    {}
func (t *TopLevelStmt) String() string { return t.Stmt.String() }
