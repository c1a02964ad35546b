package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCodegen is wrapped by every error Generate returns.
var ErrCodegen = errors.New("codegen error")

// EntryFunction is called by the _start preamble; its return value becomes
// the process exit status.
const EntryFunction = "entry"

// preamble calls entry and passes rax to the exit syscall (60 on x86-64 Linux).
const preamble = "section .text\n" +
	"global _start\n" +
	"_start:\n" +
	"\tcall " + EntryFunction + "\n" +
	"\tmov rdi, rax\n" +
	"\tmov rax, 60\n" +
	"\tsyscall\n"

// setcc maps comparison operators to the x86 set-byte instruction that
// materialises the signed comparison of rbx against rax.
var setcc = map[Operator]string{
	Equal:        "sete",
	NotEqual:     "setne",
	Less:         "setl",
	LessEqual:    "setle",
	Greater:      "setg",
	GreaterEqual: "setge",
}

// CodeGen walks an AST and emits NASM x86-64 assembly text.
//
// Expressions are evaluated with a stack discipline: the result always ends
// up in rax; the left operand of a binary expression is parked on the
// machine stack while the right one is evaluated, then popped into rbx.
type CodeGen struct {
	out       strings.Builder
	nextLabel int
}

func newCodeGen() *CodeGen {
	return &CodeGen{}
}

func (cg *CodeGen) newLabel() string {
	l := fmt.Sprintf(".L%d", cg.nextLabel)
	cg.nextLabel++
	return l
}

func (cg *CodeGen) line(format string, args ...any) {
	fmt.Fprintf(&cg.out, format+"\n", args...)
}

func unsupported(kind string, node fmt.Stringer) error {
	return fmt.Errorf("%w: unsupported %s %s", ErrCodegen, kind, node)
}

// Generate translates program into a complete assembly file.
// It does not modify program, so repeated calls give identical output.
func Generate(program []TopLevel) (string, error) {
	cg := newCodeGen()
	cg.out.WriteString(preamble)

	for _, item := range program {
		switch n := item.(type) {
		case *FunctionDecl:
			cg.out.WriteByte('\n')
			cg.line("%s:", n.Name)
			if err := cg.genBody(n.Body); err != nil {
				return "", err
			}
		case *TopLevelStmt:
			if err := cg.genStmt(n.Stmt); err != nil {
				return "", err
			}
		default:
			return "", unsupported("top-level item", item)
		}
	}

	return cg.out.String(), nil
}

// genBody emits a function body; a block contributes each of its statements.
func (cg *CodeGen) genBody(body Stmt) error {
	block, ok := body.(*BlockStmt)
	if !ok {
		return cg.genStmt(body)
	}
	for _, s := range block.Stmts {
		if err := cg.genStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (cg *CodeGen) genStmt(s Stmt) error {
	switch n := s.(type) {
	case *ReturnStmt:
		if err := cg.genExpr(n.Expr); err != nil {
			return err
		}
		cg.line("    ret")
		return nil
	}
	return unsupported("statement", s)
}

// genExpr emits code that leaves the value of e in rax.
func (cg *CodeGen) genExpr(e Expr) error {
	switch n := e.(type) {

	case *Literal:
		cg.line("    mov rax, %d", n.Value)
		return nil

	case *UnaryExpr:
		if err := cg.genExpr(n.Right); err != nil {
			return err
		}
		switch n.Op {
		case Negate:
			cg.line("    neg rax")
		case Not:
			cg.line("    cmp rax, 0")
			cg.line("    sete al")
			cg.line("    movzx rax, al")
		default:
			return unsupported("unary operator", n.Op)
		}
		return nil

	case *BinaryExpr:
		if n.Op == And || n.Op == Or {
			return cg.genLogical(n)
		}

		if err := cg.genExpr(n.Left); err != nil {
			return err
		}
		cg.line("    push rax")
		if err := cg.genExpr(n.Right); err != nil {
			return err
		}
		cg.line("    pop rbx")

		switch n.Op {
		case Add:
			cg.line("    add rbx, rax")
			cg.line("    mov rax, rbx")
		case Subtract:
			cg.line("    sub rbx, rax")
			cg.line("    mov rax, rbx")
		case Multiply:
			cg.line("    imul rbx, rax")
			cg.line("    mov rax, rbx")
		case Divide:
			// Dividend goes to rax, sign-extended into rdx; divisor in rbx.
			cg.line("    xchg rax, rbx")
			cg.line("    cqo")
			cg.line("    idiv rbx")
		default:
			set, ok := setcc[n.Op]
			if !ok {
				return unsupported("binary operator", n.Op)
			}
			cg.line("    cmp rbx, rax")
			cg.line("    %s al", set)
			cg.line("    movzx rax, al")
		}
		return nil
	}

	return unsupported("expression", e)
}

// genLogical emits short-circuit && and ||, leaving 0 or 1 in rax.
func (cg *CodeGen) genLogical(n *BinaryExpr) error {
	shortCircuit := cg.newLabel()
	end := cg.newLabel()

	// && stops at the first zero operand, || at the first non-zero one.
	jump, result := "je", 0
	if n.Op == Or {
		jump, result = "jne", 1
	}

	for _, operand := range []Expr{n.Left, n.Right} {
		if err := cg.genExpr(operand); err != nil {
			return err
		}
		cg.line("    cmp rax, 0")
		cg.line("    %s %s", jump, shortCircuit)
	}
	cg.line("    mov rax, %d", 1-result)
	cg.line("    jmp %s", end)
	cg.line("%s:", shortCircuit)
	cg.line("    mov rax, %d", result)
	cg.line("%s:", end)
	return nil
}
