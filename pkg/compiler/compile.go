package compiler

import "fmt"

// Result carries every intermediate artifact of one compilation run.
type Result struct {
	Tokens   []Token
	Program  []TopLevel
	Assembly string
}

// Stages runs Lex, Parse, Validate and Generate in order and stops at the
// first failing stage. Artifacts of the stages that succeeded are returned
// alongside the error.
func Stages(src string) (*Result, error) {
	res := &Result{}

	tokens, err := Lex(src)
	if err != nil {
		return res, fmt.Errorf("lex: %w", err)
	}
	res.Tokens = tokens

	program, err := Parse(tokens)
	if err != nil {
		return res, fmt.Errorf("parse: %w", err)
	}
	res.Program = program

	if err := Validate(program); err != nil {
		return res, fmt.Errorf("semantic: %w", err)
	}

	assembly, err := Generate(program)
	if err != nil {
		return res, fmt.Errorf("codegen: %w", err)
	}
	res.Assembly = assembly

	return res, nil
}

// Compile translates src into NASM x86-64 assembly.
func Compile(src string) (string, error) {
	res, err := Stages(src)
	if err != nil {
		return "", err
	}
	return res.Assembly, nil
}
