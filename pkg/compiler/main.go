// Package compiler provides a lexer, parser, and code generator for a small
// C-like language that targets NASM x86-64 assembly on Linux.
//
// Pipeline: source → Lex → Parse → Validate → Generate → assembly text
//
// The generated program starts at _start, calls the function named entry and
// exits with its return value as the process status.
package compiler
