package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"molbc/pkg/compiler"
	"molbc/pkg/toolchain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, toolchain.Default()))
}

// run compiles the source file named in args and returns the exit status.
func run(args []string, stdout, stderr io.Writer, tc *toolchain.Toolchain) int {
	fs := flag.NewFlagSet("molbc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	exePath := fs.String("o", "out", "name of the linked executable")
	asmPath := fs.String("asm", "out.asm", "path of the generated assembly file")
	asmOnly := fs.Bool("S", false, "write the assembly file and stop")
	quiet := fs.Bool("quiet", false, "do not print tokens and AST")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Incorrect usage. Correct usage:")
		fmt.Fprintln(stderr, "molbc [flags] {input.molb}")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 1
	}

	srcPath := fs.Arg(0)
	data, err := os.ReadFile(srcPath)
	if err != nil {
		fmt.Fprintln(stderr, "read error:", err)
		return 1
	}

	res, err := compiler.Stages(string(data))
	if !*quiet {
		dump(stdout, res)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %+v\n", srcPath, err)
		return 1
	}

	if err := os.WriteFile(*asmPath, []byte(res.Assembly), 0644); err != nil {
		fmt.Fprintln(stderr, "write error:", err)
		return 1
	}
	if *asmOnly {
		return 0
	}

	if err := tc.Build(*asmPath, *exePath); err != nil {
		fmt.Fprintln(stderr, "build error:", err)
		return 1
	}
	return 0
}

// dump prints whatever the pipeline produced before it stopped.
func dump(w io.Writer, res *compiler.Result) {
	if res.Tokens != nil {
		fmt.Fprintf(w, "Tokens (%d)\n", len(res.Tokens))
		for _, tok := range res.Tokens {
			fmt.Fprintln(w, " ", tok)
		}
		fmt.Fprintln(w)
	}
	if res.Program != nil {
		fmt.Fprintln(w, "AST")
		for _, item := range res.Program {
			fmt.Fprintln(w, " ", item)
		}
		fmt.Fprintln(w)
	}
}
