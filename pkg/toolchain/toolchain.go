// Package toolchain turns generated assembly into a Linux executable by
// running an external assembler and linker.
package toolchain

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrToolFailed is wrapped when the assembler or linker is missing or exits
// with a non-zero status.
var ErrToolFailed = errors.New("tool failed")

// Toolchain names the external programs used to build an executable.
type Toolchain struct {
	Assembler string // NASM-compatible; invoked with -f elf64
	Linker    string // ld-compatible
	Stdout    io.Writer
	Stderr    io.Writer
}

// Default uses nasm and ld from PATH and forwards their output to the
// process's stdout and stderr.
func Default() *Toolchain {
	return &Toolchain{
		Assembler: "nasm",
		Linker:    "ld",
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Available reports whether both tools can be found on PATH.
func (tc *Toolchain) Available() bool {
	for _, tool := range []string{tc.Assembler, tc.Linker} {
		if _, err := exec.LookPath(tool); err != nil {
			return false
		}
	}
	return true
}

// run executes one tool and blocks until it exits.
func (tc *Toolchain) run(tool string, args ...string) error {
	cmd := exec.Command(tool, args...)
	cmd.Stdout = tc.Stdout
	cmd.Stderr = tc.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrToolFailed, tool, strings.Join(args, " "), err)
	}
	return nil
}

// Assemble produces an ELF64 object file from a NASM source file.
func (tc *Toolchain) Assemble(asmPath, objPath string) error {
	return tc.run(tc.Assembler, "-f", "elf64", "-o", objPath, asmPath)
}

// Link produces an executable from a single object file.
func (tc *Toolchain) Link(objPath, exePath string) error {
	return tc.run(tc.Linker, "-o", exePath, objPath)
}

// Build assembles asmPath and links the result into exePath. The
// intermediate object file is always removed; on failure no executable is
// left behind.
func (tc *Toolchain) Build(asmPath, exePath string) error {
	objPath := exePath + ".o"
	defer os.Remove(objPath)

	if err := tc.Assemble(asmPath, objPath); err != nil {
		return err
	}
	if err := tc.Link(objPath, exePath); err != nil {
		os.Remove(exePath)
		return err
	}
	return nil
}
