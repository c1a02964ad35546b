package toolchain

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const exitSeven = `section .text
global _start
_start:
	mov rdi, 7
	mov rax, 60
	syscall
`

func writeAsm(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "prog.asm")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	tc := Default()
	if tc.Assembler != "nasm" || tc.Linker != "ld" {
		t.Errorf("unexpected default tools %q and %q", tc.Assembler, tc.Linker)
	}
}

func TestAvailableMissingTool(t *testing.T) {
	tc := &Toolchain{Assembler: "molbc-no-such-assembler", Linker: "ld"}
	if tc.Available() {
		t.Error("expected Available to be false for a missing assembler")
	}
}

func TestBuildMissingAssembler(t *testing.T) {
	dir := t.TempDir()
	asmPath := writeAsm(t, dir, exitSeven)
	exePath := filepath.Join(dir, "prog")

	var stderr bytes.Buffer
	tc := &Toolchain{Assembler: "molbc-no-such-assembler", Linker: "ld", Stdout: &stderr, Stderr: &stderr}
	err := tc.Build(asmPath, exePath)
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "molbc-no-such-assembler") {
		t.Errorf("error %q does not name the tool", err)
	}
	for _, p := range []string{exePath, exePath + ".o"} {
		if _, statErr := os.Stat(p); !os.IsNotExist(statErr) {
			t.Errorf("expected %s not to exist", p)
		}
	}
}

func TestBuildMissingLinkerRemovesArtifacts(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("needs an ELF64 toolchain")
	}
	tc := &Toolchain{Assembler: "nasm", Linker: "molbc-no-such-linker"}
	if _, err := exec.LookPath("nasm"); err != nil {
		t.Skip("nasm is required")
	}

	dir := t.TempDir()
	asmPath := writeAsm(t, dir, exitSeven)
	exePath := filepath.Join(dir, "prog")

	if err := tc.Build(asmPath, exePath); !errors.Is(err, ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}
	for _, p := range []string{exePath, exePath + ".o"} {
		if _, statErr := os.Stat(p); !os.IsNotExist(statErr) {
			t.Errorf("expected %s not to exist", p)
		}
	}
}

func TestBuildAssemblerRejectsSource(t *testing.T) {
	tc := Default()
	if !tc.Available() {
		t.Skip("nasm and ld are required")
	}
	tc.Stdout, tc.Stderr = &bytes.Buffer{}, &bytes.Buffer{}

	dir := t.TempDir()
	asmPath := writeAsm(t, dir, "this is not assembly\n")
	if err := tc.Build(asmPath, filepath.Join(dir, "prog")); !errors.Is(err, ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}
}

func TestBuild(t *testing.T) {
	if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
		t.Skip("builds a linux/amd64 executable")
	}
	tc := Default()
	if !tc.Available() {
		t.Skip("nasm and ld are required")
	}

	dir := t.TempDir()
	asmPath := writeAsm(t, dir, exitSeven)
	exePath := filepath.Join(dir, "prog")
	if err := tc.Build(asmPath, exePath); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	info, err := os.Stat(exePath)
	if err != nil {
		t.Fatalf("executable missing: %v", err)
	}
	if info.Mode()&0111 == 0 {
		t.Errorf("expected %s to be executable, mode %v", exePath, info.Mode())
	}
	if _, err := os.Stat(exePath + ".o"); !os.IsNotExist(err) {
		t.Error("expected the object file to be removed")
	}
}
