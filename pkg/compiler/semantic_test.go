package compiler

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		program []TopLevel
		wantErr error
	}{
		{
			name:    "entry only",
			program: []TopLevel{fn("entry", &ReturnStmt{Expr: lit(0)})},
		},
		{
			name: "entry with helpers and statements",
			program: []TopLevel{
				fn("helper"),
				&TopLevelStmt{Stmt: &ReturnStmt{Expr: lit(1)}},
				fn("entry"),
			},
		},
		{
			name:    "empty program",
			program: nil,
			wantErr: ErrNoEntryFunction,
		},
		{
			name:    "statements only",
			program: []TopLevel{&TopLevelStmt{Stmt: &ReturnStmt{Expr: lit(67)}}},
			wantErr: ErrNoEntryFunction,
		},
		{
			name:    "entry spelled differently",
			program: []TopLevel{fn("Entry")},
			wantErr: ErrNoEntryFunction,
		},
		{
			name:    "main defined",
			program: []TopLevel{fn("entry"), fn("main")},
			wantErr: ErrMainIsReserved,
		},
		{
			name:    "main instead of entry",
			program: []TopLevel{fn("main")},
			wantErr: ErrMainIsReserved,
		},
		{
			name:    "entry defined twice",
			program: []TopLevel{fn("entry"), fn("entry")},
			wantErr: ErrDuplicateFunction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.program)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
