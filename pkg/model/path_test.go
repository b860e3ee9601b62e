package model

import (
	"errors"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Path
		wantErr error
	}{
		{
			name:  "block only",
			input: "timer",
			want:  Path{Block: "timer"},
		},
		{
			name:  "block and register",
			input: "timer.TMR_CTRL",
			want:  Path{Block: "timer", Register: "TMR_CTRL"},
		},
		{
			name:  "full field path",
			input: "timer.TMR_CTRL.EN",
			want:  Path{Block: "timer", Register: "TMR_CTRL", Field: "EN"},
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrEmptyPath,
		},
		{
			name:    "too many segments",
			input:   "a.b.c.d",
			wantErr: ErrInvalidPath,
		},
		{
			name:    "empty segment",
			input:   "timer..EN",
			wantErr: ErrInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParsePath(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePath(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePath(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want round-trip of %q", got.String(), tt.input)
			}
		})
	}
}

func TestPathScope(t *testing.T) {
	if got := BlockPath("timer").Scope(); got != ScopeBlock {
		t.Errorf("block path scope = %v", got)
	}
	if got := RegisterPath("timer", "TMR_CTRL").Scope(); got != ScopeRegister {
		t.Errorf("register path scope = %v", got)
	}
	if got := FieldPath("timer", "TMR_CTRL", "EN").Scope(); got != ScopeField {
		t.Errorf("field path scope = %v", got)
	}
}

func TestPathParent(t *testing.T) {
	p := FieldPath("timer", "TMR_CTRL", "EN")
	if got := p.Parent(); got != RegisterPath("timer", "TMR_CTRL") {
		t.Errorf("Parent() = %+v", got)
	}
	if got := p.Parent().Parent(); got != BlockPath("timer") {
		t.Errorf("Parent().Parent() = %+v", got)
	}
	if got := BlockPath("timer").Parent(); got != (Path{}) {
		t.Errorf("block Parent() = %+v, want zero", got)
	}
}
