package input

import (
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{"yes", "y\n", false, true},
		{"yes long", "yes\n", false, true},
		{"yes uppercase", "Y\n", false, true},
		{"no", "n\n", true, false},
		{"no long", "no\n", true, false},
		{"enter uses default no", "\n", false, false},
		{"enter uses default yes", "\n", true, true},
		{"whitespace around answer", "  yes  \n", false, true},
		{"garbage is no", "maybe\n", true, false},
		{"closed input uses default", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confirm(strings.NewReader(tt.input), "Proceed?", tt.defaultYes)
			if got != tt.want {
				t.Errorf("confirm(%q, default=%v) = %v, want %v", tt.input, tt.defaultYes, got, tt.want)
			}
		})
	}
}
