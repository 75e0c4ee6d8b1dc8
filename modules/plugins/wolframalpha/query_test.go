package wolframalpha

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMakeSafeQuery(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"What", "is", "2+2?"}, "what%20is%202%2B2%3F"},
		{[]string{"population", "of", "Köln"}, "population%20of%20k%C3%B6ln"},
		{[]string{"a/b", "#1", "50%", "x=y&z"}, "a%2Fb%20%231%2050%25%20x%3Dy%26z"},
		{[]string{"integrate", "x^2", "dx"}, "integrate%20x^2%20dx"},
		{[]string{"`~!@$^*()[]{}\\|:;\"'<>,."}, "`~!@$^*()[]{}\\|:;\"'<>,."},
		{[]string{"snake_case-1.5~"}, "snake_case-1.5~"},
	}

	for _, tt := range tests {
		if got := MakeSafeQuery(tt.args); got != tt.want {
			t.Errorf("MakeSafeQuery(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		content  string
		wantArgs []string
		wantMode Mode
	}{
		{"", nil, ModeCompact},
		{"pi", []string{"pi"}, ModeCompact},
		{"pi --full", []string{"pi"}, ModeFull},
		{"pi --FULL", []string{"pi"}, ModeFull},
		{"pi --image", []string{"pi"}, ModeImage},
		{"--full pi", []string{"--full", "pi"}, ModeCompact},
		{"--full", []string{}, ModeFull},
	}

	for _, tt := range tests {
		args, mode := ParseArgs(strings.Fields(tt.content))
		if diff := cmp.Diff(tt.wantArgs, args, cmpEmptySlices); diff != "" || mode != tt.wantMode {
			t.Errorf("ParseArgs(%q) = %q %v, want %q %v", tt.content, args, mode, tt.wantArgs, tt.wantMode)
		}
	}
}

var cmpEmptySlices = cmp.Comparer(func(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
})
