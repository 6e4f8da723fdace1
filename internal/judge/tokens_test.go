package judge

import (
	"strings"
	"testing"
)

func TestCountTokens(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		minExpected int
		maxExpected int
	}{
		{"empty string", "", 0, 0},
		{"single word", "hello", 1, 3},
		{"simple sentence", "Hello world!", 2, 5},
		{"longer text", "The quick brown fox jumps over the lazy dog.", 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CountTokens(tt.input)
			if result < tt.minExpected || result > tt.maxExpected {
				t.Errorf("CountTokens(%q) = %d, want between %d and %d",
					tt.input, result, tt.minExpected, tt.maxExpected)
			}
		})
	}
}

func TestSampleByTokens(t *testing.T) {
	t.Run("all lines fit", func(t *testing.T) {
		lines := []string{"first line", "second line"}
		got := SampleByTokens(lines, 1000)
		want := "first line\nsecond line"
		if got != want {
			t.Errorf("SampleByTokens() = %q, want %q", got, want)
		}
	})

	t.Run("budget truncates", func(t *testing.T) {
		lines := []string{
			"one two three four five",
			"six seven eight nine ten",
			"eleven twelve thirteen fourteen fifteen",
		}
		got := SampleByTokens(lines, 10)
		if got == "" {
			t.Fatal("expected at least one line in sample")
		}
		if strings.Contains(got, "eleven") {
			t.Errorf("SampleByTokens() = %q, expected last line dropped", got)
		}
	})

	t.Run("first line always included", func(t *testing.T) {
		lines := []string{"a line that alone already exceeds a tiny budget of tokens"}
		got := SampleByTokens(lines, 1)
		if got != lines[0] {
			t.Errorf("SampleByTokens() = %q, want first line kept", got)
		}
	})

	t.Run("zero budget", func(t *testing.T) {
		if got := SampleByTokens([]string{"anything"}, 0); got != "" {
			t.Errorf("SampleByTokens() = %q, want empty", got)
		}
	})
}
