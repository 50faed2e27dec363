package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	for _, tt := range []struct {
		in  string
		out string
	}{
		{"  Sample Fic  ", "Sample Fic"},
		{"\n      Chapter 1: The Beginning\n    ", "Chapter 1: The Beginning"},
		{"spread\n  across\tlines", "spread across lines"},
		{"zero​width", "zerowidth"},
		{"", ""},
	} {
		require.Equal(t, tt.out, NormalizeText(tt.in))
	}
}
