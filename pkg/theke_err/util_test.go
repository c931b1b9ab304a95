// pkg/theke_err/util_test.go

package theke_err

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"empty output", "", "No output provided."},
		{"whitespace only", "   \n\t  ", "No output provided."},
		{
			"prefers failure lines",
			"starting unit\nError: bind to 0.0.0.0:9000 failed\ndone",
			"Error: bind to 0.0.0.0:9000 failed",
		},
		{
			"joins multiple failure lines",
			"error: one\nerror: two",
			"error: one - error: two",
		},
		{
			"caps candidates",
			"error: one\nerror: two\nerror: three",
			"error: one - error: two",
		},
		{
			"falls back to first non-empty line",
			"\n\njob finished\nall good",
			"job finished",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractSummary(tt.output, 2))
		})
	}
}
