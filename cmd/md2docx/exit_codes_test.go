package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unexpected", errors.New("boom"), ExitGeneral},
		{"missing file", os.ErrNotExist, ExitIO},
		{"read failure", fmt.Errorf("%w: notes.md", ErrReadMarkdown), ExitIO},
		{"write failure", ErrWriteDocument, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", fmt.Errorf("loading config: %w", config.ErrConfigParse), ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"bad extension", ErrInvalidExtension, ExitUsage},
		{"bad page size", md2docx.ErrInvalidPageSize, ExitUsage},
		{"bad orientation", md2docx.ErrInvalidOrientation, ExitUsage},
		{"bad margin", md2docx.ErrInvalidMargin, ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
