package md2docx

import (
	"errors"
	"testing"

	"github.com/alnah/go-md2docx/internal/docmodel"
)

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *PageSettings
		wantErr error
	}{
		{"nil means defaults", nil, nil},
		{"valid letter", &PageSettings{Size: "letter", Orientation: "portrait", Margin: 0.5}, nil},
		{"valid a4 landscape", &PageSettings{Size: "A4", Orientation: "Landscape", Margin: 1.0}, nil},
		{"unknown size", &PageSettings{Size: "tabloid", Orientation: "portrait", Margin: 0.5}, ErrInvalidPageSize},
		{"unknown orientation", &PageSettings{Size: "letter", Orientation: "diagonal", Margin: 0.5}, ErrInvalidOrientation},
		{"margin too small", &PageSettings{Size: "letter", Orientation: "portrait", Margin: 0.1}, ErrInvalidMargin},
		{"margin too large", &PageSettings{Size: "letter", Orientation: "portrait", Margin: 4}, ErrInvalidMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.page.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPageGeometry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		page *PageSettings
		want docmodel.Geometry
	}{
		{
			name: "nil defaults to letter portrait",
			page: nil,
			want: docmodel.Geometry{WidthTwips: 12240, HeightTwips: 15840, MarginTwips: 720},
		},
		{
			name: "a4 portrait",
			page: &PageSettings{Size: "a4", Orientation: "portrait", Margin: 1.0},
			want: docmodel.Geometry{WidthTwips: 11906, HeightTwips: 16838, MarginTwips: 1440},
		},
		{
			name: "letter landscape swaps dimensions",
			page: &PageSettings{Size: "letter", Orientation: "landscape", Margin: 0.5},
			want: docmodel.Geometry{WidthTwips: 15840, HeightTwips: 12240, MarginTwips: 720},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := pageGeometry(tt.page); got != tt.want {
				t.Errorf("pageGeometry() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWithDiagramTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithDiagramTimeout(0) should panic")
		}
	}()
	WithDiagramTimeout(0)
}
