package md2docx_test

import (
	"bytes"
	"context"
	"fmt"

	md2docx "github.com/alnah/go-md2docx"
)

// Example demonstrates basic markdown to DOCX conversion.
// Documents without diagram blocks never touch the browser.
func Example() {
	conv := md2docx.NewConverter()
	defer conv.Close()

	result, err := conv.Convert(context.Background(), md2docx.Input{
		Markdown: "# Hello World\n\nThis is a test.",
		BaseName: "hello",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// DOCX files are ZIP archives.
	if bytes.HasPrefix(result.DOCX, []byte("PK")) {
		fmt.Println("generated", result.Filename)
	}
	// Output: generated hello.docx
}

// Example_pageSettings demonstrates custom page geometry.
func Example_pageSettings() {
	conv := md2docx.NewConverter()
	defer conv.Close()

	result, err := conv.Convert(context.Background(), md2docx.Input{
		Markdown: "# Report\n\nWide tables fit better in landscape.",
		BaseName: "report",
		Page: &md2docx.PageSettings{
			Size:        "a4",
			Orientation: "landscape",
			Margin:      1.0,
		},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("generated", result.Filename)
	// Output: generated report.docx
}

// Example_metadata demonstrates explicit document metadata.
func Example_metadata() {
	conv := md2docx.NewConverter()
	defer conv.Close()

	result, err := conv.Convert(context.Background(), md2docx.Input{
		Markdown: "Some body text without a heading.",
		BaseName: "minutes",
		Title:    "Meeting Minutes",
		Creator:  "Jane Doe",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("generated", result.Filename)
	// Output: generated minutes.docx
}
