// Package md2docx converts lightweight structured-text markup to Word
// documents, rendering embedded d2 diagram blocks to images along the way.
//
// # Quick Start
//
// Create a converter, convert markup, and close when done:
//
//	conv := md2docx.NewConverter()
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, md2docx.Input{
//	    Markdown: "# Hello\n\nWorld",
//	    BaseName: "hello",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(result.Filename, result.DOCX, 0644)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Block parsing (headings, lists, quotes, tables, fenced blocks)
//     with inline run parsing for text-bearing blocks
//  2. Diagram resolution: each ```d2 fence is compiled to SVG and
//     rasterized to PNG on an offscreen browser surface, strictly in
//     document order
//  3. Document model assembly (styled elements, page geometry)
//  4. Binary packaging as a Word document
//
// Parsing never fails, and a diagram that cannot be rendered degrades to
// a visible placeholder note; only packaging errors abort a conversion.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv := md2docx.NewConverter(
//	    md2docx.WithDiagramTimeout(10 * time.Second),
//	    md2docx.WithTheme(1),
//	)
//
// Per-conversion options are passed via Input:
//
//	result, err := conv.Convert(ctx, md2docx.Input{
//	    Markdown: content,
//	    BaseName: "report",
//	    Title:    "Quarterly Report",
//	    Page:     &md2docx.PageSettings{Size: "a4", Orientation: "portrait", Margin: 1.0},
//	})
//
// # Browser Requirements
//
// Diagram rasterization requires Chrome/Chromium. The go-rod library
// automatically downloads a managed Chromium instance on first run
// (~/.cache/rod/browser/). Use ROD_BROWSER_BIN to specify a custom
// Chrome binary; documents without diagram blocks never start a browser.
package md2docx
