// Package markup parses a lightweight structured-text markup into an
// ordered sequence of typed blocks, each carrying styled inline runs.
//
// Parsing is a single pass over input lines driven by a small state
// machine (outside any construct, inside a fenced block, inside a table).
// It never fails: malformed constructs degrade to the nearest safe block
// type instead of raising errors.
package markup

import (
	"regexp"
	"strings"
)

// Block is one structurally distinct unit of parsed document content.
type Block interface{ block() }

// Heading is a section heading, level 1 through 4.
type Heading struct {
	Level int
	Runs  []InlineRun
}

// Paragraph is a plain text-bearing block.
type Paragraph struct {
	Runs []InlineRun
}

// ListItem is one bulleted item. Level is derived from leading
// indentation, two spaces per level, capped at MaxListLevel.
type ListItem struct {
	Level int
	Runs  []InlineRun
}

// Blockquote is a quoted text block.
type Blockquote struct {
	Runs []InlineRun
}

// CodeBlock holds the raw lines of a fenced block, verbatim.
// Language is the fence tag, possibly empty.
type CodeBlock struct {
	Language string
	Lines    []string
}

// DiagramBlock holds a textual diagram description. Image is nil after
// parsing and is set exactly once when the rendering pipeline resolves
// the description to a bitmap; nil survives rendering when the diagram
// could not be drawn.
type DiagramBlock struct {
	Source string
	Image  *ImageData
}

// ImageData is a resolved diagram bitmap with its intrinsic pixel size.
type ImageData struct {
	PNG    []byte
	Width  int
	Height int
}

// Table holds rows of cell text. The first row is always the header.
type Table struct {
	Rows             [][]string
	FirstRowIsHeader bool
}

// HorizontalRule is a thematic break.
type HorizontalRule struct{}

// Blank is an empty line, preserved for spacing.
type Blank struct{}

func (*Heading) block()        {}
func (*Paragraph) block()      {}
func (*ListItem) block()       {}
func (*Blockquote) block()     {}
func (*CodeBlock) block()      {}
func (*DiagramBlock) block()   {}
func (*Table) block()          {}
func (*HorizontalRule) block() {}
func (*Blank) block()          {}

// MaxListLevel caps list indentation depth.
const MaxListLevel = 8

// fenceMarker opens and closes fenced blocks.
const fenceMarker = "```"

// diagramLanguage is the fence tag that marks diagram descriptions.
const diagramLanguage = "d2"

// parseState tracks the block parser's position in the line stream.
type parseState int

const (
	stateNormal parseState = iota
	stateFence
	stateTable
)

// Precompiled line patterns.
var (
	headingPattern = regexp.MustCompile(`^(#{1,4}) (.*)$`)
	bulletPattern  = regexp.MustCompile(`^( *)[-*+] (.*)$`)
	rulePattern    = regexp.MustCompile(`^-{3,}$`)
	crlfOrCR       = regexp.MustCompile(`\r\n?`)
	separatorCell  = regexp.MustCompile(`^:?-+:?$`)
)

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// blockParser accumulates state for one pass over input lines.
type blockParser struct {
	blocks []Block

	state     parseState
	fenceLang string
	fenceBuf  []string
	tableRows [][]string
}

// ParseBlocks consumes the full document line by line and emits an ordered
// block sequence. It always returns at least one block: empty input yields
// a single placeholder paragraph so downstream stages never see an empty
// document.
func ParseBlocks(content string) []Block {
	content = NormalizeLineEndings(content)
	if content == "" {
		return []Block{&Paragraph{Runs: []InlineRun{{Kind: RunText, Text: " "}}}}
	}

	lines := strings.Split(content, "\n")
	// A trailing newline is a line terminator, not an extra blank line.
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	p := &blockParser{}
	for _, line := range lines {
		p.feed(line)
	}
	// An unterminated fence or table at end of input is treated as closed.
	p.closeFence()
	p.closeTable()

	if len(p.blocks) == 0 {
		return []Block{&Paragraph{Runs: []InlineRun{{Kind: RunText, Text: " "}}}}
	}
	return p.blocks
}

// feed dispatches one line according to the current state.
func (p *blockParser) feed(line string) {
	trimmed := strings.TrimSpace(line)

	switch p.state {
	case stateFence:
		if strings.HasPrefix(trimmed, fenceMarker) {
			p.closeFence()
			return
		}
		// Fence content accumulates verbatim, no inline parsing.
		p.fenceBuf = append(p.fenceBuf, line)
		return

	case stateTable:
		if strings.HasPrefix(trimmed, "|") {
			p.feedTableRow(trimmed)
			return
		}
		// First non-table-row line ends the table; reprocess it as normal.
		p.closeTable()
		p.feed(line)
		return
	}

	// stateNormal
	if strings.HasPrefix(trimmed, fenceMarker) {
		p.state = stateFence
		p.fenceLang = strings.TrimSpace(strings.TrimPrefix(trimmed, fenceMarker))
		p.fenceBuf = nil
		return
	}
	if strings.HasPrefix(trimmed, "|") {
		p.state = stateTable
		p.tableRows = nil
		p.feedTableRow(trimmed)
		return
	}

	switch {
	case trimmed == "":
		p.blocks = append(p.blocks, &Blank{})
	case rulePattern.MatchString(trimmed):
		p.blocks = append(p.blocks, &HorizontalRule{})
	default:
		p.feedTextLine(line, trimmed)
	}
}

// feedTextLine classifies a non-structural line by prefix, in priority
// order: heading, bullet, blockquote, paragraph.
func (p *blockParser) feedTextLine(line, trimmed string) {
	if m := headingPattern.FindStringSubmatch(trimmed); m != nil {
		p.blocks = append(p.blocks, &Heading{
			Level: len(m[1]),
			Runs:  ParseInline(m[2]),
		})
		return
	}
	if m := bulletPattern.FindStringSubmatch(line); m != nil {
		level := len(m[1]) / 2
		if level > MaxListLevel {
			level = MaxListLevel
		}
		p.blocks = append(p.blocks, &ListItem{
			Level: level,
			Runs:  ParseInline(m[2]),
		})
		return
	}
	if strings.HasPrefix(trimmed, ">") {
		text := strings.TrimPrefix(strings.TrimPrefix(trimmed, ">"), " ")
		p.blocks = append(p.blocks, &Blockquote{Runs: ParseInline(text)})
		return
	}
	p.blocks = append(p.blocks, &Paragraph{Runs: ParseInline(line)})
}

// closeFence flushes an open fenced block. The language tag captured on
// entry determines whether the content becomes code or a diagram.
func (p *blockParser) closeFence() {
	if p.state != stateFence {
		return
	}
	if p.fenceLang == diagramLanguage {
		p.blocks = append(p.blocks, &DiagramBlock{
			Source: strings.Join(p.fenceBuf, "\n"),
		})
	} else {
		lines := p.fenceBuf
		if lines == nil {
			lines = []string{}
		}
		p.blocks = append(p.blocks, &CodeBlock{
			Language: p.fenceLang,
			Lines:    lines,
		})
	}
	p.state = stateNormal
	p.fenceLang = ""
	p.fenceBuf = nil
}

// feedTableRow splits one |-delimited line into cells. Separator rows
// (dashes with optional alignment colons) are recognized and dropped.
func (p *blockParser) feedTableRow(trimmed string) {
	inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "|"), "|")
	parts := strings.Split(inner, "|")
	cells := make([]string, len(parts))
	separator := true
	for i, part := range parts {
		cells[i] = strings.TrimSpace(part)
		if !separatorCell.MatchString(cells[i]) {
			separator = false
		}
	}
	if separator {
		return
	}
	p.tableRows = append(p.tableRows, cells)
}

// closeTable flushes accumulated rows as one table block. A table that
// lost all data rows to the separator still emits with just its header.
func (p *blockParser) closeTable() {
	if p.state != stateTable {
		return
	}
	if len(p.tableRows) > 0 {
		p.blocks = append(p.blocks, &Table{
			Rows:             p.tableRows,
			FirstRowIsHeader: true,
		})
	}
	p.state = stateNormal
	p.tableRows = nil
}
