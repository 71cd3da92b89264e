package markup

import "regexp"

// RunKind identifies the style of an inline run.
type RunKind int

// Inline run kinds, in matching priority order.
const (
	RunText RunKind = iota
	RunBoldItalic
	RunBold
	RunItalic
	RunCode
	RunLink
	RunStrikethrough
)

// InlineRun is one styled span of text within a block. For RunLink, Text
// holds the visible label and URL the link target; URL is empty otherwise.
//
// Concatenating the Text of all runs produced for a line reproduces that
// line verbatim, minus the markup delimiters.
type InlineRun struct {
	Kind RunKind
	Text string
	URL  string
}

// inlinePattern matches all inline markup in one pass. Alternation order
// encodes priority: Go's regexp uses leftmost-first semantics, so at any
// position ***x*** wins over **x**, which wins over *x*. Delimited content
// must be non-empty; an unmatched opener simply never matches and falls
// through as literal text.
var inlinePattern = regexp.MustCompile(
	`\*\*\*([^*]+)\*\*\*` + // bold+italic
		`|\*\*([^*]+)\*\*` + // bold
		`|\*([^*]+)\*` + // italic
		"|`([^`]+)`" + // inline code
		`|\[([^\]]+)\]\(([^)]+)\)` + // link
		`|~~([^~]+)~~`, // strikethrough
)

// Submatch group offsets into inlinePattern's match indices.
var inlineGroups = []struct {
	group int
	kind  RunKind
}{
	{1, RunBoldItalic},
	{2, RunBold},
	{3, RunItalic},
	{4, RunCode},
	{5, RunLink},
	{7, RunStrikethrough},
}

const linkURLGroup = 6

// ParseInline tokenizes one line of text into ordered styled runs. It never
// fails: text with no (or malformed) markup comes back as a single Text run,
// and every input character lands in exactly one run.
func ParseInline(line string) []InlineRun {
	if line == "" {
		return nil
	}

	matches := inlinePattern.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return []InlineRun{{Kind: RunText, Text: line}}
	}

	runs := make([]InlineRun, 0, len(matches)*2+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			runs = append(runs, InlineRun{Kind: RunText, Text: line[last:m[0]]})
		}
		for _, g := range inlineGroups {
			start, end := m[2*g.group], m[2*g.group+1]
			if start < 0 {
				continue
			}
			run := InlineRun{Kind: g.kind, Text: line[start:end]}
			if g.kind == RunLink {
				run.URL = line[m[2*linkURLGroup]:m[2*linkURLGroup+1]]
			}
			runs = append(runs, run)
			break
		}
		last = m[1]
	}
	if last < len(line) {
		runs = append(runs, InlineRun{Kind: RunText, Text: line[last:]})
	}
	return runs
}

// PlainText concatenates the visible text of runs, discarding style.
func PlainText(runs []InlineRun) string {
	var out string
	for _, r := range runs {
		out += r.Text
	}
	return out
}
