package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	s       string
	width   int
	isSpace bool
}

// highlight renders the reference rune by rune against the typed input.
// Typed runes past the end of the reference are appended as overflow.
func highlight(reference, input []rune, cursor int) []cell {
	words := wordSpans(reference)
	current := spanAt(words, cursor)

	out := make([]cell, 0, max(len(reference), len(input)))
	for i, want := range reference {
		shown := want
		style := pendingStyle
		if i < len(input) {
			switch {
			case input[i] == want:
				style = correctStyle
			case want == ' ':
				shown = '·'
				style = incorrectStyle
			default:
				style = incorrectStyle
			}
		} else if current != nil && i >= current.start && i < current.end {
			style = currentWordStyle
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out = append(out, cell{
			s:       style.Render(string(shown)),
			width:   runewidth.RuneWidth(shown),
			isSpace: want == ' ',
		})
	}
	for _, extra := range input[min(len(input), len(reference)):] {
		shown := extra
		if extra == ' ' {
			shown = '·'
		}
		out = append(out, cell{
			s:     overflowStyle.Render(string(shown)),
			width: runewidth.RuneWidth(shown),
		})
	}
	return out
}

type span struct {
	start int
	end   int
}

func wordSpans(reference []rune) []span {
	var spans []span
	start := -1
	for i, r := range reference {
		if r == ' ' {
			if start != -1 {
				spans = append(spans, span{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		spans = append(spans, span{start: start, end: len(reference)})
	}
	return spans
}

func spanAt(spans []span, cursor int) *span {
	if cursor < 0 {
		return nil
	}
	for i := range spans {
		if cursor < spans[i].end {
			return &spans[i]
		}
	}
	return nil
}

func joinCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.s)
	}
	return b.String()
}

// wrapCells breaks cells into lines no wider than width, preferring spaces.
func wrapCells(cells []cell, width int) string {
	if width <= 0 {
		return joinCells(cells)
	}
	var lines []string
	var line []cell
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(cells); {
		c := cells[i]
		if lineWidth+c.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				lines = append(lines, joinCells(line[:lastSpace]))
				line = append([]cell(nil), line[lastSpace+1:]...)
			} else {
				lines = append(lines, joinCells(line))
				line = nil
			}
			lineWidth = 0
			lastSpace = -1
			for j, rest := range line {
				lineWidth += rest.width
				if rest.isSpace {
					lastSpace = j
				}
			}
			continue
		}
		line = append(line, c)
		lineWidth += c.width
		if c.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	lines = append(lines, joinCells(line))
	return strings.Join(lines, "\n")
}
