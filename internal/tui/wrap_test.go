package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestHighlightCursor(t *testing.T) {
	cells := highlight([]rune("ab"), []rune("a"), 1)
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if cells[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if cells[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected underlined current word style at cursor")
	}
}

func TestHighlightNoCursorWhenDone(t *testing.T) {
	cells := highlight([]rune("a"), []rune("a"), -1)
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if cells[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestHighlightKeepsReferenceOnMistype(t *testing.T) {
	cells := highlight([]rune("ab"), []rune("ax"), 2)
	if cells[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style showing the reference rune")
	}
}

func TestHighlightCurrentWord(t *testing.T) {
	cells := highlight([]rune("one two"), []rune("o"), 1)
	if cells[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style inside the current word")
	}
	if cells[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for the next word")
	}
}

func TestHighlightWrongSpace(t *testing.T) {
	cells := highlight([]rune("a b"), []rune("ax"), 2)
	if cells[1].s != incorrectStyle.Render("·") {
		t.Fatalf("expected a marked space for a mistyped space")
	}
}

func TestHighlightOverflow(t *testing.T) {
	cells := highlight([]rune("ab"), []rune("abcd"), -1)
	if len(cells) != 4 {
		t.Fatalf("expected overflow cells, got %d", len(cells))
	}
	if cells[2].s != overflowStyle.Render("c") || cells[3].s != overflowStyle.Render("d") {
		t.Fatalf("expected overflow style past the reference")
	}
}

func TestWrapCellsBreaksAtSpaces(t *testing.T) {
	cells := highlight([]rune("aaa bbb ccc"), nil, -1)
	out := wrapCells(cells, 7)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	for _, line := range lines {
		if w := lipgloss.Width(line); w > 7 {
			t.Fatalf("line wider than 7: %d", w)
		}
	}
}

func TestWrapCellsSplitsLongWords(t *testing.T) {
	cells := highlight([]rune("abcdefgh"), nil, -1)
	lines := strings.Split(wrapCells(cells, 3), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}

func TestWrapCellsWideRunes(t *testing.T) {
	cells := highlight([]rune("日本語 日本語"), nil, -1)
	for _, line := range strings.Split(wrapCells(cells, 6), "\n") {
		if w := lipgloss.Width(line); w > 6 {
			t.Fatalf("line wider than 6: %d", w)
		}
	}
}
