// Package tui provides the Bubble Tea rating interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText word-wraps text to the given display width, preferring to
// break at spaces. Existing newlines are kept.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	paragraphs := strings.Split(text, "\n")
	for i, p := range paragraphs {
		paragraphs[i] = wrapLine(p, width)
	}
	return strings.Join(paragraphs, "\n")
}

type measuredRune struct {
	r       rune
	width   int
	isSpace bool
}

// runLine is the line currently being assembled.
type runLine []measuredRune

func (l runLine) text() string {
	var b strings.Builder
	for _, item := range l {
		b.WriteRune(item.r)
	}
	return b.String()
}

func (l runLine) width() int {
	total := 0
	for _, item := range l {
		total += item.width
	}
	return total
}

func (l runLine) lastSpace() int {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].isSpace {
			return i
		}
	}
	return -1
}

func wrapLine(text string, width int) string {
	var out strings.Builder
	var line runLine
	lineWidth := 0

	for _, r := range text {
		item := measuredRune{r: r, width: runewidth.RuneWidth(r), isSpace: r == ' '}
		for lineWidth+item.width > width && len(line) > 0 {
			if cut := line.lastSpace(); cut >= 0 {
				out.WriteString(line[:cut].text())
				line = append(runLine{}, line[cut+1:]...)
			} else {
				out.WriteString(line.text())
				line = line[:0]
			}
			out.WriteRune('\n')
			lineWidth = line.width()
		}
		line = append(line, item)
		lineWidth += item.width
	}
	out.WriteString(line.text())
	return out.String()
}
