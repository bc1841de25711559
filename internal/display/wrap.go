package display

import "github.com/muesli/reflow/wordwrap"

const DefaultWidth = 80

// Wrap word-wraps text to width, preserving ANSI escape sequences.
func Wrap(text string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return wordwrap.String(text, width)
}
