package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner shown when a server starts.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                 _             _ ", "#818cf8"},
		{"  _ __   __ _ __| |_ _ __ ___ | |", "#a78bfa"},
		{" | '_ \\ / _` |_   _| '__/ _ \\| |", "#c084fc"},
		{" | |_) | (_| | | | | | | (_) | |", "#e879f9"},
		{" | .__/ \\__,_| |_| |_|  \\___/|_|", "#f472b6"},
		{" |_|                             ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
