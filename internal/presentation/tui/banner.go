package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{" _       _   _   _          ", "#34d399"},
	{"| | __ _| |_| |_(_) ___ ___ ", "#2dd4bf"},
	{"| |/ _` | __| __| |/ __/ _ \\", "#22d3ee"},
	{"| | (_| | |_| |_| | (_|  __/", "#38bdf8"},
	{"|_|\\__,_|\\__|\\__|_|\\___\\___|", "#60a5fa"},
}

// PrintBanner writes the lattice banner to w, colored for the terminal's profile.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}
