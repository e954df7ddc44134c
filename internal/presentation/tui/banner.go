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
	{`                 _                               _     `, "#34d399"},
	{`  _ __ ___  _  _| |_ __ _  __ _ _ __ __ _ _ __ | |__  `, "#2dd4bf"},
	{` | '_ ' _ \| || |  _/ _' |/ _' | '__/ _' | '_ \| '_ \ `, "#22d3ee"},
	{` | | | | | | || | || (_| | (_| | | | (_| | |_) | | | |`, "#38bdf8"},
	{` |_| |_| |_|\_,_|\__\__,_|\__, |_|  \__,_| .__/|_| |_|`, "#60a5fa"},
	{`                          |___/          |_|          `, "#818cf8"},
}

// PrintBanner writes the mutagraph banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}
