package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner of long-running commands.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	colors := []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9"}
	lines := []string{
		`   _                                _   _               `,
		`  (_)___  ___  _ __  _ __   __ _| |_| |_ ___ _ __ _ __  `,
		`  | / __|/ _ \| '_ \| '_ \ / _' | __| __/ _ \ '__| '_ \ `,
		`  | \__ \ (_) | | | | |_) | (_| | |_| ||  __/ |  | | | |`,
		` _/ |___/\___/|_| |_| .__/ \__,_|\__|\__\___|_|  |_| |_|`,
		`|__/                |_|                                 `,
	}

	fmt.Fprintln(w)
	for i, line := range lines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(colors[i%len(colors)])))
	}
	fmt.Fprintf(w, "%s\n\n", out.String("  v"+version).Faint())
}
