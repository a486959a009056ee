package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Banner is printed at startup
const Banner = `
 _      __     ____________      __       __
| | /| / /__ _/ / / __/ __/___  / /______/ /
| |/ |/ / _ '/ / / _// _// __/ / __/ __/ _ \
|__/|__/\_,_/_/_/_/ /___/\__/  \__/\__/_//_/
`

var (
	cyan    = lipgloss.Color("#00FFFF")
	yellow  = lipgloss.Color("#FFFF00")
	red     = lipgloss.Color("#FF5555")
	green   = lipgloss.Color("#39FF14")
	magenta = lipgloss.Color("#FF00FF")
	dim     = lipgloss.Color("#808080")
)

type console struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *lipgloss.Renderer
	quiet    bool
}

var screen = newConsole(os.Stdout)

func newConsole(w io.Writer) *console {
	return &console{out: w, renderer: lipgloss.NewRenderer(w)}
}

// SetOutput redirects all terminal output, mainly for tests
func SetOutput(w io.Writer) {
	screen.mu.Lock()
	defer screen.mu.Unlock()
	screen.out = w
	screen.renderer = lipgloss.NewRenderer(w)
}

// DisableColor forces plain output
func DisableColor() {
	screen.mu.Lock()
	defer screen.mu.Unlock()
	screen.renderer.SetColorProfile(termenv.Ascii)
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(quiet bool) {
	screen.mu.Lock()
	defer screen.mu.Unlock()
	screen.quiet = quiet
}

// IsQuietMode reports whether quiet mode is on
func IsQuietMode() bool {
	screen.mu.Lock()
	defer screen.mu.Unlock()
	return screen.quiet
}

func style(c lipgloss.Color) func(string) string {
	return func(text string) string {
		return screen.renderer.NewStyle().Foreground(c).Render(text)
	}
}

// Color helpers for inline text
var (
	Cyan    = style(cyan)
	Yellow  = style(yellow)
	Red     = style(red)
	Green   = style(green)
	Magenta = style(magenta)
	Dim     = style(dim)
)

func printLine(always bool, line string) {
	screen.mu.Lock()
	defer screen.mu.Unlock()
	if screen.quiet && !always {
		return
	}
	fmt.Fprintln(screen.out, line)
}

// PrintBanner prints the logo with the version and author underneath
func PrintBanner(version, author string) {
	box := screen.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(magenta).
		Padding(0, 2)

	body := lipgloss.JoinVertical(lipgloss.Left,
		Cyan(strings.Trim(Banner, "\n")),
		"",
		Green("Wallpaper v"+version),
		Magenta("Created by "+author),
	)
	printLine(false, box.Render(body))
}

// PrintError prints an error message in red. Errors are shown even in quiet mode.
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		printLine(true, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		printLine(true, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	printLine(false, Green(msg))
}

// PrintInfo prints a label/value pair
func PrintInfo(label string, value string) {
	printLine(false, fmt.Sprintf("%s: %s", Cyan(label), Yellow(value)))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		printLine(false, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		printLine(false, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	printLine(false, Magenta(msg))
}

// PrintPlain prints msg without styling
func PrintPlain(msg string) {
	printLine(false, msg)
}
