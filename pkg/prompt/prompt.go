package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"wallfetch/pkg/config"
)

// Prompter asks questions on out and reads answers from in. Empty or
// unparsable answers fall back to the default instead of failing.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompter over the given streams
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Interactive reports whether stdin is a terminal a user can answer on
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readLine returns the trimmed answer. EOF with no input yields "".
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// String asks for free text, returning def on empty input
func (p *Prompter) String(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s (default: %s): ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}

	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Int asks for a non-negative integer, returning def on empty or invalid input
func (p *Prompter) Int(question string, def int) (int, error) {
	answer, err := p.String(question, strconv.Itoa(def))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 0 {
		fmt.Fprintf(p.out, "Invalid number %q, using %d\n", answer, def)
		return def, nil
	}
	return n, nil
}

// Choice asks for one of options (case-insensitive), returning def otherwise
func (p *Prompter) Choice(question string, options []string, def string) (string, error) {
	answer, err := p.String(fmt.Sprintf("%s (%s)", question, strings.Join(options, "/")), def)
	if err != nil {
		return "", err
	}
	for _, o := range options {
		if strings.EqualFold(answer, o) {
			return o, nil
		}
	}
	fmt.Fprintf(p.out, "Unknown choice %q, using %s\n", answer, def)
	return def, nil
}

// Confirm asks a yes/no question. Only "y" or "yes" confirm.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s (yes/no): ", question)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Fields names the download settings that were already supplied by flags,
// environment or config file and must not be asked for again
type Fields struct {
	Resolution    bool
	Mode          bool
	Keyword       bool
	MaxWallpapers bool
	Delay         bool
}

// FillDownload prompts for every download setting not marked as given,
// using the current value as the default. A keyword run with an empty keyword
// falls back to random mode and reports it via the returned warning.
func (p *Prompter) FillDownload(d *config.DownloadConfig, given Fields) (warning string, err error) {
	if !given.Resolution {
		res, err := p.String("Enter desired wallpaper resolution in WIDTHxHEIGHT format", d.Resolution)
		if err != nil {
			return "", err
		}
		if res != d.Resolution && !config.ValidResolution(res) {
			fmt.Fprintf(p.out, "Invalid resolution %q, using %s\n", res, d.Resolution)
		} else {
			d.Resolution = res
		}
	}

	if !given.Mode {
		mode, err := p.Choice("Enter your desired wallpaper type",
			[]string{string(config.ModeRandom), string(config.ModeKeyword)}, string(d.Mode))
		if err != nil {
			return "", err
		}
		d.Mode = config.Mode(mode)
	}

	if d.Mode == config.ModeKeyword && !given.Keyword {
		keyword, err := p.String("Please enter your desired wallpaper keyword", d.Keyword)
		if err != nil {
			return "", err
		}
		d.Keyword = keyword
	}
	if d.Mode == config.ModeKeyword && strings.TrimSpace(d.Keyword) == "" {
		d.Mode = config.ModeRandom
		d.Keyword = ""
		warning = "no keyword given, downloading random wallpapers instead"
	}
	if d.Mode == config.ModeRandom {
		d.Keyword = ""
	}

	if !given.MaxWallpapers {
		n, err := p.Int("Enter the maximum number of wallpapers to download", d.MaxWallpapers)
		if err != nil {
			return "", err
		}
		d.MaxWallpapers = n
	}

	if !given.Delay {
		n, err := p.Int("Enter the sleep duration in seconds between downloading wallpapers", d.DelaySeconds)
		if err != nil {
			return "", err
		}
		d.DelaySeconds = n
	}

	return warning, nil
}
