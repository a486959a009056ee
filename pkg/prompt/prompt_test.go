package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallfetch/pkg/config"
)

func newPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out), &out
}

func TestString(t *testing.T) {
	p, out := newPrompter("\n  mountains  \n")

	got, err := p.String("Keyword", "nature")
	require.NoError(t, err)
	assert.Equal(t, "nature", got)
	assert.Contains(t, out.String(), "Keyword (default: nature): ")

	got, err = p.String("Keyword", "nature")
	require.NoError(t, err)
	assert.Equal(t, "mountains", got)
}

func TestIntFallsBackOnInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "\n", 100},
		{"number", "25\n", 25},
		{"zero", "0\n", 0},
		{"garbage", "lots\n", 100},
		{"negative", "-3\n", 100},
		{"eof", "", 100},
		{"no trailing newline", "7", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newPrompter(tt.input)
			got, err := p.Int("Max", 100)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChoice(t *testing.T) {
	options := []string{"random", "keyword"}

	p, _ := newPrompter("KEYWORD\n")
	got, err := p.Choice("Type", options, "random")
	require.NoError(t, err)
	assert.Equal(t, "keyword", got)

	p, out := newPrompter("sometimes\n")
	got, err = p.Choice("Type", options, "random")
	require.NoError(t, err)
	assert.Equal(t, "random", got)
	assert.Contains(t, out.String(), `Unknown choice "sometimes"`)
}

func TestConfirm(t *testing.T) {
	for input, want := range map[string]bool{
		"yes\n": true,
		"Y\n":   true,
		"no\n":  false,
		"\n":    false,
		"yep\n": false,
	} {
		p, _ := newPrompter(input)
		got, err := p.Confirm("Delete 3 files?")
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestFillDownloadAsksEverything(t *testing.T) {
	d := config.DefaultConfig().Download
	p, _ := newPrompter("2560x1440\nkeyword\nnight sky\n5\n60\n")

	warning, err := p.FillDownload(&d, Fields{})
	require.NoError(t, err)
	assert.Empty(t, warning)

	assert.Equal(t, "2560x1440", d.Resolution)
	assert.Equal(t, config.ModeKeyword, d.Mode)
	assert.Equal(t, "night sky", d.Keyword)
	assert.Equal(t, 5, d.MaxWallpapers)
	assert.Equal(t, 60, d.DelaySeconds)
}

func TestFillDownloadDefaultsOnBadInput(t *testing.T) {
	d := config.DefaultConfig().Download
	p, _ := newPrompter("huge\nwhatever\nten\n\n")

	_, err := p.FillDownload(&d, Fields{})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultResolution, d.Resolution)
	assert.Equal(t, config.ModeRandom, d.Mode)
	assert.Empty(t, d.Keyword)
	assert.Equal(t, config.DefaultMaxWallpapers, d.MaxWallpapers)
	assert.Equal(t, config.DefaultDelaySeconds, d.DelaySeconds)
}

func TestFillDownloadEmptyKeywordFallsBackToRandom(t *testing.T) {
	d := config.DefaultConfig().Download
	p, _ := newPrompter("\nkeyword\n\n\n\n")

	warning, err := p.FillDownload(&d, Fields{})
	require.NoError(t, err)
	assert.NotEmpty(t, warning)
	assert.Equal(t, config.ModeRandom, d.Mode)
	assert.Empty(t, d.Keyword)
}

func TestFillDownloadSkipsGivenFields(t *testing.T) {
	d := config.DefaultConfig().Download
	d.Mode = config.ModeKeyword
	d.Keyword = "forest"
	d.MaxWallpapers = 3

	p, out := newPrompter("1280x720\n30\n")
	_, err := p.FillDownload(&d, Fields{Mode: true, Keyword: true, MaxWallpapers: true})
	require.NoError(t, err)

	assert.Equal(t, "1280x720", d.Resolution)
	assert.Equal(t, "forest", d.Keyword)
	assert.Equal(t, 3, d.MaxWallpapers)
	assert.Equal(t, 30, d.DelaySeconds)
	assert.NotContains(t, out.String(), "keyword")
}
