package views

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func TestRenderShowsProgressInsteadOfSummary(t *testing.T) {
	r := NewRenderer()
	out := plain(r.Render(ViewState{
		Input:        "brie",
		ShowProgress: true,
		Spinner:      "*",
		HasResult:    true,
		Query:        "bri",
		Matches:      3,
	}))
	assert.Contains(t, out, "Searching...")
	assert.NotContains(t, out, "3 matches")
}

func TestRenderSummary(t *testing.T) {
	r := NewRenderer()
	out := plain(r.Render(ViewState{
		HasResult: true,
		Query:     "brie",
		Matches:   1,
		Took:      1500 * time.Microsecond,
		Results:   "  Brie",
	}))
	assert.Contains(t, out, `1 match for "brie"`)
	assert.Contains(t, out, "Brie")
	assert.NotContains(t, out, "__READY__")
}

func TestRenderReadyMarker(t *testing.T) {
	out := NewRenderer().Render(ViewState{ReadyMarker: true})
	assert.Contains(t, out, "__READY__")
}

func TestRenderResultsHighlightsAndEmptyState(t *testing.T) {
	r := NewRenderer()
	out := plain(r.RenderResults([]string{"Brie de Meaux", "Cheddar"}, "MEAUX"))
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Brie de Meaux")

	assert.Contains(t, plain(r.RenderResults(nil, "zzz")), "No cheese found")
}

func TestPlainResults(t *testing.T) {
	assert.Equal(t, "Results for \"ch\"\n\nCheddar\nCheshire\n", PlainResults([]string{"Cheddar", "Cheshire"}, "ch"))
}
