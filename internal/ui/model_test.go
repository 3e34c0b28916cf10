package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cheesefinder/internal/config"
	"cheesefinder/internal/engine"
	"cheesefinder/internal/eventbus"
	"cheesefinder/internal/scheduler"
	"cheesefinder/internal/stream/streamtest"
)

func newTestModel(t *testing.T) (*Model, *streamtest.ManualClock) {
	t.Helper()
	clock := streamtest.NewManualClock()
	cat := engine.Catalog{Names: []string{"Brie", "Brie de Meaux", "Cheddar", "Gouda", "Smoked Gouda"}}
	m := NewModel(Deps{
		Config:     config.DefaultConfig(),
		Searcher:   engine.NewSubstring(cat),
		Background: scheduler.Immediate,
		UI:         scheduler.Immediate,
		Clock:      clock,
		E2E:        true,
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Init()
	t.Cleanup(m.Close)
	return m, clock
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(m *Model, kt tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: kt})
	return cmd
}

func TestInitRegistersListeners(t *testing.T) {
	m, _ := newTestModel(t)
	assert.True(t, m.Active())
	assert.Equal(t, 1, m.field.listenerCount())
	assert.True(t, m.button.hasListener())
	assert.Contains(t, m.View(), "__READY__")
}

func TestTypingIsDebouncedBeforeSearch(t *testing.T) {
	m, clock := newTestModel(t)

	typeText(m, "bri")
	assert.Equal(t, "bri", m.field.Text())
	assert.False(t, m.hasResult)

	clock.Advance(999 * time.Millisecond)
	assert.False(t, m.hasResult)

	clock.Advance(time.Millisecond)
	require.True(t, m.hasResult)
	assert.Equal(t, "bri", m.result.Query)
	assert.Equal(t, []string{"Brie", "Brie de Meaux"}, m.result.Items)
	assert.False(t, m.progressVisible)
	assert.Contains(t, m.View(), "Brie de Meaux")
	assert.Contains(t, m.View(), `2 matches for "bri"`)
}

func TestSingleCharacterNeverSearches(t *testing.T) {
	m, clock := newTestModel(t)
	typeText(m, "g")
	clock.Advance(5 * time.Second)
	assert.False(t, m.hasResult)
}

func TestEnterSearchesImmediately(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "g")
	press(m, tea.KeyEnter)

	require.True(t, m.hasResult)
	assert.Equal(t, "g", m.result.Query)
	assert.Equal(t, []string{"Gouda", "Smoked Gouda"}, m.result.Items)
}

func TestButtonFocusAndSpace(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "ched")

	press(m, tea.KeyTab)
	assert.Equal(t, focusButton, m.focus)

	// runes do not reach the input while the button has focus
	typeText(m, "x")
	assert.Equal(t, "ched", m.field.Text())

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.True(t, m.hasResult)
	assert.Equal(t, []string{"Cheddar"}, m.result.Items)

	press(m, tea.KeyTab)
	assert.Equal(t, focusInput, m.focus)
}

func TestBlurStopsAndFocusRestarts(t *testing.T) {
	m, clock := newTestModel(t)

	m.Update(tea.BlurMsg{})
	assert.False(t, m.Active())
	assert.Equal(t, 0, m.field.listenerCount())
	assert.False(t, m.button.hasListener())

	typeText(m, "gouda")
	press(m, tea.KeyEnter)
	clock.Advance(2 * time.Second)
	assert.False(t, m.hasResult)

	m.Update(tea.BlurMsg{})
	m.Update(tea.FocusMsg{})
	m.Update(tea.FocusMsg{})
	assert.True(t, m.Active())
	assert.Equal(t, 1, m.field.listenerCount())

	press(m, tea.KeyEnter)
	require.True(t, m.hasResult)
	assert.Equal(t, "gouda", m.result.Query)
}

func TestConfiguredShortDebounceAndLengthAreUsed(t *testing.T) {
	clock := streamtest.NewManualClock()
	cfg := config.DefaultConfig()
	cfg.Search.DebounceMs = 1
	cfg.Search.MinQueryLength = 1
	m := NewModel(Deps{
		Config:     cfg,
		Searcher:   engine.NewSubstring(engine.Catalog{Names: []string{"Gouda", "Brie"}}),
		Background: scheduler.Immediate,
		UI:         scheduler.Immediate,
		Clock:      clock,
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Init()
	t.Cleanup(m.Close)

	typeText(m, "g")
	clock.Advance(time.Millisecond)
	require.True(t, m.hasResult)
	assert.Equal(t, []string{"Gouda"}, m.result.Items)
}

func TestHidingDuringSearchClearsProgress(t *testing.T) {
	clock := streamtest.NewManualClock()
	var held []func()
	m := NewModel(Deps{
		Config:     config.DefaultConfig(),
		Searcher:   engine.NewSubstring(engine.Catalog{Names: []string{"Brie"}}),
		Background: scheduler.Func(func(task func()) { held = append(held, task) }),
		UI:         scheduler.Immediate,
		Clock:      clock,
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Init()
	t.Cleanup(m.Close)

	typeText(m, "brie")
	press(m, tea.KeyEnter)
	require.True(t, m.progressVisible)
	require.Len(t, held, 1)

	m.Update(tea.BlurMsg{})
	assert.False(t, m.progressVisible)

	// the stale search finishes while hidden and its result is dropped
	held[0]()
	m.Update(tea.FocusMsg{})
	assert.False(t, m.hasResult)
	assert.False(t, m.progressVisible)
	assert.NotContains(t, m.View(), "Searching...")
}

func TestBlurDropsPendingDebounce(t *testing.T) {
	m, clock := newTestModel(t)
	typeText(m, "brie")
	m.Update(tea.BlurMsg{})
	clock.Advance(2 * time.Second)
	assert.False(t, m.hasResult)
	assert.Equal(t, 0, clock.Pending())
}

func TestQuitStopsPipeline(t *testing.T) {
	m, _ := newTestModel(t)
	cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.False(t, m.Active())
}

func TestPagerWithoutResultsSetsStatus(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, tea.KeyCtrlO)
	assert.Equal(t, "Nothing to page yet", m.statusMessage)
	assert.True(t, m.Active())
}

func TestPagerHidesScreenUntilItReturns(t *testing.T) {
	m, _ := newTestModel(t)
	typeText(m, "brie")
	press(m, tea.KeyEnter)
	require.True(t, m.hasResult)

	cmd := press(m, tea.KeyCtrlO)
	require.NotNil(t, cmd)
	assert.True(t, m.inPager)
	assert.False(t, m.Active())

	// focus changes while the pager owns the terminal are ignored
	m.Update(tea.FocusMsg{})
	assert.False(t, m.Active())

	m.Update(pagerDoneMsg{err: errNoProgram})
	assert.False(t, m.inPager)
	assert.True(t, m.Active())
	assert.True(t, m.statusIsError)
	assert.Contains(t, m.statusMessage, "program not set")
}

func TestUITaskMsgRunsInsideUpdate(t *testing.T) {
	m, _ := newTestModel(t)
	ran := false
	m.Update(uiTaskMsg(func() { ran = true }))
	assert.True(t, ran)
}

func TestEventsUpdateStatus(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(EventMsg{Event: eventbus.CatalogReloadedEvent{Path: "x", Items: 12}})
	assert.Equal(t, "Catalog reloaded: 12 cheeses", m.statusMessage)
	id := m.statusID

	m.Update(EventMsg{Event: eventbus.ErrorEvent{Message: "catalog reload failed"}})
	assert.True(t, m.statusIsError)

	// a stale clear does not wipe the newer message
	m.Update(clearStatusMsg{id: id})
	assert.Equal(t, "catalog reload failed", m.statusMessage)

	m.Update(clearStatusMsg{id: m.statusID})
	assert.Empty(t, m.statusMessage)
}

func TestShowProgressQueuesSpinnerOnce(t *testing.T) {
	m, _ := newTestModel(t)
	m.ShowProgress()
	m.ShowProgress()
	assert.Len(t, m.pending, 1)
	assert.Contains(t, m.View(), "Searching...")

	m.Update(uiTaskMsg(func() {}))
	assert.Empty(t, m.pending)

	m.HideProgress()
	assert.NotContains(t, m.View(), "Searching...")
}

func TestProgramSchedulerWithoutProgramDropsTasks(t *testing.T) {
	s := newProgramScheduler(testLogger())
	ran := make(chan struct{}, 1)
	s.Schedule(func() { ran <- struct{}{} })
	s.Close()

	select {
	case <-ran:
		t.Fatal("task ran without a program")
	default:
	}
}
