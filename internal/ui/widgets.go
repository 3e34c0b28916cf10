package ui

import (
	"sync"

	"cheesefinder/internal/pipeline"
)

// textField adapts the text input to the pipeline's TextField. The model
// calls setText after every keystroke that changed the value.
type textField struct {
	mu       sync.Mutex
	text     string
	watchers []pipeline.TextWatcher
}

func (f *textField) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

func (f *textField) AddTextChangedListener(w pipeline.TextWatcher) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watchers = append(f.watchers, w)
}

func (f *textField) RemoveTextChangedListener(w pipeline.TextWatcher) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.watchers {
		if existing == w {
			f.watchers = append(f.watchers[:i:i], f.watchers[i+1:]...)
			return
		}
	}
}

func (f *textField) listenerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers)
}

func (f *textField) setText(text string) {
	f.mu.Lock()
	if text == f.text {
		f.mu.Unlock()
		return
	}
	f.text = text
	watchers := make([]pipeline.TextWatcher, len(f.watchers))
	copy(watchers, f.watchers)
	f.mu.Unlock()

	for _, w := range watchers {
		w.OnTextChanged(text)
	}
}

// button adapts the search button to the pipeline's Button
type button struct {
	mu      sync.Mutex
	onClick func()
}

func (b *button) SetOnClickListener(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onClick = fn
}

func (b *button) hasListener() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.onClick != nil
}

// click returns false when nothing is listening
func (b *button) click() bool {
	b.mu.Lock()
	fn := b.onClick
	b.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}
