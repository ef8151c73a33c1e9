// Package suggest implements debounced ghost-text autocomplete for a
// single text input.
package suggest

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Dattachavhan/todo-ai/internal/domain"
)

// DefaultDebounce is how long typing must pause before a completion is
// requested.
const DefaultDebounce = 500 * time.Millisecond

// State describes whether a field is waiting on anything.
type State int

const (
	// Idle: no timer armed and no completion in flight.
	Idle State = iota
	// Pending: waiting for typing to settle or for the completer.
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Options configures a Field.
type Options struct {
	// Name identifies the field in logs and events ("title", "description").
	Name     string
	Debounce time.Duration
	Logger   *slog.Logger
	Bus      domain.EventBus
	Clock    Clock
	// OnChange is called, outside the field's lock, whenever the displayed
	// suggestion changes.
	OnChange func(suggestion string)
}

// Field holds one input's text and its ghost suggestion.
//
// Every keystroke clears the suggestion and restarts the debounce timer.
// When the timer fires, the settled text is dropped if it equals the
// previously settled text. Otherwise it supersedes any earlier request:
// empty text resolves to no suggestion at once, anything else goes to the
// completer. Only the latest request's answer may be shown, and only while
// the input still holds the text it was computed for.
type Field struct {
	completer domain.Completer
	opts      Options

	mu         sync.Mutex
	value      string
	suggestion string

	timer       Timer
	debounceGen uint64

	lastStable string
	hasStable  bool

	seq      uint64
	inFlight context.CancelFunc

	closed bool
	wg     sync.WaitGroup
}

// NewField creates a field backed by completer.
func NewField(completer domain.Completer, opts Options) *Field {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	return &Field{completer: completer, opts: opts}
}

// OnTyping records a keystroke-level change of the input text.
func (f *Field) OnTyping(text string) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.value = text
	cleared := f.suggestion != ""
	f.suggestion = ""
	f.armLocked(text)
	f.mu.Unlock()

	if cleared {
		f.notify("")
	}
}

func (f *Field) armLocked(text string) {
	if f.timer != nil {
		f.timer.Stop()
	}
	f.debounceGen++
	gen := f.debounceGen
	f.timer = f.opts.Clock.AfterFunc(f.opts.Debounce, func() { f.settle(gen, text) })
}

// settle runs when typing has paused for the debounce window.
func (f *Field) settle(gen uint64, text string) {
	f.mu.Lock()
	if f.closed || gen != f.debounceGen {
		f.mu.Unlock()
		return
	}
	f.wg.Add(1)
	defer f.wg.Done()
	f.timer = nil

	if f.hasStable && text == f.lastStable {
		f.mu.Unlock()
		f.opts.Logger.Debug("suggestion request suppressed, text unchanged", "field", f.opts.Name)
		return
	}
	f.lastStable = text
	f.hasStable = true
	f.seq++
	seq := f.seq
	f.cancelInFlightLocked()

	if text == "" {
		changed := f.suggestion != ""
		f.suggestion = ""
		f.mu.Unlock()
		if changed {
			f.notify("")
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.inFlight = cancel
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		defer cancel()
		result := f.completer.Complete(ctx, text)
		f.resolve(seq, text, result)
	}()
}

func (f *Field) resolve(seq uint64, text, result string) {
	f.mu.Lock()
	if f.closed || seq != f.seq {
		f.mu.Unlock()
		f.opts.Logger.Debug("stale suggestion dropped", "field", f.opts.Name)
		return
	}
	f.inFlight = nil
	if f.value != text {
		f.mu.Unlock()
		f.opts.Logger.Debug("suggestion dropped, input moved on", "field", f.opts.Name)
		return
	}
	f.suggestion = Normalize(text, result)
	s := f.suggestion
	f.mu.Unlock()

	f.notify(s)
}

// Normalize turns a raw completion for text into a displayable suffix.
// Empty text or an empty result yields no suggestion. A result that does
// not already start with a space or comma gets a single leading space.
func Normalize(text, result string) string {
	if text == "" || result == "" {
		return ""
	}
	if strings.HasPrefix(result, " ") || strings.HasPrefix(result, ",") {
		return result
	}
	return " " + result
}

// Accept appends the current suggestion to the input. It reports false,
// changing nothing, when there is no suggestion. Accepting does not count
// as typing and requests nothing new.
func (f *Field) Accept() bool {
	f.mu.Lock()
	if f.suggestion == "" {
		f.mu.Unlock()
		return false
	}
	f.value += f.suggestion
	f.suggestion = ""
	f.mu.Unlock()

	f.notify("")
	return true
}

// SetValue replaces the input text without requesting a suggestion, as when
// a form is preloaded for editing.
func (f *Field) SetValue(text string) {
	f.mu.Lock()
	f.value = text
	f.mu.Unlock()
}

// ClearSuggestion hides the suggestion and abandons any pending or
// in-flight request.
func (f *Field) ClearSuggestion() {
	f.mu.Lock()
	changed := f.clearLocked()
	f.mu.Unlock()
	if changed {
		f.notify("")
	}
}

// Reset clears the input as well, and forgets the last settled text so the
// next session of typing starts fresh.
func (f *Field) Reset() {
	f.mu.Lock()
	changed := f.clearLocked()
	f.value = ""
	f.lastStable = ""
	f.hasStable = false
	f.mu.Unlock()
	if changed {
		f.notify("")
	}
}

func (f *Field) clearLocked() bool {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.debounceGen++
	f.seq++
	f.cancelInFlightLocked()
	changed := f.suggestion != ""
	f.suggestion = ""
	return changed
}

func (f *Field) cancelInFlightLocked() {
	if f.inFlight != nil {
		f.inFlight()
		f.inFlight = nil
	}
}

// Close stops the timer, cancels the in-flight request and waits for it to
// return, so no notification is delivered after Close. Later input is
// ignored. It must not be called from OnChange.
func (f *Field) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.cancelInFlightLocked()
	f.mu.Unlock()

	f.wg.Wait()
}

// Value returns the input text.
func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Suggestion returns the ghost text currently shown after the input.
func (f *Field) Suggestion() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.suggestion
}

// State reports whether the field is waiting on the timer or the completer.
func (f *Field) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil || f.inFlight != nil {
		return Pending
	}
	return Idle
}

// Name returns the field name.
func (f *Field) Name() string { return f.opts.Name }

func (f *Field) notify(suggestion string) {
	if f.opts.OnChange != nil {
		f.opts.OnChange(suggestion)
	}
	if f.opts.Bus != nil {
		f.opts.Bus.Publish(context.Background(), domain.NewEvent(domain.EventSuggestionUpdated, "",
			domain.SuggestionPayload{Field: f.opts.Name, Suggestion: suggestion}))
	}
}
