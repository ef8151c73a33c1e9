package suggest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dattachavhan/todo-ai/internal/domain"
)

// manualClock fires timers only when told to.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	f       func()
	d       time.Duration
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, f: f, d: d}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fire runs every armed timer.
func (c *manualClock) fire() {
	c.mu.Lock()
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()
	for _, f := range due {
		f()
	}
}

// fireStale runs a timer even if it was stopped, as a real timer may when
// Stop races with expiry.
func (c *manualClock) fireStale(i int) {
	c.mu.Lock()
	t := c.timers[i]
	c.mu.Unlock()
	t.f()
}

func (c *manualClock) armed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type call struct {
	ctx  context.Context
	text string
}

// gatedCompleter blocks each request until its reply is released.
type gatedCompleter struct {
	mu      sync.Mutex
	calls   []call
	replies map[string]chan string
}

func newGatedCompleter() *gatedCompleter {
	return &gatedCompleter{replies: make(map[string]chan string)}
}

func (g *gatedCompleter) reply(text string) chan string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.replies[text]
	if !ok {
		ch = make(chan string, 1)
		g.replies[text] = ch
	}
	return ch
}

func (g *gatedCompleter) Complete(ctx context.Context, text string) string {
	g.mu.Lock()
	g.calls = append(g.calls, call{ctx: ctx, text: text})
	g.mu.Unlock()
	return <-g.reply(text)
}

func (g *gatedCompleter) texts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.calls))
	for i, c := range g.calls {
		out[i] = c.text
	}
	return out
}

func (g *gatedCompleter) waitCalls(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return len(g.texts()) >= n }, time.Second, time.Millisecond)
}

// fixedCompleter answers immediately.
type fixedCompleter struct {
	mu     sync.Mutex
	result string
	texts  []string
}

func (f *fixedCompleter) Complete(_ context.Context, text string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return f.result
}

func (f *fixedCompleter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

func newTestField(c domain.Completer) (*Field, *manualClock) {
	clock := &manualClock{}
	return NewField(c, Options{Name: "title", Clock: clock}), clock
}

func TestDebounceRequestsOnlyLastValue(t *testing.T) {
	comp := &fixedCompleter{result: "and eggs"}
	f, clock := newTestField(comp)

	f.OnTyping("B")
	f.OnTyping("Bu")
	f.OnTyping("Buy milk")
	assert.Equal(t, Pending, f.State())
	assert.Equal(t, 1, clock.armed())

	clock.fire()
	f.wg.Wait()

	assert.Equal(t, []string{"Buy milk"}, comp.texts)
	assert.Equal(t, " and eggs", f.Suggestion())
	assert.Equal(t, Idle, f.State())
}

func TestDefaultDebounceWindow(t *testing.T) {
	clock := &manualClock{}
	f := NewField(&fixedCompleter{}, Options{Clock: clock})
	f.OnTyping("x")

	require.Len(t, clock.timers, 1)
	assert.Equal(t, 500*time.Millisecond, clock.timers[0].d)
}

func TestStoppedTimerCallbackIsIgnored(t *testing.T) {
	comp := &fixedCompleter{result: "x"}
	f, clock := newTestField(comp)

	f.OnTyping("first value")
	f.OnTyping("second value")
	clock.fireStale(0)
	f.wg.Wait()

	assert.Zero(t, comp.count())
}

func TestSupersededResponseIsDropped(t *testing.T) {
	for _, order := range []string{"old-first", "new-first"} {
		t.Run(order, func(t *testing.T) {
			comp := newGatedCompleter()
			f, clock := newTestField(comp)

			f.OnTyping("Buy groceries")
			clock.fire()
			comp.waitCalls(t, 1)

			f.OnTyping("Buy groceries at")
			clock.fire()
			comp.waitCalls(t, 2)

			if order == "old-first" {
				comp.reply("Buy groceries") <- "for dinner"
				comp.reply("Buy groceries at") <- "the store"
			} else {
				comp.reply("Buy groceries at") <- "the store"
				comp.reply("Buy groceries") <- "for dinner"
			}
			f.wg.Wait()

			assert.Equal(t, " the store", f.Suggestion())
		})
	}
}

func TestSupersedingCancelsInFlightRequest(t *testing.T) {
	comp := newGatedCompleter()
	f, clock := newTestField(comp)

	f.OnTyping("Write the report")
	clock.fire()
	comp.waitCalls(t, 1)

	f.OnTyping("Write the reports")
	clock.fire()
	comp.waitCalls(t, 2)

	comp.mu.Lock()
	first := comp.calls[0].ctx
	comp.mu.Unlock()
	assert.ErrorIs(t, first.Err(), context.Canceled)

	comp.reply("Write the report") <- ""
	comp.reply("Write the reports") <- ""
	f.wg.Wait()
}

func TestResultDroppedWhenInputMovedOn(t *testing.T) {
	comp := newGatedCompleter()
	f, clock := newTestField(comp)

	f.OnTyping("Call the plumber")
	clock.fire()
	comp.waitCalls(t, 1)

	f.OnTyping("Call the plumber x")
	comp.reply("Call the plumber") <- "tomorrow"
	f.wg.Wait()

	assert.Empty(t, f.Suggestion())
}

func TestUnchangedSettledTextIsSuppressed(t *testing.T) {
	comp := &fixedCompleter{result: "today"}
	f, clock := newTestField(comp)

	f.OnTyping("Water the plants")
	clock.fire()
	f.wg.Wait()
	require.Equal(t, 1, comp.count())

	f.OnTyping("Water the plantsx")
	f.OnTyping("Water the plants")
	clock.fire()
	f.wg.Wait()

	assert.Equal(t, 1, comp.count())
	assert.Empty(t, f.Suggestion())
}

func TestEmptyTextResolvesWithoutRequest(t *testing.T) {
	comp := &fixedCompleter{result: "anything"}
	f, clock := newTestField(comp)

	f.OnTyping("")
	clock.fire()
	f.wg.Wait()

	assert.Zero(t, comp.count())
	assert.Empty(t, f.Suggestion())
	assert.Equal(t, Idle, f.State())
}

func TestEmptyTextSupersedesInFlight(t *testing.T) {
	comp := newGatedCompleter()
	f, clock := newTestField(comp)

	f.OnTyping("Pay rent")
	clock.fire()
	comp.waitCalls(t, 1)

	f.OnTyping("")
	clock.fire()
	comp.reply("Pay rent") <- "on Friday"
	f.wg.Wait()

	assert.Empty(t, f.Suggestion())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		text, result, want string
	}{
		{"Buy milk", "and eggs", " and eggs"},
		{"Buy milk", " and eggs", " and eggs"},
		{"Buy milk", ", eggs and bread", ", eggs and bread"},
		{"Buy milk", "", ""},
		{"", "and eggs", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.text, tt.result), "Normalize(%q, %q)", tt.text, tt.result)
	}
}

func TestTypingClearsSuggestion(t *testing.T) {
	var changes []string
	clock := &manualClock{}
	f := NewField(&fixedCompleter{result: "tonight"}, Options{
		Clock:    clock,
		OnChange: func(s string) { changes = append(changes, s) },
	})

	f.OnTyping("Finish the slides")
	clock.fire()
	f.wg.Wait()
	require.Equal(t, " tonight", f.Suggestion())

	f.OnTyping("Finish the slides f")
	assert.Empty(t, f.Suggestion())
	assert.Equal(t, []string{" tonight", ""}, changes)
}

func TestAccept(t *testing.T) {
	comp := &fixedCompleter{result: "and eggs"}
	f, clock := newTestField(comp)

	assert.False(t, f.Accept(), "no suggestion to accept")

	f.OnTyping("Buy milk and bread")
	clock.fire()
	f.wg.Wait()

	assert.True(t, f.Accept())
	assert.Equal(t, "Buy milk and bread and eggs", f.Value())
	assert.Empty(t, f.Suggestion())
	assert.Zero(t, clock.armed(), "accepting does not restart the debounce")
	assert.Equal(t, 1, comp.count())
}

func TestResetForgetsSettledText(t *testing.T) {
	comp := &fixedCompleter{result: "soon"}
	f, clock := newTestField(comp)

	f.OnTyping("Renew the passport")
	clock.fire()
	f.wg.Wait()

	f.Reset()
	assert.Empty(t, f.Value())
	assert.Empty(t, f.Suggestion())

	f.OnTyping("Renew the passport")
	clock.fire()
	f.wg.Wait()
	assert.Equal(t, 2, comp.count())
}

func TestClearSuggestionDropsInFlight(t *testing.T) {
	comp := newGatedCompleter()
	f, clock := newTestField(comp)

	f.OnTyping("Book the flights")
	clock.fire()
	comp.waitCalls(t, 1)

	f.ClearSuggestion()
	comp.reply("Book the flights") <- "to Lisbon"
	f.wg.Wait()

	assert.Empty(t, f.Suggestion())
	assert.Equal(t, "Book the flights", f.Value())
}

func TestSetValueDoesNotRequest(t *testing.T) {
	f, clock := newTestField(&fixedCompleter{})
	f.SetValue("Existing task")

	assert.Equal(t, "Existing task", f.Value())
	assert.Zero(t, clock.armed())
}

func TestCloseIgnoresLaterInput(t *testing.T) {
	comp := &fixedCompleter{result: "x"}
	f, clock := newTestField(comp)

	f.OnTyping("Something long enough")
	f.Close()
	clock.fire()
	f.OnTyping("More typing after close")
	clock.fire()
	f.wg.Wait()

	assert.Zero(t, comp.count())
	assert.Equal(t, "Something long enough", f.Value())
	f.Close()
}

// ctxCompleter blocks until its context is cancelled.
type ctxCompleter struct {
	started  chan struct{}
	returned atomic.Bool
}

func (c *ctxCompleter) Complete(ctx context.Context, _ string) string {
	close(c.started)
	<-ctx.Done()
	time.Sleep(10 * time.Millisecond)
	c.returned.Store(true)
	return "too late"
}

func TestCloseWaitsForInFlightRequest(t *testing.T) {
	comp := &ctxCompleter{started: make(chan struct{})}
	var notified atomic.Int32
	clock := &manualClock{}
	f := NewField(comp, Options{
		Name:     "title",
		Clock:    clock,
		OnChange: func(string) { notified.Add(1) },
	})

	f.OnTyping("Call the plumber about")
	clock.fire()
	<-comp.started

	f.Close()

	assert.True(t, comp.returned.Load(), "Close returned before the request finished")
	assert.Zero(t, notified.Load())
	assert.Empty(t, f.Suggestion())
}

func TestRealClockDebounce(t *testing.T) {
	comp := &fixedCompleter{result: "now"}
	f := NewField(comp, Options{Debounce: 10 * time.Millisecond})
	defer f.Close()

	f.OnTyping("Start the washing")
	require.Eventually(t, func() bool { return f.Suggestion() == " now" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, comp.count())
}
