package dictation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/lessonboard/internal/logging"
)

const (
	defaultInboxSize = 32
	defaultTimeout   = 5 * time.Second
)

// Bridge routes dictation events to a Target and tracks the listening
// indicator. Handle, Start, Stop, Toggle, Listening and SetTarget must be
// called from the host's event loop; only the capability calls and the
// event forwarding run on their own goroutines.
type Bridge struct {
	capability Capability
	target     Target
	matcher    *Matcher
	report     Reporter
	timeout    time.Duration

	listening bool

	inbox     chan Event
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithMatcher sets the voice command matcher. A nil matcher disables phrase
// matching on final transcripts.
func WithMatcher(m *Matcher) Option { return func(b *Bridge) { b.matcher = m } }

// WithReporter sets the failure reporter.
func WithReporter(r Reporter) Option { return func(b *Bridge) { b.report = r } }

// WithTimeout bounds each start or stop request.
func WithTimeout(d time.Duration) Option { return func(b *Bridge) { b.timeout = d } }

// WithInboxSize sets the inbox buffer length.
func WithInboxSize(n int) Option {
	return func(b *Bridge) {
		if n > 0 {
			b.inbox = make(chan Event, n)
		}
	}
}

// NewBridge creates a bridge between c and t.
func NewBridge(c Capability, t Target, opts ...Option) *Bridge {
	b := &Bridge{
		capability: c,
		target:     t,
		matcher:    NewMatcher(nil),
		timeout:    defaultTimeout,
		inbox:      make(chan Event, defaultInboxSize),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach forwards the capability's events into the inbox until ctx is done,
// the capability closes its stream or the bridge is closed.
func (b *Bridge) Attach(ctx context.Context) {
	events := b.capability.Events()
	if events == nil {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if !b.post(ev) {
					return
				}
			case <-ctx.Done():
				return
			case <-b.done:
				return
			}
		}
	}()
}

// Inbox returns the channel the host drains and passes to Handle.
func (b *Bridge) Inbox() <-chan Event { return b.inbox }

// SetTarget redirects transcripts and commands, for example after a page
// switch.
func (b *Bridge) SetTarget(t Target) { b.target = t }

// Listening reports the indicator state.
func (b *Bridge) Listening() bool { return b.listening }

// Handle applies one event.
func (b *Bridge) Handle(ev Event) {
	log := logging.Logger()
	switch ev.Kind {
	case Started:
		b.listening = true
		log.Info("dictation started")
	case Stopped:
		b.listening = false
		log.Info("dictation stopped")
	case Partial:
		log.Debug("partial transcript", "text", ev.Text)
	case Final:
		b.final(ev.Text)
	case VoiceCommand:
		b.dispatch(ev.Command)
	case StartFailed, StopFailed:
		b.listening = ev.Prev
		log.Warn("dictation request failed", "kind", ev.Kind, "err", ev.Err)
		b.fail(ev.Err)
	default:
		log.Debug("unknown dictation event", "kind", ev.Kind)
	}
}

func (b *Bridge) final(text string) {
	if b.matcher != nil {
		if cmd, ok := b.matcher.Match(text); ok {
			logging.Logger().Info("voice command recognised", "text", text, "command", cmd)
			b.dispatch(cmd)
			return
		}
	}
	if b.target == nil || !b.target.AppendTranscript(text) {
		logging.Logger().Debug("final transcript dropped", "text", text)
	}
}

func (b *Bridge) dispatch(c Command) {
	if b.target == nil {
		return
	}
	var err error
	switch c.Action {
	case ActionClearCanvas:
		err = b.target.ClearCanvas()
	case ActionToolChange:
		err = b.target.ChangeTool(c.Tool, c.Color)
	default:
		err = fmt.Errorf("unknown voice command %q", c.Action)
	}
	if err != nil {
		logging.Logger().Warn("voice command failed", "command", c, "err", err)
		b.fail(err)
	}
}

func (b *Bridge) fail(err error) {
	if b.report != nil && err != nil {
		b.report(err)
	}
}

// Start asks the service to begin capturing. The indicator turns on at once;
// a failure rolls it back through the inbox.
func (b *Bridge) Start() { b.request(true) }

// Stop asks the service to stop capturing. The indicator turns off at once;
// a failure rolls it back through the inbox.
func (b *Bridge) Stop() { b.request(false) }

// Toggle starts or stops depending on the indicator.
func (b *Bridge) Toggle() { b.request(!b.listening) }

func (b *Bridge) request(start bool) {
	select {
	case <-b.done:
		return
	default:
	}
	prev := b.listening
	b.listening = start
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		op, kind, call := "start", StartFailed, b.capability.Start
		if !start {
			op, kind, call = "stop", StopFailed, b.capability.Stop
		}
		if err := call(ctx); err != nil {
			b.post(Event{Kind: kind, Err: fmt.Errorf("dictation %s: %w", op, err), Prev: prev})
		}
	}()
}

// post delivers ev unless the bridge is closed.
func (b *Bridge) post(ev Event) bool {
	select {
	case b.inbox <- ev:
		return true
	case <-b.done:
		return false
	}
}

// Close stops forwarding and waits for outstanding requests. Events already
// in the inbox are left for the host to drain or discard.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.done) })
	b.wg.Wait()
}
