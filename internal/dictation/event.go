// Package dictation connects an external speech-to-text service to a board.
// The service's event stream and the results of start/stop requests arrive
// through one inbox that the host drains on its event loop.
package dictation

import (
	"context"
	"fmt"
)

// Kind identifies an Event.
type Kind int

const (
	// Started and Stopped report the service's capture state. They are
	// authoritative for the listening indicator.
	Started Kind = iota
	Stopped
	// Partial carries an interim transcript.
	Partial
	// Final carries a finished transcript.
	Final
	// VoiceCommand carries a command recognised by the service.
	VoiceCommand
	// StartFailed and StopFailed report a failed request. Prev holds the
	// indicator value before the request.
	StartFailed
	StopFailed
)

var kindNames = [...]string{"started", "stopped", "partial", "final", "voice-command", "start-failed", "stop-failed"}

func (k Kind) String() string {
	if k < Started || k > StopFailed {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Event is one message in the inbox.
type Event struct {
	Kind    Kind
	Text    string
	Command Command
	Err     error
	Prev    bool
}

// Capability is the speech service as seen by the bridge.
type Capability interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Events() <-chan Event
}

// Target receives transcripts and commands, normally a board.
type Target interface {
	AppendTranscript(text string) bool
	ClearCanvas() error
	ChangeTool(tool, color string) error
}

// Reporter is told about failures the user should see.
type Reporter func(err error)
