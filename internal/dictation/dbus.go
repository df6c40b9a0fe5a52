package dictation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	// DefaultBusName is the well-known name of the speech service.
	DefaultBusName = "org.lessonboard.Speech"
	// DefaultObjectPath is the object exporting the speech interface.
	DefaultObjectPath = "/org/lessonboard/Speech"
	// Interface is the D-Bus interface implemented by the speech service.
	Interface = "org.lessonboard.Speech1"
)

// DBusCapability talks to a speech service on the session bus. The service
// exposes Start and Stop methods and emits Started, Stopped, Partial(s),
// Final(s) and VoiceCommand(a{sv}) signals.
type DBusCapability struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	path    dbus.ObjectPath
	signals chan *dbus.Signal
	events  chan Event
	once    sync.Once
}

// DialDBus connects to the session bus and subscribes to the service's
// signals.
func DialDBus(busName, objectPath string) (*DBusCapability, error) {
	if busName == "" {
		busName = DefaultBusName
	}
	if objectPath == "" {
		objectPath = DefaultObjectPath
	}
	path := dbus.ObjectPath(objectPath)
	if !path.IsValid() {
		return nil, fmt.Errorf("dictation: invalid object path %q", objectPath)
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	if err := conn.AddMatchSignal(dbus.WithMatchObjectPath(path), dbus.WithMatchInterface(Interface)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("dbus subscribe: %w", err)
	}
	c := &DBusCapability{
		conn:    conn,
		obj:     conn.Object(busName, path),
		path:    path,
		signals: make(chan *dbus.Signal, 16),
		events:  make(chan Event, 16),
	}
	conn.Signal(c.signals)
	go c.forward()
	return c, nil
}

func (c *DBusCapability) forward() {
	defer close(c.events)
	for sig := range c.signals {
		if sig.Path != c.path {
			continue
		}
		if ev, ok := eventFromSignal(sig.Name, sig.Body); ok {
			c.events <- ev
		}
	}
}

// Start calls the service's Start method.
func (c *DBusCapability) Start(ctx context.Context) error {
	return c.obj.CallWithContext(ctx, Interface+".Start", 0).Err
}

// Stop calls the service's Stop method.
func (c *DBusCapability) Stop(ctx context.Context) error {
	return c.obj.CallWithContext(ctx, Interface+".Stop", 0).Err
}

// Events returns the decoded signal stream. It is closed by Close.
func (c *DBusCapability) Events() <-chan Event { return c.events }

// Close unsubscribes and closes the bus connection.
func (c *DBusCapability) Close() error {
	var err error
	c.once.Do(func() {
		_ = c.conn.RemoveMatchSignal(dbus.WithMatchObjectPath(c.path), dbus.WithMatchInterface(Interface))
		c.conn.RemoveSignal(c.signals)
		close(c.signals)
		err = c.conn.Close()
	})
	return err
}

// eventFromSignal decodes a speech service signal. Unknown members and
// malformed bodies are ignored.
func eventFromSignal(name string, body []any) (Event, bool) {
	member, ok := strings.CutPrefix(name, Interface+".")
	if !ok {
		return Event{}, false
	}
	switch member {
	case "Started":
		return Event{Kind: Started}, true
	case "Stopped":
		return Event{Kind: Stopped}, true
	case "Partial", "Final":
		if len(body) < 1 {
			return Event{}, false
		}
		text, ok := body[0].(string)
		if !ok {
			return Event{}, false
		}
		kind := Partial
		if member == "Final" {
			kind = Final
		}
		return Event{Kind: kind, Text: text}, true
	case "VoiceCommand":
		if len(body) < 1 {
			return Event{}, false
		}
		payload, ok := body[0].(map[string]dbus.Variant)
		if !ok {
			return Event{}, false
		}
		cmd := Command{
			Action: variantString(payload["action"]),
			Tool:   variantString(payload["tool"]),
			Color:  variantString(payload["color"]),
		}
		if cmd.Action == "" {
			return Event{}, false
		}
		return Event{Kind: VoiceCommand, Command: cmd}, true
	}
	return Event{}, false
}

func variantString(v dbus.Variant) string {
	s, _ := v.Value().(string)
	return s
}
