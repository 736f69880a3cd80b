package servicectx

import (
	"encoding/json"

	"github.com/asimov-run/asimov/core/channel"
	"github.com/asimov-run/asimov/core/command"
	"github.com/asimov-run/asimov/core/message"
)

// Snapshot is the JSON-serializable state a ctxstore persists across a
// Suspend, and the input to Restore after a process restart.
type Snapshot struct {
	Status         Status             `json:"status"`
	State          json.RawMessage    `json:"state,omitempty"`
	ConfigProfiles map[string]any     `json:"configProfiles,omitempty"`
	MessageQueue   []json.RawMessage  `json:"messageQueue,omitempty"`
	InputQueue     []message.InputItem `json:"inputQueue,omitempty"`
}

// Serialize captures the context's current status, handler state, config
// profiles, and both queues' buffered (not yet claimed) items into a
// Snapshot suitable for JSON encoding and storage.
func (c *Context) Serialize() (Snapshot, error) {
	c.mu.Lock()
	status := c.status
	profiles := c.configProfiles
	state := c.state
	c.mu.Unlock()

	var rawState json.RawMessage
	if state != nil {
		encoded, err := json.Marshal(state)
		if err != nil {
			return Snapshot{}, err
		}
		rawState = encoded
	}

	msgItems := c.messageQueue.Items()
	rawMsgs := make([]json.RawMessage, 0, len(msgItems))
	for _, m := range msgItems {
		raw, err := message.Marshal(m)
		if err != nil {
			return Snapshot{}, err
		}
		rawMsgs = append(rawMsgs, raw)
	}

	return Snapshot{
		Status:         status,
		State:          rawState,
		ConfigProfiles: profiles,
		MessageQueue:   rawMsgs,
		InputQueue:     c.inputQueue.Items(),
	}, nil
}

// Restore rebuilds a Context from a persisted Snapshot. A Suspended status
// is replayed as Active: the execution runner re-enters the handler and the
// context must accept the same incoming messages an Active context would.
func Restore(def *command.Definition, ch channel.Channel, send SendFunc, snap Snapshot, opts ...Option) (*Context, error) {
	c := newContext(def, ch, send, opts...)

	status := snap.Status
	if status == StatusSuspended {
		status = StatusActive
	}
	c.status = status
	c.configProfiles = snap.ConfigProfiles

	if len(snap.State) > 0 {
		var state any
		if err := json.Unmarshal(snap.State, &state); err != nil {
			return nil, err
		}
		c.state = state
	}

	for _, raw := range snap.MessageQueue {
		msg, err := message.Decode(raw)
		if err != nil {
			return nil, err
		}
		c.messageQueue.Seed([]message.Message{msg})
	}
	c.inputQueue.Seed(snap.InputQueue)

	return c, nil
}
