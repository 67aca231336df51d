// Package dataset models the conversation datasets turnexec augments.
//
// A dataset is a JSON array of conversation records. Each conversation holds
// an ordered "conversations" array of turns tagged with a "from" role and a
// free-form "value". Members turnexec does not know about are carried through
// a load/save cycle verbatim and in their original order.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// RoleHuman tags the turn whose value is executed as a command.
	RoleHuman = "human"

	// RoleGPT tags the turn that receives the command output.
	RoleGPT = "gpt"

	keyFrom          = "from"
	keyValue         = "value"
	keyConversations = "conversations"
)

var (
	// ErrNotArray is returned when a dataset document is not a JSON array.
	ErrNotArray = errors.New("dataset is not a JSON array")

	// ErrValueNotString is returned when a turn value is present but is not
	// a JSON string.
	ErrValueNotString = errors.New("value is not a string")
)

// Turn is one message in a conversation.
type Turn struct {
	object
}

// NewTurn creates a turn with the given role and value.
func NewTurn(from, value string) *Turn {
	t := &Turn{}
	_ = t.setString(keyFrom, from)
	_ = t.setString(keyValue, value)
	return t
}

// From returns the role tag, or "" when it is missing or not a string.
func (t *Turn) From() string {
	from, _, err := t.getString(keyFrom)
	if err != nil {
		return ""
	}
	return from
}

// Value returns the turn text. A missing value is the empty string; a value
// of any other JSON type returns ErrValueNotString.
func (t *Turn) Value() (string, error) {
	value, _, err := t.getString(keyValue)
	return value, err
}

// RawValue returns the JSON text of the value member, or "" when it is
// missing.
func (t *Turn) RawValue() string {
	raw, _ := t.get(keyValue)
	return string(raw)
}

// SetValue overwrites the turn text.
func (t *Turn) SetValue(value string) error {
	return t.setString(keyValue, value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Turn) UnmarshalJSON(data []byte) error {
	return t.decode(data)
}

// MarshalJSON implements json.Marshaler.
func (t *Turn) MarshalJSON() ([]byte, error) {
	return t.encode()
}

// Conversation is one dataset record.
type Conversation struct {
	object

	turns    []*Turn
	hasTurns bool
}

// NewConversation creates a conversation holding the given turns.
func NewConversation(turns ...*Turn) *Conversation {
	if turns == nil {
		turns = []*Turn{}
	}
	return &Conversation{turns: turns, hasTurns: true}
}

// Turns returns the conversation's turn sequence. A record without a
// "conversations" member has no turns.
func (c *Conversation) Turns() []*Turn {
	if c == nil {
		return nil
	}
	return c.turns
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Conversation) UnmarshalJSON(data []byte) error {
	if err := c.decode(data); err != nil {
		return err
	}

	c.turns = nil
	c.hasTurns = false

	raw, ok := c.get(keyConversations)
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}

	if err := json.Unmarshal(raw, &c.turns); err != nil {
		return fmt.Errorf("decoding %s: %w", keyConversations, err)
	}
	c.hasTurns = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c *Conversation) MarshalJSON() ([]byte, error) {
	if c.hasTurns {
		turns := c.turns
		if turns == nil {
			turns = []*Turn{}
		}
		raw, err := marshalNoEscape(turns)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", keyConversations, err)
		}
		c.set(keyConversations, raw)
	}
	return c.encode()
}

// Dataset is the ordered list of conversations. Elements may be nil when the
// document holds a JSON null at that position.
type Dataset []*Conversation

// Parse decodes a dataset document.
func Parse(data []byte) (Dataset, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}

	var ds Dataset
	if err := json.Unmarshal(trimmed, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	if ds == nil {
		ds = Dataset{}
	}
	return ds, nil
}

// Encode renders the dataset as indented JSON. Non-ASCII text is written
// literally and HTML characters are not escaped.
func (ds Dataset) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return nil, fmt.Errorf("encoding dataset: %w", err)
	}
	return buf.Bytes(), nil
}
