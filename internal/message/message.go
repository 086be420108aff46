// Package message defines the snappaste IPC protocol between the daemon
// and the CLI sub-commands.
//
// All messages are newline-delimited JSON. Image payloads ride inside
// record DTOs as base64 (encoding/json's []byte default), so binary content
// is safe to embed. Each message is exactly one line: <json>\n
package message

import (
	"encoding/json"
	"fmt"

	"github.com/snappaste/snappaste/internal/record"
)

// Type identifies the kind of message.
type Type string

const (
	// Requests
	TypeCopy     Type = "COPY"     // write text to the OS clipboard, bypassing history
	TypePaste    Type = "PASTE"    // paste a stored record into the previously focused window
	TypeHistory  Type = "HISTORY"  // list or search history
	TypeDelete   Type = "DELETE"   // delete one record
	TypeFavorite Type = "FAVORITE" // set/unset the favorite flag
	TypePin      Type = "PIN"      // set/unset the pinned flag
	TypeClear    Type = "CLEAR"    // bulk delete; Favorites selects which half
	TypeStatus   Type = "STATUS"   // daemon status

	// Responses
	TypeOK      Type = "OK"
	TypeRecords Type = "RECORDS"
	TypeError   Type = "ERROR"
)

// StatusInfo describes a running daemon, returned for STATUS requests.
type StatusInfo struct {
	Version  string `json:"version"`
	Backend  string `json:"backend"`
	Strategy string `json:"strategy,omitempty"`
	Records  int    `json:"records"`
}

// Message is the top-level wire envelope.
type Message struct {
	Type Type `json:"type"`

	// COPY — the text to place on the clipboard
	Text string `json:"text,omitempty"`

	// PASTE / DELETE / FAVORITE / PIN — the record id; Flag carries the
	// new favorite/pinned value
	ID   int64 `json:"id,omitempty"`
	Flag bool  `json:"flag,omitempty"`

	// HISTORY — query parameters
	Query     string `json:"query,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
	Favorites bool   `json:"favorites,omitempty"`

	// RECORDS / STATUS responses
	Records []record.Record `json:"records,omitempty"`
	Status  *StatusInfo     `json:"status,omitempty"`

	// ERROR
	Error string `json:"error,omitempty"`
}

// Encode serialises the message to JSON without a trailing newline.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode deserialises a message from raw JSON bytes.
func Decode(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("message decode: %w", err)
	}
	return &m, nil
}

// Err builds an ERROR response from any error.
func Err(err error) *Message {
	return &Message{Type: TypeError, Error: err.Error()}
}

// OK is the bare success response.
func OK() *Message {
	return &Message{Type: TypeOK}
}
