// Package wire handles reading and writing newline-delimited JSON messages
// over a net.Conn.
//
// Wire format:
//
//	<json>\n
//
// Every line is a single message, so framing stays trivial on both ends.
package wire

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/snappaste/snappaste/internal/message"
)

const (
	// MaxMessageSize is the largest message we will read (16 MiB) —
	// comfortably above the encoded-image cap plus JSON/base64 overhead.
	MaxMessageSize = 16 * 1024 * 1024

	writeDeadline = 5 * time.Second
)

// Conn wraps a net.Conn with buffered newline-delimited JSON framing.
type Conn struct {
	conn net.Conn
	br   *bufio.Reader
}

// New wraps conn.
func New(conn net.Conn) *Conn {
	return &Conn{
		conn: conn,
		br:   bufio.NewReaderSize(conn, 64*1024),
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }

// WriteMsg serialises msg to JSON and writes it followed by a newline.
func (c *Conn) WriteMsg(msg *message.Message) error {
	raw, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	line := append(raw, '\n')

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	_, err = c.conn.Write(line)
	_ = c.conn.SetWriteDeadline(time.Time{})
	return err
}

// ReadMsg reads one newline-terminated line and deserialises it.
func (c *Conn) ReadMsg() (*message.Message, error) {
	line, err := c.readLine()
	if err != nil {
		return nil, err
	}
	return message.Decode(line[:len(line)-1])
}

// readLine accumulates buffered fragments up to the newline, failing as soon
// as the line exceeds MaxMessageSize instead of buffering the whole oversized
// message first.
func (c *Conn) readLine() ([]byte, error) {
	var line []byte
	for {
		frag, err := c.br.ReadSlice('\n')
		line = append(line, frag...)
		if len(line) > MaxMessageSize {
			return nil, fmt.Errorf("message too large (over %d bytes)", MaxMessageSize)
		}
		if err == nil {
			return line, nil
		}
		if err != bufio.ErrBufferFull {
			return nil, err
		}
	}
}
