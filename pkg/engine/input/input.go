// Package input reads raw terminal key events and maps them to
// high-level actions.
package input

import (
	"io"
	"time"
)

// escapeTimeout is how long a lone ESC waits for a following byte
// before it is delivered as an escape press in its own right. Terminal
// escape sequences arrive as one burst, so anything slower is a human.
const escapeTimeout = 50 * time.Millisecond

// Reader decodes key presses from a raw-mode terminal and delivers them
// as codes on a channel. The terminal must already be in raw mode; the
// reader never blocks its consumer.
type Reader struct {
	in    io.Reader
	bytes chan byte
	codes chan string
}

// NewReader creates a reader over the given byte stream (normally stdin).
func NewReader(in io.Reader) *Reader {
	return &Reader{
		in:    in,
		bytes: make(chan byte, 8),
		codes: make(chan string, 8),
	}
}

// Start launches the read goroutines and returns the code channel. The
// channel is closed when the underlying stream ends.
func (r *Reader) Start() <-chan string {
	go r.pumpBytes()
	go r.readLoop()
	return r.codes
}

// pumpBytes moves single bytes from the stream onto a channel, so the
// decoder can wait on a byte with a timeout.
func (r *Reader) pumpBytes() {
	defer close(r.bytes)
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r.in, buf); err != nil {
			return
		}
		r.bytes <- buf[0]
	}
}

func (r *Reader) readLoop() {
	defer close(r.codes)
	for {
		b, err := r.readByte()
		if err != nil {
			return
		}
		code := r.decode(b)
		if code != "" {
			r.codes <- code
		}
	}
}

func (r *Reader) readByte() (byte, error) {
	b, ok := <-r.bytes
	if !ok {
		return 0, io.EOF
	}
	return b, nil
}

// readByteTimeout waits up to d for the next byte. The second return is
// false when no byte arrived in time.
func (r *Reader) readByteTimeout(d time.Duration) (byte, bool, error) {
	select {
	case b, ok := <-r.bytes:
		if !ok {
			return 0, false, io.EOF
		}
		return b, true, nil
	case <-time.After(d):
		return 0, false, nil
	}
}

// decode turns one key press into a code. Escape sequences are consumed
// whole; unknown sequences decode to "" and are dropped.
func (r *Reader) decode(b byte) string {
	switch b {
	case 0x1b:
		return r.decodeEscape()
	case 0x03:
		return "ctrl_c"
	case '\t':
		return "tab"
	case '\r', '\n':
		return "enter"
	case 0x7f, 0x08:
		return "backspace"
	}
	if b >= 32 && b < 127 {
		return string(b)
	}
	return ""
}

// decodeEscape handles CSI (ESC [) and SS3 (ESC O) arrow sequences, the
// same forms the terminal emits for arrow keys. An ESC with no byte
// following within escapeTimeout is a standalone escape press.
func (r *Reader) decodeEscape() string {
	b2, ok, err := r.readByteTimeout(escapeTimeout)
	if err != nil || !ok {
		return "escape"
	}
	if b2 != '[' && b2 != 'O' {
		// Plain escape followed by an ordinary key. The second byte is
		// already consumed, so decode it here and deliver both.
		code := r.decode(b2)
		if code == "" {
			return "escape"
		}
		r.codes <- "escape"
		return code
	}
	b3, ok, err := r.readByteTimeout(escapeTimeout)
	if err != nil || !ok {
		return ""
	}
	switch b3 {
	case 'A':
		return "arrow_up"
	case 'B':
		return "arrow_down"
	case 'C':
		return "arrow_right"
	case 'D':
		return "arrow_left"
	}
	// Unknown escape sequence - discard it.
	return ""
}
