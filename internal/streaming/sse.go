// Package streaming implements the provider-agnostic streaming engine:
// SSE/JSON-lines framing, backpressure-aware buffering, stream-lifecycle
// enforcement, cancellation, and the re-serializing bridge that lets a
// unified stream be re-emitted in any supported vendor's wire shape
//. The SSE scanner is grounded on
// internal/stream/stream.go's line-based parsing, generalized from a
// single hard-coded vendor shape to a provider-agnostic byte stream.
package streaming

import (
	"bufio"
	"io"
	"strings"
)

// SSEEvent is one decoded Server-Sent Event: an optional name (from an
// "event:" field) and the concatenated "data:" payload.
type SSEEvent struct {
	Name string
	Data string
}

// SSEScanner reads an io.Reader and yields one SSEEvent per blank-line-
// terminated block, tolerating ":"-prefixed comment lines and providers
// (like Gemini) that never send an "event:" line at all.
type SSEScanner struct {
	scanner *bufio.Scanner
	name    string
	data    []string
	err     error
}

// NewSSEScanner wraps r for line-oriented SSE decoding. bufSize sets the
// scanner's max token (line) size; pass 0 for bufio's default.
func NewSSEScanner(r io.Reader, bufSize int) *SSEScanner {
	sc := bufio.NewScanner(r)
	if bufSize > 0 {
		sc.Buffer(make([]byte, 0, 64*1024), bufSize)
	}
	return &SSEScanner{scanner: sc}
}

// Next advances to the next complete event, returning false at EOF or on
// error (check Err()).
func (s *SSEScanner) Next() (SSEEvent, bool) {
	for s.scanner.Scan() {
		line := s.scanner.Text()

		if line == "" {
			if len(s.data) == 0 && s.name == "" {
				continue
			}
			ev := SSEEvent{Name: s.name, Data: strings.Join(s.data, "\n")}
			s.name = ""
			s.data = nil
			return ev, true
		}

		switch {
		case strings.HasPrefix(line, ":"):
			// comment / heartbeat, ignore
		case strings.HasPrefix(line, "event:"):
			s.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			s.data = append(s.data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	s.err = s.scanner.Err()
	if len(s.data) > 0 || s.name != "" {
		ev := SSEEvent{Name: s.name, Data: strings.Join(s.data, "\n")}
		s.name = ""
		s.data = nil
		return ev, true
	}
	return SSEEvent{}, false
}

// Err returns any non-EOF error encountered while scanning.
func (s *SSEScanner) Err() error { return s.err }

// WriteSSE formats one "data: <payload>\n\n" event (optionally preceded
// by "event: <name>\n"), matching the wire format written by
// internal/stream/stream.go's Write function, generalized to carry an
// event name for vendors (Anthropic, OpenAI Responses) that need one.
func WriteSSE(w io.Writer, name, data string) error {
	var b strings.Builder
	if name != "" {
		b.WriteString("event: ")
		b.WriteString(name)
		b.WriteByte('\n')
	}
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
