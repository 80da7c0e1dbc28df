package staging

import "bytes"

// Sink is a deferred-write byte accumulator. It buffers everything written to
// it until Close, after which it is read-only and its contents are valid to
// harvest. The store owns a sink from allocation until completion.
type Sink struct {
	buf    bytes.Buffer
	closed bool
}

func newSink() *Sink {
	return &Sink{}
}

// Write appends p to the buffer. Returns ErrSinkClosed after Close.
func (s *Sink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrSinkClosed
	}
	return s.buf.Write(p)
}

// Close seals the sink against further writes. Idempotent.
func (s *Sink) Close() error {
	s.closed = true
	return nil
}

// Completed reports whether the sink has been sealed.
func (s *Sink) Completed() bool {
	return s.closed
}

// Bytes returns the buffered content. The returned slice aliases the internal
// buffer; callers must not modify it.
func (s *Sink) Bytes() []byte {
	return s.buf.Bytes()
}
