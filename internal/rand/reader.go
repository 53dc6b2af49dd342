package rand

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// ReaderSource draws uniforms from a byte stream such as a hardware TRNG.
// Each value consumes 8 bytes, of which the top 53 bits are used.
//
// Reads are serialized, so one ReaderSource may be shared between
// goroutines. The first read error is kept; from then on Float64 returns 0
// and Err reports the error.
type ReaderSource struct {
	mu  sync.Mutex
	r   io.Reader
	buf [8]byte
	err error
}

// NewReaderSource wraps r. If r is already a *ReaderSource it is returned as-is.
func NewReaderSource(r io.Reader) *ReaderSource {
	if rs, ok := r.(*ReaderSource); ok {
		return rs
	}
	return &ReaderSource{r: r}
}

// Float64 returns a value in [0, 1).
func (s *ReaderSource) Float64() float64 {
	return float64(s.Uint64()>>11) * (1.0 / 9007199254740992.0)
}

// Uint64 reads the next 8 bytes big-endian.
func (s *ReaderSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0
	}
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		s.err = errors.Wrap(err, "reading random bytes")
		return 0
	}
	return binary.BigEndian.Uint64(s.buf[:])
}

// Read passes bytes through from the underlying stream under the same lock,
// so the source can be shared with byte-oriented consumers.
func (s *ReaderSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.r.Read(p)
	if err != nil {
		s.err = errors.Wrap(err, "reading random bytes")
		return n, s.err
	}
	return n, nil
}

// Err returns the first read error, if any.
func (s *ReaderSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
