package frame

import (
	"errors"
	"io"
)

// ScanState reports scanner alignment with the byte stream.
type ScanState int

const (
	// Seeking means the scanner is hunting byte-by-byte for a valid window.
	Seeking ScanState = iota
	// Locked means the scanner is consuming aligned 16-byte frames.
	Locked
)

func (s ScanState) String() string {
	if s == Locked {
		return "locked"
	}
	return "seeking"
}

// Scanner recovers frame alignment from an unframed byte stream.
//
// In Seeking it advances one byte at a time until a 16-byte window validates,
// then transitions to Locked and consumes whole frames. A validation failure
// in Locked drops back to Seeking starting one byte past the failed window's
// start, so bit slips and partial transmissions never require a stream restart.
type Scanner struct {
	r     io.Reader
	buf   []byte
	state ScanState

	resyncs      uint64
	skippedBytes uint64
}

// maxEmptyReads bounds consecutive zero-byte reads before the stream is
// declared silent. Serial reads report a timeout as (0, nil) rather than an
// error, so each empty read has already waited the port's read timeout.
const maxEmptyReads = 4

// NewScanner wraps a raw byte stream. The scanner starts in Seeking.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		r:     r,
		buf:   make([]byte, 0, 4*Size),
		state: Seeking,
	}
}

// State returns the current alignment state.
func (s *Scanner) State() ScanState { return s.state }

// Resyncs returns how many times a Locked scanner lost alignment.
func (s *Scanner) Resyncs() uint64 { return s.resyncs }

// SkippedBytes returns how many stream bytes were discarded while seeking.
func (s *Scanner) SkippedBytes() uint64 { return s.skippedBytes }

// Next returns the next valid frame from the stream. Read errors from the
// underlying source are returned as-is so the caller can drive reconnect; a
// stream that stops yielding bytes without erroring surfaces io.ErrNoProgress.
// After a new source is attached with Reset the scanner resumes in Seeking.
func (s *Scanner) Next() (Frame, error) {
	for {
		if err := s.fill(Size); err != nil {
			return Frame{}, err
		}
		f, err := Decode(s.buf[:Size])
		if err == nil {
			s.consume(Size)
			s.state = Locked
			return f, nil
		}
		if !errors.Is(err, ErrInvalidSentinel) {
			return Frame{}, err
		}
		if s.state == Locked {
			s.state = Seeking
			s.resyncs++
		}
		s.consume(1)
		s.skippedBytes++
	}
}

// Reset attaches a new byte source, drops buffered bytes, and re-enters
// Seeking. Counters are preserved across resets.
func (s *Scanner) Reset(r io.Reader) {
	s.r = r
	s.buf = s.buf[:0]
	s.state = Seeking
}

func (s *Scanner) fill(n int) error {
	emptyReads := 0
	for len(s.buf) < n {
		chunk := make([]byte, 2*Size)
		read, err := s.r.Read(chunk)
		if read > 0 {
			emptyReads = 0
			s.buf = append(s.buf, chunk[:read]...)
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(s.buf) > 0 {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		emptyReads++
		if emptyReads >= maxEmptyReads {
			return io.ErrNoProgress
		}
	}
	return nil
}

func (s *Scanner) consume(n int) {
	s.buf = append(s.buf[:0], s.buf[n:]...)
}
