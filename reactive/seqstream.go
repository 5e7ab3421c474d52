package reactive

import (
	"iter"
	"sync"
	"time"
)

// SeqStream reuses the event-stream read contract over a prebuilt, lazily
// pulled sequence, so finite or infinite Go sequences can feed into the
// network as read-only sources. Delivery is unsupported: the sequence is
// the only source of truth.
type SeqStream struct {
	Base

	label string

	mu      sync.Mutex
	next    func() (any, bool)
	stop    func()
	lastOcc RVT
	peeked  RVT
	hasPeek bool
	done    bool
}

// NewSeqStream wraps a Go 1.23+ iterator as a read-only reactive.
func NewSeqStream(label string, seq iter.Seq[any]) *SeqStream {
	next, stop := iter.Pull(seq)
	return &SeqStream{label: label, next: next, stop: stop}
}

func (s *SeqStream) Label() string { return s.label }

func (s *SeqStream) fill() {
	if s.hasPeek || s.done {
		return
	}
	v, ok := s.next()
	if !ok {
		s.done = true
		s.stop()
		return
	}
	s.peeked = RVT{Value: Of(v), Time: time.Now()}
	s.hasPeek = true
}

func (s *SeqStream) NextValue() (RVT, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill()
	if !s.hasPeek {
		return RVT{}, false
	}
	return s.peeked, true
}

func (s *SeqStream) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill()
	return s.hasPeek
}

func (s *SeqStream) Pending() bool {
	return s.Available()
}

func (s *SeqStream) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill()
	return s.done && !s.hasPeek
}

func (s *SeqStream) Consume() (RVT, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill()
	if !s.hasPeek {
		return RVT{}, false
	}
	v := s.peeked
	s.hasPeek = false
	s.lastOcc = v
	return v, true
}

func (s *SeqStream) Deliver(RVT) (bool, error) {
	return false, ErrUnsupported
}
