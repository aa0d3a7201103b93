package csv

import (
	"io"
	"iter"
)

// Scanner reads events from an io.Reader one at a time, pulling chunks from
// a ChunkSource only when the events of the previous chunk are used up.
// Memory use is bounded by the chunk size and the longest line.
//
// Example usage:
//
//	file, _ := os.Open("data.csv.gz")
//	defer file.Close()
//
//	scanner := csv.NewScanner(file, csv.DefaultOptions())
//	for scanner.Scan() {
//	    ev := scanner.Event()
//	    if ev.IsError() {
//	        log.Printf("line %d: %v", ev.Line, ev.Err)
//	        continue
//	    }
//	    name, _ := ev.Row.Get("name")
//	    fmt.Println(name)
//	}
//	if err := scanner.Err(); err != nil {
//	    // handle error
//	}
type Scanner struct {
	reader  io.Reader
	opts    Options
	log     Logger
	src     *ChunkSource
	session *Session
	pending []Event
	current Event
	started bool
	done    bool
	err     error
}

// NewScanner creates a Scanner reading from r. Option errors are reported by
// the first call to Scan through Err.
func NewScanner(r io.Reader, opts Options) *Scanner {
	return &Scanner{
		reader: r,
		opts:   opts,
		log:    opts.logger(),
	}
}

// Scan advances to the next event. It returns false at the end of input or
// on a fatal error; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	if !s.started {
		s.started = true
		if err := s.start(); err != nil {
			s.fail(err)
			return false
		}
	}

	for len(s.pending) == 0 {
		if s.done || s.err != nil {
			return false
		}
		s.fill()
	}

	s.current = s.pending[0]
	s.pending[0] = Event{}
	s.pending = s.pending[1:]
	return true
}

// Event returns the event read by the last call to Scan.
func (s *Scanner) Event() Event {
	return s.current
}

// Err returns the first fatal error, or nil at a clean end of input.
func (s *Scanner) Err() error {
	return s.err
}

// Header returns the header in use, or nil before one is known.
func (s *Scanner) Header() []string {
	if s.session == nil {
		return nil
	}
	return s.session.Header()
}

// BytesRead returns the number of input bytes consumed so far.
func (s *Scanner) BytesRead() int64 {
	if s.src == nil {
		return 0
	}
	return s.src.BytesRead()
}

// Events returns an iterator over the remaining events. Check Err after the
// loop ends.
//
//	for ev := range scanner.Events() {
//	    ...
//	}
func (s *Scanner) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for s.Scan() {
			if !yield(s.current) {
				return
			}
		}
	}
}

func (s *Scanner) start() error {
	session, err := NewSession(s.opts)
	if err != nil {
		return err
	}
	src, err := NewChunkSource(s.reader, s.opts.Source)
	if err != nil {
		return err
	}
	s.session = session
	s.src = src
	s.log.Debug("reading %s input as %s", src.Compression(), src.Encoding())
	return nil
}

// fill parses the next chunk into s.pending.
func (s *Scanner) fill() {
	text, last, err := s.src.Next()
	if err != nil {
		s.fail(err)
		return
	}
	s.log.Debug("read chunk of %d bytes (%d consumed)", len(text), s.src.BytesRead())

	emit := func(ev Event) { s.pending = append(s.pending, ev) }
	if err := s.session.ProcessChunk(s.session.PendingPartialLine()+text, emit, last); err != nil {
		s.fail(err)
		return
	}
	if last {
		s.done = true
		s.src.Close()
	}
}

func (s *Scanner) fail(err error) {
	s.err = err
	s.done = true
	if s.src != nil {
		s.src.Close()
	}
	s.log.Error("%v", err)
}
