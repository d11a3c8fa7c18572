package llm

import (
	"io"
	"sync"
)

// SliceStream is a ChunkStream over fixed deltas
type SliceStream struct {
	mu     sync.Mutex
	chunks []string
	err    error
	closed bool
}

// NewSliceStream returns a stream that yields chunks and then io.EOF
func NewSliceStream(chunks ...string) *SliceStream {
	return &SliceStream{chunks: chunks}
}

// NewFailingStream returns a stream that yields chunks and then err
func NewFailingStream(err error, chunks ...string) *SliceStream {
	return &SliceStream{chunks: chunks, err: err}
}

// Recv returns the next delta
func (s *SliceStream) Recv() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", io.ErrClosedPipe
	}
	if len(s.chunks) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}

	next := s.chunks[0]
	s.chunks = s.chunks[1:]
	return next, nil
}

// Close releases the stream
func (s *SliceStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called
func (s *SliceStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
