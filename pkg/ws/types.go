package ws

// Frame types sent by the chatbot websocket
const (
	FrameChunk = "chunk"
	FrameDone  = "done"
	FrameError = "error"
)

// Frame is one server message on the chatbot websocket
type Frame struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Chunk returns a frame carrying one content delta
func Chunk(content string) Frame {
	return Frame{Type: FrameChunk, Content: content}
}

// Done returns the frame that ends a successful exchange
func Done() Frame {
	return Frame{Type: FrameDone}
}

// Error returns the frame that ends a failed exchange
func Error(message string) Frame {
	return Frame{Type: FrameError, Error: message}
}
