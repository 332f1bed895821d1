package resources

import "sync"

const defaultLogBufferSize = 64 * 1024

// LogBuffer is an io.Writer that keeps the most recent log output in memory
// so it can be served as a resource. Writes past the capacity drop the
// oldest bytes.
type LogBuffer struct {
	mu  sync.Mutex
	buf []byte
	cap int
}

// NewLogBuffer builds a buffer holding up to size bytes of recent output.
// A non-positive size uses the default capacity.
func NewLogBuffer(size int) *LogBuffer {
	if size <= 0 {
		size = defaultLogBufferSize
	}
	return &LogBuffer{cap: size}
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(p) >= b.cap {
		b.buf = append(b.buf[:0], p[len(p)-b.cap:]...)
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	if overflow := len(b.buf) - b.cap; overflow > 0 {
		b.buf = append(b.buf[:0], b.buf[overflow:]...)
	}
	return len(p), nil
}

// Tail returns the buffered output.
func (b *LogBuffer) Tail() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
