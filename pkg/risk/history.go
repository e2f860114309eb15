package risk

import "liyu1981.xyz/insole-monitor-service/pkg/models"

// History is a fixed-capacity window of the most recent readings. When full, the
// oldest reading is evicted. Not safe for concurrent use.
type History struct {
	buf   []models.Reading
	start int
	size  int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]models.Reading, capacity)}
}

func (h *History) Push(r models.Reading) {
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = r
		h.size++
		return
	}
	h.buf[h.start] = r
	h.start = (h.start + 1) % len(h.buf)
}

// Snapshot copies the window, oldest first.
func (h *History) Snapshot() []models.Reading {
	out := make([]models.Reading, h.size)
	for i := range h.size {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

func (h *History) Len() int {
	return h.size
}

func (h *History) Cap() int {
	return len(h.buf)
}

// Resize keeps the newest readings that still fit.
func (h *History) Resize(capacity int) {
	readings := h.Snapshot()
	*h = *NewHistory(capacity)
	if len(readings) > len(h.buf) {
		readings = readings[len(readings)-len(h.buf):]
	}
	for _, r := range readings {
		h.Push(r)
	}
}
