package engine

// Sample is one history entry: the step-end time and the numeric
// snapshot of every scope quantity.
type Sample struct {
	T      float64
	Values map[string]float64
}

// History is a fixed-capacity ring of samples. When full, pushing
// evicts the oldest entry.
type History struct {
	buf  []Sample
	head int
	size int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{buf: make([]Sample, capacity)}
}

func (h *History) Cap() int { return len(h.buf) }
func (h *History) Len() int { return h.size }

func (h *History) Push(t float64, values map[string]float64) {
	if h.size < len(h.buf) {
		h.buf[(h.head+h.size)%len(h.buf)] = Sample{T: t, Values: values}
		h.size++
		return
	}
	h.buf[h.head] = Sample{T: t, Values: values}
	h.head = (h.head + 1) % len(h.buf)
}

// Samples returns the retained entries, oldest first.
func (h *History) Samples() []Sample {
	out := make([]Sample, 0, h.size)
	for i := 0; i < h.size; i++ {
		out = append(out, h.buf[(h.head+i)%len(h.buf)])
	}
	return out
}

// Series extracts the last n values of one quantity, oldest first.
// n <= 0 means everything retained.
func (h *History) Series(name string, n int) []float64 {
	if n <= 0 || n > h.size {
		n = h.size
	}
	out := make([]float64, 0, n)
	for i := h.size - n; i < h.size; i++ {
		s := h.buf[(h.head+i)%len(h.buf)]
		if v, ok := s.Values[name]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (h *History) Clear() {
	h.head, h.size = 0, 0
}
