package indicator

// window keeps the last max values pushed into it and exposes the rolling
// high and low the raw %K needs. Values are overwritten in ring order.
type window struct {
	buf  []float64
	next int
	n    int
}

func newWindow(max int) *window {
	if max <= 0 {
		max = 1
	}
	return &window{buf: make([]float64, max)}
}

func (w *window) Add(v float64) {
	w.buf[w.next] = v
	w.next = (w.next + 1) % len(w.buf)
	if w.n < len(w.buf) {
		w.n++
	}
}

func (w *window) Len() int { return w.n }

// Full reports whether the window holds max values.
func (w *window) Full() bool { return w.n == len(w.buf) }

// Values returns the held values oldest first.
func (w *window) Values() []float64 {
	out := make([]float64, 0, w.n)
	start := (w.next - w.n + len(w.buf)) % len(w.buf)
	for i := 0; i < w.n; i++ {
		out = append(out, w.buf[(start+i)%len(w.buf)])
	}
	return out
}

func (w *window) Min() float64 {
	if w.n == 0 {
		return 0
	}
	m := w.buf[0]
	for _, v := range w.buf[1:w.n] {
		if v < m {
			m = v
		}
	}
	return m
}

func (w *window) Max() float64 {
	if w.n == 0 {
		return 0
	}
	m := w.buf[0]
	for _, v := range w.buf[1:w.n] {
		if v > m {
			m = v
		}
	}
	return m
}
