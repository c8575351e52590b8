package history

const DefaultEnergyCapacity = 200

// EnergyLog keeps the most recent samples in a ring.
type EnergyLog struct {
	buf  []float64
	head int
	size int
}

func NewEnergyLog(capacity int) *EnergyLog {
	if capacity <= 0 {
		capacity = DefaultEnergyCapacity
	}
	return &EnergyLog{buf: make([]float64, capacity)}
}

func (l *EnergyLog) Cap() int { return len(l.buf) }
func (l *EnergyLog) Len() int { return l.size }

// Append stores e, overwriting the oldest sample once full.
func (l *EnergyLog) Append(e float64) {
	l.buf[l.head] = e
	l.head = (l.head + 1) % len(l.buf)
	if l.size < len(l.buf) {
		l.size++
	}
}

// Values returns the retained samples oldest first.
func (l *EnergyLog) Values() []float64 {
	out := make([]float64, l.size)
	start := (l.head - l.size + len(l.buf)) % len(l.buf)
	for i := 0; i < l.size; i++ {
		out[i] = l.buf[(start+i)%len(l.buf)]
	}
	return out
}

func (l *EnergyLog) Clear() {
	l.head = 0
	l.size = 0
}
