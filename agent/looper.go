package agent

// DefaultPatience is the default number of generation-service round trips a
// turn may take before the loop forces a fallback answer.
const DefaultPatience = 3

// Looper is a bounded iteration counter with an early-break signal. It caps
// generation round trips per turn. Not safe for concurrent use; a Looper
// belongs to exactly one Agent, whose turns are already serialized.
//
// Invariant: 0 <= currentCount <= 2*maxCount at all times. MaxedOut reports
// currentCount > maxCount, so BreakLoop (which jumps the counter to
// 2*maxCount) short-circuits the loop regardless of later increments.
type Looper struct {
	maxCount     int
	currentCount int
	breaked      bool
}

// NewLooper constructs a Looper allowing maxCount iterations. Non-positive
// values fall back to DefaultPatience.
func NewLooper(maxCount int) *Looper {
	if maxCount <= 0 {
		maxCount = DefaultPatience
	}
	return &Looper{maxCount: maxCount}
}

// Reset zeros the counter and clears the break flag. Called at the start of
// every new user query.
func (l *Looper) Reset() {
	l.currentCount = 0
	l.breaked = false
}

// Increment adds one iteration, clamped at the break ceiling so the counter
// invariant holds under any call sequence.
func (l *Looper) Increment() {
	if l.currentCount < 2*l.maxCount {
		l.currentCount++
	}
}

// BreakLoop jumps the counter past the budget so MaxedOut stays true no
// matter how often Increment is called afterwards. Idempotent.
func (l *Looper) BreakLoop() {
	l.currentCount = 2 * l.maxCount
	l.breaked = true
}

// Breaked reports whether BreakLoop was called since the last Reset.
func (l *Looper) Breaked() bool { return l.breaked }

// MaxedOut reports whether the iteration budget is exhausted.
func (l *Looper) MaxedOut() bool { return l.currentCount > l.maxCount }

// Count returns the current iteration count.
func (l *Looper) Count() int { return l.currentCount }
