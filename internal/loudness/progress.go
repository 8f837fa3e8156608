package loudness

// ProgressFunc receives completion milestones as whole percentages (5, 10, ..., 100)
type ProgressFunc func(percent int)

// progress turns per-index steps into 5% milestone callbacks
type progress struct {
	total    int
	last     int
	callback ProgressFunc
}

func newProgress(total int, callback ProgressFunc) *progress {
	return &progress{total: total, callback: callback}
}

// step reports index i (0-based) as being started. A milestone fires the first
// time the floored percentage lands on a multiple of five.
func (p *progress) step(i int) {
	if p.callback == nil || p.total <= 0 {
		return
	}
	current := i * 100 / p.total
	if current > p.last && current%5 == 0 {
		p.callback(current)
	}
	p.last = current
}

// done reports completion once the last index has been processed
func (p *progress) done() {
	if p.callback == nil || p.total <= 0 {
		return
	}
	p.callback(100)
}
