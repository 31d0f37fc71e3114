package pareto

// Front holds at most one winning candidate per output variable.
type Front struct {
	winners []Candidate
	filled  []bool
}

// NewFront returns an empty front for the given number of output variables.
func NewFront(outputs int) *Front {
	return &Front{
		winners: make([]Candidate, outputs),
		filled:  make([]bool, outputs),
	}
}

func (f *Front) Outputs() int { return len(f.winners) }

// Insert unconditionally installs c as the winner for its output variable.
// Used to bootstrap the front on the first sweep step.
func (f *Front) Insert(c Candidate) {
	f.winners[c.Output] = c
	f.filled[c.Output] = true
}

// Winner returns the retained candidate for an output variable, if any.
func (f *Front) Winner(output int) (Candidate, bool) {
	if !f.filled[output] {
		return Candidate{}, false
	}
	return f.winners[output], true
}

// Merge folds the winners of tmp into f. For each output variable the
// incoming candidate is discarded when dominated by the current winner,
// installed when it dominates, and otherwise competes on the scalarized
// score. With a strictly monotone scalarization the retained winner is never
// dominated by any candidate ever merged.
func (f *Front) Merge(tmp *Front, s Scalarization) {
	for j := range tmp.winners {
		in, ok := tmp.Winner(j)
		if !ok {
			continue
		}
		cur, ok := f.Winner(j)
		if !ok {
			f.Insert(in)
			continue
		}
		switch {
		case cur.Objectives.Dominates(in.Objectives):
		case in.Objectives.Dominates(cur.Objectives):
			f.Insert(in)
		case s.Score(in.Objectives) < s.Score(cur.Objectives):
			f.Insert(in)
		}
	}
}
