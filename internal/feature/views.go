package feature

import "fmt"

// State is a record's position in the development/QA lifecycle.
type State string

const (
	StatePendingDev State = "pending-dev"
	StatePendingQA  State = "pending-qa"
	StateDone       State = "done"
)

// ValidStates lists the states accepted by ParseState.
var ValidStates = []State{StatePendingDev, StatePendingQA, StateDone}

// ParseState converts s into a State.
func ParseState(s string) (State, error) {
	for _, st := range ValidStates {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown feature state %q (valid: pending-dev, pending-qa, done)", s)
}

// StateOf classifies a record.
func StateOf(r *Record) State {
	switch {
	case r.Bool(FieldPasses):
		return StateDone
	case r.Bool(FieldIsDevDone):
		return StatePendingQA
	default:
		return StatePendingDev
	}
}

// Entry is a record paired with its index.
type Entry struct {
	Index  int
	Record *Record
}

// Filter returns the records in state st, in collection order.
func Filter(c Collection, st State) []Entry {
	var out []Entry
	for i, r := range c {
		if StateOf(r) == st {
			out = append(out, Entry{Index: i, Record: r})
		}
	}
	return out
}

// Stats are aggregate counts over a collection.
type Stats struct {
	// Total is the denominator for percentages.
	Total      int
	Len        int
	Passing    int
	DevDone    int
	PendingDev int
	PendingQA  int
}

// Summarize counts records. expectedTotal is used as the percentage
// denominator; zero or less means the collection length.
func Summarize(c Collection, expectedTotal int) Stats {
	s := Stats{Total: expectedTotal, Len: len(c)}
	if s.Total <= 0 {
		s.Total = len(c)
	}
	for _, r := range c {
		if r.Bool(FieldPasses) {
			s.Passing++
		}
		if r.Bool(FieldIsDevDone) {
			s.DevDone++
		}
		switch StateOf(r) {
		case StatePendingDev:
			s.PendingDev++
		case StatePendingQA:
			s.PendingQA++
		}
	}
	return s
}

// PassingPercent returns Passing as a percentage of Total.
func (s Stats) PassingPercent() float64 {
	return percent(s.Passing, s.Total)
}

// DevDonePercent returns DevDone as a percentage of Total.
func (s Stats) DevDonePercent() float64 {
	return percent(s.DevDone, s.Total)
}

func percent(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// ResolveTargets builds the index list for an update plan: indices as given,
// then the first match for each description. Descriptions that match no
// record are returned in missing.
func ResolveTargets(c Collection, indices []int, descriptions []string) (targets []int, missing []string) {
	targets = append(targets, indices...)
	for _, d := range descriptions {
		idx := c.IndexOf(d)
		if idx < 0 {
			missing = append(missing, d)
			continue
		}
		targets = append(targets, idx)
	}
	return targets, missing
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
