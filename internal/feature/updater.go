package feature

import (
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Group identifies a set of coupled fields that are advanced together.
type Group int

const (
	// GroupDev is {is_dev_done, dev_completed_at}.
	GroupDev Group = iota
	// GroupQA is {passes, is_qa_passed, qa_completed_at}.
	GroupQA
)

// String returns the label used in operator output.
func (g Group) String() string {
	switch g {
	case GroupDev:
		return "dev done"
	case GroupQA:
		return "passing"
	default:
		return "unknown"
	}
}

// UpdatePlan describes one run of the updater.
type UpdatePlan struct {
	// Targets are record indices, processed in order.
	Targets []int
	// MarkDevDone also advances the dev group. The QA group is always advanced.
	MarkDevDone bool
}

// Groups returns the groups the plan advances, in processing order.
func (p UpdatePlan) Groups() []Group {
	if p.MarkDevDone {
		return []Group{GroupDev, GroupQA}
	}
	return []Group{GroupQA}
}

// Change is a single flag group transition from false to true.
type Change struct {
	Index       int
	Group       Group
	Description string
	Timestamp   string
}

// Report summarizes an Apply run.
type Report struct {
	Changes []Change
	// Skipped holds target indices outside the collection.
	Skipped []int
}

// Changed returns the number of flag groups that transitioned.
func (r *Report) Changed() int {
	return len(r.Changes)
}

// Updater advances feature flags monotonically.
type Updater struct {
	now    func() time.Time
	logger *zap.Logger
}

// Option configures an Updater.
type Option func(*Updater)

// WithClock overrides the time source used for completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(u *Updater) {
		u.now = now
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(u *Updater) {
		u.logger = logger
	}
}

// NewUpdater creates an Updater using the wall clock and a no-op logger.
func NewUpdater(opts ...Option) *Updater {
	u := &Updater{
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Apply advances the plan's groups on each target record in place.
// Flags already true are left alone together with their timestamps, and
// out-of-range indices are skipped without error.
func (u *Updater) Apply(c Collection, plan UpdatePlan) *Report {
	report := &Report{}
	groups := plan.Groups()

	for _, idx := range plan.Targets {
		rec, ok := c.At(idx)
		if !ok {
			u.logger.Debug("skipping out-of-range feature",
				zap.Int("index", idx), zap.Int("len", c.Len()))
			report.Skipped = append(report.Skipped, idx)
			continue
		}

		for _, g := range groups {
			ts, changed := u.advance(rec, g)
			if !changed {
				u.logger.Debug("feature group already set",
					zap.Int("index", idx), zap.Stringer("group", g))
				continue
			}
			u.logger.Debug("feature group advanced",
				zap.Int("index", idx), zap.Stringer("group", g), zap.String("at", ts))
			report.Changes = append(report.Changes, Change{
				Index:       idx,
				Group:       g,
				Description: rec.Description(),
				Timestamp:   ts,
			})
		}
	}

	return report
}

// advance flips one group on rec if it is not already set.
func (u *Updater) advance(rec *Record, g Group) (string, bool) {
	switch g {
	case GroupDev:
		if rec.Bool(FieldIsDevDone) {
			return "", false
		}
		ts := u.stamp()
		rec.SetBool(FieldIsDevDone, true)
		rec.SetString(FieldDevCompletedAt, ts)
		return ts, true
	case GroupQA:
		if rec.Bool(FieldPasses) {
			return "", false
		}
		ts := u.stamp()
		rec.SetBool(FieldPasses, true)
		rec.SetBool(FieldIsQAPassed, true)
		rec.SetString(FieldQACompletedAt, ts)
		return ts, true
	default:
		return "", false
	}
}

// stamp returns the current time as epoch seconds.
func (u *Updater) stamp() string {
	return strconv.FormatInt(u.now().Unix(), 10)
}
