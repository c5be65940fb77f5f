package feature

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1700000000, 0)

func fixedClock() time.Time { return fixedNow }

func mustDecode(t *testing.T, s string) Collection {
	t.Helper()
	c, err := Decode([]byte(s))
	require.NoError(t, err)
	return c
}

func encoded(t *testing.T, c Collection) string {
	t.Helper()
	out, err := Encode(c)
	require.NoError(t, err)
	return string(out)
}

const threePending = `[
  {"description": "Feature zero", "passes": false, "is_dev_done": false},
  {"description": "Feature one", "passes": false, "is_dev_done": false},
  {"description": "Feature two", "passes": false, "is_dev_done": false}
]`

func TestApply_Scenarios(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input       string
		plan        UpdatePlan
		wantChanged int
		wantSkipped []int
		check       func(t *testing.T, c Collection)
	}{
		"passes only on indices 0 and 2": {
			input:       threePending,
			plan:        UpdatePlan{Targets: []int{0, 2}},
			wantChanged: 2,
			check: func(t *testing.T, c Collection) {
				for _, i := range []int{0, 2} {
					assert.True(t, c[i].Bool(FieldPasses))
					assert.True(t, c[i].Bool(FieldIsQAPassed))
					assert.Equal(t, "1700000000", c[i].String(FieldQACompletedAt))
					assert.False(t, c[i].Has(FieldDevCompletedAt))
				}
				assert.False(t, c[1].Bool(FieldPasses))
				assert.False(t, c[1].Has(FieldIsQAPassed))
			},
		},
		"out of range index is skipped": {
			input:       threePending,
			plan:        UpdatePlan{Targets: []int{5}},
			wantChanged: 0,
			wantSkipped: []int{5},
		},
		"negative index is skipped": {
			input:       threePending,
			plan:        UpdatePlan{Targets: []int{-1}},
			wantChanged: 0,
			wantSkipped: []int{-1},
		},
		"pre-existing dev done is left untouched": {
			input: `[
  {"description": "zero"},
  {"description": "one", "is_dev_done": true, "dev_completed_at": "1600000000", "passes": false}
]`,
			plan:        UpdatePlan{Targets: []int{1}, MarkDevDone: true},
			wantChanged: 1,
			check: func(t *testing.T, c Collection) {
				assert.True(t, c[1].Bool(FieldIsDevDone))
				assert.Equal(t, "1600000000", c[1].String(FieldDevCompletedAt))
				assert.True(t, c[1].Bool(FieldPasses))
				assert.True(t, c[1].Bool(FieldIsQAPassed))
				assert.Equal(t, "1700000000", c[1].String(FieldQACompletedAt))
			},
		},
		"pre-existing dev done without timestamp stays without one": {
			input:       `[{"description": "zero", "is_dev_done": true}]`,
			plan:        UpdatePlan{Targets: []int{0}, MarkDevDone: true},
			wantChanged: 1,
			check: func(t *testing.T, c Collection) {
				assert.False(t, c[0].Has(FieldDevCompletedAt))
			},
		},
		"both groups flip on a pending record": {
			input:       threePending,
			plan:        UpdatePlan{Targets: []int{1}, MarkDevDone: true},
			wantChanged: 2,
			check: func(t *testing.T, c Collection) {
				assert.True(t, c[1].Bool(FieldIsDevDone))
				assert.Equal(t, "1700000000", c[1].String(FieldDevCompletedAt))
				assert.True(t, c[1].Bool(FieldPasses))
			},
		},
		"absent flags default to false": {
			input:       `[{"description": "bare"}]`,
			plan:        UpdatePlan{Targets: []int{0}},
			wantChanged: 1,
			check: func(t *testing.T, c Collection) {
				assert.Equal(t,
					[]string{"description", "passes", "is_qa_passed", "qa_completed_at"},
					c[0].Keys())
			},
		},
		"empty target list is a no-op": {
			input:       threePending,
			plan:        UpdatePlan{MarkDevDone: true},
			wantChanged: 0,
		},
		"duplicate target counts once": {
			input:       threePending,
			plan:        UpdatePlan{Targets: []int{0, 0}},
			wantChanged: 1,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := mustDecode(t, tc.input)
			u := NewUpdater(WithClock(fixedClock))

			report := u.Apply(c, tc.plan)

			assert.Equal(t, tc.wantChanged, report.Changed())
			assert.Equal(t, tc.wantSkipped, report.Skipped)
			if tc.check != nil {
				tc.check(t, c)
			}
		})
	}
}

func TestApply_ChangeOrder(t *testing.T) {
	t.Parallel()

	c := mustDecode(t, threePending)
	report := NewUpdater(WithClock(fixedClock)).Apply(c, UpdatePlan{
		Targets:     []int{2, 0},
		MarkDevDone: true,
	})

	want := []Change{
		{Index: 2, Group: GroupDev, Description: "Feature two", Timestamp: "1700000000"},
		{Index: 2, Group: GroupQA, Description: "Feature two", Timestamp: "1700000000"},
		{Index: 0, Group: GroupDev, Description: "Feature zero", Timestamp: "1700000000"},
		{Index: 0, Group: GroupQA, Description: "Feature zero", Timestamp: "1700000000"},
	}
	if diff := cmp.Diff(want, report.Changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_Idempotent(t *testing.T) {
	t.Parallel()

	c := mustDecode(t, threePending)
	plan := UpdatePlan{Targets: []int{0, 2}, MarkDevDone: true}

	first := NewUpdater(WithClock(fixedClock)).Apply(c, plan)
	require.Equal(t, 4, first.Changed())
	afterFirst := encoded(t, c)

	later := func() time.Time { return fixedNow.Add(time.Hour) }
	second := NewUpdater(WithClock(later)).Apply(c, plan)

	assert.Equal(t, 0, second.Changed())
	if diff := cmp.Diff(afterFirst, encoded(t, c)); diff != "" {
		t.Errorf("second run changed the collection (-first +second):\n%s", diff)
	}
}

func TestApply_MonotonicAndCoupled(t *testing.T) {
	t.Parallel()

	input := `[
  {"description": "a", "passes": true, "is_qa_passed": true, "qa_completed_at": "1"},
  {"description": "b", "passes": false, "is_dev_done": true, "dev_completed_at": "2"},
  {"description": "c"},
  {"description": "d", "passes": true}
]`
	before := mustDecode(t, input)
	after := before.Clone()

	NewUpdater(WithClock(fixedClock)).Apply(after, UpdatePlan{
		Targets:     []int{0, 1, 2, 3, 9},
		MarkDevDone: true,
	})

	for i := range before {
		for _, f := range []string{FieldPasses, FieldIsQAPassed, FieldIsDevDone} {
			if before[i].Bool(f) {
				assert.True(t, after[i].Bool(f), "record %d field %s regressed", i, f)
			}
		}
		for _, f := range []string{FieldQACompletedAt, FieldDevCompletedAt} {
			if before[i].Has(f) {
				assert.Equal(t, before[i].String(f), after[i].String(f), "record %d field %s rewritten", i, f)
			}
		}
		// records whose passes flag this run set must carry is_qa_passed too
		if !before[i].Bool(FieldPasses) {
			assert.Equal(t, after[i].Bool(FieldPasses), after[i].Bool(FieldIsQAPassed),
				"record %d passes/is_qa_passed diverged", i)
		}
	}
}

func TestApply_PassThroughFields(t *testing.T) {
	t.Parallel()

	input := `[
  {"category": "security", "description": "XSS <b>", "steps": ["a", "b"], "nested": {"k": [1, 2.5, null]}, "passes": false, "qa_retry_count": 3}
]`
	c := mustDecode(t, input)
	tracked := map[string]bool{
		FieldIsDevDone: true, FieldDevCompletedAt: true,
		FieldPasses: true, FieldIsQAPassed: true, FieldQACompletedAt: true,
	}

	before := map[string]json.RawMessage{}
	for _, k := range c[0].Keys() {
		raw, _ := c[0].Raw(k)
		before[k] = raw
	}

	NewUpdater(WithClock(fixedClock)).Apply(c, UpdatePlan{Targets: []int{0}, MarkDevDone: true})

	for k, raw := range before {
		if tracked[k] {
			continue
		}
		got, ok := c[0].Raw(k)
		require.True(t, ok, "field %s dropped", k)
		assert.Equal(t, string(raw), string(got), "field %s changed", k)
	}
}

func TestUpdatePlan_Groups(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Group{GroupQA}, UpdatePlan{}.Groups())
	assert.Equal(t, []Group{GroupDev, GroupQA}, UpdatePlan{MarkDevDone: true}.Groups())
	assert.Equal(t, "dev done", GroupDev.String())
	assert.Equal(t, "passing", GroupQA.String())
	assert.Equal(t, "unknown", Group(42).String())
}
