package feature

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// applyBDDTestContext holds state across steps of one scenario.
type applyBDDTestContext struct {
	collection   Collection
	original     string
	firstQAStamp map[int]string
	report       *Report
	now          time.Time
}

func (ctx *applyBDDTestContext) reset() {
	ctx.collection = nil
	ctx.original = ""
	ctx.firstQAStamp = map[int]string{}
	ctx.report = nil
	ctx.now = fixedNow
}

func (ctx *applyBDDTestContext) aFeatureListWithPendingFeatures(count int) error {
	ctx.reset()
	ctx.collection = make(Collection, count)
	for i := range ctx.collection {
		r := NewRecord(fmt.Sprintf("Feature %d", i))
		r.SetBool(FieldPasses, false)
		r.SetBool(FieldIsDevDone, false)
		ctx.collection[i] = r
	}
	return ctx.snapshot()
}

func (ctx *applyBDDTestContext) featureIsAlreadyDevDone(index int) error {
	r, ok := ctx.collection.At(index)
	if !ok {
		return fmt.Errorf("no feature %d", index)
	}
	r.SetBool(FieldIsDevDone, true)
	r.SetString(FieldDevCompletedAt, "1600000000")
	return ctx.snapshot()
}

func (ctx *applyBDDTestContext) snapshot() error {
	out, err := Encode(ctx.collection)
	if err != nil {
		return err
	}
	ctx.original = string(out)
	return nil
}

func (ctx *applyBDDTestContext) apply(indices string, markDevDone bool) error {
	targets, err := parseIndices(indices)
	if err != nil {
		return err
	}
	now := ctx.now
	u := NewUpdater(WithClock(func() time.Time { return now }))
	ctx.report = u.Apply(ctx.collection, UpdatePlan{Targets: targets, MarkDevDone: markDevDone})
	return nil
}

func (ctx *applyBDDTestContext) iMarkFeaturesAsPassing(indices string) error {
	if err := ctx.apply(indices, false); err != nil {
		return err
	}
	for i, r := range ctx.collection {
		ctx.firstQAStamp[i] = r.String(FieldQACompletedAt)
	}
	return nil
}

func (ctx *applyBDDTestContext) iMarkFeaturesAsPassingAgainAnHourLater(indices string) error {
	ctx.now = ctx.now.Add(time.Hour)
	return ctx.apply(indices, false)
}

func (ctx *applyBDDTestContext) iMarkFeaturesAsDevDoneAndPassing(indices string) error {
	return ctx.apply(indices, true)
}

func (ctx *applyBDDTestContext) featuresShouldBePassingWithAQATimestamp(indices string) error {
	targets, err := parseIndices(indices)
	if err != nil {
		return err
	}
	for _, i := range targets {
		r := ctx.collection[i]
		if !r.Bool(FieldPasses) || !r.Bool(FieldIsQAPassed) {
			return fmt.Errorf("feature %d is not passing", i)
		}
		if _, err := strconv.ParseInt(r.String(FieldQACompletedAt), 10, 64); err != nil {
			return fmt.Errorf("feature %d qa_completed_at is not numeric: %q", i, r.String(FieldQACompletedAt))
		}
	}
	return nil
}

func (ctx *applyBDDTestContext) featureShouldBeUnchanged(index int) error {
	r := ctx.collection[index]
	if r.Bool(FieldPasses) || r.Has(FieldIsQAPassed) || r.Has(FieldQACompletedAt) {
		return fmt.Errorf("feature %d was modified", index)
	}
	return nil
}

func (ctx *applyBDDTestContext) fieldsShouldHaveChanged(n int) error {
	if ctx.report == nil {
		return fmt.Errorf("no update has run")
	}
	if got := ctx.report.Changed(); got != n {
		return fmt.Errorf("expected %d changed fields, got %d", n, got)
	}
	return nil
}

func (ctx *applyBDDTestContext) theQATimestampsShouldMatchTheFirstRun() error {
	for i, r := range ctx.collection {
		if got := r.String(FieldQACompletedAt); got != ctx.firstQAStamp[i] {
			return fmt.Errorf("feature %d qa_completed_at changed from %q to %q", i, ctx.firstQAStamp[i], got)
		}
	}
	return nil
}

func (ctx *applyBDDTestContext) theFeatureListShouldBeUnchanged() error {
	out, err := Encode(ctx.collection)
	if err != nil {
		return err
	}
	if string(out) != ctx.original {
		return fmt.Errorf("feature list changed:\n%s", out)
	}
	return nil
}

func (ctx *applyBDDTestContext) featureShouldKeepItsOriginalDevCompletion(index int) error {
	r := ctx.collection[index]
	if !r.Bool(FieldIsDevDone) {
		return fmt.Errorf("feature %d lost is_dev_done", index)
	}
	if got := r.String(FieldDevCompletedAt); got != "1600000000" {
		return fmt.Errorf("feature %d dev_completed_at rewritten to %q", index, got)
	}
	return nil
}

func parseIndices(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad index %q: %w", part, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// InitializeApplyScenario registers the step definitions.
func InitializeApplyScenario(ctx *godog.ScenarioContext) {
	testCtx := &applyBDDTestContext{}

	ctx.Step(`^a feature list with (\d+) pending features$`, testCtx.aFeatureListWithPendingFeatures)
	ctx.Step(`^feature (\d+) is already dev done$`, testCtx.featureIsAlreadyDevDone)

	ctx.Step(`^I mark features "([^"]*)" as passing$`, testCtx.iMarkFeaturesAsPassing)
	ctx.Step(`^I mark features "([^"]*)" as passing again an hour later$`, testCtx.iMarkFeaturesAsPassingAgainAnHourLater)
	ctx.Step(`^I mark features "([^"]*)" as dev done and passing$`, testCtx.iMarkFeaturesAsDevDoneAndPassing)

	ctx.Step(`^features "([^"]*)" should be passing with a QA timestamp$`, testCtx.featuresShouldBePassingWithAQATimestamp)
	ctx.Step(`^feature (\d+) should be unchanged$`, testCtx.featureShouldBeUnchanged)
	ctx.Step(`^(\d+) fields should have changed$`, testCtx.fieldsShouldHaveChanged)
	ctx.Step(`^the QA timestamps should match the first run$`, testCtx.theQATimestampsShouldMatchTheFirstRun)
	ctx.Step(`^the feature list should be unchanged$`, testCtx.theFeatureListShouldBeUnchanged)
	ctx.Step(`^feature (\d+) should keep its original dev completion$`, testCtx.featureShouldKeepItsOriginalDevCompletion)
}

// TestApplyFeatures runs the BDD scenarios for the status updater.
func TestApplyFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeApplyScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/apply.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
