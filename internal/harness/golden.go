package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its trace snapshot
// against testdata/golden/<scenario.Name>.golden.
//
// Regenerate golden files with:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario itself fails; trace divergence fails
// the test through goldie.
func RunWithGolden(t *testing.T, sc *Scenario) error {
	t.Helper()

	result, err := Run(sc)
	if err != nil {
		return err
	}
	if !result.Pass {
		return fmt.Errorf("scenario %s failed: %v", sc.Name, result.Errors)
	}

	data, err := result.Snapshot.MarshalIndent()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, data)
	return nil
}
