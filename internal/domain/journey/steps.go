package journey

import (
	"context"

	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

// step is one stage of a multi-statement write with no transaction
// primitive. Authoritative steps must succeed for the operation to count;
// auxiliary steps may fail, degrading the result to a qualified success.
type step struct {
	name          string
	authoritative bool
	skip          bool
	run           func(ctx context.Context) error
}

// runSteps executes steps in order. An authoritative failure stops the run
// and fails the operation; an auxiliary failure records a warning and
// continues. Warnings accumulated before an authoritative failure are
// returned alongside the error.
func runSteps(ctx context.Context, steps []step) ([]fault.Warning, error) {
	var warnings []fault.Warning
	for _, st := range steps {
		if st.skip {
			continue
		}
		err := st.run(ctx)
		if err == nil {
			continue
		}
		if st.authoritative {
			return warnings, err
		}
		warnings = append(warnings, fault.Warn(st.name, err))
	}
	return warnings, nil
}
