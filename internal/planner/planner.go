package planner

import (
	"path/filepath"

	"github.com/backmassage/picvmaf/internal/config"
	"github.com/backmassage/picvmaf/internal/naming"
)

// BuildPlan lays out the jobs for names, which must already be in
// comparison order. Frame paths come from [naming.FramePath] and result
// paths from [naming.ResultPath], so pair i always writes
// compare_<i>_<i+1>.json.
func BuildPlan(cfg *config.Config, names []string) *Plan {
	plan := &Plan{
		FrameDir:  cfg.FrameDir,
		ResultDir: cfg.ResultDir,
		Frames:    make([]FrameJob, 0, len(names)),
	}

	for i, name := range names {
		plan.Frames = append(plan.Frames, FrameJob{
			Index:  i,
			Name:   name,
			Source: filepath.Join(cfg.InputDir, name),
			Frame:  naming.FramePath(cfg.FrameDir, name),
		})
	}

	for i := 1; i < len(plan.Frames); i++ {
		plan.Pairs = append(plan.Pairs, PairJob{
			Index:  i - 1,
			Left:   plan.Frames[i-1],
			Right:  plan.Frames[i],
			Result: naming.ResultPath(cfg.ResultDir, i-1, i),
		})
	}
	return plan
}
