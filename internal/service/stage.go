package service

import (
	"time"

	"github.com/talentflow/talentflow/internal/store/model"
)

var stageTransitions = map[string][]string{
	model.StageApplied: {model.StageScreen, model.StageRejected},
	model.StageScreen:  {model.StageTech, model.StageRejected},
	model.StageTech:    {model.StageOffer, model.StageRejected},
	model.StageOffer:   {model.StageHired, model.StageRejected},
}

// CanTransition reports whether the pipeline allows moving from one stage to the next.
// hired and rejected are terminal.
func CanTransition(from, to string) bool {
	for _, next := range stageTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsTerminal(stage string) bool {
	return stage == model.StageHired || stage == model.StageRejected
}

// nextTimestamp never goes back in time relative to the last entry of the timeline.
func nextTimestamp(app *model.Application, now time.Time) time.Time {
	if last := app.LastEntry(); last != nil && now.Before(last.Timestamp) {
		return last.Timestamp
	}
	return now
}
