// Package scoring grades assessment submissions. Every function here is pure:
// the caller passes the assessment definition and the response map and gets a
// result back without touching storage.
package scoring

import (
	"math"

	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/store/model"
	"github.com/thoas/go-funk"
)

type Result struct {
	// Percent is round(Earned / Possible * 100), or 0 when nothing is scorable.
	Percent         int
	Earned          float64
	Possible        float64
	ScoredQuestions int
	Questions       []QuestionResult
}

type QuestionResult struct {
	QuestionID string
	Earned     float64
	Possible   float64
	// ManualReview is set for visible questions that are not auto scored.
	ManualReview bool
	// Hidden questions are excluded from both numerator and denominator.
	Hidden bool
}

// Score grades responses against every question of the assessment. It does not
// look at EnableScoring; callers decide whether the result is kept.
func Score(assessment model.Assessment, responses map[string]api.Answer) Result {
	result := Result{}

	for _, q := range assessment.Questions() {
		qr := QuestionResult{QuestionID: q.ID}

		if !Visible(q, responses) {
			qr.Hidden = true
			result.Questions = append(result.Questions, qr)
			continue
		}

		earned, possible, scored := scoreQuestion(q, responses[q.ID])
		if !scored {
			qr.ManualReview = true
			result.Questions = append(result.Questions, qr)
			continue
		}

		qr.Earned = earned
		qr.Possible = possible
		result.Earned += earned
		result.Possible += possible
		result.ScoredQuestions++
		result.Questions = append(result.Questions, qr)
	}

	if result.Possible > 0 {
		result.Percent = int(math.Round(result.Earned / result.Possible * 100))
	}

	return result
}

func scoreQuestion(q model.Question, response api.Answer) (earned, possible float64, scored bool) {
	if q.CorrectAnswer == nil {
		return 0, 0, false
	}

	points := q.PointsOrDefault()

	switch q.Type {
	case model.QuestionSingleChoice:
		if !response.IsEmpty() && response.String() == q.CorrectAnswer.String() {
			return points, points, true
		}
		return 0, points, true
	case model.QuestionMultiChoice:
		correct := nonEmpty(q.CorrectAnswer.Values())
		if len(correct) == 0 {
			return 0, 0, false
		}
		return points * multiChoiceCredit(correct, nonEmpty(response.Values())), points, true
	default:
		// text, numeric and file answers always go to a human
		return 0, 0, false
	}
}

// multiChoiceCredit returns max(0, (correctSelected - incorrectSelected) / len(correct)).
func multiChoiceCredit(correct, selected []string) float64 {
	correctSelected, incorrectSelected := 0, 0
	for _, s := range selected {
		if funk.ContainsString(correct, s) {
			correctSelected++
		} else {
			incorrectSelected++
		}
	}
	return math.Max(0, float64(correctSelected-incorrectSelected)/float64(len(correct)))
}

func nonEmpty(values []string) []string {
	values = funk.UniqString(values)
	return funk.FilterString(values, func(v string) bool { return v != "" })
}
