package study

import (
	"github.com/educationaltr/study-tracker/internal/domain/shared"
)

// GradePlan is the result of a target-average calculation.
type GradePlan struct {
	CurrentAverage float64 `json:"current_average"`
	TargetAverage  float64 `json:"target_average"`
	RemainingExams int     `json:"remaining_exams"`
	NeededAverage  float64 `json:"needed_average"`
	Reachable      bool    `json:"reachable"`
}

// CalculateGrade works out the average percentage needed over the remaining
// exams to bring the overall average to target.
//
// With n exams already taken at average cur, the needed average is
// (target*(n+remaining) - cur*n) / remaining. A needed average above 100
// returns the plan together with ErrTargetUnreachable.
func CalculateGrade(exams []*Exam, target float64, remaining int) (GradePlan, error) {
	errs := shared.FieldErrors{}
	if target <= 0 || target > 100 {
		errs.Add("target_average", "must be greater than 0 and at most 100")
	}
	if remaining <= 0 {
		errs.Add("remaining_exams", "must be greater than 0")
	}
	if err := errs.OrNil(); err != nil {
		return GradePlan{}, err
	}

	if len(exams) == 0 {
		return GradePlan{}, shared.ErrNoExamResults
	}

	var sum float64
	for _, e := range exams {
		sum += e.Percentage()
	}
	n := float64(len(exams))
	current := sum / n
	needed := (target*(n+float64(remaining)) - current*n) / float64(remaining)

	plan := GradePlan{
		CurrentAverage: shared.Round2(current),
		TargetAverage:  shared.Round2(target),
		RemainingExams: remaining,
		NeededAverage:  shared.Round2(needed),
		Reachable:      needed <= 100,
	}
	if !plan.Reachable {
		return plan, shared.ErrTargetUnreachable
	}
	return plan, nil
}
