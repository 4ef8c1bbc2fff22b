package service

import (
	"fmt"

	"github.com/campusflow/course-select-api/internal/models"
	"github.com/campusflow/course-select-api/pkg/config"
)

// CapacityDecision is the outcome of evaluating a course's occupancy against
// the deployment's capacity policy.
type CapacityDecision struct {
	Allowed bool
	// Warning is set when the enrollment is granted over capacity under the
	// soft policy.
	Warning string
	// Denial carries the occupancy numbers when the hard policy refuses.
	Denial *models.CourseFullError
}

// CapacityChecker applies the configured capacity policy. The tracker itself
// is policy-agnostic: occupancy comes from Course.AtOrOverCapacity and the
// counter is adjusted by the orchestrator's transaction.
type CapacityChecker struct {
	Policy string
}

// Evaluate decides whether a new enrollment may proceed. Unlimited courses
// are always granted cleanly.
func (c CapacityChecker) Evaluate(course *models.Course) CapacityDecision {
	if !course.AtOrOverCapacity() {
		return CapacityDecision{Allowed: true}
	}
	capacity := 0
	if course.Capacity != nil {
		capacity = *course.Capacity
	}
	if c.Policy == config.CapacityPolicyHard {
		return CapacityDecision{
			Denial: &models.CourseFullError{
				CourseID: course.ID,
				Current:  course.EnrolledCount,
				Capacity: capacity,
			},
		}
	}
	warning := fmt.Sprintf(
		"course is over capacity and the lottery will be competitive; pick with care (current: %d/%d)",
		course.EnrolledCount, capacity)
	return CapacityDecision{Allowed: true, Warning: warning}
}
