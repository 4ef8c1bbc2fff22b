package service

import (
	"context"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/campusflow/course-select-api/internal/models"
	appErrors "github.com/campusflow/course-select-api/pkg/errors"
)

type enrollmentHistoryReader interface {
	ListByStudentAndStatuses(ctx context.Context, studentID int64, statuses ...models.EnrollmentStatus) ([]models.Enrollment, error)
}

type courseTypeReader interface {
	ListByIDs(ctx context.Context, ids []int64) ([]models.Course, error)
	ListByType(ctx context.Context, courseType string) ([]models.Course, error)
}

const maxRecommendationsPerType = 5

// GraduationService computes credit progress against per-type requirements
// and recommends courses that close the gaps.
type GraduationService struct {
	enrollments  enrollmentHistoryReader
	courses      courseTypeReader
	catalog      *CourseService
	requirements map[string]int
	logger       *zap.Logger
}

// NewGraduationService constructs a GraduationService.
func NewGraduationService(enrollments enrollmentHistoryReader, courses courseTypeReader, catalog *CourseService, requirements map[string]int, logger *zap.Logger) *GraduationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraduationService{
		enrollments:  enrollments,
		courses:      courses,
		catalog:      catalog,
		requirements: requirements,
		logger:       logger,
	}
}

// Status sums completed credits by course type and compares them with the
// configured requirements. Only COMPLETED enrollments earn credits.
func (s *GraduationService) Status(ctx context.Context, studentID int64) (*models.GraduationStatus, error) {
	earned, _, err := s.earnedCreditsByType(ctx, studentID)
	if err != nil {
		return nil, err
	}

	status := &models.GraduationStatus{StudentID: studentID}
	for _, courseType := range sortedTypes(s.requirements) {
		required := s.requirements[courseType]
		got := earned[courseType]
		remaining := required - got
		if remaining < 0 {
			remaining = 0
		}
		status.Deficits = append(status.Deficits, models.TypeCreditDeficit{
			Type:             courseType,
			RequiredCredits:  required,
			EarnedCredits:    got,
			RemainingCredits: remaining,
		})
		status.TotalRequired += required
		status.TotalEarned += got
	}
	return status, nil
}

// Recommend returns, per deficit category, up to five randomly chosen courses
// the student has not taken. Categories are reported largest deficit first.
func (s *GraduationService) Recommend(ctx context.Context, studentID int64) (*models.CourseRecommendations, error) {
	status, err := s.Status(ctx, studentID)
	if err != nil {
		return nil, err
	}

	taken, err := s.takenCourseIDs(ctx, studentID)
	if err != nil {
		return nil, err
	}

	deficits := make([]models.TypeCreditDeficit, 0, len(status.Deficits))
	for _, d := range status.Deficits {
		if d.RemainingCredits > 0 {
			deficits = append(deficits, d)
		}
	}
	sort.SliceStable(deficits, func(i, j int) bool {
		return deficits[i].RemainingCredits > deficits[j].RemainingCredits
	})

	recommended := make(map[string][]models.CourseWithSessions, len(deficits))
	for _, deficit := range deficits {
		candidates, err := s.courses.ListByType(ctx, deficit.Type)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate courses")
		}

		ids := make([]int64, 0, len(candidates))
		for _, c := range candidates {
			if _, done := taken[c.ID]; done {
				continue
			}
			ids = append(ids, c.ID)
		}
		rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		if len(ids) > maxRecommendationsPerType {
			ids = ids[:maxRecommendationsPerType]
		}

		picks, err := s.catalog.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		recommended[deficit.Type] = picks
	}

	return &models.CourseRecommendations{
		StudentID:      studentID,
		Recommended:    recommended,
		CreditProgress: deficits,
	}, nil
}

// earnedCreditsByType maps course type to credits earned from completed
// enrollments. A completed course counts once even if the ledger holds
// several completed rows for it.
func (s *GraduationService) earnedCreditsByType(ctx context.Context, studentID int64) (map[string]int, map[int64]struct{}, error) {
	completed, err := s.enrollments.ListByStudentAndStatuses(ctx, studentID, models.EnrollmentStatusCompleted)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment history")
	}

	courseIDs := make(map[int64]struct{}, len(completed))
	ids := make([]int64, 0, len(completed))
	for _, e := range completed {
		if _, seen := courseIDs[e.CourseID]; seen {
			continue
		}
		courseIDs[e.CourseID] = struct{}{}
		ids = append(ids, e.CourseID)
	}

	earned := map[string]int{}
	if len(ids) == 0 {
		return earned, courseIDs, nil
	}

	courses, err := s.courses.ListByIDs(ctx, ids)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load completed courses")
	}
	for _, c := range courses {
		earned[c.Type] += c.Credits
	}
	return earned, courseIDs, nil
}

// takenCourseIDs collects courses the student is enrolled in or has
// completed, which are excluded from recommendations.
func (s *GraduationService) takenCourseIDs(ctx context.Context, studentID int64) (map[int64]struct{}, error) {
	history, err := s.enrollments.ListByStudentAndStatuses(ctx, studentID,
		models.EnrollmentStatusEnrolled, models.EnrollmentStatusCompleted)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment history")
	}
	taken := make(map[int64]struct{}, len(history))
	for _, e := range history {
		taken[e.CourseID] = struct{}{}
	}
	return taken, nil
}

func sortedTypes(requirements map[string]int) []string {
	types := make([]string, 0, len(requirements))
	for t := range requirements {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
