package models

// TypeCreditDeficit reports progress toward one credit category.
type TypeCreditDeficit struct {
	Type             string `json:"type"`
	RequiredCredits  int    `json:"required_credits"`
	EarnedCredits    int    `json:"earned_credits"`
	RemainingCredits int    `json:"remaining_credits"`
}

// GraduationStatus summarises a student's credit progress across categories.
type GraduationStatus struct {
	StudentID     int64               `json:"student_id"`
	Deficits      []TypeCreditDeficit `json:"deficits"`
	TotalRequired int                 `json:"total_required"`
	TotalEarned   int                 `json:"total_earned"`
}

// CourseRecommendations groups candidate courses by deficit category,
// ordered by largest remaining deficit first.
type CourseRecommendations struct {
	StudentID      int64                           `json:"student_id"`
	Recommended    map[string][]CourseWithSessions `json:"recommended"`
	CreditProgress []TypeCreditDeficit             `json:"credit_progress"`
}
