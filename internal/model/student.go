package model

import "time"

// Student is the profile linked 1:1 to a non-admin account.
type Student struct {
	ID        string    `db:"id" json:"id"`
	AccountID string    `db:"account_id" json:"account_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Username        string `db:"username" json:"username"`
	EnrollmentCount int    `db:"enrollment_count" json:"enrollment_count"`
}

// Enrollment links a Student to a Cohort.
type Enrollment struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	CohortID   string    `db:"cohort_id" json:"cohort_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`

	StudentName string `db:"student_name" json:"student_name"`
	CohortName  string `db:"cohort_name" json:"cohort_name"`
	CourseName  string `db:"course_name" json:"course_name"`
}
