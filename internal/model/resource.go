package model

import (
	"path"
	"strings"
	"time"
)

// ResourceKind is the media type of a resource.
type ResourceKind string

const (
	ResourceKindVideo ResourceKind = "video"
	ResourceKindPDF   ResourceKind = "pdf"
	ResourceKindZip   ResourceKind = "zip"
)

var allowedExtensions = map[ResourceKind][]string{
	ResourceKindVideo: {"mp4", "avi", "mov"},
	ResourceKindPDF:   {"pdf"},
	ResourceKindZip:   {"zip"},
}

// Valid reports whether k is a known kind.
func (k ResourceKind) Valid() bool {
	_, ok := allowedExtensions[k]
	return ok
}

// Extensions returns the file extensions accepted for k, without the dot.
func (k ResourceKind) Extensions() []string {
	return allowedExtensions[k]
}

// Accepts reports whether fileName has an extension valid for k.
func (k ResourceKind) Accepts(fileName string) bool {
	ext := FileExtension(fileName)
	for _, allowed := range allowedExtensions[k] {
		if ext == allowed {
			return true
		}
	}
	return false
}

// FileExtension returns the lower-cased extension of name without the dot.
func FileExtension(name string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
}

// Resource is downloadable material owned by exactly one of a Cohort or a Course.
type Resource struct {
	ID          string       `db:"id" json:"id"`
	CohortID    *string      `db:"cohort_id" json:"cohort_id"`
	CourseID    *string      `db:"course_id" json:"course_id"`
	Kind        ResourceKind `db:"kind" json:"kind"`
	Name        string       `db:"name" json:"name"`
	Description string       `db:"description" json:"description"`
	FileName    string       `db:"file_name" json:"file_name"`
	FileKey     string       `db:"file_key" json:"-"`
	EarlyAccess bool         `db:"early_access" json:"early_access"`
	Draft       bool         `db:"draft" json:"draft"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`

	// Owner projections. CohortStartDate is nil for course-owned resources.
	CohortName      string     `db:"cohort_name" json:"cohort_name"`
	CohortStartDate *time.Time `db:"cohort_start_date" json:"-"`
	CourseName      string     `db:"course_name" json:"course_name"`
}

// OwnedByCohort reports whether the resource hangs off a cohort.
func (r *Resource) OwnedByCohort() bool {
	return r.CohortID != nil && *r.CohortID != ""
}
