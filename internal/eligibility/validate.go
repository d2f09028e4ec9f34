package eligibility

import (
	"fmt"
	"strings"
	"time"

	"github.com/Elias-Front-end/management-system/internal/model"
)

// ResourceInput is the state a resource write would persist.
type ResourceInput struct {
	CohortID    *string
	CourseID    *string
	Kind        model.ResourceKind
	Name        string
	EarlyAccess bool
	Draft       bool
	// FileName is the name of a newly attached file, empty when the file is unchanged.
	FileName string
	// StoredFileName is the file already attached to the resource, empty on create.
	StoredFileName string
}

const (
	msgOwnerBoth      = "a resource belongs to either a cohort or a course, not both"
	msgOwnerNone      = "a resource must belong to a cohort or a course"
	msgEarlyDraft     = "a resource with early access cannot be a draft"
	msgDraftEarly     = "a draft resource cannot have early access"
	msgCohortStarted  = "the cohort has already started; early access resources must be published"
	msgFileRequired   = "a file is required"
	msgNameRequired   = "name is required"
	msgKindInvalid    = "kind must be one of video, pdf, zip"
	msgEndBeforeStart = "end date must be after the start date"
)

// ValidateResource is the single write-path check for resources. cohort is the
// owning cohort when the resource is cohort-owned, nil otherwise.
// It returns a *model.ValidationError or nil.
func ValidateResource(in ResourceInput, cohort *model.Cohort, today time.Time) error {
	verr := model.NewValidationError()

	hasCohort := in.CohortID != nil && *in.CohortID != ""
	hasCourse := in.CourseID != nil && *in.CourseID != ""
	switch {
	case hasCohort && hasCourse:
		verr.Add("cohort_id", msgOwnerBoth)
		verr.Add("course_id", msgOwnerBoth)
	case !hasCohort && !hasCourse:
		verr.Add("cohort_id", msgOwnerNone)
		verr.Add("course_id", msgOwnerNone)
	}

	if strings.TrimSpace(in.Name) == "" {
		verr.Add("name", msgNameRequired)
	}

	if !in.Kind.Valid() {
		verr.Add("kind", msgKindInvalid)
	}

	file := in.FileName
	if file == "" {
		file = in.StoredFileName
	}
	switch {
	case file == "":
		verr.Add("file", msgFileRequired)
	case in.Kind.Valid() && !in.Kind.Accepts(file):
		verr.Add("file", fmt.Sprintf("a %s resource requires a file with extension %s",
			in.Kind, strings.Join(in.Kind.Extensions(), ", ")))
	}

	if in.EarlyAccess && in.Draft {
		verr.Add("early_access", msgEarlyDraft)
		verr.Add("draft", msgDraftEarly)
		if hasCohort && cohort != nil && cohort.HasStarted(today) {
			verr.Add("draft", msgCohortStarted)
		}
	}

	return verr.OrNil()
}

// ValidateCohort checks cohort fields that do not depend on stored state.
func ValidateCohort(name string, start, end time.Time) error {
	verr := model.NewValidationError()
	if strings.TrimSpace(name) == "" {
		verr.Add("name", msgNameRequired)
	}
	if !model.DateOf(end).After(model.DateOf(start)) {
		verr.Add("end_date", msgEndBeforeStart)
	}
	return verr.OrNil()
}
