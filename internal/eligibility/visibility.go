// Package eligibility decides which resources a viewer may see and which
// resource states may be written.
package eligibility

import (
	"time"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/model"
)

// IsVisible reports whether viewer may see r's metadata and download its file on today.
//
// Staff always see everything. Everyone else never sees drafts; early access
// resources are visible immediately; the rest wait for the owning cohort to
// start. Course-owned resources have no start date and are visible once published.
func IsVisible(r model.Resource, viewer access.Actor, today time.Time) bool {
	if access.IsStaff(viewer) {
		return true
	}
	if r.Draft {
		return false
	}
	if r.EarlyAccess {
		return true
	}
	if !r.OwnedByCohort() {
		return true
	}
	if r.CohortStartDate == nil {
		return false
	}
	return !model.DateOf(*r.CohortStartDate).After(model.DateOf(today))
}

// AvailableForStudent keeps the resources of the student's enrolled cohorts
// that are visible on today. Input order is preserved.
func AvailableForStudent(student access.Student, resources []model.Resource, today time.Time) []model.Resource {
	available := make([]model.Resource, 0, len(resources))
	for _, r := range resources {
		if IsVisible(r, student, today) {
			available = append(available, r)
		}
	}
	return available
}
