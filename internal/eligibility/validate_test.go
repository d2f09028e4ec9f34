package eligibility

import (
	"errors"
	"testing"

	"github.com/Elias-Front-end/management-system/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	require.Error(t, err)
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr), "expected *model.ValidationError, got %T", err)
	return verr.Fields
}

func validInput() ResourceInput {
	return ResourceInput{
		CohortID: strPtr("cohort-1"),
		Kind:     model.ResourceKindVideo,
		Name:     "Welcome",
		FileName: "welcome.MP4",
	}
}

func TestValidateResource_Valid(t *testing.T) {
	cohort := &model.Cohort{ID: "cohort-1", StartDate: date(t, "2025-01-10")}
	assert.NoError(t, ValidateResource(validInput(), cohort, date(t, "2025-01-01")))

	in := validInput()
	in.CohortID = nil
	in.CourseID = strPtr("course-1")
	in.Kind = model.ResourceKindZip
	in.FileName = "bundle.zip"
	assert.NoError(t, ValidateResource(in, nil, date(t, "2025-01-01")))
}

func TestValidateResource_Ownership(t *testing.T) {
	in := validInput()
	in.CourseID = strPtr("course-1")
	fields := fieldErrors(t, ValidateResource(in, nil, date(t, "2025-01-01")))
	assert.Contains(t, fields, "cohort_id")
	assert.Contains(t, fields, "course_id")

	in = validInput()
	in.CohortID = strPtr("")
	fields = fieldErrors(t, ValidateResource(in, nil, date(t, "2025-01-01")))
	assert.Equal(t, []string{msgOwnerNone}, fields["cohort_id"])
}

func TestValidateResource_EarlyAccessDraft(t *testing.T) {
	cohort := &model.Cohort{ID: "cohort-1", StartDate: date(t, "2025-01-10")}
	in := validInput()
	in.EarlyAccess = true
	in.Draft = true

	t.Run("before start reports both fields", func(t *testing.T) {
		fields := fieldErrors(t, ValidateResource(in, cohort, date(t, "2025-01-01")))
		assert.Equal(t, []string{msgEarlyDraft}, fields["early_access"])
		assert.Equal(t, []string{msgDraftEarly}, fields["draft"])
	})

	t.Run("after start adds the cohort started message on draft", func(t *testing.T) {
		fields := fieldErrors(t, ValidateResource(in, cohort, date(t, "2025-01-10")))
		assert.Equal(t, []string{msgEarlyDraft}, fields["early_access"])
		assert.Equal(t, []string{msgDraftEarly, msgCohortStarted}, fields["draft"])
	})

	t.Run("either flag alone is fine", func(t *testing.T) {
		only := validInput()
		only.Draft = true
		assert.NoError(t, ValidateResource(only, cohort, date(t, "2025-02-01")))
		only = validInput()
		only.EarlyAccess = true
		assert.NoError(t, ValidateResource(only, cohort, date(t, "2025-02-01")))
	})
}

func TestValidateResource_File(t *testing.T) {
	tests := []struct {
		name     string
		kind     model.ResourceKind
		fileName string
		stored   string
		wantErr  bool
	}{
		{"video mov", model.ResourceKindVideo, "clip.mov", "", false},
		{"video avi", model.ResourceKindVideo, "clip.avi", "", false},
		{"video pdf rejected", model.ResourceKindVideo, "clip.pdf", "", true},
		{"pdf ok", model.ResourceKindPDF, "notes.pdf", "", false},
		{"pdf zip rejected", model.ResourceKindPDF, "notes.zip", "", true},
		{"zip no extension", model.ResourceKindZip, "archive", "", true},
		{"missing on create", model.ResourceKindZip, "", "", true},
		{"unchanged on update", model.ResourceKindZip, "", "bundle.zip", false},
		{"kind changed against stored file", model.ResourceKindVideo, "", "apostila.pdf", true},
		{"new file replaces mismatched stored file", model.ResourceKindVideo, "aula.mp4", "apostila.pdf", false},
		{"new file checked over stored file", model.ResourceKindPDF, "aula.mp4", "apostila.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.Kind = tt.kind
			in.FileName = tt.fileName
			in.StoredFileName = tt.stored
			err := ValidateResource(in, nil, date(t, "2025-01-01"))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), "file")
		})
	}
}

func TestValidateResource_KindAndName(t *testing.T) {
	in := validInput()
	in.Kind = "audio"
	in.Name = "   "
	fields := fieldErrors(t, ValidateResource(in, nil, date(t, "2025-01-01")))
	assert.Contains(t, fields, "kind")
	assert.Contains(t, fields, "name")
	assert.NotContains(t, fields, "file")
}

func TestValidateCohort(t *testing.T) {
	assert.NoError(t, ValidateCohort("Turma A", date(t, "2025-01-10"), date(t, "2025-02-10")))

	fields := fieldErrors(t, ValidateCohort("Turma A", date(t, "2025-01-10"), date(t, "2025-01-10")))
	assert.Equal(t, []string{msgEndBeforeStart}, fields["end_date"])

	fields = fieldErrors(t, ValidateCohort("", date(t, "2025-03-01"), date(t, "2025-01-10")))
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "end_date")
}
