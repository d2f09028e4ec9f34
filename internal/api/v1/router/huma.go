package router

import (
	"net/http"
	"os"

	"github.com/Elias-Front-end/management-system/internal/api/v1/handler"
	"github.com/Elias-Front-end/management-system/internal/config"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers groups the v1 operation handlers.
type Handlers struct {
	Auth       *handler.AuthHandler
	Course     *handler.CourseHandler
	Cohort     *handler.CohortHandler
	Resource   *handler.ResourceHandler
	Student    *handler.StudentHandler
	Enrollment *handler.EnrollmentHandler
	Admin      *handler.AdminHandler
}

// SetupHumaAPI creates a Huma API instance
func SetupHumaAPI(
	cfg *config.Config,
	authMiddleware func(http.Handler) http.Handler,
	logger zerolog.Logger,
) (*chi.Mux, huma.API) {
	chiRouter := chi.NewRouter()

	chiRouter.Use(func(next http.Handler) http.Handler {
		authed := authMiddleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// OpenAPI docs are public
			if r.URL.Path == "/openapi.json" || r.URL.Path == "/openapi.yaml" || r.URL.Path == "/docs" || r.URL.Path == "/schemas" {
				next.ServeHTTP(w, r)
				return
			}
			authed.ServeHTTP(w, r)
		})
	})

	version := os.Getenv("GIT_COMMIT_SHA")
	if version == "" {
		version = "development"
	}

	humaConfig := huma.DefaultConfig("Training Enrollment API v1", version)
	humaConfig.Info.Description = "Courses, cohorts, students, enrollments and their resources"
	humaConfig.Servers = []*huma.Server{{URL: cfg.APIBaseURL}}

	api := humachi.New(chiRouter, humaConfig)

	logger.Info().Str("version", version).Msg("Huma API initialized for /v1")

	return chiRouter, api
}

// RegisterRoutes registers all Huma operations
func RegisterRoutes(api huma.API, h Handlers, logger zerolog.Logger) {
	logger.Info().Msg("Registering routes")

	// ========== AUTH OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in",
		Description: "Authenticates by username or a student's full name, checks the claimed profile type and opens a session",
		Tags:        []string{"auth"},
	}, h.Auth.Login)

	huma.Register(api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodPost,
		Path:          "/auth/logout",
		Summary:       "Log out",
		Description:   "Clears the session cookie. Bearer tokens issued at login are not revoked and remain valid until they expire (TOKEN_TTL, one hour by default)",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusNoContent,
	}, h.Auth.Logout)

	huma.Register(api, huma.Operation{
		OperationID: "getMe",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Get current session",
		Description: "Returns the authenticated account, its role and the linked student profile",
		Tags:        []string{"auth"},
	}, h.Auth.Me)

	// ========== COURSE OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "listCourses",
		Method:      http.MethodGet,
		Path:        "/courses",
		Summary:     "List courses",
		Tags:        []string{"courses"},
	}, h.Course.ListCourses)

	huma.Register(api, huma.Operation{
		OperationID:   "createCourse",
		Method:        http.MethodPost,
		Path:          "/courses",
		Summary:       "Create a course",
		Tags:          []string{"courses"},
		DefaultStatus: http.StatusCreated,
	}, h.Course.CreateCourse)

	huma.Register(api, huma.Operation{
		OperationID: "getCourse",
		Method:      http.MethodGet,
		Path:        "/courses/{courseId}",
		Summary:     "Get a course",
		Tags:        []string{"courses"},
	}, h.Course.GetCourse)

	huma.Register(api, huma.Operation{
		OperationID: "updateCourse",
		Method:      http.MethodPut,
		Path:        "/courses/{courseId}",
		Summary:     "Update a course",
		Tags:        []string{"courses"},
	}, h.Course.UpdateCourse)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteCourse",
		Method:        http.MethodDelete,
		Path:          "/courses/{courseId}",
		Summary:       "Delete a course",
		Description:   "Deletes the course with its cohorts, enrollments and resources, and removes the stored files",
		Tags:          []string{"courses"},
		DefaultStatus: http.StatusNoContent,
	}, h.Course.DeleteCourse)

	huma.Register(api, huma.Operation{
		OperationID: "listCourseResources",
		Method:      http.MethodGet,
		Path:        "/courses/{courseId}/resources",
		Summary:     "List a course's resources",
		Description: "Lists resources attached to the course directly or through its cohorts. Drafts are hidden from students",
		Tags:        []string{"courses", "resources"},
	}, h.Course.ListCourseResources)

	// ========== COHORT OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "listCohorts",
		Method:      http.MethodGet,
		Path:        "/cohorts",
		Summary:     "List cohorts",
		Description: "Lists cohorts. Students only see cohorts they are enrolled in",
		Tags:        []string{"cohorts"},
	}, h.Cohort.ListCohorts)

	huma.Register(api, huma.Operation{
		OperationID:   "createCohort",
		Method:        http.MethodPost,
		Path:          "/cohorts",
		Summary:       "Create a cohort",
		Tags:          []string{"cohorts"},
		DefaultStatus: http.StatusCreated,
	}, h.Cohort.CreateCohort)

	huma.Register(api, huma.Operation{
		OperationID: "getCohort",
		Method:      http.MethodGet,
		Path:        "/cohorts/{cohortId}",
		Summary:     "Get a cohort",
		Tags:        []string{"cohorts"},
	}, h.Cohort.GetCohort)

	huma.Register(api, huma.Operation{
		OperationID: "updateCohort",
		Method:      http.MethodPut,
		Path:        "/cohorts/{cohortId}",
		Summary:     "Update a cohort",
		Tags:        []string{"cohorts"},
	}, h.Cohort.UpdateCohort)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteCohort",
		Method:        http.MethodDelete,
		Path:          "/cohorts/{cohortId}",
		Summary:       "Delete a cohort",
		Tags:          []string{"cohorts"},
		DefaultStatus: http.StatusNoContent,
	}, h.Cohort.DeleteCohort)

	huma.Register(api, huma.Operation{
		OperationID: "listCohortResources",
		Method:      http.MethodGet,
		Path:        "/cohorts/{cohortId}/resources",
		Summary:     "List a cohort's resources",
		Description: "Lists the cohort's resources the viewer may see today",
		Tags:        []string{"cohorts", "resources"},
	}, h.Cohort.ListCohortResources)

	huma.Register(api, huma.Operation{
		OperationID: "listCohortStudents",
		Method:      http.MethodGet,
		Path:        "/cohorts/{cohortId}/students",
		Summary:     "List a cohort's students",
		Tags:        []string{"cohorts", "students"},
	}, h.Cohort.ListCohortStudents)

	// ========== RESOURCE OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "listResources",
		Method:      http.MethodGet,
		Path:        "/resources",
		Summary:     "List resources",
		Tags:        []string{"resources"},
	}, h.Resource.ListResources)

	huma.Register(api, huma.Operation{
		OperationID:   "createResource",
		Method:        http.MethodPost,
		Path:          "/resources",
		Summary:       "Create a resource",
		Description:   "Creates a resource and returns a presigned URL to upload its file",
		Tags:          []string{"resources"},
		DefaultStatus: http.StatusCreated,
	}, h.Resource.CreateResource)

	huma.Register(api, huma.Operation{
		OperationID: "getResource",
		Method:      http.MethodGet,
		Path:        "/resources/{resourceId}",
		Summary:     "Get a resource",
		Tags:        []string{"resources"},
	}, h.Resource.GetResource)

	huma.Register(api, huma.Operation{
		OperationID: "updateResource",
		Method:      http.MethodPut,
		Path:        "/resources/{resourceId}",
		Summary:     "Update a resource",
		Tags:        []string{"resources"},
	}, h.Resource.UpdateResource)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteResource",
		Method:        http.MethodDelete,
		Path:          "/resources/{resourceId}",
		Summary:       "Delete a resource",
		Tags:          []string{"resources"},
		DefaultStatus: http.StatusNoContent,
	}, h.Resource.DeleteResource)

	// ========== STUDENT OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "listStudents",
		Method:      http.MethodGet,
		Path:        "/students",
		Summary:     "List students",
		Tags:        []string{"students"},
	}, h.Student.ListStudents)

	huma.Register(api, huma.Operation{
		OperationID:   "createStudent",
		Method:        http.MethodPost,
		Path:          "/students",
		Summary:       "Create a student",
		Description:   "Creates a student with its login account",
		Tags:          []string{"students"},
		DefaultStatus: http.StatusCreated,
	}, h.Student.CreateStudent)

	huma.Register(api, huma.Operation{
		OperationID: "getStudent",
		Method:      http.MethodGet,
		Path:        "/students/{studentId}",
		Summary:     "Get a student",
		Tags:        []string{"students"},
	}, h.Student.GetStudent)

	huma.Register(api, huma.Operation{
		OperationID: "updateStudent",
		Method:      http.MethodPut,
		Path:        "/students/{studentId}",
		Summary:     "Update a student",
		Tags:        []string{"students"},
	}, h.Student.UpdateStudent)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteStudent",
		Method:        http.MethodDelete,
		Path:          "/students/{studentId}",
		Summary:       "Delete a student",
		Description:   "Deletes the student, its login account and its enrollments",
		Tags:          []string{"students"},
		DefaultStatus: http.StatusNoContent,
	}, h.Student.DeleteStudent)

	huma.Register(api, huma.Operation{
		OperationID: "listStudentCohorts",
		Method:      http.MethodGet,
		Path:        "/students/{studentId}/cohorts",
		Summary:     "List a student's cohorts",
		Tags:        []string{"students", "cohorts"},
	}, h.Student.ListStudentCohorts)

	huma.Register(api, huma.Operation{
		OperationID: "listAvailableResources",
		Method:      http.MethodGet,
		Path:        "/students/{studentId}/available-resources",
		Summary:     "List a student's available resources",
		Description: "Lists resources the student can open today across enrolled cohorts",
		Tags:        []string{"students", "resources"},
	}, h.Student.ListAvailableResources)

	// ========== ENROLLMENT OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "listEnrollments",
		Method:      http.MethodGet,
		Path:        "/enrollments",
		Summary:     "List enrollments",
		Tags:        []string{"enrollments"},
	}, h.Enrollment.ListEnrollments)

	huma.Register(api, huma.Operation{
		OperationID:   "createEnrollment",
		Method:        http.MethodPost,
		Path:          "/enrollments",
		Summary:       "Enroll a student in a cohort",
		Tags:          []string{"enrollments"},
		DefaultStatus: http.StatusCreated,
	}, h.Enrollment.CreateEnrollment)

	huma.Register(api, huma.Operation{
		OperationID: "getEnrollment",
		Method:      http.MethodGet,
		Path:        "/enrollments/{enrollmentId}",
		Summary:     "Get an enrollment",
		Tags:        []string{"enrollments"},
	}, h.Enrollment.GetEnrollment)

	huma.Register(api, huma.Operation{
		OperationID: "updateEnrollment",
		Method:      http.MethodPut,
		Path:        "/enrollments/{enrollmentId}",
		Summary:     "Update an enrollment",
		Tags:        []string{"enrollments"},
	}, h.Enrollment.UpdateEnrollment)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteEnrollment",
		Method:        http.MethodDelete,
		Path:          "/enrollments/{enrollmentId}",
		Summary:       "Delete an enrollment",
		Tags:          []string{"enrollments"},
		DefaultStatus: http.StatusNoContent,
	}, h.Enrollment.DeleteEnrollment)

	// ========== ADMIN ACCOUNT OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "listAdmins",
		Method:      http.MethodGet,
		Path:        "/admins",
		Summary:     "List admin accounts",
		Description: "Lists staff accounts, newest first. Superusers only",
		Tags:        []string{"admins"},
	}, h.Admin.ListAdmins)

	huma.Register(api, huma.Operation{
		OperationID: "getAdminStats",
		Method:      http.MethodGet,
		Path:        "/admins/stats",
		Summary:     "Count admin accounts",
		Tags:        []string{"admins"},
	}, h.Admin.AdminStats)

	huma.Register(api, huma.Operation{
		OperationID:   "createAdmin",
		Method:        http.MethodPost,
		Path:          "/admins",
		Summary:       "Create an admin account",
		Tags:          []string{"admins"},
		DefaultStatus: http.StatusCreated,
	}, h.Admin.CreateAdmin)

	huma.Register(api, huma.Operation{
		OperationID: "getAdmin",
		Method:      http.MethodGet,
		Path:        "/admins/{accountId}",
		Summary:     "Get an admin account",
		Tags:        []string{"admins"},
	}, h.Admin.GetAdmin)

	huma.Register(api, huma.Operation{
		OperationID: "updateAdmin",
		Method:      http.MethodPut,
		Path:        "/admins/{accountId}",
		Summary:     "Update an admin account",
		Tags:        []string{"admins"},
	}, h.Admin.UpdateAdmin)

	huma.Register(api, huma.Operation{
		OperationID:   "setAdminPassword",
		Method:        http.MethodPost,
		Path:          "/admins/{accountId}/password",
		Summary:       "Change an admin's password",
		Tags:          []string{"admins"},
		DefaultStatus: http.StatusNoContent,
	}, h.Admin.SetAdminPassword)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteAdmin",
		Method:        http.MethodDelete,
		Path:          "/admins/{accountId}",
		Summary:       "Delete an admin account",
		Tags:          []string{"admins"},
		DefaultStatus: http.StatusNoContent,
	}, h.Admin.DeleteAdmin)

	logger.Info().Msg("Routes registered")
}
