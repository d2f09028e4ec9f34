package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/metrics"
	"github.com/Elias-Front-end/management-system/internal/middleware"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/repository"
	"github.com/Elias-Front-end/management-system/internal/service"
	"github.com/Elias-Front-end/management-system/internal/session"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminActor   = access.Admin{AccountID: "acc-admin"}
	studentActor = access.Student{AccountID: "acc-joao", StudentID: "stu-joao"}
)

// newTestAPI returns a test API whose requests all run as actor.
func newTestAPI(t *testing.T, actor access.Actor) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, middleware.WithActor(ctx.Context(), actor)))
	})
	return api
}

type problem struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Errors []struct {
		Message  string `json:"message"`
		Location string `json:"location"`
	} `json:"errors"`
}

func decodeProblem(t *testing.T, resp *httptest.ResponseRecorder) problem {
	t.Helper()
	var p problem
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &p))
	return p
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out
}

// stubCourses serves one course or fails with err.
type stubCourses struct {
	service.CourseService
	course  model.Course
	err     error
	created service.CourseParams
}

func (s *stubCourses) ListCourses(ctx context.Context, actor access.Actor, f repository.CourseFilter, page repository.Page) ([]model.Course, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	return []model.Course{s.course}, 7, nil
}

func (s *stubCourses) GetCourse(ctx context.Context, actor access.Actor, courseID string) (*model.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := s.course
	return &c, nil
}

func (s *stubCourses) CreateCourse(ctx context.Context, actor access.Actor, p service.CourseParams) (*model.Course, error) {
	s.created = p
	if s.err != nil {
		return nil, s.err
	}
	c := s.course
	c.Name = p.Name
	return &c, nil
}

func (s *stubCourses) DeleteCourse(ctx context.Context, actor access.Actor, courseID string) error {
	return s.err
}

func registerCourses(api huma.API, h *CourseHandler) {
	huma.Register(api, huma.Operation{OperationID: "listCourses", Method: http.MethodGet, Path: "/courses"}, h.ListCourses)
	huma.Register(api, huma.Operation{OperationID: "createCourse", Method: http.MethodPost, Path: "/courses", DefaultStatus: http.StatusCreated}, h.CreateCourse)
	huma.Register(api, huma.Operation{OperationID: "getCourse", Method: http.MethodGet, Path: "/courses/{courseId}"}, h.GetCourse)
	huma.Register(api, huma.Operation{OperationID: "deleteCourse", Method: http.MethodDelete, Path: "/courses/{courseId}", DefaultStatus: http.StatusNoContent}, h.DeleteCourse)
}

func TestCourseHandler(t *testing.T) {
	course := model.Course{ID: "c1", Name: "Go Fundamentals", Description: "Intro"}

	t.Run("create returns 201 with the stored course", func(t *testing.T) {
		stub := &stubCourses{course: course}
		api := newTestAPI(t, adminActor)
		registerCourses(api, NewCourseHandler(stub, nil, NewValidator(), nil, zerolog.Nop()))

		resp := api.Post("/courses", map[string]any{"name": "Go Advanced", "description": "Deep dive"})

		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
		body := decode[map[string]any](t, resp)
		assert.Equal(t, "c1", body["id"])
		assert.Equal(t, "Go Advanced", body["name"])
		assert.Equal(t, "Deep dive", stub.created.Description)
	})

	t.Run("list reports the total before pagination", func(t *testing.T) {
		api := newTestAPI(t, studentActor)
		registerCourses(api, NewCourseHandler(&stubCourses{course: course}, nil, NewValidator(), nil, zerolog.Nop()))

		resp := api.Get("/courses?limit=1")

		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		body := decode[struct {
			Count   int              `json:"count"`
			Results []map[string]any `json:"results"`
		}](t, resp)
		assert.Equal(t, 7, body.Count)
		assert.Len(t, body.Results, 1)
	})

	t.Run("missing name fails body validation", func(t *testing.T) {
		stub := &stubCourses{course: course}
		api := newTestAPI(t, adminActor)
		registerCourses(api, NewCourseHandler(stub, nil, NewValidator(), nil, zerolog.Nop()))

		resp := api.Post("/courses", map[string]any{"name": "", "description": "x"})

		require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
		p := decodeProblem(t, resp)
		require.NotEmpty(t, p.Errors)
		assert.Equal(t, "body.name", p.Errors[0].Location)
		assert.Empty(t, stub.created.Name)
	})

	t.Run("domain validation errors are listed per field", func(t *testing.T) {
		verr := model.FieldError("name", "name must be at least 3 characters")
		api := newTestAPI(t, adminActor)
		registerCourses(api, NewCourseHandler(&stubCourses{err: verr}, nil, NewValidator(), nil, zerolog.Nop()))

		resp := api.Post("/courses", map[string]any{"name": "Go"})

		require.Equal(t, http.StatusBadRequest, resp.Code)
		p := decodeProblem(t, resp)
		require.Len(t, p.Errors, 1)
		assert.Equal(t, "body.name", p.Errors[0].Location)
		assert.Equal(t, "name must be at least 3 characters", p.Errors[0].Message)
	})

	t.Run("service errors map onto statuses", func(t *testing.T) {
		cases := []struct {
			name   string
			err    error
			status int
			detail string
		}{
			{"not found", service.ErrNotFound, http.StatusNotFound, "Course not found"},
			{"forbidden", &access.DeniedError{Err: access.ErrForbidden, Reason: "students cannot modify courses"}, http.StatusForbidden, "students cannot modify courses"},
			{"unauthenticated", &access.DeniedError{Err: access.ErrUnauthenticated}, http.StatusUnauthorized, access.ErrUnauthenticated.Error()},
			{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "Failed to delete course"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				api := newTestAPI(t, adminActor)
				registerCourses(api, NewCourseHandler(&stubCourses{err: tc.err}, nil, NewValidator(), nil, zerolog.Nop()))

				resp := api.Delete("/courses/c1")

				require.Equal(t, tc.status, resp.Code)
				assert.Equal(t, tc.detail, decodeProblem(t, resp).Detail)
			})
		}
	})

	t.Run("denials are counted", func(t *testing.T) {
		m := metrics.New()
		denied := &access.DeniedError{Err: access.ErrForbidden, Reason: "no"}
		api := newTestAPI(t, studentActor)
		registerCourses(api, NewCourseHandler(&stubCourses{err: denied}, nil, NewValidator(), m, zerolog.Nop()))

		resp := api.Get("/courses/c1")

		require.Equal(t, http.StatusForbidden, resp.Code)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.AccessDeniedTotal.WithLabelValues("forbidden")))
	})
}

// stubResources returns fixed views for every read and records writes.
type stubResources struct {
	service.ResourceService
	views  []service.ResourceView
	params service.ResourceParams
}

func (s *stubResources) GetResource(ctx context.Context, actor access.Actor, resourceID string) (*service.ResourceView, error) {
	v := s.views[0]
	return &v, nil
}

func (s *stubResources) CreateResource(ctx context.Context, actor access.Actor, p service.ResourceParams) (*service.ResourceUpload, error) {
	s.params = p
	return &service.ResourceUpload{ResourceView: s.views[0], UploadURL: "https://s3.local/put"}, nil
}

func (s *stubResources) ListAvailableResources(ctx context.Context, actor access.Actor, studentID string, f repository.ResourceFilter, page repository.Page) ([]service.ResourceView, int, error) {
	return s.views, len(s.views), nil
}

func sampleView() service.ResourceView {
	cohortID := "h1"
	url := "https://s3.local/get"
	return service.ResourceView{
		Resource: model.Resource{
			ID:          "r1",
			CohortID:    &cohortID,
			CohortName:  "Turma A",
			Kind:        model.ResourceKindVideo,
			Name:        "Aula 1",
			FileName:    "aula1.mp4",
			EarlyAccess: true,
		},
		CanAccess: true,
		FileURL:   &url,
	}
}

func TestResourceHandler(t *testing.T) {
	register := func(api huma.API, h *ResourceHandler) {
		huma.Register(api, huma.Operation{OperationID: "getResource", Method: http.MethodGet, Path: "/resources/{resourceId}"}, h.GetResource)
		huma.Register(api, huma.Operation{OperationID: "createResource", Method: http.MethodPost, Path: "/resources", DefaultStatus: http.StatusCreated}, h.CreateResource)
	}

	t.Run("publication flags are shown to staff only", func(t *testing.T) {
		for _, tc := range []struct {
			actor     access.Actor
			wantFlags bool
		}{
			{adminActor, true},
			{studentActor, false},
		} {
			api := newTestAPI(t, tc.actor)
			register(api, NewResourceHandler(&stubResources{views: []service.ResourceView{sampleView()}}, NewValidator(), nil, zerolog.Nop()))

			resp := api.Get("/resources/r1")

			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
			body := decode[map[string]any](t, resp)
			_, hasDraft := body["draft"]
			_, hasEarly := body["early_access"]
			assert.Equal(t, tc.wantFlags, hasDraft)
			assert.Equal(t, tc.wantFlags, hasEarly)
			assert.Equal(t, "https://s3.local/get", body["file_url"])
			assert.Equal(t, true, body["can_access"])
		}
	})

	t.Run("create passes flags through and returns the upload url", func(t *testing.T) {
		stub := &stubResources{views: []service.ResourceView{sampleView()}}
		api := newTestAPI(t, adminActor)
		register(api, NewResourceHandler(stub, NewValidator(), nil, zerolog.Nop()))

		resp := api.Post("/resources", map[string]any{
			"cohort_id":    "h1",
			"kind":         "video",
			"name":         "Aula 1",
			"file_name":    "aula1.mp4",
			"early_access": true,
		})

		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
		assert.Equal(t, "https://s3.local/put", decode[map[string]any](t, resp)["upload_url"])
		require.NotNil(t, stub.params.EarlyAccess)
		assert.True(t, *stub.params.EarlyAccess)
		assert.Nil(t, stub.params.Draft)
		assert.Equal(t, model.ResourceKindVideo, stub.params.Kind)
	})

	t.Run("unknown kind is a 400", func(t *testing.T) {
		stub := &stubResources{views: []service.ResourceView{sampleView()}}
		api := newTestAPI(t, adminActor)
		register(api, NewResourceHandler(stub, NewValidator(), nil, zerolog.Nop()))

		resp := api.Post("/resources", map[string]any{"cohort_id": "h1", "kind": "audio", "name": "Aula 1"})

		assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
		assert.Empty(t, stub.params.Name)
	})
}

func TestListAvailableResources(t *testing.T) {
	api := newTestAPI(t, studentActor)
	h := NewStudentHandler(nil, &stubResources{views: []service.ResourceView{sampleView()}}, NewValidator(), nil, zerolog.Nop())
	huma.Register(api, huma.Operation{OperationID: "listAvailableResources", Method: http.MethodGet, Path: "/students/{studentId}/available-resources"}, h.ListAvailableResources)

	resp := api.Get("/students/stu-joao/available-resources?kind=video")

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body := decode[struct {
		Count   int              `json:"count"`
		Results []map[string]any `json:"results"`
	}](t, resp)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "Turma A", body.Results[0]["cohort_name"])
	assert.NotContains(t, body.Results[0], "draft")
}

type stubCohorts struct {
	service.CohortService
	params service.CohortParams
}

func (s *stubCohorts) CreateCohort(ctx context.Context, actor access.Actor, p service.CohortParams) (*model.Cohort, error) {
	s.params = p
	return &model.Cohort{ID: "h1", CourseID: p.CourseID, Name: p.Name, StartDate: p.StartDate, EndDate: p.EndDate}, nil
}

func TestCreateCohortParsesDates(t *testing.T) {
	stub := &stubCohorts{}
	api := newTestAPI(t, adminActor)
	h := NewCohortHandler(stub, nil, NewValidator(), nil, zerolog.Nop())
	huma.Register(api, huma.Operation{OperationID: "createCohort", Method: http.MethodPost, Path: "/cohorts", DefaultStatus: http.StatusCreated}, h.CreateCohort)

	resp := api.Post("/cohorts", map[string]any{
		"course_id":  "c1",
		"name":       "Turma Janeiro",
		"start_date": "2025-01-10",
		"end_date":   "2025-03-10",
	})

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), stub.params.StartDate)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "2025-01-10", body["start_date"])
	assert.Equal(t, "2025-03-10", body["end_date"])

	resp = api.Post("/cohorts", map[string]any{
		"course_id":  "c1",
		"name":       "Turma Janeiro",
		"start_date": "10/01/2025",
		"end_date":   "2025-03-10",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

// stubAuth authenticates a fixed admin and rejects everything else.
type stubAuth struct {
	service.AuthService
	account model.Account
}

func (s *stubAuth) Login(ctx context.Context, identifier, password, profileType string) (*service.Session, error) {
	if identifier != s.account.Username || password != "s3cret-pass" {
		return nil, service.ErrInvalidCredentials
	}
	if profileType != service.ProfileAdmin {
		return nil, service.ErrRoleMismatch
	}
	a := s.account
	return &service.Session{Account: &a, Actor: access.Admin{AccountID: a.ID}}, nil
}

func (s *stubAuth) Me(ctx context.Context, actor access.Actor) (*service.Session, error) {
	if !access.IsAuthenticated(actor) {
		return nil, &access.DeniedError{Err: access.ErrUnauthenticated}
	}
	a := s.account
	return &service.Session{Account: &a, Actor: actor}, nil
}

func TestAuthHandler(t *testing.T) {
	account := model.Account{ID: "acc-admin", Username: "admin", IsAdmin: true, IsActive: true}
	tokens := session.NewTokenSigner("token-secret", "test", time.Hour)
	cookies := session.NewCookieManager("session-secret", "sessionid", time.Hour, false)

	setup := func(t *testing.T, actor access.Actor) (humatest.TestAPI, *metrics.Metrics) {
		m := metrics.New()
		h := NewAuthHandler(&stubAuth{account: account}, tokens, cookies, m, zerolog.Nop())
		api := newTestAPI(t, actor)
		huma.Register(api, huma.Operation{OperationID: "login", Method: http.MethodPost, Path: "/auth/login"}, h.Login)
		huma.Register(api, huma.Operation{OperationID: "logout", Method: http.MethodPost, Path: "/auth/logout", DefaultStatus: http.StatusNoContent}, h.Logout)
		huma.Register(api, huma.Operation{OperationID: "getMe", Method: http.MethodGet, Path: "/auth/me"}, h.Me)
		return api, m
	}

	t.Run("login issues a cookie and a bearer token", func(t *testing.T) {
		api, m := setup(t, access.Anonymous{})

		resp := api.Post("/auth/login", map[string]any{"username": "admin", "password": "s3cret-pass", "profile_type": "admin"})

		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		body := decode[map[string]any](t, resp)
		assert.Equal(t, "admin", body["role"])
		token, _ := body["token"].(string)
		id, err := tokens.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "acc-admin", id)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range resp.Result().Cookies() {
			req.AddCookie(c)
		}
		id, ok := cookies.AccountID(req)
		require.True(t, ok)
		assert.Equal(t, "acc-admin", id)

		assert.Equal(t, float64(1), testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues(metrics.LoginSuccess, "admin")))
	})

	t.Run("wrong password is a 401", func(t *testing.T) {
		api, m := setup(t, access.Anonymous{})

		resp := api.Post("/auth/login", map[string]any{"username": "admin", "password": "nope", "profile_type": "admin"})

		require.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Equal(t, "Invalid credentials", decodeProblem(t, resp).Detail)
		assert.Empty(t, resp.Header().Get("Set-Cookie"))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues(metrics.LoginInvalidCredentials, "admin")))
	})

	t.Run("claimed profile mismatch is a 403", func(t *testing.T) {
		api, m := setup(t, access.Anonymous{})

		resp := api.Post("/auth/login", map[string]any{"username": "admin", "password": "s3cret-pass", "profile_type": "student"})

		require.Equal(t, http.StatusForbidden, resp.Code)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues(metrics.LoginRoleMismatch, "student")))
	})

	t.Run("logout expires the cookie", func(t *testing.T) {
		api, _ := setup(t, adminActor)

		resp := api.Post("/auth/logout")

		require.Equal(t, http.StatusNoContent, resp.Code)
		cs := resp.Result().Cookies()
		require.Len(t, cs, 1)
		assert.Equal(t, "sessionid", cs[0].Name)
		assert.Less(t, cs[0].MaxAge, 0)
	})

	t.Run("me requires a session", func(t *testing.T) {
		api, _ := setup(t, access.Anonymous{})
		assert.Equal(t, http.StatusUnauthorized, api.Get("/auth/me").Code)

		api, _ = setup(t, adminActor)
		resp := api.Get("/auth/me")
		require.Equal(t, http.StatusOK, resp.Code)
		body := decode[map[string]any](t, resp)
		assert.Equal(t, "admin", body["role"])
		assert.Nil(t, body["student"])
	})
}
