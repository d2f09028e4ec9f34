package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testHasher = passwordHasher{cost: bcrypt.MinCost}

// memDB implements every repository interface in memory, including the
// storage-level cascades and unique constraints.
type memDB struct {
	courses     []*model.Course
	cohorts     []*model.Cohort
	resources   []*model.Resource
	accounts    []*model.Account
	students    []*model.Student
	enrollments []*model.Enrollment

	// skipExistsCheck makes EnrollmentExists report false to simulate a race.
	skipExistsCheck bool
	clock           time.Time
}

func newMemDB() *memDB {
	return &memDB{clock: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memDB) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func pageOf[T any](items []T, page repository.Page) ([]T, int) {
	return paginate(items, page), len(items)
}

// courses

func (m *memDB) ListCourses(_ context.Context, f repository.CourseFilter, page repository.Page) ([]model.Course, int, error) {
	out := []model.Course{}
	for _, c := range m.courses {
		if f.Search == "" || strings.Contains(strings.ToLower(c.Name+" "+c.Description), strings.ToLower(f.Search)) {
			out = append(out, *c)
		}
	}
	items, total := pageOf(out, page)
	return items, total, nil
}

func (m *memDB) GetCourseByID(_ context.Context, id string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memDB) CreateCourse(_ context.Context, c *model.Course) error {
	c.ID = uuid.NewString()
	c.CreatedAt = m.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.courses = append(m.courses, &cp)
	return nil
}

func (m *memDB) UpdateCourse(_ context.Context, c *model.Course) error {
	for i, existing := range m.courses {
		if existing.ID == c.ID {
			cp := *c
			m.courses[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memDB) DeleteCourse(_ context.Context, id string) error {
	kept := m.courses[:0]
	found := false
	for _, c := range m.courses {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return repository.ErrNotFound
	}
	m.courses = kept
	for _, r := range append([]*model.Resource{}, m.resources...) {
		if r.CourseID != nil && *r.CourseID == id {
			m.dropResource(r.ID)
		}
	}
	for _, c := range append([]*model.Cohort{}, m.cohorts...) {
		if c.CourseID == id {
			_ = m.DeleteCohort(context.Background(), c.ID)
		}
	}
	return nil
}

// cohorts

func (m *memDB) ListCohorts(_ context.Context, f repository.CohortFilter, page repository.Page) ([]model.Cohort, int, error) {
	out := []model.Cohort{}
	for _, c := range m.cohorts {
		if f.CourseID != "" && c.CourseID != f.CourseID {
			continue
		}
		if f.StudentID != "" && !m.enrolled(f.StudentID, c.ID) {
			continue
		}
		out = append(out, *c)
	}
	items, total := pageOf(out, page)
	return items, total, nil
}

func (m *memDB) GetCohortByID(_ context.Context, id string) (*model.Cohort, error) {
	for _, c := range m.cohorts {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memDB) CreateCohort(_ context.Context, c *model.Cohort) error {
	c.ID = uuid.NewString()
	c.CreatedAt = m.tick()
	cp := *c
	m.cohorts = append(m.cohorts, &cp)
	return nil
}

func (m *memDB) UpdateCohort(_ context.Context, c *model.Cohort) error {
	for i, existing := range m.cohorts {
		if existing.ID == c.ID {
			cp := *c
			m.cohorts[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memDB) DeleteCohort(_ context.Context, id string) error {
	kept := m.cohorts[:0]
	found := false
	for _, c := range m.cohorts {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return repository.ErrNotFound
	}
	m.cohorts = kept
	for _, r := range append([]*model.Resource{}, m.resources...) {
		if r.CohortID != nil && *r.CohortID == id {
			m.dropResource(r.ID)
		}
	}
	keptEnrollments := m.enrollments[:0]
	for _, e := range m.enrollments {
		if e.CohortID != id {
			keptEnrollments = append(keptEnrollments, e)
		}
	}
	m.enrollments = keptEnrollments
	return nil
}

// resources

func (m *memDB) cohort(id *string) *model.Cohort {
	if id == nil {
		return nil
	}
	for _, c := range m.cohorts {
		if c.ID == *id {
			return c
		}
	}
	return nil
}

func (m *memDB) project(r *model.Resource) model.Resource {
	out := *r
	out.CohortName, out.CohortStartDate = "", nil
	if c := m.cohort(r.CohortID); c != nil {
		start := c.StartDate
		out.CohortName = c.Name
		out.CohortStartDate = &start
	}
	return out
}

// ListResources returns newest first like the SQL repository.
func (m *memDB) ListResources(_ context.Context, f repository.ResourceFilter, page repository.Page) ([]model.Resource, int, error) {
	out := []model.Resource{}
	for _, r := range m.resources {
		c := m.cohort(r.CohortID)
		switch {
		case f.CohortID != "" && (r.CohortID == nil || *r.CohortID != f.CohortID):
			continue
		case f.CourseID != "" && !(r.CourseID != nil && *r.CourseID == f.CourseID) && !(c != nil && c.CourseID == f.CourseID):
			continue
		case f.StudentID != "" && (r.CohortID == nil || !m.enrolled(f.StudentID, *r.CohortID)):
			continue
		case f.Kind != "" && r.Kind != f.Kind:
			continue
		case f.PublishedOnly && r.Draft:
			continue
		}
		out = append(out, m.project(r))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	items, total := pageOf(out, page)
	return items, total, nil
}

func (m *memDB) GetResourceByID(_ context.Context, id string) (*model.Resource, error) {
	for _, r := range m.resources {
		if r.ID == id {
			out := m.project(r)
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memDB) CreateResource(_ context.Context, r *model.Resource) error {
	if r.EarlyAccess && r.Draft {
		return &repository.ConstraintError{Code: repository.CodeCheckViolation, Constraint: "resources_early_access_draft_check"}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = m.tick()
	cp := *r
	m.resources = append(m.resources, &cp)
	return nil
}

func (m *memDB) UpdateResource(_ context.Context, r *model.Resource) error {
	for i, existing := range m.resources {
		if existing.ID == r.ID {
			cp := *r
			m.resources[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memDB) dropResource(id string) bool {
	for i, r := range m.resources {
		if r.ID == id {
			m.resources = append(m.resources[:i], m.resources[i+1:]...)
			return true
		}
	}
	return false
}

func (m *memDB) DeleteResource(_ context.Context, id string) error {
	if !m.dropResource(id) {
		return repository.ErrNotFound
	}
	return nil
}

// accounts

func (m *memDB) GetAccountByID(_ context.Context, id string) (*model.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memDB) GetAccountByUsername(_ context.Context, username string) (*model.Account, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memDB) UsernameExists(_ context.Context, username, excludeID string) (bool, error) {
	for _, a := range m.accounts {
		if a.Username == username && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memDB) ListAdmins(_ context.Context, page repository.Page) ([]model.Account, int, error) {
	out := []model.Account{}
	for _, a := range m.accounts {
		if a.IsAdmin {
			out = append(out, *a)
		}
	}
	items, total := pageOf(out, page)
	return items, total, nil
}

func (m *memDB) AdminStats(context.Context) (model.AdminStats, error) {
	var s model.AdminStats
	for _, a := range m.accounts {
		if a.IsAdmin {
			s.TotalAdmins++
			if a.IsSuperuser {
				s.SuperAdmins++
			}
		}
	}
	s.RegularAdmins = s.TotalAdmins - s.SuperAdmins
	return s, nil
}

func (m *memDB) CountSuperusers(context.Context) (int, error) {
	n := 0
	for _, a := range m.accounts {
		if a.IsSuperuser {
			n++
		}
	}
	return n, nil
}

func (m *memDB) CreateAccount(_ context.Context, a *model.Account) error {
	if taken, _ := m.UsernameExists(context.Background(), a.Username, ""); taken {
		return &repository.ConstraintError{Code: repository.CodeUniqueViolation, Constraint: repository.ConstraintAccountUsername}
	}
	a.ID = uuid.NewString()
	a.IsActive = true
	a.CreatedAt = m.tick()
	cp := *a
	m.accounts = append(m.accounts, &cp)
	return nil
}

func (m *memDB) UpdateAccount(_ context.Context, a *model.Account) error {
	for i, existing := range m.accounts {
		if existing.ID == a.ID {
			cp := *a
			m.accounts[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memDB) SetPassword(_ context.Context, id, hash string) error {
	for _, a := range m.accounts {
		if a.ID == id {
			a.PasswordHash = hash
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memDB) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	for _, a := range m.accounts {
		if a.ID == id {
			a.LastLogin = &at
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memDB) DeleteAccount(_ context.Context, id string) error {
	for i, a := range m.accounts {
		if a.ID == id {
			m.accounts = append(m.accounts[:i], m.accounts[i+1:]...)
			for _, s := range append([]*model.Student{}, m.students...) {
				if s.AccountID == id {
					m.dropStudent(s.ID)
				}
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

// students

func (m *memDB) withUsername(s *model.Student) model.Student {
	out := *s
	for _, a := range m.accounts {
		if a.ID == s.AccountID {
			out.Username = a.Username
		}
	}
	return out
}

func (m *memDB) ListStudents(_ context.Context, f repository.StudentFilter, page repository.Page) ([]model.Student, int, error) {
	out := []model.Student{}
	for _, s := range m.students {
		if f.ID != "" && s.ID != f.ID {
			continue
		}
		if f.CohortID != "" && !m.enrolled(s.ID, f.CohortID) {
			continue
		}
		out = append(out, m.withUsername(s))
	}
	items, total := pageOf(out, page)
	return items, total, nil
}

func (m *memDB) GetStudentByID(_ context.Context, id string) (*model.Student, error) {
	for _, s := range m.students {
		if s.ID == id {
			out := m.withUsername(s)
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memDB) GetStudentByAccountID(_ context.Context, accountID string) (*model.Student, error) {
	for _, s := range m.students {
		if s.AccountID == accountID {
			out := m.withUsername(s)
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memDB) FindStudentsByName(_ context.Context, name string) ([]model.Student, error) {
	out := []model.Student{}
	for _, s := range m.students {
		if strings.EqualFold(s.Name, name) {
			out = append(out, m.withUsername(s))
		}
	}
	return out, nil
}

func (m *memDB) EmailExists(_ context.Context, email, excludeID string) (bool, error) {
	for _, s := range m.students {
		if strings.EqualFold(s.Email, email) && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memDB) CreateStudent(ctx context.Context, a *model.Account, s *model.Student) error {
	if taken, _ := m.EmailExists(ctx, s.Email, ""); taken {
		return &repository.ConstraintError{Code: repository.CodeUniqueViolation, Constraint: repository.ConstraintStudentEmail}
	}
	if err := m.CreateAccount(ctx, a); err != nil {
		return err
	}
	s.ID = uuid.NewString()
	s.AccountID = a.ID
	s.Username = a.Username
	s.CreatedAt = m.tick()
	cp := *s
	m.students = append(m.students, &cp)
	return nil
}

func (m *memDB) UpdateStudent(ctx context.Context, a *model.Account, s *model.Student) error {
	if err := m.UpdateAccount(ctx, a); err != nil {
		return err
	}
	for i, existing := range m.students {
		if existing.ID == s.ID {
			s.Username = a.Username
			cp := *s
			m.students[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memDB) dropStudent(id string) {
	for i, s := range m.students {
		if s.ID == id {
			m.students = append(m.students[:i], m.students[i+1:]...)
			break
		}
	}
	kept := m.enrollments[:0]
	for _, e := range m.enrollments {
		if e.StudentID != id {
			kept = append(kept, e)
		}
	}
	m.enrollments = kept
}

func (m *memDB) DeleteStudent(ctx context.Context, id string) error {
	s, _ := m.GetStudentByID(ctx, id)
	if s == nil {
		return repository.ErrNotFound
	}
	return m.DeleteAccount(ctx, s.AccountID)
}

// enrollments

func (m *memDB) enrolled(studentID, cohortID string) bool {
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.CohortID == cohortID {
			return true
		}
	}
	return false
}

func (m *memDB) ListEnrollments(_ context.Context, f repository.EnrollmentFilter, page repository.Page) ([]model.Enrollment, int, error) {
	out := []model.Enrollment{}
	for _, e := range m.enrollments {
		if f.StudentID != "" && e.StudentID != f.StudentID {
			continue
		}
		if f.CohortID != "" && e.CohortID != f.CohortID {
			continue
		}
		out = append(out, *e)
	}
	items, total := pageOf(out, page)
	return items, total, nil
}

func (m *memDB) GetEnrollmentByID(_ context.Context, id string) (*model.Enrollment, error) {
	for _, e := range m.enrollments {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memDB) EnrollmentExists(_ context.Context, studentID, cohortID, excludeID string) (bool, error) {
	if m.skipExistsCheck {
		return false, nil
	}
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.CohortID == cohortID && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memDB) CreateEnrollment(_ context.Context, e *model.Enrollment) error {
	if m.enrolled(e.StudentID, e.CohortID) {
		return &repository.ConstraintError{Code: repository.CodeUniqueViolation, Constraint: repository.ConstraintEnrollmentUnique}
	}
	e.ID = uuid.NewString()
	e.EnrolledAt = m.tick()
	cp := *e
	m.enrollments = append(m.enrollments, &cp)
	return nil
}

func (m *memDB) UpdateEnrollment(_ context.Context, e *model.Enrollment) error {
	for i, existing := range m.enrollments {
		if existing.ID == e.ID {
			cp := *e
			m.enrollments[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memDB) DeleteEnrollment(_ context.Context, id string) error {
	for i, e := range m.enrollments {
		if e.ID == id {
			m.enrollments = append(m.enrollments[:i], m.enrollments[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// seeding helpers

func (m *memDB) seedCourse(t *testing.T, name string) *model.Course {
	t.Helper()
	c := &model.Course{Name: name}
	require.NoError(t, m.CreateCourse(context.Background(), c))
	return c
}

func (m *memDB) seedCohort(t *testing.T, courseID, name, start string) *model.Cohort {
	t.Helper()
	startDate, err := model.ParseDate(start)
	require.NoError(t, err)
	c := &model.Cohort{CourseID: courseID, Name: name, StartDate: startDate, EndDate: startDate.AddDate(0, 3, 0)}
	require.NoError(t, m.CreateCohort(context.Background(), c))
	return c
}

func (m *memDB) seedAdmin(t *testing.T, username, password string, superuser bool) *model.Account {
	t.Helper()
	hash, err := testHasher.hash(password)
	require.NoError(t, err)
	a := &model.Account{Username: username, PasswordHash: hash, IsAdmin: true, IsSuperuser: superuser}
	require.NoError(t, m.CreateAccount(context.Background(), a))
	return a
}

func (m *memDB) seedStudent(t *testing.T, username, name, email, password string) *model.Student {
	t.Helper()
	hash := ""
	if password != "" {
		var err error
		hash, err = testHasher.hash(password)
		require.NoError(t, err)
	}
	a := &model.Account{Username: username, Email: email, FirstName: name, PasswordHash: hash}
	s := &model.Student{Name: name, Email: email}
	require.NoError(t, m.CreateStudent(context.Background(), a, s))
	return s
}

func (m *memDB) seedEnrollment(t *testing.T, studentID, cohortID string) {
	t.Helper()
	require.NoError(t, m.CreateEnrollment(context.Background(), &model.Enrollment{StudentID: studentID, CohortID: cohortID}))
}

func (m *memDB) seedResource(t *testing.T, r model.Resource) *model.Resource {
	t.Helper()
	if r.FileKey == "" {
		r.FileKey = "resources/" + uuid.NewString() + ".pdf"
	}
	require.NoError(t, m.CreateResource(context.Background(), &r))
	return &r
}

// fakeStore records presign and delete calls.
type fakeStore struct {
	deleted []string
}

func (f *fakeStore) PresignUpload(_ context.Context, key, contentType string) (string, error) {
	return "https://files.test/upload/" + key + "?type=" + contentType, nil
}

func (f *fakeStore) PresignDownload(_ context.Context, key string) (string, error) {
	return "https://files.test/" + key, nil
}

func (f *fakeStore) Delete(_ context.Context, keys ...string) error {
	f.deleted = append(f.deleted, keys...)
	return nil
}

type emitted struct {
	eventType string
	data      any
}

type recordingEmitter struct {
	events []emitted
}

func (r *recordingEmitter) Emit(_ context.Context, eventType string, data any) {
	r.events = append(r.events, emitted{eventType: eventType, data: data})
}

func (r *recordingEmitter) types() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.eventType)
	}
	return out
}

var (
	anyAdmin  access.Actor = access.Admin{AccountID: "admin"}
	nopLogger              = zerolog.Nop()
)

func fixedNow(s string) func() time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return d.Add(15 * time.Hour) }
}
