package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/repository"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
)

// StudentParams is the writable state of a student and its login account.
type StudentParams struct {
	Name  string
	Email string
	Phone string
	// Username defaults to one derived from the email or name on create. Nil keeps it on update.
	Username *string
	// Password is optional; a student created without one cannot log in until it is set.
	Password *string
}

// StudentService defines the interface for student operations
type StudentService interface {
	// ListStudents lists profiles. Students only see their own.
	ListStudents(ctx context.Context, actor access.Actor, f repository.StudentFilter, page repository.Page) ([]model.Student, int, error)
	GetStudent(ctx context.Context, actor access.Actor, studentID string) (*model.Student, error)
	CreateStudent(ctx context.Context, actor access.Actor, p StudentParams) (*model.Student, error)
	UpdateStudent(ctx context.Context, actor access.Actor, studentID string, p StudentParams) (*model.Student, error)
	// DeleteStudent removes the profile, its account and its enrollments.
	DeleteStudent(ctx context.Context, actor access.Actor, studentID string) error
	ListStudentCohorts(ctx context.Context, actor access.Actor, studentID string, page repository.Page) ([]model.Cohort, int, error)
}

type studentService struct {
	repo        repository.StudentRepository
	accountRepo repository.AccountRepository
	cohortRepo  repository.CohortRepository
	hasher      passwordHasher
	logger      zerolog.Logger
}

func NewStudentService(
	repo repository.StudentRepository,
	accountRepo repository.AccountRepository,
	cohortRepo repository.CohortRepository,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		repo:        repo,
		accountRepo: accountRepo,
		cohortRepo:  cohortRepo,
		hasher:      defaultHasher,
		logger:      logger.With().Str("service", "StudentService").Logger(),
	}
}

func (s *studentService) ListStudents(ctx context.Context, actor access.Actor, f repository.StudentFilter, page repository.Page) ([]model.Student, int, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityStudent); err != nil {
		return nil, 0, err
	}
	if studentID, ok := access.StudentID(actor); ok {
		f.ID = studentID
	}
	return s.repo.ListStudents(ctx, f, page)
}

func (s *studentService) GetStudent(ctx context.Context, actor access.Actor, studentID string) (*model.Student, error) {
	if err := access.Authorize(actor, access.ActionRead, access.StudentScope{StudentID: studentID}); err != nil {
		return nil, err
	}
	return findStudent(ctx, s.repo, studentID)
}

func findStudent(ctx context.Context, repo repository.StudentRepository, studentID string) (*model.Student, error) {
	if !validID(studentID) {
		return nil, notFound("student", studentID)
	}
	st, err := repo.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, notFound("student", studentID)
	}
	return st, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validate checks the profile fields and uniqueness of email and username.
func (s *studentService) validate(ctx context.Context, p *StudentParams, studentID, accountID string) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = normalizeEmail(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)

	verr := model.NewValidationError()
	if p.Name == "" {
		verr.Add("name", msgRequired)
	}
	if p.Email == "" {
		verr.Add("email", msgRequired)
	} else {
		taken, err := s.repo.EmailExists(ctx, p.Email, studentID)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("email", msgEmailTaken)
		}
	}
	if p.Username != nil {
		username := strings.TrimSpace(*p.Username)
		p.Username = &username
		if username == "" {
			verr.Add("username", msgRequired)
		} else {
			taken, err := s.accountRepo.UsernameExists(ctx, username, accountID)
			if err != nil {
				return err
			}
			if taken {
				verr.Add("username", msgUsernameTaken)
			}
		}
	}
	if p.Password != nil && len(*p.Password) < minPasswordLength {
		verr.Add("password", msgPasswordShort)
	}
	return verr.OrNil()
}

// generateUsername derives a free username from the email local part, falling
// back to the name, with a numeric suffix on collision.
func (s *studentService) generateUsername(ctx context.Context, email, name string) (string, error) {
	source := name
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		source = local
	}
	base := strings.ReplaceAll(slug.Make(source), "-", "")
	if base == "" {
		base = "student"
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := s.accountRepo.UsernameExists(ctx, candidate, "")
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
}

func (s *studentService) CreateStudent(ctx context.Context, actor access.Actor, p StudentParams) (*model.Student, error) {
	if err := access.Authorize(actor, access.ActionCreate, access.EntityStudent); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &p, "", ""); err != nil {
		return nil, err
	}

	account := &model.Account{Email: p.Email, FirstName: p.Name}
	if p.Username != nil {
		account.Username = *p.Username
	} else {
		username, err := s.generateUsername(ctx, p.Email, p.Name)
		if err != nil {
			return nil, fmt.Errorf("generating username: %w", err)
		}
		account.Username = username
	}
	if p.Password != nil {
		hash, err := s.hasher.hash(*p.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = hash
	}

	st := &model.Student{Name: p.Name, Email: p.Email, Phone: p.Phone}
	if err := s.repo.CreateStudent(ctx, account, st); err != nil {
		return nil, storageError(err)
	}
	s.logger.Info().Str("student_id", st.ID).Str("username", account.Username).Msg("Student created")
	return st, nil
}

func (s *studentService) UpdateStudent(ctx context.Context, actor access.Actor, studentID string, p StudentParams) (*model.Student, error) {
	if err := access.Authorize(actor, access.ActionUpdate, access.EntityStudent); err != nil {
		return nil, err
	}
	st, err := findStudent(ctx, s.repo, studentID)
	if err != nil {
		return nil, err
	}
	account, err := s.accountRepo.GetAccountByID(ctx, st.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, notFound("account", st.AccountID)
	}
	if err := s.validate(ctx, &p, st.ID, account.ID); err != nil {
		return nil, err
	}

	st.Name = p.Name
	st.Email = p.Email
	st.Phone = p.Phone
	account.Email = p.Email
	account.FirstName = p.Name
	if p.Username != nil {
		account.Username = *p.Username
	}
	if p.Password != nil {
		hash, err := s.hasher.hash(*p.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = hash
	}
	if err := s.repo.UpdateStudent(ctx, account, st); err != nil {
		return nil, storageError(err)
	}
	return st, nil
}

func (s *studentService) DeleteStudent(ctx context.Context, actor access.Actor, studentID string) error {
	if err := access.Authorize(actor, access.ActionDelete, access.EntityStudent); err != nil {
		return err
	}
	if _, err := findStudent(ctx, s.repo, studentID); err != nil {
		return err
	}
	if err := s.repo.DeleteStudent(ctx, studentID); err != nil {
		return storageError(err)
	}
	s.logger.Info().Str("student_id", studentID).Msg("Student deleted")
	return nil
}

func (s *studentService) ListStudentCohorts(ctx context.Context, actor access.Actor, studentID string, page repository.Page) ([]model.Cohort, int, error) {
	if err := access.Authorize(actor, access.ActionRead, access.StudentScope{StudentID: studentID}); err != nil {
		return nil, 0, err
	}
	if _, err := findStudent(ctx, s.repo, studentID); err != nil {
		return nil, 0, err
	}
	return s.cohortRepo.ListCohorts(ctx, repository.CohortFilter{StudentID: studentID}, page)
}
