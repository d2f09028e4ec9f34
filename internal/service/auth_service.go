package service

import (
	"context"
	"strings"
	"time"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/repository"

	"github.com/rs/zerolog"
)

// Profile types a client claims at login.
const (
	ProfileAdmin   = "admin"
	ProfileStudent = "student"
)

// Session is an authenticated account with its resolved actor.
type Session struct {
	Account *model.Account
	// Student is the linked profile, nil for staff.
	Student *model.Student
	Actor   access.Actor
}

// AuthService authenticates accounts and resolves request actors.
type AuthService interface {
	// Login accepts a username or a student's display name as identifier and
	// checks the account matches the claimed profile type.
	Login(ctx context.Context, identifier, password, profileType string) (*Session, error)
	// ResolveActor re-reads the account and profile behind accountID.
	// Unknown or inactive accounts resolve to Anonymous.
	ResolveActor(ctx context.Context, accountID string) (access.Actor, error)
	// Me returns the session of actor, or access.ErrUnauthenticated for Anonymous.
	Me(ctx context.Context, actor access.Actor) (*Session, error)
}

type authService struct {
	accountRepo repository.AccountRepository
	studentRepo repository.StudentRepository
	hasher      passwordHasher
	logger      zerolog.Logger
	now         func() time.Time
}

func NewAuthService(accountRepo repository.AccountRepository, studentRepo repository.StudentRepository, logger zerolog.Logger) AuthService {
	return &authService{
		accountRepo: accountRepo,
		studentRepo: studentRepo,
		hasher:      defaultHasher,
		logger:      logger.With().Str("service", "AuthService").Logger(),
		now:         time.Now,
	}
}

func validateLogin(identifier, password, profileType string) error {
	verr := model.NewValidationError()
	if strings.TrimSpace(identifier) == "" {
		verr.Add("username", msgRequired)
	}
	if password == "" {
		verr.Add("password", msgRequired)
	}
	if profileType != ProfileAdmin && profileType != ProfileStudent {
		verr.Add("profile_type", msgProfileType)
	}
	return verr.OrNil()
}

func (s *authService) Login(ctx context.Context, identifier, password, profileType string) (*Session, error) {
	if err := validateLogin(identifier, password, profileType); err != nil {
		return nil, err
	}
	identifier = strings.TrimSpace(identifier)

	account, err := s.authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	if account == nil {
		username, err := s.usernameForDisplayName(ctx, identifier)
		if err != nil {
			return nil, err
		}
		if username != "" {
			if account, err = s.authenticate(ctx, username, password); err != nil {
				return nil, err
			}
		}
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	student, err := s.studentRepo.GetStudentByAccountID(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	switch profileType {
	case ProfileAdmin:
		if !account.IsAdmin {
			return nil, ErrRoleMismatch
		}
	case ProfileStudent:
		if account.IsAdmin || student == nil {
			return nil, ErrRoleMismatch
		}
	}

	now := s.now().UTC()
	if err := s.accountRepo.TouchLastLogin(ctx, account.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("account_id", account.ID).Msg("Failed to record last login")
	} else {
		account.LastLogin = &now
	}
	s.logger.Info().Str("account_id", account.ID).Str("profile_type", profileType).Msg("Login succeeded")
	return &Session{Account: account, Student: student, Actor: access.ActorFor(account, student)}, nil
}

// authenticate returns the active account for username when password matches, nil otherwise.
func (s *authService) authenticate(ctx context.Context, username, password string) (*model.Account, error) {
	account, err := s.accountRepo.GetAccountByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if account == nil || !account.IsActive {
		return nil, nil
	}
	ok, err := s.hasher.matches(account.PasswordHash, password)
	if err != nil {
		s.logger.Warn().Err(err).Str("account_id", account.ID).Msg("Stored password hash is unreadable")
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return account, nil
}

// usernameForDisplayName returns the username linked to the only student named
// name, or "" when no student or several students carry that name.
func (s *authService) usernameForDisplayName(ctx context.Context, name string) (string, error) {
	students, err := s.studentRepo.FindStudentsByName(ctx, name)
	if err != nil {
		return "", err
	}
	if len(students) != 1 {
		return "", nil
	}
	return students[0].Username, nil
}

func (s *authService) ResolveActor(ctx context.Context, accountID string) (access.Actor, error) {
	sess, err := s.session(ctx, accountID)
	if err != nil || sess == nil {
		return access.Anonymous{}, err
	}
	return sess.Actor, nil
}

func (s *authService) session(ctx context.Context, accountID string) (*Session, error) {
	if !validID(accountID) {
		return nil, nil
	}
	account, err := s.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	var student *model.Student
	if !account.IsAdmin {
		if student, err = s.studentRepo.GetStudentByAccountID(ctx, account.ID); err != nil {
			return nil, err
		}
	}
	return &Session{Account: account, Student: student, Actor: access.ActorFor(account, student)}, nil
}

func (s *authService) Me(ctx context.Context, actor access.Actor) (*Session, error) {
	if err := access.Authenticated(actor); err != nil {
		return nil, err
	}
	sess, err := s.session(ctx, access.AccountID(actor))
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, access.Authenticated(access.Anonymous{})
	}
	return sess, nil
}
