package service

import (
	"context"
	"strings"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/repository"

	"github.com/rs/zerolog"
)

// AdminParams is the writable state of an admin account.
// On update, nil pointers keep the stored value.
type AdminParams struct {
	Username    *string
	Email       *string
	FirstName   *string
	LastName    *string
	AccessLevel *string
	// Password is required on create and ignored on update; see SetAdminPassword.
	Password string
}

// AdminService manages staff accounts. Every operation is superuser-only.
type AdminService interface {
	ListAdmins(ctx context.Context, actor access.Actor, page repository.Page) ([]model.Account, int, error)
	AdminStats(ctx context.Context, actor access.Actor) (model.AdminStats, error)
	GetAdmin(ctx context.Context, actor access.Actor, accountID string) (*model.Account, error)
	CreateAdmin(ctx context.Context, actor access.Actor, p AdminParams) (*model.Account, error)
	UpdateAdmin(ctx context.Context, actor access.Actor, accountID string, p AdminParams) (*model.Account, error)
	SetAdminPassword(ctx context.Context, actor access.Actor, accountID, password string) error
	DeleteAdmin(ctx context.Context, actor access.Actor, accountID string) error
}

type adminService struct {
	repo   repository.AccountRepository
	hasher passwordHasher
	logger zerolog.Logger
}

func NewAdminService(repo repository.AccountRepository, logger zerolog.Logger) AdminService {
	return &adminService{
		repo:   repo,
		hasher: defaultHasher,
		logger: logger.With().Str("service", "AdminService").Logger(),
	}
}

func (s *adminService) ListAdmins(ctx context.Context, actor access.Actor, page repository.Page) ([]model.Account, int, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityAdminAccount); err != nil {
		return nil, 0, err
	}
	return s.repo.ListAdmins(ctx, page)
}

func (s *adminService) AdminStats(ctx context.Context, actor access.Actor) (model.AdminStats, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityAdminAccount); err != nil {
		return model.AdminStats{}, err
	}
	return s.repo.AdminStats(ctx)
}

func (s *adminService) GetAdmin(ctx context.Context, actor access.Actor, accountID string) (*model.Account, error) {
	if err := access.Authorize(actor, access.ActionRead, access.EntityAdminAccount); err != nil {
		return nil, err
	}
	return s.find(ctx, accountID)
}

// find returns staff accounts only; student accounts are not addressable here.
func (s *adminService) find(ctx context.Context, accountID string) (*model.Account, error) {
	if !validID(accountID) {
		return nil, notFound("admin account", accountID)
	}
	a, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if a == nil || !a.IsAdmin {
		return nil, notFound("admin account", accountID)
	}
	return a, nil
}

// target describes account a to the admin-account rules.
func (s *adminService) target(ctx context.Context, a *model.Account, demote bool) (access.AdminAccount, error) {
	count, err := s.repo.CountSuperusers(ctx)
	if err != nil {
		return access.AdminAccount{}, err
	}
	return access.AdminAccount{
		AccountID:      a.ID,
		IsSuperuser:    a.IsSuperuser,
		SuperuserCount: count,
		Demote:         demote,
	}, nil
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func (s *adminService) validate(ctx context.Context, p *AdminParams, accountID string, create bool) error {
	p.Username = trimmed(p.Username)
	p.Email = trimmed(p.Email)
	p.FirstName = trimmed(p.FirstName)
	p.LastName = trimmed(p.LastName)

	verr := model.NewValidationError()
	switch {
	case p.Username == nil && create, p.Username != nil && *p.Username == "":
		verr.Add("username", msgRequired)
	case p.Username != nil:
		taken, err := s.repo.UsernameExists(ctx, *p.Username, accountID)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("username", msgUsernameTaken)
		}
	}
	if p.AccessLevel != nil && *p.AccessLevel != model.AccessLevelAdmin && *p.AccessLevel != model.AccessLevelSuperadmin {
		verr.Add("access_level", msgAccessLevel)
	}
	if create && len(p.Password) < minPasswordLength {
		verr.Add("password", msgPasswordShort)
	}
	return verr.OrNil()
}

func (s *adminService) CreateAdmin(ctx context.Context, actor access.Actor, p AdminParams) (*model.Account, error) {
	if err := access.Authorize(actor, access.ActionCreate, access.EntityAdminAccount); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &p, "", true); err != nil {
		return nil, err
	}
	hash, err := s.hasher.hash(p.Password)
	if err != nil {
		return nil, err
	}
	a := &model.Account{
		Username:     *p.Username,
		PasswordHash: hash,
		IsAdmin:      true,
		IsSuperuser:  p.AccessLevel != nil && *p.AccessLevel == model.AccessLevelSuperadmin,
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.FirstName != nil {
		a.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		a.LastName = *p.LastName
	}
	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, storageError(err)
	}
	s.logger.Info().Str("account_id", a.ID).Str("access_level", a.AccessLevel()).Msg("Admin account created")
	return a, nil
}

func (s *adminService) UpdateAdmin(ctx context.Context, actor access.Actor, accountID string, p AdminParams) (*model.Account, error) {
	if err := access.Authorize(actor, access.ActionUpdate, access.EntityAdminAccount); err != nil {
		return nil, err
	}
	a, err := s.find(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &p, a.ID, false); err != nil {
		return nil, err
	}
	demote := p.AccessLevel != nil && *p.AccessLevel == model.AccessLevelAdmin
	target, err := s.target(ctx, a, demote)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionUpdate, target); err != nil {
		return nil, err
	}

	if p.Username != nil {
		a.Username = *p.Username
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.FirstName != nil {
		a.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		a.LastName = *p.LastName
	}
	if p.AccessLevel != nil {
		a.IsSuperuser = *p.AccessLevel == model.AccessLevelSuperadmin
	}
	if err := s.repo.UpdateAccount(ctx, a); err != nil {
		return nil, storageError(err)
	}
	return a, nil
}

func (s *adminService) SetAdminPassword(ctx context.Context, actor access.Actor, accountID, password string) error {
	if err := access.Authorize(actor, access.ActionUpdate, access.EntityAdminAccount); err != nil {
		return err
	}
	a, err := s.find(ctx, accountID)
	if err != nil {
		return err
	}
	target, err := s.target(ctx, a, false)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.ActionUpdate, target); err != nil {
		return err
	}
	if len(password) < minPasswordLength {
		return model.FieldError("password", msgPasswordShort)
	}
	hash, err := s.hasher.hash(password)
	if err != nil {
		return err
	}
	if err := s.repo.SetPassword(ctx, a.ID, hash); err != nil {
		return storageError(err)
	}
	s.logger.Info().Str("account_id", a.ID).Msg("Admin password changed")
	return nil
}

func (s *adminService) DeleteAdmin(ctx context.Context, actor access.Actor, accountID string) error {
	if err := access.Authorize(actor, access.ActionDelete, access.EntityAdminAccount); err != nil {
		return err
	}
	a, err := s.find(ctx, accountID)
	if err != nil {
		return err
	}
	target, err := s.target(ctx, a, false)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.ActionDelete, target); err != nil {
		return err
	}
	if err := s.repo.DeleteAccount(ctx, a.ID); err != nil {
		return storageError(err)
	}
	s.logger.Info().Str("account_id", a.ID).Msg("Admin account deleted")
	return nil
}
