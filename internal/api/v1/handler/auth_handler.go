package handler

import (
	"context"
	"errors"

	"github.com/Elias-Front-end/management-system/internal/api/v1/dto"
	"github.com/Elias-Front-end/management-system/internal/api/v1/operation"
	"github.com/Elias-Front-end/management-system/internal/metrics"
	"github.com/Elias-Front-end/management-system/internal/middleware"
	"github.com/Elias-Front-end/management-system/internal/service"
	"github.com/Elias-Front-end/management-system/internal/session"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

// AuthHandler handles login, logout and the current session.
type AuthHandler struct {
	responder
	authService service.AuthService
	tokens      *session.TokenSigner
	cookies     *session.CookieManager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	authService service.AuthService,
	tokens *session.TokenSigner,
	cookies *session.CookieManager,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		responder:   newResponder(logger, m, nil),
		authService: authService,
		tokens:      tokens,
		cookies:     cookies,
	}
}

// profileLabel keeps the metric label set closed.
func profileLabel(profileType string) string {
	switch profileType {
	case service.ProfileAdmin, service.ProfileStudent:
		return profileType
	default:
		return "other"
	}
}

func (h *AuthHandler) observeLogin(err error, profileType string) {
	if h.metrics == nil {
		return
	}
	var outcome string
	switch {
	case err == nil:
		outcome = metrics.LoginSuccess
	case errors.Is(err, service.ErrInvalidCredentials):
		outcome = metrics.LoginInvalidCredentials
	case errors.Is(err, service.ErrRoleMismatch):
		outcome = metrics.LoginRoleMismatch
	default:
		return
	}
	h.metrics.ObserveLogin(outcome, profileLabel(profileType))
}

func (h *AuthHandler) Login(ctx context.Context, input *operation.LoginInput) (*operation.LoginOutput, error) {
	body := input.Body
	sess, err := h.authService.Login(ctx, body.Username, body.Password, body.ProfileType)
	h.observeLogin(err, body.ProfileType)
	if err != nil {
		return nil, h.fail(err, "session", "create")
	}

	token, expiresAt, err := h.tokens.Sign(sess.Account.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("account_id", sess.Account.ID).Msg("Failed to sign token")
		return nil, huma.Error500InternalServerError("Failed to create session")
	}
	cookie, err := h.cookies.Issue(sess.Account.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("account_id", sess.Account.ID).Msg("Failed to encode session cookie")
		return nil, huma.Error500InternalServerError("Failed to create session")
	}

	return &operation.LoginOutput{
		SetCookie: *cookie,
		Body: dto.LoginResponseDTO{
			MeResponseDTO: meDTO(sess),
			Token:         token,
			ExpiresAt:     expiresAt,
		},
	}, nil
}

// Logout clears the session cookie. Bearer tokens expire on their own.
func (h *AuthHandler) Logout(ctx context.Context, input *operation.LogoutInput) (*operation.LogoutOutput, error) {
	return &operation.LogoutOutput{SetCookie: *h.cookies.Clear()}, nil
}

func (h *AuthHandler) Me(ctx context.Context, input *operation.MeInput) (*operation.MeOutput, error) {
	sess, err := h.authService.Me(ctx, middleware.ActorFromContext(ctx))
	if err != nil {
		return nil, h.fail(err, "session", "retrieve")
	}
	return &operation.MeOutput{Body: meDTO(sess)}, nil
}
