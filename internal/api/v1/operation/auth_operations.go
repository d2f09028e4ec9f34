package operation

import (
	"net/http"

	"github.com/Elias-Front-end/management-system/internal/api/v1/dto"
)

type LoginInput struct {
	Body dto.LoginRequestDTO `json:"body"`
}

type LoginOutput struct {
	SetCookie http.Cookie          `header:"Set-Cookie"`
	Body      dto.LoginResponseDTO `json:"body"`
}

type LogoutInput struct{}

type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
}

type MeInput struct{}

type MeOutput struct {
	Body dto.MeResponseDTO `json:"body"`
}
