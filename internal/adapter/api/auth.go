package api

import (
	"github.com/burenotti/go_academy_backend/internal/app/authapp"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/auth"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mileusna/useragent"
	"net/http"
)

func (s *Server) MountAuth() {
	authRoutes := s.handler.Group("/auth")

	authRoutes.POST("/login", s.Login)
	authRoutes.POST("/sign-up", s.SignUp)
	authRoutes.POST("/refresh", s.Refresh)
	authRoutes.POST("/logout", s.Logout, s.loginRequired())
}

func (s *Server) getAuthUoW() *unitofwork.UnitOfWork[*authapp.AtomicContext] {
	return unitofwork.New[*authapp.AtomicContext](
		s.db,
		authapp.AtomicContextFactory(s.logger),
		s.msgBus,
		s.logger,
	)
}

type loginReq struct {
	Email    string `form:"username" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
}

type tokensResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func deviceOf(c echo.Context) auth.Device {
	agent := useragent.Parse(c.Request().UserAgent())
	return auth.Device{
		Browser:   agent.Name,
		OS:        agent.OS,
		IPAddress: c.RealIP(),
		Model:     agent.Device,
	}
}

func (s *Server) Login(c echo.Context) error {
	var b loginReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	tokens, err := s.authService.Login(c.Request().Context(), s.getAuthUoW(), deviceOf(c), b.Email, b.Password)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, &tokensResp{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type signUpReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type signUpResp struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

func (s *Server) SignUp(c echo.Context) error {
	var b signUpReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	acc, err := s.authService.SignUp(c.Request().Context(), s.getAuthUoW(), uuid.NewString(), b.Email, b.Password)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, signUpResp{
		AccountID: acc.AccountID,
		Email:     acc.Email,
	})
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (s *Server) Refresh(c echo.Context) error {
	var b refreshReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	tokens, err := s.authService.Refresh(c.Request().Context(), s.getAuthUoW(), b.RefreshToken)
	if err != nil {
		return s.ServiceError(c, err)
	}
	return c.JSON(http.StatusOK, &tokensResp{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (s *Server) Logout(c echo.Context) error {
	u := currentUser(c)

	if err := s.authService.Logout(c.Request().Context(), s.getAuthUoW(), u.AccountID, u.SessionID); err != nil {
		return s.ServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
