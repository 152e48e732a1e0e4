package handler

import (
	"net/http"
	"time"

	"counsel_hub/internal/api/middleware"
	"counsel_hub/internal/app/service"
	"counsel_hub/internal/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const tokenCookie = "token"

type AuthHandler struct {
	authService  *service.AuthService
	loginLimit   func(http.Handler) http.Handler
	secureCookie bool
	log          *zap.Logger
}

func NewAuthHandler(
	authService *service.AuthService,
	loginLimit func(http.Handler) http.Handler,
	secureCookie bool,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimit:   loginLimit,
		secureCookie: secureCookie,
		log:          log,
	}
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.With(h.loginLimit).Post("/login", h.login)

	r.Group(func(private chi.Router) {
		private.Use(middleware.Authenticator)
		private.Get("/me", h.me)
		private.Get("/logout", h.logout)
		private.Put("/updatedetails", h.updateDetails)
		private.Put("/updatepassword", h.updatePassword)
		private.With(middleware.AdminOnly).Post("/accounts", h.createAccount)
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	h.sendToken(w, session)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}
	account, err := h.authService.Me(r.Context(), identity)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, account)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "none",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookie,
	})
	common.RespondSuccess(w, http.StatusOK, struct{}{})
}

func (h *AuthHandler) updateDetails(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}
	var req service.UpdateDetailsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	account, err := h.authService.UpdateDetails(r.Context(), identity, req)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, account)
}

func (h *AuthHandler) updatePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}
	var req service.UpdatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session, err := h.authService.UpdatePassword(r.Context(), identity, req)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	h.sendToken(w, session)
}

func (h *AuthHandler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	account, err := h.authService.CreateAccount(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondSuccess(w, http.StatusCreated, account)
}

// sendToken sets the session cookie and returns the token in the body.
func (h *AuthHandler) sendToken(w http.ResponseWriter, session *service.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	common.RespondWithJSON(w, http.StatusOK, tokenResponse{Success: true, Token: session.Token})
}
