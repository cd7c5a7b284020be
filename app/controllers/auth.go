package controllers

import (
	"net/http"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/app/services"
	"github.com/ruberanziza1/alx-project-nexus/pkg/bind"
	"github.com/ruberanziza1/alx-project-nexus/pkg/middleware"
	"github.com/ruberanziza1/alx-project-nexus/pkg/response"
)

// AuthController exposes registration, verification, login, and password
// endpoints.
type AuthController struct {
	service *services.AuthService
}

// NewAuthController creates an AuthController.
func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email                string `json:"email" validate:"required,email"`
		Password             string `json:"password" validate:"required,min=8,max=128,confirmed"`
		PasswordConfirmation string `json:"password_confirmation" validate:"required"`
		FirstName            string `json:"first_name" validate:"required,max=150"`
		LastName             string `json:"last_name" validate:"nullable,max=150"`
	}
	if !decode(w, r, &body) {
		return
	}

	user, err := c.service.Register(services.RegisterInput{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"user":    user,
		"message": "account created, check your email for a verification code",
	})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if !decode(w, r, &body) {
		return
	}

	pair, user, err := c.service.Login(body.Email, body.Password, middleware.ClientIP(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"access_token":  pair.Access,
		"refresh_token": pair.Refresh,
		"user":          user,
	})
}

func (c *AuthController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required,digits=6"`
	}
	if !decode(w, r, &body) {
		return
	}

	if err := c.service.VerifyEmail(body.Email, body.Code); err != nil {
		response.FromError(w, err)
		return
	}

	response.Message(w, "email verified, you can now log in", nil)
}

func (c *AuthController) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email"`
	}
	if !decode(w, r, &body) {
		return
	}

	if err := c.service.ResendOTP(body.Email, models.PurposeEmailVerify); err != nil {
		response.FromError(w, err)
		return
	}

	response.Message(w, "if an account exists for that email, a code has been sent", nil)
}

func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email"`
	}
	if !decode(w, r, &body) {
		return
	}

	msg, err := c.service.ForgotPassword(body.Email)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Message(w, msg, nil)
}

func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email                string `json:"email" validate:"required,email"`
		Code                 string `json:"code" validate:"required,digits=6"`
		Password             string `json:"password" validate:"required,min=8,max=128,confirmed"`
		PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	}
	if !decode(w, r, &body) {
		return
	}

	if err := c.service.ResetPassword(body.Email, body.Code, body.Password); err != nil {
		response.FromError(w, err)
		return
	}

	response.Message(w, "password has been reset, log in with your new password", nil)
}

func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var body struct {
		CurrentPassword      string `json:"current_password" validate:"required"`
		Password             string `json:"password" validate:"required,min=8,max=128,confirmed"`
		PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	}
	if !decode(w, r, &body) {
		return
	}

	if err := c.service.ChangePassword(userID, body.CurrentPassword, body.Password); err != nil {
		response.FromError(w, err)
		return
	}

	response.Message(w, "password changed", nil)
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if !decode(w, r, &body) {
		return
	}

	pair, err := c.service.Refresh(body.RefreshToken)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"access_token":  pair.Access,
		"refresh_token": pair.Refresh,
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	if err := c.service.Logout(userID); err != nil {
		response.FromError(w, err)
		return
	}

	response.Message(w, "logged out", nil)
}

func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.service.Profile(userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, user)
}

// decode binds and validates the body, writing the failure response
// itself. Returns false when the handler should stop.
func decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(r, dest)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid_request", err.Error())
		return false
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return false
	}
	return true
}
