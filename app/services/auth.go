package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/pkg/apperr"
	"github.com/ruberanziza1/alx-project-nexus/pkg/auth"
	"github.com/ruberanziza1/alx-project-nexus/pkg/event"
	"github.com/ruberanziza1/alx-project-nexus/pkg/logger"
	"github.com/ruberanziza1/alx-project-nexus/pkg/metrics"
	"gorm.io/gorm"
)

// Event names fired by the auth service. Listeners enqueue the matching
// email jobs.
const (
	EventUserRegistered  = "user.registered"
	EventOTPRequested    = "otp.requested"
	EventPasswordChanged = "password.changed"
)

// OTPRequested is the payload for EventUserRegistered and EventOTPRequested.
type OTPRequested struct {
	Email   string
	Name    string
	Code    string
	Purpose models.Purpose
}

// PasswordChanged is the payload for EventPasswordChanged.
type PasswordChanged struct {
	Email string
	Name  string
}

// loginFailedMessage is deliberately the same for wrong passwords, unknown
// emails, and unverified or deactivated accounts, so the endpoint does not
// reveal which one applied. The precise reason goes into the audit row.
const loginFailedMessage = "invalid credentials or unverified account"

// neutralResetMessage never confirms whether an account exists.
const neutralResetMessage = "if an account exists for that email, a code has been sent"

// AuthService implements registration, the verification gate, login, and
// password lifecycle.
type AuthService struct {
	db      *gorm.DB
	otp     *OTPStore
	limiter *Limiter
	tokens  *auth.Manager
	now     func() time.Time
}

// NewAuthService wires the auth service from its collaborators.
func NewAuthService(db *gorm.DB, otp *OTPStore, limiter *Limiter, tokens *auth.Manager) *AuthService {
	return &AuthService{db: db, otp: otp, limiter: limiter, tokens: tokens, now: time.Now}
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates an unverified account with its cart and issues the
// first email-verification code. The account cannot log in until verified.
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &models.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      models.RoleCustomer,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ?", in.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("an account with this email already exists")
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Cart{UserID: user.ID}).Error
	})
	if err != nil {
		return nil, err
	}

	code, err := s.otp.Create(user.ID, models.PurposeEmailVerify)
	if err != nil {
		return nil, err
	}

	event.Fire(EventUserRegistered, OTPRequested{
		Email:   user.Email,
		Name:    user.FullName(),
		Code:    code.Code,
		Purpose: models.PurposeEmailVerify,
	})

	return user, nil
}

// Login checks the rate limit, then credentials, then the verification
// gate. Attempts are recorded with their precise reason, except while
// blocked: a blocked retry must not re-arm the window, or the lockout
// would never elapse. The caller only ever sees one uniform failure
// message.
func (s *AuthService) Login(email, password, ip string) (auth.TokenPair, *models.User, error) {
	exceeded, err := s.limiter.LoginExceeded(email, ip)
	if err != nil {
		return auth.TokenPair{}, nil, err
	}
	if exceeded {
		metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
		return auth.TokenPair{}, nil, apperr.RateLimited("too many failed attempts, try again later")
	}

	var user models.User
	err = s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.record(email, ip, false, "bad_credentials")
		metrics.LoginsTotal.WithLabelValues("bad_credentials").Inc()
		return auth.TokenPair{}, nil, apperr.Auth(loginFailedMessage)
	}
	if err != nil {
		return auth.TokenPair{}, nil, fmt.Errorf("auth: lookup user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		s.record(email, ip, false, "bad_credentials")
		metrics.LoginsTotal.WithLabelValues("bad_credentials").Inc()
		return auth.TokenPair{}, nil, apperr.Auth(loginFailedMessage)
	}

	if !user.IsActive {
		s.record(email, ip, false, "inactive")
		metrics.LoginsTotal.WithLabelValues("unverified").Inc()
		return auth.TokenPair{}, nil, apperr.Auth(loginFailedMessage)
	}

	if !user.EmailVerified || !user.CanLogin {
		s.record(email, ip, false, "unverified")
		metrics.LoginsTotal.WithLabelValues("unverified").Inc()
		return auth.TokenPair{}, nil, apperr.Auth(loginFailedMessage)
	}

	pair, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return auth.TokenPair{}, nil, fmt.Errorf("auth: issue tokens: %w", err)
	}

	s.record(email, ip, true, "")
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	now := s.now()
	s.db.Model(&user).Update("last_login_at", now)
	user.LastLoginAt = &now

	return pair, &user, nil
}

// VerifyEmail consumes an email-verification code, unlocking login.
func (s *AuthService) VerifyEmail(email, code string) error {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNoValidCode
	}
	if err != nil {
		return fmt.Errorf("auth: lookup user: %w", err)
	}
	return s.otp.Verify(user.ID, models.PurposeEmailVerify, code)
}

// ResendOTP issues a fresh code for the given purpose. Unknown emails and
// already-verified accounts return success without sending anything, so
// the endpoint stays uniform; only a tripped resend limit is surfaced.
func (s *AuthService) ResendOTP(email string, purpose models.Purpose) error {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("auth: lookup user: %w", err)
	}

	if purpose == models.PurposeEmailVerify && user.EmailVerified {
		return nil
	}

	exceeded, err := s.limiter.ResendExceeded(user.ID, purpose)
	if err != nil {
		return err
	}
	if exceeded {
		return apperr.RateLimited("too many codes requested, try again later")
	}

	code, err := s.otp.Create(user.ID, purpose)
	if err != nil {
		return err
	}

	event.Fire(EventOTPRequested, OTPRequested{
		Email:   user.Email,
		Name:    user.FullName(),
		Code:    code.Code,
		Purpose: purpose,
	})
	return nil
}

// ForgotPassword starts a password reset. The response message is the same
// whether or not the account exists.
func (s *AuthService) ForgotPassword(email string) (string, error) {
	if err := s.ResendOTP(email, models.PurposePasswordReset); err != nil {
		return "", err
	}
	return neutralResetMessage, nil
}

// ResetPassword consumes a reset code and replaces the password. All
// refresh tokens are revoked so stolen sessions die with the old password.
func (s *AuthService) ResetPassword(email, code, newPassword string) error {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNoValidCode
	}
	if err != nil {
		return fmt.Errorf("auth: lookup user: %w", err)
	}

	if err := s.otp.Verify(user.ID, models.PurposePasswordReset, code); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	if err := s.db.Model(&user).Update("password", hash).Error; err != nil {
		return fmt.Errorf("auth: update password: %w", err)
	}

	s.tokens.Revoke(user.ID)

	event.Fire(EventPasswordChanged, PasswordChanged{
		Email: user.Email,
		Name:  user.FullName(),
	})
	return nil
}

// ChangePassword replaces the password for an authenticated user after
// checking the current one, then revokes outstanding refresh tokens.
func (s *AuthService) ChangePassword(userID uint, current, newPassword string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return fmt.Errorf("auth: lookup user: %w", err)
	}

	if !auth.CheckPassword(user.Password, current) {
		return apperr.Auth("current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	if err := s.db.Model(&user).Update("password", hash).Error; err != nil {
		return fmt.Errorf("auth: update password: %w", err)
	}

	s.tokens.Revoke(user.ID)

	event.Fire(EventPasswordChanged, PasswordChanged{
		Email: user.Email,
		Name:  user.FullName(),
	})
	return nil
}

// Refresh rotates a refresh token into a new token pair.
func (s *AuthService) Refresh(refreshToken string) (auth.TokenPair, error) {
	return s.tokens.Refresh(refreshToken)
}

// Logout revokes the user's current refresh token.
func (s *AuthService) Logout(userID uint) error {
	return s.tokens.Revoke(userID)
}

// Profile returns the account for an authenticated user.
func (s *AuthService) Profile(userID uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) record(email, ip string, success bool, reason string) {
	// The attempt log must not block the login response.
	if err := s.limiter.RecordLogin(email, ip, success, reason); err != nil {
		logger.Warn("auth: record login attempt", "error", err)
	}
}
