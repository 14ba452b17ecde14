package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/hash"
	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
	"github.com/Skotchmaster/marketplace/internal/notify"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/tokens"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

type OTPGenerator interface {
	Generate(identifier string) (string, error)
	Verify(identifier, code string) bool
}

type Notifier interface {
	Dispatch(ctx context.Context, ch notify.Channel, destination, code string) error
	Enabled(ch notify.Channel) bool
}

type Limiter interface {
	Allow(ctx context.Context, scope string) (bool, error)
}

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   *tokens.Issuer
	OTP      OTPGenerator
	Notifier Notifier
	Limiter  Limiter
	Events   mykafka.Publisher
}

func (s *AuthService) SendOTP(ctx context.Context, req transport.SendOTPRequest) error {
	l := logging.FromContext(ctx).With("svc", "auth.send_otp")

	if err := validate(req); err != nil {
		return err
	}
	email := normalizeEmail(req.Email)

	if s.Limiter != nil {
		ok, err := s.Limiter.Allow(ctx, "otp:"+email)
		if err != nil {
			l.Warn("rate_limit_unavailable", "error", err)
		} else if !ok {
			return ErrRateLimited
		}
	}

	if err := s.ensureUnique(ctx, repo.FieldEmail, email, "Email"); err != nil {
		return err
	}
	if err := s.ensureUnique(ctx, repo.FieldPhone, req.Phone, "Phone"); err != nil {
		return err
	}

	code, err := s.OTP.Generate(email)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	if err := s.Notifier.Dispatch(ctx, notify.ChannelEmail, email, code); err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	if s.Notifier.Enabled(notify.ChannelSMS) {
		// SMS is best effort; the dispatcher already logged the failure.
		_ = s.Notifier.Dispatch(ctx, notify.ChannelSMS, req.Phone, code)
	}

	l.Info("otp_sent")
	return nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, req transport.VerifyOTPRequest) (bool, error) {
	if err := validate(req); err != nil {
		return false, err
	}
	email := normalizeEmail(req.Email)
	if err := s.ensureUnique(ctx, repo.FieldEmail, email, "User"); err != nil {
		return false, err
	}
	return s.OTP.Verify(email, req.OTP), nil
}

// Register checks email, phone and name uniqueness and the region before any row is written.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := validate(req); err != nil {
		return nil, err
	}
	req.Email = normalizeEmail(req.Email)
	if err := s.ensureUnique(ctx, repo.FieldEmail, req.Email, "Email"); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, repo.FieldPhone, req.Phone, "Phone"); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, repo.FieldName, req.Name, "Username"); err != nil {
		return nil, err
	}

	ok, err := s.Repo.RegionExists(ctx, req.RegionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: region not found", ErrNotFound)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: pwHash,
		Year:     req.Year,
		RegionID: req.RegionID,
		Image:    req.Image,
		Role:     role,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, exists("User")
		}
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicUsers, user.ID.String(), "user_registered", map[string]any{
		"name": user.Name,
		"role": user.Role,
	})
	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

// Login does not reveal whether the name or the password was wrong.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.TokenPair, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.Repo.GetUserByName(ctx, req.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	access, err := s.Tokens.IssueAccess(user.ID.String(), user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Tokens.IssueRefresh(user.ID.String(), user.Role)
	if err != nil {
		return nil, err
	}
	return &transport.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh trusts the refresh token claims and does not reload the user.
func (s *AuthService) Refresh(ctx context.Context, req transport.RefreshRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	claims, err := s.Tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, tokens.ErrMissingSecret) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return s.Tokens.IssueAccess(claims.UserID, claims.Role)
}

func (s *AuthService) ensureUnique(ctx context.Context, field repo.UniqueField, value, label string) error {
	taken, err := s.Repo.UserExists(ctx, field, value, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return exists(label)
	}
	return nil
}
