package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"shipdesk/internal/config"
	"shipdesk/internal/domain"
	"shipdesk/internal/port"
)

// RegisterInput is the DTO for self-registration.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Company  string `json:"company"`
}

// VerifyOTPInput is the DTO for OTP verification.
type VerifyOTPInput struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// RegistrationService defines the registration and OTP-verification contract.
type RegistrationService interface {
	// Register creates an unverified account and emails the first OTP.
	Register(ctx context.Context, input RegisterInput) error

	// SendOTP issues a fresh OTP to an existing account.
	SendOTP(ctx context.Context, email string) error

	// VerifyOTP checks the submitted code, marks the account verified and
	// logs the user in.
	VerifyOTP(ctx context.Context, input VerifyOTPInput) (*LoginOutput, error)
}

type registrationService struct {
	userRepo port.UserRepository
	email    port.EmailSender
	authSvc  AuthService
	otpCfg   config.OTPConfig
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(
	userRepo port.UserRepository,
	email port.EmailSender,
	authSvc AuthService,
	otpCfg config.OTPConfig,
) RegistrationService {
	return &registrationService{
		userRepo: userRepo,
		email:    email,
		authSvc:  authSvc,
		otpCfg:   otpCfg,
	}
}

func (s *registrationService) Register(ctx context.Context, input RegisterInput) error {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("registration.Register: %w", err)
	}
	if existing != nil {
		return domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generating OTP: %w", err)
	}
	expiresAt := time.Now().UTC().Add(s.otpCfg.Expiry)

	hashStr := string(hash)
	user := &domain.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: &hashStr,
		Role:         domain.RoleUser,
		IsVerified:   false,
		OTP:          &otp,
		OTPExpiresAt: &expiresAt,
	}
	if input.Company != "" {
		user.Company = &input.Company
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err // ErrDuplicateEmail propagates naturally
	}

	if err := s.email.SendOTPEmail(ctx, user.Email, user.Name, otp); err != nil {
		return fmt.Errorf("sending OTP email: %w", err)
	}
	return nil
}

func (s *registrationService) SendOTP(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrEmailNotFound
		}
		return fmt.Errorf("registration.SendOTP: %w", err)
	}

	otp, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generating OTP: %w", err)
	}
	expiresAt := time.Now().UTC().Add(s.otpCfg.Expiry)

	if err := s.userRepo.SetOTP(ctx, user.Email, otp, expiresAt); err != nil {
		return fmt.Errorf("storing OTP: %w", err)
	}
	if err := s.email.SendOTPEmail(ctx, user.Email, user.Name, otp); err != nil {
		return fmt.Errorf("sending OTP email: %w", err)
	}
	return nil
}

func (s *registrationService) VerifyOTP(ctx context.Context, input VerifyOTPInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEmailNotFound
		}
		return nil, fmt.Errorf("registration.VerifyOTP: %w", err)
	}

	if user.OTP == nil || user.OTPExpiresAt == nil {
		return nil, domain.ErrOTPNotRequested
	}
	if time.Now().UTC().After(*user.OTPExpiresAt) {
		return nil, domain.ErrOTPExpired
	}
	if *user.OTP != input.OTP {
		return nil, domain.ErrInvalidOTP
	}

	if err := s.userRepo.MarkVerified(ctx, user.Email); err != nil {
		return nil, fmt.Errorf("marking verified: %w", err)
	}
	user.IsVerified = true
	log.Printf("[INFO] user %s verified", user.Email)

	tokens, err := s.authSvc.IssueTokens(user)
	if err != nil {
		return nil, fmt.Errorf("generating tokens: %w", err)
	}
	return &LoginOutput{
		Tokens:  tokens,
		Session: sessionFor(user),
	}, nil
}

// generateOTP returns a uniformly random 6-digit code, zero-padded.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
