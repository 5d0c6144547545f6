package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/adarshprakasan/Hospiq/internal/platform/auth"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOTPInvalid         = errors.New("invalid or expired otp")
)

const otpTTL = 10 * time.Minute

// Mailer delivers one-time codes. Implementations own transport details.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

var validRoles = map[string]bool{
	auth.RoleAdmin: true, auth.RoleStaff: true,
	auth.RoleDoctor: true, auth.RolePatient: true,
}

type Service struct {
	users    UserRepository
	otps     OTPRepository
	mailer   Mailer
	secret   []byte
	tokenTTL time.Duration
}

func NewService(users UserRepository, otps OTPRepository, mailer Mailer, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{users: users, otps: otps, mailer: mailer, secret: secret, tokenTTL: tokenTTL}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if in.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}
	if in.Role == "" {
		in.Role = auth.RolePatient
	}
	if !validRoles[in.Role] {
		return nil, fmt.Errorf("invalid role: %s", in.Role)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		HospitalID:   in.HospitalID,
		DepartmentID: in.DepartmentID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	hospitalID := ""
	if u.HospitalID != nil {
		hospitalID = u.HospitalID.String()
	}
	token, err := auth.Sign(s.secret, u.ID.String(), u.Role, hospitalID, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Token: token, User: u}, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// SendOTP issues a fresh six digit code and mails it to the address.
func (s *Service) SendOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	otp := &OTPRequest{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := s.otps.Create(ctx, otp); err != nil {
		return err
	}
	return s.mailer.SendOTP(ctx, email, code)
}

// VerifyOTP checks the code and consumes every outstanding code for the
// address on success.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	otp, err := s.otps.GetByEmailAndCode(ctx, email, code)
	if err != nil {
		return ErrOTPInvalid
	}
	if time.Now().After(otp.ExpiresAt) {
		return ErrOTPInvalid
	}
	return s.otps.DeleteByEmail(ctx, email)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
