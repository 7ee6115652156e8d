package user

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	emailService "github.com/monetra/FinanceTracker/internal/email"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxEmailLength     = 254
	minEmailLength     = 3
	minPasswordLength  = 8
	bcryptCost         = 12
	defaultCodeTimeout = 2
	CodeVerifyType     = "verify"
)

var (
	ErrInvalidEmail             = errors.New("email address is not valid")
	ErrEmailLength              = fmt.Errorf("email address must be between %d and %d characters", minEmailLength, maxEmailLength)
	ErrPasswordTooShort         = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrEmailAlreadyExists       = errors.New("email already exists")
	ErrInternalError            = errors.New("internal Server Error")
	ErrUserAlreadyVerified      = errors.New("user already verified")
	ErrInvalidVerificationCode  = errors.New("invalid verification code")
	ErrVerificationCodeExpired  = errors.New("verification code expired")
	ErrTooManyEmailCodeRequests = errors.New("too many email code requests")
	ErrInvalidOldPassword       = errors.New("invalid old password")
)

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	IsVerified       bool      `json:"is_verified"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	TwoFactorMethod  string    `json:"two_factor_method"`
	HashToken        string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DisplayName is what outgoing emails address the user by.
func (u *User) DisplayName() string {
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

type Service interface {
	Register(email, password string) (*User, error)
	VerifyRegistrationCode(email, code string) error
	ResendVerificationCode(email string) error
	GetUserByID(userID string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	SaveEmailVerificationCode(userID string, code string, expiresAt time.Time, codeType string) error
	GetEmailVerificationCode(userID string) (string, string, time.Time, time.Time, error)
	DeleteEmailVerificationCode(userID string) error
	ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error
	ResetPassword(userID, newPassword string) error
}

type service struct {
	repo         Repository
	emailService emailService.EmailSender
}

func NewUserService(repo Repository, emailService emailService.EmailSender) Service {
	return &service{
		repo:         repo,
		emailService: emailService,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func GenerateVerificationCode() (string, error) {
	code := make([]byte, 6)
	_, err := rand.Read(code)
	if err != nil {
		return "", fmt.Errorf("could not generate verification code: %v", err)
	}
	for i := range code {
		code[i] = '0' + (code[i] % 10)
	}

	return string(code), nil
}

func generateHashToken() (string, error) {
	token := make([]byte, 32)
	_, err := rand.Read(token)
	if err != nil {
		return "", fmt.Errorf("could not generate hash token: %v", err)
	}
	return hex.EncodeToString(token), nil
}

func validateEmailAddress(email string) error {
	err := checkmail.ValidateFormat(email)
	if err != nil {
		log.Println("Email format check failed:", err)
		return ErrInvalidEmail
	}

	err = checkmail.ValidateHost(email)
	if err != nil {
		if !strings.Contains(err.Error(), "timeout") {
			log.Println("Email host check failed:", err)
			return ErrInvalidEmail
		}
		log.Println("Email host check timed out, continuing without it")
	}
	if len(email) > maxEmailLength || len(email) <= minEmailLength {
		return ErrEmailLength
	}
	return nil
}

func (s *service) Register(email, password string) (*User, error) {
	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	_, err := s.repo.getUserByEmail(email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		log.Println("Error checking for existing user:", err)
		return nil, ErrInternalError
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		log.Println("Error hashing password:", err)
		return nil, ErrInternalError
	}

	hashToken, err := generateHashToken()
	if err != nil {
		log.Println("Error generating hash token:", err)
		return nil, ErrInternalError
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		HashToken:    hashToken,
	}

	if err := s.repo.createUser(user); err != nil {
		log.Println("Error creating user:", err)
		return nil, ErrInternalError
	}

	if err := s.sendVerificationCode(user); err != nil {
		log.Println("Error sending verification email:", err)
		return nil, ErrInternalError
	}

	return user, nil
}

func (s *service) sendVerificationCode(user *User) error {
	newCode, err := GenerateVerificationCode()
	if err != nil {
		return fmt.Errorf("could not generate verification code: %v", err)
	}

	expirationTime := time.Now().UTC().Add(10 * time.Minute)
	err = s.repo.saveEmailVerificationCode(user.ID, newCode, expirationTime, CodeVerifyType)
	if err != nil {
		return fmt.Errorf("could not save verification code: %v", err)
	}

	s.emailService.QueueEmail(user.Email, emailService.RegistrationConfirmationData{
		UserName: user.DisplayName(),
		Code:     newCode,
	})

	return nil
}

func (s *service) VerifyRegistrationCode(email, code string) error {
	user, err := s.repo.getUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if user.IsVerified {
		return ErrUserAlreadyVerified
	}

	storedCode, codeType, expiryTime, _, err := s.repo.getEmailVerificationCode(user.ID)
	if err != nil {
		return ErrInvalidVerificationCode
	}

	if codeType != CodeVerifyType || storedCode != code {
		return ErrInvalidVerificationCode
	}

	if time.Now().UTC().After(expiryTime) {
		return ErrVerificationCodeExpired
	}

	if err := s.repo.updateEmailVerified(user.ID, true); err != nil {
		log.Println("Error updating verification status:", err)
		return ErrInternalError
	}

	_ = s.repo.deleteEmailVerificationCode(user.ID)
	return nil
}

// ResendVerificationCode replaces the pending code, rate limited so repeated
// requests cannot flood a mailbox.
func (s *service) ResendVerificationCode(email string) error {
	user, err := s.repo.getUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if user.IsVerified {
		return ErrUserAlreadyVerified
	}

	_, _, _, createdAt, err := s.repo.getEmailVerificationCode(user.ID)
	if err == nil {
		timeSinceLastCode := time.Now().UTC().Sub(createdAt.UTC())
		if timeSinceLastCode.Minutes() < defaultCodeTimeout {
			return ErrTooManyEmailCodeRequests
		}
	} else if !errors.Is(err, ErrNoTwoFactorCodeGenerated) {
		return ErrInternalError
	}

	return s.sendVerificationCode(user)
}

func (s *service) ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !doPasswordsMatch(user.PasswordHash, oldPassword) {
		return ErrInvalidOldPassword
	}

	return s.changePassword(userID, newPassword)
}

// changePassword rotates the hash token as well, which invalidates every
// refresh token issued before the change.
func (s *service) changePassword(userID, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	newPasswordHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("could not hash password: %v", err)
	}

	newHashToken, err := generateHashToken()
	if err != nil {
		return fmt.Errorf("could not generate hash token: %v", err)
	}

	err = s.repo.updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken)
	if err != nil {
		return fmt.Errorf("could not update user password: %v", err)
	}

	return nil
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

func (s *service) GetUserByID(userID string) (*User, error) {
	return s.repo.getUserByID(userID)
}

func (s *service) GetUserByEmail(email string) (*User, error) {
	return s.repo.getUserByEmail(email)
}

func (s *service) SaveEmailVerificationCode(userID string, code string, expiresAt time.Time, codeType string) error {
	return s.repo.saveEmailVerificationCode(userID, code, expiresAt, codeType)
}

func (s *service) GetEmailVerificationCode(userID string) (string, string, time.Time, time.Time, error) {
	return s.repo.getEmailVerificationCode(userID)
}

func (s *service) DeleteEmailVerificationCode(userID string) error {
	return s.repo.deleteEmailVerificationCode(userID)
}

func (s *service) ResetPassword(userID, newPassword string) error {
	return s.changePassword(userID, newPassword)
}
