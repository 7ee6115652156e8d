package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	emailService "github.com/monetra/FinanceTracker/internal/email"
	"github.com/monetra/FinanceTracker/internal/user"
	"golang.org/x/crypto/bcrypt"
)

const (
	google2FAAuthMethod = "google_authenticator"
	email2FAAuthMethod  = "email"
	defaultCodeTimeout  = 2
	CodeVerifyType      = "verify"
	Code2FAType         = "2fa"
	CodePassType        = "password"
)

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrInternalError            = errors.New("internal Server Error")
	ErrInvalidTwoFactorMethod   = errors.New("two factor auth method not supported")
	ErrUser2FANotEnabled        = errors.New("two factor auth is not enabled")
	ErrInvalid2FACode           = errors.New("2fa code is invalid")
	ErrUser2FAAlreadyEnabled    = errors.New("2fa auth already enabled")
	ErrInvalidVerificationCode  = errors.New("invalid verification code")
	ErrVerificationCodeExpired  = errors.New("verification code expired")
	ErrUserNotVerified          = errors.New("user has not been verified")
	ErrTooManyEmailCodeRequests = errors.New("too many email code requests")
	InvalidCodeType             = errors.New("invalid code type")
)

type Service interface {
	Login(email, password string) (*user.User, string, string, error)
	VerifyTwoFactor(sessionToken, code string) (*user.User, string, string, error)
	RegisterTwoFactor(userID string, method string) (string, error)
	RefreshAccessToken(userID string) (string, string, error)
	JWTRefreshTokenMiddleware() func(http.Handler) http.Handler
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
	SendEmailCode(user *user.User, codeType string) error
	VerifyTwoFactorCode(userID, method, code string) error
	DisableTwoFactorAuth(userID, method, verificationCode string) error
	RequestEmail2FACode(userID string) error
	ResetPassword(email, code, newPassword string) error
	RequestPasswordReset(email string) error
}

type service struct {
	repo           UserRepository
	userService    user.Service
	sessionManager SessionManagerInterface
	jwtManager     JWTManagerInterface
	emailService   emailService.EmailSender
	authenticator  Authenticator
}

func NewAuthService(repo UserRepository, userService user.Service, sessionManager SessionManagerInterface, jwtManager JWTManagerInterface, emailService emailService.EmailSender, authenticator Authenticator) Service {
	return &service{
		repo:           repo,
		userService:    userService,
		sessionManager: sessionManager,
		jwtManager:     jwtManager,
		emailService:   emailService,
		authenticator:  authenticator,
	}
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

func (s *service) SendEmailCode(user *user.User, codeType string) error {
	_, storedCodeType, _, createdAt, err := s.userService.GetEmailVerificationCode(user.ID)
	if err == nil && storedCodeType != "" {
		timeSinceLastCode := time.Now().UTC().Sub(createdAt.UTC())
		if timeSinceLastCode.Minutes() < defaultCodeTimeout && storedCodeType == codeType {
			return ErrTooManyEmailCodeRequests
		}
	}

	newCode, err := GenerateVerificationCode()
	if err != nil {
		return fmt.Errorf("could not generate verification code: %v", err)
	}

	expirationTime := time.Now().UTC().Add(10 * time.Minute)
	err = s.userService.SaveEmailVerificationCode(user.ID, newCode, expirationTime, codeType)
	if err != nil {
		return fmt.Errorf("could not save verification code: %v", err)
	}

	switch codeType {
	case Code2FAType:
		s.emailService.QueueEmail(user.Email, emailService.TwoFactorCodeData{
			UserName: user.DisplayName(),
			Code:     newCode,
		})
	case CodePassType:
		s.emailService.QueueEmail(user.Email, emailService.ResetPasswordData{
			UserName: user.DisplayName(),
			Code:     newCode,
		})
	case CodeVerifyType:
		s.emailService.QueueEmail(user.Email, emailService.RegistrationConfirmationData{
			UserName: user.DisplayName(),
			Code:     newCode,
		})
	default:
		log.Println("codeType is not supported in email service - email hasn't been sent")
	}

	return nil
}

func (s *service) Login(email, password string) (*user.User, string, string, error) {
	existingUser, err := s.userService.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		log.Println("error when getting user from database:", err)
		return nil, "", "", ErrInternalError
	}

	if !doPasswordsMatch(existingUser.PasswordHash, password) {
		return nil, "", "", ErrInvalidCredentials
	}

	if !existingUser.IsVerified {
		err := s.SendEmailCode(existingUser, CodeVerifyType)
		if err != nil && !errors.Is(err, ErrTooManyEmailCodeRequests) {
			return nil, "", "", ErrInternalError
		}
		return nil, "", "", ErrUserNotVerified
	}

	if existingUser.TwoFactorEnabled {
		switch existingUser.TwoFactorMethod {
		case email2FAAuthMethod:
			err = s.SendEmailCode(existingUser, Code2FAType)
			if err != nil {
				log.Println("Error during sending 2FA email:", err)
				return nil, "", "", ErrInternalError
			}
		case google2FAAuthMethod:
			// authenticator app has the code already
		default:
			return nil, "", "", ErrInvalidTwoFactorMethod
		}
		sessionToken, err := s.sessionManager.GenerateSessionToken(existingUser.ID, defaultSessionTokenDuration)
		if err != nil {
			return nil, "", "", ErrInternalError
		}
		return existingUser, sessionToken, "", nil
	}

	jwtToken, err := s.jwtManager.GenerateAccessJWT(existingUser.ID, defaultJWTDuration)
	if err != nil {
		log.Println("error during JWT generation:", err)
		return nil, "", "", ErrInternalError
	}
	refreshToken, err := s.jwtManager.GenerateRefreshJWT(existingUser.ID, existingUser.HashToken, defaultJWTRefreshDuration)
	if err != nil {
		log.Println("error during refresh token generation:", err)
		return nil, "", "", ErrInternalError
	}

	return existingUser, jwtToken, refreshToken, nil
}

// verifyEmailCode checks the stored email code of the expected type and
// deletes it on success.
func (s *service) verifyEmailCode(userID, expectedType, code string) error {
	storedCode, codeType, expiryTime, _, err := s.userService.GetEmailVerificationCode(userID)
	if err != nil {
		if errors.Is(err, user.ErrNoTwoFactorCodeGenerated) {
			return user.ErrNoTwoFactorCodeGenerated
		}
		return ErrInternalError
	}
	if codeType != expectedType {
		return InvalidCodeType
	}
	if storedCode != code {
		return ErrInvalid2FACode
	}
	if time.Now().UTC().After(expiryTime) {
		return ErrVerificationCodeExpired
	}
	if err := s.userService.DeleteEmailVerificationCode(userID); err != nil {
		return ErrInternalError
	}
	return nil
}

func (s *service) VerifyTwoFactor(sessionToken, code string) (*user.User, string, string, error) {
	userID, err := s.sessionManager.VerifySessionToken(sessionToken)
	if err != nil {
		return nil, "", "", err
	}
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", "", ErrUserNotFound
		}
		return nil, "", "", ErrInternalError
	}
	if !existingUser.TwoFactorEnabled {
		return nil, "", "", ErrUser2FANotEnabled
	}

	switch existingUser.TwoFactorMethod {
	case email2FAAuthMethod:
		if err := s.verifyEmailCode(userID, Code2FAType, code); err != nil {
			return nil, "", "", err
		}
	case google2FAAuthMethod:
		encryptedSecret, err := s.repo.GetTwoFactorSecret(userID)
		if err != nil {
			return nil, "", "", err
		}
		if !s.authenticator.VerifyCode(encryptedSecret, code) {
			return nil, "", "", ErrInvalid2FACode
		}
	default:
		return nil, "", "", ErrInvalidTwoFactorMethod
	}

	s.sessionManager.DeleteSessionToken(sessionToken)

	jwtToken, err := s.jwtManager.GenerateAccessJWT(existingUser.ID, defaultJWTDuration)
	if err != nil {
		return nil, "", "", ErrInternalError
	}
	refreshToken, err := s.jwtManager.GenerateRefreshJWT(existingUser.ID, existingUser.HashToken, defaultJWTRefreshDuration)
	if err != nil {
		return nil, "", "", ErrInternalError
	}

	return existingUser, jwtToken, refreshToken, nil
}

func (s *service) RegisterTwoFactor(userID string, method string) (string, error) {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", ErrInternalError
	}

	if existingUser.TwoFactorEnabled {
		return "", ErrUser2FAAlreadyEnabled
	}

	switch method {
	case email2FAAuthMethod:
		err := s.SendEmailCode(existingUser, Code2FAType)
		if err != nil {
			log.Println("Error during sending 2FA email:", err)
			return "", ErrInternalError
		}
		return "", nil
	case google2FAAuthMethod:
		otpURI, secret, err := s.authenticator.GenerateSecret(existingUser.Email)
		if err != nil {
			return "", ErrInternalError
		}
		err = s.repo.SaveTwoFactorSecret(userID, secret)
		if err != nil {
			return "", ErrInternalError
		}
		return otpURI, nil
	default:
		return "", ErrInvalidTwoFactorMethod
	}
}

func (s *service) RequestEmail2FACode(userID string) error {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}

	if existingUser.TwoFactorMethod != email2FAAuthMethod {
		return ErrInvalidTwoFactorMethod
	}

	err = s.SendEmailCode(existingUser, Code2FAType)
	if err != nil {
		if errors.Is(err, ErrTooManyEmailCodeRequests) {
			return ErrTooManyEmailCodeRequests
		}
		log.Println("Error during sending 2FA email:", err)
		return ErrInternalError
	}
	return nil
}

func (s *service) DisableTwoFactorAuth(userID, method, verificationCode string) error {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}

	if existingUser.TwoFactorMethod != method {
		return ErrInvalidTwoFactorMethod
	}

	switch existingUser.TwoFactorMethod {
	case google2FAAuthMethod:
		secret, err := s.repo.GetTwoFactorSecret(userID)
		if err != nil {
			return ErrInternalError
		}
		if !s.authenticator.VerifyCode(secret, verificationCode) {
			return ErrInvalid2FACode
		}
	case email2FAAuthMethod:
		if err := s.verifyEmailCode(userID, Code2FAType, verificationCode); err != nil {
			return err
		}
	default:
		return ErrInvalidTwoFactorMethod
	}

	err = s.repo.DisableTwoFactor(userID)
	if err != nil {
		return ErrInternalError
	}

	return nil
}

func (s *service) VerifyTwoFactorCode(userID, method, code string) error {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if existingUser.TwoFactorEnabled {
		return ErrUser2FAAlreadyEnabled
	}

	switch method {
	case email2FAAuthMethod:
		if err := s.verifyEmailCode(userID, Code2FAType, code); err != nil {
			return err
		}
	case google2FAAuthMethod:
		secret, err := s.repo.GetTwoFactorSecret(userID)
		if err != nil {
			if errors.Is(err, ErrUser2FANotEnabled) {
				return ErrInvalidTwoFactorMethod
			}
			return ErrInternalError
		}
		if !s.authenticator.VerifyCode(secret, code) {
			return ErrInvalid2FACode
		}
	default:
		return ErrInvalidTwoFactorMethod
	}

	err = s.repo.EnableTwoFactor(userID, method)
	if err != nil {
		return ErrInternalError
	}

	return nil
}

// RefreshAccessToken requests are already checked in refresh token middleware
func (s *service) RefreshAccessToken(userID string) (string, string, error) {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", "", ErrUserNotFound
		}
		return "", "", ErrInternalError
	}
	jwtToken, err := s.jwtManager.GenerateAccessJWT(userID, defaultJWTDuration)
	if err != nil {
		return "", "", ErrInternalError
	}

	newRefreshToken, err := s.jwtManager.GenerateRefreshJWT(userID, existingUser.HashToken, defaultJWTRefreshDuration)
	if err != nil {
		return "", "", ErrInternalError
	}

	return jwtToken, newRefreshToken, nil
}

func (s *service) RequestPasswordReset(email string) error {
	existingUser, err := s.userService.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if existingUser.TwoFactorEnabled && existingUser.TwoFactorMethod == google2FAAuthMethod {
		// the authenticator code doubles as the reset code
		return nil
	}

	codeType := CodePassType
	if existingUser.TwoFactorEnabled && existingUser.TwoFactorMethod == email2FAAuthMethod {
		codeType = Code2FAType
	}

	err = s.SendEmailCode(existingUser, codeType)
	if err != nil {
		if errors.Is(err, ErrTooManyEmailCodeRequests) {
			return ErrTooManyEmailCodeRequests
		}
		log.Println("Error during sending password reset email:", err)
		return ErrInternalError
	}
	return nil
}

func (s *service) ResetPassword(email, verificationCode, newPassword string) error {
	existingUser, err := s.userService.GetUserByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	if existingUser.TwoFactorEnabled {
		switch existingUser.TwoFactorMethod {
		case google2FAAuthMethod:
			secret, err := s.repo.GetTwoFactorSecret(existingUser.ID)
			if err != nil {
				return ErrInternalError
			}
			if !s.authenticator.VerifyCode(secret, verificationCode) {
				return ErrInvalid2FACode
			}
		case email2FAAuthMethod:
			if err := s.verifyEmailCode(existingUser.ID, Code2FAType, verificationCode); err != nil {
				return err
			}
		default:
			return ErrInvalidTwoFactorMethod
		}
	} else {
		if err := s.verifyEmailCode(existingUser.ID, CodePassType, verificationCode); err != nil {
			return err
		}
	}

	err = s.userService.ResetPassword(existingUser.ID, newPassword)
	if err != nil {
		return ErrInternalError
	}
	return nil
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hashedPassword), []byte(currPassword))
	return err == nil
}
