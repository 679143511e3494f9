package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/eduscan-api/internal/dto"
	"github.com/noah-isme/eduscan-api/internal/models"
	appErrors "github.com/noah-isme/eduscan-api/pkg/errors"
)

type studentLookup interface {
	FindStudentByID(id string) (models.Student, bool)
}

// AuthConfig defines configuration for the access gate.
type AuthConfig struct {
	AccessCode        string
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService issues and validates access tokens. Teachers present the
// shared access code, students only their id.
type AuthService struct {
	students  studentLookup
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	codeHash  []byte
	now       func() time.Time
}

// NewAuthService hashes the access code once so it is never compared in plain text.
func NewAuthService(students studentLookup, validate *validator.Validate, logger *zap.Logger, config AuthConfig) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 12 * time.Hour
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(config.AccessCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash access code: %w", err)
	}
	return &AuthService{
		students:  students,
		validator: validate,
		logger:    logger,
		config:    config,
		codeHash:  hash,
		now:       time.Now,
	}, nil
}

// TeacherLogin checks the shared access code.
func (s *AuthService) TeacherLogin(ctx context.Context, req dto.TeacherLoginRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid login payload")
	}
	if bcrypt.CompareHashAndPassword(s.codeHash, []byte(strings.TrimSpace(req.AccessCode))) != nil {
		s.logger.Warn("teacher login rejected")
		return nil, appErrors.Clone(appErrors.ErrInvalidAccess, "access code is incorrect")
	}
	claims := &models.JWTClaims{Role: models.RoleTeacher}
	return s.issue(claims, models.RoleTeacher, nil)
}

// StudentLogin opens the portal for a known student id.
func (s *AuthService) StudentLogin(ctx context.Context, req dto.StudentLoginRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid login payload")
	}
	id := strings.TrimSpace(req.StudentID)
	st, ok := s.students.FindStudentByID(id)
	if !ok {
		return nil, studentNotFound(id)
	}
	claims := &models.JWTClaims{Role: models.RoleStudent, StudentID: st.ID}
	claims.Subject = st.ID
	return s.issue(claims, models.RoleStudent, &st)
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) issue(claims *models.JWTClaims, role models.Role, st *models.Student) (*models.Session, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims.Issuer = s.config.Issuer
	if claims.Subject == "" {
		claims.Subject = string(role)
	}
	claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	claims.IssuedAt = jwt.NewNumericDate(issuedAt)
	claims.NotBefore = jwt.NewNumericDate(issuedAt)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}
	s.logger.Info("session issued", zap.String("role", string(role)), zap.String("subject", claims.Subject))
	return &models.Session{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		ExpiresAt:   expiresAt,
		Role:        role,
		Student:     st,
	}, nil
}
