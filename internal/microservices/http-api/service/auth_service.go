package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"yamdb/internal/config"
	"yamdb/internal/mail"
	"yamdb/internal/metrics"
	"yamdb/internal/middleware/auth"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/golang-jwt/jwt/v5"
)

// Mailer queues outgoing mail.
type Mailer interface {
	Dispatch(ctx context.Context, msg mail.Message) error
}

// Claims carried by access tokens.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	RequestCode(ctx context.Context, req dto.CodeRequest) (*dto.CodeResponse, error)
	ExchangeCode(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
	Authenticate(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codeRepo       repository.ConfirmationCodeRepository
	mailer         Mailer
	logger         *slog.Logger
	jwtSecret      string
	accessTokenTTL time.Duration
	codeTTL        time.Duration
	mailFrom       string
}

func NewAuthService(
	userRepo repository.UserRepository,
	codeRepo repository.ConfirmationCodeRepository,
	mailer Mailer,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codeRepo:       codeRepo,
		mailer:         mailer,
		logger:         logger,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
		codeTTL:        cfg.ConfirmationCodeTTL,
		mailFrom:       cfg.MailFrom,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestCode looks up or creates the user for the email and mails a fresh
// confirmation code. The response is the same whether or not the email was known.
func (s *authService) RequestCode(ctx context.Context, req dto.CodeRequest) (*dto.CodeResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.findOrCreate(ctx, email)
	if err != nil {
		return nil, err
	}
	resp := &dto.CodeResponse{Email: email}

	if !user.IsActive {
		s.logger.WarnContext(ctx, "confirmation code requested for inactive user", "user_id", user.ID)
		return resp, nil
	}

	code, err := auth.GenerateCode()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		return nil, err
	}
	// overwriting the stored hash invalidates any earlier code
	if err := s.codeRepo.Save(ctx, user.ID, hash, s.codeTTL); err != nil {
		return nil, err
	}
	metrics.ConfirmationCodesIssued.Inc()

	// delivery is fire-and-forget; the dispatcher logs failures
	_ = s.mailer.Dispatch(ctx, mail.ConfirmationMessage(s.mailFrom, email, code))

	s.logger.InfoContext(ctx, "confirmation code issued", "user_id", user.ID)
	return resp, nil
}

func (s *authService) findOrCreate(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = &models.User{Email: email, Role: models.RoleUser, IsActive: true}
	err = s.userRepo.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		// a concurrent request created it first
		return s.userRepo.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ExchangeCode trades a valid confirmation code for an access token. The code
// is consumed, so a second exchange with it fails.
func (s *authService) ExchangeCode(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("user")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCode
	}

	hash, err := s.codeRepo.Get(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyCode(hash, req.ConfirmationCode); err != nil {
		return nil, ErrInvalidCode
	}
	if err := s.codeRepo.Consume(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// consumed or rotated by a concurrent request
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.WarnContext(ctx, "could not record last login", "user_id", user.ID, "error", err)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	metrics.TokensIssued.Inc()
	return &dto.TokenResponse{Token: token}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}
	if user.Username != nil {
		claims.Username = *user.Username
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}
