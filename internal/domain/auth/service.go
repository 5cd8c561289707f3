package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/quizhub/quizhub-api/internal/domain/user"
	"github.com/quizhub/quizhub-api/internal/pkg/email"
	"github.com/quizhub/quizhub-api/internal/pkg/jwt"
	"github.com/quizhub/quizhub-api/internal/pkg/password"
)

// signupFreeAccessCount is the promotional free-access grant new accounts start with
const signupFreeAccessCount = 3

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
	redis      *redis.Client // nil if Redis disabled
	email      *email.Service
	appURL     string
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service, redis *redis.Client, emailSvc *email.Service, appURL string) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		redis:      redis,
		email:      emailSvc,
		appURL:     appURL,
	}
}

// Register creates new student account with the signup free-access grant
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.Username = normalizeUsername(req.Username)

	existing, _ := s.userRepo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}
	existing, _ = s.userRepo.GetByUsername(ctx, req.Username)
	if existing != nil {
		return nil, ErrUsernameAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:              uuid.New(),
		Username:        req.Username,
		Email:           req.Email,
		PasswordHash:    hash,
		Role:            user.RoleStudent,
		AccessType:      user.AccessDefault,
		HasFreeAccess:   true,
		FreeAccessCount: signupFreeAccessCount,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		switch err {
		case user.ErrEmailAlreadyExists:
			return nil, ErrEmailAlreadyExists
		case user.ErrUsernameAlreadyExists:
			return nil, ErrUsernameAlreadyExists
		}
		return nil, err
	}

	if s.email != nil {
		s.email.SendWelcome(u.Email, u.Username, u.FreeAccessCount, s.appURL)
	}

	return s.generateTokens(ctx, u)
}

// Login authenticates a user by username
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetByUsername(ctx, normalizeUsername(req.Username))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if u.IsDeleted {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if u.IsBanned {
		return nil, ErrUserBanned
	}

	return s.generateTokens(ctx, u)
}

// Refresh rotates a refresh token and issues a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	if _, err := s.jwtService.ValidateRefreshToken(refreshToken); err != nil {
		return nil, ErrInvalidRefreshToken
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	userID, err := s.getRefreshToken(ctx, refreshHash)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	// Token rotation: the presented token is single-use
	_ = s.deleteRefreshToken(ctx, refreshHash)

	return s.generateTokens(ctx, u)
}

// Logout invalidates a refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	refreshHash := jwt.HashRefreshToken(refreshToken)
	return s.deleteRefreshToken(ctx, refreshHash)
}

// GetCurrentUser returns current user by ID
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	resp := NewUserResponse(u.ID, u.Username, u.Email, string(u.Role), u.FreeAccessCount, u.CreatedAt)
	return &resp, nil
}

// generateTokens creates access and refresh tokens
func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(u.ID, u.Username, string(u.Role), u.IsBanned)
	if err != nil {
		return nil, err
	}

	refreshToken, _, _, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	// Store hash(refresh) in Redis
	refreshHash := jwt.HashRefreshToken(refreshToken)
	if err := s.storeRefreshToken(ctx, refreshHash, u.ID); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: NewUserResponse(u.ID, u.Username, u.Email, string(u.Role), u.FreeAccessCount, u.CreatedAt),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
		},
	}, nil
}

// Redis helpers (handle nil redis gracefully)
func (s *Service) storeRefreshToken(ctx context.Context, token string, userID uuid.UUID) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Set(ctx, "refresh:"+token, userID.String(), s.jwtService.GetRefreshTTL()).Err()
}

func (s *Service) getRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	if s.redis == nil {
		// Without Redis, refresh tokens don't work
		return uuid.Nil, ErrInvalidRefreshToken
	}
	val, err := s.redis.Get(ctx, "refresh:"+token).Result()
	if err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return uuid.Parse(val)
}

func (s *Service) deleteRefreshToken(ctx context.Context, token string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, "refresh:"+token).Err()
}

// UpdatePassword updates user's password
func (s *Service) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}
