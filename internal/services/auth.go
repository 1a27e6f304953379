package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"prepai-backend/internal/models"
	"prepai-backend/internal/repository"
)

const stateTTL = 5 * time.Minute

// AuthService runs the Google OAuth authorization-code flow and binds
// the resulting user to a session. Decks are not scoped to users; the
// session only gates which views the client shows.
type AuthService struct {
	userRepo *repository.UserRepo
	redis    *redis.Client
	sessions *SessionManager
	oauth    *oauth2.Config
}

func NewAuthService(
	userRepo *repository.UserRepo,
	redisClient *redis.Client,
	sessions *SessionManager,
	clientID, clientSecret, backendURL string,
) *AuthService {
	var cfg *oauth2.Config
	if clientID != "" && clientSecret != "" {
		cfg = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  strings.TrimSuffix(backendURL, "/") + "/auth/google/callback",
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		}
	}

	return &AuthService{
		userRepo: userRepo,
		redis:    redisClient,
		sessions: sessions,
		oauth:    cfg,
	}
}

// Configured reports whether Google credentials were provided. The rest
// of the API works without them; only the login routes refuse.
func (s *AuthService) Configured() bool {
	return s.oauth != nil
}

// LoginURL stores a state nonce and returns the Google consent URL.
func (s *AuthService) LoginURL(ctx context.Context) (string, error) {
	if !s.Configured() {
		return "", &InvalidInputError{Message: "Google sign-in is not configured"}
	}

	state, err := generateToken(16)
	if err != nil {
		return "", err
	}

	err = s.redis.Set(ctx, "oauth_state:"+state, "1", stateTTL).Err()
	if err != nil {
		return "", fmt.Errorf("failed to store OAuth state: %w", err)
	}

	return s.oauth.AuthCodeURL(state), nil
}

// HandleCallback validates the state nonce, exchanges the code, fetches
// the Google profile, creates or links the user, and issues a session.
// It returns the signed session cookie value.
func (s *AuthService) HandleCallback(ctx context.Context, state, code string) (string, error) {
	if !s.Configured() {
		return "", &InvalidInputError{Message: "Google sign-in is not configured"}
	}

	// One-shot state check
	deleted, err := s.redis.Del(ctx, "oauth_state:"+state).Result()
	if err != nil {
		return "", fmt.Errorf("failed to check OAuth state: %w", err)
	}
	if state == "" || deleted == 0 {
		return "", &UnauthorizedError{Message: "Invalid OAuth state"}
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", &UnauthorizedError{Message: "Google code exchange failed"}
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return "", err
	}

	user, err := s.upsertUser(ctx, profile)
	if err != nil {
		return "", err
	}

	return s.sessions.Issue(ctx, user.ID)
}

// CurrentUser returns the session-bound user, or an UnauthorizedError
// when the session is missing, expired, or revoked.
func (s *AuthService) CurrentUser(ctx context.Context, cookieValue string) (*models.User, error) {
	userID, err := s.sessions.Resolve(ctx, cookieValue)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "User no longer exists"}
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, cookieValue string) error {
	return s.sessions.Revoke(ctx, cookieValue)
}

type googleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *AuthService) fetchProfile(ctx context.Context, token *oauth2.Token) (*googleProfile, error) {
	client := s.oauth.Client(ctx, token)

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UnauthorizedError{Message: "Google profile request was rejected"}
	}

	profile := &googleProfile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("failed to decode Google profile: %w", err)
	}

	if profile.ID == "" {
		return nil, &UnauthorizedError{Message: "Google profile missing account ID"}
	}
	return profile, nil
}

// upsertUser finds the user by Google ID, then by email (linking the
// Google identity to a pre-existing account), and creates one when
// neither matches.
func (s *AuthService) upsertUser(ctx context.Context, profile *googleProfile) (*models.User, error) {
	user, err := s.userRepo.GetByGoogleID(ctx, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	displayName := profile.Name
	if displayName == "" {
		if at := strings.Index(profile.Email, "@"); at > 0 {
			displayName = profile.Email[:at]
		} else {
			displayName = "User"
		}
	}

	var photo *string
	if profile.Picture != "" {
		photo = &profile.Picture
	}

	if profile.Email != "" {
		user, err = s.userRepo.GetByEmail(ctx, profile.Email)
		if err == nil {
			if err := s.userRepo.LinkGoogle(ctx, user.ID, profile.ID, displayName, photo); err != nil {
				return nil, err
			}
			return s.userRepo.GetByID(ctx, user.ID)
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	user = &models.User{
		GoogleID:    profile.ID,
		DisplayName: displayName,
		Email:       profile.Email,
		Photo:       photo,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
