package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookingdesk/internal/events"
	"bookingdesk/internal/model"
	"bookingdesk/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthOptions carries the sign-up policy and token settings
type AuthOptions struct {
	// DomainAllowed reports whether an email domain may register; nil allows none
	DomainAllowed   func(domain string) bool
	SuperAdminEmail string
	Secret          []byte
	SessionTTL      time.Duration
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SessionResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Profile   *ProfileResponse `json:"profile"`
}

// AuthService registers identities, provisions their profiles and manages sessions
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*ProfileResponse, error)
	SignIn(ctx context.Context, req SignInRequest) (*SessionResponse, error)
	CurrentSession(ctx context.Context, token string) (*Actor, error)
	SignOut(ctx context.Context, actor Actor) error
}

type authService struct {
	opts       AuthOptions
	tx         repository.TransactionManager
	identities repository.IdentityRepository
	profiles   repository.ProfileRepository
	audit      repository.AuditRepository
	notifier   events.Notifier
	now        func() time.Time
}

func NewAuthService(
	opts AuthOptions,
	tx repository.TransactionManager,
	identities repository.IdentityRepository,
	profiles repository.ProfileRepository,
	audit repository.AuditRepository,
	notifier events.Notifier,
) AuthService {
	return &authService{
		opts:       opts,
		tx:         tx,
		identities: identities,
		profiles:   profiles,
		audit:      audit,
		notifier:   notifier,
		now:        time.Now,
	}
}

// dummyHash is compared against when the email is unknown so both
// sign-in failures cost one bcrypt round
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bookingdesk-unknown-identity"), bcrypt.DefaultCost)

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func emailDomain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return ""
	}
	return email[i+1:]
}

func (s *authService) domainAllowed(email string) bool {
	domain := emailDomain(email)
	return domain != "" && s.opts.DomainAllowed != nil && s.opts.DomainAllowed(domain)
}

// provision derives role and status for a newly registered email
func (s *authService) provision(email string) (role, status string) {
	if s.opts.SuperAdminEmail != "" && email == s.opts.SuperAdminEmail {
		return model.RoleSuperAdmin, model.ProfileStatusActive
	}
	return model.RoleAdmin, model.ProfileStatusPending
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*ProfileResponse, error) {
	if !s.domainAllowed(req.Email) {
		return nil, ErrDomainNotAllowed
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.identities.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", ErrAuth)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, wrapErr("register", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &model.AuthIdentity{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	role, status := s.provision(req.Email)
	profile := &model.UserProfile{
		ID:     identity.ID,
		Email:  req.Email,
		Role:   role,
		Status: status,
	}

	// Identity and profile commit together so no identity is left without a profile
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// A concurrent registration can win between the lookup and this insert
		if err := s.identities.Create(txCtx, identity); errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("email already registered: %w", ErrAuth)
		} else if err != nil {
			return err
		}
		if err := s.profiles.Create(txCtx, profile); err != nil {
			return err
		}
		return writeAudit(txCtx, s.audit, &profile.ID, model.ActionRegisterProfile,
			profile.ID.String(), profile.Email, map[string]interface{}{
				"role":   role,
				"status": status,
			})
	})
	if err != nil {
		return nil, wrapErr("register", err)
	}

	s.notifier.Notify(ctx, events.Event{
		Type:     events.RKProfileRegistered,
		EntityID: profile.ID.String(),
		ActorID:  profile.ID.String(),
		Status:   profile.Status,
		At:       s.now(),
	})

	resp := toProfileResponse(profile)
	return &resp, nil
}

func (s *authService) SignIn(ctx context.Context, req SignInRequest) (*SessionResponse, error) {
	identity, err := s.identities.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return nil, fmt.Errorf("invalid email or password: %w", ErrAuth)
		}
		return nil, wrapErr("sign in", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", ErrAuth)
	}

	now := s.now()
	session := &model.AuthSession{
		ID:         uuid.New(),
		IdentityID: identity.ID,
		ExpiresAt:  now.Add(s.opts.SessionTTL),
	}
	if err := s.identities.DeleteExpiredSessions(ctx, identity.ID, now); err != nil {
		return nil, wrapErr("sign in", err)
	}
	if err := s.identities.CreateSession(ctx, session); err != nil {
		return nil, wrapErr("sign in", err)
	}

	// A missing profile still signs in but grants no dashboard
	var profileResp *ProfileResponse
	role := ""
	if profile, err := s.profiles.FindByID(ctx, identity.ID); err == nil {
		resp := toProfileResponse(profile)
		profileResp = &resp
		role = profile.Role
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, wrapErr("sign in", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID.String(),
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})
	tokenString, err := token.SignedString(s.opts.Secret)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &SessionResponse{
		Token:     tokenString,
		ExpiresAt: session.ExpiresAt,
		Profile:   profileResp,
	}, nil
}

// CurrentSession resolves a token into an Actor. The profile is re-read on
// every call so approval and revocation take effect immediately.
func (s *authService) CurrentSession(ctx context.Context, token string) (*Actor, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.opts.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid token: %w", ErrAuth)
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", ErrAuth)
	}
	identityID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", ErrAuth)
	}

	session, err := s.identities.FindSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("session ended: %w", ErrAuth)
		}
		return nil, wrapErr("current session", err)
	}
	if session.IdentityID != identityID || !session.ExpiresAt.After(s.now()) {
		return nil, fmt.Errorf("session expired: %w", ErrAuth)
	}

	profile, err := s.profiles.FindByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("no profile for identity: %w", ErrAuth)
		}
		return nil, wrapErr("current session", err)
	}

	return actorFromProfile(profile, session.ID), nil
}

func (s *authService) SignOut(ctx context.Context, actor Actor) error {
	if err := s.identities.DeleteSession(ctx, actor.SessionID); err != nil {
		return wrapErr("sign out", err)
	}
	return nil
}
