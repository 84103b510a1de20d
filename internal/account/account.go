// Package account owns user records, the persisted session and the
// active/banned/frozen account state machine.
package account

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/pliu/moneygram/internal/models"
	"github.com/pliu/moneygram/internal/store"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBanned      = errors.New("account is banned")
	ErrAccountFrozen      = errors.New("account is frozen")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrMissingFields      = errors.New("missing required fields")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

var AvatarOptions = []string{"😎", "🚀", "💜", "⚡", "🎮", "🎨", "🌟", "🔥"}

var ColorOptions = []string{
	"linear-gradient(135deg, #9b87f5 0%, #D946EF 100%)",
	"linear-gradient(135deg, #7E69AB 0%, #9b87f5 100%)",
	"linear-gradient(135deg, #1A1F2C 0%, #7E69AB 100%)",
	"linear-gradient(135deg, #D946EF 0%, #9b87f5 100%)",
	"linear-gradient(135deg, #8B5CF6 0%, #D946EF 100%)",
	"linear-gradient(135deg, #6E59A5 0%, #8B5CF6 100%)",
}

const (
	bootstrapID       = "admin"
	bootstrapUsername = "admin"
	bootstrapPassword = "admin"
)

type Options struct {
	// Credentials defaults to Bcrypt.
	Credentials Credentials
	// BootstrapAdmin enables the "admin" username elevation on register and
	// the admin/admin auto-provisioning on login.
	BootstrapAdmin bool
	NewID          func() string
}

type Registration struct {
	Username    string
	Password    string
	DisplayName string
	Avatar      string
	AvatarColor string
}

type Profile struct {
	DisplayName string
	Avatar      string
	AvatarColor string
}

type Service struct {
	mu             sync.Mutex
	store          store.Store
	creds          Credentials
	bootstrapAdmin bool
	newID          func() string
}

func New(s store.Store, opts Options) *Service {
	svc := &Service{
		store:          s,
		creds:          opts.Credentials,
		bootstrapAdmin: opts.BootstrapAdmin,
		newID:          opts.NewID,
	}
	if svc.creds == nil {
		svc.creds = Bcrypt{}
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	return svc
}

func (s *Service) Register(ctx context.Context, reg Registration) (models.User, error) {
	if reg.Username == "" || reg.Password == "" || reg.DisplayName == "" {
		return models.User{}, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	if indexByUsername(users, reg.Username) >= 0 {
		return models.User{}, ErrDuplicateUsername
	}

	hashed, err := s.creds.Hash(reg.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:          s.newID(),
		Username:    reg.Username,
		Password:    hashed,
		DisplayName: reg.DisplayName,
		Avatar:      orDefault(reg.Avatar, AvatarOptions[0]),
		AvatarColor: orDefault(reg.AvatarColor, ColorOptions[0]),
		Role:        models.RoleUser,
		Status:      models.StatusActive,
		Level:       models.LevelNew,
	}
	if s.bootstrapAdmin && reg.Username == bootstrapUsername {
		user.Role = models.RoleAdmin
	}

	if err := s.store.PutUsers(ctx, append(users, user)); err != nil {
		return models.User{}, err
	}
	if err := s.store.PutSession(ctx, user); err != nil {
		return models.User{}, err
	}
	return user.Public(), nil
}

func (s *Service) Login(ctx context.Context, username, password string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return models.User{}, err
	}

	idx := -1
	for i, u := range users {
		if u.Username == username && s.creds.Verify(u.Password, password) {
			idx = i
			break
		}
	}

	var user models.User
	if idx >= 0 {
		user = users[idx]
	} else {
		if !s.canBootstrap(users, username, password) {
			return models.User{}, ErrInvalidCredentials
		}
		user, err = s.bootstrapAdminUser()
		if err != nil {
			return models.User{}, err
		}
		if err := s.store.PutUsers(ctx, append(users, user)); err != nil {
			return models.User{}, err
		}
	}

	if err := checkActive(user); err != nil {
		return models.User{}, err
	}
	if err := s.store.PutSession(ctx, user); err != nil {
		return models.User{}, err
	}
	return user.Public(), nil
}

func (s *Service) canBootstrap(users []models.User, username, password string) bool {
	return s.bootstrapAdmin &&
		username == bootstrapUsername &&
		password == bootstrapPassword &&
		indexByUsername(users, bootstrapUsername) < 0
}

func (s *Service) bootstrapAdminUser() (models.User, error) {
	hashed, err := s.creds.Hash(bootstrapPassword)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		ID:          bootstrapID,
		Username:    bootstrapUsername,
		Password:    hashed,
		DisplayName: "Administrator",
		Avatar:      "👑",
		AvatarColor: ColorOptions[0],
		Role:        models.RoleAdmin,
		Status:      models.StatusActive,
		Level:       models.LevelPremium,
	}, nil
}

// Logout clears the persisted session. Calling it without a session is a no-op.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ClearSession(ctx)
}

// Current returns the persisted session user.
func (s *Service) Current(ctx context.Context) (models.User, error) {
	sess, err := s.store.GetSession(ctx)
	if err != nil {
		return models.User{}, err
	}
	if sess == nil {
		return models.User{}, ErrNotAuthenticated
	}
	return *sess, nil
}

// UpdateProfile changes the presentation fields of the acting user. Empty
// fields keep their current value.
func (s *Service) UpdateProfile(ctx context.Context, actorID string, p Profile) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	idx := indexByID(users, actorID)
	if actorID == "" || idx < 0 {
		return models.User{}, ErrNotAuthenticated
	}
	if err := checkActive(users[idx]); err != nil {
		return models.User{}, err
	}

	user := users[idx]
	user.DisplayName = orDefault(p.DisplayName, user.DisplayName)
	user.Avatar = orDefault(p.Avatar, user.Avatar)
	user.AvatarColor = orDefault(p.AvatarColor, user.AvatarColor)
	users[idx] = user

	if err := s.store.PutUsers(ctx, users); err != nil {
		return models.User{}, err
	}
	if err := s.syncSession(ctx, user); err != nil {
		return models.User{}, err
	}
	return user.Public(), nil
}

// syncSession refreshes the persisted session copy when it belongs to user.
// A session whose user is no longer active is dropped.
func (s *Service) syncSession(ctx context.Context, user models.User) error {
	sess, err := s.store.GetSession(ctx)
	if err != nil || sess == nil || sess.ID != user.ID {
		return err
	}
	if user.Status != models.StatusActive {
		return s.store.ClearSession(ctx)
	}
	return s.store.PutSession(ctx, user)
}

func checkActive(u models.User) error {
	switch u.Status {
	case models.StatusBanned:
		return ErrAccountBanned
	case models.StatusFrozen:
		return ErrAccountFrozen
	}
	return nil
}

func indexByID(users []models.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func indexByUsername(users []models.User, username string) int {
	for i, u := range users {
		if u.Username == username {
			return i
		}
	}
	return -1
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
