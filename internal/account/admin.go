package account

import (
	"context"
	"fmt"

	"github.com/pliu/moneygram/internal/models"
)

// RequireActive resolves actorID to an existing, active user.
func (s *Service) RequireActive(ctx context.Context, actorID string) (models.User, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	return requireActive(users, actorID)
}

// RequireAdmin resolves actorID to an active user holding the admin role.
func (s *Service) RequireAdmin(ctx context.Context, actorID string) (models.User, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	return requireAdmin(users, actorID)
}

func requireActive(users []models.User, actorID string) (models.User, error) {
	idx := indexByID(users, actorID)
	if actorID == "" || idx < 0 {
		return models.User{}, ErrNotAuthenticated
	}
	if err := checkActive(users[idx]); err != nil {
		return models.User{}, err
	}
	return users[idx].Public(), nil
}

func requireAdmin(users []models.User, actorID string) (models.User, error) {
	actor, err := requireActive(users, actorID)
	if err != nil {
		return models.User{}, err
	}
	if !actor.IsAdmin() {
		return models.User{}, ErrForbidden
	}
	return actor, nil
}

// ListUsers returns every user in registration order.
func (s *Service) ListUsers(ctx context.Context, actorID string) ([]models.User, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := requireAdmin(users, actorID); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// ToggleBan moves a user between active and banned.
func (s *Service) ToggleBan(ctx context.Context, actorID, userID string) (models.User, error) {
	return s.modify(ctx, actorID, userID, func(u *models.User) error {
		switch u.Status {
		case models.StatusActive:
			u.Status = models.StatusBanned
		case models.StatusBanned:
			u.Status = models.StatusActive
		default:
			return fmt.Errorf("%w: cannot ban a %s account", ErrInvalidTransition, u.Status)
		}
		return nil
	})
}

// ToggleFreeze moves a user between active and frozen.
func (s *Service) ToggleFreeze(ctx context.Context, actorID, userID string) (models.User, error) {
	return s.modify(ctx, actorID, userID, func(u *models.User) error {
		switch u.Status {
		case models.StatusActive:
			u.Status = models.StatusFrozen
		case models.StatusFrozen:
			u.Status = models.StatusActive
		default:
			return fmt.Errorf("%w: cannot freeze a %s account", ErrInvalidTransition, u.Status)
		}
		return nil
	})
}

func (s *Service) ToggleAdminRole(ctx context.Context, actorID, userID string) (models.User, error) {
	return s.modify(ctx, actorID, userID, func(u *models.User) error {
		if u.Role == models.RoleAdmin {
			u.Role = models.RoleUser
		} else {
			u.Role = models.RoleAdmin
		}
		return nil
	})
}

func (s *Service) modify(ctx context.Context, actorID, userID string, apply func(*models.User) error) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	if _, err := requireAdmin(users, actorID); err != nil {
		return models.User{}, err
	}
	if userID == actorID {
		return models.User{}, fmt.Errorf("%w: admins cannot change their own account", ErrForbidden)
	}
	idx := indexByID(users, userID)
	if idx < 0 {
		return models.User{}, ErrUserNotFound
	}

	user := users[idx]
	if err := apply(&user); err != nil {
		return models.User{}, err
	}
	users[idx] = user

	if err := s.store.PutUsers(ctx, users); err != nil {
		return models.User{}, err
	}
	if err := s.syncSession(ctx, user); err != nil {
		return models.User{}, err
	}
	return user.Public(), nil
}
