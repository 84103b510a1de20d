package account

import (
	"context"
	"errors"
	"testing"

	"github.com/pliu/moneygram/internal/models"
)

func setupAdmin(t *testing.T) (*Service, models.User, models.User) {
	t.Helper()
	svc, _ := newTestService(true)
	admin := register(t, svc, "admin")
	alice := register(t, svc, "alice")
	return svc, admin, alice
}

func TestToggleBanRoundTrip(t *testing.T) {
	svc, admin, alice := setupAdmin(t)
	ctx := context.Background()

	u, err := svc.ToggleBan(ctx, admin.ID, alice.ID)
	if err != nil || u.Status != models.StatusBanned {
		t.Fatalf("Expected banned, got %s (%v)", u.Status, err)
	}
	u, err = svc.ToggleBan(ctx, admin.ID, alice.ID)
	if err != nil || u.Status != models.StatusActive {
		t.Errorf("Expected active after second toggle, got %s (%v)", u.Status, err)
	}
}

func TestToggleFreezeRoundTrip(t *testing.T) {
	svc, admin, alice := setupAdmin(t)
	ctx := context.Background()

	if u, _ := svc.ToggleFreeze(ctx, admin.ID, alice.ID); u.Status != models.StatusFrozen {
		t.Fatalf("Expected frozen, got %s", u.Status)
	}
	if _, err := svc.Login(ctx, "alice", "pass"); !errors.Is(err, ErrAccountFrozen) {
		t.Errorf("Expected ErrAccountFrozen, got %v", err)
	}
	if u, _ := svc.ToggleFreeze(ctx, admin.ID, alice.ID); u.Status != models.StatusActive {
		t.Errorf("Expected active, got %s", u.Status)
	}
}

func TestNoDirectBannedFrozenTransition(t *testing.T) {
	svc, admin, alice := setupAdmin(t)
	ctx := context.Background()

	svc.ToggleBan(ctx, admin.ID, alice.ID)
	if _, err := svc.ToggleFreeze(ctx, admin.ID, alice.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition freezing a banned user, got %v", err)
	}

	svc.ToggleBan(ctx, admin.ID, alice.ID)
	svc.ToggleFreeze(ctx, admin.ID, alice.ID)
	if _, err := svc.ToggleBan(ctx, admin.ID, alice.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected ErrInvalidTransition banning a frozen user, got %v", err)
	}
}

func TestToggleAdminRole(t *testing.T) {
	svc, admin, alice := setupAdmin(t)
	ctx := context.Background()

	u, _ := svc.ToggleAdminRole(ctx, admin.ID, alice.ID)
	if u.Role != models.RoleAdmin {
		t.Fatalf("Expected alice to be admin, got %s", u.Role)
	}
	// alice can now act as admin
	if _, err := svc.ListUsers(ctx, alice.ID); err != nil {
		t.Errorf("Expected promoted user to list users, got %v", err)
	}
	u, _ = svc.ToggleAdminRole(ctx, admin.ID, alice.ID)
	if u.Role != models.RoleUser {
		t.Errorf("Expected alice to be user again, got %s", u.Role)
	}
}

func TestAdminSelfProtection(t *testing.T) {
	svc, admin, _ := setupAdmin(t)
	ctx := context.Background()

	ops := map[string]func(context.Context, string, string) (models.User, error){
		"ban":    svc.ToggleBan,
		"freeze": svc.ToggleFreeze,
		"role":   svc.ToggleAdminRole,
	}
	for name, op := range ops {
		if _, err := op(ctx, admin.ID, admin.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("%s on self: expected ErrForbidden, got %v", name, err)
		}
	}

	users, _ := svc.ListUsers(ctx, admin.ID)
	if users[0].Status != models.StatusActive || users[0].Role != models.RoleAdmin {
		t.Errorf("Expected admin to be unchanged, got %+v", users[0])
	}
}

func TestAdminRequiresRole(t *testing.T) {
	svc, admin, alice := setupAdmin(t)
	ctx := context.Background()

	if _, err := svc.ToggleBan(ctx, alice.ID, admin.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-admin actor, got %v", err)
	}
	if _, err := svc.ToggleBan(ctx, "", alice.ID); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated for missing actor, got %v", err)
	}
	if _, err := svc.ToggleBan(ctx, admin.ID, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.ListUsers(ctx, alice.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden listing users, got %v", err)
	}
}

func TestBanClearsTargetSession(t *testing.T) {
	svc, admin, alice := setupAdmin(t)
	ctx := context.Background()

	// alice registered last so she holds the session
	if sess, _ := svc.Current(ctx); sess.ID != alice.ID {
		t.Fatalf("Expected alice session, got %+v", sess)
	}
	svc.ToggleBan(ctx, admin.ID, alice.ID)
	if _, err := svc.Current(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Expected banned user's session to be cleared, got %v", err)
	}
}

func TestRequireActive(t *testing.T) {
	svc, admin, alice := setupAdmin(t)
	ctx := context.Background()

	if _, err := svc.RequireActive(ctx, alice.ID); err != nil {
		t.Errorf("Expected alice to be active, got %v", err)
	}
	svc.ToggleBan(ctx, admin.ID, alice.ID)
	if _, err := svc.RequireActive(ctx, alice.ID); !errors.Is(err, ErrAccountBanned) {
		t.Errorf("Expected ErrAccountBanned, got %v", err)
	}
	if _, err := svc.RequireAdmin(ctx, admin.ID); err != nil {
		t.Errorf("Expected admin to pass RequireAdmin, got %v", err)
	}
}
