package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"smartpersona/internal/auth"
)

type prefixHasher struct{}

func (prefixHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func TestRegister_StoresHashedUserRole(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, prefixHasher{})

	id, err := svc.Register(context.Background(), RegisterRequest{
		Username: " alice ", FirstName: "Alice", LastName: "Liddell", Password: "correct-pw",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.ID != id {
		t.Fatalf("expected id %s, got %s", id, u.ID)
	}
	if u.PasswordHash != "hashed:correct-pw" {
		t.Fatalf("expected hashed password, got %q", u.PasswordHash)
	}
	if u.Role != auth.RoleUser {
		t.Fatalf("expected role user, got %s", u.Role)
	}
}

func TestRegister_RejectsInvalidArgs(t *testing.T) {
	svc := NewService(NewMemoryRepo(), prefixHasher{})

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "", FirstName: "a", LastName: "b", Password: "longenough"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	_, err = svc.Register(context.Background(), RegisterRequest{Username: "bob", FirstName: "a", LastName: "b", Password: "short"})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for short password, got %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := NewService(NewMemoryRepo(), prefixHasher{})
	req := RegisterRequest{Username: "carol", FirstName: "C", LastName: "D", Password: "password1"}

	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestFindCredentialByUsername(t *testing.T) {
	repo := NewMemoryRepo()
	id, err := repo.Create(context.Background(), NewUser{Username: "root", PasswordHash: "h", FirstName: "R", LastName: "T", Role: auth.RoleAdmin})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	svc := NewService(repo, prefixHasher{})

	cred, err := svc.FindCredentialByUsername(context.Background(), "root")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if cred.SubjectID != id.String() || cred.Role != auth.RoleAdmin || cred.PasswordHash != "h" {
		t.Fatalf("unexpected credential: %+v", cred)
	}

	if _, err := svc.FindCredentialByUsername(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRoleMapping(t *testing.T) {
	for _, r := range []auth.Role{auth.RoleUser, auth.RoleUserAndCompany, auth.RoleAdmin} {
		s, err := roleToDB(r)
		if err != nil {
			t.Fatalf("roleToDB(%s): %v", r, err)
		}
		back, err := roleFromDB(s)
		if err != nil || back != r {
			t.Fatalf("roleFromDB(%q) = %s, %v", s, back, err)
		}
	}
	if _, err := roleFromDB("superuser"); err == nil || !strings.Contains(err.Error(), "unknown stored role") {
		t.Fatalf("expected unknown role error, got %v", err)
	}
	if _, err := roleToDB(auth.Role(0)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
