package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"parkeoWs/internal/realtime/application/port"
	"parkeoWs/internal/realtime/domain"
	"parkeoWs/internal/shared/auth"
)

type fakeValidator struct {
	claims *auth.Claims
	err    error
}

func (f *fakeValidator) Validate(string) (*auth.Claims, error) {
	return f.claims, f.err
}

type fakeDirectory struct {
	roles map[string]domain.Role
	err   error
	calls int
}

func (f *fakeDirectory) RoleBySubject(_ context.Context, _, subjectID string) (domain.Role, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[subjectID]
	if !ok {
		return "", port.ErrSubjectNotFound
	}
	return role, nil
}

func claimsFor(subject string) *auth.Claims {
	return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: subject}}
}

func TestConnectResolvesRoleFromStore(t *testing.T) {
	// Token says user; the store says admin. The store wins.
	dir := &fakeDirectory{roles: map[string]domain.Role{"u1": domain.RoleAdmin}}
	uc := NewConnectUseCase(&fakeValidator{claims: claimsFor("u1")}, dir)

	sess, err := uc.Execute(context.Background(), "token")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if sess.SubjectID != "u1" || sess.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if dir.calls != 1 {
		t.Fatalf("expected exactly one store lookup, got %d", dir.calls)
	}
}

func TestConnectRejectsInvalidToken(t *testing.T) {
	dir := &fakeDirectory{roles: map[string]domain.Role{"u1": domain.RoleUser}}
	uc := NewConnectUseCase(&fakeValidator{err: auth.ErrInvalidToken}, dir)

	if _, err := uc.Execute(context.Background(), "bad"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if dir.calls != 0 {
		t.Fatal("store consulted despite invalid token")
	}
}

func TestConnectRejectsDeletedSubject(t *testing.T) {
	dir := &fakeDirectory{roles: map[string]domain.Role{}}
	uc := NewConnectUseCase(&fakeValidator{claims: claimsFor("gone")}, dir)

	if _, err := uc.Execute(context.Background(), "token"); !errors.Is(err, port.ErrSubjectNotFound) {
		t.Fatalf("expected ErrSubjectNotFound, got %v", err)
	}
}

func TestConnectRoleIsFixedPerHandshake(t *testing.T) {
	// A promotion in the store only shows up on the next Execute, modeling
	// the reconnect requirement: the session handed to the registry never
	// changes after admission.
	dir := &fakeDirectory{roles: map[string]domain.Role{"u1": domain.RoleUser}}
	uc := NewConnectUseCase(&fakeValidator{claims: claimsFor("u1")}, dir)

	sess, err := uc.Execute(context.Background(), "token")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if sess.Role != domain.RoleUser {
		t.Fatalf("expected user role, got %s", sess.Role)
	}

	dir.roles["u1"] = domain.RoleAdmin

	reconnected, err := uc.Execute(context.Background(), "token")
	if err != nil {
		t.Fatalf("Execute after promotion: %v", err)
	}
	if reconnected.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role after reconnect, got %s", reconnected.Role)
	}
	if sess.Role != domain.RoleUser {
		t.Fatalf("earlier session mutated: %s", sess.Role)
	}
}
