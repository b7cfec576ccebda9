package usecase

import (
	"context"
	"log/slog"

	"parkeoWs/internal/realtime/application/port"
	"parkeoWs/internal/realtime/domain"
	"parkeoWs/internal/shared/auth"
)

// Session is the admission result: the identity a connection runs under for
// its whole lifetime. Role is resolved fresh from the store at connect time
// and never refreshed afterwards; a promoted or demoted subject must
// reconnect to pick up the change.
type Session struct {
	SubjectID string
	Role      domain.Role
	Token     string
}

// ConnectUseCase is the identity verifier: it validates the bearer token and
// cross-checks the subject against the store. Any failure rejects the
// connection attempt before it ever reaches the registry.
type ConnectUseCase struct {
	Validator auth.TokenValidator
	Directory port.SubjectDirectory
}

func NewConnectUseCase(validator auth.TokenValidator, directory port.SubjectDirectory) *ConnectUseCase {
	return &ConnectUseCase{Validator: validator, Directory: directory}
}

func (uc *ConnectUseCase) Execute(ctx context.Context, token string) (*Session, error) {
	claims, err := uc.Validator.Validate(token)
	if err != nil {
		return nil, err
	}

	subjectID := claims.Subject
	// Token role claims may be stale; the store is the authority.
	role, err := uc.Directory.RoleBySubject(ctx, token, subjectID)
	if err != nil {
		slog.Warn("connect: role lookup failed", slog.String("subjectId", subjectID), slog.Any("error", err))
		return nil, err
	}

	slog.Debug("connect: admitted", slog.String("subjectId", subjectID), slog.String("role", string(role)))
	return &Session{SubjectID: subjectID, Role: role, Token: token}, nil
}
