package services

import (
	"context"

	"github.com/qistas/opsflow_backend/internal/core/domain"
)

// UserSvcFacade authenticates users and resolves their workflow role.
type UserSvcFacade interface {
	// Authenticate verifies the password and returns the user, or
	// apperrors.ErrNotFound / apperrors.ErrValidation on bad credentials.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
