package ports

import (
	"context"

	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
