package partner

import (
	"context"

	"github.com/apex/backoffice/internal/domain/shared"
)

// ClientRepository defines persistence operations for clients
type ClientRepository interface {
	shared.Repository[Client]
	FindByCPF(ctx context.Context, cpf string) (*Client, error)
}
