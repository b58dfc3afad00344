package vendorreq

import (
	"context"

	"github.com/vendora/backend/internal/domain/identity"
	"github.com/vendora/backend/internal/domain/notification"
	"github.com/vendora/backend/internal/domain/vendor"
)

// Stores groups the repositories that participate in one approval commit.
// Every repository handed to fn is scoped to the same transaction.
type Stores struct {
	Requests      vendor.Repository
	Users         identity.UserRepository
	Notifications notification.Repository
}

// UnitOfWork executes fn inside a single transaction scope. Any error
// returned by fn rolls back every write performed through the Stores it
// received; a nil return commits them all.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(stores Stores) error) error
}
