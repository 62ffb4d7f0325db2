package item

import "context"

type Repository interface {
	Create(ctx context.Context, ownerID int64, name, description string, available bool) (*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
}
