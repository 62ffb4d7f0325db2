package user

import "context"

type Repository interface {
	Create(ctx context.Context, name, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
