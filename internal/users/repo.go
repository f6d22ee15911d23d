package users

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

type Repo interface {
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	SetRole(ctx context.Context, userID string, role Role) error
	AddXP(ctx context.Context, userID string, delta int) (User, error)
}
