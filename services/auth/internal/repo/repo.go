package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/bookshelf/pkg/store"
	"github.com/Skotchmaster/bookshelf/services/auth/internal/models"
)

const UsersTable = "users"

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

type UserRepo struct {
	Users *store.Table[models.User]
}

func NewUserRepo(backend store.Backend) *UserRepo {
	return &UserRepo{Users: store.NewTable[models.User](backend, UsersTable)}
}

func (r *UserRepo) All(ctx context.Context) ([]models.User, error) {
	return r.Users.Load(ctx)
}

// Create assigns the next id to u and appends it, unless its username or
// email is already used.
func (r *UserRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	err := r.Users.Update(ctx, func(users []models.User) ([]models.User, error) {
		var maxID int64
		for _, existing := range users {
			if existing.Username == u.Username {
				return nil, ErrUsernameTaken
			}
			maxID = max(maxID, existing.ID)
		}
		for _, existing := range users {
			if existing.Email == u.Email {
				return nil, ErrEmailTaken
			}
		}
		u.ID = maxID + 1
		return append(users, u), nil
	})
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.Users.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	users, err := r.Users.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}
