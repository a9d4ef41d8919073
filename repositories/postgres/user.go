package postgres

import (
	"context"

	"chat-messages/domain/chat"
	"chat-messages/errors"
	"chat-messages/repositories"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

var _ repositories.IUserRepository = UserRepository{}

type userRow struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Picture string `db:"picture"`
	Email   string `db:"email"`
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return UserRepository{db: db}
}

// GetUsers returns the known users among ids. Unknown ids are skipped.
func (r UserRepository) GetUsers(ctx context.Context, ids ...string) (map[string]chat.User, error) {
	users := make(map[string]chat.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var rows []userRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, name, picture, email FROM users WHERE id = ANY($1)`, pq.Array(lo.Uniq(ids)))
	if err != nil {
		return nil, errors.Storage(err)
	}
	for _, row := range rows {
		users[row.ID] = chat.User{ID: row.ID, Name: row.Name, Picture: row.Picture, Email: row.Email}
	}
	return users, nil
}

func (r UserRepository) SaveUser(ctx context.Context, user chat.User) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO users (id, name, picture, email) VALUES (:id, :name, :picture, :email)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, picture = EXCLUDED.picture, email = EXCLUDED.email`,
		userRow{ID: user.ID, Name: user.Name, Picture: user.Picture, Email: user.Email})
	return errors.Storage(err)
}
