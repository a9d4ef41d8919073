//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"

	"chat-messages/domain/chat"
	"chat-messages/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

// IUserRepository resolves display identities. Identity issuance lives elsewhere.
type IUserRepository interface {
	GetUsers(ctx context.Context, ids ...string) (map[string]chat.User, error)
	SaveUser(ctx context.Context, user chat.User) error
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{db: db}
}

func userKey(userID string) []byte {
	return []byte("user:" + userID)
}

// GetUsers returns the known users among ids. Unknown ids are skipped.
func (r UserRepository) GetUsers(ctx context.Context, ids ...string) (map[string]chat.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	users := make(map[string]chat.User, len(ids))
	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range lo.Uniq(ids) {
			item, err := txn.Get(userKey(id))
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				user, err := decodeUser(val)
				if err != nil {
					return err
				}
				users[id] = user
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Storage(err)
	}
	return users, nil
}

func (r UserRepository) SaveUser(ctx context.Context, user chat.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Storage(r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(user.ID), encodeUser(user))
	}))
}
