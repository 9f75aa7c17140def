package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type userStore struct {
	db DBTX
}

const userColumns = `id, name, email, avatar_url, created_at, updated_at`

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO users (id, name, email, avatar_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		user.ID, user.Name, user.Email, user.AvatarURL)
	created, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *created
	return nil
}

func (s *userStore) Update(ctx context.Context, user *model.User) error {
	row := s.db.QueryRow(ctx,
		`UPDATE users SET name = $2, email = $3, avatar_url = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		user.ID, user.Name, user.Email, user.AvatarURL)
	updated, err := scanUser(row)
	if err != nil {
		return err
	}
	*user = *updated
	return nil
}

func (s *userStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return mapError(err)
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

type sessionStore struct {
	db DBTX
}

func (s *sessionStore) GetValid(ctx context.Context, id int64) (*model.Session, error) {
	var sess model.Session
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, expires_at, created_at
		 FROM sessions WHERE id = $1 AND expires_at > now()`, id).
		Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &sess, nil
}

func (s *sessionStore) Create(ctx context.Context, session *model.Session) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO sessions (id, user_id, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		session.ID, session.UserID, session.ExpiresAt).
		Scan(&session.CreatedAt)
	return mapError(err)
}

func (s *sessionStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return mapError(err)
}

func (s *sessionStore) DeleteExpired(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	return mapError(err)
}
