package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JairoProDev/mitube-go/internal/model"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, name, email, password, img, cover_img, subscribers, subscribed_users,
		       description, role, is_verified, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &u.Img, &u.CoverImg,
		&u.Subscribers, &u.SubscribedUsers, &u.Description, &u.Role,
		&u.IsVerified, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID returns a single user by ID.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// FindByName returns a single user by their unique channel name.
func (r *UserRepo) FindByName(ctx context.Context, name string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE name = $1`, name))
}

// Create inserts a new user and returns it with generated fields populated.
// Name and email collisions surface as model.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns, name, email, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, model.ErrDuplicate
		}
		return nil, err
	}
	return u, nil
}

// Update applies the non-nil profile fields and returns the updated user.
// Name and email collisions surface as model.ErrDuplicate.
func (r *UserRepo) Update(ctx context.Context, id string, req *model.UpdateUserRequest) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			img = COALESCE($4, img),
			cover_img = COALESCE($5, cover_img),
			description = COALESCE($6, description),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, req.Name, req.Email, req.Img, req.CoverImg, req.Description))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, model.ErrDuplicate
		}
		return nil, err
	}
	return u, nil
}

// Delete removes a user.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Subscribe records userID following channelID, updating both subscriber
// arrays in one transaction. Adding an ID twice is a no-op.
func (r *UserRepo) Subscribe(ctx context.Context, userID, channelID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET subscribed_users = array_append(subscribed_users, $2), updated_at = NOW()
		WHERE id = $1 AND NOT subscribed_users @> ARRAY[$2]`,
		userID, channelID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		_, err = tx.Exec(ctx, `
			UPDATE users
			SET subscribers = array_append(subscribers, $2), updated_at = NOW()
			WHERE id = $1 AND NOT subscribers @> ARRAY[$2]`,
			channelID, userID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Unsubscribe removes the follow relationship from both arrays.
func (r *UserRepo) Unsubscribe(ctx context.Context, userID, channelID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET subscribed_users = array_remove(subscribed_users, $2), updated_at = NOW()
		WHERE id = $1`, userID, channelID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		UPDATE users
		SET subscribers = array_remove(subscribers, $2), updated_at = NOW()
		WHERE id = $1`, channelID, userID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
