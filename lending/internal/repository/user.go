package repository

import (
	"context"

	"github.com/Astemirdum/lending-service/lending/internal/errs"
	"github.com/Astemirdum/lending-service/lending/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var userColumns = []string{"id", "email", "password_hash", "is_staff", "created_at"}

func (r *repository) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("email", "password_hash", "is_staff").
		Values(u.Email, u.PasswordHash, u.IsStaff).
		Suffix("returning id, email, password_hash, is_staff, created_at").
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var created model.User
	if err := sqlx.GetContext(ctx, r.q, &created, query, args...); err != nil {
		return model.User{}, mapErr(err)
	}
	return created, nil
}

func (r *repository) GetUser(ctx context.Context, id int64) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"id": id})
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"email": email})
}

func (r *repository) getUser(ctx context.Context, where sq.Eq) (model.User, error) {
	query, args, err := qb.Select(userColumns...).From(usersTableName).Where(where).Limit(1).ToSql()
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	if err := sqlx.GetContext(ctx, r.q, &u, query, args...); err != nil {
		return model.User{}, mapErr(err)
	}
	return u, nil
}

func (r *repository) SetStaff(ctx context.Context, id int64, isStaff bool) error {
	query, args, err := qb.Update(usersTableName).Set("is_staff", isStaff).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
