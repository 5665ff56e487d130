package mysql

import (
	"database/sql"
	"strings"

	"github.com/forxynet/DevConnector/internal/errors"
	"github.com/forxynet/DevConnector/internal/model"
	"github.com/forxynet/DevConnector/internal/util"
	"go.uber.org/zap"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.AvatarURL, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return errors.New(errors.ErrUserExists, "username or email already exists")
		}
		util.Logger.Error("创建用户失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "failed to create user", err)
	}

	util.Logger.Info("用户创建成功", zap.String("user_id", user.ID))
	return nil
}

func (r *userRepository) FindByID(id string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(selectUser+` WHERE id = ?`, id))
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(selectUser+` WHERE email = ?`, email))
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(selectUser+` WHERE username = ?`, username))
}

func (r *userRepository) Update(user *model.User) error {
	query := `UPDATE users SET username = ?, email = ?, password_hash = ?, avatar_url = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.Exec(query,
		user.Username, user.Email, user.PasswordHash, user.AvatarURL,
		user.UpdatedAt, user.ID)
	if err != nil {
		util.Logger.Error("更新用户失败", zap.Error(err), zap.String("user_id", user.ID))
		return errors.Wrap(errors.ErrDatabase, "failed to update user", err)
	}
	return nil
}

func (r *userRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除用户失败", zap.Error(err), zap.String("user_id", id))
		return errors.Wrap(errors.ErrDatabase, "failed to delete user", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to delete user", err)
	}
	if affected == 0 {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}

	util.Logger.Info("用户删除成功", zap.String("user_id", id))
	return nil
}

const selectUser = `SELECT id, username, email, password_hash, avatar_url, created_at, updated_at FROM users`

func (r *userRepository) scanUser(row rowScanner) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.AvatarURL, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	return &user, nil
}
