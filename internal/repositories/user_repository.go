package repositories

import (
	"database/sql"

	"billino/internal/config"
	"billino/internal/domain"
	"billino/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

// GetByLogin resolves a user by email or username and returns the
// stored password hash alongside.
func (r UserRepository) GetByLogin(login string) (models.User, string, error) {
	var (
		u    models.User
		hash string
	)
	err := r.db().QueryRow(`
        SELECT id, name, username, email, password_hash, role, status
        FROM users
        WHERE email = ? OR username = ?
    `, login, login).Scan(&u.ID, &u.Name, &u.Username, &u.Email, &hash, &u.Role, &u.Status)
	if err == sql.ErrNoRows {
		return models.User{}, "", domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, "", domain.InternalError{Msg: "query user", Err: err}
	}
	return u, hash, nil
}

func (r UserRepository) Create(name, username, email, passwordHash, role string) (models.User, error) {
	res, err := r.db().Exec(`
        INSERT INTO users (name, username, email, password_hash, role, status)
        VALUES (?, ?, ?, ?, ?, 'active')
    `, name, username, email, passwordHash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return models.User{}, domain.ConflictError{Resource: "user", Msg: "username or email already taken"}
		}
		return models.User{}, domain.InternalError{Msg: "insert user", Err: err}
	}
	id, _ := res.LastInsertId()
	return models.User{ID: id, Name: name, Username: username, Email: email, Role: role, Status: "active"}, nil
}
