package store

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/NaijaReels/naijareels-go/internal/domain/user"
)

// Storage sentinels the handlers translate into HTTP statuses.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("record already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const userColumns = "id, username, email, phone, role"

func scanUser(row interface{ Scan(...any) error }) (*user.Identity, error) {
	var u user.Identity
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	u.IsStaff = u.Role == user.RoleAdmin
	return &u, nil
}

// CreateUser registers a new customer account.
func (s *Store) CreateUser(reg user.Registration) (*user.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO users (username, email, phone, password_hash) VALUES (?, ?, ?, ?)`,
		reg.Username, reg.Email, reg.Phone, string(hash))
	if err != nil {
		// sqlite reports unique violations as generic errors; the only
		// unique columns here are username and email.
		return nil, fmt.Errorf("username or email taken: %w", ErrDuplicate)
	}

	id, _ := result.LastInsertId()
	return s.UserByID(int(id))
}

// Authenticate checks a username/password pair and returns the account.
func (s *Store) Authenticate(username, password string) (*user.Identity, error) {
	var id int
	var hash string
	err := s.db.QueryRow(`SELECT id, password_hash FROM users WHERE username = ?`, username).
		Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.UserByID(id)
}

// UserByID fetches one account.
func (s *Store) UserByID(id int) (*user.Identity, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// UpdateProfile patches the mutable profile fields of an account.
func (s *Store) UpdateProfile(id int, update user.ProfileUpdate) (*user.Identity, error) {
	_, err := s.db.Exec(
		`UPDATE users SET
			phone = CASE WHEN ? != '' THEN ? ELSE phone END,
			first_name = CASE WHEN ? != '' THEN ? ELSE first_name END,
			last_name = CASE WHEN ? != '' THEN ? ELSE last_name END
		WHERE id = ?`,
		update.Phone, update.Phone,
		update.FirstName, update.FirstName,
		update.LastName, update.LastName,
		id)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.UserByID(id)
}

// ChangePassword verifies the old password and stores the new hash.
func (s *Store) ChangePassword(id int, oldPassword, newPassword string) error {
	var hash string
	err := s.db.QueryRow(`SELECT password_hash FROM users WHERE id = ?`, id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = s.db.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, string(newHash), id)
	if err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}
	return nil
}

// UpdateUserRole sets an account's role.
func (s *Store) UpdateUserRole(id int, role user.Role) (*user.Identity, error) {
	result, err := s.db.Exec(`UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.UserByID(id)
}

// DeleteUser removes an account.
func (s *Store) DeleteUser(id int) error {
	result, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Users returns one page of accounts, optionally filtered by role.
func (s *Store) Users(page, pageSize int, role user.Role) ([]user.Identity, int, error) {
	where, args := "", []any{}
	if role != "" {
		where = " WHERE role = ?"
		args = append(args, role)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := s.db.Query(
		`SELECT `+userColumns+` FROM users`+where+` ORDER BY id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.Identity, 0, pageSize)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, count, rows.Err()
}
