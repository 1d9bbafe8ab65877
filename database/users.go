package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"electionwatch/models"
)

// UserService handles user document operations.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new user service instance.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, name, email, phone, location, role, created_at, updated_at"

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	var phone, location sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &phone, &location, &u.Role,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Phone = phone.String
	u.Location = location.String
	return &u, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// GetByID returns a single user or ErrNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// GetByEmail returns a single user by email or ErrNotFound.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// Create registers a new user. The password is stored as a bcrypt hash,
// never in clear text.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleCitizen
	}
	id := uuid.NewString()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, phone, location, role)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, req.Name, req.Email, string(hash), req.Phone, req.Location, role)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Update applies a partial user update and returns the updated document.
func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	updates := []string{}
	args := []interface{}{}

	if req.Name != nil {
		updates = append(updates, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Email != nil {
		updates = append(updates, "email = ?")
		args = append(args, *req.Email)
	}
	if req.Phone != nil {
		updates = append(updates, "phone = ?")
		args = append(args, *req.Phone)
	}
	if req.Location != nil {
		updates = append(updates, "location = ?")
		args = append(args, *req.Location)
	}
	if req.Role != nil {
		updates = append(updates, "role = ?")
		args = append(args, *req.Role)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates = append(updates, "password_hash = ?")
		args = append(args, string(hash))
	}

	if len(updates) > 0 {
		args = append(args, id)
		result, err := s.db.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(updates, ", ")+" WHERE id = ?", args...)
		if err != nil {
			if isDuplicateKey(err) {
				return nil, ErrDuplicateEmail
			}
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			// Distinguish a no-op update from a missing document.
			if _, err := s.GetByID(ctx, id); err != nil {
				return nil, err
			}
		}
	}

	return s.GetByID(ctx, id)
}

// Delete removes a user by id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get delete status: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// VerifyPassword checks an email/password pair against the stored hash and
// returns the matching user.
func (s *UserService) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	var id, hash string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, password_hash FROM users WHERE email = ?", email).Scan(&id, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
