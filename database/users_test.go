package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jknair0/beforeeach"
	"golang.org/x/crypto/bcrypt"

	"electionwatch/models"
)

var (
	db   *sql.DB
	mock sqlmock.Sqlmock
)

func setUp() {
	db, mock, _ = sqlmock.New()
}

func tearDown() {
	db.Close()
}

var it = beforeeach.Create(setUp, tearDown)

func userRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "location", "role", "created_at", "updated_at",
	})
	now := time.Now()
	for _, id := range ids {
		rows.AddRow(id, "Ada Observer", id+"@example.org", "555-0100", "Ward 4",
			models.RoleObserver, now, now)
	}
	return rows
}

func TestUserList(t *testing.T) {
	it(func() {
		service := NewUserService(db)

		mock.ExpectQuery("SELECT (.+) FROM users ORDER BY created_at").
			WillReturnRows(userRows("u1", "u2"))

		users, err := service.List(context.Background())
		if err != nil {
			t.Fatalf("List: unexpected error: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("List: expected 2 users, got %d", len(users))
		}
		if users[0].ID != "u1" {
			t.Errorf("List: expected first id u1, got %s", users[0].ID)
		}
	})
}

func TestUserGetByID(t *testing.T) {
	it(func() {
		service := NewUserService(db)

		testCases := []struct {
			name    string
			id      string
			rows    *sqlmock.Rows
			wantErr error
		}{
			{
				name: "Found",
				id:   "u1",
				rows: userRows("u1"),
			},
			{
				name:    "Missing",
				id:      "nope",
				rows:    userRows(),
				wantErr: ErrNotFound,
			},
		}

		for _, testCase := range testCases {
			mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
				WithArgs(testCase.id).
				WillReturnRows(testCase.rows)

			user, err := service.GetByID(context.Background(), testCase.id)
			if !errors.Is(err, testCase.wantErr) {
				t.Errorf("%s: expected error %v, got %v", testCase.name, testCase.wantErr, err)
			}
			if testCase.wantErr == nil && user.ID != testCase.id {
				t.Errorf("%s: expected id %s, got %s", testCase.name, testCase.id, user.ID)
			}
		}
	})
}

func TestUserCreate(t *testing.T) {
	it(func() {
		service := NewUserService(db)

		mock.ExpectExec("INSERT INTO users").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
			WillReturnRows(userRows("created"))

		user, err := service.Create(context.Background(), models.CreateUserRequest{
			Name:     "Ada Observer",
			Email:    "ada@example.org",
			Password: "correct horse",
			Role:     models.RoleObserver,
		})
		if err != nil {
			t.Fatalf("Create: unexpected error: %v", err)
		}
		if user.ID != "created" {
			t.Errorf("Create: expected re-read id, got %s", user.ID)
		}
	})
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	it(func() {
		service := NewUserService(db)

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(errors.New("Error 1062: Duplicate entry 'ada@example.org' for key 'users.email'"))

		_, err := service.Create(context.Background(), models.CreateUserRequest{
			Name:     "Ada Observer",
			Email:    "ada@example.org",
			Password: "correct horse",
		})
		if !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("Create: expected ErrDuplicateEmail, got %v", err)
		}
	})
}

func TestUserDelete(t *testing.T) {
	it(func() {
		service := NewUserService(db)

		testCases := []struct {
			name         string
			rowsAffected int64
			wantErr      error
		}{
			{name: "Deleted", rowsAffected: 1},
			{name: "Missing", rowsAffected: 0, wantErr: ErrNotFound},
		}

		for _, testCase := range testCases {
			mock.ExpectExec("DELETE FROM users WHERE id = ?").
				WithArgs("u1").
				WillReturnResult(sqlmock.NewResult(0, testCase.rowsAffected))

			err := service.Delete(context.Background(), "u1")
			if !errors.Is(err, testCase.wantErr) {
				t.Errorf("%s: expected error %v, got %v", testCase.name, testCase.wantErr, err)
			}
		}
	})
}

func TestVerifyPassword(t *testing.T) {
	it(func() {
		service := NewUserService(db)

		hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
		if err != nil {
			t.Fatal(err)
		}

		credentialRows := func() *sqlmock.Rows {
			return sqlmock.NewRows([]string{"id", "password_hash"}).
				AddRow("u1", string(hash))
		}

		// Right password
		mock.ExpectQuery("SELECT id, password_hash FROM users WHERE email = ?").
			WithArgs("ada@example.org").
			WillReturnRows(credentialRows())
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
			WithArgs("u1").
			WillReturnRows(userRows("u1"))

		user, err := service.VerifyPassword(context.Background(), "ada@example.org", "correct horse")
		if err != nil {
			t.Fatalf("VerifyPassword: unexpected error: %v", err)
		}
		if user.ID != "u1" {
			t.Errorf("VerifyPassword: expected u1, got %s", user.ID)
		}

		// Wrong password
		mock.ExpectQuery("SELECT id, password_hash FROM users WHERE email = ?").
			WithArgs("ada@example.org").
			WillReturnRows(credentialRows())

		if _, err := service.VerifyPassword(context.Background(), "ada@example.org", "wrong"); !errors.Is(err, ErrNotFound) {
			t.Errorf("VerifyPassword: expected ErrNotFound for wrong password, got %v", err)
		}
	})
}
