package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/duskrunner/vibemix/internal/models"
	"github.com/duskrunner/vibemix/internal/shared"
)

// UserRepository implements [models.Repository] for [models.User] persistence.
//
// Users exist to own saved playlists; identity resolution is a bearer-token
// lookup via [UserRepository.GetByToken].
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database with generated ID and sequence
func (r *UserRepository) Create(user *models.User) error {
	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	user.SetID(shared.GenerateID())
	user.SetSequence(sequence)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO users (id, sequence, email, name, api_token, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, user.ID(), user.Sequence(), user.Email(), user.Name(), user.APIToken(), user.CreatedAt(), user.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID, excluding soft-deleted users
func (r *UserRepository) Get(id string) (*models.User, error) {
	return r.getWhere("id = ?", id)
}

// GetByToken retrieves a user by API token, excluding soft-deleted users.
func (r *UserRepository) GetByToken(token string) (*models.User, error) {
	if token == "" {
		return nil, shared.ErrUserNotFound
	}
	return r.getWhere("api_token = ?", token)
}

func (r *UserRepository) getWhere(clause string, arg any) (*models.User, error) {
	query := `
		SELECT id, sequence, email, name, api_token, created_at, updated_at, deleted_at
		FROM users
		WHERE ` + clause + ` AND deleted_at IS NULL
	`

	var (
		userID    string
		sequence  int
		email     string
		name      string
		apiToken  string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := r.db.QueryRow(query, arg).Scan(&userID, &sequence, &email, &name, &apiToken, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user := models.NewUser(sequence, email, name, apiToken)
	user.SetID(userID)
	user.SetCreatedAt(createdAt)
	user.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		user.SetDeletedAt(&deletedAt.Time)
	}

	return user, nil
}

// Update modifies an existing user in the database
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	user.SetUpdatedAt(now)

	result, err := r.db.Exec(`
		UPDATE users
		SET email = ?, name = ?, api_token = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, user.Email(), user.Name(), user.APIToken(), now, user.ID())
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, user.ID())
	}

	return nil
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(id string) error {
	result, err := r.db.Exec(`
		UPDATE users
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, id)
	}

	return nil
}

// List retrieves all users matching the given criteria, excluding soft-deleted users
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `
		SELECT id, sequence, email, name, api_token, created_at, updated_at, deleted_at
		FROM users
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var (
			userID    string
			sequence  int
			email     string
			name      string
			apiToken  string
			createdAt time.Time
			updatedAt time.Time
			deletedAt sql.NullTime
		)

		if err := rows.Scan(&userID, &sequence, &email, &name, &apiToken, &createdAt, &updatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		user := models.NewUser(sequence, email, name, apiToken)
		user.SetID(userID)
		user.SetCreatedAt(createdAt)
		user.SetUpdatedAt(updatedAt)
		if deletedAt.Valid {
			user.SetDeletedAt(&deletedAt.Time)
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}
