package repository

import (
	"database/sql"

	"focusly-api/models"

	"golang.org/x/crypto/bcrypt"
)

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

func (r *UsersRepository) CreateUser(username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{Username: username, Theme: "dark", Language: "en"}
	err = r.db.QueryRow(`
		INSERT INTO users (username, password_hash, theme, language)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, username, string(hash), user.Theme, user.Language).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)
	return user, nil
}

func (r *UsersRepository) GetUserByUsername(username string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(`
		SELECT id, username, password_hash, theme, language, local_storage_migrated, created_at
		FROM users WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Theme, &user.Language, &user.LocalStorageMigrated, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UsersRepository) GetUserByID(id int) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(`
		SELECT id, username, password_hash, theme, language, local_storage_migrated, created_at
		FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Theme, &user.Language, &user.LocalStorageMigrated, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile patches only the provided profile fields, preserving the rest
// of the document.
func (r *UsersRepository) UpdateProfile(userID int, theme, language *string) error {
	_, err := r.db.Exec(`
		UPDATE users
		SET theme = COALESCE($2, theme),
		    language = COALESCE($3, language)
		WHERE id = $1
	`, userID, theme, language)
	return err
}

// GetDismissedIDs returns the persisted set of suppressed notification ids.
func (r *UsersRepository) GetDismissedIDs(userID int) (map[string]bool, error) {
	rows, err := r.db.Query(`
		SELECT notification_id FROM dismissed_notifications WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	dismissed := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		dismissed[id] = true
	}
	return dismissed, rows.Err()
}

// DismissNotifications adds ids to the suppressed set. Re-dismissing an id is
// a no-op, keeping the operation idempotent for clear-all retries.
func (r *UsersRepository) DismissNotifications(userID int, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, id := range ids {
		if _, err := tx.Exec(`
			INSERT INTO dismissed_notifications (user_id, notification_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, notification_id) DO NOTHING
		`, userID, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}
