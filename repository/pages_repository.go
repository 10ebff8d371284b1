package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"focusly-api/models"

	"github.com/google/uuid"
)

// PagesRepository is the document-store client. Pages live in one table as
// jsonb documents namespaced per user; native pages keep row arrays under
// data, template pages keep their opaque content there.
type PagesRepository struct {
	db *sql.DB
}

func NewPagesRepository(db *sql.DB) *PagesRepository {
	return &PagesRepository{db: db}
}

// PageUpdate lists the document fields a save may touch. Nil fields are left
// untouched in the stored document (merge-write semantics).
type PageUpdate struct {
	Name      *string
	Structure *[]models.Property
	Rows      *[]models.Row
	Content   json.RawMessage
}

const pageColumns = `id, user_id, origin, kind, name, template_name, template_file, structure, data, created_at`

func scanPage(scanner interface{ Scan(...interface{}) error }) (*models.Page, error) {
	page := &models.Page{}
	var templateName, templateFile sql.NullString
	var structureRaw, dataRaw []byte
	err := scanner.Scan(
		&page.ID, &page.UserID, &page.Origin, &page.Kind, &page.Name,
		&templateName, &templateFile, &structureRaw, &dataRaw, &page.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	page.TemplateName = templateName.String
	page.TemplateFile = templateFile.String
	if len(structureRaw) > 0 {
		if err := json.Unmarshal(structureRaw, &page.Structure); err != nil {
			return nil, fmt.Errorf("page %s: decode structure: %w", page.ID, err)
		}
	}
	if len(dataRaw) > 0 {
		if page.Origin == models.OriginTemplate {
			page.Content = json.RawMessage(dataRaw)
		} else if err := json.Unmarshal(dataRaw, &page.Rows); err != nil {
			return nil, fmt.Errorf("page %s: decode rows: %w", page.ID, err)
		}
	}
	if page.Rows == nil && page.Origin == models.OriginNative {
		page.Rows = []models.Row{}
	}
	return page, nil
}

// GetPagesByUser loads native and template pages merged into one collection:
// native pages first, each source ordered by its own createdAt descending.
func (r *PagesRepository) GetPagesByUser(userID int) ([]models.Page, error) {
	rows, err := r.db.Query(`
		SELECT `+pageColumns+`
		FROM pages
		WHERE user_id = $1
		ORDER BY (origin = 'native') DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []models.Page{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *page)
	}
	return result, rows.Err()
}

func (r *PagesRepository) GetPageByID(userID int, pageID string) (*models.Page, error) {
	page, err := scanPage(r.db.QueryRow(`
		SELECT `+pageColumns+`
		FROM pages
		WHERE id = $1 AND user_id = $2
	`, pageID, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// CreatePage persists a new native page with a store-assigned id and the
// default structure for its kind.
func (r *PagesRepository) CreatePage(userID int, kind, name string) (*models.Page, error) {
	structure, err := models.DefaultStructure(kind)
	if err != nil {
		return nil, err
	}
	page := &models.Page{
		ID:        uuid.NewString(),
		UserID:    userID,
		Origin:    models.OriginNative,
		Kind:      kind,
		Name:      name,
		Structure: structure,
		Rows:      []models.Row{},
	}
	structureRaw, err := json.Marshal(page.Structure)
	if err != nil {
		return nil, err
	}
	err = r.db.QueryRow(`
		INSERT INTO pages (id, user_id, origin, kind, name, structure, data)
		VALUES ($1, $2, $3, $4, $5, $6, '[]'::jsonb)
		RETURNING created_at
	`, page.ID, userID, page.Origin, kind, name, structureRaw).Scan(&page.CreatedAt)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// SavePage merge-writes the provided document fields. Writes to the same
// page are last-write-wins with no conflict detection; acceptable for a
// single-user tool and deliberately not strengthened here.
func (r *PagesRepository) SavePage(userID int, pageID string, update PageUpdate) error {
	set := []string{}
	args := []interface{}{pageID, userID}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if update.Name != nil {
		set = append(set, "name = "+arg(*update.Name))
	}
	if update.Structure != nil {
		raw, err := json.Marshal(*update.Structure)
		if err != nil {
			return err
		}
		set = append(set, "structure = "+arg(raw))
	}
	if update.Rows != nil {
		raw, err := json.Marshal(*update.Rows)
		if err != nil {
			return err
		}
		set = append(set, "data = "+arg(raw))
	}
	if update.Content != nil {
		set = append(set, "data = "+arg([]byte(update.Content)))
	}
	if len(set) == 0 {
		return nil
	}
	res, err := r.db.Exec(`
		UPDATE pages SET `+strings.Join(set, ", ")+`
		WHERE id = $1 AND user_id = $2
	`, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PagesRepository) DeletePage(userID int, pageID string) error {
	res, err := r.db.Exec(`
		DELETE FROM pages WHERE id = $1 AND user_id = $2
	`, pageID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ImportTemplatePages writes client-cached template pages and flips the
// migration flag in one transaction, so the one-time import either fully
// lands or not at all.
func (r *PagesRepository) ImportTemplatePages(userID int, pages []models.Page) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, page := range pages {
		id := page.ID
		if id == "" {
			id = uuid.NewString()
		}
		content := page.Content
		if content == nil {
			content = json.RawMessage("{}")
		}
		if _, err := tx.Exec(`
			INSERT INTO pages (id, user_id, origin, kind, name, template_name, template_file, data)
			VALUES ($1, $2, 'template', 'template', $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING
		`, id, userID, page.Name, page.TemplateName, page.TemplateFile, []byte(content)); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`
		UPDATE users SET local_storage_migrated = TRUE WHERE id = $1
	`, userID); err != nil {
		return err
	}
	return tx.Commit()
}
