package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/opencampus/timetable-api/internal/models"
)

// SectionRepository provides read access to course sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository creates a new section repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// ListForScheduling returns the sections to place for a term, largest demand
// first so the search seeds big sections before small ones.
func (r *SectionRepository) ListForScheduling(ctx context.Context, termID string) ([]models.Section, error) {
	const query = `SELECT id, course_code, title, term_id, required_capacity, COALESCE(instructor_id, '') AS instructor_id, classroom_id
FROM sections WHERE term_id = $1 ORDER BY required_capacity DESC, id ASC`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, termID); err != nil {
		return nil, fmt.Errorf("list sections for scheduling: %w", err)
	}
	return sections, nil
}

// FindByID loads a section by id.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*models.Section, error) {
	const query = `SELECT id, course_code, title, term_id, required_capacity, COALESCE(instructor_id, '') AS instructor_id, classroom_id
FROM sections WHERE id = $1`
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}
