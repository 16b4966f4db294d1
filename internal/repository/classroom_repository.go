package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/opencampus/timetable-api/internal/models"
)

// ClassroomRepository provides read access to schedulable rooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository creates a new classroom repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// ListActive returns active classrooms ordered by descending capacity.
func (r *ClassroomRepository) ListActive(ctx context.Context) ([]models.Classroom, error) {
	const query = `SELECT id, building_id, capacity, active FROM classrooms WHERE active = TRUE ORDER BY capacity DESC, id ASC`
	var classrooms []models.Classroom
	if err := r.db.SelectContext(ctx, &classrooms, query); err != nil {
		return nil, fmt.Errorf("list active classrooms: %w", err)
	}
	return classrooms, nil
}
