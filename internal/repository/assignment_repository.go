package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/opencampus/timetable-api/internal/models"
)

// AssignmentRepository persists committed timetable placements.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ReplaceForTerm atomically swaps the stored placements for the given
// sections: prior rows for those sections are removed, the new placements are
// inserted, and each section's home classroom is updated to match.
func (r *AssignmentRepository) ReplaceForTerm(ctx context.Context, termID string, assignments []models.SectionAssignment) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignment replace: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	sectionIDs := make([]string, len(assignments))
	for i := range assignments {
		sectionIDs[i] = assignments[i].SectionID
	}

	const deleteQuery = `DELETE FROM section_assignments WHERE term_id = $1 AND section_id = ANY($2)`
	if _, err = tx.ExecContext(ctx, deleteQuery, termID, pq.Array(sectionIDs)); err != nil {
		return fmt.Errorf("clear prior assignments: %w", err)
	}

	const insertQuery = `INSERT INTO section_assignments (id, term_id, section_id, classroom_id, day_of_week, time_slot_id, created_at)
VALUES (:id, :term_id, :section_id, :classroom_id, :day_of_week, :time_slot_id, :created_at)`
	now := time.Now().UTC()
	for i := range assignments {
		if assignments[i].ID == "" {
			assignments[i].ID = uuid.NewString()
		}
		if assignments[i].CreatedAt.IsZero() {
			assignments[i].CreatedAt = now
		}
		assignments[i].TermID = termID
		if _, err = tx.NamedExecContext(ctx, insertQuery, assignments[i]); err != nil {
			return fmt.Errorf("insert assignment for section %s: %w", assignments[i].SectionID, err)
		}
	}

	const updateQuery = `UPDATE sections SET classroom_id = $2 WHERE id = $1`
	for i := range assignments {
		if _, err = tx.ExecContext(ctx, updateQuery, assignments[i].SectionID, assignments[i].ClassroomID); err != nil {
			return fmt.Errorf("update section classroom for %s: %w", assignments[i].SectionID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit assignment replace: %w", err)
	}
	return nil
}

// ListByTerm returns the stored placements for a term in a stable order.
func (r *AssignmentRepository) ListByTerm(ctx context.Context, termID string) ([]models.SectionAssignment, error) {
	const query = `SELECT id, term_id, section_id, classroom_id, day_of_week, time_slot_id, created_at
FROM section_assignments WHERE term_id = $1 ORDER BY day_of_week ASC, time_slot_id ASC, classroom_id ASC`
	var assignments []models.SectionAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, termID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// DeleteByTerm removes all placements for a term.
func (r *AssignmentRepository) DeleteByTerm(ctx context.Context, termID string) error {
	const query = `DELETE FROM section_assignments WHERE term_id = $1`
	if _, err := r.db.ExecContext(ctx, query, termID); err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}
	return nil
}
