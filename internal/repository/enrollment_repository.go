package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/opencampus/timetable-api/internal/models"
)

// EnrollmentRepository reads student enrollment data used to build the
// per-student conflict map.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// StudentLoad returns, per student, the section ids the student is actively
// enrolled in for the term, restricted to the provided sections.
func (r *EnrollmentRepository) StudentLoad(ctx context.Context, termID string, sectionIDs []string) (models.StudentLoad, error) {
	load := models.StudentLoad{}
	if len(sectionIDs) == 0 {
		return load, nil
	}

	const query = `SELECT student_id, section_id FROM section_enrollments
WHERE term_id = $1 AND status = 'ACTIVE' AND section_id = ANY($2)
ORDER BY student_id, section_id`
	rows, err := r.db.QueryxContext(ctx, query, termID, pq.Array(sectionIDs))
	if err != nil {
		return nil, fmt.Errorf("load student enrollments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var studentID, sectionID string
		if err := rows.Scan(&studentID, &sectionID); err != nil {
			return nil, fmt.Errorf("scan student enrollment: %w", err)
		}
		load[studentID] = append(load[studentID], sectionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate student enrollments: %w", err)
	}
	return load, nil
}
