package db

import (
	"context"

	"academic/models"
)

func (s *Storage) CreateJuryAssignment(ctx context.Context, ja *models.JuryAssignment) error {
	query := `
        INSERT INTO jury_assignments (jury_member_id, department, assigned_by)
        VALUES ($1, $2, $3)
        RETURNING id, assigned_date`
	err := s.db.QueryRowContext(ctx, query, ja.JuryMemberID, ja.Department, ja.AssignedBy).
		Scan(&ja.ID, &ja.AssignedDate)
	return translate(err)
}

func (s *Storage) GetJuryAssignment(ctx context.Context, id int64) (*models.JuryAssignment, error) {
	ja := &models.JuryAssignment{}
	query := `SELECT id, jury_member_id, department, assigned_by, assigned_date FROM jury_assignments WHERE id=$1`
	if err := s.db.GetContext(ctx, ja, query, id); err != nil {
		return nil, translate(err)
	}
	return ja, nil
}

func (s *Storage) ListJuryAssignments(ctx context.Context, f models.JuryAssignmentFilter) ([]models.JuryAssignment, error) {
	var w whereBuilder
	if f.Department != nil {
		w.add("department = $%d", *f.Department)
	}
	query := `SELECT id, jury_member_id, department, assigned_by, assigned_date FROM jury_assignments` +
		w.String() + ` ORDER BY id ASC` + w.page(f.Skip, f.Limit)

	assignments := []models.JuryAssignment{}
	if err := s.db.SelectContext(ctx, &assignments, query, w.args...); err != nil {
		return nil, translate(err)
	}
	return assignments, nil
}

func (s *Storage) DeleteJuryAssignment(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "jury_assignments", id)
}
