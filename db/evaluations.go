package db

import (
	"context"

	"academic/models"
)

const evaluationColumns = `e.id, e.application_id, e.jury_member_id, e.report, e.result, e.assigned_date,
        e.completed_date, e.deadline, e.is_completed`

const evaluationRowQuery = `
        SELECT ` + evaluationColumns + `,
            j.name AS jury_name,
            a.candidate_id,
            l.position,
            l.department
        FROM evaluations e
        JOIN users j ON e.jury_member_id = j.id
        JOIN applications a ON e.application_id = a.id
        JOIN listings l ON a.listing_id = l.id`

func (s *Storage) CreateEvaluation(ctx context.Context, e *models.Evaluation) error {
	query := `
        INSERT INTO evaluations (application_id, jury_member_id, deadline, is_completed)
        VALUES ($1, $2, $3, FALSE)
        RETURNING id, assigned_date`
	err := s.db.QueryRowContext(ctx, query, e.ApplicationID, e.JuryMemberID, e.Deadline).
		Scan(&e.ID, &e.AssignedDate)
	return translate(err)
}

func (s *Storage) GetEvaluation(ctx context.Context, id int64) (*models.Evaluation, error) {
	e := &models.Evaluation{}
	query := `SELECT ` + evaluationColumns + ` FROM evaluations e WHERE e.id=$1`
	if err := s.db.GetContext(ctx, e, query, id); err != nil {
		return nil, translate(err)
	}
	return e, nil
}

func (s *Storage) FindEvaluation(ctx context.Context, applicationID, juryMemberID int64) (*models.Evaluation, error) {
	e := &models.Evaluation{}
	query := `SELECT ` + evaluationColumns + ` FROM evaluations e WHERE e.application_id=$1 AND e.jury_member_id=$2`
	if err := s.db.GetContext(ctx, e, query, applicationID, juryMemberID); err != nil {
		return nil, translate(err)
	}
	return e, nil
}

func (s *Storage) GetEvaluationRow(ctx context.Context, id int64) (*models.EvaluationRow, error) {
	row := &models.EvaluationRow{}
	if err := s.db.GetContext(ctx, row, evaluationRowQuery+` WHERE e.id=$1`, id); err != nil {
		return nil, translate(err)
	}
	return row, nil
}

func (s *Storage) ListEvaluationRows(ctx context.Context, f models.EvaluationFilter) ([]models.EvaluationRow, error) {
	var w whereBuilder
	if f.IsCompleted != nil {
		w.add("e.is_completed = $%d", *f.IsCompleted)
	}
	if f.JuryMemberID != nil {
		w.add("e.jury_member_id = $%d", *f.JuryMemberID)
	}
	query := evaluationRowQuery + w.String() + ` ORDER BY e.id ASC` + w.page(f.Skip, f.Limit)

	rows := []models.EvaluationRow{}
	if err := s.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (s *Storage) UpdateEvaluation(ctx context.Context, e *models.Evaluation) error {
	query := `
        UPDATE evaluations
        SET report=$1, result=$2, completed_date=$3, is_completed=$4
        WHERE id=$5`
	res, err := s.db.ExecContext(ctx, query, e.Report, e.Result, e.CompletedDate, e.IsCompleted, e.ID)
	if err != nil {
		return translate(err)
	}
	return affected(res)
}

func (s *Storage) DeleteEvaluation(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "evaluations", id)
}
