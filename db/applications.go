package db

import (
	"context"

	"academic/models"
)

const applicationColumns = `a.id, a.candidate_id, a.listing_id, a.status, a.apply_date, a.updated_at,
        a.cv_path, a.diploma_path, a.publications_path, a.citations_path, a.conferences_path,
        a.manager_notes`

const applicationDetailQuery = `
        SELECT ` + applicationColumns + `,
            l.position AS listing_position,
            l.department AS listing_department,
            l.faculty AS listing_faculty,
            u.name AS candidate_name
        FROM applications a
        JOIN listings l ON a.listing_id = l.id
        JOIN users u ON a.candidate_id = u.id`

func (s *Storage) CreateApplication(ctx context.Context, a *models.Application) error {
	query := `
        INSERT INTO applications (candidate_id, listing_id, status)
        VALUES ($1, $2, $3)
        RETURNING id, apply_date`
	err := s.db.QueryRowContext(ctx, query, a.CandidateID, a.ListingID, a.Status).
		Scan(&a.ID, &a.ApplyDate)
	return translate(err)
}

func (s *Storage) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	a := &models.Application{}
	query := `SELECT ` + applicationColumns + ` FROM applications a WHERE a.id=$1`
	if err := s.db.GetContext(ctx, a, query, id); err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (s *Storage) FindApplication(ctx context.Context, candidateID, listingID int64) (*models.Application, error) {
	a := &models.Application{}
	query := `SELECT ` + applicationColumns + ` FROM applications a WHERE a.candidate_id=$1 AND a.listing_id=$2`
	if err := s.db.GetContext(ctx, a, query, candidateID, listingID); err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (s *Storage) GetApplicationDetail(ctx context.Context, id int64) (*models.ApplicationDetail, error) {
	d := &models.ApplicationDetail{}
	if err := s.db.GetContext(ctx, d, applicationDetailQuery+` WHERE a.id=$1`, id); err != nil {
		return nil, translate(err)
	}
	return d, nil
}

func (s *Storage) ListApplicationDetails(ctx context.Context, f models.ApplicationFilter) ([]models.ApplicationDetail, error) {
	var w whereBuilder
	if f.Status != nil {
		w.add("a.status = $%d", *f.Status)
	}
	if f.CandidateID != nil {
		w.add("a.candidate_id = $%d", *f.CandidateID)
	}
	query := applicationDetailQuery + w.String() + ` ORDER BY a.id ASC` + w.page(f.Skip, f.Limit)

	details := []models.ApplicationDetail{}
	if err := s.db.SelectContext(ctx, &details, query, w.args...); err != nil {
		return nil, translate(err)
	}
	return details, nil
}

// UpdateApplication перезаписывает изменяемые поля заявки целиком.
func (s *Storage) UpdateApplication(ctx context.Context, a *models.Application) error {
	query := `
        UPDATE applications
        SET status=$1, manager_notes=$2, cv_path=$3, diploma_path=$4, publications_path=$5,
            citations_path=$6, conferences_path=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		a.Status, a.ManagerNotes, a.CVPath, a.DiplomaPath, a.PublicationsPath,
		a.CitationsPath, a.ConferencesPath, a.ID).
		Scan(&a.UpdatedAt)
	return translate(err)
}
