package db

import (
	"context"

	"academic/models"
)

func (s *Storage) CreateCriteria(ctx context.Context, c *models.Criteria) error {
	query := `
        INSERT INTO criteria (position_type, name, description, required, min_count)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	err := s.db.QueryRowContext(ctx, query, c.PositionType, c.Name, c.Description, c.Required, c.MinCount).
		Scan(&c.ID)
	return translate(err)
}

func (s *Storage) GetCriteria(ctx context.Context, id int64) (*models.Criteria, error) {
	c := &models.Criteria{}
	query := `SELECT id, position_type, name, description, required, min_count FROM criteria WHERE id=$1`
	if err := s.db.GetContext(ctx, c, query, id); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (s *Storage) ListCriteria(ctx context.Context, positionType *models.Position) ([]models.Criteria, error) {
	var w whereBuilder
	if positionType != nil {
		w.add("position_type = $%d", *positionType)
	}
	query := `SELECT id, position_type, name, description, required, min_count FROM criteria` +
		w.String() + ` ORDER BY position_type, id`

	criteria := []models.Criteria{}
	if err := s.db.SelectContext(ctx, &criteria, query, w.args...); err != nil {
		return nil, translate(err)
	}
	return criteria, nil
}

func (s *Storage) UpdateCriteria(ctx context.Context, c *models.Criteria) error {
	query := `
        UPDATE criteria
        SET name=$1, description=$2, required=$3, min_count=$4
        WHERE id=$5`
	res, err := s.db.ExecContext(ctx, query, c.Name, c.Description, c.Required, c.MinCount, c.ID)
	if err != nil {
		return translate(err)
	}
	return affected(res)
}

func (s *Storage) DeleteCriteria(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "criteria", id)
}
