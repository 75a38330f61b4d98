package db

import (
	"context"

	"academic/models"

	"github.com/lib/pq"
)

const listingColumns = `id, position, department, faculty, publish_date, deadline, description,
        requirements, status, created_by, created_at, updated_at`

func (s *Storage) CreateListing(ctx context.Context, l *models.Listing) error {
	query := `
        INSERT INTO listings
            (position, department, faculty, publish_date, deadline, description, requirements, status, created_by)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, query,
		l.Position, l.Department, l.Faculty, l.PublishDate, l.Deadline,
		l.Description, l.Requirements, l.Status, l.CreatedBy).
		Scan(&l.ID, &l.CreatedAt)
	return translate(err)
}

func (s *Storage) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	l := &models.Listing{}
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id=$1`
	if err := s.db.GetContext(ctx, l, query, id); err != nil {
		return nil, translate(err)
	}
	return l, nil
}

func (s *Storage) ListListings(ctx context.Context, f models.ListingFilter) ([]models.Listing, error) {
	var w whereBuilder
	if f.Status != nil {
		w.add("status = $%d", *f.Status)
	}
	query := `SELECT ` + listingColumns + ` FROM listings` + w.String() + ` ORDER BY id ASC` + w.page(f.Skip, f.Limit)

	listings := []models.Listing{}
	if err := s.db.SelectContext(ctx, &listings, query, w.args...); err != nil {
		return nil, translate(err)
	}
	return listings, nil
}

func (s *Storage) UpdateListing(ctx context.Context, l *models.Listing) error {
	query := `
        UPDATE listings
        SET position=$1, department=$2, faculty=$3, publish_date=$4, deadline=$5,
            description=$6, requirements=$7, status=$8, updated_at=NOW()
        WHERE id=$9
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		l.Position, l.Department, l.Faculty, l.PublishDate, l.Deadline,
		l.Description, l.Requirements, l.Status, l.ID).
		Scan(&l.UpdatedAt)
	return translate(err)
}

func (s *Storage) DeleteListing(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "listings", id)
}

// CountApplicationsByListing считает заявки по объявлениям на момент запроса.
// Объявления без заявок в результат не попадают.
func (s *Storage) CountApplicationsByListing(ctx context.Context, listingIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(listingIDs))
	if len(listingIDs) == 0 {
		return counts, nil
	}
	query := `
        SELECT listing_id, COUNT(1) AS cnt
        FROM applications
        WHERE listing_id = ANY($1)
        GROUP BY listing_id`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(listingIDs))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var cnt int
		if err := rows.Scan(&id, &cnt); err != nil {
			return nil, err
		}
		counts[id] = cnt
	}
	return counts, rows.Err()
}
