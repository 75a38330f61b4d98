package service

import (
	"context"

	"academic/internal/apperr"
	"academic/internal/auth"
	"academic/models"
)

type ListingService struct {
	base
	listings ListingStore
}

func (s *ListingService) Create(ctx context.Context, actor *models.User, in models.ListingInput) (*models.ListingView, error) {
	if err := auth.Require(actor, auth.AdminOnly...); err != nil {
		return nil, err
	}
	if err := s.check(&in); err != nil {
		return nil, err
	}
	if in.Deadline.Before(in.PublishDate) {
		return nil, apperr.Validation("deadline must not be earlier than publish_date")
	}
	createdBy := actor.ID
	l := &models.Listing{
		Position:     in.Position,
		Department:   in.Department,
		Faculty:      in.Faculty,
		PublishDate:  in.PublishDate,
		Deadline:     in.Deadline,
		Description:  in.Description,
		Requirements: in.Requirements,
		Status:       models.ListingActive,
		CreatedBy:    &createdBy,
	}
	if err := s.listings.CreateListing(ctx, l); err != nil {
		return nil, storeErr(err, "listing not found")
	}
	s.log.Info("listing created", "listing_id", l.ID, "by", actor.ID)
	view := models.NewListingView(*l, 0)
	return &view, nil
}

// List возвращает объявления с количеством заявок, посчитанным при чтении.
func (s *ListingService) List(ctx context.Context, actor *models.User, f models.ListingFilter) ([]models.ListingView, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, apperr.Validation("status must be one of: active expired")
	}
	f.Page = clampPage(f.Page)
	listings, err := s.listings.ListListings(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	ids := make([]int64, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	counts, err := s.listings.CountApplicationsByListing(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	views := make([]models.ListingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, models.NewListingView(l, counts[l.ID]))
	}
	return views, nil
}

func (s *ListingService) Get(ctx context.Context, actor *models.User, id int64) (*models.ListingView, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	l, err := s.listings.GetListing(ctx, id)
	if err != nil {
		return nil, storeErr(err, "listing not found")
	}
	return s.view(ctx, l)
}

// Update применяет частичный патч; итоговый срок не может быть раньше даты публикации.
func (s *ListingService) Update(ctx context.Context, actor *models.User, id int64, patch models.ListingUpdate) (*models.ListingView, error) {
	if err := auth.Require(actor, auth.AdminOnly...); err != nil {
		return nil, err
	}
	if err := s.check(&patch); err != nil {
		return nil, err
	}
	l, err := s.listings.GetListing(ctx, id)
	if err != nil {
		return nil, storeErr(err, "listing not found")
	}
	patch.Apply(l)
	if l.Deadline.Before(l.PublishDate) {
		return nil, apperr.Validation("deadline must not be earlier than publish_date")
	}
	if err := s.listings.UpdateListing(ctx, l); err != nil {
		return nil, storeErr(err, "listing not found")
	}
	return s.view(ctx, l)
}

func (s *ListingService) Delete(ctx context.Context, actor *models.User, id int64) error {
	if err := auth.Require(actor, auth.AdminOnly...); err != nil {
		return err
	}
	if err := s.listings.DeleteListing(ctx, id); err != nil {
		return storeErr(err, "listing not found")
	}
	s.log.Info("listing deleted", "listing_id", id, "by", actor.ID)
	return nil
}

func (s *ListingService) view(ctx context.Context, l *models.Listing) (*models.ListingView, error) {
	counts, err := s.listings.CountApplicationsByListing(ctx, []int64{l.ID})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	view := models.NewListingView(*l, counts[l.ID])
	return &view, nil
}
