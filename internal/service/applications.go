package service

import (
	"context"
	"errors"
	"io"
	"os"

	"academic/db"
	"academic/internal/apperr"
	"academic/internal/auth"
	"academic/internal/metrics"
	"academic/models"
)

type applicationDeps interface {
	ApplicationStore
	GetListing(ctx context.Context, id int64) (*models.Listing, error)
}

type ApplicationService struct {
	base
	store applicationDeps
	docs  DocumentStore
}

// Create подаёт заявку от имени вызывающего. Порядок проверок: объявление существует,
// оно активно, срок не истёк, повторной заявки нет.
func (s *ApplicationService) Create(ctx context.Context, actor *models.User, in models.ApplicationInput) (*models.Application, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	if err := s.check(&in); err != nil {
		return nil, err
	}
	a, err := s.create(ctx, actor, in.ListingID)
	if err != nil {
		metrics.ObserveApplicationSubmitted(apperr.KindOf(err).String())
		return nil, err
	}
	metrics.ObserveApplicationSubmitted("created")
	s.log.Info("application created", "application_id", a.ID, "listing_id", a.ListingID, "candidate_id", a.CandidateID)
	return a, nil
}

func (s *ApplicationService) create(ctx context.Context, actor *models.User, listingID int64) (*models.Application, error) {
	listing, err := s.store.GetListing(ctx, listingID)
	if err != nil {
		return nil, storeErr(err, "listing not found")
	}
	if listing.Status != models.ListingActive {
		return nil, apperr.InvalidState("listing is not active")
	}
	if !listing.AcceptsApplications(s.now()) {
		return nil, apperr.New(apperr.KindDeadlineExpired, "application deadline has passed")
	}
	_, err = s.store.FindApplication(ctx, actor.ID, listingID)
	if err == nil {
		return nil, apperr.Conflict("you have already applied to this listing")
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	a := &models.Application{
		CandidateID: actor.ID,
		ListingID:   listingID,
		Status:      models.ApplicationPending,
	}
	if err := s.store.CreateApplication(ctx, a); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.KindConflict, "you have already applied to this listing", err)
		}
		return nil, storeErr(err, "listing not found")
	}
	return a, nil
}

// List: кандидат видит только свои заявки, остальные роли видят все.
func (s *ApplicationService) List(ctx context.Context, actor *models.User, f models.ApplicationFilter) ([]models.ApplicationDetail, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, apperr.Validation("status must be one of: pending in_review approved rejected")
	}
	f.CandidateID = nil
	if actor.Role == models.RoleCandidate {
		self := actor.ID
		f.CandidateID = &self
	}
	f.Page = clampPage(f.Page)
	details, err := s.store.ListApplicationDetails(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return details, nil
}

func (s *ApplicationService) Get(ctx context.Context, actor *models.User, id int64) (*models.ApplicationDetail, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	d, err := s.store.GetApplicationDetail(ctx, id)
	if err != nil {
		return nil, storeErr(err, "application not found")
	}
	if actor.Role == models.RoleCandidate && d.CandidateID != actor.ID {
		return nil, apperr.Forbidden("not authorized to view this application")
	}
	return d, nil
}

// Update: кандидат меняет только свою заявку и без поля status; персонал меняет любые поля.
func (s *ApplicationService) Update(ctx context.Context, actor *models.User, id int64, patch models.ApplicationUpdate) (*models.ApplicationDetail, error) {
	if err := auth.Require(actor, models.RoleCandidate, models.RoleAdmin, models.RoleManager); err != nil {
		return nil, err
	}
	a, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, storeErr(err, "application not found")
	}
	if actor.Role == models.RoleCandidate {
		if a.CandidateID != actor.ID {
			return nil, apperr.Forbidden("not authorized to update this application")
		}
		if patch.SetsStatus() {
			return nil, apperr.Forbidden("not authorized to update application status")
		}
	}
	if err := s.check(&patch); err != nil {
		return nil, err
	}
	before := a.Status
	patch.Apply(a)
	if err := s.store.UpdateApplication(ctx, a); err != nil {
		return nil, storeErr(err, "application not found")
	}
	if a.Status != before {
		metrics.ObserveStatusChange(string(a.Status))
	}
	return s.detail(ctx, a.ID)
}

// SetStatus безусловно перезаписывает статус; граф переходов не проверяется.
func (s *ApplicationService) SetStatus(ctx context.Context, actor *models.User, id int64, in models.StatusInput) (*models.ApplicationDetail, error) {
	if err := auth.Require(actor, auth.AdminOrManager...); err != nil {
		return nil, err
	}
	if err := s.check(&in); err != nil {
		return nil, err
	}
	a, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, storeErr(err, "application not found")
	}
	a.Status = in.Status
	if err := s.store.UpdateApplication(ctx, a); err != nil {
		return nil, storeErr(err, "application not found")
	}
	metrics.ObserveStatusChange(string(a.Status))
	s.log.Info("application status set", "application_id", a.ID, "status", a.Status, "by", actor.ID)
	return s.detail(ctx, a.ID)
}

// Document один загружаемый файл.
type Document struct {
	Slot     models.DocumentSlot
	Filename string
	Content  io.Reader
}

// UploadDocuments сохраняет файлы по слотам и записывает пути в заявку.
// Сохранение не атомарно: уже записанные файлы при ошибке не удаляются.
func (s *ApplicationService) UploadDocuments(ctx context.Context, actor *models.User, id int64, docs []Document) (*models.ApplicationDetail, error) {
	if err := auth.Require(actor, models.RoleCandidate, models.RoleAdmin, models.RoleManager); err != nil {
		return nil, err
	}
	a, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, storeErr(err, "application not found")
	}
	if actor.Role == models.RoleCandidate && a.CandidateID != actor.ID {
		return nil, apperr.Forbidden("not authorized to update this application")
	}
	if len(docs) == 0 {
		return nil, apperr.Validation("at least one document is required")
	}
	for _, d := range docs {
		field := a.DocumentPath(d.Slot)
		if field == nil {
			return nil, apperr.Validation("unknown document slot: " + string(d.Slot))
		}
		rel, err := s.docs.Save(d.Slot, d.Filename, d.Content)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		*field = &rel
		metrics.ObserveDocumentStored(string(d.Slot))
	}
	if err := s.store.UpdateApplication(ctx, a); err != nil {
		return nil, storeErr(err, "application not found")
	}
	s.log.Info("application documents stored", "application_id", a.ID, "count", len(docs))
	return s.detail(ctx, a.ID)
}

// OpenDocument открывает документ слота; доступ как на чтение заявки, жюри разрешено.
func (s *ApplicationService) OpenDocument(ctx context.Context, actor *models.User, id int64, slot models.DocumentSlot) (*os.File, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	if !slot.Valid() {
		return nil, apperr.Validation("unknown document slot: " + string(slot))
	}
	a, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, storeErr(err, "application not found")
	}
	if actor.Role == models.RoleCandidate && a.CandidateID != actor.ID {
		return nil, apperr.Forbidden("not authorized to view this application")
	}
	rel := *a.DocumentPath(slot)
	if rel == nil {
		return nil, apperr.NotFound("document not uploaded")
	}
	f, err := s.docs.Open(*rel)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperr.Wrap(apperr.KindNotFound, "document not found", err)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return f, nil
}

func (s *ApplicationService) detail(ctx context.Context, id int64) (*models.ApplicationDetail, error) {
	d, err := s.store.GetApplicationDetail(ctx, id)
	if err != nil {
		return nil, storeErr(err, "application not found")
	}
	return d, nil
}
