package service

import (
	"context"
	"errors"

	"academic/db"
	"academic/internal/apperr"
	"academic/internal/auth"
	"academic/models"
)

type juryDeps interface {
	JuryStore
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, f models.UserFilter) ([]models.User, error)
}

// JuryService ведёт справочник назначений жюри по кафедрам.
// Назначения не ограничивают создание оценок.
type JuryService struct {
	base
	store juryDeps
}

func (s *JuryService) Members(ctx context.Context, actor *models.User, page models.Page) ([]models.JuryMember, error) {
	if err := auth.Require(actor, auth.ManagerOnly...); err != nil {
		return nil, err
	}
	role := models.RoleJury
	users, err := s.store.ListUsers(ctx, models.UserFilter{Role: &role, Page: clampPage(page)})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	members := make([]models.JuryMember, 0, len(users))
	for _, u := range users {
		members = append(members, models.NewJuryMember(u))
	}
	return members, nil
}

func (s *JuryService) Assign(ctx context.Context, actor *models.User, in models.JuryAssignmentInput) (*models.JuryAssignment, error) {
	if err := auth.Require(actor, auth.ManagerOnly...); err != nil {
		return nil, err
	}
	if err := s.check(&in); err != nil {
		return nil, err
	}
	jury, err := s.store.GetUser(ctx, in.JuryMemberID)
	if errors.Is(err, db.ErrNotFound) || (err == nil && jury.Role != models.RoleJury) {
		return nil, apperr.NotFound("jury member not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	ja := &models.JuryAssignment{
		JuryMemberID: in.JuryMemberID,
		Department:   in.Department,
		AssignedBy:   actor.ID,
	}
	if err := s.store.CreateJuryAssignment(ctx, ja); err != nil {
		return nil, storeErr(err, "jury member not found")
	}
	return ja, nil
}

func (s *JuryService) Assignments(ctx context.Context, actor *models.User, f models.JuryAssignmentFilter) ([]models.JuryAssignment, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	f.Page = clampPage(f.Page)
	assignments, err := s.store.ListJuryAssignments(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return assignments, nil
}

func (s *JuryService) Assignment(ctx context.Context, actor *models.User, id int64) (*models.JuryAssignment, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	ja, err := s.store.GetJuryAssignment(ctx, id)
	if err != nil {
		return nil, storeErr(err, "jury assignment not found")
	}
	return ja, nil
}

func (s *JuryService) Unassign(ctx context.Context, actor *models.User, id int64) error {
	if err := auth.Require(actor, auth.ManagerOnly...); err != nil {
		return err
	}
	return storeErr(s.store.DeleteJuryAssignment(ctx, id), "jury assignment not found")
}
