package service

import (
	"context"

	"academic/internal/apperr"
	"academic/internal/auth"
	"academic/models"
)

type CriteriaService struct {
	base
	criteria CriteriaStore
}

func (s *CriteriaService) Create(ctx context.Context, actor *models.User, in models.CriteriaInput) (*models.Criteria, error) {
	if err := auth.Require(actor, auth.ManagerOnly...); err != nil {
		return nil, err
	}
	if err := s.check(&in); err != nil {
		return nil, err
	}
	c := &models.Criteria{
		PositionType: in.PositionType,
		Name:         in.Name,
		Description:  in.Description,
		Required:     true,
		MinCount:     1,
	}
	if in.Required != nil {
		c.Required = *in.Required
	}
	if in.MinCount != nil {
		c.MinCount = *in.MinCount
	}
	if err := s.criteria.CreateCriteria(ctx, c); err != nil {
		return nil, storeErr(err, "criterion not found")
	}
	return c, nil
}

func (s *CriteriaService) List(ctx context.Context, actor *models.User, positionType *models.Position) ([]models.Criteria, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	if positionType != nil && !positionType.Valid() {
		return nil, apperr.Validation("position_type must be one of: assistant_professor associate_professor professor")
	}
	criteria, err := s.criteria.ListCriteria(ctx, positionType)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return criteria, nil
}

func (s *CriteriaService) Get(ctx context.Context, actor *models.User, id int64) (*models.Criteria, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	c, err := s.criteria.GetCriteria(ctx, id)
	if err != nil {
		return nil, storeErr(err, "criterion not found")
	}
	return c, nil
}

func (s *CriteriaService) Update(ctx context.Context, actor *models.User, id int64, patch models.CriteriaUpdate) (*models.Criteria, error) {
	if err := auth.Require(actor, auth.ManagerOnly...); err != nil {
		return nil, err
	}
	if err := s.check(&patch); err != nil {
		return nil, err
	}
	c, err := s.criteria.GetCriteria(ctx, id)
	if err != nil {
		return nil, storeErr(err, "criterion not found")
	}
	patch.Apply(c)
	if err := s.criteria.UpdateCriteria(ctx, c); err != nil {
		return nil, storeErr(err, "criterion not found")
	}
	return c, nil
}

func (s *CriteriaService) Delete(ctx context.Context, actor *models.User, id int64) error {
	if err := auth.Require(actor, auth.ManagerOnly...); err != nil {
		return err
	}
	return storeErr(s.criteria.DeleteCriteria(ctx, id), "criterion not found")
}
