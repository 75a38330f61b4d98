package service

import (
	"context"
	"errors"

	"academic/db"
	"academic/internal/apperr"
	"academic/internal/auth"
	"academic/internal/metrics"
	"academic/models"
)

type evaluationDeps interface {
	EvaluationStore
	GetApplication(ctx context.Context, id int64) (*models.Application, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type EvaluationService struct {
	base
	store evaluationDeps
}

func (s *EvaluationService) Create(ctx context.Context, actor *models.User, in models.EvaluationInput) (*models.EvaluationDetail, error) {
	if err := auth.Require(actor, auth.ManagerOnly...); err != nil {
		return nil, err
	}
	if err := s.check(&in); err != nil {
		return nil, err
	}
	if _, err := s.store.GetApplication(ctx, in.ApplicationID); err != nil {
		return nil, storeErr(err, "application not found")
	}
	jury, err := s.store.GetUser(ctx, in.JuryMemberID)
	if errors.Is(err, db.ErrNotFound) || (err == nil && jury.Role != models.RoleJury) {
		return nil, apperr.NotFound("jury member not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	_, err = s.store.FindEvaluation(ctx, in.ApplicationID, in.JuryMemberID)
	if err == nil {
		return nil, apperr.Conflict("evaluation already exists")
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	e := &models.Evaluation{
		ApplicationID: in.ApplicationID,
		JuryMemberID:  in.JuryMemberID,
		Deadline:      in.Deadline,
	}
	if err := s.store.CreateEvaluation(ctx, e); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.KindConflict, "evaluation already exists", err)
		}
		s.log.Error("create evaluation failed", "application_id", in.ApplicationID, "jury_member_id", in.JuryMemberID, "err", err)
		return nil, apperr.Internal(err)
	}
	s.log.Info("evaluation assigned", "evaluation_id", e.ID, "jury_member_id", e.JuryMemberID, "by", actor.ID)
	return s.detail(ctx, e.ID)
}

// List: член жюри видит только свои оценки.
func (s *EvaluationService) List(ctx context.Context, actor *models.User, f models.EvaluationFilter) ([]models.EvaluationDetail, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	f.JuryMemberID = nil
	if actor.Role == models.RoleJury {
		self := actor.ID
		f.JuryMemberID = &self
	}
	f.Page = clampPage(f.Page)
	rows, err := s.store.ListEvaluationRows(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	names := map[int64]string{}
	out := make([]models.EvaluationDetail, 0, len(rows))
	for _, row := range rows {
		name, ok := names[row.CandidateID]
		if !ok {
			name = s.candidateName(ctx, row.CandidateID)
			names[row.CandidateID] = name
		}
		out = append(out, models.NewEvaluationDetail(row, name))
	}
	return out, nil
}

func (s *EvaluationService) Get(ctx context.Context, actor *models.User, id int64) (*models.EvaluationDetail, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	row, err := s.store.GetEvaluationRow(ctx, id)
	if err != nil {
		return nil, storeErr(err, "evaluation not found")
	}
	if actor.Role == models.RoleJury && row.JuryMemberID != actor.ID {
		return nil, apperr.Forbidden("not authorized to view this evaluation")
	}
	d := models.NewEvaluationDetail(*row, s.candidateName(ctx, row.CandidateID))
	return &d, nil
}

// Update доступен назначенному члену жюри и менеджеру. Переход is_completed
// из false в true выставляет completed_date.
func (s *EvaluationService) Update(ctx context.Context, actor *models.User, id int64, patch models.EvaluationUpdate) (*models.EvaluationDetail, error) {
	if err := auth.Require(actor, models.RoleJury, models.RoleManager); err != nil {
		return nil, err
	}
	if err := s.check(&patch); err != nil {
		return nil, err
	}
	e, err := s.store.GetEvaluation(ctx, id)
	if err != nil {
		return nil, storeErr(err, "evaluation not found")
	}
	if actor.Role == models.RoleJury && e.JuryMemberID != actor.ID {
		return nil, apperr.Forbidden("not authorized to update this evaluation")
	}
	wasCompleted := e.IsCompleted
	patch.Apply(e, s.now())
	if err := s.store.UpdateEvaluation(ctx, e); err != nil {
		return nil, storeErr(err, "evaluation not found")
	}
	if !wasCompleted && e.IsCompleted {
		metrics.ObserveEvaluationCompleted()
	}
	return s.detail(ctx, e.ID)
}

func (s *EvaluationService) Delete(ctx context.Context, actor *models.User, id int64) error {
	if err := auth.Require(actor, auth.ManagerOnly...); err != nil {
		return err
	}
	if err := s.store.DeleteEvaluation(ctx, id); err != nil {
		return storeErr(err, "evaluation not found")
	}
	s.log.Info("evaluation deleted", "evaluation_id", id, "by", actor.ID)
	return nil
}

func (s *EvaluationService) detail(ctx context.Context, id int64) (*models.EvaluationDetail, error) {
	row, err := s.store.GetEvaluationRow(ctx, id)
	if err != nil {
		return nil, storeErr(err, "evaluation not found")
	}
	d := models.NewEvaluationDetail(*row, s.candidateName(ctx, row.CandidateID))
	return &d, nil
}

// candidateName догружает имя кандидата; при ошибке возвращается пустая строка.
func (s *EvaluationService) candidateName(ctx context.Context, id int64) string {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			s.log.Warn("candidate lookup failed", "candidate_id", id, "err", err)
		}
		return ""
	}
	return u.Name
}
