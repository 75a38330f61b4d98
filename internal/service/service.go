// Package service содержит правила доступа и бизнес-логику по сущностям.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"academic/db"
	"academic/internal/apperr"
	"academic/internal/auth"
	"academic/models"

	"github.com/go-playground/validator/v10"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByNationalID(ctx context.Context, nationalID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, f models.UserFilter) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type ListingStore interface {
	CreateListing(ctx context.Context, l *models.Listing) error
	GetListing(ctx context.Context, id int64) (*models.Listing, error)
	ListListings(ctx context.Context, f models.ListingFilter) ([]models.Listing, error)
	UpdateListing(ctx context.Context, l *models.Listing) error
	DeleteListing(ctx context.Context, id int64) error
	CountApplicationsByListing(ctx context.Context, listingIDs []int64) (map[int64]int, error)
}

type ApplicationStore interface {
	CreateApplication(ctx context.Context, a *models.Application) error
	GetApplication(ctx context.Context, id int64) (*models.Application, error)
	FindApplication(ctx context.Context, candidateID, listingID int64) (*models.Application, error)
	GetApplicationDetail(ctx context.Context, id int64) (*models.ApplicationDetail, error)
	ListApplicationDetails(ctx context.Context, f models.ApplicationFilter) ([]models.ApplicationDetail, error)
	UpdateApplication(ctx context.Context, a *models.Application) error
}

type EvaluationStore interface {
	CreateEvaluation(ctx context.Context, e *models.Evaluation) error
	GetEvaluation(ctx context.Context, id int64) (*models.Evaluation, error)
	FindEvaluation(ctx context.Context, applicationID, juryMemberID int64) (*models.Evaluation, error)
	GetEvaluationRow(ctx context.Context, id int64) (*models.EvaluationRow, error)
	ListEvaluationRows(ctx context.Context, f models.EvaluationFilter) ([]models.EvaluationRow, error)
	UpdateEvaluation(ctx context.Context, e *models.Evaluation) error
	DeleteEvaluation(ctx context.Context, id int64) error
}

type CriteriaStore interface {
	CreateCriteria(ctx context.Context, c *models.Criteria) error
	GetCriteria(ctx context.Context, id int64) (*models.Criteria, error)
	ListCriteria(ctx context.Context, positionType *models.Position) ([]models.Criteria, error)
	UpdateCriteria(ctx context.Context, c *models.Criteria) error
	DeleteCriteria(ctx context.Context, id int64) error
}

type JuryStore interface {
	CreateJuryAssignment(ctx context.Context, ja *models.JuryAssignment) error
	GetJuryAssignment(ctx context.Context, id int64) (*models.JuryAssignment, error)
	ListJuryAssignments(ctx context.Context, f models.JuryAssignmentFilter) ([]models.JuryAssignment, error)
	DeleteJuryAssignment(ctx context.Context, id int64) error
}

// Store объединяет все хранилища; реализуется db.Storage и testutils.MemStore.
type Store interface {
	UserStore
	ListingStore
	ApplicationStore
	EvaluationStore
	CriteriaStore
	JuryStore
	Ping(ctx context.Context) error
}

var _ Store = (*db.Storage)(nil)

// DocumentStore сохраняет и открывает файлы заявок.
type DocumentStore interface {
	Save(slot models.DocumentSlot, filename string, src io.Reader) (string, error)
	Open(rel string) (*os.File, error)
}

type Option func(*base)

func WithLogger(log *slog.Logger) Option {
	return func(b *base) {
		if log != nil {
			b.log = log
		}
	}
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

type base struct {
	log      *slog.Logger
	now      func() time.Time
	validate *validator.Validate
}

func newBase(opts []Option) base {
	b := base{log: slog.Default(), now: time.Now, validate: NewValidator()}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Services собирает все доменные сервисы над одним хранилищем.
type Services struct {
	Store        Store
	Auth         *AuthService
	Users        *UserService
	Listings     *ListingService
	Applications *ApplicationService
	Evaluations  *EvaluationService
	Criteria     *CriteriaService
	Jury         *JuryService
}

func New(store Store, tokens *auth.TokenManager, docs DocumentStore, opts ...Option) *Services {
	b := newBase(opts)
	return &Services{
		Store:        store,
		Auth:         &AuthService{base: b, users: store, tokens: tokens},
		Users:        &UserService{base: b, users: store},
		Listings:     &ListingService{base: b, listings: store},
		Applications: &ApplicationService{base: b, store: store, docs: docs},
		Evaluations:  &EvaluationService{base: b, store: store},
		Criteria:     &CriteriaService{base: b, criteria: store},
		Jury:         &JuryService{base: b, store: store},
	}
}

// NewValidator возвращает валидатор с тегом nationalid и json-именами полей.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("nationalid", func(fl validator.FieldLevel) bool {
		return ValidNationalID(fl.Field().String())
	})
	return v
}

// ValidNationalID: ровно 11 ASCII-цифр.
func ValidNationalID(s string) bool {
	if len(s) != 11 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (b *base) check(v interface{}) error {
	err := b.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindValidation, "invalid request", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperr.Wrap(apperr.KindValidation, strings.Join(msgs, "; "), err)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "nationalid":
		return field + " must be exactly 11 digits"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s", field, map[string]string{"gt": ">", "gte": ">="}[fe.Tag()], fe.Param())
	}
	return field + " is invalid"
}

// storeErr переводит ошибку хранилища в доменную.
func storeErr(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, notFound, err)
	case errors.Is(err, db.ErrDuplicate):
		return apperr.Wrap(apperr.KindConflict, "record already exists", err)
	case errors.Is(err, db.ErrReferenced):
		return apperr.Wrap(apperr.KindConflict, "record is referenced by other records", err)
	}
	return apperr.Internal(err)
}

func clampPage(p models.Page) models.Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

const (
	DefaultLimit = 100
	MaxLimit     = 500
)
