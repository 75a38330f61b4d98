package service

import (
	"context"
	"errors"

	"academic/db"
	"academic/internal/apperr"
	"academic/internal/auth"
	"academic/models"
)

// AuthService регистрирует пользователей, выдаёт и проверяет токены.
type AuthService struct {
	base
	users  UserStore
	tokens *auth.TokenManager
}

// Register создаёт кандидата; роль из запроса не принимается.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.TokenResponse, error) {
	in.Normalize()
	if err := s.check(&in); err != nil {
		return nil, err
	}
	u, err := createUser(ctx, s.users, in, models.RoleCandidate)
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", u.ID)
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (*models.TokenResponse, error) {
	if err := s.check(&in); err != nil {
		return nil, err
	}
	u, err := s.users.GetUserByNationalID(ctx, in.NationalID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.Unauthenticated("incorrect national id or password")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := auth.CheckPassword(u.PasswordHash, in.Password); err != nil {
		return nil, apperr.Unauthenticated("incorrect national id or password")
	}
	if !u.IsActive {
		return nil, apperr.Forbidden("inactive user")
	}
	return s.issue(u)
}

// Authenticate разрешает токен в пользователя из хранилища.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthenticated, "could not validate credentials", err)
	}
	u, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.Unauthenticated("could not validate credentials")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !u.IsActive {
		return nil, apperr.Forbidden("inactive user")
	}
	return u, nil
}

// EnsureAdmin создаёт администратора, если пользователя с таким национальным номером ещё нет.
func (s *AuthService) EnsureAdmin(ctx context.Context, in models.RegisterInput) (*models.User, bool, error) {
	in.Normalize()
	if err := s.check(&in); err != nil {
		return nil, false, err
	}
	existing, err := s.users.GetUserByNationalID(ctx, in.NationalID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, apperr.Internal(err)
	}
	u, err := createUser(ctx, s.users, in, models.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	s.log.Info("bootstrap admin created", "user_id", u.ID)
	return u, true, nil
}

func (s *AuthService) issue(u *models.User) (*models.TokenResponse, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        *u,
	}, nil
}

func createUser(ctx context.Context, users UserStore, in models.RegisterInput, role models.Role) (*models.User, error) {
	if err := ensureUniqueIdentity(ctx, users, in.NationalID, in.Email, 0); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := &models.User{
		NationalID:   in.NationalID,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.KindConflict, "user with this national id or email already exists", err)
		}
		return nil, apperr.Internal(err)
	}
	return u, nil
}

// ensureUniqueIdentity проверяет занятость национального номера и email (selfID исключается).
func ensureUniqueIdentity(ctx context.Context, users UserStore, nationalID, email string, selfID int64) error {
	if nationalID != "" {
		u, err := users.GetUserByNationalID(ctx, nationalID)
		if err == nil && u.ID != selfID {
			return apperr.Conflict("national id already registered")
		}
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return apperr.Internal(err)
		}
	}
	if email != "" {
		u, err := users.GetUserByEmail(ctx, email)
		if err == nil && u.ID != selfID {
			return apperr.Conflict("email already registered")
		}
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return apperr.Internal(err)
		}
	}
	return nil
}

type UserService struct {
	base
	users UserStore
}

func (s *UserService) Me(ctx context.Context, actor *models.User) (*models.User, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	return actor, nil
}

func (s *UserService) UpdateMe(ctx context.Context, actor *models.User, patch models.UserUpdate) (*models.User, error) {
	if err := auth.Require(actor); err != nil {
		return nil, err
	}
	patch.Normalize()
	if err := s.check(&patch); err != nil {
		return nil, err
	}
	u := *actor
	return s.update(ctx, &u, patch.Email, patch.Apply)
}

func (s *UserService) List(ctx context.Context, actor *models.User, f models.UserFilter) ([]models.User, error) {
	if err := auth.Require(actor, auth.AdminOnly...); err != nil {
		return nil, err
	}
	if f.Role != nil && !f.Role.Valid() {
		return nil, apperr.Validation("role must be one of: candidate admin manager jury")
	}
	f.Page = clampPage(f.Page)
	users, err := s.users.ListUsers(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, actor *models.User, id int64) (*models.User, error) {
	if err := auth.Require(actor, auth.AdminOnly...); err != nil {
		return nil, err
	}
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, storeErr(err, "user not found")
	}
	return u, nil
}

// Create используется администратором для заведения пользователей любой роли.
func (s *UserService) Create(ctx context.Context, actor *models.User, in models.CreateUserInput) (*models.User, error) {
	if err := auth.Require(actor, auth.AdminOnly...); err != nil {
		return nil, err
	}
	in.Normalize()
	if err := s.check(&in); err != nil {
		return nil, err
	}
	u, err := createUser(ctx, s.users, in.RegisterInput, in.Role)
	if err != nil {
		return nil, err
	}
	s.log.Info("user created", "user_id", u.ID, "role", u.Role, "by", actor.ID)
	return u, nil
}

func (s *UserService) Update(ctx context.Context, actor *models.User, id int64, patch models.AdminUserUpdate) (*models.User, error) {
	if err := auth.Require(actor, auth.AdminOnly...); err != nil {
		return nil, err
	}
	patch.Normalize()
	if err := s.check(&patch); err != nil {
		return nil, err
	}
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, storeErr(err, "user not found")
	}
	return s.update(ctx, u, patch.Email, patch.Apply)
}

func (s *UserService) Delete(ctx context.Context, actor *models.User, id int64) error {
	if err := auth.Require(actor, auth.AdminOnly...); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return storeErr(err, "user not found")
	}
	s.log.Info("user deleted", "user_id", id, "by", actor.ID)
	return nil
}

func (s *UserService) update(ctx context.Context, u *models.User, email *string, apply func(*models.User)) (*models.User, error) {
	if email != nil {
		if err := ensureUniqueIdentity(ctx, s.users, "", *email, u.ID); err != nil {
			return nil, err
		}
	}
	apply(u)
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, storeErr(err, "user not found")
	}
	return u, nil
}
