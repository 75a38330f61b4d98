package auth

import (
	"context"

	"academic/internal/apperr"
	"academic/models"
)

// Наборы ролей, которые используются при проверке доступа
var (
	AdminOrManager = []models.Role{models.RoleAdmin, models.RoleManager}
	ManagerOnly    = []models.Role{models.RoleManager}
	AdminOnly      = []models.Role{models.RoleAdmin}
)

// Require проверяет, что пользователь аутентифицирован и (если набор не пуст)
// имеет одну из ролей.
func Require(u *models.User, roles ...models.Role) error {
	if u == nil {
		return apperr.Unauthenticated("not authenticated")
	}
	if len(roles) == 0 || HasRole(u, roles...) {
		return nil
	}
	return apperr.Forbidden("not enough permissions")
}

func HasRole(u *models.User, roles ...models.Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

type userKey struct{}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey{}).(*models.User)
	return u
}
