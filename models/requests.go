package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Входные данные запросов. Теги validate проверяются в сервисном слое,
// тег nationalid регистрируется там же (ровно 11 ASCII-цифр).

type RegisterInput struct {
	NationalID string `json:"national_id" validate:"required,nationalid"`
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
}

// Normalize обрезает пробелы по краям имени и email до проверки.
func (in *RegisterInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
}

type LoginInput struct {
	NationalID string `json:"national_id" validate:"required,nationalid"`
	Password   string `json:"password" validate:"required"`
}

// Создание пользователя администратором, роль задаётся явно
type CreateUserInput struct {
	RegisterInput
	Role Role `json:"role" validate:"required,oneof=candidate admin manager jury"`
}

// UserUpdate частичное обновление профиля: меняются только переданные поля.
type UserUpdate struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
	BirthDate *string `json:"birth_date" validate:"omitempty,max=50"`
}

func (p *UserUpdate) Normalize() {
	p.Name = trimPtr(p.Name)
	p.Email = trimPtr(p.Email)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (p UserUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.Address != nil {
		u.Address = p.Address
	}
	if p.BirthDate != nil {
		u.BirthDate = p.BirthDate
	}
}

// AdminUserUpdate патч администратора: профиль плюс флаг активности.
type AdminUserUpdate struct {
	UserUpdate
	IsActive *bool `json:"is_active"`
}

func (p AdminUserUpdate) Apply(u *User) {
	p.UserUpdate.Apply(u)
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}

type ListingInput struct {
	Position     Position  `json:"position" validate:"required,oneof=assistant_professor associate_professor professor"`
	Department   string    `json:"department" validate:"required,max=200"`
	Faculty      string    `json:"faculty" validate:"required,max=200"`
	PublishDate  time.Time `json:"publish_date" validate:"required"`
	Deadline     time.Time `json:"deadline" validate:"required"`
	Description  *string   `json:"description"`
	Requirements *string   `json:"requirements"`
}

type ListingUpdate struct {
	Position     *Position      `json:"position" validate:"omitempty,oneof=assistant_professor associate_professor professor"`
	Department   *string        `json:"department" validate:"omitempty,min=1,max=200"`
	Faculty      *string        `json:"faculty" validate:"omitempty,min=1,max=200"`
	PublishDate  *time.Time     `json:"publish_date"`
	Deadline     *time.Time     `json:"deadline"`
	Description  *string        `json:"description"`
	Requirements *string        `json:"requirements"`
	Status       *ListingStatus `json:"status" validate:"omitempty,oneof=active expired"`
}

func (p ListingUpdate) Apply(l *Listing) {
	if p.Position != nil {
		l.Position = *p.Position
	}
	if p.Department != nil {
		l.Department = *p.Department
	}
	if p.Faculty != nil {
		l.Faculty = *p.Faculty
	}
	if p.PublishDate != nil {
		l.PublishDate = *p.PublishDate
	}
	if p.Deadline != nil {
		l.Deadline = *p.Deadline
	}
	if p.Description != nil {
		l.Description = p.Description
	}
	if p.Requirements != nil {
		l.Requirements = p.Requirements
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
}

type ApplicationInput struct {
	ListingID int64 `json:"listing_id" validate:"required,gt=0"`
}

type ApplicationUpdate struct {
	Status       *ApplicationStatus `json:"status" validate:"omitempty,oneof=pending in_review approved rejected"`
	ManagerNotes *string            `json:"manager_notes"`

	statusSent bool
}

// UnmarshalJSON запоминает, что ключ status присутствовал в теле (в том числе со значением null).
func (p *ApplicationUpdate) UnmarshalJSON(data []byte) error {
	type plain ApplicationUpdate
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = ApplicationUpdate(v)
	_, p.statusSent = raw["status"]
	return nil
}

// SetsStatus сообщает, пытается ли патч изменить статус.
func (p ApplicationUpdate) SetsStatus() bool {
	return p.Status != nil || p.statusSent
}

func (p ApplicationUpdate) Apply(a *Application) {
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.ManagerNotes != nil {
		a.ManagerNotes = p.ManagerNotes
	}
}

type StatusInput struct {
	Status ApplicationStatus `json:"status" validate:"required,oneof=pending in_review approved rejected"`
}

type EvaluationInput struct {
	ApplicationID int64     `json:"application_id" validate:"required,gt=0"`
	JuryMemberID  int64     `json:"jury_member_id" validate:"required,gt=0"`
	Deadline      time.Time `json:"deadline" validate:"required"`
}

type EvaluationUpdate struct {
	Report      *string           `json:"report"`
	Result      *EvaluationResult `json:"result" validate:"omitempty,oneof=positive negative"`
	IsCompleted *bool             `json:"is_completed"`
}

// Apply применяет патч. Если флаг завершения переходит false -> true,
// completed_date выставляется в now до применения остальных полей.
func (p EvaluationUpdate) Apply(e *Evaluation, now time.Time) {
	if p.IsCompleted != nil && *p.IsCompleted && !e.IsCompleted {
		e.CompletedDate = &now
	}
	if p.Report != nil {
		e.Report = p.Report
	}
	if p.Result != nil {
		e.Result = p.Result
	}
	if p.IsCompleted != nil {
		e.IsCompleted = *p.IsCompleted
	}
}

type CriteriaInput struct {
	PositionType Position `json:"position_type" validate:"required,oneof=assistant_professor associate_professor professor"`
	Name         string   `json:"name" validate:"required,max=200"`
	Description  *string  `json:"description"`
	Required     *bool    `json:"required"`
	MinCount     *int     `json:"min_count" validate:"omitempty,gte=0"`
}

type CriteriaUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Required    *bool   `json:"required"`
	MinCount    *int    `json:"min_count" validate:"omitempty,gte=0"`
}

func (p CriteriaUpdate) Apply(c *Criteria) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = p.Description
	}
	if p.Required != nil {
		c.Required = *p.Required
	}
	if p.MinCount != nil {
		c.MinCount = *p.MinCount
	}
}

type JuryAssignmentInput struct {
	JuryMemberID int64  `json:"jury_member_id" validate:"required,gt=0"`
	Department   string `json:"department" validate:"required,max=200"`
}

// Фильтры выборок

type Page struct {
	Skip  int
	Limit int
}

type UserFilter struct {
	Role *Role
	Page
}

type ListingFilter struct {
	Status *ListingStatus
	Page
}

type ApplicationFilter struct {
	Status      *ApplicationStatus
	CandidateID *int64
	Page
}

type EvaluationFilter struct {
	IsCompleted  *bool
	JuryMemberID *int64
	Page
}

type JuryAssignmentFilter struct {
	Department *string
	Page
}
