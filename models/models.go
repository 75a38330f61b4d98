package models

import "time"

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleJury      Role = "jury"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleAdmin, RoleManager, RoleJury:
		return true
	}
	return false
}

// Тип академической должности
type Position string

const (
	PositionAssistantProfessor Position = "assistant_professor"
	PositionAssociateProfessor Position = "associate_professor"
	PositionProfessor          Position = "professor"
)

func (p Position) Valid() bool {
	switch p {
	case PositionAssistantProfessor, PositionAssociateProfessor, PositionProfessor:
		return true
	}
	return false
}

type ListingStatus string

const (
	ListingActive  ListingStatus = "active"
	ListingExpired ListingStatus = "expired"
)

func (s ListingStatus) Valid() bool {
	return s == ListingActive || s == ListingExpired
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationInReview ApplicationStatus = "in_review"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationInReview, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

type EvaluationResult string

const (
	ResultPositive EvaluationResult = "positive"
	ResultNegative EvaluationResult = "negative"
)

func (r EvaluationResult) Valid() bool {
	return r == ResultPositive || r == ResultNegative
}

// Слот документа заявки; имя слота совпадает с именем каталога загрузки
type DocumentSlot string

const (
	SlotCV           DocumentSlot = "cv"
	SlotDiploma      DocumentSlot = "diploma"
	SlotPublications DocumentSlot = "publications"
	SlotCitations    DocumentSlot = "citations"
	SlotConferences  DocumentSlot = "conferences"
)

// DocumentSlots перечисляет слоты в порядке обработки загрузки.
var DocumentSlots = []DocumentSlot{SlotCV, SlotDiploma, SlotPublications, SlotCitations, SlotConferences}

func (s DocumentSlot) Valid() bool {
	for _, slot := range DocumentSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Сущность Пользователя
type User struct {
	ID           int64      `db:"id" json:"id"`
	NationalID   string     `db:"national_id" json:"national_id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	Phone        *string    `db:"phone" json:"phone"`
	Address      *string    `db:"address" json:"address"`
	BirthDate    *string    `db:"birth_date" json:"birth_date"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at"`
}

// Сущность Объявления о вакансии
type Listing struct {
	ID           int64         `db:"id" json:"id"`
	Position     Position      `db:"position" json:"position"`
	Department   string        `db:"department" json:"department"`
	Faculty      string        `db:"faculty" json:"faculty"`
	PublishDate  time.Time     `db:"publish_date" json:"publish_date"`
	Deadline     time.Time     `db:"deadline" json:"deadline"`
	Description  *string       `db:"description" json:"description"`
	Requirements *string       `db:"requirements" json:"requirements"`
	Status       ListingStatus `db:"status" json:"status"`
	CreatedBy    *int64        `db:"created_by" json:"created_by"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time    `db:"updated_at" json:"updated_at"`
}

// AcceptsApplications сообщает, можно ли подать заявку в момент now.
func (l *Listing) AcceptsApplications(now time.Time) bool {
	return l.Status == ListingActive && !now.After(l.Deadline)
}

// Сущность Заявки
type Application struct {
	ID               int64             `db:"id" json:"id"`
	CandidateID      int64             `db:"candidate_id" json:"candidate_id"`
	ListingID        int64             `db:"listing_id" json:"listing_id"`
	Status           ApplicationStatus `db:"status" json:"status"`
	ApplyDate        time.Time         `db:"apply_date" json:"apply_date"`
	UpdatedAt        *time.Time        `db:"updated_at" json:"updated_at"`
	CVPath           *string           `db:"cv_path" json:"cv_path"`
	DiplomaPath      *string           `db:"diploma_path" json:"diploma_path"`
	PublicationsPath *string           `db:"publications_path" json:"publications_path"`
	CitationsPath    *string           `db:"citations_path" json:"citations_path"`
	ConferencesPath  *string           `db:"conferences_path" json:"conferences_path"`
	ManagerNotes     *string           `db:"manager_notes" json:"manager_notes"`
}

// DocumentPath возвращает указатель на поле пути для слота (nil для неизвестного слота).
func (a *Application) DocumentPath(slot DocumentSlot) **string {
	switch slot {
	case SlotCV:
		return &a.CVPath
	case SlotDiploma:
		return &a.DiplomaPath
	case SlotPublications:
		return &a.PublicationsPath
	case SlotCitations:
		return &a.CitationsPath
	case SlotConferences:
		return &a.ConferencesPath
	}
	return nil
}

// Сущность Оценки члена жюри
type Evaluation struct {
	ID            int64             `db:"id" json:"id"`
	ApplicationID int64             `db:"application_id" json:"application_id"`
	JuryMemberID  int64             `db:"jury_member_id" json:"jury_member_id"`
	Report        *string           `db:"report" json:"report"`
	Result        *EvaluationResult `db:"result" json:"result"`
	AssignedDate  time.Time         `db:"assigned_date" json:"assigned_date"`
	CompletedDate *time.Time        `db:"completed_date" json:"completed_date"`
	Deadline      time.Time         `db:"deadline" json:"deadline"`
	IsCompleted   bool              `db:"is_completed" json:"is_completed"`
}

// Сущность Критерия для типа должности
type Criteria struct {
	ID           int64    `db:"id" json:"id"`
	PositionType Position `db:"position_type" json:"position_type"`
	Name         string   `db:"name" json:"name"`
	Description  *string  `db:"description" json:"description"`
	Required     bool     `db:"required" json:"required"`
	MinCount     int      `db:"min_count" json:"min_count"`
}

// Сущность Назначения жюри на кафедру (информационная)
type JuryAssignment struct {
	ID           int64     `db:"id" json:"id"`
	JuryMemberID int64     `db:"jury_member_id" json:"jury_member_id"`
	Department   string    `db:"department" json:"department"`
	AssignedBy   int64     `db:"assigned_by" json:"assigned_by"`
	AssignedDate time.Time `db:"assigned_date" json:"assigned_date"`
}
