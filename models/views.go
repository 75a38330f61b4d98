package models

// Представления ответов: сохранённые строки плюс вычисляемые поля.
// Сущности при сборке ответа не изменяются.

type ListingView struct {
	Listing
	ApplicationsCount int `json:"applications_count"`
}

func NewListingView(l Listing, applications int) ListingView {
	return ListingView{Listing: l, ApplicationsCount: applications}
}

// Заявка с данными объявления и именем кандидата (join при чтении)
type ApplicationDetail struct {
	Application
	ListingPosition   Position `db:"listing_position" json:"listing_position"`
	ListingDepartment string   `db:"listing_department" json:"listing_department"`
	ListingFaculty    string   `db:"listing_faculty" json:"listing_faculty"`
	CandidateName     string   `db:"candidate_name" json:"candidate_name"`
}

// Строка выборки оценок: имя кандидата догружается отдельно
type EvaluationRow struct {
	Evaluation
	JuryName    string   `db:"jury_name"`
	CandidateID int64    `db:"candidate_id"`
	Position    Position `db:"position"`
	Department  string   `db:"department"`
}

const UnknownCandidate = "Unknown"

type EvaluationDetail struct {
	Evaluation
	CandidateName string   `json:"candidate_name"`
	Position      Position `json:"position"`
	Department    string   `json:"department"`
	JuryName      string   `json:"jury_name"`
}

// NewEvaluationDetail собирает ответ; пустое имя кандидата заменяется на "Unknown".
func NewEvaluationDetail(row EvaluationRow, candidateName string) EvaluationDetail {
	if candidateName == "" {
		candidateName = UnknownCandidate
	}
	return EvaluationDetail{
		Evaluation:    row.Evaluation,
		CandidateName: candidateName,
		Position:      row.Position,
		Department:    row.Department,
		JuryName:      row.JuryName,
	}
}

type JuryMember struct {
	ID         int64  `json:"id"`
	NationalID string `json:"national_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

func NewJuryMember(u User) JuryMember {
	return JuryMember{ID: u.ID, NationalID: u.NationalID, Name: u.Name, Email: u.Email}
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
}
