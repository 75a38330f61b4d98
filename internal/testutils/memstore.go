package testutils

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"academic/db"
	"academic/models"
)

// MemStore хранилище в памяти с теми же ошибками и ограничениями, что у db.Storage.
type MemStore struct {
	mu  sync.Mutex
	Now func() time.Time

	nextID      int64
	users       map[int64]models.User
	listings    map[int64]models.Listing
	apps        map[int64]models.Application
	evaluations map[int64]models.Evaluation
	criteria    map[int64]models.Criteria
	assignments map[int64]models.JuryAssignment

	// PingErr возвращается из Ping, если задан.
	PingErr error
}

func NewMemStore() *MemStore {
	return &MemStore{
		Now:         time.Now,
		users:       map[int64]models.User{},
		listings:    map[int64]models.Listing{},
		apps:        map[int64]models.Application{},
		evaluations: map[int64]models.Evaluation{},
		criteria:    map[int64]models.Criteria{},
		assignments: map[int64]models.JuryAssignment{},
	}
}

func (m *MemStore) Ping(ctx context.Context) error { return m.PingErr }

func (m *MemStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *MemStore) now() *time.Time {
	t := m.Now().UTC()
	return &t
}

func sortedIDs[T any](rows map[int64]T) []int64 {
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func page[T any](rows []T, p models.Page) []T {
	if p.Skip >= len(rows) {
		return []T{}
	}
	rows = rows[p.Skip:]
	if p.Limit > 0 && p.Limit < len(rows) {
		rows = rows[:p.Limit]
	}
	return rows
}

func duplicate(constraint string) error {
	return fmt.Errorf("%w: %s", db.ErrDuplicate, constraint)
}

func referenced(constraint string) error {
	return fmt.Errorf("%w: %s", db.ErrReferenced, constraint)
}

// Users

func (m *MemStore) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkUserUnique(*u); err != nil {
		return err
	}
	u.ID = m.id()
	u.CreatedAt = *m.now()
	m.users[u.ID] = *u
	return nil
}

func (m *MemStore) checkUserUnique(u models.User) error {
	for _, other := range m.users {
		if other.ID == u.ID {
			continue
		}
		if other.NationalID == u.NationalID {
			return duplicate("users_national_id_key")
		}
		if strings.EqualFold(other.Email, u.Email) {
			return duplicate("users_email_key")
		}
	}
	return nil
}

func (m *MemStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &u, nil
}

func (m *MemStore) GetUserByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.NationalID == nationalID {
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStore) ListUsers(ctx context.Context, f models.UserFilter) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.User{}
	for _, id := range sortedIDs(m.users) {
		u := m.users[id]
		if f.Role != nil && u.Role != *f.Role {
			continue
		}
		out = append(out, u)
	}
	return page(out, f.Page), nil
}

func (m *MemStore) UpdateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return db.ErrNotFound
	}
	if err := m.checkUserUnique(*u); err != nil {
		return err
	}
	u.UpdatedAt = m.now()
	m.users[u.ID] = *u
	return nil
}

func (m *MemStore) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return db.ErrNotFound
	}
	for _, a := range m.apps {
		if a.CandidateID == id {
			return referenced("applications_candidate_id_fkey")
		}
	}
	for _, e := range m.evaluations {
		if e.JuryMemberID == id {
			return referenced("evaluations_jury_member_id_fkey")
		}
	}
	for _, ja := range m.assignments {
		if ja.JuryMemberID == id || ja.AssignedBy == id {
			return referenced("jury_assignments_jury_member_id_fkey")
		}
	}
	for id2, l := range m.listings {
		if l.CreatedBy != nil && *l.CreatedBy == id {
			l.CreatedBy = nil
			m.listings[id2] = l
		}
	}
	delete(m.users, id)
	return nil
}

// Listings

func (m *MemStore) CreateListing(ctx context.Context, l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = m.id()
	l.CreatedAt = *m.now()
	m.listings[l.ID] = *l
	return nil
}

func (m *MemStore) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &l, nil
}

func (m *MemStore) ListListings(ctx context.Context, f models.ListingFilter) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Listing{}
	for _, id := range sortedIDs(m.listings) {
		l := m.listings[id]
		if f.Status != nil && l.Status != *f.Status {
			continue
		}
		out = append(out, l)
	}
	return page(out, f.Page), nil
}

func (m *MemStore) UpdateListing(ctx context.Context, l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[l.ID]; !ok {
		return db.ErrNotFound
	}
	l.UpdatedAt = m.now()
	m.listings[l.ID] = *l
	return nil
}

func (m *MemStore) DeleteListing(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[id]; !ok {
		return db.ErrNotFound
	}
	for _, a := range m.apps {
		if a.ListingID == id {
			return referenced("applications_listing_id_fkey")
		}
	}
	delete(m.listings, id)
	return nil
}

func (m *MemStore) CountApplicationsByListing(ctx context.Context, listingIDs []int64) (map[int64]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[int64]bool, len(listingIDs))
	for _, id := range listingIDs {
		wanted[id] = true
	}
	counts := map[int64]int{}
	for _, a := range m.apps {
		if wanted[a.ListingID] {
			counts[a.ListingID]++
		}
	}
	return counts, nil
}

// Applications

func (m *MemStore) CreateApplication(ctx context.Context, a *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[a.ListingID]; !ok {
		return referenced("applications_listing_id_fkey")
	}
	if _, ok := m.users[a.CandidateID]; !ok {
		return referenced("applications_candidate_id_fkey")
	}
	for _, other := range m.apps {
		if other.CandidateID == a.CandidateID && other.ListingID == a.ListingID {
			return duplicate("applications_candidate_listing_key")
		}
	}
	a.ID = m.id()
	a.ApplyDate = *m.now()
	m.apps[a.ID] = *a
	return nil
}

func (m *MemStore) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &a, nil
}

func (m *MemStore) FindApplication(ctx context.Context, candidateID, listingID int64) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.CandidateID == candidateID && a.ListingID == listingID {
			return &a, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStore) detail(a models.Application) models.ApplicationDetail {
	l := m.listings[a.ListingID]
	return models.ApplicationDetail{
		Application:       a,
		ListingPosition:   l.Position,
		ListingDepartment: l.Department,
		ListingFaculty:    l.Faculty,
		CandidateName:     m.users[a.CandidateID].Name,
	}
}

func (m *MemStore) GetApplicationDetail(ctx context.Context, id int64) (*models.ApplicationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	d := m.detail(a)
	return &d, nil
}

func (m *MemStore) ListApplicationDetails(ctx context.Context, f models.ApplicationFilter) ([]models.ApplicationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ApplicationDetail{}
	for _, id := range sortedIDs(m.apps) {
		a := m.apps[id]
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		if f.CandidateID != nil && a.CandidateID != *f.CandidateID {
			continue
		}
		out = append(out, m.detail(a))
	}
	return page(out, f.Page), nil
}

func (m *MemStore) UpdateApplication(ctx context.Context, a *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[a.ID]; !ok {
		return db.ErrNotFound
	}
	a.UpdatedAt = m.now()
	m.apps[a.ID] = *a
	return nil
}

// Evaluations

func (m *MemStore) CreateEvaluation(ctx context.Context, e *models.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[e.ApplicationID]; !ok {
		return referenced("evaluations_application_id_fkey")
	}
	if _, ok := m.users[e.JuryMemberID]; !ok {
		return referenced("evaluations_jury_member_id_fkey")
	}
	for _, other := range m.evaluations {
		if other.ApplicationID == e.ApplicationID && other.JuryMemberID == e.JuryMemberID {
			return duplicate("evaluations_application_jury_key")
		}
	}
	e.ID = m.id()
	e.AssignedDate = *m.now()
	e.IsCompleted = false
	m.evaluations[e.ID] = *e
	return nil
}

func (m *MemStore) GetEvaluation(ctx context.Context, id int64) (*models.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.evaluations[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &e, nil
}

func (m *MemStore) FindEvaluation(ctx context.Context, applicationID, juryMemberID int64) (*models.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.evaluations {
		if e.ApplicationID == applicationID && e.JuryMemberID == juryMemberID {
			return &e, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *MemStore) row(e models.Evaluation) models.EvaluationRow {
	a := m.apps[e.ApplicationID]
	l := m.listings[a.ListingID]
	return models.EvaluationRow{
		Evaluation:  e,
		JuryName:    m.users[e.JuryMemberID].Name,
		CandidateID: a.CandidateID,
		Position:    l.Position,
		Department:  l.Department,
	}
}

func (m *MemStore) GetEvaluationRow(ctx context.Context, id int64) (*models.EvaluationRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.evaluations[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	r := m.row(e)
	return &r, nil
}

func (m *MemStore) ListEvaluationRows(ctx context.Context, f models.EvaluationFilter) ([]models.EvaluationRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.EvaluationRow{}
	for _, id := range sortedIDs(m.evaluations) {
		e := m.evaluations[id]
		if f.IsCompleted != nil && e.IsCompleted != *f.IsCompleted {
			continue
		}
		if f.JuryMemberID != nil && e.JuryMemberID != *f.JuryMemberID {
			continue
		}
		out = append(out, m.row(e))
	}
	return page(out, f.Page), nil
}

func (m *MemStore) UpdateEvaluation(ctx context.Context, e *models.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.evaluations[e.ID]; !ok {
		return db.ErrNotFound
	}
	m.evaluations[e.ID] = *e
	return nil
}

func (m *MemStore) DeleteEvaluation(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.evaluations[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.evaluations, id)
	return nil
}

// Criteria

func (m *MemStore) CreateCriteria(ctx context.Context, c *models.Criteria) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	m.criteria[c.ID] = *c
	return nil
}

func (m *MemStore) GetCriteria(ctx context.Context, id int64) (*models.Criteria, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.criteria[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &c, nil
}

func (m *MemStore) ListCriteria(ctx context.Context, positionType *models.Position) ([]models.Criteria, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Criteria{}
	for _, id := range sortedIDs(m.criteria) {
		c := m.criteria[id]
		if positionType != nil && c.PositionType != *positionType {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PositionType < out[j].PositionType })
	return out, nil
}

func (m *MemStore) UpdateCriteria(ctx context.Context, c *models.Criteria) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.criteria[c.ID]; !ok {
		return db.ErrNotFound
	}
	m.criteria[c.ID] = *c
	return nil
}

func (m *MemStore) DeleteCriteria(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.criteria[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.criteria, id)
	return nil
}

// Jury assignments

func (m *MemStore) CreateJuryAssignment(ctx context.Context, ja *models.JuryAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[ja.JuryMemberID]; !ok {
		return referenced("jury_assignments_jury_member_id_fkey")
	}
	ja.ID = m.id()
	ja.AssignedDate = *m.now()
	m.assignments[ja.ID] = *ja
	return nil
}

func (m *MemStore) GetJuryAssignment(ctx context.Context, id int64) (*models.JuryAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ja, ok := m.assignments[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &ja, nil
}

func (m *MemStore) ListJuryAssignments(ctx context.Context, f models.JuryAssignmentFilter) ([]models.JuryAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.JuryAssignment{}
	for _, id := range sortedIDs(m.assignments) {
		ja := m.assignments[id]
		if f.Department != nil && ja.Department != *f.Department {
			continue
		}
		out = append(out, ja)
	}
	return page(out, f.Page), nil
}

func (m *MemStore) DeleteJuryAssignment(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assignments[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.assignments, id)
	return nil
}

// DeleteUserRow удаляет пользователя без проверки ссылок.
func (m *MemStore) DeleteUserRow(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}
