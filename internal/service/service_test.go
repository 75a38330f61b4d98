package service_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"academic/internal/apperr"
	"academic/internal/auth"
	"academic/internal/service"
	"academic/internal/testutils"
	"academic/internal/uploads"
	"academic/models"

	"github.com/stretchr/testify/require"
)

var _ service.Store = (*testutils.MemStore)(nil)

type fixture struct {
	store  *testutils.MemStore
	svc    *service.Services
	tokens *auth.TokenManager
	now    time.Time

	admin, manager, jury, jury2, candidate, candidate2 *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  testutils.NewMemStore(),
		tokens: auth.NewTokenManager("service-test-secret-0123", "academic", time.Hour),
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.store.Now = func() time.Time { return f.now }
	docs, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)
	f.svc = service.New(f.store, f.tokens, docs, service.WithClock(func() time.Time { return f.now }))

	f.admin = f.user(t, "10000000001", "Admin", models.RoleAdmin)
	f.manager = f.user(t, "10000000002", "Manager", models.RoleManager)
	f.jury = f.user(t, "10000000003", "Jury One", models.RoleJury)
	f.jury2 = f.user(t, "10000000004", "Jury Two", models.RoleJury)
	f.candidate = f.user(t, "10000000005", "Ada Candidate", models.RoleCandidate)
	f.candidate2 = f.user(t, "10000000006", "Bob Candidate", models.RoleCandidate)
	return f
}

func (f *fixture) user(t *testing.T, nationalID, name string, role models.Role) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	u := &models.User{
		NationalID:   nationalID,
		Name:         name,
		Email:        strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@example.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) listing(t *testing.T, deadline time.Time) *models.ListingView {
	t.Helper()
	l, err := f.svc.Listings.Create(context.Background(), f.admin, models.ListingInput{
		Position:    models.PositionAssociateProfessor,
		Department:  "Computer Engineering",
		Faculty:     "Engineering",
		PublishDate: f.now.Add(-24 * time.Hour),
		Deadline:    deadline,
	})
	require.NoError(t, err)
	return l
}

func (f *fixture) apply(t *testing.T, who *models.User, listingID int64) *models.Application {
	t.Helper()
	a, err := f.svc.Applications.Create(context.Background(), who, models.ApplicationInput{ListingID: listingID})
	require.NoError(t, err)
	return a
}

func requireKind(t *testing.T, kind apperr.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), err.Error())
}

func ptr[T any](v T) *T { return &v }

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Auth.Register(ctx, models.RegisterInput{
		NationalID: "12345678901",
		Name:       "New Person",
		Email:      "new.person@example.com",
		Password:   "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, "bearer", resp.TokenType)
	require.Equal(t, int64(3600), resp.ExpiresIn)
	require.Equal(t, models.RoleCandidate, resp.User.Role)
	require.True(t, resp.User.IsActive)

	claims, err := f.tokens.Validate(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)

	login, err := f.svc.Auth.Login(ctx, models.LoginInput{NationalID: "12345678901", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, login.User.ID)

	_, err = f.svc.Auth.Login(ctx, models.LoginInput{NationalID: "12345678901", Password: "wrong-password"})
	requireKind(t, apperr.KindUnauthenticated, err)

	_, err = f.svc.Auth.Login(ctx, models.LoginInput{NationalID: "99999999999", Password: "secret1"})
	requireKind(t, apperr.KindUnauthenticated, err)
}

func TestRegisterConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Auth.Register(ctx, models.RegisterInput{
		NationalID: f.candidate.NationalID, Name: "Dup", Email: "dup@example.com", Password: "secret1",
	})
	requireKind(t, apperr.KindConflict, err)

	_, err = f.svc.Auth.Register(ctx, models.RegisterInput{
		NationalID: "55555555555", Name: "Dup", Email: strings.ToUpper(f.candidate.Email), Password: "secret1",
	})
	requireKind(t, apperr.KindConflict, err)
}

func TestNationalIDValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"", "1234567890", "123456789012", "1234567890a", "12345 67890", "１２３４５６７８９０１"} {
		_, err := f.svc.Auth.Register(ctx, models.RegisterInput{
			NationalID: id, Name: "X", Email: "x@example.com", Password: "secret1",
		})
		requireKind(t, apperr.KindValidation, err)

		_, err = f.svc.Auth.Login(ctx, models.LoginInput{NationalID: id, Password: "secret1"})
		requireKind(t, apperr.KindValidation, err)
	}
	require.True(t, service.ValidNationalID("01234567890"))
}

func TestRegisterValidatesPasswordAndEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Auth.Register(ctx, models.RegisterInput{
		NationalID: "12345678901", Name: "X", Email: "x@example.com", Password: "short",
	})
	requireKind(t, apperr.KindValidation, err)
	require.Contains(t, apperr.Message(err), "password")

	_, err = f.svc.Auth.Register(ctx, models.RegisterInput{
		NationalID: "12345678901", Name: "X", Email: "not-an-email", Password: "secret1",
	})
	requireKind(t, apperr.KindValidation, err)
	require.Contains(t, apperr.Message(err), "email")
}

func TestInactiveUserIsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.tokens.Issue(f.candidate)
	require.NoError(t, err)

	_, err = f.svc.Users.Update(ctx, f.admin, f.candidate.ID, models.AdminUserUpdate{IsActive: ptr(false)})
	require.NoError(t, err)

	_, err = f.svc.Auth.Login(ctx, models.LoginInput{NationalID: f.candidate.NationalID, Password: "secret1"})
	requireKind(t, apperr.KindForbidden, err)

	_, err = f.svc.Auth.Authenticate(ctx, token)
	requireKind(t, apperr.KindForbidden, err)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.tokens.Issue(f.jury)
	require.NoError(t, err)
	u, err := f.svc.Auth.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, f.jury.ID, u.ID)

	_, err = f.svc.Auth.Authenticate(ctx, "garbage")
	requireKind(t, apperr.KindUnauthenticated, err)

	f.store.DeleteUserRow(f.jury.ID)
	_, err = f.svc.Auth.Authenticate(ctx, token)
	requireKind(t, apperr.KindUnauthenticated, err)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := models.RegisterInput{NationalID: "77777777777", Name: "Root", Email: "root@example.com", Password: "secret1"}

	u, created, err := f.svc.Auth.EnsureAdmin(ctx, in)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, models.RoleAdmin, u.Role)

	again, created, err := f.svc.Auth.EnsureAdmin(ctx, in)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, u.ID, again.ID)
}

func TestUserAdministration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Users.List(ctx, f.manager, models.UserFilter{})
	requireKind(t, apperr.KindForbidden, err)
	_, err = f.svc.Users.List(ctx, nil, models.UserFilter{})
	requireKind(t, apperr.KindUnauthenticated, err)

	role := models.RoleJury
	jury, err := f.svc.Users.List(ctx, f.admin, models.UserFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, jury, 2)

	created, err := f.svc.Users.Create(ctx, f.admin, models.CreateUserInput{
		RegisterInput: models.RegisterInput{NationalID: "20000000001", Name: "Carol", Email: "carol@example.com", Password: "secret1"},
		Role:          models.RoleManager,
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleManager, created.Role)

	_, err = f.svc.Users.Get(ctx, f.admin, 9999)
	requireKind(t, apperr.KindNotFound, err)

	_, err = f.svc.Users.UpdateMe(ctx, f.candidate, models.UserUpdate{Email: ptr(f.candidate2.Email)})
	requireKind(t, apperr.KindConflict, err)

	me, err := f.svc.Users.UpdateMe(ctx, f.candidate, models.UserUpdate{Phone: ptr("+90 555 0000"), Email: ptr(f.candidate.Email)})
	require.NoError(t, err)
	require.Equal(t, "+90 555 0000", *me.Phone)
	require.Equal(t, f.candidate.Name, me.Name)

	require.NoError(t, f.svc.Users.Delete(ctx, f.admin, created.ID))
	requireKind(t, apperr.KindNotFound, f.svc.Users.Delete(ctx, f.admin, created.ID))
}

func TestUserNamesAreTrimmedBeforeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Auth.Register(ctx, models.RegisterInput{
		NationalID: "30000000001", Name: "   ", Email: "blank@example.com", Password: "secret1",
	})
	requireKind(t, apperr.KindValidation, err)
	require.Contains(t, apperr.Message(err), "name is required")

	_, err = f.svc.Users.Create(ctx, f.admin, models.CreateUserInput{
		RegisterInput: models.RegisterInput{NationalID: "30000000002", Name: "\t", Email: "tab@example.com", Password: "secret1"},
		Role:          models.RoleJury,
	})
	requireKind(t, apperr.KindValidation, err)

	_, err = f.svc.Users.UpdateMe(ctx, f.candidate, models.UserUpdate{Name: ptr("  ")})
	requireKind(t, apperr.KindValidation, err)

	_, err = f.svc.Users.Update(ctx, f.admin, f.jury.ID, models.AdminUserUpdate{UserUpdate: models.UserUpdate{Name: ptr(" ")}})
	requireKind(t, apperr.KindValidation, err)

	resp, err := f.svc.Auth.Register(ctx, models.RegisterInput{
		NationalID: "30000000003", Name: "  Deniz  ", Email: " deniz@example.com ", Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, "Deniz", resp.User.Name)
	require.Equal(t, "deniz@example.com", resp.User.Email)

	me, err := f.svc.Users.UpdateMe(ctx, f.candidate, models.UserUpdate{Name: ptr(" Ada Lovelace ")})
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", me.Name)
}

func TestDeleteReferencedUserConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.listing(t, f.now.Add(24*time.Hour))
	f.apply(t, f.candidate, l.ID)

	requireKind(t, apperr.KindConflict, f.svc.Users.Delete(ctx, f.admin, f.candidate.ID))
}

func TestListingLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Listings.Create(ctx, f.manager, models.ListingInput{})
	requireKind(t, apperr.KindForbidden, err)

	_, err = f.svc.Listings.Create(ctx, f.admin, models.ListingInput{
		Position:    models.PositionProfessor,
		Department:  "Physics",
		Faculty:     "Science",
		PublishDate: f.now,
		Deadline:    f.now.Add(-time.Hour),
	})
	requireKind(t, apperr.KindValidation, err)

	l := f.listing(t, f.now.Add(48*time.Hour))
	require.Zero(t, l.ApplicationsCount)
	require.Equal(t, models.ListingActive, l.Status)
	require.Equal(t, f.admin.ID, *l.CreatedBy)

	updated, err := f.svc.Listings.Update(ctx, f.admin, l.ID, models.ListingUpdate{Description: ptr("Teaching load: 12h")})
	require.NoError(t, err)
	require.Equal(t, "Teaching load: 12h", *updated.Description)
	require.Equal(t, l.Department, updated.Department)
	require.Equal(t, l.Deadline, updated.Deadline)

	_, err = f.svc.Listings.Update(ctx, f.admin, l.ID, models.ListingUpdate{Deadline: ptr(l.PublishDate.Add(-time.Minute))})
	requireKind(t, apperr.KindValidation, err)

	_, err = f.svc.Listings.Update(ctx, f.admin, 424242, models.ListingUpdate{})
	requireKind(t, apperr.KindNotFound, err)

	require.NoError(t, f.svc.Listings.Delete(ctx, f.admin, l.ID))
	_, err = f.svc.Listings.Get(ctx, f.candidate, l.ID)
	requireKind(t, apperr.KindNotFound, err)
}

func TestListingApplicationsCountIsLive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	busy := f.listing(t, f.now.Add(24*time.Hour))
	quiet := f.listing(t, f.now.Add(24*time.Hour))

	f.apply(t, f.candidate, busy.ID)
	f.apply(t, f.candidate2, busy.ID)
	f.apply(t, f.jury, busy.ID)

	views, err := f.svc.Listings.List(ctx, f.candidate, models.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, views, 2)
	counts := map[int64]int{}
	for _, v := range views {
		counts[v.ID] = v.ApplicationsCount
	}
	require.Equal(t, 3, counts[busy.ID])
	require.Equal(t, 0, counts[quiet.ID])

	one, err := f.svc.Listings.Get(ctx, f.jury, busy.ID)
	require.NoError(t, err)
	require.Equal(t, 3, one.ApplicationsCount)

	requireKind(t, apperr.KindConflict, f.svc.Listings.Delete(ctx, f.admin, busy.ID))
}

func TestListingStatusFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.listing(t, f.now.Add(24*time.Hour))
	f.listing(t, f.now.Add(24*time.Hour))
	_, err := f.svc.Listings.Update(ctx, f.admin, l.ID, models.ListingUpdate{Status: ptr(models.ListingExpired)})
	require.NoError(t, err)

	expired := models.ListingExpired
	views, err := f.svc.Listings.List(ctx, f.manager, models.ListingFilter{Status: &expired})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, l.ID, views[0].ID)

	bogus := models.ListingStatus("archived")
	_, err = f.svc.Listings.List(ctx, f.manager, models.ListingFilter{Status: &bogus})
	requireKind(t, apperr.KindValidation, err)
}

func TestCreateApplicationChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Applications.Create(ctx, f.candidate, models.ApplicationInput{ListingID: 31337})
	requireKind(t, apperr.KindNotFound, err)

	inactive := f.listing(t, f.now.Add(-time.Hour))
	_, err = f.svc.Listings.Update(ctx, f.admin, inactive.ID, models.ListingUpdate{Status: ptr(models.ListingExpired)})
	require.NoError(t, err)
	_, err = f.svc.Applications.Create(ctx, f.candidate, models.ApplicationInput{ListingID: inactive.ID})
	requireKind(t, apperr.KindInvalidState, err)

	late := f.listing(t, f.now.Add(-time.Minute))
	_, err = f.svc.Applications.Create(ctx, f.candidate, models.ApplicationInput{ListingID: late.ID})
	requireKind(t, apperr.KindDeadlineExpired, err)

	open := f.listing(t, f.now)
	a := f.apply(t, f.candidate, open.ID)
	require.Equal(t, models.ApplicationPending, a.Status)
	require.Equal(t, f.candidate.ID, a.CandidateID)

	_, err = f.svc.Applications.Create(ctx, f.candidate, models.ApplicationInput{ListingID: open.ID})
	requireKind(t, apperr.KindConflict, err)

	_, err = f.svc.Applications.Create(ctx, f.candidate, models.ApplicationInput{})
	requireKind(t, apperr.KindValidation, err)
}

func TestApplicationListScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.listing(t, f.now.Add(time.Hour))
	mine := f.apply(t, f.candidate, l.ID)
	theirs := f.apply(t, f.candidate2, l.ID)

	own, err := f.svc.Applications.List(ctx, f.candidate, models.ApplicationFilter{CandidateID: &f.candidate2.ID})
	require.NoError(t, err)
	require.Len(t, own, 1)
	require.Equal(t, mine.ID, own[0].ID)
	require.Equal(t, "Ada Candidate", own[0].CandidateName)
	require.Equal(t, models.PositionAssociateProfessor, own[0].ListingPosition)
	require.Equal(t, "Engineering", own[0].ListingFaculty)

	for _, staff := range []*models.User{f.admin, f.manager, f.jury} {
		all, err := f.svc.Applications.List(ctx, staff, models.ApplicationFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
	}

	_, err = f.svc.Applications.Get(ctx, f.candidate, theirs.ID)
	requireKind(t, apperr.KindForbidden, err)
	d, err := f.svc.Applications.Get(ctx, f.jury, theirs.ID)
	require.NoError(t, err)
	require.Equal(t, "Bob Candidate", d.CandidateName)
}

func TestCandidateCannotTouchStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.listing(t, f.now.Add(time.Hour))
	a := f.apply(t, f.candidate, l.ID)

	for _, status := range []models.ApplicationStatus{models.ApplicationPending, models.ApplicationApproved, "nonsense"} {
		_, err := f.svc.Applications.Update(ctx, f.candidate, a.ID, models.ApplicationUpdate{Status: ptr(status)})
		requireKind(t, apperr.KindForbidden, err)
	}

	notes, err := f.svc.Applications.Update(ctx, f.candidate, a.ID, models.ApplicationUpdate{ManagerNotes: ptr("see attached")})
	require.NoError(t, err)
	require.Equal(t, "see attached", *notes.ManagerNotes)
	require.Equal(t, models.ApplicationPending, notes.Status)

	_, err = f.svc.Applications.Update(ctx, f.candidate2, a.ID, models.ApplicationUpdate{ManagerNotes: ptr("x")})
	requireKind(t, apperr.KindForbidden, err)

	_, err = f.svc.Applications.Update(ctx, f.jury, a.ID, models.ApplicationUpdate{ManagerNotes: ptr("x")})
	requireKind(t, apperr.KindForbidden, err)

	staff, err := f.svc.Applications.Update(ctx, f.manager, a.ID, models.ApplicationUpdate{Status: ptr(models.ApplicationInReview)})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationInReview, staff.Status)
	require.Equal(t, "see attached", *staff.ManagerNotes)
}

func TestSetStatusOverwritesWithoutTransitionGraph(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.listing(t, f.now.Add(time.Hour))
	a := f.apply(t, f.candidate, l.ID)

	_, err := f.svc.Applications.SetStatus(ctx, f.candidate, a.ID, models.StatusInput{Status: models.ApplicationApproved})
	requireKind(t, apperr.KindForbidden, err)
	_, err = f.svc.Applications.SetStatus(ctx, f.jury, a.ID, models.StatusInput{Status: models.ApplicationApproved})
	requireKind(t, apperr.KindForbidden, err)

	d, err := f.svc.Applications.SetStatus(ctx, f.admin, a.ID, models.StatusInput{Status: models.ApplicationRejected})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationRejected, d.Status)

	d, err = f.svc.Applications.SetStatus(ctx, f.manager, a.ID, models.StatusInput{Status: models.ApplicationPending})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationPending, d.Status)

	_, err = f.svc.Applications.SetStatus(ctx, f.manager, a.ID, models.StatusInput{Status: "archived"})
	requireKind(t, apperr.KindValidation, err)

	_, err = f.svc.Applications.SetStatus(ctx, f.manager, 5555, models.StatusInput{Status: models.ApplicationPending})
	requireKind(t, apperr.KindNotFound, err)
}

func TestUploadAndOpenDocuments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.listing(t, f.now.Add(time.Hour))
	a := f.apply(t, f.candidate, l.ID)

	d, err := f.svc.Applications.UploadDocuments(ctx, f.candidate, a.ID, []service.Document{
		{Slot: models.SlotCV, Filename: "cv.pdf", Content: strings.NewReader("my cv")},
		{Slot: models.SlotCitations, Filename: "citations.xlsx", Content: strings.NewReader("cites")},
	})
	require.NoError(t, err)
	require.NotNil(t, d.CVPath)
	require.True(t, strings.HasPrefix(*d.CVPath, "cv/"))
	require.True(t, strings.HasPrefix(*d.CitationsPath, "citations/"))
	require.Nil(t, d.DiplomaPath)

	_, err = f.svc.Applications.UploadDocuments(ctx, f.candidate2, a.ID, []service.Document{
		{Slot: models.SlotCV, Filename: "cv.pdf", Content: strings.NewReader("not mine")},
	})
	requireKind(t, apperr.KindForbidden, err)

	_, err = f.svc.Applications.UploadDocuments(ctx, f.candidate, a.ID, nil)
	requireKind(t, apperr.KindValidation, err)

	file, err := f.svc.Applications.OpenDocument(ctx, f.jury, a.ID, models.SlotCV)
	require.NoError(t, err)
	data, err := io.ReadAll(file)
	file.Close()
	require.NoError(t, err)
	require.Equal(t, "my cv", string(data))

	_, err = f.svc.Applications.OpenDocument(ctx, f.candidate, a.ID, models.SlotDiploma)
	requireKind(t, apperr.KindNotFound, err)
	_, err = f.svc.Applications.OpenDocument(ctx, f.candidate2, a.ID, models.SlotCV)
	requireKind(t, apperr.KindForbidden, err)
	_, err = f.svc.Applications.OpenDocument(ctx, f.candidate, a.ID, "photos")
	requireKind(t, apperr.KindValidation, err)
}

func (f *fixture) evaluation(t *testing.T, jury *models.User) (*models.Application, *models.EvaluationDetail) {
	t.Helper()
	l := f.listing(t, f.now.Add(time.Hour))
	a := f.apply(t, f.candidate, l.ID)
	e, err := f.svc.Evaluations.Create(context.Background(), f.manager, models.EvaluationInput{
		ApplicationID: a.ID,
		JuryMemberID:  jury.ID,
		Deadline:      f.now.Add(14 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return a, e
}

func TestCreateEvaluationChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, e := f.evaluation(t, f.jury)

	require.False(t, e.IsCompleted)
	require.Nil(t, e.CompletedDate)
	require.Equal(t, "Jury One", e.JuryName)
	require.Equal(t, "Ada Candidate", e.CandidateName)
	require.Equal(t, "Computer Engineering", e.Department)

	in := models.EvaluationInput{ApplicationID: a.ID, JuryMemberID: f.jury.ID, Deadline: f.now}
	_, err := f.svc.Evaluations.Create(ctx, f.manager, in)
	requireKind(t, apperr.KindConflict, err)

	_, err = f.svc.Evaluations.Create(ctx, f.admin, models.EvaluationInput{ApplicationID: a.ID, JuryMemberID: f.jury2.ID, Deadline: f.now})
	requireKind(t, apperr.KindForbidden, err)

	_, err = f.svc.Evaluations.Create(ctx, f.manager, models.EvaluationInput{ApplicationID: 9999, JuryMemberID: f.jury2.ID, Deadline: f.now})
	requireKind(t, apperr.KindNotFound, err)

	_, err = f.svc.Evaluations.Create(ctx, f.manager, models.EvaluationInput{ApplicationID: a.ID, JuryMemberID: f.candidate2.ID, Deadline: f.now})
	requireKind(t, apperr.KindNotFound, err)

	_, err = f.svc.Evaluations.Create(ctx, f.manager, models.EvaluationInput{ApplicationID: a.ID, JuryMemberID: 8888, Deadline: f.now})
	requireKind(t, apperr.KindNotFound, err)

	second, err := f.svc.Evaluations.Create(ctx, f.manager, models.EvaluationInput{ApplicationID: a.ID, JuryMemberID: f.jury2.ID, Deadline: f.now})
	require.NoError(t, err)
	require.NotEqual(t, e.ID, second.ID)
}

func TestCompletedDateSetOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, e := f.evaluation(t, f.jury)
	completedAt := f.now

	done, err := f.svc.Evaluations.Update(ctx, f.jury, e.ID, models.EvaluationUpdate{
		IsCompleted: ptr(true),
		Result:      ptr(models.ResultPositive),
		Report:      ptr("strong publication record"),
	})
	require.NoError(t, err)
	require.True(t, done.IsCompleted)
	require.NotNil(t, done.CompletedDate)
	require.True(t, completedAt.Equal(*done.CompletedDate))

	f.now = f.now.Add(72 * time.Hour)
	again, err := f.svc.Evaluations.Update(ctx, f.jury, e.ID, models.EvaluationUpdate{IsCompleted: ptr(true)})
	require.NoError(t, err)
	require.True(t, completedAt.Equal(*again.CompletedDate))

	edited, err := f.svc.Evaluations.Update(ctx, f.manager, e.ID, models.EvaluationUpdate{Report: ptr("revised")})
	require.NoError(t, err)
	require.Equal(t, "revised", *edited.Report)
	require.Equal(t, models.ResultPositive, *edited.Result)
	require.True(t, completedAt.Equal(*edited.CompletedDate))

	_, err = f.svc.Evaluations.Update(ctx, f.jury, e.ID, models.EvaluationUpdate{Result: ptr(models.EvaluationResult("maybe"))})
	requireKind(t, apperr.KindValidation, err)
}

func TestEvaluationScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, mine := f.evaluation(t, f.jury)
	_, theirs := f.evaluation(t, f.jury2)

	own, err := f.svc.Evaluations.List(ctx, f.jury, models.EvaluationFilter{JuryMemberID: &f.jury2.ID})
	require.NoError(t, err)
	require.Len(t, own, 1)
	require.Equal(t, mine.ID, own[0].ID)

	for _, u := range []*models.User{f.manager, f.admin, f.candidate} {
		all, err := f.svc.Evaluations.List(ctx, u, models.EvaluationFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
	}

	_, err = f.svc.Evaluations.Get(ctx, f.jury, theirs.ID)
	requireKind(t, apperr.KindForbidden, err)
	_, err = f.svc.Evaluations.Update(ctx, f.jury, theirs.ID, models.EvaluationUpdate{Report: ptr("x")})
	requireKind(t, apperr.KindForbidden, err)
	_, err = f.svc.Evaluations.Update(ctx, f.candidate, mine.ID, models.EvaluationUpdate{Report: ptr("x")})
	requireKind(t, apperr.KindForbidden, err)

	_, err = f.svc.Evaluations.Update(ctx, f.jury, mine.ID, models.EvaluationUpdate{IsCompleted: ptr(true)})
	require.NoError(t, err)
	done := true
	completed, err := f.svc.Evaluations.List(ctx, f.manager, models.EvaluationFilter{IsCompleted: &done})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, mine.ID, completed[0].ID)
}

func TestEvaluationUnknownCandidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, e := f.evaluation(t, f.jury)

	f.store.DeleteUserRow(f.candidate.ID)
	got, err := f.svc.Evaluations.Get(ctx, f.manager, e.ID)
	require.NoError(t, err)
	require.Equal(t, models.UnknownCandidate, got.CandidateName)
}

func TestDeleteEvaluation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, e := f.evaluation(t, f.jury)

	requireKind(t, apperr.KindForbidden, f.svc.Evaluations.Delete(ctx, f.jury, e.ID))
	require.NoError(t, f.svc.Evaluations.Delete(ctx, f.manager, e.ID))
	requireKind(t, apperr.KindNotFound, f.svc.Evaluations.Delete(ctx, f.manager, e.ID))
}

func TestCriteriaCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Criteria.Create(ctx, f.admin, models.CriteriaInput{PositionType: models.PositionProfessor, Name: "Articles"})
	requireKind(t, apperr.KindForbidden, err)

	c, err := f.svc.Criteria.Create(ctx, f.manager, models.CriteriaInput{PositionType: models.PositionProfessor, Name: "Articles"})
	require.NoError(t, err)
	require.True(t, c.Required)
	require.Equal(t, 1, c.MinCount)

	_, err = f.svc.Criteria.Create(ctx, f.manager, models.CriteriaInput{
		PositionType: models.PositionAssistantProfessor, Name: "Conferences", Required: ptr(false), MinCount: ptr(3),
	})
	require.NoError(t, err)

	professor := models.PositionProfessor
	list, err := f.svc.Criteria.List(ctx, f.candidate, &professor)
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := f.svc.Criteria.Update(ctx, f.manager, c.ID, models.CriteriaUpdate{MinCount: ptr(5)})
	require.NoError(t, err)
	require.Equal(t, 5, updated.MinCount)
	require.Equal(t, "Articles", updated.Name)

	_, err = f.svc.Criteria.Update(ctx, f.manager, c.ID, models.CriteriaUpdate{MinCount: ptr(-1)})
	requireKind(t, apperr.KindValidation, err)

	require.NoError(t, f.svc.Criteria.Delete(ctx, f.manager, c.ID))
	_, err = f.svc.Criteria.Get(ctx, f.jury, c.ID)
	requireKind(t, apperr.KindNotFound, err)
}

func TestJuryAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	members, err := f.svc.Jury.Members(ctx, f.manager, models.Page{})
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, "Jury One", members[0].Name)

	_, err = f.svc.Jury.Members(ctx, f.admin, models.Page{})
	requireKind(t, apperr.KindForbidden, err)

	_, err = f.svc.Jury.Assign(ctx, f.manager, models.JuryAssignmentInput{JuryMemberID: f.candidate.ID, Department: "Physics"})
	requireKind(t, apperr.KindNotFound, err)

	ja, err := f.svc.Jury.Assign(ctx, f.manager, models.JuryAssignmentInput{JuryMemberID: f.jury.ID, Department: "Physics"})
	require.NoError(t, err)
	require.Equal(t, f.manager.ID, ja.AssignedBy)

	dept := "Physics"
	list, err := f.svc.Jury.Assignments(ctx, f.candidate, models.JuryAssignmentFilter{Department: &dept})
	require.NoError(t, err)
	require.Len(t, list, 1)

	requireKind(t, apperr.KindForbidden, f.svc.Jury.Unassign(ctx, f.jury, ja.ID))
	require.NoError(t, f.svc.Jury.Unassign(ctx, f.manager, ja.ID))
	_, err = f.svc.Jury.Assignment(ctx, f.manager, ja.ID)
	requireKind(t, apperr.KindNotFound, err)
}
