package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListingAcceptsApplications(t *testing.T) {
	deadline := time.Date(2026, 5, 1, 17, 0, 0, 0, time.UTC)
	l := Listing{Status: ListingActive, Deadline: deadline}

	require.True(t, l.AcceptsApplications(deadline.Add(-time.Hour)))
	require.True(t, l.AcceptsApplications(deadline))
	require.False(t, l.AcceptsApplications(deadline.Add(time.Second)))

	l.Status = ListingExpired
	require.False(t, l.AcceptsApplications(deadline.Add(-time.Hour)))
}

func TestApplicationUpdateSetsStatus(t *testing.T) {
	cases := map[string]bool{
		`{"manager_notes":"x"}`:  false,
		`{}`:                     false,
		`{"status":null}`:        true,
		`{"status":"pending"}`:   true,
		`{"status":"anything"}`:  true,
	}
	for body, want := range cases {
		var p ApplicationUpdate
		require.NoError(t, json.Unmarshal([]byte(body), &p), body)
		require.Equal(t, want, p.SetsStatus(), body)
	}

	var p ApplicationUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"status":"approved","manager_notes":"ok"}`), &p))
	require.Equal(t, ApplicationApproved, *p.Status)
	require.Equal(t, "ok", *p.ManagerNotes)
}

func TestEvaluationUpdateCompletedDate(t *testing.T) {
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)
	yes, no := true, false

	e := &Evaluation{}
	EvaluationUpdate{IsCompleted: &yes}.Apply(e, first)
	require.True(t, e.IsCompleted)
	require.Equal(t, first, *e.CompletedDate)

	report := "done"
	EvaluationUpdate{IsCompleted: &yes, Report: &report}.Apply(e, later)
	require.Equal(t, first, *e.CompletedDate)
	require.Equal(t, "done", *e.Report)

	EvaluationUpdate{IsCompleted: &no}.Apply(e, later)
	require.False(t, e.IsCompleted)
	require.Equal(t, first, *e.CompletedDate)
}

func TestDocumentPath(t *testing.T) {
	a := &Application{}
	for _, slot := range DocumentSlots {
		field := a.DocumentPath(slot)
		require.NotNil(t, field, slot)
		rel := string(slot) + "/x.pdf"
		*field = &rel
	}
	require.Equal(t, "cv/x.pdf", *a.CVPath)
	require.Equal(t, "conferences/x.pdf", *a.ConferencesPath)
	require.Nil(t, a.DocumentPath("photos"))
}

func TestNewEvaluationDetailDefaultsCandidateName(t *testing.T) {
	row := EvaluationRow{JuryName: "J", Position: PositionProfessor, Department: "Math"}
	require.Equal(t, UnknownCandidate, NewEvaluationDetail(row, "").CandidateName)
	require.Equal(t, "Ada", NewEvaluationDetail(row, "Ada").CandidateName)
}

func TestPositionWireValues(t *testing.T) {
	for _, p := range []Position{PositionAssistantProfessor, PositionAssociateProfessor, PositionProfessor} {
		require.True(t, p.Valid(), p)
	}
	require.Equal(t, Position("assistant_professor"), PositionAssistantProfessor)
	require.Equal(t, Position("associate_professor"), PositionAssociateProfessor)
	require.False(t, Position("assistant-professor").Valid())
	require.False(t, Position("associate-professor").Valid())
}
