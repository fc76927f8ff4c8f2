package extract

import (
	"testing"

	"github.com/crimesight/crime-risk-service/internal/models"
)

func TestIsCrimeQuery_AcceptsFullSingleTurn(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"coordinates keyword and clock time", "What's the crime risk at 41.8781, -87.6298 at 10pm?"},
		{"safety keyword with period", "Is it safe at 41.8781, -87.6298 in the evening?"},
		{"danger keyword", "How dangerous is 41.8781, -87.6298 at 3am?"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !IsCrimeQuery(tc.query, NewContext()) {
				t.Errorf("IsCrimeQuery(%q) = false, want true", tc.query)
			}
		})
	}
}

func TestIsCrimeQuery_RejectsWithoutAllThreeSignals(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"no coordinates", "Is it safe downtown at 10pm?"},
		{"no keyword", "What's the weather at 41.8781, -87.6298 at 10pm?"},
		{"unrelated", "Tell me a joke"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if IsCrimeQuery(tc.query, NewContext()) {
				t.Errorf("IsCrimeQuery(%q) = true, want false", tc.query)
			}
		})
	}
}

func TestIsCrimeQuery_FollowUpRequiresContext(t *testing.T) {
	query := "What about at 2am?"

	if IsCrimeQuery(query, NewContext()) {
		t.Error("follow-up accepted with fresh context, want rejected")
	}

	ctx := NewContext()
	ctx.LastQueryType = models.QueryTypeCrimePrediction
	if !IsCrimeQuery(query, ctx) {
		t.Error("follow-up rejected after a crime-prediction turn, want accepted")
	}
}

func TestIsCrimeQuery_FollowUpAnchors(t *testing.T) {
	ctx := NewContext()
	ctx.LastQueryType = models.QueryTypeCrimePrediction

	accepted := []string{
		"how about tomorrow?",
		"and at midnight?",
		"tomorrow then?",
		"tonight?",
		"is it worse on weekends?",
		"friday evening?",
	}
	for _, q := range accepted {
		if !IsCrimeQuery(q, ctx) {
			t.Errorf("IsCrimeQuery(%q) with context = false, want true", q)
		}
	}

	if IsCrimeQuery("tell me about the city's history", ctx) {
		t.Error("non-follow-up accepted purely because context exists")
	}
}

func TestIsWeeklyRequest(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"Give me a weekly forecast for downtown Chicago", true},
		{"crime forecast for the week at 41.8781, -87.6298", true},
		{"what does the next 7 days look like?", true},
		{"risk for the whole week", true},
		{"What's the crime risk at 10pm?", false},
		{"is it safe this weekend?", false},
	}
	for _, tc := range tests {
		if got := IsWeeklyRequest(tc.query); got != tc.want {
			t.Errorf("IsWeeklyRequest(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}
