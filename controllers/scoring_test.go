package controllers

import (
	"testing"

	"github.com/LakshyaP28/examportal_backend/models"
)

func TestScoreSubmission_Breakdown(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Text: "Q1", Marks: 1, Negative: 0, Correct: []string{"A"}},
		{ID: 2, Text: "Q2", Marks: 2, Negative: 1, Correct: []string{"B"}},
		{ID: 3, Text: "Q3", Marks: 1, Negative: 0, Correct: []string{"True"}},
	}
	answers := map[int]string{1: "A", 2: "C"}

	score, total, results := scoreSubmission(questions, answers)

	if score != 0 {
		t.Fatalf("score = %d, want 0", score)
	}
	if total != 4 {
		t.Fatalf("total = %d, want 4", total)
	}
	wantStatuses := []string{statusCorrect, statusWrong, statusSkipped}
	if len(results) != len(wantStatuses) {
		t.Fatalf("results len = %d, want %d", len(results), len(wantStatuses))
	}
	for i, want := range wantStatuses {
		if results[i].Status != want {
			t.Errorf("results[%d].Status = %q, want %q", i, results[i].Status, want)
		}
	}
	if results[2].YourAnswer != "Not answered" {
		t.Errorf("skipped answer = %q, want %q", results[2].YourAnswer, "Not answered")
	}
}

func TestScoreSubmission_NegativeScoreNotClamped(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Text: "Q1", Marks: 1, Negative: 5, Correct: []string{"A"}},
	}
	score, total, _ := scoreSubmission(questions, map[int]string{1: "B"})

	if score != -5 {
		t.Fatalf("score = %d, want -5", score)
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
}

func TestScoreSubmission_ExactStringMatch(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{name: "exact match", answer: "Paris", want: statusCorrect},
		{name: "different case", answer: "paris", want: statusWrong},
		{name: "leading space", answer: " Paris", want: statusWrong},
		{name: "trailing space", answer: "Paris ", want: statusWrong},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			questions := []models.Question{
				{ID: 1, Text: "Capital of France?", Marks: 1, Negative: 1, Correct: []string{"Paris"}},
			}
			_, _, results := scoreSubmission(questions, map[int]string{1: tc.answer})
			if results[0].Status != tc.want {
				t.Fatalf("status = %q, want %q", results[0].Status, tc.want)
			}
		})
	}
}

func TestScoreSubmission_MultipleCorrectAnswers(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Text: "Q1", Marks: 3, Negative: 1, Correct: []string{"A", "C"}},
	}

	score, _, results := scoreSubmission(questions, map[int]string{1: "C"})
	if score != 3 || results[0].Status != statusCorrect {
		t.Fatalf("score = %d status = %q, want 3 %q", score, results[0].Status, statusCorrect)
	}
}

func TestScoreSubmission_EmptyCorrectSetNeverMatches(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Text: "Q1", Marks: 2, Negative: 1, Correct: []string{}},
	}

	score, total, results := scoreSubmission(questions, map[int]string{1: "True"})
	if score != -1 || total != 2 || results[0].Status != statusWrong {
		t.Fatalf("score = %d total = %d status = %q, want -1 2 %q", score, total, results[0].Status, statusWrong)
	}
}

func TestScoreSubmission_NoQuestions(t *testing.T) {
	score, total, results := scoreSubmission(nil, nil)
	if score != 0 || total != 0 || len(results) != 0 {
		t.Fatalf("score = %d total = %d results = %d, want all zero", score, total, len(results))
	}
}
