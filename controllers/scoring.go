package controllers

import (
	"github.com/LakshyaP28/examportal_backend/models"
)

const (
	statusCorrect = "Correct"
	statusWrong   = "Wrong"
	statusSkipped = "Skipped"
)

// QuestionResult is one row of the scoring breakdown returned after an
// exam submission.
type QuestionResult struct {
	Question   string `json:"question"`
	YourAnswer string `json:"your_answer"`
	Status     string `json:"status"`
}

// scoreSubmission grades the submitted answers against the stored answer
// keys, in question order. Correct answers add the question's marks, wrong
// answers subtract its negative marks and skipped questions leave the score
// untouched. The score is never clamped: heavy negative marking can produce
// a net-negative result. Answer comparison is an exact string match against
// the stored correct set, with no case or whitespace normalization.
func scoreSubmission(questions []models.Question, answers map[int]string) (score int, total int, results []QuestionResult) {
	results = make([]QuestionResult, 0, len(questions))
	for _, q := range questions {
		total += q.Marks

		answer := answers[q.ID]
		if answer == "" {
			results = append(results, QuestionResult{
				Question:   q.Text,
				YourAnswer: "Not answered",
				Status:     statusSkipped,
			})
			continue
		}

		correct := false
		for _, want := range q.Correct {
			if answer == want {
				correct = true
				break
			}
		}
		if correct {
			score += q.Marks
			results = append(results, QuestionResult{
				Question:   q.Text,
				YourAnswer: answer,
				Status:     statusCorrect,
			})
		} else {
			score -= q.Negative
			results = append(results, QuestionResult{
				Question:   q.Text,
				YourAnswer: answer,
				Status:     statusWrong,
			})
		}
	}
	return score, total, results
}
