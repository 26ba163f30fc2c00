package controllers

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/LakshyaP28/examportal_backend/models"
	"github.com/LakshyaP28/examportal_backend/util"
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

// examTimeLayout matches the value format of HTML datetime-local inputs.
const examTimeLayout = "2006-01-02T15:04"

// maxQuestionGroups bounds the sequentially indexed q{i}_* field groups
// accepted per exam form.
const maxQuestionGroups = 100

// parseExamWindow parses and validates the exam time window and derives the
// stored duration in whole minutes.
func parseExamWindow(startStr, endStr string) (start, end time.Time, duration int, err error) {
	start, err = time.Parse(examTimeLayout, startStr)
	if err != nil {
		return start, end, 0, fmt.Errorf("invalid start time: %w", err)
	}
	end, err = time.Parse(examTimeLayout, endStr)
	if err != nil {
		return start, end, 0, fmt.Errorf("invalid end time: %w", err)
	}
	if !start.Before(end) {
		return start, end, 0, fmt.Errorf("start time must be before end time")
	}
	duration = int(end.Sub(start).Minutes())
	return start, end, duration, nil
}

// parseQuestionFields extracts the sequentially indexed question field
// groups (q1_text, q1_type, q1_option1, ...) from a submitted exam form.
// Groups with an empty text field are skipped. For mcq questions empty
// option slots are dropped and an option joins the correct set when its
// q{i}_correct{j} checkbox key is present; truefalse questions always store
// the two canonical options.
func parseQuestionFields(form url.Values) ([]models.Question, error) {
	var questions []models.Question
	for i := 1; i <= maxQuestionGroups; i++ {
		text := form.Get(fmt.Sprintf("q%d_text", i))
		if text == "" {
			continue
		}

		qType := form.Get(fmt.Sprintf("q%d_type", i))
		if qType != models.QuestionTypeMCQ && qType != models.QuestionTypeTrueFalse {
			return nil, fmt.Errorf("question %d: invalid type %q", i, qType)
		}

		marks := 1
		if v := form.Get(fmt.Sprintf("q%d_marks", i)); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 0 {
				return nil, fmt.Errorf("question %d: invalid marks %q", i, v)
			}
			marks = parsed
		}
		negative := 0
		if v := form.Get(fmt.Sprintf("q%d_negative", i)); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 0 {
				return nil, fmt.Errorf("question %d: invalid negative marks %q", i, v)
			}
			negative = parsed
		}

		var difficulty *string
		if v := form.Get(fmt.Sprintf("q%d_difficulty", i)); v != "" {
			difficulty = &v
		}

		var options, correct []string
		if qType == models.QuestionTypeMCQ {
			for j := 1; j <= 4; j++ {
				opt := form.Get(fmt.Sprintf("q%d_option%d", i, j))
				if opt == "" {
					continue
				}
				options = append(options, opt)
				if _, ok := form[fmt.Sprintf("q%d_correct%d", i, j)]; ok {
					correct = append(correct, opt)
				}
			}
			if len(options) == 0 {
				return nil, fmt.Errorf("question %d: mcq needs at least one option", i)
			}
		} else {
			options = []string{"True", "False"}
			if ans := form.Get(fmt.Sprintf("q%d_truefalse", i)); ans != "" {
				correct = []string{ans}
			}
		}

		questions = append(questions, models.Question{
			Text:       text,
			Type:       qType,
			Marks:      marks,
			Negative:   negative,
			Difficulty: difficulty,
			Options:    options,
			Correct:    correct,
		})
	}
	return questions, nil
}

// postForm collects the form-encoded body of the request into url.Values.
func postForm(c *fiber.Ctx) url.Values {
	form := url.Values{}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		form.Add(string(key), string(value))
	})
	return form
}

func fetchExamByID(examID int) (models.Exam, error) {
	var exam models.Exam
	err := util.DB.QueryRow(
		`SELECT id, title, start_time, end_time, duration FROM exams WHERE id = $1`, examID,
	).Scan(&exam.ID, &exam.Title, &exam.StartTime, &exam.EndTime, &exam.Duration)
	return exam, err
}

// fetchQuestionsByExam returns the exam's questions in stored order.
func fetchQuestionsByExam(examID int) ([]models.Question, error) {
	rows, err := util.DB.Query(
		`SELECT id, exam_id, q_text, q_type, marks, negative, difficulty, options, correct
		 FROM questions WHERE exam_id = $1 ORDER BY id`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.ExamID, &q.Text, &q.Type, &q.Marks, &q.Negative,
			&q.Difficulty, &q.Options, &q.Correct); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListExams serves the service descriptor with all exams.
func ListExams(c *fiber.Ctx) error {
	rows, err := util.DB.Query(`SELECT id, title, start_time, end_time, duration FROM exams ORDER BY start_time`)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch exams",
		})
	}
	defer rows.Close()

	exams := []models.Exam{}
	for rows.Next() {
		var exam models.Exam
		if err := rows.Scan(&exam.ID, &exam.Title, &exam.StartTime, &exam.EndTime, &exam.Duration); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Failed to read exam row",
			})
		}
		exams = append(exams, exam)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"service": "examportal_backend",
		"exams":   exams,
	})
}

// CreateExam inserts a new exam and its question rows in one transaction.
func CreateExam(c *fiber.Ctx) error {
	form := postForm(c)

	title := form.Get("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Title is required",
		})
	}

	start, end, duration, err := parseExamWindow(form.Get("start_time"), form.Get("end_time"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	questions, err := parseQuestionFields(form)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	tx, err := util.DB.Begin()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to start transaction",
		})
	}
	defer tx.Rollback()

	var examID int
	err = tx.QueryRow(
		`INSERT INTO exams (title, start_time, end_time, duration) VALUES ($1, $2, $3, $4) RETURNING id`,
		title, start, end, duration,
	).Scan(&examID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to insert exam",
		})
	}

	for _, q := range questions {
		_, err = tx.Exec(
			`INSERT INTO questions (exam_id, q_text, q_type, marks, negative, difficulty, options, correct)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			examID, q.Text, q.Type, q.Marks, q.Negative, q.Difficulty,
			pq.Array([]string(q.Options)), pq.Array([]string(q.Correct)),
		)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Failed to insert question",
			})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to commit transaction",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Exam created successfully",
		"exam_id": examID,
	})
}

// EditExam updates an exam and maps the i-th submitted question field group
// onto the i-th stored question row (ordered by id). The positional form
// contract comes from the exam editor UI; groups with an empty text are
// skipped and stored rows beyond the submitted groups are left untouched.
func EditExam(c *fiber.Ctx) error {
	examID, err := c.ParamsInt("exam_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid exam id",
		})
	}

	if _, err := fetchExamByID(examID); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Exam not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch exam",
		})
	}

	form := postForm(c)
	title := form.Get("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Title is required",
		})
	}

	start, end, duration, err := parseExamWindow(form.Get("start_time"), form.Get("end_time"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	stored, err := fetchQuestionsByExam(examID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch questions",
		})
	}

	tx, err := util.DB.Begin()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to start transaction",
		})
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE exams SET title = $1, start_time = $2, end_time = $3, duration = $4 WHERE id = $5`,
		title, start, end, duration, examID,
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to update exam",
		})
	}

	for i, existing := range stored {
		group := fmt.Sprintf("q%d", i+1)
		text := form.Get(group + "_text")
		if text == "" {
			continue
		}

		sub := url.Values{}
		for key, vals := range form {
			if len(key) > len(group) && key[:len(group)+1] == group+"_" {
				sub["q1_"+key[len(group)+1:]] = vals
			}
		}
		parsed, err := parseQuestionFields(sub)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		if len(parsed) == 0 {
			continue
		}
		q := parsed[0]

		_, err = tx.Exec(
			`UPDATE questions SET q_text = $1, q_type = $2, marks = $3, negative = $4, difficulty = $5,
			 options = $6, correct = $7 WHERE id = $8`,
			q.Text, q.Type, q.Marks, q.Negative, q.Difficulty,
			pq.Array([]string(q.Options)), pq.Array([]string(q.Correct)), existing.ID,
		)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Failed to update question",
			})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to commit transaction",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Exam updated successfully",
	})
}

// ViewExam returns the exam with its full question rows, answer keys
// included. Restricted to exam authors by the router.
func ViewExam(c *fiber.Ctx) error {
	examID, err := c.ParamsInt("exam_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid exam id",
		})
	}

	exam, err := fetchExamByID(examID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Exam not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch exam",
		})
	}

	questions, err := fetchQuestionsByExam(examID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch questions",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "success",
		"exam":      exam,
		"questions": questions,
	})
}

// Instructions returns the exam metadata shown before an attempt starts.
func Instructions(c *fiber.Ctx) error {
	examID, err := c.ParamsInt("exam_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid exam id",
		})
	}

	exam, err := fetchExamByID(examID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Exam not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch exam",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"exam":   exam,
	})
}

// takeExamQuestion is the candidate-facing question shape: no answer key.
type takeExamQuestion struct {
	ID         int      `json:"id"`
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	Marks      int      `json:"marks"`
	Negative   int      `json:"negative"`
	Difficulty *string  `json:"difficulty"`
	Options    []string `json:"options"`
}

// TakeExamGet renders the exam for a candidate with the countdown length
// in seconds. Correct-answer sets are stripped.
func TakeExamGet(c *fiber.Ctx) error {
	examID, err := c.ParamsInt("exam_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid exam id",
		})
	}

	exam, err := fetchExamByID(examID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Exam not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch exam",
		})
	}

	questions, err := fetchQuestionsByExam(examID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch questions",
		})
	}

	visible := make([]takeExamQuestion, 0, len(questions))
	for _, q := range questions {
		visible = append(visible, takeExamQuestion{
			ID:         q.ID,
			Text:       q.Text,
			Type:       q.Type,
			Marks:      q.Marks,
			Negative:   q.Negative,
			Difficulty: q.Difficulty,
			Options:    q.Options,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":           "success",
		"exam":             exam,
		"questions":        visible,
		"duration_seconds": exam.Duration * 60,
	})
}

// TakeExamPost grades a submission. Answers arrive as question_{id} form
// fields; absent fields count as skipped.
func TakeExamPost(c *fiber.Ctx) error {
	examID, err := c.ParamsInt("exam_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid exam id",
		})
	}

	exam, err := fetchExamByID(examID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Exam not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch exam",
		})
	}

	questions, err := fetchQuestionsByExam(examID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch questions",
		})
	}

	form := postForm(c)
	answers := make(map[int]string, len(questions))
	for _, q := range questions {
		if v := form.Get(fmt.Sprintf("question_%d", q.ID)); v != "" {
			answers[q.ID] = v
		}
	}

	score, total, results := scoreSubmission(questions, answers)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Exam Submitted! You scored %d out of %d.", score, total),
		"exam":    exam,
		"score":   score,
		"total":   total,
		"results": results,
	})
}

// DeleteExam removes the exam row together with all of its question rows.
func DeleteExam(c *fiber.Ctx) error {
	examID, err := c.ParamsInt("exam_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid exam id",
		})
	}

	tx, err := util.DB.Begin()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to start transaction",
		})
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM questions WHERE exam_id = $1`, examID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to delete questions",
		})
	}

	res, err := tx.Exec(`DELETE FROM exams WHERE id = $1`, examID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to delete exam",
		})
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "Exam not found",
		})
	}

	if err := tx.Commit(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to commit transaction",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Exam deleted successfully",
	})
}
