package entity

import "time"

type MCQ struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Marks    string   `json:"marks"`
}

type LongQuestion struct {
	Question string `json:"question"`
	Marks    string `json:"marks"`
}

type CodingProblem struct {
	Problem string `json:"problem"`
	Marks   string `json:"marks"`
}

type Exam struct {
	ID             string          `json:"_id"`
	Name           string          `json:"name"`
	Duration       string          `json:"duration"`
	Fee            string          `json:"fee"`
	Thumbnail      string          `json:"thumbnail"`
	MCQs           []MCQ           `json:"mcqs,omitempty"`
	LongQuestions  []LongQuestion  `json:"longQuestions,omitempty"`
	CodingProblems []CodingProblem `json:"codingProblems,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}

// Public strips question bodies.
func (e Exam) Public() Exam {
	e.MCQs = nil
	e.LongQuestions = nil
	e.CodingProblems = nil
	return e
}
