package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/alnnovate/academy/internal/application"
	"github.com/alnnovate/academy/internal/domain/entity"
	"github.com/alnnovate/academy/pkg/response"
	"github.com/alnnovate/academy/pkg/validation"
)

type ExamHandler struct {
	Svc    *application.ExamService
	Logger *logrus.Logger
}

func NewExamHandler(svc *application.ExamService, logger *logrus.Logger) *ExamHandler {
	return &ExamHandler{Svc: svc, Logger: logger}
}

// missing arrays stay nil so the service can reject them
type addExamRequest struct {
	Name           string                 `json:"name"`
	Duration       string                 `json:"duration"`
	Fee            string                 `json:"fee"`
	Thumbnail      string                 `json:"thumbnail"`
	MCQs           []entity.MCQ           `json:"mcqs"`
	LongQuestions  []entity.LongQuestion  `json:"longQuestions"`
	CodingProblems []entity.CodingProblem `json:"codingProblems"`
}

// Add POST /api/addexam
func (h *ExamHandler) Add(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req addExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	exam, err := h.Svc.AddExam(c.Request.Context(), id.AccountID, application.AddExamInput{
		Name:           req.Name,
		Duration:       req.Duration,
		Fee:            req.Fee,
		Thumbnail:      req.Thumbnail,
		MCQs:           req.MCQs,
		LongQuestions:  req.LongQuestions,
		CodingProblems: req.CodingProblems,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"examId": exam.ID}, "Exam created successfully", nil)
}

// List GET /api/exams
func (h *ExamHandler) List(c *gin.Context) {
	exams, err := h.Svc.ListExams(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, http.StatusOK, exams, "Exams fetched", nil)
}

// Mine GET /api/myexams
func (h *ExamHandler) Mine(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	exams, err := h.Svc.MyExams(c.Request.Context(), id.AccountID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, http.StatusOK, exams, "Exams fetched", nil)
}

// Details GET /api/getexamdetails?exam=
func (h *ExamHandler) Details(c *gin.Context) {
	exam, err := h.Svc.ExamDetails(c.Request.Context(), c.Query("exam"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, exam, "Exam fetched", nil)
}

type applyExamRequest struct {
	ExamID string `json:"examId" binding:"required"`
}

// Apply POST /api/applyexam
func (h *ExamHandler) Apply(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req applyExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	applied, err := h.Svc.ApplyExam(c.Request.Context(), id.AccountID, req.ExamID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, applied, "Successfully applied for exam", nil)
}

// Delete DELETE /api/exams/:id
func (h *ExamHandler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteExam(c.Request.Context(), id.AccountID, c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Exam deleted successfully", nil)
}
