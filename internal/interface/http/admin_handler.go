package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/alnnovate/academy/internal/application"
	"github.com/alnnovate/academy/internal/domain/entity"
	"github.com/alnnovate/academy/internal/interface/middleware"
	"github.com/alnnovate/academy/pkg/response"
	"github.com/alnnovate/academy/pkg/validation"
)

type AdminHandler struct {
	Svc    *application.AdminService
	Audit  *Auditor
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.AdminService, audit *Auditor, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Audit: audit, Logger: logger}
}

// Dashboard GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.Svc.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, d, "Dashboard fetched", nil)
}

// Students GET /api/admin/students?page=&limit=
func (h *AdminHandler) Students(c *gin.Context) {
	page, err := application.ParsePage(c.Query("page"), c.Query("limit"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	listing, err := h.Svc.ListStudents(c.Request.Context(), page)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, http.StatusOK, listing.Students, "Students fetched", application.Pagination(page, listing.Total))
}

// SearchStudents GET /api/admin/students/search?q=&size=
func (h *AdminHandler) SearchStudents(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.SearchStudents(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, http.StatusOK, hits, "Students fetched", nil)
}

type recordPaymentRequest struct {
	StudentName  string `json:"student" binding:"required"`
	StudentEmail string `json:"email" binding:"omitempty,email"`
	CourseTitle  string `json:"course" binding:"required"`
	Amount       int64  `json:"amount" binding:"required,gt=0"`
	Currency     string `json:"currency" binding:"omitempty,len=3"`
	Date         string `json:"date"`
	Status       string `json:"status" binding:"required,paystatus"`
}

// RecordPayment POST /api/admin/payments
func (h *AdminHandler) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	day, err := application.ParseDay(req.Date)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	in := application.RecordPaymentInput{
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		CourseTitle:  req.CourseTitle,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Status:       entity.PaymentStatus(req.Status),
	}
	if day != nil {
		in.PaidOn = *day
	}
	p, err := h.Svc.RecordPayment(c.Request.Context(), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if id, ok := middleware.IdentityFrom(c); ok {
		h.Audit.Record(c, id.AccountID, id.Email, entity.AuditPaymentRecorded, map[string]any{
			"payment_id": p.ID,
			"amount":     p.Amount,
			"status":     string(p.Status),
		})
	}
	response.Success(c, http.StatusCreated, p, "Payment recorded", nil)
}

func (h *AdminHandler) paymentFilter(c *gin.Context) (entity.PaymentFilter, error) {
	day, err := application.ParseDay(c.Query("date"))
	if err != nil {
		return entity.PaymentFilter{}, err
	}
	return entity.PaymentFilter{
		Course: c.Query("course"),
		Status: entity.PaymentStatus(c.Query("status")),
		Date:   day,
	}, nil
}

// Payments GET /api/admin/payments?course=&status=&date=
func (h *AdminHandler) Payments(c *gin.Context) {
	f, err := h.paymentFilter(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	rows, err := h.Svc.ListPayments(c.Request.Context(), f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, http.StatusOK, rows, "Payments fetched", nil)
}

// ExportPayments GET /api/admin/payments/export?course=&status=&date=
func (h *AdminHandler) ExportPayments(c *gin.Context) {
	f, err := h.paymentFilter(c)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	rows, err := h.Svc.ListPayments(c.Request.Context(), f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	var buf bytes.Buffer
	if err := application.WritePaymentsCSV(&buf, rows); err != nil {
		fail(c, h.Logger, err)
		return
	}
	name := "payments-" + time.Now().UTC().Format(time.DateOnly) + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
