package application

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnnovate/academy/internal/domain/entity"
	repo "github.com/alnnovate/academy/internal/domain/repository"
)

const DefaultCurrency = "INR"

// AdminService backs the admin dashboard and payments reporting.
type AdminService struct {
	Accounts repo.AccountRepository
	Courses  repo.CourseRepository
	Exams    repo.ExamRepository
	Payments repo.PaymentRepository
	Index    repo.StudentIndex // optional
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewAdminService(accounts repo.AccountRepository, courses repo.CourseRepository, exams repo.ExamRepository, payments repo.PaymentRepository, index repo.StudentIndex, logger *logrus.Logger) *AdminService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AdminService{Accounts: accounts, Courses: courses, Exams: exams, Payments: payments, Index: index, Logger: logger, Now: time.Now}
}

type Dashboard struct {
	Students    int64                  `json:"students"`
	Instructors int64                  `json:"instructors"`
	Courses     int64                  `json:"courses"`
	Exams       int64                  `json:"exams"`
	Payments    []entity.PaymentTotals `json:"payments"`
	Revenue     int64                  `json:"revenue"`
}

func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.Students, err = s.Accounts.CountByRole(ctx, entity.RoleStudent); err != nil {
		return nil, internal("count students", err)
	}
	if d.Instructors, err = s.Accounts.CountByRole(ctx, entity.RoleInstructor); err != nil {
		return nil, internal("count instructors", err)
	}
	if d.Courses, err = s.Courses.Count(ctx); err != nil {
		return nil, internal("count courses", err)
	}
	if d.Exams, err = s.Exams.Count(ctx); err != nil {
		return nil, internal("count exams", err)
	}
	if d.Payments, err = s.Payments.Totals(ctx); err != nil {
		return nil, internal("payment totals", err)
	}
	for _, t := range d.Payments {
		if t.Status == entity.PaymentPaid {
			d.Revenue += t.Amount
		}
	}
	return &d, nil
}

// StudentRow is one line of the admin student list.
type StudentRow struct {
	ID              string    `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	Verified        bool      `json:"verified"`
	EnrolledCourses int       `json:"enrolledCourses"`
	AppliedExams    int       `json:"appliedExams"`
	CreatedAt       time.Time `json:"createdAt"`
}

type StudentListing struct {
	Students []StudentRow
	Total    int64
}

func (s *AdminService) ListStudents(ctx context.Context, page entity.Page) (*StudentListing, error) {
	accs, total, err := s.Accounts.ListByRole(ctx, entity.RoleStudent, page)
	if err != nil {
		return nil, internal("list students", err)
	}
	rows := make([]StudentRow, 0, len(accs))
	for _, a := range accs {
		rows = append(rows, StudentRow{
			ID:              a.ID,
			FullName:        a.FullName,
			Email:           a.Email,
			Verified:        a.Verified,
			EnrolledCourses: len(a.EnrolledCourses),
			AppliedExams:    len(a.AppliedExams),
			CreatedAt:       a.CreatedAt,
		})
	}
	return &StudentListing{Students: rows, Total: total}, nil
}

// SearchStudents queries the student index. Without an index it returns no hits.
func (s *AdminService) SearchStudents(ctx context.Context, q string, size int) ([]repo.StudentHit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, newErr(KindInvalidInput, "Search query is required")
	}
	if size <= 0 || size > MaxLimit {
		size = 10
	}
	if s.Index == nil {
		return []repo.StudentHit{}, nil
	}
	hits, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, internal("search students", err)
	}
	return hits, nil
}

type RecordPaymentInput struct {
	StudentName  string
	StudentEmail string
	CourseTitle  string
	Amount       int64
	Currency     string
	PaidOn       time.Time
	Status       entity.PaymentStatus
}

func (s *AdminService) RecordPayment(ctx context.Context, in RecordPaymentInput) (*entity.Payment, error) {
	if !in.Status.Valid() {
		return nil, newErr(KindInvalidInput, "Invalid payment status")
	}
	if in.Amount <= 0 {
		return nil, newErr(KindInvalidInput, "Amount must be positive")
	}
	if strings.TrimSpace(in.StudentName) == "" || strings.TrimSpace(in.CourseTitle) == "" {
		return nil, newErr(KindInvalidInput, "Student and course are required")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	paidOn := in.PaidOn
	if paidOn.IsZero() {
		paidOn = s.Now()
	}
	p := &entity.Payment{
		StudentName:  strings.TrimSpace(in.StudentName),
		StudentEmail: NormalizeEmail(in.StudentEmail),
		CourseTitle:  strings.TrimSpace(in.CourseTitle),
		Amount:       in.Amount,
		Currency:     currency,
		PaidOn:       truncateDay(paidOn),
		Status:       in.Status,
	}
	if err := s.Payments.Create(ctx, p); err != nil {
		return nil, internal("record payment", err)
	}
	return p, nil
}

// ListPayments returns ledger rows matching the exact filters, newest first.
func (s *AdminService) ListPayments(ctx context.Context, f entity.PaymentFilter) ([]entity.Payment, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, newErr(KindInvalidInput, "Invalid payment status")
	}
	if f.Date != nil {
		d := truncateDay(*f.Date)
		f.Date = &d
	}
	rows, err := s.Payments.List(ctx, f)
	if err != nil {
		return nil, internal("list payments", err)
	}
	return rows, nil
}

// PaymentsCSVHeader is the header row of the payments export.
var PaymentsCSVHeader = []string{"ID", "Student", "Course", "Amount", "Date", "Status"}

// WritePaymentsCSV writes rows in the export layout.
func WritePaymentsCSV(w io.Writer, rows []entity.Payment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PaymentsCSVHeader); err != nil {
		return err
	}
	for _, p := range rows {
		rec := []string{
			p.ID,
			p.StudentName,
			p.CourseTitle,
			strconv.FormatInt(p.Amount, 10),
			p.PaidOn.Format(time.DateOnly),
			string(p.Status),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseDay parses a YYYY-MM-DD filter value.
func ParseDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, newErr(KindInvalidInput, "Date must be formatted as YYYY-MM-DD")
	}
	return &d, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
