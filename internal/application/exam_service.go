package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnnovate/academy/internal/domain/entity"
	repo "github.com/alnnovate/academy/internal/domain/repository"
	"github.com/alnnovate/academy/pkg/metrics"
)

type ExamService struct {
	Exams    repo.ExamRepository
	Accounts repo.AccountRepository
	Logger   *logrus.Logger
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

func NewExamService(exams repo.ExamRepository, accounts repo.AccountRepository, logger *logrus.Logger, m *metrics.Metrics) *ExamService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ExamService{Exams: exams, Accounts: accounts, Logger: logger, Metrics: m, Now: time.Now}
}

type AddExamInput struct {
	Name           string
	Duration       string
	Fee            string
	Thumbnail      string
	MCQs           []entity.MCQ
	LongQuestions  []entity.LongQuestion
	CodingProblems []entity.CodingProblem
}

// AddExam stores a new exam created by the account.
func (s *ExamService) AddExam(ctx context.Context, accountID string, in AddExamInput) (*entity.Exam, error) {
	if in.MCQs == nil || in.LongQuestions == nil || in.CodingProblems == nil {
		return nil, newErr(KindInvalidInput, "Invalid exam format")
	}
	e := &entity.Exam{
		Name:           in.Name,
		Duration:       in.Duration,
		Fee:            in.Fee,
		Thumbnail:      in.Thumbnail,
		MCQs:           in.MCQs,
		LongQuestions:  in.LongQuestions,
		CodingProblems: in.CodingProblems,
		CreatedAt:      s.Now().UTC(),
		CreatedBy:      accountID,
	}
	if err := s.Exams.Create(ctx, e); err != nil {
		return nil, internal("create exam", err)
	}
	if err := s.Accounts.AddCreatedExam(ctx, accountID, e.ID); err != nil {
		return nil, internal("record created exam", err)
	}
	return e, nil
}

// ListExams returns every exam without question bodies.
func (s *ExamService) ListExams(ctx context.Context) ([]entity.Exam, error) {
	exams, err := s.Exams.List(ctx)
	if err != nil {
		return nil, internal("list exams", err)
	}
	return publicExams(exams), nil
}

// ExamSummary is the creator's dashboard row.
type ExamSummary struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
}

func (s *ExamService) MyExams(ctx context.Context, accountID string) ([]ExamSummary, error) {
	acc, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	exams, err := s.Exams.ListByIDs(ctx, acc.CreatedExams)
	if err != nil {
		return nil, internal("load exams", err)
	}
	out := make([]ExamSummary, 0, len(exams))
	for _, e := range exams {
		out = append(out, ExamSummary{ID: e.ID, Name: e.Name, Thumbnail: e.Thumbnail})
	}
	return out, nil
}

// ExamDetails returns public exam metadata.
func (s *ExamService) ExamDetails(ctx context.Context, examID string) (*entity.Exam, error) {
	e, err := s.exam(ctx, examID)
	if err != nil {
		return nil, err
	}
	pub := e.Public()
	return &pub, nil
}

// ApplyExam records a pending application. A second application for the
// same exam is rejected and leaves the first one untouched.
func (s *ExamService) ApplyExam(ctx context.Context, accountID, examID string) (*entity.AppliedExam, error) {
	e, err := s.exam(ctx, examID)
	if err != nil {
		return nil, err
	}
	ae := entity.AppliedExam{ExamID: e.ID, AppliedAt: s.Now().UTC(), Status: entity.ApplicationPending}
	added, err := s.Accounts.AddAppliedExam(ctx, accountID, ae)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newErr(KindNotFound, "User not found")
	}
	if err != nil {
		return nil, internal("apply exam", err)
	}
	if !added {
		s.Metrics.ExamApplication("duplicate")
		return nil, newErr(KindInvalidInput, "You have already applied for this exam")
	}
	s.Metrics.ExamApplication("applied")
	return &ae, nil
}

// DeleteExam removes an exam; only its creator may do so.
func (s *ExamService) DeleteExam(ctx context.Context, accountID, examID string) error {
	e, err := s.exam(ctx, examID)
	if err != nil {
		return err
	}
	if e.CreatedBy != accountID {
		return newErr(KindForbidden, "Only the exam creator can delete it")
	}
	if err := s.Exams.Delete(ctx, e.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newErr(KindNotFound, "Exam not found")
		}
		return internal("delete exam", err)
	}
	if err := s.Accounts.RemoveCreatedExam(ctx, accountID, e.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return internal("unlink exam", err)
	}
	return nil
}

func (s *ExamService) exam(ctx context.Context, id string) (*entity.Exam, error) {
	e, err := s.Exams.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newErr(KindNotFound, "Exam not found")
	}
	if err != nil {
		return nil, internal("load exam", err)
	}
	return e, nil
}

func (s *ExamService) account(ctx context.Context, id string) (*entity.Account, error) {
	acc, err := s.Accounts.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newErr(KindNotFound, "User not found")
	}
	if err != nil {
		return nil, internal("load account", err)
	}
	return acc, nil
}

func publicExams(exams []entity.Exam) []entity.Exam {
	out := make([]entity.Exam, 0, len(exams))
	for _, e := range exams {
		out = append(out, e.Public())
	}
	return out
}
