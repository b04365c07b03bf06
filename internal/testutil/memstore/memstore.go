// Package memstore provides in-memory repository fakes for tests.
package memstore

import (
	"context"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alnnovate/academy/internal/domain/entity"
	repo "github.com/alnnovate/academy/internal/domain/repository"
)

func newID() string { return primitive.NewObjectID().Hex() }

// validID mirrors the Mongo repositories: ids must be ObjectID hex.
func validID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

func cloneAccount(a *entity.Account) *entity.Account {
	c := *a
	c.EnrolledCourses = slices.Clone(a.EnrolledCourses)
	c.CreatedCourses = slices.Clone(a.CreatedCourses)
	c.CreatedExams = slices.Clone(a.CreatedExams)
	c.AppliedExams = slices.Clone(a.AppliedExams)
	if a.ResetOTPExpires != nil {
		t := *a.ResetOTPExpires
		c.ResetOTPExpires = &t
	}
	return &c
}

// Accounts implements repository.AccountRepository.
type Accounts struct {
	mu   sync.Mutex
	byID map[string]*entity.Account
	// Err, when set, is returned by every call.
	Err error
}

func NewAccounts() *Accounts {
	return &Accounts{byID: map[string]*entity.Account{}}
}

func (s *Accounts) Create(_ context.Context, a *entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, x := range s.byID {
		if x.Email == a.Email {
			return repo.ErrDuplicate
		}
	}
	if a.ID == "" {
		a.ID = newID()
	}
	s.byID[a.ID] = cloneAccount(a)
	return nil
}

func (s *Accounts) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *Accounts) GetByID(_ context.Context, id string) (*entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	a, ok := s.byID[id]
	if !ok || !validID(id) {
		return nil, repo.ErrNotFound
	}
	return cloneAccount(a), nil
}

func (s *Accounts) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, a := range s.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *Accounts) update(id string, fn func(a *entity.Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	a, ok := s.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	fn(a)
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Accounts) MarkVerified(_ context.Context, id string) error {
	return s.update(id, func(a *entity.Account) {
		a.Verified = true
		a.VerificationCode = ""
	})
}

func (s *Accounts) SetVerificationCode(_ context.Context, id, code string) error {
	return s.update(id, func(a *entity.Account) { a.VerificationCode = code })
}

func (s *Accounts) SetResetOTP(_ context.Context, id, code string, expires time.Time) error {
	return s.update(id, func(a *entity.Account) {
		a.ResetOTP = code
		a.ResetOTPExpires = &expires
	})
}

func (s *Accounts) UpdatePassword(_ context.Context, id, hash string) error {
	return s.update(id, func(a *entity.Account) {
		a.PasswordHash = hash
		a.ResetOTP = ""
		a.ResetOTPExpires = nil
	})
}

func (s *Accounts) AddEnrolledCourse(_ context.Context, id, courseID string) (bool, error) {
	added := false
	err := s.update(id, func(a *entity.Account) {
		if !slices.Contains(a.EnrolledCourses, courseID) {
			a.EnrolledCourses = append(a.EnrolledCourses, courseID)
			added = true
		}
	})
	return added, err
}

func (s *Accounts) AddCreatedCourse(_ context.Context, id, courseID string) error {
	return s.update(id, func(a *entity.Account) { a.CreatedCourses = append(a.CreatedCourses, courseID) })
}

func (s *Accounts) AddCreatedExam(_ context.Context, id, examID string) error {
	return s.update(id, func(a *entity.Account) { a.CreatedExams = append(a.CreatedExams, examID) })
}

func (s *Accounts) RemoveCreatedExam(_ context.Context, id, examID string) error {
	return s.update(id, func(a *entity.Account) {
		a.CreatedExams = slices.DeleteFunc(a.CreatedExams, func(x string) bool { return x == examID })
	})
}

func (s *Accounts) AddAppliedExam(_ context.Context, id string, ae entity.AppliedExam) (bool, error) {
	added := false
	err := s.update(id, func(a *entity.Account) {
		if !a.HasApplied(ae.ExamID) {
			a.AppliedExams = append(a.AppliedExams, ae)
			added = true
		}
	})
	return added, err
}

func (s *Accounts) ListByRole(_ context.Context, role entity.Role, page entity.Page) ([]entity.Account, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var all []entity.Account
	for _, a := range s.byID {
		if a.Role == role {
			all = append(all, *cloneAccount(a))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, page), int64(len(all)), nil
}

func (s *Accounts) CountByRole(_ context.Context, role entity.Role) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for _, a := range s.byID {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

// Put stores an account as is, for seeding tests.
func (s *Accounts) Put(a *entity.Account) *entity.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = newID()
	}
	s.byID[a.ID] = cloneAccount(a)
	return a
}

// Get returns a stored account or nil, bypassing Err.
func (s *Accounts) Get(id string) *entity.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.byID[id]; ok {
		return cloneAccount(a)
	}
	return nil
}

func (s *Accounts) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func paginate[T any](all []T, page entity.Page) []T {
	skip := page.Skip()
	if skip >= int64(len(all)) {
		return []T{}
	}
	start := int(skip)
	end := start + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// Courses implements repository.CourseRepository.
type Courses struct {
	mu   sync.Mutex
	byID map[string]entity.Course
	Err  error
}

func NewCourses() *Courses {
	return &Courses{byID: map[string]entity.Course{}}
}

func (s *Courses) Create(_ context.Context, c *entity.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if c.ID == "" {
		c.ID = newID()
	}
	s.byID[c.ID] = *c
	return nil
}

func (s *Courses) GetByID(_ context.Context, id string) (*entity.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.byID[id]
	if !ok || !validID(id) {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

func matchesCourse(c entity.Course, f entity.CourseFilter) bool {
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Level != "" && c.Level != f.Level {
		return false
	}
	if f.Language != "" && c.Language != f.Language {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(c.Title), q) || strings.Contains(strings.ToLower(c.Description), q) {
		return true
	}
	for _, t := range c.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func (s *Courses) List(_ context.Context, f entity.CourseFilter, page entity.Page) ([]entity.Course, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var all []entity.Course
	for _, c := range s.byID {
		if matchesCourse(c, f) {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, page), int64(len(all)), nil
}

func (s *Courses) ListByIDs(_ context.Context, ids []string) ([]entity.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []entity.Course{}
	for _, id := range ids {
		if c, ok := s.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Courses) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.byID)), s.Err
}

// Exams implements repository.ExamRepository.
type Exams struct {
	mu   sync.Mutex
	byID map[string]entity.Exam
	Err  error
}

func NewExams() *Exams {
	return &Exams{byID: map[string]entity.Exam{}}
}

func (s *Exams) Create(_ context.Context, e *entity.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if e.ID == "" {
		e.ID = newID()
	}
	s.byID[e.ID] = *e
	return nil
}

func (s *Exams) GetByID(_ context.Context, id string) (*entity.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	e, ok := s.byID[id]
	if !ok || !validID(id) {
		return nil, repo.ErrNotFound
	}
	return &e, nil
}

func (s *Exams) List(context.Context) ([]entity.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]entity.Exam, 0, len(s.byID))
	for _, e := range s.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Exams) ListByIDs(_ context.Context, ids []string) ([]entity.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []entity.Exam{}
	for _, id := range ids {
		if e, ok := s.byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Exams) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *Exams) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.byID)), s.Err
}

// Payments implements repository.PaymentRepository.
type Payments struct {
	mu   sync.Mutex
	rows []entity.Payment
	Err  error
}

func NewPayments() *Payments { return &Payments{} }

func (s *Payments) Create(_ context.Context, p *entity.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.rows = append(s.rows, *p)
	return nil
}

func (s *Payments) List(_ context.Context, f entity.PaymentFilter) ([]entity.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []entity.Payment{}
	for _, p := range s.rows {
		if f.Course != "" && p.CourseTitle != f.Course {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Date != nil && !p.PaidOn.Equal(*f.Date) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PaidOn.Equal(out[j].PaidOn) {
			return out[i].PaidOn.After(out[j].PaidOn)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Payments) Totals(context.Context) ([]entity.PaymentTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	idx := map[entity.PaymentStatus]int{}
	var out []entity.PaymentTotals
	for _, p := range s.rows {
		i, ok := idx[p.Status]
		if !ok {
			i = len(out)
			idx[p.Status] = i
			out = append(out, entity.PaymentTotals{Status: p.Status})
		}
		out[i].Count++
		out[i].Amount += p.Amount
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

// Audit implements repository.AuditRepository.
type Audit struct {
	mu      sync.Mutex
	Entries []entity.AuditLog
}

func (s *Audit) Insert(_ context.Context, l *entity.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries = append(s.Entries, *l)
	return nil
}

func (s *Audit) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		out = append(out, e.Action)
	}
	return out
}

// Index implements repository.StudentIndex with substring matching.
type Index struct {
	mu   sync.Mutex
	docs map[string]repo.StudentHit
}

func NewIndex() *Index { return &Index{docs: map[string]repo.StudentHit{}} }

func (s *Index) Index(_ context.Context, a *entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[a.ID] = repo.StudentHit{ID: a.ID, Email: a.Email, FullName: a.FullName, Role: string(a.Role), Verified: a.Verified}
	return nil
}

func (s *Index) Search(_ context.Context, q string, size int) ([]repo.StudentHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q = strings.ToLower(q)
	out := []repo.StudentHit{}
	for _, d := range s.docs {
		if strings.Contains(strings.ToLower(d.FullName), q) || strings.Contains(d.Email, q) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if len(out) > size {
		out = out[:size]
	}
	return out, nil
}

func (s *Index) Get(id string) (repo.StudentHit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	return d, ok
}

// Store implements repository.ObjectStore in memory.
type Store struct {
	mu           sync.Mutex
	Objects      map[string][]byte
	ContentTypes map[string]string
	Err          error
}

func NewStore() *Store {
	return &Store{Objects: map[string][]byte{}, ContentTypes: map[string]string{}}
}

func (s *Store) Put(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[objectPath] = b
	s.ContentTypes[objectPath] = contentType
	return "https://storage.example/" + objectPath, nil
}

// Mail is one captured notification.
type Mail struct {
	To        string
	Name      string
	Code      string
	Kind      string
	Resend    bool
	ExpiresAt time.Time
}

// Notifier records account emails instead of sending them.
type Notifier struct {
	mu   sync.Mutex
	Sent []Mail
	Err  error
}

func (n *Notifier) SendVerificationCode(_ context.Context, to, name, code string, resend bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Sent = append(n.Sent, Mail{To: to, Name: name, Code: code, Kind: "verification", Resend: resend})
	return nil
}

func (n *Notifier) SendResetOTP(_ context.Context, to, name, code string, expiresAt time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.Sent = append(n.Sent, Mail{To: to, Name: name, Code: code, Kind: "reset", ExpiresAt: expiresAt})
	return nil
}

// Last returns the most recent mail, or a zero Mail.
func (n *Notifier) Last() Mail {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Sent) == 0 {
		return Mail{}
	}
	return n.Sent[len(n.Sent)-1]
}
