package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alnnovate/academy/internal/domain/entity"
	repo "github.com/alnnovate/academy/internal/domain/repository"
	"github.com/alnnovate/academy/pkg/metrics"
	"github.com/alnnovate/academy/pkg/response"
)

// MaxThumbnailBytes caps thumbnail uploads.
const MaxThumbnailBytes = 5 << 20

// sniffBytes is how much of an upload is read to detect its type.
const sniffBytes = 3072

var thumbnailTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// CatalogService serves the course catalog, enrollment and course authoring.
type CatalogService struct {
	Courses  repo.CourseRepository
	Accounts repo.AccountRepository
	Store    repo.ObjectStore // optional
	Logger   *logrus.Logger
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

func NewCatalogService(courses repo.CourseRepository, accounts repo.AccountRepository, store repo.ObjectStore, logger *logrus.Logger, m *metrics.Metrics) *CatalogService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CatalogService{Courses: courses, Accounts: accounts, Store: store, Logger: logger, Metrics: m, Now: time.Now}
}

// CourseSummary is a catalog row: public course fields plus its instructor.
type CourseSummary struct {
	entity.Course
	Instructor *entity.Instructor `json:"instructor"`
}

type CourseListing struct {
	Courses    []CourseSummary     `json:"courses"`
	Pagination response.Pagination `json:"pagination"`
}

// NormalizeFilter drops the "all" sentinel the catalog UI sends.
func NormalizeFilter(f entity.CourseFilter) entity.CourseFilter {
	clean := func(v string) string {
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, "all") {
			return ""
		}
		return v
	}
	return entity.CourseFilter{
		Category: clean(f.Category),
		Level:    clean(f.Level),
		Language: clean(f.Language),
		Search:   strings.TrimSpace(f.Search),
	}
}

// ListCourses returns one page of the catalog, newest first. Each row is
// enriched with its instructor; a missing instructor yields null.
func (s *CatalogService) ListCourses(ctx context.Context, f entity.CourseFilter, page entity.Page) (*CourseListing, error) {
	courses, total, err := s.Courses.List(ctx, NormalizeFilter(f), page)
	if err != nil {
		return nil, internal("list courses", err)
	}
	out := make([]CourseSummary, 0, len(courses))
	for _, c := range courses {
		c.Videos = nil
		out = append(out, CourseSummary{Course: c, Instructor: s.instructor(ctx, c.InstructorID)})
	}
	return &CourseListing{Courses: out, Pagination: Pagination(page, total)}, nil
}

func (s *CatalogService) instructor(ctx context.Context, id string) *entity.Instructor {
	if id == "" {
		return nil
	}
	acc, err := s.Accounts.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithError(err).WithField("instructor_id", id).Warn("instructor lookup failed")
		}
		return nil
	}
	return &entity.Instructor{Name: acc.FullName, Email: acc.Email}
}

// CourseView is a single course as seen by the caller.
type CourseView struct {
	entity.Course
	Enrolled bool `json:"enrolled"`
}

// GetCourse returns public course metadata; videos are included only when
// viewer is enrolled. A viewer that cannot be resolved gets the public view.
func (s *CatalogService) GetCourse(ctx context.Context, courseID string, viewer *Identity) (*CourseView, error) {
	c, err := s.course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	view := &CourseView{Course: *c}
	view.Videos = nil
	if viewer != nil {
		acc, err := s.Accounts.GetByID(ctx, viewer.AccountID)
		if err == nil && acc.IsEnrolled(c.ID) {
			view.Videos = c.Videos
			view.Enrolled = true
		}
	}
	return view, nil
}

// Enroll adds the course to the account's enrollments. alreadyEnrolled is
// true when the course was present before the call.
func (s *CatalogService) Enroll(ctx context.Context, accountID, courseID string) (alreadyEnrolled bool, err error) {
	c, err := s.course(ctx, courseID)
	if err != nil {
		return false, err
	}
	added, err := s.Accounts.AddEnrolledCourse(ctx, accountID, c.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return false, newErr(KindNotFound, "User not found")
	}
	if err != nil {
		return false, internal("enroll", err)
	}
	if added {
		s.Metrics.Enrollment("enrolled")
	} else {
		s.Metrics.Enrollment("already_enrolled")
	}
	return !added, nil
}

type PublishCourseInput struct {
	Title       string
	Level       string
	Category    string
	Language    string
	Duration    float64
	Price       float64
	Description string
	Tags        []string
	Thumbnail   string
	Videos      []entity.Video
}

// PublishCourse creates a course authored by the account and records it
// on the author's createdCourses.
func (s *CatalogService) PublishCourse(ctx context.Context, accountID string, in PublishCourseInput) (*entity.Course, error) {
	if _, err := s.publisher(ctx, accountID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" || in.Level == "" || in.Category == "" ||
		in.Language == "" || strings.TrimSpace(in.Description) == "" || in.Thumbnail == "" {
		return nil, newErr(KindInvalidInput, "Missing required fields")
	}
	videos := in.Videos
	if videos == nil {
		videos = []entity.Video{}
	}
	now := s.Now().UTC()
	c := &entity.Course{
		Title:        strings.TrimSpace(in.Title),
		Level:        in.Level,
		Category:     in.Category,
		Language:     in.Language,
		Duration:     in.Duration,
		Price:        in.Price,
		Description:  strings.TrimSpace(in.Description),
		Tags:         CleanTags(in.Tags),
		Thumbnail:    in.Thumbnail,
		Videos:       videos,
		InstructorID: accountID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Courses.Create(ctx, c); err != nil {
		return nil, internal("Failed to create course", err)
	}
	if err := s.Accounts.AddCreatedCourse(ctx, accountID, c.ID); err != nil {
		return nil, internal("record created course", err)
	}
	return c, nil
}

// CleanTags trims tags and drops empty ones.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// MyCourseIDs lists the ids of courses the account created.
func (s *CatalogService) MyCourseIDs(ctx context.Context, accountID string) ([]string, error) {
	acc, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.CreatedCourses == nil {
		return []string{}, nil
	}
	return acc.CreatedCourses, nil
}

// MyCourseDetails returns the full documents of the account's courses.
func (s *CatalogService) MyCourseDetails(ctx context.Context, accountID string) ([]entity.Course, error) {
	ids, err := s.MyCourseIDs(ctx, accountID)
	if err != nil {
		return nil, err
	}
	courses, err := s.Courses.ListByIDs(ctx, ids)
	if err != nil {
		return nil, internal("load courses", err)
	}
	return courses, nil
}

// EnrolledCourses lists the account's enrolled courses without videos.
func (s *CatalogService) EnrolledCourses(ctx context.Context, accountID string) ([]entity.Course, error) {
	acc, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	courses, err := s.Courses.ListByIDs(ctx, acc.EnrolledCourses)
	if err != nil {
		return nil, internal("load courses", err)
	}
	for i := range courses {
		courses[i].Videos = nil
	}
	return courses, nil
}

// PlayCourse returns the full course with videos to enrolled accounts and
// to the course's own instructor.
func (s *CatalogService) PlayCourse(ctx context.Context, accountID, courseID string) (*entity.Course, error) {
	c, err := s.course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	acc, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !acc.IsEnrolled(c.ID) && c.InstructorID != acc.ID {
		return nil, newErr(KindForbidden, "You are not enrolled in this course")
	}
	return c, nil
}

// UploadThumbnail stores a course image and returns its public URL. The
// image type is detected from its leading bytes.
func (s *CatalogService) UploadThumbnail(ctx context.Context, accountID string, size int64, r io.Reader) (string, error) {
	if _, err := s.publisher(ctx, accountID); err != nil {
		return "", err
	}
	if size <= 0 || size > MaxThumbnailBytes {
		return "", newErr(KindInvalidInput, fmt.Sprintf("Thumbnail must be at most %d MiB", MaxThumbnailBytes>>20))
	}
	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", newErr(KindInvalidInput, "Thumbnail cannot be read")
	}
	head = head[:n]
	contentType := mimetype.Detect(head).String()
	ext, ok := thumbnailTypes[contentType]
	if !ok {
		return "", newErr(KindInvalidInput, "Thumbnail must be a JPEG, PNG or WebP image")
	}
	if s.Store == nil {
		return "", internal("thumbnail upload", errors.New("object store not configured"))
	}
	objectPath := path.Join("thumbnails", accountID, uuid.NewString()+ext)
	body := io.MultiReader(bytes.NewReader(head), r)
	url, err := s.Store.Put(ctx, objectPath, contentType, io.LimitReader(body, MaxThumbnailBytes))
	if err != nil {
		return "", internal("upload thumbnail", err)
	}
	return url, nil
}

func (s *CatalogService) course(ctx context.Context, id string) (*entity.Course, error) {
	c, err := s.Courses.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newErr(KindNotFound, "Course not found")
	}
	if err != nil {
		return nil, internal("load course", err)
	}
	return c, nil
}

func (s *CatalogService) account(ctx context.Context, id string) (*entity.Account, error) {
	acc, err := s.Accounts.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newErr(KindNotFound, "User not found")
	}
	if err != nil {
		return nil, internal("load account", err)
	}
	return acc, nil
}

// publisher loads the account and requires an instructor or admin role.
func (s *CatalogService) publisher(ctx context.Context, id string) (*entity.Account, error) {
	acc, err := s.account(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acc.Role.CanTeach() {
		return nil, newErr(KindForbidden, "Only instructors can publish courses")
	}
	return acc, nil
}
