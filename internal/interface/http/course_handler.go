package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/alnnovate/academy/internal/application"
	"github.com/alnnovate/academy/internal/domain/entity"
	"github.com/alnnovate/academy/internal/interface/middleware"
	"github.com/alnnovate/academy/pkg/response"
	"github.com/alnnovate/academy/pkg/validation"
)

type CourseHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewCourseHandler(svc *application.CatalogService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{Svc: svc, Logger: logger}
}

// List GET /api/courses and /api/courses/advance
func (h *CourseHandler) List(c *gin.Context) {
	page, err := application.ParsePage(c.Query("page"), c.Query("limit"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	f := entity.CourseFilter{
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Language: c.Query("language"),
		Search:   c.Query("search"),
	}
	listing, err := h.Svc.ListCourses(c.Request.Context(), f, page)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, listing, "Courses fetched", nil)
}

// Get GET /api/courses/:id; videos are included for enrolled callers only.
func (h *CourseHandler) Get(c *gin.Context) {
	var viewer *application.Identity
	if id, ok := middleware.IdentityFrom(c); ok {
		viewer = &id
	}
	view, err := h.Svc.GetCourse(c.Request.Context(), c.Param("id"), viewer)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Course fetched", nil)
}

// Enroll POST /api/courses/:id/enroll
func (h *CourseHandler) Enroll(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	courseID := c.Param("id")
	already, err := h.Svc.Enroll(c.Request.Context(), id.AccountID, courseID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	data := gin.H{"courseId": courseID, "already_enrolled": already}
	if already {
		response.Success(c, http.StatusOK, data, "Already enrolled in this course", nil)
		return
	}
	response.Success(c, http.StatusOK, data, "Enrolled successfully", nil)
}

// tagList accepts either a JSON array or a comma separated string.
type tagList []string

func (t *tagList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*t = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = strings.Split(s, ",")
	return nil
}

type publishCourseRequest struct {
	Title       string         `json:"title"`
	Level       string         `json:"level"`
	Category    string         `json:"category"`
	Language    string         `json:"language"`
	Duration    float64        `json:"duration" binding:"gte=0"`
	Price       float64        `json:"price" binding:"gte=0"`
	Description string         `json:"description"`
	Tags        tagList        `json:"tags"`
	Thumbnail   string         `json:"thumbnail"`
	Videos      []entity.Video `json:"videos"`
}

// Publish POST /api/publishcourse
func (h *CourseHandler) Publish(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	var req publishCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, validation.ToDetails(err))
		return
	}
	course, err := h.Svc.PublishCourse(c.Request.Context(), id.AccountID, application.PublishCourseInput{
		Title:       req.Title,
		Level:       req.Level,
		Category:    req.Category,
		Language:    req.Language,
		Duration:    req.Duration,
		Price:       req.Price,
		Description: req.Description,
		Tags:        req.Tags,
		Thumbnail:   req.Thumbnail,
		Videos:      req.Videos,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"courseId": course.ID}, "Course created successfully", nil)
}

// UploadThumbnail POST /api/courses/thumbnail (multipart field "image")
func (h *CourseHandler) UploadThumbnail(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		invalidPayload(c, map[string]string{"image": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		invalidPayload(c, map[string]string{"image": "cannot be read"})
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadThumbnail(c.Request.Context(), id.AccountID, fh.Size, f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, "Thumbnail uploaded", nil)
}

// MyCourses GET /api/mycourses
func (h *CourseHandler) MyCourses(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	ids, err := h.Svc.MyCourseIDs(c.Request.Context(), id.AccountID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": ids}, "Courses fetched", nil)
}

// MyCourseDetails GET /api/mycourses/details
func (h *CourseHandler) MyCourseDetails(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	courses, err := h.Svc.MyCourseDetails(c.Request.Context(), id.AccountID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, http.StatusOK, courses, "Courses fetched", nil)
}

// Enrolled GET /api/enrolledcourses
func (h *CourseHandler) Enrolled(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	courses, err := h.Svc.EnrolledCourses(c.Request.Context(), id.AccountID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, http.StatusOK, courses, "Enrolled courses fetched", nil)
}

// Play GET /api/playcourse/:id
func (h *CourseHandler) Play(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	course, err := h.Svc.PlayCourse(c.Request.Context(), id.AccountID, c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, course, "Course fetched", nil)
}
