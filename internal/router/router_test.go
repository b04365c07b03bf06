package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alnnovate/academy/config"
	"github.com/alnnovate/academy/internal/container"
	"github.com/alnnovate/academy/internal/domain/entity"
	"github.com/alnnovate/academy/internal/interface/middleware"
	"github.com/alnnovate/academy/internal/testutil/memstore"
	"github.com/alnnovate/academy/pkg/helpers"
	"github.com/alnnovate/academy/pkg/metrics"
	"github.com/alnnovate/academy/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	helpers.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type testApp struct {
	engine   *gin.Engine
	accounts *memstore.Accounts
	courses  *memstore.Courses
	exams    *memstore.Exams
	payments *memstore.Payments
	audit    *memstore.Audit
	mail     *memstore.Notifier
	store    *memstore.Store
}

func testConfig(env string) *config.Config {
	return &config.Config{
		Env:              env,
		JWTSecret:        "test-secret",
		SessionTTL:       time.Hour,
		RememberTTL:      7 * 24 * time.Hour,
		ResetOTPTTL:      5 * time.Minute,
		RateLimitMax:     120,
		RateLimitWindow:  time.Minute,
		AuthRateLimitMax: 10,
		MetricsEnabled:   true,
	}
}

func newTestApp(t *testing.T, env string) *testApp {
	t.Helper()
	app := &testApp{
		accounts: memstore.NewAccounts(),
		courses:  memstore.NewCourses(),
		exams:    memstore.NewExams(),
		payments: memstore.NewPayments(),
		audit:    &memstore.Audit{},
		mail:     &memstore.Notifier{},
		store:    memstore.NewStore(),
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	m := metrics.New()
	c := container.New(testConfig(env), logger, m, container.Repositories{
		Accounts: app.accounts,
		Courses:  app.courses,
		Exams:    app.exams,
		Payments: app.payments,
		Audit:    app.audit,
		Index:    memstore.NewIndex(),
		Store:    app.store,
	}, app.mail, nil)

	app.engine = gin.New()
	app.engine.Use(middleware.RequestIDMiddleware(), middleware.RealIP(), middleware.Metrics(m))
	reg := NewRegistry(app.engine)
	InitModules(reg, c)
	reg.RegisterAll()
	return app
}

func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// seed stores an account with password "secret1".
func (a *testApp) seed(t *testing.T, email string, role entity.Role) *entity.Account {
	t.Helper()
	hash, err := helpers.HashPassword("secret1")
	require.NoError(t, err)
	return a.accounts.Put(&entity.Account{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.Split(email, "@")[0],
		Role:         role,
		Verified:     true,
		CreatedAt:    time.Now().UTC(),
	})
}

func (a *testApp) login(t *testing.T, email string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/login", gin.H{"email": email, "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookie {
			return ck.Value
		}
	}
	t.Fatal("no session cookie")
	return ""
}

type envelope struct {
	Status    int             `json:"status"`
	RequestID string          `json:"request_id"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Meta      json.RawMessage `json:"meta"`
	Error     json.RawMessage `json:"error"`
}

func body(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookie {
			return ck
		}
	}
	return nil
}

func TestSignupVerifyLogin(t *testing.T) {
	app := newTestApp(t, "development")

	w := app.do(t, http.MethodPost, "/api/signup", gin.H{
		"fullName":        "Ada Lovelace",
		"email":           "Ada@Example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"acceptTerms":     true,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := body(t, w)
	assert.True(t, res.Success)
	assert.Equal(t, "User created successfully", res.Message)
	assert.NotEmpty(t, res.RequestID)

	w = app.do(t, http.MethodPost, "/api/signup", gin.H{
		"fullName": "Ada", "email": "ada@example.com", "password": "secret1",
		"confirmPassword": "secret1", "acceptTerms": true,
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodPost, "/api/verify", gin.H{"email": "ada@example.com", "code": "000000x"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid verification code", body(t, w).Message)

	code := app.mail.Last().Code
	w = app.do(t, http.MethodPost, "/api/verify", gin.H{"email": "ada@example.com", "code": code}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User verified successfully", body(t, w).Message)

	w = app.do(t, http.MethodPost, "/api/verify", gin.H{"email": "ada@example.com", "code": code}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User already verified", body(t, w).Message)

	w = app.do(t, http.MethodPost, "/api/resendverification", gin.H{"email": "ada@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/login", gin.H{"email": "ada@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	res = body(t, w)
	assert.Equal(t, "Login successful", res.Message)
	var data struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &data))
	assert.Equal(t, "ada@example.com", data.User.Email)
	assert.Equal(t, "Ada Lovelace", data.User.Name)

	ck := sessionCookie(w)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.False(t, ck.Secure)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, 3600, ck.MaxAge)

	assert.Subset(t, app.audit.Actions(), []string{entity.AuditSignup, entity.AuditVerify, entity.AuditLogin})
}

func TestLogin_RememberAndSecureCookie(t *testing.T) {
	app := newTestApp(t, "production")
	app.seed(t, "bob@example.com", entity.RoleStudent)

	w := app.do(t, http.MethodPost, "/api/login", gin.H{"email": "bob@example.com", "password": "secret1", "remember": true}, "")
	require.Equal(t, http.StatusOK, w.Code)
	ck := sessionCookie(w)
	require.NotNil(t, ck)
	assert.True(t, ck.Secure)
	assert.Equal(t, 604800, ck.MaxAge)
}

func TestLogin_FailuresLookAlike(t *testing.T) {
	app := newTestApp(t, "development")
	app.seed(t, "bob@example.com", entity.RoleStudent)

	wrong := app.do(t, http.MethodPost, "/api/login", gin.H{"email": "bob@example.com", "password": "nope123"}, "")
	unknown := app.do(t, http.MethodPost, "/api/login", gin.H{"email": "who@example.com", "password": "nope123"}, "")

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, "Invalid username or password", body(t, wrong).Message)
	assert.Equal(t, body(t, wrong).Message, body(t, unknown).Message)
	assert.Nil(t, sessionCookie(wrong))
	assert.Contains(t, app.audit.Actions(), entity.AuditLoginFailed)
}

func TestSignup_ValidationDetails(t *testing.T) {
	app := newTestApp(t, "development")

	w := app.do(t, http.MethodPost, "/api/signup", gin.H{
		"fullName": "Ada", "email": "not-an-email", "password": "123",
		"confirmPassword": "123", "role": "admin",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	res := body(t, w)
	assert.Equal(t, "invalid payload", res.Message)

	var details map[string]string
	require.NoError(t, json.Unmarshal(res.Error, &details))
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "role")
	assert.NotContains(t, details, "password")
	assert.Zero(t, app.accounts.Len())

	w = app.do(t, http.MethodPost, "/api/signup", gin.H{
		"fullName": "Ada", "email": "ada@example.com", "password": "123",
		"confirmPassword": "123", "acceptTerms": true,
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password must be at least 6 characters", body(t, w).Message)
}

func TestSignup_ConflictBeforePasswordRules(t *testing.T) {
	app := newTestApp(t, "development")
	app.seed(t, "taken@example.com", entity.RoleStudent)

	w := app.do(t, http.MethodPost, "/api/signup", gin.H{
		"fullName": "Ada", "email": "taken@example.com", "password": "123",
		"confirmPassword": "456", "acceptTerms": true,
	}, "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User is already registered", body(t, w).Message)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t, "development")

	w := app.do(t, http.MethodGet, "/api/logout", nil, "whatever")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	ck := sessionCookie(w)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.Less(t, ck.MaxAge, 0)
}

func TestPasswordReset(t *testing.T) {
	app := newTestApp(t, "development")
	app.seed(t, "bob@example.com", entity.RoleStudent)

	w := app.do(t, http.MethodGet, "/api/forgotpassword", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/api/forgotpassword?email=who@example.com", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodGet, "/api/forgotpassword?email=bob@example.com", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	res := body(t, w)
	assert.True(t, res.Success)
	assert.Equal(t, "OTP sent to your email.", res.Message)
	otp := app.mail.Last().Code

	w = app.do(t, http.MethodPost, "/api/verifyforgototp", gin.H{"email": "bob@example.com", "otp": otp}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OTP verified successfully.", body(t, w).Message)

	w = app.do(t, http.MethodPost, "/api/changepasswordwithotp", gin.H{
		"email": "bob@example.com", "otp": otp, "password": "newpass1", "confirmPassword": "other12",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Passwords do not match", body(t, w).Message)

	w = app.do(t, http.MethodPost, "/api/changepasswordwithotp", gin.H{
		"email": "bob@example.com", "otp": otp, "password": "newpass1", "confirmPassword": "newpass1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password changed successfully.", body(t, w).Message)

	w = app.do(t, http.MethodPost, "/api/login", gin.H{"email": "bob@example.com", "password": "newpass1"}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodPost, "/api/verifyforgototp", gin.H{"email": "bob@example.com", "otp": otp}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func publishBody() gin.H {
	return gin.H{
		"title":       "Go for Backends",
		"level":       "Beginner",
		"category":    "Programming",
		"language":    "English",
		"duration":    12,
		"price":       499,
		"description": "Services in Go",
		"tags":        "go, web",
		"thumbnail":   "https://cdn.example/go.png",
		"videos":      []gin.H{{"name": "Intro", "url": "https://cdn.example/intro.mp4"}},
	}
}

func TestCourseLifecycle(t *testing.T) {
	app := newTestApp(t, "development")
	app.seed(t, "teach@example.com", entity.RoleInstructor)
	app.seed(t, "stud@example.com", entity.RoleStudent)
	author := app.login(t, "teach@example.com")
	student := app.login(t, "stud@example.com")

	w := app.do(t, http.MethodPost, "/api/publishcourse", publishBody(), student)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPost, "/api/publishcourse", publishBody(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/api/publishcourse", publishBody(), author)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Course created successfully", body(t, w).Message)
	var created struct {
		CourseID string `json:"courseId"`
	}
	require.NoError(t, json.Unmarshal(body(t, w).Data, &created))
	require.NotEmpty(t, created.CourseID)

	for _, path := range []string{"/api/courses", "/api/courses/advance?search=GO"} {
		w = app.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		var listing struct {
			Courses []struct {
				ID         string         `json:"_id"`
				Tags       []string       `json:"tags"`
				Videos     []entity.Video `json:"videos"`
				Instructor *struct {
					Email string `json:"email"`
				} `json:"instructor"`
			} `json:"courses"`
			Pagination struct {
				Total int64 `json:"total"`
				Pages int64 `json:"pages"`
			} `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(body(t, w).Data, &listing))
		require.Len(t, listing.Courses, 1, path)
		assert.Equal(t, []string{"go", "web"}, listing.Courses[0].Tags)
		assert.Empty(t, listing.Courses[0].Videos)
		require.NotNil(t, listing.Courses[0].Instructor)
		assert.Equal(t, "teach@example.com", listing.Courses[0].Instructor.Email)
		assert.Equal(t, int64(1), listing.Pagination.Pages)
	}

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/courses?page=0", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/courses?limit=51", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/courses?page=abc", nil, "").Code)

	coursePath := "/api/courses/" + created.CourseID
	var view struct {
		Videos   []entity.Video `json:"videos"`
		Enrolled bool           `json:"enrolled"`
	}
	w = app.do(t, http.MethodGet, coursePath, nil, student)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(body(t, w).Data, &view))
	assert.False(t, view.Enrolled)
	assert.Empty(t, view.Videos)

	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodGet, "/api/playcourse/"+created.CourseID, nil, student).Code)

	w = app.do(t, http.MethodGet, "/api/enrolledcourses", nil, student)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(body(t, w).Data))

	w = app.do(t, http.MethodPost, coursePath+"/enroll", nil, student)
	require.Equal(t, http.StatusOK, w.Code)
	res := body(t, w)
	assert.Equal(t, "Enrolled successfully", res.Message)
	assert.JSONEq(t, `{"courseId":"`+created.CourseID+`","already_enrolled":false}`, string(res.Data))

	w = app.do(t, http.MethodPost, coursePath+"/enroll", nil, student)
	require.Equal(t, http.StatusOK, w.Code)
	res = body(t, w)
	assert.Equal(t, "Already enrolled in this course", res.Message)
	assert.JSONEq(t, `{"courseId":"`+created.CourseID+`","already_enrolled":true}`, string(res.Data))

	w = app.do(t, http.MethodGet, coursePath, nil, student)
	require.NoError(t, json.Unmarshal(body(t, w).Data, &view))
	assert.True(t, view.Enrolled)
	assert.Len(t, view.Videos, 1)

	w = app.do(t, http.MethodGet, coursePath, nil, "garbage")
	require.Equal(t, http.StatusOK, w.Code)
	view.Videos = nil
	require.NoError(t, json.Unmarshal(body(t, w).Data, &view))
	assert.Empty(t, view.Videos)

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/playcourse/"+created.CourseID, nil, student).Code)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/playcourse/"+created.CourseID, nil, author).Code)

	w = app.do(t, http.MethodGet, "/api/enrolledcourses", nil, student)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(body(t, w).Data), "intro.mp4")

	w = app.do(t, http.MethodGet, "/api/mycourses", nil, author)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"courses":["`+created.CourseID+`"]}`, string(body(t, w).Data))

	w = app.do(t, http.MethodGet, "/api/mycourses/details", nil, author)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body(t, w).Data), "Go for Backends")

	w = app.do(t, http.MethodGet, "/api/courses/not-an-id", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Course not found", body(t, w).Message)

	w = app.do(t, http.MethodPost, "/api/courses/0123456789abcdef01234567/enroll", nil, student)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/enrolledcourses", nil, "").Code)
	w = app.do(t, http.MethodGet, "/api/enrolledcourses", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", body(t, w).Message)
}

func multipartImage(t *testing.T, field, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="thumb.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadThumbnail(t *testing.T) {
	app := newTestApp(t, "development")
	app.seed(t, "teach@example.com", entity.RoleInstructor)
	author := app.login(t, "teach@example.com")

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	post := func(field, ctype string, data []byte) *httptest.ResponseRecorder {
		buf, formType := multipartImage(t, field, ctype, data)
		req := httptest.NewRequest(http.MethodPost, "/api/courses/thumbnail", buf)
		req.Header.Set("Content-Type", formType)
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: author})
		w := httptest.NewRecorder()
		app.engine.ServeHTTP(w, req)
		return w
	}

	w := post("image", "application/octet-stream", png)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var data struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(body(t, w).Data, &data))
	assert.True(t, strings.HasPrefix(data.URL, "https://storage.example/thumbnails/"))
	assert.Len(t, app.store.Objects, 1)

	for _, stored := range app.store.ContentTypes {
		assert.Equal(t, "image/png", stored)
	}

	// the declared part type is ignored; the bytes decide
	assert.Equal(t, http.StatusBadRequest, post("image", "image/png", []byte("%PDF-1.7\n")).Code)
	assert.Equal(t, http.StatusBadRequest, post("file", "image/png", png).Code)
	assert.Len(t, app.store.Objects, 1)
}

func TestExamLifecycle(t *testing.T) {
	app := newTestApp(t, "development")
	app.seed(t, "teach@example.com", entity.RoleInstructor)
	app.seed(t, "stud@example.com", entity.RoleStudent)
	author := app.login(t, "teach@example.com")
	student := app.login(t, "stud@example.com")

	w := app.do(t, http.MethodGet, "/api/exams", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(body(t, w).Data))
	w = app.do(t, http.MethodGet, "/api/myexams", nil, author)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(body(t, w).Data))

	w = app.do(t, http.MethodPost, "/api/addexam", gin.H{"name": "Go Basics"}, author)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid exam format", body(t, w).Message)

	w = app.do(t, http.MethodPost, "/api/addexam", gin.H{
		"name": "Go Basics", "duration": "60", "fee": "100", "thumbnail": "t.png",
		"mcqs":           []gin.H{{"question": "What is a goroutine?", "options": []string{"a", "b"}, "marks": "2"}},
		"longQuestions":  []gin.H{},
		"codingProblems": []gin.H{},
	}, author)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ExamID string `json:"examId"`
	}
	require.NoError(t, json.Unmarshal(body(t, w).Data, &created))

	w = app.do(t, http.MethodGet, "/api/exams", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Go Basics")
	assert.NotContains(t, w.Body.String(), "goroutine")

	w = app.do(t, http.MethodGet, "/api/getexamdetails?exam="+created.ExamID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "goroutine")

	w = app.do(t, http.MethodGet, "/api/getexamdetails?exam=bogus", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Exam not found", body(t, w).Message)

	w = app.do(t, http.MethodGet, "/api/myexams", nil, author)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body(t, w).Data), created.ExamID)

	w = app.do(t, http.MethodPost, "/api/applyexam", gin.H{"examId": created.ExamID}, student)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully applied for exam", body(t, w).Message)

	w = app.do(t, http.MethodPost, "/api/applyexam", gin.H{"examId": created.ExamID}, student)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You have already applied for this exam", body(t, w).Message)

	stud, err := app.accounts.GetByEmail(context.Background(), "stud@example.com")
	require.NoError(t, err)
	assert.Len(t, stud.AppliedExams, 1)

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/applyexam", gin.H{}, student).Code)

	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodDelete, "/api/exams/"+created.ExamID, nil, student).Code)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodDelete, "/api/exams/"+created.ExamID, nil, author).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodDelete, "/api/exams/"+created.ExamID, nil, author).Code)
}

func TestAdminRoutes(t *testing.T) {
	app := newTestApp(t, "development")
	app.seed(t, "root@example.com", entity.RoleAdmin)
	app.seed(t, "stud@example.com", entity.RoleStudent)
	admin := app.login(t, "root@example.com")
	student := app.login(t, "stud@example.com")

	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/admin/dashboard", nil, "").Code)
	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodGet, "/api/admin/dashboard", nil, student).Code)

	w := app.do(t, http.MethodPost, "/api/admin/payments", gin.H{
		"student": "Stud", "course": "Go for Backends", "amount": 499, "status": "Refunded",
	}, admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var details map[string]string
	require.NoError(t, json.Unmarshal(body(t, w).Error, &details))
	assert.Contains(t, details, "status")

	w = app.do(t, http.MethodPost, "/api/admin/payments", gin.H{
		"student": "Stud", "email": "stud@example.com", "course": "Go for Backends",
		"amount": 499, "date": "2026-03-02", "status": "Paid",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, app.audit.Actions(), entity.AuditPaymentRecorded)

	w = app.do(t, http.MethodPost, "/api/admin/payments", gin.H{
		"student": "Stud", "course": "Go for Backends", "amount": 10, "date": "02/03/2026", "status": "Paid",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/api/admin/dashboard", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		Students int64 `json:"students"`
		Revenue  int64 `json:"revenue"`
	}
	require.NoError(t, json.Unmarshal(body(t, w).Data, &dash))
	assert.Equal(t, int64(1), dash.Students)
	assert.Equal(t, int64(499), dash.Revenue)

	w = app.do(t, http.MethodGet, "/api/admin/students?limit=5", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	res := body(t, w)
	assert.Contains(t, string(res.Data), "stud@example.com")
	assert.JSONEq(t, `{"page":1,"limit":5,"total":1,"pages":1}`, string(res.Meta))

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/admin/students?limit=500", nil, admin).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/admin/students/search", nil, admin).Code)

	w = app.do(t, http.MethodGet, "/api/admin/payments?status=Paid&date=2026-03-02", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(body(t, w).Data), "Go for Backends")

	w = app.do(t, http.MethodGet, "/api/admin/payments?status=Pending", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(body(t, w).Data))

	w = app.do(t, http.MethodGet, "/api/admin/payments/export", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment;")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Student,Course,Amount,Date,Status", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ",Stud,Go for Backends,499,2026-03-02,Paid"))
}

func TestSystemRoutes(t *testing.T) {
	app := newTestApp(t, "development")

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/healthz", nil, "").Code)
	app.do(t, http.MethodGet, "/api/exams", nil, "")

	w := app.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `path="/api/exams"`)
}
