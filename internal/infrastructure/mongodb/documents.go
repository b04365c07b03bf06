package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alnnovate/academy/internal/domain/entity"
)

type appliedExamDoc struct {
	ExamID    primitive.ObjectID `bson:"examId"`
	AppliedAt time.Time          `bson:"appliedAt"`
	Status    string             `bson:"status"`
}

type accountDoc struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	Email            string               `bson:"email"`
	Password         string               `bson:"password"`
	FullName         string               `bson:"fullName"`
	Role             string               `bson:"role"`
	AcceptTerms      bool                 `bson:"acceptTerms"`
	Verified         bool                 `bson:"verified"`
	VerificationCode string               `bson:"verificationCode,omitempty"`
	ResetOTP         string               `bson:"resetOtp,omitempty"`
	ResetOTPExpires  *time.Time           `bson:"resetOtpExpires,omitempty"`
	EnrolledCourses  []primitive.ObjectID `bson:"enrolledCourses"`
	CreatedCourses   []primitive.ObjectID `bson:"createdCourses"`
	CreatedExams     []primitive.ObjectID `bson:"createdExams"`
	AppliedExams     []appliedExamDoc     `bson:"appliedExams"`
	CreatedAt        time.Time            `bson:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt"`
}

func newAccountDoc(a *entity.Account) accountDoc {
	d := accountDoc{
		Email:            a.Email,
		Password:         a.PasswordHash,
		FullName:         a.FullName,
		Role:             string(a.Role),
		AcceptTerms:      a.AcceptTerms,
		Verified:         a.Verified,
		VerificationCode: a.VerificationCode,
		EnrolledCourses:  toObjectIDs(a.EnrolledCourses),
		CreatedCourses:   toObjectIDs(a.CreatedCourses),
		CreatedExams:     toObjectIDs(a.CreatedExams),
		AppliedExams:     make([]appliedExamDoc, 0, len(a.AppliedExams)),
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	if a.ResetPending() {
		d.ResetOTP = a.ResetOTP
		d.ResetOTPExpires = a.ResetOTPExpires
	}
	for _, ae := range a.AppliedExams {
		if oid, err := primitive.ObjectIDFromHex(ae.ExamID); err == nil {
			d.AppliedExams = append(d.AppliedExams, appliedExamDoc{ExamID: oid, AppliedAt: ae.AppliedAt, Status: string(ae.Status)})
		}
	}
	return d
}

// toEntity converts a stored account. A document holding only one of the
// reset fields is treated as having no reset pending.
func (d accountDoc) toEntity() *entity.Account {
	a := &entity.Account{
		ID:               d.ID.Hex(),
		Email:            d.Email,
		PasswordHash:     d.Password,
		FullName:         d.FullName,
		Role:             entity.Role(d.Role),
		AcceptTerms:      d.AcceptTerms,
		Verified:         d.Verified,
		VerificationCode: d.VerificationCode,
		EnrolledCourses:  fromObjectIDs(d.EnrolledCourses),
		CreatedCourses:   fromObjectIDs(d.CreatedCourses),
		CreatedExams:     fromObjectIDs(d.CreatedExams),
		AppliedExams:     make([]entity.AppliedExam, 0, len(d.AppliedExams)),
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if d.ResetOTP != "" && d.ResetOTPExpires != nil {
		a.ResetOTP = d.ResetOTP
		exp := d.ResetOTPExpires.UTC()
		a.ResetOTPExpires = &exp
	}
	for _, ae := range d.AppliedExams {
		a.AppliedExams = append(a.AppliedExams, entity.AppliedExam{
			ExamID:    ae.ExamID.Hex(),
			AppliedAt: ae.AppliedAt,
			Status:    entity.ApplicationStatus(ae.Status),
		})
	}
	return a
}

type videoResourceDoc struct {
	Name string `bson:"name"`
	URL  string `bson:"url"`
}

type videoDoc struct {
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	URL         string             `bson:"url"`
	Resources   []videoResourceDoc `bson:"resources"`
}

type courseDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Level        string             `bson:"level"`
	Category     string             `bson:"category"`
	Language     string             `bson:"language"`
	Duration     float64            `bson:"duration"`
	Price        float64            `bson:"price"`
	Description  string             `bson:"description"`
	Tags         []string           `bson:"tags"`
	Thumbnail    string             `bson:"thumbnail"`
	Videos       []videoDoc         `bson:"videos"`
	InstructorID primitive.ObjectID `bson:"instructorId,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func newCourseDoc(c *entity.Course) courseDoc {
	d := courseDoc{
		Title:       c.Title,
		Level:       c.Level,
		Category:    c.Category,
		Language:    c.Language,
		Duration:    c.Duration,
		Price:       c.Price,
		Description: c.Description,
		Tags:        c.Tags,
		Thumbnail:   c.Thumbnail,
		Videos:      make([]videoDoc, 0, len(c.Videos)),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if oid, err := primitive.ObjectIDFromHex(c.InstructorID); err == nil {
		d.InstructorID = oid
	}
	for _, v := range c.Videos {
		vd := videoDoc{Name: v.Name, Description: v.Description, URL: v.URL, Resources: make([]videoResourceDoc, 0, len(v.Resources))}
		for _, r := range v.Resources {
			vd.Resources = append(vd.Resources, videoResourceDoc{Name: r.Name, URL: r.URL})
		}
		d.Videos = append(d.Videos, vd)
	}
	return d
}

func (d courseDoc) toEntity() entity.Course {
	c := entity.Course{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Level:       d.Level,
		Category:    d.Category,
		Language:    d.Language,
		Duration:    d.Duration,
		Price:       d.Price,
		Description: d.Description,
		Tags:        d.Tags,
		Thumbnail:   d.Thumbnail,
		Videos:      make([]entity.Video, 0, len(d.Videos)),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if !d.InstructorID.IsZero() {
		c.InstructorID = d.InstructorID.Hex()
	}
	for _, v := range d.Videos {
		ve := entity.Video{Name: v.Name, Description: v.Description, URL: v.URL, Resources: make([]entity.VideoResource, 0, len(v.Resources))}
		for _, r := range v.Resources {
			ve.Resources = append(ve.Resources, entity.VideoResource{Name: r.Name, URL: r.URL})
		}
		c.Videos = append(c.Videos, ve)
	}
	return c
}

type mcqDoc struct {
	Question string   `bson:"question"`
	Options  []string `bson:"options"`
	Marks    string   `bson:"marks"`
}

type longQuestionDoc struct {
	Question string `bson:"question"`
	Marks    string `bson:"marks"`
}

type codingProblemDoc struct {
	Problem string `bson:"problem"`
	Marks   string `bson:"marks"`
}

type examDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Duration       string             `bson:"duration"`
	Fee            string             `bson:"fee"`
	Thumbnail      string             `bson:"thumbnail"`
	MCQs           []mcqDoc           `bson:"mcqs"`
	LongQuestions  []longQuestionDoc  `bson:"longQuestions"`
	CodingProblems []codingProblemDoc `bson:"codingProblems"`
	CreatedAt      time.Time          `bson:"createdAt"`
	CreatedBy      primitive.ObjectID `bson:"createdBy,omitempty"`
}

func newExamDoc(e *entity.Exam) examDoc {
	d := examDoc{
		Name:           e.Name,
		Duration:       e.Duration,
		Fee:            e.Fee,
		Thumbnail:      e.Thumbnail,
		MCQs:           make([]mcqDoc, 0, len(e.MCQs)),
		LongQuestions:  make([]longQuestionDoc, 0, len(e.LongQuestions)),
		CodingProblems: make([]codingProblemDoc, 0, len(e.CodingProblems)),
		CreatedAt:      e.CreatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(e.CreatedBy); err == nil {
		d.CreatedBy = oid
	}
	for _, q := range e.MCQs {
		d.MCQs = append(d.MCQs, mcqDoc{Question: q.Question, Options: q.Options, Marks: q.Marks})
	}
	for _, q := range e.LongQuestions {
		d.LongQuestions = append(d.LongQuestions, longQuestionDoc{Question: q.Question, Marks: q.Marks})
	}
	for _, p := range e.CodingProblems {
		d.CodingProblems = append(d.CodingProblems, codingProblemDoc{Problem: p.Problem, Marks: p.Marks})
	}
	return d
}

func (d examDoc) toEntity() entity.Exam {
	e := entity.Exam{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Duration:       d.Duration,
		Fee:            d.Fee,
		Thumbnail:      d.Thumbnail,
		MCQs:           make([]entity.MCQ, 0, len(d.MCQs)),
		LongQuestions:  make([]entity.LongQuestion, 0, len(d.LongQuestions)),
		CodingProblems: make([]entity.CodingProblem, 0, len(d.CodingProblems)),
		CreatedAt:      d.CreatedAt,
	}
	if !d.CreatedBy.IsZero() {
		e.CreatedBy = d.CreatedBy.Hex()
	}
	for _, q := range d.MCQs {
		e.MCQs = append(e.MCQs, entity.MCQ{Question: q.Question, Options: q.Options, Marks: q.Marks})
	}
	for _, q := range d.LongQuestions {
		e.LongQuestions = append(e.LongQuestions, entity.LongQuestion{Question: q.Question, Marks: q.Marks})
	}
	for _, p := range d.CodingProblems {
		e.CodingProblems = append(e.CodingProblems, entity.CodingProblem{Problem: p.Problem, Marks: p.Marks})
	}
	return e
}

// toObjectIDs drops ids that are not ObjectID hex.
func toObjectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func fromObjectIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
