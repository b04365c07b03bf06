package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alnnovate/academy/internal/domain/entity"
	repo "github.com/alnnovate/academy/internal/domain/repository"
)

type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) coll() *mongo.Collection { return r.db.collection(collectionUsers) }

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	res, err := r.coll().InsertOne(ctx, newAccountDoc(a))
	if mongo.IsDuplicateKeyError(err) {
		return repo.ErrDuplicate
	}
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid.Hex()
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repo.ErrNotFound
	}
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repo.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*entity.Account, error) {
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	var d accountDoc
	err := r.coll().FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.toEntity(), nil
}

// updateByID applies update to one account and reports ErrNotFound when no
// document matched.
func (r *AccountRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repo.ErrNotFound
	}
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	withTimestamp(update)
	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func withTimestamp(update bson.M) {
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	set["updatedAt"] = time.Now().UTC()
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"verified": true},
		"$unset": bson.M{"verificationCode": ""},
	})
}

func (r *AccountRepository) SetVerificationCode(ctx context.Context, id, code string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"verificationCode": code}})
}

func (r *AccountRepository) SetResetOTP(ctx context.Context, id, code string, expires time.Time) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"resetOtp": code, "resetOtpExpires": expires.UTC()}})
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"password": hash},
		"$unset": bson.M{"resetOtp": "", "resetOtpExpires": ""},
	})
}

func (r *AccountRepository) AddEnrolledCourse(ctx context.Context, id, courseID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, repo.ErrNotFound
	}
	cid, err := primitive.ObjectIDFromHex(courseID)
	if err != nil {
		return false, repo.ErrNotFound
	}
	// updatedAt is bumped on every write, so ModifiedCount cannot report
	// whether the id was new; guard the push on absence instead.
	return r.pushIfAbsent(ctx, oid,
		bson.M{"enrolledCourses": bson.M{"$ne": cid}},
		bson.M{"enrolledCourses": cid},
	)
}

func (r *AccountRepository) AddCreatedCourse(ctx context.Context, id, courseID string) error {
	cid, err := primitive.ObjectIDFromHex(courseID)
	if err != nil {
		return repo.ErrNotFound
	}
	return r.updateByID(ctx, id, bson.M{"$push": bson.M{"createdCourses": cid}})
}

func (r *AccountRepository) AddCreatedExam(ctx context.Context, id, examID string) error {
	eid, err := primitive.ObjectIDFromHex(examID)
	if err != nil {
		return repo.ErrNotFound
	}
	return r.updateByID(ctx, id, bson.M{"$push": bson.M{"createdExams": eid}})
}

func (r *AccountRepository) RemoveCreatedExam(ctx context.Context, id, examID string) error {
	eid, err := primitive.ObjectIDFromHex(examID)
	if err != nil {
		return repo.ErrNotFound
	}
	return r.updateByID(ctx, id, bson.M{"$pull": bson.M{"createdExams": eid}})
}

func (r *AccountRepository) AddAppliedExam(ctx context.Context, id string, ae entity.AppliedExam) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, repo.ErrNotFound
	}
	eid, err := primitive.ObjectIDFromHex(ae.ExamID)
	if err != nil {
		return false, repo.ErrNotFound
	}
	return r.pushIfAbsent(ctx, oid,
		bson.M{"appliedExams.examId": bson.M{"$ne": eid}},
		bson.M{"appliedExams": appliedExamDoc{ExamID: eid, AppliedAt: ae.AppliedAt.UTC(), Status: string(ae.Status)}},
	)
}

// pushIfAbsent runs a guarded $push. When the guard rejects the update the
// account is counted to tell a missing account from an existing entry.
func (r *AccountRepository) pushIfAbsent(ctx context.Context, oid primitive.ObjectID, guard bson.M, push bson.M) (bool, error) {
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	filter := bson.M{"_id": oid}
	for k, v := range guard {
		filter[k] = v
	}
	res, err := r.coll().UpdateOne(ctx, filter, bson.M{
		"$push": push,
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	n, err := r.coll().CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, repo.ErrNotFound
	}
	return false, nil
}

func (r *AccountRepository) ListByRole(ctx context.Context, role entity.Role, page entity.Page) ([]entity.Account, int64, error) {
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	filter := bson.M{"role": string(role)}
	total, err := r.coll().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit)).
		SetProjection(bson.M{"password": 0, "verificationCode": 0, "resetOtp": 0})
	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var docs []accountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	out := make([]entity.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toEntity())
	}
	return out, total, nil
}

func (r *AccountRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()
	return r.coll().CountDocuments(ctx, bson.M{"role": string(role)})
}
