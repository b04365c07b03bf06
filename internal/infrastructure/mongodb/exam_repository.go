package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alnnovate/academy/internal/domain/entity"
	repo "github.com/alnnovate/academy/internal/domain/repository"
)

type ExamRepository struct {
	db *DB
}

func NewExamRepository(db *DB) *ExamRepository {
	return &ExamRepository{db: db}
}

func (r *ExamRepository) coll() *mongo.Collection { return r.db.collection(collectionExams) }

func (r *ExamRepository) Create(ctx context.Context, e *entity.Exam) error {
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	res, err := r.coll().InsertOne(ctx, newExamDoc(e))
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid.Hex()
	}
	return nil
}

func (r *ExamRepository) GetByID(ctx context.Context, id string) (*entity.Exam, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repo.ErrNotFound
	}
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	var d examDoc
	err = r.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e := d.toEntity()
	return &e, nil
}

// List skips question bodies; callers only ever see exam metadata.
func (r *ExamRepository) List(ctx context.Context) ([]entity.Exam, error) {
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"mcqs": 0, "longQuestions": 0, "codingProblems": 0})
	return r.find(ctx, bson.M{}, opts)
}

func (r *ExamRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.Exam, error) {
	oids := toObjectIDs(ids)
	if len(oids) == 0 {
		return []entity.Exam{}, nil
	}
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"name": 1, "thumbnail": 1, "createdAt": 1, "createdBy": 1})
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, opts)
}

func (r *ExamRepository) Delete(ctx context.Context, id string) error {
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

func (r *ExamRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()
	return r.coll().EstimatedDocumentCount(ctx)
}

func (r *ExamRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]entity.Exam, error) {
	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []examDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Exam, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}
