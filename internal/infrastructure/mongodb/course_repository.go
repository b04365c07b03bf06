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

type CourseRepository struct {
	db *DB
}

func NewCourseRepository(db *DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) coll() *mongo.Collection { return r.db.collection(collectionCourses) }

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	res, err := r.coll().InsertOne(ctx, newCourseDoc(c))
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repo.ErrNotFound
	}
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	var d courseDoc
	err = r.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c := d.toEntity()
	return &c, nil
}

func (r *CourseRepository) List(ctx context.Context, f entity.CourseFilter, page entity.Page) ([]entity.Course, int64, error) {
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()

	filter := buildCourseFilter(f)
	total, err := r.coll().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit)).
		SetProjection(bson.M{"videos": 0})
	courses, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *CourseRepository) ListByIDs(ctx context.Context, ids []string) ([]entity.Course, error) {
	oids := toObjectIDs(ids)
	if len(oids) == 0 {
		return []entity.Course{}, nil
	}
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.db.getContext(ctx)
	defer cancel()
	return r.coll().EstimatedDocumentCount(ctx)
}

func (r *CourseRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]entity.Course, error) {
	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []courseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Course, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}
