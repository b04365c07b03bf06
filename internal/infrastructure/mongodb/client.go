package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionUsers   = "users"
	collectionCourses = "courses"
	collectionExams   = "exams"
)

// DB wraps the shared client and the application database.
type DB struct {
	Client  *mongo.Client
	Name    string
	timeout time.Duration
}

// Connect dials Mongo and pings it before returning.
func Connect(ctx context.Context, uri, dbName string, timeout time.Duration, maxPoolSize uint64) (*DB, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(cctx,
		options.Client().ApplyURI(uri),
		options.Client().SetMaxPoolSize(maxPoolSize),
		options.Client().SetMaxConnIdleTime(5*time.Minute),
	)
	if err != nil {
		return nil, err
	}

	pctx, pcancel := context.WithTimeout(ctx, timeout)
	defer pcancel()
	if err := client.Ping(pctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &DB{Client: client, Name: dbName, timeout: timeout}, nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.getContext(ctx)
	defer cancel()
	return db.Client.Ping(ctx, nil)
}

// getContext bounds a single database call.
func (db *DB) getContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, db.timeout)
}

func (db *DB) collection(name string) *mongo.Collection {
	return db.Client.Database(db.Name).Collection(name)
}

var indexesForUsers = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_users_email").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_users_role_createdAt"),
	},
}

var indexesForCourses = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_courses_createdAt"),
	},
	{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "level", Value: 1}, {Key: "language", Value: 1}},
		Options: options.Index().SetName("idx_courses_facets"),
	},
}

var indexesForExams = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_exams_createdAt"),
	},
}

// EnsureIndexes creates the default indexes. Existing indexes with the same
// definition are left alone by the server.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	for coll, idx := range map[string][]mongo.IndexModel{
		collectionUsers:   indexesForUsers,
		collectionCourses: indexesForCourses,
		collectionExams:   indexesForExams,
	} {
		cctx, cancel := db.getContext(ctx)
		_, err := db.collection(coll).Indexes().CreateMany(cctx, idx)
		cancel()
		if err != nil {
			return err
		}
	}
	return nil
}
