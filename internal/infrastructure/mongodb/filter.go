package mongodb

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alnnovate/academy/internal/domain/entity"
)

// buildCourseFilter turns a catalog filter into a query. Search is a literal,
// case-insensitive substring match over title, description and tags.
func buildCourseFilter(f entity.CourseFilter) bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Level != "" {
		q["level"] = f.Level
	}
	if f.Language != "" {
		q["language"] = f.Language
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"tags": re},
		}
	}
	return q
}
