package contacts

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the MongoDB collection holding contact messages.
const Collection = "contact_messages"

type messageDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"created_at"`
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(Collection)}
}

func (r *MongoRepository) Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	uid, err := primitive.ObjectIDFromHex(msg.UserID)
	if err != nil {
		return nil, fmt.Errorf("db error: user id: %w", err)
	}

	doc := &messageDocument{
		ID:        primitive.NewObjectID(),
		UserID:    uid,
		Name:      msg.Name,
		Email:     msg.Email,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	msg.ID = doc.ID.Hex()
	return msg, nil
}
