package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection holding tasks.
const Collection = "tasks"

const usersCollection = "users"

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Priority    string             `bson:"priority"`
	Deadline    time.Time          `bson:"deadline"`
	Status      string             `bson:"status"`
	AssignedTo  primitive.ObjectID `bson:"assigned_to"`
	CreatedBy   primitive.ObjectID `bson:"created_by"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *taskDocument) model() *models.Task {
	return &models.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Priority:    models.Priority(d.Priority),
		Deadline:    d.Deadline,
		Status:      models.Status(d.Status),
		AssignedTo:  d.AssignedTo.Hex(),
		CreatedBy:   d.CreatedBy.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type summaryDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
	Role  string             `bson:"role"`
}

type taskViewDocument struct {
	Task        taskDocument      `bson:",inline"`
	Counterpart []summaryDocument `bson:"counterpart"`
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(Collection)}
}

func (r *MongoRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	assignee, err := primitive.ObjectIDFromHex(task.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("db error: assignee id: %w", err)
	}
	creator, err := primitive.ObjectIDFromHex(task.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("db error: creator id: %w", err)
	}

	doc := &taskDocument{
		ID:          primitive.NewObjectID(),
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		Deadline:    task.Deadline,
		Status:      string(task.Status),
		AssignedTo:  assignee,
		CreatedBy:   creator,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	task.ID = doc.ID.Hex()
	return task, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	doc := &taskDocument{}
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, status models.Status, updatedAt time.Time) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	update := bson.M{"$set": bson.M{"status": string(status), "updated_at": updatedAt}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	doc := &taskDocument{}
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) ListByAssignee(ctx context.Context, userID string) ([]*models.TaskView, error) {
	sort := bson.D{{Key: "deadline", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	return r.list(ctx, "assigned_to", "created_by", userID, sort,
		func(v *models.TaskView, u *models.UserSummary) { v.Creator = u })
}

func (r *MongoRepository) ListByCreator(ctx context.Context, userID string) ([]*models.TaskView, error) {
	sort := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	return r.list(ctx, "created_by", "assigned_to", userID, sort,
		func(v *models.TaskView, u *models.UserSummary) { v.Assignee = u })
}

// list matches tasks on ownerField and joins the user referenced by
// counterpartField.
func (r *MongoRepository) list(ctx context.Context, ownerField, counterpartField, userID string, sort bson.D, attach func(*models.TaskView, *models.UserSummary)) ([]*models.TaskView, error) {
	result := make([]*models.TaskView, 0)

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return result, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{ownerField: oid}}},
		{{Key: "$sort", Value: sort}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   counterpartField,
			"foreignField": "_id",
			"as":           "counterpart",
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var docs []taskViewDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for i := range docs {
		view := &models.TaskView{Task: *docs[i].Task.model()}
		if len(docs[i].Counterpart) > 0 {
			c := docs[i].Counterpart[0]
			attach(view, &models.UserSummary{ID: c.ID.Hex(), Name: c.Name, Email: c.Email, Role: models.Role(c.Role)})
		}
		result = append(result, view)
	}
	return result, nil
}
