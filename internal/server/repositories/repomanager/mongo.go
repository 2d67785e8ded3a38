package repomanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tasklane/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepositoryManager vends MongoDB-backed repositories. Identifiers are
// 24-character hex ObjectIDs. Transactions need a replica set deployment.
type MongoRepositoryManager struct {
	client *mongo.Client
	db     *mongo.Database
}

// ErrNoReplicaSet is returned by OpenMongo when the deployment is a
// standalone server, which cannot run the transactions signup and token
// rotation rely on.
var ErrNoReplicaSet = errors.New("mongo deployment is not a replica set or sharded cluster; transactions are unavailable")

// OpenMongo connects to uri, verifies connectivity and checks that the
// deployment supports transactions.
func OpenMongo(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	m := NewMongoRepositoryManager(client.Database(database))
	if err := m.CheckTransactions(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return m, nil
}

func NewMongoRepositoryManager(db *mongo.Database) *MongoRepositoryManager {
	return &MongoRepositoryManager{client: db.Client(), db: db}
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return users.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) Tasks() tasks.Repository {
	return tasks.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewMongoRepository(m.db)
}

func (m *MongoRepositoryManager) Contacts() contacts.Repository {
	return contacts.NewMongoRepository(m.db)
}

// WithTx runs fn inside a session transaction. The repositories join it
// through the session context handed to fn.
func (m *MongoRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, m)
	})
	return err
}

type helloReply struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

// CheckTransactions asks the server for its topology through the hello
// command. Replica set members report setName and mongos reports
// msg "isdbgrid". Anything else is a standalone and yields ErrNoReplicaSet.
func (m *MongoRepositoryManager) CheckTransactions(ctx context.Context) error {
	var reply helloReply
	if err := m.client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&reply); err != nil {
		return fmt.Errorf("mongo hello: %w", err)
	}
	if reply.SetName == "" && reply.Msg != "isdbgrid" {
		return ErrNoReplicaSet
	}
	return nil
}

func (m *MongoRepositoryManager) ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// mongoIndexes mirrors the unique constraints and lookup indexes of the
// PostgreSQL schema.
var mongoIndexes = map[string][]mongo.IndexModel{
	users.Collection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	tasks.Collection: {
		{Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "deadline", Value: 1}}},
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
	},
	refreshtokens.Collection: {
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
	},
}

// RunMigrations ensures the collection indexes exist.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	for _, name := range []string{users.Collection, tasks.Collection, refreshtokens.Collection} {
		if _, err := m.db.Collection(name).Indexes().CreateMany(ctx, mongoIndexes[name]); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
