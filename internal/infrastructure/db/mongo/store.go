package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxPoolSize = 50
	appName            = "user-auth-service"
)

type Config struct {
	URI         string
	Database    string
	MaxPoolSize uint64
	Timeout     time.Duration
}

// Store is the MongoDB credential store: users, secret questions and the
// audit trail share one client.
type Store struct {
	client *mongo.Client

	Users     *UserRepository
	Questions *QuestionRepository
	Audit     *AuditRepository
}

// Open connects with majority write concern, pings the primary and creates
// the unique email index before handing out repositories.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	poolSize := cfg.MaxPoolSize
	if poolSize == 0 {
		poolSize = defaultMaxPoolSize
	}

	openCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(openCtx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetMaxPoolSize(poolSize).
		SetServerSelectionTimeout(timeout).
		SetWriteConcern(writeconcern.Majority()))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	s := &Store{client: client}
	if err := s.Ping(openCtx); err != nil {
		_ = client.Disconnect(openCtx)
		return nil, err
	}

	db := client.Database(cfg.Database)
	s.Users = NewUserRepository(db)
	if err := s.Users.EnsureIndexes(openCtx); err != nil {
		_ = client.Disconnect(openCtx)
		return nil, err
	}
	s.Questions = NewQuestionRepository(db)
	s.Audit = NewAuditRepository(db)
	return s, nil
}

// Ping reports whether the primary answers. Used by the readiness check.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
