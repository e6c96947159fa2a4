package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tripmate/accounts-api/internal/model"
)

var ErrTokenNotFound = errors.New("auth token not found")

// AuthTokenRepository defines the interface for bearer token operations.
// At most one token exists per user.
type AuthTokenRepository interface {
	// Issue returns the user's live token, creating one with the given key
	// if none exists. The get-or-create is a single atomic upsert, so
	// concurrent calls for the same user converge on one token.
	Issue(ctx context.Context, userID, key string) (*model.AuthToken, error)

	// GetByKey resolves a presented token key.
	GetByKey(ctx context.Context, key string) (*model.AuthToken, error)

	// DeleteByUserID revokes the user's token if one exists.
	DeleteByUserID(ctx context.Context, userID string) error
}

const authTokenCollection = "auth_tokens"

type authTokenMongoRepository struct {
	db *mongo.Database
}

// NewAuthTokenMongoRepository creates a MongoDB-backed AuthTokenRepository.
// The unique index on user_id enforces the one-live-token invariant at the
// store level.
func NewAuthTokenMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) AuthTokenRepository {
	collection := db.Collection(authTokenCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create auth token indexes")
	}

	return &authTokenMongoRepository{db: db}
}

func (r *authTokenMongoRepository) Issue(ctx context.Context, userID, key string) (*model.AuthToken, error) {
	result := r.db.Collection(authTokenCollection).FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$setOnInsert": bson.M{
			"user_id":    userID,
			"key":        key,
			"created_at": time.Now(),
		}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		return nil, err
	}

	var token model.AuthToken
	if err := result.Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func (r *authTokenMongoRepository) GetByKey(ctx context.Context, key string) (*model.AuthToken, error) {
	result := r.db.Collection(authTokenCollection).FindOne(ctx, bson.M{"key": key})
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	var token model.AuthToken
	if err := result.Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func (r *authTokenMongoRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.Collection(authTokenCollection).DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}
