package mongostore

import (
	"context"
	"time"

	"github.com/jrsteele09/go-identity-server/token"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type rememberMeDoc struct {
	Hash      string    `bson:"_id"`
	AccountID string    `bson:"aid"`
	Payload   string    `bson:"payload,omitempty"`
	IssuedAt  time.Time `bson:"c"`
	ExpiresAt time.Time `bson:"exp"`
}

type rememberMeRepo struct {
	collection *mongo.Collection
}

var _ token.RememberMeRepo = (*rememberMeRepo)(nil)

// RememberMe returns the Mongo-backed remember-me repository. Records are
// never deleted; expired ones simply stop matching the Get filter.
func (s *Store) RememberMe() token.RememberMeRepo {
	return &rememberMeRepo{collection: s.collection(rememberMeCollectionName)}
}

func (rr *rememberMeRepo) Get(ctx context.Context, hash string) (*token.RememberMeRecord, error) {
	var doc rememberMeDoc
	filter := bson.M{"_id": hash, "exp": bson.M{"$gt": time.Now()}}
	if err := rr.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, token.ErrRememberMeNotFound
		}
		return nil, errors.Wrap(err, "[rememberMeRepo.Get] FindOne")
	}
	return &token.RememberMeRecord{
		Hash:      doc.Hash,
		AccountID: doc.AccountID,
		Payload:   doc.Payload,
		IssuedAt:  doc.IssuedAt,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

func (rr *rememberMeRepo) Save(ctx context.Context, record *token.RememberMeRecord) error {
	doc := rememberMeDoc{
		Hash:      record.Hash,
		AccountID: record.AccountID,
		Payload:   record.Payload,
		IssuedAt:  record.IssuedAt,
		ExpiresAt: record.ExpiresAt,
	}
	if _, err := rr.collection.InsertOne(ctx, doc); err != nil {
		return errors.Wrap(err, "[rememberMeRepo.Save] InsertOne")
	}
	return nil
}

type apiKeyDoc struct {
	AccountID string    `bson:"aid"`
	Key       string    `bson:"key"`
	CreatedAt time.Time `bson:"c"`
}

type apiKeyRepo struct {
	collection *mongo.Collection
}

var _ token.APIKeyRepo = (*apiKeyRepo)(nil)

// APIKeys returns the Mongo-backed API key repository.
func (s *Store) APIKeys() token.APIKeyRepo {
	return &apiKeyRepo{collection: s.collection(apiKeysCollectionName)}
}

func (kr *apiKeyRepo) GetByAccount(ctx context.Context, accountID string) (*token.APIKey, error) {
	var doc apiKeyDoc
	if err := kr.collection.FindOne(ctx, bson.M{"aid": accountID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, token.ErrAPIKeyNotFound
		}
		return nil, errors.Wrap(err, "[apiKeyRepo.GetByAccount] FindOne")
	}
	return &token.APIKey{AccountID: doc.AccountID, Key: doc.Key, CreatedAt: doc.CreatedAt}, nil
}

func (kr *apiKeyRepo) Save(ctx context.Context, key *token.APIKey) error {
	doc := apiKeyDoc{AccountID: key.AccountID, Key: key.Key, CreatedAt: key.CreatedAt}
	if _, err := kr.collection.InsertOne(ctx, doc); err != nil {
		return errors.Wrap(err, "[apiKeyRepo.Save] InsertOne")
	}
	return nil
}
