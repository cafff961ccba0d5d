// Package mongostore provides MongoDB-backed implementations of the account,
// link, remember-me, API-key and settings repositories, accessed via the
// official mongo-go driver.
package mongostore

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	accountsCollectionName   = "accounts"
	linksCollectionName      = "identity_links"
	rememberMeCollectionName = "remember_me"
	apiKeysCollectionName    = "api_keys"
	settingsCollectionName   = "settings"
)

// Store wraps a Mongo database and hands out repository implementations.
type Store struct {
	db *mongo.Database
}

// New creates a Store on the named database and ensures the indexes the
// protocol relies on. The unique (strategy, externalID) index is what makes
// the datastore the arbiter of racing link creations.
func New(ctx context.Context, client *mongo.Client, dbName string) (*Store, error) {
	if client == nil {
		return nil, errors.New("[mongostore.New] mongo client is required")
	}
	store := &Store{db: client.Database(dbName)}

	_, err := store.db.Collection(linksCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "strategy", Value: 1}, {Key: "eid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, errors.Wrap(err, "[mongostore.New] link index")
	}

	_, err = store.db.Collection(accountsCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "[mongostore.New] account email index")
	}

	_, err = store.db.Collection(apiKeysCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "aid", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, errors.Wrap(err, "[mongostore.New] api key index")
	}

	return store, nil
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}
