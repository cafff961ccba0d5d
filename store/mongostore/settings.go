package mongostore

import (
	"context"

	"github.com/jrsteele09/go-identity-server/settings"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const serverSettingsID = "server"

type settingsDoc struct {
	ID        string `bson:"_id"`
	HelpEmail string `bson:"help_email,omitempty"`
}

type settingsRepo struct {
	collection *mongo.Collection
}

var _ settings.Repo = (*settingsRepo)(nil)

// Settings returns the Mongo-backed settings repository. A missing document
// yields zero-value settings, letting callers fall back to their defaults.
func (s *Store) Settings() settings.Repo {
	return &settingsRepo{collection: s.collection(settingsCollectionName)}
}

func (sr *settingsRepo) Get(ctx context.Context) (*settings.Settings, error) {
	var doc settingsDoc
	if err := sr.collection.FindOne(ctx, bson.M{"_id": serverSettingsID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &settings.Settings{}, nil
		}
		return nil, errors.Wrap(err, "[settingsRepo.Get] FindOne")
	}
	return &settings.Settings{HelpEmail: doc.HelpEmail}, nil
}
