package mongostore

import (
	"context"
	"time"

	"github.com/jrsteele09/go-identity-server/identity"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type linkDoc struct {
	Strategy   string         `bson:"strategy"`
	ExternalID string         `bson:"eid"`
	AccountID  string         `bson:"aid"`
	Email      string         `bson:"email,omitempty"`
	FirstName  string         `bson:"fname,omitempty"`
	LastName   string         `bson:"lname,omitempty"`
	Profile    map[string]any `bson:"profile,omitempty"`
	CreatedAt  time.Time      `bson:"c"`
}

type linkRepo struct {
	collection *mongo.Collection
}

var _ identity.LinkRepo = (*linkRepo)(nil)

// Links returns the Mongo-backed link repository. The collection's unique
// (strategy, eid) index rejects the loser of a concurrent creation race.
func (s *Store) Links() identity.LinkRepo {
	return &linkRepo{collection: s.collection(linksCollectionName)}
}

func (lr *linkRepo) Find(ctx context.Context, strategy, externalID string) (*identity.Link, error) {
	var doc linkDoc
	err := lr.collection.FindOne(ctx, bson.M{"strategy": strategy, "eid": externalID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, identity.ErrLinkNotFound
		}
		return nil, errors.Wrap(err, "[linkRepo.Find] FindOne")
	}
	return &identity.Link{
		Strategy:   doc.Strategy,
		ExternalID: doc.ExternalID,
		AccountID:  doc.AccountID,
		Email:      doc.Email,
		FirstName:  doc.FirstName,
		LastName:   doc.LastName,
		Profile:    doc.Profile,
		CreatedAt:  doc.CreatedAt,
	}, nil
}

func (lr *linkRepo) Create(ctx context.Context, link *identity.Link) error {
	doc := linkDoc{
		Strategy:   link.Strategy,
		ExternalID: link.ExternalID,
		AccountID:  link.AccountID,
		Email:      link.Email,
		FirstName:  link.FirstName,
		LastName:   link.LastName,
		Profile:    link.Profile,
		CreatedAt:  link.CreatedAt,
	}
	if _, err := lr.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return identity.ErrLinkExists
		}
		return errors.Wrap(err, "[linkRepo.Create] InsertOne")
	}
	return nil
}
