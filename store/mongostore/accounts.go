package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-identity-server/accounts"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type accountDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email,omitempty"`
	FirstName    string    `bson:"fname,omitempty"`
	LastName     string    `bson:"lname,omitempty"`
	PasswordHash string    `bson:"phash,omitempty"`
	Banned       bool      `bson:"banned,omitempty"`
	CreatedAt    time.Time `bson:"c"`
}

func (d *accountDoc) toAccount() *accounts.Account {
	return &accounts.Account{
		ID:           d.ID,
		Email:        d.Email,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		PasswordHash: d.PasswordHash,
		Banned:       d.Banned,
		CreatedAt:    d.CreatedAt,
	}
}

type accountRepo struct {
	collection *mongo.Collection
}

var _ accounts.Repo = (*accountRepo)(nil)

// Accounts returns the Mongo-backed account repository.
func (s *Store) Accounts() accounts.Repo {
	return &accountRepo{collection: s.collection(accountsCollectionName)}
}

func (ar *accountRepo) Create(ctx context.Context, account *accounts.Account) (string, error) {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	doc := accountDoc{
		ID:           account.ID,
		Email:        account.Email,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		PasswordHash: account.PasswordHash,
		Banned:       account.Banned,
		CreatedAt:    account.CreatedAt,
	}
	if _, err := ar.collection.InsertOne(ctx, doc); err != nil {
		return "", errors.Wrap(err, "[accountRepo.Create] InsertOne")
	}
	return account.ID, nil
}

func (ar *accountRepo) GetByID(ctx context.Context, id string) (*accounts.Account, error) {
	var doc accountDoc
	if err := ar.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accounts.ErrAccountNotFound
		}
		return nil, errors.Wrap(err, "[accountRepo.GetByID] FindOne")
	}
	return doc.toAccount(), nil
}

func (ar *accountRepo) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	var doc accountDoc
	if err := ar.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, accounts.ErrAccountNotFound
		}
		return nil, errors.Wrap(err, "[accountRepo.GetByEmail] FindOne")
	}
	return doc.toAccount(), nil
}

func (ar *accountRepo) IsBanned(ctx context.Context, id string) (bool, error) {
	account, err := ar.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return account.Banned, nil
}
