package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quickcart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUsers is the MongoDB backed UserRepository
type MongoUsers struct {
	Collection *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{Collection: db.Collection("users")}
}

func (m *MongoUsers) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	if user.CartItems == nil {
		user.CartItems = models.CartItems{}
	}
	result, err := m.Collection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (m *MongoUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return m.findOne(ctx, bson.M{"_id": oid})
}

func (m *MongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (m *MongoUsers) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return m.findOne(ctx, bson.M{"verification_token": token})
}

func (m *MongoUsers) MarkVerified(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	return m.updateOne(ctx, oid, bson.M{
		"$set": bson.M{
			"is_verified":        true,
			"verification_token": "",
		},
	})
}

func (m *MongoUsers) ClaimForProvider(ctx context.Context, id string, provider string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	return m.updateOne(ctx, oid, bson.M{
		"$set": bson.M{
			"is_verified":        true,
			"verification_token": "",
			"provider":           provider,
		},
		"$unset": bson.M{"password": ""},
	})
}

func (m *MongoUsers) UpdateCart(ctx context.Context, id string, items models.CartItems) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	return m.updateOne(ctx, oid, bson.M{"$set": bson.M{"cart_items": items}})
}

func (m *MongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := m.Collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (m *MongoUsers) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := m.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
