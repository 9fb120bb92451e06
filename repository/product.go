package repository

import (
	"context"
	"fmt"
	"time"

	"quickcart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProducts is the MongoDB backed ProductRepository
type MongoProducts struct {
	Collection *mongo.Collection
}

func NewMongoProducts(db *mongo.Database) *MongoProducts {
	return &MongoProducts{Collection: db.Collection("products")}
}

func (m *MongoProducts) List(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	return products, nil
}

func (m *MongoProducts) Create(ctx context.Context, product *models.Product) error {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	result, err := m.Collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	return nil
}
