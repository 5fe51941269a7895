package repository

import (
	"context"
	"time"

	"github.com/stockboard/stockboard/internal/stock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRecord is one record per Mongo document. Fields stay an array so
// their order survives the round trip.
type mongoRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Fields    []stock.Field      `bson:"fields"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// MongoRepo implements a MongoDB-backed repository. Insertion order is
// recovered by sorting on _id.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) List(ctx context.Context) ([]stock.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, stock.ReadError("list", err)
	}
	defer cur.Close(ctx)
	out := []stock.Record{}
	for cur.Next(ctx) {
		var d mongoRecord
		if err := cur.Decode(&d); err != nil {
			return nil, stock.FormatError("list", err)
		}
		out = append(out, stock.Record{Fields: d.Fields})
	}
	if err := cur.Err(); err != nil {
		return nil, stock.ReadError("list", err)
	}
	return out, nil
}

func (m *MongoRepo) Append(ctx context.Context, rec stock.Record) error {
	if err := rec.Validate(); err != nil {
		return stock.WriteError("append", err)
	}
	d := mongoRecord{
		ID:        primitive.NewObjectID(),
		Fields:    rec.Clone().Fields,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := m.col.InsertOne(ctx, d); err != nil {
		return stock.WriteError("append", err)
	}
	return nil
}

// Check pings the server behind the collection.
func (m *MongoRepo) Check(ctx context.Context) error {
	if err := m.col.Database().Client().Ping(ctx, nil); err != nil {
		return stock.ReadError("check", err)
	}
	return nil
}
