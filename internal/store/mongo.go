package store

import (
	"context"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo implements DocumentStore on a MongoDB database. Batch commits and
// single-document mutations both run inside a driver session transaction.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) GetAll(ctx context.Context, collection string) ([]Doc, error) {
	cursor, err := m.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]Doc, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		id := idToString(raw["_id"])
		delete(raw, "_id")
		docs = append(docs, Doc{ID: id, Data: raw})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (m *Mongo) GetOne(ctx context.Context, collection, id string) (bson.M, error) {
	var raw bson.M
	err := m.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	delete(raw, "_id")
	return raw, nil
}

func (m *Mongo) Set(ctx context.Context, collection, id string, data bson.M) error {
	opts := options.Replace().SetUpsert(true)
	_, err := m.db.Collection(collection).ReplaceOne(ctx, idFilter(id), data, opts)
	return err
}

func (m *Mongo) Insert(ctx context.Context, collection string, data bson.M) (string, error) {
	res, err := m.db.Collection(collection).InsertOne(ctx, data)
	if err != nil {
		return "", err
	}
	return idToString(res.InsertedID), nil
}

func (m *Mongo) Update(ctx context.Context, collection, id string, fields bson.M) error {
	res, err := m.db.Collection(collection).UpdateOne(ctx, idFilter(id), bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, collection, id string) error {
	res, err := m.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Commit(ctx context.Context, ops []BatchOp) error {
	if len(ops) == 0 {
		return nil
	}

	session, err := m.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		for _, op := range ops {
			coll := m.db.Collection(op.Collection)
			switch op.kind {
			case opSet:
				opts := options.Replace().SetUpsert(true)
				if _, err := coll.ReplaceOne(sessCtx, idFilter(op.ID), op.Data, opts); err != nil {
					return nil, err
				}
			case opDelete:
				if _, err := coll.DeleteOne(sessCtx, idFilter(op.ID)); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	})
	return err
}

func (m *Mongo) Mutate(ctx context.Context, collection, id string, fn MutateFunc) error {
	session, err := m.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		var current bson.M
		exists := true
		err := m.db.Collection(collection).FindOne(sessCtx, idFilter(id)).Decode(&current)
		if err == mongo.ErrNoDocuments {
			exists = false
			current = nil
		} else if err != nil {
			return nil, err
		}
		if exists {
			delete(current, "_id")
		}

		next, err := fn(current, exists)
		if err != nil {
			return nil, err
		}

		opts := options.Replace().SetUpsert(true)
		if _, err := m.db.Collection(collection).ReplaceOne(sessCtx, idFilter(id), next, opts); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, readpref.Primary())
}

// idFilter matches documents keyed either by a plain string or by an
// ObjectID whose hex form equals id. Orders carry ObjectID keys; catalog,
// settings and counter documents carry string keys.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

func idToString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
