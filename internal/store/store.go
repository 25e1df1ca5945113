package store

import (
	"context"
	"errors"
	"io"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotFound is returned when a document id does not exist in a collection.
var ErrNotFound = errors.New("document not found")

// Doc pairs a document with its canonical string identifier. The _id field
// is never part of Data.
type Doc struct {
	ID   string
	Data bson.M
}

type opKind int

const (
	opSet opKind = iota
	opDelete
)

// BatchOp is one write inside an atomic batch commit.
type BatchOp struct {
	kind       opKind
	Collection string
	ID         string
	Data       bson.M
}

func SetOp(collection, id string, data bson.M) BatchOp {
	return BatchOp{kind: opSet, Collection: collection, ID: id, Data: data}
}

func DeleteOp(collection, id string) BatchOp {
	return BatchOp{kind: opDelete, Collection: collection, ID: id}
}

// MutateFunc transforms the current state of a single document. exists is
// false when the document is absent, in which case current is nil. The
// returned document replaces the stored one.
type MutateFunc func(current bson.M, exists bool) (bson.M, error)

// DocumentStore is the narrow contract the storefront has with its remote
// document store: plain reads and writes over named collections, an atomic
// multi-document batch, and a transactional read-modify-write over a single
// document.
type DocumentStore interface {
	GetAll(ctx context.Context, collection string) ([]Doc, error)
	GetOne(ctx context.Context, collection, id string) (bson.M, error)
	Set(ctx context.Context, collection, id string, data bson.M) error
	Insert(ctx context.Context, collection string, data bson.M) (string, error)
	Update(ctx context.Context, collection, id string, fields bson.M) error
	Delete(ctx context.Context, collection, id string) error

	// Commit applies every op or none of them.
	Commit(ctx context.Context, ops []BatchOp) error

	// Mutate runs fn against the current document state and persists the
	// result, retrying on concurrent modification so that no update is lost.
	Mutate(ctx context.Context, collection, id string, fn MutateFunc) error

	Ping(ctx context.Context) error
}

// ObjectStore holds binary payloads under slash-separated names and resolves
// them to retrievable URLs.
type ObjectStore interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
}
