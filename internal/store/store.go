// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

// Package store wraps the MongoDB cluster that holds one database per
// competition event. The connection is established once at startup and
// closed once at shutdown; the underlying driver pools connections, so a
// single Store is safe for concurrent use by all request handlers.
//
// Every read strips the storage-internal _id field, and every write is an
// upsert by natural key (replace-or-insert, never duplicate).
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrMissingURI is returned by New when no connection string is supplied.
var ErrMissingURI = errors.New("store: connection string is required")

// Options configures the cluster connection.
type Options struct {
	// URI is the cluster connection string. Required.
	URI string

	// ConnectTimeout bounds the initial connection handshake.
	ConnectTimeout time.Duration
}

// Store holds the shared cluster client.
type Store struct {
	client *mongo.Client
}

// New connects to the cluster. It fails fast when no URI is configured;
// the process must not start in that state.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.URI == "" {
		return nil, ErrMissingURI
	}

	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.ConnectTimeout > 0 {
		clientOpts = clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("store: connecting to cluster: %w", err)
	}

	return &Store{client: client}, nil
}

// Close disconnects from the cluster. Call once at shutdown.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("store: disconnecting: %w", err)
	}
	return nil
}

// Database returns a handle to the named event database.
func (s *Store) Database(name string) *mongo.Database {
	return s.client.Database(name)
}

// ListDatabaseNames returns every database name in the cluster.
func (s *Store) ListDatabaseNames(ctx context.Context) ([]string, error) {
	names, err := s.client.ListDatabaseNames(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("store: listing databases: %w", err)
	}
	return names, nil
}

// Ping runs the ping command against the named database and reports whether
// the server answered ok.
func (s *Store) Ping(ctx context.Context, dbName string) (bool, error) {
	var result bson.M
	err := s.client.Database(dbName).RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Decode(&result)
	if err != nil {
		return false, fmt.Errorf("store: pinging %s: %w", dbName, err)
	}
	return truthyOK(result["ok"]), nil
}

// Find returns every document in the collection matching filter, with _id
// and any extra excluded fields stripped.
func (s *Store) Find(ctx context.Context, dbName, collection string, filter bson.M, exclude ...string) ([]bson.M, error) {
	projection := bson.M{"_id": 0}
	for _, field := range exclude {
		projection[field] = 0
	}

	cursor, err := s.client.Database(dbName).Collection(collection).
		Find(ctx, filter, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("store: querying %s.%s: %w", dbName, collection, err)
	}

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("store: reading %s.%s cursor: %w", dbName, collection, err)
	}
	return docs, nil
}

// FindAll returns the full contents of a collection.
func (s *Store) FindAll(ctx context.Context, dbName, collection string) ([]bson.M, error) {
	return s.Find(ctx, dbName, collection, bson.M{})
}

// FindOne returns the first document matching filter with _id stripped, or
// nil when no document matches.
func (s *Store) FindOne(ctx context.Context, dbName, collection string, filter bson.M) (bson.M, error) {
	var doc bson.M
	err := s.client.Database(dbName).Collection(collection).
		FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 0})).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: fetching from %s.%s: %w", dbName, collection, err)
	}
	return doc, nil
}

// Upsert replaces the document matching filter with doc's fields, inserting
// when no document matches. The filter is the document's natural key, so the
// same key never yields duplicates.
func (s *Store) Upsert(ctx context.Context, dbName, collection string, filter, doc bson.M) error {
	_, err := s.client.Database(dbName).Collection(collection).
		UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store: upserting into %s.%s: %w", dbName, collection, err)
	}
	return nil
}

// DeleteOne removes the document matching filter. Deleting a document that
// does not exist is not an error; there is no tombstone.
func (s *Store) DeleteOne(ctx context.Context, dbName, collection string, filter bson.M) error {
	_, err := s.client.Database(dbName).Collection(collection).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("store: deleting from %s.%s: %w", dbName, collection, err)
	}
	return nil
}

// truthyOK interprets the ok field of a command reply, which the server
// reports as a numeric 1 or 0.
func truthyOK(v interface{}) bool {
	switch ok := v.(type) {
	case float64:
		return ok == 1
	case int32:
		return ok == 1
	case int64:
		return ok == 1
	case int:
		return ok == 1
	case bool:
		return ok
	default:
		return false
	}
}
