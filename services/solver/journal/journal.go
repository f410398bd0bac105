// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package journal persists solve records in embedded BadgerDB storage.
//
// Every completed solve is recorded under a generated id so clients can
// fetch results later and operators can inspect solve history. Records
// are small JSON documents; Badger gives low-latency local access with
// no external service.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianCube/pkg/logging"
)

var (
	// ErrNotFound is returned when no record exists for an id.
	ErrNotFound = errors.New("solve record not found")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("journal is closed")
)

const keyPrefix = "solve/"

// Record is one persisted solve.
type Record struct {
	ID        string        `json:"id"`
	Scramble  string        `json:"scramble,omitempty"`
	Algorithm string        `json:"algorithm"`
	Solution  string        `json:"solution"`
	Length    int           `json:"length"`
	Status    string        `json:"status"`
	Nodes     uint64        `json:"nodes"`
	Elapsed   time.Duration `json:"elapsed"`
	CreatedAt time.Time     `json:"created_at"`
}

// Config holds journal storage configuration.
type Config struct {
	// Path is the directory for the Badger files. Required unless
	// InMemory is true.
	Path string

	// InMemory disables disk persistence. Useful for testing.
	InMemory bool

	// SyncWrites makes each record durable before Append returns.
	SyncWrites bool

	// TTL expires records after the given duration. Zero keeps them
	// forever.
	TTL time.Duration

	// Logger receives Badger's internal logging. Nil disables it.
	Logger *logging.Logger
}

// DefaultConfig returns durable on-disk settings with a 30-day
// retention.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
		TTL:        30 * 24 * time.Hour,
	}
}

// InMemoryConfig returns settings for tests: no disk, no retention
// limit.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Journal is a BadgerDB-backed solve log. Safe for concurrent use.
type Journal struct {
	db     *badger.DB
	ttl    time.Duration
	closed bool
}

// Open creates the journal, creating the storage directory if needed.
func Open(cfg Config) (*Journal, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("journal path required for persistent storage")
		}
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open journal storage: %w", err)
	}
	return &Journal{db: db, ttl: cfg.TTL}, nil
}

// Close releases the underlying database. Further calls fail with
// ErrClosed.
func (j *Journal) Close() error {
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}

// Append stores the record, assigning an id and timestamp if unset,
// and returns the stored record.
func (j *Journal) Append(rec Record) (Record, error) {
	if j.closed {
		return Record{}, ErrClosed
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("encode solve record: %w", err)
	}
	err = j.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(keyPrefix+rec.ID), raw)
		if j.ttl > 0 {
			e = e.WithTTL(j.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return Record{}, fmt.Errorf("store solve record: %w", err)
	}
	return rec, nil
}

// Get fetches a record by id.
func (j *Journal) Get(id string) (Record, error) {
	if j.closed {
		return Record{}, ErrClosed
	}
	var rec Record
	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns up to limit records in unspecified order. Limit <= 0
// means all.
func (j *Journal) List(limit int) ([]Record, error) {
	if j.closed {
		return nil, ErrClosed
	}
	var out []Record
	err := j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list solve records: %w", err)
	}
	return out, nil
}

// badgerLogger adapts the structured logger to Badger's interface.
type badgerLogger struct {
	logger *logging.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
