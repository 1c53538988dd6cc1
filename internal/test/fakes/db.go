// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fakes provides in-memory implementations of the repo
// package interfaces, so use cases can be tested without a database.
// Transactions are emulated by taking a snapshot of all tables when
// they begin and restoring it if their handler fails.
package fakes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// ErrRawSQL is returned by the Exec and Query methods since the fake
// database does not interpret SQL statements.
var ErrRawSQL = errors.New("raw SQL is not supported by the fake DB")

// DB is an in-memory database. Its zero value is not usable, use
// NewDB instead.
type DB struct {
	mu     sync.Mutex
	tables *tables
	fail   map[string]error

	// Now is used as the creation time of the inserted rows.
	Now func() time.Time

	// Commits and Rollbacks count the finished transactions.
	Commits, Rollbacks int
}

type tables struct {
	nextID        int64
	users         map[int64]*model.User
	businesses    map[int64]*model.Business
	boats         map[int64]*model.Boat
	verifications map[int64]*model.Verification
	captains      map[int64]*model.Captain
	rentals       map[int64]*model.Rental
	reviews       map[int64]*model.Review
	favorites     map[[2]int64]bool
	tokens        map[string]*model.Token
}

// NewDB creates an empty fake database.
func NewDB() *DB {
	return &DB{
		tables: &tables{
			users:         map[int64]*model.User{},
			businesses:    map[int64]*model.Business{},
			boats:         map[int64]*model.Boat{},
			verifications: map[int64]*model.Verification{},
			captains:      map[int64]*model.Captain{},
			rentals:       map[int64]*model.Rental{},
			reviews:       map[int64]*model.Review{},
			favorites:     map[[2]int64]bool{},
			tokens:        map[string]*model.Token{},
		},
		fail: map[string]error{},
		Now:  time.Now,
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		nextID:        t.nextID,
		users:         cloneMap(t.users),
		businesses:    cloneMap(t.businesses),
		boats:         map[int64]*model.Boat{},
		verifications: cloneMap(t.verifications),
		captains:      cloneMap(t.captains),
		rentals:       cloneMap(t.rentals),
		reviews:       cloneMap(t.reviews),
		favorites:     map[[2]int64]bool{},
		tokens:        cloneMap(t.tokens),
	}
	for k, v := range t.boats {
		b := *v
		b.Photos = append([]string(nil), v.Photos...)
		b.TripTypes = append(model.TripTypes(nil), v.TripTypes...)
		c.boats[k] = &b
	}
	for k, v := range t.favorites {
		c.favorites[k] = v
	}
	return c
}

func cloneMap[K comparable, V any](m map[K]*V) map[K]*V {
	c := make(map[K]*V, len(m))
	for k, v := range m {
		vv := *v
		c[k] = &vv
	}
	return c
}

func (t *tables) id() int64 {
	t.nextID++
	return t.nextID
}

// FailOn makes the next calls of the op operation (e.g., "Boats.Insert")
// fail with err. Passing a nil err clears the failure.
func (db *DB) FailOn(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err == nil {
		delete(db.fail, op)
		return
	}
	db.fail[op] = err
}

// do runs f while holding the database lock, unless op is configured
// to fail.
func (db *DB) do(op string, f func(t *tables) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.fail[op]; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return f(db.tables)
}

// Pool returns a repo.Pool which hands out connections to db.
func (db *DB) Pool() repo.Pool {
	return pool{db: db}
}

type pool struct {
	db *DB
}

func (p pool) Conn(ctx context.Context, h repo.ConnHandler) error {
	return h(ctx, &Conn{db: p.db})
}

func (p pool) Close() error {
	return nil
}

// Conn is a fake connection. It implements repo.Conn.
type Conn struct {
	db *DB
}

func (c *Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrRawSQL
}

func (c *Conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrRawSQL
}

func (c *Conn) IsConn() {
}

// Tx runs h with a fake transaction. If h fails or panics, all tables
// are restored to their state before calling h.
func (c *Conn) Tx(ctx context.Context, h repo.TxHandler) (err error) {
	c.db.mu.Lock()
	snapshot := c.db.tables.clone()
	c.db.mu.Unlock()
	defer func() {
		r := recover()
		c.db.mu.Lock()
		defer c.db.mu.Unlock()
		if r != nil || err != nil {
			c.db.tables = snapshot
			c.db.Rollbacks++
			if r != nil {
				err = fmt.Errorf("panicked: %v", r)
			}
			return
		}
		c.db.Commits++
	}()
	return h(ctx, &Tx{db: c.db})
}

// Tx is a fake transaction. It implements repo.Tx.
type Tx struct {
	db *DB
}

func (tx *Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrRawSQL
}

func (tx *Tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrRawSQL
}

func (tx *Tx) IsTx() {
}

func dbOf(c any) *DB {
	switch cc := c.(type) {
	case *Conn:
		return cc.db
	case *Tx:
		return cc.db
	default:
		panic(fmt.Sprintf("unsupported fake connection type: %T", c))
	}
}
