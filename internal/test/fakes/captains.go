// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakes

import (
	"context"
	"errors"
	"sort"

	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Captains is a fake repo.Captains.
type Captains struct{}

func (Captains) Conn(c repo.Conn) repo.CaptainsConnQueryer {
	return captainsQ{db: dbOf(c)}
}

func (Captains) Tx(tx repo.Tx) repo.CaptainsTxQueryer {
	return captainsQ{db: dbOf(tx)}
}

type captainsQ struct {
	db *DB
}

func (t *tables) captainsOf(businessID int64) []*model.Captain {
	cs := []*model.Captain{}
	for _, c := range t.captains {
		if c.BusinessID == businessID {
			cp := *c
			cs = append(cs, &cp)
		}
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })
	return cs
}

func (q captainsQ) Insert(ctx context.Context, c *model.Captain) (id int64, err error) {
	err = q.db.do("Captains.Insert", func(t *tables) error {
		if _, ok := t.businesses[c.BusinessID]; !ok {
			return errors.New("foreign key violation: business_id")
		}
		cp := *c
		cp.ID = t.id()
		t.captains[cp.ID] = &cp
		id = cp.ID
		return nil
	})
	return
}

func (q captainsQ) Captain(ctx context.Context, captainID int64) (c *model.Captain, err error) {
	err = q.db.do("Captains.Captain", func(t *tables) error {
		cc, ok := t.captains[captainID]
		if !ok {
			return cerr.NotFound(errors.New("captain not found"))
		}
		cp := *cc
		c = &cp
		return nil
	})
	return
}

func (q captainsQ) List(ctx context.Context, businessID int64) (cs []*model.Captain, err error) {
	err = q.db.do("Captains.List", func(t *tables) error {
		cs = t.captainsOf(businessID)
		return nil
	})
	return
}

func (q captainsQ) Delete(ctx context.Context, captainID int64) error {
	return q.db.do("Captains.Delete", func(t *tables) error {
		if _, ok := t.captains[captainID]; !ok {
			return cerr.NotFound(errors.New("captain not found"))
		}
		delete(t.captains, captainID)
		return nil
	})
}
