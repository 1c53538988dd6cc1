// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrp implements the repo.Users repository, keeping the
// user accounts, their businesses, and their one-time tokens.
package usersrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momeni/boat-rental/pkg/adapter/db/postgres"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
)

type gUser struct {
	ID            int64 `gorm:"primaryKey;column:user_id"`
	Email         string
	PasswordHash  string
	FullName      string
	Phone         string
	AccountType   string
	EmailVerified bool
}

func (gu *gUser) TableName() string {
	return "users"
}

func (gu *gUser) Model() *model.User {
	return &model.User{
		ID:            gu.ID,
		Email:         gu.Email,
		FullName:      gu.FullName,
		Phone:         gu.Phone,
		AccountType:   model.AccountType(gu.AccountType),
		EmailVerified: gu.EmailVerified,
		PasswordHash:  gu.PasswordHash,
	}
}

type gBusiness struct {
	ID      int64 `gorm:"primaryKey;column:business_id"`
	UserID  int64
	Name    string
	Phone   string
	Address string
}

func (gb *gBusiness) TableName() string {
	return "businesses"
}

func (gb *gBusiness) Model() *model.Business {
	return &model.Business{
		ID:      gb.ID,
		UserID:  gb.UserID,
		Name:    gb.Name,
		Phone:   gb.Phone,
		Address: gb.Address,
	}
}

var (
	errUserNotFound     = cerr.NotFound(errors.New("user not found"))
	errBusinessNotFound = cerr.NotFound(errors.New("business not found"))
)

func CreateUser(ctx context.Context, tx *postgres.Tx, u *model.User) (int64, error) {
	gu := &gUser{
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		FullName:      u.FullName,
		Phone:         u.Phone,
		AccountType:   string(u.AccountType),
		EmailVerified: u.EmailVerified,
	}
	if err := tx.GORM(ctx).Create(gu).Error; err != nil {
		if postgres.ErrCode(err) == postgres.UniqueViolation {
			return 0, cerr.Conflict(errors.New("email is already registered"))
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	return gu.ID, nil
}

func CreateBusiness(ctx context.Context, tx *postgres.Tx, b *model.Business) (int64, error) {
	gb := &gBusiness{
		UserID:  b.UserID,
		Name:    b.Name,
		Phone:   b.Phone,
		Address: b.Address,
	}
	if err := tx.GORM(ctx).Create(gb).Error; err != nil {
		switch postgres.ErrCode(err) {
		case postgres.ForeignKeyViolation:
			return 0, errUserNotFound
		case postgres.UniqueViolation:
			return 0, cerr.Conflict(errors.New("user already has a business"))
		}
		return 0, fmt.Errorf("inserting business: %w", err)
	}
	return gb.ID, nil
}

func updateUser(
	ctx context.Context, tx *postgres.Tx, userID int64, col string, v any,
) error {
	gdb := tx.GORM(ctx).Model(&gUser{}).Where("user_id = ?", userID).Update(col, v)
	if err := gdb.Error; err != nil {
		return fmt.Errorf("updating %s: %w", col, err)
	}
	if gdb.RowsAffected != 1 {
		return errUserNotFound
	}
	return nil
}

func SetEmailVerified(ctx context.Context, tx *postgres.Tx, userID int64) error {
	return updateUser(ctx, tx, userID, "email_verified", true)
}

func SetPasswordHash(ctx context.Context, tx *postgres.Tx, userID int64, hash string) error {
	return updateUser(ctx, tx, userID, "password_hash", hash)
}

// tokenTable returns the table name of a token kind. Each kind is kept
// in a distinct table, so they may not be consumed interchangeably.
func tokenTable(kind model.TokenKind) (string, error) {
	switch kind {
	case model.TokenEmailVerification:
		return "email_verifications", nil
	case model.TokenPasswordReset:
		return "reset_tokens", nil
	default:
		return "", fmt.Errorf("unknown token kind %q", kind)
	}
}

func CreateToken(ctx context.Context, tx *postgres.Tx, t *model.Token) error {
	tbl, err := tokenTable(t.Kind)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		"INSERT INTO "+tbl+" (token, user_id, expires_at) VALUES (?, ?, ?)",
		t.Value, t.UserID, t.ExpiresAt,
	)
	if err != nil {
		if postgres.ErrCode(err) == postgres.ForeignKeyViolation {
			return errUserNotFound
		}
		return fmt.Errorf("inserting token: %w", err)
	}
	return nil
}

func ConsumeToken(
	ctx context.Context,
	tx *postgres.Tx,
	kind model.TokenKind,
	token string,
	now time.Time,
) (int64, error) {
	tbl, err := tokenTable(kind)
	if err != nil {
		return 0, err
	}
	var ids []int64
	err = tx.GORM(ctx).Raw(
		"DELETE FROM "+tbl+" WHERE token = ? AND expires_at > ? RETURNING user_id",
		token, now,
	).Scan(&ids).Error
	if err != nil {
		return 0, fmt.Errorf("deleting token: %w", err)
	}
	if len(ids) != 1 {
		return 0, cerr.NotFound(errors.New("token is invalid or expired"))
	}
	return ids[0], nil
}

func DeleteTokens(
	ctx context.Context, tx *postgres.Tx, kind model.TokenKind, userID int64,
) error {
	tbl, err := tokenTable(kind)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, "DELETE FROM "+tbl+" WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("deleting tokens: %w", err)
	}
	return nil
}

const selectUsers = `SELECT user_id, email, password_hash, full_name, phone,
	account_type, email_verified FROM users `

func userBy[Q postgres.Queryer](
	ctx context.Context, q Q, cond string, arg any,
) (*model.User, error) {
	var gus []gUser
	err := q.GORM(ctx).Raw(selectUsers+cond, arg).Scan(&gus).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gus) != 1 {
		return nil, errUserNotFound
	}
	return gus[0].Model(), nil
}

func UserByID[Q postgres.Queryer](ctx context.Context, q Q, userID int64) (*model.User, error) {
	return userBy(ctx, q, "WHERE user_id = ?", userID)
}

func UserByEmail[Q postgres.Queryer](ctx context.Context, q Q, email string) (*model.User, error) {
	return userBy(ctx, q, "WHERE lower(email) = lower(?)", email)
}

const selectBusinesses = `SELECT business_id, user_id, name, phone, address
	FROM businesses `

func businessBy[Q postgres.Queryer](
	ctx context.Context, q Q, cond string, arg any,
) (*model.Business, error) {
	var gbs []gBusiness
	err := q.GORM(ctx).Raw(selectBusinesses+cond, arg).Scan(&gbs).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gbs) != 1 {
		return nil, errBusinessNotFound
	}
	return gbs[0].Model(), nil
}

func BusinessByID[Q postgres.Queryer](ctx context.Context, q Q, businessID int64) (*model.Business, error) {
	return businessBy(ctx, q, "WHERE business_id = ?", businessID)
}

func BusinessByUser[Q postgres.Queryer](ctx context.Context, q Q, userID int64) (*model.Business, error) {
	return businessBy(ctx, q, "WHERE user_id = ?", userID)
}
