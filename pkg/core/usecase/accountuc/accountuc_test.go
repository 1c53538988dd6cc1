// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package accountuc_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/boat-rental/internal/test/fakes"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/usecase/accountuc"
)

type env struct {
	db       *fakes.DB
	notifier *fakes.Notifier
	uc       *accountuc.UseCase
	now      time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		db:       fakes.NewDB(),
		notifier: &fakes.Notifier{},
		now:      time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC),
	}
	seq := 0
	uc, err := accountuc.New(
		e.db.Pool(), fakes.Users{}, fakes.Hasher{}, fakes.Tokens{},
		e.notifier,
		accountuc.WithAppBaseURL("https://boats.example.com/"),
		accountuc.WithClock(func() time.Time { return e.now }),
		accountuc.WithTokenGenerator(func() string {
			seq++
			return "tok" + strconv.Itoa(seq)
		}),
	)
	require.NoError(t, err)
	e.uc = uc
	return e
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return cerr.StatusOf(err)
}

func customerReq() *accountuc.RegisterRequest {
	return &accountuc.RegisterRequest{
		Email:       " Ann@Example.com ",
		Password:    "secret-pass",
		FullName:    "Ann",
		AccountType: model.AccountCustomer,
	}
}

func TestRegisterVerifyLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, err := e.uc.Register(ctx, customerReq())
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.False(t, u.EmailVerified)
	assert.Equal(t, "plain:secret-pass", e.db.UserByID(u.ID).PasswordHash)

	mails := e.notifier.Mails()
	require.Len(t, mails, 1)
	assert.Equal(t, "ann@example.com", mails[0].To)
	assert.Contains(t, mails[0].Body,
		"https://boats.example.com/api/auth/verify-email?token=tok1")

	_, _, err = e.uc.Login(ctx, "ann@example.com", "secret-pass")
	assert.Equal(t, http.StatusForbidden, statusOf(t, err), "unverified")

	require.NoError(t, e.uc.VerifyEmail(ctx, "tok1"))
	assert.True(t, e.db.UserByID(u.ID).EmailVerified)
	err = e.uc.VerifyEmail(ctx, "tok1")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err), "consumed")

	token, id, err := e.uc.Login(ctx, "ANN@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, model.Identity{UserID: u.ID, AccountType: model.AccountCustomer}, id)
	assert.NotEmpty(t, token)

	_, _, err = e.uc.Login(ctx, "ann@example.com", "wrong-pass")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	_, _, err = e.uc.Login(ctx, "bob@example.com", "secret-pass")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRegisterBusinessCreatesBusinessRow(t *testing.T) {
	e := newEnv(t)
	req := customerReq()
	req.AccountType = model.AccountBusiness
	req.BusinessName = "Blue Fleet"
	_, err := e.uc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, e.db.Counts()["businesses"])
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)
	cases := map[string]func(r *accountuc.RegisterRequest){
		"email":         func(r *accountuc.RegisterRequest) { r.Email = "ann" },
		"short pass":    func(r *accountuc.RegisterRequest) { r.Password = "123" },
		"name":          func(r *accountuc.RegisterRequest) { r.FullName = " " },
		"admin":         func(r *accountuc.RegisterRequest) { r.AccountType = model.AccountAdmin },
		"business name": func(r *accountuc.RegisterRequest) { r.AccountType = model.AccountBusiness },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := customerReq()
			mutate(req)
			_, err := e.uc.Register(context.Background(), req)
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		})
	}
	assert.Equal(t, 0, e.db.Counts()["users"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Register(context.Background(), customerReq())
	require.NoError(t, err)
	_, err = e.uc.Register(context.Background(), customerReq())
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	assert.Equal(t, 1, e.db.Counts()["users"])
	assert.Equal(t, 1, e.db.Counts()["tokens"])
}

func TestRegisterRollsBackOnTokenFailure(t *testing.T) {
	e := newEnv(t)
	e.db.FailOn("Users.CreateToken", errors.New("disk full"))
	req := customerReq()
	req.AccountType = model.AccountBusiness
	req.BusinessName = "Blue Fleet"
	_, err := e.uc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 0, e.db.Counts()["users"])
	assert.Equal(t, 0, e.db.Counts()["businesses"])
	assert.Empty(t, e.notifier.Mails())
}

func TestRegisterSucceedsWhenEmailFails(t *testing.T) {
	e := newEnv(t)
	e.notifier.Err = errors.New("smtp down")
	_, err := e.uc.Register(context.Background(), customerReq())
	require.NoError(t, err)
	assert.Len(t, e.db.Tokens(model.TokenEmailVerification), 1)
}

func TestVerifyEmailExpired(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Register(context.Background(), customerReq())
	require.NoError(t, err)
	e.now = e.now.Add(accountuc.DefaultEmailTokenTTL)
	err = e.uc.VerifyEmail(context.Background(), "tok1")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	err = e.uc.VerifyEmail(context.Background(), "")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestPasswordReset(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.db.AddUser(model.User{
		Email: "ann@example.com", FullName: "Ann",
		AccountType: model.AccountCustomer, EmailVerified: true,
		PasswordHash: "plain:old-password",
	})

	require.NoError(t, e.uc.RequestPasswordReset(ctx, "ann@example.com"))
	require.NoError(t, e.uc.RequestPasswordReset(ctx, "ann@example.com"))
	require.NoError(t, e.uc.RequestPasswordReset(ctx, "nobody@example.com"))
	assert.Len(t, e.db.Tokens(model.TokenPasswordReset), 2)
	mails := e.notifier.Mails()
	require.Len(t, mails, 2, "unknown emails get nothing")
	assert.Contains(t, mails[0].Body, "/reset-password?token=tok1")

	err := e.uc.ResetPassword(ctx, "tok1", "short")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	err = e.uc.ResetPassword(ctx, "bogus", "new-password")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	require.NoError(t, e.uc.ResetPassword(ctx, "tok1", "new-password"))
	assert.Equal(t, "plain:new-password", e.db.UserByID(u.ID).PasswordHash)
	assert.Empty(t, e.db.Tokens(model.TokenPasswordReset), "all revoked")

	err = e.uc.ResetPassword(ctx, "tok2", "another-password")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, _, err = e.uc.Login(ctx, "ann@example.com", "new-password")
	assert.NoError(t, err)
}

func TestPasswordResetExpired(t *testing.T) {
	e := newEnv(t)
	e.db.AddUser(model.User{
		Email: "ann@example.com", AccountType: model.AccountCustomer,
		PasswordHash: "plain:old-password",
	})
	require.NoError(t, e.uc.RequestPasswordReset(context.Background(), "ann@example.com"))
	e.now = e.now.Add(2 * accountuc.DefaultResetTokenTTL)
	err := e.uc.ResetPassword(context.Background(), "tok1", "new-password")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestCreateAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, err := e.uc.CreateAdmin(ctx, "root@example.com", "admin-pass", "Root")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)

	_, id, err := e.uc.Login(ctx, "root@example.com", "admin-pass")
	require.NoError(t, err)
	assert.True(t, id.IsAdmin())

	_, err = e.uc.CreateAdmin(ctx, "root@example.com", "admin-pass", "Root")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	_, err = e.uc.CreateAdmin(ctx, "root", "admin-pass", "Root")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestOptionsValidation(t *testing.T) {
	db := fakes.NewDB()
	for name, opt := range map[string]accountuc.Option{
		"ttl":      accountuc.WithEmailTokenTTL(0),
		"reset":    accountuc.WithResetTokenTTL(-time.Second),
		"relative": accountuc.WithAppBaseURL("/relative"),
		"clock":    accountuc.WithClock(nil),
	} {
		_, err := accountuc.New(
			db.Pool(), fakes.Users{}, fakes.Hasher{}, fakes.Tokens{},
			&fakes.Notifier{}, opt,
		)
		assert.Error(t, err, name)
	}
}
