// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package accountuc contains the accounts UseCase which registers the
// customers and businesses, verifies their emails, authenticates them,
// and resets their forgotten passwords.
//
// All one-time tokens are kept in the database, so they survive the
// server restarts and may be consumed by any server instance.
package accountuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/momeni/boat-rental/pkg/core/bearer"
	"github.com/momeni/boat-rental/pkg/core/cerr"
	"github.com/momeni/boat-rental/pkg/core/log"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/passwd"
	"github.com/momeni/boat-rental/pkg/core/repo"
)

// Default values of the configurable settings.
const (
	DefaultEmailTokenTTL = 48 * time.Hour
	DefaultResetTokenTTL = time.Hour
	DefaultAppBaseURL    = "http://localhost:8080"
)

// UseCase represents the accounts use case.
type UseCase struct {
	pool     repo.Pool
	users    repo.Users
	hasher   passwd.Hasher
	issuer   bearer.Issuer
	notifier repo.Notifier

	emailTTL time.Duration
	resetTTL time.Duration
	baseURL  string
	now      func() time.Time
	newToken func() string
}

// New instantiates an accounts use case.
func New(
	p repo.Pool,
	u repo.Users,
	h passwd.Hasher,
	i bearer.Issuer,
	n repo.Notifier,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:     p,
		users:    u,
		hasher:   h,
		issuer:   i,
		notifier: n,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.emailTTL == 0 {
		uc.emailTTL = DefaultEmailTokenTTL
	}
	if uc.resetTTL == 0 {
		uc.resetTTL = DefaultResetTokenTTL
	}
	if uc.baseURL == "" {
		uc.baseURL = DefaultAppBaseURL
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.newToken == nil {
		uc.newToken = uuid.NewString
	}
	return uc, nil
}

// RegisterRequest contains the sign up fields. The Business fields
// are required only for the business accounts.
type RegisterRequest struct {
	Email           string
	Password        string
	FullName        string
	Phone           string
	AccountType     model.AccountType
	BusinessName    string
	BusinessPhone   string
	BusinessAddress string
}

func (req *RegisterRequest) validate() error {
	req.Email = normalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	switch {
	case !strings.Contains(req.Email, "@"):
		return errors.New("a valid email is required")
	case len(req.Password) < passwd.MinLength:
		return fmt.Errorf(
			"password must have at least %d characters", passwd.MinLength,
		)
	case req.FullName == "":
		return errors.New("full_name is required")
	}
	switch req.AccountType {
	case model.AccountCustomer:
	case model.AccountBusiness:
		if strings.TrimSpace(req.BusinessName) == "" {
			return errors.New("business_name is required")
		}
	default:
		return fmt.Errorf(
			"account_type must be %q or %q",
			model.AccountCustomer, model.AccountBusiness,
		)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer or business account (together with its
// business row) and emails a verification link to it. The new account
// may not login until its email is verified.
func (uc *UseCase) Register(
	ctx context.Context, req *RegisterRequest,
) (*model.User, error) {
	if err := req.validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	hash, err := uc.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	u := &model.User{
		Email:        req.Email,
		FullName:     req.FullName,
		Phone:        strings.TrimSpace(req.Phone),
		AccountType:  req.AccountType,
		PasswordHash: hash,
	}
	tk := &model.Token{
		Kind:      model.TokenEmailVerification,
		Value:     uc.newToken(),
		ExpiresAt: uc.now().Add(uc.emailTTL),
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.users.Tx(tx)
			id, err := q.CreateUser(ctx, u)
			if err != nil {
				return err
			}
			u.ID = id
			if u.AccountType == model.AccountBusiness {
				_, err = q.CreateBusiness(ctx, &model.Business{
					UserID:  id,
					Name:    strings.TrimSpace(req.BusinessName),
					Phone:   strings.TrimSpace(req.BusinessPhone),
					Address: strings.TrimSpace(req.BusinessAddress),
				})
				if err != nil {
					return fmt.Errorf("creating business: %w", err)
				}
			}
			tk.UserID = id
			return q.CreateToken(ctx, tk)
		})
	})
	if err != nil {
		return nil, err
	}
	subject, body := verificationMail(u, uc.link("/api/auth/verify-email", tk))
	uc.notify(ctx, u, subject, body)
	return u, nil
}

// VerifyEmail consumes an email verification token and marks its
// user as verified. Unknown and expired tokens cause a cerr.NotFound.
func (uc *UseCase) VerifyEmail(ctx context.Context, token string) error {
	if token = strings.TrimSpace(token); token == "" {
		return cerr.BadRequest(errors.New("token is required"))
	}
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.users.Tx(tx)
			userID, err := q.ConsumeToken(
				ctx, model.TokenEmailVerification, token, uc.now(),
			)
			if err != nil {
				return err
			}
			return q.SetEmailVerified(ctx, userID)
		})
	})
}

var errBadCredentials = errors.New("invalid email or password")

// Login authenticates a user and issues a bearer token for it.
// Unknown emails and wrong passwords are not distinguished. Users
// with unverified emails are not authorized to login.
func (uc *UseCase) Login(
	ctx context.Context, email, password string,
) (token string, id model.Identity, err error) {
	var u *model.User
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = uc.users.Conn(c).UserByEmail(ctx, normalizeEmail(email))
		return err
	})
	switch {
	case cerr.StatusOf(err) == http.StatusNotFound:
		return "", model.Identity{}, cerr.Authentication(errBadCredentials)
	case err != nil:
		return "", model.Identity{}, err
	}
	if err = uc.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, passwd.ErrMismatch) {
			return "", model.Identity{}, cerr.Authentication(errBadCredentials)
		}
		return "", model.Identity{}, fmt.Errorf("comparing password: %w", err)
	}
	if !u.EmailVerified {
		return "", model.Identity{}, cerr.Authorization(
			errors.New("email is not verified yet"),
		)
	}
	id = model.Identity{UserID: u.ID, AccountType: u.AccountType}
	token, err = uc.issuer.Issue(id)
	if err != nil {
		return "", model.Identity{}, fmt.Errorf("issuing token: %w", err)
	}
	return token, id, nil
}

// RequestPasswordReset stores a reset token for the email owner and
// emails a reset link to it. The caller cannot find out if the email
// is registered, so unknown emails are silently ignored.
func (uc *UseCase) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return cerr.BadRequest(errors.New("email is required"))
	}
	var u *model.User
	tk := &model.Token{
		Kind:      model.TokenPasswordReset,
		Value:     uc.newToken(),
		ExpiresAt: uc.now().Add(uc.resetTTL),
	}
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.users.Tx(tx)
			var err error
			u, err = q.UserByEmail(ctx, email)
			if err != nil {
				return err
			}
			tk.UserID = u.ID
			return q.CreateToken(ctx, tk)
		})
	})
	switch {
	case cerr.StatusOf(err) == http.StatusNotFound:
		log.Info(ctx, "password reset is requested for an unknown email")
		return nil
	case err != nil:
		return err
	}
	subject, body := resetMail(u, uc.link("/reset-password", tk))
	uc.notify(ctx, u, subject, body)
	return nil
}

// ResetPassword consumes a reset token and replaces the password of
// its user. All other reset tokens of that user are revoked too.
func (uc *UseCase) ResetPassword(
	ctx context.Context, token, newPassword string,
) error {
	if token = strings.TrimSpace(token); token == "" {
		return cerr.BadRequest(errors.New("token is required"))
	}
	if len(newPassword) < passwd.MinLength {
		return cerr.BadRequest(fmt.Errorf(
			"password must have at least %d characters", passwd.MinLength,
		))
	}
	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.users.Tx(tx)
			userID, err := q.ConsumeToken(
				ctx, model.TokenPasswordReset, token, uc.now(),
			)
			if err != nil {
				return err
			}
			if err = q.SetPasswordHash(ctx, userID, hash); err != nil {
				return err
			}
			return q.DeleteTokens(ctx, model.TokenPasswordReset, userID)
		})
	})
}

// CreateAdmin creates a verified administrator account. It is only
// exposed by the command line interface.
func (uc *UseCase) CreateAdmin(
	ctx context.Context, email, password, fullName string,
) (*model.User, error) {
	email = normalizeEmail(email)
	switch {
	case !strings.Contains(email, "@"):
		return nil, cerr.BadRequest(errors.New("a valid email is required"))
	case len(password) < passwd.MinLength:
		return nil, cerr.BadRequest(fmt.Errorf(
			"password must have at least %d characters", passwd.MinLength,
		))
	}
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	u := &model.User{
		Email:         email,
		FullName:      strings.TrimSpace(fullName),
		AccountType:   model.AccountAdmin,
		EmailVerified: true,
		PasswordHash:  hash,
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			u.ID, err = uc.users.Tx(tx).CreateUser(ctx, u)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "admin account is created", log.ID("user_id", u.ID))
	return u, nil
}

func (uc *UseCase) link(path string, tk *model.Token) string {
	return strings.TrimRight(uc.baseURL, "/") + path +
		"?token=" + url.QueryEscape(tk.Value)
}

func (uc *UseCase) notify(
	ctx context.Context, u *model.User, subject, body string,
) {
	if err := uc.notifier.Send(ctx, u.Email, subject, body); err != nil {
		log.Warn(
			ctx, "sending account email failed",
			log.ID("user_id", u.ID),
			slog.String("subject", subject),
			log.Err("err", cerr.Notifier(err)),
		)
	}
}
