// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authrs realizes the accounts resource, accepting the sign
// up, email verification, login, and password reset REST APIs and
// delegating them to the accounts use case.
package authrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/boat-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/boat-rental/pkg/core/model"
	"github.com/momeni/boat-rental/pkg/core/usecase/accountuc"
)

type resource struct {
	accounts *accountuc.UseCase
}

type registerReq struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	FullName        string `json:"full_name" binding:"required"`
	Phone           string `json:"phone"`
	AccountType     string `json:"account_type" binding:"required,oneof=customer business"`
	BusinessName    string `json:"business_name" binding:"required_if=AccountType business"`
	BusinessPhone   string `json:"business_phone"`
	BusinessAddress string `json:"business_address"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type verifyEmailReq struct {
	Token string `form:"token" binding:"required"`
}

type forgotPasswordReq struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordReq struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register instantiates a resource adapting the accounts use case
// instance with the relevant REST APIs including:
//  1. POST request to /auth/register in order to sign up,
//  2. GET request to /auth/verify-email?token= in order to verify the
//     email address of a new account,
//  3. POST request to /auth/login in order to obtain a bearer token,
//  4. POST request to /auth/forgot-password in order to request an
//     email with a password reset link,
//  5. POST request to /auth/reset-password in order to set a new
//     password using that link token.
func Register(r *gin.RouterGroup, accounts *accountuc.UseCase) {
	rs := &resource{accounts: accounts}
	g := r.Group("auth")
	g.POST("register", rs.SignUp)
	g.GET("verify-email", rs.VerifyEmail)
	g.POST("login", rs.Login)
	g.POST("forgot-password", rs.ForgotPassword)
	g.POST("reset-password", rs.ResetPassword)
}

func (rs *resource) SignUp(c *gin.Context) {
	req := &registerReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	u, err := rs.accounts.Register(c, &accountuc.RegisterRequest{
		Email:           req.Email,
		Password:        req.Password,
		FullName:        req.FullName,
		Phone:           req.Phone,
		AccountType:     model.AccountType(req.AccountType),
		BusinessName:    req.BusinessName,
		BusinessPhone:   req.BusinessPhone,
		BusinessAddress: req.BusinessAddress,
	})
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (rs *resource) VerifyEmail(c *gin.Context) {
	req := &verifyEmailReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return
	}
	if err := rs.accounts.VerifyEmail(c, req.Token); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "email is verified"})
}

func (rs *resource) Login(c *gin.Context) {
	req := &loginReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	token, id, err := rs.accounts.Login(c, req.Email, req.Password)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"token_type":   "Bearer",
		"user_id":      id.UserID,
		"account_type": id.AccountType,
	})
}

// ForgotPassword responds the same whether the email exists or not.
func (rs *resource) ForgotPassword(c *gin.Context) {
	req := &forgotPasswordReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	if err := rs.accounts.RequestPasswordReset(c, req.Email); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"detail": "a reset link is sent if the email is registered",
	})
}

func (rs *resource) ResetPassword(c *gin.Context) {
	req := &resetPasswordReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	if err := rs.accounts.ResetPassword(c, req.Token, req.Password); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "password is changed"})
}
