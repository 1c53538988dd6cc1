// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package accountuc

import (
	"fmt"
	"html"

	"github.com/momeni/boat-rental/pkg/core/model"
)

func verificationMail(u *model.User, link string) (subject, body string) {
	subject = "Verify your email address"
	body = fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>Please confirm your email address by visiting "+
			"<a href=\"%s\">this link</a>.</p>",
		html.EscapeString(u.FullName),
		html.EscapeString(link),
	)
	return
}

func resetMail(u *model.User, link string) (subject, body string) {
	subject = "Reset your password"
	body = fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>A password reset was requested for your account. "+
			"You may choose a new password by visiting "+
			"<a href=\"%s\">this link</a>.</p>"+
			"<p>If you did not request it, ignore this email.</p>",
		html.EscapeString(u.FullName),
		html.EscapeString(link),
	)
	return
}
