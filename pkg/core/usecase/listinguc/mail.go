// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listinguc

import (
	"fmt"
	"html"

	"github.com/momeni/boat-rental/pkg/core/model"
)

func approvalMail(o *model.OwnerContact) (subject, body string) {
	subject = "Your boat listing is approved"
	body = fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>Your boat <b>%s</b> (#%d) is approved and customers "+
			"can find and book it now.</p>",
		html.EscapeString(o.BusinessName),
		html.EscapeString(o.BoatName),
		o.BoatID,
	)
	return
}

func rejectionMail(o *model.OwnerContact, reason string) (subject, body string) {
	subject = "Your boat listing is rejected"
	body = fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>Your boat <b>%s</b> (#%d) could not be approved and "+
			"its listing is removed.</p>"+
			"<p>Reason: %s</p>"+
			"<p>You may register it again after addressing the issue.</p>",
		html.EscapeString(o.BusinessName),
		html.EscapeString(o.BoatName),
		o.BoatID,
		html.EscapeString(reason),
	)
	return
}
