// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rentaluc

import (
	"fmt"
	"html"
	"strings"

	"github.com/momeni/boat-rental/pkg/core/model"
)

func confirmationMail(
	r *model.Rental, bc *model.BookingContacts,
) (subject, body string) {
	subject = fmt.Sprintf("Your booking of %s is confirmed", bc.Owner.BoatName)
	var sb strings.Builder
	fmt.Fprintf(&sb, "<p>Dear %s,</p>", html.EscapeString(bc.CustomerName))
	fmt.Fprintf(
		&sb, "<p>Your booking #%d of <b>%s</b> at %s is confirmed "+
			"from %s to %s.</p>",
		r.ID, html.EscapeString(bc.Owner.BoatName),
		html.EscapeString(bc.Location), r.StartDate, r.EndDate,
	)
	if r.StartTime != nil {
		fmt.Fprintf(&sb, "<p>Departure time: %s</p>", *r.StartTime)
	}
	if r.EndTime != nil {
		fmt.Fprintf(&sb, "<p>Return time: %s</p>", *r.EndTime)
	}
	fmt.Fprintf(&sb, "<p>Price: %.2f</p>", r.Price)
	fmt.Fprintf(
		&sb, "<p>Owner: %s, %s, %s</p>",
		html.EscapeString(bc.Owner.BusinessName),
		html.EscapeString(bc.Owner.Email),
		html.EscapeString(bc.Owner.Phone),
	)
	if len(bc.Captains) > 0 {
		sb.WriteString("<p>Captains:</p><ul>")
		for _, c := range bc.Captains {
			fmt.Fprintf(
				&sb, "<li>%s, %s</li>",
				html.EscapeString(c.FullName), html.EscapeString(c.Phone),
			)
		}
		sb.WriteString("</ul>")
	}
	return subject, sb.String()
}
