package mailer

import (
	"fmt"
	"html"
	"time"
)

// OTPMessage renders the sign-in code email.
func OTPMessage(to, code string, ttl time.Duration) Message {
	minutes := int(ttl.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return Message{
		To:      to,
		Subject: "Your Notewell sign-in code",
		Body: fmt.Sprintf(
			"Your sign-in code is %s.\n\nIt expires in %d minutes. If you did not request it you can ignore this email.",
			code, minutes,
		),
		HTMLBody: fmt.Sprintf(
			`<p>Your sign-in code is</p><h2 style="letter-spacing:4px">%s</h2><p>It expires in %d minutes. If you did not request it you can ignore this email.</p>`,
			html.EscapeString(code), minutes,
		),
	}
}
