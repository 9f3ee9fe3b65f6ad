// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers transactional email through a Redis-backed outbox.

Flow:

  - Producers call [Outbox.Enqueue]; the message is pushed to a Redis list.
  - A [Worker] pops messages and hands them to a [Sender], throttled by a
    token bucket so the provider's rate limits are respected.
  - [SendGridSender] talks to SendGrid; [LogSender] only logs, for local runs.
*/
package mail

import (
	"context"
	"fmt"
	"strings"
)

// Message is one outgoing email. It is stored as JSON in the outbox.
type Message struct {
	To       string `json:"to"`
	ToName   string `json:"to_name,omitempty"`
	Subject  string `json:"subject"`
	Text     string `json:"text"`
	HTML     string `json:"html,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
}

// Sender delivers a single message synchronously.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// Outbox accepts messages for asynchronous delivery.
type Outbox interface {
	Enqueue(ctx context.Context, message Message) error
}

// Discard is an [Outbox] that drops every message.
type Discard struct{}

// Enqueue implements [Outbox].
func (Discard) Enqueue(context.Context, Message) error { return nil }

// ConfirmationMessage builds the signup mail carrying a confirmation code.
func ConfirmationMessage(email, username, code string) Message {
	var text strings.Builder
	fmt.Fprintf(&text, "Hello %s,\n\n", username)
	fmt.Fprintf(&text, "Your YaMDb confirmation code is:\n\n    %s\n\n", code)
	text.WriteString("Exchange it for an access token at POST /api/v1/auth/token/ together with your username.\n")
	text.WriteString("If you did not sign up, ignore this message.\n")

	return Message{
		To:      email,
		ToName:  username,
		Subject: "YaMDb confirmation code",
		Text:    text.String(),
		HTML:    fmt.Sprintf("<p>Hello %s,</p><p>Your YaMDb confirmation code is <strong>%s</strong>.</p>", username, code),
	}
}
