// Package service holds the use cases behind the web pages. Services talk to
// the restaurant API through narrow interfaces satisfied by apiclient.Client.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/restaurant_web/internal/events"
	"github.com/Skotchmaster/restaurant_web/pkg/logging"
)

// ErrUsernameTaken is returned by signup when the API reports a duplicate
// username.
var ErrUsernameTaken = errors.New("username already taken")

// ErrStaleList is returned when a change went through but the list shown
// next to it could not be reloaded.
var ErrStaleList = errors.New("list could not be reloaded")

type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// publish never fails the caller. Lost events are logged.
func publish(ctx context.Context, p events.Publisher, topic string, ev events.Event) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, ev.User, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}
