package apiclient

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"whispermap/internal/logging"
	"whispermap/internal/realtime"
	"whispermap/internal/story"
)

// Handler receives decoded broadcast events. Connected is called after every
// successful (re)connect; events fired while disconnected are never replayed.
type Handler interface {
	Connected()
	NewStory(v story.View)
	Reaction(st story.ReactionState)
}

// WebsocketURL maps the API base URL onto its /ws endpoint.
func (c *Client) WebsocketURL() string {
	u := c.BaseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws"
}

// Subscribe streams events into h until ctx is done, reconnecting with
// exponential backoff. It returns ctx.Err() on cancellation.
func (c *Client) Subscribe(ctx context.Context, h Handler) error {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(500*time.Millisecond),
		backoff.WithMaxInterval(30*time.Second),
		backoff.WithMaxElapsedTime(0),
	)

	op := func() error {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.WebsocketURL(), nil)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		b.Reset()
		err = c.consume(ctx, conn, h)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		logging.Warn().Err(err).Dur("retry_in", wait).Msg("websocket disconnected")
	}

	err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (c *Client) consume(ctx context.Context, conn *websocket.Conn, h Handler) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	h.Connected()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if err := dispatch(raw, h); err != nil {
			logging.Debug().Err(err).Msg("skipping malformed event")
		}
	}
}

var errUnknownEvent = errors.New("unknown event")

func dispatch(raw []byte, h Handler) error {
	var msg realtime.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return err
	}

	switch msg.Type {
	case realtime.EventNewStory:
		var v story.View
		if err := json.Unmarshal(msg.Data, &v); err != nil {
			return err
		}
		h.NewStory(v)
	case realtime.EventStoryReaction:
		var st story.ReactionState
		if err := json.Unmarshal(msg.Data, &st); err != nil {
			return err
		}
		h.Reaction(st)
	case realtime.EventPong:
	default:
		return errUnknownEvent
	}
	return nil
}
