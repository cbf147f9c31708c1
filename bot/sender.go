package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const outboxSize = 256

type outgoing struct {
	channel string
	user    string
	text    string
}

// clue masks use underscores, which Discord would read as italics.
var markdownEscaper = strings.NewReplacer("_", `\_`)

func newLimiter(every time.Duration) *rate.Limiter {
	if every <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(every), 1)
}

// Say queues text for a channel. It never blocks the engine; when the
// outbox is full the line is dropped.
func (b *Bot) Say(channel, text string) {
	b.enqueue(outgoing{channel: channel, text: text})
}

// Whisper sends text to a user's direct messages.
func (b *Bot) Whisper(user, text string) {
	b.enqueue(outgoing{user: user, text: text})
}

func (b *Bot) enqueue(o outgoing) {
	if strings.TrimSpace(o.text) == "" {
		return
	}
	select {
	case b.out <- o:
	default:
		b.log.Warn("outbox full, dropping message", slog.String("text", o.text))
	}
}

// startSender runs the outbound loop. It ignores cancellation of ctx so
// lines queued during shutdown can still go out; Flush stops it.
func (b *Bot) startSender(ctx context.Context) {
	ctx, b.stopSend = context.WithCancel(context.WithoutCancel(ctx))
	b.draining = make(chan struct{})
	b.sent = make(chan struct{})
	go b.sendLoop(ctx)
}

func (b *Bot) sendLoop(ctx context.Context) {
	defer close(b.sent)
	for {
		select {
		case <-ctx.Done():
			return
		case o := <-b.out:
			if !b.deliver(ctx, o) {
				return
			}
		case <-b.draining:
			for {
				select {
				case o := <-b.out:
					if !b.deliver(ctx, o) {
						return
					}
				default:
					return
				}
			}
		}
	}
}

// Flush sends what is queued and stops the sender. When ctx ends first the
// rest is abandoned. It returns the number of lines left unsent.
func (b *Bot) Flush(ctx context.Context) int {
	if b.stopSend == nil {
		return len(b.out)
	}
	b.drainOnce.Do(func() { close(b.draining) })
	select {
	case <-b.sent:
	case <-ctx.Done():
		b.stopSend()
		<-b.sent
	}
	b.stopSend()
	return len(b.out)
}

func (b *Bot) deliver(ctx context.Context, o outgoing) bool {
	if err := b.limiter.Wait(ctx); err != nil {
		return false
	}
	b.send(o)
	return true
}

func (b *Bot) send(o outgoing) {
	channel := o.channel
	text := markdownEscaper.Replace(o.text)

	if o.user != "" {
		id, ok := b.userID(o.user)
		if !ok {
			channel = b.cfg.GameChannel
			text = o.user + ": " + text
		} else {
			dm, err := b.Session.UserChannelCreate(id)
			if err != nil {
				b.log.Error("failed to open direct message", slog.String("user", o.user), slog.Any("error", err))
				return
			}
			channel = dm.ID
		}
	}

	if err := b.post(channel, text); err != nil {
		b.log.Error("failed to send message", slog.String("channel", channel), slog.Any("error", err))
	}
}
