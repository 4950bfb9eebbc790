package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"snapsort/internal/collector"
	"snapsort/internal/config"
	"snapsort/internal/logging"
	"snapsort/internal/services"
)

// Handler consumes one translated chat event.
type Handler func(ctx context.Context, event collector.Event)

// Poller owns the long-poll loop: it acknowledges updates by advancing the
// offset past the last seen update id, filters for the target chat when one
// is configured, and hands translated events to the handler one at a time.
type Poller struct {
	client      *Client
	targetChat  int64
	pollTimeout int
	handle      Handler
	logger      *slog.Logger

	// Shortened by tests; production keeps the defaults.
	retryInterval time.Duration
	errorSleep    time.Duration
}

// NewPoller wires a poller to the configured chat restriction and poll
// window.
func NewPoller(client *Client, cfg *config.Config, handle Handler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Poller{
		client:        client,
		targetChat:    cfg.Telegram.TargetChatID,
		pollTimeout:   cfg.Telegram.PollTimeoutSeconds,
		handle:        handle,
		logger:        logger,
		retryInterval: 2 * time.Second,
		errorSleep:    time.Second,
	}
}

// Run connects to the Bot API and pumps updates until ctx is canceled, which
// is the only clean exit. Transient startup failures are retried; a hard
// rejection of the token is returned so the daemon can surface it. Poll
// errors are logged and retried after a short sleep.
func (p *Poller) Run(ctx context.Context) error {
	me, err := p.waitForBot(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	p.logger.Info("telegram poller started",
		logging.String("bot", "@"+me.Username),
		logging.Int64("target_chat_id", p.targetChat),
	)

	var offset int64
	for {
		if ctx.Err() != nil {
			p.logger.Info("telegram poller stopped")
			return nil
		}
		updates, err := p.client.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				p.logger.Info("telegram poller stopped")
				return nil
			}
			p.logger.Warn("get updates failed; retrying", logging.Error(err))
			select {
			case <-ctx.Done():
				p.logger.Info("telegram poller stopped")
				return nil
			case <-time.After(p.errorSleep):
			}
			continue
		}
		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			msg := update.Message
			if msg == nil {
				continue
			}
			if p.targetChat != 0 && msg.Chat.ID != p.targetChat {
				p.logger.Debug("update dropped; chat not targeted",
					logging.Int64("chat_id", msg.Chat.ID),
				)
				continue
			}
			p.handle(ctx, eventFromMessage(msg))
		}
	}
}

// waitForBot verifies the token against getMe, retrying while the API is
// unreachable. Anything other than a transient failure means the token is
// bad and retrying cannot help.
func (p *Poller) waitForBot(ctx context.Context) (User, error) {
	for {
		me, err := p.client.GetMe(ctx)
		if err == nil {
			return me, nil
		}
		if ctx.Err() != nil {
			return User{}, ctx.Err()
		}
		if !errors.Is(err, services.ErrTransient) {
			return User{}, err
		}
		p.logger.Warn("telegram not reachable yet; retrying", logging.Error(err))
		select {
		case <-ctx.Done():
			return User{}, ctx.Err()
		case <-time.After(p.retryInterval):
		}
	}
}

// eventFromMessage translates one wire message into the collector's event
// model. Text carries the body or, for media, the caption. A missing date
// leaves the timestamp zero so downstream code falls back to the wall clock.
func eventFromMessage(msg *Message) collector.Event {
	event := collector.Event{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Text:      strings.TrimSpace(textOrCaption(msg)),
		Media:     mediaFromMessage(msg),
	}
	if msg.Date > 0 {
		event.Time = time.Unix(msg.Date, 0)
	}
	return event
}

func textOrCaption(msg *Message) string {
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

// mediaFromMessage maps the message's attachment, if any. Photos use the
// largest rendition Telegram offers.
func mediaFromMessage(msg *Message) *collector.Media {
	switch {
	case len(msg.Photo) > 0:
		best := msg.Photo[0]
		for _, size := range msg.Photo[1:] {
			if size.Width*size.Height > best.Width*best.Height {
				best = size
			}
		}
		return &collector.Media{Kind: collector.KindPhoto, FileID: best.FileID, FileSize: best.FileSize}
	case msg.Document != nil:
		return &collector.Media{
			Kind:     collector.KindDocument,
			MIME:     msg.Document.MIMEType,
			FileName: msg.Document.FileName,
			FileID:   msg.Document.FileID,
			FileSize: msg.Document.FileSize,
		}
	case msg.Video != nil:
		return &collector.Media{Kind: collector.KindVideo, MIME: msg.Video.MIMEType, FileID: msg.Video.FileID, FileSize: msg.Video.FileSize}
	case msg.Audio != nil:
		return &collector.Media{Kind: collector.KindAudio, MIME: msg.Audio.MIMEType, FileID: msg.Audio.FileID, FileSize: msg.Audio.FileSize}
	case msg.Voice != nil:
		return &collector.Media{Kind: collector.KindVoice, MIME: msg.Voice.MIMEType, FileID: msg.Voice.FileID, FileSize: msg.Voice.FileSize}
	case msg.Sticker != nil:
		return &collector.Media{Kind: collector.KindSticker, FileID: msg.Sticker.FileID, FileSize: msg.Sticker.FileSize}
	case msg.Animation != nil:
		return &collector.Media{Kind: collector.KindAnimation, MIME: msg.Animation.MIMEType, FileID: msg.Animation.FileID, FileSize: msg.Animation.FileSize}
	default:
		return nil
	}
}
