package telegram

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/leomatch/leomatch-backend/internal/domain"
	"github.com/leomatch/leomatch-backend/internal/notifier"
	"github.com/leomatch/leomatch-backend/internal/usecase/matching"
	"github.com/leomatch/leomatch-backend/internal/usecase/registration"
	"github.com/leomatch/leomatch-backend/internal/usecase/relay"
)

const msgSettings = "⚙️ <b>Настройки</b>\n\nВыбери действие:"

// Dispatcher routes normalized webhook events to the use cases.
type Dispatcher struct {
	registration *registration.UseCase
	matching     *matching.UseCase
	relay        *relay.UseCase
	notify       notifier.Notifier
	dedup        *UpdateCache
	log          *zap.SugaredLogger
}

func NewDispatcher(
	reg *registration.UseCase,
	match *matching.UseCase,
	relayUC *relay.UseCase,
	notify notifier.Notifier,
	dedup *UpdateCache,
	log *zap.SugaredLogger,
) *Dispatcher {
	return &Dispatcher{
		registration: reg,
		matching:     match,
		relay:        relayUC,
		notify:       notify,
		dedup:        dedup,
		log:          log,
	}
}

// HandleUpdate processes one webhook delivery. Redelivered updates are
// acknowledged silently; a dedup backend failure fails open.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update *Update) error {
	if d.dedup != nil {
		seen, err := d.dedup.Seen(ctx, update.UpdateID)
		if err != nil {
			d.log.Warnw("update dedup unavailable", "update_id", update.UpdateID, "error", err)
		} else if seen {
			d.log.Debugw("duplicate update", "update_id", update.UpdateID)
			return nil
		}
	}

	event, ok := Normalize(update)
	if !ok {
		return nil
	}

	switch event.Kind {
	case EventChoice:
		return d.handleChoice(ctx, event)
	case EventPhoto:
		return d.registration.HandleMedia(ctx, event.SenderID, event.ChatID, registration.MediaInput{
			Kind:   domain.MediaPhoto,
			FileID: event.FileID,
		})
	case EventVideo:
		return d.registration.HandleMedia(ctx, event.SenderID, event.ChatID, registration.MediaInput{
			Kind:   domain.MediaVideo,
			FileID: event.FileID,
		})
	case EventText:
		return d.handleText(ctx, event)
	}
	return nil
}

func (d *Dispatcher) handleText(ctx context.Context, event *Event) error {
	switch {
	case strings.HasPrefix(event.Text, "/start"):
		return d.registration.Start(ctx, event.SenderID, event.ChatID, event.Username, event.FirstName)
	case event.Text == notifier.MenuMyProfile:
		return d.matching.MyProfile(ctx, event.SenderID, event.ChatID)
	case event.Text == notifier.MenuFindMatch:
		return d.matching.StartSearch(ctx, event.SenderID, event.ChatID)
	case event.Text == notifier.MenuStopSearch:
		return d.matching.StopSearch(ctx, event.SenderID, event.ChatID)
	case event.Text == notifier.MenuSettings:
		return d.notify.SendText(ctx, event.ChatID, msgSettings,
			notifier.Choice{Label: "🗑 Удалить анкету навсегда", Data: matching.ChoiceDeleteProfile})
	}

	handled, err := d.registration.HandleText(ctx, event.SenderID, event.ChatID, event.Text)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}
	return d.relay.Relay(ctx, event.SenderID, event.ChatID, event.Text)
}

func (d *Dispatcher) handleChoice(ctx context.Context, event *Event) error {
	data := event.Choice
	switch {
	case data == registration.ChoiceFinish:
		return d.registration.Finish(ctx, event.SenderID, event.ChatID)
	case data == registration.ChoiceAddVideo:
		return d.registration.AddVideo(ctx, event.SenderID, event.ChatID)
	case data == matching.ChoiceDeleteProfile:
		return d.matching.DeleteProfile(ctx, event.SenderID, event.ChatID)
	case strings.HasPrefix(data, matching.ChoiceLikePrefix):
		return d.reaction(ctx, event, data, matching.ChoiceLikePrefix, domain.PolarityLike)
	case strings.HasPrefix(data, matching.ChoiceDislikePrefix):
		return d.reaction(ctx, event, data, matching.ChoiceDislikePrefix, domain.PolarityDislike)
	}
	d.log.Debugw("unknown callback", "data", data)
	return nil
}

func (d *Dispatcher) reaction(ctx context.Context, event *Event, data, prefix string, polarity domain.Polarity) error {
	targetID, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil {
		d.log.Warnw("malformed callback", "data", data)
		return nil
	}
	return d.matching.RecordReaction(ctx, event.SenderID, event.ChatID, targetID, polarity)
}
