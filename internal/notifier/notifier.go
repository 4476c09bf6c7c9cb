// Package notifier defines the outbound delivery contract the use cases
// depend on. Delivery is fire-and-forget: no confirmation is consumed.
package notifier

import "context"

// Choice is an inline option attached to a message. Data comes back as an
// interactive-choice event when the recipient taps it.
type Choice struct {
	Label string
	Data  string
}

type Notifier interface {
	SendText(ctx context.Context, chatID int64, text string, choices ...Choice) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string, choices ...Choice) error
	SendVideo(ctx context.Context, chatID int64, fileID, caption string, choices ...Choice) error
	// SendMenu sends text with a persistent reply keyboard, one row per
	// inner slice.
	SendMenu(ctx context.Context, chatID int64, text string, rows [][]string) error
}
