// Package sink delivers extraction output to the operator's desktop: a
// clipboard copy of the JSON and a short notification. Delivery is best
// effort and never reports failure to the caller.
package sink

import (
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrClipboardUnavailable is reported when no clipboard utility exists on
// this system.
var ErrClipboardUnavailable = errors.New("clipboard is not available")

// ClipboardWriter places text on a clipboard.
type ClipboardWriter interface {
	WriteAll(text string) error
}

// Notifier shows a short message to the operator.
type Notifier interface {
	Notify(message string)
}

// SystemClipboard writes to the system clipboard.
type SystemClipboard struct{}

// WriteAll copies text to the system clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// ConsoleNotifier prints notifications to a writer.
type ConsoleNotifier struct {
	Out io.Writer
}

// Notify prints message on its own line.
func (n ConsoleNotifier) Notify(message string) {
	fmt.Fprintf(n.Out, "✓ %s\n", message)
}

// Outcome reports what happened to a delivery.
type Outcome struct {
	Copied bool
	Err    error
}

// Sink copies extraction output and notifies the operator.
type Sink struct {
	Clipboard ClipboardWriter
	Notifier  Notifier
	Logger    zerolog.Logger
}

// New creates a sink using the system clipboard and the global logger.
// notifier may be nil.
func New(notifier Notifier) *Sink {
	return &Sink{
		Clipboard: SystemClipboard{},
		Notifier:  notifier,
		Logger:    log.Logger,
	}
}

// Deliver copies json to the clipboard in the background. The returned
// channel receives the outcome once and is then closed; callers that do not
// care may ignore it. Failures are logged with a hint to copy the JSON by
// hand and are not retried.
func (s *Sink) Deliver(json string, count int) <-chan Outcome {
	done := make(chan Outcome, 1)

	if s.Clipboard == nil {
		s.fallback(ErrClipboardUnavailable)
		done <- Outcome{Err: ErrClipboardUnavailable}
		close(done)
		return done
	}

	go func() {
		defer close(done)

		if err := s.Clipboard.WriteAll(json); err != nil {
			s.fallback(err)
			done <- Outcome{Err: err}
			return
		}

		s.Logger.Info().Int("articles", count).Msg("JSON copied to clipboard")
		if s.Notifier != nil {
			s.Notifier.Notify(fmt.Sprintf("Extracted %d articles; JSON copied to clipboard.", count))
		}
		done <- Outcome{Copied: true}
	}()

	return done
}

func (s *Sink) fallback(err error) {
	s.Logger.Warn().Err(err).Msg("could not copy to clipboard; copy the JSON above manually")
}
