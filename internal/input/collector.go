package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bookingagg/internal/events"
	"bookingagg/internal/models"

	"github.com/rs/zerolog"
)

// DefaultSentinel ends interactive entry.
const DefaultSentinel = "done"

// maxLineLength bounds a single entry; longer lines are rejected unparsed.
const maxLineLength = 256

// Collector reads booking ranges line by line until the sentinel word or EOF.
type Collector struct {
	year     int
	sentinel string
	prompt   io.Writer
	bus      *events.EventBus
	logger   *zerolog.Logger
}

// NewCollector creates a collector resolving dates within year.
// Prompts and per-line errors go to prompt; bus may be nil.
func NewCollector(year int, sentinel string, prompt io.Writer, bus *events.EventBus, logger *zerolog.Logger) *Collector {
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	if prompt == nil {
		prompt = io.Discard
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Collector{
		year:     year,
		sentinel: sentinel,
		prompt:   prompt,
		bus:      bus,
		logger:   logger,
	}
}

// Collect reads r until the sentinel, EOF or ctx cancellation.
// Malformed lines are reported and skipped; they never abort collection.
func (c *Collector) Collect(ctx context.Context, r io.Reader) ([]models.Booking, error) {
	var bookings []models.Booking
	reader := bufio.NewReader(r)

	for {
		if err := ctx.Err(); err != nil {
			return bookings, err
		}

		fmt.Fprintf(c.prompt, "Enter booking range (MM/DD - MM/DD) or '%s' to finish:\n", c.sentinel)
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return bookings, fmt.Errorf("read input: %w", readErr)
		}
		if raw == "" && readErr != nil {
			break
		}

		line := strings.TrimSpace(raw)
		if strings.EqualFold(line, c.sentinel) {
			break
		}
		if line != "" {
			if b, ok := c.accept(line); ok {
				bookings = append(bookings, b)
			}
		}
		if readErr != nil {
			break
		}
	}

	return bookings, nil
}

func (c *Collector) accept(line string) (models.Booking, bool) {
	var (
		b   models.Booking
		err error
	)
	if len(line) > maxLineLength {
		err = fmt.Errorf("%w: line longer than %d characters", ErrFormat, maxLineLength)
		line = line[:maxLineLength]
	} else {
		b, err = ParseRange(line, c.year)
	}

	if err != nil {
		fmt.Fprintf(c.prompt, "Error: %v. Please try again.\n", err)
		c.logger.Debug().Err(err).Str("line", line).Msg("booking rejected")
		c.publish(events.Event{Type: events.BookingRejected, Source: "console", Line: line, Err: err})
		return models.Booking{}, false
	}

	c.logger.Debug().Str("line", line).Stringer("booking", b).Msg("booking accepted")
	c.publish(events.Event{Type: events.BookingAccepted, Source: "console", Line: line, Booking: b})
	return b, true
}

func (c *Collector) publish(e events.Event) {
	if err := c.bus.Publish(e); err != nil {
		c.logger.Warn().Err(err).Str("event", e.Type).Msg("event handler failed")
	}
}
