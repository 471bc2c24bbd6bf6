package kafka

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/honeynil/FinanceService/internal/infrastructure/observability"
	"github.com/honeynil/FinanceService/internal/models"
	pkgerrors "github.com/honeynil/FinanceService/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const EntriesImportTopic = "entries.import"

// EntryCreator is the part of the entry service the importer needs.
type EntryCreator interface {
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer feeds entries published on the import topic through the same
// validated create path as the HTTP API.
type Consumer struct {
	reader  messageReader
	entries EntryCreator
	log     *slog.Logger
}

func NewConsumer(brokers []string, topic, groupID string, entries EntryCreator) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		entries: entries,
		log:     observability.Component("entry-import"),
	}
}

type importedEntry struct {
	Description string          `json:"description"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Value       decimal.Decimal `json:"value"`
	Type        string          `json:"type"`
	Status      string          `json:"status,omitempty"`
	UserID      int64           `json:"user_id"`
}

// Consume blocks until ctx is cancelled or the reader is closed.
func (c *Consumer) Consume(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, context.Canceled) {
				c.log.Info("entry import stopped")
				return
			}
			c.log.Error("failed to read Kafka message", "error", err)
			continue
		}

		if err := c.handle(ctx, msg); err != nil {
			c.log.Error("entry import failed", "partition", msg.Partition, "offset", msg.Offset, "error", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	var event importedEntry
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		observability.ImportedEntries.WithLabelValues("malformed").Inc()
		return fmt.Errorf("failed to unmarshal entry event: %w", err)
	}

	entry := &models.Entry{
		Description: event.Description,
		Month:       event.Month,
		Year:        event.Year,
		Value:       event.Value,
		Type:        models.EntryType(event.Type),
		Status:      models.EntryStatus(event.Status),
		UserID:      event.UserID,
	}
	if entry.Status != "" && !entry.Status.Valid() {
		observability.ImportedEntries.WithLabelValues("rejected").Inc()
		return pkgerrors.ErrInvalidStatus
	}

	stored, err := c.entries.Create(ctx, entry)
	if err != nil {
		if pkgerrors.IsBusiness(err) {
			observability.ImportedEntries.WithLabelValues("rejected").Inc()
		} else {
			observability.ImportedEntries.WithLabelValues("failed").Inc()
		}
		return err
	}

	observability.ImportedEntries.WithLabelValues("created").Inc()
	c.log.Info("entry imported", "entry_id", stored.ID, "user_id", stored.UserID, "offset", msg.Offset)
	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
