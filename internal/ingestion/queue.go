package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	StreamName = "depgraph:reindex"
	GroupName  = "depgraph-workers"
)

// ReindexJob is one project's re-index request, enqueued on file-watch
// events and drained by cmd/worker (spec's async re-index queue, adapted
// from the teacher's ingestion/queue.go Xadd/Xreadgroup shape — trimmed
// from a full IngestMessage with source/trigger bookkeeping down to just
// what a single-project, single-file update needs).
type ReindexJob struct {
	ProjectID uuid.UUID `json:"project_id"`
	BuildID   uuid.UUID `json:"build_id"`
	RootPath  string    `json:"root_path"`
	// RelPath is empty for a full rebuild job, set for a single-file
	// incremental update.
	RelPath string `json:"rel_path,omitempty"`
	Removed bool   `json:"removed,omitempty"`
}

// Producer enqueues re-index jobs onto the Valkey stream.
type Producer struct {
	client valkey.Client
}

func NewProducer(client valkey.Client) *Producer {
	return &Producer{client: client}
}

func (p *Producer) Enqueue(ctx context.Context, job ReindexJob) (string, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}

	resp := p.client.Do(ctx, p.client.B().Xadd().
		Key(StreamName).Id("*").
		FieldValue().FieldValue("data", string(data)).
		Build())
	if err := resp.Error(); err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	id, err := resp.ToString()
	if err != nil {
		return "", fmt.Errorf("parse xadd response: %w", err)
	}
	return id, nil
}

// Consumer reads re-index jobs from the Valkey stream.
type Consumer struct {
	client     valkey.Client
	consumerID string
	logger     *slog.Logger
}

func NewConsumer(client valkey.Client, consumerID string, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{client: client, consumerID: consumerID, logger: logger}
}

// EnsureGroup creates the consumer group if it doesn't already exist.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	resp := c.client.Do(ctx, c.client.B().XgroupCreate().
		Key(StreamName).Group(GroupName).Id("0").Mkstream().Build())
	if err := resp.Error(); err != nil {
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			return fmt.Errorf("xgroup create: %w", err)
		}
	}
	return nil
}

// Consume blocks reading jobs and invokes handler for each, ACKing on
// success. A handler error leaves the message unacknowledged in the
// group's pending-entries list; Consume reads only new entries (">") and
// never re-delivers or claims pending ones.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, ReindexJob) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		resp := c.client.Do(ctx, c.client.B().Xreadgroup().
			Group(GroupName, c.consumerID).
			Count(1).Block(5000).
			Streams().Key(StreamName).Id(">").
			Build())

		if err := resp.Error(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		results, err := resp.AsXRead()
		if err != nil {
			continue
		}

		for _, messages := range results {
			for _, msg := range messages {
				dataStr, ok := msg.FieldValues["data"]
				if !ok {
					c.logger.Warn("message missing data field", slog.String("id", msg.ID))
					c.ack(ctx, msg.ID)
					continue
				}

				var job ReindexJob
				if err := json.Unmarshal([]byte(dataStr), &job); err != nil {
					c.logger.Error("unmarshal job", slog.String("error", err.Error()), slog.String("id", msg.ID))
					c.ack(ctx, msg.ID)
					continue
				}

				if err := handler(ctx, job); err != nil {
					c.logger.Error("handle job failed", slog.String("error", err.Error()),
						slog.String("id", msg.ID), slog.String("project_id", job.ProjectID.String()))
				} else {
					c.ack(ctx, msg.ID)
				}
			}
		}
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	resp := c.client.Do(ctx, c.client.B().Xack().
		Key(StreamName).Group(GroupName).Id(msgID).Build())
	if err := resp.Error(); err != nil {
		c.logger.Error("xack failed", slog.String("error", err.Error()), slog.String("id", msgID))
	}
}
