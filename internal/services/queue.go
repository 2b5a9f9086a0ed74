package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ivanjaven/extension/internal/mq"
	"github.com/ivanjaven/extension/types"
)

// DocumentRequestChannel is the broker channel carrying queue events for the
// print station.
const DocumentRequestChannel = "document-requests"

// QueueRepository defines persistence operations for document requests.
type QueueRepository interface {
	Insert(ctx context.Context, item types.QueueItem) (types.QueueItem, error)
	List(ctx context.Context, offset, limit int) ([]types.QueueEntry, error)
	Delete(ctx context.Context, queueID int) error
}

// QueueService encapsulates document-queue use-cases. The broker is optional;
// the queue row is authoritative and events are advisory.
type QueueService struct {
	repo   QueueRepository
	broker *mq.MQ
}

func NewQueueService(repo QueueRepository, broker *mq.MQ) *QueueService {
	return &QueueService{repo: repo, broker: broker}
}

// Insert persists the request, then publishes an event for the print
// workflow. A publish failure does not fail the request.
func (s *QueueService) Insert(ctx context.Context, item types.QueueItem) (types.QueueItem, error) {
	created, err := s.repo.Insert(ctx, item)
	if err != nil {
		return types.QueueItem{}, err
	}

	if s.broker != nil {
		event := types.DocumentRequestEvent{
			QueueID:     created.QueueID,
			ResidentID:  created.ResidentID,
			Document:    created.Document,
			RequestedAt: created.CreatedAt,
		}
		data, err := json.Marshal(event)
		if err == nil {
			if _, err := s.broker.Publish(ctx, DocumentRequestChannel, data, nil); err != nil {
				fmt.Fprintf(os.Stderr, "queue event publish failed: %v\n", err)
			}
		}
	}

	return created, nil
}

func (s *QueueService) List(ctx context.Context, offset, limit int) ([]types.QueueEntry, error) {
	if limit <= 0 {
		limit = 25
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, offset, limit)
}

func (s *QueueService) Delete(ctx context.Context, queueID int) error {
	return s.repo.Delete(ctx, queueID)
}
