package sync

import (
	"context"

	"preservice-attendance/internal/sync/queue"
)

//go:generate mockgen -source=publisher.go -destination=mock/publisher_mock.go -package=mock

// Publisher pushes one queued operation to the remote authority. Publish must
// only return nil once the remote has acknowledged the write.
type Publisher interface {
	Publish(ctx context.Context, item queue.Item) error
}
