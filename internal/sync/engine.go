package sync

import (
	"context"
	"errors"

	"preservice-attendance/internal/attendance"
	"preservice-attendance/internal/excuse"
	"preservice-attendance/internal/sync/queue"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const defaultBatchSize = 50

// ErrNoConnection is reported inside the result rather than returned, a pass
// attempted while offline is a normal outcome.
var ErrNoConnection = errors.New("No internet connection")

type Result struct {
	Success bool     `json:"success"`
	Synced  int      `json:"synced"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ConnectivityChecker reports whether the remote authority is reachable.
type ConnectivityChecker interface {
	Online(ctx context.Context) bool
}

//go:generate mockgen -source=engine.go -destination=mock/engine_mock.go -package=mock
type Syncer interface {
	SyncAll(ctx context.Context) (Result, error)
}

// Engine drains the local queue toward the remote authority. A queue entry is
// retired only after the publish is acknowledged, and every record is claimed
// for the duration of its publish so overlapping passes never double-send.
type Engine struct {
	attendanceRepo attendance.Repository
	excuseRepo     excuse.Repository
	queueRepo      queue.Repository
	publisher      Publisher
	claims         ClaimStore
	checker        ConnectivityChecker
	batchSize      int
	group          singleflight.Group
	logger         *zap.Logger
}

func NewEngine(
	attendanceRepo attendance.Repository,
	excuseRepo excuse.Repository,
	queueRepo queue.Repository,
	publisher Publisher,
	claims ClaimStore,
	checker ConnectivityChecker,
	logger ...*zap.Logger,
) *Engine {
	l := zap.L().Named("sync.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sync.engine")
	}
	return &Engine{
		attendanceRepo: attendanceRepo,
		excuseRepo:     excuseRepo,
		queueRepo:      queueRepo,
		publisher:      publisher,
		claims:         claims,
		checker:        checker,
		batchSize:      defaultBatchSize,
		logger:         l,
	}
}

// SyncAll runs one full pass over the queue. Concurrent callers collapse into
// a single pass and all receive its result.
func (e *Engine) SyncAll(ctx context.Context) (Result, error) {
	v, err, _ := e.group.Do("sync_all", func() (any, error) {
		return e.syncAll(ctx)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (e *Engine) syncAll(ctx context.Context) (Result, error) {
	if !e.checker.Online(ctx) {
		e.logger.Info("sync pass skipped, offline")
		return Result{Success: false, Errors: []string{ErrNoConnection.Error()}}, nil
	}

	items, err := e.queueRepo.ListPending(ctx, e.batchSize)
	if err != nil {
		return Result{}, err
	}
	if len(items) == 0 {
		return Result{Success: true}, nil
	}

	e.logger.Info("sync pass started", zap.Int("queued", len(items)))

	result := Result{}
	for _, item := range items {
		if err := e.syncOne(ctx, item); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Synced++
	}

	result.Success = result.Failed == 0
	e.logger.Info("sync pass finished",
		zap.Int("synced", result.Synced),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (e *Engine) syncOne(ctx context.Context, item queue.Item) error {
	claimed, err := e.claims.Acquire(ctx, item.RecordID)
	if err != nil {
		return err
	}
	if !claimed {
		// another pass holds this record, it will finish the job
		e.logger.Debug("record claim held elsewhere, skipping",
			zap.String("record_id", item.RecordID.String()))
		return errors.New("record is being synced by another pass")
	}
	defer func() {
		if err := e.claims.Release(ctx, item.RecordID); err != nil {
			e.logger.Warn("release claim failed",
				zap.String("record_id", item.RecordID.String()),
				zap.Error(err))
		}
	}()

	if err := e.publisher.Publish(ctx, item); err != nil {
		e.logger.Error("publish failed",
			zap.String("record_id", item.RecordID.String()),
			zap.String("type", item.Type),
			zap.Error(err))
		if markErr := e.queueRepo.MarkFailed(ctx, item.ID, err.Error()); markErr != nil {
			e.logger.Error("mark failed failed",
				zap.String("record_id", item.RecordID.String()),
				zap.Error(markErr))
		}
		return err
	}

	if err := e.markRecordSynced(ctx, item); err != nil {
		// the remote has the record, the queue entry stays live so the
		// local flag is retried next pass
		e.logger.Error("mark record synced failed",
			zap.String("record_id", item.RecordID.String()),
			zap.Error(err))
		return err
	}

	if err := e.queueRepo.MarkSent(ctx, item.ID); err != nil {
		e.logger.Error("retire queue entry failed",
			zap.String("entry_id", item.ID.String()),
			zap.String("record_id", item.RecordID.String()),
			zap.Error(err))
		return err
	}

	return nil
}

func (e *Engine) markRecordSynced(ctx context.Context, item queue.Item) error {
	switch item.Type {
	case queue.TypeAttendance:
		row, err := e.attendanceRepo.FindByID(ctx, item.RecordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// locally deleted, nothing left to flag
				return nil
			}
			return err
		}
		row.Synced = true
		return e.attendanceRepo.Save(ctx, row)
	case queue.TypeExcuse:
		row, err := e.excuseRepo.FindByID(ctx, item.RecordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		row.Synced = true
		return e.excuseRepo.Save(ctx, row)
	default:
		return errors.New("unknown queue item type " + item.Type)
	}
}
