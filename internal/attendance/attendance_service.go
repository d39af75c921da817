package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	attendanceerrors "preservice-attendance/internal/attendance/errors"
	"preservice-attendance/internal/sync/queue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context) ([]AttendanceResponse, error)
	GetByDate(ctx context.Context, date string) ([]AttendanceResponse, error)
	Stats(ctx context.Context) (StatsResponse, error)
}

// PendingExcuseCounter is the slice of the excuse repository the stats
// endpoint needs.
type PendingExcuseCounter interface {
	CountPending(ctx context.Context) (int64, error)
}

type service struct {
	db            *sql.DB
	repo          Repository
	queueRepo     queue.Repository
	excuseCounter PendingExcuseCounter
	logger        *zap.Logger
}

func NewService(db *sql.DB, repo Repository, queueRepo queue.Repository, excuseCounter PendingExcuseCounter, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		queueRepo:     queueRepo,
		excuseCounter: excuseCounter,
		logger:        l,
	}
}

// Mark records one check-in action. Date and check-in time are derived from
// the current clock, never from the client. Two tabs marking the same
// user/day both succeed: reconciliation is eventual, not strict.
func (s *service) Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("mark attendance begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()

	row := &Attendance{
		ID:       uuid.New(),
		UserID:   userID,
		UserName: req.UserName,
		Date:     now.Format("2006-01-02"),
		Status:   req.Status,
		Location: req.Location,
		Synced:   false,
	}
	// checkInTime is set iff the user actually showed up.
	if req.Status == StatusPresent || req.Status == StatusLate {
		row.CheckInTime = &now
	}

	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("mark attendance persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	payload, err := json.Marshal(row)
	if err != nil {
		return AttendanceResponse{}, err
	}
	item := queue.NewItem(queue.TypeAttendance, row.ID, queue.ActionCreate, payload)
	if err := s.queueRepo.WithTx(tx).Create(ctx, item); err != nil {
		s.logger.Error("mark attendance enqueue failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("mark attendance commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("attendance recorded",
		zap.String("attendance_id", row.ID.String()),
		zap.String("user_id", req.UserID),
		zap.String("status", req.Status),
	)

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByDate(ctx context.Context, date string) ([]AttendanceResponse, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, attendanceerrors.ErrInvalidDateFormat
	}

	rows, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) Stats(ctx context.Context) (StatsResponse, error) {
	var (
		stats StatsResponse
		err   error
	)

	if stats.Total, err = s.repo.Count(ctx); err != nil {
		return StatsResponse{}, err
	}
	if stats.Present, err = s.repo.CountByStatus(ctx, StatusPresent); err != nil {
		return StatsResponse{}, err
	}
	if stats.Absent, err = s.repo.CountByStatus(ctx, StatusAbsent); err != nil {
		return StatsResponse{}, err
	}
	if stats.Late, err = s.repo.CountByStatus(ctx, StatusLate); err != nil {
		return StatsResponse{}, err
	}
	if stats.PendingExcuses, err = s.excuseCounter.CountPending(ctx); err != nil {
		return StatsResponse{}, err
	}

	return stats, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:        a.ID.String(),
		UserID:    a.UserID.String(),
		UserName:  a.UserName,
		Date:      a.Date,
		Status:    a.Status,
		Location:  a.Location,
		Synced:    a.Synced,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.CheckInTime != nil {
		v := a.CheckInTime.Format(time.RFC3339)
		resp.CheckInTime = &v
	}
	return resp
}

func mapToListResponse(rows []Attendance) []AttendanceResponse {
	resp := make([]AttendanceResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp
}
