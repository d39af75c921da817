package excuse

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"preservice-attendance/internal/attendance"
	excuseerrors "preservice-attendance/internal/excuse/errors"
	"preservice-attendance/internal/sync/queue"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=excuse_service.go -destination=mock/excuse_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, userID, userName string, req SubmitExcuseRequest) (ExcuseResponse, error)
	Review(ctx context.Context, excuseID, reviewerID string, req ReviewExcuseRequest) (ExcuseResponse, error)
	GetAll(ctx context.Context) ([]ExcuseResponse, error)
	GetByUser(ctx context.Context, userID string) ([]ExcuseResponse, error)
}

type service struct {
	db             *sql.DB
	repo           Repository
	attendanceRepo attendance.Repository
	queueRepo      queue.Repository
	logger         *zap.Logger
}

func NewService(db *sql.DB, repo Repository, attendanceRepo attendance.Repository, queueRepo queue.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("excuse.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("excuse.service")
	}
	return &service{
		db:             db,
		repo:           repo,
		attendanceRepo: attendanceRepo,
		queueRepo:      queueRepo,
		logger:         l,
	}
}

// Submit files one excuse against an absence. The attendance_id unique index
// is the authority on one-excuse-per-absence, the lookup below only exists to
// give a friendlier answer on the common path.
func (s *service) Submit(ctx context.Context, userID, userName string, req SubmitExcuseRequest) (ExcuseResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ExcuseResponse{}, excuseerrors.ErrExcuseNotFound
	}
	attendanceID, err := uuid.Parse(req.AttendanceID)
	if err != nil {
		return ExcuseResponse{}, excuseerrors.ErrAttendanceNotFound
	}

	record, err := s.attendanceRepo.FindByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExcuseResponse{}, excuseerrors.ErrAttendanceNotFound
		}
		return ExcuseResponse{}, err
	}
	if record.Status != attendance.StatusAbsent {
		return ExcuseResponse{}, excuseerrors.ErrAttendanceNotAbsent
	}

	if _, err := s.repo.FindByAttendanceID(ctx, attendanceID); err == nil {
		return ExcuseResponse{}, excuseerrors.ErrExcuseAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ExcuseResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit excuse begin tx failed", zap.Error(err))
		return ExcuseResponse{}, err
	}
	defer tx.Rollback()

	row := &Excuse{
		ID:           uuid.New(),
		AttendanceID: attendanceID,
		UserID:       uid,
		UserName:     userName,
		Date:         record.Date,
		Reason:       req.Reason,
		Status:       StatusPending,
		Synced:       false,
	}

	if err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
		if isUniqueExcuseViolation(err) {
			return ExcuseResponse{}, excuseerrors.ErrExcuseAlreadyExists
		}
		s.logger.Error("submit excuse persist failed", zap.Error(err))
		return ExcuseResponse{}, err
	}

	payload, err := json.Marshal(row)
	if err != nil {
		return ExcuseResponse{}, err
	}
	item := queue.NewItem(queue.TypeExcuse, row.ID, queue.ActionCreate, payload)
	if err := s.queueRepo.WithTx(tx).Create(ctx, item); err != nil {
		s.logger.Error("submit excuse enqueue failed", zap.Error(err))
		return ExcuseResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit excuse commit failed", zap.Error(err))
		return ExcuseResponse{}, err
	}

	s.logger.Info("excuse submitted",
		zap.String("excuse_id", row.ID.String()),
		zap.String("attendance_id", attendanceID.String()),
	)

	return mapToResponse(*row), nil
}

// Review settles a pending excuse. Reviewing resets the synced flag so the
// decision is pushed out on the next pass.
func (s *service) Review(ctx context.Context, excuseID, reviewerID string, req ReviewExcuseRequest) (ExcuseResponse, error) {
	id, err := uuid.Parse(excuseID)
	if err != nil {
		return ExcuseResponse{}, excuseerrors.ErrInvalidExcuseID
	}
	if req.Status != StatusApproved && req.Status != StatusRejected {
		return ExcuseResponse{}, excuseerrors.ErrInvalidDecision
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExcuseResponse{}, excuseerrors.ErrExcuseNotFound
		}
		return ExcuseResponse{}, err
	}
	if row.Status != StatusPending {
		return ExcuseResponse{}, excuseerrors.ErrExcuseAlreadyReviewed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review excuse begin tx failed", zap.Error(err))
		return ExcuseResponse{}, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	row.Status = req.Status
	row.ReviewedAt = &now
	row.Synced = false
	if rid, err := uuid.Parse(reviewerID); err == nil {
		row.ReviewedBy = &rid
	}

	if err := s.repo.WithTx(tx).Save(ctx, row); err != nil {
		s.logger.Error("review excuse persist failed", zap.Error(err))
		return ExcuseResponse{}, err
	}

	payload, err := json.Marshal(row)
	if err != nil {
		return ExcuseResponse{}, err
	}
	item := queue.NewItem(queue.TypeExcuse, row.ID, queue.ActionUpdate, payload)
	if err := s.queueRepo.WithTx(tx).Create(ctx, item); err != nil {
		s.logger.Error("review excuse enqueue failed", zap.Error(err))
		return ExcuseResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("review excuse commit failed", zap.Error(err))
		return ExcuseResponse{}, err
	}

	s.logger.Info("excuse reviewed",
		zap.String("excuse_id", row.ID.String()),
		zap.String("decision", req.Status),
	)

	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context) ([]ExcuseResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByUser(ctx context.Context, userID string) ([]ExcuseResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, excuseerrors.ErrExcuseNotFound
	}
	rows, err := s.repo.FindByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func isUniqueExcuseViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") && strings.Contains(msg, "attendance_id")
}

func mapToResponse(e Excuse) ExcuseResponse {
	resp := ExcuseResponse{
		ID:           e.ID.String(),
		AttendanceID: e.AttendanceID.String(),
		UserID:       e.UserID.String(),
		UserName:     e.UserName,
		Date:         e.Date,
		Reason:       e.Reason,
		Status:       e.Status,
		Synced:       e.Synced,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
	if e.ReviewedBy != nil {
		v := e.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if e.ReviewedAt != nil {
		v := e.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToListResponse(rows []Excuse) []ExcuseResponse {
	resp := make([]ExcuseResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp
}
