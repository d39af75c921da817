package excuse

import (
	"context"
	"database/sql"
	"testing"

	"preservice-attendance/internal/attendance"
	excuseerrors "preservice-attendance/internal/excuse/errors"
	"preservice-attendance/internal/sync/queue"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn             func(tx *sql.Tx) Repository
	createFn             func(ctx context.Context, e *Excuse) error
	findByIDFn           func(ctx context.Context, id uuid.UUID) (*Excuse, error)
	findByAttendanceIDFn func(ctx context.Context, attendanceID uuid.UUID) (*Excuse, error)
	findByUserFn         func(ctx context.Context, userID uuid.UUID) ([]Excuse, error)
	findAllFn            func(ctx context.Context) ([]Excuse, error)
	saveFn               func(ctx context.Context, e *Excuse) error
	deleteFn             func(ctx context.Context, id uuid.UUID) error
	countPendingFn       func(ctx context.Context) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) Create(ctx context.Context, e *Excuse) error { return f.createFn(ctx, e) }
func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*Excuse, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByAttendanceID(ctx context.Context, attendanceID uuid.UUID) (*Excuse, error) {
	return f.findByAttendanceIDFn(ctx, attendanceID)
}
func (f *fakeRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]Excuse, error) {
	return f.findByUserFn(ctx, userID)
}
func (f *fakeRepo) FindAll(ctx context.Context) ([]Excuse, error)   { return f.findAllFn(ctx) }
func (f *fakeRepo) Save(ctx context.Context, e *Excuse) error       { return f.saveFn(ctx, e) }
func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error  { return f.deleteFn(ctx, id) }
func (f *fakeRepo) CountPending(ctx context.Context) (int64, error) { return f.countPendingFn(ctx) }

type fakeAttendanceRepo struct {
	attendance.Repository
	findByIDFn func(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error)
}

func (f *fakeAttendanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error) {
	return f.findByIDFn(ctx, id)
}

type fakeQueueRepo struct {
	created []queue.Item
}

func (f *fakeQueueRepo) WithTx(tx *sql.Tx) queue.Repository { return f }
func (f *fakeQueueRepo) Create(ctx context.Context, item queue.Item) error {
	f.created = append(f.created, item)
	return nil
}
func (f *fakeQueueRepo) ListPending(ctx context.Context, limit int) ([]queue.Item, error) {
	return nil, nil
}
func (f *fakeQueueRepo) MarkSent(ctx context.Context, recordID uuid.UUID) error       { return nil }
func (f *fakeQueueRepo) MarkFailed(ctx context.Context, id uuid.UUID, r string) error { return nil }

func absentRecord(id uuid.UUID) *attendance.Attendance {
	return &attendance.Attendance{ID: id, Status: attendance.StatusAbsent, Date: "2026-08-31"}
}

func TestService_Submit(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	attendanceID := uuid.New()
	userID := uuid.New().String()

	var saved Excuse
	repo := &fakeRepo{
		createFn: func(ctx context.Context, e *Excuse) error { saved = *e; return nil },
		findByAttendanceIDFn: func(ctx context.Context, id uuid.UUID) (*Excuse, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	attendanceRepo := &fakeAttendanceRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error) {
			return absentRecord(id), nil
		},
	}
	queueRepo := &fakeQueueRepo{}
	svc := NewService(db, repo, attendanceRepo, queueRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Submit(context.Background(), userID, "Jordan Avery", SubmitExcuseRequest{
		AttendanceID: attendanceID.String(),
		Reason:       "medical appointment",
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, "2026-08-31", resp.Date)
	assert.False(t, resp.Synced)

	assert.Len(t, queueRepo.created, 1)
	assert.Equal(t, queue.TypeExcuse, queueRepo.created[0].Type)
	assert.Equal(t, queue.ActionCreate, queueRepo.created[0].Action)
	assert.Equal(t, saved.ID, queueRepo.created[0].RecordID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Submit_AttendanceMissing(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	attendanceRepo := &fakeAttendanceRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, &fakeRepo{}, attendanceRepo, &fakeQueueRepo{})

	_, err := svc.Submit(context.Background(), uuid.New().String(), "Jordan Avery", SubmitExcuseRequest{
		AttendanceID: uuid.New().String(),
		Reason:       "medical appointment",
	})
	assert.ErrorIs(t, err, excuseerrors.ErrAttendanceNotFound)
}

func TestService_Submit_NotAbsent(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	attendanceRepo := &fakeAttendanceRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error) {
			return &attendance.Attendance{ID: id, Status: attendance.StatusPresent}, nil
		},
	}
	svc := NewService(db, &fakeRepo{}, attendanceRepo, &fakeQueueRepo{})

	_, err := svc.Submit(context.Background(), uuid.New().String(), "Jordan Avery", SubmitExcuseRequest{
		AttendanceID: uuid.New().String(),
		Reason:       "medical appointment",
	})
	assert.ErrorIs(t, err, excuseerrors.ErrAttendanceNotAbsent)
}

func TestService_Submit_Duplicate(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByAttendanceIDFn: func(ctx context.Context, id uuid.UUID) (*Excuse, error) {
			return &Excuse{ID: uuid.New(), AttendanceID: id}, nil
		},
	}
	attendanceRepo := &fakeAttendanceRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error) {
			return absentRecord(id), nil
		},
	}
	queueRepo := &fakeQueueRepo{}
	svc := NewService(db, repo, attendanceRepo, queueRepo)

	_, err := svc.Submit(context.Background(), uuid.New().String(), "Jordan Avery", SubmitExcuseRequest{
		AttendanceID: uuid.New().String(),
		Reason:       "medical appointment",
	})
	assert.ErrorIs(t, err, excuseerrors.ErrExcuseAlreadyExists)
	assert.Empty(t, queueRepo.created)
}

func TestService_Submit_DuplicateRace(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	// precheck sees nothing, the unique index catches the race at insert
	repo := &fakeRepo{
		findByAttendanceIDFn: func(ctx context.Context, id uuid.UUID) (*Excuse, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, e *Excuse) error {
			return gorm.ErrDuplicatedKey
		},
	}
	attendanceRepo := &fakeAttendanceRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*attendance.Attendance, error) {
			return absentRecord(id), nil
		},
	}
	svc := NewService(db, repo, attendanceRepo, &fakeQueueRepo{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Submit(context.Background(), uuid.New().String(), "Jordan Avery", SubmitExcuseRequest{
		AttendanceID: uuid.New().String(),
		Reason:       "medical appointment",
	})
	assert.ErrorIs(t, err, excuseerrors.ErrExcuseAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Review(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	excuseID := uuid.New()
	pending := &Excuse{
		ID:           excuseID,
		AttendanceID: uuid.New(),
		UserID:       uuid.New(),
		Status:       StatusPending,
		Synced:       true,
	}

	var saved Excuse
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Excuse, error) { return pending, nil },
		saveFn:     func(ctx context.Context, e *Excuse) error { saved = *e; return nil },
	}
	queueRepo := &fakeQueueRepo{}
	svc := NewService(db, repo, &fakeAttendanceRepo{}, queueRepo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Review(context.Background(), excuseID.String(), uuid.New().String(), ReviewExcuseRequest{
		Status: StatusApproved,
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, resp.Status)
	assert.NotNil(t, resp.ReviewedAt)

	// a reviewed excuse goes back on the wire
	assert.False(t, saved.Synced)
	assert.Len(t, queueRepo.created, 1)
	assert.Equal(t, queue.ActionUpdate, queueRepo.created[0].Action)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Review_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Excuse, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo, &fakeAttendanceRepo{}, &fakeQueueRepo{})

	_, err := svc.Review(context.Background(), uuid.New().String(), uuid.New().String(), ReviewExcuseRequest{
		Status: StatusRejected,
	})
	assert.ErrorIs(t, err, excuseerrors.ErrExcuseNotFound)
}

func TestService_Review_AlreadyReviewed(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*Excuse, error) {
			return &Excuse{ID: id, Status: StatusApproved}, nil
		},
	}
	svc := NewService(db, repo, &fakeAttendanceRepo{}, &fakeQueueRepo{})

	_, err := svc.Review(context.Background(), uuid.New().String(), uuid.New().String(), ReviewExcuseRequest{
		Status: StatusRejected,
	})
	assert.ErrorIs(t, err, excuseerrors.ErrExcuseAlreadyReviewed)
}
