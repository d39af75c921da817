package attendance

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	attendanceerrors "preservice-attendance/internal/attendance/errors"
	"preservice-attendance/internal/sync/queue"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	withTxFn        func(tx *sql.Tx) Repository
	createFn        func(ctx context.Context, a *Attendance) error
	findByIDFn      func(ctx context.Context, id uuid.UUID) (*Attendance, error)
	findByDateFn    func(ctx context.Context, date string) ([]Attendance, error)
	findByUserFn    func(ctx context.Context, userID uuid.UUID) ([]Attendance, error)
	findAllFn       func(ctx context.Context) ([]Attendance, error)
	saveFn          func(ctx context.Context, a *Attendance) error
	deleteFn        func(ctx context.Context, id uuid.UUID) error
	countByStatusFn func(ctx context.Context, status string) (int64, error)
	countFn         func(ctx context.Context) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) Create(ctx context.Context, a *Attendance) error { return f.createFn(ctx, a) }
func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*Attendance, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByDate(ctx context.Context, date string) ([]Attendance, error) {
	return f.findByDateFn(ctx, date)
}
func (f *fakeRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]Attendance, error) {
	return f.findByUserFn(ctx, userID)
}
func (f *fakeRepo) FindAll(ctx context.Context) ([]Attendance, error) { return f.findAllFn(ctx) }
func (f *fakeRepo) Save(ctx context.Context, a *Attendance) error     { return f.saveFn(ctx, a) }
func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error    { return f.deleteFn(ctx, id) }
func (f *fakeRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	return f.countByStatusFn(ctx, status)
}
func (f *fakeRepo) Count(ctx context.Context) (int64, error) { return f.countFn(ctx) }

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

type fakeExcuseCounter struct {
	pending int64
	err     error
}

func (f *fakeExcuseCounter) CountPending(ctx context.Context) (int64, error) {
	return f.pending, f.err
}

func TestService_Mark(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	ctx := context.Background()
	userID := uuid.New().String()

	var saved Attendance
	repo := &fakeRepo{
		createFn: func(ctx context.Context, a *Attendance) error { saved = *a; return nil },
	}
	queueRepo := &fakeQueueRepo{}
	svc := NewService(db, repo, queueRepo, &fakeExcuseCounter{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Mark(ctx, MarkAttendanceRequest{
		UserID:   userID,
		UserName: "Jordan Avery",
		Status:   StatusPresent,
	})
	assert.NoError(t, err)
	assert.Equal(t, userID, resp.UserID)
	assert.Equal(t, StatusPresent, resp.Status)
	assert.NotNil(t, resp.CheckInTime)
	assert.False(t, resp.Synced)
	assert.NotNil(t, saved.CheckInTime)

	// the record mutation and its queue entry commit together
	assert.Len(t, queueRepo.created, 1)
	assert.Equal(t, queue.TypeAttendance, queueRepo.created[0].Type)
	assert.Equal(t, queue.ActionCreate, queueRepo.created[0].Action)
	assert.Equal(t, saved.ID, queueRepo.created[0].RecordID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Mark_AbsentHasNoCheckInTime(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, a *Attendance) error { return nil },
	}
	svc := NewService(db, repo, &fakeQueueRepo{}, &fakeExcuseCounter{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		UserID:   uuid.New().String(),
		UserName: "Jordan Avery",
		Status:   StatusAbsent,
	})
	assert.NoError(t, err)
	assert.Nil(t, resp.CheckInTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Mark_InvalidUserID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeQueueRepo{}, &fakeExcuseCounter{})

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		UserID:   "not-a-uuid",
		UserName: "Jordan Avery",
		Status:   StatusPresent,
	})
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidUserID)
}

func TestService_Mark_PersistFailureRollsBack(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, a *Attendance) error { return errors.New("disk full") },
	}
	queueRepo := &fakeQueueRepo{}
	svc := NewService(db, repo, queueRepo, &fakeExcuseCounter{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		UserID:   uuid.New().String(),
		UserName: "Jordan Avery",
		Status:   StatusLate,
	})
	assert.Error(t, err)
	assert.Empty(t, queueRepo.created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetByDate_InvalidFormat(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeQueueRepo{}, &fakeExcuseCounter{})

	_, err := svc.GetByDate(context.Background(), "31-12-2025")
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidDateFormat)
}

func TestService_Stats(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	counts := map[string]int64{
		StatusPresent: 5,
		StatusAbsent:  2,
		StatusLate:    1,
	}
	repo := &fakeRepo{
		countFn: func(ctx context.Context) (int64, error) { return 8, nil },
		countByStatusFn: func(ctx context.Context, status string) (int64, error) {
			return counts[status], nil
		},
	}
	svc := NewService(db, repo, &fakeQueueRepo{}, &fakeExcuseCounter{pending: 2})

	stats, err := svc.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(8), stats.Total)
	assert.Equal(t, int64(5), stats.Present)
	assert.Equal(t, int64(2), stats.Absent)
	assert.Equal(t, int64(1), stats.Late)
	assert.Equal(t, int64(2), stats.PendingExcuses)
}
