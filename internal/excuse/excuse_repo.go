package excuse

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=excuse_repo.go -destination=mock/excuse_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Excuse) error
	FindByID(ctx context.Context, id uuid.UUID) (*Excuse, error)
	FindByAttendanceID(ctx context.Context, attendanceID uuid.UUID) (*Excuse, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Excuse, error)
	FindAll(ctx context.Context) ([]Excuse, error)
	Save(ctx context.Context, e *Excuse) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountPending(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx routes every statement through tx. The sqlite pool holds a single
// connection, so a statement issued outside the open transaction would wait
// on it forever.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true, Context: r.db.Statement.Context})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, e *Excuse) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Excuse, error) {
	var e Excuse
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByAttendanceID(ctx context.Context, attendanceID uuid.UUID) (*Excuse, error) {
	var e Excuse
	err := r.db.WithContext(ctx).First(&e, "attendance_id = ?", attendanceID).Error
	return &e, err
}

func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) ([]Excuse, error) {
	var rows []Excuse
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]Excuse, error) {
	var rows []Excuse
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Save(ctx context.Context, e *Excuse) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Excuse{}, "id = ?", id).Error
}

func (r *repository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Excuse{}).
		Where("status = ?", StatusPending).
		Count(&n).Error
	return n, err
}
