package excuseerrors

import (
	"net/http"

	"preservice-attendance/internal/shared/apperror"
)

var (
	ErrExcuseNotFound = apperror.New(
		apperror.CodeNotFound,
		"excuse not found",
		http.StatusNotFound,
	)
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
	ErrAttendanceNotAbsent = apperror.New(
		apperror.CodeInvalidState,
		"excuses can only be submitted for absences",
		http.StatusBadRequest,
	)
	ErrExcuseAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"an excuse already exists for this absence",
		http.StatusConflict,
	)
	ErrExcuseAlreadyReviewed = apperror.New(
		apperror.CodeInvalidState,
		"excuse has already been reviewed",
		http.StatusConflict,
	)
	ErrInvalidExcuseID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid excuse id",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be approved or rejected",
		http.StatusBadRequest,
	)
)
