package puncherrors

import (
	"net/http"

	"go-timeclock/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidWorkerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid worker id",
		http.StatusBadRequest,
	)
	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid manager id",
		http.StatusBadRequest,
	)
	ErrInvalidJobID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid job id",
		http.StatusBadRequest,
	)
	ErrInvalidTimestamp = apperror.New(
		apperror.CodeInvalidInput,
		"invalid timestamp, expected RFC3339 UTC",
		http.StatusBadRequest,
	)
	ErrJobNotFound = apperror.New(
		apperror.CodeNotFound,
		"job not found",
		http.StatusNotFound,
	)
	ErrPunchNotFound = apperror.New(
		apperror.CodeNotFound,
		"punch not found",
		http.StatusNotFound,
	)
	// A repeated clock-out is rejected as not-found on purpose: the open
	// punch the caller is addressing no longer exists.
	ErrPunchAlreadyClosed = apperror.New(
		apperror.CodeNotFound,
		"punch is already clocked out",
		http.StatusNotFound,
	)
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeOverlapDetected,
		"worker already has an open punch for this job",
		http.StatusConflict,
	)
	ErrPunchOverlap = apperror.New(
		apperror.CodeOverlapDetected,
		"punch overlaps an existing punch for this worker",
		http.StatusConflict,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeValidationFailed,
		"time_out must be strictly after time_in",
		http.StatusUnprocessableEntity,
	)
	ErrNotDecidable = apperror.New(
		apperror.CodeInvalidState,
		"only a closed, pending punch can be approved or rejected",
		http.StatusBadRequest,
	)
	ErrNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"a finalized punch cannot be edited",
		http.StatusBadRequest,
	)
	ErrNotCancellable = apperror.New(
		apperror.CodeInvalidState,
		"only a pending punch can be cancelled",
		http.StatusBadRequest,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"punch belongs to another worker",
		http.StatusForbidden,
	)
)
