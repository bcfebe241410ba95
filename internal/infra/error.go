package infra

import (
	"context"
	"errors"

	"parkshare/internal/pkg/errs"
	"parkshare/internal/pkg/pgconv"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// WrapRepoErr classifies err by its SQLSTATE unless kind is given, and marks the
// result with the matching error category.
func WrapRepoErr(msg string, err error, kind ...RepositoryErrorKind) error {
	k := classify(err)
	if len(kind) > 0 {
		k = kind[0]
	}

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return errs.Mark(RepositoryError{Kind: k, msg: msg, err: err}, categoryOf(k))
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindExclusionViolated  RepositoryErrorKind = "EXCLUSION_VIOLATED"
	KindLockContention     RepositoryErrorKind = "LOCK_CONTENTION"
)

func classify(err error) RepositoryErrorKind {
	if pgconv.IsNoRows(err) {
		return KindNotFound
	}
	switch pgconv.PgCode(err) {
	case pgconv.CodeUniqueViolation:
		return KindDuplicateKey
	case pgconv.CodeForeignKeyViolation:
		return KindForeignKeyViolated
	case pgconv.CodeExclusionViolation:
		return KindExclusionViolated
	case pgconv.CodeLockNotAvailable, pgconv.CodeSerializationFailure, pgconv.CodeDeadlockDetected:
		return KindLockContention
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindLockContention
	}
	return KindDBFailure
}

func categoryOf(kind RepositoryErrorKind) error {
	switch kind {
	case KindNotFound, KindForeignKeyViolated:
		return errs.ErrNotFound
	case KindDuplicateKey:
		return errs.ErrStateConflict
	case KindExclusionViolated:
		return errs.ErrAdmissionRejected
	case KindLockContention:
		return errs.ErrConcurrencyConflict
	default:
		return errs.ErrPersistence
	}
}
