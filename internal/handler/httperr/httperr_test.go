//go:build unit

package httperr_test

import (
	"errors"
	"net/http"
	"testing"

	"parkshare/internal/domain/reservation"
	"parkshare/internal/domain/resource"
	"parkshare/internal/handler/httperr"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{name: "credentials", err: errs.Wrap(commands.ErrInvalidCredentials, "login"), wantStatus: http.StatusUnauthorized},
		{name: "validation", err: reservation.ErrInvalidTimeRange, wantStatus: http.StatusBadRequest},
		{name: "overlap", err: errs.Wrap(reservation.ErrTimeConflict, "admit"), wantStatus: http.StatusConflict, wantReason: httperr.ReasonTimeConflict},
		{name: "closed", err: reservation.ErrOutsideAvailability, wantStatus: http.StatusConflict, wantReason: httperr.ReasonOutsideAvailability},
		{name: "unavailable", err: reservation.ErrResourceUnavailable, wantStatus: http.StatusConflict, wantReason: httperr.ReasonResourceUnavailable},
		{name: "other admission", err: errs.Mark(errs.New("quota"), errs.ErrAdmissionRejected), wantStatus: http.StatusConflict, wantReason: httperr.ReasonAdmissionRejected},
		{name: "retry exhausted", err: errs.Mark(errs.New("40001"), errs.ErrConcurrencyConflict), wantStatus: http.StatusConflict, wantReason: httperr.ReasonConcurrencyConflict},
		{name: "blocked delete", err: resource.ErrHasActiveReservations, wantStatus: http.StatusConflict, wantReason: httperr.ReasonActiveReservations},
		{name: "forbidden", err: resource.ErrNotOwner, wantStatus: http.StatusForbidden},
		{name: "missing", err: reservation.ErrReservationNotFound, wantStatus: http.StatusNotFound},
		{name: "store down", err: errs.Mark(errs.New("dial tcp"), errs.ErrPersistence), wantStatus: http.StatusServiceUnavailable},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg, detail := httperr.Classify(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.NotEmpty(t, msg)
			if tc.wantReason == "" {
				assert.Nil(t, detail)
				return
			}
			assert.Equal(t, httperr.Reason{Reason: tc.wantReason}, detail)
		})
	}

	t.Run("internal detail stays out of 5xx messages", func(t *testing.T) {
		_, msg, _ := httperr.Classify(errs.Wrap(errors.New("password=secret"), "connect"))
		assert.NotContains(t, msg, "secret")
	})
}
