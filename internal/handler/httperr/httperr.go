package httperr

import (
	"net/http"

	"parkshare/internal/domain/reservation"
	"parkshare/internal/domain/resource"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// Reason is the machine-readable detail attached to 409 responses.
type Reason struct {
	Reason string `json:"reason"`
}

// Machine-readable conflict reasons
const (
	ReasonTimeConflict        = "time_conflict"
	ReasonOutsideAvailability = "outside_availability"
	ReasonResourceUnavailable = "resource_unavailable"
	ReasonInvalidTransition   = "invalid_transition"
	ReasonActiveReservations  = "active_reservations"
	ReasonConcurrencyConflict = "concurrency_conflict"
	ReasonStateConflict       = "state_conflict"
	ReasonAdmissionRejected   = "admission_rejected"
)

const (
	messageInternal            = "Internal server error"
	messageServiceUnavailable  = "Service temporarily unavailable"
	messageInvalidCredentials  = "Invalid email or password"
	messageInsufficientAccess  = "Insufficient permissions"
	messageNotFound            = "Not found"
	messageRequestNotSatisfied = "Request conflicts with current state"
)

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort maps err to a status by its category and aborts the request.
func Abort(c *gin.Context, err error) {
	status, msg, detail := Classify(err)
	AbortWithError(c, status, err, msg, detail)
}

// Classify returns the HTTP status, public message and detail for err.
func Classify(err error) (int, string, any) {
	switch {
	case errs.Is(err, commands.ErrInvalidCredentials):
		return http.StatusUnauthorized, messageInvalidCredentials, nil
	case errs.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, publicMessage(err), nil
	case errs.Is(err, errs.ErrAdmissionRejected):
		return http.StatusConflict, publicMessage(err), Reason{Reason: admissionReason(err)}
	case errs.Is(err, errs.ErrConcurrencyConflict):
		return http.StatusConflict, messageRequestNotSatisfied, Reason{Reason: ReasonConcurrencyConflict}
	case errs.Is(err, errs.ErrStateConflict):
		return http.StatusConflict, publicMessage(err), Reason{Reason: stateReason(err)}
	case errs.Is(err, errs.ErrAuthorization):
		return http.StatusForbidden, messageInsufficientAccess, nil
	case errs.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, messageNotFound, nil
	case errs.Is(err, errs.ErrPersistence):
		return http.StatusServiceUnavailable, messageServiceUnavailable, nil
	default:
		return http.StatusInternalServerError, messageInternal, nil
	}
}

func admissionReason(err error) string {
	switch {
	case errs.Is(err, reservation.ErrTimeConflict):
		return ReasonTimeConflict
	case errs.Is(err, reservation.ErrOutsideAvailability):
		return ReasonOutsideAvailability
	case errs.Is(err, reservation.ErrResourceUnavailable):
		return ReasonResourceUnavailable
	default:
		return ReasonAdmissionRejected
	}
}

func stateReason(err error) string {
	switch {
	case errs.Is(err, reservation.ErrInvalidTransition):
		return ReasonInvalidTransition
	case errs.Is(err, resource.ErrHasActiveReservations):
		return ReasonActiveReservations
	default:
		return ReasonStateConflict
	}
}

// publicMessage is the outermost message of a domain error; wrapped infra
// detail stays out of the body.
func publicMessage(err error) string {
	var transition *reservation.InvalidTransitionError
	if errs.As(err, &transition) {
		return transition.Error()
	}
	return err.Error()
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// AbortInvalidRequest reports a binding or path parameter failure as 400, listing
// the failed validation rules when there are any.
func AbortInvalidRequest(c *gin.Context, err error) {
	var detail any
	var ves validator.ValidationErrors
	if errs.As(err, &ves) {
		fields := make([]FieldError, 0, len(ves))
		for _, fe := range ves {
			fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		detail = gin.H{"fields": fields}
	}
	AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrValidation), "Invalid request", detail)
}
