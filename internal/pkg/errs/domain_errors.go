package errs

// Error categories. Concrete sentinels in the domain and usecase layers are marked
// with one of these so transport code can map them without knowing every error.
var (
	// ErrValidation: malformed input, reported with the field/reason, never retried
	ErrValidation = New("validation error")

	// ErrAdmissionRejected: business outcome of a booking attempt, not a fault
	ErrAdmissionRejected = New("admission rejected")

	// ErrConcurrencyConflict: lost a race for a resource guard or transaction; transient
	ErrConcurrencyConflict = New("concurrency conflict")

	ErrAuthorization = New("caller is not authorized")
	ErrNotFound      = New("entity not found")
	ErrStateConflict = New("state conflict")

	// ErrPersistence: storage failure, surfaced as service unavailable
	ErrPersistence = New("persistence fault")
)

// Category returns the first category err is marked with, or nil.
func Category(err error) error {
	for _, c := range []error{
		ErrValidation,
		ErrAdmissionRejected,
		ErrConcurrencyConflict,
		ErrAuthorization,
		ErrNotFound,
		ErrStateConflict,
		ErrPersistence,
	} {
		if Is(err, c) {
			return c
		}
	}
	return nil
}
