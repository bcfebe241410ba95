// Package money holds currency-neutral amounts as integer minor units (cents).
package money

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"parkshare/internal/pkg/errs"
)

var (
	ErrInvalidAmount  = errs.Mark(errs.New("invalid money amount"), errs.ErrValidation)
	ErrNegativeAmount = errs.Mark(errs.New("money cannot be negative"), errs.ErrValidation)
)

type Money struct {
	cents int64
}

func FromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

// MustFromCents is for constants and tests.
func MustFromCents(cents int64) Money {
	m, err := FromCents(cents)
	if err != nil {
		panic(err)
	}
	return m
}

// Parse accepts a non-negative decimal with at most two fractional digits ("10", "10.5", "10.00").
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") {
		return Money{}, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "-") {
		return Money{}, ErrNegativeAmount
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if !isDigits(whole) || (hasDot && (!isDigits(frac) || len(frac) > 2)) {
		return Money{}, errs.Wrapf(ErrInvalidAmount, "%q", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, errs.Wrapf(ErrInvalidAmount, "%q", s)
	}
	minor, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || minor < 0 {
		return Money{}, errs.Wrapf(ErrInvalidAmount, "%q", s)
	}
	if units > (1<<63-1-minor)/100 {
		return Money{}, errs.Wrapf(ErrInvalidAmount, "%q overflows", s)
	}
	return Money{cents: units*100 + minor}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

var nanosPerHour = big.NewInt(int64(time.Hour))

// ForDuration returns rate × d in hours, rounded half-up to whole cents.
// The product is taken in arbitrary precision so long ranges cannot overflow.
func (m Money) ForDuration(d time.Duration) Money {
	if d <= 0 || m.cents == 0 {
		return Money{}
	}
	num := new(big.Int).Mul(big.NewInt(m.cents), big.NewInt(int64(d)))
	q, r := new(big.Int).QuoRem(num, nanosPerHour, new(big.Int))
	// half-up: remainder*2 >= divisor
	if r.Lsh(r, 1).Cmp(nanosPerHour) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if !q.IsInt64() {
		return Money{cents: 1<<63 - 1}
	}
	return Money{cents: q.Int64()}
}
