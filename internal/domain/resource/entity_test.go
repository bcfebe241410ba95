//go:build unit

package resource_test

import (
	"strings"
	"testing"
	"time"

	"parkshare/internal/domain/money"
	"parkshare/internal/domain/resource"
	"parkshare/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func TestNewResource(t *testing.T) {
	owner := uuid.New()
	rate := money.MustFromCents(1000)

	t.Run("正常系", func(t *testing.T) {
		r, err := resource.NewResource(owner, "  Central Lot ", "1 Main St", rate, now)
		require.NoError(t, err)
		assert.Equal(t, "Central Lot", r.Name())
		assert.True(t, r.IsOwnedBy(owner))
		assert.True(t, r.IsActive())
		assert.True(t, r.IsBookable())
		assert.Nil(t, r.DeletedAt())
	})

	tests := []struct {
		name    string
		resName string
		address string
		rate    money.Money
		errIs   error
	}{
		{"空の名前NG", "  ", "", rate, resource.ErrEmptyResourceName},
		{"長すぎる名前NG", strings.Repeat("a", 256), "", rate, resource.ErrResourceNameTooLong},
		{"長すぎる住所NG", "Lot", strings.Repeat("a", 501), rate, resource.ErrAddressTooLong},
		{"料金ゼロNG", "Lot", "", money.MustFromCents(0), resource.ErrNonPositiveHourlyRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resource.NewResource(owner, tt.resName, tt.address, tt.rate, now)
			require.Error(t, err)
			assert.True(t, errs.Is(err, tt.errIs))
			assert.True(t, errs.Is(err, errs.ErrValidation))
		})
	}
}

func TestResource_Mutations(t *testing.T) {
	r, err := resource.NewResource(uuid.New(), "Lot", "", money.MustFromCents(1000), now)
	require.NoError(t, err)
	later := now.Add(time.Hour)

	t.Run("料金変更", func(t *testing.T) {
		require.NoError(t, r.ChangeHourlyRate(money.MustFromCents(1500), later))
		assert.Equal(t, int64(1500), r.HourlyRate().Cents())
		assert.Equal(t, later, r.UpdatedAt())

		err := r.ChangeHourlyRate(money.MustFromCents(0), later)
		assert.True(t, errs.Is(err, resource.ErrNonPositiveHourlyRate))
		assert.Equal(t, int64(1500), r.HourlyRate().Cents())
	})

	t.Run("無効化で予約不可", func(t *testing.T) {
		r.SetActive(false, later)
		assert.False(t, r.IsBookable())
		r.SetActive(true, later)
		assert.True(t, r.IsBookable())
	})

	t.Run("論理削除", func(t *testing.T) {
		require.NoError(t, r.MarkDeleted(later))
		assert.False(t, r.IsBookable())
		require.NotNil(t, r.DeletedAt())

		err := r.MarkDeleted(later)
		assert.True(t, errs.Is(err, resource.ErrResourceAlreadyDeleted))
	})
}
