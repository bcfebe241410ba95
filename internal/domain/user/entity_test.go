//go:build unit

package user_test

import (
	"testing"
	"time"

	"parkshare/internal/domain/user"
	"parkshare/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(user.User{}),
	cmpopts.EquateEmpty(),
}

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func TestUser(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {

		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		email, _ := user.NewEmail("renter@example.com")
		role, _ := user.NewRole("renter")
		expected := user.NewUser(email, "hashed_password", role, builder.FixedNow)

		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("User mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.True(t, actual.IsActive())
		assert.Nil(t, actual.LastLogin())
		assert.Equal(t, builder.FixedNow, actual.CreatedAt())
	})

	t.Run("メールアドレス検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "有効なメールアドレスOK",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") },
			},
			{
				name:   "大文字と前後空白は正規化OK",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("  Owner@Example.COM ") },
			},
			{
				name:   "空のメールアドレスNG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "無効な形式NG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalid-email") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "@なしNG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalidemail.com") },
				errIs:  user.ErrInvalidEmail,
			},
		})
	})

	t.Run("ロール検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "renter ロールOK",
				mutate: func(b *builder.UserBuilder) { b.WithRole("renter") },
			},
			{
				name:   "owner ロールOK",
				mutate: func(b *builder.UserBuilder) { b.WithRole("owner") },
			},
			{
				name:   "admin ロールOK",
				mutate: func(b *builder.UserBuilder) { b.WithRole("admin") },
			},
			{
				name:   "旧ロール viewer NG",
				mutate: func(b *builder.UserBuilder) { b.WithRole("viewer") },
				errIs:  user.ErrInvalidRole,
			},
			{
				name:   "空のロールNG",
				mutate: func(b *builder.UserBuilder) { b.WithRole("") },
				errIs:  user.ErrInvalidRole,
			},
		})
	})

	t.Run("状態検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "アクティブユーザーOK",
				mutate: func(b *builder.UserBuilder) { /* デフォルトでアクティブ */ },
			},
			{
				name:   "非アクティブユーザーOK",
				mutate: func(b *builder.UserBuilder) { b.AsInactive() },
			},
		})
	})

	t.Run("無効化で更新日時が進む", func(t *testing.T) {
		u, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)

		later := builder.FixedNow.Add(time.Hour)
		u.Deactivate(later)

		assert.False(t, u.IsActive())
		assert.Equal(t, later, u.UpdatedAt())
	})
}

func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		have user.Role
		min  user.Role
		want bool
	}{
		{user.RoleRenter, user.RoleRenter, true},
		{user.RoleRenter, user.RoleOwner, false},
		{user.RoleOwner, user.RoleRenter, true},
		{user.RoleOwner, user.RoleAdmin, false},
		{user.RoleAdmin, user.RoleOwner, true},
		{user.Role("viewer"), user.RoleRenter, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.have)+">="+string(tt.min), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.have.AtLeast(tt.min))
		})
	}
}

func TestNewCredentials(t *testing.T) {
	t.Run("正常系", func(t *testing.T) {
		c, err := user.NewCredentials("Renter@Example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "renter@example.com", c.Email().Value())
		assert.Equal(t, "password123", c.Password().Value())
	})

	t.Run("短いパスワードNG", func(t *testing.T) {
		_, err := user.NewCredentials("renter@example.com", "short")
		require.ErrorIs(t, err, user.ErrPasswordTooWeak)
	})

	t.Run("不正なメールNG", func(t *testing.T) {
		_, err := user.NewCredentials("nope", "password123")
		require.ErrorIs(t, err, user.ErrInvalidEmail)
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {

			actual, err := builder.NewUserBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
