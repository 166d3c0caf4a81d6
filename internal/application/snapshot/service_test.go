package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/loginrelay/loginrelay/internal/automation"
	autoMocks "github.com/loginrelay/loginrelay/internal/automation/mocks"
	domainSnapshot "github.com/loginrelay/loginrelay/internal/domain/snapshot"
	snapMocks "github.com/loginrelay/loginrelay/internal/domain/snapshot/mocks"
)

func newTestService(t *testing.T, repo domainSnapshot.Repository) *Service {
	t.Helper()
	verifier, err := automation.NewVerifier("", "/login", "/dashboard")
	require.NoError(t, err)
	return NewService(repo, verifier, Config{
		OriginURL:  "https://business.example.com",
		LandingURL: "https://business.example.com/dashboard",
	}, zerolog.Nop())
}

func TestService_Capture(t *testing.T) {
	t.Run("full capture with storage and derived headers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := snapMocks.NewMockRepository(ctrl)
		drv := autoMocks.NewMockDriver(ctrl)
		service := newTestService(t, repo)
		ctx := context.Background()

		drv.EXPECT().Cookies(ctx).Return([]automation.Cookie{
			{Name: "theme", Value: "dark", Domain: ".example.com"},
			{Name: "merchant_token", Value: "tok-1", Domain: ".example.com"},
		}, nil)
		// storage first, then user agent; both go through Evaluate
		drv.EXPECT().Evaluate(ctx, gomock.Any()).Return(
			json.RawMessage(`{"localStorage":{"k":"v"},"sessionStorage":{},"loginCheck":"{\"authType\":\"OTP\"}"}`), nil)
		drv.EXPECT().CurrentURL(ctx).Return("https://business.example.com/dashboard", nil)
		drv.EXPECT().Title(ctx).Return("Dashboard", nil)
		drv.EXPECT().Evaluate(ctx, gomock.Any()).Return(json.RawMessage(`"TestAgent/1.0"`), nil)

		snap, err := service.Capture(ctx, drv)
		require.NoError(t, err)

		assert.Equal(t, "theme=dark; merchant_token=tok-1", snap.CookieHeader)
		require.Len(t, snap.DerivedTokens, 1)
		assert.Equal(t, "merchant_token", snap.DerivedTokens[0].Name)

		require.NotNil(t, snap.Storage)
		assert.Equal(t, "v", snap.Storage.Local["k"])
		require.NotNil(t, snap.AuthType)
		assert.Equal(t, "OTP", *snap.AuthType)

		assert.Equal(t, "https://business.example.com/dashboard", snap.URL)
		assert.Equal(t, "Dashboard", snap.PageTitle)
		assert.True(t, snap.IsLoggedIn)

		assert.Equal(t, "theme=dark; merchant_token=tok-1", snap.Headers["Cookie"])
		assert.Equal(t, "TestAgent/1.0", snap.Headers["User-Agent"])
		assert.Equal(t, "Bearer tok-1", snap.Headers["Authorization"])
	})

	t.Run("storage failure keeps cookie-only snapshot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := snapMocks.NewMockRepository(ctrl)
		drv := autoMocks.NewMockDriver(ctrl)
		service := newTestService(t, repo)
		ctx := context.Background()

		drv.EXPECT().Cookies(ctx).Return([]automation.Cookie{
			{Name: "session", Value: "s-1"},
		}, nil)
		drv.EXPECT().Evaluate(ctx, gomock.Any()).Return(nil, errors.New("context destroyed")).Times(2)
		drv.EXPECT().CurrentURL(ctx).Return("https://business.example.com/dashboard", nil)
		drv.EXPECT().Title(ctx).Return("", nil)

		snap, err := service.Capture(ctx, drv)
		require.NoError(t, err)
		assert.Nil(t, snap.Storage)
		require.Len(t, snap.DerivedTokens, 1)
		assert.Equal(t, "Bearer s-1", snap.Headers["Authorization"])
		_, hasUA := snap.Headers["User-Agent"]
		assert.False(t, hasUA)
	})

	t.Run("cookie failure is fatal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := snapMocks.NewMockRepository(ctrl)
		drv := autoMocks.NewMockDriver(ctrl)
		service := newTestService(t, repo)
		ctx := context.Background()

		drv.EXPECT().Cookies(ctx).Return(nil, errors.New("target closed"))

		_, err := service.Capture(ctx, drv)
		require.Error(t, err)
		assert.Equal(t, automation.KindStore, automation.KindOf(err))
	})
}

func TestService_Persist(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := snapMocks.NewMockRepository(ctrl)
	service := newTestService(t, repo)
	ctx := context.Background()

	check := `{"authType":"OTP"}`
	snap := &domainSnapshot.Snapshot{
		DerivedTokens: []domainSnapshot.Token{{Name: "session", Value: "s"}},
		LoginCheck:    &check,
	}

	repo.EXPECT().
		Upsert(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, stored *domainSnapshot.Snapshot) error {
			assert.Equal(t, "9876543210", stored.AccountID)
			assert.False(t, stored.LastUsed.IsZero())
			assert.Equal(t, stored.LastUsed.Add(7*24*time.Hour), stored.ExpiresAt)
			return nil
		})

	summary, err := service.Persist(ctx, "9876543210", snap)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CredentialCount)
	require.NotNil(t, summary.LoginCheck)
	assert.Equal(t, check, *summary.LoginCheck)
}

func TestService_Restore(t *testing.T) {
	t.Run("no cookies means no restore attempt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := snapMocks.NewMockRepository(ctrl)
		drv := autoMocks.NewMockDriver(ctrl)
		service := newTestService(t, repo)

		applied, err := service.Restore(context.Background(), drv, &domainSnapshot.Snapshot{})
		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("replays cookies and storage then verifies", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := snapMocks.NewMockRepository(ctrl)
		drv := autoMocks.NewMockDriver(ctrl)
		service := newTestService(t, repo)
		ctx := context.Background()

		snap := &domainSnapshot.Snapshot{
			Cookies: []domainSnapshot.Cookie{
				{Name: "session", Value: "s", Domain: ".example.com"},
			},
			Storage: &domainSnapshot.StorageBlob{Local: map[string]string{"k": "v"}},
		}

		drv.EXPECT().
			SetCookies(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, cookies []automation.Cookie) error {
				require.Len(t, cookies, 1)
				assert.Equal(t, "/", cookies[0].Path)
				return nil
			})
		drv.EXPECT().Navigate(ctx, "https://business.example.com").Return(nil)
		drv.EXPECT().Evaluate(ctx, gomock.Any(), gomock.Any()).Return(json.RawMessage(`null`), nil)
		drv.EXPECT().Reload(ctx).Return(nil)
		drv.EXPECT().Navigate(ctx, "https://business.example.com/dashboard").Return(nil)
		drv.EXPECT().CurrentURL(ctx).Return("https://business.example.com/dashboard", nil)

		applied, err := service.Restore(ctx, drv, snap)
		require.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("redirect back to login reports not applied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := snapMocks.NewMockRepository(ctrl)
		drv := autoMocks.NewMockDriver(ctrl)
		service := newTestService(t, repo)
		ctx := context.Background()

		snap := &domainSnapshot.Snapshot{
			Cookies: []domainSnapshot.Cookie{{Name: "session", Value: "s", Path: "/"}},
		}

		drv.EXPECT().SetCookies(ctx, gomock.Any()).Return(nil)
		drv.EXPECT().Navigate(ctx, gomock.Any()).Return(nil).Times(2)
		drv.EXPECT().Reload(ctx).Return(nil)
		drv.EXPECT().CurrentURL(ctx).Return("https://business.example.com/login", nil)

		applied, err := service.Restore(ctx, drv, snap)
		require.NoError(t, err)
		assert.False(t, applied)
	})
}
