package login

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/loginrelay/loginrelay/internal/application/registry"
	"github.com/loginrelay/loginrelay/internal/application/rendezvous"
	appSnapshot "github.com/loginrelay/loginrelay/internal/application/snapshot"
	"github.com/loginrelay/loginrelay/internal/automation"
	autoMocks "github.com/loginrelay/loginrelay/internal/automation/mocks"
	domainOtp "github.com/loginrelay/loginrelay/internal/domain/otp"
	otpMocks "github.com/loginrelay/loginrelay/internal/domain/otp/mocks"
	domainSnapshot "github.com/loginrelay/loginrelay/internal/domain/snapshot"
	snapMocks "github.com/loginrelay/loginrelay/internal/domain/snapshot/mocks"
	"github.com/loginrelay/loginrelay/internal/infrastructure/sse"
)

// fakeFactory hands out a prepared driver.
type fakeFactory struct {
	drv automation.Driver
	err error
}

func (f *fakeFactory) New(ctx context.Context) (automation.Driver, error) {
	return f.drv, f.err
}

type orchestratorFixture struct {
	otpRepo  *otpMocks.MockRepository
	snapRepo *snapMocks.MockRepository
	drv      *autoMocks.MockDriver
	reg      *registry.Registry
	orch     *Orchestrator
}

func newOrchestratorFixture(t *testing.T, ctrl *gomock.Controller) *orchestratorFixture {
	t.Helper()
	verifier, err := automation.NewVerifier("", "/login", "/dashboard")
	require.NoError(t, err)

	otpRepo := otpMocks.NewMockRepository(ctrl)
	snapRepo := snapMocks.NewMockRepository(ctrl)
	drv := autoMocks.NewMockDriver(ctrl)
	reg := registry.New(zerolog.Nop())

	codec := appSnapshot.NewService(snapRepo, verifier, appSnapshot.Config{
		OriginURL:  "https://business.example.com",
		LandingURL: "https://business.example.com/dashboard",
	}, zerolog.Nop())
	poller := rendezvous.NewPoller(otpRepo, codec, verifier, rendezvous.Config{
		PollInterval: time.Millisecond,
		MaxAttempts:  3,
		TypeDelay:    time.Millisecond,
		NavTimeout:   time.Second,
	}, zerolog.Nop())

	orch := NewOrchestrator(snapRepo, codec, poller, reg, &fakeFactory{drv: drv}, nil, Config{
		LoginURL:  "https://business.example.com/login",
		TypeDelay: time.Millisecond,
	}, zerolog.Nop())

	return &orchestratorFixture{
		otpRepo:  otpRepo,
		snapRepo: snapRepo,
		drv:      drv,
		reg:      reg,
		orch:     orch,
	}
}

func (f *orchestratorFixture) expectCapture(ctx context.Context) {
	f.drv.EXPECT().Cookies(gomock.Any()).Return([]automation.Cookie{
		{Name: "merchant_token", Value: "tok-1"},
	}, nil)
	f.drv.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(
		json.RawMessage(`{"localStorage":{},"sessionStorage":{},"loginCheck":null}`), nil)
	f.drv.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(json.RawMessage(`"TestAgent/1.0"`), nil)
	f.drv.EXPECT().Title(gomock.Any()).Return("Dashboard", nil)
}

func TestStart_RejectsEmptyAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newOrchestratorFixture(t, ctrl)

	_, err := f.orch.Start(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, automation.KindValidation, automation.KindOf(err))
}

func TestStart_RejectsActiveAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newOrchestratorFixture(t, ctrl)

	blocker := autoMocks.NewMockDriver(ctrl)
	blocker.EXPECT().Alive().Return(true).AnyTimes()
	_, err := f.reg.Register("9876543210", blocker)
	require.NoError(t, err)

	_, err = f.orch.Start(context.Background(), "9876543210")
	assert.ErrorIs(t, err, registry.ErrAlreadyActive)
}

func TestStart_RestoresEligibleSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newOrchestratorFixture(t, ctrl)
	ctx := context.Background()

	snap := &domainSnapshot.Snapshot{
		AccountID:     "9876543210",
		Cookies:       []domainSnapshot.Cookie{{Name: "merchant_token", Value: "tok-1", Path: "/"}},
		DerivedTokens: []domainSnapshot.Token{{Name: "merchant_token", Value: "tok-1"}},
		LastUsed:      time.Now().UTC().Add(-time.Hour),
	}
	f.snapRepo.EXPECT().FindByAccount(gomock.Any(), "9876543210").Return(snap, nil)

	// restore replay
	f.drv.EXPECT().SetCookies(gomock.Any(), gomock.Any()).Return(nil)
	f.drv.EXPECT().Navigate(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.drv.EXPECT().Reload(gomock.Any()).Return(nil)
	f.drv.EXPECT().CurrentURL(gomock.Any()).Return("https://business.example.com/dashboard", nil).AnyTimes()

	// post-restore refresh
	f.expectCapture(ctx)
	f.snapRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	f.drv.EXPECT().Close().Return(nil)

	res, err := f.orch.Start(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSessionRestored, res.Outcome)
	assert.Equal(t, StatePersisted, res.State)
	assert.True(t, res.Persisted)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 1, res.Summary.CredentialCount)
	assert.Equal(t, 0, f.reg.Len())
}

func TestStart_StaleSnapshotFallsThroughToFreshLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newOrchestratorFixture(t, ctrl)
	ctx := context.Background()
	record := domainOtp.NewRecord("9876543210", "12345")

	stale := &domainSnapshot.Snapshot{
		DerivedTokens: []domainSnapshot.Token{{Name: "session", Value: "v"}},
		LastUsed:      time.Now().UTC().Add(-200 * time.Hour),
	}
	f.snapRepo.EXPECT().FindByAccount(gomock.Any(), "9876543210").Return(stale, nil)

	// fresh login UI
	phone := autoMocks.NewMockElement(ctrl)
	send := autoMocks.NewMockElement(ctrl)
	send.EXPECT().Text().Return("Send OTP", nil)

	f.drv.EXPECT().Navigate(gomock.Any(), "https://business.example.com/login").Return(nil)
	f.drv.EXPECT().FindFirst(gomock.Any(), automation.PhoneInputSelectors).Return(phone, nil)
	phone.EXPECT().Clear().Return(nil)
	f.drv.EXPECT().Type(gomock.Any(), phone, "9876543210", gomock.Any()).Return(nil)
	f.drv.EXPECT().FindAllByTag(gomock.Any(), "button").Return([]automation.Element{send}, nil)
	f.drv.EXPECT().Click(gomock.Any(), send).Return(nil)
	f.drv.EXPECT().WaitForSelector(gomock.Any(), automation.CaptchaFrameSelector, gomock.Any()).Return(automation.ErrNoMatch)
	f.drv.EXPECT().WaitForSelector(gomock.Any(), automation.OtpDrawerSelector, gomock.Any()).Return(nil)
	f.drv.EXPECT().WaitForSelector(gomock.Any(), automation.OtpInputSelector, gomock.Any()).Return(nil)
	f.drv.EXPECT().Alive().Return(true).AnyTimes()

	// rendezvous
	f.otpRepo.EXPECT().FindLatestPending(gomock.Any(), "9876543210").Return(record, nil)
	otpField := autoMocks.NewMockElement(ctrl)
	confirm := autoMocks.NewMockElement(ctrl)
	f.drv.EXPECT().FindFirst(gomock.Any(), automation.OtpInputSelectors).Return(otpField, nil)
	f.drv.EXPECT().Type(gomock.Any(), otpField, "12345", gomock.Any()).Return(nil)
	f.otpRepo.EXPECT().MarkUsed(gomock.Any(), record.RecordID, gomock.Any()).Return(nil)
	f.drv.EXPECT().FindFirst(gomock.Any(), automation.ConfirmButtonSelectors).Return(confirm, nil)
	f.drv.EXPECT().WaitNavigation(gomock.Any(), gomock.Any()).Return(func() error { return nil })
	f.drv.EXPECT().Click(gomock.Any(), confirm).Return(nil)
	f.drv.EXPECT().CurrentURL(gomock.Any()).Return("https://business.example.com/dashboard", nil).AnyTimes()
	f.expectCapture(ctx)
	f.snapRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	f.drv.EXPECT().Close().Return(nil)

	res, err := f.orch.Start(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, OutcomeLoggedIn, res.Outcome)
	assert.True(t, res.Persisted)
	// registry entry released once the attempt terminated
	assert.Equal(t, 0, f.reg.Len())
}

func TestStart_LosingRegistrationRaceKeepsWinnerEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newOrchestratorFixture(t, ctrl)

	winner := autoMocks.NewMockDriver(ctrl)
	winner.EXPECT().Alive().Return(true).AnyTimes()

	f.snapRepo.EXPECT().FindByAccount(gomock.Any(), "9876543210").Return(nil, nil)

	phone := autoMocks.NewMockElement(ctrl)
	send := autoMocks.NewMockElement(ctrl)
	send.EXPECT().Text().Return("Send OTP", nil)

	f.drv.EXPECT().Navigate(gomock.Any(), gomock.Any()).Return(nil)
	f.drv.EXPECT().FindFirst(gomock.Any(), automation.PhoneInputSelectors).Return(phone, nil)
	phone.EXPECT().Clear().Return(nil)
	f.drv.EXPECT().Type(gomock.Any(), phone, "9876543210", gomock.Any()).Return(nil)
	f.drv.EXPECT().FindAllByTag(gomock.Any(), "button").Return([]automation.Element{send}, nil)
	f.drv.EXPECT().Click(gomock.Any(), send).Return(nil)
	f.drv.EXPECT().WaitForSelector(gomock.Any(), automation.CaptchaFrameSelector, gomock.Any()).Return(automation.ErrNoMatch)
	f.drv.EXPECT().WaitForSelector(gomock.Any(), automation.OtpDrawerSelector, gomock.Any()).Return(nil)
	// a competing attempt claims the account while the OTP surface wait runs
	f.drv.EXPECT().WaitForSelector(gomock.Any(), automation.OtpInputSelector, gomock.Any()).DoAndReturn(
		func(ctx context.Context, selector string, timeout time.Duration) error {
			_, err := f.reg.Register("9876543210", winner)
			require.NoError(t, err)
			return nil
		})

	f.drv.EXPECT().Close().Return(nil)

	_, err := f.orch.Start(context.Background(), "9876543210")
	assert.ErrorIs(t, err, registry.ErrAlreadyActive)

	// the loser's exit must not evict the winner's live entry
	assert.Equal(t, 1, f.reg.Len())
	got, ok := f.reg.Lookup("9876543210")
	require.True(t, ok)
	assert.Same(t, winner, got)
}

func TestStart_PublishesLifecycleEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newOrchestratorFixture(t, ctrl)
	hub := sse.NewHub()
	defer hub.Stop()
	f.orch.events = hub

	client := sse.NewClient("watcher", "9876543210")
	hub.Register(client)

	record := domainOtp.NewRecord("9876543210", "12345")
	f.snapRepo.EXPECT().FindByAccount(gomock.Any(), "9876543210").Return(nil, nil)

	phone := autoMocks.NewMockElement(ctrl)
	send := autoMocks.NewMockElement(ctrl)
	send.EXPECT().Text().Return("Send OTP", nil)

	f.drv.EXPECT().Navigate(gomock.Any(), gomock.Any()).Return(nil)
	f.drv.EXPECT().FindFirst(gomock.Any(), automation.PhoneInputSelectors).Return(phone, nil)
	phone.EXPECT().Clear().Return(nil)
	f.drv.EXPECT().Type(gomock.Any(), phone, "9876543210", gomock.Any()).Return(nil)
	f.drv.EXPECT().FindAllByTag(gomock.Any(), "button").Return([]automation.Element{send}, nil)
	f.drv.EXPECT().Click(gomock.Any(), send).Return(nil)
	f.drv.EXPECT().WaitForSelector(gomock.Any(), automation.CaptchaFrameSelector, gomock.Any()).Return(automation.ErrNoMatch)
	f.drv.EXPECT().WaitForSelector(gomock.Any(), automation.OtpDrawerSelector, gomock.Any()).Return(nil)
	f.drv.EXPECT().WaitForSelector(gomock.Any(), automation.OtpInputSelector, gomock.Any()).Return(nil)
	f.drv.EXPECT().Alive().Return(true).AnyTimes()

	f.otpRepo.EXPECT().FindLatestPending(gomock.Any(), "9876543210").Return(record, nil)
	otpField := autoMocks.NewMockElement(ctrl)
	confirm := autoMocks.NewMockElement(ctrl)
	f.drv.EXPECT().FindFirst(gomock.Any(), automation.OtpInputSelectors).Return(otpField, nil)
	f.drv.EXPECT().Type(gomock.Any(), otpField, "12345", gomock.Any()).Return(nil)
	f.otpRepo.EXPECT().MarkUsed(gomock.Any(), record.RecordID, gomock.Any()).Return(nil)
	f.drv.EXPECT().FindFirst(gomock.Any(), automation.ConfirmButtonSelectors).Return(confirm, nil)
	f.drv.EXPECT().WaitNavigation(gomock.Any(), gomock.Any()).Return(func() error { return nil })
	f.drv.EXPECT().Click(gomock.Any(), confirm).Return(nil)
	f.drv.EXPECT().CurrentURL(gomock.Any()).Return("https://business.example.com/dashboard", nil).AnyTimes()
	f.expectCapture(context.Background())
	f.snapRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	f.drv.EXPECT().Close().Return(nil)

	_, err := f.orch.Start(context.Background(), "9876543210")
	require.NoError(t, err)

	var states []string
	for {
		select {
		case ev := <-client.Events:
			states = append(states, ev.State)
			continue
		default:
		}
		break
	}
	assert.Equal(t, []string{
		string(StateRestoring),
		string(StateFreshLogin),
		string(StateAwaitingPhone),
		string(StateAwaitingOtpUI),
		string(StateRendezvous),
		string(StateVerified),
		string(StatePersisted),
	}, states)
}

func TestStart_MissingPhoneFieldFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newOrchestratorFixture(t, ctrl)

	f.snapRepo.EXPECT().FindByAccount(gomock.Any(), "9876543210").Return(nil, nil)
	f.drv.EXPECT().Navigate(gomock.Any(), gomock.Any()).Return(nil)
	f.drv.EXPECT().FindFirst(gomock.Any(), automation.PhoneInputSelectors).Return(nil, automation.ErrNoMatch)
	f.drv.EXPECT().Close().Return(nil)

	_, err := f.orch.Start(context.Background(), "9876543210")
	require.Error(t, err)
	assert.Equal(t, automation.KindElementNotFound, automation.KindOf(err))
	assert.Equal(t, 0, f.reg.Len())
}

func TestStart_RendezvousTimeoutReleasesRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newOrchestratorFixture(t, ctrl)

	f.snapRepo.EXPECT().FindByAccount(gomock.Any(), "9876543210").Return(nil, nil)

	phone := autoMocks.NewMockElement(ctrl)
	send := autoMocks.NewMockElement(ctrl)
	send.EXPECT().Text().Return("Send OTP", nil)

	f.drv.EXPECT().Navigate(gomock.Any(), gomock.Any()).Return(nil)
	f.drv.EXPECT().FindFirst(gomock.Any(), automation.PhoneInputSelectors).Return(phone, nil)
	phone.EXPECT().Clear().Return(nil)
	f.drv.EXPECT().Type(gomock.Any(), phone, "9876543210", gomock.Any()).Return(nil)
	f.drv.EXPECT().FindAllByTag(gomock.Any(), "button").Return([]automation.Element{send}, nil)
	f.drv.EXPECT().Click(gomock.Any(), send).Return(nil)
	f.drv.EXPECT().WaitForSelector(gomock.Any(), gomock.Any(), gomock.Any()).Return(automation.ErrNoMatch)
	f.drv.EXPECT().WaitForSelector(gomock.Any(), automation.OtpDrawerSelector, gomock.Any()).Return(nil)
	f.drv.EXPECT().WaitForSelector(gomock.Any(), automation.OtpInputSelector, gomock.Any()).Return(nil)
	f.drv.EXPECT().Alive().Return(true).AnyTimes()

	// no code ever arrives
	f.otpRepo.EXPECT().FindLatestPending(gomock.Any(), "9876543210").Return(nil, nil).Times(3)

	f.drv.EXPECT().Close().Return(nil)

	_, err := f.orch.Start(context.Background(), "9876543210")
	require.Error(t, err)
	assert.Equal(t, automation.KindTimeout, automation.KindOf(err))
	assert.True(t, automation.IsRetryable(err))
	assert.Equal(t, 0, f.reg.Len())
}
