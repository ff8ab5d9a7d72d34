package enrollment

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio/catalog"
	"studio/config"
	"studio/gateway"
	"studio/i18n"
	"studio/models"
	"studio/notify"
)

var jane = CustomerDetails{Name: "Jane Doe", Email: "jane@example.com", Phone: "15551234567"}

type fixedCourses struct {
	course models.Course
}

func (f fixedCourses) Find(_ string, id uint) (models.Course, error) {
	if id != f.course.ID {
		return models.Course{}, catalog.ErrCourseNotFound
	}
	return f.course, nil
}

type stubGateway struct {
	mu        sync.Mutex
	creates   int
	confirms  int
	retrieves int

	createErr error
	confirm   func(ctx context.Context, req gateway.ConfirmRequest) (gateway.Intent, error)
	retrieve  func(ctx context.Context, id string) (gateway.Intent, error)
}

func (g *stubGateway) Mode() gateway.Mode { return gateway.ModeMock }

func (g *stubGateway) CreateIntent(_ context.Context, req gateway.IntentRequest) (gateway.Intent, error) {
	g.mu.Lock()
	g.creates++
	n := g.creates
	g.mu.Unlock()
	if g.createErr != nil {
		return gateway.Intent{}, g.createErr
	}
	amount, err := gateway.ToMinorUnits(req.Amount, req.Currency)
	if err != nil {
		return gateway.Intent{}, err
	}
	id := "pi_" + string(rune('a'+n))
	return gateway.Intent{
		ID:           id,
		ClientSecret: id + "_secret_x",
		Amount:       amount,
		Currency:     req.Currency,
		Mode:         gateway.ModeMock,
		Status:       gateway.StatusRequiresPaymentMethod,
	}, nil
}

func (g *stubGateway) RetrieveIntent(ctx context.Context, id string) (gateway.Intent, error) {
	g.mu.Lock()
	g.retrieves++
	g.mu.Unlock()
	if g.retrieve != nil {
		return g.retrieve(ctx, id)
	}
	return gateway.Intent{ID: id, Status: gateway.StatusSucceeded}, nil
}

func (g *stubGateway) ConfirmIntent(ctx context.Context, req gateway.ConfirmRequest) (gateway.Intent, error) {
	g.mu.Lock()
	g.confirms++
	g.mu.Unlock()
	if g.confirm != nil {
		return g.confirm(ctx, req)
	}
	return gateway.Intent{ID: gateway.IntentIDFromSecret(req.ClientSecret), Status: gateway.StatusSucceeded}, nil
}

func (g *stubGateway) CreateCheckoutSession(context.Context, gateway.CheckoutRequest) (string, error) {
	return "", errors.New("not used")
}

func (g *stubGateway) counts() (creates, confirms, retrieves int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.creates, g.confirms, g.retrieves
}

type stubNotifier struct {
	mu   sync.Mutex
	sent   []notify.EnrollmentNotification
	err    error
	panics bool
}

func (n *stubNotifier) Backend() config.MailBackendKind { return config.MailDev }

func (n *stubNotifier) Notify(_ context.Context, msg notify.EnrollmentNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	if n.panics {
		panic("mail client exploded")
	}
	return n.err
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type memRecorder struct {
	mu            sync.Mutex
	attempts      []Attempt
	notifications []error
}

func (r *memRecorder) RecordAttempt(_ context.Context, a Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, a)
	return nil
}

func (r *memRecorder) RecordNotification(_ context.Context, _ Key, _ config.MailBackendKind, _ notify.EnrollmentNotification, sendErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, sendErr)
	return nil
}

type fixture struct {
	orch     *Orchestrator
	gw       gateway.Gateway
	notifier *stubNotifier
	recorder *memRecorder
	text     *i18n.Store
}

func newFixture(t *testing.T, gw gateway.Gateway) fixture {
	t.Helper()
	text, err := i18n.Load("")
	require.NoError(t, err)

	course := models.Course{ID: 1, Title: "Introduction to Yoga", Price: decimal.NewFromInt(100), Currency: "usd"}
	f := fixture{gw: gw, notifier: &stubNotifier{}, recorder: &memRecorder{}, text: text}
	f.orch = New(gw, f.notifier, fixedCourses{course: course}, text, Options{
		ReturnURL:  "http://localhost:3000/",
		AdminEmail: "admin@example.com",
		Recorder:   f.recorder,
	})
	return f
}

func TestMockEnrollmentSucceeds(t *testing.T) {
	f := newFixture(t, gateway.NewMock(10*time.Millisecond))
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "en", "")
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingPayment, a.State)
	assert.Equal(t, int64(10000), a.Intent.Amount)
	assert.Equal(t, "usd", a.Intent.Currency)
	assert.Equal(t, gateway.ModeMock, a.Mode())
	assert.Regexp(t, regexp.MustCompile(`^mock_[0-9a-f-]{36}_secret_[0-9a-f-]{36}$`), a.Intent.ClientSecret)

	a, err = f.orch.Submit(ctx, a.Key, jane, "")
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, a.State)
	assert.True(t, a.Notified)
	assert.Empty(t, a.Error)

	require.Equal(t, 1, f.notifier.count())
	n := f.notifier.sent[0]
	assert.Equal(t, "admin@example.com", n.To)
	assert.Equal(t, "Introduction to Yoga", n.CourseTitle)
	assert.Equal(t, "100 USD", n.CoursePrice)
	assert.Equal(t, "Jane Doe", n.CustomerName)
	assert.Equal(t, "jane@example.com", n.CustomerEmail)

	var states []State
	for _, rec := range f.recorder.attempts {
		if len(states) == 0 || states[len(states)-1] != rec.State {
			states = append(states, rec.State)
		}
	}
	assert.Equal(t, []State{StateCreatingIntent, StateAwaitingPayment, StateProcessing, StateSucceeded}, states)
}

func TestSubmitAfterSuccessDoesNotNotifyAgain(t *testing.T) {
	gw := &stubGateway{}
	f := newFixture(t, gw)
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "en", "a1")
	require.NoError(t, err)
	_, err = f.orch.Submit(ctx, a.Key, jane, "pm_card_visa")
	require.NoError(t, err)

	again, err := f.orch.Submit(ctx, a.Key, jane, "pm_card_visa")
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, again.State)

	got, err := f.orch.Get(a.Key)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, got.State)

	_, confirms, _ := gw.counts()
	assert.Equal(t, 1, confirms)
	assert.Equal(t, 1, f.notifier.count())
}

func TestEnrollIsIdempotentPerAttempt(t *testing.T) {
	gw := &stubGateway{}
	f := newFixture(t, gw)
	ctx := context.Background()

	first, err := f.orch.Enroll(ctx, 1, "en", "a1")
	require.NoError(t, err)
	second, err := f.orch.Enroll(ctx, 1, "en", "a1")
	require.NoError(t, err)

	assert.Equal(t, first.Intent.ID, second.Intent.ID)
	creates, _, _ := gw.counts()
	assert.Equal(t, 1, creates)

	_, err = f.orch.Enroll(ctx, 1, "en", "a2")
	require.NoError(t, err)
	creates, _, _ = gw.counts()
	assert.Equal(t, 2, creates)
}

func TestEnrollUnknownCourse(t *testing.T) {
	f := newFixture(t, &stubGateway{})
	_, err := f.orch.Enroll(context.Background(), 7, "en", "")
	assert.ErrorIs(t, err, catalog.ErrCourseNotFound)
	assert.Zero(t, f.orch.Len())
}

func TestCreateIntentFailureThenRetry(t *testing.T) {
	gw := &stubGateway{createErr: &gateway.GatewayError{Op: "create", Err: errors.New("connection refused")}}
	f := newFixture(t, gw)
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "en", "a1")
	var gerr *gateway.GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, StateInitial, a.State)
	assert.Equal(t, "Failed to create payment. Please try again.", a.Error)

	gw.createErr = nil
	fresh, err := f.orch.Retry(ctx, a.Key, "")
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingPayment, fresh.State)
	assert.NotEqual(t, a.AttemptID, fresh.AttemptID)

	_, err = f.orch.Get(a.Key)
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestDeclinedCardSurfacesProcessorMessage(t *testing.T) {
	gw := &stubGateway{confirm: func(context.Context, gateway.ConfirmRequest) (gateway.Intent, error) {
		return gateway.Intent{}, &gateway.GatewayError{Op: "confirm", Message: "Your card was declined."}
	}}
	f := newFixture(t, gw)
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "en", "a1")
	require.NoError(t, err)

	a, err = f.orch.Submit(ctx, a.Key, jane, "pm_card_chargeDeclined")
	require.Error(t, err)
	assert.Equal(t, StateFailed, a.State)
	assert.Equal(t, "Your card was declined.", a.Error)
	assert.Zero(t, f.notifier.count())

	gw.confirm = nil
	fresh, err := f.orch.Retry(ctx, a.Key, "en")
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingPayment, fresh.State)
}

func TestConfirmErrorWithoutMessageUsesGenericText(t *testing.T) {
	gw := &stubGateway{confirm: func(context.Context, gateway.ConfirmRequest) (gateway.Intent, error) {
		return gateway.Intent{}, errors.New("boom")
	}}
	f := newFixture(t, gw)
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "ru", "a1")
	require.NoError(t, err)
	a, err = f.orch.Submit(ctx, a.Key, jane, "")
	require.Error(t, err)
	assert.Equal(t, StateFailed, a.State)
	assert.Equal(t, f.text.T("ru", "paymentError"), a.Error)
}

func TestInvalidDetailsNeverReachGateway(t *testing.T) {
	gw := &stubGateway{}
	f := newFixture(t, gw)
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "en", "a1")
	require.NoError(t, err)

	a, err = f.orch.Submit(ctx, a.Key, CustomerDetails{Name: "J", Email: "nope", Phone: "abc"}, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	assert.Equal(t, StateAwaitingPayment, a.State)

	_, confirms, _ := gw.counts()
	assert.Zero(t, confirms)
}

func TestSubmitWhileProcessingIsRejected(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gw := &stubGateway{confirm: func(_ context.Context, req gateway.ConfirmRequest) (gateway.Intent, error) {
		close(entered)
		<-release
		return gateway.Intent{ID: gateway.IntentIDFromSecret(req.ClientSecret), Status: gateway.StatusSucceeded}, nil
	}}
	f := newFixture(t, gw)
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "en", "a1")
	require.NoError(t, err)

	done := make(chan Attempt)
	go func() {
		res, _ := f.orch.Submit(ctx, a.Key, jane, "")
		done <- res
	}()
	<-entered

	busy, err := f.orch.Submit(ctx, a.Key, jane, "")
	assert.ErrorIs(t, err, ErrAlreadyProcessing)
	assert.Equal(t, StateProcessing, busy.State)

	close(release)
	res := <-done
	assert.Equal(t, StateSucceeded, res.State)

	_, confirms, _ := gw.counts()
	assert.Equal(t, 1, confirms)
	assert.Equal(t, 1, f.notifier.count())
}

func TestLateResultAfterDismissIsIgnored(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gw := &stubGateway{confirm: func(_ context.Context, req gateway.ConfirmRequest) (gateway.Intent, error) {
		close(entered)
		<-release
		return gateway.Intent{ID: gateway.IntentIDFromSecret(req.ClientSecret), Status: gateway.StatusSucceeded}, nil
	}}
	f := newFixture(t, gw)
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "en", "a1")
	require.NoError(t, err)

	errc := make(chan error)
	go func() {
		_, err := f.orch.Submit(ctx, a.Key, jane, "")
		errc <- err
	}()
	<-entered

	require.NoError(t, f.orch.Dismiss(ctx, a.Key))
	close(release)

	assert.ErrorIs(t, <-errc, ErrAttemptDiscarded)
	assert.Zero(t, f.notifier.count())
	_, err = f.orch.Get(a.Key)
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestNotificationFailureDoesNotFailPayment(t *testing.T) {
	f := newFixture(t, &stubGateway{})
	f.notifier.err = errors.New("smtp down")
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "en", "a1")
	require.NoError(t, err)
	a, err = f.orch.Submit(ctx, a.Key, jane, "")
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, a.State)
	assert.Empty(t, a.Error)

	require.Len(t, f.recorder.notifications, 1)
	assert.EqualError(t, f.recorder.notifications[0], "smtp down")
}

func TestNotifierPanicDoesNotFailPayment(t *testing.T) {
	f := newFixture(t, &stubGateway{})
	f.notifier.panics = true
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "en", "a1")
	require.NoError(t, err)
	a, err = f.orch.Submit(ctx, a.Key, jane, "")
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, a.State)
	assert.True(t, a.Notified)
	assert.Empty(t, a.Error)
	assert.Equal(t, 1, f.notifier.count())

	require.Len(t, f.recorder.notifications, 1)
	var nerr *notify.NotificationError
	require.ErrorAs(t, f.recorder.notifications[0], &nerr)
	assert.Equal(t, config.MailDev, nerr.Backend)

	got, err := f.orch.Get(a.Key)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, got.State)
}

func TestRequiresActionCompletesOnReturn(t *testing.T) {
	gw := &stubGateway{confirm: func(_ context.Context, req gateway.ConfirmRequest) (gateway.Intent, error) {
		return gateway.Intent{
			ID:            gateway.IntentIDFromSecret(req.ClientSecret),
			Status:        gateway.StatusRequiresAction,
			NextActionURL: "https://hooks.stripe.com/3d_secure",
		}, nil
	}}
	f := newFixture(t, gw)
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "en", "a1")
	require.NoError(t, err)
	a, err = f.orch.Submit(ctx, a.Key, jane, "pm_card_threeDSecure2Required")
	require.NoError(t, err)
	assert.Equal(t, StateProcessing, a.State)
	assert.Equal(t, "https://hooks.stripe.com/3d_secure", a.RedirectURL)
	assert.Zero(t, f.notifier.count())

	notice := ReturnNotice{RedirectStatus: "succeeded", PaymentIntentID: a.Intent.ID}
	done, found, err := f.orch.CompleteReturn(ctx, notice)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, StateSucceeded, done.State)
	assert.Empty(t, done.RedirectURL)
	assert.Equal(t, 1, f.notifier.count())

	again, found, err := f.orch.CompleteReturn(ctx, notice)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, StateSucceeded, again.State)
	assert.Equal(t, 1, f.notifier.count())

	_, _, retrieves := gw.counts()
	assert.Equal(t, 1, retrieves)
}

func TestCompleteReturnUnknownIntent(t *testing.T) {
	f := newFixture(t, &stubGateway{})
	_, found, err := f.orch.CompleteReturn(context.Background(), ReturnNotice{RedirectStatus: "succeeded", ClientSecret: "pi_zz_secret_q"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPanicDuringConfirmFailsAttempt(t *testing.T) {
	gw := &stubGateway{confirm: func(context.Context, gateway.ConfirmRequest) (gateway.Intent, error) {
		panic("processor sdk exploded")
	}}
	f := newFixture(t, gw)
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "en", "a1")
	require.NoError(t, err)
	a, err = f.orch.Submit(ctx, a.Key, jane, "")
	assert.ErrorIs(t, err, ErrUnexpected)
	assert.Equal(t, StateFailed, a.State)
	assert.Equal(t, "An unexpected error occurred.", a.Error)
}

func TestSubmitRequiresIntent(t *testing.T) {
	f := newFixture(t, &stubGateway{createErr: errors.New("down")})
	ctx := context.Background()

	a, _ := f.orch.Enroll(ctx, 1, "en", "a1")
	_, err := f.orch.Submit(ctx, a.Key, jane, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.orch.Submit(ctx, Key{CourseID: 1, AttemptID: "missing"}, jane, "")
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestRetryRejectsLiveAttempt(t *testing.T) {
	f := newFixture(t, &stubGateway{})
	ctx := context.Background()

	a, err := f.orch.Enroll(ctx, 1, "en", "a1")
	require.NoError(t, err)
	_, err = f.orch.Retry(ctx, a.Key, "en")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSweepStale(t *testing.T) {
	text, err := i18n.Load("")
	require.NoError(t, err)

	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	recorder := &memRecorder{}
	gw := &stubGateway{confirm: func(_ context.Context, req gateway.ConfirmRequest) (gateway.Intent, error) {
		return gateway.Intent{ID: gateway.IntentIDFromSecret(req.ClientSecret), Status: gateway.StatusProcessing}, nil
	}}
	course := models.Course{ID: 1, Title: "Yoga", Price: decimal.NewFromInt(100), Currency: "usd"}
	orch := New(gw, &stubNotifier{}, fixedCourses{course: course}, text, Options{
		Recorder: recorder,
		Now:      func() time.Time { return clock },
	})
	ctx := context.Background()

	idle, err := orch.Enroll(ctx, 1, "en", "idle")
	require.NoError(t, err)
	busy, err := orch.Enroll(ctx, 1, "en", "busy")
	require.NoError(t, err)
	busy, err = orch.Submit(ctx, busy.Key, jane, "")
	require.NoError(t, err)
	require.Equal(t, StateProcessing, busy.State)

	clock = clock.Add(10 * time.Minute)
	_, err = orch.Enroll(ctx, 1, "en", "fresh")
	require.NoError(t, err)

	clock = clock.Add(25 * time.Minute)
	assert.Equal(t, 2, orch.SweepStale(ctx, 30*time.Minute))
	assert.Equal(t, 1, orch.Len())

	_, err = orch.Get(idle.Key)
	assert.ErrorIs(t, err, ErrAttemptNotFound)

	last := recorder.attempts[len(recorder.attempts)-1]
	assert.Equal(t, "busy", last.AttemptID)
	assert.Equal(t, StateFailed, last.State)
}
