// Package enrollment drives a course enrollment from the enroll click to a
// confirmed payment and the admin notification that follows it.
package enrollment

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"studio/config"
	"studio/gateway"
	"studio/metrics"
	"studio/models"
	"studio/notify"
)

type Courses interface {
	Find(lang string, id uint) (models.Course, error)
}

type Translator interface {
	T(lang, key string) string
}

type Options struct {
	// ReturnURL receives the visitor after an off-site confirmation step.
	ReturnURL    string
	AdminEmail   string
	Recorder     Recorder
	Now          func() time.Time
	NewAttemptID func() string
}

// Orchestrator owns every live attempt. No lock is held across gateway or
// notifier calls; results that arrive for a dismissed attempt are dropped.
type Orchestrator struct {
	gateway  gateway.Gateway
	notifier notify.Dispatcher
	courses  Courses
	text     Translator
	recorder Recorder

	returnURL  string
	adminEmail string
	now        func() time.Time
	newID      func() string

	mu       sync.Mutex
	attempts map[Key]*Attempt
	byIntent map[string]Key
}

func New(gw gateway.Gateway, notifier notify.Dispatcher, courses Courses, text Translator, opts Options) *Orchestrator {
	o := &Orchestrator{
		gateway:    gw,
		notifier:   notifier,
		courses:    courses,
		text:       text,
		recorder:   opts.Recorder,
		returnURL:  opts.ReturnURL,
		adminEmail: opts.AdminEmail,
		now:        opts.Now,
		newID:      opts.NewAttemptID,
		attempts:   make(map[Key]*Attempt),
		byIntent:   make(map[string]Key),
	}
	if o.recorder == nil {
		o.recorder = nopRecorder{}
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	return o
}

func (o *Orchestrator) Mode() gateway.Mode {
	return o.gateway.Mode()
}

func (o *Orchestrator) locked(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn()
}

// apply must be called with o.mu held.
func (o *Orchestrator) apply(a *Attempt, e Event) error {
	next, err := Transition(a.State, e)
	if err != nil {
		return err
	}
	a.State = next
	a.UpdatedAt = o.now()
	return nil
}

// live reports whether a is still the attempt registered under its key.
// Must be called with o.mu held.
func (o *Orchestrator) live(a *Attempt) bool {
	return o.attempts[a.Key] == a
}

// Enroll starts an attempt for courseID and creates its payment intent. An
// empty attemptID starts a new attempt. Enrolling an existing key returns
// its current snapshot without contacting the gateway again.
func (o *Orchestrator) Enroll(ctx context.Context, courseID uint, lang, attemptID string) (Attempt, error) {
	course, err := o.courses.Find(lang, courseID)
	if err != nil {
		return Attempt{}, err
	}
	if attemptID == "" {
		attemptID = o.newID()
	}
	key := Key{CourseID: courseID, AttemptID: attemptID}

	var (
		a        *Attempt
		snap     Attempt
		existing bool
	)
	o.locked(func() {
		if cur, ok := o.attempts[key]; ok {
			snap, existing = *cur, true
			return
		}
		now := o.now()
		a = &Attempt{Key: key, Lang: lang, State: StateInitial, Course: course, CreatedAt: now, UpdatedAt: now}
		_ = o.apply(a, EventEnroll)
		o.attempts[key] = a
		snap = *a
	})
	if existing {
		return snap, nil
	}
	o.record(ctx, snap)
	metrics.AttemptsStarted.WithLabelValues(string(o.gateway.Mode())).Inc()

	start := time.Now()
	intent, err := o.gateway.CreateIntent(ctx, gateway.IntentRequest{
		Amount:   course.Price,
		Currency: course.Currency,
		Metadata: map[string]string{
			"courseId":    strconv.FormatUint(uint64(courseID), 10),
			"courseTitle": course.Title,
			"attemptId":   attemptID,
		},
	})
	metrics.GatewayCallTime.WithLabelValues("create").Observe(time.Since(start).Seconds())

	discarded := false
	o.locked(func() {
		if !o.live(a) {
			discarded = true
			return
		}
		if err != nil {
			_ = o.apply(a, EventIntentFailed)
			a.Error = o.text.T(a.Lang, "paymentFailed")
		} else {
			a.Intent = intent
			a.Error = ""
			_ = o.apply(a, EventIntentCreated)
			o.byIntent[intent.ID] = key
		}
		snap = *a
	})
	if discarded {
		log.Printf("[ENROLLMENT] %s dismissed while creating intent, result ignored", key)
		return Attempt{}, ErrAttemptDiscarded
	}
	o.record(ctx, snap)
	if err != nil {
		log.Printf("[ENROLLMENT] create intent for %s failed: %v", key, err)
		return snap, err
	}
	log.Printf("[ENROLLMENT] %s awaiting payment (%s, intent %s)", key, intent.Mode, intent.ID)
	return snap, nil
}

// Submit validates the customer details and confirms the payment. Invalid
// details never reach the gateway. A second submit while processing is
// rejected, and a submit after success returns the settled attempt.
func (o *Orchestrator) Submit(ctx context.Context, key Key, details CustomerDetails, paymentMethodID string) (snap Attempt, err error) {
	var (
		a   *Attempt
		req gateway.ConfirmRequest
	)
	o.locked(func() {
		cur, ok := o.attempts[key]
		if !ok {
			err = fmt.Errorf("%w: %s", ErrAttemptNotFound, key)
			return
		}
		snap = *cur
		switch cur.State {
		case StateProcessing:
			err = ErrAlreadyProcessing
			return
		case StateSucceeded:
			return
		case StateAwaitingPayment:
		default:
			err = fmt.Errorf("%w: submit on %s", ErrInvalidTransition, cur.State)
			return
		}
		if verr := ValidateCustomer(details); verr != nil {
			err = verr
			return
		}

		a = cur
		a.Customer = details.normalized()
		a.Error = ""
		a.RedirectURL = ""
		_ = o.apply(a, EventSubmit)
		req = gateway.ConfirmRequest{
			ClientSecret:    a.Intent.ClientSecret,
			PaymentMethodID: paymentMethodID,
			Billing:         gateway.BillingDetails(a.Customer),
			ReturnURL:       o.returnURL,
		}
		snap = *a
	})
	if a == nil {
		return snap, err
	}
	o.record(ctx, snap)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ENROLLMENT] panic while processing %s: %v", key, r)
			snap = o.fail(ctx, a, o.text.T(a.Lang, "paymentError"))
			err = ErrUnexpected
		}
	}()

	start := time.Now()
	intent, cerr := o.gateway.ConfirmIntent(ctx, req)
	metrics.GatewayCallTime.WithLabelValues("confirm").Observe(time.Since(start).Seconds())

	return o.settle(ctx, a, intent, cerr)
}

// settle moves a processing attempt to its outcome. The admin notification
// is sent at most once per attempt, before the attempt reports success.
func (o *Orchestrator) settle(ctx context.Context, a *Attempt, intent gateway.Intent, cerr error) (Attempt, error) {
	var (
		snap      Attempt
		discarded bool
		notifyNow bool
		n         notify.EnrollmentNotification
	)
	o.locked(func() {
		if !o.live(a) {
			discarded = true
			return
		}
		if a.State != StateProcessing {
			snap = *a
			return
		}
		switch {
		case cerr != nil:
			msg, ok := gateway.ProcessorMessage(cerr)
			if !ok {
				msg = o.text.T(a.Lang, "paymentError")
			}
			_ = o.apply(a, EventConfirmFailed)
			a.Error = msg
		case intent.Status == gateway.StatusSucceeded:
			a.Intent.Status = intent.Status
			if !a.Notified {
				a.Notified = true
				notifyNow = true
				n = o.notification(a)
			} else {
				_ = o.apply(a, EventConfirmed)
			}
		case intent.Status == gateway.StatusRequiresAction || intent.Status == gateway.StatusProcessing:
			a.Intent.Status = intent.Status
			a.RedirectURL = intent.NextActionURL
			a.UpdatedAt = o.now()
		default:
			a.Intent.Status = intent.Status
			_ = o.apply(a, EventConfirmFailed)
			a.Error = o.text.T(a.Lang, "paymentError")
		}
		snap = *a
	})
	if discarded {
		log.Printf("[ENROLLMENT] %s dismissed while processing, result ignored", a.Key)
		return Attempt{}, ErrAttemptDiscarded
	}

	if notifyNow {
		o.dispatch(ctx, a.Key, n)
		o.locked(func() {
			if a.State == StateProcessing {
				_ = o.apply(a, EventConfirmed)
				a.RedirectURL = ""
			}
			snap = *a
		})
	}

	if snap.State.Terminal() {
		metrics.AttemptsFinished.WithLabelValues(string(snap.Mode()), string(snap.State)).Inc()
		log.Printf("[ENROLLMENT] %s finished: %s", a.Key, snap.State)
	}
	o.record(ctx, snap)
	if snap.State == StateFailed && cerr != nil {
		return snap, cerr
	}
	return snap, nil
}

// fail is the recovery path for a processing attempt whose confirm call
// blew up. It is a no-op on attempts that already left processing.
func (o *Orchestrator) fail(ctx context.Context, a *Attempt, msg string) Attempt {
	var snap Attempt
	o.locked(func() {
		if a.State == StateProcessing {
			_ = o.apply(a, EventConfirmFailed)
			a.Error = msg
		}
		snap = *a
	})
	o.record(ctx, snap)
	return snap
}

func (o *Orchestrator) notification(a *Attempt) notify.EnrollmentNotification {
	return notify.EnrollmentNotification{
		To:            o.adminEmail,
		Subject:       "New enrollment: " + a.Course.Title,
		CourseTitle:   a.Course.Title,
		CoursePrice:   a.Course.Price.String() + " " + strings.ToUpper(a.Course.Currency),
		CustomerName:  a.Customer.Name,
		CustomerEmail: a.Customer.Email,
		CustomerPhone: a.Customer.Phone,
	}
}

// dispatch sends the admin notification for a confirmed payment. Its
// outcome, a panic in the backend included, is only logged and recorded.
func (o *Orchestrator) dispatch(ctx context.Context, key Key, n notify.EnrollmentNotification) {
	backend := o.notifier.Backend()
	err := o.send(ctx, backend, n)
	result := "sent"
	if err != nil {
		result = "failed"
		log.Printf("[ENROLLMENT] admin notification for %s failed: %v", key, err)
	}
	metrics.Notifications.WithLabelValues(string(backend), result).Inc()
	if rerr := o.recorder.RecordNotification(ctx, key, backend, n, err); rerr != nil {
		log.Printf("[ENROLLMENT] record notification for %s: %v", key, rerr)
	}
}

func (o *Orchestrator) send(ctx context.Context, backend config.MailBackendKind, n notify.EnrollmentNotification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &notify.NotificationError{Backend: backend, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return o.notifier.Notify(ctx, n)
}

func (o *Orchestrator) record(ctx context.Context, snap Attempt) {
	if err := o.recorder.RecordAttempt(ctx, snap); err != nil {
		log.Printf("[ENROLLMENT] record %s: %v", snap.Key, err)
	}
}

// Get returns the current snapshot of an attempt without side effects.
func (o *Orchestrator) Get(key Key) (Attempt, error) {
	var (
		snap Attempt
		ok   bool
	)
	o.locked(func() {
		var a *Attempt
		if a, ok = o.attempts[key]; ok {
			snap = *a
		}
	})
	if !ok {
		return Attempt{}, fmt.Errorf("%w: %s", ErrAttemptNotFound, key)
	}
	return snap, nil
}

// Dismiss closes the payment step and forgets the attempt. Results still in
// flight for it are ignored when they arrive.
func (o *Orchestrator) Dismiss(ctx context.Context, key Key) error {
	var (
		snap Attempt
		ok   bool
	)
	o.locked(func() {
		var a *Attempt
		if a, ok = o.attempts[key]; !ok {
			return
		}
		if a.State == StateProcessing {
			log.Printf("[ENROLLMENT] %s dismissed while processing", key)
		}
		delete(o.attempts, key)
		if a.Intent.ID != "" {
			delete(o.byIntent, a.Intent.ID)
		}
		snap = *a
		snap.State, _ = Transition(snap.State, EventDismiss)
		snap.UpdatedAt = o.now()
	})
	if !ok {
		return fmt.Errorf("%w: %s", ErrAttemptNotFound, key)
	}
	o.record(ctx, snap)
	return nil
}

// Retry replaces a failed attempt, or one whose intent could not be
// created, with a fresh attempt for the same course.
func (o *Orchestrator) Retry(ctx context.Context, key Key, lang string) (Attempt, error) {
	var err error
	o.locked(func() {
		a, ok := o.attempts[key]
		if !ok {
			err = fmt.Errorf("%w: %s", ErrAttemptNotFound, key)
			return
		}
		retryable := a.State == StateFailed || (a.State == StateInitial && a.Error != "")
		if !retryable {
			err = fmt.Errorf("%w: retry on %s", ErrInvalidTransition, a.State)
			return
		}
		if lang == "" {
			lang = a.Lang
		}
		delete(o.attempts, key)
		if a.Intent.ID != "" {
			delete(o.byIntent, a.Intent.ID)
		}
	})
	if err != nil {
		return Attempt{}, err
	}
	return o.Enroll(ctx, key.CourseID, lang, "")
}

// CompleteReturn settles the attempt behind a return notice by asking the
// gateway for the intent's current status. found is false when no live
// attempt owns the intent.
func (o *Orchestrator) CompleteReturn(ctx context.Context, notice ReturnNotice) (snap Attempt, found bool, err error) {
	id := notice.PaymentIntentID
	if id == "" {
		id = gateway.IntentIDFromSecret(notice.ClientSecret)
	}
	if id == "" {
		return Attempt{}, false, nil
	}

	var a *Attempt
	o.locked(func() {
		key, ok := o.byIntent[id]
		if !ok {
			return
		}
		a = o.attempts[key]
		if a != nil {
			snap = *a
		}
	})
	if a == nil {
		return Attempt{}, false, nil
	}
	if snap.State != StateProcessing {
		return snap, true, nil
	}

	start := time.Now()
	intent, rerr := o.gateway.RetrieveIntent(ctx, id)
	metrics.GatewayCallTime.WithLabelValues("retrieve").Observe(time.Since(start).Seconds())

	snap, err = o.settle(ctx, a, intent, rerr)
	return snap, true, err
}

// SweepStale forgets attempts untouched for longer than olderThan. A stale
// processing attempt is failed first so its outcome is recorded.
func (o *Orchestrator) SweepStale(ctx context.Context, olderThan time.Duration) int {
	cutoff := o.now().Add(-olderThan)
	var (
		swept []Attempt
		n     int
	)
	o.locked(func() {
		for key, a := range o.attempts {
			if !a.UpdatedAt.Before(cutoff) {
				continue
			}
			if a.State == StateProcessing {
				_ = o.apply(a, EventConfirmFailed)
				a.Error = o.text.T(a.Lang, "paymentError")
				swept = append(swept, *a)
			}
			delete(o.attempts, key)
			if a.Intent.ID != "" {
				delete(o.byIntent, a.Intent.ID)
			}
			n++
		}
	})
	metrics.SweptAttempts.Add(float64(n))
	for _, snap := range swept {
		o.record(ctx, snap)
	}
	return n
}

// Len is the number of live attempts.
func (o *Orchestrator) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.attempts)
}
