package contact

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adammarchelino/portfolio/identity"
	"github.com/adammarchelino/portfolio/model"
	"github.com/adammarchelino/portfolio/store"
	"github.com/adammarchelino/portfolio/util"
	"github.com/benbjohnson/clock"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultCollection       = "messages"
	DefaultStatusClearDelay = 3 * time.Second

	StatusSending = "Mengirim..."
	StatusSent    = "Pesan berhasil terkirim!"
	StatusFailed  = "Gagal mengirim pesan. Silakan coba lagi."
)

var (
	ErrInvalidForm  = errors.New("name, a valid email and message are required")
	ErrInFlight     = errors.New("a submission is already in flight")
	ErrUnmounted    = errors.New("contact form is unmounted")
	ErrUnknownField = errors.New("unknown form field")
)

type Deps struct {
	Identity identity.Provider
	Store    store.MessageStore
	// Optional, defaults to the wall clock.
	Clock clock.Clock
	// Optional, generates the local identity used when anonymous sign-in fails.
	NewID func() string
	// Optional.
	Validate *validator.Validate
	// Optional, defaults to zap's global logger.
	Logger *zap.Logger
}

type Options struct {
	Collection       string
	StatusClearDelay time.Duration
}

// Form is the contact section of one visitor. It owns the form fields, the
// submission lifecycle, the transient status and the live message feed.
type Form struct {
	identity identity.Provider
	store    store.MessageStore
	clock    clock.Clock
	newID    func() string
	validate *validator.Validate
	logger   *zap.Logger
	opts     Options

	// serializes identity transitions so that a subscription is always
	// cancelled before the next one is opened
	transition sync.Mutex

	mu                  sync.Mutex
	mounted             bool
	unmounted           bool
	fields              Fields
	status              Status
	statusTimer         *clock.Timer
	statusSeq           uint64
	inFlight            bool
	uid                 string
	messages            store.Snapshot
	sub                 store.Subscription
	feedGen             uint64
	unsubscribeIdentity func()
	watchers            map[int]chan State
	nextWatcher         int

	feeds sync.WaitGroup
}

func NewForm(deps Deps, opts Options) *Form {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.Validate == nil {
		deps.Validate = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.L()
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	if opts.StatusClearDelay <= 0 {
		opts.StatusClearDelay = DefaultStatusClearDelay
	}

	return &Form{
		identity: deps.Identity,
		store:    deps.Store,
		clock:    deps.Clock,
		newID:    deps.NewID,
		validate: deps.Validate,
		logger:   deps.Logger.With(zap.String("collection", opts.Collection)),
		opts:     opts,
		watchers: map[int]chan State{},
	}
}

// Mount acquires an identity and, through it, the live feed. Only the first call has an effect.
func (f *Form) Mount(ctx context.Context) {
	f.mu.Lock()
	if f.mounted || f.unmounted {
		f.mu.Unlock()
		return
	}
	f.mounted = true
	f.mu.Unlock()

	unsubscribe := f.identity.OnIdentityChange(f.setIdentity)

	f.mu.Lock()
	if f.unmounted {
		f.mu.Unlock()
		unsubscribe()
		return
	}
	f.unsubscribeIdentity = unsubscribe
	f.mu.Unlock()

	uid, err := f.identity.EstablishAnonymousSession(ctx)
	if err != nil {
		f.logger.Warn("Anonymous sign-in failed, using a local identity", zap.Error(err))
		uid = f.newID()
	}
	f.setIdentity(uid)
}

// Unmount cancels the identity listener, the feed subscription and the pending status clear.
// Nothing changes the form afterwards.
func (f *Form) Unmount() {
	f.transition.Lock()
	defer f.transition.Unlock()

	f.mu.Lock()
	if f.unmounted {
		f.mu.Unlock()
		return
	}
	f.unmounted = true
	sub := f.sub
	f.sub = nil
	unsubscribeIdentity := f.unsubscribeIdentity
	f.unsubscribeIdentity = nil
	if f.statusTimer != nil {
		f.statusTimer.Stop()
		f.statusTimer = nil
	}
	for id, ch := range f.watchers {
		close(ch)
		delete(f.watchers, id)
	}
	f.mu.Unlock()

	if unsubscribeIdentity != nil {
		unsubscribeIdentity()
	}
	if sub != nil {
		sub.Unsubscribe()
	}
}

func (f *Form) setIdentity(uid string) {
	f.transition.Lock()
	defer f.transition.Unlock()

	f.mu.Lock()
	if f.unmounted || uid == f.uid {
		f.mu.Unlock()
		return
	}
	f.uid = uid
	old := f.sub
	f.sub = nil
	f.feedGen++
	gen := f.feedGen
	f.mu.Unlock()
	f.broadcast()

	if old != nil {
		old.Unsubscribe()
	}
	if uid == "" {
		f.logger.Info("Identity cleared, live feed stopped")
		return
	}

	sub, err := f.store.Subscribe(f.opts.Collection)
	if err != nil {
		f.logger.Error("Error subscribing to messages", zap.Error(err))
		return
	}

	f.mu.Lock()
	f.sub = sub
	f.mu.Unlock()

	f.feeds.Add(1)
	go f.consume(sub, gen)
}

func (f *Form) consume(sub store.Subscription, gen uint64) {
	defer f.feeds.Done()
	for snapshot := range sub.Snapshots() {
		f.mu.Lock()
		if f.unmounted || f.feedGen != gen {
			f.mu.Unlock()
			continue
		}
		f.messages = snapshot
		f.mu.Unlock()
		f.broadcast()
	}
}

// SetFields replaces all three form fields.
func (f *Form) SetFields(fields Fields) {
	f.mu.Lock()
	if f.unmounted {
		f.mu.Unlock()
		return
	}
	f.fields = fields
	f.mu.Unlock()
	f.broadcast()
}

func (f *Form) SetField(field Field, value string) error {
	f.mu.Lock()
	if f.unmounted {
		f.mu.Unlock()
		return ErrUnmounted
	}
	switch field {
	case FieldName:
		f.fields.Name = value
	case FieldEmail:
		f.fields.Email = value
	case FieldMessage:
		f.fields.Message = value
	default:
		f.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	f.mu.Unlock()
	f.broadcast()
	return nil
}

// Submit appends the current fields as a message. It blocks until the store answers.
func (f *Form) Submit(ctx context.Context) error {
	return f.submit(ctx, nil)
}

// SubmitFields replaces the fields and submits them in one step. While another
// submission is in flight it fails with ErrInFlight and the fields stay as they are.
func (f *Form) SubmitFields(ctx context.Context, fields Fields) error {
	return f.submit(ctx, &fields)
}

func (f *Form) submit(ctx context.Context, fields *Fields) error {
	f.mu.Lock()
	if f.unmounted {
		f.mu.Unlock()
		return ErrUnmounted
	}
	if f.inFlight {
		f.mu.Unlock()
		return ErrInFlight
	}
	if fields != nil {
		f.fields = *fields
	}
	msg := model.NewMessage{
		Name:    f.fields.Name,
		Email:   f.fields.Email,
		Message: f.fields.Message,
		UserId:  f.uid,
	}
	if err := f.check(msg); err != nil {
		f.mu.Unlock()
		if fields != nil {
			f.broadcast()
		}
		return err
	}
	f.inFlight = true
	f.setStatusLocked(StatusSending, KindInfo, false)
	f.mu.Unlock()
	f.broadcast()

	_, err := f.store.Append(ctx, f.opts.Collection, msg)
	if err != nil {
		f.logger.Error("Error adding message", zap.Error(err))
	}

	f.mu.Lock()
	if f.unmounted {
		f.mu.Unlock()
		return err
	}
	f.inFlight = false
	if err != nil {
		f.setStatusLocked(StatusFailed, KindError, true)
	} else {
		f.fields = Fields{}
		f.setStatusLocked(StatusSent, KindSuccess, true)
	}
	f.mu.Unlock()
	f.broadcast()

	if err != nil {
		return fmt.Errorf("submit message: %w", err)
	}
	return nil
}

func (f *Form) check(msg model.NewMessage) error {
	if util.AnyBlank(msg.Name, msg.Email, msg.Message) {
		return ErrInvalidForm
	}
	if err := f.validate.Struct(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return nil
}

// setStatusLocked cancels any scheduled clear before assigning the new status,
// so a clear only ever removes the status it was scheduled for.
func (f *Form) setStatusLocked(text string, kind StatusKind, autoClear bool) {
	if f.statusTimer != nil {
		f.statusTimer.Stop()
		f.statusTimer = nil
	}
	f.statusSeq++
	f.status = Status{Text: text, Kind: kind}
	if autoClear {
		seq := f.statusSeq
		f.statusTimer = f.clock.AfterFunc(f.opts.StatusClearDelay, func() {
			f.clearStatus(seq)
		})
	}
}

func (f *Form) clearStatus(seq uint64) {
	f.mu.Lock()
	if f.unmounted || f.statusSeq != seq {
		f.mu.Unlock()
		return
	}
	f.status = Status{}
	f.statusTimer = nil
	f.mu.Unlock()
	f.broadcast()
}

// State returns a copy of the current form state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

func (f *Form) stateLocked() State {
	return State{
		Fields:      f.fields,
		Status:      f.status,
		InFlight:    f.inFlight,
		Identity:    f.uid,
		FeedVisible: f.uid != "",
		Messages:    f.messages,
	}
}

// Watch returns a channel holding the latest state after each change. The
// channel is closed by cancel or when the form is unmounted.
func (f *Form) Watch() (<-chan State, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan State, 1)
	if f.unmounted {
		close(ch)
		return ch, func() {}
	}
	id := f.nextWatcher
	f.nextWatcher++
	f.watchers[id] = ch
	ch <- f.stateLocked()

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if w, ok := f.watchers[id]; ok {
			close(w)
			delete(f.watchers, id)
		}
	}
}

func (f *Form) broadcast() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unmounted || len(f.watchers) == 0 {
		return
	}
	state := f.stateLocked()
	for _, ch := range f.watchers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}
