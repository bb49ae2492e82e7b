package contact

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adammarchelino/portfolio/model"
	"github.com/adammarchelino/portfolio/store"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

const (
	UID      = "anon-uid"
	LOCAL_ID = "local-uid"
	NAME     = "Rina"
	EMAIL    = "rina@example.com"
	TEXT     = "Halo Adam, mau diskusi soal React."
)

var (
	start   = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func newMock() *clock.Mock {
	clk := clock.NewMock()
	clk.Set(start)
	return clk
}

//-----------fakes--------

type fakeProvider struct {
	mu             sync.Mutex
	establishErr   error
	uid            string
	establishCalls int
	listeners      []func(string)
	unsubscribed   int
}

func (p *fakeProvider) EstablishAnonymousSession(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.establishCalls++
	if p.establishErr != nil {
		return "", p.establishErr
	}
	return p.uid, nil
}

func (p *fakeProvider) OnIdentityChange(listener func(uid string)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, listener)
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.unsubscribed++
	}
}

func (p *fakeProvider) emit(uid string) {
	p.mu.Lock()
	listeners := append([]func(string){}, p.listeners...)
	p.mu.Unlock()
	for _, l := range listeners {
		l(uid)
	}
}

type fakeSub struct {
	ch                 chan store.Snapshot
	closeOnUnsubscribe bool
	mu                 sync.Mutex
	unsubscribes       int
}

func (s *fakeSub) Snapshots() <-chan store.Snapshot {
	return s.ch
}

func (s *fakeSub) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsubscribes++
	if s.closeOnUnsubscribe && s.unsubscribes == 1 {
		close(s.ch)
	}
}

func (s *fakeSub) unsubscribeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsubscribes
}

type fakeStore struct {
	mu           sync.Mutex
	appendErr    error
	subscribeErr error
	release      chan struct{}
	appends      []model.NewMessage
	subs         []*fakeSub
	collections  []string
	closeSubs    bool
}

func (s *fakeStore) Append(ctx context.Context, collection string, msg model.NewMessage) (model.Message, error) {
	s.mu.Lock()
	s.appends = append(s.appends, msg)
	release := s.release
	s.mu.Unlock()

	if release != nil {
		<-release
	}
	if s.appendErr != nil {
		return model.Message{}, s.appendErr
	}
	return model.Message{Id: "id", Name: msg.Name, Email: msg.Email, Message: msg.Message, UserId: msg.UserId, Timestamp: start}, nil
}

func (s *fakeStore) Subscribe(collection string) (store.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = append(s.collections, collection)
	if s.subscribeErr != nil {
		return nil, s.subscribeErr
	}
	sub := &fakeSub{ch: make(chan store.Snapshot), closeOnUnsubscribe: s.closeSubs}
	s.subs = append(s.subs, sub)
	return sub, nil
}

func (s *fakeStore) appendCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appends)
}

func (s *fakeStore) subscriptions() []*fakeSub {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*fakeSub{}, s.subs...)
}

type idGenerator struct {
	mu    sync.Mutex
	calls int
}

func (g *idGenerator) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return LOCAL_ID
}

type fixture struct {
	provider *fakeProvider
	store    *fakeStore
	clock    *clock.Mock
	ids      *idGenerator
	form     *Form
}

func newFixture(t *testing.T) *fixture {
	fx := &fixture{
		provider: &fakeProvider{uid: UID},
		store:    &fakeStore{closeSubs: true},
		clock:    newMock(),
		ids:      &idGenerator{},
	}
	fx.form = NewForm(Deps{
		Identity: fx.provider,
		Store:    fx.store,
		Clock:    fx.clock,
		NewID:    fx.ids.next,
		Logger:   zap.NewNop(),
	}, Options{})
	t.Cleanup(fx.form.Unmount)
	return fx
}

func (fx *fixture) fill() {
	fx.form.SetFields(Fields{Name: NAME, Email: EMAIL, Message: TEXT})
}

func snapshot(texts ...string) store.Snapshot {
	s := store.Snapshot{}
	for i, text := range texts {
		s = append(s, model.Message{Id: text, Name: NAME, Email: EMAIL, Message: text, Timestamp: start.Add(-time.Duration(i) * time.Minute)})
	}
	return s
}

func (fx *fixture) push(t *testing.T, sub *fakeSub, s store.Snapshot) {
	t.Helper()
	select {
	case sub.ch <- s:
	case <-time.After(waitFor):
		t.Fatal("feed consumer is not reading")
	}
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(s, fx.form.State().Messages)
	}, waitFor, tick)
}

//-----------tests--------

func TestForm_Defaults(t *testing.T) {
	form := NewForm(Deps{Identity: &fakeProvider{}, Store: &fakeStore{}}, Options{})

	require.Equal(t, DefaultCollection, form.opts.Collection)
	require.Equal(t, DefaultStatusClearDelay, form.opts.StatusClearDelay)
	require.NotEmpty(t, form.newID())
}

func TestForm_MountSubscribesWithProviderIdentity(t *testing.T) {
	fx := newFixture(t)

	fx.form.Mount(context.Background())
	fx.form.Mount(context.Background())

	state := fx.form.State()
	require.Equal(t, UID, state.Identity)
	require.True(t, state.FeedVisible)
	require.Equal(t, 1, fx.provider.establishCalls)
	require.Len(t, fx.provider.listeners, 1)
	require.Len(t, fx.store.subscriptions(), 1)
	require.Equal(t, []string{DefaultCollection}, fx.store.collections)
	require.Equal(t, 0, fx.ids.calls)
}

func TestForm_FeedHiddenBeforeIdentity(t *testing.T) {
	fx := newFixture(t)

	state := fx.form.State()

	require.False(t, state.FeedVisible)
	require.Empty(t, state.Messages)
}

func TestForm_RequiredFieldsEnforced(t *testing.T) {
	fx := newFixture(t)
	fx.form.Mount(context.Background())

	cases := []Fields{
		{},
		{Name: "", Email: EMAIL, Message: TEXT},
		{Name: NAME, Email: "", Message: TEXT},
		{Name: NAME, Email: EMAIL, Message: ""},
		{Name: "   ", Email: EMAIL, Message: TEXT},
		{Name: NAME, Email: EMAIL, Message: "\n\t"},
		{Name: NAME, Email: "not-an-email", Message: TEXT},
	}
	for _, fields := range cases {
		fx.form.SetFields(fields)

		err := fx.form.Submit(context.Background())

		require.ErrorIs(t, err, ErrInvalidForm, "fields %+v", fields)
		require.False(t, fx.form.State().InFlight)
		require.Empty(t, fx.form.State().Status.Text)
	}
	require.Equal(t, 0, fx.store.appendCount())
}

func TestForm_SubmitSuccess(t *testing.T) {
	fx := newFixture(t)
	fx.form.Mount(context.Background())
	sub := fx.store.subscriptions()[0]
	fx.fill()

	err := fx.form.Submit(context.Background())
	require.NoError(t, err)

	state := fx.form.State()
	require.Equal(t, Fields{}, state.Fields)
	require.Equal(t, StatusSent, state.Status.Text)
	require.Equal(t, KindSuccess, state.Status.Kind)
	require.False(t, state.InFlight)
	require.Empty(t, state.Messages, "the submitted message only appears through the feed")

	require.Equal(t, []model.NewMessage{{Name: NAME, Email: EMAIL, Message: TEXT, UserId: UID}}, fx.store.appends)

	fx.push(t, sub, snapshot(TEXT))
	require.Equal(t, TEXT, fx.form.State().Messages[0].Message)
}

func TestForm_SubmitFailureKeepsFields(t *testing.T) {
	fx := newFixture(t)
	writeErr := errors.New("permission denied")
	fx.store.appendErr = writeErr
	fx.form.Mount(context.Background())
	fx.fill()

	err := fx.form.Submit(context.Background())

	require.ErrorIs(t, err, writeErr)
	state := fx.form.State()
	require.Equal(t, Fields{Name: NAME, Email: EMAIL, Message: TEXT}, state.Fields)
	require.Equal(t, StatusFailed, state.Status.Text)
	require.Equal(t, KindError, state.Status.Kind)
	require.False(t, state.InFlight)
}

func TestForm_SubmitWhileInFlight(t *testing.T) {
	fx := newFixture(t)
	fx.store.release = make(chan struct{})
	fx.form.Mount(context.Background())
	fx.fill()

	done := make(chan error, 1)
	go func() {
		done <- fx.form.Submit(context.Background())
	}()
	require.Eventually(t, func() bool { return fx.form.State().InFlight }, waitFor, tick)

	state := fx.form.State()
	require.Equal(t, StatusSending, state.Status.Text)
	require.Equal(t, StatusSending, state.SubmitLabel())

	err := fx.form.Submit(context.Background())
	require.ErrorIs(t, err, ErrInFlight)
	require.Equal(t, 1, fx.store.appendCount())

	close(fx.store.release)
	require.NoError(t, <-done)
	require.False(t, fx.form.State().InFlight)
	require.Equal(t, 1, fx.store.appendCount())
}

func TestForm_SubmitFieldsWhileInFlightKeepsFields(t *testing.T) {
	fx := newFixture(t)
	fx.store.release = make(chan struct{})
	fx.store.appendErr = errors.New("offline")
	fx.form.Mount(context.Background())

	first := Fields{Name: NAME, Email: EMAIL, Message: TEXT}
	done := make(chan error, 1)
	go func() {
		done <- fx.form.SubmitFields(context.Background(), first)
	}()
	require.Eventually(t, func() bool { return fx.form.State().InFlight }, waitFor, tick)

	err := fx.form.SubmitFields(context.Background(), Fields{Name: "Other", Email: "o@example.com", Message: "second"})
	require.ErrorIs(t, err, ErrInFlight)
	require.Equal(t, first, fx.form.State().Fields)

	close(fx.store.release)
	require.Error(t, <-done)

	state := fx.form.State()
	require.Equal(t, first, state.Fields)
	require.Equal(t, StatusFailed, state.Status.Text)
	require.Equal(t, 1, fx.store.appendCount())
}

func TestForm_SubmitFieldsInvalidKeepsInput(t *testing.T) {
	fx := newFixture(t)
	fx.form.Mount(context.Background())

	err := fx.form.SubmitFields(context.Background(), Fields{Name: NAME, Email: "", Message: TEXT})

	require.ErrorIs(t, err, ErrInvalidForm)
	require.Equal(t, Fields{Name: NAME, Message: TEXT}, fx.form.State().Fields)
	require.Zero(t, fx.store.appendCount())
}

func TestForm_SnapshotReplacesList(t *testing.T) {
	fx := newFixture(t)
	fx.form.Mount(context.Background())
	sub := fx.store.subscriptions()[0]

	s1 := snapshot("a", "b", "c")
	s2 := snapshot("d")

	fx.push(t, sub, s1)
	fx.push(t, sub, s2)

	require.Equal(t, s2, fx.form.State().Messages)
}

func TestForm_IdentityFallback(t *testing.T) {
	fx := newFixture(t)
	fx.provider.establishErr = errors.New("provider unreachable")

	fx.form.Mount(context.Background())

	state := fx.form.State()
	require.Equal(t, LOCAL_ID, state.Identity)
	require.True(t, state.FeedVisible)
	require.Equal(t, 1, fx.ids.calls)
	require.Len(t, fx.store.subscriptions(), 1)
}

func TestForm_SignOutTearsDownFeed(t *testing.T) {
	fx := newFixture(t)
	fx.form.Mount(context.Background())
	sub := fx.store.subscriptions()[0]
	fx.push(t, sub, snapshot("a"))

	fx.provider.emit("")

	state := fx.form.State()
	require.Empty(t, state.Identity)
	require.False(t, state.FeedVisible)
	require.Equal(t, 1, sub.unsubscribeCount())

	fx.provider.emit("next-uid")

	require.Len(t, fx.store.subscriptions(), 2)
	require.Equal(t, "next-uid", fx.form.State().Identity)
	fx.push(t, fx.store.subscriptions()[1], snapshot("b"))
}

func TestForm_IdentitySwitchCancelsPreviousFeed(t *testing.T) {
	fx := newFixture(t)
	fx.form.Mount(context.Background())
	first := fx.store.subscriptions()[0]

	fx.provider.emit("other-uid")

	subs := fx.store.subscriptions()
	require.Len(t, subs, 2)
	require.Equal(t, 1, first.unsubscribeCount())
	require.Equal(t, 0, subs[1].unsubscribeCount())
}

func TestForm_SubscribeErrorStallsFeed(t *testing.T) {
	fx := newFixture(t)
	fx.store.subscribeErr = errors.New("quota exceeded")

	fx.form.Mount(context.Background())

	state := fx.form.State()
	require.Equal(t, UID, state.Identity)
	require.Empty(t, state.Messages)
}

func TestForm_UnmountTearsDown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	fx := newFixture(t)
	fx.form.Mount(context.Background())
	sub := fx.store.subscriptions()[0]
	fx.push(t, sub, snapshot("a"))

	fx.form.Unmount()
	fx.form.Unmount()

	require.Equal(t, 1, sub.unsubscribeCount())
	require.Equal(t, 1, fx.provider.unsubscribed)
	fx.form.feeds.Wait()

	fx.provider.emit("late-uid")
	require.Len(t, fx.store.subscriptions(), 1)
	require.Equal(t, UID, fx.form.State().Identity)
}

func TestForm_LateSnapshotAfterUnmount(t *testing.T) {
	fx := newFixture(t)
	fx.store.closeSubs = false
	fx.form.Mount(context.Background())
	sub := fx.store.subscriptions()[0]
	s1 := snapshot("a")
	fx.push(t, sub, s1)
	changes, cancel := fx.form.Watch()
	defer cancel()
	<-changes

	fx.form.Unmount()
	sub.ch <- snapshot("late")
	close(sub.ch)
	fx.form.feeds.Wait()

	require.Equal(t, s1, fx.form.State().Messages)
	_, open := <-changes
	require.False(t, open, "watchers are closed on unmount and see no further state")
	require.Equal(t, 1, sub.unsubscribeCount())
}

func TestForm_UnmountBeforeMount(t *testing.T) {
	fx := newFixture(t)

	fx.form.Unmount()
	fx.form.Mount(context.Background())

	require.Equal(t, 0, fx.provider.establishCalls)
	require.Empty(t, fx.store.subscriptions())
	require.ErrorIs(t, fx.form.Submit(context.Background()), ErrUnmounted)
}

func TestForm_StatusAutoClear(t *testing.T) {
	fx := newFixture(t)
	fx.form.Mount(context.Background())
	fx.fill()
	require.NoError(t, fx.form.Submit(context.Background()))

	fx.clock.Add(2999 * time.Millisecond)
	require.Equal(t, StatusSent, fx.form.State().Status.Text)

	fx.clock.Add(time.Millisecond)
	require.Eventually(t, func() bool { return !fx.form.State().StatusVisible() }, waitFor, tick)
	require.Empty(t, fx.form.State().Status.Text)
}

func TestForm_NewerStatusSupersedesClear(t *testing.T) {
	fx := newFixture(t)
	fx.form.Mount(context.Background())
	fx.fill()
	require.NoError(t, fx.form.Submit(context.Background()))

	fx.clock.Add(2 * time.Second)
	fx.store.appendErr = errors.New("offline")
	fx.fill()
	require.Error(t, fx.form.Submit(context.Background()))

	fx.clock.Add(time.Second)
	require.Equal(t, StatusFailed, fx.form.State().Status.Text, "the earlier clear was cancelled")

	fx.clock.Add(2 * time.Second)
	require.Eventually(t, func() bool { return fx.form.State().Status.Text == "" }, waitFor, tick)
}

func TestForm_UnmountCancelsStatusClear(t *testing.T) {
	fx := newFixture(t)
	fx.form.Mount(context.Background())
	fx.fill()
	require.NoError(t, fx.form.Submit(context.Background()))

	fx.form.Unmount()
	fx.clock.Add(time.Minute)

	require.Equal(t, StatusSent, fx.form.State().Status.Text)
}

func TestForm_SetField(t *testing.T) {
	fx := newFixture(t)

	require.NoError(t, fx.form.SetField(FieldName, NAME))
	require.NoError(t, fx.form.SetField(FieldEmail, EMAIL))
	require.NoError(t, fx.form.SetField(FieldMessage, TEXT))
	require.ErrorIs(t, fx.form.SetField("phone", "123"), ErrUnknownField)

	require.Equal(t, Fields{Name: NAME, Email: EMAIL, Message: TEXT}, fx.form.State().Fields)
}

func TestForm_Watch(t *testing.T) {
	fx := newFixture(t)
	changes, cancel := fx.form.Watch()

	initial := <-changes
	require.False(t, initial.FeedVisible)

	fx.form.Mount(context.Background())
	require.Eventually(t, func() bool {
		select {
		case state := <-changes:
			return state.Identity == UID
		default:
			return false
		}
	}, waitFor, tick)

	cancel()
	cancel()
	_, open := <-changes
	require.False(t, open)
}
