package contact

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clawzd/portfolio/internal/events"
	"github.com/Clawzd/portfolio/internal/storage"
)

var validForm = Form{Name: "Ali", Email: "ali@example.com", Message: "Hello there, nice portfolio!"}

func TestEmailPattern(t *testing.T) {
	assert.True(t, ValidEmail("a@b.co"))
	assert.False(t, ValidEmail("a@b"))
	assert.False(t, ValidEmail("a b@c.com"))
	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("a@@b.co"))
}

func TestValidateMessages(t *testing.T) {
	cases := []struct {
		name  string
		form  Form
		field Field
		want  string
	}{
		{"empty name", Form{Name: "   "}, FieldName, "Name is required"},
		{"short name", Form{Name: "Al"}, FieldName, "Name must be at least 3 characters"},
		{"empty email", Form{Email: " "}, FieldEmail, "Email is required"},
		{"bad email", Form{Email: "ali@example"}, FieldEmail, "Invalid email format"},
		{"empty message", Form{}, FieldMessage, "Message is required"},
		{"short message", Form{Message: "  hi there "}, FieldMessage, "Message must be at least 10 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Validate(tc.form)[tc.field])
		})
	}

	assert.True(t, Validate(validForm).Valid())
}

func TestShortNameBlocksSubmit(t *testing.T) {
	f := validForm
	f.Name = "Al"

	errs := Validate(f)
	assert.Equal(t, "Name must be at least 3 characters", errs[FieldName])
	assert.False(t, CanSubmit(f))
	assert.True(t, CanSubmit(validForm))
}

func TestTrackerStates(t *testing.T) {
	tr := NewTracker()
	for _, f := range Fields {
		assert.Equal(t, Untouched, tr.State(f))
	}
	assert.False(t, tr.Valid())

	tr.Change(FieldName, "Al")
	assert.Equal(t, Invalid, tr.State(FieldName))
	assert.Empty(t, tr.Error(FieldName), "errors show on blur, not while typing")

	errs := tr.Blur()
	assert.Equal(t, "Name must be at least 3 characters", tr.Error(FieldName))
	assert.Equal(t, "Email is required", errs[FieldEmail])

	tr.Change(FieldName, "Ali")
	assert.Empty(t, tr.Error(FieldName), "typing clears that field's error")
	assert.Equal(t, "Email is required", tr.Error(FieldEmail))
	assert.Equal(t, Valid, tr.State(FieldName))

	tr.Change(FieldEmail, "ali@example.com")
	tr.Change(FieldMessage, "A long enough message")
	assert.True(t, tr.Valid())
	assert.True(t, tr.CanSubmit())

	tr.Reset()
	assert.Equal(t, Form{}, tr.Form())
	assert.Equal(t, Untouched, tr.State(FieldEmail))
}

type recordingNotifier struct {
	got []Message
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, _ string, m Message) error {
	r.got = append(r.got, m)
	return r.err
}

func TestSubmitAppendsAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	bus := events.NewBus()
	notifier := &recordingNotifier{err: errors.New("mail down")}
	svc := NewService(bus, notifier)
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	var names []events.Event
	bus.Subscribe(events.VisitorNameChanged, func(e events.Event) { names = append(names, e) })

	f := Form{Name: "  Ali  ", Email: "ali@example.com", Message: " Hello there, nice portfolio! "}

	first, err := svc.Submit(ctx, store, "v1", f)
	require.NoError(t, err, "notifier failure is not a submit failure")
	assert.Equal(t, "Ali", first.Name)
	assert.Equal(t, "Hello there, nice portfolio!", first.Message)

	_, err = svc.Submit(ctx, store, "v1", validForm)
	require.NoError(t, err)

	msgs := Messages(ctx, store)
	require.Len(t, msgs, 2, "two submits append two entries")
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), msgs[0].CreatedAt)

	name, err := store.Get(ctx, storage.KeyVisitorName)
	require.NoError(t, err)
	assert.Equal(t, "Ali", name)

	require.Len(t, names, 2)
	assert.Equal(t, "v1", names[0].Visitor)
	assert.Len(t, notifier.got, 2)
}

func TestSubmitRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := NewService(nil, nil)

	_, err := svc.Submit(ctx, store, "v1", Form{Name: "Al", Email: "a@b.co", Message: "long enough text"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "Name must be at least 3 characters")
	assert.Equal(t, 0, store.Keys(), "nothing stored")
}

func TestMessagesFailClosed(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.Set(ctx, storage.KeyMessages, "[{broken"))
	assert.Empty(t, Messages(ctx, store))

	_, err := NewService(nil, nil).Submit(ctx, store, "v1", validForm)
	require.NoError(t, err)
	assert.Len(t, Messages(ctx, store), 1, "corrupt list restarts from empty")
}

// slowStore leaves room for submits to interleave between read and write.
type slowStore struct{ storage.Store }

func (s slowStore) Get(ctx context.Context, key string) (string, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Get(ctx, key)
}

func TestConcurrentSubmitsAllStored(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	store := slowStore{mem}
	svc := NewService(nil, nil)
	const submits = 20

	var wg sync.WaitGroup
	for i := 0; i < submits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(ctx, store, "v1", validForm)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, Messages(ctx, mem), submits)
}

func TestIndicatorClearsItself(t *testing.T) {
	ind := NewIndicator()
	assert.Equal(t, SuccessDisplay, ind.Delay)
	ind.Delay = 20 * time.Millisecond

	assert.False(t, ind.Visible())
	ind.Show()
	assert.True(t, ind.Visible())
	assert.Eventually(t, func() bool { return !ind.Visible() }, time.Second, 5*time.Millisecond)
}

func TestIndicatorReshowExtends(t *testing.T) {
	ind := NewIndicator()
	ind.Delay = 80 * time.Millisecond
	defer ind.Stop()

	ind.Show()
	time.Sleep(50 * time.Millisecond)
	ind.Show()
	time.Sleep(50 * time.Millisecond)
	assert.True(t, ind.Visible(), "second Show restarts the delay")
}

func TestSMTPNotifier(t *testing.T) {
	n := NewSMTPNotifier("smtp.example.com", "587", "", "", "owner@example.com")
	assert.ErrorIs(t, n.Notify(context.Background(), "v1", Message{}), ErrSMTPNotConfigured)

	n.User, n.Pass = "bot@example.com", "secret"
	var sentTo []string
	var body string
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "smtp.example.com:587", addr)
		assert.Equal(t, "bot@example.com", from)
		sentTo = to
		body = string(msg)
		return nil
	}

	m := Message{Name: "Ali", Email: "ali@example.com", Message: "Hello there, nice portfolio!"}
	require.NoError(t, n.Notify(context.Background(), "v1", m))
	assert.Equal(t, []string{"owner@example.com"}, sentTo)
	assert.True(t, strings.Contains(body, "Subject: Portfolio Contact: Ali"))
	assert.True(t, strings.Contains(body, "Reply-To: ali@example.com"))
}

func TestNotifiersJoinErrors(t *testing.T) {
	a := &recordingNotifier{}
	b := &recordingNotifier{err: errors.New("b failed")}
	err := Notifiers{a, b}.Notify(context.Background(), "v1", Message{Name: "x"})
	assert.ErrorContains(t, err, "b failed")
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}
