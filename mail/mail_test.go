package mail

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcode-github/gharbari/backend/models"
)

var fixedRenderer = Renderer{
	Support: "support@gharbari.com",
	Now:     func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
}

func TestRenderer_Verification(t *testing.T) {
	m, err := fixedRenderer.Verification("ram@example.com", "Ram", "abc123", false)
	require.NoError(t, err)

	assert.Equal(t, "ram@example.com", m.To)
	assert.Equal(t, "Welcome to GharBari - Verify Your Email", m.Subject)
	assert.Contains(t, m.HTML, "Welcome to GharBari, Ram!")
	assert.Contains(t, m.HTML, "abc123")
	assert.Contains(t, m.HTML, "24 hours")
	assert.Contains(t, m.HTML, "2025 GharBari")
	assert.Contains(t, m.HTML, "support@gharbari.com")

	resend, err := fixedRenderer.Verification("ram@example.com", "Ram", "def456", true)
	require.NoError(t, err)
	assert.Equal(t, "GharBari - Email Verification Token", resend.Subject)
	assert.NotContains(t, resend.HTML, "Welcome to GharBari, Ram!")
}

func TestRenderer_EscapesUserInput(t *testing.T) {
	m, err := fixedRenderer.Inquiry("admin@gharbari.com", models.Inquiry{
		Name:    "<script>alert(1)</script>",
		Email:   "x@example.com",
		Message: "Is it available?",
	}, &models.Property{Title: "Flat in Lalitpur", City: "Lalitpur"})
	require.NoError(t, err)

	assert.Equal(t, "New Property Inquiry", m.Subject)
	assert.NotContains(t, m.HTML, "<script>")
	assert.Contains(t, m.HTML, "Flat in Lalitpur")
	assert.Contains(t, m.HTML, "Is it available?")
}

func TestRenderer_PasswordReset(t *testing.T) {
	m, err := fixedRenderer.PasswordReset("ram@example.com", "tok")
	require.NoError(t, err)
	assert.Contains(t, m.HTML, "1 hour")
	assert.Contains(t, m.HTML, "tok")
}

func TestSMTPSender_BuildMultipart(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 25, From: "GharBari <no-reply@gharbari.com>"})

	raw, err := s.build(Message{To: "ram@example.com", Subject: "Hi", HTML: "<p>Hello <strong>Ram</strong></p>"})
	require.NoError(t, err)

	body := string(raw)
	assert.True(t, strings.HasPrefix(body, "From: GharBari <no-reply@gharbari.com>\r\n"))
	assert.Contains(t, body, "Content-Type: multipart/alternative")
	assert.Contains(t, body, "text/plain")
	assert.Contains(t, body, "Hello **Ram**")
	assert.Contains(t, body, "<p>Hello <strong>Ram</strong></p>")
}

func TestEnvelopeAddress(t *testing.T) {
	assert.Equal(t, "no-reply@x.com", envelopeAddress("GharBari <no-reply@x.com>"))
	assert.Equal(t, "no-reply@x.com", envelopeAddress(" no-reply@x.com "))
}

type recordingSender struct {
	mu       sync.Mutex
	sent     []Message
	err      error
	failures int // fail this many sends before succeeding
	attempts int
	onFail   func(attempts int)
}

func (r *recordingSender) Send(_ context.Context, m Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if r.err != nil || r.attempts <= r.failures {
		if r.onFail != nil {
			r.onFail(r.attempts)
		}
		if r.err != nil {
			return r.err
		}
		return errors.New("transient failure")
	}
	r.sent = append(r.sent, m)
	return nil
}

type fakeReader struct {
	fetchErrs []error
	msgs      []kafka.Message
	fetched   []int64
	committed []int64
	cancel    context.CancelFunc
	eof       bool
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.fetchErrs) > 0 {
		err := f.fetchErrs[0]
		f.fetchErrs = f.fetchErrs[1:]
		return kafka.Message{}, err
	}
	if len(f.msgs) == 0 {
		if f.eof {
			return kafka.Message{}, io.EOF
		}
		f.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	f.fetched = append(f.fetched, m.Offset)
	return m, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error { return nil }

func fastConsumer(reader MessageReader, sender Sender) *Consumer {
	c := NewConsumer(reader, sender)
	c.retryBase = time.Millisecond
	c.retryMax = 4 * time.Millisecond
	return c
}

func mailMessage(t *testing.T, offset int64, to string) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(Message{To: to, Subject: "s", HTML: "<p>x</p>"})
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: raw}
}

func TestConsumer_Listen(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			mailMessage(t, 1, "a@example.com"),
			{Offset: 2, Value: []byte("not json")},
		},
	}
	sender := &recordingSender{}

	require.NoError(t, fastConsumer(reader, sender).Listen(ctx))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "a@example.com", sender.sent[0].To)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestConsumer_RetriesFailedDeliveryBeforeNextMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			mailMessage(t, 7, "first@example.com"),
			mailMessage(t, 8, "second@example.com"),
		},
	}
	sender := &recordingSender{failures: 2}

	require.NoError(t, fastConsumer(reader, sender).Listen(ctx))

	assert.Equal(t, 4, sender.attempts)
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "first@example.com", sender.sent[0].To)
	assert.Equal(t, "second@example.com", sender.sent[1].To)
	assert.Equal(t, []int64{7, 8}, reader.committed)
}

func TestConsumer_UndeliveredMessageNeverCommitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			mailMessage(t, 7, "a@example.com"),
			mailMessage(t, 8, "b@example.com"),
		},
	}
	sender := &recordingSender{
		err: errors.New("smtp down"),
		onFail: func(attempts int) {
			if attempts == 3 {
				cancel()
			}
		},
	}

	require.NoError(t, fastConsumer(reader, sender).Listen(ctx))

	assert.Empty(t, reader.committed)
	assert.Equal(t, []int64{7}, reader.fetched, "next message must not be fetched while one is pending")
	assert.Equal(t, 3, sender.attempts)
}

func TestConsumer_ClosedReaderStops(t *testing.T) {
	reader := &fakeReader{eof: true, msgs: []kafka.Message{mailMessage(t, 1, "a@example.com")}}
	sender := &recordingSender{}

	done := make(chan error, 1)
	go func() { done <- fastConsumer(reader, sender).Listen(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after the reader closed")
	}
	assert.Equal(t, []int64{1}, reader.committed)
}

func TestConsumer_FetchErrorBacksOffAndRecovers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel:    cancel,
		fetchErrs: []error{errors.New("broker unavailable"), errors.New("broker unavailable")},
		msgs:      []kafka.Message{mailMessage(t, 3, "a@example.com")},
	}
	sender := &recordingSender{}

	start := time.Now()
	require.NoError(t, fastConsumer(reader, sender).Listen(ctx))

	assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)
	assert.Equal(t, []int64{3}, reader.committed)
}

func TestConsumer_BackoffIsCapped(t *testing.T) {
	c := NewConsumer(&fakeReader{}, &recordingSender{})
	c.retryBase = time.Millisecond
	c.retryMax = 3 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, c.sleep(ctx, 0), "cancelled context stops the wait")

	start := time.Now()
	assert.True(t, c.sleep(context.Background(), 40))
	assert.Less(t, time.Since(start), time.Second)
}
