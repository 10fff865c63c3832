package subscriber

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statuspulse/internals/security"
	"statuspulse/pkg/apperror"
	"statuspulse/pkg/mailer"
)

const testSalt = "pepper"

type outbox struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (o *outbox) Send(_ context.Context, m mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, m)
	return nil
}

func newTestService(repo Repository, m mailer.Mailer) *Service {
	logger := zerolog.Nop()
	return NewService(repo, m, validator.New(), testSalt, "https://status.example.com", "Acme", &logger)
}

func TestSubscribe_NewEmailCreatesPendingRowAndSendsOneMail(t *testing.T) {
	repo := NewMemoryRepository()
	box := &outbox{}
	svc := newTestService(repo, box)

	require.NoError(t, svc.Subscribe(context.Background(), "jane@example.com"))

	rows := repo.All()
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Active)
	assert.Equal(t, "jane@example.com", rows[0].Email)

	require.Len(t, box.sent, 1)
	msg := box.sent[0]
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "Confirm Your Acme Status Subscription", msg.Subject)

	// the link in the mail must verify
	start := strings.Index(msg.Body, "https://")
	require.GreaterOrEqual(t, start, 0)
	link := strings.Fields(msg.Body[start:])[0]
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/api/confirm-subscription", u.Path)
	assert.True(t, security.VerifyToken(u.Query().Get("email"), testSalt, u.Query().Get("hash")))
}

func TestSubscribe_ActiveEmailIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.Insert(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Activate(ctx, "jane@example.com"))
	before := repo.All()

	box := &outbox{}
	require.NoError(t, newTestService(repo, box).Subscribe(ctx, "jane@example.com"))

	assert.Equal(t, before, repo.All())
	assert.Empty(t, box.sent)
}

func TestSubscribe_PendingEmailRefreshesWithoutMail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	old := time.Now().Add(-10 * 24 * time.Hour)
	repo.now = func() time.Time { return old }
	_, err := repo.Insert(ctx, "jane@example.com")
	require.NoError(t, err)
	repo.now = time.Now

	box := &outbox{}
	require.NoError(t, newTestService(repo, box).Subscribe(ctx, "jane@example.com"))

	rows := repo.All()
	require.Len(t, rows, 1, "no duplicate row")
	assert.True(t, rows[0].Created.After(old))
	assert.Empty(t, box.sent)
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	repo := NewMemoryRepository()
	err := newTestService(repo, &outbox{}).Subscribe(context.Background(), "not-an-email")
	assert.True(t, apperror.IsKind(err, apperror.InvalidInput))
	assert.Empty(t, repo.All())
}

func TestSubscribe_MailFailureKeepsRow(t *testing.T) {
	repo := NewMemoryRepository()
	err := newTestService(repo, &outbox{err: errors.New("smtp down")}).Subscribe(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Len(t, repo.All(), 1)
}

func TestConfirmAndUnsubscribe(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	svc := newTestService(repo, &outbox{})
	require.NoError(t, svc.Subscribe(ctx, "jane@example.com"))

	token := security.SubscriptionToken("jane@example.com", testSalt)

	err := svc.Confirm(ctx, "jane@example.com", "forged")
	assert.True(t, apperror.IsKind(err, apperror.InvalidInput))

	require.NoError(t, svc.Confirm(ctx, "jane@example.com", token))
	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)

	// confirming twice is fine
	require.NoError(t, svc.Confirm(ctx, "jane@example.com", token))

	require.NoError(t, svc.Unsubscribe(ctx, "jane@example.com", token))
	assert.Empty(t, repo.All())

	err = svc.Unsubscribe(ctx, "jane@example.com", token)
	assert.True(t, apperror.IsKind(err, apperror.InvalidInput), "unknown address is an invalid link")
}

// staleReadRepo misses rows on lookup, as a request racing another insert would.
type staleReadRepo struct {
	*MemoryRepository
}

func (r staleReadRepo) GetByEmail(_ context.Context, _ string) (*Subscriber, error) {
	return nil, &apperror.Error{Kind: apperror.NotFound, Op: "test"}
}

func TestSubscribe_ConcurrentInsertIsNoOp(t *testing.T) {
	mem := NewMemoryRepository()
	_, err := mem.Insert(context.Background(), "jane@example.com")
	require.NoError(t, err)

	box := &outbox{}
	svc := newTestService(staleReadRepo{mem}, box)

	require.NoError(t, svc.Subscribe(context.Background(), "jane@example.com"))
	assert.Len(t, mem.All(), 1)
	assert.Empty(t, box.sent)
}
