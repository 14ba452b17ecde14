package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/config"
	"github.com/Skotchmaster/marketplace/internal/db"
	"github.com/Skotchmaster/marketplace/internal/hash"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
	"github.com/Skotchmaster/marketplace/internal/notify"
	"github.com/Skotchmaster/marketplace/internal/repo"
)

const testPassword = "password123"

var phoneSeq atomic.Int64

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	gdb, err := db.Open(context.Background(), config.DBConfig{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(gdb) })
	require.NoError(t, db.Migrate(gdb))
	return repo.New(gdb)
}

func seedRegion(t *testing.T, r *repo.GormRepo, name string) *models.Region {
	t.Helper()
	region := &models.Region{Name: name}
	require.NoError(t, r.CreateRegion(context.Background(), region))
	return region
}

func seedUser(t *testing.T, r *repo.GormRepo, regionID uint, name, role string) *models.User {
	t.Helper()
	pw, err := hash.HashPassword(testPassword)
	require.NoError(t, err)
	user := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Phone:    fmt.Sprintf("+99890%07d", phoneSeq.Add(1)),
		Password: pw,
		Year:     1995,
		RegionID: regionID,
		Role:     role,
	}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user
}

func seedCategory(t *testing.T, r *repo.GormRepo, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, r.CreateCategory(context.Background(), category))
	return category
}

func seedProduct(t *testing.T, r *repo.GormRepo, categoryID uint, authorID uuid.UUID, name string, price int64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: "a product used in tests",
		Price:       price,
		Image:       "http://localhost/image/p.png",
		CategoryID:  categoryID,
		AuthorID:    authorID,
	}
	require.NoError(t, r.CreateProduct(context.Background(), product))
	return product
}

func seedComment(t *testing.T, r *repo.GormRepo, productID, authorID uuid.UUID, star int) *models.Comment {
	t.Helper()
	comment := &models.Comment{Message: "nice one", Star: star, ProductID: productID, AuthorID: authorID}
	require.NoError(t, r.CreateComment(context.Background(), comment))
	return comment
}

func callerOf(u *models.User) Caller {
	return Caller{ID: u.ID, Role: u.Role}
}

func ptr[T any](v T) *T { return &v }

type recordedEvent struct {
	Topic string
	Key   string
	Event mykafka.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	ev, _ := event.(mykafka.Event)
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: ev})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event.Type)
	}
	return out
}

type sentCode struct {
	Channel     notify.Channel
	Destination string
	Code        string
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []sentCode
	fail    map[notify.Channel]bool
	enabled map[notify.Channel]bool
}

func (n *fakeNotifier) Dispatch(_ context.Context, ch notify.Channel, destination, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail[ch] {
		return errors.New("smtp: connection refused")
	}
	n.sent = append(n.sent, sentCode{Channel: ch, Destination: destination, Code: code})
	return nil
}

func (n *fakeNotifier) Enabled(ch notify.Channel) bool {
	return n.enabled[ch]
}

type fakeLimiter struct {
	allow bool
	err   error
	calls []string
}

func (l *fakeLimiter) Allow(_ context.Context, scope string) (bool, error) {
	l.calls = append(l.calls, scope)
	return l.allow, l.err
}
