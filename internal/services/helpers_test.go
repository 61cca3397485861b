package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"weeklydinner/internal/domain"
	"weeklydinner/internal/geo"
	"weeklydinner/internal/metrics"
	"weeklydinner/internal/seating"
)

var testTime = time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeGuestRepo implements domain.GuestRepository in memory.
type fakeGuestRepo struct {
	mu        sync.Mutex
	guests    []*domain.Guest
	nextID    int
	listErr   error
	createErr error
	updateErr error
	updates   int
}

func (f *fakeGuestRepo) Create(ctx context.Context, g *domain.Guest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.guests {
		if existing.Key() == g.Key() {
			return domain.ErrDuplicateGuest
		}
	}
	f.nextID++
	g.ID = fmt.Sprintf("g-%d", f.nextID)
	cp := *g
	f.guests = append(f.guests, &cp)
	return nil
}

func (f *fakeGuestRepo) GetByIdentity(ctx context.Context, name string, age int, location string) (*domain.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.guests {
		if g.Name == name && g.Age == age && g.Location == location {
			cp := *g
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGuestRepo) List(ctx context.Context) ([]*domain.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Guest, len(f.guests))
	for i, g := range f.guests {
		cp := *g
		out[i] = &cp
	}
	return out, nil
}

func (f *fakeGuestRepo) UpdateTables(ctx context.Context, labels map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	for _, g := range f.guests {
		if l, ok := labels[g.ID]; ok {
			g.Table = l
		}
	}
	return nil
}

func (f *fakeGuestRepo) seed(guests ...domain.Guest) {
	for _, g := range guests {
		f.nextID++
		cp := g
		if cp.ID == "" {
			cp.ID = fmt.Sprintf("g-%d", f.nextID)
		}
		f.guests = append(f.guests, &cp)
	}
}

func (f *fakeGuestRepo) labels() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.guests))
	for _, g := range f.guests {
		out[g.ID] = g.Table
	}
	return out
}

// fakeEmailService records confirmation emails.
type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.RSVPConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

var errStorage = errors.New("storage down")

func newTestSeatingService(t *testing.T, repo domain.GuestRepository, mail domain.EmailService) domain.SeatingService {
	t.Helper()
	reg, err := geo.LoadSeedRegistry()
	require.NoError(t, err)
	logger := discardLogger()
	nop := metrics.NewNop()
	resolver := geo.NewResolver(reg, logger, nop)
	svc := NewSeatingService(
		repo,
		resolver,
		seating.NewAssigner(resolver, logger, nop),
		seating.NewReoptimizer(resolver, logger, nop),
		mail,
		logger,
		time.Second,
	)
	svc.(*seatingService).now = func() time.Time { return testTime }
	return svc
}
