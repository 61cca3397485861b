package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"weeklydinner/internal/domain"
	"weeklydinner/internal/geo"
	"weeklydinner/internal/seating"
)

type seatingService struct {
	guestRepo      domain.GuestRepository
	assigner       *seating.Assigner
	reoptimizer    *seating.Reoptimizer
	resolver       *geo.Resolver
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time

	// mu serializes every read-modify-write of the guest list.
	mu sync.Mutex
}

// NewSeatingService creates a SeatingService. emailService may be nil to skip confirmation emails.
func NewSeatingService(
	guestRepo domain.GuestRepository,
	resolver *geo.Resolver,
	assigner *seating.Assigner,
	reoptimizer *seating.Reoptimizer,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SeatingService {
	return &seatingService{
		guestRepo:      guestRepo,
		assigner:       assigner,
		reoptimizer:    reoptimizer,
		resolver:       resolver,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *seatingService) SubmitRSVP(ctx context.Context, guest *domain.Guest) (*domain.RSVPReceipt, bool, error) {
	if guest == nil {
		return nil, false, fmt.Errorf("%w: guest is required", domain.ErrInvalidInput)
	}
	g := domain.NewGuest(guest.Name, guest.Age, guest.Location, guest.Email, s.now().UTC())
	if errs := g.Validate(); len(errs) > 0 {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Resubmitting the same RSVP is idempotent.
	if existing, err := s.guestRepo.GetByIdentity(ctx, g.Name, g.Age, g.Location); err == nil {
		receipt, err := s.receipt(ctx, existing)
		return receipt, false, err
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get guest: %w", err)
	}

	stored, err := s.guestRepo.List(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("list guests: %w", err)
	}
	assigned := s.assigner.AssignIncoming(*g, derefGuests(stored))

	if err := s.guestRepo.Create(ctx, &assigned); err != nil {
		if errors.Is(err, domain.ErrDuplicateGuest) {
			existing, getErr := s.guestRepo.GetByIdentity(ctx, g.Name, g.Age, g.Location)
			if getErr != nil {
				return nil, false, fmt.Errorf("get guest: %w", getErr)
			}
			receipt, err := s.receipt(ctx, existing)
			return receipt, false, err
		}
		return nil, false, fmt.Errorf("create guest: %w", err)
	}
	s.logger.InfoContext(ctx, "rsvp received", "guest_id", assigned.ID, "table", assigned.Table)

	receipt := newReceipt(&assigned, append(stored, &assigned))
	s.sendConfirmation(ctx, receipt)
	return receipt, true, nil
}

func (s *seatingService) ListGuests(ctx context.Context) ([]*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	guests, err := s.guestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	if guests == nil {
		guests = []*domain.Guest{}
	}
	return guests, nil
}

func (s *seatingService) ListTables(ctx context.Context) (*domain.TablesOverview, error) {
	guests, err := s.ListGuests(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeTables(guests, s.resolver), nil
}

func (s *seatingService) ReassignTables(ctx context.Context) (*domain.ReassignmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	stored, err := s.guestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}

	res, err := s.reoptimizer.ReoptimizeAll(derefGuests(stored))
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientGuests) || errors.Is(err, domain.ErrTableConstraintViolation) {
			return nil, err
		}
		return nil, fmt.Errorf("reoptimize: %w", err)
	}

	labels := make(map[string]string, len(res.Guests))
	out := make([]*domain.Guest, len(res.Guests))
	for i := range res.Guests {
		g := res.Guests[i]
		labels[g.ID] = g.Table
		out[i] = &g
	}
	if err := s.guestRepo.UpdateTables(ctx, labels); err != nil {
		return nil, fmt.Errorf("update tables: %w", err)
	}

	return &domain.ReassignmentResult{
		Guests:     out,
		TableCount: len(res.Tables),
		Passes:     res.Passes,
		Swaps:      res.Swaps,
		Score:      res.Score,
	}, nil
}

func (s *seatingService) receipt(ctx context.Context, guest *domain.Guest) (*domain.RSVPReceipt, error) {
	all, err := s.guestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	return newReceipt(guest, all), nil
}

func (s *seatingService) sendConfirmation(ctx context.Context, receipt *domain.RSVPReceipt) {
	if s.emailService == nil || receipt.Guest.Email == "" {
		return
	}
	data := &domain.RSVPConfirmationEmailData{
		Email:            receipt.Guest.Email,
		Name:             receipt.Guest.Name,
		Table:            receipt.Guest.Table,
		TableDescription: receipt.TableDescription,
	}
	// The RSVP is already stored; a mail failure must not fail the request.
	if err := s.emailService.SendRSVPConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "rsvp confirmation email failed", "guest_id", receipt.Guest.ID, "err", err)
	}
}

func newReceipt(guest *domain.Guest, all []*domain.Guest) *domain.RSVPReceipt {
	var ages []int
	for _, g := range all {
		if g.Table == guest.Table {
			ages = append(ages, g.Age)
		}
	}
	return &domain.RSVPReceipt{
		Guest:            guest,
		TableDescription: describeAges(ages),
		TableSize:        len(ages),
	}
}

func derefGuests(guests []*domain.Guest) []domain.Guest {
	out := make([]domain.Guest, 0, len(guests))
	for _, g := range guests {
		if g != nil {
			out = append(out, *g)
		}
	}
	return out
}
