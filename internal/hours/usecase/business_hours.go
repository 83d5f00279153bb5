package usecase

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/novapos/resetd/internal/pkg/goerror"
)

// Status reports whether the store's back office is currently open.
type Status struct {
	Open     bool
	Timezone string
	Now      time.Time
	OpensAt  string
	ClosesAt string
}

// BusinessHours evaluates the configured opening window against the current
// time in the store's timezone.
//
// The window is half-open: opening minute inclusive, closing minute
// exclusive, so "09:00"-"18:00" means the last open minute is 17:59.
func (s *Usecase) BusinessHours(ctx context.Context) (*Status, error) {
	ctx, span := s.startSpan(ctx, "BusinessHours")
	defer span.End()

	tz := s.cfg.GetString("hours.timezone")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		slog.ErrorContext(ctx, "invalid business hours timezone", "timezone", tz, "error", err)
		return nil, goerror.NewServer(err)
	}

	opensAt := s.cfg.GetString("hours.opens_at")
	closesAt := s.cfg.GetString("hours.closes_at")

	openMin, err := minuteOfDay(opensAt)
	if err != nil {
		slog.ErrorContext(ctx, "invalid business hours opening time", "opens_at", opensAt, "error", err)
		return nil, goerror.NewServer(err)
	}
	closeMin, err := minuteOfDay(closesAt)
	if err != nil {
		slog.ErrorContext(ctx, "invalid business hours closing time", "closes_at", closesAt, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now().In(loc)
	nowMin := now.Hour()*60 + now.Minute()

	open := s.dayOpen(now.Weekday()) && nowMin >= openMin && nowMin < closeMin

	return &Status{
		Open:     open,
		Timezone: tz,
		Now:      now,
		OpensAt:  opensAt,
		ClosesAt: closesAt,
	}, nil
}

func (s *Usecase) dayOpen(day time.Weekday) bool {
	days := s.cfg.GetArray("hours.days")

	var open []int
	for _, d := range days {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		n, err := strconv.Atoi(d)
		if err != nil {
			continue
		}
		open = append(open, n)
	}

	// no configured days means open every day
	if len(open) == 0 {
		return true
	}

	return slices.Contains(open, int(day))
}

func minuteOfDay(hhmm string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
