package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// maxCatchUp bounds how many missed occurrences one run creates per schedule.
const maxCatchUp = 400

// Processor creates the payments recurring schedules owe.
type Processor struct {
	manager *Manager
}

func NewProcessor(manager *Manager) *Processor {
	return &Processor{manager: manager}
}

// ProcessDue creates every occurrence due by now and returns how many
// payments were created. A failing schedule is logged and skipped.
func (p *Processor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	schedules, err := p.manager.repo.GetRecurringList(ctx, RecurringFilter{})
	if err != nil {
		return 0, fmt.Errorf("listing recurring payments: %w", err)
	}

	slog.InfoContext(ctx, "processing recurring payments",
		"total", len(schedules),
		"processing_date", now.Format(time.DateOnly))

	created := 0

	for _, rp := range schedules {
		if !rp.IsDue(now) {
			continue
		}

		n, err := p.execute(ctx, rp.ID, now)
		if err != nil {
			slog.ErrorContext(ctx, "processing recurring payment",
				"recurring_id", rp.ID,
				"error", err)

			continue
		}

		created += n
	}

	slog.InfoContext(ctx, "recurring processing complete", "created", created, "checked", len(schedules))

	return created, nil
}

// execute re-reads the schedule inside the unit of work so concurrent runs
// do not create the same occurrence twice.
func (p *Processor) execute(ctx context.Context, id int64, now time.Time) (int, error) {
	tx, err := p.manager.repo.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning recurring run: %w", err)
	}
	defer tx.Rollback()

	rp, err := tx.FindRecurring(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("loading recurring payment: %w", err)
	}

	dates := rp.DueDates(now, maxCatchUp)
	if len(dates) == 0 {
		return 0, nil
	}

	for _, d := range dates {
		pay := rp.NewPayment(d)
		if err := pay.Validate(); err != nil {
			return 0, fmt.Errorf("occurrence %s: %w", d.Format(time.DateOnly), err)
		}

		if err := tx.SavePayment(ctx, pay); err != nil {
			return 0, fmt.Errorf("saving occurrence: %w", err)
		}

		if err := adjust(ctx, tx, pay.Effect()); err != nil {
			return 0, fmt.Errorf("applying occurrence: %w", err)
		}
	}

	last := dates[len(dates)-1]
	rp.LastExecution = &last

	if err := tx.SaveRecurring(ctx, rp); err != nil {
		return 0, fmt.Errorf("recording last execution: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing recurring run: %w", err)
	}

	slog.InfoContext(ctx, "created payments from recurring schedule",
		"recurring_id", rp.ID,
		"count", len(dates),
		"amount_cents", rp.Amount,
		"recurrence", rp.Recurrence.String())

	return len(dates), nil
}
