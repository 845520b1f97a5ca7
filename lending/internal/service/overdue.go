package service

import (
	"context"
	"fmt"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	noOverdueMessage = "No borrowings overdue today!"
	overdueWorkers   = 4
)

// CheckOverdue alerts staff about every open borrowing due by tomorrow.
// It only reads borrowings.
func (s *Service) CheckOverdue(ctx context.Context) error {
	dueBy := s.today().AddDays(1)
	due, err := s.repo.ListDueBorrowings(ctx, dueBy)
	if err != nil {
		return err
	}
	s.log.Info("overdue check", zap.String("due_by", dueBy.String()), zap.Int("count", len(due)))

	if len(due) == 0 {
		return s.notifier.Notify(ctx, noOverdueMessage)
	}

	var g errgroup.Group
	g.SetLimit(overdueWorkers)
	for _, b := range due {
		b := b
		g.Go(func() error {
			return s.notifier.Notify(ctx, overdueMessage(b))
		})
	}
	return g.Wait()
}

func overdueMessage(b model.DueBorrowing) string {
	return fmt.Sprintf("Overdue Borrowing Alert:\nBook: %s\nUser: %s\nBorrowing Date: %s\nExpected Returning Date: %s\nStatus: Overdue",
		b.Book.Title, b.UserEmail, b.BorrowingDate, b.ExpectedReturningDate)
}
