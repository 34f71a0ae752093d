package services

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/learnjournal/internal/logging"
	"github.com/dmitrijs2005/learnjournal/internal/server/config"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/learnjournal/internal/timex"
	"golang.org/x/sync/errgroup"
)

// Reminder is the notification shown to users who have not journaled today.
type Reminder struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// DefaultReminder is sent by ReminderService.Check.
var DefaultReminder = Reminder{
	Title: "Learning Journal Reminder",
	Body:  "Don't break your learning streak! Add a new entry today.",
	URL:   "/new-entry",
}

// Notifier delivers a reminder to one push endpoint.
type Notifier interface {
	Notify(ctx context.Context, sub models.PushSubscription, r Reminder) error
}

// LogNotifier records reminders in the log instead of delivering them.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, sub models.PushSubscription, r Reminder) error {
	n.log.Info(ctx, "streak reminder", "user_id", sub.UserID, "endpoint", sub.Endpoint, "title", r.Title)
	return nil
}

// ReminderResult is the outcome of one reminder run.
type ReminderResult struct {
	Success       bool `json:"success"`
	NotifiedUsers int  `json:"notifiedUsers"`
}

// maxConcurrentNotifications bounds fan-out to push endpoints.
const maxConcurrentNotifications = 8

type ReminderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    Notifier
	log         logging.Logger
	clock       dayClock
}

func NewReminderService(db *sql.DB, m repomanager.RepositoryManager, n Notifier, log logging.Logger, cfg *config.Config) *ReminderService {
	return &ReminderService{db: db, repomanager: m, notifier: n, log: log, clock: newDayClock(cfg)}
}

// Check notifies every subscribed user without a streak record today.
// Delivery failures are logged and do not fail the run; NotifiedUsers
// counts users with at least one successful delivery.
func (s *ReminderService) Check(ctx context.Context) (*ReminderResult, error) {
	today := timex.FormatDate(s.clock.today())

	subs, err := s.repomanager.Subscriptions(s.db).ListWithoutActivity(ctx, today)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "streak reminder check", "date", today, "subscriptions", len(subs))

	var (
		mu       sync.Mutex
		notified = make(map[string]struct{})
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentNotifications)
	for _, sub := range subs {
		g.Go(func() error {
			if err := s.notifier.Notify(gctx, sub, DefaultReminder); err != nil {
				s.log.Warn(gctx, "reminder delivery failed", "user_id", sub.UserID, "error", err)
				return nil
			}
			mu.Lock()
			notified[sub.UserID] = struct{}{}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &ReminderResult{Success: true, NotifiedUsers: len(notified)}, nil
}
