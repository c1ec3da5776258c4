// Package scheduler fires the daily summary and the daily reset at most
// once per calendar date in the administrative timezone. The last fired
// dates are persisted, so a restart inside the trigger minute does not fire
// again. A process that is down for the whole trigger minute misses that day.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"telegram-order-bot/internal/metrics"
	"telegram-order-bot/internal/models"
	"telegram-order-bot/internal/storage"
)

const dateLayout = "2006-01-02"

// Actions is what the scheduler triggers.
type Actions interface {
	// AutoSummary exports the open orders to the admin and snapshots them
	// into history. It must not clear orders.
	AutoSummary(date string) error
	// ResetOrders clears all open orders and returns the affected count.
	ResetOrders() (int, error)
	NotifyAdmin(text string)
}

type Options struct {
	SummaryAt TimeOfDay
	ResetAt   TimeOfDay
	Location  *time.Location
	Interval  time.Duration
	Clock     clockwork.Clock
	Logger    *logrus.Logger
}

type Scheduler struct {
	actions Actions
	store   storage.Store
	opts    Options
	log     *logrus.Entry

	mu    sync.Mutex
	state models.SchedulerState
}

// New loads the persisted SchedulerState.
func New(actions Actions, store storage.Store, opts Options) (*Scheduler, error) {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	s := &Scheduler{
		actions: actions,
		store:   store,
		opts:    opts,
		log:     opts.Logger.WithField("component", "scheduler"),
	}
	if _, err := store.Load(storage.DocScheduler, &s.state); err != nil {
		return nil, fmt.Errorf("scheduler: load state: %w", err)
	}
	return s, nil
}

// Start registers the polling job and starts gocron.
func (s *Scheduler) Start() (gocron.Scheduler, error) {
	gs, err := gocron.NewScheduler(
		gocron.WithClock(s.opts.Clock),
		gocron.WithLocation(s.opts.Location),
	)
	if err != nil {
		return nil, err
	}

	_, err = gs.NewJob(
		gocron.DurationJob(s.opts.Interval),
		gocron.NewTask(s.CheckScheduledTasks),
		gocron.WithName("daily-orders"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, err
	}

	gs.Start()
	s.log.WithFields(logrus.Fields{
		"summary_at": s.opts.SummaryAt.String(),
		"reset_at":   s.opts.ResetAt.String(),
		"interval":   s.opts.Interval.String(),
	}).Info("🕐 Планировщик запущен")
	return gs, nil
}

// State returns a copy of the current idempotency state.
func (s *Scheduler) State() models.SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CheckScheduledTasks is one tick. Overlapping ticks are serialised.
func (s *Scheduler) CheckScheduledTasks() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Clock.Now().In(s.opts.Location)
	today := now.Format(dateLayout)

	if s.opts.SummaryAt.Matches(now) && s.state.LastSummaryDate != today {
		ok := s.run("summary", today, func() error {
			return s.actions.AutoSummary(today)
		})
		if ok {
			s.state.LastSummaryDate = today
			s.state.SummaryRuns++
		}
		s.persistLocked()
	}

	if s.opts.ResetAt.Matches(now) && s.state.LastResetDate != today {
		var cleared int
		ok := s.run("reset", today, func() (err error) {
			cleared, err = s.actions.ResetOrders()
			return err
		})
		if ok {
			s.state.LastResetDate = today
			s.state.ResetRuns++
			s.actions.NotifyAdmin(fmt.Sprintf("🔄 Заказы сброшены, очищено точек: %d", cleared))
		}
		s.persistLocked()
	}
}

// run executes one action; failures and panics are logged, counted and
// reported to the admin, never propagated.
func (s *Scheduler) run(action, date string, fn func() error) bool {
	entry := s.log.WithFields(logrus.Fields{"action": action, "date": date})
	if err := safeCall(fn); err != nil {
		s.state.Failures++
		metrics.ScheduledRuns.WithLabelValues(action, "error").Inc()
		entry.WithError(err).Error("❌ Ошибка плановой задачи")
		s.actions.NotifyAdmin(fmt.Sprintf("⚠️ Ошибка плановой задачи %s: %v", action, err))
		return false
	}
	metrics.ScheduledRuns.WithLabelValues(action, "ok").Inc()
	entry.Info("✅ Плановая задача выполнена")
	return true
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (s *Scheduler) persistLocked() {
	if err := s.store.Save(storage.DocScheduler, s.state); err != nil {
		s.log.WithError(err).Warn("Не удалось сохранить состояние планировщика")
	}
}
