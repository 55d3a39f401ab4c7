package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/habit-tracker-be/internal/metrics"
	"github.com/isdelr/habit-tracker-be/internal/models"
	"github.com/isdelr/habit-tracker-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DateLayout is the completion date format reminders check against.
const DateLayout = "2006-01-02"

// Scheduler periodically reminds users about daily habits they have not
// completed yet.
type Scheduler struct {
	completionSvc   services.CompletionServiceProvider
	notificationSvc services.NotificationServiceProvider
	spec            string
	cron            *cron.Cron
	now             func() time.Time
}

// NewScheduler creates a new scheduler running on the standard cron spec.
func NewScheduler(spec string, completionSvc services.CompletionServiceProvider, notificationSvc services.NotificationServiceProvider) *Scheduler {
	return &Scheduler{
		completionSvc:   completionSvc,
		notificationSvc: notificationSvc,
		spec:            spec,
		now:             time.Now,
	}
}

// Start registers the reminder job and starts the cron runner in its own
// goroutine.
func (s *Scheduler) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() { s.SendReminders(context.Background()) }); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.spec, err)
	}
	s.cron = c
	s.cron.Start()
	log.Info().Str("schedule", s.spec).Msg("Starting habit reminder scheduler")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped habit reminder scheduler")
}

// SendReminders creates one reminder notification per user with daily habits
// still open today and returns how many were sent. Failures for a single user
// are logged and skipped.
func (s *Scheduler) SendReminders(ctx context.Context) int {
	today := s.now().Format(DateLayout)

	pending, err := s.completionSvc.PendingHabitCounts(ctx, today)
	if err != nil {
		log.Error().Err(err).Str("date", today).Msg("Reminders: failed to load pending habits")
		return 0
	}

	sent := 0
	for userID, count := range pending {
		if _, err := s.notificationSvc.CreateNotification(ctx, userID, reminderMessage(count), models.NotificationTypeReminder); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Reminders: failed to create notification")
			continue
		}
		sent++
	}

	metrics.RemindersSent.Add(float64(sent))
	log.Info().Str("date", today).Int("sent", sent).Msg("Reminders: run complete")
	return sent
}

func reminderMessage(count int) string {
	if count == 1 {
		return "You have 1 habit left to complete today."
	}
	return fmt.Sprintf("You have %d habits left to complete today.", count)
}
