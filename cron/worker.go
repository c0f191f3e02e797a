package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"serenity/config"
	"serenity/models"
	"serenity/services/messaging"
)

const TypeEventReminder = "reminder:event"

// reminderLead is how far ahead of the event date the reminder fires.
const reminderLead = 24 * time.Hour

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// Scheduler enqueues event reminders onto the asynq queue.
type Scheduler struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{client: asynq.NewClient(redisOpts()), logger: logger}
}

// ScheduleEventReminder schedules a WhatsApp reminder one day before the
// event. Dates already inside the lead window get a near-immediate reminder.
func (s *Scheduler) ScheduleEventReminder(_ context.Context, p models.ReminderPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal reminder payload: %w", err)
	}

	eventDay, err := time.Parse("2006-01-02", p.EventDate)
	if err != nil {
		return fmt.Errorf("parse event date %q: %w", p.EventDate, err)
	}

	fireAt := eventDay.Add(-reminderLead)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}
	if time.Until(fireAt) <= 0 {
		opts = []asynq.Option{asynq.ProcessIn(time.Minute)}
	}

	info, err := s.client.Enqueue(asynq.NewTask(TypeEventReminder, payload), opts...)
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	s.logger.Info("Event reminder scheduled",
		zap.String("taskId", info.ID), zap.String("waId", p.WaID), zap.String("eventDate", p.EventDate))
	return nil
}

func (s *Scheduler) Close() error {
	return s.client.Close()
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(messenger messaging.Messenger, hotelName string, logger *zap.Logger) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEventReminder, handleReminderTask(messenger, hotelName, logger))

	go func() {
		logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Reminder worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Reminder worker giving up; reminders disabled")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

func handleReminderTask(messenger messaging.Messenger, hotelName string, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return err
		}

		body := fmt.Sprintf("Reminder from %s: your event on %s is coming up tomorrow (reference %s). We look forward to hosting you!",
			hotelName, p.EventDate, p.BookingRef)
		if err := messenger.SendText(ctx, p.WaID, body); err != nil {
			logger.Error("Failed to send event reminder",
				zap.String("waId", p.WaID), zap.String("eventDate", p.EventDate), zap.Error(err))
			return err
		}

		logger.Info("Event reminder sent",
			zap.String("waId", p.WaID), zap.String("eventDate", p.EventDate))
		return nil
	}
}
