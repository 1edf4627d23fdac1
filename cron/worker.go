package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"roamly/config"
	"roamly/models"
	"roamly/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// Mailer delivers a notification to its recipient. The default
// implementation only logs; a push or email sender slots in here.
type Mailer interface {
	Deliver(ctx context.Context, payload models.NotificationPayload) error
}

// LogMailer writes deliveries to the process log.
type LogMailer struct{}

func (LogMailer) Deliver(_ context.Context, p models.NotificationPayload) error {
	log.Printf("[NotificationHandler] 📬 %s → %s: %s — %s", p.Kind, p.RecipientID, p.Subject, p.Body)
	return nil
}

// InitNotificationWorker runs the async worker in background.
func InitNotificationWorker(mailer Mailer) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeSendNotification, handleNotificationTask(mailer))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[NotificationWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleNotificationTask(mailer Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.NotificationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[NotificationHandler] 🔴 Invalid payload: %v", err)
			return err
		}

		if err := mailer.Deliver(ctx, p); err != nil {
			log.Printf("[NotificationHandler] ❌ Failed to deliver notification: %v", err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[NotificationWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
