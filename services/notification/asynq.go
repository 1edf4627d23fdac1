package notification

import (
	"encoding/json"
	"fmt"

	"roamly/config"
	"roamly/models"

	"github.com/hibiken/asynq"
)

// TypeSendNotification is the asynq task type consumed by the worker.
const TypeSendNotification = "notification:send"

// AsynqNotificationService enqueues notification tasks onto the redis-backed
// queue processed by cron.InitNotificationWorker.
type AsynqNotificationService struct {
	client *asynq.Client
}

// NewAsynqNotificationService builds the queue client from AppConfig.
func NewAsynqNotificationService() *AsynqNotificationService {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
	})
	return &AsynqNotificationService{client: client}
}

// Enqueue hands the payload to the queue and returns immediately.
func (s *AsynqNotificationService) Enqueue(payload models.NotificationPayload) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	task := asynq.NewTask(TypeSendNotification, b)
	if _, err := s.client.Enqueue(task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}
