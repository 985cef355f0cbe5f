package alert

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"farmwatch-backend/internal/model"
)

// Kind classifies a robot alert.
type Kind string

const (
	KindOffline    Kind = "offline"
	KindLowBattery Kind = "low_battery"
)

// Job is one alert to fan out to the robot's subscribers.
type Job struct {
	RobotID string
	Kind    Kind
}

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans robot alerts out to push subscriptions on a fixed set
// of worker goroutines.
type WorkerPool struct {
	size    int
	jobs    chan Job
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Job, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("alert worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.sendAlertsForRobot(ctx, job)
		case <-ctx.Done():
			log.Printf("alert worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert for delivery.
func (wp *WorkerPool) Dispatch(job Job) {
	wp.jobs <- job
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}

// sendAlertsForRobot fetches the robot's subscriptions and pushes the
// alert to each of them.
func (wp *WorkerPool) sendAlertsForRobot(ctx context.Context, job Job) {
	var subscriptions []model.AlertSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_robot_mapping srm ON srm.alert_subscription_endpoint = alert_subscriptions.endpoint").
		Where("srm.robot_id = ?", job.RobotID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("error fetching subscriptions for robot %s: %v", job.RobotID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	robotLabel := job.RobotID
	var robot model.Robot
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&robot, "id = ?", job.RobotID).Error; err != nil {
		log.Printf("error fetching robot %s: %v", job.RobotID, err)
	} else if robot.Name != "" {
		robotLabel = robot.Name
	}

	var message string
	switch job.Kind {
	case KindLowBattery:
		message = fmt.Sprintf("Robot %s is running low on battery", robotLabel)
	default:
		message = fmt.Sprintf("Robot %s went offline", robotLabel)
	}

	log.Printf("sending %d alerts for robot %s (%s)", len(subscriptions), job.RobotID, job.Kind)
	for _, sub := range subscriptions {
		wp.sendAlert(ctx, sub, []byte(message))
	}
}

// sendAlert pushes a single notification and prunes the subscription if
// the push service reports it expired.
func (wp *WorkerPool) sendAlert(ctx context.Context, sub model.AlertSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending alert to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("subscription %s is expired, deleting", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
