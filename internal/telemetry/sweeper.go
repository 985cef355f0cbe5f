// Package telemetry runs the background sweep that keeps robot
// connectivity honest: robots that stop reporting get flipped to offline
// and their subscribers alerted.
package telemetry

import (
	"context"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"farmwatch-backend/config"
	"farmwatch-backend/internal/alert"
	"farmwatch-backend/internal/store"
)

// Service owns the sweep loop and the alert worker pool it feeds.
type Service struct {
	cfg        *config.Config
	store      store.Store
	workerPool *alert.WorkerPool

	// lowBatteryAlerted tracks robots already alerted for low battery so
	// a robot sitting below the threshold does not alert on every sweep.
	lowBatteryAlerted map[string]bool
}

// NewService creates the sweeper and its worker pool.
func NewService(cfg *config.Config, s store.Store) *Service {
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	return &Service{
		cfg:               cfg,
		store:             s,
		workerPool:        alert.NewWorkerPool(cfg.WorkerPool.Size, s.DB(), &webpushOptions),
		lowBatteryAlerted: make(map[string]bool),
	}
}

// Run starts the sweep loop. It returns when ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Telemetry.Enabled {
		log.Println("telemetry sweep is disabled, not starting")
		return
	}
	log.Println("starting telemetry sweeper...")

	s.workerPool.Start(ctx)

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.cfg.Telemetry.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("telemetry sweeper shutting down")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.cfg.Telemetry.Interval)
		}
	}
}

// SweepOnce performs one staleness pass: flips stale robots to offline,
// alerts on each transition, and fires low-battery alerts for robots
// crossing the threshold.
func (s *Service) SweepOnce(ctx context.Context) {
	cutoff := store.Cutoff{Before: time.Now().UTC().Add(-s.cfg.Telemetry.OfflineAfter)}

	flipped, err := s.store.MarkStaleRobotsOffline(ctx, cutoff)
	if err != nil {
		log.Printf("staleness sweep failed: %v", err)
		return
	}
	for _, robot := range flipped {
		log.Printf("robot %s (%s) went offline, last active %s", robot.ID, robot.Name, robot.LastActive.Format(time.RFC3339))
		s.workerPool.Dispatch(alert.Job{RobotID: robot.ID, Kind: alert.KindOffline})
	}

	robots, err := s.store.ListRobots(ctx)
	if err != nil {
		log.Printf("battery sweep failed: %v", err)
		return
	}
	for _, robot := range robots {
		low := robot.BatteryLevel <= s.cfg.Telemetry.LowBatteryPercent
		switch {
		case low && !s.lowBatteryAlerted[robot.ID]:
			s.lowBatteryAlerted[robot.ID] = true
			s.workerPool.Dispatch(alert.Job{RobotID: robot.ID, Kind: alert.KindLowBattery})
		case !low:
			delete(s.lowBatteryAlerted, robot.ID)
		}
	}
}
