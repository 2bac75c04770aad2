package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"greenCommuteAPI/internal/notification"
)

type PushNotificationProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

// NotificationDispatcher delivers stored notifications to devices on a small
// worker pool so push latency never holds up a request.
type NotificationDispatcher struct {
	providerMu   sync.RWMutex
	pushProvider PushNotificationProvider
	mu           sync.RWMutex
	jobQueue     chan *DispatchJob
	stopped      bool
	wg           sync.WaitGroup
	log          logrus.FieldLogger
}

type DispatchJob struct {
	Notification *notification.Notification
	Tokens       []notification.DeviceToken
}

func NewNotificationDispatcher(workers int, log logrus.FieldLogger) *NotificationDispatcher {
	d := &NotificationDispatcher{
		jobQueue: make(chan *DispatchJob, 100),
		log:      log,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// SetPushProvider injects the real FCM provider at startup.
func (d *NotificationDispatcher) SetPushProvider(provider PushNotificationProvider) {
	d.providerMu.Lock()
	d.pushProvider = provider
	d.providerMu.Unlock()
}

func (d *NotificationDispatcher) provider() PushNotificationProvider {
	d.providerMu.RLock()
	defer d.providerMu.RUnlock()
	return d.pushProvider
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobQueue {
		d.processJob(job)
	}
}

func (d *NotificationDispatcher) processJob(job *DispatchJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notif := job.Notification
	provider := d.provider()
	if provider == nil || len(job.Tokens) == 0 {
		d.log.WithFields(logrus.Fields{
			"notification_id": notif.ID,
			"tokens":          len(job.Tokens),
			"provider_set":    provider != nil,
		}).Debug("skipping push")
		return
	}

	if err := provider.SendPush(ctx, job.Tokens, notif.Title, notif.Message, notif.Data); err != nil {
		d.log.WithError(err).WithField("user_id", notif.UserID).Warn("push failed")
	}
}

// Dispatch queues a push. A full queue drops the push after a short wait; the
// notification itself is already stored.
func (d *NotificationDispatcher) Dispatch(notif *notification.Notification, tokens []notification.DeviceToken) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return
	}

	select {
	case d.jobQueue <- &DispatchJob{Notification: notif, Tokens: tokens}:
	case <-time.After(5 * time.Second):
		d.log.WithField("notification_id", notif.ID).Warn("failed to queue push: queue full")
	}
}

// Stop drains queued pushes and waits for the workers to exit.
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.jobQueue)
	d.mu.Unlock()

	d.wg.Wait()
	d.log.Info("notification dispatcher stopped")
}
