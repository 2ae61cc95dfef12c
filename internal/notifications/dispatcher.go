package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "task-assignment.com/task-assignment/internal/errors"
	"task-assignment.com/task-assignment/internal/logging"
	model "task-assignment.com/task-assignment/internal/models"
	"task-assignment.com/task-assignment/internal/queue"
)

// Notifier is what the task lifecycle needs from the notification side.
// Every method is best-effort: an error means the message was not queued.
type Notifier interface {
	NotifyAssignment(ctx context.Context, user model.User, task model.Task) error
	NotifyCompletion(ctx context.Context, task model.Task, actor model.User, isEdit bool) error
	NotifyEditRequested(ctx context.Context, user model.User, task model.Task, instructions string) error
}

// Dispatcher formats notifications, pushes them onto a queue and runs a fixed
// pool of workers that deliver them through a Mailer.
type Dispatcher struct {
	queue       queue.Queue
	mailer      Mailer
	adminEmails []string

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewDispatcher(q queue.Queue, mailer Mailer, adminEmails []string, workers int) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		queue:       q,
		mailer:      mailer,
		adminEmails: adminEmails,
		ctx:         ctx,
		cancel:      cancel,
	}

	for i := 1; i <= workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	return d
}

func (d *Dispatcher) NotifyAssignment(ctx context.Context, user model.User, task model.Task) error {
	return d.enqueue(ctx, assignmentEmail(user, task))
}

func (d *Dispatcher) NotifyCompletion(ctx context.Context, task model.Task, actor model.User, isEdit bool) error {
	if len(d.adminEmails) == 0 {
		logging.Logger.WithField("task", task.Code).Warn("no admin emails configured for notifications")
		return nil
	}
	return d.enqueue(ctx, completionEmail(d.adminEmails, task, actor, isEdit))
}

func (d *Dispatcher) NotifyEditRequested(ctx context.Context, user model.User, task model.Task, instructions string) error {
	return d.enqueue(ctx, editRequestedEmail(user, task, instructions))
}

func (d *Dispatcher) enqueue(ctx context.Context, email Email) error {
	payload, err := json.Marshal(email)
	if err != nil {
		return err
	}

	if err := d.queue.Push(ctx, payload); err != nil {
		if errors.Is(err, queue.ErrQueueFull) {
			return apperrors.ErrQueueFull
		}
		return apperrors.Notification("failed to queue notification: " + err.Error())
	}
	return nil
}

func (d *Dispatcher) worker(workerID int) {
	defer d.wg.Done()

	log := logging.Logger.WithField("worker", workerID)
	log.Debug("notification worker started")

	for {
		payload, err := d.queue.Pop(d.ctx)
		if err != nil {
			if errors.Is(err, queue.ErrClosed) || errors.Is(err, context.Canceled) {
				log.Debug("notification worker stopped")
				return
			}
			log.WithError(err).Error("failed to read notification queue")
			select {
			case <-time.After(time.Second):
			case <-d.ctx.Done():
				return
			}
			continue
		}

		d.deliver(log, payload)
	}
}

func (d *Dispatcher) deliver(log *logrus.Entry, payload []byte) {
	var email Email
	if err := json.Unmarshal(payload, &email); err != nil {
		log.WithError(err).Error("dropping malformed notification")
		return
	}

	if err := d.mailer.Send(d.ctx, email); err != nil {
		log.WithError(err).WithField("subject", email.Subject).Error("failed to send notification")
		return
	}

	log.WithFields(logrus.Fields{
		"to":      email.To,
		"subject": email.Subject,
	}).Info("notification sent")
}

// Shutdown stops accepting work, lets workers drain what is queued and waits
// for them until ctx expires.
func (d *Dispatcher) Shutdown(ctx context.Context) {
	_ = d.queue.Close()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Logger.Info("notification workers shut down cleanly")
	case <-ctx.Done():
		d.cancel()
		logging.Logger.Warn("notification worker shutdown timed out")
	}
	d.cancel()
}
