package notifications

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "task-assignment.com/task-assignment/internal/errors"
	"task-assignment.com/task-assignment/internal/logging"
	model "task-assignment.com/task-assignment/internal/models"
	"task-assignment.com/task-assignment/internal/queue"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Email
	err  error
}

func (m *recordingMailer) Send(_ context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *recordingMailer) emails() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Email(nil), m.sent...)
}

func init() {
	logging.Discard()
}

func sampleTask() model.Task {
	return model.Task{
		Code:        "AB12CD34",
		Description: "Translate the brochure",
		Deadline:    time.Date(2026, time.May, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestDispatcher_DeliversQueuedNotifications(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(queue.NewMemoryQueue(10), mailer, []string{"boss@example.com"}, 2)

	ctx := context.Background()
	user := model.User{Name: "Ana", Email: "ana@example.com"}
	task := sampleTask()

	if err := d.NotifyAssignment(ctx, user, task); err != nil {
		t.Fatalf("assignment: %v", err)
	}
	if err := d.NotifyCompletion(ctx, task, user, true); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if err := d.NotifyEditRequested(ctx, user, task, "Fix the title"); err != nil {
		t.Fatalf("edit requested: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d.Shutdown(shutdownCtx)

	sent := mailer.emails()
	if len(sent) != 3 {
		t.Fatalf("expected 3 emails, got %d", len(sent))
	}

	subjects := map[string]Email{}
	for _, e := range sent {
		subjects[e.Subject] = e
	}

	assigned, ok := subjects["New Task Assigned - AB12CD34"]
	if !ok || assigned.To[0] != "ana@example.com" || !strings.Contains(assigned.Text, "04-05-2026") {
		t.Errorf("unexpected assignment email: %+v", assigned)
	}
	edited, ok := subjects["Task Edited - AB12CD34"]
	if !ok || edited.To[0] != "boss@example.com" || !strings.Contains(edited.Text, "edited by Ana") {
		t.Errorf("unexpected completion email: %+v", edited)
	}
	if e, ok := subjects["Edit Requested - AB12CD34"]; !ok || !strings.Contains(e.Text, "Fix the title") {
		t.Errorf("unexpected edit email: %+v", e)
	}
}

func TestDispatcher_CompletionWithoutAdminsIsSkipped(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(queue.NewMemoryQueue(1), mailer, nil, 1)
	defer d.Shutdown(context.Background())

	if err := d.NotifyCompletion(context.Background(), sampleTask(), model.User{Name: "Ana"}, false); err != nil {
		t.Errorf("expected silent skip, got %v", err)
	}
}

func TestDispatcher_FullQueueIsNotificationError(t *testing.T) {
	q := queue.NewMemoryQueue(1)
	d := NewDispatcher(q, &recordingMailer{}, nil, 0)
	defer d.Shutdown(context.Background())

	ctx := context.Background()
	user := model.User{Email: "ana@example.com"}

	if err := d.NotifyAssignment(ctx, user, sampleTask()); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	err := d.NotifyAssignment(ctx, user, sampleTask())
	if !errors.Is(err, apperrors.ErrNotification) {
		t.Errorf("expected notification error, got %v", err)
	}
}

func TestDispatcher_MailerFailureDoesNotStopWorkers(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	d := NewDispatcher(queue.NewMemoryQueue(5), mailer, nil, 1)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := d.NotifyAssignment(ctx, model.User{Email: "a@b.c"}, sampleTask()); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d.Shutdown(shutdownCtx)

	if len(mailer.emails()) != 0 {
		t.Error("failing mailer should record nothing")
	}
}
