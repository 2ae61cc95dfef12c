package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"task-assignment.com/task-assignment/internal/constants"
	apperrors "task-assignment.com/task-assignment/internal/errors"
	repository "task-assignment.com/task-assignment/internal/repositories"
)

func newUserService(f *fixture) *UserService {
	return NewUserService(f.users, f.tasks, f.blobs)
}

func TestUserService_Authenticate(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "ana@example.com", "password")
	if err != nil || user.ID != f.worker.ID {
		t.Fatalf("expected ana, got %v (%v)", user, err)
	}
	if _, err := svc.Authenticate(ctx, "ana@example.com", "nope"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost@example.com", "password"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected invalid credentials, got %v", err)
	}
}

func TestUserService_AddAndListUsers(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()

	in := NewUserInput{Name: "Zoe", Email: "zoe@example.com", Phone: "555", Expertise: "legal", Password: "pw"}
	user, err := svc.AddUser(ctx, f.admin, in)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if user.Role != constants.RoleUser || user.PasswordHash == "pw" {
		t.Errorf("unexpected user %+v", user)
	}

	if _, err := svc.AddUser(ctx, f.admin, in); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("duplicate email: expected validation error, got %v", err)
	}
	if _, err := svc.AddUser(ctx, f.worker, in); !errors.Is(err, apperrors.ErrAuthorization) {
		t.Errorf("non-admin add: expected authorization error, got %v", err)
	}

	users, err := svc.ListUsers(ctx, f.admin)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 || users[0].Name != "Ana" || users[1].Name != "Zoe" {
		t.Errorf("expected Ana and Zoe ordered by name, got %+v", users)
	}
}

func TestUserService_Passwords(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, f.worker, "wrong", "new", "new"); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("wrong current password: expected validation error, got %v", err)
	}
	if err := svc.ChangePassword(ctx, f.worker, "password", "new", "other"); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("mismatch: expected validation error, got %v", err)
	}
	if err := svc.ChangePassword(ctx, f.worker, "password", "new", "new"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ana@example.com", "new"); err != nil {
		t.Errorf("new password should authenticate: %v", err)
	}

	if err := svc.ResetPassword(ctx, f.worker, f.worker.ID, "x", "x"); !errors.Is(err, apperrors.ErrAuthorization) {
		t.Errorf("non-admin reset: expected authorization error, got %v", err)
	}
	if err := svc.ResetPassword(ctx, f.admin, f.worker.ID, "x", ""); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("missing confirm: expected validation error, got %v", err)
	}
	if err := svc.ResetPassword(ctx, f.admin, 999, "x", "x"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("unknown user: expected not found, got %v", err)
	}
	if err := svc.ResetPassword(ctx, f.admin, f.worker.ID, "reset", "reset"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ana@example.com", "reset"); err != nil {
		t.Errorf("reset password should authenticate: %v", err)
	}
}

func TestUserService_DeleteUserCascades(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()
	other := f.addUser(t, "Ben", "ben@example.com", constants.RoleUser)

	task := f.createTask(t, f.worker)
	_, _ = f.service.SubmitTask(ctx, f.worker, task.Code, submission("done.pdf"))
	_, _ = f.service.RequestEdit(ctx, f.admin, task.Code, "again", []Upload{{Filename: "notes.txt", Data: []byte("n")}})
	_, _ = f.service.SubmitEdit(ctx, f.worker, task.Code, submission("done-v2.pdf"))
	kept := f.createTask(t, other)

	if err := svc.DeleteUser(ctx, f.worker, other.ID); !errors.Is(err, apperrors.ErrAuthorization) {
		t.Errorf("non-admin delete: expected authorization error, got %v", err)
	}
	if err := svc.DeleteUser(ctx, f.admin, f.worker.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.users.FindByID(ctx, f.worker.ID); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("user should be gone, got %v", err)
	}
	if _, err := f.tasks.FindByCode(ctx, task.Code); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("task should be gone, got %v", err)
	}
	if _, err := f.tasks.FindByCode(ctx, kept.Code); err != nil {
		t.Errorf("other user's task must survive: %v", err)
	}

	var edits, editFiles int64
	f.db.Table("task_edits").Count(&edits)
	f.db.Table("edit_files").Count(&editFiles)
	if edits != 0 || editFiles != 0 {
		t.Errorf("expected edits and edit files removed, got %d and %d", edits, editFiles)
	}
	if got := f.blobs.liveCount(); got != 1 {
		t.Errorf("expected only the surviving brief blob, got %d", got)
	}

	if err := svc.DeleteUser(ctx, f.admin, f.worker.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestUserService_Profile(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f)
	ctx := context.Background()

	f.createTask(t, f.worker)
	done := f.createTask(t, f.worker)
	edited := f.createTask(t, f.worker)
	_, _ = f.service.SubmitTask(ctx, f.worker, done.Code, submission("a.pdf"))
	_, _ = f.service.SubmitTask(ctx, f.worker, edited.Code, submission("b.pdf"))
	_, _ = f.service.RequestEdit(ctx, f.admin, edited.Code, "again", nil)

	profile, err := svc.Profile(ctx, f.worker)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Pending != 1 || profile.Completed != 1 || profile.EditRequested != 1 {
		t.Errorf("unexpected counts %+v", profile)
	}
	if !profile.Earnings.Equal(decimal.NewFromInt(240)) {
		t.Errorf("expected earnings 240, got %s", profile.Earnings)
	}

	count, _ := f.tasks.Count(ctx, repository.Criteria{})
	if count != 3 {
		t.Errorf("expected 3 tasks, got %d", count)
	}
}
