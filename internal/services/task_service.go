package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"task-assignment.com/task-assignment/internal/constants"
	apperrors "task-assignment.com/task-assignment/internal/errors"
	"task-assignment.com/task-assignment/internal/logging"
	model "task-assignment.com/task-assignment/internal/models"
	"task-assignment.com/task-assignment/internal/notifications"
	repository "task-assignment.com/task-assignment/internal/repositories"
	"task-assignment.com/task-assignment/internal/reporting"
	"task-assignment.com/task-assignment/internal/storage"
)

const maxCodeAttempts = 5

var errCodeTaken = errors.New("task code already taken")

type TaskService struct {
	tasks    *repository.TaskRepository
	users    *repository.UserRepository
	blobs    storage.Store
	notifier notifications.Notifier
	codes    *CodeGenerator
	now      Clock
}

func NewTaskService(
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	blobs storage.Store,
	notifier notifications.Notifier,
	codes *CodeGenerator,
	now Clock,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		blobs:    blobs,
		notifier: notifier,
		codes:    codes,
		now:      now,
	}
}

type CreateTaskInput struct {
	UserID      uint
	Description string
	Deadline    string
	Price       string
	Files       []Upload
}

func (s *TaskService) CreateTask(ctx context.Context, actor *model.User, in CreateTaskInput) (*model.Task, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrAdminRequired
	}

	description := strings.TrimSpace(in.Description)
	if in.UserID == 0 || description == "" || strings.TrimSpace(in.Deadline) == "" || strings.TrimSpace(in.Price) == "" {
		return nil, apperrors.Validation("All fields are required.")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil || price.IsNegative() {
		return nil, apperrors.Validation("Price must be a non-negative number.")
	}
	deadline, err := time.Parse(reporting.DateLayout, strings.TrimSpace(in.Deadline))
	if err != nil {
		return nil, apperrors.Validation("Deadline must use the YYYY-MM-DD format.")
	}
	owner, err := s.users.FindByID(ctx, in.UserID)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.Validation("Selected user does not exist.")
	}
	if err != nil {
		return nil, err
	}
	uploads, err := usableUploads(in.Files)
	if err != nil {
		return nil, err
	}

	var task *model.Task
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		task, err = s.createTaskRecord(ctx, owner.ID, description, deadline, price.Round(2), uploads)
		if !errors.Is(err, errCodeTaken) {
			break
		}
		logging.Logger.WithField("attempt", attempt).Warn("task code collision, retrying")
	}
	if err != nil {
		return nil, err
	}

	logging.Logger.WithFields(logrus.Fields{
		"task":  task.Code,
		"owner": owner.ID,
		"files": len(uploads),
	}).Info("task created")

	s.notify(func() error { return s.notifier.NotifyAssignment(ctx, *owner, *task) }, task.Code)
	return task, nil
}

func (s *TaskService) createTaskRecord(
	ctx context.Context,
	ownerID uint,
	description string,
	deadline time.Time,
	price decimal.Decimal,
	uploads []Upload,
) (*model.Task, error) {
	code, err := s.codes.Next()
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		Code:        code,
		Description: description,
		Deadline:    deadline,
		Price:       price,
		Status:      constants.StatusPending,
		UserID:      ownerID,
	}

	batch := newBlobBatch(s.blobs)
	err = s.tasks.Transaction(ctx, func(tx *repository.TaskRepository) error {
		if err := tx.CreateTask(ctx, task); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errCodeTaken
			}
			return err
		}

		stored, err := batch.putAll(ctx, storage.Scope{
			EntityKind: storage.EntityTask,
			EntityID:   task.ID,
			FileKind:   string(constants.FileTask),
		}, uploads)
		if err != nil {
			return err
		}
		return tx.AddFiles(ctx, taskFiles(task.ID, constants.FileTask, stored))
	})
	if err != nil {
		batch.rollback(ctx)
		return nil, err
	}
	return task, nil
}

func (s *TaskService) SubmitTask(ctx context.Context, actor *model.User, code string, files []Upload) (*model.Task, error) {
	task, err := s.tasks.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if task.UserID != actor.ID {
		return nil, apperrors.ErrNotTaskOwner
	}
	if task.Status != constants.StatusPending {
		return nil, apperrors.InvalidState("This task has already been submitted.")
	}
	uploads, err := usableUploads(files)
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, apperrors.ErrNoFiles
	}

	completedAt := s.now().UTC()
	batch := newBlobBatch(s.blobs)
	err = s.tasks.Transaction(ctx, func(tx *repository.TaskRepository) error {
		if err := tx.TransitionStatus(ctx, task.ID, constants.StatusPending, constants.StatusCompleted, &completedAt); err != nil {
			return err
		}

		stored, err := batch.putAll(ctx, storage.Scope{
			EntityKind: storage.EntityTask,
			EntityID:   task.ID,
			FileKind:   string(constants.FileSubmission),
		}, uploads)
		if err != nil {
			return err
		}
		return tx.AddFiles(ctx, taskFiles(task.ID, constants.FileSubmission, stored))
	})
	if err != nil {
		batch.rollback(ctx)
		return nil, err
	}

	task.Status = constants.StatusCompleted
	task.CompletedAt = &completedAt

	logging.Logger.WithFields(logrus.Fields{"task": task.Code, "user": actor.ID}).Info("task submitted")
	s.notify(func() error { return s.notifier.NotifyCompletion(ctx, *task, *actor, false) }, task.Code)
	return task, nil
}

func (s *TaskService) RequestEdit(
	ctx context.Context,
	actor *model.User,
	code string,
	instructions string,
	files []Upload,
) (*model.TaskEdit, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrAdminRequired
	}
	task, err := s.tasks.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if task.Status != constants.StatusCompleted {
		return nil, apperrors.InvalidState("Edits can only be requested on completed tasks.")
	}
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return nil, apperrors.Validation("Edit instructions are required.")
	}
	uploads, err := usableUploads(files)
	if err != nil {
		return nil, err
	}

	edit := &model.TaskEdit{
		TaskID:       task.ID,
		Instructions: instructions,
		Status:       constants.EditPending,
	}
	batch := newBlobBatch(s.blobs)
	err = s.tasks.Transaction(ctx, func(tx *repository.TaskRepository) error {
		if err := tx.TransitionStatus(ctx, task.ID, constants.StatusCompleted, constants.StatusEditRequested, nil); err != nil {
			return err
		}
		if err := tx.CreateEdit(ctx, edit); err != nil {
			return err
		}

		stored, err := batch.putAll(ctx, storage.Scope{
			EntityKind: storage.EntityEdit,
			EntityID:   edit.ID,
			FileKind:   string(constants.FileInstruction),
		}, uploads)
		if err != nil {
			return err
		}
		return tx.AddEditFiles(ctx, editFiles(edit.ID, constants.FileInstruction, stored))
	})
	if err != nil {
		batch.rollback(ctx)
		return nil, err
	}
	task.Status = constants.StatusEditRequested

	logging.Logger.WithFields(logrus.Fields{"task": task.Code, "edit": edit.ID}).Info("edit requested")
	s.notify(func() error {
		owner, err := s.users.FindByID(ctx, task.UserID)
		if err != nil {
			return err
		}
		return s.notifier.NotifyEditRequested(ctx, *owner, *task, instructions)
	}, task.Code)
	return edit, nil
}

func (s *TaskService) SubmitEdit(ctx context.Context, actor *model.User, code string, files []Upload) (*model.TaskEdit, error) {
	task, err := s.tasks.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if task.UserID != actor.ID {
		return nil, apperrors.ErrNotTaskOwner
	}
	if task.Status != constants.StatusEditRequested {
		return nil, apperrors.InvalidState("No edit has been requested for this task.")
	}
	edit, err := s.tasks.LatestEdit(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	if edit == nil || edit.Status != constants.EditPending {
		return nil, apperrors.InvalidState("No pending edit request found for this task.")
	}
	uploads, err := usableUploads(files)
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, apperrors.ErrNoFiles
	}

	completedAt := s.now().UTC()
	batch := newBlobBatch(s.blobs)
	err = s.tasks.Transaction(ctx, func(tx *repository.TaskRepository) error {
		if err := tx.CompleteEdit(ctx, edit.ID, completedAt); err != nil {
			return err
		}

		stored, err := batch.putAll(ctx, storage.Scope{
			EntityKind: storage.EntityEdit,
			EntityID:   edit.ID,
			FileKind:   string(constants.FileSubmission),
		}, uploads)
		if err != nil {
			return err
		}
		if err := tx.AddEditFiles(ctx, editFiles(edit.ID, constants.FileSubmission, stored)); err != nil {
			return err
		}
		return tx.TransitionStatus(ctx, task.ID, constants.StatusEditRequested, constants.StatusCompleted, &completedAt)
	})
	if err != nil {
		batch.rollback(ctx)
		return nil, err
	}

	edit.Status = constants.EditCompleted
	edit.CompletedAt = &completedAt
	task.Status = constants.StatusCompleted
	task.CompletedAt = &completedAt

	logging.Logger.WithFields(logrus.Fields{"task": task.Code, "edit": edit.ID}).Info("edit submitted")
	s.notify(func() error { return s.notifier.NotifyCompletion(ctx, *task, *actor, true) }, task.Code)
	return edit, nil
}

func (s *TaskService) GetTaskDetail(ctx context.Context, actor *model.User, code string) (*model.Task, error) {
	task, err := s.tasks.FindDetail(ctx, code)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && task.UserID != actor.ID {
		return nil, apperrors.ErrNotTaskOwner
	}
	return task, nil
}

// Download is the content of a stored attachment.
type Download struct {
	Filename string
	Data     []byte
}

// OpenFile reads an attachment. fileType is "task" or "submission" for task
// files and "edit" for any file attached to an edit request.
func (s *TaskService) OpenFile(ctx context.Context, actor *model.User, fileType, storedName string) (*Download, error) {
	var (
		scope    storage.Scope
		original string
		taskID   uint
	)

	switch constants.FileType(fileType) {
	case constants.FileTask, constants.FileSubmission:
		file, err := s.tasks.FindFile(ctx, storedName, constants.FileType(fileType))
		if err != nil {
			return nil, err
		}
		scope = storage.Scope{EntityKind: storage.EntityTask, EntityID: file.TaskID, FileKind: string(file.FileType)}
		original, taskID = file.OriginalFilename, file.TaskID
	case storage.EntityEdit:
		file, err := s.tasks.FindEditFile(ctx, storedName)
		if err != nil {
			return nil, err
		}
		edit, err := s.tasks.FindEdit(ctx, file.EditID)
		if err != nil {
			return nil, err
		}
		scope = storage.Scope{EntityKind: storage.EntityEdit, EntityID: edit.ID, FileKind: string(file.FileType)}
		original, taskID = file.OriginalFilename, edit.TaskID
	default:
		return nil, apperrors.Validation("Invalid file type.")
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && task.UserID != actor.ID {
		return nil, apperrors.Authorization("You do not have permission to access this file.")
	}

	data, err := s.blobs.Get(ctx, scope, storedName)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperrors.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Download{Filename: original, Data: data}, nil
}

// TaskFilter holds the listing criteria as they arrive from a request.
type TaskFilter struct {
	Code      string
	UserID    *uint
	Status    string
	Period    string
	StartDate string
	EndDate   string
}

func (s *TaskService) ListTasks(ctx context.Context, actor *model.User, f TaskFilter) ([]model.Task, error) {
	criteria := repository.Criteria{
		OwnerID:      f.UserID,
		CodeContains: strings.TrimSpace(f.Code),
	}
	if !actor.IsAdmin() {
		id := actor.ID
		criteria.OwnerID = &id
	}

	if status := strings.TrimSpace(f.Status); status != "" && status != "all" {
		if !constants.TaskStatus(status).Valid() {
			return nil, apperrors.Validation("Unknown task status: " + status)
		}
		criteria.Status = constants.TaskStatus(status)
	}

	window := reporting.TrailingWindow(f.Period, f.StartDate, f.EndDate, s.now())
	if window.From != nil || window.Before != nil {
		criteria.Window = &repository.TimeWindow{
			Column:      repository.ColumnCreatedAt,
			From:        window.From,
			To:          window.Before,
			ToExclusive: true,
		}
	}

	return s.tasks.List(ctx, criteria)
}

// ListEditRequests returns the actor's tasks that are waiting on an edit.
func (s *TaskService) ListEditRequests(ctx context.Context, actor *model.User) ([]model.Task, error) {
	id := actor.ID
	return s.tasks.List(ctx, repository.Criteria{
		OwnerID: &id,
		Status:  constants.StatusEditRequested,
	})
}

func (s *TaskService) notify(send func() error, code string) {
	if err := send(); err != nil {
		logging.Logger.WithField("task", code).WithError(err).Warn("notification not queued")
	}
}

func taskFiles(taskID uint, fileType constants.FileType, stored []storedBlob) []model.File {
	files := make([]model.File, 0, len(stored))
	for _, b := range stored {
		files = append(files, model.File{
			Filename:         b.StoredName,
			OriginalFilename: b.Original,
			FileType:         fileType,
			UploadedAt:       time.Now().UTC(),
			TaskID:           taskID,
		})
	}
	return files
}

func editFiles(editID uint, fileType constants.FileType, stored []storedBlob) []model.EditFile {
	files := make([]model.EditFile, 0, len(stored))
	for _, b := range stored {
		files = append(files, model.EditFile{
			Filename:         b.StoredName,
			OriginalFilename: b.Original,
			FileType:         fileType,
			UploadedAt:       time.Now().UTC(),
			EditID:           editID,
		})
	}
	return files
}
