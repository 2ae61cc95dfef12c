package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-assignment.com/task-assignment/internal/constants"
	apperrors "task-assignment.com/task-assignment/internal/errors"
	model "task-assignment.com/task-assignment/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Transaction runs fn against a repository bound to a single transaction.
func (r *TaskRepository) Transaction(ctx context.Context, fn func(tx *TaskRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TaskRepository{db: tx})
	})
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

func (r *TaskRepository) FindByCode(ctx context.Context, code string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindDetail loads a task with its owner, files, edits and edit files.
func (r *TaskRepository) FindDetail(ctx context.Context, code string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at asc, id asc") }).
		Preload("Edits", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc, id asc") }).
		Preload("Edits.Files", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at asc, id asc") }).
		First(&task, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// TransitionStatus moves a task from one status to another only if it is
// still in the expected status. completedAt is written when non-nil.
func (r *TaskRepository) TransitionStatus(
	ctx context.Context,
	taskID uint,
	from, to constants.TaskStatus,
	completedAt *time.Time,
) error {
	updates := map[string]interface{}{"status": to}
	if completedAt != nil {
		updates["completed_at"] = completedAt.UTC()
	}

	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND status = ?", taskID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrStatusConflict
	}
	return nil
}

func (r *TaskRepository) AddFiles(ctx context.Context, files []model.File) error {
	if len(files) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&files).Error
}

func (r *TaskRepository) CreateEdit(ctx context.Context, edit *model.TaskEdit) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(edit).Error
}

// LatestEdit returns the most recently created edit of a task, or nil when
// the task has none.
func (r *TaskRepository) LatestEdit(ctx context.Context, taskID uint) (*model.TaskEdit, error) {
	var edits []model.TaskEdit
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at desc, id desc").
		Limit(1).
		Find(&edits).Error
	if err != nil {
		return nil, err
	}
	if len(edits) == 0 {
		return nil, nil
	}
	return &edits[0], nil
}

func (r *TaskRepository) FindEdit(ctx context.Context, id uint) (*model.TaskEdit, error) {
	var edit model.TaskEdit
	err := r.db.WithContext(ctx).First(&edit, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("edit request not found")
	}
	if err != nil {
		return nil, err
	}
	return &edit, nil
}

func (r *TaskRepository) CompleteEdit(ctx context.Context, editID uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.TaskEdit{}).
		Where("id = ? AND status = ?", editID, constants.EditPending).
		Updates(map[string]interface{}{
			"status":       constants.EditCompleted,
			"completed_at": at.UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrStatusConflict
	}
	return nil
}

func (r *TaskRepository) AddEditFiles(ctx context.Context, files []model.EditFile) error {
	if len(files) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&files).Error
}

func (r *TaskRepository) FindFile(ctx context.Context, storedName string, fileType constants.FileType) (*model.File, error) {
	var file model.File
	err := r.db.WithContext(ctx).First(&file, "filename = ? AND file_type = ?", storedName, fileType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *TaskRepository) FindEditFile(ctx context.Context, storedName string) (*model.EditFile, error) {
	var file model.EditFile
	err := r.db.WithContext(ctx).First(&file, "filename = ?", storedName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// List returns matching tasks with their owner, newest first.
func (r *TaskRepository) List(ctx context.Context, c Criteria) ([]model.Task, error) {
	var tasks []model.Task
	err := c.apply(r.db.WithContext(ctx).Model(&model.Task{})).
		Preload("User").
		Order("created_at desc, id desc").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Recent(ctx context.Context, c Criteria, limit int) ([]model.Task, error) {
	var tasks []model.Task
	err := c.apply(r.db.WithContext(ctx).Model(&model.Task{})).
		Preload("User").
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Count(ctx context.Context, c Criteria) (int64, error) {
	var count int64
	err := c.apply(r.db.WithContext(ctx).Model(&model.Task{})).Count(&count).Error
	return count, err
}

// SumPrice adds up prices in Go so the total keeps decimal precision
// regardless of how the driver stores the column.
func (r *TaskRepository) SumPrice(ctx context.Context, c Criteria) (decimal.Decimal, error) {
	var tasks []model.Task
	if err := c.apply(r.db.WithContext(ctx).Model(&model.Task{})).Select("price").Find(&tasks).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, t := range tasks {
		total = total.Add(t.Price)
	}
	return total, nil
}
