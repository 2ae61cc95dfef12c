package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-assignment.com/task-assignment/internal/constants"
	apperrors "task-assignment.com/task-assignment/internal/errors"
	model "task-assignment.com/task-assignment/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Validation("Email already exists in the system.")
	}
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ListByRole(ctx context.Context, role constants.Role) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("name asc").Find(&users).Error
	return users, err
}

func (r *UserRepository) CountByRole(ctx context.Context, role constants.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Removed lists the stored attachments whose rows a cascade deleted, so the
// caller can clear them from blob storage after commit.
type Removed struct {
	TaskFiles []model.File
	EditFiles []model.EditFile
	Edits     []model.TaskEdit
	Tasks     []model.Task
}

// DeleteCascade removes a user and everything the user owns in one
// transaction: task files, edit files, edits, tasks, then the user row.
func (r *UserRepository) DeleteCascade(ctx context.Context, userID uint) (*Removed, error) {
	removed := &Removed{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return err
		}

		if err := tx.Where("user_id = ?", userID).Find(&removed.Tasks).Error; err != nil {
			return err
		}
		taskIDs := make([]uint, 0, len(removed.Tasks))
		for _, t := range removed.Tasks {
			taskIDs = append(taskIDs, t.ID)
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Find(&removed.TaskFiles).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Find(&removed.Edits).Error; err != nil {
				return err
			}
		}
		editIDs := make([]uint, 0, len(removed.Edits))
		for _, e := range removed.Edits {
			editIDs = append(editIDs, e.ID)
		}
		if len(editIDs) > 0 {
			if err := tx.Where("edit_id IN ?", editIDs).Find(&removed.EditFiles).Error; err != nil {
				return err
			}
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.File{}).Error; err != nil {
				return err
			}
		}
		if len(editIDs) > 0 {
			if err := tx.Where("edit_id IN ?", editIDs).Delete(&model.EditFile{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", editIDs).Delete(&model.TaskEdit{}).Error; err != nil {
				return err
			}
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("id IN ?", taskIDs).Delete(&model.Task{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.User{}, userID).Error
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
