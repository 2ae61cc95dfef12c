package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"task-assignment.com/task-assignment/internal/auth"
	"task-assignment.com/task-assignment/internal/constants"
	apperrors "task-assignment.com/task-assignment/internal/errors"
	"task-assignment.com/task-assignment/internal/logging"
	model "task-assignment.com/task-assignment/internal/models"
	repository "task-assignment.com/task-assignment/internal/repositories"
	"task-assignment.com/task-assignment/internal/storage"
)

type UserService struct {
	users *repository.UserRepository
	tasks *repository.TaskRepository
	blobs storage.Store
}

func NewUserService(users *repository.UserRepository, tasks *repository.TaskRepository, blobs storage.Store) *UserService {
	return &UserService{users: users, tasks: tasks, blobs: blobs}
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

type NewUserInput struct {
	Name      string
	Email     string
	Phone     string
	Expertise string
	Password  string
}

// AddUser creates an account with the user role.
func (s *UserService) AddUser(ctx context.Context, actor *model.User, in NewUserInput) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrAdminRequired
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.Validation("Name, email and password are required.")
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Validation("Email already exists in the system.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		Expertise:    strings.TrimSpace(in.Expertise),
		PasswordHash: hash,
		Role:         constants.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logging.Logger.WithFields(logrus.Fields{"user": user.ID, "by": actor.ID}).Info("user created")
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, actor *model.User) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrAdminRequired
	}
	return s.users.ListByRole(ctx, constants.RoleUser)
}

func (s *UserService) ChangePassword(ctx context.Context, actor *model.User, current, next, confirm string) error {
	if !auth.VerifyPassword(actor.PasswordHash, current) {
		return apperrors.Validation("Current password is incorrect.")
	}
	if next == "" {
		return apperrors.Validation("New password is required.")
	}
	if next != confirm {
		return apperrors.Validation("New passwords do not match.")
	}
	return s.setPassword(ctx, actor.ID, next)
}

func (s *UserService) ResetPassword(ctx context.Context, actor *model.User, userID uint, next, confirm string) error {
	if !actor.IsAdmin() {
		return apperrors.ErrAdminRequired
	}
	if next == "" || confirm == "" {
		return apperrors.Validation("Both password fields are required.")
	}
	if next != confirm {
		return apperrors.Validation("Passwords do not match.")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.setPassword(ctx, userID, next); err != nil {
		return err
	}
	logging.Logger.WithFields(logrus.Fields{"user": userID, "by": actor.ID}).Info("password reset")
	return nil
}

func (s *UserService) setPassword(ctx context.Context, userID uint, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, hash)
}

// DeleteUser removes a user with every task, edit and attachment they own.
// Blob removal runs after the rows are gone and only logs failures.
func (s *UserService) DeleteUser(ctx context.Context, actor *model.User, userID uint) error {
	if !actor.IsAdmin() {
		return apperrors.ErrAdminRequired
	}
	if userID == actor.ID {
		return apperrors.Validation("You cannot delete your own account.")
	}

	removed, err := s.users.DeleteCascade(ctx, userID)
	if err != nil {
		return err
	}

	blobs := make([]storedBlob, 0, len(removed.TaskFiles)+len(removed.EditFiles))
	for _, f := range removed.TaskFiles {
		blobs = append(blobs, storedBlob{
			Scope:      storage.Scope{EntityKind: storage.EntityTask, EntityID: f.TaskID, FileKind: string(f.FileType)},
			StoredName: f.Filename,
		})
	}
	for _, f := range removed.EditFiles {
		blobs = append(blobs, storedBlob{
			Scope:      storage.Scope{EntityKind: storage.EntityEdit, EntityID: f.EditID, FileKind: string(f.FileType)},
			StoredName: f.Filename,
		})
	}
	removeBlobs(context.WithoutCancel(ctx), s.blobs, blobs)

	logging.Logger.WithFields(logrus.Fields{
		"user":  userID,
		"tasks": len(removed.Tasks),
		"edits": len(removed.Edits),
		"files": len(blobs),
	}).Info("user deleted")
	return nil
}

type Profile struct {
	User          *model.User     `json:"user"`
	Pending       int64           `json:"pending"`
	Completed     int64           `json:"completed"`
	EditRequested int64           `json:"edit_requested"`
	Earnings      decimal.Decimal `json:"total_earnings"`
}

// Profile reports the actor's task counts. Earnings cover completed and
// edit-requested tasks.
func (s *UserService) Profile(ctx context.Context, actor *model.User) (*Profile, error) {
	id := actor.ID
	count := func(status constants.TaskStatus) (int64, error) {
		return s.tasks.Count(ctx, repository.Criteria{OwnerID: &id, Status: status})
	}

	p := &Profile{User: actor}
	var err error
	if p.Pending, err = count(constants.StatusPending); err != nil {
		return nil, err
	}
	if p.Completed, err = count(constants.StatusCompleted); err != nil {
		return nil, err
	}
	if p.EditRequested, err = count(constants.StatusEditRequested); err != nil {
		return nil, err
	}
	p.Earnings, err = s.tasks.SumPrice(ctx, repository.Criteria{
		OwnerID:  &id,
		Statuses: []constants.TaskStatus{constants.StatusCompleted, constants.StatusEditRequested},
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
