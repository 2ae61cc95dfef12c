package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"task-assignment.com/task-assignment/internal/constants"
	model "task-assignment.com/task-assignment/internal/models"
	repository "task-assignment.com/task-assignment/internal/repositories"
	"task-assignment.com/task-assignment/internal/reporting"
)

const recentTaskLimit = 5

// Scope limits a dashboard to every task or to one owner's tasks.
type Scope struct {
	ownerID *uint
}

func AllTasks() Scope {
	return Scope{}
}

func OwnedBy(userID uint) Scope {
	return Scope{ownerID: &userID}
}

// ScopeFor returns the dashboard scope an actor is allowed to see.
func ScopeFor(actor *model.User) Scope {
	if actor.IsAdmin() {
		return AllTasks()
	}
	return OwnedBy(actor.ID)
}

func (s Scope) Admin() bool {
	return s.ownerID == nil
}

type Summary struct {
	Total         int64           `json:"total"`
	Pending       int64           `json:"pending"`
	Completed     int64           `json:"completed"`
	EditRequested int64           `json:"edit_requested"`
	Amount        decimal.Decimal `json:"amount"`
}

type BucketStats struct {
	Label         string          `json:"label"`
	Year          int             `json:"year"`
	Month         time.Month      `json:"month"`
	Completed     int64           `json:"completed"`
	Pending       int64           `json:"pending"`
	EditRequested int64           `json:"edit_requested"`
	Amount        decimal.Decimal `json:"amount"`
}

type Dashboard struct {
	Resolution reporting.Resolution
	Summary    Summary
	Buckets    []BucketStats
	Recent     []model.Task
	// UserCount is only filled for the all-tasks scope.
	UserCount *int64
}

type DashboardService struct {
	tasks *repository.TaskRepository
	users *repository.UserRepository
	now   Clock
}

func NewDashboardService(tasks *repository.TaskRepository, users *repository.UserRepository, now Clock) *DashboardService {
	return &DashboardService{tasks: tasks, users: users, now: now}
}

func (s *DashboardService) Build(ctx context.Context, scope Scope, req reporting.Request) (*Dashboard, error) {
	res := reporting.Resolve(req, s.now())

	var created, completed *repository.TimeWindow
	if !res.Unfiltered() {
		from, to, exclusive := res.Range.Bounds()
		created = &repository.TimeWindow{Column: repository.ColumnCreatedAt, From: &from, To: &to, ToExclusive: exclusive}
		completed = &repository.TimeWindow{Column: repository.ColumnCompletedAt, From: &from, To: &to, ToExclusive: exclusive}
	}

	summary, err := s.tally(ctx, scope, created, completed, true)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		Resolution: res,
		Summary:    summary,
		Buckets:    make([]BucketStats, 0, len(res.Buckets)),
	}

	for _, b := range res.Buckets {
		start, end := b.Start, b.End
		created := &repository.TimeWindow{Column: repository.ColumnCreatedAt, From: &start, To: &end, ToExclusive: true}
		completed := &repository.TimeWindow{Column: repository.ColumnCompletedAt, From: &start, To: &end, ToExclusive: true}

		stats, err := s.tally(ctx, scope, created, completed, false)
		if err != nil {
			return nil, err
		}
		dash.Buckets = append(dash.Buckets, BucketStats{
			Label:         b.Label(),
			Year:          b.Year,
			Month:         b.Month,
			Completed:     stats.Completed,
			Pending:       stats.Pending,
			EditRequested: stats.EditRequested,
			Amount:        stats.Amount,
		})
	}

	dash.Recent, err = s.tasks.Recent(ctx, repository.Criteria{OwnerID: scope.ownerID}, recentTaskLimit)
	if err != nil {
		return nil, err
	}

	if scope.Admin() {
		count, err := s.users.CountByRole(ctx, constants.RoleUser)
		if err != nil {
			return nil, err
		}
		dash.UserCount = &count
	}

	return dash, nil
}

// tally counts tasks by status. Pending, edit-requested and total counts use
// the creation window; completed counts and the amount use the completion
// window.
func (s *DashboardService) tally(
	ctx context.Context,
	scope Scope,
	created, completed *repository.TimeWindow,
	withTotal bool,
) (Summary, error) {
	var (
		sum Summary
		err error
	)

	if withTotal {
		if sum.Total, err = s.tasks.Count(ctx, repository.Criteria{OwnerID: scope.ownerID, Window: created}); err != nil {
			return sum, err
		}
	}
	if sum.Pending, err = s.tasks.Count(ctx, repository.Criteria{
		OwnerID: scope.ownerID,
		Status:  constants.StatusPending,
		Window:  created,
	}); err != nil {
		return sum, err
	}
	if sum.EditRequested, err = s.tasks.Count(ctx, repository.Criteria{
		OwnerID: scope.ownerID,
		Status:  constants.StatusEditRequested,
		Window:  created,
	}); err != nil {
		return sum, err
	}

	done := repository.Criteria{
		OwnerID: scope.ownerID,
		Status:  constants.StatusCompleted,
		Window:  completed,
	}
	if sum.Completed, err = s.tasks.Count(ctx, done); err != nil {
		return sum, err
	}
	if sum.Amount, err = s.tasks.SumPrice(ctx, done); err != nil {
		return sum, err
	}
	return sum, nil
}
