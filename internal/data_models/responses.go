package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"task-assignment.com/task-assignment/internal/constants"
	model "task-assignment.com/task-assignment/internal/models"
	"task-assignment.com/task-assignment/internal/reporting"
	"task-assignment.com/task-assignment/internal/services"
)

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TaskSummary struct {
	ID          uint                 `json:"id"`
	TaskID      string               `json:"task_id"`
	Description string               `json:"description"`
	Deadline    string               `json:"deadline"`
	Price       decimal.Decimal      `json:"price"`
	Status      constants.TaskStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	CompletedAt *time.Time           `json:"completed_at"`
	UserID      uint                 `json:"user_id"`
	UserName    string               `json:"user_name,omitempty"`
}

func NewTaskSummary(t model.Task) TaskSummary {
	s := TaskSummary{
		ID:          t.ID,
		TaskID:      t.Code,
		Description: t.Description,
		Deadline:    t.Deadline.Format(reporting.DateLayout),
		Price:       t.Price,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
		UserID:      t.UserID,
	}
	if t.User != nil {
		s.UserName = t.User.Name
	}
	return s
}

func NewTaskSummaries(tasks []model.Task) []TaskSummary {
	out := make([]TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskSummary(t))
	}
	return out
}

type TaskListResponse struct {
	Count int           `json:"count"`
	Tasks []TaskSummary `json:"tasks"`
}

type FileRef struct {
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
}

type TaskFiles struct {
	Task       []FileRef `json:"task"`
	Submission []FileRef `json:"submission"`
}

type EditFiles struct {
	Instruction []FileRef `json:"instruction"`
	Submission  []FileRef `json:"submission"`
}

type EditDetail struct {
	ID           uint                 `json:"id"`
	Instructions string               `json:"instructions"`
	Status       constants.EditStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	CompletedAt  *time.Time           `json:"completed_at"`
	Files        EditFiles            `json:"files"`
}

type TaskDetailResponse struct {
	TaskSummary
	Files TaskFiles    `json:"files"`
	Edits []EditDetail `json:"edits"`
}

func NewTaskDetail(t *model.Task) TaskDetailResponse {
	detail := TaskDetailResponse{
		TaskSummary: NewTaskSummary(*t),
		Files:       TaskFiles{Task: []FileRef{}, Submission: []FileRef{}},
		Edits:       make([]EditDetail, 0, len(t.Edits)),
	}

	for _, f := range t.Files {
		ref := FileRef{Filename: f.Filename, OriginalFilename: f.OriginalFilename}
		switch f.FileType {
		case constants.FileTask:
			detail.Files.Task = append(detail.Files.Task, ref)
		case constants.FileSubmission:
			detail.Files.Submission = append(detail.Files.Submission, ref)
		}
	}

	for _, e := range t.Edits {
		edit := EditDetail{
			ID:           e.ID,
			Instructions: e.Instructions,
			Status:       e.Status,
			CreatedAt:    e.CreatedAt,
			CompletedAt:  e.CompletedAt,
			Files:        EditFiles{Instruction: []FileRef{}, Submission: []FileRef{}},
		}
		for _, f := range e.Files {
			ref := FileRef{Filename: f.Filename, OriginalFilename: f.OriginalFilename}
			switch f.FileType {
			case constants.FileInstruction:
				edit.Files.Instruction = append(edit.Files.Instruction, ref)
			case constants.FileSubmission:
				edit.Files.Submission = append(edit.Files.Submission, ref)
			}
		}
		detail.Edits = append(detail.Edits, edit)
	}

	return detail
}

type DashboardSummary struct {
	Total         int64            `json:"total_tasks"`
	Pending       int64            `json:"pending_tasks"`
	Completed     int64            `json:"completed_tasks"`
	EditRequested int64            `json:"edit_requested_tasks"`
	Budget        *decimal.Decimal `json:"total_budget,omitempty"`
	Earnings      *decimal.Decimal `json:"total_earnings,omitempty"`
}

type MonthStats struct {
	Month         string          `json:"month"`
	Year          int             `json:"year"`
	Completed     int64           `json:"completed"`
	Pending       int64           `json:"pending"`
	EditRequested int64           `json:"edit_requested"`
	Amount        decimal.Decimal `json:"amount"`
}

type DashboardResponse struct {
	TimePeriod  string           `json:"time_period"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	CustomRange bool             `json:"custom_range"`
	Warning     string           `json:"warning,omitempty"`
	Summary     DashboardSummary `json:"summary"`
	Months      []MonthStats     `json:"monthly_stats"`
	Recent      []TaskSummary    `json:"recent_tasks"`
	TotalUsers  *int64           `json:"total_users,omitempty"`
}

// NewDashboardResponse names the amount "budget" on the admin view and
// "earnings" on a user's own view.
func NewDashboardResponse(d *services.Dashboard, admin bool) DashboardResponse {
	res := d.Resolution
	resp := DashboardResponse{
		TimePeriod:  string(res.Period),
		StartDate:   res.Range.Start.Format(reporting.DateLayout),
		EndDate:     res.Range.End.Format(reporting.DateLayout),
		CustomRange: res.Range.Custom,
		Warning:     res.Warning,
		Summary: DashboardSummary{
			Total:         d.Summary.Total,
			Pending:       d.Summary.Pending,
			Completed:     d.Summary.Completed,
			EditRequested: d.Summary.EditRequested,
		},
		Months:     make([]MonthStats, 0, len(d.Buckets)),
		Recent:     NewTaskSummaries(d.Recent),
		TotalUsers: d.UserCount,
	}

	amount := d.Summary.Amount
	if admin {
		resp.Summary.Budget = &amount
	} else {
		resp.Summary.Earnings = &amount
	}

	for _, b := range d.Buckets {
		resp.Months = append(resp.Months, MonthStats{
			Month:         b.Label,
			Year:          b.Year,
			Completed:     b.Completed,
			Pending:       b.Pending,
			EditRequested: b.EditRequested,
			Amount:        b.Amount,
		})
	}
	return resp
}
