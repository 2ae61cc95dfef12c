package constants

type TaskStatus string

const (
	StatusPending       TaskStatus = "pending"
	StatusCompleted     TaskStatus = "completed"
	StatusEditRequested TaskStatus = "edit_requested"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusEditRequested:
		return true
	}
	return false
}

type EditStatus string

const (
	EditPending   EditStatus = "pending"
	EditCompleted EditStatus = "completed"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// FileType tags an attachment by the step of the lifecycle that produced it.
type FileType string

const (
	FileTask        FileType = "task"
	FileSubmission  FileType = "submission"
	FileInstruction FileType = "instruction"
)
