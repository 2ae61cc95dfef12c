package dto

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type ResetPasswordRequest struct {
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type CreateUserRequest struct {
	Name      string `json:"name" form:"name"`
	Email     string `json:"email" form:"email"`
	Mobile    string `json:"mobile" form:"mobile"`
	Expertise string `json:"expertise" form:"expertise"`
	Password  string `json:"password" form:"password"`
}

// CreateTaskRequest carries the text fields of the multipart create form.
type CreateTaskRequest struct {
	UserID      string `form:"user_id"`
	Description string `form:"description"`
	Deadline    string `form:"deadline"`
	Price       string `form:"price"`
}

type RequestEditRequest struct {
	Instructions string `form:"instructions"`
}

type DashboardQuery struct {
	TimePeriod string `query:"time_period"`
	StartDate  string `query:"start_date"`
	EndDate    string `query:"end_date"`
}

type TaskListQuery struct {
	TaskID     string `query:"task_id"`
	UserID     string `query:"user_id"`
	Status     string `query:"status"`
	TimePeriod string `query:"time_period"`
	StartDate  string `query:"start_date"`
	EndDate    string `query:"end_date"`
}
