package notifications

import (
	"fmt"
	"strings"

	model "task-assignment.com/task-assignment/internal/models"
)

const signature = "\nThank you,\nTask Management System\n"

func assignmentEmail(user model.User, task model.Task) Email {
	var b strings.Builder
	b.WriteString("Hello,\n\nA new task has been assigned to you in the Task Management System.\n\n")
	fmt.Fprintf(&b, "Task ID: %s\n", task.Code)
	fmt.Fprintf(&b, "Deadline: %s\n", task.Deadline.Format("02-01-2006"))
	fmt.Fprintf(&b, "Description:\n%s\n\n", task.Description)
	b.WriteString("Please log in to your account to view the task details and attached files.\n")
	b.WriteString(signature)

	return Email{
		To:      []string{user.Email},
		Subject: "New Task Assigned - " + task.Code,
		Text:    b.String(),
	}
}

func completionEmail(admins []string, task model.Task, actor model.User, isEdit bool) Email {
	action := "completed"
	if isEdit {
		action = "edited"
	}

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	fmt.Fprintf(&b, "Task %s has been %s by %s.\n\n", task.Code, action, actor.Name)
	b.WriteString("Please log in to the admin dashboard to review the submission.\n")
	b.WriteString(signature)

	return Email{
		To:      admins,
		Subject: fmt.Sprintf("Task %s%s - %s", strings.ToUpper(action[:1]), action[1:], task.Code),
		Text:    b.String(),
	}
}

func editRequestedEmail(user model.User, task model.Task, instructions string) Email {
	var b strings.Builder
	b.WriteString("Hello,\n\n")
	fmt.Fprintf(&b, "An edit has been requested for your task %s.\n\n", task.Code)
	fmt.Fprintf(&b, "Instructions:\n%s\n\n", instructions)
	b.WriteString("Please log in to your account to review the edit instructions and attached files.\n")
	b.WriteString(signature)

	return Email{
		To:      []string{user.Email},
		Subject: "Edit Requested - " + task.Code,
		Text:    b.String(),
	}
}
