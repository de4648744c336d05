package leave

import "time"

// Approved statuses. A leave blocks attendance once either the manager or HR
// has approved it.
const (
	StatusManagerApproved = "MANAGER_APPROVED"
	StatusHRApproved      = "HR_APPROVED"
)

// LeaveRequest is owned by the leave-workflow collaborator; the attendance
// core only reads it to block punch-in on approved leave days.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  string
	FromDate   time.Time
	ToDate     time.Time
	Status     string
	CreatedAt  time.Time
}
