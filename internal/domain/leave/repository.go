package leave

import "context"

// LeaveRequestRepository - read side of the leave_requests table.
type LeaveRequestRepository interface {
	// HasApprovedLeave reports whether an approved leave covers the given
	// date (YYYY-MM-DD) for the employee.
	HasApprovedLeave(ctx context.Context, employeeID, date string) (bool, error)
}
