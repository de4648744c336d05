package postgresql

import (
	"context"
	"fmt"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/leave"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

// HasApprovedLeave implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) HasApprovedLeave(ctx context.Context, employeeID, date string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ($2, $3)
			  AND from_date <= $4::date
			  AND to_date >= $4::date
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, employeeID, leave.StatusManagerApproved, leave.StatusHRApproved, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}

	return exists, nil
}
