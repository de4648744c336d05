package middleware

import (
	"net/http"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/employee"
	"github.com/collabra-tech/attendance-backend-go/internal/handler/http/response"
)

// AdminRequired gates the admin surface. HR counts as admin for office
// settings management.
func AdminRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := Role(r)
		if !ok {
			response.Forbidden(w, "Admin access required")
			return
		}

		switch employee.Role(role) {
		case employee.RoleAdmin, employee.RoleHR:
			next.ServeHTTP(w, r)
		default:
			response.Forbidden(w, "Admin access required")
		}
	})
}
