package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/auth"
	"github.com/collabra-tech/attendance-backend-go/internal/domain/employee"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	jwtService   jwt.Service
}

func NewAuthService(employeeRepo employee.EmployeeRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		employeeRepo: employeeRepo,
		jwtService:   jwtService,
	}
}

// Login implements auth.AuthService. An unknown email and a wrong password
// produce the same error so the endpoint does not leak which accounts exist.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	emp, err := a.employeeRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to look up employee: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.jwtService.GenerateAccessToken(emp.ID, emp.Email, emp.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	resp := auth.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}
	resp.Employee.ID = emp.ID
	resp.Employee.Name = emp.Name
	resp.Employee.Email = emp.Email
	resp.Employee.Role = string(emp.Role)

	return resp, nil
}
