package http

import (
	"encoding/json"
	"net/http"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/settings"
	"github.com/collabra-tech/attendance-backend-go/internal/handler/http/middleware"
	"github.com/collabra-tech/attendance-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetOfficeSettings(w http.ResponseWriter, r *http.Request)
	UpdateOfficeSettings(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{
		settingsService: settingsService,
	}
}

// GetOfficeSettings implements SettingsHandler.
func (h *settingsHandlerImpl) GetOfficeSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetCurrent(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateOfficeSettings implements SettingsHandler.
func (h *settingsHandlerImpl) UpdateOfficeSettings(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "Invalid token claims")
		return
	}

	var req settings.UpdateOfficeSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UpdatedBy = employeeID

	result, err := h.settingsService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Office settings updated", result)
}
