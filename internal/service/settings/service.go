package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/settings"
)

type SettingsServiceImpl struct {
	repo     settings.OfficeSettingsRepository
	defaults settings.OfficeSettings
}

// NewSettingsService builds the settings service. defaults come from
// configuration and apply until an admin saves an override.
func NewSettingsService(repo settings.OfficeSettingsRepository, defaults settings.OfficeSettings) settings.SettingsService {
	return &SettingsServiceImpl{repo: repo, defaults: defaults}
}

// Get implements settings.Provider.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.OfficeSettings, error) {
	latest, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrNoSettings) {
			return s.defaults, nil
		}
		return settings.OfficeSettings{}, fmt.Errorf("failed to load office settings: %w", err)
	}
	return latest, nil
}

// GetCurrent implements settings.SettingsService.
func (s *SettingsServiceImpl) GetCurrent(ctx context.Context) (settings.OfficeSettingsResponse, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return settings.OfficeSettingsResponse{}, err
	}
	return mapToResponse(current), nil
}

// Update implements settings.SettingsService.
func (s *SettingsServiceImpl) Update(ctx context.Context, req settings.UpdateOfficeSettingsRequest) (settings.OfficeSettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.OfficeSettingsResponse{}, err
	}

	updatedBy := &req.UpdatedBy
	if req.UpdatedBy == "" {
		updatedBy = nil
	}

	saved, err := s.repo.Save(ctx, settings.OfficeSettings{
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		RadiusMeters:   req.RadiusMeters,
		OfficePublicIP: req.OfficePublicIP,
		UpdatedBy:      updatedBy,
	})
	if err != nil {
		return settings.OfficeSettingsResponse{}, fmt.Errorf("failed to save office settings: %w", err)
	}

	return mapToResponse(saved), nil
}

func mapToResponse(s settings.OfficeSettings) settings.OfficeSettingsResponse {
	return settings.OfficeSettingsResponse{
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		RadiusMeters:   s.RadiusMeters,
		OfficePublicIP: s.OfficePublicIP,
	}
}
