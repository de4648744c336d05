package postgresql

import (
	"context"
	"fmt"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/settings"
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type officeSettingsRepository struct {
	db *database.DB
}

func NewOfficeSettingsRepository(db *database.DB) settings.OfficeSettingsRepository {
	return &officeSettingsRepository{db: db}
}

// Latest implements settings.OfficeSettingsRepository.
func (r *officeSettingsRepository) Latest(ctx context.Context) (settings.OfficeSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, latitude, longitude, radius_meters, office_public_ip, updated_by, created_at
		FROM office_settings
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s settings.OfficeSettings
	err := q.QueryRow(ctx, query).Scan(
		&s.ID, &s.Latitude, &s.Longitude, &s.RadiusMeters, &s.OfficePublicIP, &s.UpdatedBy, &s.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settings.OfficeSettings{}, settings.ErrNoSettings
		}
		return settings.OfficeSettings{}, fmt.Errorf("failed to get office settings: %w", err)
	}

	return s, nil
}

// Save implements settings.OfficeSettingsRepository. History is append-only;
// the newest row wins.
func (r *officeSettingsRepository) Save(ctx context.Context, s settings.OfficeSettings) (settings.OfficeSettings, error) {
	q := GetQuerier(ctx, r.db)

	s.ID = uuid.NewString()
	query := `
		INSERT INTO office_settings (id, latitude, longitude, radius_meters, office_public_ip, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		s.ID, s.Latitude, s.Longitude, s.RadiusMeters, s.OfficePublicIP, s.UpdatedBy,
	).Scan(&s.CreatedAt)
	if err != nil {
		return settings.OfficeSettings{}, fmt.Errorf("failed to save office settings: %w", err)
	}

	return s, nil
}
