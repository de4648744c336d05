package settings

import (
	"context"
	"testing"

	"github.com/collabra-tech/attendance-backend-go/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepo struct {
	saved []settings.OfficeSettings
}

func (r *fakeSettingsRepo) Latest(ctx context.Context) (settings.OfficeSettings, error) {
	if len(r.saved) == 0 {
		return settings.OfficeSettings{}, settings.ErrNoSettings
	}
	return r.saved[len(r.saved)-1], nil
}

func (r *fakeSettingsRepo) Save(ctx context.Context, s settings.OfficeSettings) (settings.OfficeSettings, error) {
	r.saved = append(r.saved, s)
	return s, nil
}

var defaults = settings.OfficeSettings{
	Latitude:       17.489313654492967,
	Longitude:      78.39285505628658,
	RadiusMeters:   50,
	OfficePublicIP: "103.206.104.149",
}

func TestGet_FallsBackToDefaults(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, defaults)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaults, got)
}

func TestUpdate_LatestWins(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, defaults)

	_, err := svc.Update(context.Background(), settings.UpdateOfficeSettingsRequest{
		UpdatedBy:      "emp-admin",
		Latitude:       12.9715987,
		Longitude:      77.5945627,
		RadiusMeters:   75,
		OfficePublicIP: "203.0.113.10",
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 75, got.RadiusMeters)
	assert.Equal(t, "203.0.113.10", got.OfficePublicIP)
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, "emp-admin", *got.UpdatedBy)
}

func TestUpdate_RejectsInvalidInput(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, defaults)

	_, err := svc.Update(context.Background(), settings.UpdateOfficeSettingsRequest{
		Latitude:       120, // out of range
		Longitude:      77.5945627,
		RadiusMeters:   0,
		OfficePublicIP: "not-an-ip",
	})
	assert.Error(t, err)
}
