package settings

import (
	"github.com/collabra-tech/attendance-backend-go/internal/pkg/validator"
)

type UpdateOfficeSettingsRequest struct {
	UpdatedBy      string  `json:"-"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	RadiusMeters   int     `json:"radiusMeters"`
	OfficePublicIP string  `json:"officePublicIp"`
}

func (r *UpdateOfficeSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radiusMeters",
			Message: "radiusMeters must be a positive integer",
		})
	}

	if validator.IsEmpty(r.OfficePublicIP) {
		errs = append(errs, validator.ValidationError{
			Field:   "officePublicIp",
			Message: "officePublicIp is required",
		})
	} else if !validator.IsValidIP(r.OfficePublicIP) {
		errs = append(errs, validator.ValidationError{
			Field:   "officePublicIp",
			Message: "officePublicIp must be a valid IPv4 or IPv6 address",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type OfficeSettingsResponse struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	RadiusMeters   int     `json:"radiusMeters"`
	OfficePublicIP string  `json:"officePublicIp"`
}
