package settings

import "errors"

var ErrNoSettings = errors.New("office settings not configured")
