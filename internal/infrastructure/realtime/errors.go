package realtime

import "errors"

// ErrHubClosed is returned when publishing after the dispatcher stopped
var ErrHubClosed = errors.New("realtime hub closed")
