package classifier

import "errors"

var (
	// ErrUnavailable is returned when the trained artifacts cannot be loaded.
	ErrUnavailable = errors.New("classifier artifacts unavailable")
	// ErrNoPrediction is returned when no label reaches the decision threshold.
	ErrNoPrediction = errors.New("classifier predicted no labels")
)
