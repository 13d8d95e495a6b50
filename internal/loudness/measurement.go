package loudness

import (
	"context"
	"math"
	"time"

	"github.com/CartoonFan/loudgain/internal/model"
)

// Measurement is the loudness analysis of one file.
type Measurement struct {
	Path  string
	Codec model.Codec

	// Integrated is the programme loudness in LUFS.
	Integrated float64

	// Range is the loudness range in LU.
	Range float64

	// Peak is the sample peak as a linear amplitude, 1.0 = full scale.
	Peak float64

	Duration time.Duration
}

// Meter measures a single file.
type Meter interface {
	Measure(ctx context.Context, path string) (Measurement, error)
}

// dbfsToLinear converts a dBFS level to a linear amplitude. Negative
// infinity (digital silence) maps to 0.
func dbfsToLinear(db float64) float64 {
	if math.IsInf(db, -1) {
		return 0
	}
	return math.Pow(10, db/20)
}
