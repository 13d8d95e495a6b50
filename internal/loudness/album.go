package loudness

import "math"

// albumStats is the aggregate over all measured tracks of a run.
type albumStats struct {
	Loudness float64
	Range    float64
	Peak     float64
}

// absoluteGate is the EBU R128 absolute gate in LUFS. Tracks at or below
// it carry no loudness and stay out of the album values.
const absoluteGate = -70.0

// audible reports whether m takes part in the album aggregate.
func audible(m Measurement) bool {
	return m.Peak > 0 && m.Integrated > absoluteGate
}

// aggregateAlbum combines track measurements into album values.
//
// Loudness is averaged in the energy domain, each track weighted by its
// duration. When any duration is unknown all tracks weigh the same.
// Silent tracks are left out; with no audible track there is no album.
func aggregateAlbum(all []Measurement) (albumStats, bool) {
	ms := make([]Measurement, 0, len(all))
	for _, m := range all {
		if audible(m) {
			ms = append(ms, m)
		}
	}
	if len(ms) == 0 {
		return albumStats{}, false
	}

	weighted := true
	for _, m := range ms {
		if m.Duration <= 0 {
			weighted = false
			break
		}
	}

	var energy, total float64
	stats := albumStats{Range: math.Inf(-1), Peak: math.Inf(-1)}
	for _, m := range ms {
		w := 1.0
		if weighted {
			w = m.Duration.Seconds()
		}
		energy += w * math.Pow(10, m.Integrated/10)
		total += w

		stats.Range = math.Max(stats.Range, m.Range)
		stats.Peak = math.Max(stats.Peak, m.Peak)
	}

	stats.Loudness = 10 * math.Log10(energy/total)
	return stats, true
}
