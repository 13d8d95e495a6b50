package scan

import (
	"math"

	"github.com/CartoonFan/loudgain/internal/model"
)

// GuardClip predicts whether applying the gains of res would clip and,
// when noClip is set, lowers them so they don't.
//
// A gain clips when it exceeds the reciprocal of the matching peak. The
// comparison puts a dB gain against a linear bound; loudgain has always
// done so and tagged files depend on it, so it is kept as is.
//
// The returned bool is the clip prediction after clamping, so it is
// always false when noClip is set.
func GuardClip(res model.ScanResult, noClip bool) (model.ScanResult, bool) {
	willClip := res.TrackGain > 1/res.TrackPeak ||
		(res.HasAlbum && res.AlbumGain > 1/res.AlbumPeak)

	if !noClip || !willClip {
		return res, willClip
	}

	res.TrackGain = math.Min(res.TrackGain, 1/res.TrackPeak)
	if res.HasAlbum {
		res.AlbumGain = math.Min(res.AlbumGain, 1/res.AlbumPeak)
	}
	return res, false
}
