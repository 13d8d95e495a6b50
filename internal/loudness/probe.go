package loudness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dhowden/tag"

	"github.com/CartoonFan/loudgain/internal/model"
)

// probeResult is the subset of ffprobe JSON output the meter needs.
type probeResult struct {
	Streams []struct {
		CodecName string `json:"codec_name"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// probe returns the codec of the first audio stream and the container
// duration.
func probe(ctx context.Context, binary, path string) (model.Codec, time.Duration, error) {
	cmd := commandContext(ctx, binary,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name:format=duration",
		"-of", "json",
		"--", path,
	)
	output, err := cmd.Output()
	if err != nil {
		return model.CodecUnknown, 0, fmt.Errorf("ffprobe: %w: %s", err, stderrOf(err))
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return model.CodecUnknown, 0, fmt.Errorf("ffprobe parse: %w", err)
	}
	if len(result.Streams) == 0 {
		return model.CodecUnknown, 0, errors.New("ffprobe: no audio stream")
	}

	return model.CodecFromName(result.Streams[0].CodecName), parseSeconds(result.Format.Duration), nil
}

// identifyCodec guesses the codec from the container signature.
func identifyCodec(path string) (model.Codec, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.CodecUnknown, err
	}
	defer f.Close()

	_, fileType, err := tag.Identify(f)
	if err != nil {
		return model.CodecUnknown, fmt.Errorf("identify: %w", err)
	}

	switch fileType {
	case tag.MP3:
		return model.CodecMP3, nil
	case tag.FLAC:
		return model.CodecFLAC, nil
	case tag.OGG:
		return model.CodecVorbis, nil
	case tag.M4A, tag.M4B, tag.M4P:
		return model.CodecAAC, nil
	default:
		return model.CodecUnknown, nil
	}
}

func parseSeconds(value string) time.Duration {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
