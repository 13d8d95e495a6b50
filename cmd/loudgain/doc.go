// Command loudgain computes ReplayGain 2.0 values for audio files from
// EBU R128 loudness measurements and optionally writes them as tags.
//
// Usage:
//
//	loudgain [OPTIONS] FILES...
//
// Examples:
//
//	loudgain -a -k -s i *.flac      # album gain, no clipping, write tags
//	loudgain -o -a *.mp3            # mp3gain-style table, album row last
//	loudgain -s d track.ogg         # remove ReplayGain tags
//
// Settings are read from $XDG_CONFIG_HOME/loudgain/config.yaml when
// present; flags take precedence.
package main
