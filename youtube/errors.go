package youtube

import "github.com/pkg/errors"

var (
	ErrVideoUnavailable = errors.New("the video is no longer available")
	ErrCaptionsDisabled = errors.New("subtitles are disabled for this video")
	ErrNoTranscript     = errors.New("no usable transcript was found for this video")
	ErrTooManyRequests  = errors.New("youtube is receiving too many requests from this IP")
)

func transcriptError(videoID string, cause error) error {
	return errors.Wrapf(cause, "could not retrieve a transcript for the video %s", videoID)
}
