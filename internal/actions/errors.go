// ABOUTME: GenerationError: an action resolver could not produce usable content.
// ABOUTME: Carries which operation failed; the sequencer degrades the message to text.

package actions

import "fmt"

// GenerationError reports that a generation or retrieval step produced no
// usable output.
type GenerationError struct {
	Op  string // "image", "video", "video-poll", ...
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s generation failed", e.Op)
	}
	return fmt.Sprintf("%s generation failed: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
