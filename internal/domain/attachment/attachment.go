package attachment

import "strings"

// Kind tags a piece of media both in the collector and in the persisted
// quote payload.
type Kind string

const (
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

// Attachment is a committed piece of media on a quote.
type Attachment struct {
	URL     string `json:"url"`
	Kind    Kind   `json:"kind"`
	Details string `json:"details,omitempty"`
}

// File is raw media staged for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/")
}
