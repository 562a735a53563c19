package deck

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// SlideInput is the extraction output the client uploads per slide.
type SlideInput struct {
	Position      int    `json:"position" binding:"required"`
	ExtractedText string `json:"extracted_text"`
	ImageRef      string `json:"image_ref"`
}

// ContentHash computes the dedup key for an upload: md5 over the normalized
// slide content. Whitespace around the extracted text is ignored so that a
// re-upload of the same deck hashes identically.
func ContentHash(slides []SlideInput) string {
	norm := make([]SlideInput, len(slides))
	for i, s := range slides {
		norm[i] = SlideInput{
			Position:      s.Position,
			ExtractedText: strings.TrimSpace(s.ExtractedText),
			ImageRef:      s.ImageRef,
		}
	}
	b, _ := json.Marshal(norm)
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}
