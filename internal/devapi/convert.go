package devapi

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// bytesPerMinute approximates a 720p screen recording.
const bytesPerMinute = 8 << 20

// chargeMinutes converts an upload size into billed minutes, rounded up to
// a tenth and never below one tenth.
func chargeMinutes(size int64) float64 {
	m := float64(size) / bytesPerMinute
	return math.Max(0.1, math.Ceil(m*10)/10)
}

// articleTitle turns "my-first_talk.mp4" into "My First Talk".
func articleTitle(videoName string) string {
	base := strings.TrimSuffix(filepath.Base(videoName), filepath.Ext(videoName))
	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	if len(words) == 0 {
		return "Untitled Video"
	}
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func newDraft() (id, url string) {
	id = "draft-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return id, "https://hashnode.com/draft/" + id
}
