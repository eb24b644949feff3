package dashboard

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
)

// PendingFile is a local video accepted for upload.
type PendingFile struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

func (p PendingFile) Upload() api.Upload {
	return api.Upload{Path: p.Path, Name: p.Name, ContentType: p.ContentType, Size: p.Size}
}

// common containers that are missing from some system mime tables
var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
}

// inspectFile stats path and works out its media type, first from the
// extension and then by sniffing the leading bytes.
func inspectFile(path string) (PendingFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return PendingFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return PendingFile{}, fmt.Errorf("%s is a directory", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	ct := mime.TypeByExtension(ext)
	if ct == "" {
		ct = videoExtensions[ext]
	}
	if ct == "" {
		ct, err = sniff(path)
		if err != nil {
			return PendingFile{}, err
		}
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}

	return PendingFile{
		Path:        path,
		Name:        filepath.Base(path),
		ContentType: ct,
		Size:        fi.Size(),
	}, nil
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return http.DetectContentType(buf[:n]), nil
}
