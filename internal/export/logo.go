package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Logo is a school logo loaded from disk.
type Logo struct {
	Data  []byte
	MIME  string
	Image image.Image
}

// LoadLogo reads and decodes the image at path.
func LoadLogo(path string) (*Logo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo %s: %w", path, err)
	}
	return &Logo{Data: data, MIME: http.DetectContentType(data), Image: img}, nil
}

// DataURI returns the logo inlined as a data URI.
func (l *Logo) DataURI() template.URL {
	if l == nil {
		return ""
	}
	return template.URL("data:" + l.MIME + ";base64," + base64.StdEncoding.EncodeToString(l.Data))
}
