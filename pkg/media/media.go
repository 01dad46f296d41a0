// Package media builds the base64 data-URI markup used to embed audio
// clips and background images directly into the chat page.
package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AudioTag wraps mp3 audio bytes in a playable, autoplaying <audio>
// element with an inline data URI
func AudioTag(mp3 []byte) string {
	encoded := base64.StdEncoding.EncodeToString(mp3)
	return fmt.Sprintf(`<audio controls autoplay>
    <source src="data:audio/mp3;base64,%s" type="audio/mpeg">
</audio>`, encoded)
}

// AudioDataURI returns just the data URI for mp3 audio bytes, for clients
// that build their own audio element
func AudioDataURI(mp3 []byte) string {
	return "data:audio/mp3;base64," + base64.StdEncoding.EncodeToString(mp3)
}

// BackgroundCSS reads an image file and returns a style block that sets it
// as the page's cover background. The image format is taken from the file
// extension
func BackgroundCSS(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read background image: %w", err)
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	encoded := base64.StdEncoding.EncodeToString(data)

	css := fmt.Sprintf(`<style>
body {
    background: url(data:image/%s;base64,%s);
    background-size: cover;
}
</style>`, ext, encoded)

	return css, nil
}
