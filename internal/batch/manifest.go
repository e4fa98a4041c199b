package batch

import (
	"encoding/json"
	"os"
)

// WriteManifest writes manifest.json next to the generated thumbnails so
// the host application can map captures to outputs.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
