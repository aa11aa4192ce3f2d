package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LandmarkSuffix names the landmark file that sits next to an image in a
// batch directory: face.jpg pairs with face.landmarks.json.
const LandmarkSuffix = ".landmarks.json"

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// JobsFromDir pairs every image in dir with its landmark file. Images
// without one are skipped and returned in missing.
func JobsFromDir(dir string) (jobs []Job, missing []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !imageExts[ext] {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		lmPath := filepath.Join(dir, stem+LandmarkSuffix)
		if _, err := os.Stat(lmPath); err != nil {
			missing = append(missing, e.Name())
			continue
		}
		jobs = append(jobs, Job{ID: stem, Image: filepath.Join(dir, e.Name()), Landmarks: lmPath})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs, missing, nil
}

// LoadManifest reads a JSON array of jobs. Relative paths are resolved
// against the manifest's directory and a missing ID defaults to the image
// file name.
func LoadManifest(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var jobs []Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	for i := range jobs {
		if jobs[i].Image == "" || jobs[i].Landmarks == "" {
			return nil, fmt.Errorf("manifest entry %d: image and landmarks are required", i)
		}
		jobs[i].Image = resolve(jobs[i].Image)
		jobs[i].Landmarks = resolve(jobs[i].Landmarks)
		if jobs[i].ID == "" {
			jobs[i].ID = filepath.Base(jobs[i].Image)
		}
	}
	return jobs, nil
}
