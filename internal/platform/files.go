package platform

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
	OSAndroid = "android"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// File names inside the data directory
const (
	PageOrderFileName = "page_order.txt"
	IconsDirName      = "icons"
)

// AndroidDataRoot is where app data lives on Android
const AndroidDataRoot = "/sdcard/Android/data"

// MaxNameDifference bounds the length difference of similar icon names
const MaxNameDifference = 10

// IconExtensions are the icon formats understood by LoadIcon, in lookup order
var IconExtensions = []string{".png", ".webp", ".jpg", ".jpeg", ".bmp"}

// nameSeparators are treated as equal when matching icon names
var nameSeparators = strings.NewReplacer("-", "_", ".", "_", " ", "_")

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// IsAndroid reports whether the process runs as an Android app
func IsAndroid() bool {
	return runtime.GOOS == OSAndroid ||
		os.Getenv("ANDROID_DATA") != "" ||
		os.Getenv("ANDROID_ROOT") != "" ||
		filepath.Base(os.Args[0]) == "libdist.so" // Fyne Android apps run as libdist.so
}

// GetDataDir returns the per-user data directory of appID
func GetDataDir(appID string) (string, error) {
	if appID == "" {
		return "", fmt.Errorf("app id is empty")
	}
	if IsAndroid() {
		return filepath.Join(AndroidDataRoot, appID, "files"), nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, appID), nil
}

// LoadPageOrder reads the persisted page ids, one per line. Blank lines and
// lines starting with '#' are skipped. A missing file yields no ids.
func LoadPageOrder(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open page order: %w", err)
	}
	defer f.Close()

	var ids []string
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			log.Printf("platform: duplicate page id %q in %s", line, path)
			continue
		}
		seen[line] = true
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read page order: %w", err)
	}
	return ids, nil
}

// SavePageOrder writes ids atomically through a temporary file
func SavePageOrder(path string, ids []string) error {
	if err := CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create page order directory: %w", err)
	}

	var b strings.Builder
	for _, id := range ids {
		if id == "" || strings.ContainsAny(id, "\r\n") || strings.HasPrefix(id, "#") {
			return fmt.Errorf("invalid page id %q", id)
		}
		b.WriteString(id)
		b.WriteByte('\n')
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write page order: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace page order: %w", err)
	}
	return nil
}

// FindIcon looks for the icon of item id in dir. Exact names win; otherwise
// a file whose name differs only in separators or a short suffix is used.
func FindIcon(dir, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("item id is empty")
	}
	for _, ext := range IconExtensions {
		path := filepath.Join(dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !isIconExtension(ext) {
			continue
		}
		if isSimilarFileName(strings.TrimSuffix(name, filepath.Ext(name)), id) {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("icon not found: %s", id)
	}

	// Prefer the closest name length, then lexical order
	sort.Slice(candidates, func(i, j int) bool {
		di := nameDistance(candidates[i], id)
		dj := nameDistance(candidates[j], id)
		if di != dj {
			return di < dj
		}
		return candidates[i] < candidates[j]
	})
	return candidates[0], nil
}

// LoadIcon decodes an icon file
func LoadIcon(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open icon: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode icon %s: %w", filepath.Base(path), err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("icon %s (%s) is empty", filepath.Base(path), format)
	}
	return img, nil
}

// LoadIcons loads the icon of every id found in dir. Missing or broken icons
// are logged and skipped; the renderer draws placeholders for them.
func LoadIcons(dir string, ids []string) map[string]image.Image {
	icons := make(map[string]image.Image, len(ids))
	if _, err := os.Stat(dir); err != nil {
		log.Printf("platform: no icons loaded: %v", err)
		return icons
	}
	for _, id := range ids {
		path, err := FindIcon(dir, id)
		if err != nil {
			log.Printf("platform: %v", err)
			continue
		}
		img, err := LoadIcon(path)
		if err != nil {
			log.Printf("platform: %v", err)
			continue
		}
		icons[id] = img
	}
	return icons
}

func isIconExtension(ext string) bool {
	for _, e := range IconExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// isSimilarFileName checks if two names are similar enough to name the same icon
func isSimilarFileName(name1, name2 string) bool {
	clean1 := nameSeparators.Replace(strings.ToLower(strings.TrimSpace(name1)))
	clean2 := nameSeparators.Replace(strings.ToLower(strings.TrimSpace(name2)))

	if clean1 == clean2 {
		return true
	}
	if strings.Trim(clean1, "_") == strings.Trim(clean2, "_") {
		return true
	}

	// Truncated or suffixed names, e.g. "mail@2x"
	if strings.HasPrefix(clean1, clean2) || strings.HasPrefix(clean2, clean1) {
		diff := len(clean1) - len(clean2)
		if diff < 0 {
			diff = -diff
		}
		return diff <= MaxNameDifference
	}
	return false
}

func nameDistance(path, id string) int {
	base := filepath.Base(path)
	d := len(strings.TrimSuffix(base, filepath.Ext(base))) - len(id)
	if d < 0 {
		d = -d
	}
	return d
}
