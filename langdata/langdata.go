// Package langdata manages Tesseract language data (.traineddata files).
// Recognition needs one file per language; they are large and versioned
// upstream, so the manager installs them on demand into a local directory and
// reuses them afterwards.
package langdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/wudi/ocrkit/observability"
)

const (
	// DefaultBaseURL serves the fast variant of the official trained models.
	DefaultBaseURL = "https://github.com/tesseract-ocr/tessdata_fast/raw/main"

	defaultDownloadTimeout = 5 * time.Minute
	lockRetryDelay         = 250 * time.Millisecond
	dataSuffix             = ".traineddata"
)

// DefaultDir returns the directory language data is read from:
// $TESSDATA_PREFIX when set, otherwise ~/.ocrkit/tessdata.
func DefaultDir() string {
	if dir := os.Getenv("TESSDATA_PREFIX"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "tessdata"
	}
	return filepath.Join(home, ".ocrkit", "tessdata")
}

// Manager installs and lists language data files in one directory.
type Manager struct {
	dir     string
	baseURL string
	client  *http.Client
	log     observability.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithBaseURL overrides the download location. The manager fetches
// <baseURL>/<lang>.traineddata.
func WithBaseURL(url string) ManagerOption {
	return func(m *Manager) {
		m.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the download client.
func WithHTTPClient(c *http.Client) ManagerOption {
	return func(m *Manager) {
		m.client = c
	}
}

// WithLogger attaches a logger.
func WithLogger(l observability.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = l
	}
}

// NewManager creates a manager rooted at dir. An empty dir uses DefaultDir.
func NewManager(dir string, opts ...ManagerOption) *Manager {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir()
	}
	m := &Manager{
		dir:     dir,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: defaultDownloadTimeout},
		log:     observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the managed directory.
func (m *Manager) Dir() string { return m.dir }

// Path returns where lang's data file lives (or would live) on disk.
func (m *Manager) Path(lang string) string {
	return filepath.Join(m.dir, filepath.FromSlash(lang)+dataSuffix)
}

// Installed returns the languages present in the directory, sorted.
func (m *Manager) Installed() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading language data directory: %w", err)
	}
	var langs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), dataSuffix) {
			continue
		}
		langs = append(langs, strings.TrimSuffix(e.Name(), dataSuffix))
	}
	sort.Strings(langs)
	return langs, nil
}

// Ensure makes every language named by spec ("eng" or "eng+fra") present in
// the directory, downloading missing ones. Concurrent processes ensuring into
// the same directory are serialized by a file lock.
func (m *Manager) Ensure(ctx context.Context, spec string) error {
	langs, err := Split(spec)
	if err != nil {
		return err
	}
	for _, lang := range langs {
		if m.installed(lang) {
			continue
		}
		if err := m.download(ctx, lang); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes lang's data file. Removing an absent language is not an
// error.
func (m *Manager) Remove(lang string) error {
	err := os.Remove(m.Path(lang))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing language data: %w", err)
	}
	return nil
}

func (m *Manager) installed(lang string) bool {
	_, err := os.Stat(m.Path(lang))
	return err == nil
}

func (m *Manager) download(ctx context.Context, lang string) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create language data directory: %w", err)
	}

	lock := flock.New(filepath.Join(m.dir, ".ocrkit.lock"))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire language data lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire language data lock: not acquired")
	}
	defer lock.Unlock()

	// Another process may have finished the download while we waited.
	if m.installed(lang) {
		return nil
	}

	url := m.baseURL + "/" + lang + dataSuffix
	m.log.Debug("downloading language data",
		observability.String("lang", lang),
		observability.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("download %s: %w", lang, err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", lang, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %d", lang, resp.StatusCode)
	}

	target := m.Path(lang)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create language data directory: %w", err)
	}
	tempPath := target + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("write %s: %w", lang, err)
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("write %s: %w", lang, err)
	}
	if err := os.Rename(tempPath, target); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("install %s: %w", lang, err)
	}

	m.log.Info("language data installed",
		observability.String("lang", lang),
		observability.Int64(observability.MetricLangDataBytes, n))
	return nil
}
