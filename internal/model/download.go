package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// hubBaseURL is the HuggingFace Hub endpoint. Tests swap it for a local
// server.
var hubBaseURL = "https://huggingface.co"

type DownloadOptions struct {
	Repo     string
	OutDir   string
	Revision string
	HFToken  string
	Stdout   io.Writer
}

// Assets describes the on-disk layout of a downloaded model repository.
type Assets struct {
	Dir        string
	Config     Config
	ModelPath  string
	VoicesPath string
}

type ErrAccessDenied struct {
	Repo string
	Msg  string
}

func (e *ErrAccessDenied) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("access denied for %s", e.Repo)
}

type lockManifest struct {
	Repo      string                `json:"repo"`
	Generated string                `json:"generated"`
	Files     map[string]lockRecord `json:"files"`
}

type lockRecord struct {
	Revision string `json:"revision"`
	SHA256   string `json:"sha256"`
}

var shaHexPattern = regexp.MustCompile(`(?i)^[a-f0-9]{64}$`)

// ExpandRepo turns a bare model name into a fully-qualified repo ID.
// Names without a slash are assumed to live under the KittenML org.
func ExpandRepo(repo string) string {
	if strings.Contains(repo, "/") {
		return repo
	}

	return "KittenML/" + repo
}

// Download fetches config.json, the ONNX model, and the voices NPZ from a
// model repository into opts.OutDir, verifying each file against its sha256
// checksum. Files whose checksums already match are skipped.
func Download(opts DownloadOptions) (*Assets, error) {
	if opts.Repo == "" {
		opts.Repo = DefaultRepo
	}
	if opts.OutDir == "" {
		return nil, fmt.Errorf("out dir is required")
	}
	if opts.Revision == "" {
		opts.Revision = "main"
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}

	repo := ExpandRepo(opts.Repo)

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create out dir: %w", err)
	}

	lockPath := filepath.Join(opts.OutDir, "download-manifest.lock.json")
	lock := readLockManifest(lockPath)
	if lock.Files == nil {
		lock.Files = make(map[string]lockRecord)
	}
	lock.Repo = repo
	lock.Generated = time.Now().UTC().Format(time.RFC3339)

	client := &http.Client{Timeout: 0}

	fetch := func(filename string) (string, error) {
		expected := ""
		if lr, ok := lock.Files[filename]; ok && lr.Revision == opts.Revision && isSHA256Hex(lr.SHA256) {
			expected = strings.ToLower(lr.SHA256)
		} else {
			var err error
			expected, err = resolveChecksumFromMetadata(client, repo, filename, opts.Revision, opts.HFToken)
			if err != nil {
				return "", err
			}
		}

		localPath := filepath.Join(opts.OutDir, filepath.FromSlash(filename))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return "", fmt.Errorf("create local subdir: %w", err)
		}

		if ok, err := existingMatches(localPath, expected); err != nil {
			return "", err
		} else if ok {
			fmt.Fprintf(opts.Stdout, "skip %s (checksum match)\n", filename)
			lock.Files[filename] = lockRecord{Revision: opts.Revision, SHA256: expected}
			return localPath, nil
		}

		fmt.Fprintf(opts.Stdout, "download %s@%s -> %s\n", filename, opts.Revision, localPath)
		actual, err := downloadWithProgress(client, repo, filename, opts.Revision, opts.HFToken, localPath, opts.Stdout)
		if err != nil {
			return "", err
		}
		if actual != expected {
			return "", fmt.Errorf("checksum mismatch for %s: expected %s got %s", filename, expected, actual)
		}
		fmt.Fprintf(opts.Stdout, "verified %s (sha256=%s)\n", filename, actual)
		lock.Files[filename] = lockRecord{Revision: opts.Revision, SHA256: expected}
		return localPath, nil
	}

	configPath, err := fetch("config.json")
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	modelPath, err := fetch(cfg.ModelFile)
	if err != nil {
		return nil, err
	}

	voicesPath, err := fetch(cfg.Voices)
	if err != nil {
		return nil, err
	}

	if err := writeLockManifest(lockPath, lock); err != nil {
		return nil, err
	}
	fmt.Fprintf(opts.Stdout, "wrote lock manifest: %s\n", lockPath)

	return &Assets{
		Dir:        opts.OutDir,
		Config:     cfg,
		ModelPath:  modelPath,
		VoicesPath: voicesPath,
	}, nil
}

// LoadAssets resolves a previously downloaded model directory without
// touching the network.
func LoadAssets(dir string) (*Assets, error) {
	cfg, err := LoadConfig(filepath.Join(dir, "config.json"))
	if err != nil {
		return nil, err
	}

	modelPath := filepath.Join(dir, filepath.FromSlash(cfg.ModelFile))
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	voicesPath := filepath.Join(dir, filepath.FromSlash(cfg.Voices))
	if _, err := os.Stat(voicesPath); err != nil {
		return nil, fmt.Errorf("voices file: %w", err)
	}

	return &Assets{Dir: dir, Config: cfg, ModelPath: modelPath, VoicesPath: voicesPath}, nil
}

func existingMatches(path, expected string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat existing file: %w", err)
	}
	if fi.IsDir() {
		return false, fmt.Errorf("expected file at %s, found directory", path)
	}
	actual, err := fileSHA256(path)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}

func downloadWithProgress(client *http.Client, repo, filename, revision, token, outPath string, stdout io.Writer) (string, error) {
	req, err := http.NewRequest(http.MethodGet, resolveURL(repo, filename, revision), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	setAuth(req, token)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", &ErrAccessDenied{
			Repo: repo,
			Msg:  fmt.Sprintf("access denied for %s; provide HF_TOKEN or --hf-token", repo),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("download failed for %s: %s", filename, resp.Status)
	}

	tmp := outPath + ".tmp"
	fh, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	h := sha256.New()
	mw := io.MultiWriter(fh, h)

	var written int64
	buf := make([]byte, 64*1024)
	total := resp.ContentLength
	lastPrint := time.Now()
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			wn, writeErr := mw.Write(buf[:n])
			if writeErr != nil {
				_ = fh.Close()
				_ = os.Remove(tmp)
				return "", fmt.Errorf("write temp file: %w", writeErr)
			}
			written += int64(wn)
			if time.Since(lastPrint) > 700*time.Millisecond {
				if total > 0 {
					pct := float64(written) * 100 / float64(total)
					fmt.Fprintf(stdout, "  progress: %.1f%% (%d/%d bytes)\n", pct, written, total)
				} else {
					fmt.Fprintf(stdout, "  progress: %d bytes\n", written)
				}
				lastPrint = time.Now()
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = fh.Close()
			_ = os.Remove(tmp)
			return "", fmt.Errorf("download read failed: %w", readErr)
		}
	}

	if err := fh.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("move temp file into place: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func resolveChecksumFromMetadata(client *http.Client, repo, filename, revision, token string) (string, error) {
	req, err := http.NewRequest(http.MethodHead, resolveURL(repo, filename, revision), nil)
	if err != nil {
		return "", fmt.Errorf("build metadata request: %w", err)
	}
	setAuth(req, token)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("metadata request failed for %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", &ErrAccessDenied{
			Repo: repo,
			Msg:  fmt.Sprintf("access denied for %s; provide HF_TOKEN or --hf-token", repo),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 399 {
		return "", fmt.Errorf("metadata request failed for %s: %s", filename, resp.Status)
	}

	for _, key := range []string{"X-Linked-Etag", "X-Repo-Commit", "Etag"} {
		if v := normalizeETag(resp.Header.Get(key)); isSHA256Hex(v) {
			return strings.ToLower(v), nil
		}
	}

	return "", fmt.Errorf("unable to resolve sha256 metadata for %s", filename)
}

func resolveURL(repo, filename, revision string) string {
	return fmt.Sprintf("%s/%s/resolve/%s/%s", hubBaseURL, repo, revision, filename)
}

func setAuth(req *http.Request, token string) {
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func normalizeETag(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Trim(v, "\"")
	v = strings.TrimPrefix(v, "W/")
	v = strings.Trim(v, "\"")
	return v
}

func isSHA256Hex(v string) bool {
	return shaHexPattern.MatchString(v)
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read file for checksum: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func readLockManifest(path string) lockManifest {
	b, err := os.ReadFile(path)
	if err != nil {
		return lockManifest{}
	}
	var out lockManifest
	if err := json.Unmarshal(b, &out); err != nil {
		return lockManifest{}
	}
	if out.Files == nil {
		out.Files = map[string]lockRecord{}
	}
	return out
}

func writeLockManifest(path string, lock lockManifest) error {
	b, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lock manifest: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write lock manifest: %w", err)
	}
	return nil
}
