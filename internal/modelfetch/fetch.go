package modelfetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Installed reports whether the model directory already exists.
func (m *implInstaller) Installed() bool {
	info, err := os.Stat(m.cfg.ModelPath())
	return err == nil && info.IsDir()
}

// EnsureModel downloads, verifies and unpacks the model archive. If the model
// directory already exists nothing is fetched.
func (m *implInstaller) EnsureModel(ctx context.Context) (bool, error) {
	if m.Installed() {
		m.logger.Info(ctx, "Model already installed at %s, skipping download", m.cfg.ModelPath())
		return false, nil
	}

	if err := os.MkdirAll(m.cfg.Model.Dir, 0755); err != nil {
		return false, fmt.Errorf("create models dir: %w", err)
	}

	archivePath, err := m.download(ctx)
	if err != nil {
		return false, err
	}
	defer os.Remove(archivePath)

	if err := m.unpack(ctx, archivePath); err != nil {
		return false, err
	}

	m.logger.Info(ctx, "Model installed at %s", m.cfg.ModelPath())
	return true, nil
}

// download fetches the archive to a temp file, hashing it as it streams.
func (m *implInstaller) download(ctx context.Context) (string, error) {
	url := m.cfg.Model.ArchiveURL
	m.logger.Info(ctx, "Downloading model archive: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch archive: unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(m.cfg.Model.Dir, "model-*.zip")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(tmp, hasher), resp.Body)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("download archive: %w", err)
	}
	if closeErr != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", closeErr)
	}

	m.logger.Info(ctx, "Downloaded %d bytes", written)

	if expected := strings.ToLower(m.cfg.Model.ArchiveSHA256); expected != "" {
		actual := hex.EncodeToString(hasher.Sum(nil))
		if actual != expected {
			os.Remove(tmp.Name())
			return "", fmt.Errorf("verify archive (got %s): %w", actual, ErrHashMismatch)
		}
		m.logger.Info(ctx, "Archive hash verified")
	}

	return tmp.Name(), nil
}

// unpack extracts the archive into a staging directory and renames the model
// into its final place, so a partial extraction never looks installed.
func (m *implInstaller) unpack(ctx context.Context, archivePath string) error {
	staging, err := os.MkdirTemp(m.cfg.Model.Dir, ".staging-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	m.logger.Info(ctx, "Unpacking model archive...")
	if err := extractZip(archivePath, staging); err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}

	// Archives usually contain a single top-level model directory.
	src := filepath.Join(staging, m.cfg.Model.Name)
	if _, err := os.Stat(src); err != nil {
		src = staging
	}

	if err := os.Rename(src, m.cfg.ModelPath()); err != nil {
		return fmt.Errorf("move model into place: %w", err)
	}

	return nil
}
