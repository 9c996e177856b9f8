package corpus

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Downloader fetches dataset files that are missing locally.
type Downloader struct {
	Client *http.Client
	// Logger receives progress messages. nil means no logging.
	Logger *slog.Logger
}

// NewDownloader returns a Downloader using http.DefaultClient.
func NewDownloader(logger *slog.Logger) *Downloader {
	return &Downloader{Client: http.DefaultClient, Logger: logger}
}

// Ensure checks if a file exists at dest. If not, it downloads url and
// stores it at dest, unpacking .gz, .tgz/.tar.gz and .zip archives. Inside an
// archive the member named like dest is extracted; zip archives fall back to
// their first file.
func (d *Downloader) Ensure(ctx context.Context, dest, url string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if url == "" {
		return fmt.Errorf("%s is missing and no download URL is configured", dest)
	}

	d.logf("dataset missing, downloading", "path", dest, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "cousinwords-cli")

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	// Write next to dest and rename so an interrupted download never looks complete.
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := unpack(tmp, resp.Body, archiveName(url), filepath.Base(dest)); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to move download into place: %w", err)
	}

	d.logf("dataset ready", "path", dest)
	return nil
}

func (d *Downloader) logf(msg string, args ...any) {
	if d.Logger != nil {
		d.Logger.Info(msg, args...)
	}
}

func archiveName(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return strings.ToLower(path.Base(url))
}

func unpack(out *os.File, body io.Reader, name, member string) error {
	switch {
	case strings.HasSuffix(name, ".tgz"), strings.HasSuffix(name, ".tar.gz"):
		gz, err := gzip.NewReader(body)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		return extractTar(out, tar.NewReader(gz), member)
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(body)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		_, err = io.Copy(out, gz)
		return err
	case strings.HasSuffix(name, ".zip"):
		return extractZip(out, body, member)
	default:
		_, err := io.Copy(out, body)
		return err
	}
}

func extractTar(out io.Writer, tr *tar.Reader, member string) error {
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return fmt.Errorf("no %s found in downloaded archive", member)
		}
		if err != nil {
			return fmt.Errorf("error reading tar archive: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		if path.Base(header.Name) == member {
			_, err := io.Copy(out, tr)
			return err
		}
	}
}

func extractZip(out io.Writer, body io.Reader, member string) error {
	// zip needs random access, so spool the archive to disk first.
	spool, err := os.CreateTemp("", "cousinwords-*.zip")
	if err != nil {
		return err
	}
	defer os.Remove(spool.Name())
	defer spool.Close()

	size, err := io.Copy(spool, body)
	if err != nil {
		return fmt.Errorf("failed to save archive: %w", err)
	}
	zr, err := zip.NewReader(spool, size)
	if err != nil {
		return fmt.Errorf("error reading zip archive: %w", err)
	}

	var pick *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if path.Base(f.Name) == member {
			pick = f
			break
		}
		if pick == nil {
			pick = f
		}
	}
	if pick == nil {
		return fmt.Errorf("no files found in downloaded archive")
	}

	rc, err := pick.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = io.Copy(out, rc)
	return err
}
