package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Disk implements ObjectStore on the public directory served by the HTTP
// layer. Names are slash-separated and resolve to URLs under baseURL.
type Disk struct {
	root    string
	baseURL string
}

func NewDisk(root, baseURL string) *Disk {
	return &Disk{
		root:    filepath.Clean(root),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (d *Disk) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	target, err := d.resolve(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}

	out, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		os.Remove(target)
		return "", err
	}

	rel := path.Clean("/" + name)
	return d.baseURL + rel, nil
}

func (d *Disk) Remove(ctx context.Context, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}

	target, err := d.resolve(strings.TrimPrefix(trimmed, d.baseURL))
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// resolve maps a slash name onto the root directory and refuses anything
// that would escape it.
func (d *Disk) resolve(name string) (string, error) {
	cleanRel := path.Clean("/" + strings.TrimPrefix(name, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")
	if cleanRel == "" || cleanRel == "." {
		return "", fmt.Errorf("invalid object name: %q", name)
	}

	target := filepath.Join(d.root, filepath.FromSlash(cleanRel))
	cleanTarget := filepath.Clean(target)
	if cleanTarget != d.root && !strings.HasPrefix(cleanTarget, d.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("refusing path outside object root: %s", name)
	}
	return cleanTarget, nil
}
