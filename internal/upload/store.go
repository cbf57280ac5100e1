package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/newsroom/internal/telemetry/tracing"
	"github.com/2beens/newsroom/pkg"
)

// DiskStore keeps uploaded files flat in a single directory under generated names.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, errors.New("upload dir cannot be empty")
	}
	exists, err := pkg.PathExists(dir, true)
	if err != nil {
		return nil, fmt.Errorf("check upload dir: %w", err)
	}
	if !exists {
		log.Debugf("upload dir %s not found, creating it", dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &DiskStore{
		dir: dir,
	}, nil
}

func (s *DiskStore) Dir() string {
	return s.dir
}

// storedName pairs a fresh uuid with the extension of the sniffed type.
func storedName(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && (!strings.HasPrefix(ext, ".") || len(ext) > 10 || strings.ContainsAny(ext[1:], `./\ `)) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// Save writes the content to a new file named <uuid><ext> and returns its name and size.
func (s *DiskStore) Save(ctx context.Context, ext string, content io.Reader) (_ string, _ int64, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "upload.disk.save")
	defer func() { tracing.EndWithErr(span, err) }()

	name := storedName(ext)
	span.SetAttributes(attribute.String("file.name", name))

	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}

	size, err := io.Copy(dst, content)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if removeErr := os.Remove(filepath.Join(s.dir, name)); removeErr != nil {
			log.Errorf("remove partial upload %s: %s", name, removeErr)
		}
		return "", 0, fmt.Errorf("write file: %w", err)
	}

	span.SetAttributes(attribute.Int64("file.size", size))
	log.Debugf("upload stored: %s (%d bytes)", name, size)
	return name, size, nil
}
