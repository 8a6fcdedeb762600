package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/nearby/internal/domain"
	domsvc "github.com/kailas-cloud/nearby/internal/domain/service"
)

// FileRepo serves the service catalog from a JSON file.
// The file is read on every List so edits show up without a restart;
// concurrent List calls share a single read.
type FileRepo struct {
	path   string
	group  singleflight.Group
	logger *zap.Logger
}

// New creates a file-backed catalog.
func New(path string, logger *zap.Logger) *FileRepo {
	return &FileRepo{path: filepath.Clean(path), logger: logger}
}

// List returns all services in file order. Entries without an id are skipped,
// as are later duplicates of an id already seen.
func (r *FileRepo) List(ctx context.Context) ([]domsvc.Service, error) {
	ch := r.group.DoChan("catalog", func() (any, error) {
		return r.read()
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("catalog read: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared, _ := res.Val.([]domsvc.Service)
		// Callers of a shared read must not see each other's slices.
		out := make([]domsvc.Service, len(shared))
		copy(out, shared)
		return out, nil
	}
}

// Ping checks that the catalog file is readable and well-formed.
func (r *FileRepo) Ping(ctx context.Context) error {
	_, err := r.List(ctx)
	return err
}

func (r *FileRepo) read() ([]domsvc.Service, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrCatalogUnavailable, r.path, err)
	}

	var file fileDTO
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrCatalogUnavailable, r.path, err)
	}

	seen := make(map[string]struct{}, len(file.Services))
	out := make([]domsvc.Service, 0, len(file.Services))
	for i := range file.Services {
		d := &file.Services[i]
		if d.ID == "" {
			r.logger.Warn("catalog entry without id skipped", zap.Int("index", i))
			continue
		}
		if _, dup := seen[d.ID]; dup {
			r.logger.Warn("duplicate catalog id skipped", zap.String("id", d.ID), zap.Int("index", i))
			continue
		}
		seen[d.ID] = struct{}{}
		out = append(out, d.toDomain())
	}
	return out, nil
}
