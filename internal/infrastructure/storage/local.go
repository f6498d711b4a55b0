package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/webpoptimizer/internal/config"
	"github.com/yokitheyo/webpoptimizer/internal/domain"
)

type localStorage struct {
	basePath string
}

func NewLocalStorage(cfg *config.StorageConfig) (Storage, error) {
	if cfg.LocalPath == "" {
		return nil, fmt.Errorf("LocalPath is empty, set storage.local_path in config or env")
	}
	if err := os.MkdirAll(cfg.LocalPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &localStorage{basePath: cfg.LocalPath}, nil
}

func (s *localStorage) Get(ctx context.Context, container, key string) ([]byte, error) {
	fullPath, err := s.resolve(container, key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			zlog.Logger.Error().Str("path", fullPath).Msg("file not found")
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrObjectNotFound, container, key)
		}
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to read file")
		return nil, fmt.Errorf("read file %s: %w", fullPath, err)
	}

	zlog.Logger.Debug().Str("path", fullPath).Int("size", len(data)).Msg("file read")
	return data, nil
}

func (s *localStorage) Put(ctx context.Context, container, key string, data []byte, contentType string) error {
	fullPath, err := s.resolve(container, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", fullPath, err)
	}

	// Write-then-rename so readers never observe a partial derivative.
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".put-*")
	if err != nil {
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to create file")
		return fmt.Errorf("create file %s: %w", fullPath, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		zlog.Logger.Error().Err(err).Str("path", fullPath).Msg("failed to write file")
		return fmt.Errorf("write file %s: %w", fullPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close file %s: %w", fullPath, err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename file %s: %w", fullPath, err)
	}

	zlog.Logger.Info().
		Str("path", fullPath).
		Str("content_type", contentType).
		Int("bytes", len(data)).
		Msg("file saved successfully")
	return nil
}

func (s *localStorage) resolve(container, key string) (string, error) {
	root := filepath.Join(s.basePath, container)
	fullPath := filepath.Join(root, filepath.FromSlash(key))
	if container == "" || strings.Contains(container, "..") ||
		!strings.HasPrefix(fullPath, root+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object path %q/%q", container, key)
	}
	return fullPath, nil
}
