package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNotFound means the workspace does not exist. It is terminal.
	ErrNotFound = errors.New("workspace not found")
	// ErrUnreachable means the upstream could not answer. Callers may retry.
	ErrUnreachable = errors.New("workspace provider unreachable")
	// ErrUnauthorized means the upstream rejected our credentials. It is terminal.
	ErrUnauthorized = errors.New("workspace provider rejected credentials")
)

// Provider resolves a workspace id into its current snapshot.
type Provider interface {
	Get(ctx context.Context, id string) (*Context, error)
}

var validID = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidID reports whether id is safe to use as a lookup key.
func ValidID(id string) bool {
	return validID.MatchString(id) && id != "." && id != ".."
}

// FileProvider serves workspaces stored as <id>.json files in a directory.
type FileProvider struct {
	dir string
}

func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

func (p *FileProvider) Get(ctx context.Context, id string) (*Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}

	path := filepath.Join(p.dir, id+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrUnreachable, path, err)
	}

	var ws Context
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrUnreachable, path, err)
	}
	if ws.ID == "" {
		ws.ID = id
	}

	log.Debug().Str("workspace", id).Str("path", path).Msg("Loaded workspace from file")
	return &ws, nil
}
