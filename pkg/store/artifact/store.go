package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/autobid-ai/winpredict/pkg/pipeline"
)

// ErrNotFound signals that a tenant has no stored model artifact.
// A tenant that was never trained is expected state, not a failure;
// callers check with errors.Is and fall back to the neutral prediction.
var ErrNotFound = errors.New("model artifact not found")

// Artifact is the persisted model bundle for one tenant: the fitted
// pipeline plus the post-encoding feature names resolved at fit time.
// The names are meaningless without the exact encoding state of the
// pipeline, so the two are always saved and loaded together.
type Artifact struct {
	Pipeline     *pipeline.Pipeline `json:"pipeline"`
	FeatureNames []string           `json:"-"` // persisted in the columns file
	TrainedAt    time.Time          `json:"trained_at"`
	Samples      int                `json:"samples"`
}

// Store persists per-tenant model artifacts on disk, one bundle per tenant
// with no cross-tenant sharing. Saves write to a temp file and rename, so a
// concurrent Load observes either the old artifact in full or the new one
// in full, never a partial write. Loaded artifacts are cached per tenant;
// a successful Save replaces the cache entry.
type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string]*Artifact
}

// NewStore creates the store, creating dir if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model dir: %w", err)
	}
	return &Store{
		dir:   dir,
		cache: make(map[string]*Artifact),
	}, nil
}

// Save persists the artifact for tenantID, overwriting any prior one.
// The pipeline bundle and the feature-name list are written as two
// co-located files, each replaced atomically.
func (s *Store) Save(tenantID string, a *Artifact) error {
	if err := validateTenantID(tenantID); err != nil {
		return err
	}
	if a == nil || a.Pipeline == nil {
		return fmt.Errorf("artifact for tenant %s has no pipeline", tenantID)
	}

	modelData, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	columnsData, err := json.Marshal(a.FeatureNames)
	if err != nil {
		return fmt.Errorf("failed to encode feature names: %w", err)
	}

	if err := s.writeAtomic(s.modelPath(tenantID), modelData); err != nil {
		return err
	}
	if err := s.writeAtomic(s.columnsPath(tenantID), columnsData); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[tenantID] = a
	s.mu.Unlock()
	return nil
}

// Load returns the tenant's artifact, from cache when available.
// Either file missing means ErrNotFound; an unreadable or corrupt file is
// a real error so the caller can distinguish "no model yet" from
// "prediction unavailable".
func (s *Store) Load(tenantID string) (*Artifact, error) {
	if err := validateTenantID(tenantID); err != nil {
		return nil, err
	}

	s.mu.RLock()
	cached := s.cache[tenantID]
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	modelData, err := os.ReadFile(s.modelPath(tenantID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	columnsData, err := os.ReadFile(s.columnsPath(tenantID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read columns file: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(modelData, &a); err != nil {
		return nil, fmt.Errorf("failed to decode model for tenant %s: %w", tenantID, err)
	}
	if err := json.Unmarshal(columnsData, &a.FeatureNames); err != nil {
		return nil, fmt.Errorf("failed to decode feature names for tenant %s: %w", tenantID, err)
	}
	if a.Pipeline == nil {
		return nil, fmt.Errorf("model file for tenant %s holds no pipeline", tenantID)
	}

	s.mu.Lock()
	s.cache[tenantID] = &a
	s.mu.Unlock()
	return &a, nil
}

// Exists reports whether a complete artifact is stored for the tenant
func (s *Store) Exists(tenantID string) bool {
	s.mu.RLock()
	cached := s.cache[tenantID]
	s.mu.RUnlock()
	if cached != nil {
		return true
	}
	if _, err := os.Stat(s.modelPath(tenantID)); err != nil {
		return false
	}
	_, err := os.Stat(s.columnsPath(tenantID))
	return err == nil
}

func (s *Store) modelPath(tenantID string) string {
	return filepath.Join(s.dir, "model_"+tenantID+".json")
}

func (s *Store) columnsPath(tenantID string) string {
	return filepath.Join(s.dir, "model_"+tenantID+"_columns.json")
}

// writeAtomic replaces path via temp file + rename on the same filesystem
func (s *Store) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// validateTenantID rejects ids that would escape the model dir when used
// as a file name component
func validateTenantID(tenantID string) error {
	if tenantID == "" {
		return fmt.Errorf("tenant id is empty")
	}
	if strings.ContainsAny(tenantID, `/\`) || strings.Contains(tenantID, "..") {
		return fmt.Errorf("tenant id %q is not a valid file name component", tenantID)
	}
	return nil
}
