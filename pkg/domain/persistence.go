package domain

import "context"

// ProjectRecord is the raw row a ProjectStore persists. Current-schema
// records carry the full ProjectConfig as a JSON blob in Config; legacy
// records carry only a flat Result blob in LegacyResults. CreatedAt and
// UpdatedAt mirror the blob's timestamps outside it for cheap listing.
type ProjectRecord struct {
	Owner  string `json:"owner"`
	Name   string `json:"name"`
	Config []byte `json:"config,omitempty"`
	// LegacyResults is read-only compatibility data; new saves never write it.
	LegacyResults []byte `json:"results,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// IsLegacy reports whether the record was written under the pre-config
// schema: a flat results blob and no versioned config.
func (r ProjectRecord) IsLegacy() bool {
	return len(r.Config) == 0 && len(r.LegacyResults) > 0
}

// Clone returns a deep copy of the record.
func (r ProjectRecord) Clone() ProjectRecord {
	cp := r
	cp.Config = append([]byte(nil), r.Config...)
	cp.LegacyResults = append([]byte(nil), r.LegacyResults...)
	return cp
}

// ProjectStore is the adapter contract over an external keyed store.
// Records are addressed by (owner, name); Put is a plain upsert — the
// created-at preservation policy lives above the adapter. Implementations
// surface transport failures as ordinary errors; the caller wraps them.
type ProjectStore interface {
	Put(ctx context.Context, record ProjectRecord) error
	Get(ctx context.Context, owner, name string) (ProjectRecord, bool, error)
	List(ctx context.Context, owner string) ([]ProjectRecord, error)
	Delete(ctx context.Context, owner, name string) (bool, error)
}
