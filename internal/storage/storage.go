// Package storage persists model version records using BoltDB. Every artifact
// the loader materializes on disk gets a version entry (source URL, checksum,
// size, fetch time); the newest entry is marked active. Nothing else is
// persisted: prediction requests are deliberately stateless.
package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"immoval/internal/ml"
)

const versionsBucket = "model_versions"

// ModelVersion is a record of one model artifact materialized on disk.
type ModelVersion struct {
	Version   string    `json:"version"`
	SourceURL string    `json:"source_url"`
	Path      string    `json:"path"`
	SHA256    string    `json:"sha256"`
	Size      int64     `json:"size"`
	FetchedAt time.Time `json:"fetched_at"`
	IsActive  bool      `json:"is_active"`
}

// Store provides the model version registry backed by BoltDB.
type Store struct {
	db *bbolt.DB
}

// New opens the registry database under dataPath, creating the bucket when
// needed.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "immoval-data.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(versionsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create versions bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordArtifact registers a freshly materialized artifact as the active
// model version, demoting any previously active entry. It implements
// ml.ArtifactRecorder.
func (s *Store) RecordArtifact(info ml.ArtifactInfo) error {
	version := ModelVersion{
		Version:   info.FetchedAt.Format("20060102-150405"),
		SourceURL: info.SourceURL,
		Path:      info.Path,
		SHA256:    info.SHA256,
		Size:      info.Size,
		FetchedAt: info.FetchedAt,
		IsActive:  true,
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(versionsBucket))

		// Demote the current active version.
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var existing ModelVersion
			if err := json.Unmarshal(v, &existing); err != nil {
				continue // Skip malformed records
			}
			if existing.IsActive {
				existing.IsActive = false
				data, err := json.Marshal(existing)
				if err != nil {
					return fmt.Errorf("marshal version: %w", err)
				}
				if err := b.Put(k, data); err != nil {
					return err
				}
			}
		}

		data, err := json.Marshal(version)
		if err != nil {
			return fmt.Errorf("marshal version: %w", err)
		}
		return b.Put([]byte(version.Version), data)
	})
}

// ListVersions returns all recorded model versions in key order (oldest
// first, since version ids are timestamps).
func (s *Store) ListVersions() ([]ModelVersion, error) {
	var versions []ModelVersion

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(versionsBucket))
		return b.ForEach(func(k, v []byte) error {
			var version ModelVersion
			if err := json.Unmarshal(v, &version); err != nil {
				return nil // Skip malformed records
			}
			versions = append(versions, version)
			return nil
		})
	})

	return versions, err
}

// ActiveVersion returns the currently active model version, or nil when the
// registry is empty.
func (s *Store) ActiveVersion() (*ModelVersion, error) {
	versions, err := s.ListVersions()
	if err != nil {
		return nil, err
	}
	for i := range versions {
		if versions[i].IsActive {
			return &versions[i], nil
		}
	}
	return nil, nil
}
