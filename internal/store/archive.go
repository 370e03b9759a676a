package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"convo/internal/types"
)

var ErrSessionNotFound = errors.New("session not found")

var bucketSessions = []byte("sessions")

// ArchiveStore persists finished sessions. The reduction core never touches
// it; the CLI archives a session after its stream ends and lists archived
// sessions later.
type ArchiveStore struct {
	db *bolt.DB
}

type ArchiveEntry struct {
	ID           string    `json:"id"`
	Vendor       string    `json:"vendor,omitempty"`
	Title        string    `json:"title,omitempty"`
	MessageCount int       `json:"message_count"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

func NewArchiveStore(path string) (*ArchiveStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("archive db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &ArchiveStore{db: db}, nil
}

func (s *ArchiveStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores a finished session. Streaming drafts, in-flight tool state and
// sub-conversation material are ephemeral and are pruned before writing:
// nested exchanges are visible live but do not survive a resume.
func (s *ArchiveStore) Put(ctx context.Context, session *types.Session) error {
	if s == nil || s.db == nil {
		return errors.New("archive store is closed")
	}
	if session == nil || strings.TrimSpace(session.ID) == "" {
		return errors.New("session requires an id")
	}
	archived := pruneForArchive(session)
	data, err := json.Marshal(archived)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketSessions)
		if bucket == nil {
			return errors.New("sessions bucket missing")
		}
		return bucket.Put([]byte(archived.ID), data)
	})
}

func (s *ArchiveStore) Get(ctx context.Context, id string) (*types.Session, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("archive store is closed")
	}
	var session *types.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketSessions)
		if bucket == nil {
			return ErrSessionNotFound
		}
		data := bucket.Get([]byte(id))
		if data == nil {
			return ErrSessionNotFound
		}
		decoded := &types.Session{}
		if err := json.Unmarshal(data, decoded); err != nil {
			return err
		}
		session = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ArchiveStore) List(ctx context.Context) ([]ArchiveEntry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("archive store is closed")
	}
	entries := []ArchiveEntry{}
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketSessions)
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(key, value []byte) error {
			var session types.Session
			if err := json.Unmarshal(value, &session); err != nil {
				return nil
			}
			entries = append(entries, ArchiveEntry{
				ID:           session.ID,
				Vendor:       session.Vendor,
				Title:        session.Title,
				MessageCount: len(session.Messages),
				UpdatedAt:    session.UpdatedAt,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries, nil
}

func (s *ArchiveStore) Delete(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return errors.New("archive store is closed")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketSessions)
		if bucket == nil {
			return ErrSessionNotFound
		}
		if bucket.Get([]byte(id)) == nil {
			return ErrSessionNotFound
		}
		return bucket.Delete([]byte(id))
	})
}

func pruneForArchive(session *types.Session) *types.Session {
	archived := session.Clone()
	archived.Streaming = nil
	archived.ActiveTools = nil
	archived.SubSessions = nil
	kept := make([]types.Message, 0, len(archived.Messages))
	for _, msg := range archived.Messages {
		if msg.SubConversation {
			continue
		}
		kept = append(kept, msg)
	}
	archived.Messages = kept
	return archived
}
