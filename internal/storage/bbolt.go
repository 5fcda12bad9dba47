package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/illarion/pw/internal/crypto"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	ConfigBucket  = []byte("config")  // Vault settings - unencrypted
	EntriesBucket = []byte("entries") // Sealed entries keyed by long name
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
	ConfigKDF      = []byte("kdf")
	ConfigVaultID  = []byte("vault_id")
)

const (
	FormatVersion = "1"
	kdfRecordSize = 9 // time(4) + memory(4) + threads(1)
	openTimeout   = 5 * time.Second
)

var ErrEntryNotFound = errors.New("entry not found")

// Record is a stored entry in its serialized form
type Record struct {
	Name string
	Data []byte
}

// Storage provides BBolt-based storage for pw
type Storage struct {
	db *bolt.DB
}

// Open opens or creates a vault database
func Open(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Initialize creates the bucket structure for a new vault
func (s *Storage) Initialize(params crypto.Params) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, EntriesBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigVersion, []byte(FormatVersion)); err != nil {
			return err
		}
		if err := config.Put(ConfigKDF, encodeParams(params)); err != nil {
			return err
		}

		now := time.Now()
		created, _ := now.MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Storage) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// GetKDFParams retrieves the Argon2 parameters
func (s *Storage) GetKDFParams() (crypto.Params, error) {
	var params crypto.Params
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigKDF)
		if len(data) != kdfRecordSize {
			return fmt.Errorf("kdf parameters not found")
		}
		params = decodeParams(data)
		return nil
	})
	return params, err
}

func encodeParams(p crypto.Params) []byte {
	b := make([]byte, kdfRecordSize)
	binary.BigEndian.PutUint32(b[0:4], p.Time)
	binary.BigEndian.PutUint32(b[4:8], p.Memory)
	b[8] = p.Threads
	return b
}

func decodeParams(b []byte) crypto.Params {
	return crypto.Params{
		Time:    binary.BigEndian.Uint32(b[0:4]),
		Memory:  binary.BigEndian.Uint32(b[4:8]),
		Threads: b[8],
	}
}

// touch updates the last modified timestamp inside an open transaction
func touch(tx *bolt.Tx) error {
	config := tx.Bucket(ConfigBucket)
	if config == nil {
		return fmt.Errorf("config bucket not found")
	}
	modified, _ := time.Now().MarshalBinary()
	return config.Put(ConfigModified, modified)
}

func (s *Storage) getTime(key []byte) (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(key)
		if data == nil {
			return fmt.Errorf("%s time not found", key)
		}
		return t.UnmarshalBinary(data)
	})
	return t, err
}

// GetCreated retrieves the creation timestamp
func (s *Storage) GetCreated() (time.Time, error) {
	return s.getTime(ConfigCreated)
}

// GetModified retrieves the last modified timestamp
func (s *Storage) GetModified() (time.Time, error) {
	return s.getTime(ConfigModified)
}

// GetVaultID retrieves the vault ID from config bucket
func (s *Storage) GetVaultID() (string, error) {
	var vaultID string
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigVaultID)
		if data == nil {
			return fmt.Errorf("vault_id not found")
		}
		vaultID = string(data)
		return nil
	})
	return vaultID, err
}

// GetOrCreateVaultID retrieves existing vault ID or generates a new one
func (s *Storage) GetOrCreateVaultID() (string, error) {
	vaultID, err := s.GetVaultID()
	if err == nil {
		return vaultID, nil
	}

	vaultID = uuid.NewString()
	err = s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		return config.Put(ConfigVaultID, []byte(vaultID))
	})
	if err != nil {
		return "", err
	}

	return vaultID, nil
}

// PutEntry stores a serialized entry under name
func (s *Storage) PutEntry(name string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		entries := tx.Bucket(EntriesBucket)
		if entries == nil {
			return fmt.Errorf("entries bucket not found")
		}
		if err := entries.Put([]byte(name), data); err != nil {
			return err
		}
		return touch(tx)
	})
}

// GetEntry retrieves a serialized entry by its long name
func (s *Storage) GetEntry(name string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		entries := tx.Bucket(EntriesBucket)
		if entries == nil {
			return fmt.Errorf("entries bucket not found")
		}
		data = entries.Get([]byte(name))
		if data == nil {
			return ErrEntryNotFound
		}
		// Make a copy since the slice is only valid during the transaction
		data = append([]byte(nil), data...)
		return nil
	})
	return data, err
}

// DeleteEntry removes an entry
func (s *Storage) DeleteEntry(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		entries := tx.Bucket(EntriesBucket)
		if entries == nil {
			return fmt.Errorf("entries bucket not found")
		}
		if entries.Get([]byte(name)) == nil {
			return ErrEntryNotFound
		}
		if err := entries.Delete([]byte(name)); err != nil {
			return err
		}
		return touch(tx)
	})
}

// ReplaceEntry removes oldName and stores data under newName in one transaction
func (s *Storage) ReplaceEntry(oldName, newName string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		entries := tx.Bucket(EntriesBucket)
		if entries == nil {
			return fmt.Errorf("entries bucket not found")
		}
		if entries.Get([]byte(oldName)) == nil {
			return ErrEntryNotFound
		}
		if err := entries.Delete([]byte(oldName)); err != nil {
			return err
		}
		if err := entries.Put([]byte(newName), data); err != nil {
			return err
		}
		return touch(tx)
	})
}

// PutEntries stores several records in one transaction.
// If replace is set, existing entries are dropped first.
func (s *Storage) PutEntries(records []Record, replace bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if replace {
			if err := tx.DeleteBucket(EntriesBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}
		entries, err := tx.CreateBucketIfNotExists(EntriesBucket)
		if err != nil {
			return err
		}
		for _, r := range records {
			if err := entries.Put([]byte(r.Name), r.Data); err != nil {
				return fmt.Errorf("failed to store %s: %w", r.Name, err)
			}
		}
		return touch(tx)
	})
}

// GetEntries returns all records ordered by name
func (s *Storage) GetEntries() ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		entries := tx.Bucket(EntriesBucket)
		if entries == nil {
			return fmt.Errorf("entries bucket not found")
		}
		return entries.ForEach(func(k, v []byte) error {
			records = append(records, Record{
				Name: string(k),
				Data: append([]byte(nil), v...),
			})
			return nil
		})
	})
	return records, err
}

// CountEntries returns the number of stored entries
func (s *Storage) CountEntries() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		entries := tx.Bucket(EntriesBucket)
		if entries == nil {
			return fmt.Errorf("entries bucket not found")
		}
		n = entries.Stats().KeyN
		return nil
	})
	return n, err
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after deleting entries to reclaim disk space.
func (s *Storage) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"
	os.Remove(tmpPath) // leftover from an interrupted compaction

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	if err := bolt.Compact(dst, s.db, 0); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	s.db, err = bolt.Open(srcPath, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}
