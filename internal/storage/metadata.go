package storage

import (
	"fmt"
	"time"

	"github.com/illarion/pw/internal/crypto"
	bolt "go.etcd.io/bbolt"
)

// Info summarizes a vault without touching any secret
type Info struct {
	Version  string
	Created  time.Time
	Modified time.Time
	KDF      crypto.Params
	VaultID  string // empty until a keyring entry has been saved
	Entries  int
	Size     int64
}

// Info collects the vault summary shown by status
func (s *Storage) Info() (*Info, error) {
	info := &Info{}

	var err error
	if info.Created, err = s.GetCreated(); err != nil {
		return nil, err
	}
	if info.Modified, err = s.GetModified(); err != nil {
		return nil, err
	}
	if info.KDF, err = s.GetKDFParams(); err != nil {
		return nil, err
	}
	if info.Entries, err = s.CountEntries(); err != nil {
		return nil, err
	}
	// Missing vault ID is not an error
	info.VaultID, _ = s.GetVaultID()

	err = s.db.View(func(tx *bolt.Tx) error {
		info.Size = tx.Size()
		if config := tx.Bucket(ConfigBucket); config != nil {
			info.Version = string(config.Get(ConfigVersion))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read database size: %w", err)
	}

	return info, nil
}
