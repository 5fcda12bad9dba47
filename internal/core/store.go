package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/illarion/pw/internal/crypto"
	"github.com/illarion/pw/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	VaultFile      = ".pw.vault"
	LegacyFile     = ".pw.json"
	PathEnvVar     = "PW_PATH"
	FilePermSecure = 0600 // File: owner rw only
)

var (
	ErrNotInitialized = errors.New("vault not initialized")
	ErrAlreadyExists  = errors.New("vault already exists")
)

// DefaultPath returns $PW_PATH or ~/.pw.vault
func DefaultPath() (string, error) {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory not found: %w", err)
	}
	return filepath.Join(home, VaultFile), nil
}

// Store manages a file-backed vault of sealed entries
type Store struct {
	path string
	log  *logrus.Entry
}

// New creates a Store for the vault at path
func New(path string) *Store {
	return &Store{
		path: path,
		log:  logrus.WithField("vault", path),
	}
}

// Path returns the vault file path
func (s *Store) Path() string {
	return s.path
}

// open opens an initialized vault
func (s *Store) open() (*storage.Storage, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, ErrNotInitialized
	}
	db, err := storage.Open(s.path)
	if err != nil {
		return nil, err
	}
	ok, err := db.IsInitialized()
	if err != nil || !ok {
		db.Close()
		return nil, ErrNotInitialized
	}
	return db, nil
}

// Init creates a new vault using params for every entry's key derivation
func (s *Store) Init(params crypto.Params) error {
	if _, err := os.Stat(s.path); err == nil {
		return ErrAlreadyExists
	}
	if err := params.Validate(); err != nil {
		return err
	}

	db, err := storage.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if err := db.Initialize(params); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	s.log.WithField("kdf", params.String()).Info("vault created")
	return nil
}

// engine returns an engine configured with the vault's Argon2 parameters
func (s *Store) engine(db *storage.Storage) (Engine, error) {
	params, err := db.GetKDFParams()
	if err != nil {
		return Engine{}, fmt.Errorf("failed to read kdf parameters: %w", err)
	}
	return NewEngine(params), nil
}

// load reads every entry into a collection
func (s *Store) load(db *storage.Storage) (*Collection, error) {
	records, err := db.GetEntries()
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	c := &Collection{}
	for _, r := range records {
		var e Entry
		if err := json.Unmarshal(r.Data, &e); err != nil {
			return nil, fmt.Errorf("malformed entry %s: %w", r.Name, err)
		}
		if err := c.Add(&e); err != nil {
			return nil, fmt.Errorf("corrupt vault: %w", err)
		}
	}
	return c, nil
}

func record(e *Entry) (storage.Record, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return storage.Record{}, fmt.Errorf("failed to marshal entry %s: %w", e.Long, err)
	}
	return storage.Record{Name: e.Long, Data: data}, nil
}

// List returns all entries ordered by long name. No password is required.
func (s *Store) List() ([]*Entry, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	c, err := s.load(db)
	if err != nil {
		return nil, err
	}
	return c.Entries(), nil
}

// Find looks up an entry by long or short name
func (s *Store) Find(name string) (*Entry, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return s.lookup(db, name)
}

// lookup reads the entry stored under name as its long name, falling back
// to a scan of short names
func (s *Store) lookup(db *storage.Storage, name string) (*Entry, error) {
	data, err := db.GetEntry(name)
	if err == nil {
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("malformed entry %s: %w", name, err)
		}
		return &e, nil
	}
	if !errors.Is(err, storage.ErrEntryNotFound) {
		return nil, fmt.Errorf("failed to read entry: %w", err)
	}

	c, err := s.load(db)
	if err != nil {
		return nil, err
	}
	return c.Find(name)
}

// CheckNames reports whether a new entry could use these names
func (s *Store) CheckNames(long, short string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := s.load(db)
	if err != nil {
		return err
	}
	return c.CheckNames(long, short, nil)
}

// Add seals d and stores the resulting entry.
// Names are checked before sealing, so a rejected draft is left unsealed.
func (s *Store) Add(d *Draft, passphrase []byte) (*Entry, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	c, err := s.load(db)
	if err != nil {
		return nil, err
	}
	if err := c.CheckNames(d.Long, d.Short, nil); err != nil {
		return nil, err
	}

	engine, err := s.engine(db)
	if err != nil {
		return nil, err
	}
	e, err := engine.Seal(d, passphrase)
	if err != nil {
		return nil, err
	}

	r, err := record(e)
	if err != nil {
		return nil, err
	}
	if err := db.PutEntry(r.Name, r.Data); err != nil {
		return nil, fmt.Errorf("failed to store entry: %w", err)
	}

	s.log.WithField("entry", e.Long).Info("entry added")
	return e, nil
}

// Get opens the entry named name and returns its secret.
// The caller should clear the returned bytes when done.
func (s *Store) Get(name string, passphrase []byte) ([]byte, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	e, err := s.lookup(db, name)
	if err != nil {
		return nil, err
	}
	engine, err := s.engine(db)
	if err != nil {
		return nil, err
	}
	return engine.Open(e, passphrase)
}

// VerifyPassword checks that passphrase opens the entry named name
func (s *Store) VerifyPassword(name string, passphrase []byte) error {
	secret, err := s.Get(name, passphrase)
	if err != nil {
		return err
	}
	crypto.ClearBytes(secret)
	return nil
}

// Delete removes the entry named name and returns it
func (s *Store) Delete(name string) (*Entry, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	c, err := s.load(db)
	if err != nil {
		return nil, err
	}
	e, err := c.Find(name)
	if err != nil {
		return nil, err
	}
	if err := db.DeleteEntry(e.Long); err != nil {
		return nil, fmt.Errorf("failed to delete entry: %w", err)
	}

	s.log.WithField("entry", e.Long).Info("entry deleted")
	return e, nil
}

// EditRequest describes changes to an entry. Nil fields are left unchanged.
type EditRequest struct {
	Long   *string
	Short  *string
	Extra  *string
	Secret []byte // replaces the secret when non-nil; zeroed after use
}

// Edit applies req to the entry named name. The entry is always resealed
// from a new draft with a fresh salt; it is never sealed in place.
// Returns the previous and the new entry.
func (s *Store) Edit(name string, passphrase []byte, req EditRequest) (*Entry, *Entry, error) {
	defer crypto.ClearBytes(req.Secret)

	db, err := s.open()
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	c, err := s.load(db)
	if err != nil {
		return nil, nil, err
	}
	old, err := c.Find(name)
	if err != nil {
		return nil, nil, err
	}

	labels := Labels{Long: old.Long, Short: old.Short, Extra: old.Extra}
	if req.Long != nil {
		labels.Long = *req.Long
	}
	if req.Short != nil {
		labels.Short = *req.Short
	}
	if req.Extra != nil {
		labels.Extra = *req.Extra
	}
	if err := c.CheckNames(labels.Long, labels.Short, old); err != nil {
		return nil, nil, err
	}

	engine, err := s.engine(db)
	if err != nil {
		return nil, nil, err
	}

	// Always authenticate the old entry, even when replacing the secret
	secret, err := engine.Open(old, passphrase)
	if err != nil {
		return nil, nil, err
	}
	if req.Secret != nil {
		crypto.ClearBytes(secret)
		secret = append([]byte(nil), req.Secret...)
	}

	d, err := NewDraft(labels.Long, labels.Short, labels.Extra, secret)
	if err != nil {
		crypto.ClearBytes(secret)
		return nil, nil, err
	}
	updated, err := engine.Seal(d, passphrase)
	if err != nil {
		return nil, nil, err
	}

	r, err := record(updated)
	if err != nil {
		return nil, nil, err
	}
	if err := db.ReplaceEntry(old.Long, r.Name, r.Data); err != nil {
		return nil, nil, fmt.Errorf("failed to store entry: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"entry":  old.Long,
		"now":    updated.Long,
		"secret": req.Secret != nil,
	}).Info("entry edited")
	return old, updated, nil
}

// resealAll reseals entries concurrently. Each result keeps its input position.
func resealAll(ctx context.Context, entries []*Entry, fn func(*Entry) (*Entry, error)) ([]*Entry, error) {
	out := make([]*Entry, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sealed, err := fn(e)
			if err != nil {
				return err
			}
			out[i] = sealed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ChangePassword reseals every entry under newPassword with a new salt.
// All entries must open with currentPassword; otherwise nothing is changed.
// Returns the number of entries resealed.
func (s *Store) ChangePassword(ctx context.Context, currentPassword, newPassword []byte) (int, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	c, err := s.load(db)
	if err != nil {
		return 0, err
	}
	engine, err := s.engine(db)
	if err != nil {
		return 0, err
	}

	resealed, err := resealAll(ctx, c.Entries(), func(e *Entry) (*Entry, error) {
		return engine.reseal(e, currentPassword, newPassword, e.Long, e.Short, e.Extra)
	})
	if err != nil {
		return 0, err
	}

	records := make([]storage.Record, 0, len(resealed))
	for _, e := range resealed {
		r, err := record(e)
		if err != nil {
			return 0, err
		}
		records = append(records, r)
	}
	if err := db.PutEntries(records, true); err != nil {
		return 0, fmt.Errorf("failed to store resealed entries: %w", err)
	}

	s.log.WithField("entries", len(records)).Info("password changed")
	return len(records), nil
}

// ImportOptions controls Import
type ImportOptions struct {
	Strategy ImportStrategy

	// SourceKDF holds the Argon2 parameters the imported entries were sealed
	// with. When set and different from the vault's, every imported entry is
	// opened with Passphrase and resealed under the vault parameters.
	SourceKDF  *crypto.Params
	Passphrase []byte
}

// ImportResult lists what happened to each imported entry
type ImportResult struct {
	Added    []string
	Replaced []string
	Skipped  []string
}

// DecodeEntries reads a JSON array of entries
func DecodeEntries(r io.Reader) ([]*Entry, error) {
	var entries []*Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("malformed entry list: %w", err)
	}
	for i, e := range entries {
		if e == nil {
			return nil, fmt.Errorf("malformed entry list: entry %d is null", i)
		}
	}
	if _, err := NewCollection(entries...); err != nil {
		return nil, fmt.Errorf("invalid entry list: %w", err)
	}
	return entries, nil
}

// Import adds entries from a JSON entry list, resolving name conflicts
// with opts.Strategy. The vault is updated in a single transaction.
func (s *Store) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	incoming, err := DecodeEntries(r)
	if err != nil {
		return nil, err
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	c, err := s.load(db)
	if err != nil {
		return nil, err
	}
	engine, err := s.engine(db)
	if err != nil {
		return nil, err
	}

	if opts.SourceKDF != nil && *opts.SourceKDF != engine.KDF {
		source := NewEngine(*opts.SourceKDF)
		incoming, err = resealAll(ctx, incoming, func(e *Entry) (*Entry, error) {
			secret, err := source.Open(e, opts.Passphrase)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", e.Long, err)
			}
			d, err := NewDraft(e.Long, e.Short, e.Extra, secret)
			if err != nil {
				crypto.ClearBytes(secret)
				return nil, err
			}
			return engine.Seal(d, opts.Passphrase)
		})
		if err != nil {
			return nil, err
		}
	}

	result := &ImportResult{}
	for _, e := range incoming {
		nameErr := c.CheckNames(e.Long, e.Short, nil)
		if nameErr == nil {
			if err := c.Add(e); err != nil {
				return nil, err
			}
			result.Added = append(result.Added, e.Long)
			continue
		}
		if !errors.Is(nameErr, ErrNameInUse) {
			return nil, nameErr
		}

		conflicts := conflicting(c, e)
		resolution, err := HandleConflict(conflicts, e, opts.Strategy)
		if err != nil {
			return nil, err
		}
		if resolution == ResolutionKeepLocal {
			result.Skipped = append(result.Skipped, e.Long)
			continue
		}
		for _, old := range conflicts {
			if _, err := c.Remove(old.Long); err != nil {
				return nil, err
			}
		}
		if err := c.Add(e); err != nil {
			return nil, err
		}
		result.Replaced = append(result.Replaced, e.Long)
	}

	records := make([]storage.Record, 0, c.Len())
	for _, e := range c.Entries() {
		r, err := record(e)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := db.PutEntries(records, true); err != nil {
		return nil, fmt.Errorf("failed to store imported entries: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"added":    len(result.Added),
		"replaced": len(result.Replaced),
		"skipped":  len(result.Skipped),
	}).Info("entries imported")
	return result, nil
}

// conflicting returns the entries whose names clash with e
func conflicting(c *Collection, e *Entry) []*Entry {
	var out []*Entry
	for _, existing := range c.Entries() {
		if existing.Matches(e.Long) || (e.Short != "" && existing.Matches(e.Short)) {
			out = append(out, existing)
		}
	}
	return out
}

// Export writes every entry as a JSON array, in the same form Import reads
func (s *Store) Export(w io.Writer) error {
	entries, err := s.List()
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write entries: %w", err)
	}
	return nil
}

// Status returns the vault summary. No password is required.
func (s *Store) Status() (*storage.Info, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Info()
}

// Compact compacts the database to reclaim unused space.
// This is useful after deleting entries or changing the password.
func (s *Store) Compact() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Compact()
}

// GetVaultID retrieves the vault ID from storage
func (s *Store) GetVaultID() (string, error) {
	db, err := s.open()
	if err != nil {
		return "", err
	}
	defer db.Close()
	return db.GetVaultID()
}

// GetOrCreateVaultID retrieves existing vault ID or generates a new one
func (s *Store) GetOrCreateVaultID() (string, error) {
	db, err := s.open()
	if err != nil {
		return "", err
	}
	defer db.Close()
	return db.GetOrCreateVaultID()
}
