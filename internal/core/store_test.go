package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/illarion/pw/internal/crypto"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), VaultFile))
	if err := store.Init(testParams); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

func addEntry(t *testing.T, store *Store, long, short, extra, secret, password string) *Entry {
	t.Helper()
	d, err := NewDraft(long, short, extra, []byte(secret))
	if err != nil {
		t.Fatalf("NewDraft failed: %v", err)
	}
	e, err := store.Add(d, []byte(password))
	if err != nil {
		t.Fatalf("Add %s failed: %v", long, err)
	}
	return e
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, VaultFile))

	if err := store.Init(testParams); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	// Test init again (should fail)
	if err := store.Init(testParams); err != ErrAlreadyExists {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, VaultFile)); err != nil {
		t.Errorf("Vault file should exist: %v", err)
	}
}

func TestInitRejectsBadParams(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), VaultFile))
	if err := store.Init(crypto.Params{}); !errors.Is(err, ErrKeyDerivation) {
		t.Errorf("Expected ErrKeyDerivation, got %v", err)
	}
}

func TestNotInitialized(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), VaultFile))

	if _, err := store.List(); err != ErrNotInitialized {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
	if _, err := store.Get("x", []byte("pw")); err != ErrNotInitialized {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestAddGetList(t *testing.T) {
	store := newTestStore(t)
	password := "test123"

	addEntry(t, store, "github", "gh", "", "p@ssw0rd!", password)
	addEntry(t, store, "aws", "", "root account", "hunter2", password)

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Long != "aws" || entries[1].Long != "github" {
		t.Errorf("Entries not sorted: %s, %s", entries[0].Long, entries[1].Long)
	}

	secret, err := store.Get("gh", []byte(password))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(secret) != "p@ssw0rd!" {
		t.Errorf("Secret mismatch: got %s", secret)
	}

	if _, err := store.Get("github", []byte("wrong")); !errors.Is(err, ErrAuthentication) {
		t.Errorf("Expected ErrAuthentication, got %v", err)
	}
	if _, err := store.Get("missing", []byte(password)); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
}

func TestAddRejectsNameInUse(t *testing.T) {
	store := newTestStore(t)
	addEntry(t, store, "github", "gh", "", "secret", "pw")

	secret := []byte("other")
	d, err := NewDraft("gitlab", "gh", "", secret)
	if err != nil {
		t.Fatalf("NewDraft failed: %v", err)
	}
	if _, err := store.Add(d, []byte("pw")); !errors.Is(err, ErrNameInUse) {
		t.Fatalf("Expected ErrNameInUse, got %v", err)
	}

	// Rejected drafts are not consumed
	if string(secret) != "other" {
		t.Error("Rejected draft should keep its secret")
	}
	d.Discard()
}

func TestAddShortSameAsLong(t *testing.T) {
	store := newTestStore(t)

	if err := store.CheckNames("github", "github"); err != nil {
		t.Fatalf("Short name equal to long name should be allowed: %v", err)
	}
	addEntry(t, store, "github", "github", "", "secret", "pw")

	if err := store.CheckNames("gitlab", "github"); !errors.Is(err, ErrNameInUse) {
		t.Errorf("Expected ErrNameInUse, got %v", err)
	}
	secret, err := store.Get("github", []byte("pw"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(secret) != "secret" {
		t.Errorf("Secret mismatch: got %s", secret)
	}
}

func TestEntriesIndependentPasswords(t *testing.T) {
	store := newTestStore(t)
	addEntry(t, store, "a", "", "", "secret-a", "pass-a")
	addEntry(t, store, "b", "", "", "secret-b", "pass-b")

	if err := store.VerifyPassword("a", []byte("pass-a")); err != nil {
		t.Errorf("VerifyPassword a failed: %v", err)
	}
	if err := store.VerifyPassword("b", []byte("pass-a")); !errors.Is(err, ErrAuthentication) {
		t.Errorf("Expected ErrAuthentication for b, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	addEntry(t, store, "github", "gh", "", "secret", "pw")

	removed, err := store.Delete("gh")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed.Long != "github" {
		t.Errorf("Removed wrong entry: %s", removed.Long)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected 0 entries, got %d", len(entries))
	}

	if _, err := store.Delete("github"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got %v", err)
	}
}

func TestEditLabelsReseals(t *testing.T) {
	store := newTestStore(t)
	original := addEntry(t, store, "github", "gh", "", "secret", "pw")

	long, extra := "github.com", "work"
	old, updated, err := store.Edit("gh", []byte("pw"), EditRequest{Long: &long, Extra: &extra})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if old.Long != "github" || updated.Long != "github.com" || updated.Short != "gh" || updated.Extra != "work" {
		t.Errorf("Unexpected labels after edit: %+v", updated)
	}
	if updated.Salt == original.Salt {
		t.Error("Edit must reseal with a new salt")
	}

	secret, err := store.Get("github.com", []byte("pw"))
	if err != nil {
		t.Fatalf("Get after edit failed: %v", err)
	}
	if string(secret) != "secret" {
		t.Errorf("Secret changed by label edit: %s", secret)
	}
	if _, err := store.Find("github"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Old name should be gone, got %v", err)
	}
}

func TestEditSecret(t *testing.T) {
	store := newTestStore(t)
	addEntry(t, store, "github", "", "", "old-secret", "pw")

	newSecret := []byte("new-secret")
	if _, _, err := store.Edit("github", []byte("pw"), EditRequest{Secret: newSecret}); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if !bytes.Equal(newSecret, make([]byte, len("new-secret"))) {
		t.Error("Edit should clear the supplied secret")
	}

	secret, err := store.Get("github", []byte("pw"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(secret) != "new-secret" {
		t.Errorf("Secret mismatch: got %s", secret)
	}
}

func TestEditRequiresPassword(t *testing.T) {
	store := newTestStore(t)
	addEntry(t, store, "github", "", "", "secret", "pw")

	extra := "x"
	if _, _, err := store.Edit("github", []byte("wrong"), EditRequest{Extra: &extra}); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("Expected ErrAuthentication, got %v", err)
	}
	e, err := store.Find("github")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if e.Extra != "" {
		t.Error("Failed edit must not change the entry")
	}
}

func TestEditNameInUse(t *testing.T) {
	store := newTestStore(t)
	addEntry(t, store, "github", "gh", "", "secret", "pw")
	addEntry(t, store, "aws", "", "", "secret", "pw")

	short := "aws"
	if _, _, err := store.Edit("github", []byte("pw"), EditRequest{Short: &short}); !errors.Is(err, ErrNameInUse) {
		t.Errorf("Expected ErrNameInUse, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	store := newTestStore(t)
	addEntry(t, store, "github", "gh", "", "secret-1", "old")
	addEntry(t, store, "aws", "", "", "secret-2", "old")

	n, err := store.ChangePassword(context.Background(), []byte("old"), []byte("new"))
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 resealed entries, got %d", n)
	}

	if _, err := store.Get("github", []byte("old")); !errors.Is(err, ErrAuthentication) {
		t.Errorf("Old password should no longer work, got %v", err)
	}
	secret, err := store.Get("aws", []byte("new"))
	if err != nil {
		t.Fatalf("Get with new password failed: %v", err)
	}
	if string(secret) != "secret-2" {
		t.Errorf("Secret mismatch: got %s", secret)
	}
}

func TestChangePasswordAllOrNothing(t *testing.T) {
	store := newTestStore(t)
	addEntry(t, store, "a", "", "", "secret-a", "old")
	addEntry(t, store, "b", "", "", "secret-b", "different")

	if _, err := store.ChangePassword(context.Background(), []byte("old"), []byte("new")); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("Expected ErrAuthentication, got %v", err)
	}

	// Nothing changed
	if err := store.VerifyPassword("a", []byte("old")); err != nil {
		t.Errorf("Entry a should still open with old password: %v", err)
	}
}

func TestExportImport(t *testing.T) {
	src := newTestStore(t)
	addEntry(t, src, "github", "gh", "", "secret-1", "pw")
	addEntry(t, src, "aws", "", "root", "secret-2", "pw")

	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("Export is not a JSON array: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("Expected 2 exported entries, got %d", len(raw))
	}
	for _, key := range []string{"long", "short", "extra", "salt", "sealed"} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("Exported entry missing %q", key)
		}
	}

	dst := newTestStore(t)
	result, err := dst.Import(context.Background(), &buf, ImportOptions{Strategy: StrategyAbort})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(result.Added) != 2 {
		t.Errorf("Expected 2 added, got %v", result.Added)
	}

	secret, err := dst.Get("gh", []byte("pw"))
	if err != nil {
		t.Fatalf("Get after import failed: %v", err)
	}
	if string(secret) != "secret-1" {
		t.Errorf("Secret mismatch: got %s", secret)
	}
}

func TestImportConflicts(t *testing.T) {
	src := newTestStore(t)
	addEntry(t, src, "github", "gh", "", "imported", "pw")
	addEntry(t, src, "mail", "", "", "mail-secret", "pw")
	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	exported := buf.Bytes()

	t.Run("abort", func(t *testing.T) {
		dst := newTestStore(t)
		addEntry(t, dst, "github", "", "", "local", "pw")

		_, err := dst.Import(context.Background(), bytes.NewReader(exported), ImportOptions{Strategy: StrategyAbort})
		if !errors.Is(err, ErrImportConflict) {
			t.Fatalf("Expected ErrImportConflict, got %v", err)
		}
		entries, _ := dst.List()
		if len(entries) != 1 {
			t.Errorf("Aborted import must not change the vault, got %d entries", len(entries))
		}
	})

	t.Run("keep local", func(t *testing.T) {
		dst := newTestStore(t)
		addEntry(t, dst, "github", "", "", "local", "pw")

		result, err := dst.Import(context.Background(), bytes.NewReader(exported), ImportOptions{Strategy: StrategyKeepLocal})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if len(result.Skipped) != 1 || len(result.Added) != 1 {
			t.Errorf("Unexpected result: %+v", result)
		}
		secret, err := dst.Get("github", []byte("pw"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(secret) != "local" {
			t.Errorf("Expected local secret, got %s", secret)
		}
	})

	t.Run("use incoming", func(t *testing.T) {
		dst := newTestStore(t)
		addEntry(t, dst, "github", "", "", "local", "pw")
		addEntry(t, dst, "gh", "", "", "clash-by-short", "pw")

		result, err := dst.Import(context.Background(), bytes.NewReader(exported), ImportOptions{Strategy: StrategyUseIncoming})
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if len(result.Replaced) != 1 {
			t.Errorf("Expected 1 replaced, got %+v", result)
		}
		entries, _ := dst.List()
		if len(entries) != 2 {
			t.Errorf("Expected github and mail, got %d entries", len(entries))
		}
		secret, err := dst.Get("gh", []byte("pw"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(secret) != "imported" {
			t.Errorf("Expected imported secret, got %s", secret)
		}
	})
}

func TestImportReseal(t *testing.T) {
	legacyParams := crypto.Params{Time: 2, Memory: 64, Threads: 1}
	legacy := NewEngine(legacyParams)

	d, err := NewDraft("github", "gh", "", []byte("legacy-secret"))
	if err != nil {
		t.Fatalf("NewDraft failed: %v", err)
	}
	e, err := legacy.Seal(d, []byte("pw"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	data, err := json.Marshal([]*Entry{e})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	store := newTestStore(t)
	_, err = store.Import(context.Background(), bytes.NewReader(data), ImportOptions{
		Strategy:   StrategyAbort,
		SourceKDF:  &legacyParams,
		Passphrase: []byte("pw"),
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	secret, err := store.Get("github", []byte("pw"))
	if err != nil {
		t.Fatalf("Get after reseal failed: %v", err)
	}
	if string(secret) != "legacy-secret" {
		t.Errorf("Secret mismatch: got %s", secret)
	}
	imported, err := store.Find("github")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if imported.Salt == e.Salt {
		t.Error("Resealed entry must use a new salt")
	}
}

func TestImportRejectsMalformed(t *testing.T) {
	store := newTestStore(t)

	salt := `[0,1,2,3,4,5,6,7,8,9,10,11,12,13,14,15]`
	inputs := []string{
		`not json`,
		`[null]`,
		`[{"long":"a","short":"","extra":"","salt":` + salt + `,"sealed":[]}, null]`,
		`[{"long":"a","short":"","extra":"","salt":[1],"sealed":[]}]`,
		`[{"long":"a","short":"","extra":"","salt":[0,1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16],"sealed":[]}]`,
		`[{"long":"a","short":"","extra":"","salt":` + salt + `,"sealed":[]}, {"long":"a","short":"","extra":"","salt":` + salt + `,"sealed":[]}]`,
	}
	for _, in := range inputs {
		if _, err := store.Import(context.Background(), bytes.NewReader([]byte(in)), ImportOptions{}); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Rejected imports must not change the vault, got %d entries", len(entries))
	}
}

func TestDecodeEntriesRejectsNull(t *testing.T) {
	if _, err := DecodeEntries(bytes.NewReader([]byte(`[null]`))); err == nil {
		t.Fatal("Expected error for null entry")
	}
}

func TestStatusAndCompact(t *testing.T) {
	store := newTestStore(t)
	addEntry(t, store, "a", "", "", "secret", "pw")
	addEntry(t, store, "b", "", "", "secret", "pw")
	if _, err := store.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if err := store.Compact(); err != nil {
		t.Fatalf("Compact failed: %v", err)
	}

	info, err := store.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if info.Entries != 1 {
		t.Errorf("Expected 1 entry, got %d", info.Entries)
	}
	if info.KDF != testParams {
		t.Errorf("KDF mismatch: %+v", info.KDF)
	}
}

func TestVaultID(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.GetVaultID(); err == nil {
		t.Error("Expected error before vault ID exists")
	}
	id, err := store.GetOrCreateVaultID()
	if err != nil {
		t.Fatalf("GetOrCreateVaultID failed: %v", err)
	}
	got, err := store.GetVaultID()
	if err != nil {
		t.Fatalf("GetVaultID failed: %v", err)
	}
	if got != id {
		t.Errorf("Vault ID mismatch: %s != %s", got, id)
	}
}
