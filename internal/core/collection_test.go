package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionOrdered(t *testing.T) {
	c, err := NewCollection(
		&Entry{Long: "mail"},
		&Entry{Long: "aws"},
		&Entry{Long: "github", Short: "gh"},
	)
	require.NoError(t, err)

	var names []string
	for _, e := range c.Entries() {
		names = append(names, e.Long)
	}
	assert.Equal(t, []string{"aws", "github", "mail"}, names)
	assert.Equal(t, 3, c.Len())
}

func TestCollectionUniqueNames(t *testing.T) {
	c, err := NewCollection(&Entry{Long: "github", Short: "gh"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		entry *Entry
		err   error
	}{
		{"empty long", &Entry{Long: ""}, ErrEmptyName},
		{"long clashes with long", &Entry{Long: "github"}, ErrNameInUse},
		{"long clashes with short", &Entry{Long: "gh"}, ErrNameInUse},
		{"short clashes with long", &Entry{Long: "gitlab", Short: "github"}, ErrNameInUse},
		{"short clashes with short", &Entry{Long: "gitlab", Short: "gh"}, ErrNameInUse},
		{"distinct", &Entry{Long: "gitlab", Short: "gl"}, nil},
		{"empty short is never a clash", &Entry{Long: "mail"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Add(tt.entry)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestCollectionFindRemove(t *testing.T) {
	c, err := NewCollection(&Entry{Long: "github", Short: "gh"}, &Entry{Long: "aws"})
	require.NoError(t, err)

	e, err := c.Find("gh")
	require.NoError(t, err)
	assert.Equal(t, "github", e.Long)

	_, err = c.Find("missing")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = c.Find("")
	assert.ErrorIs(t, err, ErrEmptyName)

	removed, err := c.Remove("gh")
	require.NoError(t, err)
	assert.Equal(t, "github", removed.Long)
	assert.Equal(t, 1, c.Len())

	_, err = c.Remove("github")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestCollectionReplace(t *testing.T) {
	c, err := NewCollection(&Entry{Long: "github", Short: "gh"}, &Entry{Long: "aws"})
	require.NoError(t, err)

	// Renaming may keep the entry's own names
	require.NoError(t, c.Replace("github", &Entry{Long: "github", Short: "g"}))
	e, err := c.Find("g")
	require.NoError(t, err)
	assert.Equal(t, "github", e.Long)

	// but not take another entry's
	err = c.Replace("github", &Entry{Long: "aws"})
	assert.ErrorIs(t, err, ErrNameInUse)
	assert.Equal(t, 2, c.Len())
}

func TestNewCollectionRejectsDuplicates(t *testing.T) {
	_, err := NewCollection(&Entry{Long: "a", Short: "x"}, &Entry{Long: "x"})
	assert.ErrorIs(t, err, ErrNameInUse)
}
