package core

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptyName     = errors.New("entry name can't be empty")
	ErrNameInUse     = errors.New("name already in use")
	ErrEntryNotFound = errors.New("no entry found")
)

// Collection is an ordered set of entries with unique names.
// Long and non-empty Short names are unique across every entry's Long and Short.
type Collection struct {
	entries []*Entry
}

// NewCollection builds a collection, rejecting name conflicts
func NewCollection(entries ...*Entry) (*Collection, error) {
	c := &Collection{}
	for _, e := range entries {
		if err := c.Add(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CheckNames reports whether long and short could be added.
// Names held by except are ignored so that an entry can be relabeled.
func (c *Collection) CheckNames(long, short string, except *Entry) error {
	if long == "" {
		return ErrEmptyName
	}
	if short == long {
		short = ""
	}
	for _, e := range c.entries {
		if e == except {
			continue
		}
		if e.Matches(long) {
			return fmt.Errorf("%w: %s", ErrNameInUse, long)
		}
		if short != "" && e.Matches(short) {
			return fmt.Errorf("%w: %s", ErrNameInUse, short)
		}
	}
	return nil
}

// Add inserts e keeping the collection ordered by long name
func (c *Collection) Add(e *Entry) error {
	if err := c.CheckNames(e.Long, e.Short, nil); err != nil {
		return err
	}
	i := sort.Search(len(c.entries), func(i int) bool { return c.entries[i].Long >= e.Long })
	c.entries = append(c.entries, nil)
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = e
	return nil
}

// Find returns the entry whose long or short name is name
func (c *Collection) Find(name string) (*Entry, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	for _, e := range c.entries {
		if e.Matches(name) {
			return e, nil
		}
	}
	return nil, ErrEntryNotFound
}

// Remove deletes the entry named name and returns it
func (c *Collection) Remove(name string) (*Entry, error) {
	e, err := c.Find(name)
	if err != nil {
		return nil, err
	}
	for i := range c.entries {
		if c.entries[i] == e {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			break
		}
	}
	return e, nil
}

// Replace swaps the entry named name for e, keeping names unique
func (c *Collection) Replace(name string, e *Entry) error {
	old, err := c.Find(name)
	if err != nil {
		return err
	}
	if err := c.CheckNames(e.Long, e.Short, old); err != nil {
		return err
	}
	if _, err := c.Remove(name); err != nil {
		return err
	}
	return c.Add(e)
}

// Entries returns the entries ordered by long name
func (c *Collection) Entries() []*Entry {
	return append([]*Entry(nil), c.entries...)
}

// Len returns the number of entries
func (c *Collection) Len() int {
	return len(c.entries)
}
