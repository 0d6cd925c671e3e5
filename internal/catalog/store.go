// Package catalog implements the component registration directory: an
// embedded key-value store mapping identifiers to registration records,
// organized into the four classic categories. It is the lookup
// collaborator the scanner cross-references against.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"

	"github.com/guidscan/guidscan/internal/guid"
)

// Category names one registration namespace.
type Category string

const (
	CategoryCLSID     Category = "clsid"
	CategoryInterface Category = "interface"
	CategoryTypeLib   Category = "typelib"
	CategoryAppID     Category = "appid"
)

// Categories lists every namespace in lookup order.
var Categories = []Category{CategoryCLSID, CategoryInterface, CategoryTypeLib, CategoryAppID}

// ParseCategory validates a user-supplied category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if s == string(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("catalog: unknown category %q", s)
}

// Record is one registration. Empty fields are omitted from storage.
type Record struct {
	Name    string `json:"name" yaml:"name"`
	Server  string `json:"server,omitempty" yaml:"server,omitempty"`
	ProgID  string `json:"progid,omitempty" yaml:"progid,omitempty"`
	TypeLib string `json:"typelib,omitempty" yaml:"typelib,omitempty"`
	AppID   string `json:"appid,omitempty" yaml:"appid,omitempty"`
}

// Entry is a record together with where it was found.
type Entry struct {
	Category Category  `json:"category" header:"CATEGORY"`
	GUID     guid.GUID `json:"guid" header:"GUID"`
	Record   Record    `json:"record"`
}

// Catalog is a bbolt-backed store with one bucket per category, keyed by
// the braced canonical form of the identifier.
type Catalog struct {
	db  *bolt.DB
	log zerolog.Logger
}

// Open opens (creating if necessary) the catalog database at path.
func Open(path string, logger zerolog.Logger) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("catalog: create directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, c := range Categories {
			if _, err := tx.CreateBucketIfNotExists([]byte(c)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: create buckets: %w", err)
	}

	return &Catalog{
		db:  db,
		log: logger.With().Str("component", "catalog").Logger(),
	}, nil
}

// Close releases the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put stores one registration, replacing any existing record for the
// same identifier in the same category.
func (c *Catalog) Put(cat Category, g guid.GUID, r Record) error {
	data, err := marshalRecord(r)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(cat)).Put([]byte(g.Braced()), data)
	})
}

func marshalRecord(r Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: encode record: %w", err)
	}
	return data, nil
}

// Lookup returns every registration of g across all categories. A miss
// is not an error: the result is simply empty.
func (c *Catalog) Lookup(g guid.GUID) ([]Entry, error) {
	var out []Entry
	key := []byte(g.Braced())

	err := c.db.View(func(tx *bolt.Tx) error {
		for _, cat := range Categories {
			data := tx.Bucket([]byte(cat)).Get(key)
			if data == nil {
				continue
			}
			var r Record
			if err := json.Unmarshal(data, &r); err != nil {
				return fmt.Errorf("decode %s record for %s: %w", cat, g, err)
			}
			out = append(out, Entry{Category: cat, GUID: g, Record: r})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return out, nil
}

// Enum returns up to limit registrations from one category, in key
// order. A non-positive limit returns everything.
func (c *Catalog) Enum(cat Category, limit int) ([]Entry, error) {
	var out []Entry

	err := c.db.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(cat)).Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			g, err := guid.Parse(string(k))
			if err != nil {
				// Foreign keys are skipped, not fatal: the bucket may
				// predate stricter import validation.
				c.log.Warn().Str("key", string(k)).Msg("skipping malformed catalog key")
				continue
			}
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decode %s record for %s: %w", cat, g, err)
			}
			out = append(out, Entry{Category: cat, GUID: g, Record: r})
			if limit > 0 && len(out) >= limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return out, nil
}
