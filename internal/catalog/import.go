package catalog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	xerrors "github.com/guidscan/guidscan/internal/errors"
	"github.com/guidscan/guidscan/internal/guid"
)

// snapshot is the on-disk import format: category -> identifier -> record.
//
//	clsid:
//	  "{6F9619FF-8B86-D011-B42D-00C04FC964FF}":
//	    name: SQLOLEDB
//	    server: sqloledb.dll
type snapshot map[string]map[string]Record

// Import loads a YAML snapshot into the catalog in a single transaction.
// Unknown categories and malformed identifier keys abort the import;
// nothing is written on error. It returns the number of records stored.
func (c *Catalog) Import(r io.Reader) (int, error) {
	var snap snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		return 0, fmt.Errorf("catalog: decode snapshot: %w", err)
	}

	tx, err := c.db.Begin(true)
	if err != nil {
		return 0, fmt.Errorf("catalog: begin import: %w", err)
	}
	defer xerrors.DeferRollback(c.log, tx)

	count := 0
	for name, records := range snap {
		cat, err := ParseCategory(name)
		if err != nil {
			return 0, err
		}
		bucket := tx.Bucket([]byte(cat))
		for key, rec := range records {
			g, err := guid.Parse(key)
			if err != nil {
				return 0, fmt.Errorf("catalog: import %s: %w", name, err)
			}
			data, err := marshalRecord(rec)
			if err != nil {
				return 0, err
			}
			if err := bucket.Put([]byte(g.Braced()), data); err != nil {
				return 0, fmt.Errorf("catalog: import %s: %w", name, err)
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("catalog: commit import: %w", err)
	}
	c.log.Info().Int("records", count).Msg("catalog snapshot imported")
	return count, nil
}
