// Package sigindex stores packed signature digests in SQLite and finds the
// stored digests most similar to a query.
//
// Every digest body is split into 16-bit bands. A stored digest becomes a
// candidate when it agrees with the query on at least one whole band;
// candidates are then ranked by exact bit similarity. Pairs with no equal
// band are never found, which only matters for low similarity thresholds.
package sigindex

import (
	"cmp"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"slices"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sansecio/simprint/internal/minhash"
)

const bandBytes = 2

// ErrSettings is returned when an existing index was built with different
// signature settings.
var ErrSettings = errors.New("index settings mismatch")

// Index holds digests keyed by path.
type Index struct {
	db    *sql.DB
	cfg   minhash.Config
	bytes int // packed body size
}

// Match is a stored digest similar to a query.
type Match struct {
	Path       string
	Digest     []byte
	Similarity float64 // fraction of equal bits
	Jaccard    float64 // estimated from Similarity
}

// Open opens or creates an index at path for signatures built with cfg.
// An error is returned if an existing index was created with different
// settings.
func Open(path string, cfg minhash.Config) (*Index, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if db != nil {
			db.Close()
		}
	}()

	for _, q := range []string{
		`CREATE TABLE IF NOT EXISTS Settings (Desc STRING PRIMARY KEY NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS Items (Path STRING PRIMARY KEY NOT NULL, Code BLOB NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS Bands (Item INTEGER NOT NULL, Band INTEGER NOT NULL, Key INTEGER NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS BandsKey ON Bands (Band, Key)`,
		`CREATE INDEX IF NOT EXISTS BandsItem ON Bands (Item)`,
	} {
		if _, err = db.Exec(q); err != nil {
			return nil, err
		}
	}

	// Digests from different settings are not comparable.
	var dbSettings string
	if err := db.QueryRow(`SELECT Desc FROM Settings`).Scan(&dbSettings); err == nil {
		if s := cfg.String(); dbSettings != s {
			return nil, fmt.Errorf("%w: index has %v, current settings are %v", ErrSettings, dbSettings, s)
		}
	} else if err == sql.ErrNoRows {
		if _, err := db.Exec(`INSERT INTO Settings (Desc) VALUES(?)`, cfg.String()); err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}

	ix := &Index{db: db, cfg: cfg, bytes: (cfg.Slots + 7) / 8}
	db = nil // disarm Close() call
	return ix, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error { return ix.db.Close() }

// checkDigest verifies that d is a header byte followed by a packed body of
// the configured size.
func (ix *Index) checkDigest(d []byte) error {
	if len(d) != 1+ix.bytes {
		return fmt.Errorf("digest of %d bytes, want %d for %d slots", len(d), 1+ix.bytes, ix.cfg.Slots)
	}
	return nil
}

// bands returns the 16-bit band keys of a digest body.
func bands(body []byte) []int {
	keys := make([]int, 0, (len(body)+bandBytes-1)/bandBytes)
	for i := 0; i < len(body); i += bandBytes {
		k := int(body[i]) << 8
		if i+1 < len(body) {
			k |= int(body[i+1])
		}
		keys = append(keys, k)
	}
	return keys
}

// Put stores digest d for path, replacing any digest stored before.
func (ix *Index) Put(path string, d []byte) error {
	if err := ix.checkDigest(d); err != nil {
		return err
	}
	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO Items (Path, Code) VALUES(?, ?)
		ON CONFLICT(Path) DO UPDATE SET Code = excluded.Code`, path, d); err != nil {
		return err
	}
	var id int64
	if err := tx.QueryRow(`SELECT ROWID FROM Items WHERE Path = ?`, path).Scan(&id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM Bands WHERE Item = ?`, id); err != nil {
		return err
	}
	for band, key := range bands(d[1:]) {
		if _, err := tx.Exec(`INSERT INTO Bands (Item, Band, Key) VALUES(?, ?, ?)`, id, band, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get returns the digest stored for path, or nil if there is none.
func (ix *Index) Get(path string) ([]byte, error) {
	var d []byte
	err := ix.db.QueryRow(`SELECT Code FROM Items WHERE Path = ?`, path).Scan(&d)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

// Len returns the number of stored digests.
func (ix *Index) Len() (int, error) {
	var n int
	err := ix.db.QueryRow(`SELECT COUNT(*) FROM Items`).Scan(&n)
	return n, err
}

// Similar returns stored digests sharing a band with d whose bit similarity
// is at least minSim, most similar first.
func (ix *Index) Similar(d []byte, minSim float64) ([]Match, error) {
	if err := ix.checkDigest(d); err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var matches []Match
	for band, key := range bands(d[1:]) {
		rows, err := ix.db.Query(`SELECT Items.ROWID, Items.Path, Items.Code FROM Bands
			JOIN Items ON Items.ROWID = Bands.Item WHERE Bands.Band = ? AND Bands.Key = ?`, band, key)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var (
				id   int64
				m    Match
				code []byte
			)
			if err := rows.Scan(&id, &m.Path, &code); err != nil {
				rows.Close()
				return nil, err
			}
			if seen[id] || len(code) != len(d) {
				continue
			}
			seen[id] = true

			m.Digest = code
			if m.Similarity, err = minhash.BitSimilarity(d[1:], code[1:], ix.cfg.Slots); err != nil {
				rows.Close()
				return nil, err
			}
			if m.Similarity < minSim {
				continue
			}
			m.Jaccard = max(0, 2*m.Similarity-1)
			matches = append(matches, m)
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
	return matches, nil
}
