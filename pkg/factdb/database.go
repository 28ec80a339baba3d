// Package factdb stores at most one fact per functor/arity.
//
// Reads and writes may come from many sessions at once: writers take the
// lock exclusively, so a reader sees either the old fact or the new one,
// never a half-stored entry. Facts handed out by Lookup are immutable;
// queries instantiate them into their own heaps.
package factdb

import (
	"sort"
	"sync"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
	"github.com/vilterp/treelog/pkg/term"
)

var factsBucket = []byte("facts")

type Database struct {
	syms *term.Symbols

	mu    sync.RWMutex
	facts map[term.Indicator]*term.Fact

	// nil when the database lives only in memory
	boltDB *bolt.DB
}

// New returns an empty in-memory database.
func New() *Database {
	return &Database{
		syms:  term.NewSymbols(),
		facts: make(map[term.Indicator]*term.Fact),
	}
}

// Open returns a database backed by a bolt file, loading whatever facts it
// already holds. An empty path means in-memory.
func Open(dataFile string) (*Database, error) {
	db := New()
	if dataFile == "" {
		return db, nil
	}
	boltDB, err := bolt.Open(dataFile, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening data file %s", dataFile)
	}
	db.boltDB = boltDB
	if err := db.load(); err != nil {
		boltDB.Close()
		return nil, errors.Wrapf(err, "loading facts from %s", dataFile)
	}
	return db, nil
}

func (db *Database) load() error {
	if err := db.boltDB.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(factsBucket)
		return err
	}); err != nil {
		return err
	}
	return db.boltDB.View(func(tx *bolt.Tx) error {
		return tx.Bucket(factsBucket).ForEach(func(key []byte, factBytes []byte) error {
			fact, err := term.UnmarshalFact(factBytes, db.syms)
			if err != nil {
				return errors.Wrapf(err, "decoding fact %s", key)
			}
			if fact.Indicator.String() != string(key) {
				return &term.MalformedTermError{
					Functor: fact.Indicator.Name,
					Arity:   fact.Indicator.Arity,
					Reason:  "stored under key " + string(key),
				}
			}
			db.facts[fact.Indicator] = fact
			return nil
		})
	})
}

// Symbols is the table heaps querying this database should intern into.
func (db *Database) Symbols() *term.Symbols {
	return db.syms
}

// Store files fact under its functor/arity, replacing any fact already
// there. In memory this cannot fail; with a data file the write can.
func (db *Database) Store(fact *term.Fact) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.boltDB != nil {
		factBytes, err := fact.MarshalBinary()
		if err != nil {
			return errors.Wrap(err, "encoding fact")
		}
		if err := db.boltDB.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(factsBucket).Put([]byte(fact.Indicator.String()), factBytes)
		}); err != nil {
			return errors.Wrap(err, "writing fact")
		}
	}
	db.facts[fact.Indicator] = fact
	return nil
}

// Lookup returns the fact stored under ind, if any.
func (db *Database) Lookup(ind term.Indicator) (*term.Fact, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	fact, ok := db.facts[ind]
	return fact, ok
}

// Facts lists every stored fact, ordered by name then arity.
func (db *Database) Facts() []*term.Fact {
	db.mu.RLock()
	facts := make([]*term.Fact, 0, len(db.facts))
	for _, fact := range db.facts {
		facts = append(facts, fact)
	}
	db.mu.RUnlock()

	sort.Slice(facts, func(i, j int) bool {
		a, b := facts[i].Indicator, facts[j].Indicator
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Arity < b.Arity
	})
	return facts
}

func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.facts)
}

func (db *Database) Close() error {
	if db.boltDB == nil {
		return nil
	}
	return db.boltDB.Close()
}
