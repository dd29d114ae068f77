package attribute

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gophilo/gophilo/internal/db/models"
	"github.com/gophilo/gophilo/internal/value"
)

// Op is the kind of a staged change.
type Op string

const (
	// OpSet writes a value.
	OpSet Op = "set"
	// OpDelete removes an attribute.
	OpDelete Op = "delete"
)

var commitCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "attribute_commits_total",
		Help: "Number of committed attribute changes, differentiated by operation and result.",
	},
	[]string{"op", "result"},
)

// KeyResult is the outcome of committing one key.
type KeyResult struct {
	Key string
	Op  Op
	Err error
}

// CommitResult lists the outcome of every staged key.
// Keys commit independently, so a result may mix successes and failures.
type CommitResult struct {
	Results []KeyResult
}

// OK reports whether every key was committed.
func (r *CommitResult) OK() bool {
	return len(r.Failed()) == 0
}

// Failed returns the keys that were not committed.
func (r *CommitResult) Failed() []KeyResult {
	var out []KeyResult

	for _, kr := range r.Results {
		if kr.Err != nil {
			out = append(out, kr)
		}
	}

	return out
}

// Err joins the errors of all failed keys, nil if none failed.
func (r *CommitResult) Err() error {
	var errs []error

	for _, kr := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s %q: %w", kr.Op, kr.Key, kr.Err))
	}

	return errors.Join(errs...)
}

// Commit persists c. Removed keys are deleted first, then every added key is
// fetched or created and its value written. Each key runs in its own
// transaction; committed keys are cleared from c, failed keys stay staged.
func (s *Store) Commit(c *Changes) *CommitResult {
	result := &CommitResult{}

	for _, key := range c.Removed() {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return s.remove(tx, c, key)
		})
		s.record(c, &result.Results, key, OpDelete, err)
	}

	for _, key := range c.Added() {
		v, _ := c.Value(key)

		err := s.db.Transaction(func(tx *gorm.DB) error {
			return s.write(tx, c, key, v)
		})
		s.record(c, &result.Results, key, OpSet, err)
	}

	return result
}

func (s *Store) record(c *Changes, results *[]KeyResult, key string, op Op, err error) {
	*results = append(*results, KeyResult{Key: key, Op: op, Err: err})

	if err != nil {
		commitCounter.WithLabelValues(string(op), "error").Inc()
		log.Warn().Err(err).
			Str("owner", c.owner.ContentType()).
			Uint("owner_id", c.owner.ObjectID()).
			Str("key", key).
			Str("op", string(op)).
			Msg("attribute commit failed")

		return
	}

	commitCounter.WithLabelValues(string(op), "ok").Inc()
	c.done(key, op)
}

func (s *Store) remove(tx *gorm.DB, c *Changes, key string) error {
	attr, err := s.find(tx, c.owner, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	if err = s.values.Delete(tx, attr); err != nil {
		return err
	}

	return tx.Delete(attr).Error
}

func (s *Store) write(tx *gorm.DB, c *Changes, key string, v value.Value) error {
	attr, err := s.find(tx, c.owner, key)
	if errors.Is(err, ErrKeyNotFound) {
		typeID, id, eerr := s.entity(tx, c.owner)
		if eerr != nil {
			return eerr
		}

		attr = &models.Attribute{EntityTypeID: typeID, EntityID: id, Key: key}
		err = nil
	}

	if err != nil {
		return err
	}

	return s.values.Write(tx, attr, v)
}
