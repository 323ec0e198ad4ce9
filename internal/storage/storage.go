// Package storage keeps fitted discretizers in a BoltDB file.
//
// Models are gob-encoded under their name in the "models" bucket; a JSON
// summary of each model is kept in the "info" bucket so that listing does not
// decode every model.
package storage

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	"github.com/YuminosukeSato/woebin/core/model"
	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
	"github.com/YuminosukeSato/woebin/sklearn/discretize"
)

const (
	modelsBucket = "models" // gob-encoded FittedModel by name
	infoBucket   = "info"   // JSON ModelInfo by name
)

// ModelInfo summarizes a stored model.
type ModelInfo struct {
	Name       string    `json:"name"`
	Bins       int       `json:"bins"`
	Exceptions int       `json:"exceptions"`
	Direction  int       `json:"direction"`
	TotalIV    float64   `json:"total_iv"`
	SavedAt    time.Time `json:"saved_at"`
}

// Store is a named collection of fitted models.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, woeerrors.Wrapf(err, "failed to open model store %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{modelsBucket, infoBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return woeerrors.Wrapf(err, "create %s bucket", name)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores m under name, replacing any previous model of that name.
func (s *Store) Save(name string, m *discretize.FittedModel) error {
	if name == "" {
		return woeerrors.NewValidationError("name", "must not be empty", name)
	}
	if m == nil {
		return woeerrors.NewValidationError("model", "must not be nil", nil)
	}

	var buf bytes.Buffer
	if err := model.SaveModelToWriter(m, &buf); err != nil {
		return err
	}
	info, err := json.Marshal(ModelInfo{
		Name:       name,
		Bins:       len(m.Bins),
		Exceptions: len(m.Exceptions),
		Direction:  m.Direction,
		TotalIV:    m.TotalIV(),
		SavedAt:    s.now().UTC(),
	})
	if err != nil {
		return woeerrors.Wrap(err, "marshal model info")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(modelsBucket)).Put([]byte(name), buf.Bytes()); err != nil {
			return woeerrors.Wrapf(err, "put model %s", name)
		}
		return tx.Bucket([]byte(infoBucket)).Put([]byte(name), info)
	})
}

// Load returns the model stored under name, or an error wrapping
// ErrModelNotFound.
func (s *Store) Load(name string) (*discretize.FittedModel, error) {
	var m discretize.FittedModel
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(modelsBucket)).Get([]byte(name))
		if data == nil {
			return woeerrors.Wrapf(woeerrors.ErrModelNotFound, "model %q", name)
		}
		// data is only valid inside the transaction; gob copies while decoding.
		return model.LoadModelFromReader(&m, bytes.NewReader(data))
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes the model stored under name. Deleting a missing model is
// not an error.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(modelsBucket)).Delete([]byte(name)); err != nil {
			return err
		}
		return tx.Bucket([]byte(infoBucket)).Delete([]byte(name))
	})
}

// List returns the summaries of all stored models ordered by name.
func (s *Store) List() ([]ModelInfo, error) {
	var infos []ModelInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(infoBucket)).ForEach(func(_, v []byte) error {
			var info ModelInfo
			if err := json.Unmarshal(v, &info); err != nil {
				return woeerrors.Wrap(err, "unmarshal model info")
			}
			infos = append(infos, info)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}
