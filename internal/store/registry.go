// internal/store/registry.go
package store

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"dtmap-back/internal/models"
)

// RegistryStore reads the model library. Reads degrade to empty results on
// store failure so the presentation layer never crashes on a transient DB
// error; only the ingest write path surfaces errors.
type RegistryStore struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewRegistryStore(db *gorm.DB, log *zap.SugaredLogger) *RegistryStore {
	return &RegistryStore{db: db, log: log}
}

// ListAll returns every registered model ordered by mlid.
func (s *RegistryStore) ListAll() []models.ModelRecord {
	var recs []models.ModelRecord
	if err := s.db.Order("mlid ASC").Find(&recs).Error; err != nil {
		s.log.Errorw("listing model library", "error", err)
		return []models.ModelRecord{}
	}
	return recs
}

// BatchLookup resolves a set of mlids in a single query. An empty input
// returns an empty map without touching the database.
func (s *RegistryStore) BatchLookup(ids []int) map[int]models.ModelRecord {
	out := make(map[int]models.ModelRecord, len(ids))
	if len(ids) == 0 {
		return out
	}

	var recs []models.ModelRecord
	if err := s.db.Where("mlid IN ?", ids).Find(&recs).Error; err != nil {
		s.log.Errorw("looking up model library", "ids", ids, "error", err)
		return out
	}
	for _, r := range recs {
		out[r.Mlid] = r
	}
	return out
}

// Create registers a new model. Unlike reads, ingest failures are surfaced.
func (s *RegistryStore) Create(rec *models.ModelRecord) error {
	if err := s.db.Create(rec).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
