// internal/store/scenes.go
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"dtmap-back/internal/models"
)

// GuestUser is the sentinel owner for scenes saved without a user id.
const GuestUser = "guest"

var (
	// ErrPersistence wraps store-level write failures.
	ErrPersistence = errors.New("persistence error")

	// ErrSceneNotFound means no scene row matched the requested id. A missing
	// scene is an expected outcome, not a fault.
	ErrSceneNotFound = errors.New("scene not found")
)

// SceneSummary is the listing shape: everything but the heavy document.
type SceneSummary struct {
	SceneID   int       `gorm:"column:scene_id" json:"scene_id"`
	SceneName string    `gorm:"column:scene_name" json:"scene_name"`
	UserID    string    `gorm:"column:user_id" json:"user_id"`
	RegDate   time.Time `gorm:"column:reg_date" json:"reg_date"`
}

// SceneStore persists scenes as an append-only log.
type SceneStore struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewSceneStore(db *gorm.DB, log *zap.SugaredLogger) *SceneStore {
	return &SceneStore{db: db, log: log}
}

// Save serializes the document to canonical JSON and inserts a new scene row.
// The caller needs confirmation, so save failures never degrade silently.
func (s *SceneStore) Save(name, userID string, doc map[string]any) (int, error) {
	if strings.TrimSpace(userID) == "" {
		userID = GuestUser
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("%w: encoding scene data: %v", ErrPersistence, err)
	}

	scene := models.Scene{
		SceneName: name,
		UserID:    userID,
		SceneData: datatypes.JSON(raw),
	}
	if err := s.db.Create(&scene).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return scene.SceneID, nil
}

// ListSummaries returns all scenes newest-first, without scene_data. Like the
// registry reads, it degrades to an empty list on store failure.
func (s *SceneStore) ListSummaries() []SceneSummary {
	var out []SceneSummary
	err := s.db.Model(&models.Scene{}).
		Select("scene_id", "scene_name", "user_id", "reg_date").
		Order("reg_date DESC, scene_id DESC").
		Find(&out).Error
	if err != nil {
		s.log.Errorw("listing scenes", "error", err)
		return []SceneSummary{}
	}
	return out
}

// GetDetail fetches one scene including its document.
func (s *SceneStore) GetDetail(sceneID int) (*models.Scene, error) {
	var scene models.Scene
	err := s.db.First(&scene, "scene_id = ?", sceneID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSceneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &scene, nil
}
