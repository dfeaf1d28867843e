// internal/models/models.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// ModelRecord is one entry of the model library: a converted 3D asset plus
// its thumbnail. Rows are written by the ingest endpoint (or out of band);
// the scene pipeline only ever reads them.
type ModelRecord struct {
	Mlid             int    `gorm:"column:mlid;primaryKey;autoIncrement" json:"mlid"`
	ModelOrgFileName string `gorm:"column:model_org_file_name" json:"model_org_file_name"`
	ModelSaveFileURL string `gorm:"column:model_save_file_url" json:"model_save_file_url"`
	ThumbSaveURL     string `gorm:"column:thumb_save_url" json:"thumb_save_url"`
}

func (ModelRecord) TableName() string {
	return "model_library"
}

// Scene is a saved feature-collection document. Rows are append-only: there
// is no update or delete path.
type Scene struct {
	SceneID   int            `gorm:"column:scene_id;primaryKey;autoIncrement" json:"scene_id"`
	SceneName string         `gorm:"column:scene_name;not null" json:"scene_name"`
	UserID    string         `gorm:"column:user_id;default:'guest'" json:"user_id"`
	SceneData datatypes.JSON `gorm:"column:scene_data;type:jsonb" json:"scene_data"`
	RegDate   time.Time      `gorm:"column:reg_date;autoCreateTime" json:"reg_date"`
}

func (Scene) TableName() string {
	return "scenes"
}
