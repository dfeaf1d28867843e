// internal/handlers/scenes_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dtmap-back/internal/config"
	"dtmap-back/internal/hydrate"
	"dtmap-back/internal/store"
)

type SaveSceneRequest struct {
	SceneName string         `json:"scene_name" binding:"required"`
	UserID    string         `json:"user_id"`
	SceneData map[string]any `json:"scene_data" binding:"required"`
}

// SaveScene persists a named feature collection. Unlike reads, a failed save
// is reported to the caller, who needs the confirmation.
func SaveScene(scenes *store.SceneStore, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaveSceneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sceneID, err := scenes.Save(req.SceneName, req.UserID, req.SceneData)
		if err != nil {
			log.Errorw("saving scene", "scene_name", req.SceneName, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save scene", "details": err.Error()})
			return
		}

		log.Infow("scene saved", "scene_id", sceneID, "scene_name", req.SceneName)
		c.JSON(http.StatusOK, gin.H{
			"status":   "success",
			"scene_id": sceneID,
			"message":  "Scene saved",
		})
	}
}

// ListScenes returns scene summaries newest-first, without the documents.
func ListScenes(scenes *store.SceneStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, scenes.ListSummaries())
	}
}

// GetScene fetches one scene and runs its document through the hydration
// engine so every referenced model carries a resolvable URL.
func GetScene(cfg *config.Config, scenes *store.SceneStore, registry *store.RegistryStore, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sceneID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scene id"})
			return
		}

		scene, err := scenes.GetDetail(sceneID)
		if errors.Is(err, store.ErrSceneNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scene not found"})
			return
		}
		if err != nil {
			log.Errorw("fetching scene", "scene_id", sceneID, "error", err)
			systemError(c, err)
			return
		}

		lookup := func(ids []int) map[int]hydrate.Asset {
			recs := registry.BatchLookup(ids)
			assets := make(map[int]hydrate.Asset, len(recs))
			for mlid, rec := range recs {
				assets[mlid] = hydrate.Asset{
					StorageURL:       rec.ModelSaveFileURL,
					OriginalFilename: rec.ModelOrgFileName,
				}
			}
			return assets
		}

		var sceneData any
		var decoded any
		if err := json.Unmarshal(scene.SceneData, &decoded); err != nil {
			log.Warnw("scene data is not valid JSON, returning raw", "scene_id", sceneID, "error", err)
			sceneData = scene.SceneData
		} else if doc, ok := decoded.(map[string]any); ok {
			sceneData = hydrate.Hydrate(doc, lookup, cfg.PublicHost, cfg.FilesPrefix)
		} else {
			sceneData = decoded
		}

		c.JSON(http.StatusOK, gin.H{
			"scene_id":   scene.SceneID,
			"scene_name": scene.SceneName,
			"user_id":    scene.UserID,
			"reg_date":   scene.RegDate,
			"scene_data": sceneData,
		})
	}
}
