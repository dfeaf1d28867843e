// internal/handlers/models_handler.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dtmap-back/internal/config"
	"dtmap-back/internal/models"
	"dtmap-back/internal/storage"
	"dtmap-back/internal/store"
)

// ListModels returns the whole model library ordered by mlid. Store failures
// surface as an empty array, never as an error response.
func ListModels(registry *store.RegistryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, registry.ListAll())
	}
}

// RegisterModel ingests a converted model (and optional thumbnail) into the
// library: files land under <UploadDir>/models so the static route serves
// them, a copy goes to the MinIO archive, and a registry row is created.
func RegisterModel(cfg *config.Config, registry *store.RegistryStore, archive *storage.MinIOClient, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("model")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "model file missing"})
			return
		}

		modelsDir := filepath.Join(cfg.UploadDir, "models")
		if err := os.MkdirAll(modelsDir, 0o755); err != nil {
			systemError(c, err)
			return
		}

		saveName := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(fh.Filename))
		savePath := filepath.Join(modelsDir, saveName)
		if err := c.SaveUploadedFile(fh, savePath); err != nil {
			systemError(c, err)
			return
		}

		rec := models.ModelRecord{
			ModelOrgFileName: filepath.Base(fh.Filename),
			ModelSaveFileURL: fmt.Sprintf("%s/models/%s", cfg.FilesPrefix, saveName),
		}

		if th, err := c.FormFile("thumbnail"); err == nil {
			thumbName := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(th.Filename))
			thumbPath := filepath.Join(modelsDir, "thumbs", thumbName)
			if err := os.MkdirAll(filepath.Dir(thumbPath), 0o755); err != nil {
				systemError(c, err)
				return
			}
			if err := c.SaveUploadedFile(th, thumbPath); err != nil {
				systemError(c, err)
				return
			}
			rec.ThumbSaveURL = fmt.Sprintf("%s/models/thumbs/%s", cfg.FilesPrefix, thumbName)
			archiveAsset(c.Request.Context(), archive, "models/thumbs/"+thumbName, thumbPath, log)
		}

		archiveAsset(c.Request.Context(), archive, "models/"+saveName, savePath, log)

		if err := registry.Create(&rec); err != nil {
			log.Errorw("registering model", "filename", fh.Filename, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register model", "details": err.Error()})
			return
		}

		log.Infow("model registered", "mlid", rec.Mlid, "filename", rec.ModelOrgFileName)
		c.JSON(http.StatusCreated, rec)
	}
}

// archiveAsset mirrors an ingested file into object storage. The /files tree
// stays the serving source of truth, so archive failures only log.
func archiveAsset(ctx context.Context, archive *storage.MinIOClient, objectName, path string, log *zap.SugaredLogger) {
	if archive == nil {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		log.Warnw("archiving asset: open", "object", objectName, "error", err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Warnw("archiving asset: stat", "object", objectName, "error", err)
		return
	}

	contentType := "application/octet-stream"
	if filepath.Ext(path) == ".glb" {
		contentType = "model/gltf-binary"
	}
	if _, err := archive.UploadFromReader(ctx, objectName, f, info.Size(), contentType); err != nil {
		log.Warnw("archiving asset: upload", "object", objectName, "error", err)
	}
}
