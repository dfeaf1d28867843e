// internal/handlers/convert.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dtmap-back/internal/config"
	"dtmap-back/internal/converter"
	"dtmap-back/internal/workspace"
)

// ConvertModel accepts one or more uploaded files, stages them into a fresh
// task workspace, runs the external converter on the .3ds input and answers
// with the download URL of the produced .glb. Every failure mode gets its own
// structured error body; the caller is a developer-facing tool and wants the
// converter's full output.
func ConvertModel(cfg *config.Config, ws *workspace.Manager, inv converter.Invoker, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			systemError(c, err)
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			inputMissing(c)
			return
		}

		taskID, dir, err := ws.Allocate()
		if err != nil {
			systemError(c, err)
			return
		}

		// Stage everything in received order; DetectInput relies on it.
		staged := make([]string, 0, len(files))
		for _, fh := range files {
			src, err := fh.Open()
			if err != nil {
				systemError(c, err)
				return
			}
			path, err := ws.Stage(dir, fh.Filename, src)
			src.Close()
			if err != nil {
				systemError(c, err)
				return
			}
			staged = append(staged, path)
		}

		input, err := workspace.DetectInput(staged)
		if err != nil {
			inputMissing(c)
			return
		}
		output := workspace.OutputPath(input)

		log.Infow("starting conversion", "task", taskID, "input", filepath.Base(input))

		// A client disconnect must not kill a running conversion; only the
		// invoker's own timeout terminates the child.
		res, err := inv.Convert(context.Background(), input, output)

		switch {
		case errors.Is(err, converter.ErrConversionTimeout):
			log.Warnw("conversion timed out", "task", taskID)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error":   "Blender conversion timed out",
				"details": streamDetails(res),
			})
		case errors.Is(err, converter.ErrConversionFailed):
			log.Warnw("conversion failed", "task", taskID, "exit_code", res.ExitCode)
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Blender conversion failed",
				"details": streamDetails(res),
			})
		case errors.Is(err, converter.ErrConversionIncomplete):
			log.Warnw("conversion produced no output", "task", taskID)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Conversion finished but GLB file not found.",
				"details": "Check blender script logic.",
			})
		case err != nil:
			log.Errorw("conversion system error", "task", taskID, "error", err)
			systemError(c, err)
		default:
			name := filepath.Base(output)
			log.Infow("conversion succeeded", "task", taskID, "filename", name)
			c.JSON(http.StatusOK, gin.H{
				"status":   "success",
				"url":      fmt.Sprintf("%s%s/%s/%s", cfg.PublicHost, cfg.FilesPrefix, taskID, name),
				"filename": name,
			})
		}
	}
}

func inputMissing(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "3ds file missing. Please upload a .3ds file."})
}

func systemError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "System error", "details": err.Error()})
}

func streamDetails(res converter.Result) string {
	return fmt.Sprintf("Stdout: %s / Stderr: %s", res.Stdout, res.Stderr)
}
