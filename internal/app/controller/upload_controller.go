package controller

import (
	"github.com/gin-gonic/gin"
	apperrors "github.com/hyeonpark/dongnemarket-backend/internal/errors"
	"github.com/hyeonpark/dongnemarket-backend/internal/middleware"
	"github.com/hyeonpark/dongnemarket-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type PresignedUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // Optional: defaults to "reviews"
}

// 이미지 파일만 업로드 허용
var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

// GeneratePresignedURL generates a presigned URL for uploading images to S3
// POST /api/v1/upload/presign
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignedUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "이미지 파일만 업로드할 수 있습니다 (JPEG, PNG, GIF, WEBP)")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = "reviews"
	}
	if !storage.IsAllowedFolder(folder) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "허용되지 않는 업로드 폴더입니다")
		return
	}

	upload, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.InternalError(c, "업로드 URL 생성에 실패했습니다")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key":    upload.Key,
		"folder": folder,
	})

	apperrors.OK(c, "업로드 URL이 생성되었습니다", gin.H{
		"upload": upload,
	})
}
