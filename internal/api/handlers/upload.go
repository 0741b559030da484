package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slack-service/internal/adapters/storage"
	"slack-service/internal/models"
	"slack-service/pkg/response"
)

type UploadHandler struct {
	storage *storage.Client
}

func NewUploadHandler(storageClient *storage.Client) *UploadHandler {
	return &UploadHandler{storage: storageClient}
}

// UploadURLResponse carries a short-lived URL the client PUTs the file to
// and the storage key it should attach to the message afterwards.
type UploadURLResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// GenerateUploadURL godoc
// @Summary Get a presigned upload URL
// @Description Generate a short-lived URL for uploading a message image directly to object storage
// @Tags uploads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UploadURLResponse "Presigned PUT URL and storage key"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Router /uploads [post]
func (h *UploadHandler) GenerateUploadURL(c *gin.Context) {
	if c.GetUint("user_id") == 0 {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Code:    http.StatusUnauthorized,
			Message: "Unauthorized",
		})
		return
	}

	url, key, err := h.storage.PresignedPutURL(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, UploadURLResponse{URL: url, Key: key})
}
