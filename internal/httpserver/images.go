package httpserver

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Default chroma-key parameters for uploads that enable the cutout but do
// not tune it.
const (
	defaultCutoutThreshold = 30
	defaultCutoutFeather   = 10
)

const maxImageSize = 10 << 20 // 10 MiB

func (h *handlers) uploadImage(c *gin.Context) {
	if h.deps.Images == nil {
		respondError(c, http.StatusServiceUnavailable, "image storage not configured")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}
	if fileHeader.Size > maxImageSize {
		respondError(c, http.StatusRequestEntityTooLarge, "image exceeds 10 MiB")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}

	removeBackground := c.Query("cutout") == "1"
	threshold := queryFloat(c, "threshold", defaultCutoutThreshold)
	feather := queryFloat(c, "feather", defaultCutoutFeather)

	url, err := h.deps.Images.SaveImage(data, fileHeader.Filename, removeBackground, threshold, feather)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func queryFloat(c *gin.Context, name string, fallback float64) float64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
