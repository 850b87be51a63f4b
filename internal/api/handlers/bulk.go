package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"corebank/internal/bulk"
)

// MakeProcessBulkHandler returns the POST /bulk/process handler (spec §4.G,
// §6). The caller's role ("employee") is an authorization decision made by
// an external collaborator before this handler is ever reached; this
// handler trusts that the request arrived at all.
func MakeProcessBulkHandler(container *Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
			return
		}
		if fileHeader.Size > bulk.MaxFileSizeBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds maximum size"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, bulk.MaxFileSizeBytes+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}

		summary, err := container.Bulk.Process(c.Request.Context(), data, fileHeader.Filename)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}
