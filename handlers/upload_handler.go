package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxImageSize = 5 << 20

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// UploadHandler stores product images on local disk.
type UploadHandler struct {
	Dir       string // filesystem directory
	URLPrefix string // public prefix the directory is served under
}

func NewUploadHandler(dir, urlPrefix string) *UploadHandler {
	return &UploadHandler{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

// UploadImage - POST /api/admin/uploads, multipart field "image".
// Returns the URL to put into a product's imageUrl.
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image file is required"})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only .jpg, .jpeg, .png and .webp files are allowed"})
	}
	if file.Size > maxImageSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "Image must be 5MB or smaller"})
	}

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return err
	}

	filename := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(h.Dir, filename)); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url": fmt.Sprintf("%s/%s", h.URLPrefix, filename),
	})
}
