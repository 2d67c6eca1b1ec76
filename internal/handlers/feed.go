package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/store"
)

const (
	maxImageBytes = 10 << 20  // 10MB
	maxVideoBytes = 100 << 20 // 100MB

	placeholderURL = "https://example.com/placeholder"

	uploadDir = "uploads"
)

var (
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}
	videoExts = map[string]bool{".mp4": true, ".mov": true, ".avi": true, ".webm": true, ".mkv": true}

	// Hard cap on the request body: both attachments at their limits plus
	// form-field headroom.
	maxRequestBytes int64 = maxVideoBytes + maxImageBytes + (1 << 20)
)

// checkUpload validates an attached file against the per-kind extension
// and size limits. kind is "image" or "video". Returns a human-readable
// rejection reason, or "" when the file is acceptable.
func checkUpload(kind, filename string, size int64) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch kind {
	case "image":
		if !imageExts[ext] {
			return fmt.Sprintf("Image type %s is not allowed (jpg, jpeg, png, gif).", ext)
		}
		if size > maxImageBytes {
			return "Image exceeds the 10MB size limit."
		}
	case "video":
		if !videoExts[ext] {
			return fmt.Sprintf("Video type %s is not allowed (mp4, mov, avi, webm, mkv).", ext)
		}
		if size > maxVideoBytes {
			return "Video exceeds the 100MB size limit."
		}
	}
	return ""
}

func saveUpload(file multipart.File, filename string) (string, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(filename))
	path := filepath.Join(uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return "/" + path, nil
}

// NewsAddHandler serves the alert submission form and processes
// submissions. A rejected submission echoes the input back with the
// reason; nothing is stored. Either the full record including its media
// reference is created, or none of it.
func (h *Handler) NewsAddHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.Render(w, "news_add", map[string]any{"Categories": models.Categories})
		return
	}

	// Cap the request body itself; ParseMultipartForm only bounds how much
	// spills to memory, not how much streams to temp disk.
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseMultipartForm(maxVideoBytes + (1 << 20)); err != nil {
		h.renderAddError(w, r, "Upload too large or malformed form.")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("description"))
	source := strings.TrimSpace(r.FormValue("source"))
	category := strings.TrimSpace(r.FormValue("category"))
	url := strings.TrimSpace(r.FormValue("url"))
	severity := models.NormalizeSeverity(strings.ToLower(r.FormValue("severity")))

	if title == "" || content == "" {
		submissionsRejected.WithLabelValues("alert").Inc()
		h.renderAddError(w, r, "Title and Description are required.")
		return
	}
	if source == "" {
		source = "unknown"
	}
	if url == "" {
		url = placeholderURL
	}
	cat := models.Category(category)
	if !cat.Valid() {
		cat = models.CategoryOther
	}

	// Validate attachments before anything is written anywhere.
	var imageFile, videoFile multipart.File
	var imageName, videoName string
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		if msg := checkUpload("image", header.Filename, header.Size); msg != "" {
			submissionsRejected.WithLabelValues("alert").Inc()
			h.renderAddError(w, r, msg)
			return
		}
		imageFile, imageName = file, header.Filename
	}
	if file, header, err := r.FormFile("video"); err == nil {
		defer file.Close()
		if msg := checkUpload("video", header.Filename, header.Size); msg != "" {
			submissionsRejected.WithLabelValues("alert").Inc()
			h.renderAddError(w, r, msg)
			return
		}
		videoFile, videoName = file, header.Filename
	}

	alert := models.Alert{
		Title:    title,
		Content:  content,
		Category: cat,
		Source:   source,
		Severity: severity,
		URL:      url,
	}

	if imageFile != nil {
		path, err := saveUpload(imageFile, imageName)
		if err != nil {
			log.Println("Failed to save image:", err)
			h.renderAddError(w, r, "Failed to save the attached image.")
			return
		}
		alert.Image = path
	}
	if videoFile != nil {
		path, err := saveUpload(videoFile, videoName)
		if err != nil {
			log.Println("Failed to save video:", err)
			removeUploads(alert.Image)
			h.renderAddError(w, r, "Failed to save the attached video.")
			return
		}
		alert.Video = path
	}

	created, err := h.Store.AddAlert(r.Context(), alert)
	if err != nil {
		// The record was not created; drop any saved media with it.
		removeUploads(alert.Image, alert.Video)
		submissionsRejected.WithLabelValues("alert").Inc()

		if errors.Is(err, store.ErrDuplicateURL) {
			h.renderAddError(w, r, "Failed to save: an alert with this URL already exists.")
			return
		}
		log.Println("Failed to save alert:", err)
		h.renderAddError(w, r, "Failed to save the threat report.")
		return
	}

	submissionsAccepted.WithLabelValues("alert").Inc()
	alertsIngested.WithLabelValues(string(created.Severity)).Inc()

	if h.Cache != nil {
		h.Cache.InvalidateVisualization(r.Context())
		if err := h.Cache.PublishAlert(r.Context(), created); err != nil {
			log.Println("Failed to publish alert event:", err)
		}
	}

	if created.Severity == models.SeverityHigh || created.Severity == models.SeverityCritical {
		go h.SendPushNotification(fmt.Sprintf("%s severity alert: %s", created.Severity, created.Title))
	}

	h.Render(w, "news_add", map[string]any{
		"Categories":   models.Categories,
		"AlertType":    "success",
		"AlertMessage": fmt.Sprintf("Threat report #%d saved successfully!", created.ID),
	})
}

func (h *Handler) renderAddError(w http.ResponseWriter, r *http.Request, msg string) {
	h.Render(w, "news_add", map[string]any{
		"Categories":   models.Categories,
		"AlertType":    "error",
		"AlertMessage": msg,
		"Form":         r.Form,
	})
}

func removeUploads(paths ...string) {
	for _, p := range paths {
		if p != "" {
			os.Remove(strings.TrimPrefix(p, "/"))
		}
	}
}
