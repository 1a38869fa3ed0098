package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sam4007/studylink-backend/internal/crop"
	"github.com/sam4007/studylink-backend/internal/middleware"
	"github.com/sam4007/studylink-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// WallpaperHandler handles wallpaper uploads and server-side cropping
type WallpaperHandler struct {
	wallpaperService *services.WallpaperService
}

// NewWallpaperHandler creates a new wallpaper handler
func NewWallpaperHandler(wallpaperService *services.WallpaperService) *WallpaperHandler {
	return &WallpaperHandler{
		wallpaperService: wallpaperService,
	}
}

// UploadRequest represents the request body for a pre-signed upload URL
type UploadRequest struct {
	FriendID    string `json:"friend_id"`
	ContentType string `json:"content_type"`
}

// Upload handles POST /api/v1/wallpapers/upload
func (h *WallpaperHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FriendID == "" {
		respondError(w, "friend_id is required", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	response, err := h.wallpaperService.GetPreSignedURL(ctx, userID, req.FriendID, req.ContentType)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("friend_id", req.FriendID).
			Msg("Failed to generate pre-signed URL")

		statusCode := http.StatusInternalServerError
		if err.Error() == "receiver is not a friend" {
			statusCode = http.StatusForbidden
		}
		respondError(w, err.Error(), statusCode)
		return
	}

	respondJSON(w, response, http.StatusOK)
}

// CropResponse carries the rasterized wallpaper back to the client
type CropResponse struct {
	DataURI string `json:"data_uri"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Crop handles POST /api/v1/wallpapers/crop. Multipart form: an "image"
// file plus x, y, width, height and optional turns fields. The selected
// sub-rectangle comes back as a JPEG data URI ready to store as the
// conversation background.
func (h *WallpaperHandler) Crop(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(crop.MaxSourceBytes); err != nil {
		respondError(w, "file too large", http.StatusRequestEntityTooLarge)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		respondError(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rect, err := rectFromForm(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	turns, _ := strconv.Atoi(r.FormValue("turns"))

	src, err := crop.DecodeSource(file)
	if err != nil {
		if errors.Is(err, crop.ErrTooLarge) {
			respondError(w, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, "invalid image", http.StatusBadRequest)
		return
	}

	dataURI, err := crop.Rasterize(src, rect, turns)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to rasterize crop")
		respondError(w, "Failed to crop image", http.StatusInternalServerError)
		return
	}

	respondJSON(w, CropResponse{
		DataURI: dataURI,
		Width:   int(rect.W),
		Height:  int(rect.H),
	}, http.StatusOK)
}

// rectFromForm parses and validates the crop rectangle fields
func rectFromForm(r *http.Request) (crop.Rect, error) {
	parse := func(name string) (float64, error) {
		v, err := strconv.ParseFloat(r.FormValue(name), 64)
		if err != nil {
			return 0, errors.New(name + " is required")
		}
		return v, nil
	}

	x, err := parse("x")
	if err != nil {
		return crop.Rect{}, err
	}
	y, err := parse("y")
	if err != nil {
		return crop.Rect{}, err
	}
	width, err := parse("width")
	if err != nil {
		return crop.Rect{}, err
	}
	height, err := parse("height")
	if err != nil {
		return crop.Rect{}, err
	}

	if width < crop.MinSize || height < crop.MinSize {
		return crop.Rect{}, errors.New("crop rectangle below minimum size")
	}
	return crop.Rect{X: x, Y: y, W: width, H: height}, nil
}
