package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/admanager/ad-server-go/internal/audit"
	apperrors "github.com/admanager/ad-server-go/internal/errors"
	"github.com/admanager/ad-server-go/internal/httputil"
	"github.com/admanager/ad-server-go/internal/model"
	"github.com/admanager/ad-server-go/internal/service"
)

const multipartMemory = 8 << 20

type AdHandler struct {
	adService      *service.AdService
	maxUploadBytes int64
}

func NewAdHandler(adService *service.AdService, maxUploadBytes int64) *AdHandler {
	return &AdHandler{
		adService:      adService,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes expects to be mounted behind the admin session middleware.
func (h *AdHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.CreateImage)
	r.Post("/iframe", h.CreateIframe)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

func (h *AdHandler) CreateImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.WriteError(w, apperrors.PayloadTooLarge())
			return
		}
		httputil.WriteError(w, apperrors.ValidationError("Invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			httputil.WriteError(w, apperrors.MissingRequired("image"))
			return
		}
		httputil.WriteError(w, apperrors.ValidationError("Invalid image upload"))
		return
	}
	defer file.Close()

	contentType, err := sniffContentType(file)
	if err != nil {
		httputil.WriteError(w, apperrors.ValidationError("Invalid image upload"))
		return
	}

	input := service.CreateImageAdInput{
		Title:     r.FormValue("title"),
		TargetURL: r.FormValue("target_url"),
		Image: service.ImageUpload{
			Filename:    header.Filename,
			ContentType: contentType,
			Body:        file,
			Size:        header.Size,
		},
	}
	if values, ok := r.MultipartForm.Value["description"]; ok && len(values) > 0 {
		input.Description = &values[0]
	}

	ad, err := h.adService.CreateImageAd(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.auditAd(r, audit.EventAdCreate, ad)
	httputil.WriteOK(w, "Ad created", ad)
}

func (h *AdHandler) CreateIframe(w http.ResponseWriter, r *http.Request) {
	var input service.CreateIframeAdInput
	if err := decodeJSON(w, r, &input); err != nil {
		httputil.WriteError(w, err)
		return
	}

	ad, err := h.adService.CreateIframeAd(r.Context(), input)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeForbiddenDomain) {
			log.Warn().Str("embedSrc", input.EmbedSrc).Msg("iframe ad rejected: domain not allowed")
		}
		httputil.WriteError(w, err)
		return
	}

	h.auditAd(r, audit.EventAdCreate, ad)
	httputil.WriteOK(w, "Ad created", ad)
}

func (h *AdHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := ParsePageParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, err := h.adService.ListAds(r.Context(), params.Page, params.Size, params.Keyword)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteOK(w, "OK", page)
}

func (h *AdHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseAdID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ad, err := h.adService.GetAd(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteOK(w, "OK", ad)
}

func (h *AdHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseAdID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var patch service.AdPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		httputil.WriteError(w, err)
		return
	}

	ad, err := h.adService.UpdateAd(r.Context(), id, patch)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.auditAd(r, audit.EventAdUpdate, ad)
	httputil.WriteOK(w, "Ad updated", ad)
}

func (h *AdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseAdID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.adService.DeleteAd(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.auditAd(r, audit.EventAdDelete, &model.Ad{ID: id})
	httputil.WriteOK(w, "Ad deleted", nil)
}

func (h *AdHandler) auditAd(r *http.Request, eventType audit.EventType, ad *model.Ad) {
	event := audit.Event{
		Type:    eventType,
		LoginID: adminLoginID(r),
		AdID:    ad.ID,
	}
	if ad.AdType != "" {
		event.Details = map[string]interface{}{"ad_type": string(ad.AdType)}
	}
	audit.LogFromRequest(r, event)
}

// sniffContentType detects the upload's type from its first bytes and
// rewinds the file. Client-supplied content types are not trusted.
func sniffContentType(file multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	contentType := http.DetectContentType(buf[:n])
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return contentType, nil
}
