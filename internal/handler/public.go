package handler

import (
	"net/http"

	"github.com/admanager/ad-server-go/internal/httputil"
	"github.com/admanager/ad-server-go/internal/service"
)

type PublicHandler struct {
	adService *service.AdService
}

func NewPublicHandler(adService *service.AdService) *PublicHandler {
	return &PublicHandler{adService: adService}
}

// RandomAd serves one active ad chosen at random, without admin-only fields.
func (h *PublicHandler) RandomAd(w http.ResponseWriter, r *http.Request) {
	ad, err := h.adService.RandomActiveAd(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteOK(w, "OK", ad.Public())
}
