package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ogulcan/mezun/models"
	"github.com/ogulcan/mezun/pkg"
	"github.com/ogulcan/mezun/services"
)

// RTCHandler, medya sağlayıcısı token endpoint'i.
type RTCHandler struct {
	rtcService services.RTCService
}

// NewRTCHandler, constructor.
func NewRTCHandler(rtcService services.RTCService) *RTCHandler {
	return &RTCHandler{rtcService: rtcService}
}

// Token — POST /api/rtc/token
// Arama başlatan veya kabul eden taraf medyaya bağlanmadan önce çağırır.
func (h *RTCHandler) Token(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(w, r)
	if !ok {
		return
	}

	var req models.RTCTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.rtcService.Token(user.ID, user.Name, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, resp)
}
