package internal

import (
	"net/http"

	"github.com/2beens/gymprogress/pkg"
)

type MiscHandler struct {
	versionInfo string
}

func NewMiscHandler(versionInfo string) *MiscHandler {
	return &MiscHandler{
		versionInfo: versionInfo,
	}
}

func (h *MiscHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks")
}

func (h *MiscHandler) HandleVersion(w http.ResponseWriter, _ *http.Request) {
	if h.versionInfo == "" {
		pkg.WriteTextResponseOK(w, "unknown")
		return
	}
	pkg.WriteTextResponseOK(w, h.versionInfo)
}
