package pkg

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON        string
	Text        string
	EventStream string
}{
	JSON:        "application/json",
	Text:        "text/plain; charset=utf-8",
	EventStream: "text/event-stream",
}

func WriteTextResponseOK(w http.ResponseWriter, message string) {
	WriteResponseBytes(w, ContentType.Text, []byte(message), http.StatusOK)
}

func WriteResponseBytesOK(w http.ResponseWriter, contentType string, message []byte) {
	WriteResponseBytes(w, contentType, message, http.StatusOK)
}

// WriteResponseBytes sets the content type when given, then the status, then
// writes message. A failed write is only logged, the client is gone by then.
func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, statusCode int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(statusCode)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response (%d bytes): %s", len(message), err)
	}
}
