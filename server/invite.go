package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/skip2/go-qrcode"
)

const inviteQRSize = 256

// inviteURL is the link a scanned invite opens
func inviteURL(base, sessionID string) string {
	return strings.TrimRight(base, "/") + "/" + sessionID
}

// requestBase derives the public origin from the request when no base
// URL is configured
func requestBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// InviteQR renders the join link for a session as a PNG QR code
func InviteQR(base, sessionID string) ([]byte, error) {
	return qrcode.Encode(inviteURL(base, sessionID), qrcode.Medium, inviteQRSize)
}

// inviteHandler serves /invite/{sid}.png for live sessions
func inviteHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/invite/")
		sid, ok := strings.CutSuffix(name, ".png")
		if !ok || !uuidRe.MatchString(sid) {
			http.NotFound(w, r)
			return
		}
		if hub.sessions.GetSession(sid) == nil {
			http.NotFound(w, r)
			return
		}

		base := hub.baseURL
		if base == "" {
			base = requestBase(r)
		}
		png, err := InviteQR(base, sid)
		if err != nil {
			log.Printf("invite %s: %v", sid, err)
			http.Error(w, "could not render invite", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(png)
	}
}
