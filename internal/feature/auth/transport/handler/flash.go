package handler

import (
	"github.com/gin-contrib/sessions"
)

// Flash categories. Each category is stored under its own key in the cookie session.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

var flashCategories = []string{FlashSuccess, FlashError}

// Flash is a one-time notice shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func addFlash(s sessions.Session, category, message string) {
	s.AddFlash(message, category)
}

// popFlashes drains all pending notices from the session. The caller must Save the session.
func popFlashes(s sessions.Session) []Flash {
	var out []Flash
	for _, category := range flashCategories {
		for _, v := range s.Flashes(category) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Category: category, Message: msg})
			}
		}
	}
	return out
}
