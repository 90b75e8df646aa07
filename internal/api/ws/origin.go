package ws

import (
	"net/http"
	"net/url"
	"strings"
)

// AllowOrigins monta o CheckOrigin do upgrader.
// Em local/dev qualquer origem passa. Nos demais ambientes só a própria
// origem do host e as origens listadas; cliente sem Origin (não-browser) passa.
func AllowOrigins(env string, origins []string) func(r *http.Request) bool {
	if env == "local" || env == "dev" {
		return func(*http.Request) bool { return true }
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed[strings.ToLower(o)] = struct{}{}
		}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := allowed[strings.ToLower(origin)]; ok {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}
