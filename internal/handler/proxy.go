package handler

import (
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/briefing-hub/backend/internal/config"
	"github.com/gin-gonic/gin"
)

// ProxyHandler relays files from a fixed set of storage hosts so browsers
// can fetch them without tripping over CORS or mixed-content rules. It is
// deliberately unauthenticated; the allow-list is its only control.
type ProxyHandler struct {
	allowedHosts map[string]struct{}
	client       *http.Client
}

func NewProxyHandler(cfg config.ProxyConfig) (*ProxyHandler, error) {
	timeout, err := time.ParseDuration(cfg.FetchTimeout)
	if err != nil {
		return nil, err
	}

	hosts := make(map[string]struct{}, len(cfg.AllowedHosts))
	for _, h := range cfg.AllowedHosts {
		hosts[h] = struct{}{}
	}

	return &ProxyHandler{
		allowedHosts: hosts,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Download godoc
// @Summary Stream a file from an allow-listed origin
// @Tags proxy
// @Param url query string true "Absolute URL of the file"
// @Success 200 {file} binary
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /proxy-download [get]
func (h *ProxyHandler) Download(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
		return
	}

	target, err := url.Parse(raw)
	if err != nil || !target.IsAbs() || target.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter must be an absolute URL"})
		return
	}

	// Exact host match only. Suffix or prefix matching would let
	// evil.host.com or host.com.evil.com slip through.
	if _, ok := h.allowedHosts[target.Host]; !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "url host is not allowed"})
		return
	}

	// The request context ties the upstream fetch to the client: a caller
	// that disconnects mid-stream aborts the fetch instead of letting it
	// run to completion.
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter must be an absolute URL"})
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.Printf("proxy: fetch %s: %v", target.Host, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an internal error occurred"})
		return
	}
	defer resp.Body.Close()

	copyHeaders(c.Writer.Header(), resp.Header)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Upstream errors and redirects pass through untouched.
		c.Status(resp.StatusCode)
		relay(c.Writer, resp.Body)
		return
	}

	c.Header("Access-Control-Allow-Origin", "*")
	c.Status(http.StatusOK)
	relay(c.Writer, resp.Body)
}

func copyHeaders(dst http.Header, src http.Header) {
	for key, values := range src {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}

// relay streams the body through a fixed-size buffer, flushing after each
// chunk so the payload never accumulates in memory and slow upstreams still
// make forward progress at the client.
func relay(w gin.ResponseWriter, body io.Reader) {
	buf := make([]byte, 32*1024)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
			w.Flush()
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("proxy: stream interrupted: %v", err)
			}
			return
		}
	}
}
