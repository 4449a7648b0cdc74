package httpapi

import (
	"net"
	"net/http"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/config"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/identity"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/pixel"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	sessionCookie = "sf_session"
	// userIDHeader is set by the auth gateway in front of this service. It is
	// not a CORS allowed header, so browsers cannot send it cross-origin.
	userIDHeader   = "X-User-ID"
	pagePathHeader = "X-Page-Path"

	sessionKVKey = "session_kv"
)

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

func recovery(log logrus.FieldLogger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if ne, ok := recovered.(*net.OpError); ok {
			if se, ok := ne.Err.(*os.SyscallError); ok {
				msg := strings.ToLower(se.Error())
				if strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer") {
					c.Abort()
					return
				}
			}
		}

		log.WithField("panic", recovered).WithField("path", c.Request.URL.Path).Error("panic recovered")
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// session binds the visitor's session storage to the request, issuing a
// session cookie on the first visit.
func session(storage port.SessionStorage, cfg *config.Config) gin.HandlerFunc {
	maxAge := int(cfg.SessionTTL / time.Second)
	secure := cfg.Env == "production"

	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err == nil {
			_, err = uuid.Parse(id)
		}
		if err != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, maxAge, "/", "", secure, true)
		}

		c.Set(sessionKVKey, storage.Session(id))
		c.Next()
	}
}

// userIdentity honors the gateway's user header only when the direct peer
// is a trusted proxy. Anyone else is treated as anonymous.
func userIdentity(trusted []netip.Prefix, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(userIDHeader))
		if id == "" {
			c.Next()
			return
		}

		if !trustedPeer(c.RemoteIP(), trusted) {
			log.WithField("remote_ip", c.RemoteIP()).Warn("ignoring user header from untrusted peer")
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(identity.WithUserID(c.Request.Context(), id))
		c.Next()
	}
}

func trustedPeer(remoteIP string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(remoteIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func sessionKV(c *gin.Context) port.KVStore {
	return c.MustGet(sessionKVKey).(port.KVStore)
}

// pagePath prefers the path named in the body, then the front end's header.
func pagePath(c *gin.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return c.GetHeader(pagePathHeader)
}

func pixelClient(c *gin.Context, path string) pixel.Client {
	return pixel.Client{IP: c.ClientIP(), UserAgent: c.Request.UserAgent(), PagePath: path}
}
