package common

import (
	"net"
	"strings"

	"campaign-platform/domain"
	"campaign-platform/pkg/log"

	"github.com/gin-gonic/gin"
)

// Keys under which middleware stores request values on the gin context.
// They match the log package keys so request-scoped logging picks them up.
const (
	RequestIDContextKey = log.CtxKeyRequestID
	UserContextKey      = log.CtxKeyUserID
	RoleContextKey      = log.CtxKeyRole
	SessionIDContextKey = "session_id"
	ProfileContextKey   = "profile"
)

type ClientInfo struct {
	UserAgent string
	IPAddress string
}

func ExtractClientInfo(c *gin.Context) *ClientInfo {
	return &ClientInfo{
		UserAgent: c.GetHeader("User-Agent"),
		IPAddress: GetClientIP(c),
	}
}

// GetClientIP prefers proxy headers over the socket address.
func GetClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip != "" && net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xri := c.GetHeader("X-Real-IP"); xri != "" && net.ParseIP(xri) != nil {
		return xri
	}

	remoteIP, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return remoteIP
}

// PopulateClientInfo fills empty ip/user agent fields from the request.
func PopulateClientInfo(c *gin.Context, ipAddress, userAgent *string) {
	clientInfo := ExtractClientInfo(c)

	if ipAddress != nil && *ipAddress == "" {
		*ipAddress = clientInfo.IPAddress
	}
	if userAgent != nil && *userAgent == "" {
		*userAgent = clientInfo.UserAgent
	}
}

func GetIdentityID(c *gin.Context) string {
	return c.GetString(UserContextKey)
}

func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDContextKey)
}

func GetRole(c *gin.Context) domain.Role {
	return domain.Role(c.GetString(RoleContextKey))
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDContextKey)
}

// GetProfile returns the profile resolved by the authenticator, if any.
func GetProfile(c *gin.Context) *domain.Profile {
	if v, ok := c.Get(ProfileContextKey); ok {
		if p, ok := v.(*domain.Profile); ok {
			return p
		}
	}
	return nil
}
