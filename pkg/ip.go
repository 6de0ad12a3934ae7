package pkg

import (
	"net"
	"net/http"
	"strings"
)

// UnknownClient is used as the client identifier when no header yields
// a parsable address. All such clients end up sharing one identifier.
const UnknownClient = "unknown"

// clientIPHeaders in priority order; the first parsable address wins.
var clientIPHeaders = []string{
	"CF-Connecting-IP", // cloudflare
	"X-Forwarded-For",  // common proxies
	"X-Real-Ip",        // nginx
	"X-Client-Ip",      // apache
	"Forwarded",        // rfc 7239
}

// ReadClientIP extracts the client address from proxy headers, falling
// back to the connection remote address, then to UnknownClient.
func ReadClientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		// x-forwarded-for can carry a comma separated chain
		for _, candidate := range strings.Split(value, ",") {
			candidate = strings.TrimSpace(candidate)
			if header == "Forwarded" {
				candidate = parseForwardedFor(candidate)
			}
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		if net.ParseIP(host) != nil {
			return host
		}
	}
	if net.ParseIP(r.RemoteAddr) != nil {
		return r.RemoteAddr
	}

	return UnknownClient
}

// parseForwardedFor pulls the for= element out of an RFC 7239 header value.
func parseForwardedFor(value string) string {
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToLower(part), "for=") {
			addr := strings.Trim(part[len("for="):], `"`)
			addr = strings.TrimPrefix(addr, "[")
			if i := strings.Index(addr, "]"); i >= 0 {
				addr = addr[:i]
			}
			return addr
		}
	}
	return value
}

// ReadUserAgent returns the request user agent, or UnknownClient if empty.
func ReadUserAgent(r *http.Request) string {
	if ua := r.Header.Get("User-Agent"); ua != "" {
		return ua
	}
	return UnknownClient
}
