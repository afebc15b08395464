package fastcgi

import (
	"strconv"
	"strings"

	"github.com/nabbar/gowsgi/request"
)

// applyParam maps one CGI environment variable onto req, per the
// CGI/1.1 variable names a front-end web server sends in PARAMS
// (spec.md §4.6). HTTP_* variables become regular request headers;
// everything else is a well-known pseudo-field.
func applyParam(req *request.Request, name, value string) {
	switch name {
	case "REQUEST_METHOD":
		req.Method = value
	case "SCRIPT_NAME", "DOCUMENT_URI":
		if req.Path == "" {
			req.Path = value
		}
	case "PATH_INFO":
		req.Path = value
	case "REQUEST_URI":
		if path, query, found := strings.Cut(value, "?"); found {
			req.Path = path
			req.Query = []byte(query)
		} else {
			req.Path = value
		}
	case "QUERY_STRING":
		req.Query = []byte(value)
	case "SERVER_PROTOCOL":
		req.Proto = value
	case "REQUEST_SCHEME":
		if value == "https" {
			req.Scheme = request.SchemeHTTPS
		}
	case "CONTENT_LENGTH":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
			req.ContentLength = n
		}
	case "CONTENT_TYPE":
		req.Header.Set("Content-Type", value)
	case "HTTPS":
		if value == "on" || value == "1" {
			req.Scheme = request.SchemeHTTPS
		}
	case "SERVER_NAME", "SERVER_ADDR":
		if req.ServerAddr == "" {
			req.ServerAddr = value
		}
	case "REMOTE_ADDR":
		req.RemoteAddr = value
	case "REMOTE_PORT":
		if n, err := strconv.Atoi(value); err == nil {
			req.RemotePort = n
		}
	default:
		if strings.HasPrefix(name, "HTTP_") {
			key := strings.TrimPrefix(name, "HTTP_")
			req.Header.Add(key, value)
		}
	}
}
