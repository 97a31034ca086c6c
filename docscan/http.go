package docscan

import (
	"bufio"
	"io"
	"net/http"
	"strings"
)

// isHTTPMessage reports whether a code block holds a raw HTTP message rather
// than a bare JSON payload.
func isHTTPMessage(raw string) bool {
	first, _, _ := strings.Cut(strings.TrimSpace(raw), "\n")
	first = strings.TrimSpace(first)
	if strings.HasPrefix(first, "HTTP/") {
		return true
	}
	method, _, ok := strings.Cut(first, " ")
	if !ok {
		return false
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead:
		return true
	}
	return false
}

// responseBody extracts the status code and body of a raw HTTP response.
// Documentation rarely carries a correct Content-Length, so the header is
// dropped and the body runs to the end of the block.
func responseBody(raw string) (int, string, error) {
	msg := strings.TrimLeft(raw, " \t\r\n")
	if !strings.HasPrefix(msg, "HTTP/") {
		return 0, "", nil
	}
	head, body, found := strings.Cut(normalizeNewlines(msg), "\n\n")
	if !found {
		head, body = msg, ""
	}

	resp, err := http.ReadResponse(bufio.NewReader(strings.NewReader(stripLength(head)+"\r\n\r\n")), nil)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, strings.TrimSpace(body), nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// stripLength removes Content-Length and Transfer-Encoding headers, so
// parsing the head never waits for a body.
func stripLength(head string) string {
	lines := strings.Split(head, "\n")
	out := lines[:0]
	for _, l := range lines {
		name, _, _ := strings.Cut(l, ":")
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "content-length", "transfer-encoding":
			continue
		}
		out = append(out, strings.TrimRight(l, "\r"))
	}
	return strings.Join(out, "\r\n")
}
