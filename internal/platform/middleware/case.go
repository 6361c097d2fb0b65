package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/pkg/casing"
)

// CaseConversion rewrites JSON request bodies to snake_case before handlers
// run and JSON response bodies to camelCase before transmission. The wire
// format is camelCase; storage and handlers speak snake_case. Non-JSON
// payloads and bodies that fail to decode pass through untouched.
func CaseConversion() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if isJSON(req.Header.Get(echo.HeaderContentType)) && req.Body != nil {
				raw, err := io.ReadAll(req.Body)
				req.Body.Close()
				if err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
				}
				if len(raw) > 0 {
					var decoded interface{}
					if json.Unmarshal(raw, &decoded) == nil {
						if converted, mErr := json.Marshal(casing.SnakeKeys(decoded)); mErr == nil {
							raw = converted
						}
					}
				}
				req.Body = io.NopCloser(bytes.NewReader(raw))
				req.ContentLength = int64(len(raw))
			}

			res := c.Response()
			cw := &captureWriter{ResponseWriter: res.Writer}
			res.Writer = cw

			err := next(c)

			res.Writer = cw.ResponseWriter
			if !res.Committed {
				// Nothing was written; let echo's error handler respond.
				return err
			}

			body := cw.buf.Bytes()
			if isJSON(res.Header().Get(echo.HeaderContentType)) && len(body) > 0 {
				var decoded interface{}
				if json.Unmarshal(body, &decoded) == nil {
					if converted, mErr := json.Marshal(casing.CamelKeys(decoded)); mErr == nil {
						converted = append(converted, '\n')
						body = converted
					}
				}
			}

			if len(body) > 0 {
				res.Header().Set(echo.HeaderContentLength, strconv.Itoa(len(body)))
			}
			cw.ResponseWriter.WriteHeader(res.Status)
			if len(body) > 0 {
				if _, wErr := cw.ResponseWriter.Write(body); wErr != nil {
					return wErr
				}
			}
			return err
		}
	}
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(contentType, echo.MIMEApplicationJSON)
}

// captureWriter buffers the response body and defers the status line so the
// body can be rewritten after the handler returns.
type captureWriter struct {
	http.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) WriteHeader(int) {}

func (w *captureWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}
