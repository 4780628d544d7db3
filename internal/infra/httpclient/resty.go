package httpclient

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"
)

type startsAt struct{}

// New returns a resty client that logs every call at debug level.
func New(name string, timeout time.Duration, log zerolog.Logger) *resty.Client {
	log = log.With().Str("client", name).Logger()
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		r.SetContext(context.WithValue(r.Context(), startsAt{}, time.Now()))
		return nil
	})
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		start, _ := r.Request.Context().Value(startsAt{}).(time.Time)
		ev := log.Debug().Int("status", r.StatusCode()).Dur("latency", time.Since(start))
		if raw := r.Request.RawRequest; raw != nil {
			ev = ev.Str("method", raw.Method).Str("path", raw.URL.Path)
		}
		ev.Msg("HTTP client request")
		return nil
	})
	return client
}
