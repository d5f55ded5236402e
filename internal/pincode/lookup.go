// Package pincode resolves Indian postal codes to a human-readable
// "District, State" hint. The result is display-only and never authoritative.
package pincode

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://api.postalpincode.in"

	// Codes shorter than this are treated as "not enough input yet".
	MinLookupLength = 6

	notFound = "Not found"
)

type Lookup struct {
	log  *slog.Logger
	http *resty.Client
}

func New(log *slog.Logger, baseURL string, timeout time.Duration) *Lookup {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Lookup{
		log: log,
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetRetryCount(0),
	}
}

type pinResponse []struct {
	PostOffice []struct {
		District string `json:"District"`
		State    string `json:"State"`
	} `json:"PostOffice"`
}

// Resolve returns "District, State" for the code, "Not found" when the code
// does not resolve or the lookup fails, and "" when the code is too short to
// try. It never returns an error; failures must not block the caller's form.
func (l *Lookup) Resolve(ctx context.Context, code string) string {
	code = strings.TrimSpace(code)
	if len(code) < MinLookupLength {
		return ""
	}

	var out pinResponse
	resp, err := l.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetPathParam("code", code).
		Get("/pincode/{code}")
	if err != nil {
		l.log.Info("pincode_lookup_failed", slog.String("code", code), slog.String("err", err.Error()))
		return notFound
	}
	if resp.IsError() {
		l.log.Info("pincode_lookup_failed", slog.String("code", code), slog.Int("status", resp.StatusCode()))
		return notFound
	}

	if len(out) == 0 || len(out[0].PostOffice) == 0 {
		return notFound
	}
	po := out[0].PostOffice[0]
	return po.District + ", " + po.State
}
