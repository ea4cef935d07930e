package crawl

import (
	"context"
	"io"
	"net/http"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
)

// robotsMaxBytes bounds how much of a robots.txt we read.
const robotsMaxBytes = 128 * 1024

// robotsAllowed fetches and parses robots.txt for the target origin and
// reports whether the agent may fetch the given path. A missing or
// unreachable robots.txt fails open: the crawl proceeds.
func robotsAllowed(ctx context.Context, client *http.Client, origin, userAgent, urlPath string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return true
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		zap.L().Debug("crawl: robots.txt unreachable, failing open",
			zap.String("origin", origin),
			zap.Error(err),
		)
		return true
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, robotsMaxBytes))
	if err != nil {
		return true
	}

	robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return true
	}

	return robots.FindGroup(userAgent).Test(urlPath)
}
