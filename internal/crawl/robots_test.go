package crawl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testAgent = "LeadScoutBot/1.0 (test)"

func robotsServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRobotsDisallowAll(t *testing.T) {
	srv := robotsServer(t, "User-agent: *\nDisallow: /\n", http.StatusOK)
	allowed := robotsAllowed(context.Background(), srv.Client(), srv.URL, testAgent, "/")
	assert.False(t, allowed)
}

func TestRobotsAllowsSpecificPaths(t *testing.T) {
	srv := robotsServer(t, "User-agent: *\nDisallow: /private/\n", http.StatusOK)
	assert.True(t, robotsAllowed(context.Background(), srv.Client(), srv.URL, testAgent, "/"))
	assert.True(t, robotsAllowed(context.Background(), srv.Client(), srv.URL, testAgent, "/contact"))
	assert.False(t, robotsAllowed(context.Background(), srv.Client(), srv.URL, testAgent, "/private/notes"))
}

func TestRobotsAgentSpecificGroup(t *testing.T) {
	body := "User-agent: LeadScoutBot\nDisallow: /\n\nUser-agent: *\nAllow: /\n"
	srv := robotsServer(t, body, http.StatusOK)
	assert.False(t, robotsAllowed(context.Background(), srv.Client(), srv.URL, testAgent, "/"))
}

func TestRobotsMissingFailsOpen(t *testing.T) {
	srv := robotsServer(t, "not found", http.StatusNotFound)
	assert.True(t, robotsAllowed(context.Background(), srv.Client(), srv.URL, testAgent, "/"))
}

func TestRobotsUnreachableFailsOpen(t *testing.T) {
	srv := robotsServer(t, "", http.StatusOK)
	origin := srv.URL
	srv.Close()
	assert.True(t, robotsAllowed(context.Background(), http.DefaultClient, origin, testAgent, "/"))
}
