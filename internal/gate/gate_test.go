package gate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

const appHost = "habitloop.app"

func TestEvaluateNonHTTPSchemes(t *testing.T) {
	progress := Progress{Completed: 0, Total: 5}
	for _, raw := range []string{
		"chrome://settings",
		"about:blank",
		"file:///tmp/x.html",
		"mailto:a@b.com",
	} {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, Allowed, Evaluate(raw, appHost, progress, Policy{}))
		})
	}
}

func TestEvaluateUnparsableFailsOpen(t *testing.T) {
	progress := Progress{Completed: 0, Total: 5}
	assert.Equal(t, Allowed, Evaluate("http://%zz%", appHost, progress, Policy{}))
	assert.Equal(t, Allowed, Evaluate("", appHost, progress, Policy{}))
}

func TestEvaluateOwnHostNeverBlocked(t *testing.T) {
	progress := Progress{Completed: 0, Total: 5}
	assert.Equal(t, Allowed, Evaluate("https://habitloop.app/tasks", appHost, progress, Policy{}))
	assert.Equal(t, Allowed, Evaluate("https://www.habitloop.app/", appHost, progress, Policy{}))
}

func TestEvaluateZeroTotalFailsOpen(t *testing.T) {
	// 新装扩展尚无数据时一律放行
	assert.Equal(t, Allowed, Evaluate("https://example.com", appHost, Progress{Completed: 0, Total: 0}, Policy{}))
	assert.Equal(t, Allowed, Evaluate("https://example.com", appHost, Progress{Completed: 3, Total: 0}, Policy{RequiredCount: 5}))
}

func TestEvaluateAllowedHosts(t *testing.T) {
	policy := Policy{AllowedHosts: []string{"docs.example.com", "wikipedia.org"}}
	progress := Progress{Completed: 0, Total: 5}

	tests := []struct {
		url  string
		want Decision
	}{
		{"https://docs.example.com/page", Allowed},
		{"https://wikipedia.org", Allowed},
		{"https://en.wikipedia.org/wiki/Go", Allowed},
		{"https://notwikipedia.org", Blocked},
		{"https://example.com", Blocked},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.url, appHost, progress, policy))
		})
	}
}

func TestEvaluateProgressThreshold(t *testing.T) {
	tests := []struct {
		completed, total, required int
		want                       Decision
	}{
		{3, 5, 0, Blocked}, // 默认需要全部完成
		{5, 5, 0, Allowed},
		{3, 5, 3, Allowed}, // requiredCount 覆盖
		{2, 5, 3, Blocked},
		{0, 1, 0, Blocked},
		{1, 1, 0, Allowed},
	}
	for _, tt := range tests {
		name := fmt.Sprintf("%d_of_%d_required_%d", tt.completed, tt.total, tt.required)
		t.Run(name, func(t *testing.T) {
			progress := Progress{Completed: tt.completed, Total: tt.total}
			policy := Policy{RequiredCount: tt.required}
			assert.Equal(t, tt.want, Evaluate("https://example.com", appHost, progress, policy))
		})
	}
}

func TestNeeded(t *testing.T) {
	assert.Equal(t, 5, Policy{}.Needed(5))
	assert.Equal(t, 3, Policy{RequiredCount: 3}.Needed(5))
}

func TestHostMatchesCaseInsensitive(t *testing.T) {
	assert.True(t, hostMatches("EN.Wikipedia.ORG", "wikipedia.org"))
	assert.False(t, hostMatches("wikipedia.org.evil.com", "wikipedia.org"))
	assert.False(t, hostMatches("anything.com", ""))
}
