package httpx

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageParams(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, defaultPageSize},
		{"page=3&page_size=25", 3, 25},
		{"page=0&page_size=-1", 1, defaultPageSize},
		{"page=abc&page_size=1000", 1, defaultPageSize},
		{"page_size=100", 1, maxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			page, size := pageParams(q)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.pageSize, size)
		})
	}
}

func TestBuildPageURL(t *testing.T) {
	q := url.Values{
		"search":     {"ada"},
		"gender":     {""},
		"page":       {"1"},
		"hx-request": {"true"},
	}

	got := buildPageURL("/users", q, 2)

	assert.Equal(t, "/users?page=2&search=ada", got)
	assert.Equal(t, "1", q.Get("page"), "input is not modified")
}

func TestPagerData(t *testing.T) {
	r := httptest.NewRequest("GET", "/posts?type=text&page=2", nil)
	data := map[string]any{}

	pagerData(r, data, 2, 3)

	assert.Equal(t, "/posts?page=1&type=text", data["PrevURL"])
	assert.Equal(t, "/posts?page=3&type=text", data["NextURL"])

	last := map[string]any{}
	pagerData(r, last, 3, 3)
	assert.NotContains(t, last, "NextURL")
}

func TestParseBoolFilter(t *testing.T) {
	assert.True(t, *parseBoolFilter("true"))
	assert.True(t, *parseBoolFilter(" YES "))
	assert.False(t, *parseBoolFilter("0"))
	assert.Nil(t, parseBoolFilter(""))
	assert.Nil(t, parseBoolFilter("any"))
}

func TestBulkIDs(t *testing.T) {
	got := bulkIDs([]string{"u1", " u2 ", "u1", "", "u3,u4, u2"})
	assert.Equal(t, []string{"u1", "u2", "u3", "u4"}, got)
	assert.Empty(t, bulkIDs(nil))
}

func TestParseDataLines(t *testing.T) {
	got := parseDataLines("screen=post\n postId = p1 \nmalformed\n=novalue\n\n")
	assert.Equal(t, map[string]string{"screen": "post", "postId": "p1"}, got)
	assert.Nil(t, parseDataLines("  \n"))
}

func TestDateOnly(t *testing.T) {
	assert.Equal(t, "1990-04-02", dateOnly("1990-04-02T00:00:00.000Z"))
	assert.Equal(t, "", dateOnly(""))
}
