package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishara/admin-console/internal/domain/model"
)

func TestCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, path := range [][]string{
		{"login"},
		{"sessions", "show"},
		{"sessions", "revoke"},
		{"notify", "broadcast"},
		{"audit", "tail"},
		{"migrate"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestParseKeyValues(t *testing.T) {
	got, err := parseKeyValues([]string{"screen=post", " postId = p1 ", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"screen": "post", "postId": "p1", "empty": ""}, got)

	_, err = parseKeyValues([]string{"novalue"})
	require.Error(t, err)

	none, err := parseKeyValues(nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestNotifyOptionsPayload(t *testing.T) {
	opts := notifyOptions{
		kind:     "announcement",
		title:    "Live",
		body:     "Starts soon",
		audience: " Premium ",
		at:       "2026-10-20T19:00:00Z",
		data:     []string{"screen=live"},
	}

	p, err := opts.payload()
	require.NoError(t, err)
	assert.Equal(t, model.AudiencePremium, p.Audience)
	assert.Equal(t, map[string]string{"screen": "live"}, p.Data)
	assert.Equal(t, "2026-10-20T19:00:00Z", p.Time)

	opts.kind = "sms"
	_, err = opts.payload()
	require.Error(t, err)
}

func TestPrintAuditEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printAuditEntries(&buf, nil))
	assert.Equal(t, "No audit entries.\n", buf.String())

	buf.Reset()
	at := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, printAuditEntries(&buf, []model.AuditEntry{
		{Actor: "Ada Admin", Action: model.AuditDelete, Resource: "category", ResourceID: "c1", At: at},
		{Actor: "Ada Admin", Action: model.AuditBroadcast, Resource: "notification", Detail: "New picks", At: at},
	}))
	out := buf.String()
	assert.Contains(t, out, "WHEN")
	assert.Contains(t, out, "2026-10-01T09:30:00Z")
	assert.Contains(t, out, "category/c1")
	assert.Contains(t, out, "New picks")
}
