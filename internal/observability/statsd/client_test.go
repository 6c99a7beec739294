package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		metric string
		global map[string]string
		local  map[string]string
		want   string
	}{
		{"bare", "", "auth.login", nil, nil, "auth.login:1|c"},
		{"prefix", "wishara_admin", "auth.login", nil, nil, "wishara_admin.auth.login:1|c"},
		{"normalise", "", " push/state..change ", nil, nil, "push_state.change:1|c"},
		{"tags merged and sorted", "", "x", map[string]string{"env": "prod", "svc": "a"}, map[string]string{" svc ": " b "}, "x:1|c|#env:prod,svc:b"},
		{"empty name", "p", "  ", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Line(tt.prefix, tt.metric, "1|c", tt.global, tt.local))
		})
	}
}

func TestNew_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	sink, err := New(Config{Enabled: false, Address: "127.0.0.1:8125"})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, sink)
}

func TestClient_WritesDatagrams(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	c, err := Dial(Config{Address: pc.LocalAddr().String(), Prefix: "test"})
	require.NoError(t, err)
	defer c.Close()

	c.Count("hits", 2, map[string]string{"route": "login"})

	buf := make([]byte, 512)
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)
	assert.Equal(t, "test.hits:2|c|#route:login", string(buf[:n]))

	require.NoError(t, c.Close())
	c.Count("dropped", 1, nil) // must not panic after close
}
