package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/video-trimmer-cli/trimmer"
)

var _ trimmer.Player = (*Player)(nil)

// fakeMpv answers get/set_property from a property map and records every
// other command. Each response is preceded by an unrelated event line.
type fakeMpv struct {
	mu       sync.Mutex
	props    map[string]any
	commands [][]any
	listener net.Listener
}

func startFakeMpv(t *testing.T, props map[string]any) (*fakeMpv, string) {
	t.Helper()
	// unix socket paths are length limited, t.TempDir can be too long
	dir, err := os.MkdirTemp("", "mpv")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "s")

	l, err := net.Listen("unix", path)
	require.NoError(t, err)
	f := &fakeMpv{props: props, listener: l}
	t.Cleanup(func() { l.Close() })

	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()
	return f, path
}

func (f *fakeMpv) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return
		}
		var req ipcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			return
		}
		resp := f.handle(req)
		conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
		out, _ := json.Marshal(resp)
		conn.Write(append(out, '\n'))
	}
}

func (f *fakeMpv) handle(req ipcRequest) ipcResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	resp := ipcResponse{RequestID: req.RequestID, Error: "success"}
	name, _ := req.Command[0].(string)
	switch name {
	case "get_property":
		v, ok := f.props[req.Command[1].(string)]
		if !ok {
			resp.Error = "property unavailable"
			return resp
		}
		resp.Data = v
	case "set_property":
		f.props[req.Command[1].(string)] = req.Command[2]
	case "seek":
		f.props["time-pos"] = req.Command[1]
		f.commands = append(f.commands, req.Command)
	case "bogus":
		resp.Error = "invalid parameter"
	default:
		f.commands = append(f.commands, req.Command)
	}
	return resp
}

func (f *fakeMpv) set(name string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.props[name] = v
}

func (f *fakeMpv) get(name string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.props[name]
}

func (f *fakeMpv) recorded() [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]any(nil), f.commands...)
}

func connectedPlayer(t *testing.T, props map[string]any) (*Player, *fakeMpv) {
	t.Helper()
	f, path := startFakeMpv(t, props)
	c := NewClient(path)
	require.NoError(t, c.Connect())
	t.Cleanup(func() { c.Close() })
	return NewPlayer(c), f
}

func TestClient_NotConnected(t *testing.T) {
	c := NewClient("/nonexistent/mpv.sock")
	_, err := c.GetProperty("pause")
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, c.Connect(), ErrSocketNotFound)
	assert.False(t, c.IsConnected())
}

func TestClient_ConnectWaitTimesOut(t *testing.T) {
	c := NewClient(filepath.Join(os.TempDir(), "missing-mpv.sock"))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.ConnectWait(ctx, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrSocketNotFound)
}

func TestClient_CommandError(t *testing.T) {
	_, path := startFakeMpv(t, map[string]any{})
	c := NewClient(path)
	require.NoError(t, c.Connect())
	defer c.Close()

	_, err := c.Command("bogus")
	assert.EqualError(t, err, "mpv: bogus: invalid parameter")

	_, err = c.GetFloat("duration")
	assert.ErrorIs(t, err, ErrPropertyUnavailable)
}

func TestPlayer_Transport(t *testing.T) {
	p, f := connectedPlayer(t, map[string]any{"pause": true})

	require.NoError(t, p.Load("/videos/match.mp4"))
	require.NoError(t, p.Play())
	playing, err := p.IsPlaying()
	require.NoError(t, err)
	assert.True(t, playing)

	require.NoError(t, p.Pause())
	playing, err = p.IsPlaying()
	require.NoError(t, err)
	assert.False(t, playing)

	require.NoError(t, p.SeekTo(5250))
	assert.Equal(t, 5.25, f.get("time-pos"))
	pos, err := p.CurrentPositionMs()
	require.NoError(t, err)
	assert.Equal(t, int64(5250), pos)

	require.NoError(t, p.Stop())

	cmds := f.recorded()
	require.Len(t, cmds, 3)
	assert.Equal(t, []any{"loadfile", "/videos/match.mp4", "replace"}, cmds[0])
	assert.Equal(t, []any{"seek", 5.25, "absolute+exact"}, cmds[1])
	assert.Equal(t, []any{"stop"}, cmds[2])
}

func TestPlayer_UnknownPositionAndDuration(t *testing.T) {
	p, _ := connectedPlayer(t, map[string]any{})

	pos, err := p.CurrentPositionMs()
	require.NoError(t, err)
	assert.Zero(t, pos)

	d, err := p.DurationMs()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestPlayer_WaitForMetadata(t *testing.T) {
	p, f := connectedPlayer(t, map[string]any{"width": 1920.0})

	go func() {
		time.Sleep(80 * time.Millisecond)
		f.set("height", 1080.0)
		f.set("duration", 12.5)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	meta, err := p.WaitForMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, trimmer.Metadata{Width: 1920, Height: 1080, DurationMs: 12500}, meta)
}

func TestPlayer_WaitForMetadataRotated(t *testing.T) {
	p, _ := connectedPlayer(t, map[string]any{
		"width":               1920.0,
		"height":              1080.0,
		"duration":            3.0,
		"video-params/rotate": 90.0,
	})

	meta, err := p.WaitForMetadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1080, meta.Width)
	assert.Equal(t, 1920, meta.Height)
}

func TestPlayer_WaitForMetadataCancelled(t *testing.T) {
	p, _ := connectedPlayer(t, map[string]any{})
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	_, err := p.WaitForMetadata(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
