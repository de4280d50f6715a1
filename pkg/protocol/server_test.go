package protocol

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/carlos-arino/mcp-home-simulator/pkg/config"
	"github.com/carlos-arino/mcp-home-simulator/pkg/home"
	"github.com/carlos-arino/mcp-home-simulator/pkg/tools"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(input string) (*Server, *bytes.Buffer) {
	state := home.New(&config.Config{Lights: []string{"salon", "cocina"}})
	out := &bytes.Buffer{}
	return NewServer(tools.NewRegistry(state, nil), strings.NewReader(input), out), out
}

// decodeLines parses every output line into a generic JSON object.
func decodeLines(t *testing.T, out *bytes.Buffer) []map[string]any {
	t.Helper()

	var msgs []map[string]any
	for _, line := range strings.Split(strings.TrimRight(out.String(), "\n"), "\n") {
		if line == "" {
			continue
		}
		var msg map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &msg), "line %q", line)
		msgs = append(msgs, msg)
	}
	return msgs
}

// runSession runs a whole session and returns the replies after the handshake.
func runSession(t *testing.T, input string) []map[string]any {
	t.Helper()

	srv, out := newTestServer(input)
	require.NoError(t, srv.Run(context.Background()))
	require.Equal(t, Stopped, srv.State())

	msgs := decodeLines(t, out)
	require.NotEmpty(t, msgs)
	require.Equal(t, TypeReady, msgs[0]["type"])
	return msgs[1:]
}

// TestRun_Handshake checks the ready message advertises the version and every tool.
func TestRun_Handshake(t *testing.T) {
	t.Parallel()

	srv, out := newTestServer("")
	require.Equal(t, NotStarted, srv.State())
	require.NoError(t, srv.Run(context.Background()))

	msgs := decodeLines(t, out)
	require.Len(t, msgs, 1)
	ready := msgs[0]
	require.Equal(t, "ready", ready["type"])
	require.Equal(t, "0.1.0", ready["version"])

	defs, ok := ready["tools"].([]any)
	require.True(t, ok)
	require.Len(t, defs, 6)

	first := defs[0].(map[string]any)
	require.Equal(t, "get_presence", first["name"])
	require.Contains(t, first, "description")
	require.Contains(t, first, "input_schema")
	require.Contains(t, first, "output_schema")

	setLight := defs[3].(map[string]any)
	require.Equal(t, "set_light_state", setLight["name"])
	input := setLight["input_schema"].(map[string]any)
	require.Equal(t, "object", input["type"])
	require.Equal(t, []any{"name", "on"}, input["required"])
}

// TestRun_SetLightThenSnapshot is the basic call scenario.
func TestRun_SetLightThenSnapshot(t *testing.T) {
	t.Parallel()

	replies := runSession(t, strings.Join([]string{
		`{"type":"call","id":1,"tool":"set_light_state","args":{"name":"salon","on":true}}`,
		`{"type":"call","id":2,"tool":"get_all_states"}`,
	}, "\n"))

	require.Len(t, replies, 2)
	require.Equal(t, map[string]any{
		"type":   "result",
		"id":     1.0,
		"ok":     true,
		"result": map[string]any{"ok": true},
	}, replies[0])

	require.Equal(t, "result", replies[1]["type"])
	require.Equal(t, 2.0, replies[1]["id"])
	require.Equal(t, map[string]any{
		"lights":   map[string]any{"salon": true, "cocina": false},
		"alarm":    false,
		"presence": map[string]any{"present": false, "known_people": []any{}},
	}, replies[1]["result"])
}

// TestRun_UnknownTool checks the reply for a tool outside the catalog.
func TestRun_UnknownTool(t *testing.T) {
	t.Parallel()

	replies := runSession(t, `{"type":"call","id":"abc","tool":"bogus"}`+"\n")
	require.Equal(t, []map[string]any{{
		"type":  "error",
		"id":    "abc",
		"ok":    false,
		"error": "Tool 'bogus' not found",
	}}, replies)
}

// TestRun_ToolFailure checks domain failures become error replies keyed to the id.
func TestRun_ToolFailure(t *testing.T) {
	t.Parallel()

	replies := runSession(t, strings.Join([]string{
		`{"type":"call","id":7,"tool":"set_light_state","args":{"name":"garage","on":true}}`,
		`{"type":"call","id":8,"tool":"set_light_state","args":{"name":"salon"}}`,
		`{"type":"call","id":9,"tool":"set_alarm_state","args":{"armed":"yes"}}`,
	}, "\n"))

	require.Len(t, replies, 3)
	for i, want := range []string{
		"Light 'garage' not found",
		"missing required parameters: on",
		`parameter "armed" must be boolean`,
	} {
		require.Equal(t, "error", replies[i]["type"])
		require.Equal(t, false, replies[i]["ok"])
		require.Equal(t, float64(7+i), replies[i]["id"])
		require.Equal(t, want, replies[i]["error"])
	}
}

// TestRun_MalformedLineIsRecoverable checks a bad line costs one reply and the session continues.
func TestRun_MalformedLineIsRecoverable(t *testing.T) {
	t.Parallel()

	replies := runSession(t, strings.Join([]string{
		`not json`,
		`{"type":"call","id":1,"tool":"get_alarm_status"}`,
	}, "\n"))

	require.Len(t, replies, 2)
	require.Equal(t, "error", replies[0]["type"])
	require.Nil(t, replies[0]["id"])
	require.Contains(t, replies[0], "id")
	require.Contains(t, replies[0]["error"], "Failed to parse JSON")

	require.Equal(t, "result", replies[1]["type"])
	require.Equal(t, map[string]any{"armed": false}, replies[1]["result"])
}

// TestRun_NonObjectLines checks valid JSON that is not an object.
func TestRun_NonObjectLines(t *testing.T) {
	t.Parallel()

	replies := runSession(t, "42\n[1,2]\nnull\n\"call\"\n")
	require.Len(t, replies, 4)
	for _, r := range replies {
		require.Equal(t, "error", r["type"])
		require.Nil(t, r["id"])
		require.Equal(t, "Invalid message: expected a JSON object", r["error"])
	}
}

// TestRun_BlankLinesSkipped checks blank lines produce no reply.
func TestRun_BlankLinesSkipped(t *testing.T) {
	t.Parallel()

	replies := runSession(t, "\n   \n\t\n"+`{"type":"call","id":1,"tool":"list_lights_on"}`+"\n\n")
	require.Len(t, replies, 1)
	require.Equal(t, map[string]any{"on": []any{}}, replies[0]["result"])
}

// TestRun_Quit checks quit ends the loop without a reply and ignores later lines.
func TestRun_Quit(t *testing.T) {
	t.Parallel()

	srv, out := newTestServer(strings.Join([]string{
		`{"type":"quit"}`,
		`{"type":"call","id":1,"tool":"get_alarm_status"}`,
	}, "\n"))
	require.NoError(t, srv.Run(context.Background()))
	require.Equal(t, Stopped, srv.State())

	msgs := decodeLines(t, out)
	require.Len(t, msgs, 1)
	require.Equal(t, "ready", msgs[0]["type"])
}

// TestRun_MissingEnvelopeFields checks calls without id or tool.
func TestRun_MissingEnvelopeFields(t *testing.T) {
	t.Parallel()

	replies := runSession(t, strings.Join([]string{
		`{"type":"call","tool":"get_presence"}`,
		`{"type":"call","id":3}`,
		`{"type":"call","id":null,"tool":null}`,
		`{"type":"call","id":4,"tool":12}`,
		`{"type":"call","id":5,"tool":"get_presence","args":[1]}`,
	}, "\n"))

	require.Len(t, replies, 5)

	require.Nil(t, replies[0]["id"])
	require.Equal(t, "Invalid message: missing 'id'", replies[0]["error"])

	require.Equal(t, 3.0, replies[1]["id"])
	require.Equal(t, "Invalid message: missing 'tool'", replies[1]["error"])

	require.Nil(t, replies[2]["id"])
	require.Equal(t, "Invalid message: missing 'id' and 'tool'", replies[2]["error"])

	require.Equal(t, 4.0, replies[3]["id"])
	require.Equal(t, "Invalid message: 'tool' must be a string", replies[3]["error"])

	require.Equal(t, 5.0, replies[4]["id"])
	require.Equal(t, "Invalid message: 'args' must be an object", replies[4]["error"])

	for _, r := range replies {
		require.Equal(t, "error", r["type"])
	}
}

// TestRun_ZeroIDIsValid checks falsy ids are echoed rather than rejected.
func TestRun_ZeroIDIsValid(t *testing.T) {
	t.Parallel()

	replies := runSession(t, `{"type":"call","id":0,"tool":"get_alarm_status","args":null}`+"\n")
	require.Len(t, replies, 1)
	require.Equal(t, "result", replies[0]["type"])
	require.Equal(t, 0.0, replies[0]["id"])
}

// TestRun_UnknownMessageType checks unknown and missing types.
func TestRun_UnknownMessageType(t *testing.T) {
	t.Parallel()

	replies := runSession(t, strings.Join([]string{
		`{"type":"ping","id":11}`,
		`{"id":12}`,
		`{"type":5}`,
	}, "\n"))

	require.Len(t, replies, 3)
	require.Equal(t, 11.0, replies[0]["id"])
	require.Equal(t, "Unknown message type: ping", replies[0]["error"])
	require.Equal(t, 12.0, replies[1]["id"])
	require.Equal(t, "Unknown message type: null", replies[1]["error"])
	require.Nil(t, replies[2]["id"])
	require.Equal(t, "Unknown message type: 5", replies[2]["error"])
}

// TestRun_FinalLineWithoutNewline checks the last line is processed at end of input.
func TestRun_FinalLineWithoutNewline(t *testing.T) {
	t.Parallel()

	replies := runSession(t, `{"type":"call","id":1,"tool":"get_presence"}`)
	require.Len(t, replies, 1)
	require.Equal(t, map[string]any{"present": false, "known_people": []any{}}, replies[0]["result"])
}

// TestRun_OneLinePerMessage checks every reply is a single line even with embedded newlines in values.
func TestRun_OneLinePerMessage(t *testing.T) {
	t.Parallel()

	srv, out := newTestServer(`{"type":"call","id":"a\nb","tool":"x\ny"}` + "\n")
	require.NoError(t, srv.Run(context.Background()))
	require.Equal(t, 2, strings.Count(out.String(), "\n"))
}

// TestRun_StateIsPerSession checks two sessions do not share state.
func TestRun_StateIsPerSession(t *testing.T) {
	t.Parallel()

	first := runSession(t, `{"type":"call","id":1,"tool":"set_alarm_state","args":{"armed":true}}`+"\n")
	require.Equal(t, "result", first[0]["type"])

	second := runSession(t, `{"type":"call","id":1,"tool":"get_alarm_status"}`+"\n")
	require.Equal(t, map[string]any{"armed": false}, second[0]["result"])
}

// TestRun_AlreadyStarted checks a server cannot be run twice.
func TestRun_AlreadyStarted(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer("")
	require.NoError(t, srv.Run(context.Background()))
	require.ErrorIs(t, srv.Run(context.Background()), ErrAlreadyStarted)
}

// TestRun_ContextCancelled checks a cancelled context stops the loop before reading.
func TestRun_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv, out := newTestServer(`{"type":"call","id":1,"tool":"get_presence"}` + "\n")
	require.ErrorIs(t, srv.Run(ctx), context.Canceled)
	require.Equal(t, Stopped, srv.State())
	require.Len(t, decodeLines(t, out), 1)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

// TestRun_ReadError checks a broken input stream ends the session with an error.
func TestRun_ReadError(t *testing.T) {
	t.Parallel()

	state := home.New(&config.Config{Lights: []string{"salon"}})
	srv := NewServer(tools.NewRegistry(state, nil), failingReader{}, io.Discard)

	err := srv.Run(context.Background())
	require.ErrorContains(t, err, "read input")
	require.Equal(t, Stopped, srv.State())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

// TestRun_WriteError checks a closed output stream ends the session.
func TestRun_WriteError(t *testing.T) {
	t.Parallel()

	state := home.New(&config.Config{Lights: []string{"salon"}})
	srv := NewServer(tools.NewRegistry(state, nil), strings.NewReader(""), failingWriter{})

	require.ErrorIs(t, srv.Run(context.Background()), io.ErrClosedPipe)
	require.Equal(t, Stopped, srv.State())
}

// TestRun_FlushesBufferedOutput checks buffered writers are flushed after each message.
func TestRun_FlushesBufferedOutput(t *testing.T) {
	t.Parallel()

	var sink bytes.Buffer
	buffered := bufio.NewWriterSize(&sink, 64*1024)

	state := home.New(&config.Config{Lights: []string{"salon"}})
	srv := NewServer(tools.NewRegistry(state, nil), strings.NewReader(""), buffered)
	require.NoError(t, srv.Run(context.Background()))

	require.Zero(t, buffered.Buffered())
	require.Contains(t, sink.String(), `"type":"ready"`)
}

// TestState_String covers the lifecycle labels.
func TestState_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "not_started", NotStarted.String())
	require.Equal(t, "running", Running.String())
	require.Equal(t, "stopped", Stopped.String())
	require.Equal(t, "state(9)", State(9).String())
}
