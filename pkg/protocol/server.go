package protocol

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/carlos-arino/mcp-home-simulator/pkg/tools"
)

// State is the lifecycle state of a Server.
type State int

// Server lifecycle: NotStarted -> Running -> Stopped.
const (
	NotStarted State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// Server runs one protocol session over a pair of streams. It owns the
// registry, and through it the home state, for the whole session.
type Server struct {
	registry *tools.Registry
	in       *bufio.Reader
	out      io.Writer
	state    State
	logger   zerolog.Logger
}

// NewServer creates a session reading from in and writing to out.
func NewServer(registry *tools.Registry, in io.Reader, out io.Writer) *Server {
	return &Server{
		registry: registry,
		in:       bufio.NewReader(in),
		out:      out,
		state:    NotStarted,
		logger:   log.With().Str("session", uuid.NewString()).Logger(),
	}
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return s.state
}

// Run sends the handshake and processes input lines until a quit message,
// the end of input, or a stream failure. End of input and quit return nil.
// ctx is checked between lines; a blocked read is not interrupted.
func (s *Server) Run(ctx context.Context) error {
	if s.state != NotStarted {
		return ErrAlreadyStarted
	}

	defs := s.registry.Definitions()
	if err := s.send(ReadyMessage{Type: TypeReady, Version: Version, Tools: defs}); err != nil {
		s.state = Stopped
		return err
	}

	s.state = Running
	s.logger.Info().Int("tools", len(defs)).Str("version", Version).Msg("Session started")

	for s.state == Running {
		if err := ctx.Err(); err != nil {
			s.stop("context done")
			return err
		}

		line, readErr := s.in.ReadBytes('\n')
		if len(line) > 0 {
			if err := s.handleLine(line); err != nil {
				s.stop("write failed")
				return err
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				s.stop("end of input")
				return nil
			}
			s.stop("read failed")
			return fmt.Errorf("read input: %w", readErr)
		}
	}

	return nil
}

func (s *Server) stop(reason string) {
	if s.state == Stopped {
		return
	}
	s.state = Stopped
	s.logger.Info().Str("reason", reason).Msg("Session stopped")
}

// handleLine processes one input line. The returned error is always a
// transport failure on the output stream.
func (s *Server) handleLine(line []byte) error {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	reply := s.process(line)
	if reply == nil {
		return nil
	}
	return s.send(reply)
}

// process turns one non-blank line into its reply, or nil when the line
// warrants none.
func (s *Server) process(line []byte) any {
	var msg envelope
	if err := json.Unmarshal(line, &msg); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			s.logger.Warn().Err(err).Msg("Malformed input line")
			return newError(nil, fmt.Sprintf("Failed to parse JSON: %s", err))
		}
		s.logger.Warn().Err(err).Msg("Input line is not an object")
		return newError(nil, "Invalid message: expected a JSON object")
	}
	if msg == nil {
		return newError(nil, "Invalid message: expected a JSON object")
	}

	id := msg.field("id")
	msgType, ok := messageType(msg)

	s.logger.Debug().Str("msg_type", msgType).RawJSON("id", idOrNull(id)).Msg("Message received")

	switch {
	case ok && msgType == TypeCall:
		return s.handleCall(id, msg)
	case ok && msgType == TypeQuit:
		s.stop("quit")
		return nil
	default:
		return newError(id, (&UnknownTypeError{Type: msgType}).Error())
	}
}

func (s *Server) handleCall(id json.RawMessage, msg envelope) any {
	rawTool := msg.field("tool")

	var missing []string
	if id == nil {
		missing = append(missing, "id")
	}
	if rawTool == nil {
		missing = append(missing, "tool")
	}
	if len(missing) > 0 {
		return newError(id, (&MissingFieldError{Fields: missing}).Error())
	}

	var tool string
	if err := json.Unmarshal(rawTool, &tool); err != nil {
		return newError(id, (&WrongTypeError{Field: "tool", Want: "a string"}).Error())
	}

	args := map[string]any{}
	if rawArgs := msg.field("args"); rawArgs != nil {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return newError(id, (&WrongTypeError{Field: "args", Want: "an object"}).Error())
		}
	}

	res := s.registry.ExecuteTool(tool, args)
	if !res.OK() {
		s.logger.Debug().Str("tool", tool).Err(res.Err).Msg("Tool failed")
		return newError(id, res.Message())
	}

	s.logger.Debug().Str("tool", tool).Msg("Tool succeeded")
	return newResult(id, res)
}

// send writes msg as a single line and flushes it.
func (s *Server) send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode reply")
		data, err = json.Marshal(newError(nil, fmt.Sprintf("failed to marshal response: %s", err)))
		if err != nil {
			return fmt.Errorf("encode reply: %w", err)
		}
	}

	data = append(data, '\n')
	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if f, ok := s.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush output: %w", err)
		}
	}
	return nil
}

// messageType returns the type field as a string. ok is false when the field
// is absent or not a string, in which case the label is its raw JSON.
func messageType(msg envelope) (label string, ok bool) {
	raw := msg.field("type")
	if raw == nil {
		return "null", false
	}
	if err := json.Unmarshal(raw, &label); err != nil {
		return string(raw), false
	}
	return label, true
}

func idOrNull(id json.RawMessage) []byte {
	if id == nil {
		return []byte("null")
	}
	return id
}
