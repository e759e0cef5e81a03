package server

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
)

const defaultLimit = 10

// Server handles the IPC for word completions
type Server struct {
	completer    suggest.ICompleter
	config       *config.Config
	configPath   string
	saver        *dictionary.Saver
	dec          *msgpack.Decoder
	out          *bufio.Writer
	enc          *msgpack.Encoder
	requestCount int
	log          *log.Logger
}

// NewServer creates a completion server using stdin/stdout for IPC
func NewServer(completer suggest.ICompleter, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(completer, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(completer suggest.ICompleter, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	out := bufio.NewWriter(w)
	return &Server{
		completer:  completer,
		config:     cfg,
		configPath: configPath,
		dec:        msgpack.NewDecoder(bufio.NewReader(r)),
		out:        out,
		enc:        msgpack.NewEncoder(out),
		log:        logger.New("server"),
	}
}

// SetSaver enables the "save" action.
func (s *Server) SetSaver(saver *dictionary.Saver) {
	s.saver = saver
}

// Start processes requests until the input ends. A clean end of input
// returns nil.
func (s *Server) Start() error {
	s.log.Debug("Starting server")
	for {
		var req Request
		err := s.dec.Decode(&req)
		if err == io.EOF {
			s.log.Debug("Input closed, stopping", "requests", s.requestCount)
			return nil
		}
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return errors.Wrap(err, "reading request")
			}
			s.log.Errorf("Decoding request: %v", err)
			if sendErr := s.sendError("", "invalid msgpack request", 400); sendErr != nil {
				return sendErr
			}
			continue
		}
		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest dispatches one request. Only write failures are returned.
func (s *Server) handleRequest(req Request) error {
	s.requestCount++
	s.maybeReloadConfig()

	if req.Action != "" {
		return s.handleDictionary(DictionaryRequest{
			ID:     req.ID,
			Action: req.Action,
			Term:   req.Term,
			Count:  req.Count,
		})
	}
	return s.handleComplete(CompletionRequest{ID: req.ID, Prefix: req.Prefix, Limit: req.Limit})
}

// handleComplete validates the prefix and limit against the [server] config,
// queries the completer and sends ranked suggestions.
func (s *Server) handleComplete(req CompletionRequest) error {
	cfg := s.config.Server
	prefix := req.Prefix
	runes := utf8.RuneCountInString(prefix)

	switch {
	case prefix == "":
		return s.sendError(req.ID, "missing prefix", 400)
	case runes < cfg.MinPrefix:
		return s.sendError(req.ID, fmt.Sprintf("prefix must be at least %d characters", cfg.MinPrefix), 400)
	case runes > cfg.MaxPrefix:
		return s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d characters", cfg.MaxPrefix), 400)
	}

	limit := req.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	if cfg.EnableFilter && !utils.IsValidInput(prefix) {
		s.log.Debug("Filtered prefix", "id", req.ID, "prefix", prefix)
		return s.send(CompletionResponse{ID: req.ID, Suggestions: []CompletionSuggestion{}})
	}

	start := time.Now()
	suggestions, prefixFreq := s.completer.CompleteWithFrequency(prefix, limit)
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(suggestions))
	out := make([]CompletionSuggestion, len(suggestions))
	for i, sg := range suggestions {
		out[i] = CompletionSuggestion{Word: sg.Word, Rank: ranks[i], Frequency: sg.Frequency}
	}

	s.log.Debug("Completed", "id", req.ID, "prefix", prefix, "count", len(out), "took", elapsed)
	return s.send(CompletionResponse{
		ID:              req.ID,
		Suggestions:     out,
		Count:           len(out),
		PrefixFrequency: prefixFreq,
		TimeTaken:       elapsed.Microseconds(),
	})
}

func (s *Server) handleDictionary(req DictionaryRequest) error {
	resp := DictionaryResponse{ID: req.ID, Status: "ok"}

	switch req.Action {
	case ActionGetInfo:
	case ActionAddTerm:
		count := req.Count
		if count == 0 {
			count = 1
		}
		if err := s.completer.AddWord(req.Term, count); err != nil {
			resp.Status, resp.Error = "error", err.Error()
		}
	case ActionSave:
		if s.saver == nil {
			resp.Status, resp.Error = "error", "saving is not configured"
			break
		}
		n, err := s.saver.Save()
		if err != nil {
			s.log.Errorf("Save failed: %v", err)
			resp.Status, resp.Error = "error", err.Error()
		}
		resp.Saved = n
	default:
		resp.Status, resp.Error = "error", fmt.Sprintf("unknown action: %s", req.Action)
	}

	stats := s.completer.Stats()
	resp.Terms = stats["totalWords"]
	resp.Nodes = stats["nodes"]
	resp.MaxFrequency = stats["maxFrequency"]
	resp.Dirty = s.completer.Dirty()
	return s.send(resp)
}

// maybeReloadConfig re-reads the config file every ReloadEvery requests.
func (s *Server) maybeReloadConfig() {
	every := s.config.Server.ReloadEvery
	if every <= 0 || s.configPath == "" || s.requestCount%every != 0 {
		return
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		s.log.Warnf("Config reload failed, keeping current: %v", err)
		return
	}
	s.config = cfg
	s.log.Debug("Reloaded config", "path", s.configPath, "requests", s.requestCount)
}

// send encodes one response and flushes it so the client sees it at once.
func (s *Server) send(v any) error {
	if err := s.enc.Encode(v); err != nil {
		return errors.Wrap(err, "encoding response")
	}
	if err := s.out.Flush(); err != nil {
		return errors.Wrap(err, "writing response")
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.send(CompletionError{ID: id, Error: message, Code: code})
}
