// Package api is the HTTP front of the benchmark: it parses paths into
// runner/reader calls and renders their results.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"uuidbench/bench"
	"uuidbench/ids"
	"uuidbench/logging"
	"uuidbench/store"
)

// Encoder serialises v onto w.
type Encoder func(w io.Writer, v any) error

// JSONEncoder is the default Encoder.
func JSONEncoder(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// rowJSON fixes the field order; createdate is epoch milliseconds.
type rowJSON struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	CreateDate int64  `json:"createdate"`
}

type Handler struct {
	store  store.Store
	runner *bench.Runner
	reader *bench.Reader
	encode Encoder
	log    *slog.Logger
}

type Option func(*Handler)

func WithEncoder(e Encoder) Option {
	return func(h *Handler) { h.encode = e }
}

func NewHandler(s store.Store, opts ...Option) *Handler {
	h := &Handler{
		store:  s,
		runner: bench.NewRunner(s),
		reader: bench.NewReader(s),
		encode: JSONEncoder,
		log:    logging.Component("api"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the full handler tree with middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/uuid4write/", h.write(ids.StrategyRandom))
	mux.Handle("/api/uuid7write/", h.write(ids.StrategyTimeOrdered))
	mux.Handle("/api/uuid4read/", h.read(store.TableV4))
	mux.Handle("/api/uuid7read/", h.read(store.TableV7))
	mux.HandleFunc("/healthz", h.health)

	return Chain(
		RequestIDMiddleware,
		LoggingMiddleware(h.log),
		RecoveryMiddleware(h.log),
	)(mux)
}

// POST /api/uuid{4,7}write/{rowCount}
func (h *Handler) write(strategy ids.Strategy) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}
		seg, err := pathSegments(r.URL.Path, 1)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		rowCount, err := parseInt(seg[0], "row count")
		if err != nil {
			h.fail(w, r, err)
			return
		}
		table, err := store.TableFor(strategy)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		res, err := h.runner.Run(r.Context(), table, strategy, rowCount)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeText(w, http.StatusOK,
			fmt.Sprintf("Inserted %d rows, average duration was %d us", res.Rows, res.AverageMicros))
	})
}

// GET /api/uuid{4,7}read/{sinceSeconds}/{limit}
func (h *Handler) read(table store.Table) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}
		seg, err := pathSegments(r.URL.Path, 2)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		since, err := parseInt64(seg[0], "timestamp")
		if err != nil {
			h.fail(w, r, err)
			return
		}
		limit, err := parseInt(seg[1], "limit")
		if err != nil {
			h.fail(w, r, err)
			return
		}

		rows, err := h.reader.Read(r.Context(), table, since, limit)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		out := make([]rowJSON, len(rows))
		for i, row := range rows {
			out[i] = rowJSON{ID: row.ID, Text: row.Text, CreateDate: row.CreateDate.UnixMilli()}
		}
		h.writeEncoded(w, r, out)
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	conn, err := h.store.Acquire(r.Context())
	if err != nil {
		writeText(w, http.StatusServiceUnavailable, "Database error: "+storeMessage(err))
		return
	}
	conn.Release()
	writeText(w, http.StatusOK, "ok")
}

// fail maps an error onto its status code and message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var se *store.Error
	switch {
	case bench.IsInvalidArgument(err):
		writeText(w, http.StatusBadRequest, "Bad request: "+err.Error())
	case errors.As(err, &se):
		h.log.Error("database error", "error", err, "request_id", RequestID(r.Context()))
		writeText(w, http.StatusInternalServerError, "Database error: "+se.Message())
	default:
		h.log.Error("request failed", "error", err, "request_id", RequestID(r.Context()))
		writeText(w, http.StatusInternalServerError, "Internal error: "+err.Error())
	}
}

// writeEncoded buffers the encoding so a failure can still become a 500.
func (h *Handler) writeEncoded(w http.ResponseWriter, r *http.Request, v any) {
	var buf bytes.Buffer
	if err := h.encode(&buf, v); err != nil {
		h.fail(w, r, fmt.Errorf("encode response: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, msg)
}

func storeMessage(err error) string {
	var se *store.Error
	if errors.As(err, &se) {
		return se.Message()
	}
	return err.Error()
}

// pathSegments returns the n segments after /api/<endpoint>/.
func pathSegments(path string, n int) ([]string, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != n+2 {
		return nil, fmt.Errorf("%w: expected %d path parameter(s) in %q", bench.ErrInvalidArgument, n, path)
	}
	return parts[2:], nil
}

func parseInt(s, what string) (int, error) {
	n, err := parseInt64(s, what)
	if err != nil {
		return 0, err
	}
	if int64(int(n)) != n {
		return 0, fmt.Errorf("%w: %s %q is out of range", bench.ErrInvalidArgument, what, s)
	}
	return int(n), nil
}

func parseInt64(s, what string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", bench.ErrInvalidArgument, what, s)
	}
	return n, nil
}
