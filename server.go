package main

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/funny-falcon/slotpool/pool"
)

type record struct {
	ID      uint64
	Value   int64
	Created int64
}

// server exposes one pool over HTTP. The pool itself is single-threaded,
// so every handler runs under mu.
type server struct {
	mu      sync.Mutex
	pool    *pool.Pool[record]
	handles map[uint64]*pool.Handle[record]
	nextID  uint64
	log     *zap.Logger
}

type allocResponse struct {
	ID        uint64 `json:"id"`
	Value     int64  `json:"value"`
	Available int    `json:"available"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newServer(cfg Config, log *zap.Logger) (*server, error) {
	p, err := pool.New[record](cfg.Capacity, cfg.options(log)...)
	if err != nil {
		return nil, err
	}
	return &server{
		pool:    p,
		handles: make(map[uint64]*pool.Handle[record], cfg.Capacity),
		log:     log,
	}, nil
}

func (s *server) handler(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/stats":
		if !ctx.IsGet() {
			ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
			return
		}
		s.stats(ctx)
	case "/alloc":
		if !ctx.IsPost() {
			ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
			return
		}
		s.alloc(ctx)
	case "/free":
		if !ctx.IsPost() {
			ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
			return
		}
		s.free(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func (s *server) stats(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	st := s.pool.Stats()
	s.mu.Unlock()
	writeJSON(ctx, fasthttp.StatusOK, st)
}

func (s *server) alloc(ctx *fasthttp.RequestCtx) {
	value, err := strconv.ParseInt(string(ctx.QueryArgs().Peek("value")), 10, 64)
	if err != nil {
		writeJSON(ctx, fasthttp.StatusBadRequest, errorResponse{Error: "bad value"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID + 1
	h, err := s.pool.AllocateSmart(func(r *record) error {
		r.ID, r.Value, r.Created = id, value, time.Now().UnixNano()
		return nil
	})
	if errors.Is(err, pool.ErrExhausted) {
		writeJSON(ctx, fasthttp.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		s.log.Error("alloc", zap.Error(err))
		writeJSON(ctx, fasthttp.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.nextID = id
	s.handles[id] = h
	writeJSON(ctx, fasthttp.StatusOK, allocResponse{
		ID:        id,
		Value:     h.Get().Value,
		Available: s.pool.Available(),
	})
}

func (s *server) free(ctx *fasthttp.RequestCtx) {
	id, err := strconv.ParseUint(string(ctx.QueryArgs().Peek("id")), 10, 64)
	if err != nil {
		writeJSON(ctx, fasthttp.StatusBadRequest, errorResponse{Error: "bad id"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[id]
	if !ok {
		writeJSON(ctx, fasthttp.StatusNotFound, errorResponse{Error: "unknown id"})
		return
	}
	delete(s.handles, id)
	if err := h.Release(); err != nil {
		s.log.Error("free", zap.Uint64("id", id), zap.Error(err))
		writeJSON(ctx, fasthttp.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

func (s *server) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for id, h := range s.handles {
		errs = append(errs, h.Release())
		delete(s.handles, id)
	}
	errs = append(errs, s.pool.Close())
	return errors.Join(errs...)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := jsonConfig.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func serve(ctx context.Context, cfg Config, log *zap.Logger) error {
	s, err := newServer(cfg, log)
	if err != nil {
		return err
	}
	srv := &fasthttp.Server{
		Handler: s.handler,
		Name:    "slotpool",
	}
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()
	log.Info("listening", zap.String("addr", cfg.HTTP), zap.Int("capacity", cfg.Capacity))
	err = srv.ListenAndServe(cfg.HTTP)
	return errors.Join(err, s.close())
}
