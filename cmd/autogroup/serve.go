package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/en9inerd/autogroup"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve group creation requests from the bridge over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			a, err := setup(ctx, cmd, setupOptions{needBot: true})
			if err != nil {
				return err
			}
			defer a.Close()

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.cfg.HTTP.Addr
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(a.manager, a.store, a.sources, a.registry, a.logs.app),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logs.app.Info("listening", "addr", addr, "enabled", a.manager.Enabled())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides http.addr)")
	return cmd
}

// groupCreator is the part of the manager the HTTP API uses.
type groupCreator interface {
	CreateGroupIfNeeded(ctx context.Context, chat autogroup.Chat) (string, error)
}

type api struct {
	creator groupCreator
	store   autogroup.Store
	logger  *slog.Logger
	// sources is fixed at startup and shared with the manager.
	sources map[string]*autogroup.DirSource
}

func newRouter(creator groupCreator, store autogroup.Store, sources map[string]*autogroup.DirSource, reg *prometheus.Registry, logger *slog.Logger) http.Handler {
	h := &api{creator: creator, store: store, sources: sources, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/v1/chats", func(r chi.Router) {
		r.Post("/", h.createChat)
		r.Get("/{channel}/{uid}", h.getLink)
	})
	return r
}

type createRequest struct {
	ChannelID string `json:"channel_id"`
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Alias     string `json:"alias"`
	Type      string `json:"type"`
	MP        bool   `json:"mp"`
}

type createResponse struct {
	Key    string `json:"key"`
	Linked bool   `json:"linked"`
}

type linkResponse struct {
	Masters []string `json:"masters"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *api) createChat(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	if req.ChannelID == "" || req.UID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "channel_id and uid are required"})
		return
	}

	// Avatar sync reads the chat back from its channel's source, so only
	// configured channels are accepted.
	src, ok := h.sources[req.ChannelID]
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown channel_id " + req.ChannelID})
		return
	}

	t, err := autogroup.ParseChatType(req.Type)
	if err != nil || t == autogroup.TypeMP {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "type must be private, group or system"})
		return
	}

	chat := autogroup.Chat{
		ChannelID: req.ChannelID,
		UID:       req.UID,
		Name:      req.Name,
		Alias:     req.Alias,
		Type:      t,
		IsMP:      req.MP,
	}

	src.Remember(chat)

	key, err := h.creator.CreateGroupIfNeeded(r.Context(), chat)
	if err != nil {
		h.logger.Error("group creation failed", "chat", chat.Key(), "error", err,
			"request_id", middleware.GetReqID(r.Context()))
		status := http.StatusBadGateway
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, createResponse{Key: key, Linked: key != ""})
}

func (h *api) getLink(w http.ResponseWriter, r *http.Request) {
	key := autogroup.ChatKey(chi.URLParam(r, "channel"), chi.URLParam(r, "uid"))
	masters, err := h.store.Masters(r.Context(), key)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if len(masters) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not linked"})
		return
	}
	writeJSON(w, http.StatusOK, linkResponse{Masters: masters})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
