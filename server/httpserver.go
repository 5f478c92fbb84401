// Copyright 2023 The Compomics Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cubefs/cubefs/blobstore/common/profile"
	"github.com/cubefs/cubefs/blobstore/common/rpc"
	"github.com/cubefs/cubefs/blobstore/common/trace"
	"github.com/cubefs/cubefs/blobstore/util/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/compomics/utilities/common/kvstore"
	"github.com/compomics/utilities/db"
	"github.com/compomics/utilities/metrics"
	"github.com/compomics/utilities/util/limiter"
)

const (
	defaultShutdownTimeoutS      = 10
	defaultReadRequestTimeoutS   = 30
	defaultWriteResponseTimeoutS = 30
	defaultMaxConcurrentRequests = 16
)

// Stats describes a running objects database.
type Stats struct {
	Name    string         `json:"name"`
	Path    string         `json:"path"`
	Active  bool           `json:"active"`
	Cached  int            `json:"cached"`
	Classes map[string]int `json:"classes"`
	Store   kvstore.Stats  `json:"store"`
}

// HttpServer is the admin server of an objects database.
type HttpServer struct {
	httpServer *http.Server
	limit      limiter.CountLimit

	db *db.ObjectsDB
}

// NewHttpServer serves objectsDB, answering at most maxConcurrent requests
// at once.
func NewHttpServer(objectsDB *db.ObjectsDB, maxConcurrent int) *HttpServer {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentRequests
	}
	return &HttpServer{db: objectsDB, limit: limiter.NewCountLimit(maxConcurrent)}
}

func (h *HttpServer) Serve(addr string) {
	ph := profile.NewProfileHandler(addr)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      rpc.MiddlewareHandlerWith(h.newHandler(), ph),
		ReadTimeout:  defaultReadRequestTimeoutS * time.Second,
		WriteTimeout: defaultWriteResponseTimeoutS * time.Second,
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server exits:", err)
		}
	}()
	h.httpServer = httpServer

	log.Info("http server is running at:", addr)
}

func (h *HttpServer) Stop() {
	if h.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeoutS*time.Second)
	defer cancel()

	h.httpServer.Shutdown(ctx)
}

func (h *HttpServer) newHandler() *rpc.Router {
	metricsHandler := promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})

	router := rpc.New()
	router.Handle(http.MethodGet, "/stats", h.limited(h.Stats))
	router.Handle(http.MethodGet, "/count", h.limited(h.Count))
	router.Handle(http.MethodGet, "/metrics", func(c *rpc.Context) {
		metricsHandler.ServeHTTP(c.Writer, c.Request)
	})
	return router
}

func (h *HttpServer) limited(handler rpc.HandlerFunc) rpc.HandlerFunc {
	return func(c *rpc.Context) {
		if err := h.limit.Acquire(); err != nil {
			c.RespondStatus(http.StatusTooManyRequests)
			return
		}
		defer h.limit.Release()
		handler(c)
	}
}

func (h *HttpServer) Stats(c *rpc.Context) {
	ctx := c.Request.Context()
	span := trace.SpanFromContextSafe(ctx)

	stats := &Stats{
		Name:    h.db.Name(),
		Path:    h.db.Path(),
		Active:  h.db.IsConnectionActive(),
		Cached:  h.db.ObjectsCache().Len(),
		Classes: make(map[string]int),
	}
	var err error
	for _, class := range db.Classes() {
		if stats.Classes[class], err = h.db.Number(ctx, class); err != nil {
			span.Errorf("count %s objects failed: %s", class, err)
			c.RespondError(err)
			return
		}
	}
	if stats.Store, err = h.db.Stats(ctx); err != nil {
		span.Errorf("store stats failed: %s", err)
		c.RespondError(err)
		return
	}
	c.RespondJSON(stats)
}

// Count returns the number of stored objects of the class query argument.
func (h *HttpServer) Count(c *rpc.Context) {
	class := c.Request.URL.Query().Get("class")
	if class == "" {
		c.RespondStatus(http.StatusBadRequest)
		return
	}
	n, err := h.db.Number(c.Request.Context(), class)
	if err != nil {
		c.RespondError(err)
		return
	}
	c.RespondJSON(map[string]int{class: n})
}
