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

// Package waiting carries progress and cancellation between long running
// operations and whoever started them.
package waiting

import (
	"sync/atomic"
	"time"

	"github.com/cubefs/cubefs/blobstore/util/log"
	"golang.org/x/time/rate"
)

// Handler is notified of the progress of a long operation and may ask it
// to stop. Every function accepting a Handler also accepts nil.
type Handler interface {
	IsRunCanceled() bool
	SetRunCanceled()
	SetMaxProgress(max int)
	IncreaseProgress()
}

// IsCanceled is the nil-safe form of h.IsRunCanceled.
func IsCanceled(h Handler) bool {
	return h != nil && h.IsRunCanceled()
}

// SetMax is the nil-safe form of h.SetMaxProgress.
func SetMax(h Handler, max int, display bool) {
	if h != nil && display {
		h.SetMaxProgress(max)
	}
}

// Increase is the nil-safe form of h.IncreaseProgress.
func Increase(h Handler, display bool) {
	if h != nil && display {
		h.IncreaseProgress()
	}
}

// CancelHandler only tracks progress counters and the cancel flag.
type CancelHandler struct {
	canceled int32
	max      int64
	progress int64
}

func NewCancelHandler() *CancelHandler {
	return &CancelHandler{}
}

func (h *CancelHandler) IsRunCanceled() bool {
	return atomic.LoadInt32(&h.canceled) == 1
}

func (h *CancelHandler) SetRunCanceled() {
	atomic.StoreInt32(&h.canceled, 1)
}

func (h *CancelHandler) SetMaxProgress(max int) {
	atomic.StoreInt64(&h.max, int64(max))
	atomic.StoreInt64(&h.progress, 0)
}

func (h *CancelHandler) IncreaseProgress() {
	atomic.AddInt64(&h.progress, 1)
}

// Progress returns the current and maximal progress values.
func (h *CancelHandler) Progress() (int64, int64) {
	return atomic.LoadInt64(&h.progress), atomic.LoadInt64(&h.max)
}

// LogHandler logs progress, at most once per interval.
type LogHandler struct {
	CancelHandler

	name    string
	limiter *rate.Limiter
}

func NewLogHandler(name string, interval time.Duration) *LogHandler {
	if interval <= 0 {
		interval = time.Second
	}
	return &LogHandler{
		name:    name,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (h *LogHandler) SetMaxProgress(max int) {
	h.CancelHandler.SetMaxProgress(max)
	log.Infof("%s: 0/%d", h.name, max)
}

func (h *LogHandler) IncreaseProgress() {
	h.CancelHandler.IncreaseProgress()
	cur, max := h.Progress()
	if cur == max || h.limiter.Allow() {
		log.Infof("%s: %d/%d", h.name, cur, max)
	}
}

func (h *LogHandler) SetRunCanceled() {
	h.CancelHandler.SetRunCanceled()
	log.Warnf("%s: canceled", h.name)
}
