// pix-por-aproximacao
// Copyright (c) 2026 The pix-por-aproximacao Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of pix-por-aproximacao.
//
// pix-por-aproximacao is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// pix-por-aproximacao is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with pix-por-aproximacao; if not, write to the Free Software
// Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package pixhce

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Session states.
const (
	StateIdle         = "idle"
	StatePolling      = "polling"
	StateConnected    = "connected"
	StateSelecting    = "selecting"
	StateSelected     = "selected"
	StateTransferring = "transferring"
	StateClosed       = "closed"
)

// Session events.
const (
	eventPoll     = "poll"
	eventAttach   = "attach"
	eventSelect   = "select"
	eventAccept   = "accept"
	eventTransfer = "transfer"
	eventComplete = "complete"
	eventClose    = "close"
)

// newSessionFSM builds the session state machine. Closed is terminal and
// reachable from every non-terminal state.
func newSessionFSM(callbacks fsm.Callbacks) *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventPoll, Src: []string{StateIdle}, Dst: StatePolling},
			{Name: eventAttach, Src: []string{StatePolling}, Dst: StateConnected},
			{Name: eventSelect, Src: []string{StateConnected}, Dst: StateSelecting},
			{Name: eventAccept, Src: []string{StateSelecting}, Dst: StateSelected},
			{Name: eventTransfer, Src: []string{StateSelected}, Dst: StateTransferring},
			{Name: eventComplete, Src: []string{StateTransferring}, Dst: StateSelected},
			{Name: eventClose, Src: []string{
				StateIdle, StatePolling, StateConnected,
				StateSelecting, StateSelected, StateTransferring,
			}, Dst: StateClosed},
		},
		callbacks,
	)
}

// Session is the single-instance runtime state of one contactless push:
// the discovery subscription, the connected transport handle, and the
// pending settlement of the handshake.
//
// The settled flag is single-assignment: exactly one of the connected path
// and the timeout path produces the terminal handshake resolution, and the
// loser of that race is discarded silently.
type Session struct {
	machine   *fsm.FSM
	transport Transport
	sub       Subscription
	timer     *time.Timer
	settled   *atomic.Bool
	log       zerolog.Logger
	mu        sync.Mutex
	closed    bool
}

func newSession(log zerolog.Logger) *Session {
	s := &Session{
		settled: atomic.NewBool(false),
		log:     log,
	}
	s.machine = newSessionFSM(fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			s.log.Debug().Str("from", e.Src).Str("to", e.Dst).Msg("session transition")
		},
	})
	return s
}

// State returns the current state name for diagnostics.
func (s *Session) State() string {
	return s.machine.Current()
}

// armTimeout starts the discovery-wait timer. The timer only matters while
// still polling; once the settled flag is taken by the connected path the
// firing is a no-op.
func (s *Session) armTimeout(timeout time.Duration, settle chan<- error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer = time.AfterFunc(timeout, func() {
		if !s.settled.CompareAndSwap(false, true) {
			return // past the race window
		}
		s.log.Debug().Dur("timeout", timeout).Msg("discovery window expired")
		settle <- ErrTimeout
	})
}

// handleDeviceFound is the discovery callback. It claims the settled flag,
// adopts the transport, performs the SELECT handshake and delivers the
// terminal handshake outcome. A handle arriving after the timeout has
// already settled is released and discarded without surfacing an error.
func (s *Session) handleDeviceFound(ctx context.Context, t Transport, derr error, settle chan<- error) {
	if !s.settled.CompareAndSwap(false, true) {
		if t != nil {
			_ = t.Close()
		}
		return
	}
	s.stopTimer()

	if derr != nil || t == nil {
		s.log.Debug().AnErr("cause", derr).Msg("device yielded no usable handle")
		settle <- fmt.Errorf("%w: %v", ErrIncompatibleDevice, derr)
		return
	}

	s.mu.Lock()
	s.transport = t
	s.mu.Unlock()
	_ = s.machine.Event(ctx, eventAttach)

	settle <- s.handshake(ctx)
}

// handshake issues SELECT through the adopted transport and validates the
// reply. Runs once, immediately after the connected transition.
func (s *Session) handshake(ctx context.Context) error {
	_ = s.machine.Event(ctx, eventSelect)

	resp, err := s.exchange(ctx, "select", BuildSelectCommand())
	if err != nil {
		return err
	}
	if !IsSuccess(resp) {
		return fmt.Errorf("%w: status %04X", ErrApplicationNotAccepted, StatusWord(resp))
	}

	_ = s.machine.Event(ctx, eventAccept)
	s.log.Debug().Msg("handshake complete")
	return nil
}

// Transfer plays the UPDATE BINARY sequence for uri through the transport,
// strictly one command in flight at a time. The first rejected write
// closes the session and reports its zero-based index.
func (s *Session) Transfer(ctx context.Context, uri string) error {
	commands, err := BuildWriteCommands(uri)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed || s.machine.Current() != StateSelected {
		current := s.machine.Current()
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidState, current)
	}
	_ = s.machine.Event(ctx, eventTransfer)
	s.mu.Unlock()

	for i, cmd := range commands {
		resp, err := s.exchange(ctx, fmt.Sprintf("write[%d]", i), cmd)
		if err != nil {
			s.Close()
			return err
		}
		if !IsSuccess(resp) {
			s.Close()
			return &WriteError{Index: i, Status: resp}
		}
	}

	_ = s.machine.Event(ctx, eventComplete)
	s.log.Debug().Int("commands", len(commands)).Msg("transfer complete")
	return nil
}

// exchange sends one command and returns the raw response, wrapping any
// transport failure as a LinkError for the given step.
func (s *Session) exchange(ctx context.Context, step string, cmd Command) ([]byte, error) {
	raw := cmd.Serialize()
	s.log.Debug().Str("step", step).Str("tx", formatHexBytes(raw)).Msg("apdu")

	resp, err := s.transport.Exchange(ctx, raw)
	if err != nil {
		return nil, NewLinkError(step, err)
	}

	s.log.Debug().Str("step", step).Str("rx", formatHexBytes(resp)).Msg("apdu")
	return resp, nil
}

// Close tears the session down: cancels the timer and the discovery
// subscription and releases the transport handle. Idempotent, never fails;
// a transport close failure is logged since the logical session is ending
// regardless.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	transport := s.transport
	sub := s.sub
	s.mu.Unlock()

	s.stopTimer()
	if sub != nil {
		sub.Stop()
	}
	if transport != nil {
		if err := transport.Close(); err != nil {
			s.log.Debug().Err(err).Msg("transport close failed")
		}
	}
	_ = s.machine.Event(context.Background(), eventClose)
}

// stopTimer stops the discovery timer if armed. Draining is unnecessary:
// the timer callback is guarded by the settled flag, not the channel.
func (s *Session) stopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) attachSubscription(sub Subscription) {
	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
}
