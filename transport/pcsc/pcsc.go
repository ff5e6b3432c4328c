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

// Package pcsc discovers HCE devices through PC/SC contactless readers.
package pcsc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pixhce "github.com/PhRn18/pix-por-aproximacao"
	"github.com/ebfe/scard"
)

const statusPollTimeout = 250 * time.Millisecond

// Adapter is a PC/SC context acting as the discovery collaborator. One
// adapter serves sequential sessions; each session gets a transport bound
// to the card that entered the field.
type Adapter struct {
	ctx    *scard.Context
	mu     sync.Mutex
	closed bool
}

// New establishes the PC/SC context.
func New() (*Adapter, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("establish PC/SC context: %w", err)
	}
	return &Adapter{ctx: ctx}, nil
}

// Availability probes the PC/SC stack: no context means no support, no
// connected reader means the radio is effectively off.
func (a *Adapter) Availability() pixhce.Availability {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return pixhce.NotSupported
	}
	readers, err := a.ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		return pixhce.Disabled
	}
	return pixhce.Available
}

// StartListening watches every known reader for a card entering the field
// and hands a connected transport to the callback. PC/SC has no platform
// feedback sound, so FlagNoPlatformSounds is satisfied trivially.
func (a *Adapter) StartListening(onDeviceFound pixhce.DeviceFoundFunc, _ pixhce.ListenFlags) (pixhce.Subscription, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, errors.New("pcsc: adapter closed")
	}
	a.mu.Unlock()

	readers, err := a.ctx.ListReaders()
	if err != nil {
		return nil, fmt.Errorf("list readers: %w", err)
	}
	if len(readers) == 0 {
		return nil, errors.New("pcsc: no readers attached")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go a.listen(ctx, readers, onDeviceFound)
	return &subscription{cancel: cancel}, nil
}

func (a *Adapter) listen(ctx context.Context, readers []string, onDeviceFound pixhce.DeviceFoundFunc) {
	states := make([]scard.ReaderState, len(readers))
	for i, r := range readers {
		states[i] = scard.ReaderState{Reader: r, CurrentState: scard.StateUnaware}
	}

	for {
		if ctx.Err() != nil {
			return
		}

		// Short timeout so cancellation is observed promptly.
		if err := a.ctx.GetStatusChange(states, statusPollTimeout); err != nil {
			if errors.Is(err, scard.ErrTimeout) {
				for i := range states {
					states[i].CurrentState = states[i].EventState
				}
				continue
			}
			onDeviceFound(nil, fmt.Errorf("status change: %w", err))
			return
		}

		for i := range states {
			if states[i].EventState&scard.StatePresent == 0 {
				states[i].CurrentState = states[i].EventState
				continue
			}
			if ctx.Err() != nil {
				return
			}

			card, err := a.ctx.Connect(states[i].Reader, scard.ShareExclusive, scard.ProtocolAny)
			if err != nil {
				onDeviceFound(nil, fmt.Errorf("connect %s: %w", states[i].Reader, err))
				return
			}
			onDeviceFound(&cardTransport{card: card}, nil)
			return
		}
	}
}

// Close releases the PC/SC context.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	if err := a.ctx.Release(); err != nil {
		return fmt.Errorf("release PC/SC context: %w", err)
	}
	return nil
}

// cardTransport is the per-card handle a session owns.
type cardTransport struct {
	card   *scard.Card
	mu     sync.Mutex
	closed bool
}

// Exchange transmits one APDU and returns the raw response including the
// status word.
func (t *cardTransport) Exchange(ctx context.Context, command []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, errors.New("pcsc: transport closed")
	}
	resp, err := t.card.Transmit(command)
	if err != nil {
		return nil, fmt.Errorf("transmit: %w", err)
	}
	return resp, nil
}

// Close disconnects the card, leaving it in the field.
func (t *cardTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.card.Disconnect(scard.LeaveCard); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

// Type identifies the link in logs.
func (*cardTransport) Type() pixhce.TransportType {
	return pixhce.TransportPCSC
}

type subscription struct {
	cancel context.CancelFunc
	once   sync.Once
}

func (s *subscription) Stop() {
	s.once.Do(s.cancel)
}
