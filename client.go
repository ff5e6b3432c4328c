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
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// defaultTimeout bounds the discovery wait when the caller passes a
// non-positive timeout to BeginSession.
const defaultTimeout = 30 * time.Second

// Client drives contactless Pix pushes against one Discovery collaborator.
// At most one session is active at a time; overlapping sessions are
// refused, not queued.
type Client struct {
	discovery Discovery
	active    *atomic.Bool
	log       zerolog.Logger
	flags     ListenFlags
	timeout   time.Duration
}

// New creates a Client using the given discovery adapter.
func New(discovery Discovery, opts ...Option) (*Client, error) {
	c := &Client{
		discovery: discovery,
		active:    atomic.NewBool(false),
		log:       zerolog.Nop(),
		flags:     DefaultListenFlags,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CheckAvailability reports whether a contactless session can run right
// now.
func (c *Client) CheckAvailability() Availability {
	return c.discovery.Availability()
}

// BeginSession waits for a device, performs the SELECT handshake and
// returns a session ready for transfer. It fails with ErrNoRadioSupport or
// ErrRadioDisabled when the platform cannot listen, ErrAlreadyPolling when
// a session is already open, ErrTimeout when no device approaches in time,
// ErrIncompatibleDevice, ErrApplicationNotAccepted or a LinkError when the
// handshake fails. Every failure leaves the session closed.
func (c *Client) BeginSession(ctx context.Context, timeout time.Duration) (*Session, error) {
	switch c.discovery.Availability() {
	case NotSupported:
		return nil, ErrNoRadioSupport
	case Disabled:
		return nil, ErrRadioDisabled
	case Available:
	}

	if !c.active.CompareAndSwap(false, true) {
		return nil, ErrAlreadyPolling
	}
	if timeout <= 0 {
		timeout = c.timeout
	}

	s := newSession(c.log)
	settle := make(chan error, 1)
	_ = s.machine.Event(ctx, eventPoll)

	sub, err := c.discovery.StartListening(func(t Transport, derr error) {
		s.handleDeviceFound(ctx, t, derr, settle)
	}, c.flags)
	if err != nil {
		s.Close()
		c.active.Store(false)
		return nil, NewLinkError("startListening", err)
	}
	s.attachSubscription(sub)
	s.armTimeout(timeout, settle)

	var settleErr error
	select {
	case settleErr = <-settle:
	case <-ctx.Done():
		// Treat caller cancellation like the timeout path: claim the
		// settled flag if still unclaimed, otherwise wait out the winner.
		if s.settled.CompareAndSwap(false, true) {
			settleErr = ctx.Err()
		} else {
			settleErr = <-settle
		}
	}

	if settleErr != nil {
		s.Close()
		c.active.Store(false)
		return nil, settleErr
	}
	return s, nil
}

// SendPaymentReference pushes referenceCode to the session's device as the
// URI pix://<brokerHost>?qr=<referenceCode>. It fails with ErrInvalidState
// outside the selected state, a WriteError on the first rejected write, or
// a LinkError; any of those closes the session.
func (c *Client) SendPaymentReference(ctx context.Context, s *Session, referenceCode, brokerHost string) error {
	return s.Transfer(ctx, BuildPixURI(referenceCode, brokerHost))
}

// EndSession closes the session and frees the single-session slot. Always
// succeeds; ending twice is a no-op.
func (c *Client) EndSession(s *Session) {
	if s == nil {
		return
	}
	s.Close()
	c.active.Store(false)
}
