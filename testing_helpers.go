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
	"sync"
)

// MockTransport is an in-memory Transport for tests. Responses are served
// by a configurable function; every exchanged command is recorded.
type MockTransport struct {
	// ResponseFunc maps the i-th exchanged command to its response.
	ResponseFunc func(index int, command []byte) ([]byte, error)

	mu        sync.Mutex
	exchanged [][]byte
	closes    int
}

// NewMockTransport creates a mock transport answering every command with
// the 90 00 success status.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		ResponseFunc: func(_ int, _ []byte) ([]byte, error) {
			return []byte{0x90, 0x00}, nil
		},
	}
}

// Exchange records the command and serves the configured response.
func (m *MockTransport) Exchange(_ context.Context, command []byte) ([]byte, error) {
	m.mu.Lock()
	index := len(m.exchanged)
	recorded := make([]byte, len(command))
	copy(recorded, command)
	m.exchanged = append(m.exchanged, recorded)
	fn := m.ResponseFunc
	m.mu.Unlock()

	return fn(index, command)
}

// Close counts release calls so tests can assert single teardown.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

// Type identifies the mock in logs.
func (*MockTransport) Type() TransportType {
	return TransportMock
}

// Exchanged returns copies of all commands sent so far.
func (m *MockTransport) Exchanged() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.exchanged))
	copy(out, m.exchanged)
	return out
}

// CloseCount returns how many times Close was invoked.
func (m *MockTransport) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

// MockDiscovery is an in-memory Discovery for tests. Tests deliver a
// device with Found, or let the session time out by never calling it.
type MockDiscovery struct {
	// Radio is the availability reported to the client.
	Radio Availability

	// StartErr, when set, fails StartListening.
	StartErr error

	mu       sync.Mutex
	callback DeviceFoundFunc
	flags    ListenFlags
	stops    int
}

// NewMockDiscovery creates a discovery adapter reporting an available
// radio.
func NewMockDiscovery() *MockDiscovery {
	return &MockDiscovery{Radio: Available}
}

// Availability reports the configured radio state.
func (m *MockDiscovery) Availability() Availability {
	return m.Radio
}

// StartListening records the callback for later delivery via Found.
func (m *MockDiscovery) StartListening(onDeviceFound DeviceFoundFunc, flags ListenFlags) (Subscription, error) {
	if m.StartErr != nil {
		return nil, m.StartErr
	}
	m.mu.Lock()
	m.callback = onDeviceFound
	m.flags = flags
	m.mu.Unlock()
	return (*mockSubscription)(m), nil
}

// Found simulates a device entering the field.
func (m *MockDiscovery) Found(t Transport, err error) {
	m.mu.Lock()
	cb := m.callback
	m.mu.Unlock()
	if cb != nil {
		cb(t, err)
	}
}

// Listening reports whether a callback is currently registered.
func (m *MockDiscovery) Listening() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callback != nil
}

// Flags returns the flags the last listening window was opened with.
func (m *MockDiscovery) Flags() ListenFlags {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags
}

// StopCount returns how many times the subscription was stopped.
func (m *MockDiscovery) StopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

type mockSubscription MockDiscovery

func (s *mockSubscription) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	s.callback = nil
}
