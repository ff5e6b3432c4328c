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

// Availability describes whether the platform can run a contactless
// session right now.
type Availability int

const (
	// NotSupported means no contactless hardware exists.
	NotSupported Availability = iota
	// Available means the radio is present and enabled.
	Available
	// Disabled means hardware exists but the radio is switched off.
	Disabled
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Disabled:
		return "disabled"
	default:
		return "not supported"
	}
}

// ListenFlags narrow which physical targets trigger discovery and suppress
// non-essential platform side effects while listening.
type ListenFlags uint32

const (
	// FlagTypeA restricts discovery to ISO 14443 Type A targets, the
	// technology HCE devices emulate.
	FlagTypeA ListenFlags = 1 << iota
	// FlagSkipTagDetection skips passive tag content probing so plain
	// storage tags do not trigger the session callback.
	FlagSkipTagDetection
	// FlagNoPlatformSounds suppresses the platform discovery feedback
	// sound where the adapter supports it.
	FlagNoPlatformSounds
)

// DefaultListenFlags is the flag set a Pix push session listens with.
const DefaultListenFlags = FlagTypeA | FlagSkipTagDetection | FlagNoPlatformSounds

// DeviceFoundFunc is invoked by a Discovery adapter exactly once per
// listening window: with a connected transport on success, or with a nil
// transport and an error when a detected device yields no usable handle.
type DeviceFoundFunc func(Transport, error)

// Discovery is the external collaborator that enables a listening mode and
// yields a connected transport once a device is in range.
type Discovery interface {
	// Availability reports the current radio state.
	Availability() Availability

	// StartListening begins waiting for a device. The callback may fire
	// from another goroutine; the returned subscription stops the wait.
	StartListening(onDeviceFound DeviceFoundFunc, flags ListenFlags) (Subscription, error)
}

// Subscription is a handle on an active listening window.
type Subscription interface {
	// Stop cancels listening. Stopping twice is a no-op; a transport
	// already delivered to the callback stays open.
	Stop()
}
