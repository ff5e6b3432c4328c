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

import "context"

// Transport is the connected duplex link to a discovered device. The
// underlying radio guarantees one reply per request; the session issues at
// most one exchange at a time and owns the transport exclusively until
// Close.
type Transport interface {
	// Exchange sends one serialized APDU command and returns the raw
	// response, status word included.
	Exchange(ctx context.Context, command []byte) ([]byte, error)

	// Close releases the link. Close is best-effort: the session logs a
	// failure here but never surfaces it.
	Close() error
}

// TransportType identifies a transport adapter in logs.
type TransportType string

const (
	// TransportPCSC is a PC/SC smart-card reader link.
	TransportPCSC TransportType = "pcsc"
	// TransportUART is a PN532 reader on a serial port.
	TransportUART TransportType = "uart"
	// TransportMock is an in-memory transport for tests.
	TransportMock TransportType = "mock"
)

// TransportTyper is optionally implemented by transports that can name
// their link type for diagnostics.
type TransportTyper interface {
	Type() TransportType
}
