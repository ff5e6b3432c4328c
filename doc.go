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

/*
Package pixhce pushes a Pix payment reference onto a nearby card-emulated
(HCE) device over an ISO 7816 APDU command stream.

The package owns the protocol layer only: it builds the SELECT command for
the Pix HCE applet, wraps the payment URI in an NDEF record, splits the
record into UPDATE BINARY writes, validates every status word, and drives
the session state machine (discovery, handshake, transfer, teardown).
Physical radios live behind two small interfaces, Discovery and Transport,
with production adapters under transport/.

Basic usage:

	import (
	    pixhce "github.com/PhRn18/pix-por-aproximacao"
	    "github.com/PhRn18/pix-por-aproximacao/transport/pcsc"
	)

	disc, err := pcsc.New()
	if err != nil {
	    log.Fatal(err)
	}
	client, err := pixhce.New(disc)
	if err != nil {
	    log.Fatal(err)
	}

	session, err := client.BeginSession(ctx, 30*time.Second)
	if err != nil {
	    log.Fatal(err)
	}
	defer client.EndSession(session)

	err = client.SendPaymentReference(ctx, session, referenceCode, "broker.example")

Error Handling:

All failures belong to a closed set and can be inspected:

	if errors.Is(err, pixhce.ErrTimeout) {
	    // no device approached the terminal in time
	}

	var we *pixhce.WriteError
	if errors.As(err, &we) {
	    // the device rejected write number we.Index
	}

DisplayMessage maps any of these onto a user-facing pt-BR string.

Concurrency:

A Client runs a single session at a time; BeginSession fails with
ErrAlreadyPolling while another session is open. A Session owns its
transport handle exclusively from discovery until Close.
*/
package pixhce
