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
	"encoding/binary"
	"fmt"
)

const (
	// NDEF record header flags: message begin + end + well-known TNF, with
	// or without the short-record bit.
	ndefHeaderShort = 0xD1
	ndefHeaderLong  = 0xC1

	ndefTypeURI = 0x55 // well-known type 'U'

	// The URI payload always starts with the "no abbreviation" prefix so
	// the pix:// scheme travels literally.
	uriPrefixNone = 0x00

	// MaxChunkSize is the largest UPDATE BINARY data field a single write
	// command carries.
	MaxChunkSize = 240

	// maxWriteOffset is the highest offset the 16-bit parameter pair of
	// UPDATE BINARY can address.
	maxWriteOffset = 0xFFFF
)

// BuildNDEFMessage serializes uri as a single NDEF URI record. Payloads up
// to 255 bytes (URI plus prefix byte) use the short-record form; larger
// ones drop the short-record flag and widen the payload length to a fixed
// 4-byte big-endian field. An empty URI yields a valid header-only record.
func BuildNDEFMessage(uri string) []byte {
	uriBytes := []byte(uri)
	payloadLen := len(uriBytes) + 1 // abbreviation prefix

	var msg []byte
	if payloadLen <= 0xFF {
		msg = make([]byte, 0, 5+len(uriBytes))
		msg = append(msg, ndefHeaderShort, 0x01, byte(payloadLen), ndefTypeURI)
	} else {
		msg = make([]byte, 0, 8+len(uriBytes))
		msg = append(msg, ndefHeaderLong, 0x01)
		msg = binary.BigEndian.AppendUint32(msg, uint32(payloadLen))
		msg = append(msg, ndefTypeURI)
	}
	msg = append(msg, uriPrefixNone)
	msg = append(msg, uriBytes...)
	return msg
}

// BuildWriteCommands builds the ordered UPDATE BINARY sequence carrying the
// NDEF-wrapped uri. Chunks are at most MaxChunkSize bytes and addressed by
// strictly increasing offsets with no gaps, so concatenating the command
// data fields reproduces the serialized message exactly. Fails with
// ErrOffsetOverflow before any chunking when a chunk offset would not fit
// the 16-bit offset field.
func BuildWriteCommands(uri string) ([]Command, error) {
	msg := BuildNDEFMessage(uri)

	if len(msg) > 0 {
		lastOffset := ((len(msg) - 1) / MaxChunkSize) * MaxChunkSize
		if lastOffset > maxWriteOffset {
			return nil, fmt.Errorf("%w: %d byte message", ErrOffsetOverflow, len(msg))
		}
	}

	commands := make([]Command, 0, (len(msg)+MaxChunkSize-1)/MaxChunkSize)
	for offset := 0; offset < len(msg); offset += MaxChunkSize {
		end := offset + MaxChunkSize
		if end > len(msg) {
			end = len(msg)
		}
		commands = append(commands, buildUpdateBinaryCommand(uint16(offset), msg[offset:end]))
	}
	return commands, nil
}

// BuildPixURI formats the payment URI pushed to the device:
// pix://<brokerHost>?qr=<referenceCode>. The reference code is embedded
// verbatim as UTF-8; no further encoding is applied.
func BuildPixURI(referenceCode, brokerHost string) string {
	return fmt.Sprintf("pix://%s?qr=%s", brokerHost, referenceCode)
}
