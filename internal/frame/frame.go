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

// Package frame builds and parses PN532 information frames for the UART
// transport adapter.
package frame

import (
	"bytes"
	"errors"
)

// Frame direction identifiers.
const (
	HostToPn532 = 0xD4 // commands from host to PN532
	Pn532ToHost = 0xD5 // responses from PN532 to host
)

// Frame markers and control bytes.
const (
	Preamble   = 0x00
	StartCode1 = 0x00
	StartCode2 = 0xFF
	Postamble  = 0x00
)

// MaxDataLength is the largest data field a normal information frame
// carries (PN532 spec).
const MaxDataLength = 263

var (
	// AckFrame acknowledges a received frame.
	AckFrame = []byte{0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00}

	// WakeUp is the long-preamble sequence that brings the PN532 out of
	// power-down before the first HSU command.
	WakeUp = []byte{0x55, 0x55, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
)

var (
	ErrTooLong      = errors.New("frame: data field too long")
	ErrTruncated    = errors.New("frame: truncated frame")
	ErrBadStartCode = errors.New("frame: start code not found")
	ErrBadChecksum  = errors.New("frame: checksum mismatch")
	ErrWrongFrame   = errors.New("frame: unexpected frame direction")
)

// Build wraps cmd and args in a normal information frame:
// PREAMBLE 00 FF LEN LCS D4 CMD ARGS... DCS POSTAMBLE.
func Build(cmd byte, args []byte) ([]byte, error) {
	dataLen := len(args) + 2 // TFI + command code
	if dataLen > MaxDataLength {
		return nil, ErrTooLong
	}

	buf := make([]byte, 0, dataLen+7)
	buf = append(buf, Preamble, StartCode1, StartCode2)
	buf = append(buf, byte(dataLen), byte(^byte(dataLen)+1))

	dcs := byte(HostToPn532) + cmd
	buf = append(buf, HostToPn532, cmd)
	for _, b := range args {
		buf = append(buf, b)
		dcs += b
	}
	buf = append(buf, ^dcs+1, Postamble)
	return buf, nil
}

// IsAck reports whether raw starts with the ACK frame.
func IsAck(raw []byte) bool {
	return len(raw) >= len(AckFrame) && bytes.Equal(raw[:len(AckFrame)], AckFrame)
}

// Parse extracts the data field (command code + payload, TFI stripped)
// from a PN532-to-host information frame. raw may carry leading noise
// before the start code.
func Parse(raw []byte) ([]byte, error) {
	start := bytes.Index(raw, []byte{StartCode1, StartCode2})
	if start < 0 {
		return nil, ErrBadStartCode
	}
	body := raw[start+2:]
	if len(body) < 4 {
		return nil, ErrTruncated
	}

	dataLen := int(body[0])
	lcs := body[1]
	if byte(dataLen)+lcs != 0 {
		return nil, ErrBadChecksum
	}
	if dataLen < 2 { // TFI plus response code at minimum
		return nil, ErrTruncated
	}
	if len(body) < 2+dataLen+1 {
		return nil, ErrTruncated
	}

	data := body[2 : 2+dataLen]
	dcs := body[2+dataLen]
	var sum byte
	for _, b := range data {
		sum += b
	}
	if sum+dcs != 0 {
		return nil, ErrBadChecksum
	}
	if data[0] != Pn532ToHost {
		return nil, ErrWrongFrame
	}
	return data[1:], nil
}
