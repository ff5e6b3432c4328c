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

// ISO 7816-4 instruction bytes used by the Pix HCE flow.
const (
	insSelect       = 0xA4 // SELECT
	insUpdateBinary = 0xD6 // UPDATE BINARY

	// SELECT parameters: by DF name, first or only occurrence.
	p1SelectByName       = 0x04
	p2FirstOnlyOccurence = 0x00
)

// PixAID is the application identifier of the Pix HCE applet on the
// receiving device.
var PixAID = []byte{0xA0, 0x00, 0x00, 0x09, 0x40, 0xBC, 0xB0, 0x00}

// Command is a case-3 ISO 7816 APDU command. Commands are built once per
// protocol step and never mutated after construction.
type Command struct {
	Data []byte
	Cla  byte
	Ins  byte
	P1   byte
	P2   byte
}

// Serialize encodes the command as CLA INS P1 P2 [Lc Data]. The length
// byte is omitted entirely when the data field is empty.
func (c Command) Serialize() []byte {
	buf := make([]byte, 0, 5+len(c.Data))
	buf = append(buf, c.Cla, c.Ins, c.P1, c.P2)
	if len(c.Data) > 0 {
		buf = append(buf, byte(len(c.Data)))
		buf = append(buf, c.Data...)
	}
	return buf
}

// String renders the serialized command as hex for logs.
func (c Command) String() string {
	return formatHexBytes(c.Serialize())
}

// BuildSelectCommand returns the SELECT-by-name command for the Pix applet:
// 00 A4 04 00 08 <AID>. Pure and idempotent.
func BuildSelectCommand() Command {
	aid := make([]byte, len(PixAID))
	copy(aid, PixAID)
	return Command{
		Cla:  0x00,
		Ins:  insSelect,
		P1:   p1SelectByName,
		P2:   p2FirstOnlyOccurence,
		Data: aid,
	}
}

// buildUpdateBinaryCommand returns an UPDATE BINARY command writing chunk at
// the given byte offset: 00 D6 <offsetHi> <offsetLo> <len> <chunk>.
func buildUpdateBinaryCommand(offset uint16, chunk []byte) Command {
	data := make([]byte, len(chunk))
	copy(data, chunk)
	return Command{
		Cla:  0x00,
		Ins:  insUpdateBinary,
		P1:   byte(offset >> 8),
		P2:   byte(offset),
		Data: data,
	}
}
