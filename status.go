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

// swOK is the ISO 7816 "normal processing completed" status word.
const swOK uint16 = 0x9000

// StatusWord extracts the trailing two-byte status word from an APDU
// response. Returns 0 when the response is shorter than two bytes.
func StatusWord(response []byte) uint16 {
	if len(response) < 2 {
		return 0
	}
	return uint16(response[len(response)-2])<<8 | uint16(response[len(response)-1])
}

// IsSuccess reports whether an APDU response ends in 90 00. It gates
// success/failure only; specific failure status words are not interpreted.
func IsSuccess(response []byte) bool {
	return len(response) >= 2 && StatusWord(response) == swOK
}
