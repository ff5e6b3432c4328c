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
	"encoding/hex"
	"fmt"
	"strings"
)

// BytesToHex encodes data as uppercase hex text with no separators.
// The output is always exactly twice the input length.
func BytesToHex(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}

// HexToBytes decodes hex text back into bytes. Spaces are tolerated as
// separators; any other non-hex character, or an odd number of digits after
// separator removal, fails with ErrMalformedHex.
func HexToBytes(text string) ([]byte, error) {
	cleaned := strings.ReplaceAll(text, " ", "")
	if len(cleaned)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrMalformedHex, len(cleaned))
	}
	decoded, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedHex, err)
	}
	return decoded, nil
}

// formatHexBytes formats a byte slice as space-separated hex values for
// trace logging, truncating long payloads.
func formatHexBytes(data []byte) string {
	if len(data) == 0 {
		return "(empty)"
	}
	const limit = 32
	shown := data
	suffix := ""
	if len(data) > limit {
		shown = data[:limit]
		suffix = fmt.Sprintf(" ... (%d bytes total)", len(data))
	}
	parts := make([]string, len(shown))
	for i, b := range shown {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ") + suffix
}
