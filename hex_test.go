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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToHex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		expected string
		input    []byte
	}{
		{name: "empty", input: []byte{}, expected: ""},
		{name: "single byte", input: []byte{0xFF}, expected: "FF"},
		{name: "leading zero", input: []byte{0x00, 0x0F}, expected: "000F"},
		{name: "aid", input: PixAID, expected: "A000000940BCB000"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := BytesToHex(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Len(t, got, 2*len(tt.input))
		})
	}
}

func TestHexToBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{name: "empty", input: "", want: []byte{}},
		{name: "uppercase", input: "A000000940BCB000", want: PixAID},
		{name: "lowercase", input: "a000000940bcb000", want: PixAID},
		{name: "with spaces", input: "90 00", want: []byte{0x90, 0x00}},
		{name: "odd length", input: "ABC", wantErr: true},
		{name: "odd length after separators", input: "A BC DE F", wantErr: true},
		{name: "non-hex character", input: "GG", wantErr: true},
		{name: "unicode junk", input: "péssimo", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := HexToBytes(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedHex)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	t.Parallel()

	// All byte values in one sequence.
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	decoded, err := HexToBytes(BytesToHex(all))
	require.NoError(t, err)
	assert.Equal(t, all, decoded)

	// Text-side round-trip for well-formed uppercase hex.
	text := strings.ToUpper("00ff10a4d690")
	raw, err := HexToBytes(text)
	require.NoError(t, err)
	assert.Equal(t, text, BytesToHex(raw))
}
