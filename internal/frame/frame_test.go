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

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	// SAMConfiguration: normal mode, timeout 0x14, use IRQ.
	raw, err := Build(0x14, []byte{0x01, 0x14, 0x01})
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x00, 0x00, 0xFF, // preamble + start code
		0x05, 0xFB, // LEN + LCS
		0xD4, 0x14, 0x01, 0x14, 0x01, // TFI + data
		0x02, 0x00, // DCS + postamble
	}, raw)
}

func TestBuildNoArgs(t *testing.T) {
	t.Parallel()

	// GetFirmwareVersion carries no arguments.
	raw, err := Build(0x02, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0xFF, 0x02, 0xFE, 0xD4, 0x02, 0x2A, 0x00}, raw)
}

func TestBuildTooLong(t *testing.T) {
	t.Parallel()

	_, err := Build(0x40, make([]byte, MaxDataLength))
	require.ErrorIs(t, err, ErrTooLong)

	// Exactly at the limit still frames.
	_, err = Build(0x40, make([]byte, MaxDataLength-2))
	require.NoError(t, err)
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	// A response frame differs from a command only in the TFI byte.
	raw, err := Build(0x15, []byte{0xAA, 0xBB})
	require.NoError(t, err)
	raw[5] = Pn532ToHost
	// Fix DCS for the changed TFI (D4 -> D5 adds one).
	raw[len(raw)-2]--

	data, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x15, 0xAA, 0xBB}, data)
}

func TestParseLeadingNoise(t *testing.T) {
	t.Parallel()

	frame := []byte{0x00, 0xFF, 0x02, 0xFE, 0xD5, 0x03, 0x28, 0x00}
	noisy := append([]byte{0x80, 0x80, 0x00}, frame...)

	data, err := Parse(noisy)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03}, data)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{name: "no start code", raw: []byte{0x01, 0x02, 0x03}, want: ErrBadStartCode},
		{name: "truncated header", raw: []byte{0x00, 0xFF, 0x02}, want: ErrTruncated},
		{name: "bad length checksum", raw: []byte{0x00, 0xFF, 0x02, 0x00, 0xD5, 0x03, 0x28, 0x00}, want: ErrBadChecksum},
		{name: "truncated data", raw: []byte{0x00, 0xFF, 0x05, 0xFB, 0xD5, 0x03}, want: ErrTruncated},
		{name: "empty data field", raw: []byte{0x00, 0xFF, 0x00, 0x00, 0x00, 0x00}, want: ErrTruncated},
		{name: "bad data checksum", raw: []byte{0x00, 0xFF, 0x02, 0xFE, 0xD5, 0x03, 0xFF, 0x00}, want: ErrBadChecksum},
		{name: "host direction", raw: []byte{0x00, 0xFF, 0x02, 0xFE, 0xD4, 0x03, 0x29, 0x00}, want: ErrWrongFrame},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.raw)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestIsAck(t *testing.T) {
	t.Parallel()

	assert.True(t, IsAck(AckFrame))
	assert.True(t, IsAck(append(AckFrame, 0x00, 0xFF)))
	assert.False(t, IsAck(AckFrame[:5]))
	assert.False(t, IsAck([]byte{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00}))
}
