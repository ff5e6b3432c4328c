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

	"github.com/hsanjuan/go-ndef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNDEFMessageShortRecord(t *testing.T) {
	t.Parallel()

	uri := "pix://broker.example?qr=123"
	msg := BuildNDEFMessage(uri)

	header := []byte{0xD1, 0x01, byte(len(uri) + 1), 0x55, 0x00}
	require.Equal(t, header, msg[:5])
	assert.Equal(t, uri, string(msg[5:]))
}

func TestBuildNDEFMessageEmptyURI(t *testing.T) {
	t.Parallel()

	msg := BuildNDEFMessage("")
	assert.Equal(t, []byte{0xD1, 0x01, 0x01, 0x55, 0x00}, msg)
}

func TestBuildNDEFMessageRecordBoundary(t *testing.T) {
	t.Parallel()

	// Payload length is URI length plus the abbreviation prefix byte.
	atLimit := strings.Repeat("a", 254) // payload 255: short form
	msg := BuildNDEFMessage(atLimit)
	assert.Equal(t, byte(0xD1), msg[0])
	assert.Equal(t, byte(0xFF), msg[2])

	overLimit := strings.Repeat("a", 255) // payload 256: long form
	msg = BuildNDEFMessage(overLimit)
	require.Equal(t, byte(0xC1), msg[0])
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x01, 0x00, 0x55, 0x00}, msg[1:8],
		"payload length widens to a fixed 4-byte big-endian field")
	assert.Equal(t, overLimit, string(msg[8:]))
}

func TestBuildNDEFMessageParsesAsStandardURIRecord(t *testing.T) {
	t.Parallel()

	uri := "pix://broker.example?qr=00020126580014br.gov.bcb.pix"
	var msg ndef.Message
	_, err := msg.Unmarshal(BuildNDEFMessage(uri))
	require.NoError(t, err)
	assert.Equal(t, uri, msg.String())
}

func TestBuildWriteCommandsChunking(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		uri  string
	}{
		{name: "empty uri", uri: ""},
		{name: "single chunk", uri: "pix://broker.example?qr=123"},
		{name: "exact chunk boundary", uri: strings.Repeat("x", MaxChunkSize-5)},
		{name: "multiple chunks short record", uri: strings.Repeat("x", 200)},
		{name: "multiple chunks long record", uri: strings.Repeat("x", 1000)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			commands, err := BuildWriteCommands(tt.uri)
			require.NoError(t, err)
			require.NotEmpty(t, commands)

			var rebuilt []byte
			nextOffset := 0
			for _, cmd := range commands {
				assert.Equal(t, byte(0x00), cmd.Cla)
				assert.Equal(t, byte(0xD6), cmd.Ins)
				assert.LessOrEqual(t, len(cmd.Data), MaxChunkSize)
				assert.NotEmpty(t, cmd.Data)

				offset := int(cmd.P1)<<8 | int(cmd.P2)
				assert.Equal(t, nextOffset, offset, "offsets must be contiguous")
				nextOffset = offset + len(cmd.Data)
				rebuilt = append(rebuilt, cmd.Data...)
			}

			assert.Equal(t, BuildNDEFMessage(tt.uri), rebuilt,
				"concatenated data fields must reproduce the serialized message")
		})
	}
}

func TestBuildWriteCommandsOffsetOverflow(t *testing.T) {
	t.Parallel()

	_, err := BuildWriteCommands(strings.Repeat("x", 70000))
	require.ErrorIs(t, err, ErrOffsetOverflow)

	// Just inside the addressable range still chunks.
	commands, err := BuildWriteCommands(strings.Repeat("x", 65000))
	require.NoError(t, err)
	last := commands[len(commands)-1]
	assert.LessOrEqual(t, int(last.P1)<<8|int(last.P2), 0xFFFF)
}

func TestBuildPixURI(t *testing.T) {
	t.Parallel()

	uri := BuildPixURI("00020126", "broker.example")
	assert.Equal(t, "pix://broker.example?qr=00020126", uri)
}
