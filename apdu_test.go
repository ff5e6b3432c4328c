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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelectCommand(t *testing.T) {
	t.Parallel()

	cmd := BuildSelectCommand()
	want, err := HexToBytes("00 A4 04 00 08 A0 00 00 09 40 BC B0 00")
	require.NoError(t, err)
	assert.Equal(t, want, cmd.Serialize())

	// Idempotent: a second call yields the same bytes.
	assert.Equal(t, cmd.Serialize(), BuildSelectCommand().Serialize())
}

func TestBuildSelectCommandIsolatedFromAID(t *testing.T) {
	t.Parallel()

	cmd := BuildSelectCommand()
	cmd.Data[0] = 0xEE
	assert.Equal(t, byte(0xA0), PixAID[0], "mutating a command must not reach the AID constant")
}

func TestCommandSerialize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cmd  Command
		want []byte
	}{
		{
			name: "headers only when data empty",
			cmd:  Command{Cla: 0x00, Ins: 0xB0, P1: 0x01, P2: 0x02},
			want: []byte{0x00, 0xB0, 0x01, 0x02},
		},
		{
			name: "length byte precedes data",
			cmd:  Command{Cla: 0x00, Ins: 0xD6, P1: 0x00, P2: 0x10, Data: []byte{0xAA, 0xBB}},
			want: []byte{0x00, 0xD6, 0x00, 0x10, 0x02, 0xAA, 0xBB},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cmd.Serialize())
		})
	}
}

func TestBuildUpdateBinaryCommand(t *testing.T) {
	t.Parallel()

	cmd := buildUpdateBinaryCommand(0x01F0, []byte{0xDE, 0xAD})
	assert.Equal(t, []byte{0x00, 0xD6, 0x01, 0xF0, 0x02, 0xDE, 0xAD}, cmd.Serialize())
}
