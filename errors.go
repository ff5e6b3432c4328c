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
	"errors"
	"fmt"
)

// The closed set of failure kinds a session can surface. Callers branch on
// these with errors.Is / errors.As; DisplayMessage maps them onto text fit
// for an end user.
var (
	// Environment errors - surfaced immediately, never retried.
	ErrNoRadioSupport = errors.New("contactless radio not supported")
	ErrRadioDisabled  = errors.New("contactless radio disabled")
	ErrAlreadyPolling = errors.New("a session is already active")

	// Discovery errors - session closes cleanly, caller may begin a new one.
	ErrTimeout            = errors.New("no device found before timeout")
	ErrIncompatibleDevice = errors.New("detected device is not usable")

	// Protocol errors - carry enough context for a caller-level retry of
	// the whole flow.
	ErrApplicationNotAccepted = errors.New("SELECT rejected by device")
	ErrWriteRejected          = errors.New("write rejected by device")
	ErrInvalidState           = errors.New("operation not valid in current session state")

	// Data errors.
	ErrMalformedHex   = errors.New("malformed hex text")
	ErrOffsetOverflow = errors.New("message exceeds 16-bit write offset range")
)

// LinkError wraps a transport-level failure during send/receive. Link
// failures always terminate the session.
type LinkError struct {
	Err error
	Op  string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link error during %s: %v", e.Op, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

// NewLinkError creates a LinkError for the given protocol step.
func NewLinkError(op string, err error) *LinkError {
	return &LinkError{Op: op, Err: err}
}

// WriteError reports the first UPDATE BINARY command the device rejected.
// Index is zero-based within the command sequence, so the caller can tell
// how much of the message landed before the failure.
type WriteError struct {
	Status []byte
	Index  int
}

func (e *WriteError) Error() string {
	if len(e.Status) >= 2 {
		return fmt.Sprintf("write %d rejected with status %s", e.Index, formatHexBytes(e.Status[len(e.Status)-2:]))
	}
	return fmt.Sprintf("write %d rejected with short response", e.Index)
}

// Unwrap ties WriteError into the ErrWriteRejected kind.
func (*WriteError) Unwrap() error {
	return ErrWriteRejected
}

// DisplayMessage returns a user-facing pt-BR message for any error produced
// by this package. The mapping is total: unknown errors fall back to a
// generic failure message.
func DisplayMessage(err error) string {
	var we *WriteError
	switch {
	case err == nil:
		return "Transferência concluída."
	case errors.Is(err, ErrNoRadioSupport):
		return "Este aparelho não possui NFC."
	case errors.Is(err, ErrRadioDisabled):
		return "O NFC está desativado. Ative-o nas configurações."
	case errors.Is(err, ErrAlreadyPolling):
		return "Já existe uma transferência em andamento."
	case errors.Is(err, ErrTimeout):
		return "Nenhum dispositivo aproximado. Tente novamente."
	case errors.Is(err, ErrIncompatibleDevice):
		return "Dispositivo aproximado não é compatível."
	case errors.Is(err, ErrApplicationNotAccepted):
		return "O dispositivo não aceitou a transferência."
	case errors.As(err, &we):
		return "A transferência foi interrompida. Tente novamente."
	case errors.Is(err, ErrInvalidState):
		return "A sessão não está pronta para transferir."
	default:
		return "Falha na comunicação por aproximação."
	}
}
