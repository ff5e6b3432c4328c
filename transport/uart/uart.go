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

// Package uart discovers HCE devices through a PN532 reader on a serial
// port and exchanges APDUs with them over ISO-DEP.
package uart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pixhce "github.com/PhRn18/pix-por-aproximacao"
	"github.com/PhRn18/pix-por-aproximacao/internal/frame"
	"go.bug.st/serial"
)

// PN532 command codes used by this adapter.
const (
	cmdSAMConfiguration    = 0x14
	cmdRFConfiguration     = 0x32
	cmdInListPassiveTarget = 0x4A
	cmdInDataExchange      = 0x40
	cmdInRelease           = 0x52
)

const (
	baudRate     = 115200
	pollInterval = 150 * time.Millisecond
	readTimeout  = 500 * time.Millisecond

	// SAK bit 6: target speaks ISO 14443-4 (ISO-DEP), which every HCE
	// device does. Plain storage tags lack it.
	sakISODEP = 0x20
)

var errNotISODEP = errors.New("target does not support ISO-DEP")

// Adapter is a PN532 serial reader acting as the discovery collaborator.
// It owns the port; transports handed to a session borrow it and release
// the remote target on close.
type Adapter struct {
	port   serial.Port
	path   string
	mu     sync.Mutex // serializes frame round-trips on the port
	closed bool
}

// New opens the serial port and wakes and configures the PN532.
func New(path string) (*Adapter, error) {
	port, err := serial.Open(path, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	a := &Adapter{port: port, path: path}
	if _, err := a.port.Write(frame.WakeUp); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("wake PN532: %w", err)
	}
	// Normal mode, 1s virtual-card timeout, IRQ unused.
	if _, err := a.command(cmdSAMConfiguration, []byte{0x01, 0x14, 0x01}); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("SAM configuration: %w", err)
	}
	// MaxRetries: single passive activation attempt per poll so
	// InListPassiveTarget returns promptly when the field is empty.
	if _, err := a.command(cmdRFConfiguration, []byte{0x05, 0xFF, 0x01, 0x01}); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("RF configuration: %w", err)
	}
	return a, nil
}

// Availability reports Available while the port is open.
func (a *Adapter) Availability() pixhce.Availability {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return pixhce.Disabled
	}
	return pixhce.Available
}

// StartListening polls for an ISO 14443 Type A target in a background
// goroutine and hands a connected transport to the callback.
func (a *Adapter) StartListening(onDeviceFound pixhce.DeviceFoundFunc, flags pixhce.ListenFlags) (pixhce.Subscription, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, errors.New("uart: adapter closed")
	}
	a.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	go a.listen(ctx, onDeviceFound, flags)
	return &subscription{cancel: cancel}, nil
}

func (a *Adapter) listen(ctx context.Context, onDeviceFound pixhce.DeviceFoundFunc, flags pixhce.ListenFlags) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		target, err := a.listPassiveTarget()
		if err != nil || target == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollInterval):
			}
			continue
		}

		if !target.isoDEP {
			if flags&pixhce.FlagSkipTagDetection != 0 {
				continue // plain tag in the field, keep waiting
			}
			onDeviceFound(nil, errNotISODEP)
			return
		}

		onDeviceFound(&targetTransport{adapter: a, target: target.number}, nil)
		return
	}
}

type passiveTarget struct {
	number byte
	isoDEP bool
}

// listPassiveTarget runs one InListPassiveTarget cycle for a single
// 106 kbps Type A target. Returns nil when nothing is in the field.
func (a *Adapter) listPassiveTarget() (*passiveTarget, error) {
	resp, err := a.command(cmdInListPassiveTarget, []byte{0x01, 0x00})
	if err != nil {
		return nil, err
	}
	// Response: NbTg [Tg SENS_RES(2) SEL_RES NFCIDLength NFCID...]
	if len(resp) < 1 || resp[0] == 0 {
		return nil, nil
	}
	if len(resp) < 6 {
		return nil, errors.New("uart: short target data")
	}
	sak := resp[4]
	return &passiveTarget{number: resp[1], isoDEP: sak&sakISODEP != 0}, nil
}

// exchangeAPDU relays one APDU to the selected target via InDataExchange.
func (a *Adapter) exchangeAPDU(target byte, apdu []byte) ([]byte, error) {
	args := make([]byte, 0, len(apdu)+1)
	args = append(args, target)
	args = append(args, apdu...)

	resp, err := a.command(cmdInDataExchange, args)
	if err != nil {
		return nil, err
	}
	if len(resp) < 1 {
		return nil, errors.New("uart: empty InDataExchange response")
	}
	if status := resp[0] & 0x3F; status != 0 {
		return nil, fmt.Errorf("uart: InDataExchange error 0x%02X", status)
	}
	return resp[1:], nil
}

// releaseTarget drops the remote target; the reader keeps running.
func (a *Adapter) releaseTarget(target byte) error {
	_, err := a.command(cmdInRelease, []byte{target})
	return err
}

// Close shuts the serial port. Transports handed out earlier become
// unusable.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	if err := a.port.Close(); err != nil {
		return fmt.Errorf("close %s: %w", a.path, err)
	}
	return nil
}

// command performs one framed request/ack/response round-trip.
func (a *Adapter) command(cmd byte, args []byte) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, errors.New("uart: adapter closed")
	}

	req, err := frame.Build(cmd, args)
	if err != nil {
		return nil, err
	}
	if _, err := a.port.Write(req); err != nil {
		return nil, fmt.Errorf("write command 0x%02X: %w", cmd, err)
	}

	ack := make([]byte, len(frame.AckFrame))
	if err := a.readFull(ack); err != nil {
		return nil, fmt.Errorf("read ack for 0x%02X: %w", cmd, err)
	}
	if !frame.IsAck(ack) {
		return nil, fmt.Errorf("no ack for command 0x%02X", cmd)
	}

	data, err := a.readFrame()
	if err != nil {
		return nil, fmt.Errorf("read response for 0x%02X: %w", cmd, err)
	}
	if len(data) < 1 || data[0] != cmd+1 {
		return nil, fmt.Errorf("unexpected response code for 0x%02X", cmd)
	}
	return data[1:], nil
}

// readFull fills buf from the port, honoring the serial read timeout.
func (a *Adapter) readFull(buf []byte) error {
	got := 0
	for got < len(buf) {
		n, err := a.port.Read(buf[got:])
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.New("uart: read timeout")
		}
		got += n
	}
	return nil
}

// readFrame accumulates bytes until a complete information frame parses.
func (a *Adapter) readFrame() ([]byte, error) {
	buf := make([]byte, 0, frame.MaxDataLength+7)
	chunk := make([]byte, 64)
	for {
		n, err := a.port.Read(chunk)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, errors.New("uart: read timeout")
		}
		buf = append(buf, chunk[:n]...)

		data, perr := frame.Parse(buf)
		if perr == nil {
			return data, nil
		}
		if !errors.Is(perr, frame.ErrTruncated) && !errors.Is(perr, frame.ErrBadStartCode) {
			return nil, perr
		}
		if len(buf) > frame.MaxDataLength+7 {
			return nil, errors.New("uart: oversized frame")
		}
	}
}

// targetTransport is the per-device handle a session owns.
type targetTransport struct {
	adapter *Adapter
	target  byte
	mu      sync.Mutex
	closed  bool
}

// Exchange relays one APDU round-trip to the device.
func (t *targetTransport) Exchange(ctx context.Context, command []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, errors.New("uart: transport closed")
	}
	return t.adapter.exchangeAPDU(t.target, command)
}

// Close releases the remote target. The serial port stays open for the
// next session.
func (t *targetTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.adapter.releaseTarget(t.target)
}

// Type identifies the link in logs.
func (*targetTransport) Type() pixhce.TransportType {
	return pixhce.TransportUART
}

type subscription struct {
	cancel context.CancelFunc
	once   sync.Once
}

func (s *subscription) Stop() {
	s.once.Do(s.cancel)
}
