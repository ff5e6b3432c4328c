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

// Command pixsend pushes a Pix payment reference to a nearby HCE device.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	pixhce "github.com/PhRn18/pix-por-aproximacao"
	"github.com/PhRn18/pix-por-aproximacao/transport/pcsc"
	"github.com/PhRn18/pix-por-aproximacao/transport/uart"
	"github.com/rs/zerolog"
)

type config struct {
	reference *string
	broker    *string
	device    *string
	timeout   *time.Duration
	debug     *bool
}

func parseFlags() *config {
	cfg := &config{
		reference: flag.String("reference", "", "Pix reference code (QR payload) to push"),
		broker:    flag.String("broker", "pix.example.com", "Broker host embedded in the pix:// URI"),
		device: flag.String("device", "",
			"Serial device of a PN532 reader (e.g. /dev/ttyUSB0). Leave empty to use PC/SC."),
		timeout: flag.Duration("timeout", 30*time.Second, "How long to wait for a device (default: 30s)"),
		debug:   flag.Bool("debug", false, "Enable protocol debug output"),
	}
	flag.Parse()
	return cfg
}

// newDiscovery builds the discovery adapter for the chosen hardware.
func newDiscovery(cfg *config) (pixhce.Discovery, io.Closer, error) {
	if *cfg.device != "" {
		adapter, err := uart.New(*cfg.device)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open PN532 reader: %w", err)
		}
		return adapter, adapter, nil
	}
	adapter, err := pcsc.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open PC/SC: %w", err)
	}
	return adapter, adapter, nil
}

func newLogger(debug bool) zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func run() error {
	cfg := parseFlags()
	if *cfg.reference == "" {
		return errors.New("-reference is required")
	}

	discovery, closer, err := newDiscovery(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	client, err := pixhce.New(discovery, pixhce.WithLogger(newLogger(*cfg.debug)))
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if avail := client.CheckAvailability(); avail != pixhce.Available {
		return fmt.Errorf("contactless radio %s", avail)
	}

	_, _ = fmt.Printf("Waiting for device (timeout: %s)...\n", *cfg.timeout)

	ctx := context.Background()
	session, err := client.BeginSession(ctx, *cfg.timeout)
	if err != nil {
		return fmt.Errorf("%s (%w)", pixhce.DisplayMessage(err), err)
	}
	defer client.EndSession(session)

	_, _ = fmt.Println("Device connected, sending payment reference...")

	if err := client.SendPaymentReference(ctx, session, *cfg.reference, *cfg.broker); err != nil {
		return fmt.Errorf("%s (%w)", pixhce.DisplayMessage(err), err)
	}

	_, _ = fmt.Println("Transfer complete!")
	return nil
}

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
