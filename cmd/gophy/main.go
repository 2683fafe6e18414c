// Command gophy is the command-line entry point for the software-defined
// PHY toolkit: BLE and IEEE 802.15.4 DSSS demodulation, successive
// interference cancellation, and the Monte-Carlo SIC simulator.
package main

import (
	"fmt"
	"os"

	"github.com/sdrphy/gophy/internal/rxlog"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "receive-ble":
		err = runReceiveBLE(os.Args[2:])
	case "receive-802154":
		err = runReceive802154(os.Args[2:])
	case "sic":
		err = runSIC(os.Args[2:])
	case "simulate-sic":
		err = runSimulateSIC(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "gophy: unknown subcommand %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		rxlog.Error("gophy: command failed", "err", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `gophy is a software-defined PHY toolkit for BLE and IEEE 802.15.4 DSSS.

Usage:

	gophy <command> [flags]

Commands:

	receive-ble       demodulate a BLE GFSK IQ recording
	receive-802154    demodulate an IEEE 802.15.4 O-QPSK/DSSS IQ recording
	sic               run successive interference cancellation on a composite recording
	simulate-sic      run the Monte-Carlo SIC packet-delivery-rate sweep

Run "gophy <command> -h" for the flags a command accepts.
`)
}
