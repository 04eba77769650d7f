// replayctl replays a raw serial capture through the frame scanner and
// signal decoders, printing each decoded sample. Useful for checking a
// capture against the wire contract without hardware attached.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/danmuck/telemctl/internal/frame"
	"github.com/danmuck/telemctl/internal/signal"
)

func main() {
	summary := flag.Bool("summary", false, "print per-signal counts instead of every sample")
	overrides := flag.String("overrides", "", "optional TOML overrides file (drive constants)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: replayctl [-summary] [-overrides file] <capture.bin>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *overrides, *summary); err != nil {
		fmt.Fprintf(os.Stderr, "replayctl: %v\n", err)
		os.Exit(1)
	}
}

func run(capturePath, overridesPath string, summary bool) error {
	drive := signal.DefaultDriveConfig()
	if overridesPath != "" {
		loaded, err := loadOverrides(overridesPath, drive)
		if err != nil {
			return err
		}
		drive = loaded
	}

	f, err := os.Open(capturePath)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()

	registry := signal.NewRegistry()
	scanner := frame.NewScanner(f)
	counts := make(map[string]int)
	unknown := 0

	for {
		fr, err := scanner.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return fmt.Errorf("scan capture: %w", err)
		}
		spec, ok := registry.Lookup(fr.DeviceID, fr.SubID)
		if !ok {
			unknown++
			if !summary {
				fmt.Printf("%8d ms  unknown device=0x%02X sub=0x%02X\n",
					fr.TimestampMS, fr.DeviceID, fr.SubID)
			}
			continue
		}
		value := spec.Decode(fr.Payload)
		counts[spec.Name]++
		if !summary {
			fmt.Printf("%8d ms  %-18s %v\n", fr.TimestampMS, spec.Name, value.Native())
		}
		if spec.Name == signal.NameRawRPM {
			rpmSpeed := signal.RPMSpeed(value.Uint16)
			counts[signal.NameRPMSpeed]++
			counts[signal.NameSpeedMPH]++
			if !summary {
				fmt.Printf("%8d ms  %-18s %d\n", fr.TimestampMS, signal.NameRPMSpeed, rpmSpeed)
				fmt.Printf("%8d ms  %-18s %.2f\n", fr.TimestampMS, signal.NameSpeedMPH, drive.MPH(rpmSpeed))
			}
		}
	}

	if summary {
		printSummary(counts, unknown, scanner)
	}
	return nil
}

func printSummary(counts map[string]int, unknown int, scanner *frame.Scanner) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-18s %d\n", name, counts[name])
	}
	if unknown > 0 {
		fmt.Printf("%-18s %d\n", "(unknown)", unknown)
	}
	fmt.Printf("%-18s %d\n", "(skipped bytes)", scanner.SkippedBytes())
}
