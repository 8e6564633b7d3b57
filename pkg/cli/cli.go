// Package cli is the interactive host loop: pick an image, collect a
// job Config, run the knit job to completion while printing
// ProgressSink events, same REPL shape the teacher used for its
// image-editing menu, repurposed to drive one KnitFSM job per image.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Fepozopo/ayabknit/pkg/ayab"
	"github.com/Fepozopo/ayabknit/pkg/fsm"
	"github.com/Fepozopo/ayabknit/pkg/geometry"
	"github.com/Fepozopo/ayabknit/pkg/knitmode"
	"github.com/Fepozopo/ayabknit/pkg/pattern"
	"github.com/Fepozopo/ayabknit/pkg/progress"
	"github.com/Fepozopo/ayabknit/pkg/rasterimg"
	"github.com/Fepozopo/ayabknit/pkg/serialport"
)

func usage() {
	fmt.Println("Commands available:")
	fmt.Println("  k  - knit: pick an image and configure a job")
	fmt.Println("  u  - check for updates")
	fmt.Println("  h  - show this help message")
	fmt.Println("  q  - quit")
}

// RunCLI is the program entry point.
func RunCLI() {
	_ = LoadDotEnv(".env")

	var inputImagePath string
	if len(os.Args) >= 2 {
		inputImagePath = os.Args[1]
	}

	fmt.Println("AYAB knit engine")
	usage()

	if inputImagePath != "" {
		runKnitJob(inputImagePath)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		r, _, err := reader.ReadRune()
		if err != nil {
			fmt.Fprintf(os.Stderr, "read input error: %v\n", err)
			continue
		}
		reader.ReadString('\n') // discard rest of the line

		switch r {
		case 'k':
			path, perr := PromptLineOrFzf("Image path [enter, or '/' for fzf]: ")
			if perr != nil || path == "" {
				fmt.Println("cancelled")
				continue
			}
			runKnitJob(path)

		case 'u':
			if err := CheckForUpdates(); err != nil {
				fmt.Fprintf(os.Stderr, "update check error: %v\n", err)
			}

		case 'h':
			usage()

		case 'q':
			fmt.Println("Exiting...")
			return

		default:
			// ignore other keys
		}
	}
}

// runKnitJob walks the full path from an image file to a completed
// (or failed) knit job: load, collect config, build the engine's
// pure components, open a serial link, and drive the FSM to
// completion while draining its ProgressSink.
func runKnitJob(path string) {
	img, err := LoadImage(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read image %s: %v\n", path, err)
		return
	}

	machine := ayab.DefaultMachine
	cfg, err := collectConfig(machine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return
	}

	mode, ok := knitmode.ByName(cfg.Mode)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown mode %s\n", cfg.Mode)
		return
	}

	src, err := rasterimg.NewMagickImage(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to prepare image: %v\n", err)
		return
	}
	defer src.Close()

	pb, err := pattern.Build(src, cfg.NumColors)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build pattern: %v\n", err)
		return
	}
	if pb.Warning != "" {
		fmt.Println("warning:", pb.Warning)
	}

	geo := geometry.Compute(machine, cfg.Alignment, cfg.KnitStartNeedle, cfg.KnitStopNeedle, pb.Width)

	link, err := serialport.Open(cfg.Port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open port %s: %v\n", cfg.Port, err)
		return
	}
	defer link.Close()

	sink := progress.NewBoundedSink()
	machineFSM := fsm.New(machine, cfg, mode, pb, geo, link, sink)

	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { done <- machineFSM.Run(ctx) }()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			for _, ev := range sink.Drain() {
				printEvent(ev)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "knit job ended: %v\n", err)
			}
			return
		case <-ticker.C:
			for _, ev := range sink.Drain() {
				printEvent(ev)
			}
		}
	}
}

func printEvent(ev progress.Event) {
	switch {
	case ev.Progress != nil:
		p := ev.Progress
		if p.TotalRows > 0 {
			fmt.Printf("\rrow %d/%d color %d", p.ImgRow+1, p.TotalRows, p.Color)
		} else {
			fmt.Printf("\rrow %d color %d", p.ImgRow+1, p.Color)
		}
	case ev.Color != nil:
		fmt.Printf("\ncolor %c -> %d\n", ev.Color.Letter, ev.Color.Color)
	case ev.Status != nil:
		fmt.Printf("\n%s\n", *ev.Status)
	case ev.Notice != nil:
		fmt.Printf("\nnotice: %s\n", *ev.Notice)
	case ev.Sound != nil:
		// The original host plays an audible cue here; this text
		// terminal just names it.
		fmt.Printf("\n[sound %d]\n", *ev.Sound)
	case ev.Done != nil:
		if ev.Done.Ok {
			fmt.Printf("\nfinished: %s\n", ev.Done.Reason)
		} else {
			fmt.Printf("\nfailed: %s\n", ev.Done.Reason)
		}
	}
}

// collectConfig prompts for every field in ayab.ConfigSpec and builds
// a validated Config. A required field left empty is asked again;
// parse and range checks run only in ayab.NewConfig once every field
// is in, and a failure there is returned, ending this job's setup.
func collectConfig(m ayab.Machine) (ayab.Config, error) {
	raw := make(map[string]string, len(ayab.ConfigSpec))
	for _, f := range ayab.ConfigSpec {
		for {
			var val string
			var err error
			if f.Key == "port" {
				val, err = promptPort()
			} else {
				prompt := fmt.Sprintf("%s (%s): ", f.Key, f.Description)
				val, err = PromptLine(prompt)
			}
			if err != nil {
				return ayab.Config{}, err
			}
			val = strings.TrimSpace(val)
			if val == "" && f.Required {
				fmt.Println("a value is required")
				continue
			}
			raw[f.Key] = val
			break
		}
	}
	return ayab.NewConfig(raw, m)
}

func promptPort() (string, error) {
	val, err := PromptLine("port (serial device, \"Simulation\", or '/' for fzf): ")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(val) == "/" {
		sel, selErr := SelectPortWithFzf()
		if selErr == nil && sel != "" {
			return sel, nil
		}
		return PromptLine("port: ")
	}
	return val, nil
}
