// Command ayabknit is the interactive host for the knit engine: it
// loads an image, collects a job configuration, and drives a knit job
// over a serial link (or the in-memory Simulation link) to
// completion.
package main

import "github.com/Fepozopo/ayabknit/pkg/cli"

func main() {
	cli.RunCLI()
}
