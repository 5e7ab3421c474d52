// Command frpbench measures propagation latency across chains of the
// engine's own links: a width/depth sweep timed with tachymeter and
// rendered with go-pretty.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"time"

	"github.com/dustin/go-humanize"
	"github.com/frpnet/core/engine"
	"github.com/frpnet/core/link"
	"github.com/frpnet/core/netgraph"
	"github.com/frpnet/core/reactive"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	iterationsKey = "iterations"
)

func main() {
	cmd := &cli.Command{
		Name:  "frpbench",
		Usage: "Benchmark propagation latency across width/depth chains",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: iterationsKey, Usage: "pushes per configuration", Value: 200},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

var (
	widths = []int{1, 10, 100}
	depths = []int{1, 5, 25}
)

func run(ctx context.Context, cmd *cli.Command) error {
	iterations := int(cmd.Int(iterationsKey))

	tbl := table.NewWriter()
	tbl.SetTitle("frpnet propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"width", "depth", "iterations", "avg", "p75", "p99", "max"})

	for _, w := range widths {
		for _, d := range depths {
			tach := tachymeter.New(&tachymeter.Config{Size: iterations})
			runChain(w, d, iterations, tach)
			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					w, d, humanize.Comma(int64(iterations)),
					calc.Time.Avg, calc.Time.P75, calc.Time.P99, calc.Time.Max,
				},
			})
		}
	}

	tbl.Render()
	return nil
}

// runChain builds width independent chains of depth links each (a source
// Behavior feeding a straight-line pipe of forwarding links to a terminal
// EventStream), then times a run of iterations pushes flushed to
// quiescence individually.
func runChain(width, depth, iterations int, tach *tachymeter.Tachymeter) {
	var links []*link.Link
	sources := make([]*reactive.Behavior, width)

	for w := 0; w < width; w++ {
		src := reactive.NewBehavior(fmt.Sprintf("src-%d", w), 0)
		sources[w] = src

		var prev reactive.Reactive = src
		for depthIdx := 0; depthIdx < depth; depthIdx++ {
			next := reactive.NewEventStream(fmt.Sprintf("stage-%d-%d", w, depthIdx))
			l, err := link.New(fmt.Sprintf("pipe-%d-%d", w, depthIdx), []reactive.Reactive{prev}, []reactive.Reactive{next}, link.DefaultFn)
			if err != nil {
				log.Fatal(err)
			}
			links = append(links, l)
			prev = next
		}
	}

	net, err := netgraph.New("frpbench", links)
	if err != nil {
		log.Fatal(err)
	}
	nr := engine.New("frpbench", net, func(err error) { log.Printf("frpbench: %v", err) })
	defer nr.Close()

	for i := 0; i < iterations; i++ {
		start := time.Now()
		for _, src := range sources {
			engine.Push(nr, src, i)
		}
		engine.Flush(nr)
		tach.AddTime(time.Since(start))
	}
}
