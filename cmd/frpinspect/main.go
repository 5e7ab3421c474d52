// Command frpinspect dumps a sample network's derived state -- link
// levels, input/output counts, readiness and deadness, reactive levels
// and completion -- as tables. This is diagnostic tabular output, not a
// graph renderer.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/frpnet/core/engine"
	"github.com/frpnet/core/link"
	"github.com/frpnet/core/netgraph"
	"github.com/frpnet/core/reactive"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const widthKey = "width"

func main() {
	cmd := &cli.Command{
		Name:  "frpinspect",
		Usage: "Dump a sample network's level and fan-out indices",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: widthKey, Usage: "fan-out width of the sample network", Value: 4},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	width := int(cmd.Int(widthKey))

	src := reactive.NewBehavior("src", 0)
	var links []*link.Link
	var outs []*reactive.EventStream
	for i := 0; i < width; i++ {
		out := reactive.NewEventStream(fmt.Sprintf("out-%d", i))
		l, err := link.New(fmt.Sprintf("fan-%d", i), []reactive.Reactive{src}, []reactive.Reactive{out}, link.DefaultFn)
		if err != nil {
			return err
		}
		links = append(links, l)
		outs = append(outs, out)
	}
	joined := reactive.NewEventStream("joined")
	joinInputs := make([]reactive.Reactive, len(outs))
	for i, o := range outs {
		joinInputs[i] = o
	}
	joinLink, err := link.New("join", joinInputs, []reactive.Reactive{joined}, link.DefaultFn)
	if err != nil {
		return err
	}
	links = append(links, joinLink)

	net, err := netgraph.New("frpinspect", links)
	if err != nil {
		return err
	}
	nr := engine.New("frpinspect", net, func(err error) { log.Printf("frpinspect: %v", err) })
	defer nr.Close()

	engine.Push(nr, src, 1)
	engine.Flush(nr)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"link", "level", "inputs", "outputs", "ready", "dead"})
	for _, l := range links {
		table.Append([]string{
			l.Label,
			humanize.Comma(int64(net.LinkLevel(l))),
			humanize.Comma(int64(len(l.Inputs))),
			humanize.Comma(int64(l.OutputCount())),
			fmt.Sprint(l.Ready()),
			fmt.Sprint(l.Dead()),
		})
	}
	table.Render()

	fmt.Println()
	rtable := tablewriter.NewWriter(os.Stdout)
	rtable.SetHeader([]string{"reactive", "level", "completed"})
	for _, r := range net.AllTrackedReactives() {
		lvl, _ := net.Level(r)
		rtable.Append([]string{r.Label(), humanize.Comma(int64(lvl)), fmt.Sprint(r.Completed())})
	}
	rtable.Render()

	return nil
}
