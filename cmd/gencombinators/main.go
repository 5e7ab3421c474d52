package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/frpnet/core/cmd/gencombinators/templates"
	"github.com/urfave/cli/v3"
)

const packageKey = "pkg"

func main() {
	cmd := &cli.Command{
		Name:  "gencombinators",
		Usage: "Generate typed Map<N> combinator shims over the untyped core",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  packageKey,
				Usage: "package name for the generated file",
				Value: "combinators",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Print("gencombinators started")
	defer func() {
		log.Printf("gencombinators finished in %v", time.Since(start))
	}()

	pkg := cmd.String(packageKey)

	var out string
	out += templates.Header(pkg)
	out += templates.Map1()
	out += templates.Map2()
	out += templates.Map3()
	out += templates.Footer()

	path := pkg + "/combinators_generated.go"
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}
