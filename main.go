package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/Nexuapex/Akuna/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "akuna"
	app.Usage = "render triangle scenes using path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Load a triangle mesh (wavefront obj or glTF), optionally attach an
equirectangular RGBE environment map as the skydome light, path-trace a frame
and serialize the radiance image in the RGBE container.`,
			ArgsUsage: "scene_file.obj",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 256,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 256,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 16,
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of render workers (0 = auto)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 0,
					Usage: "root seed for the per-worker generators",
				},
				cli.StringFlag{
					Name:  "env",
					Usage: "equirectangular RGBE environment map",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "test.hdr",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:      "probe",
			Usage:     "inspect mesh and environment map files",
			ArgsUsage: "file1.obj file2.hdr ...",
			Action:    cmd.Probe,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
