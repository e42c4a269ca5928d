package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/Nexuapex/Akuna/asset"
	"github.com/Nexuapex/Akuna/asset/hdr"
	"github.com/Nexuapex/Akuna/asset/mesh"
	"github.com/Nexuapex/Akuna/renderer"
	"github.com/Nexuapex/Akuna/scene"
	"github.com/Nexuapex/Akuna/types"
)

// Load a triangle mesh, selecting the reader by file extension.
func readMesh(path string) (*mesh.Mesh, error) {
	switch {
	case strings.HasSuffix(path, ".obj"):
		res, err := asset.NewResource(path, nil)
		if err != nil {
			return nil, err
		}
		defer res.Close()
		return mesh.ReadWavefront(res)
	case strings.HasSuffix(path, ".gltf"), strings.HasSuffix(path, ".glb"):
		return mesh.ReadGLTF(path)
	}
	return nil, fmt.Errorf("unsupported mesh format: %s", path)
}

// Load and index an equirectangular RGBE environment map.
func readEnvironment(path string) (*scene.EnvironmentMap, error) {
	res, err := asset.NewResource(path, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	img, err := hdr.Decode(res)
	if err != nil {
		return nil, err
	}
	return scene.NewEnvironmentMap(img.Width, img.Height, img.Pixels)
}

// Render a still frame and serialize it as RGBE.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	opts := renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		NumWorkers:      ctx.Int("workers"),
		Seed:            ctx.Int64("seed"),
	}

	m, err := readMesh(ctx.Args().First())
	if err != nil {
		return err
	}

	var env *scene.EnvironmentMap
	if envPath := ctx.String("env"); envPath != "" {
		env, err = readEnvironment(envPath)
		if err != nil {
			return err
		}
	}

	sc, err := scene.Build(m, env)
	if err != nil {
		return err
	}

	camera := scene.NewCamera(types.XYZ(0, 0, 0))

	r, err := renderer.New(sc, camera, opts)
	if err != nil {
		return err
	}

	logger.Notice("rendering frame")
	frame, err := r.Render()
	if err != nil {
		return err
	}

	out := ctx.String("out")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	err = hdr.Encode(f, &hdr.Image{
		Width:  int(opts.FrameW),
		Height: int(opts.FrameH),
		Pixels: frame,
	})
	if err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", out)

	displayFrameStats(r.Stats())
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Samples", "Render time"})
	for _, stat := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", stat.ID),
			fmt.Sprintf("%d", stat.Samples),
			stat.RenderTime.Round(time.Millisecond).String(),
		})
	}
	table.SetFooter([]string{"", "TOTAL", stats.RenderTime.Round(time.Millisecond).String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
