package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Probe prints facts about mesh and RGBE input files without rendering.
func Probe(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing input file arguments")
	}

	for _, path := range ctx.Args() {
		if strings.HasSuffix(path, ".hdr") {
			if err := probeEnvironment(path); err != nil {
				return err
			}
			continue
		}
		if err := probeMesh(path); err != nil {
			return err
		}
	}
	return nil
}

func probeMesh(path string) error {
	m, err := readMesh(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Group", "Triangles", "Diffuse", "Emissive", "Roughness"})
	for i := range m.Groups {
		group := &m.Groups[i]
		table.Append([]string{
			group.Name,
			fmt.Sprintf("%d", group.TriangleCount()),
			fmt.Sprintf("%.3g %.3g %.3g", group.Material.Diffuse.R, group.Material.Diffuse.G, group.Material.Diffuse.B),
			fmt.Sprintf("%.3g %.3g %.3g", group.Material.Emissive.R, group.Material.Emissive.G, group.Material.Emissive.B),
			fmt.Sprintf("%.3g", group.Material.Roughness),
		})
	}
	table.Render()

	logger.Noticef("%s: %d vertices, %d triangles\n%s", path, len(m.Vertices), m.TriangleCount(), buf.String())
	return nil
}

func probeEnvironment(path string) error {
	env, err := readEnvironment(path)
	if err != nil {
		return err
	}

	var peak float32
	for _, pixel := range env.Pixels {
		if lum := pixel.Luminance(); lum > peak {
			peak = lum
		}
	}

	logger.Noticef("%s: %dx%d, total sampling weight %g, peak luminance %g", path, env.Width, env.Height, env.TotalWeight(), peak)
	return nil
}
