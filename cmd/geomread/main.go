/*
 * main.go, part of gochemio.
 *
 *
 * Copyright 2024 rmeraaatacademicosdotutadotcl
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * goChem is developed at Universidad de Tarapaca (UTA)
 *
 *
 */


//geomread loads a series of files, each on top of the previous ones, into
//a single geometry, and writes the result in other formats.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/gaussian"
	"github.com/rmera/gochemio/load"
	"github.com/rmera/gochemio/pdb"
	"github.com/rmera/gochemio/spectrum"
	"github.com/rmera/gochemio/xat"
	"github.com/rmera/scu"
)

var errUsage = errors.New("at least one file to load is needed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if errors.Is(err, errUsage) {
		os.Exit(1)
	}
	scu.QErr(err)
}

//run parses args, loads the files and writes the summary to stdout. Logs and
//usage messages go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("geomread", flag.ContinueOnError)
	fs.SetOutput(stderr)
	config := fs.String("config", "", "TOML configuration file")
	level := fs.String("log", "", "Log level (verbose, debug, info, warning, error). Overrides the configuration")
	params := fs.String("params", "", "FRCMOD or PRM files with force-field parameters, separated by commas")
	update := fs.String("update", "", "File whose atoms update the loaded geometry, without adding atoms")
	fields := fs.String("fields", "position", "Fields taken from the -update file, separated by commas: position, charge, amber, layer")
	chain := fs.String("chain", "", "Chain for the atoms of the -update file")
	pdbout := fs.String("pdb", "", "Write the geometry to this PDB file")
	xatout := fs.String("xat", "", "Write the geometry to this XAT file")
	comout := fs.String("com", "", "Write a Gaussian input for the geometry to this file")
	spec := fs.String("spectrum", "", "Plot the IR spectrum of the last Gaussian output to this file (png, svg, pdf)")
	fwhm := fs.Float64("fwhm", 20, "Width of the bands in the IR spectrum, in cm-1")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "geomread: Loads files into a geometry, each on top of the previous ones.\n Usage:\n  geomread [flags] input.com [output.log [orbitals.cube ...]]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	files := fs.Args()
	if len(files) < 1 {
		fs.Usage()
		return errUsage
	}
	c := load.DefaultConfig()
	var err error
	if *config != "" {
		if c, err = load.ReadConfig(*config); err != nil {
			return err
		}
	}
	if *level != "" {
		if c.Level, err = chem.ParseLogLevel(*level); err != nil {
			return err
		}
	}
	L := load.New(c, chem.NewStdLogger(stderr, c.Level))
	g := chem.NewGeometry(files[0])
	var output *gaussian.Output
	for _, name := range files {
		res, err := L.Load(ctx, name, g)
		if err != nil {
			return err
		}
		if res.Output != nil {
			output = res.Output
		}
		if res.Grid != nil {
			min, max := res.Grid.Range()
			fmt.Fprintf(stdout, "Grid of %s: %d points between %.4g and %.4g\n", name, res.Grid.Len(), min, max)
		}
	}
	if *params != "" {
		for _, name := range strings.Split(*params, ",") {
			if err := L.ParametersFile(ctx, strings.TrimSpace(name), g.Parameters); err != nil {
				return err
			}
		}
	}
	if *update != "" {
		what, err := parseFields(*fields)
		if err != nil {
			return err
		}
		n, err := L.Update(ctx, *update, g, what, *chain)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%d atoms updated from %s\n", n, *update)
	}
	summary(stdout, g, output)
	if *pdbout != "" {
		if err := pdb.WriteFile(*pdbout, g); err != nil {
			return err
		}
	}
	if *xatout != "" {
		if err := xat.WriteFile(*xatout, g, true); err != nil {
			return err
		}
	}
	if *comout != "" {
		if err := gaussian.WriteInputFile(*comout, g); err != nil {
			return err
		}
	}
	if *spec != "" {
		if output == nil || len(output.Modes) == 0 {
			return fmt.Errorf("no normal modes to plot in the files given")
		}
		return spectrum.Plot(output.Modes, *fwhm, *spec)
	}
	return nil
}

func parseFields(s string) (load.Field, error) {
	var what load.Field
	for _, f := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "position":
			what |= load.Position
		case "charge":
			what |= load.Charge
		case "amber":
			what |= load.Amber
		case "layer":
			what |= load.Layer
		default:
			return 0, fmt.Errorf("unknown field %q", f)
		}
	}
	return what, nil
}

func summary(w io.Writer, g *chem.Geometry, out *gaussian.Output) {
	fmt.Fprintf(w, "%s: %d residues, %d atoms, %d bonds. Charge: %.4f\n", g.Name, len(g.ResidueIDs()), g.Len(), g.NBonds(), g.Charge())
	if out == nil {
		return
	}
	fmt.Fprintf(w, "Snapshots: %d Excited states: %d Normal modes: %d\n", len(out.Snapshots), len(out.ExcitedStates), len(out.Modes))
	if last := out.Last(); last != nil && !math.IsNaN(last.Energy) {
		fmt.Fprintf(w, "Last energy: %.8f Hartree. Largest force: %.6f\n", last.Energy, last.MaxForce())
	}
}
