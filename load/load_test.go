/*
 * load_test.go, part of gochemio.
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


package load

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	chem "github.com/rmera/gochemio"
)

const waterInput = `#p b3lyp/6-31g(d) opt

water

0 1
O-OW--0.834(PDBName=O,ResName=HOH,ResNum=1) 0 0.000 0.000 0.117
H-HW-0.417(PDBName=H1,ResName=HOH,ResNum=1) 0 0.000 0.757 -0.467
H-HW-0.417(PDBName=H2,ResName=HOH,ResNum=1) 0 0.000 -0.757 -0.467

`

const waterLog = ` #p b3lyp/6-31g(d) opt
 ----------------------------------------------------------------------
 Charge =  0 Multiplicity = 1
 O-OW--0.834(PDBName=O,ResName=HOH,ResNum=1)  0  0.000  0.000  0.117
 H-HW-0.417(PDBName=H1,ResName=HOH,ResNum=1)  0  0.000  0.757 -0.467
 H-HW-0.417(PDBName=H2,ResName=HOH,ResNum=1)  0  0.000 -0.757 -0.467

                         Standard orientation:
 ---------------------------------------------------------------------
 Center     Atomic      Atomic             Coordinates (Angstroms)
 Number     Number       Type             X           Y           Z
 ---------------------------------------------------------------------
      1          8           0        0.000000    0.000000    0.130000
      2          1           0        0.000000    0.760000   -0.470000
      3          1           0        0.000000   -0.760000   -0.470000
 ---------------------------------------------------------------------
 SCF Done:  E(RB3LYP) =  -76.4089533     A.U. after   10 cycles
`

func waterPDB() string {
	var b strings.Builder
	for i, a := range []struct {
		name    string
		y, z    float64
		element string
	}{{" O  ", 0, 0.2, "O"}, {" H1 ", 0.757, -0.467, "H"}, {" H2 ", -0.757, -0.467, "H"}} {
		fmt.Fprintf(&b, "%-6s%5d %4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			"HETATM", i+1, a.name, "HOH", "A", 1, 0.0, a.y, a.z, 1.0, 0.0, a.element)
	}
	return b.String()
}

func write(Te *testing.T, dir, name, content string) string {
	Te.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		Te.Fatal(err)
	}
	return path
}

func writeGz(Te *testing.T, dir, name, content string) string {
	Te.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	w.Write([]byte(content))
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
	return write(Te, dir, name, buf.String())
}

func TestLoad(Te *testing.T) {
	dir := Te.TempDir()
	var logs bytes.Buffer
	L := New(DefaultConfig(), chem.NewStdLogger(&logs, chem.Info))
	g := chem.NewGeometry("water")
	if _, err := L.Load(context.Background(), write(Te, dir, "water.com", waterInput), g); err != nil {
		Te.Fatal(err)
	}
	res, err := L.Load(context.Background(), writeGz(Te, dir, "water.log.gz", waterLog), g)
	if err != nil {
		Te.Fatal(err)
	}
	if res.Output == nil || len(res.Output.Snapshots) != 1 {
		Te.Fatalf("wrong output %+v", res.Output)
	}
	o, _ := g.AtomMap.Get(0)
	if at, _ := g.Atom(o); at.Position.Z != 0.13 {
		Te.Errorf("the log was not applied: %v", at)
	}
	if strings.Count(logs.String(), "Geometry loaded from") != 2 {
		Te.Errorf("loads not logged:\n%s", logs.String())
	}
}

func TestLoadErrors(Te *testing.T) {
	dir := Te.TempDir()
	var logs bytes.Buffer
	L := New(DefaultConfig(), chem.NewStdLogger(&logs, chem.Info))
	g := chem.NewGeometry("none")
	_, err := L.Load(context.Background(), write(Te, dir, "water.xyz", "3\n\n"), g)
	var ferr *chem.FileTypeError
	if !errors.As(err, &ferr) || ferr.Ext != ".xyz" || g.Len() != 0 {
		Te.Errorf("expected a file type error, got %v", err)
	}
	if Supported("a.xyz") || !Supported("a.PDB") || !Supported("a.cube.zst") {
		Te.Error("wrong supported extensions")
	}
	_, err = L.Load(context.Background(), filepath.Join(dir, "missing.pdb"), chem.NewGeometry("missing"))
	if err == nil || !strings.Contains(logs.String(), "Failed to load") {
		Te.Errorf("a missing file should be an error and be logged, got %v", err)
	}
}

func TestYield(Te *testing.T) {
	dir := Te.TempDir()
	path := write(Te, dir, "water.com", waterInput)
	c := DefaultConfig()
	c.Every = 2
	L := New(c, nil)
	var calls int
	L.Yield = func(int) error {
		calls++
		return nil
	}
	if _, err := L.Load(context.Background(), path, chem.NewGeometry("water")); err != nil {
		Te.Fatal(err)
	}
	if calls < 3 {
		Te.Errorf("yield called %d times", calls)
	}
	stop := errors.New("stop")
	L.Yield = func(int) error { return stop }
	if _, err := L.Load(context.Background(), path, chem.NewGeometry("water")); !errors.Is(err, stop) {
		Te.Errorf("the yield error should stop the load, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := L.Load(ctx, path, chem.NewGeometry("water")); !errors.Is(err, context.Canceled) {
		Te.Errorf("a cancelled context should stop the load, got %v", err)
	}
}

func TestUpdate(Te *testing.T) {
	dir := Te.TempDir()
	L := New(DefaultConfig(), nil)
	g := chem.NewGeometry("water")
	if _, err := L.Load(context.Background(), write(Te, dir, "water.com", waterInput), g); err != nil {
		Te.Fatal(err)
	}
	pdb := writeGz(Te, dir, "water.pdb.gz", waterPDB())
	n, err := L.Update(context.Background(), pdb, g, Position, "")
	if err != nil || n != 3 {
		Te.Fatalf("updated %d atoms: %v", n, err)
	}
	o, _ := g.AtomMap.Get(0)
	at, _ := g.Atom(o)
	if at.Position.Z != 0.2 || at.Amber != "OW" || at.Charge != -0.834 {
		Te.Errorf("only the position should change: %v", at)
	}
	if n, err := L.Update(context.Background(), pdb, g, Position, "B"); err != nil || n != 0 {
		Te.Errorf("no atom should be in chain B: %d %v", n, err)
	}
}

func TestParametersFile(Te *testing.T) {
	dir := Te.TempDir()
	L := New(DefaultConfig(), nil)
	p := chem.NewParameters()
	if err := L.ParametersFile(context.Background(), write(Te, dir, "ff.prm", "HrmStr1 CT N 300.0 1.45\n"), p); err != nil {
		Te.Fatal(err)
	}
	if len(p.Stretches) != 1 || p.Stretches[0].Req != 1.45 {
		Te.Errorf("wrong stretches %+v", p.Stretches)
	}
	var ferr *chem.FileTypeError
	if err := L.ParametersFile(context.Background(), "ff.txt", p); !errors.As(err, &ferr) {
		Te.Errorf("expected a file type error, got %v", err)
	}
}

func TestConfig(Te *testing.T) {
	d := DefaultConfig()
	if d.Every != 1000 || d.Level != chem.Info || d.DefaultChain != "A" || d.Chain != "A" {
		Te.Errorf("wrong defaults %+v", d)
	}
	c, err := DecodeConfig(strings.NewReader("[yield]\nevery = 10\ninterval_ms = 5\n[pdb]\ndefault_chain = \"B\"\n[gaussian]\nmethods = [\"B3LYP\"]\n[log]\nlevel = \"debug\"\n"))
	if err != nil {
		Te.Fatal(err)
	}
	if c.Every != 10 || c.Interval != 5*time.Millisecond || c.DefaultChain != "B" || c.Chain != "A" || c.Level != chem.Debug || c.Methods[0] != "b3lyp" {
		Te.Errorf("wrong configuration %+v", c)
	}
	if _, err := DecodeConfig(strings.NewReader("[yield]\nevry = 3\n")); err == nil || !strings.Contains(err.Error(), "yield.evry") {
		Te.Errorf("unknown keys should be an error, got %v", err)
	}
	for _, bad := range []string{"[log]\nlevel = \"loud\"\n", "[yield]\nevery = -1\n", "[yield\n"} {
		if _, err := DecodeConfig(strings.NewReader(bad)); err == nil {
			Te.Errorf("no error for %q", bad)
		}
	}
	path := write(Te, Te.TempDir(), "conf.toml", "[pdb]\ndefault_chain = \"C\"\n")
	if c, err := ReadConfig(path); err != nil || c.DefaultChain != "C" {
		Te.Errorf("wrong configuration file: %+v %v", c, err)
	}
	if _, err := ReadConfig(path + ".missing"); err == nil {
		Te.Error("a missing file should be an error")
	}
}
