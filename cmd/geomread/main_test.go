/*
 * main_test.go, part of gochemio.
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


package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chem "github.com/rmera/gochemio"
)

func waterPDB(Te *testing.T, dir string) string {
	Te.Helper()
	var b strings.Builder
	for i, a := range []struct {
		name    string
		y, z    float64
		element string
	}{{" O  ", 0, 0.117, "O"}, {" H1 ", 0.757, -0.467, "H"}, {" H2 ", -0.757, -0.467, "H"}} {
		fmt.Fprintf(&b, "%-6s%5d %4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			"HETATM", i+1, a.name, "HOH", "A", 1, 0.0, a.y, a.z, 1.0, 0.0, a.element)
	}
	path := filepath.Join(dir, "water.pdb")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		Te.Fatal(err)
	}
	return path
}

func TestRun(Te *testing.T) {
	dir := Te.TempDir()
	water := waterPDB(Te, dir)
	out := filepath.Join(dir, "copy.pdb")
	cases := []struct {
		name   string
		args   []string
		want   string //in the summary
		errStr string //in the error, "" if none is expected
	}{
		{"pdb", []string{water}, "1 residues, 3 atoms, 0 bonds", ""},
		{"write", []string{"-pdb", out, water}, "3 atoms", ""},
		{"reload", []string{"-log", "error", out}, "1 residues, 3 atoms", ""},
		{"unsupported", []string{filepath.Join(dir, "water.xyz")}, "", "File type not recognised: '.xyz'"},
		{"fields", []string{"-update", water, "-fields", "mass", water}, "", "unknown field"},
		{"spectrum", []string{"-spectrum", filepath.Join(dir, "ir.png"), water}, "", "no normal modes"},
		{"level", []string{"-log", "loud", water}, "", "loud"},
	}
	for _, c := range cases {
		var stdout, stderr bytes.Buffer
		err := run(context.Background(), c.args, &stdout, &stderr)
		if c.errStr == "" {
			if err != nil {
				Te.Errorf("%s: %v\n%s", c.name, err, stderr.String())
				continue
			}
			if !strings.Contains(stdout.String(), c.want) {
				Te.Errorf("%s: summary %q does not contain %q", c.name, stdout.String(), c.want)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), c.errStr) {
			Te.Errorf("%s: expected an error with %q, got %v", c.name, c.errStr, err)
		}
	}
}

func TestRunUsage(Te *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), nil, &stdout, &stderr); !errors.Is(err, errUsage) || !strings.Contains(stderr.String(), "Usage") {
		Te.Errorf("expected the usage, got %v\n%s", err, stderr.String())
	}
	if err := run(context.Background(), []string{"-h"}, &stdout, &stderr); !errors.Is(err, flag.ErrHelp) {
		Te.Errorf("expected flag.ErrHelp, got %v", err)
	}
	var ferr *chem.FileTypeError
	if err := run(context.Background(), []string{"water.txt"}, &stdout, &stderr); !errors.As(err, &ferr) {
		Te.Errorf("expected a file type error, got %v", err)
	}
	if stdout.Len() != 0 {
		Te.Errorf("nothing should be printed on failures, got %q", stdout.String())
	}
}
