/*
 * write.go, part of gochemio.
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


package gaussian

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/amber"
)

// Level returns the level of theory of the layer in the form used in the
// keyword line, ie "b3lyp/6-31g(d)" or "amber=softfirst".
func Level(spec *chem.LayerSpec) string {
	s := spec.Method
	switch {
	case spec.Basis != "":
		s += "/" + spec.Basis
		if spec.Options != "" {
			s += "/" + spec.Options
		}
	case spec.Options != "":
		s += "=" + spec.Options
	}
	return s
}

func optionList(key string, opts []string) string {
	if len(opts) == 1 {
		return key + "=" + opts[0]
	}
	return key + "=(" + strings.Join(opts, ",") + ")"
}

//generated reports whether the keyword is rebuilt by keywordLine
//from the fields of the calculation.
func generated(k string, c *chem.Calculation) bool {
	k = strings.ToLower(k)
	switch {
	case strings.HasPrefix(k, "#"), strings.HasPrefix(k, "oniom"), strings.HasPrefix(k, "guess"), strings.HasPrefix(k, "geom"):
		return true
	case c.Oniom:
		return false
	}
	for _, m := range DefaultMethods {
		if strings.HasPrefix(k, m) {
			return true
		}
	}
	return false
}

func keywordLine(c *chem.Calculation) string {
	words := []string{"#" + c.PrintLevel}
	layers := c.Layers()
	if c.Oniom {
		levels := make([]string, 0, len(layers))
		for i := len(layers) - 1; i >= 0; i-- {
			spec, _ := c.Layer(layers[i])
			levels = append(levels, Level(spec))
		}
		o := "oniom(" + strings.Join(levels, ":") + ")"
		if len(c.OniomOptions) > 0 {
			o = optionList(o, c.OniomOptions)
		}
		words = append(words, o)
	} else if spec, ok := c.Layer(chem.Model); ok {
		words = append(words, Level(spec))
	}
	for _, k := range c.Keywords {
		if !generated(k, c) {
			words = append(words, k)
		}
	}
	if len(c.Guess) > 0 {
		words = append(words, optionList("guess", c.Guess))
	}
	geom := c.GeomOptions
	if c.Connectivity && !contains(geom, "connectivity") {
		geom = append(append([]string(nil), geom...), "connectivity")
	}
	if len(geom) > 0 {
		words = append(words, optionList("geom", geom))
	}
	return strings.Join(words, " ")
}

func contains(s []string, v string) bool {
	for _, w := range s {
		if strings.EqualFold(w, v) {
			return true
		}
	}
	return false
}

//linkType is the AMBER type given to the hydrogens that cap the high layer
//at bonds to atoms of lower layers.
func linkType(el string) string {
	if el == "C" {
		return "HC"
	}
	return "H"
}

//C-CT--0.150000(PDBName=CA,ResName=ALA,ResNum=12)  0   1.0000000000   2.0000000000   3.0000000000 H
func atomLine(g *chem.Geometry, id chem.AtomID, at *chem.Atom, index map[chem.AtomID]int) string {
	res, _ := g.Residue(id.Residue)
	spec := fmt.Sprintf("%s-%s-%.6f(PDBName=%s,ResName=%s,ResNum=%d)", id.PDB.Element, at.Amber, at.Charge, id.PDB.Name(), res.Name, id.Residue.Number)
	frozen := -1
	if at.Mobile {
		frozen = 0
	}
	line := fmt.Sprintf("%-50s %2d %20.10f %20.10f %20.10f %c", spec, frozen, at.Position.X, at.Position.Y, at.Position.Z, at.Layer.Char())
	for _, n := range g.Neighbours(id) {
		other, ok := g.Atom(n)
		if ok && other.Layer > at.Layer {
			line += fmt.Sprintf(" H-%s %d", linkType(n.PDB.Element), index[n])
			break
		}
	}
	return line
}

// WriteInput writes g as a Gaussian input, using the Link0 commands,
// keywords, title and layers in g.Calc. Atoms are written in the order of
// the identity map. The connectivity is written if requested in g.Calc, and
// the force-field parameters if a layer uses AMBER.
func WriteInput(w io.Writer, g *chem.Geometry) error {
	c := g.Calc
	if c == nil {
		c = chem.NewCalculation()
	}
	out := bufio.NewWriter(w)
	if c.NProc > 0 {
		fmt.Fprintf(out, "%%nprocshared=%d\n", c.NProc)
	}
	if c.MemoryMB > 0 {
		fmt.Fprintf(out, "%%mem=%dMB\n", c.MemoryMB)
	}
	if c.Checkpoint != "" {
		fmt.Fprintf(out, "%%chk=%s\n", c.Checkpoint)
	}
	if c.OldCheckpoint != "" {
		fmt.Fprintf(out, "%%oldchk=%s\n", c.OldCheckpoint)
	}
	if c.KillJobLink > 0 {
		fmt.Fprintf(out, "%%kjob L%d %d\n", c.KillJobLink, c.KillJobN)
	}
	fmt.Fprintf(out, "%s\n\n", keywordLine(c))
	title := c.Title
	if strings.TrimSpace(title) == "" {
		title = g.Name
	}
	if strings.TrimSpace(title) == "" {
		title = "gochemio"
	}
	fmt.Fprintf(out, "%s\n\n", title)
	layers := c.Layers()
	if len(layers) == 0 {
		fmt.Fprintf(out, "%d %d\n", int(g.Charge()), 1)
	}
	pairs := make([]string, 0, len(layers))
	for _, l := range layers {
		spec, _ := c.Layer(l)
		pairs = append(pairs, fmt.Sprintf("%d %d", spec.Charge, spec.Multiplicity))
	}
	if len(pairs) > 0 {
		fmt.Fprintln(out, strings.Join(pairs, " "))
	}
	ids := g.MappedAtomIDs()
	index := make(map[chem.AtomID]int, len(ids))
	for i, id := range ids {
		index[id] = i + 1
	}
	for _, id := range ids {
		at, _ := g.Atom(id)
		fmt.Fprintln(out, atomLine(g, id, at, index))
	}
	fmt.Fprintln(out)
	if c.Connectivity || contains(c.GeomOptions, "connectivity") {
		for i, id := range ids {
			line := fmt.Sprint(i + 1)
			for _, n := range g.Neighbours(id) {
				if index[n] <= i+1 {
					continue
				}
				bt, _ := g.Bond(id, n)
				order, err := bt.Gauss()
				if err != nil {
					return err
				}
				line += fmt.Sprintf(" %d %.1f", index[n], order)
			}
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out)
	}
	for _, l := range layers {
		if spec, _ := c.Layer(l); strings.EqualFold(spec.Method, "amber") {
			for _, p := range amber.PRMLines(g.Parameters) {
				fmt.Fprintln(out, p)
			}
			fmt.Fprintln(out)
			break
		}
	}
	return out.Flush()
}

// WriteInputFile writes g to the Gaussian input file name. See WriteInput.
// If no checkpoint is set, one named after the file is used.
func WriteInputFile(name string, g *chem.Geometry) error {
	if g.Calc == nil {
		g.Calc = chem.NewCalculation()
	}
	if g.Calc.Checkpoint == "" {
		g.Calc.Checkpoint = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)) + ".chk"
	}
	f, err := os.Create(name)
	if err != nil {
		return chem.NewError(fmt.Sprintf("%s %s: %s", chem.UnableToOpen, name, err.Error()), "gaussian.WriteInputFile", true)
	}
	defer f.Close()
	return WriteInput(f, g)
}
