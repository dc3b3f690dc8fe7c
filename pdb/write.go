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

package pdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	chem "github.com/rmera/gochemio"
)

// Write writes g in PDB format to w. Atoms in the real layer are written as
// ATOM records, the rest as HETATM.
func Write(w io.Writer, g *chem.Geometry) error {
	out := bufio.NewWriter(w)
	if g.Name != "" {
		fmt.Fprintf(out, "REMARK    GENERATED BY GOCHEMIO FROM %s\n", strings.ToUpper(g.Name))
	}
	for i, id := range g.MappedAtomIDs() {
		at, ok := g.Atom(id)
		if !ok {
			continue
		}
		res, _ := g.Residue(id.Residue)
		record := "ATOM"
		if at.Layer != chem.Real {
			record = "HETATM"
		}
		chain := " "
		if id.Residue.Chain != "" {
			chain = id.Residue.Chain[:1]
		}
		_, err := fmt.Fprintf(out, "%-6s%5d %4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			record, (i+1)%100000, id.PDB.String(), res.Name, chain, id.Residue.Number,
			at.Position.X, at.Position.Y, at.Position.Z, 1.0, 0.0, strings.ToUpper(id.PDB.Element))
		if err != nil {
			return err
		}
	}
	fmt.Fprintln(out, "END")
	return out.Flush()
}

// WriteFile writes g to the PDB file name.
func WriteFile(name string, g *chem.Geometry) error {
	f, err := os.Create(name)
	if err != nil {
		return chem.NewError(fmt.Sprintf("%s %s: %s", chem.UnableToOpen, name, err.Error()), "pdb.WriteFile", true)
	}
	defer f.Close()
	return Write(f, g)
}
