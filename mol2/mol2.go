/*
 * mol2.go, part of gochemio.
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

//Package mol2 reads the atoms of Tripos MOL2 files, as written by Antechamber.
package mol2

import (
	"context"
	"fmt"
	"io"
	"strings"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/reader"
	"gonum.org/v1/gonum/spatial/r3"
)

// Options changes the way MOL2 files are read.
type Options struct {
	Chain   string //MOL2 files have no chains. "A" if empty
	Logger  chem.Logger
	Cadence *reader.Cadence
}

type mol2Reader struct {
	D      *reader.Driver
	g      *chem.Geometry
	log    chem.Logger
	chain  string
	update bool //the geometry has an identity map to match the atoms against
	index  int
}

// Read reads the @<TRIPOS>ATOM block of the MOL2 data in r into g.
// If g already has an identity map, the atoms are matched by their order
// against it, and only their positions, amber types and charges are set.
// Atoms beyond the map are ignored. Otherwise, atoms and residues are added
// to g and the map is built.
func Read(ctx context.Context, r io.Reader, name string, g *chem.Geometry, opts Options) error {
	return read(ctx, reader.NewSource(r, "#"), name, g, opts)
}

// ReadFile reads the MOL2 file name into g. See Read.
func ReadFile(ctx context.Context, name string, g *chem.Geometry, opts Options) error {
	src, err := reader.Open(name, "#")
	if err != nil {
		return chem.ErrDecorate(err, "mol2.ReadFile")
	}
	defer src.Close()
	return read(ctx, src, name, g, opts)
}

func read(ctx context.Context, src reader.Lines, name string, g *chem.Geometry, opts Options) error {
	M := &mol2Reader{g: g, log: chem.OrNop(opts.Logger), chain: opts.Chain}
	if M.chain == "" {
		M.chain = "A"
	}
	if g.AtomMap != nil && g.AtomMap.Len() > 0 {
		M.update = true
	} else {
		g.AtomMap = chem.NewAtomMap()
	}
	M.D = reader.NewDriver(name, reader.State{Name: "FindAtoms", Do: M.findAtoms})
	M.D.Cadence = opts.Cadence
	return M.D.Run(ctx, src)
}

func (M *mol2Reader) findAtoms(line string) error {
	if strings.HasPrefix(line, "@<TRIPOS>ATOM") {
		M.D.SetState(reader.State{Name: "ReadAtom", Do: M.readAtom})
	}
	return nil
}

//pdbName turns a MOL2 atom name, which is left-aligned, into the 4-column
//PDB form, ie "N1" -> " N1 " and "HG11" -> "1HG1".
func pdbName(name string) string {
	n := fmt.Sprintf("%-4s", name)
	return n[3:4] + n[0:3]
}

//   1 N1          -1.2440    0.5560    0.0000 N3         1 ALA       0.141400
func (M *mol2Reader) readAtom(line string) error {
	if strings.HasPrefix(line, "@<TRIPOS>") {
		M.D.SetState(reader.State{Name: "FindAtoms", Do: M.findAtoms})
		return nil
	}
	fields := reader.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	index := M.index
	M.index++
	var pos r3.Vec
	var err error
	if pos.X, err = M.D.FieldFloat(fields, 2); err != nil {
		return err
	}
	if pos.Y, err = M.D.FieldFloat(fields, 3); err != nil {
		return err
	}
	if pos.Z, err = M.D.FieldFloat(fields, 4); err != nil {
		return err
	}
	amber, err := M.D.Field(fields, 5)
	if err != nil {
		return err
	}
	rnum, err := M.D.FieldInt(fields, 6)
	if err != nil {
		return err
	}
	rname, err := M.D.Field(fields, 7)
	if err != nil {
		return err
	}
	var charge float64
	if len(fields) > 8 {
		if charge, err = M.D.FieldFloat(fields, 8); err != nil {
			return err
		}
	}
	var id chem.AtomID
	if M.update {
		var ok bool
		if id, ok = M.g.AtomMap.Get(index); !ok {
			M.log.Logf(chem.Debug, "Atom %d not in the atom map, skipped", index)
			return nil
		}
	} else {
		name, err := M.D.Field(fields, 1)
		if err != nil {
			return err
		}
		if len(name) > 4 {
			return fmt.Errorf("atom name %s longer than 4 characters", name)
		}
		id.Residue = chem.ResidueID{Chain: M.chain, Number: rnum}
		if id.PDB, err = chem.ParsePDBID(pdbName(name), rname); err != nil {
			return err
		}
	}
	if amber == "DU" {
		M.log.Logf(chem.ErrorLevel, "Atom %s in Residue %s has AMBER Type %s (not recognised) - Check that this residue is capped and protonated.", id.PDB.Name(), id.Residue, amber)
	}
	if M.update {
		at, ok := M.g.Atom(id)
		if !ok {
			return fmt.Errorf("PDBID %s was not found in Residue %s of Geometry %s", id.PDB.Name(), id.Residue, M.g.Name)
		}
		at.Position = pos
		at.Amber = amber
		at.Charge = charge
		return nil
	}
	res, err := M.g.ResidueFor(id.Residue, rname)
	if err != nil {
		return err
	}
	if res.Len() == 0 {
		M.log.Logf(chem.Verbose, "Adding Residue. ID: %s. Name: %s", id.Residue, rname)
	}
	at := chem.NewAtom(pos, chem.Real)
	at.Amber = amber
	at.Charge = charge
	if id, err = M.g.AddAtom(id, at); err != nil {
		return err
	}
	if err := M.g.AtomMap.Set(index, id); err != nil {
		return err
	}
	M.log.Logf(chem.Verbose, "Adding Atom. ID: %s. Position: %v", id, pos)
	return nil
}
