/*
 * pdb.go, part of gochemio.
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

//Package pdb reads and writes PDB files, and reads PQR files.
package pdb

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/reader"
	"gonum.org/v1/gonum/spatial/r3"
)

// Options changes the way PDB and PQR files are read.
type Options struct {
	DefaultChain string //used for atoms with a blank chain, "A" if empty
	Logger       chem.Logger
	Cadence      *reader.Cadence
}

func (O Options) chain() string {
	if O.DefaultChain == "" {
		return "A"
	}
	return O.DefaultChain
}

//pdbReader holds the state of one reading.
type pdbReader struct {
	D       *reader.Driver
	g       *chem.Geometry
	opts    Options
	log     chem.Logger
	pqr     bool
	index   int
	missing bool         //in the REMARK 465 table
	omitted bool         //in the pdb2pqr list of omitted residues
	nonstd  map[int]bool //residue numbers pdb2pqr could not handle
}

// Read reads the first model of the PDB data in r into g, which gets a new
// identity map with the atoms in file order. ATOM records go to the real
// layer, HETATM records to the model layer. name is used in error messages.
func Read(ctx context.Context, r io.Reader, name string, g *chem.Geometry, opts Options) error {
	return read(ctx, reader.NewSource(r, "#"), name, g, opts, false)
}

// ReadFile reads the PDB file name, which can be compressed, into g.
func ReadFile(ctx context.Context, name string, g *chem.Geometry, opts Options) error {
	src, err := reader.Open(name, "#")
	if err != nil {
		return chem.ErrDecorate(err, "pdb.ReadFile")
	}
	defer src.Close()
	return read(ctx, src, name, g, opts, false)
}

// ReadPQR reads PQR data, which also contain the partial charge and the
// radius of each atom. Residues pdb2pqr reports as omitted are marked
// as non-standard.
func ReadPQR(ctx context.Context, r io.Reader, name string, g *chem.Geometry, opts Options) error {
	return read(ctx, reader.NewSource(r, "#"), name, g, opts, true)
}

// ReadPQRFile reads the PQR file name into g.
func ReadPQRFile(ctx context.Context, name string, g *chem.Geometry, opts Options) error {
	src, err := reader.Open(name, "#")
	if err != nil {
		return chem.ErrDecorate(err, "pdb.ReadPQRFile")
	}
	defer src.Close()
	return read(ctx, src, name, g, opts, true)
}

func read(ctx context.Context, src reader.Lines, name string, g *chem.Geometry, opts Options, pqr bool) error {
	P := &pdbReader{g: g, opts: opts, log: chem.OrNop(opts.Logger), pqr: pqr, nonstd: make(map[int]bool)}
	P.D = reader.NewDriver(name, reader.State{Name: "ReadRecord", Do: P.readRecord})
	P.D.Cadence = opts.Cadence
	g.AtomMap = chem.NewAtomMap()
	if err := P.D.Run(ctx, src); err != nil {
		return err
	}
	if pqr {
		for _, id := range g.ResidueIDs() {
			if P.nonstd[id.Number] {
				r, _ := g.Residue(id)
				r.State = chem.NonStandard
			}
		}
	}
	return nil
}

func (P *pdbReader) readRecord(line string) error {
	switch {
	case strings.HasPrefix(line, "ATOM"):
		return P.readAtom(line, chem.Real)
	case strings.HasPrefix(line, "HETATM"):
		return P.readAtom(line, chem.Model)
	case strings.HasPrefix(line, "ENDMDL"):
		P.D.Stop = true
	case strings.HasPrefix(line, "REMARK 465") && len(line) > 24:
		return P.readMissing(line)
	case P.pqr && strings.HasPrefix(line, "REMARK"):
		P.readOmitted(line)
	}
	return nil
}

//REMARK 465   M RES C SSSEQI
//REMARK 465     MET A     1
func (P *pdbReader) readMissing(line string) error {
	if !P.missing {
		if line[15:18] == "RES" {
			P.missing = true
			P.log.Logf(chem.Verbose, "Found Missing Residue section on line %d", P.D.LineNumber)
		}
		return nil
	}
	name, _ := P.D.Column(line, 15, 18)
	chain, _ := P.D.Column(line, 19, 20)
	number, err := P.D.ColumnInt(line, 21, 26)
	if err != nil {
		return err
	}
	id := chem.ResidueID{Chain: chain, Number: number}
	P.g.MissingResidues[id] = strings.TrimSpace(name)
	P.log.Logf(chem.Verbose, "Adding Missing Residue. ID: %s. Name: %s", id, strings.TrimSpace(name))
	return nil
}

//pdb2pqr lists the residues it could not handle between these two lines:
//REMARK   5 WARNING: PDB2PQR was unable to assign charges
//REMARK   5 to the following atoms (omitted below):
//REMARK   5    CU Cu A 1000
//REMARK   5 This is usually due to the fact that this residue is not
func (P *pdbReader) readOmitted(line string) {
	switch {
	case strings.Contains(line, "(omitted below):"):
		P.omitted = true
	case strings.Contains(line, "This is usually due"):
		P.omitted = false
	case P.omitted:
		f := strings.Fields(line)
		if n, err := strconv.Atoi(f[len(f)-1]); err == nil {
			P.nonstd[n] = true
		}
	}
}

func (P *pdbReader) readAtom(line string, layer chem.Layer) error {
	name, err := P.D.Column(line, 12, 16)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" || len(name) != 4 {
		return fmt.Errorf("no atom name")
	}
	rname, err := P.D.Column(line, 17, 20)
	if err != nil {
		return err
	}
	rname = strings.TrimSpace(rname)
	P.D.CharNum = 13
	pdbID, err := chem.ParsePDBID(name, rname)
	if err != nil {
		return err
	}
	chain, err := P.D.Column(line, 21, 22)
	if err != nil {
		return err
	}
	if chain == " " {
		chain = P.opts.chain()
	}
	number, err := P.D.ColumnInt(line, 22, 26)
	if err != nil {
		return err
	}
	var pos r3.Vec
	if pos.X, err = P.D.ColumnFloat(line, 30, 38); err != nil {
		return err
	}
	if pos.Y, err = P.D.ColumnFloat(line, 38, 46); err != nil {
		return err
	}
	if pos.Z, err = P.D.ColumnFloat(line, 46, 54); err != nil {
		return err
	}
	at := chem.NewAtom(pos, layer)
	if P.pqr {
		if at.Charge, at.Radius, err = P.pqrExtra(line); err != nil {
			return err
		}
	}
	id := chem.ResidueID{Chain: chain, Number: number}
	res, err := P.g.ResidueFor(id, rname)
	if err != nil {
		return err
	}
	if res.Len() == 0 {
		res.State = state(rname, layer)
		P.log.Logf(chem.Verbose, "Adding Residue. ID: %s. Name: %s", id, rname)
	}
	aid, err := P.g.AddAtom(chem.AtomID{Residue: id, PDB: pdbID}, at)
	if err != nil {
		return err
	}
	if err := P.g.AtomMap.Set(P.index, aid); err != nil {
		return err
	}
	P.index++
	P.log.Logf(chem.Verbose, "Adding Atom. ID: %s. Position: %v", aid, pos)
	return nil
}

//pqrExtra reads the charge and radius. pdb2pqr does not always respect
//the columns, so the two fields after the coordinates are used if the columns fail.
func (P *pdbReader) pqrExtra(line string) (float64, float64, error) {
	charge, err1 := P.D.ColumnFloat(line, 54, 62)
	radius, err2 := P.D.ColumnFloat(line, 62, 69)
	if err1 == nil && err2 == nil {
		return charge, radius, nil
	}
	P.D.CharNum = 55
	var f []reader.Field
	if len(line) > 54 {
		f = reader.Fields(line[54:])
	}
	if len(f) < 2 {
		return 0, 0, fmt.Errorf("PQR record without charge and radius")
	}
	charge, err := strconv.ParseFloat(f[0].Text, 64)
	if err != nil {
		return 0, 0, err
	}
	P.D.CharNum = 54 + f[1].Col
	radius, err = strconv.ParseFloat(f[1].Text, 64)
	return charge, radius, err
}

var waters = map[string]bool{"HOH": true, "WAT": true, "SOL": true, "TIP": true, "TP3": true}

func state(name string, layer chem.Layer) chem.ResidueState {
	switch {
	case waters[name]:
		return chem.Water
	case layer == chem.Model:
		return chem.Hetero
	}
	return chem.Standard
}
