/*
 * xat.go, part of gochemio.
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

//Package xat reads and writes XAT files, an XML format holding residues,
//atoms, bonds, and force-field parameters.
//
//	<geometry>
//	  <residue ID="A1" name="ALA" state="STANDARD">
//	    <atom ID=" CA " layer="L" charge="0.0337" amber="CT">
//	      <xyz>1.0000,2.0000,3.0000</xyz>
//	      <bonds> N  (S),[A2] N  (S)</bonds>
//	    </atom>
//	  </residue>
//	  <parameters>...</parameters>
//	</geometry>
package xat

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	chem "github.com/rmera/gochemio"
	"gonum.org/v1/gonum/spatial/r3"
)

// Error is returned for XAT files with problems.
type Error struct {
	message  string
	filename string
	element  string //the residue or atom being read
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.element == "" {
		return fmt.Sprintf("xat file %s error: %s", err.filename, err.message)
	}
	return fmt.Sprintf("xat file %s error in %s: %s", err.filename, err.element, err.message)
}

// Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file associated to the error.
func (err Error) FileName() string { return err.filename }

// Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	WrongFormat = "Wrong format in the XAT file"
	BadBond     = "Unable to generate connection"
)

type xatTypes struct {
	Types string `xml:"types,attr,omitempty"`
	T0    string `xml:"t0,attr,omitempty"`
	T1    string `xml:"t1,attr,omitempty"`
	T2    string `xml:"t2,attr,omitempty"`
	T3    string `xml:"t3,attr,omitempty"`
}

//get returns the n types either from the types attribute ("CT-HC") or
//from t0 to t3.
func (T xatTypes) get(n int) ([]string, error) {
	if strings.TrimSpace(T.Types) != "" {
		return chem.ParseTypes(T.Types, n)
	}
	t := []string{T.T0, T.T1, T.T2, T.T3}[:n]
	for i, v := range t {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("missing type t%d", i)
		}
		t[i] = strings.TrimSpace(v)
	}
	return t, nil
}

type xatNonBonding struct {
	VdwType       string `xml:"vdwType"`
	VdwCutoff     int    `xml:"vdwCutoff"`
	VdwScales     string `xml:"vdwScaleFactor"`
	CoulombType   string `xml:"coulombType"`
	CoulombCutoff int    `xml:"coulombCutoff"`
	CoulombScales string `xml:"coulombScaleFactor"`
}

type xatAtomic struct {
	Type   string  `xml:"type,attr"`
	Depth  float64 `xml:"depth,attr"`
	Mass   float64 `xml:"mass,attr"`
	Radius float64 `xml:"radius,attr"`
}

type xatStretch struct {
	xatTypes
	Req float64 `xml:"req,attr"`
	Keq float64 `xml:"keq,attr"`
}

type xatBend struct {
	xatTypes
	Aeq float64 `xml:"aeq,attr"`
	Keq float64 `xml:"keq,attr"`
}

type xatTerm struct {
	Period  int     `xml:"period,attr"`
	Barrier float64 `xml:"barrier,attr"`
	Gamma   float64 `xml:"gamma,attr"`
}

type xatTorsion struct {
	xatTypes
	NPaths int       `xml:"nPaths,attr"`
	Terms  []xatTerm `xml:"term"`
}

type xatImproper struct {
	xatTypes
	Period  float64 `xml:"period,attr"`
	Barrier float64 `xml:"barrier,attr"`
	Gamma   float64 `xml:"gamma,attr"`
}

type xatParameters struct {
	NonBonding *xatNonBonding `xml:"nonbonding"`
	Atomic     []xatAtomic    `xml:"atomicParameters>atomicParameter"`
	Stretches  []xatStretch   `xml:"stretches>stretch"`
	Bends      []xatBend      `xml:"bends>bend"`
	Torsions   []xatTorsion   `xml:"torsions>torsion"`
	Impropers  []xatImproper  `xml:"improperTorsions>improperTorsion"`
}

type xatAtom struct {
	ID     string `xml:"ID,attr"`
	Layer  string `xml:"layer,attr,omitempty"`
	Charge string `xml:"charge,attr,omitempty"`
	Amber  string `xml:"amber,attr,omitempty"`
	XYZ    string `xml:"xyz"`
	Bonds  string `xml:"bonds,omitempty"`
}

type xatResidue struct {
	ID     string    `xml:"ID,attr"`
	Name   string    `xml:"name,attr"`
	Charge string    `xml:"charge,attr,omitempty"`
	State  string    `xml:"state,attr,omitempty"`
	Atoms  []xatAtom `xml:"atom"`
}

type xatGeometry struct {
	XMLName    xml.Name       `xml:"geometry"`
	Residues   []xatResidue   `xml:"residue"`
	Parameters *xatParameters `xml:"parameters"`
}

// Options changes the way XAT files are read.
type Options struct {
	Logger chem.Logger
}

type bond struct {
	from  chem.AtomID
	token string
	elem  string
}

type xatReader struct {
	name  string
	g     *chem.Geometry
	log   chem.Logger
	names map[chem.ResidueID]string
	bonds []bond
}

// Read reads the XAT data in r into g. If g has no identity map, one is
// built with the atoms in file order. Malformed bonds are logged and skipped.
// name is used in error messages.
func Read(ctx context.Context, r io.Reader, name string, g *chem.Geometry, opts Options) error {
	var doc xatGeometry
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return Error{message: fmt.Sprintf("%s: %s", WrongFormat, err.Error()), filename: name, deco: []string{"Read"}, critical: true}
	}
	X := &xatReader{name: name, g: g, log: chem.OrNop(opts.Logger), names: make(map[chem.ResidueID]string, len(doc.Residues))}
	//Bonds can point to residues declared later in the file, so all the
	//residue names are collected first.
	for _, r := range doc.Residues {
		id, err := chem.ParseResidueID(r.ID)
		if err != nil {
			return X.fail(err, "residue "+r.ID)
		}
		X.names[id] = r.Name
	}
	buildMap := g.AtomMap == nil || g.AtomMap.Len() == 0
	if buildMap {
		g.AtomMap = chem.NewAtomMap()
	}
	index := 0
	for _, r := range doc.Residues {
		if err := ctx.Err(); err != nil {
			return err
		}
		ids, err := X.readResidue(r)
		if err != nil {
			return err
		}
		if !buildMap {
			continue
		}
		for _, id := range ids {
			if err := g.AtomMap.Set(index, id); err != nil {
				return X.fail(err, "residue "+r.ID)
			}
			index++
		}
	}
	for _, b := range X.bonds {
		if err := X.connect(b); err != nil {
			X.log.Logf(chem.ErrorLevel, "%s", X.fail(err, b.elem))
		}
	}
	if doc.Parameters != nil {
		if err := readParameters(g.Parameters, doc.Parameters); err != nil {
			return X.fail(err, "parameters")
		}
	}
	return nil
}

// ReadFile reads the XAT file name into g. See Read.
func ReadFile(ctx context.Context, name string, g *chem.Geometry, opts Options) error {
	f, err := os.Open(name)
	if err != nil {
		return Error{message: fmt.Sprintf("%s %s: %s", chem.UnableToOpen, name, err.Error()), filename: name, deco: []string{"ReadFile"}, critical: true}
	}
	defer f.Close()
	return Read(ctx, f, name, g, opts)
}

func (X *xatReader) fail(err error, element string) error {
	return Error{message: err.Error(), filename: X.name, element: element, critical: true}
}

func (X *xatReader) readResidue(r xatResidue) ([]chem.AtomID, error) {
	id, _ := chem.ParseResidueID(r.ID)
	elem := "residue " + r.ID
	res, err := X.g.ResidueFor(id, X.names[id])
	if err != nil {
		return nil, err
	}
	if r.State != "" {
		if res.State, err = chem.ParseResidueState(r.State); err != nil {
			return nil, X.fail(err, elem)
		}
	}
	X.log.Logf(chem.Verbose, "Adding Residue (ResidueID: '%s'. Residue Name: '%s'. State: '%s')", id, res.Name, res.State)
	ids := make([]chem.AtomID, 0, len(r.Atoms))
	for _, a := range r.Atoms {
		elem := fmt.Sprintf("atom '%s' of residue %s", a.ID, r.ID)
		pdb, err := parsePDBID(a.ID, res.Name)
		if err != nil {
			return nil, X.fail(err, elem)
		}
		at, err := readAtom(a)
		if err != nil {
			return nil, X.fail(err, elem)
		}
		aid, err := X.g.AddAtom(chem.AtomID{Residue: id, PDB: pdb}, at)
		if err != nil {
			return nil, X.fail(err, elem)
		}
		ids = append(ids, aid)
		X.log.Logf(chem.Debug, "Adding Atom. PDBID: '%s', AMBER: '%s', Position: '%v', ONIOM Layer: '%s'. Partial Charge: '%g'", pdb.Name(), at.Amber, at.Position, at.Layer, at.Charge)
		if strings.TrimSpace(a.Bonds) == "" {
			continue
		}
		for _, t := range strings.Split(a.Bonds, ",") {
			X.bonds = append(X.bonds, bond{from: aid, token: t, elem: elem})
		}
	}
	return ids, nil
}

func readAtom(a xatAtom) (*chem.Atom, error) {
	xyz := strings.Split(a.XYZ, ",")
	if len(xyz) != 3 {
		return nil, fmt.Errorf("xyz should have 3 comma-separated values, got '%s'", a.XYZ)
	}
	var c [3]float64
	for i, v := range xyz {
		var err error
		if c[i], err = strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return nil, err
		}
	}
	layer := chem.Real
	if l := strings.TrimSpace(a.Layer); l != "" {
		var ok bool
		if layer, ok = chem.LayerFromChar(l[0]); !ok {
			return nil, fmt.Errorf("unknown layer '%s'", a.Layer)
		}
	}
	at := chem.NewAtom(r3.Vec{X: c[0], Y: c[1], Z: c[2]}, layer)
	if strings.TrimSpace(a.Amber) != "" {
		at.Amber = strings.TrimSpace(a.Amber)
	}
	if strings.TrimSpace(a.Charge) != "" {
		var err error
		if at.Charge, err = strconv.ParseFloat(strings.TrimSpace(a.Charge), 64); err != nil {
			return nil, err
		}
	}
	return at, nil
}

//parsePDBID reads the 4-column names written by Write. Shorter names are
//aligned the PDB way, with the element in the second column, unless the
//name is the residue name (ions).
func parsePDBID(s, residueName string) (chem.PDBID, error) {
	if len(s) != 4 {
		t := strings.TrimSpace(s)
		if len(t) > 4 || t == "" {
			return chem.PDBID{}, fmt.Errorf("wrong atom name '%s'", s)
		}
		if strings.EqualFold(t, residueName) || len(t) == 4 {
			s = fmt.Sprintf("%-4s", t)
		} else {
			s = fmt.Sprintf("%-4s", " "+t)
		}
	}
	return chem.ParsePDBID(s, residueName)
}

//parseBond reads bond tokens in the form written by Write, "[A2] CA (D)",
//or as "A2:CA:D". The residue and the bond code are optional in both cases,
//the default bond being single.
func parseBond(token string, from chem.ResidueID, names map[chem.ResidueID]string) (chem.AtomID, chem.BondType, error) {
	var code, atom string
	res := from
	if i := strings.Index(token, "("); i >= 0 {
		j := strings.Index(token[i:], ")")
		if j < 0 {
			return chem.AtomID{}, chem.NoBond, fmt.Errorf("unclosed bond type in '%s'", token)
		}
		code = strings.TrimSpace(token[i+1 : i+j])
		atom = token[:i]
		if k := strings.Index(atom, "]"); k >= 0 {
			s := strings.Index(atom, "[")
			if s < 0 || s > k {
				return chem.AtomID{}, chem.NoBond, fmt.Errorf("wrong residue in '%s'", token)
			}
			var err error
			if res, err = chem.ParseResidueID(atom[s+1 : k]); err != nil {
				return chem.AtomID{}, chem.NoBond, err
			}
			atom = atom[k+1:]
		}
	} else {
		f := strings.Split(strings.TrimSpace(token), ":")
		if len(f) > 1 {
			if _, err := chem.BondTypeFromCode(f[len(f)-1]); err == nil {
				code = f[len(f)-1]
				f = f[:len(f)-1]
			}
		}
		switch len(f) {
		case 1:
			atom = f[0]
		case 2:
			var err error
			if res, err = chem.ParseResidueID(f[0]); err != nil {
				return chem.AtomID{}, chem.NoBond, err
			}
			atom = f[1]
		default:
			return chem.AtomID{}, chem.NoBond, fmt.Errorf("wrong bond '%s'", token)
		}
	}
	bt, err := chem.BondTypeFromCode(code)
	if err != nil {
		return chem.AtomID{}, chem.NoBond, err
	}
	rname, ok := names[res]
	if !ok {
		return chem.AtomID{}, chem.NoBond, fmt.Errorf("residue %s not in file", res)
	}
	pdb, err := parsePDBID(atom, rname)
	if err != nil {
		return chem.AtomID{}, chem.NoBond, err
	}
	return chem.AtomID{Residue: res, PDB: pdb}, bt, nil
}

func (X *xatReader) connect(b bond) error {
	to, bt, err := parseBond(b.token, b.from.Residue, X.names)
	if err != nil {
		return fmt.Errorf("%s '%s': %w", BadBond, b.token, err)
	}
	if err := X.g.Connect(b.from, to, bt); err != nil {
		return err
	}
	X.log.Logf(chem.Debug, "Connecting Geometry '%s'-'%s' (%s)", b.from, to, bt)
	return nil
}

func parseScales(s string) ([4]float64, error) {
	var ret [4]float64
	f := strings.Split(s, ",")
	if len(f) != 4 {
		return ret, fmt.Errorf("4 comma-separated scale factors needed, got '%s'", s)
	}
	for i, v := range f {
		var err error
		if ret[i], err = strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return ret, err
		}
	}
	return ret, nil
}

func readParameters(p *chem.Parameters, x *xatParameters) error {
	var err error
	if nb := x.NonBonding; nb != nil {
		n := &p.NonBonding
		if n.VdwType, err = chem.ParseVdwType(nb.VdwType); err != nil {
			return err
		}
		if n.CoulombType, err = chem.ParseCoulombType(nb.CoulombType); err != nil {
			return err
		}
		n.VCutoff, n.CCutoff = nb.VdwCutoff, nb.CoulombCutoff
		if n.VScales, err = parseScales(nb.VdwScales); err != nil {
			return err
		}
		if n.CScales, err = parseScales(nb.CoulombScales); err != nil {
			return err
		}
	}
	for _, a := range x.Atomic {
		p.AddAtomicParameter(chem.AtomicParameter{Type: a.Type, Mass: a.Mass, Radius: a.Radius, WellDepth: a.Depth})
	}
	//terms without their types are ignored
	for _, s := range x.Stretches {
		t, err := s.get(2)
		if err != nil {
			continue
		}
		p.AddStretch(chem.Stretch{Types: [2]string{t[0], t[1]}, Keq: s.Keq, Req: s.Req})
	}
	for _, b := range x.Bends {
		t, err := b.get(3)
		if err != nil {
			continue
		}
		p.AddBend(chem.Bend{Types: [3]string{t[0], t[1], t[2]}, Keq: b.Keq, Aeq: b.Aeq})
	}
	for _, v := range x.Torsions {
		t, err := v.get(4)
		if err != nil {
			continue
		}
		tor := chem.Torsion{Types: [4]string{t[0], t[1], t[2], t[3]}, NPaths: v.NPaths}
		for _, term := range v.Terms {
			if err := tor.SetTerm(term.Period, term.Barrier, term.Gamma); err != nil {
				return err
			}
		}
		p.AddTorsion(tor)
	}
	for _, v := range x.Impropers {
		t, err := v.get(4)
		if err != nil {
			continue
		}
		p.AddImproper(chem.ImproperTorsion{Types: [4]string{t[0], t[1], t[2], t[3]}, Barrier: v.Barrier, Phase: v.Gamma, Periodicity: v.Period})
	}
	return nil
}
