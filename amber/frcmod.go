/*
 * frcmod.go, part of gochemio.
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

package amber

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/reader"
)

//frcmod holds the state of one FRCMOD reading.
type frcmod struct {
	D       *reader.Driver
	p       *chem.Parameters
	log     chem.Logger
	pending *chem.Torsion //a torsion whose last line had a negative periodicity
	states  map[string]reader.State
	header  reader.State
}

// ReadFRCMOD reads the AMBER FRCMOD parameters in r into p. Malformed records are
// logged and skipped. Records with a penalty score, or marked with ATTN, are
// added, with a warning.
func ReadFRCMOD(ctx context.Context, r io.Reader, p *chem.Parameters, log chem.Logger) error {
	return readFRCMOD(ctx, reader.NewSource(r, ""), "FRCMOD", p, log)
}

// ReadFRCMODFile reads the FRCMOD file name, which can be compressed.
func ReadFRCMODFile(ctx context.Context, name string, p *chem.Parameters, log chem.Logger) error {
	src, err := reader.Open(name, "")
	if err != nil {
		return chem.ErrDecorate(err, "ReadFRCMODFile")
	}
	defer src.Close()
	return readFRCMOD(ctx, src, name, p, log)
}

func readFRCMOD(ctx context.Context, src reader.Lines, name string, p *chem.Parameters, log chem.Logger) error {
	F := &frcmod{p: p, log: chem.OrNop(log)}
	F.header = reader.State{Name: "ReadHeader", Do: F.readHeader}
	F.states = map[string]reader.State{
		"MASS":     {Name: "ReadMass", Do: F.record(F.readMass)},
		"BOND":     {Name: "ReadBond", Do: F.record(F.readBond)},
		"ANGLE":    {Name: "ReadAngle", Do: F.record(F.readAngle)},
		"DIHE":     {Name: "ReadDihedral", Do: F.record(F.readDihedral)},
		"IMPROPER": {Name: "ReadImproper", Do: F.record(F.readImproper)},
		"NONBON":   {Name: "ReadNonBon", Do: F.record(F.readNonBon)},
	}
	F.D = reader.NewDriver(name, F.header)
	err := F.D.Run(ctx, src)
	F.flush()
	return err
}

func (F *frcmod) readHeader(line string) error {
	if st, ok := F.states[strings.TrimSpace(line)]; ok {
		F.D.SetState(st)
	}
	return nil
}

//record wraps a section reader. A blank line goes back to waiting for a header,
//a failed record is logged and skipped.
func (F *frcmod) record(read func(line string, penalty float64) error) func(string) error {
	return func(line string) error {
		line = strings.TrimSpace(line)
		if line == "" {
			F.flush()
			F.D.SetState(F.header)
			return nil
		}
		if err := read(line, penalty(line)); err != nil {
			F.log.Logf(chem.ErrorLevel, "Skipping malformed FRCMOD record: %s", chem.Lazy(func() string { return F.D.Fail(err).Error() }))
		}
		return nil
	}
}

//penalty returns the number after the last '=' in the line, or 0.
func penalty(line string) float64 {
	i := strings.LastIndex(line, "=")
	if i < 0 {
		return 0
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(line[i+1:]), 64)
	if err != nil {
		return 0
	}
	return p
}

func (F *frcmod) warn(line string, penalty float64, kind, types string) {
	if penalty > 0 || strings.Contains(line, "ATTN") {
		F.log.Logf(chem.Warning, "Adding %s with penalty=%g (%s, line %d)", kind, penalty, types, F.D.LineNumber)
	}
}

//fixed-width type fields start at columns 0, 3, 6 and 9.
func (F *frcmod) types(line string, dst []string) error {
	for i := range dst {
		t, err := F.D.Column(line, 3*i, 3*i+2)
		if err != nil {
			return err
		}
		dst[i] = strings.TrimSpace(t)
		if dst[i] == "" {
			return fmt.Errorf("empty atom type")
		}
	}
	return nil
}

//MASS
//N  14.010        0.530               same as n
func (F *frcmod) readMass(line string, penalty float64) error {
	var t [1]string
	if err := F.types(line, t[:]); err != nil {
		return err
	}
	mass, err := F.D.ColumnFloat(line, 3, 10)
	if err != nil {
		return err
	}
	F.warn(line, penalty, "Mass", t[0])
	F.p.SetMass(t[0], mass, penalty)
	return nil
}

//NONBON
//  N           1.8240  0.1700             same as n
//The type is indented, so the record is read by fields.
func (F *frcmod) readNonBon(line string, penalty float64) error {
	f := reader.Fields(line)
	t, err := F.D.Field(f, 0)
	if err != nil {
		return err
	}
	radius, err := F.D.FieldFloat(f, 1)
	if err != nil {
		return err
	}
	depth, err := F.D.FieldFloat(f, 2)
	if err != nil {
		return err
	}
	F.warn(line, penalty, "VdW", t)
	F.p.SetVdw(t, radius, depth, penalty)
	return nil
}

//BOND
//CT-N   330.60   1.460       same as c3- n, penalty score=  0.0
func (F *frcmod) readBond(line string, penalty float64) error {
	var s chem.Stretch
	if err := F.types(line, s.Types[:]); err != nil {
		return err
	}
	var err error
	if s.Keq, err = F.D.ColumnFloat(line, 6, 13); err != nil {
		return err
	}
	if s.Req, err = F.D.ColumnFloat(line, 15, 21); err != nil {
		return err
	}
	s.Penalty = penalty
	F.warn(line, penalty, "Stretch", s.TypesString())
	F.p.AddStretch(s)
	return nil
}

//ANGLE
//CK-CT-N    66.840     111.710   same as cc-c3-n , penalty score=  0.0
func (F *frcmod) readAngle(line string, penalty float64) error {
	var b chem.Bend
	if err := F.types(line, b.Types[:]); err != nil {
		return err
	}
	var err error
	if b.Keq, err = F.D.ColumnFloat(line, 10, 17); err != nil {
		return err
	}
	if b.Aeq, err = F.D.ColumnFloat(line, 22, 29); err != nil {
		return err
	}
	b.Penalty = penalty
	F.warn(line, penalty, "Bend", b.TypesString())
	F.p.AddBend(b)
	return nil
}

//DIHE
//CT-CT-OH-HO   1    0.160         0.000          -3.000      same as ho-oh-c3-c3
//CT-CT-OH-HO   1    0.250         0.000           1.000      same as ho-oh-c3-c3, penalty score=  0.0
//A negative periodicity means the next line has another term of the same torsion.
func (F *frcmod) readDihedral(line string, penalty float64) error {
	var t [4]string
	if err := F.types(line, t[:]); err != nil {
		return err
	}
	if F.pending != nil && !chem.TypesMatch(t[:], F.pending.Types[:]) {
		F.log.Logf(chem.ErrorLevel, "FRCMOD file badly formatted - terms should be grouped together. Expecting (%s), got (%s) on line %d.",
			F.pending.TypesString(), strings.Join(t[:], "-"), F.D.LineNumber)
		F.flush()
	}
	tor := F.pending
	if tor == nil {
		tor = &chem.Torsion{Types: t}
		npaths, err := F.D.ColumnInt(line, 14, 15)
		if err != nil {
			return err
		}
		tor.NPaths = npaths
	}
	barrier, err := F.D.ColumnFloat(line, 17, 24)
	if err != nil {
		return err
	}
	phase, err := F.D.ColumnFloat(line, 31, 38)
	if err != nil {
		return err
	}
	periodicity, err := F.D.ColumnFloat(line, 47, 54)
	if err != nil {
		return err
	}
	if err := tor.SetTerm(int(math.Round(math.Abs(periodicity))), barrier, phase); err != nil {
		F.pending = nil
		return err
	}
	if penalty > tor.Penalty {
		tor.Penalty = penalty
	}
	F.warn(line, penalty, "Torsion", tor.TypesString())
	F.pending = tor
	if periodicity >= 0 {
		F.flush()
	}
	return nil
}

//flush adds the pending torsion, if any, to the parameters.
func (F *frcmod) flush() {
	if F.pending == nil {
		return
	}
	F.p.AddTorsion(*F.pending)
	F.pending = nil
}

//IMPROPER
//CC-N*-C -O          1.1          180.0         2.0          Using the default value
func (F *frcmod) readImproper(line string, penalty float64) error {
	var t chem.ImproperTorsion
	if err := F.types(line, t.Types[:]); err != nil {
		return err
	}
	var err error
	if t.Barrier, err = F.D.ColumnFloat(line, 17, 24); err != nil {
		return err
	}
	if t.Phase, err = F.D.ColumnFloat(line, 31, 38); err != nil {
		return err
	}
	period, err := F.D.ColumnFloat(line, 45, 52)
	if err != nil {
		return err
	}
	t.Periodicity = math.Round(period)
	t.Penalty = penalty
	F.warn(line, penalty, "Improper Torsion", t.TypesString())
	F.p.AddImproper(t)
	return nil
}
