/*
 * prm.go, part of gochemio.
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

//Package amber reads and writes AMBER force-field parameters, in the FRCMOD
//format and in the PRM format Gaussian uses in its input files.
package amber

import (
	"context"
	"io"
	"strings"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/reader"
)

// ParsePRMLine reads one PRM record (NonBon, VDW, HrmStr1, HrmBnd1, AmbTrs or ImpTrs)
// into p. Lines with other keywords, and empty lines, are ignored.
// D is used to track the column of a failure, and can be nil.
func ParsePRMLine(D *reader.Driver, line string, p *chem.Parameters) error {
	if D == nil {
		D = reader.NewDriver("", reader.State{Name: "PRM"})
	}
	f := reader.Fields(line)
	if len(f) == 0 {
		return nil
	}
	key := strings.ToUpper(f[0].Text)
	switch {
	case key == "NONBON":
		return prmNonBon(D, f, p)
	case strings.HasPrefix(key, "VDW"):
		return prmVdw(D, f, p)
	case strings.HasPrefix(key, "HRMSTR"):
		return prmStretch(D, f, p)
	case strings.HasPrefix(key, "HRMBND"):
		return prmBend(D, f, p)
	case strings.HasPrefix(key, "AMBTRS"):
		return prmTorsion(D, f, p)
	case strings.HasPrefix(key, "IMPTRS"):
		return prmImproper(D, f, p)
	}
	return nil
}

//floats reads the fields from start to start+len(dst)-1 into dst.
func floats(D *reader.Driver, f []reader.Field, start int, dst []float64) error {
	var err error
	for i := range dst {
		dst[i], err = D.FieldFloat(f, start+i)
		if err != nil {
			return err
		}
	}
	return nil
}

func types(D *reader.Driver, f []reader.Field, dst []string) error {
	var err error
	for i := range dst {
		dst[i], err = D.Field(f, 1+i)
		if err != nil {
			return err
		}
	}
	return nil
}

func prmNonBon(D *reader.Driver, f []reader.Field, p *chem.Parameters) error {
	var ints [4]int
	var err error
	for i := range ints {
		ints[i], err = D.FieldInt(f, 1+i)
		if err != nil {
			return err
		}
	}
	nb := chem.DefaultNonBonding()
	D.CharNum = f[1].Col
	if nb.VdwType, err = chem.VdwTypeFromGauss(ints[0]); err != nil {
		return err
	}
	D.CharNum = f[2].Col
	if nb.CoulombType, err = chem.CoulombTypeFromGauss(ints[1]); err != nil {
		return err
	}
	nb.VCutoff, nb.CCutoff = ints[2], ints[3]
	if err := floats(D, f, 5, nb.VScales[1:]); err != nil {
		return err
	}
	if err := floats(D, f, 8, nb.CScales[1:]); err != nil {
		return err
	}
	p.NonBonding = nb
	return nil
}

func prmVdw(D *reader.Driver, f []reader.Field, p *chem.Parameters) error {
	t, err := D.Field(f, 1)
	if err != nil {
		return err
	}
	var v [2]float64
	if err := floats(D, f, 2, v[:]); err != nil {
		return err
	}
	p.SetVdw(t, v[0], v[1], 0)
	return nil
}

func prmStretch(D *reader.Driver, f []reader.Field, p *chem.Parameters) error {
	var s chem.Stretch
	if err := types(D, f, s.Types[:]); err != nil {
		return err
	}
	var v [2]float64
	if err := floats(D, f, 3, v[:]); err != nil {
		return err
	}
	s.Keq, s.Req = v[0], v[1]
	p.AddStretch(s)
	return nil
}

func prmBend(D *reader.Driver, f []reader.Field, p *chem.Parameters) error {
	var b chem.Bend
	if err := types(D, f, b.Types[:]); err != nil {
		return err
	}
	var v [2]float64
	if err := floats(D, f, 4, v[:]); err != nil {
		return err
	}
	b.Keq, b.Aeq = v[0], v[1]
	p.AddBend(b)
	return nil
}

//AmbTrs t0 t1 t2 t3 phase1..4 barrier1..4 npaths
func prmTorsion(D *reader.Driver, f []reader.Field, p *chem.Parameters) error {
	var t chem.Torsion
	if err := types(D, f, t.Types[:]); err != nil {
		return err
	}
	if err := floats(D, f, 5, t.Phases[:]); err != nil {
		return err
	}
	if err := floats(D, f, 9, t.Barriers[:]); err != nil {
		return err
	}
	npaths, err := D.FieldFloat(f, 13)
	if err != nil {
		return err
	}
	t.NPaths = int(npaths)
	p.AddTorsion(t)
	return nil
}

//ImpTrs t0 t1 t2 t3 barrier phase periodicity
func prmImproper(D *reader.Driver, f []reader.Field, p *chem.Parameters) error {
	var t chem.ImproperTorsion
	if err := types(D, f, t.Types[:]); err != nil {
		return err
	}
	var v [3]float64
	if err := floats(D, f, 5, v[:]); err != nil {
		return err
	}
	t.Barrier, t.Phase, t.Periodicity = v[0], v[1], float64(int(v[2]))
	p.AddImproper(t)
	return nil
}

// ReadPRM reads all the PRM records in r into p. A malformed record is
// logged and skipped, it never stops the reading.
func ReadPRM(ctx context.Context, r io.Reader, p *chem.Parameters, log chem.Logger) error {
	return readPRM(ctx, reader.NewSource(r, ""), "PRM", p, log)
}

// ReadPRMFile reads the PRM file name, which can be compressed.
func ReadPRMFile(ctx context.Context, name string, p *chem.Parameters, log chem.Logger) error {
	src, err := reader.Open(name, "")
	if err != nil {
		return chem.ErrDecorate(err, "ReadPRMFile")
	}
	defer src.Close()
	return readPRM(ctx, src, name, p, log)
}

func readPRM(ctx context.Context, src reader.Lines, name string, p *chem.Parameters, log chem.Logger) error {
	log = chem.OrNop(log)
	var D *reader.Driver
	D = reader.NewDriver(name, reader.State{Name: "ReadPRMRecord", Do: func(line string) error {
		if err := ParsePRMLine(D, line, p); err != nil {
			log.Logf(chem.ErrorLevel, "Skipping malformed parameter: %s", chem.Lazy(func() string { return D.Fail(err).Error() }))
		}
		return nil
	}})
	return D.Run(ctx, src)
}
