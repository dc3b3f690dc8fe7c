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

package amber

import (
	"bufio"
	"fmt"
	"io"

	chem "github.com/rmera/gochemio"
)

// PRMLines returns p as the PRM records Gaussian reads from its input files.
// The non-bonded settings go first, the atomic parameters last.
func PRMLines(p *chem.Parameters) []string {
	nb := p.NonBonding
	ret := []string{fmt.Sprintf("NonBon %d %d %d %d %7.4f %7.4f %7.4f %7.4f %7.4f %7.4f",
		int(nb.VdwType), nb.CoulombType.Gauss(), nb.VCutoff, nb.CCutoff,
		nb.VScales[1], nb.VScales[2], nb.VScales[3], nb.CScales[1], nb.CScales[2], nb.CScales[3])}
	for _, s := range p.Stretches {
		ret = append(ret, fmt.Sprintf("HrmStr1 %-2s %-2s %9.5f %9.5f", s.Types[0], s.Types[1], s.Keq, s.Req))
	}
	for _, b := range p.Bends {
		ret = append(ret, fmt.Sprintf("HrmBnd1 %-2s %-2s %-2s %9.5f %9.5f", b.Types[0], b.Types[1], b.Types[2], b.Keq, b.Aeq))
	}
	for _, t := range p.Torsions {
		ret = append(ret, fmt.Sprintf("AmbTrs %-2s %-2s %-2s %-2s %6.1f %6.1f %6.1f %6.1f %9.5f %9.5f %9.5f %9.5f %4.1f",
			t.Types[0], t.Types[1], t.Types[2], t.Types[3],
			t.Phases[0], t.Phases[1], t.Phases[2], t.Phases[3],
			t.Barriers[0], t.Barriers[1], t.Barriers[2], t.Barriers[3], float64(t.NPaths)))
	}
	for _, t := range p.Impropers {
		ret = append(ret, fmt.Sprintf("ImpTrs %-2s %-2s %-2s %-2s %9.5f %6.1f %4.1f",
			t.Types[0], t.Types[1], t.Types[2], t.Types[3], t.Barrier, t.Phase, t.Periodicity))
	}
	for _, a := range p.Atomic {
		ret = append(ret, fmt.Sprintf("VDW %-2s %9.5f %9.5f", a.Type, a.Radius, a.WellDepth))
	}
	return ret
}

// WritePRM writes p in the PRM format.
func WritePRM(w io.Writer, p *chem.Parameters) error {
	out := bufio.NewWriter(w)
	for _, l := range PRMLines(p) {
		if _, err := fmt.Fprintln(out, l); err != nil {
			return err
		}
	}
	return out.Flush()
}

func penaltyNote(pen float64) string {
	if pen == 0 {
		return ""
	}
	return fmt.Sprintf("     penalty score=%6.1f", pen)
}

// WriteFRCMOD writes p in the fixed-column FRCMOD format. Numbers are written
// with the precision the columns allow.
func WriteFRCMOD(w io.Writer, p *chem.Parameters, title string) error {
	out := bufio.NewWriter(w)
	if title == "" {
		title = "Parameters written by gochemio"
	}
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "MASS")
	for _, a := range p.Atomic {
		if a.Mass != 0 {
			fmt.Fprintf(out, "%-2s %7.3f\n", a.Type, a.Mass)
		}
	}
	fmt.Fprintln(out, "\nBOND")
	for _, s := range p.Stretches {
		fmt.Fprintf(out, "%-2s-%-2s %7.2f  %6.3f%s\n", s.Types[0], s.Types[1], s.Keq, s.Req, penaltyNote(s.Penalty))
	}
	fmt.Fprintln(out, "\nANGLE")
	for _, b := range p.Bends {
		fmt.Fprintf(out, "%-2s-%-2s-%-2s  %7.3f     %7.3f%s\n", b.Types[0], b.Types[1], b.Types[2], b.Keq, b.Aeq, penaltyNote(b.Penalty))
	}
	fmt.Fprintln(out, "\nDIHE")
	for _, t := range p.Torsions {
		terms := make([]int, 0, 4)
		for i := range t.Barriers {
			if t.Barriers[i] != 0 || t.Phases[i] != 0 {
				terms = append(terms, i)
			}
		}
		if len(terms) == 0 {
			terms = append(terms, 0)
		}
		for j, i := range terms {
			periodicity := float64(i + 1)
			note := ""
			if j < len(terms)-1 {
				periodicity = -periodicity
			} else {
				note = penaltyNote(t.Penalty)
			}
			fmt.Fprintf(out, "%-2s-%-2s-%-2s-%-2s   %1d  %7.3f       %7.3f         %7.3f%s\n",
				t.Types[0], t.Types[1], t.Types[2], t.Types[3], t.NPaths, t.Barriers[i], t.Phases[i], periodicity, note)
		}
	}
	fmt.Fprintln(out, "\nIMPROPER")
	for _, t := range p.Impropers {
		fmt.Fprintf(out, "%-2s-%-2s-%-2s-%-2s      %7.3f       %7.3f       %7.3f%s\n",
			t.Types[0], t.Types[1], t.Types[2], t.Types[3], t.Barrier, t.Phase, t.Periodicity, penaltyNote(t.Penalty))
	}
	fmt.Fprintln(out, "\nNONBON")
	for _, a := range p.Atomic {
		if a.Radius != 0 || a.WellDepth != 0 {
			fmt.Fprintf(out, "  %-2s         %7.4f %7.4f\n", a.Type, a.Radius, a.WellDepth)
		}
	}
	if _, err := fmt.Fprintln(out, ""); err != nil {
		return err
	}
	return out.Flush()
}
