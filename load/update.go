/*
 * update.go, part of gochemio.
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
	chem "github.com/rmera/gochemio"
)

// Field selects the atom data copied by UpdateGeometry.
type Field uint8

const (
	Position Field = 1 << iota
	Charge
	Amber
	Layer
)

// UpdateGeometry copies the fields selected in what from the atoms of src
// to the atoms of dst with the same AtomID. If chain is not empty, it is
// used instead of the chains of the atoms in src. It returns the number of
// atoms updated and the IDs of the src atoms not found in dst.
func UpdateGeometry(dst, src *chem.Geometry, what Field, chain string) (int, []chem.AtomID) {
	var n int
	var missing []chem.AtomID
	for _, id := range src.AtomIDs() {
		from, _ := src.Atom(id)
		target := id
		if chain != "" {
			target.Residue.Chain = chain
		}
		to, ok := dst.Atom(target)
		if !ok {
			missing = append(missing, target)
			continue
		}
		if what&Position != 0 {
			to.Position = from.Position
		}
		if what&Charge != 0 {
			to.Charge = from.Charge
		}
		if what&Amber != 0 && from.Amber != chem.DefaultAmber {
			to.Amber = from.Amber
		}
		if what&Layer != 0 {
			to.Layer = from.Layer
		}
		n++
	}
	return n, missing
}
