/*
 * ids.go, part of gochemio.
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

package chem

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ResidueID identifies a residue in a geometry: a chain and the residue number in it.
type ResidueID struct {
	Chain  string
	Number int
}

func (R ResidueID) String() string {
	return fmt.Sprintf("%s%d", R.Chain, R.Number)
}

// IsZero returns true for the empty, uninitialized, ResidueID.
func (R ResidueID) IsZero() bool {
	return R.Chain == "" && R.Number == 0
}

// Less orders residue IDs by chain and then by number.
func (R ResidueID) Less(o ResidueID) bool {
	if R.Chain != o.Chain {
		return R.Chain < o.Chain
	}
	return R.Number < o.Number
}

// Next returns the ID of the following residue in the same chain.
func (R ResidueID) Next() ResidueID {
	return ResidueID{R.Chain, R.Number + 1}
}

// Previous returns the ID of the preceding residue in the same chain.
func (R ResidueID) Previous() (ResidueID, error) {
	if R.Number == 0 {
		return R, fmt.Errorf("Can't get previous Residue number - number can't be negative. (%s)", R)
	}
	return ResidueID{R.Chain, R.Number - 1}, nil
}

// ParseResidueID reads strings like "A12". Every digit goes to the residue number,
// everything else to the chain.
func ParseResidueID(s string) (ResidueID, error) {
	var chain, number strings.Builder
	for _, c := range strings.TrimSpace(s) {
		if unicode.IsDigit(c) {
			number.WriteRune(c)
		} else {
			chain.WriteRune(c)
		}
	}
	n, err := strconv.Atoi(number.String())
	if err != nil {
		return ResidueID{}, fmt.Errorf("ParseResidueID: no residue number in '%s': %w", s, err)
	}
	return ResidueID{chain.String(), n}, nil
}

// PDBID identifies an atom within its residue. It is the parsed form of
// the 4-column PDB atom name.
type PDBID struct {
	Element    string //Title-cased element symbol
	Identifier string //Remoteness/branch letters ("A" for CA, "XT" for OXT)
	Number     int    //0 means no number
}

// String returns the 4-column PDB form of the name.
func (P PDBID) String() string {
	num := " "
	if P.Number != 0 {
		num = strconv.Itoa(P.Number)
	}
	if len(P.Element) == 2 {
		return fmt.Sprintf("%-4s", strings.ToUpper(P.Element)+P.Identifier+num)
	}
	name := P.Element + P.Identifier
	if len(name) == 3 {
		//eg HH3 with number 1 -> 1HH3
		return num + name
	}
	return fmt.Sprintf("%-4s", " "+name+num)
}

// Name returns the name without padding.
func (P PDBID) Name() string {
	return strings.TrimSpace(P.String())
}

// Next returns the PDBID with the same element and identifier, but the number
// increased by one. It is used to solve name collisions.
func (P PDBID) Next() PDBID {
	return PDBID{P.Element, P.Identifier, P.Number + 1}
}

// IsZero returns true for the empty PDBID.
func (P PDBID) IsZero() bool {
	return P.Element == "" && P.Identifier == "" && P.Number == 0
}

// Less orders PDBIDs by element, identifier and number, ie ' C  ', ' CA ', ' CB1', ' CB2'.
func (P PDBID) Less(o PDBID) bool {
	if P.Element != o.Element {
		return P.Element < o.Element
	}
	if P.Identifier != o.Identifier {
		return P.Identifier < o.Identifier
	}
	return P.Number < o.Number
}

// AtomicNumber returns the atomic number of the element of the ID. 0 if unknown.
func (P PDBID) AtomicNumber() int {
	n, _ := AtomicNumber(P.Element)
	return n
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isSpace(b byte) bool { return b == ' ' || b == '\t' }

// twoLetters returns the first 2 characters of s title-cased.
func twoLetters(s string) string {
	return TitleCase(s[:2])
}

// ParsePDBID reads a 4-column PDB atom name. residueName is used to
// recognize ions (a residue "NA" with an atom "NA  " is a sodium).
func ParsePDBID(name, residueName string) (PDBID, error) {
	if len(name) != 4 {
		return PDBID{}, &PDBIDError{Name: name, msg: fmt.Sprintf("Incorrect length of PDB String (%d). Should be 4", len(name))}
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return PDBID{}, &PDBIDError{Name: name, msg: "Empty PDB String"}
	}
	//Metal ion. A leading space means a one-letter element, whatever the residue.
	if !isSpace(name[0]) && strings.EqualFold(trimmed, residueName) {
		return PDBID{Element: TitleCase(trimmed)}, nil
	}
	var P PDBID
	var err error
	num := func(s string) int {
		var n int
		if err == nil {
			n, err = strconv.Atoi(strings.TrimSpace(s))
		}
		return n
	}
	switch {
	case isDigit(name[2]) && isDigit(name[3]):
		//Differentiate between eg 'HG11' (old) and '1HG1' (new)
		//Residues with single elements (and no identifier) with numbers > 9 land here too
		if isSpace(name[0]) {
			//eg ' H10'
			P.Element = name[1:2]
			P.Number = num(name[2:4])
		} else {
			//old style, eg 'HG11'
			P.Element = name[0:1]
			P.Identifier = strings.TrimSpace(name[1:3])
			P.Number = num(name[3:4])
		}
	case isDigit(name[0]):
		//eg '1HG1'
		P.Element = name[1:2]
		P.Identifier = strings.TrimSpace(name[2:4])
		P.Number = num(name[0:1])
	case isSpace(name[0]):
		P.Element = name[1:2]
		switch {
		case isDigit(name[2]):
			//eg ' N1 '
			P.Number = num(name[2:3])
		case isSpace(name[2]):
			//eg ' N  '
		case isDigit(name[3]):
			//eg ' NA1'. The number could be part of the identifier, but we take it as a number.
			P.Identifier = name[2:3]
			P.Number = num(name[3:4])
		default:
			//eg ' NA ', ' OXT'
			P.Identifier = strings.TrimSpace(name[2:4])
		}
	default:
		switch {
		case isDigit(name[2]):
			//eg 'NA1 '
			P.Element = twoLetters(name)
			P.Number = num(name[2:3])
		case isDigit(name[3]):
			//eg 'NAB1', a naming error in some external program
			P.Element = name[0:1]
			P.Identifier = name[1:3]
			P.Number = num(name[3:4])
		default:
			//eg 'NA  ', most likely an ion
			P.Element = twoLetters(name)
		}
	}
	if err != nil {
		return PDBID{}, &PDBIDError{Name: name, msg: "Can't read the number in PDB String"}
	}
	P.Element = TitleCase(P.Element)
	if !IsElement(P.Element) {
		return PDBID{}, &PDBIDError{Name: name, msg: fmt.Sprintf("Unknown element '%s' in PDB String", P.Element)}
	}
	return P, nil
}

// ParseGaussPDBID reads the unpadded atom names Gaussian uses (PDBName=CA) aligning
// them to the 4 PDB columns with the help of the element.
func ParseGaussPDBID(name, element, residueName string) (PDBID, error) {
	name = strings.TrimSpace(name)
	element = strings.TrimSpace(element)
	if name == "" || element == "" {
		return PDBID{}, &PDBIDError{Name: name, msg: MisalignedPDB}
	}
	switch {
	case len(element) == 2 && len(name) >= 2 && strings.EqualFold(name[:2], element):
		//eg 'NA' -> 'NA  '
		name = fmt.Sprintf("%-4s", name)
	case strings.EqualFold(name[:1], element):
		if len(name) == 4 {
			//eg 'HG11'
			name = fmt.Sprintf("%-4s", name)
		} else {
			//eg 'CA1' -> ' CA1', 'C' -> ' C  '
			name = fmt.Sprintf("%-4s", " "+name)
		}
	case len(name) > 1 && strings.EqualFold(name[1:2], element):
		//eg '1HH' -> '1HH ', '1HH3' -> '1HH3'
		name = fmt.Sprintf("%-4s", name)
	default:
		return PDBID{}, &PDBIDError{Name: name, msg: fmt.Sprintf("%s. Element '%s' not found", MisalignedPDB, element)}
	}
	if len(name) > 4 {
		return PDBID{}, &PDBIDError{Name: name, msg: "PDB String too long"}
	}
	return ParsePDBID(strings.ToUpper(name[:1])+name[1:], residueName)
}

// AtomID identifies an atom in a geometry.
type AtomID struct {
	Residue ResidueID
	PDB     PDBID
}

func (A AtomID) String() string {
	return fmt.Sprintf("%s:%s", A.Residue, A.PDB.Name())
}

// Less orders atom IDs by residue, then by PDBID.
func (A AtomID) Less(o AtomID) bool {
	if A.Residue != o.Residue {
		return A.Residue.Less(o.Residue)
	}
	return A.PDB.Less(o.PDB)
}
