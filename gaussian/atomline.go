/*
 * atomline.go, part of gochemio.
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
	"errors"
	"fmt"
	"strconv"
	"strings"

	chem "github.com/rmera/gochemio"
	"github.com/rmera/gochemio/reader"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrOldFormat is returned by ParseAtomLine for atom lines without PDB
// information, like "C,0,1.0,2.0,3.0". Callers should fall back to the
// identity map built by a previously loaded file.
var ErrOldFormat = errors.New("old format atom line, no PDB information")

// AtomLine is one atom specification of a Gaussian input or output, ie
//
//	C-CT--0.150(PDBName=CA,ResName=ALA,ResNum=12) 0 1.000 2.000 3.000 L H-HC 5
//
// Everything but the element and the coordinates is optional.
type AtomLine struct {
	Element     string
	Amber       string //empty if not given
	Charge      float64
	PDBName     string //unpadded, empty if not given
	ResidueName string
	Residue     chem.ResidueID
	Mobile      bool
	Position    r3.Vec
	Layer       chem.Layer
	LinkAtom    string //ie "H-HC", empty if the atom is not bonded to a higher layer
	LinkIndex   int    //1-based index of the atom bonded through the link, 0 if none
}

// ID returns the AtomID the line describes.
func (A *AtomLine) ID() (chem.AtomID, error) {
	name := A.PDBName
	if name == "" {
		name = A.Element
	}
	pdb, err := chem.ParseGaussPDBID(name, A.Element, A.ResidueName)
	if err != nil {
		return chem.AtomID{}, err
	}
	return chem.AtomID{Residue: A.Residue, PDB: pdb}, nil
}

// Atom returns a new atom with the data of the line.
func (A *AtomLine) Atom() *chem.Atom {
	at := chem.NewAtom(A.Position, A.Layer)
	if A.Amber != "" {
		at.Amber = A.Amber
	}
	at.Charge = A.Charge
	at.Mobile = A.Mobile
	return at
}

// Add adds the atom to g, creating its residue if needed. It returns the
// accepted AtomID, which differs from ID() if the name was already taken.
func (A *AtomLine) Add(g *chem.Geometry) (chem.AtomID, error) {
	id, err := A.ID()
	if err != nil {
		return id, err
	}
	if _, err := g.ResidueFor(id.Residue, A.ResidueName); err != nil {
		return id, err
	}
	return g.AddAtom(id, A.Atom())
}

type lineState int

const (
	readStart lineState = iota
	readElement
	readAmber
	readCharge
	readPDBOption
	readPDBValue
	readFrozen
	readX
	readY
	readZ
	readLayer
	readLinkAtom
	readLinkIndex
	lineDone
)

var lineStateNames = [...]string{"ReadStart", "ReadElement", "ReadAmber", "ReadCharge", "ReadPDBOption", "ReadPDBValue", "ReadFrozen", "ReadX", "ReadY", "ReadZ", "ReadLayer", "ReadLinkAtom", "ReadLinkIndex", "Done"}

func (S lineState) String() string {
	return lineStateNames[S]
}

type pdbOption int

const (
	pdbName pdbOption = iota
	resName
	resNum
)

type atomLineParser struct {
	line   string
	pos    int //index of the next character to read
	col    int //1-based column of the token being read
	chain  string
	option pdbOption
	key    string
	A      *AtomLine
}

// ParseAtomLine reads an atom specification. Residues named in the line get
// the given chain. D, which can be nil, gets the column of a failure.
// ErrOldFormat is returned for lines without PDB information.
func ParseAtomLine(D *reader.Driver, line, chain string) (*AtomLine, error) {
	P := &atomLineParser{line: line, chain: chain, A: &AtomLine{Mobile: true, Layer: chem.Real}}
	handlers := [...]func() (lineState, error){
		readStart:     P.start,
		readElement:   P.element,
		readAmber:     P.amber,
		readCharge:    P.charge,
		readPDBOption: P.pdbOption,
		readPDBValue:  P.pdbValue,
		readFrozen:    P.frozen,
		readX:         P.coord(&P.A.Position.X, readY),
		readY:         P.coord(&P.A.Position.Y, readZ),
		readZ:         P.coord(&P.A.Position.Z, readLayer),
		readLayer:     P.layer,
		readLinkAtom:  P.linkAtom,
		readLinkIndex: P.linkIndex,
	}
	state := readStart
	for state != lineDone {
		next, err := handlers[state]()
		if err != nil {
			if D != nil {
				D.CharNum = P.col
			}
			if errors.Is(err, ErrOldFormat) {
				return nil, err
			}
			return nil, fmt.Errorf("atom line, %s: %w", state, err)
		}
		state = next
	}
	return P.A, nil
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' }

//scan reads until one of the terminators. The end of the line counts
//as a space.
func (P *atomLineParser) scan(terms string) (string, byte) {
	P.col = P.pos + 1
	start := P.pos
	for ; P.pos < len(P.line); P.pos++ {
		c := P.line[P.pos]
		if isBlank(c) && strings.IndexByte(terms, ' ') >= 0 {
			tok := P.line[start:P.pos]
			P.pos++
			return tok, ' '
		}
		if strings.IndexByte(terms, c) >= 0 {
			tok := P.line[start:P.pos]
			P.pos++
			return tok, c
		}
	}
	return P.line[start:], ' '
}

//word skips blanks and reads until the next blank. It returns "" at the end of the line.
func (P *atomLineParser) word() string {
	for P.pos < len(P.line) && isBlank(P.line[P.pos]) {
		P.pos++
	}
	tok, _ := P.scan(" ")
	return tok
}

func (P *atomLineParser) start() (lineState, error) {
	for P.pos < len(P.line) && isBlank(P.line[P.pos]) {
		P.pos++
	}
	if P.pos == len(P.line) {
		P.col = 1
		return lineDone, errors.New("empty line")
	}
	return readElement, nil
}

//Gaussian also accepts atomic numbers.
func (P *atomLineParser) element() (lineState, error) {
	tok, term := P.scan("-(, ")
	if tok == "" {
		return lineDone, errors.New("element is empty")
	}
	if term == ',' {
		return lineDone, ErrOldFormat
	}
	if n, err := strconv.Atoi(tok); err == nil {
		tok = chem.Symbol(n)
	}
	P.A.Element = chem.TitleCase(tok)
	if !chem.IsElement(P.A.Element) {
		return lineDone, fmt.Errorf("unknown element %s", tok)
	}
	switch term {
	case '-':
		return readAmber, nil
	case '(':
		return readPDBOption, nil
	}
	return readFrozen, nil
}

func (P *atomLineParser) amber() (lineState, error) {
	tok, term := P.scan("-( ")
	P.A.Amber = tok
	switch term {
	case '-':
		return readCharge, nil
	case '(':
		return readPDBOption, nil
	}
	return readFrozen, nil
}

func (P *atomLineParser) charge() (lineState, error) {
	tok, term := P.scan("( ")
	if tok != "" {
		var err error
		if P.A.Charge, err = strconv.ParseFloat(tok, 64); err != nil {
			return lineDone, err
		}
	}
	if term == '(' {
		return readPDBOption, nil
	}
	return readFrozen, nil
}

//Keys are told apart by their first 5 characters. The option is only
//changed when a sixth character is read, so shorter keys, and keys of
//exactly 5 characters, keep the previous option (PDBName at first).
func (P *atomLineParser) pdbOption() (lineState, error) {
	P.key = ""
	P.col = P.pos + 1
	for ; P.pos < len(P.line); P.pos++ {
		c := P.line[P.pos]
		switch {
		case c == '=':
			P.pos++
			return readPDBValue, nil
		case c == ')':
			P.pos++
			return readFrozen, nil
		case len(P.key) == 5:
			P.pos++
			switch strings.ToUpper(P.key) {
			case "PDBNA":
				P.option = pdbName
			case "RESNA":
				P.option = resName
			case "RESNU":
				P.option = resNum
			default:
				return lineDone, fmt.Errorf("failed to read PDB option %s", P.key)
			}
			return readPDBOption, nil
		default:
			P.key += string(c)
		}
	}
	return lineDone, errors.New("unterminated PDB information")
}

func (P *atomLineParser) pdbValue() (lineState, error) {
	P.col = P.pos + 1
	start := P.pos
	for ; P.pos < len(P.line); P.pos++ {
		c := P.line[P.pos]
		if c != ',' && c != ')' {
			continue
		}
		if err := P.setOption(P.line[start:P.pos]); err != nil {
			return lineDone, err
		}
		P.pos++
		if c == ',' {
			return readPDBOption, nil
		}
		return readFrozen, nil
	}
	return lineDone, errors.New("unterminated PDB information")
}

func (P *atomLineParser) setOption(value string) error {
	switch P.option {
	case pdbName:
		P.A.PDBName = strings.TrimSpace(value)
	case resName:
		P.A.ResidueName = strings.TrimSpace(value)
		P.A.Residue.Chain = P.chain
	case resNum:
		digits := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '-' {
				return r
			}
			return -1
		}, value)
		n, err := strconv.Atoi(digits)
		if err != nil {
			return fmt.Errorf("wrong residue number %s", value)
		}
		P.A.Residue.Number = n
	}
	return nil
}

//The frozen flag is optional. An integer here is the flag (0 means mobile),
//anything else is the X coordinate.
func (P *atomLineParser) frozen() (lineState, error) {
	tok := P.word()
	if tok == "" {
		return lineDone, errors.New("missing coordinates")
	}
	if !strings.ContainsAny(tok, ".eEdD") {
		if flag, err := strconv.Atoi(tok); err == nil {
			P.A.Mobile = flag == 0
			return readX, nil
		}
	}
	x, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return lineDone, err
	}
	P.A.Position.X = x
	return readY, nil
}

func (P *atomLineParser) coord(dst *float64, next lineState) func() (lineState, error) {
	return func() (lineState, error) {
		tok := P.word()
		if tok == "" {
			return lineDone, errors.New("missing coordinate")
		}
		var err error
		*dst, err = strconv.ParseFloat(tok, 64)
		if err != nil {
			return lineDone, err
		}
		return next, nil
	}
}

//Unknown layer letters mean the Real layer.
func (P *atomLineParser) layer() (lineState, error) {
	tok := P.word()
	if tok == "" {
		return lineDone, nil
	}
	if l, ok := chem.LayerFromChar(strings.ToUpper(tok)[0]); ok {
		P.A.Layer = l
	}
	return readLinkAtom, nil
}

func (P *atomLineParser) linkAtom() (lineState, error) {
	tok := P.word()
	if tok == "" {
		return lineDone, nil
	}
	P.A.LinkAtom = tok
	return readLinkIndex, nil
}

func (P *atomLineParser) linkIndex() (lineState, error) {
	tok := P.word()
	if tok == "" {
		return lineDone, nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return lineDone, err
	}
	P.A.LinkIndex = n
	return lineDone, nil
}
