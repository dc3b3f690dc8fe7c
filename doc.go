/*
 * doc.go, part of gochemio.
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

/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package chem is the main package of the gochemio library. It provides the molecular model
(geometries, residues, atoms, the identity map between file atom indexes and atoms, and
force-field parameters) that the readers in the subpackages fill.

	**gochemio Capabilities**

    Reads PDB, PQR, MOL2 and XAT (XML) geometries (packages pdb, mol2, xat).

    Reads Gaussian input (.com/.gjf), output (.log) and formatted checkpoint
	(.fchk) files, including ONIOM layers, link atoms, connectivity, force-field
	parameters, optimization snapshots, forces, excited states, ESP charges and
	frequencies (package gaussian).

    Reads Gaussian cube volumetric data (package cube).

    Reads and writes AMBER FRCMOD and PRM parameter files (package amber).

    Plots IR spectra from Gaussian frequency calculations (package spectrum).

    All readers work line by line over possibly gzip- or zstd-compressed files, can
	give the control back to the caller every so many lines, and report errors
	with the offending line and a caret under the failing column (package reader).

    Files that refer to atoms only by their position (Gaussian output, checkpoint
	and cube files) are read on top of a geometry loaded from the file that
	generated them, whose identity map is used to validate and place the data.
	Package load selects the right reader for a file name.

*/
package chem
