/*
 * atommap.go, part of gochemio.
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
	"sort"
)

// AtomMap relates the 0-based position of an atom in a file with its AtomID.
// Entries are unique in both directions.
type AtomMap struct {
	ids     map[int]AtomID
	indexes map[AtomID]int
}

// NewAtomMap returns an empty map.
func NewAtomMap() *AtomMap {
	return &AtomMap{ids: make(map[int]AtomID), indexes: make(map[AtomID]int)}
}

// Set relates index and id. It fails if either of them is already in the map
// related to something else.
func (M *AtomMap) Set(index int, id AtomID) error {
	if index < 0 {
		return fmt.Errorf("AtomMap: negative index %d", index)
	}
	if old, ok := M.ids[index]; ok && old != id {
		return fmt.Errorf("AtomMap: index %d already mapped to %s", index, old)
	}
	if old, ok := M.indexes[id]; ok && old != index {
		return fmt.Errorf("AtomMap: atom %s already mapped to index %d", id, old)
	}
	M.ids[index] = id
	M.indexes[id] = index
	return nil
}

// Get returns the AtomID at the given index.
func (M *AtomMap) Get(index int) (AtomID, bool) {
	if M == nil {
		return AtomID{}, false
	}
	id, ok := M.ids[index]
	return id, ok
}

// Index returns the index for the given AtomID.
func (M *AtomMap) Index(id AtomID) (int, bool) {
	if M == nil {
		return -1, false
	}
	i, ok := M.indexes[id]
	return i, ok
}

// Len returns the number of entries in the map. A nil map has length 0.
func (M *AtomMap) Len() int {
	if M == nil {
		return 0
	}
	return len(M.ids)
}

// Indexes returns all the indexes in the map, in increasing order.
func (M *AtomMap) Indexes() []int {
	if M == nil {
		return nil
	}
	ret := make([]int, 0, len(M.ids))
	for k := range M.ids {
		ret = append(ret, k)
	}
	sort.Ints(ret)
	return ret
}
