/*
 * sections.go, part of gochemio.
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

package reader

import (
	"time"
)

// Sniffer looks at a line and returns true if it starts the section it
// recognizes. A sniffer that accepts a line usually changes the driver state
// and arms or disarms other sections.
type Sniffer func(line string) (bool, error)

type section struct {
	key   string
	sniff Sniffer
}

// Sections is an ordered set of armed section sniffers. Lines are offered to
// the sniffers in the order they were armed.
type Sections struct {
	list []section
}

// Arm adds the sniffer under key at the end of the set. If key is already
// armed, its sniffer is replaced and keeps its place.
func (S *Sections) Arm(key string, f Sniffer) {
	for i, v := range S.list {
		if v.key == key {
			S.list[i].sniff = f
			return
		}
	}
	S.list = append(S.list, section{key, f})
}

// Disarm removes the given keys from the set.
func (S *Sections) Disarm(keys ...string) {
	for _, k := range keys {
		for i, v := range S.list {
			if v.key == k {
				S.list = append(S.list[:i:i], S.list[i+1:]...)
				break
			}
		}
	}
}

// Armed returns true if key is in the set.
func (S *Sections) Armed(key string) bool {
	for _, v := range S.list {
		if v.key == key {
			return true
		}
	}
	return false
}

// Keys returns the armed keys, in order.
func (S *Sections) Keys() []string {
	ret := make([]string, len(S.list))
	for i, v := range S.list {
		ret[i] = v.key
	}
	return ret
}

// Offer gives line to the armed sniffers until one accepts it, and returns
// the key of the accepting sniffer. Sniffers may arm and disarm sections.
// Those changes take effect for the next line.
func (S *Sections) Offer(line string) (string, bool, error) {
	current := make([]section, len(S.list))
	copy(current, S.list)
	for _, v := range current {
		ok, err := v.sniff(line)
		if err != nil {
			return v.key, false, err
		}
		if ok {
			return v.key, true, nil
		}
	}
	return "", false, nil
}

// Reset disarms everything.
func (S *Sections) Reset() {
	S.list = nil
}

// Cadence gives the control back to the caller every Every lines, or every time
// Interval has passed since the last time, whatever happens first. A zero
// field disables that criterion. If Yield returns an error, the reading stops
// with it.
type Cadence struct {
	Every    int
	Interval time.Duration
	Yield    func(lines int) error
	since    int
	last     time.Time
}

func (C *Cadence) tick(lines int) error {
	if C == nil || C.Yield == nil {
		return nil
	}
	C.since++
	if C.Interval > 0 && C.last.IsZero() {
		C.last = time.Now()
	}
	due := C.Every > 0 && C.since >= C.Every
	if !due && C.Interval > 0 {
		due = time.Since(C.last) >= C.Interval
	}
	if !due {
		return nil
	}
	C.since = 0
	if C.Interval > 0 {
		C.last = time.Now()
	}
	return C.Yield(lines)
}
