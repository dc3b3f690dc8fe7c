/*
 * spectrum_test.go, part of gochemio.
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


package spectrum

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/gochemio/gaussian"
	"gonum.org/v1/gonum/floats"
)

func TestBroaden(Te *testing.T) {
	fwhm := 10.0
	peak, err := Broaden([]float64{1000}, []float64{3}, fwhm, []float64{1000, 995, 1005})
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(peak[0]-3*2/(math.Pi*fwhm)) > 1e-12 {
		Te.Errorf("wrong height %v", peak[0])
	}
	if math.Abs(peak[1]-peak[0]/2) > 1e-12 || peak[1] != peak[2] {
		Te.Errorf("wrong width: %v", peak)
	}
	xs := floats.Span(make([]float64, 200001), 0, 2000)
	ys, _ := Broaden([]float64{1000}, []float64{3}, fwhm, xs)
	area := floats.Sum(ys) * (xs[1] - xs[0])
	if math.Abs(area-3) > 0.05 {
		Te.Errorf("the area should be close to the intensity, got %v", area)
	}
	if _, err := Broaden([]float64{1000}, nil, fwhm, xs); err == nil {
		Te.Error("mismatched intensities should be an error")
	}
	if _, err := Broaden(nil, nil, 0, xs); err == nil {
		Te.Error("a zero width should be an error")
	}
}

func TestPlot(Te *testing.T) {
	modes := []gaussian.NormalMode{
		{Frequency: -120, IRIntensity: 5},
		{Frequency: 1713, IRIntensity: 75.1},
		{Frequency: 3727, IRIntensity: 1.94},
		{Frequency: 3849, IRIntensity: 18.7},
	}
	freqs, _ := Lines(modes)
	if len(freqs) != 3 {
		Te.Errorf("imaginary modes should be left out: %v", freqs)
	}
	xs, ys, err := IR(modes, 20, 500)
	if err != nil {
		Te.Fatal(err)
	}
	if xs[0] != 1613 || math.Abs(xs[len(xs)-1]-3949) > 1e-9 || floats.MaxIdx(ys) == 0 {
		Te.Errorf("wrong range %v-%v", xs[0], xs[len(xs)-1])
	}
	name := filepath.Join(Te.TempDir(), "ir.png")
	if err := Plot(modes, 20, name); err != nil {
		Te.Fatal(err)
	}
	if info, err := os.Stat(name); err != nil || info.Size() == 0 {
		Te.Errorf("no image written: %v", err)
	}
}
