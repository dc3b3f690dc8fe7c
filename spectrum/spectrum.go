/*
 * spectrum.go, part of gochemio.
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


//Package spectrum builds IR spectra from the normal modes of Gaussian
//frequency calculations.
package spectrum

import (
	"fmt"
	"image/color"
	"math"

	"github.com/rmera/gochemio/gaussian"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Lorentzian returns the value at x of a line of unit area centered at x0,
// with the given full width at half maximum.
func Lorentzian(x, x0, fwhm float64) float64 {
	g := fwhm / 2
	return g / (math.Pi * ((x-x0)*(x-x0) + g*g))
}

// Broaden returns, for each value in xs, the sum of Lorentzian lines centered
// at centers, with areas given by intensities.
func Broaden(centers, intensities []float64, fwhm float64, xs []float64) ([]float64, error) {
	if len(centers) != len(intensities) {
		return nil, fmt.Errorf("spectrum: %d lines but %d intensities", len(centers), len(intensities))
	}
	if fwhm <= 0 {
		return nil, fmt.Errorf("spectrum: the line width must be positive, got %f", fwhm)
	}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		for j, c := range centers {
			ys[i] += intensities[j] * Lorentzian(x, c, fwhm)
		}
	}
	return ys, nil
}

// Lines returns the frequencies and IR intensities of the modes. Imaginary
// modes, printed by Gaussian as negative frequencies, are left out.
func Lines(modes []gaussian.NormalMode) ([]float64, []float64) {
	freqs := make([]float64, 0, len(modes))
	ints := make([]float64, 0, len(modes))
	for _, m := range modes {
		if m.Frequency <= 0 {
			continue
		}
		freqs = append(freqs, m.Frequency)
		ints = append(ints, m.IRIntensity)
	}
	return freqs, ints
}

// IR returns n points of the broadened IR spectrum of the modes. The range
// extends 5 line widths beyond the lowest and highest frequencies, without
// going below 0.
func IR(modes []gaussian.NormalMode, fwhm float64, n int) ([]float64, []float64, error) {
	freqs, ints := Lines(modes)
	if len(freqs) == 0 {
		return nil, nil, fmt.Errorf("spectrum: no real frequencies in %d modes", len(modes))
	}
	if n < 2 {
		return nil, nil, fmt.Errorf("spectrum: at least 2 points are needed, got %d", n)
	}
	min := math.Max(0, floats.Min(freqs)-5*fwhm)
	max := floats.Max(freqs) + 5*fwhm
	xs := floats.Span(make([]float64, n), min, max)
	ys, err := Broaden(freqs, ints, fwhm, xs)
	return xs, ys, err
}

// Plot saves the broadened IR spectrum of the modes, with the individual
// lines as sticks, to the image file name. The format is given by the
// extension of name.
func Plot(modes []gaussian.NormalMode, fwhm float64, name string) error {
	xs, ys, err := IR(modes, fwhm, 2000)
	if err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = "IR spectrum"
	p.X.Label.Text = "Frequency (cm^-1)"
	p.Y.Label.Text = "Intensity (KM/Mole)"
	p.Add(plotter.NewGrid())
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{R: 200, A: 255}
	p.Add(line)
	//Sticks are scaled to the height of the tallest band.
	freqs, ints := Lines(modes)
	scale := 0.0
	if top := floats.Max(ints); top > 0 {
		scale = floats.Max(ys) / top
	}
	for i, f := range freqs {
		stick, err := plotter.NewLine(plotter.XYs{{X: f, Y: 0}, {X: f, Y: ints[i] * scale}})
		if err != nil {
			return err
		}
		stick.Color = color.Gray{Y: 100}
		p.Add(stick)
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, name)
}
