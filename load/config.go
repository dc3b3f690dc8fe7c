/*
 * config.go, part of gochemio.
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
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	chem "github.com/rmera/gochemio"
)

// Config changes the way files are loaded.
type Config struct {
	Every        int           //lines between yields, 0 disables
	Interval     time.Duration //time between yields, 0 disables
	DefaultChain string        //chain for PDB atoms without one
	Chain        string        //chain for the residues of Gaussian and MOL2 files
	Methods      []string      //methods recognized in Gaussian keywords
	Level        chem.LogLevel
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	c, _ := rawDefaults().toConfig()
	return c
}

type rawConfig struct {
	Yield struct {
		Every      int `toml:"every"`
		IntervalMS int `toml:"interval_ms"`
	} `toml:"yield"`
	PDB struct {
		DefaultChain string `toml:"default_chain"`
	} `toml:"pdb"`
	Gaussian struct {
		Chain   string   `toml:"chain"`
		Methods []string `toml:"methods"`
	} `toml:"gaussian"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

func rawDefaults() rawConfig {
	var rc rawConfig
	rc.Yield.Every = 1000
	rc.PDB.DefaultChain = "A"
	rc.Gaussian.Chain = "A"
	rc.Log.Level = "info"
	return rc
}

func (rc rawConfig) toConfig() (Config, error) {
	var c Config
	if rc.Yield.Every < 0 || rc.Yield.IntervalMS < 0 {
		return c, fmt.Errorf("yield values can't be negative (every: %d, interval_ms: %d)", rc.Yield.Every, rc.Yield.IntervalMS)
	}
	c.Every = rc.Yield.Every
	c.Interval = time.Duration(rc.Yield.IntervalMS) * time.Millisecond
	c.DefaultChain = rc.PDB.DefaultChain
	c.Chain = rc.Gaussian.Chain
	for _, m := range rc.Gaussian.Methods {
		c.Methods = append(c.Methods, strings.ToLower(m))
	}
	var err error
	c.Level, err = chem.ParseLogLevel(rc.Log.Level)
	return c, err
}

// DecodeConfig reads a TOML configuration from r. Missing values keep their
// defaults. Unknown keys are an error.
func DecodeConfig(r io.Reader) (Config, error) {
	rc := rawDefaults()
	md, err := toml.NewDecoder(r).Decode(&rc)
	if err != nil {
		return Config{}, chem.NewError(fmt.Sprintf("invalid configuration: %s", err), "load.DecodeConfig", true)
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, chem.NewError(fmt.Sprintf("unknown configuration keys: %s", strings.Join(keys, ", ")), "load.DecodeConfig", true)
	}
	c, err := rc.toConfig()
	if err != nil {
		return Config{}, chem.NewError(fmt.Sprintf("invalid configuration: %s", err), "load.DecodeConfig", true)
	}
	return c, nil
}

// ReadConfig reads the TOML configuration file name.
func ReadConfig(name string) (Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return Config{}, chem.NewError(fmt.Sprintf("%s %s: %s", chem.UnableToOpen, name, err.Error()), "load.ReadConfig", true)
	}
	defer f.Close()
	c, err := DecodeConfig(f)
	return c, chem.ErrDecorate(err, "load.ReadConfig")
}
