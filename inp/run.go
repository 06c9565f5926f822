// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.gi) JSON or YAML file
package inp

import (
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gogi/gi"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Data holds global data for runs
type Data struct {
	Desc     string `json:"desc"`                                                  // description of run
	DirOut   string `json:"dirout"`                                                // directory for output; e.g. /tmp/gogi
	Encoder  string `json:"encoder" validate:"omitempty,oneof=gob json msgpack"` // encoder name; e.g. "gob" "json" "msgpack"
	Workers  int    `json:"workers" validate:"gte=0"`                              // max number of arms computed at the same time; 0 means one per arm
	CacheDir string `json:"cachedir"`                                              // directory of persistent cache; empty means in-memory
	NoCache  bool   `json:"nocache"`                                               // do not use cache at all
}

// ArmData holds data of one arm
type ArmData struct {
	Name  string      `json:"name" validate:"required"`                                  // unique name of arm
	Model string      `json:"model" validate:"required,oneof=bernoulli gaussian discrete"` // model name; see gi.Models
	Prms  dbf.Params  `json:"prms"`                                                      // model parameters
	P     [][]float64 `json:"P" validate:"required_if=Model discrete"`                   // discrete: [m][m] transition matrix
	R     []float64   `json:"r" validate:"required_if=Model discrete"`                   // discrete: [m] rewards
}

// Run holds all data of a run
type Run struct {

	// input
	Data      Data             `json:"data"`                             // global data
	Gamma     float64          `json:"gamma" validate:"gt=0,lt=1"`       // discount factor of all arms, unless given in the arm's parameters
	Bernoulli gi.BernoulliOpts `json:"bernoulli"`                        // default accuracy of Bernoulli arms
	Gaussian  gi.GaussianOpts  `json:"gaussian"`                         // default accuracy of Gaussian arms
	Arms      []*ArmData       `json:"arms" validate:"required,min=1,dive"` // arms

	// derived
	Key     string `json:"-"` // filename key; e.g. bandit.gi => bandit
	EncType string `json:"-"` // encoder type
}

// runValidate validates run files
var runValidate = validator.New()

// ReadRun reads all data from a .gi (JSON), .yaml or .yml file
func ReadRun(runfilepath string) (o *Run, err error) {

	// read file
	b, err := os.ReadFile(runfilepath)
	if err != nil {
		return nil, chk.Err("cannot read run file %q:\n%v", runfilepath, err)
	}

	// YAML is converted to JSON, so both formats share the same keys
	ext := strings.ToLower(filepath.Ext(runfilepath))
	if ext == ".yaml" || ext == ".yml" {
		var tree interface{}
		if err = yaml.Unmarshal(b, &tree); err != nil {
			return nil, chk.Err("cannot unmarshal YAML run file %q:\n%v", runfilepath, err)
		}
		if b, err = json.Marshal(tree); err != nil {
			return nil, chk.Err("cannot convert YAML run file %q:\n%v", runfilepath, err)
		}
	}

	// set default values and decode
	o = new(Run)
	o.Bernoulli.SetDefault()
	o.Gaussian.SetDefault()
	if err = json.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot unmarshal run file %q:\n%v", runfilepath, err)
	}

	// filename key
	o.Key = io.FnKey(filepath.Base(runfilepath))
	err = o.PostProcess()
	return
}

// PostProcess sets derived values, checks all data and completes the parameters of arms
func (o *Run) PostProcess() (err error) {

	// output directory
	if o.Data.DirOut == "" {
		o.Data.DirOut = "/tmp/gogi"
	}
	o.Data.DirOut = os.ExpandEnv(o.Data.DirOut)

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType == "" {
		o.EncType = "json"
	}

	// check structure
	if err = runValidate.Struct(o); err != nil {
		return chk.Err("run file %q is invalid:\n%v", o.Key, err)
	}

	// arms
	names := make(map[string]bool)
	for i, arm := range o.Arms {
		if names[arm.Name] {
			return chk.Err("arm %d: name %q is repeated", i, arm.Name)
		}
		names[arm.Name] = true
		if o.Gamma > 0 && arm.Prms.Find("gamma") == nil {
			arm.Prms = append(arm.Prms, &dbf.P{N: "gamma", V: o.Gamma})
		}
		switch arm.Model {
		case "bernoulli":
			arm.setDefault("N", float64(o.Bernoulli.N))
			arm.setDefault("tol", o.Bernoulli.Tol)
		case "gaussian":
			arm.setDefault("xi", o.Gaussian.Xi)
			arm.setDefault("delta", o.Gaussian.Delta)
			arm.setDefault("N", float64(o.Gaussian.N))
			arm.setDefault("tol", o.Gaussian.Tol)
		}
	}
	return
}

// setDefault appends parameter if not given
func (o *ArmData) setDefault(name string, value float64) {
	if o.Prms.Find(name) == nil {
		o.Prms = append(o.Prms, &dbf.P{N: name, V: value})
	}
}

// GetModel allocates and initialises the model of this arm
func (o *ArmData) GetModel() (model gi.Model, err error) {
	model, err = gi.New(o.Model)
	if err != nil {
		return
	}
	if err = model.Init(o.Prms); err != nil {
		return nil, chk.Err("arm %q:\n%v", o.Name, err)
	}
	if disc, ok := model.(*gi.Disc); ok {
		c, err := gi.NewChain(len(o.R), o.P, o.R)
		if err != nil {
			return nil, chk.Err("arm %q:\n%v", o.Name, err)
		}
		disc.SetChain(c)
	}
	return
}

// GetInfo returns formatted information
func (o *Run) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}
