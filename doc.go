// Package woebin provides supervised weight-of-evidence binning for Go,
// designed for credit scoring pipelines and real-time scoring services.
//
// woebin discretizes one continuous predictor against a binary target. The
// bins maximize information value (IV) under minimum-size, minimum-positive,
// minimum-gain, bin-count and monotonic-WoE constraints, and declared
// exception values (NaN included) are scored separately without moving any
// boundary.
//
// # Installation
//
//	go get github.com/YuminosukeSato/woebin
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//	    "math"
//
//	    "github.com/YuminosukeSato/woebin/sklearn/discretize"
//	)
//
//	func main() {
//	    fare := []float64{7.25, 71.28, 7.92, 53.1, 8.05, math.NaN()}
//	    survived := []float64{0, 1, 1, 1, 0, 1}
//
//	    d := discretize.NewDiscretizer(discretize.WithMinObs(1), discretize.WithMinPos(0))
//	    if err := d.Fit(fare, survived, nil, []float64{math.NaN()}); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    splits, _ := d.Splits()
//	    woe, _ := d.PredictWoE(fare)
//	    fmt.Println(splits, woe)
//	}
//
// # Packages
//
//   - sklearn/discretize: the Discretizer (Fit, Predict, Splits, ExceptionValues)
//   - preprocessing: sorting, grouping and exception partitioning of the input
//   - metrics: AUC, Gini and KS of a WoE-transformed predictor
//   - core/model: estimator interfaces, fitted-state management, gob persistence
//   - core/parallel: parallel split search for large inputs
//   - pkg/errors, pkg/log: structured errors, warnings and zerolog logging
//   - cmd/woebin: command line (fit, predict, show, list, plot, version)
//
// # Command Line
//
//	woebin fit --data titanic.csv --target Survived --column Fare --exception nan
//	woebin show --model Fare
//	woebin predict --data titanic.csv --column Fare --mode index
//	woebin plot --model Fare --out fare.png
//
// Settings come from a YAML file (--config), a .env file and WOEBIN_*
// environment variables. Fitted models are kept in a BoltDB file.
package woebin
