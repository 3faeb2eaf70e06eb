package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/Goodgolden/rstanarm"
	"gonum.org/v1/gonum/mat"
)

//readParams reads a whitespace-separated flat parameter vector.
func readParams(path string) []float64 {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var theta []float64
	for _, f := range strings.Fields(string(b)) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			log.Fatal("bad parameter value ", f)
		}
		theta = append(theta, v)
	}
	return theta
}

func main() {
	modelArg := flag.String("m", "", "model description file (YAML)")
	paramArg := flag.String("p", "", "flat parameter vector file, whitespace-separated")
	gradArg := flag.Bool("g", false, "also print the finite-difference gradient")
	reportArg := flag.Bool("r", true, "print the derived reporting quantities")
	flag.Parse()
	if *modelArg == "" || *paramArg == "" {
		fmt.Println("need both a model file (-m) and a parameter file (-p)")
		os.Exit(0)
	}
	cfg, err := rstanarm.LoadConfig(*modelArg)
	if err != nil {
		log.Fatal(err)
	}
	mdl, err := cfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	theta := readParams(*paramArg)
	lay := mdl.Layout()
	if len(theta) != lay.Total {
		log.Fatal("parameter vector has length ", len(theta), ", model wants ", lay.Total)
	}
	lp, err := mdl.LogPosteriorVec(theta)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("LOG-POSTERIOR ", lp)
	if *gradArg {
		grad := mdl.Gradient(nil, theta)
		fmt.Println("GRADIENT ", grad)
	}
	if *reportArg {
		p, err := mdl.Unpack(theta)
		if err != nil {
			log.Fatal(err)
		}
		rep, err := mdl.DeriveReport(p)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("RECENTERED INTERCEPTS ", rep.Alpha)
		for i, c := range rep.Corr {
			fmt.Println("GROUP", i+1, "CORRELATION")
			fmt.Printf("%v\n", mat.Formatted(c, mat.Prefix(""), mat.Squeeze()))
		}
	}
}
