// Evaluate a trained ONNX policy over observed Hanabi positions: read
// JSONL observations and print the predicted probability of every move,
// in move UID order.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/golang/glog"

	"github.com/timpalpant/hanabi"
	"github.com/timpalpant/hanabi/model"
)

func main() {
	var gameParams hanabi.GameParams
	modelPath := flag.String("model", "models/policy.onnx",
		"ONNX policy network to evaluate")
	input := flag.String("input", "",
		"JSONL file of observations (default stdin)")
	cacheSize := flag.Int("cache_size", 100000,
		"LRU prediction cache size")
	flag.IntVar(&gameParams.NumColors, "game.colors", 0,
		"Number of card colors (0 for the standard game)")
	flag.IntVar(&gameParams.NumRanks, "game.ranks", 0,
		"Number of card ranks (0 for the standard game)")
	flag.IntVar(&gameParams.NumPlayers, "game.players", 0,
		"Number of players (0 for the standard game)")
	flag.IntVar(&gameParams.HandSize, "game.hand_size", 0,
		"Cards per hand (0 for the standard game)")
	flag.IntVar(&gameParams.MaxInformationTokens, "game.information_tokens", 0,
		"Maximum information tokens (0 for the standard game)")
	flag.IntVar(&gameParams.MaxLifeTokens, "game.life_tokens", 0,
		"Maximum life tokens (0 for the standard game)")
	flag.Parse()

	go http.ListenAndServe("localhost:4123", nil)

	game, err := hanabi.NewGame(gameParams)
	if err != nil {
		glog.Fatal(err)
	}

	policy, err := model.LoadPolicy(game, *modelPath)
	if err != nil {
		glog.Fatalf("Unable to load policy: %v", err)
	}
	defer policy.Close()
	predictor := model.NewPredictorPolicy(policy, *cacheSize)

	f := os.Stdin
	if *input != "" {
		f, err = os.Open(*input)
		if err != nil {
			glog.Fatal(err)
		}
		defer f.Close()
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for i := 0; scanner.Scan(); i++ {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var obs hanabi.Observation
		if err := json.Unmarshal(line, &obs); err != nil {
			glog.Fatalf("Parsing line %d: %v", i+1, err)
		}

		p := predictor.GetPolicy(&obs)
		fmt.Printf("observation %d:\n", i)
		for uid, prob := range p {
			fmt.Printf("  %v: %.4f\n", game.GetMove(uid), prob)
		}
	}
	if err := scanner.Err(); err != nil {
		glog.Fatal(err)
	}
}
