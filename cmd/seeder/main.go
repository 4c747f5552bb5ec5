package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/wicketline/score-predictor/internal/logic"
	"github.com/wicketline/score-predictor/internal/models"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "predictor base URL")
	n := flag.Int("n", 5, "number of match states to submit")
	timeout := flag.Duration("timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	endpoint := strings.TrimRight(*baseURL, "/") + "/api/v1/predict"
	client := &http.Client{Timeout: *timeout}
	catalog := logic.NewCatalogService().Catalog()

	failed := 0
	for i := 0; i < *n; i++ {
		form := randomState(catalog)

		payload, err := json.Marshal(form)
		if err != nil {
			log.Fatalf("Failed to marshal JSON: %v", err)
		}

		resp, err := client.Post(endpoint, "application/json", bytes.NewReader(payload))
		if err != nil {
			log.Fatalf("Failed to send request: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		fmt.Printf("%s v %s at %s, %s/%s after %s overs (last five %s)\n",
			form.BattingTeam, form.BowlingTeam, form.City,
			form.CurrentScore, form.Wickets, form.Overs, form.LastFive)
		fmt.Printf("  Status: %s\n  Response: %s\n", resp.Status, strings.TrimSpace(string(body)))

		if resp.StatusCode != http.StatusOK {
			failed++
		}
	}

	if failed > 0 {
		log.Fatalf("%d of %d predictions failed", failed, *n)
	}
	fmt.Printf("All %d predictions succeeded\n", *n)
}

// randomState builds a plausible mid-innings state
func randomState(catalog models.Catalog) models.MatchForm {
	batting := rand.Intn(len(catalog.Teams))
	bowling := (batting + 1 + rand.Intn(len(catalog.Teams)-1)) % len(catalog.Teams)

	overs := 5 + rand.Intn(15)
	balls := rand.Intn(models.BallsPerOver)
	wickets := rand.Intn(8)
	score := overs*(5+rand.Intn(5)) + balls
	lastFive := min(score, 25+rand.Intn(30))

	return models.MatchForm{
		BattingTeam:  catalog.Teams[batting],
		BowlingTeam:  catalog.Teams[bowling],
		City:         catalog.Cities[rand.Intn(len(catalog.Cities))],
		CurrentScore: fmt.Sprint(score),
		Overs:        fmt.Sprintf("%d.%d", overs, balls),
		Wickets:      fmt.Sprint(wickets),
		LastFive:     fmt.Sprint(lastFive),
	}
}
