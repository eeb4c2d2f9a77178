// Command shadowcheck replays read traffic against the legacy Apps Script
// web app and the new API and reports response diffs. Used during cutover to
// prove both serve the same directory. Write actions are not replayed; they
// would double-submit into the shared sheet.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type target struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	LegacyAction string `json:"legacyAction"`
	Password     bool   `json:"password"`
	Critical     bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	NewStatus      int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	DurationNew    time.Duration
	DurationLegacy time.Duration
}

func main() {
	var (
		apiBase     string
		legacyBase  string
		password    string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&apiBase, "api-base", "http://localhost:8080/api/v1", "New API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "", "Legacy Apps Script exec URL")
	flag.StringVar(&password, "password", "", "Moderator password for gated targets")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadowcheck", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.Parse()

	if legacyBase == "" {
		log.Fatal("-legacy-base is required")
	}

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		comparisons  []comparison
		breaking     int
		optionalDiff int
	)

	for _, t := range targets {
		comp := compareTarget(client, apiBase, legacyBase, password, t)
		if comp.Error != nil || !comp.StatusMatch || !comp.BodyMatch {
			if t.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func compareTarget(client *http.Client, apiBase, legacyBase, password string, tgt target) comparison {
	comp := comparison{Target: tgt}

	newURL := strings.TrimRight(apiBase, "/") + tgt.Path
	legacyURL := legacyActionURL(legacyBase, tgt.LegacyAction)
	if tgt.Password {
		newURL = appendQuery(newURL, "password", password)
		legacyURL = appendQuery(legacyURL, "password", password)
	}

	newStatus, newBody, newDur, err := fetch(client, newURL)
	if err != nil {
		comp.Error = fmt.Errorf("new api request failed: %w", err)
		return comp
	}
	legacyStatus, legacyBody, legacyDur, err := fetch(client, legacyURL)
	if err != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", err)
		return comp
	}

	comp.NewStatus = newStatus
	comp.LegacyStatus = legacyStatus
	comp.DurationNew = newDur
	comp.DurationLegacy = legacyDur
	// Apps Script answers 200 even on failures, so status comparison only
	// checks that both sides consider the call successful.
	comp.StatusMatch = (newStatus < 400) == (legacyStatus < 400)
	comp.BodyMatch = bodiesEqual(newBody, legacyBody)
	return comp
}

func legacyActionURL(base, action string) string {
	if action == "" {
		return base
	}
	return appendQuery(base, "action", action)
}

func appendQuery(raw, key, value string) string {
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + key + "=" + url.QueryEscape(value)
}

func fetch(client *http.Client, target string) (int, []byte, time.Duration, error) {
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, err
	}
	return resp.StatusCode, body, time.Since(start), nil
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	normalize(&aj)
	normalize(&bj)
	return reflect.DeepEqual(aj, bj)
}

// normalize strips field-order and number-representation noise so the two
// envelopes compare on content.
func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			normalize(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func printReport(results []comparison) {
	fmt.Println("Cutover Shadow Report")
	fmt.Println("=====================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s\n", status, res.Target.Name)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  New: %d (%s) | Legacy: %d (%s)\n", res.NewStatus, res.DurationNew, res.LegacyStatus, res.DurationLegacy)
		fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
	}
}
