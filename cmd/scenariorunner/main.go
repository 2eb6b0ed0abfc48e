package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/haxaco/payos-sub010/internal/scenarios"
)

func main() {
	baseURL := os.Getenv("PAYOS_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	names := scenarios.Names()
	if len(os.Args) > 1 {
		names = os.Args[1:]
	}

	exitCode := 0
	for _, name := range names {
		result, err := scenarios.Run(baseURL, name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitCode = 1
			continue
		}
		b, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(b))
		if !result.Success {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}
