package main

import (
	"os"

	"github.com/haxaco/payos-sub010/internal/cache"
	"github.com/haxaco/payos-sub010/internal/capabilities"
	"github.com/haxaco/payos-sub010/internal/mcp"
)

func main() {
	baseURL := os.Getenv("PAYOS_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	registry := capabilities.New(cache.New())
	server := mcp.NewServer(baseURL, registry)
	server.Run()
}
