// Package main is Skywatch, a small ImGui window that follows the
// viewer's lighting telemetry.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/earthview/internal/inspector"
	"github.com/Faultbox/earthview/internal/logger"
)

func main() {
	addr := flag.String("addr", "localhost:8090", "Telemetry address of a running viewer")
	capacity := flag.Int("history", inspector.DefaultCapacity, "Frames kept for drift figures")
	level := flag.String("log-level", "info", "Log level")
	flag.Parse()

	if err := logger.Init(*level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	history := inspector.NewHistory(*capacity)
	client, err := inspector.NewClient(*addr, history)
	if err != nil {
		logger.Fatal("bad address", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Run(ctx)

	b, err := backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		logger.Fatal("failed to create backend", zap.Error(err))
	}
	b.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.CreateWindow("Skywatch", 520, 420)

	logger.Info("watching", zap.String("url", client.URL()))
	panel := inspector.NewPanel(client, history)
	b.Run(panel.Draw)
}
