package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/config"
	"github.com/meikuraledutech/workflow/stores"
)

func main() {
	ctx := context.Background()

	// STORE=postgres with DATABASE_URL, or STORE=redis, runs this against a
	// real backend. The default is the in-process store.
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	store, closeStore, err := stores.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeStore()
	fmt.Printf("using %s store\n", cfg.Store)

	// The session starts empty; the first save overwrites anything stored.
	ctl := workflow.NewController(workflow.NewPersistence(store, cfg.Key))

	// ── Place the steps ───────────────────────────────────────────────
	for _, n := range []workflow.Node{
		{ID: "start", Type: workflow.TypeStart, Data: workflow.NodeData{Label: "Start"}},
		{ID: "filter", Type: workflow.TypeFilter, Data: workflow.NodeData{Label: "Filter Data"}},
	} {
		if _, err := ctl.AddNode(n); err != nil {
			log.Fatalf("add node: %v", err)
		}
	}

	// ── Save before connecting: rejected ──────────────────────────────
	if err := ctl.Save(ctx); err != nil {
		fmt.Printf("save rejected: %v\n", err)
	}

	// ── Connect and save ──────────────────────────────────────────────
	if err := ctl.Connect("start", "filter"); err != nil {
		log.Fatalf("connect: %v", err)
	}
	if err := ctl.SetColor("filter", "#ffcc00"); err != nil {
		log.Fatalf("set color: %v", err)
	}
	if err := ctl.Save(ctx); err != nil {
		log.Fatalf("save: %v", err)
	}
	fmt.Println("workflow saved")
	printStored(ctx, store, cfg.Key)

	// ── Unknown node ──────────────────────────────────────────────────
	if err := ctl.Connect("missing", "filter"); err != nil {
		fmt.Printf("\nconnect rejected: %v\n", err)
	}

	// ── Undo / redo write straight through ────────────────────────────
	for range 2 {
		if _, err := ctl.Undo(ctx); err != nil {
			log.Fatalf("undo: %v", err)
		}
	}
	fmt.Println("\nafter two undos:")
	printStored(ctx, store, cfg.Key)

	if _, err := ctl.Redo(ctx); err != nil {
		log.Fatalf("redo: %v", err)
	}
	fmt.Println("\nafter redo:")
	printStored(ctx, store, cfg.Key)
}

func printStored(ctx context.Context, store workflow.Store, key string) {
	data, err := store.Get(ctx, key)
	if err != nil {
		log.Fatalf("get: %v", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		log.Fatalf("decode: %v", err)
	}
	printJSON(v)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
