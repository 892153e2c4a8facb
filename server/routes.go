package main

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/workflow"
)

type connectRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type colorRequest struct {
	Color string `json:"color"`
}

// newApp exposes the controller's command surface over HTTP.
func newApp(ctl *workflow.Controller) *fiber.App {
	app := fiber.New()

	app.Get("/workflow", func(c fiber.Ctx) error {
		return c.JSON(state(ctl))
	})

	app.Get("/workflow/valid", func(c fiber.Ctx) error {
		var verr *workflow.ValidationError
		if errors.As(workflow.Validate(ctl.Current()), &verr) {
			return c.JSON(fiber.Map{"valid": false, "unconnected": verr.NodeIDs})
		}
		return c.JSON(fiber.Map{"valid": true})
	})

	// ── Mutations ─────────────────────────────────────────────────────
	app.Post("/workflow/nodes", func(c fiber.Ctx) error {
		var node workflow.Node
		if err := c.Bind().JSON(&node); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		id, err := ctl.AddNode(node)
		if errors.Is(err, workflow.ErrDuplicateNode) {
			return c.Status(409).JSON(fiber.Map{"error": "node already exists"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(fiber.Map{"id": id})
	})

	app.Post("/workflow/edges", func(c fiber.Ctx) error {
		var req connectRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		err := ctl.Connect(req.Source, req.Target)
		if errors.Is(err, workflow.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(201).JSON(state(ctl))
	})

	app.Put("/workflow/nodes/:id/color", func(c fiber.Ctx) error {
		var req colorRequest
		if err := c.Bind().JSON(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
		}
		err := ctl.SetColor(c.Params("id"), req.Color)
		if errors.Is(err, workflow.ErrNodeNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(state(ctl))
	})

	// ── Persistence and history ───────────────────────────────────────
	app.Post("/workflow/save", func(c fiber.Ctx) error {
		err := ctl.Save(c.Context())
		var verr *workflow.ValidationError
		if errors.As(err, &verr) {
			return c.Status(422).JSON(fiber.Map{"error": workflow.ErrValidation.Error(), "unconnected": verr.NodeIDs})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "workflow saved"})
	})

	app.Post("/workflow/undo", func(c fiber.Ctx) error {
		changed, err := ctl.Undo(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		resp := state(ctl)
		resp["changed"] = changed
		return c.JSON(resp)
	})

	app.Post("/workflow/redo", func(c fiber.Ctx) error {
		changed, err := ctl.Redo(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		resp := state(ctl)
		resp["changed"] = changed
		return c.JSON(resp)
	})

	return app
}

func state(ctl *workflow.Controller) fiber.Map {
	st := ctl.State()
	m := fiber.Map{
		"workflow": st.Snapshot,
		"canUndo":  st.CanUndo,
		"canRedo":  st.CanRedo,
	}
	if st.Err != nil {
		m["error"] = st.Err.Error()
	}
	return m
}
